// Package engine orchestrates one insight request end to end: threshold
// gate, cache lookup, quota reservation, provider call, kind-specific
// wrapping, cache write.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/avaraper/calily-backend/internal/insight"
	"github.com/avaraper/calily-backend/internal/insight/cache"
	"github.com/avaraper/calily-backend/internal/insight/quota"
	"github.com/avaraper/calily-backend/internal/insight/tagger"
	"github.com/avaraper/calily-backend/internal/insight/trend"
	"github.com/avaraper/calily-backend/internal/pkg/httpx"
	"github.com/avaraper/calily-backend/internal/pkg/logger"
	"github.com/avaraper/calily-backend/internal/types"
	"github.com/avaraper/calily-backend/internal/utils"
)

// InferenceClient is the one capability the engine needs from the provider.
type InferenceClient interface {
	GenerateText(ctx context.Context, system string, user string) (string, error)
	Model() string
}

// Service generates insights over caller-supplied, already user-scoped
// entry and medication collections. It never touches persistence itself.
type Service interface {
	Generate(ctx context.Context, kind insight.Kind, entries []types.JournalEntry, medications []types.Medication) (*insight.Result, error)
}

type service struct {
	client  InferenceClient
	guard   *quota.Guard
	cache   cache.Store
	log     *logger.Logger
	tracer  oteltrace.Tracer
	timeout time.Duration
	now     func() time.Time
}

func NewService(client InferenceClient, guard *quota.Guard, cacheStore cache.Store, log *logger.Logger) Service {
	return &service{
		client:  client,
		guard:   guard,
		cache:   cacheStore,
		log:     log.With("service", "InsightEngine"),
		tracer:  otel.Tracer("insight-engine"),
		timeout: time.Duration(utils.GetEnvAsInt("AI_REQUEST_TIMEOUT_SECONDS", 45, log)) * time.Second,
		now:     time.Now,
	}
}

func (s *service) Generate(ctx context.Context, kind insight.Kind, entries []types.JournalEntry, medications []types.Medication) (*insight.Result, error) {
	if _, err := insight.ParseKind(string(kind)); err != nil {
		return nil, err
	}

	prompt, short := insight.BuildPrompt(kind, entries, medications)
	if short != nil {
		short.GeneratedAt = s.now().UTC()
		return short, nil
	}

	key := insight.CacheKey(kind, entries, medications)
	if cached := s.lookup(ctx, key); cached != nil {
		cached.FromCache = true
		return cached, nil
	}

	if err := s.guard.TryReserve(ctx); err != nil {
		return nil, err
	}

	raw, err := s.infer(ctx, kind, prompt)
	if err != nil {
		return nil, s.classify(kind, err)
	}

	result := s.wrap(kind, raw, entries, medications)
	s.store(ctx, key, result)
	return result, nil
}

func (s *service) lookup(ctx context.Context, key string) *insight.Result {
	payload, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn("Cache lookup failed, treating as miss", "key", key, "error", err.Error())
		return nil
	}
	if !ok {
		return nil
	}
	var result insight.Result
	if err := json.Unmarshal(payload, &result); err != nil {
		s.log.Warn("Discarding undecodable cache entry", "key", key, "error", err.Error())
		return nil
	}
	return &result
}

func (s *service) store(ctx context.Context, key string, result *insight.Result) {
	payload, err := json.Marshal(result)
	if err != nil {
		s.log.Warn("Result not cacheable", "key", key, "error", err.Error())
		return
	}
	if err := s.cache.Put(ctx, key, payload); err != nil {
		s.log.Warn("Cache write failed", "key", key, "error", err.Error())
	}
}

func (s *service) infer(ctx context.Context, kind insight.Kind, prompt *insight.Prompt) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ctx, span := s.tracer.Start(ctx, "insight.infer", oteltrace.WithAttributes(
		attribute.String("insight.kind", string(kind)),
		attribute.String("insight.model", s.client.Model()),
	))
	defer span.End()

	raw, err := s.client.GenerateText(ctx, prompt.System, prompt.User)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	return raw, nil
}

// classify maps provider failures into the pipeline's error taxonomy: a 429
// becomes a quota denial with a short retry hint, everything else a
// ProviderError the caller may retry manually.
func (s *service) classify(kind insight.Kind, err error) error {
	var coder httpx.HTTPStatusCoder
	if errors.As(err, &coder) && coder.HTTPStatusCode() == http.StatusTooManyRequests {
		s.log.Warn("Upstream rate limit hit", "kind", string(kind))
		return &quota.ExceededError{RetryAfterHours: 1}
	}
	s.log.Error("Inference call failed", "kind", string(kind), "error", err.Error())
	return &insight.ProviderError{Kind: kind, Err: err}
}

func (s *service) wrap(kind insight.Kind, raw string, entries []types.JournalEntry, medications []types.Medication) *insight.Result {
	cfg := insight.ConfigFor(kind)
	scoped := entries
	if cfg.RecentCap > 0 && len(scoped) > cfg.RecentCap {
		scoped = scoped[:cfg.RecentCap]
	}

	result := &insight.Result{
		Kind:        kind,
		GeneratedAt: s.now().UTC(),
	}

	switch kind {
	case insight.KindWeeklySummary:
		dr := insight.EntryDateRange(entries)
		result.Summary = raw
		result.EntryCount = len(entries)
		result.DateRange = &dr

	case insight.KindPatternAnalysis:
		texts := make([]string, 0, len(entries))
		for _, e := range entries {
			texts = append(texts, e.Text)
		}
		result.Patterns = raw
		result.SymptomFrequency = tagger.Frequency(texts)
		result.EntriesAnalyzed = len(scoped)
		result.TotalEntries = len(entries)

	case insight.KindTriggerIdentification:
		severe, mild := insight.PartitionBySeverity(entries)
		result.Triggers = raw
		result.SevereEntryCount = len(severe)
		result.MildEntryCount = len(mild)

	case insight.KindDoctorVisitPrep:
		result.Preparation = raw
		result.EntryCount = len(scoped)
		result.MedicationCount = len(medications)

	case insight.KindTrendAnalysis:
		result.EntryCount = len(entries)
		result.Trend = trend.Score(raw, entries)
	}

	return result
}
