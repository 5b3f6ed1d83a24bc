package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/avaraper/calily-backend/internal/insight"
	"github.com/avaraper/calily-backend/internal/insight/engine"
	"github.com/avaraper/calily-backend/internal/insight/quota"
	"github.com/avaraper/calily-backend/internal/pkg/logger"
	"github.com/avaraper/calily-backend/internal/repos"
	"github.com/avaraper/calily-backend/internal/types"
)

// InsightService binds the generation pipeline to a user's persisted data:
// it loads the caller's entries and medications, hands them to the engine
// and records an audit row for every invocation.
type InsightService interface {
	WeeklySummary(ctx context.Context) (*insight.Result, error)
	AnalyzePatterns(ctx context.Context) (*insight.Result, error)
	IdentifyTriggers(ctx context.Context) (*insight.Result, error)
	DoctorVisitPrep(ctx context.Context) (*insight.Result, error)
	TrendAnalysis(ctx context.Context) (*insight.Result, error)
	History(ctx context.Context, limit int) ([]*types.InsightLog, error)
}

type insightService struct {
	db        *gorm.DB
	log       *logger.Logger
	engine    engine.Service
	model     string
	entryRepo repos.EntryRepo
	medRepo   repos.MedicationRepo
	logRepo   repos.InsightLogRepo
}

func NewInsightService(
	db *gorm.DB,
	log *logger.Logger,
	eng engine.Service,
	model string,
	entryRepo repos.EntryRepo,
	medRepo repos.MedicationRepo,
	logRepo repos.InsightLogRepo,
) InsightService {
	return &insightService{
		db:        db,
		log:       log.With("service", "InsightService"),
		engine:    eng,
		model:     model,
		entryRepo: entryRepo,
		medRepo:   medRepo,
		logRepo:   logRepo,
	}
}

func (is *insightService) WeeklySummary(ctx context.Context) (*insight.Result, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := is.entryRepo.ListByUserSince(ctx, nil, userID, time.Now().Add(-7*24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}
	return is.generate(ctx, userID, insight.KindWeeklySummary, entries, nil)
}

func (is *insightService) AnalyzePatterns(ctx context.Context) (*insight.Result, error) {
	return is.generateFromAll(ctx, insight.KindPatternAnalysis)
}

func (is *insightService) IdentifyTriggers(ctx context.Context) (*insight.Result, error) {
	return is.generateFromAll(ctx, insight.KindTriggerIdentification)
}

func (is *insightService) DoctorVisitPrep(ctx context.Context) (*insight.Result, error) {
	return is.generateFromAll(ctx, insight.KindDoctorVisitPrep)
}

func (is *insightService) TrendAnalysis(ctx context.Context) (*insight.Result, error) {
	return is.generateFromAll(ctx, insight.KindTrendAnalysis)
}

func (is *insightService) History(ctx context.Context, limit int) ([]*types.InsightLog, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := is.logRepo.ListByUser(ctx, nil, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load insight history: %w", err)
	}
	return rows, nil
}

// generateFromAll loads the user's full journal, and the medication list
// when the kind's config calls for it, fetching both concurrently.
func (is *insightService) generateFromAll(ctx context.Context, kind insight.Kind) (*insight.Result, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	var entries []*types.JournalEntry
	var medications []*types.Medication

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = is.entryRepo.ListByUser(gctx, nil, userID, 0)
		if err != nil {
			return fmt.Errorf("failed to load entries: %w", err)
		}
		return nil
	})
	if insight.ConfigFor(kind).UsesMedications {
		g.Go(func() error {
			var err error
			medications, err = is.medRepo.ListByUser(gctx, nil, userID)
			if err != nil {
				return fmt.Errorf("failed to load medications: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return is.generate(ctx, userID, kind, entries, medications)
}

func (is *insightService) generate(ctx context.Context, userID uuid.UUID, kind insight.Kind, entries []*types.JournalEntry, medications []*types.Medication) (*insight.Result, error) {
	result, err := is.engine.Generate(ctx, kind, deref(entries), deref(medications))
	is.audit(ctx, userID, kind, result, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// audit records the invocation outcome. Failures to write the audit row are
// logged and swallowed so they never mask the insight result.
func (is *insightService) audit(ctx context.Context, userID uuid.UUID, kind insight.Kind, result *insight.Result, genErr error) {
	row := &types.InsightLog{
		ID:     uuid.New(),
		UserID: userID,
		Kind:   string(kind),
		Model:  is.model,
	}
	switch {
	case genErr != nil:
		var exceeded *quota.ExceededError
		if errors.As(genErr, &exceeded) {
			row.Error = fmt.Sprintf("quota exceeded, retry in %dh", exceeded.RetryAfterHours)
		} else {
			row.Error = genErr.Error()
		}
	case result != nil:
		row.Success = true
		row.FromCache = result.FromCache
	}

	if _, err := is.logRepo.Create(ctx, nil, row); err != nil {
		is.log.Warn("Failed to write insight audit row", "kind", string(kind), "error", err.Error())
	}
}

func deref[T any](in []*T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}
