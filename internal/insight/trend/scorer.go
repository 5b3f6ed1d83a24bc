// Package trend turns the model's trend-analysis output into a structured
// result. The model is asked for strict JSON; when it returns anything else
// the scorer degrades to a deterministic local estimate instead of failing.
package trend

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/avaraper/calily-backend/internal/insight"
	"github.com/avaraper/calily-backend/internal/types"
)

var negativeKeywords = []string{"bad", "worse", "terrible", "awful", "pain", "flare", "severe"}
var positiveKeywords = []string{"good", "better", "great", "improving", "mild"}

const fallbackInsight = "Not enough reliable signal to analyze this period in depth. Keep tracking your health to reveal longer-term trends."

// Sanitize strips an optional surrounding code fence. Models sometimes wrap
// JSON in a fenced block even when told not to.
func Sanitize(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Parse sanitizes and strictly parses model output into a TrendResult.
func Parse(raw string) (*insight.TrendResult, error) {
	var result insight.TrendResult
	if err := json.Unmarshal([]byte(Sanitize(raw)), &result); err != nil {
		return nil, fmt.Errorf("trend parse: %w", err)
	}

	if len(result.DailyScores) == 0 {
		return nil, fmt.Errorf("trend parse: no daily scores")
	}
	for _, ds := range result.DailyScores {
		if ds.Score < 1 || ds.Score > 10 {
			return nil, fmt.Errorf("trend parse: score %d out of range for %s", ds.Score, ds.Date)
		}
	}
	switch result.TrendDirection {
	case "improving", "declining", "stable":
	default:
		return nil, fmt.Errorf("trend parse: unknown direction %q", result.TrendDirection)
	}
	if result.Correlations == nil {
		result.Correlations = []string{}
	}
	return &result, nil
}

// Fallback computes a local trend estimate from sentiment keyword counts.
// Pure: identical entries always produce identical output.
func Fallback(entries []types.JournalEntry) *insight.TrendResult {
	sorted := make([]types.JournalEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	scores := make([]insight.DailyScore, 0, len(sorted))
	for _, e := range sorted {
		scores = append(scores, insight.DailyScore{
			Date:  e.CreatedAt.Format("2006-01-02"),
			Score: FallbackScore(e.Text),
		})
	}

	return &insight.TrendResult{
		DailyScores:     scores,
		TrendDirection:  "stable",
		TrendPercentage: 0,
		Insight:         fallbackInsight,
		Correlations:    []string{},
	}
}

// FallbackScore rates one entry: start neutral at 5, minus one per negative
// keyword occurrence, plus one per positive, clamped to [1,10].
func FallbackScore(text string) int {
	lower := strings.ToLower(text)
	score := 5
	for _, kw := range negativeKeywords {
		score -= strings.Count(lower, kw)
	}
	for _, kw := range positiveKeywords {
		score += strings.Count(lower, kw)
	}
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}

// Score parses model output, falling back to the local estimate on any
// malformed response. Parse failures are always recovered here, never
// surfaced to callers.
func Score(raw string, entries []types.JournalEntry) *insight.TrendResult {
	if result, err := Parse(raw); err == nil {
		return result
	}
	return Fallback(entries)
}
