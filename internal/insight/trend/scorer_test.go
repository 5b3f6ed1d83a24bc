package trend

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/avaraper/calily-backend/internal/types"
)

func TestSanitizeStripsCodeFences(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced with language", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  \n```json\n{\"a\":1}\n```\n ", `{"a":1}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Sanitize(tc.raw); got != tc.want {
				t.Fatalf("want=%q got=%q", tc.want, got)
			}
		})
	}
}

func TestParseValidJSON(t *testing.T) {
	raw := "```json\n" +
		`{"dailyScores":[{"date":"2026-02-23","score":6,"note":"steady"},{"date":"2026-02-24","score":8}],"trendDirection":"improving","trendPercentage":12.5,"insight":"Scores trended upward.","correlations":["better sleep"]}` +
		"\n```"

	result, err := Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(result.DailyScores) != 2 {
		t.Fatalf("dailyScores: want=2 got=%d", len(result.DailyScores))
	}
	if result.TrendDirection != "improving" {
		t.Fatalf("direction: want=improving got=%s", result.TrendDirection)
	}
	if result.TrendPercentage != 12.5 {
		t.Fatalf("percentage: want=12.5 got=%v", result.TrendPercentage)
	}
}

func TestParseRejectsMalformedOutput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"prose", "The trend looks stable overall."},
		{"empty scores", `{"dailyScores":[],"trendDirection":"stable"}`},
		{"score out of range", `{"dailyScores":[{"date":"2026-02-23","score":11}],"trendDirection":"stable"}`},
		{"unknown direction", `{"dailyScores":[{"date":"2026-02-23","score":5}],"trendDirection":"sideways"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(tc.raw); err == nil {
				t.Fatalf("want parse error for %q", tc.raw)
			}
		})
	}
}

func trendEntries(t *testing.T, texts ...string) []types.JournalEntry {
	t.Helper()
	base := time.Date(2026, 2, 20, 8, 0, 0, 0, time.UTC)
	entries := make([]types.JournalEntry, 0, len(texts))
	for i, text := range texts {
		entries = append(entries, types.JournalEntry{
			ID:        uuid.New(),
			Text:      text,
			CreatedAt: base.Add(time.Duration(i) * 24 * time.Hour),
		})
	}
	return entries
}

func TestFallbackScores(t *testing.T) {
	entries := trendEntries(t,
		"feeling bad and severe pain",
		"good day, feeling better",
	)

	result := Fallback(entries)

	if len(result.DailyScores) != 2 {
		t.Fatalf("dailyScores: want=2 got=%d", len(result.DailyScores))
	}
	// 5 minus one each for bad, severe, pain; 5 plus one each for good, better.
	if got := []int{result.DailyScores[0].Score, result.DailyScores[1].Score}; !reflect.DeepEqual(got, []int{2, 7}) {
		t.Fatalf("scores: want=[2 7] got=%v", got)
	}
	if result.TrendDirection != "stable" {
		t.Fatalf("direction: want=stable got=%s", result.TrendDirection)
	}
	if result.TrendPercentage != 0 {
		t.Fatalf("percentage: want=0 got=%v", result.TrendPercentage)
	}
	if len(result.Correlations) != 0 {
		t.Fatalf("correlations: want empty got=%v", result.Correlations)
	}
}

func TestFallbackScoreClamps(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"bad worse terrible awful pain flare severe", 1},
		{"good better great improving mild mild good", 10},
		{"nothing notable", 5},
	}
	for _, tc := range tests {
		if got := FallbackScore(tc.text); got != tc.want {
			t.Fatalf("%q: want=%d got=%d", tc.text, tc.want, got)
		}
	}
}

func TestFallbackDeterministicAndOldestFirst(t *testing.T) {
	entries := trendEntries(t, "bad flare", "steady", "feeling better")
	// Shuffle input order; output stays oldest first.
	shuffled := []types.JournalEntry{entries[2], entries[0], entries[1]}

	first := Fallback(shuffled)
	second := Fallback(shuffled)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("fallback not deterministic")
	}
	if first.DailyScores[0].Date != "2026-02-20" || first.DailyScores[2].Date != "2026-02-22" {
		t.Fatalf("scores not ordered oldest first: %+v", first.DailyScores)
	}
}

func TestScoreUsesFallbackOnMalformedOutput(t *testing.T) {
	entries := trendEntries(t, "bad day", "good day", "fine day")
	result := Score("Sorry, I could not produce JSON.", entries)
	if result.TrendDirection != "stable" {
		t.Fatalf("want fallback result, got direction=%s", result.TrendDirection)
	}
	if len(result.DailyScores) != 3 {
		t.Fatalf("dailyScores: want=3 got=%d", len(result.DailyScores))
	}
}
