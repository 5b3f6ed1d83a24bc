package insight

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/avaraper/calily-backend/internal/types"
)

func makeEntries(t *testing.T, texts ...string) []types.JournalEntry {
	t.Helper()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	entries := make([]types.JournalEntry, 0, len(texts))
	for i, text := range texts {
		entries = append(entries, types.JournalEntry{
			ID:        uuid.New(),
			Text:      text,
			CreatedAt: base.Add(-time.Duration(i) * 24 * time.Hour),
		})
	}
	return entries
}

func TestBuildPromptThresholds(t *testing.T) {
	tests := []struct {
		kind       Kind
		numEntries int
		wantPrompt bool
	}{
		{KindWeeklySummary, 0, false},
		{KindWeeklySummary, 1, true},
		{KindPatternAnalysis, 4, false},
		{KindPatternAnalysis, 5, true},
		{KindTriggerIdentification, 9, false},
		{KindTriggerIdentification, 10, true},
		{KindDoctorVisitPrep, 0, false},
		{KindDoctorVisitPrep, 1, true},
		{KindTrendAnalysis, 2, false},
		{KindTrendAnalysis, 3, true},
	}

	for _, tc := range tests {
		texts := make([]string, tc.numEntries)
		for i := range texts {
			texts[i] = "felt tired today"
		}
		prompt, result := BuildPrompt(tc.kind, makeEntries(t, texts...), nil)

		if tc.wantPrompt {
			if prompt == nil {
				t.Fatalf("%s with %d entries: want prompt, got insufficient-data result", tc.kind, tc.numEntries)
			}
			if result != nil {
				t.Fatalf("%s with %d entries: want nil result, got %+v", tc.kind, tc.numEntries, result)
			}
			continue
		}
		if prompt != nil {
			t.Fatalf("%s with %d entries: want insufficient-data result, got prompt", tc.kind, tc.numEntries)
		}
		if result == nil || !result.InsufficientData {
			t.Fatalf("%s with %d entries: want InsufficientData result, got %+v", tc.kind, tc.numEntries, result)
		}
		if result.Kind != tc.kind {
			t.Fatalf("result kind: want=%s got=%s", tc.kind, result.Kind)
		}
		if result.Message == "" {
			t.Fatalf("insufficient-data result missing message")
		}
	}
}

func TestBuildPromptPatternAnalysisCapsRecentEntries(t *testing.T) {
	texts := make([]string, 40)
	for i := range texts {
		texts[i] = "headache again"
	}
	texts[0] = "MARKER_NEWEST"
	texts[35] = "MARKER_OLD"

	prompt, result := BuildPrompt(KindPatternAnalysis, makeEntries(t, texts...), nil)
	if result != nil {
		t.Fatalf("unexpected insufficient-data result: %+v", result)
	}
	if !strings.Contains(prompt.User, "MARKER_NEWEST") {
		t.Fatalf("prompt missing most recent entry")
	}
	if strings.Contains(prompt.User, "MARKER_OLD") {
		t.Fatalf("prompt includes entry beyond the 30 most recent")
	}
	if !strings.Contains(prompt.User, "these 30 entries") {
		t.Fatalf("prompt should report capped count, got: %.120s", prompt.User)
	}
}

func TestBuildPromptTriggerPartition(t *testing.T) {
	texts := []string{
		"bad flare today",
		"feeling much better",
		"severe pain in joints",
		"a good day overall",
		"neutral entry",
		"neutral entry",
		"neutral entry",
		"neutral entry",
		"neutral entry",
		"neutral entry",
	}
	prompt, result := BuildPrompt(KindTriggerIdentification, makeEntries(t, texts...), nil)
	if result != nil {
		t.Fatalf("unexpected insufficient-data result: %+v", result)
	}

	worse := prompt.User[strings.Index(prompt.User, "WORSE DAYS:"):strings.Index(prompt.User, "BETTER DAYS:")]
	better := prompt.User[strings.Index(prompt.User, "BETTER DAYS:"):]

	if !strings.Contains(worse, "bad flare today") || !strings.Contains(worse, "severe pain in joints") {
		t.Fatalf("worse-day section missing severe entries: %q", worse)
	}
	if strings.Contains(worse, "feeling much better") {
		t.Fatalf("worse-day section contains a better-day entry")
	}
	if !strings.Contains(better, "feeling much better") || !strings.Contains(better, "a good day overall") {
		t.Fatalf("better-day section missing mild entries: %q", better)
	}
}

func TestPartitionBySeverityEntryCanLandInBoth(t *testing.T) {
	entries := makeEntries(t, "bad morning but better by evening")
	severe, mild := PartitionBySeverity(entries)
	if len(severe) != 1 || len(mild) != 1 {
		t.Fatalf("want entry in both partitions, got severe=%d mild=%d", len(severe), len(mild))
	}
}

func TestBuildPromptDoctorVisitIncludesMedications(t *testing.T) {
	meds := []types.Medication{
		{ID: uuid.New(), Name: "Plaquenil", Dosage: "200mg", Frequency: "Daily"},
	}
	prompt, result := BuildPrompt(KindDoctorVisitPrep, makeEntries(t, "joint stiffness this morning"), meds)
	if result != nil {
		t.Fatalf("unexpected insufficient-data result: %+v", result)
	}
	if !strings.Contains(prompt.User, "Plaquenil 200mg (Daily)") {
		t.Fatalf("prompt missing medication line: %q", prompt.User)
	}
}

func TestEntryDateRangeHandlesAnyOrder(t *testing.T) {
	entries := makeEntries(t, "newest", "middle", "oldest")
	dr := EntryDateRange(entries)
	if dr.Start != "Feb 27, 2026" || dr.End != "Mar 1, 2026" {
		t.Fatalf("want start=Feb 27, 2026 end=Mar 1, 2026, got start=%s end=%s", dr.Start, dr.End)
	}
}
