package insight

import (
	"fmt"
	"strings"

	"github.com/avaraper/calily-backend/internal/types"
)

// Prompt is one rendered request for the inference provider.
type Prompt struct {
	System string
	User   string
}

const dateLayout = "Jan 2, 2006"

var severeKeywords = []string{"flare", "bad", "severe", "worse"}
var mildKeywords = []string{"better", "good", "mild"}

// BuildPrompt renders the provider request for a kind, or short-circuits with
// an informational result when the entry count is below the kind's minimum.
// Entries are expected newest-first; caps keep the most recent ones.
func BuildPrompt(kind Kind, entries []types.JournalEntry, medications []types.Medication) (*Prompt, *Result) {
	cfg := ConfigFor(kind)

	if len(entries) < cfg.MinEntries {
		return nil, &Result{
			Kind:             kind,
			InsufficientData: true,
			Message:          cfg.InsufficientMessage,
			EntryCount:       len(entries),
			TotalEntries:     len(entries),
		}
	}

	scoped := entries
	if cfg.RecentCap > 0 && len(scoped) > cfg.RecentCap {
		scoped = scoped[:cfg.RecentCap]
	}

	switch kind {
	case KindWeeklySummary:
		return buildWeeklySummary(scoped), nil
	case KindPatternAnalysis:
		return buildPatternAnalysis(scoped), nil
	case KindTriggerIdentification:
		return buildTriggerIdentification(scoped), nil
	case KindDoctorVisitPrep:
		return buildDoctorVisitPrep(scoped, medications), nil
	case KindTrendAnalysis:
		return buildTrendAnalysis(scoped, medications), nil
	default:
		return nil, &Result{
			Kind:             kind,
			InsufficientData: true,
			Message:          fmt.Sprintf("unsupported insight kind %q", kind),
		}
	}
}

func formatEntryLines(entries []types.JournalEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s: %s", e.CreatedAt.Format(dateLayout), e.Text))
	}
	return strings.Join(lines, "\n")
}

// EntryDateRange reports the oldest and newest entry dates regardless of the
// order the caller supplied them in.
func EntryDateRange(entries []types.JournalEntry) DateRange {
	if len(entries) == 0 {
		return DateRange{}
	}
	oldest, newest := entries[0], entries[0]
	for _, e := range entries[1:] {
		if e.CreatedAt.Before(oldest.CreatedAt) {
			oldest = e
		}
		if e.CreatedAt.After(newest.CreatedAt) {
			newest = e
		}
	}
	return DateRange{
		Start: oldest.CreatedAt.Format(dateLayout),
		End:   newest.CreatedAt.Format(dateLayout),
	}
}

func buildWeeklySummary(entries []types.JournalEntry) *Prompt {
	dr := EntryDateRange(entries)
	return &Prompt{
		System: "You are a compassionate health analyst. Provide brief, supportive summaries of health journal entries. Focus on observations only, not medical advice.",
		User: fmt.Sprintf(
			"Analyze these journal entries from %s to %s:\n\n%s\n\nProvide a brief summary (4-5 sentences): overall week, common symptoms, patterns, encouraging note.",
			dr.Start, dr.End, formatEntryLines(entries),
		),
	}
}

func buildPatternAnalysis(entries []types.JournalEntry) *Prompt {
	return &Prompt{
		System: "You are a health pattern analyst. Identify patterns in health data. Never diagnose. Only observe and suggest questions for healthcare providers.",
		User: fmt.Sprintf(
			"Analyze these %d entries:\n\n%s\n\nIdentify: top symptoms, patterns, correlations, questions for doctor.",
			len(entries), formatEntryLines(entries),
		),
	}
}

// PartitionBySeverity splits entries into groups whose text mentions a
// worse-day or better-day keyword. An entry can land in both groups.
func PartitionBySeverity(entries []types.JournalEntry) (severe, mild []types.JournalEntry) {
	for _, e := range entries {
		text := strings.ToLower(e.Text)
		for _, kw := range severeKeywords {
			if strings.Contains(text, kw) {
				severe = append(severe, e)
				break
			}
		}
		for _, kw := range mildKeywords {
			if strings.Contains(text, kw) {
				mild = append(mild, e)
				break
			}
		}
	}
	return severe, mild
}

func bulletLines(entries []types.JournalEntry, limit int) string {
	if len(entries) > limit {
		entries = entries[:limit]
	}
	if len(entries) == 0 {
		return "Limited data"
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, "- "+e.Text)
	}
	return strings.Join(lines, "\n")
}

func buildTriggerIdentification(entries []types.JournalEntry) *Prompt {
	severe, mild := PartitionBySeverity(entries)
	return &Prompt{
		System: "You identify potential correlations in symptom patterns. Be cautious and emphasize correlation, not causation.",
		User: fmt.Sprintf(
			"Identify triggers:\n\nWORSE DAYS:\n%s\n\nBETTER DAYS:\n%s\n\nIdentify: potential triggers, better day factors, patterns to monitor.",
			bulletLines(severe, 10), bulletLines(mild, 10),
		),
	}
}

func formatMedicationLines(medications []types.Medication) string {
	if len(medications) == 0 {
		return "None listed"
	}
	lines := make([]string, 0, len(medications))
	for _, m := range medications {
		line := "- " + m.Name
		if m.Dosage != "" {
			line += " " + m.Dosage
		}
		if m.Frequency != "" {
			line += " (" + m.Frequency + ")"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func buildDoctorVisitPrep(entries []types.JournalEntry, medications []types.Medication) *Prompt {
	return &Prompt{
		System: "You help patients prepare for doctor visits. Summarize symptoms factually and suggest questions to ask. Never diagnose or give medical advice.",
		User: fmt.Sprintf(
			"Prepare a doctor visit summary from these recent entries:\n\n%s\n\nCurrent medications:\n%s\n\nProvide: symptom summary, notable changes, 2-3 questions to ask the doctor.",
			formatEntryLines(entries), formatMedicationLines(medications),
		),
	}
}

func buildTrendAnalysis(entries []types.JournalEntry, medications []types.Medication) *Prompt {
	return &Prompt{
		System: "You are a health trend analyst. Respond ONLY with valid JSON matching the requested schema. No prose outside the JSON.",
		User: fmt.Sprintf(
			"Score each entry's day for overall wellbeing and return strict JSON:\n\n"+
				`{"dailyScores":[{"date":"YYYY-MM-DD","score":5,"note":"short note"}],"trendDirection":"improving|declining|stable","trendPercentage":0,"insight":"2-3 sentence observation","correlations":["short phrase"]}`+
				"\n\nEntries:\n%s\n\nMedications:\n%s\n\nScores are integers from 1 (worst) to 10 (best). One dailyScores element per entry, oldest first.",
			formatEntryLines(entries), formatMedicationLines(medications),
		),
	}
}
