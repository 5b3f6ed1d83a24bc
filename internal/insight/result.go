package insight

import "time"

// DateRange brackets the entries an analysis covered.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DailyScore is one point on the trend graph.
type DailyScore struct {
	Date  string `json:"date"`
	Score int    `json:"score"`
	Note  string `json:"note,omitempty"`
}

// TrendResult is the structured payload for trend-analysis.
type TrendResult struct {
	DailyScores     []DailyScore `json:"dailyScores"`
	TrendDirection  string       `json:"trendDirection"`
	TrendPercentage float64      `json:"trendPercentage"`
	Insight         string       `json:"insight"`
	Correlations    []string     `json:"correlations"`
}

// Result is the discriminated outcome of one pipeline invocation. Kind
// selects which of the per-kind fields are populated; the rest stay zero and
// are omitted from JSON.
type Result struct {
	Kind        Kind      `json:"kind"`
	FromCache   bool      `json:"fromCache"`
	GeneratedAt time.Time `json:"generatedAt"`

	// InsufficientData marks the informational "not enough entries" outcome.
	// It is a valid result, not an error.
	InsufficientData bool   `json:"insufficientData,omitempty"`
	Message          string `json:"message,omitempty"`

	// weekly-summary
	Summary    string     `json:"summary,omitempty"`
	EntryCount int        `json:"entryCount,omitempty"`
	DateRange  *DateRange `json:"dateRange,omitempty"`

	// pattern-analysis
	Patterns         string         `json:"patterns,omitempty"`
	SymptomFrequency map[string]int `json:"symptomFrequency,omitempty"`
	EntriesAnalyzed  int            `json:"entriesAnalyzed,omitempty"`
	TotalEntries     int            `json:"totalEntries,omitempty"`

	// trigger-identification
	Triggers         string `json:"triggers,omitempty"`
	SevereEntryCount int    `json:"severeEntryCount,omitempty"`
	MildEntryCount   int    `json:"mildEntryCount,omitempty"`

	// doctor-visit-prep
	Preparation     string `json:"preparation,omitempty"`
	MedicationCount int    `json:"medicationCount,omitempty"`

	// trend-analysis
	Trend *TrendResult `json:"trend,omitempty"`
}
