package insight

import "fmt"

// Kind names one of the supported analysis types.
type Kind string

const (
	KindWeeklySummary         Kind = "weekly-summary"
	KindPatternAnalysis       Kind = "pattern-analysis"
	KindTriggerIdentification Kind = "trigger-identification"
	KindDoctorVisitPrep       Kind = "doctor-visit-prep"
	KindTrendAnalysis         Kind = "trend-analysis"
)

// KindConfig holds the per-kind input rules so the five analysis types share
// one build path instead of five parallel ones.
type KindConfig struct {
	MinEntries int
	// RecentCap bounds how many of the most recent entries are rendered into
	// the prompt. Zero means no cap.
	RecentCap int
	// UsesMedications marks kinds whose prompt includes the medication list.
	UsesMedications bool
	// InsufficientMessage is returned as an informational outcome when the
	// entry count is below MinEntries.
	InsufficientMessage string
}

var kindConfigs = map[Kind]KindConfig{
	KindWeeklySummary: {
		MinEntries:          1,
		InsufficientMessage: "No entries logged this week. Start journaling to see your health patterns.",
	},
	KindPatternAnalysis: {
		MinEntries:          5,
		RecentCap:           30,
		InsufficientMessage: "Need at least 5 journal entries to identify meaningful patterns. Keep journaling!",
	},
	KindTriggerIdentification: {
		MinEntries:          10,
		InsufficientMessage: "Need at least 10 entries to identify triggers.",
	},
	KindDoctorVisitPrep: {
		MinEntries:          1,
		RecentCap:           15,
		UsesMedications:     true,
		InsufficientMessage: "No entries to prepare from. Log some entries before your visit.",
	},
	KindTrendAnalysis: {
		MinEntries:          3,
		UsesMedications:     true,
		InsufficientMessage: "Need at least 3 entries to generate trend analysis.",
	},
}

// ParseKind validates a caller-supplied kind string.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := kindConfigs[k]; !ok {
		return "", fmt.Errorf("unknown insight kind %q", s)
	}
	return k, nil
}

// ConfigFor returns the input rules for a kind. Unknown kinds get a zero
// config, which gates nothing; callers should validate with ParseKind first.
func ConfigFor(kind Kind) KindConfig {
	return kindConfigs[kind]
}

// Kinds returns the supported kinds in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindWeeklySummary,
		KindPatternAnalysis,
		KindTriggerIdentification,
		KindDoctorVisitPrep,
		KindTrendAnalysis,
	}
}
