package insight

import "testing"

func TestEveryKindIsConfigured(t *testing.T) {
	for _, kind := range Kinds() {
		cfg := ConfigFor(kind)
		if cfg.MinEntries < 1 {
			t.Fatalf("kind %s: MinEntries must be at least 1, got %d", kind, cfg.MinEntries)
		}
		if cfg.InsufficientMessage == "" {
			t.Fatalf("kind %s: missing insufficient-data message", kind)
		}
		parsed, err := ParseKind(string(kind))
		if err != nil {
			t.Fatalf("kind %s: ParseKind rejected its own name: %v", kind, err)
		}
		if parsed != kind {
			t.Fatalf("ParseKind round trip: want=%s got=%s", kind, parsed)
		}
	}
}

func TestParseKindRejectsUnknown(t *testing.T) {
	for _, bad := range []string{"", "summary", "weekly_summary", "WEEKLY-SUMMARY"} {
		if _, err := ParseKind(bad); err == nil {
			t.Fatalf("ParseKind(%q): want error, got nil", bad)
		}
	}
}

func TestMedicationKinds(t *testing.T) {
	wantMeds := map[Kind]bool{
		KindWeeklySummary:         false,
		KindPatternAnalysis:       false,
		KindTriggerIdentification: false,
		KindDoctorVisitPrep:       true,
		KindTrendAnalysis:         true,
	}
	for kind, want := range wantMeds {
		if got := ConfigFor(kind).UsesMedications; got != want {
			t.Fatalf("kind %s: UsesMedications want=%v got=%v", kind, want, got)
		}
	}
}
