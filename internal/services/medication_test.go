package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/avaraper/calily-backend/internal/pkg/logger"
	"github.com/avaraper/calily-backend/internal/repos"
)

func newMedicationServiceForTest(t *testing.T) MedicationService {
	t.Helper()
	db := newTestDB(t)
	log := logger.NewNop()
	return NewMedicationService(db, log, repos.NewMedicationRepo(db, log))
}

func TestCreateMedicationAppliesDefaults(t *testing.T) {
	svc := newMedicationServiceForTest(t)
	ctx := authedCtx(uuid.New())

	med, err := svc.CreateMedication(ctx, MedicationInput{Name: "  Plaquenil ", Dosage: "200mg"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if med.Name != "Plaquenil" {
		t.Fatalf("name not trimmed: %q", med.Name)
	}
	if med.Frequency != "Daily" || med.TimeOfDay != "Morning" {
		t.Fatalf("defaults not applied: %q %q", med.Frequency, med.TimeOfDay)
	}
	if len(med.DoseList()) != 0 {
		t.Fatalf("new medication should start with no taken doses, got %v", med.DoseList())
	}

	if _, err := svc.CreateMedication(ctx, MedicationInput{Name: "   ", Dosage: "200mg"}); err == nil {
		t.Fatalf("want error for empty name")
	}
	if _, err := svc.CreateMedication(ctx, MedicationInput{Name: "Plaquenil", Dosage: "  "}); err == nil {
		t.Fatalf("want error for empty dosage")
	}
	if _, err := svc.UpdateMedication(ctx, med.ID, MedicationInput{Name: "Plaquenil"}); err == nil {
		t.Fatalf("want error updating to empty dosage")
	}
}

func TestToggleDoseFlipsKey(t *testing.T) {
	svc := newMedicationServiceForTest(t)
	ctx := authedCtx(uuid.New())

	med, err := svc.CreateMedication(ctx, MedicationInput{Name: "Plaquenil", Dosage: "200mg"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	key := "2026-03-01:Morning"
	toggled, err := svc.ToggleDose(ctx, med.ID, key)
	if err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if got := toggled.DoseList(); len(got) != 1 || got[0] != key {
		t.Fatalf("want [%s] got %v", key, got)
	}

	toggled, err = svc.ToggleDose(ctx, med.ID, key)
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if got := toggled.DoseList(); len(got) != 0 {
		t.Fatalf("want empty dose list after second toggle, got %v", got)
	}
}

func TestToggleDoseScopesToOwner(t *testing.T) {
	svc := newMedicationServiceForTest(t)

	med, err := svc.CreateMedication(authedCtx(uuid.New()), MedicationInput{Name: "Plaquenil", Dosage: "200mg"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.ToggleDose(authedCtx(uuid.New()), med.ID, "2026-03-01:Morning"); err == nil {
		t.Fatalf("want error toggling another user's medication")
	}
}
