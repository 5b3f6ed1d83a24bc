package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avaraper/calily-backend/internal/pkg/logger"
	"github.com/avaraper/calily-backend/internal/repos"
	"github.com/avaraper/calily-backend/internal/types"
)

// MedicationInput is the caller-supplied portion of a medication write.
type MedicationInput struct {
	Name      string
	Dosage    string
	Frequency string
	TimeOfDay string
	Notes     string
	TrackOnly bool
}

type MedicationService interface {
	CreateMedication(ctx context.Context, input MedicationInput) (*types.Medication, error)
	UpdateMedication(ctx context.Context, medID uuid.UUID, input MedicationInput) (*types.Medication, error)
	DeleteMedication(ctx context.Context, medID uuid.UUID) error
	ListMedications(ctx context.Context) ([]*types.Medication, error)
	ToggleDose(ctx context.Context, medID uuid.UUID, doseKey string) (*types.Medication, error)
}

type medicationService struct {
	db      *gorm.DB
	log     *logger.Logger
	medRepo repos.MedicationRepo
}

func NewMedicationService(db *gorm.DB, log *logger.Logger, medRepo repos.MedicationRepo) MedicationService {
	return &medicationService{
		db:      db,
		log:     log.With("service", "MedicationService"),
		medRepo: medRepo,
	}
}

func (ms *medicationService) CreateMedication(ctx context.Context, input MedicationInput) (*types.Medication, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateMedicationInput(input); err != nil {
		return nil, err
	}

	med := &types.Medication{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      strings.TrimSpace(input.Name),
		Dosage:    strings.TrimSpace(input.Dosage),
		Frequency: defaultIfEmpty(input.Frequency, "Daily"),
		TimeOfDay: defaultIfEmpty(input.TimeOfDay, "Morning"),
		Notes:     input.Notes,
		TrackOnly: input.TrackOnly,
	}
	if err := med.SetDoses(nil); err != nil {
		return nil, fmt.Errorf("failed to init doses: %w", err)
	}

	created, err := ms.medRepo.Create(ctx, nil, med)
	if err != nil {
		return nil, fmt.Errorf("failed to create medication: %w", err)
	}
	return created, nil
}

func (ms *medicationService) UpdateMedication(ctx context.Context, medID uuid.UUID, input MedicationInput) (*types.Medication, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	med, err := ms.medRepo.GetByID(ctx, nil, userID, medID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch medication: %w", err)
	}
	if med == nil {
		return nil, fmt.Errorf("medication not found")
	}
	if err := validateMedicationInput(input); err != nil {
		return nil, err
	}

	med.Name = strings.TrimSpace(input.Name)
	med.Dosage = strings.TrimSpace(input.Dosage)
	med.Frequency = defaultIfEmpty(input.Frequency, "Daily")
	med.TimeOfDay = defaultIfEmpty(input.TimeOfDay, "Morning")
	med.Notes = input.Notes
	med.TrackOnly = input.TrackOnly

	updated, err := ms.medRepo.Update(ctx, nil, med)
	if err != nil {
		return nil, fmt.Errorf("failed to update medication: %w", err)
	}
	return updated, nil
}

func (ms *medicationService) DeleteMedication(ctx context.Context, medID uuid.UUID) error {
	userID, err := callerID(ctx)
	if err != nil {
		return err
	}
	deleted, err := ms.medRepo.Delete(ctx, nil, userID, medID)
	if err != nil {
		return fmt.Errorf("failed to delete medication: %w", err)
	}
	if !deleted {
		return fmt.Errorf("medication not found")
	}
	return nil
}

func (ms *medicationService) ListMedications(ctx context.Context) ([]*types.Medication, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	meds, err := ms.medRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}
	return meds, nil
}

// ToggleDose flips one dose key ("2026-03-01:Morning") on the taken list.
func (ms *medicationService) ToggleDose(ctx context.Context, medID uuid.UUID, doseKey string) (*types.Medication, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	doseKey = strings.TrimSpace(doseKey)
	if doseKey == "" {
		return nil, fmt.Errorf("dose key is required")
	}

	med, err := ms.medRepo.GetByID(ctx, nil, userID, medID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch medication: %w", err)
	}
	if med == nil {
		return nil, fmt.Errorf("medication not found")
	}

	doses := med.DoseList()
	found := false
	next := make([]string, 0, len(doses)+1)
	for _, d := range doses {
		if d == doseKey {
			found = true
			continue
		}
		next = append(next, d)
	}
	if !found {
		next = append(next, doseKey)
	}
	if err := med.SetDoses(next); err != nil {
		return nil, fmt.Errorf("failed to encode doses: %w", err)
	}

	updated, err := ms.medRepo.Update(ctx, nil, med)
	if err != nil {
		return nil, fmt.Errorf("failed to save dose: %w", err)
	}
	return updated, nil
}

func validateMedicationInput(input MedicationInput) error {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Dosage) == "" {
		return fmt.Errorf("medication name and dosage are required")
	}
	return nil
}

func defaultIfEmpty(val, fallback string) string {
	if strings.TrimSpace(val) == "" {
		return fallback
	}
	return strings.TrimSpace(val)
}
