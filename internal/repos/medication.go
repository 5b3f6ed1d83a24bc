package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avaraper/calily-backend/internal/pkg/logger"
	"github.com/avaraper/calily-backend/internal/types"
)

type MedicationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, med *types.Medication) (*types.Medication, error)
	GetByID(ctx context.Context, tx *gorm.DB, userID, medID uuid.UUID) (*types.Medication, error)
	Update(ctx context.Context, tx *gorm.DB, med *types.Medication) (*types.Medication, error)
	Delete(ctx context.Context, tx *gorm.DB, userID, medID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Medication, error)
}

type medicationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMedicationRepo(db *gorm.DB, baseLog *logger.Logger) MedicationRepo {
	return &medicationRepo{db: db, log: baseLog.With("repo", "MedicationRepo")}
}

func (r *medicationRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *medicationRepo) Create(ctx context.Context, tx *gorm.DB, med *types.Medication) (*types.Medication, error) {
	if err := r.conn(tx).WithContext(ctx).Create(med).Error; err != nil {
		return nil, err
	}
	return med, nil
}

func (r *medicationRepo) GetByID(ctx context.Context, tx *gorm.DB, userID, medID uuid.UUID) (*types.Medication, error) {
	var med types.Medication
	err := r.conn(tx).WithContext(ctx).
		Where("id = ? AND user_id = ?", medID, userID).
		First(&med).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &med, nil
}

func (r *medicationRepo) Update(ctx context.Context, tx *gorm.DB, med *types.Medication) (*types.Medication, error) {
	if err := r.conn(tx).WithContext(ctx).Save(med).Error; err != nil {
		return nil, err
	}
	return med, nil
}

func (r *medicationRepo) Delete(ctx context.Context, tx *gorm.DB, userID, medID uuid.UUID) (bool, error) {
	res := r.conn(tx).WithContext(ctx).
		Where("id = ? AND user_id = ?", medID, userID).
		Delete(&types.Medication{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *medicationRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Medication, error) {
	var meds []*types.Medication
	if err := r.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&meds).Error; err != nil {
		return nil, err
	}
	return meds, nil
}
