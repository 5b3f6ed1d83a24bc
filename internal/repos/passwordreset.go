package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avaraper/calily-backend/internal/pkg/logger"
	"github.com/avaraper/calily-backend/internal/types"
)

type PasswordResetRepo interface {
	Create(ctx context.Context, tx *gorm.DB, reset *types.PasswordReset) (*types.PasswordReset, error)
	GetByUserAndCode(ctx context.Context, tx *gorm.DB, userID uuid.UUID, code string) (*types.PasswordReset, error)
	DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
	DeleteExpired(ctx context.Context, tx *gorm.DB, cutoff time.Time) error
}

type passwordResetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPasswordResetRepo(db *gorm.DB, baseLog *logger.Logger) PasswordResetRepo {
	return &passwordResetRepo{db: db, log: baseLog.With("repo", "PasswordResetRepo")}
}

func (r *passwordResetRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *passwordResetRepo) Create(ctx context.Context, tx *gorm.DB, reset *types.PasswordReset) (*types.PasswordReset, error) {
	if err := r.conn(tx).WithContext(ctx).Create(reset).Error; err != nil {
		return nil, err
	}
	return reset, nil
}

func (r *passwordResetRepo) GetByUserAndCode(ctx context.Context, tx *gorm.DB, userID uuid.UUID, code string) (*types.PasswordReset, error) {
	var reset types.PasswordReset
	err := r.conn(tx).WithContext(ctx).
		Where("user_id = ? AND code = ?", userID, code).
		First(&reset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reset, nil
}

func (r *passwordResetRepo) DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	return r.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&types.PasswordReset{}).Error
}

func (r *passwordResetRepo) DeleteExpired(ctx context.Context, tx *gorm.DB, cutoff time.Time) error {
	return r.conn(tx).WithContext(ctx).
		Where("expires_at < ?", cutoff).
		Delete(&types.PasswordReset{}).Error
}
