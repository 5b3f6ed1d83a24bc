package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avaraper/calily-backend/internal/pkg/logger"
	"github.com/avaraper/calily-backend/internal/types"
)

type InsightLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.InsightLog) (*types.InsightLog, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.InsightLog, error)
}

type insightLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInsightLogRepo(db *gorm.DB, baseLog *logger.Logger) InsightLogRepo {
	return &insightLogRepo{db: db, log: baseLog.With("repo", "InsightLogRepo")}
}

func (r *insightLogRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *insightLogRepo) Create(ctx context.Context, tx *gorm.DB, row *types.InsightLog) (*types.InsightLog, error) {
	if err := r.conn(tx).WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *insightLogRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.InsightLog, error) {
	var rows []*types.InsightLog
	q := r.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
