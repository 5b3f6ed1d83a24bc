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

type EntryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entry *types.JournalEntry) (*types.JournalEntry, error)
	GetByID(ctx context.Context, tx *gorm.DB, userID, entryID uuid.UUID) (*types.JournalEntry, error)
	Update(ctx context.Context, tx *gorm.DB, entry *types.JournalEntry) (*types.JournalEntry, error)
	Delete(ctx context.Context, tx *gorm.DB, userID, entryID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.JournalEntry, error)
	ListByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.JournalEntry, error)
	Search(ctx context.Context, tx *gorm.DB, userID uuid.UUID, query string) ([]*types.JournalEntry, error)
}

type entryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEntryRepo(db *gorm.DB, baseLog *logger.Logger) EntryRepo {
	return &entryRepo{db: db, log: baseLog.With("repo", "EntryRepo")}
}

func (r *entryRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *entryRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.JournalEntry) (*types.JournalEntry, error) {
	if err := r.conn(tx).WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *entryRepo) GetByID(ctx context.Context, tx *gorm.DB, userID, entryID uuid.UUID) (*types.JournalEntry, error) {
	var entry types.JournalEntry
	err := r.conn(tx).WithContext(ctx).
		Where("id = ? AND user_id = ?", entryID, userID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *entryRepo) Update(ctx context.Context, tx *gorm.DB, entry *types.JournalEntry) (*types.JournalEntry, error) {
	if err := r.conn(tx).WithContext(ctx).Save(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *entryRepo) Delete(ctx context.Context, tx *gorm.DB, userID, entryID uuid.UUID) (bool, error) {
	res := r.conn(tx).WithContext(ctx).
		Where("id = ? AND user_id = ?", entryID, userID).
		Delete(&types.JournalEntry{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *entryRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.JournalEntry, error) {
	var entries []*types.JournalEntry
	q := r.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *entryRepo) ListByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.JournalEntry, error) {
	var entries []*types.JournalEntry
	if err := r.conn(tx).WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Search matches the query against entry text and the serialized tag list.
// Tags are stored as a JSON array, so a LIKE over the column text covers
// tag matches without dialect-specific JSON operators.
func (r *entryRepo) Search(ctx context.Context, tx *gorm.DB, userID uuid.UUID, query string) ([]*types.JournalEntry, error) {
	var entries []*types.JournalEntry
	pattern := "%" + query + "%"
	if err := r.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Where("lower(text) LIKE lower(?) OR lower(cast(tags as text)) LIKE lower(?)", pattern, pattern).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
