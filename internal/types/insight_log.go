package types

import (
	"time"

	"github.com/google/uuid"
)

// InsightLog is an audit row written for every insight pipeline invocation,
// whether it was served from cache, denied by quota or generated upstream.
type InsightLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;column:user_id" json:"user_id"`
	Kind      string    `gorm:"not null;column:kind" json:"kind"`
	Model     string    `gorm:"column:model" json:"model"`
	FromCache bool      `gorm:"not null;column:from_cache" json:"from_cache"`
	Success   bool      `gorm:"not null;column:success" json:"success"`
	Error     string    `gorm:"column:error" json:"error,omitempty"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (InsightLog) TableName() string {
	return "insight_log"
}
