package types

import (
	"time"

	"github.com/google/uuid"
)

// PasswordReset is one outstanding 6-digit reset code. A user has at most
// one active code; requesting a new one replaces it.
type PasswordReset struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	Code      string    `gorm:"not null;column:code" json:"-"`
	ExpiresAt time.Time `gorm:"not null;column:expires_at" json:"expires_at"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (PasswordReset) TableName() string {
	return "password_reset"
}
