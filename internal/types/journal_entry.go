package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// JournalEntry is a user's free-text health log. Tags are derived from the
// text on every save and are never user-editable.
type JournalEntry struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	Text      string         `gorm:"not null;size:1000;column:text" json:"text"`
	Tags      datatypes.JSON `gorm:"type:json;column:tags" json:"tags"`
	ImageData []byte         `gorm:"column:image_data" json:"-"`
	ImageType string         `gorm:"column:image_type" json:"image_type,omitempty"`
	ImageName string         `gorm:"column:image_name" json:"image_name,omitempty"`
	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (JournalEntry) TableName() string {
	return "journal_entry"
}

// TagList decodes the stored tag JSON. A missing or malformed column reads
// as an empty list.
func (e *JournalEntry) TagList() []string {
	if len(e.Tags) == 0 {
		return nil
	}
	var tags []string
	if err := json.Unmarshal(e.Tags, &tags); err != nil {
		return nil
	}
	return tags
}

// SetTags encodes tags into the JSON column.
func (e *JournalEntry) SetTags(tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return err
	}
	e.Tags = datatypes.JSON(raw)
	return nil
}
