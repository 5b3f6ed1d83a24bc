package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Medication tracks a user's medication and which doses were taken.
// TakenDoses holds opaque dose keys like "2025-06-01:Morning".
type Medication struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	Name       string         `gorm:"not null;column:name" json:"name"`
	Dosage     string         `gorm:"not null;column:dosage" json:"dosage"`
	Frequency  string         `gorm:"not null;default:Daily;column:frequency" json:"frequency"`
	TimeOfDay  string         `gorm:"not null;default:Morning;column:time_of_day" json:"time_of_day"`
	Notes      string         `gorm:"column:notes" json:"notes"`
	TrackOnly  bool           `gorm:"not null;default:false;column:track_only" json:"track_only"`
	TakenDoses datatypes.JSON `gorm:"type:json;column:taken_doses" json:"taken_doses"`
	CreatedAt  time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null" json:"updated_at"`
}

func (Medication) TableName() string {
	return "medication"
}

func (m *Medication) DoseList() []string {
	if len(m.TakenDoses) == 0 {
		return nil
	}
	var doses []string
	if err := json.Unmarshal(m.TakenDoses, &doses); err != nil {
		return nil
	}
	return doses
}

func (m *Medication) SetDoses(doses []string) error {
	if doses == nil {
		doses = []string{}
	}
	raw, err := json.Marshal(doses)
	if err != nil {
		return err
	}
	m.TakenDoses = datatypes.JSON(raw)
	return nil
}
