package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DraftDay struct {
	ID          string      `gorm:"type:uuid;primaryKey" json:"id"`
	DraftID     string      `gorm:"type:uuid;not null;index" json:"draft_id"`
	DayNumber   int         `gorm:"not null" json:"day_number"` // 1-based, contiguous within a draft
	Title       string      `json:"title"`
	Description string      `gorm:"type:text" json:"description"`
	Stops       []DraftStop `json:"stops" gorm:"foreignKey:DraftDayID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (d *DraftDay) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
