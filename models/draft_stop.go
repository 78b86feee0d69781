package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Stop types a creator can assign within a day.
var StopTypes = []string{
	"attraction", "food", "accommodation", "transport",
	"beach", "nightlife", "shopping", "activity",
}

// Time periods for detailed-tier stops.
var TimePeriods = []string{"morning", "afternoon", "evening"}

type DraftStop struct {
	ID               string    `gorm:"type:uuid;primaryKey" json:"id"`
	DraftDayID       string    `gorm:"type:uuid;not null;index" json:"draft_day_id"`
	Position         int       `gorm:"not null" json:"position"` // 1-based within a day
	Name             string    `gorm:"not null" json:"name"`
	Type             string    `gorm:"type:varchar(20);not null" json:"type"`
	Tip              string    `gorm:"type:text" json:"tip"`
	Description      string    `gorm:"type:text" json:"description"`
	TimePeriod       string    `gorm:"type:varchar(10)" json:"time_period"`
	StartTime        string    `gorm:"type:varchar(5)" json:"start_time"` // HH:MM
	DurationMinutes  *int      `json:"duration_minutes"`
	CostCents        *int      `json:"cost_cents"`
	Link             string    `json:"link"`
	Latitude         *float64  `gorm:"type:decimal(10,8)" json:"lat"`
	Longitude        *float64  `gorm:"type:decimal(11,8)" json:"lng"`
	PlaceID          string    `json:"place_id"`
	FormattedAddress string    `json:"formatted_address"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (s *DraftStop) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func IsValidStopType(t string) bool {
	for _, v := range StopTypes {
		if v == t {
			return true
		}
	}
	return false
}

func IsValidTimePeriod(p string) bool {
	if p == "" {
		return true
	}
	for _, v := range TimePeriods {
		if v == p {
			return true
		}
	}
	return false
}
