package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// The three optional "essentials" sections. Each is 0..1 per draft, free text.

type DraftTransportation struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	DraftID       string    `gorm:"type:uuid;not null;uniqueIndex" json:"draft_id"`
	GettingThere  string    `gorm:"type:text" json:"getting_there"`
	GettingAround string    `gorm:"type:text" json:"getting_around"`
	LocalTips     string    `gorm:"type:text" json:"local_tips"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type DraftAccommodation struct {
	ID                  string    `gorm:"type:uuid;primaryKey" json:"id"`
	DraftID             string    `gorm:"type:uuid;not null;uniqueIndex" json:"draft_id"`
	AreaRecommendations string    `gorm:"type:text" json:"area_recommendations"`
	BookingTips         string    `gorm:"type:text" json:"booking_tips"`
	PriceRanges         string    `gorm:"type:text" json:"price_ranges"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type DraftTravelTips struct {
	ID              string    `gorm:"type:uuid;primaryKey" json:"id"`
	DraftID         string    `gorm:"type:uuid;not null;uniqueIndex" json:"draft_id"`
	BestTimeToVisit string    `gorm:"type:text" json:"best_time_to_visit"`
	CulturalEtiquette string  `gorm:"type:text" json:"cultural_etiquette"`
	PackingTips     string    `gorm:"type:text" json:"packing_tips"`
	SafetyNotes     string    `gorm:"type:text" json:"safety_notes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (t *DraftTransportation) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func (a *DraftAccommodation) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func (t *DraftTravelTips) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// HasContent helpers let the save path skip empty sections.

func (t *DraftTransportation) HasContent() bool {
	return t != nil && (t.GettingThere != "" || t.GettingAround != "" || t.LocalTips != "")
}

func (a *DraftAccommodation) HasContent() bool {
	return a != nil && (a.AreaRecommendations != "" || a.BookingTips != "" || a.PriceRanges != "")
}

func (t *DraftTravelTips) HasContent() bool {
	return t != nil && (t.BestTimeToVisit != "" || t.CulturalEtiquette != "" || t.PackingTips != "" || t.SafetyNotes != "")
}
