package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Price tiers sold on the marketplace. Basic stops carry a tip, detailed
// stops carry timing and cost fields.
const (
	PriceTierEssential = 9
	PriceTierDetailed  = 19
)

type Draft struct {
	ID                       string     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                   string     `gorm:"type:uuid;not null;index" json:"user_id"`
	User                     User       `json:"-" gorm:"foreignKey:UserID"`
	Title                    string     `gorm:"type:varchar(100)" json:"title"`
	Destination              string     `json:"destination"`
	Country                  string     `json:"country"`
	CountryCode              string     `gorm:"type:varchar(2)" json:"country_code"`
	Region                   string     `json:"region"`
	City                     string     `json:"city"`
	Latitude                 float64    `gorm:"type:decimal(10,8)" json:"lat"`
	Longitude                float64    `gorm:"type:decimal(11,8)" json:"lng"`
	PlaceID                  string     `json:"place_id"`
	DurationDays             int        `gorm:"check:duration_days between 1 and 90" json:"duration_days"`
	Description              string     `gorm:"type:text" json:"description"`
	CoverImageURL            string     `json:"cover_image_url"`
	PriceTier                int        `gorm:"not null;check:price_tier in (9, 19)" json:"price_tier"`
	TierLocked               bool       `gorm:"default:false" json:"tier_locked"`
	CurrentStep              int        `gorm:"default:1;check:current_step between 1 and 4" json:"current_step"`
	CharacteristicsCompleted bool       `gorm:"default:false" json:"characteristics_completed"`
	HasUnsavedChanges        bool       `gorm:"default:false" json:"has_unsaved_changes"`
	IsPublished              bool       `gorm:"default:false" json:"is_published"`
	LastSavedAt              *time.Time `json:"last_saved_at"`
	CreatedAt                time.Time  `json:"created_at"`
	UpdatedAt                time.Time  `json:"updated_at"`

	Days            []DraftDay            `json:"days" gorm:"foreignKey:DraftID;constraint:OnDelete:CASCADE"`
	Characteristics *DraftCharacteristics `json:"characteristics,omitempty" gorm:"foreignKey:DraftID;constraint:OnDelete:CASCADE"`
	Transportation  *DraftTransportation  `json:"transportation,omitempty" gorm:"foreignKey:DraftID;constraint:OnDelete:CASCADE"`
	Accommodation   *DraftAccommodation   `json:"accommodation,omitempty" gorm:"foreignKey:DraftID;constraint:OnDelete:CASCADE"`
	TravelTips      *DraftTravelTips      `json:"travel_tips,omitempty" gorm:"foreignKey:DraftID;constraint:OnDelete:CASCADE"`
}

func (d *Draft) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
