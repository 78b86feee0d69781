package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Itinerary is the published snapshot of a draft. The draft row is consumed by
// the publish_draft procedure (is_published flips true) and keeps owning the
// day/stop subtree; the itinerary references it through DraftID.
type Itinerary struct {
	ID            string         `gorm:"type:uuid;primaryKey" json:"id"`
	DraftID       string         `gorm:"type:uuid;not null;uniqueIndex" json:"draft_id"`
	CreatorID     string         `gorm:"type:uuid;not null;index" json:"creator_id"`
	Creator       User           `json:"creator" gorm:"foreignKey:CreatorID"`
	Title         string         `gorm:"type:varchar(100);not null" json:"title"`
	Destination   string         `json:"destination"`
	Country       string         `json:"country"`
	CountryCode   string         `gorm:"type:varchar(2)" json:"country_code"`
	Region        string         `json:"region"`
	City          string         `json:"city"`
	Latitude      float64        `gorm:"type:decimal(10,8)" json:"lat"`
	Longitude     float64        `gorm:"type:decimal(11,8)" json:"lng"`
	PlaceID       string         `json:"place_id"`
	DurationDays  int            `json:"duration_days"`
	Description   string         `gorm:"type:text" json:"description"`
	CoverImageURL string         `json:"cover_image_url"`
	PriceTier     int            `gorm:"not null" json:"price_tier"`
	Tags          pq.StringArray `gorm:"type:text[]" json:"tags"`
	ViewCount     int            `gorm:"default:0" json:"view_count"`
	TotalSales    int            `gorm:"default:0" json:"total_sales"`
	PublishedAt   time.Time      `json:"published_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (i *Itinerary) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
