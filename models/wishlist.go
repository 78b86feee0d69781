package models

import (
	"time"
)

// Wishlist entries have set semantics: one row per (user, itinerary).
type Wishlist struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      string    `gorm:"type:uuid;not null;uniqueIndex:idx_wishlists_user_itinerary" json:"user_id"`
	User        User      `json:"-" gorm:"foreignKey:UserID"`
	ItineraryID string    `gorm:"type:uuid;not null;uniqueIndex:idx_wishlists_user_itinerary" json:"itinerary_id"`
	Itinerary   Itinerary `json:"itinerary" gorm:"foreignKey:ItineraryID"`
	AddedAt     time.Time `gorm:"autoCreateTime" json:"added_at"`
}
