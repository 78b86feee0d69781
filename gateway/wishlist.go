package gateway

import (
	"github.com/wander-list/api-go/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WishlistService struct {
	DB *gorm.DB
}

func NewWishlistService(db *gorm.DB) *WishlistService {
	return &WishlistService{DB: db}
}

// Add is idempotent: re-adding an itinerary keeps the original added_at.
func (s *WishlistService) Add(userID, itineraryID string) error {
	var count int64
	if err := s.DB.Model(&models.Itinerary{}).Where("id = ?", itineraryID).Count(&count).Error; err != nil {
		return translate(err)
	}
	if count == 0 {
		return ErrNotFound
	}
	entry := models.Wishlist{UserID: userID, ItineraryID: itineraryID}
	err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry).Error
	return translate(err)
}

func (s *WishlistService) Remove(userID, itineraryID string) error {
	res := s.DB.Where("user_id = ? AND itinerary_id = ?", userID, itineraryID).
		Delete(&models.Wishlist{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *WishlistService) List(userID string) ([]models.Wishlist, error) {
	var entries []models.Wishlist
	err := s.DB.
		Preload("Itinerary").
		Preload("Itinerary.Creator").
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, translate(err)
	}
	return entries, nil
}

func (s *WishlistService) Check(userID, itineraryID string) (bool, error) {
	var count int64
	err := s.DB.Model(&models.Wishlist{}).
		Where("user_id = ? AND itinerary_id = ?", userID, itineraryID).
		Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}
