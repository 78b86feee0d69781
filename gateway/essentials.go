package gateway

import (
	"sync"

	"github.com/wander-list/api-go/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Essentials bundles the three optional sections for the fan-out read.
type Essentials struct {
	Transportation *models.DraftTransportation `json:"transportation"`
	Accommodation  *models.DraftAccommodation  `json:"accommodation"`
	TravelTips     *models.DraftTravelTips     `json:"travel_tips"`
	HasAny         bool                        `json:"has_any"`
}

func (s *DraftService) ownedDraft(userID, draftID string) error {
	var count int64
	if err := s.DB.Model(&models.Draft{}).
		Where("id = ? AND user_id = ?", draftID, userID).
		Count(&count).Error; err != nil {
		return translate(err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *DraftService) GetCharacteristics(userID, draftID string) (*models.DraftCharacteristics, error) {
	if err := s.ownedDraft(userID, draftID); err != nil {
		return nil, err
	}
	var row models.DraftCharacteristics
	err := s.DB.Where("draft_id = ?", draftID).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

// SaveCharacteristics upserts by draft_id and flips the draft's
// characteristics_completed flag on success.
func (s *DraftService) SaveCharacteristics(userID, draftID string, row models.DraftCharacteristics) error {
	if err := s.ownedDraft(userID, draftID); err != nil {
		return err
	}
	row.DraftID = draftID
	if !row.Complete() {
		return invalid("all five characteristics must be between 1 and 5")
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "draft_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"physical_demand", "cultural_immersion", "pace", "budget_level", "social_style",
			}),
		}).Create(&row).Error
		if err != nil {
			return translate(err)
		}
		err = tx.Model(&models.Draft{}).Where("id = ?", draftID).
			Update("characteristics_completed", true).Error
		return translate(err)
	})
}

func (s *DraftService) GetTransportation(userID, draftID string) (*models.DraftTransportation, error) {
	if err := s.ownedDraft(userID, draftID); err != nil {
		return nil, err
	}
	var row models.DraftTransportation
	err := s.DB.Where("draft_id = ?", draftID).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

func (s *DraftService) SaveTransportation(userID, draftID string, row models.DraftTransportation) error {
	if err := s.ownedDraft(userID, draftID); err != nil {
		return err
	}
	row.DraftID = draftID
	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "draft_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"getting_there", "getting_around", "local_tips"}),
	}).Create(&row).Error
	return translate(err)
}

func (s *DraftService) GetAccommodation(userID, draftID string) (*models.DraftAccommodation, error) {
	if err := s.ownedDraft(userID, draftID); err != nil {
		return nil, err
	}
	var row models.DraftAccommodation
	err := s.DB.Where("draft_id = ?", draftID).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

func (s *DraftService) SaveAccommodation(userID, draftID string, row models.DraftAccommodation) error {
	if err := s.ownedDraft(userID, draftID); err != nil {
		return err
	}
	row.DraftID = draftID
	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "draft_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"area_recommendations", "booking_tips", "price_ranges"}),
	}).Create(&row).Error
	return translate(err)
}

func (s *DraftService) GetTravelTips(userID, draftID string) (*models.DraftTravelTips, error) {
	if err := s.ownedDraft(userID, draftID); err != nil {
		return nil, err
	}
	var row models.DraftTravelTips
	err := s.DB.Where("draft_id = ?", draftID).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

func (s *DraftService) SaveTravelTips(userID, draftID string, row models.DraftTravelTips) error {
	if err := s.ownedDraft(userID, draftID); err != nil {
		return err
	}
	row.DraftID = draftID
	err := s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "draft_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"best_time_to_visit", "cultural_etiquette", "packing_tips", "safety_notes",
		}),
	}).Create(&row).Error
	return translate(err)
}

// GetAllEssentials fans the three reads out in parallel; the first error wins.
func (s *DraftService) GetAllEssentials(userID, draftID string) (*Essentials, error) {
	if err := s.ownedDraft(userID, draftID); err != nil {
		return nil, err
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		out  Essentials
		errs []error
	)
	fail := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		row, err := s.GetTransportation(userID, draftID)
		if err != nil {
			fail(err)
			return
		}
		out.Transportation = row
	}()
	go func() {
		defer wg.Done()
		row, err := s.GetAccommodation(userID, draftID)
		if err != nil {
			fail(err)
			return
		}
		out.Accommodation = row
	}()
	go func() {
		defer wg.Done()
		row, err := s.GetTravelTips(userID, draftID)
		if err != nil {
			fail(err)
			return
		}
		out.TravelTips = row
	}()
	wg.Wait()

	if len(errs) > 0 {
		return nil, errs[0]
	}
	out.HasAny = out.Transportation.HasContent() || out.Accommodation.HasContent() || out.TravelTips.HasContent()
	return &out, nil
}
