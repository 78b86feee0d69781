package gateway

import (
	"time"

	"github.com/wander-list/api-go/models"
	"gorm.io/gorm"
)

type DraftService struct {
	DB *gorm.DB
}

func NewDraftService(db *gorm.DB) *DraftService {
	return &DraftService{DB: db}
}

// StopInput and DayInput describe the replacement day/stop subtree handed to
// SaveComplete. Positions and day numbers are assigned from input order.
type StopInput struct {
	Name             string   `json:"name"`
	Type             string   `json:"type"`
	Tip              string   `json:"tip"`
	Description      string   `json:"description"`
	TimePeriod       string   `json:"time_period"`
	StartTime        string   `json:"start_time"`
	DurationMinutes  *int     `json:"duration_minutes"`
	CostCents        *int     `json:"cost_cents"`
	Link             string   `json:"link"`
	Latitude         *float64 `json:"lat"`
	Longitude        *float64 `json:"lng"`
	PlaceID          string   `json:"place_id"`
	FormattedAddress string   `json:"formatted_address"`
}

type DayInput struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Stops       []StopInput `json:"stops"`
}

type SaveCompleteInput struct {
	Fields map[string]interface{} `json:"fields"`
	Days   []DayInput             `json:"days"`
}

// Columns a sparse update may touch. price_tier is absent: it is immutable
// once tier_locked, which Create always sets.
var updatableDraftColumns = map[string]bool{
	"title": true, "destination": true, "country": true, "country_code": true,
	"region": true, "city": true, "latitude": true, "longitude": true,
	"place_id": true, "duration_days": true, "description": true,
	"cover_image_url": true, "current_step": true,
	"characteristics_completed": true, "has_unsaved_changes": true,
}

// Create opens a new draft with the tier locked in and the wizard already on
// step 2 (step 1 commits through SaveComplete immediately after).
func (s *DraftService) Create(userID string, priceTier int) (*models.Draft, error) {
	if priceTier != models.PriceTierEssential && priceTier != models.PriceTierDetailed {
		return nil, invalid("price_tier must be 9 or 19")
	}
	draft := models.Draft{
		UserID:      userID,
		PriceTier:   priceTier,
		TierLocked:  true,
		CurrentStep: 2,
	}
	if err := s.DB.Create(&draft).Error; err != nil {
		return nil, translate(err)
	}
	return &draft, nil
}

// Get loads a draft with its full subtree, scoped to the owner. Days come
// back ordered by day_number and stops by position.
func (s *DraftService) Get(userID, id string) (*models.Draft, error) {
	var draft models.Draft
	err := s.DB.
		Preload("Days", func(db *gorm.DB) *gorm.DB { return db.Order("draft_days.day_number") }).
		Preload("Days.Stops", func(db *gorm.DB) *gorm.DB { return db.Order("draft_stops.position") }).
		Preload("Characteristics").
		Preload("Transportation").
		Preload("Accommodation").
		Preload("TravelTips").
		Where("id = ? AND user_id = ?", id, userID).
		First(&draft).Error
	if err != nil {
		return nil, translate(err)
	}
	return &draft, nil
}

// DraftPreview flattens the characteristics row into top-level fields for the
// review step and the buyer projection.
type DraftPreview struct {
	models.Draft
	PhysicalDemand    int `json:"physical_demand"`
	CulturalImmersion int `json:"cultural_immersion"`
	Pace              int `json:"pace"`
	BudgetLevel       int `json:"budget_level"`
	SocialStyle       int `json:"social_style"`
}

func (s *DraftService) GetPreview(userID, id string) (*DraftPreview, error) {
	draft, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}
	preview := DraftPreview{Draft: *draft}
	if c := draft.Characteristics; c != nil {
		preview.PhysicalDemand = c.PhysicalDemand
		preview.CulturalImmersion = c.CulturalImmersion
		preview.Pace = c.Pace
		preview.BudgetLevel = c.BudgetLevel
		preview.SocialStyle = c.SocialStyle
	}
	return &preview, nil
}

// List returns the owner's unpublished drafts, most recently edited first.
func (s *DraftService) List(userID string) ([]models.Draft, error) {
	var drafts []models.Draft
	err := s.DB.
		Where("user_id = ? AND is_published = false", userID).
		Order("updated_at DESC").
		Find(&drafts).Error
	if err != nil {
		return nil, translate(err)
	}
	return drafts, nil
}

// Update merges a sparse field set, bumps last_saved_at and clears
// has_unsaved_changes. Unknown columns are rejected rather than ignored.
func (s *DraftService) Update(userID, id string, fields map[string]interface{}) error {
	updates := map[string]interface{}{}
	for col, v := range fields {
		if !updatableDraftColumns[col] {
			return invalid("field not updatable: " + col)
		}
		updates[col] = v
	}
	updates["last_saved_at"] = time.Now()
	updates["has_unsaved_changes"] = false

	res := s.DB.Model(&models.Draft{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveComplete replaces the draft's whole day/stop subtree: metadata update,
// delete of all day rows (stops cascade), one batch insert of days, one batch
// insert of stops keyed by the day inserted at the same input position. The
// sequence runs in a transaction so a mid-way failure rolls back instead of
// leaving the subtree empty.
func (s *DraftService) SaveComplete(userID, id string, input SaveCompleteInput) (*models.Draft, error) {
	if len(input.Days) == 0 {
		return nil, invalid("at least one day is required")
	}
	for _, day := range input.Days {
		for _, stop := range day.Stops {
			if stop.Type != "" && !models.IsValidStopType(stop.Type) {
				return nil, invalid("unknown stop type: " + stop.Type)
			}
			if !models.IsValidTimePeriod(stop.TimePeriod) {
				return nil, invalid("unknown time period: " + stop.TimePeriod)
			}
		}
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		fields := input.Fields
		if fields == nil {
			fields = map[string]interface{}{}
		}
		updates := map[string]interface{}{}
		for col, v := range fields {
			if !updatableDraftColumns[col] {
				return invalid("field not updatable: " + col)
			}
			updates[col] = v
		}
		updates["duration_days"] = len(input.Days)
		updates["last_saved_at"] = time.Now()
		updates["has_unsaved_changes"] = false

		res := tx.Model(&models.Draft{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(updates)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := tx.Where("draft_id = ?", id).Delete(&models.DraftDay{}).Error; err != nil {
			return translate(err)
		}

		days := make([]models.DraftDay, len(input.Days))
		for i, day := range input.Days {
			days[i] = models.DraftDay{
				DraftID:     id,
				DayNumber:   i + 1,
				Title:       day.Title,
				Description: day.Description,
			}
		}
		if err := tx.Create(&days).Error; err != nil {
			return translate(err)
		}

		var stops []models.DraftStop
		for i, day := range input.Days {
			for j, stop := range day.Stops {
				stops = append(stops, models.DraftStop{
					DraftDayID:       days[i].ID,
					Position:         j + 1,
					Name:             stop.Name,
					Type:             stop.Type,
					Tip:              stop.Tip,
					Description:      stop.Description,
					TimePeriod:       stop.TimePeriod,
					StartTime:        stop.StartTime,
					DurationMinutes:  stop.DurationMinutes,
					CostCents:        stop.CostCents,
					Link:             stop.Link,
					Latitude:         stop.Latitude,
					Longitude:        stop.Longitude,
					PlaceID:          stop.PlaceID,
					FormattedAddress: stop.FormattedAddress,
				})
			}
		}
		if len(stops) > 0 {
			if err := tx.Create(&stops).Error; err != nil {
				return translate(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(userID, id)
}

// Delete removes a draft and, through the cascade, its whole subtree.
func (s *DraftService) Delete(userID, id string) error {
	res := s.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Draft{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Publish hands the draft to the publish_draft procedure and returns the new
// itinerary id. The procedure flips is_published and snapshots the row.
func (s *DraftService) Publish(userID, id string) (string, error) {
	var draft models.Draft
	err := s.DB.Select("id").Where("id = ? AND user_id = ? AND is_published = false", id, userID).
		First(&draft).Error
	if err != nil {
		return "", translate(err)
	}

	var itineraryID string
	if err := s.DB.Raw("SELECT publish_draft(?)", id).Scan(&itineraryID).Error; err != nil {
		return "", translate(err)
	}
	if itineraryID == "" {
		return "", ErrTransient
	}
	return itineraryID, nil
}
