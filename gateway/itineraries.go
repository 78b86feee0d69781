package gateway

import (
	"math"

	"github.com/wander-list/api-go/models"
	"gorm.io/gorm"
)

type ItineraryService struct {
	DB *gorm.DB
}

func NewItineraryService(db *gorm.DB) *ItineraryService {
	return &ItineraryService{DB: db}
}

type ItineraryFilters struct {
	Destination string `form:"destination"`
	Country     string `form:"country"`
	CountryCode string `form:"country_code"`
	City        string `form:"city"`
	Search      string `form:"search"`
	MinDuration int    `form:"min_duration" binding:"omitempty,min=1"`
	MaxDuration int    `form:"max_duration" binding:"omitempty,max=90"`
	PriceTier   int    `form:"price_tier" binding:"omitempty,oneof=9 19"`

	PhysicalDemand    int `form:"physical_demand" binding:"omitempty,min=1,max=5"`
	CulturalImmersion int `form:"cultural_immersion" binding:"omitempty,min=1,max=5"`
	Pace              int `form:"pace" binding:"omitempty,min=1,max=5"`
	BudgetLevel       int `form:"budget_level" binding:"omitempty,min=1,max=5"`
	SocialStyle       int `form:"social_style" binding:"omitempty,min=1,max=5"`

	SortBy    string `form:"sort_by" binding:"omitempty,oneof=published_at price_tier view_count total_sales duration_days title"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
	Page      int    `form:"page,default=1" binding:"min=1"`
	Limit     int    `form:"limit,default=20" binding:"min=1,max=50"`
}

type ItineraryPage struct {
	Items       []models.Itinerary `json:"items"`
	CurrentPage int                `json:"currentPage"`
	PageSize    int                `json:"pageSize"`
	TotalItems  int64              `json:"totalItems"`
	TotalPages  int                `json:"totalPages"`
}

// List applies the marketplace filters. Characteristic filters join through
// the consumed draft's characteristics row.
func (s *ItineraryService) List(filters ItineraryFilters) (*ItineraryPage, error) {
	db := s.DB.Model(&models.Itinerary{}).Preload("Creator")

	if filters.Destination != "" {
		db = db.Where("destination ILIKE ?", "%"+filters.Destination+"%")
	}
	if filters.Country != "" {
		db = db.Where("country = ?", filters.Country)
	}
	if filters.CountryCode != "" {
		db = db.Where("country_code = ?", filters.CountryCode)
	}
	if filters.City != "" {
		db = db.Where("city = ?", filters.City)
	}
	if filters.Search != "" {
		like := "%" + filters.Search + "%"
		db = db.Where(
			"title ILIKE ? OR destination ILIKE ? OR country ILIKE ? OR city ILIKE ? OR ? = ANY(tags)",
			like, like, like, like, filters.Search,
		)
	}
	if filters.MinDuration > 0 {
		db = db.Where("duration_days >= ?", filters.MinDuration)
	}
	if filters.MaxDuration > 0 {
		db = db.Where("duration_days <= ?", filters.MaxDuration)
	}
	if filters.PriceTier > 0 {
		db = db.Where("price_tier = ?", filters.PriceTier)
	}

	axes := map[string]int{
		"physical_demand":    filters.PhysicalDemand,
		"cultural_immersion": filters.CulturalImmersion,
		"pace":               filters.Pace,
		"budget_level":       filters.BudgetLevel,
		"social_style":       filters.SocialStyle,
	}
	joined := false
	for col, v := range axes {
		if v == 0 {
			continue
		}
		if !joined {
			db = db.Joins("JOIN draft_characteristics ON draft_characteristics.draft_id = itineraries.draft_id")
			joined = true
		}
		db = db.Where("draft_characteristics."+col+" = ?", v)
	}

	sortBy := filters.SortBy
	if sortBy == "" {
		sortBy = "published_at"
	}
	order := "DESC"
	if filters.SortOrder == "asc" {
		order = "ASC"
	}
	db = db.Order("itineraries." + sortBy + " " + order)

	page := filters.Page
	if page < 1 {
		page = 1
	}
	limit := filters.Limit
	if limit < 1 {
		limit = 20
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, translate(err)
	}

	var items []models.Itinerary
	if err := db.Offset((page - 1) * limit).Limit(limit).Find(&items).Error; err != nil {
		return nil, translate(err)
	}

	return &ItineraryPage{
		Items:       items,
		CurrentPage: page,
		PageSize:    limit,
		TotalItems:  total,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// ItineraryDetail carries the published record plus the day/stop subtree it
// shares with its consumed draft, and the flattened characteristics.
type ItineraryDetail struct {
	models.Itinerary
	Days              []models.DraftDay `json:"days"`
	PhysicalDemand    int               `json:"physical_demand"`
	CulturalImmersion int               `json:"cultural_immersion"`
	Pace              int               `json:"pace"`
	BudgetLevel       int               `json:"budget_level"`
	SocialStyle       int               `json:"social_style"`
}

func (s *ItineraryService) Get(id string) (*ItineraryDetail, error) {
	var itinerary models.Itinerary
	err := s.DB.Preload("Creator").Where("id = ?", id).First(&itinerary).Error
	if err != nil {
		return nil, translate(err)
	}

	detail := ItineraryDetail{Itinerary: itinerary}
	err = s.DB.
		Preload("Stops", func(db *gorm.DB) *gorm.DB { return db.Order("draft_stops.position") }).
		Where("draft_id = ?", itinerary.DraftID).
		Order("day_number").
		Find(&detail.Days).Error
	if err != nil {
		return nil, translate(err)
	}

	var chars models.DraftCharacteristics
	if err := s.DB.Where("draft_id = ?", itinerary.DraftID).First(&chars).Error; err == nil {
		detail.PhysicalDemand = chars.PhysicalDemand
		detail.CulturalImmersion = chars.CulturalImmersion
		detail.Pace = chars.Pace
		detail.BudgetLevel = chars.BudgetLevel
		detail.SocialStyle = chars.SocialStyle
	}
	return &detail, nil
}

// IncrementView bumps the counter server-side so concurrent views don't lose
// updates.
func (s *ItineraryService) IncrementView(id string) error {
	res := s.DB.Exec("UPDATE itineraries SET view_count = view_count + 1 WHERE id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
