package preview

import (
	"fmt"

	"github.com/wander-list/api-go/gateway"
	"github.com/wander-list/api-go/models"
)

// Context selects whose eyes the projection is for.
type Context string

const (
	// ContextPreview is the creator previewing their own draft.
	ContextPreview Context = "preview"
	// ContextView is a buyer looking at a published itinerary.
	ContextView Context = "view"
	// ContextEdit is the creator viewing their own published itinerary.
	ContextEdit Context = "edit"
)

// View is a JSON-ready view model.
type View map[string]interface{}

// Record is the itinerary-shaped input both drafts and published
// itineraries adapt into before projection.
type Record struct {
	ID            string
	Title         string
	Destination   string
	Description   string
	CoverImageURL string
	PriceTier     int
	DurationDays  int
	Days          []models.DraftDay

	PhysicalDemand    int
	CulturalImmersion int
	Pace              int
	BudgetLevel       int
	SocialStyle       int

	Transportation *models.DraftTransportation
	Accommodation  *models.DraftAccommodation
	TravelTips     *models.DraftTravelTips

	CreatorName   string
	CreatorAvatar string
	ViewCount     int
	TotalSales    int
}

// FromDraftPreview adapts the review-step payload.
func FromDraftPreview(p *gateway.DraftPreview) Record {
	return Record{
		ID:                p.ID,
		Title:             p.Title,
		Destination:       p.Destination,
		Description:       p.Description,
		CoverImageURL:     p.CoverImageURL,
		PriceTier:         p.PriceTier,
		DurationDays:      p.DurationDays,
		Days:              p.Days,
		PhysicalDemand:    p.PhysicalDemand,
		CulturalImmersion: p.CulturalImmersion,
		Pace:              p.Pace,
		BudgetLevel:       p.BudgetLevel,
		SocialStyle:       p.SocialStyle,
		Transportation:    p.Transportation,
		Accommodation:     p.Accommodation,
		TravelTips:        p.TravelTips,
	}
}

// FromItinerary adapts a published itinerary. Essentials are not loaded on
// the buyer path; unpurchased viewers only ever see their placeholders.
func FromItinerary(d *gateway.ItineraryDetail) Record {
	return Record{
		ID:                d.ID,
		Title:             d.Title,
		Destination:       d.Destination,
		Description:       d.Description,
		CoverImageURL:     d.CoverImageURL,
		PriceTier:         d.PriceTier,
		DurationDays:      d.DurationDays,
		Days:              d.Days,
		PhysicalDemand:    d.PhysicalDemand,
		CulturalImmersion: d.CulturalImmersion,
		Pace:              d.Pace,
		BudgetLevel:       d.BudgetLevel,
		SocialStyle:       d.SocialStyle,
		CreatorName:       d.Creator.Username,
		CreatorAvatar:     d.Creator.Avatar,
		ViewCount:         d.ViewCount,
		TotalSales:        d.TotalSales,
	}
}

// UnlockedDays is the free-preview set for an unpurchased viewer: day 0
// only for short trips, day 0 plus the middle day otherwise.
func UnlockedDays(durationDays int) []int {
	if durationDays <= 5 {
		return []int{0}
	}
	return []int{0, durationDays / 2}
}

// Project renders the record for a context. Creator contexts (preview,
// edit) behave as purchased: everything is visible. The buyer view locks
// all days outside the preview set and replaces essentials with
// placeholders.
func Project(r Record, ctx Context) View {
	purchased := ctx == ContextPreview || ctx == ContextEdit
	detailed := r.PriceTier == models.PriceTierDetailed

	unlocked := map[int]bool{}
	if !purchased {
		for _, i := range UnlockedDays(r.DurationDays) {
			unlocked[i] = true
		}
	}

	days := make([]View, len(r.Days))
	for i, day := range r.Days {
		if purchased || unlocked[i] {
			days[i] = dayView(day, detailed)
		} else {
			days[i] = View{
				"day_number": day.DayNumber,
				"title":      day.Title,
				"locked":     true,
				"stop_count": len(day.Stops),
			}
		}
	}

	return View{
		"context":      ctx,
		"is_purchased": purchased,
		"header": View{
			"title":           r.Title,
			"destination":     r.Destination,
			"description":     r.Description,
			"cover_image_url": r.CoverImageURL,
			"price_tier":      r.PriceTier,
			"badge":           TierBadge(r.PriceTier),
		},
		"characteristics": View{
			"physical_demand":    r.PhysicalDemand,
			"cultural_immersion": r.CulturalImmersion,
			"pace":               r.Pace,
			"budget_level":       r.BudgetLevel,
			"social_style":       r.SocialStyle,
		},
		"stats":      statsView(r),
		"days":       days,
		"essentials": essentialsView(r, purchased),
	}
}

func statsView(r Record) View {
	totalStops, avgPerDay := CardStats(r.Days, r.DurationDays)
	return View{
		"duration_days":     r.DurationDays,
		"total_stops":       totalStops,
		"avg_stops_per_day": avgPerDay,
		"view_count":        r.ViewCount,
		"total_sales":       r.TotalSales,
	}
}

func dayView(day models.DraftDay, detailed bool) View {
	stops := make([]View, len(day.Stops))
	for j, stop := range day.Stops {
		stops[j] = stopView(stop, detailed)
	}
	return View{
		"day_number":  day.DayNumber,
		"title":       day.Title,
		"description": day.Description,
		"locked":      false,
		"stop_count":  len(day.Stops),
		"stops":       stops,
	}
}

func stopView(stop models.DraftStop, detailed bool) View {
	v := View{
		"name":        stop.Name,
		"type":        stop.Type,
		"tip":         stop.Tip,
		"description": stop.Description,
		"link":        stop.Link,
	}
	if detailed {
		v["time_period"] = stop.TimePeriod
		v["start_time"] = stop.StartTime
		v["duration_minutes"] = stop.DurationMinutes
		v["cost_cents"] = stop.CostCents
		if stop.CostCents != nil {
			v["cost"] = FormatCost(*stop.CostCents)
		}
	}
	return v
}

func essentialsView(r Record, purchased bool) View {
	if !purchased {
		return View{
			"locked":         true,
			"transportation": View{"locked": true},
			"accommodation":  View{"locked": true},
			"travel_tips":    View{"locked": true},
		}
	}
	v := View{"locked": false}
	if r.Transportation.HasContent() {
		v["transportation"] = r.Transportation
	}
	if r.Accommodation.HasContent() {
		v["accommodation"] = r.Accommodation
	}
	if r.TravelTips.HasContent() {
		v["travel_tips"] = r.TravelTips
	}
	return v
}

// FormatCost renders integer cents as a euro amount.
func FormatCost(cents int) string {
	return fmt.Sprintf("€%.2f", float64(cents)/100)
}
