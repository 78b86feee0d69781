package preview

import (
	"math"

	"github.com/wander-list/api-go/models"
)

// CardContext selects the card footer.
type CardContext string

const (
	CardFeed      CardContext = "feed"
	CardPreview   CardContext = "preview"
	CardDashboard CardContext = "dashboard"
)

// TierBadge is the price-tier label shown on every card.
func TierBadge(priceTier int) string {
	if priceTier == models.PriceTierDetailed {
		return "DETAILED"
	}
	return "ESSENTIAL"
}

// CardStats sums stops across days; the average is rounded to the nearest
// whole stop per day.
func CardStats(days []models.DraftDay, durationDays int) (totalStops, avgPerDay int) {
	for _, day := range days {
		totalStops += len(day.Stops)
	}
	if durationDays > 0 {
		avgPerDay = int(math.Round(float64(totalStops) / float64(durationDays)))
	}
	return totalStops, avgPerDay
}

// RenderCard builds the marketplace card view model. The body is the same
// everywhere; the context picks which footer row the client shows.
func RenderCard(r Record, ctx CardContext) View {
	totalStops, avgPerDay := CardStats(r.Days, r.DurationDays)

	card := View{
		"id":                r.ID,
		"title":             r.Title,
		"destination":       r.Destination,
		"cover_image_url":   r.CoverImageURL,
		"cover_placeholder": r.CoverImageURL == "",
		"badge":             TierBadge(r.PriceTier),
		"price_tier":        r.PriceTier,
		"duration_days":     r.DurationDays,
		"stats": View{
			"total_stops":       totalStops,
			"avg_stops_per_day": avgPerDay,
		},
	}

	switch ctx {
	case CardPreview:
		card["footer"] = View{
			"type":    "preview",
			"actions": []string{"preview", "continue_editing"},
		}
	case CardDashboard:
		card["footer"] = View{
			"type":        "dashboard",
			"view_count":  r.ViewCount,
			"total_sales": r.TotalSales,
			"actions":     []string{"edit", "delete"},
		}
	default:
		card["footer"] = View{
			"type": "feed",
			"creator": View{
				"name":   r.CreatorName,
				"avatar": r.CreatorAvatar,
			},
			"wishlist_button": true,
		}
	}
	return card
}
