package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wander-list/api-go/models"
)

func intPtr(v int) *int { return &v }

func sampleRecord(durationDays, priceTier int) Record {
	days := make([]models.DraftDay, durationDays)
	for i := range days {
		days[i] = models.DraftDay{
			DayNumber: i + 1,
			Title:     "Day",
			Stops: []models.DraftStop{
				{Position: 1, Name: "Castle", Type: "attraction", Tip: "Go early",
					TimePeriod: "morning", StartTime: "09:00", CostCents: intPtr(1550)},
				{Position: 2, Name: "Tavern", Type: "food", Tip: "Book ahead"},
			},
		}
	}
	return Record{
		ID:           "itin-1",
		Title:        "A Week in Lisbon",
		Destination:  "Lisbon, Portugal",
		PriceTier:    priceTier,
		DurationDays: durationDays,
		Days:         days,
		Transportation: &models.DraftTransportation{
			GettingThere: "Fly into LIS",
		},
		CreatorName: "ana",
		ViewCount:   42,
		TotalSales:  7,
	}
}

func TestUnlockedDays(t *testing.T) {
	assert.Equal(t, []int{0}, UnlockedDays(1))
	assert.Equal(t, []int{0}, UnlockedDays(5))
	assert.Equal(t, []int{0, 3}, UnlockedDays(6))
	assert.Equal(t, []int{0, 5}, UnlockedDays(10))
}

func TestProjectBuyerViewLocksDaysOutsidePreviewSet(t *testing.T) {
	v := Project(sampleRecord(7, models.PriceTierDetailed), ContextView)

	assert.Equal(t, false, v["is_purchased"])

	days := v["days"].([]View)
	require.Len(t, days, 7)

	// Day 1 and the middle day stay open.
	assert.Equal(t, false, days[0]["locked"])
	assert.Equal(t, false, days[3]["locked"])
	assert.Contains(t, days[0], "stops")

	for _, i := range []int{1, 2, 4, 5, 6} {
		assert.Equal(t, true, days[i]["locked"], "day %d should be locked", i)
		assert.NotContains(t, days[i], "stops")
		assert.Equal(t, 2, days[i]["stop_count"])
	}

	essentials := v["essentials"].(View)
	assert.Equal(t, true, essentials["locked"])
	assert.Equal(t, View{"locked": true}, essentials["transportation"])
}

func TestProjectCreatorContextsSeeEverything(t *testing.T) {
	for _, ctx := range []Context{ContextPreview, ContextEdit} {
		v := Project(sampleRecord(7, models.PriceTierDetailed), ctx)

		assert.Equal(t, true, v["is_purchased"])
		for _, day := range v["days"].([]View) {
			assert.Equal(t, false, day["locked"])
			assert.Contains(t, day, "stops")
		}

		essentials := v["essentials"].(View)
		assert.Equal(t, false, essentials["locked"])
		assert.Contains(t, essentials, "transportation")
		// Empty sections are simply absent, never shown blank.
		assert.NotContains(t, essentials, "accommodation")
	}
}

func TestProjectTierControlsStopTiming(t *testing.T) {
	detailed := Project(sampleRecord(2, models.PriceTierDetailed), ContextPreview)
	stops := detailed["days"].([]View)[0]["stops"].([]View)
	assert.Equal(t, "morning", stops[0]["time_period"])
	assert.Equal(t, "€15.50", stops[0]["cost"])

	essential := Project(sampleRecord(2, models.PriceTierEssential), ContextPreview)
	stops = essential["days"].([]View)[0]["stops"].([]View)
	assert.NotContains(t, stops[0], "time_period")
	assert.NotContains(t, stops[0], "cost_cents")
	assert.Equal(t, "Go early", stops[0]["tip"])
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "€0.00", FormatCost(0))
	assert.Equal(t, "€9.99", FormatCost(999))
	assert.Equal(t, "€1250.00", FormatCost(125000))
}
