package authoring

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wander-list/api-go/events"
	"github.com/wander-list/api-go/gateway"
	"github.com/wander-list/api-go/models"
	"github.com/wander-list/api-go/places"
)

func stubPlaces(t *testing.T) *places.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "lisbon-1",
			"displayName": {"text": "Lisbon"},
			"addressComponents": [
				{"longText": "Portugal", "shortText": "PT", "types": ["country"]},
				{"longText": "Lisbon District", "shortText": "LD", "types": ["administrative_area_level_1"]},
				{"longText": "Lisbon", "shortText": "Lisbon", "types": ["locality"]}
			],
			"location": {"latitude": 38.7223, "longitude": -9.1393}
		}`))
	}))
	t.Cleanup(srv.Close)
	return places.NewClient(srv.URL)
}

func validSetupForm() SetupForm {
	return SetupForm{
		Title:        "Lisbon Long Weekend",
		Destination:  "Lisbon",
		DurationDays: 3,
		Description:  "Three days of miradouros and pastéis.",
		PriceTier:    models.PriceTierEssential,
	}
}

func TestSetupValidation(t *testing.T) {
	f := newFakeBackend()
	w := NewWizard(f, events.NewBus(), "user-1", stubPlaces(t))
	_, err := w.StartNew()
	require.NoError(t, err)
	require.NoError(t, w.Setup.SelectDestination(context.Background(), "lisbon-1"))

	cases := []struct {
		name   string
		mutate func(*SetupForm)
		want   string
	}{
		{"missing title", func(f *SetupForm) { f.Title = " " }, "title"},
		{"missing description", func(f *SetupForm) { f.Description = "" }, "description"},
		{"duration too long", func(f *SetupForm) { f.DurationDays = 91 }, "duration"},
		{"duration zero", func(f *SetupForm) { f.DurationDays = 0 }, "duration"},
		{"no tier", func(f *SetupForm) { f.PriceTier = 0 }, "tier"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := validSetupForm()
			tc.mutate(&form)
			w.Setup.UpdateForm(form)
			err := w.Setup.ValidateStep()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}

	w.Setup.UpdateForm(validSetupForm())
	assert.NoError(t, w.Setup.ValidateStep())
}

func TestSetupRequiresCommittedPlace(t *testing.T) {
	f := newFakeBackend()
	w := NewWizard(f, events.NewBus(), "user-1", stubPlaces(t))
	_, err := w.StartNew()
	require.NoError(t, err)

	w.Setup.UpdateForm(validSetupForm())

	err = w.Setup.ValidateStep()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "suggestions")
}

func TestSetupSaveCreatesDraftWithDefaultDays(t *testing.T) {
	f := newFakeBackend()
	bus := events.NewBus()
	w := NewWizard(f, bus, "user-1", stubPlaces(t))

	var created []events.DraftEvent
	bus.On(events.TopicDraftCreated, func(topic events.Topic, payload interface{}) {
		created = append(created, payload.(events.DraftEvent))
	})

	_, err := w.StartNew()
	require.NoError(t, err)
	require.NoError(t, w.Setup.SelectDestination(context.Background(), "lisbon-1"))
	w.Setup.UpdateForm(validSetupForm())

	saved, err := w.SaveCurrentStep()
	require.NoError(t, err)
	require.True(t, saved)

	require.Len(t, created, 1)
	draftID := created[0].DraftID
	assert.Equal(t, draftID, w.CurrentDraftID())

	require.Len(t, f.saveCompletes, 1)
	input := f.saveCompletes[0]
	assert.Equal(t, "Lisbon Long Weekend", input.Fields["title"])
	assert.Equal(t, "lisbon-1", input.Fields["place_id"])
	assert.Equal(t, "PT", input.Fields["country_code"])
	assert.Equal(t, 2, input.Fields["current_step"])
	require.Len(t, input.Days, 3)
	assert.Equal(t, "Day 1", input.Days[0].Title)
	assert.Equal(t, "Day 3", input.Days[2].Title)
	assert.Empty(t, input.Days[0].Stops)
}

func TestSetupResaveKeepsAuthoredDays(t *testing.T) {
	f := newFakeBackend()
	draft := seedDraft(f, "user-1", models.PriceTierEssential, 2)
	w := NewWizard(f, events.NewBus(), "user-1", stubPlaces(t))
	_, err := w.Activate(draft.ID)
	require.NoError(t, err)

	_, err = w.NavigateToStep(1)
	require.NoError(t, err)
	require.NoError(t, w.Setup.SelectDestination(context.Background(), "lisbon-1"))
	form := validSetupForm()
	form.DurationDays = 3 // grow the trip by a day
	w.Setup.UpdateForm(form)

	require.NoError(t, w.Setup.SaveStep())

	input := f.saveCompletes[len(f.saveCompletes)-1]
	require.Len(t, input.Days, 3)
	assert.Equal(t, "Castelo de São Jorge", input.Days[0].Stops[0].Name)
	assert.Empty(t, input.Days[2].Stops)
}

func TestEurosToCents(t *testing.T) {
	assert.Equal(t, 1250, EurosToCents(12.5))
	assert.Equal(t, 900, EurosToCents(9))
	assert.Equal(t, 1, EurosToCents(0.01))
	assert.Equal(t, 10, EurosToCents(0.1))
	assert.Equal(t, 0, EurosToCents(0))
}

func TestDaysValidation(t *testing.T) {
	f := newFakeBackend()
	draft := seedDraft(f, "user-1", models.PriceTierEssential, 2)
	w := newTestWizard(f)
	_, err := w.Activate(draft.ID)
	require.NoError(t, err)

	assert.NoError(t, w.Days.ValidateStep())

	w.Days.AddDay()
	err = w.Days.ValidateStep()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no stops")

	require.NoError(t, w.Days.AddStop(2, gateway.StopInput{Name: "", Type: "food", Tip: "cheap"}))
	err = w.Days.ValidateStep()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")

	require.NoError(t, w.Days.UpdateStop(2, 0, gateway.StopInput{Name: "Cervejaria", Type: "food"}))
	err = w.Days.ValidateStep()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tip")

	require.NoError(t, w.Days.UpdateStop(2, 0, gateway.StopInput{Name: "Cervejaria", Type: "food", Tip: "Order the prego"}))
	assert.NoError(t, w.Days.ValidateStep())
}

func TestDetailedTierDoesNotRequireTips(t *testing.T) {
	f := newFakeBackend()
	draft := seedDraft(f, "user-1", models.PriceTierDetailed, 2)
	w := newTestWizard(f)
	_, err := w.Activate(draft.ID)
	require.NoError(t, err)

	require.NoError(t, w.Days.UpdateStop(0, 0, gateway.StopInput{Name: "Castelo", Type: "attraction"}))
	assert.NoError(t, w.Days.ValidateStep())
}

func TestDuplicateDayCopiesStops(t *testing.T) {
	f := newFakeBackend()
	draft := seedDraft(f, "user-1", models.PriceTierEssential, 2)
	w := newTestWizard(f)
	_, err := w.Activate(draft.ID)
	require.NoError(t, err)

	require.NoError(t, w.Days.DuplicateDay(0))

	view := w.Days.View()
	sidebar := view["sidebar"].([]StepView)
	require.Len(t, sidebar, 3)
	assert.Equal(t, "Day 1 (copy)", sidebar[1]["title"])
	assert.Equal(t, 1, sidebar[1]["stop_count"])

	// The copy must be independent of the original.
	require.NoError(t, w.Days.RemoveStop(1, 0))
	view = w.Days.View()
	sidebar = view["sidebar"].([]StepView)
	assert.Equal(t, 1, sidebar[0]["stop_count"])
	assert.Equal(t, 0, sidebar[1]["stop_count"])
}

func TestDetailsSaveSkipsEmptySections(t *testing.T) {
	f := newFakeBackend()
	draft := seedDraft(f, "user-1", models.PriceTierEssential, 3)
	w := newTestWizard(f)
	_, err := w.Activate(draft.ID)
	require.NoError(t, err)

	w.Details.UpdateForm(DetailsForm{
		Characteristics: models.DraftCharacteristics{
			PhysicalDemand: 3, CulturalImmersion: 4, Pace: 2, BudgetLevel: 3, SocialStyle: 1,
		},
		Transportation: models.DraftTransportation{GettingThere: "Fly into LIS"},
	})

	require.NoError(t, w.Details.SaveStep())

	assert.Contains(t, f.characteristics, draft.ID)
	assert.Contains(t, f.transportation, draft.ID)
	assert.NotContains(t, f.accommodation, draft.ID)
	assert.NotContains(t, f.travelTips, draft.ID)
	assert.Equal(t, 3, f.updates[len(f.updates)-1]["current_step"])
}

func TestDetailsValidationRequiresAllAxes(t *testing.T) {
	f := newFakeBackend()
	draft := seedDraft(f, "user-1", models.PriceTierEssential, 3)
	w := newTestWizard(f)
	_, err := w.Activate(draft.ID)
	require.NoError(t, err)

	w.Details.UpdateForm(DetailsForm{
		Characteristics: models.DraftCharacteristics{
			PhysicalDemand: 3, CulturalImmersion: 4, Pace: 2, BudgetLevel: 3,
		},
	})

	require.Error(t, w.Details.ValidateStep())
}

func TestReviewPublishGate(t *testing.T) {
	f := newFakeBackend()
	draft := seedDraft(f, "user-1", models.PriceTierDetailed, 4)
	bus := events.NewBus()
	w := NewWizard(f, bus, "user-1", nil)

	var publishedEvents []events.DraftEvent
	bus.On(events.TopicDraftPublished, func(topic events.Topic, payload interface{}) {
		publishedEvents = append(publishedEvents, payload.(events.DraftEvent))
	})

	view, err := w.Activate(draft.ID)
	require.NoError(t, err)
	assert.Equal(t, false, view["can_publish"])
	assert.Equal(t, 19*0.85, view["earnings"])

	_, err = w.Review.Publish(true)
	require.Error(t, err)

	for _, item := range checklistItems[:4] {
		require.NoError(t, w.Review.SetChecklistItem(item, true))
	}
	assert.False(t, w.Review.CanPublish())
	_, err = w.Review.Publish(true)
	require.Error(t, err)

	require.NoError(t, w.Review.SetChecklistItem(checklistItems[4], true))
	assert.True(t, w.Review.CanPublish())

	_, err = w.Review.Publish(false)
	require.Error(t, err)

	result, err := w.Review.Publish(true)
	require.NoError(t, err)
	assert.Equal(t, true, result["published"])
	assert.Equal(t, RedirectTarget, result["redirect"])
	assert.Equal(t, "itinerary-"+draft.ID, result["itinerary_id"])
	assert.Equal(t, PhaseTerminal, w.CurrentPhase())
	assert.Empty(t, w.CurrentDraftID())

	require.Len(t, publishedEvents, 1)
	assert.Equal(t, draft.ID, publishedEvents[0].DraftID)

	assert.Equal(t, "unknown checklist item: nope", w.Review.SetChecklistItem("nope", true).Error())
}
