package authoring

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wander-list/api-go/events"
	"github.com/wander-list/api-go/gateway"
	"github.com/wander-list/api-go/models"
)

type fakeBackend struct {
	mu            sync.Mutex
	nextID        int
	drafts        map[string]*models.Draft
	updates       []map[string]interface{}
	saveCompletes []gateway.SaveCompleteInput
	published     []string

	characteristics map[string]models.DraftCharacteristics
	transportation  map[string]models.DraftTransportation
	accommodation   map[string]models.DraftAccommodation
	travelTips      map[string]models.DraftTravelTips

	failGet     error
	blockSave   chan struct{}
	saveEntered chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		drafts:          map[string]*models.Draft{},
		characteristics: map[string]models.DraftCharacteristics{},
		transportation:  map[string]models.DraftTransportation{},
		accommodation:   map[string]models.DraftAccommodation{},
		travelTips:      map[string]models.DraftTravelTips{},
	}
}

func (f *fakeBackend) Create(userID string, priceTier int) (*models.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	draft := &models.Draft{
		ID:          fmt.Sprintf("draft-%d", f.nextID),
		UserID:      userID,
		PriceTier:   priceTier,
		TierLocked:  true,
		CurrentStep: 2,
	}
	f.drafts[draft.ID] = draft
	return draft, nil
}

func (f *fakeBackend) Get(userID, id string) (*models.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet != nil {
		return nil, f.failGet
	}
	draft, ok := f.drafts[id]
	if !ok || draft.UserID != userID {
		return nil, gateway.ErrNotFound
	}
	copied := *draft
	return &copied, nil
}

func (f *fakeBackend) GetPreview(userID, id string) (*gateway.DraftPreview, error) {
	draft, err := f.Get(userID, id)
	if err != nil {
		return nil, err
	}
	p := gateway.DraftPreview{Draft: *draft}
	f.mu.Lock()
	if c, ok := f.characteristics[id]; ok {
		p.PhysicalDemand = c.PhysicalDemand
		p.CulturalImmersion = c.CulturalImmersion
		p.Pace = c.Pace
		p.BudgetLevel = c.BudgetLevel
		p.SocialStyle = c.SocialStyle
	}
	f.mu.Unlock()
	return &p, nil
}

func (f *fakeBackend) List(userID string) ([]models.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Draft
	for _, d := range f.drafts {
		if d.UserID == userID && !d.IsPublished {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeBackend) Update(userID, id string, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	draft, ok := f.drafts[id]
	if !ok || draft.UserID != userID {
		return gateway.ErrNotFound
	}
	f.updates = append(f.updates, fields)
	if step, ok := fields["current_step"].(int); ok {
		draft.CurrentStep = step
	}
	return nil
}

func (f *fakeBackend) SaveComplete(userID, id string, input gateway.SaveCompleteInput) (*models.Draft, error) {
	if f.blockSave != nil {
		if f.saveEntered != nil {
			f.saveEntered <- struct{}{}
		}
		<-f.blockSave
	}
	f.mu.Lock()
	draft, ok := f.drafts[id]
	if !ok || draft.UserID != userID {
		f.mu.Unlock()
		return nil, gateway.ErrNotFound
	}
	f.saveCompletes = append(f.saveCompletes, input)
	if title, ok := input.Fields["title"].(string); ok {
		draft.Title = title
	}
	draft.DurationDays = len(input.Days)
	draft.Days = make([]models.DraftDay, len(input.Days))
	for i, day := range input.Days {
		stops := make([]models.DraftStop, len(day.Stops))
		for j, stop := range day.Stops {
			stops[j] = models.DraftStop{
				Position: j + 1, Name: stop.Name, Type: stop.Type, Tip: stop.Tip,
				TimePeriod: stop.TimePeriod, CostCents: stop.CostCents,
			}
		}
		draft.Days[i] = models.DraftDay{
			DraftID: id, DayNumber: i + 1,
			Title: day.Title, Description: day.Description, Stops: stops,
		}
	}
	f.mu.Unlock()
	return f.Get(userID, id)
}

func (f *fakeBackend) SaveCharacteristics(userID, draftID string, row models.DraftCharacteristics) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.characteristics[draftID] = row
	return nil
}

func (f *fakeBackend) SaveTransportation(userID, draftID string, row models.DraftTransportation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transportation[draftID] = row
	return nil
}

func (f *fakeBackend) SaveAccommodation(userID, draftID string, row models.DraftAccommodation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accommodation[draftID] = row
	return nil
}

func (f *fakeBackend) SaveTravelTips(userID, draftID string, row models.DraftTravelTips) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.travelTips[draftID] = row
	return nil
}

func (f *fakeBackend) Publish(userID, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	draft, ok := f.drafts[id]
	if !ok || draft.UserID != userID || draft.IsPublished {
		return "", gateway.ErrNotFound
	}
	draft.IsPublished = true
	f.published = append(f.published, id)
	return "itinerary-" + id, nil
}

func seedDraft(f *fakeBackend, userID string, tier, step int) *models.Draft {
	draft, _ := f.Create(userID, tier)
	f.mu.Lock()
	draft.CurrentStep = step
	draft.Title = "Lisbon Long Weekend"
	draft.Days = []models.DraftDay{
		{DraftID: draft.ID, DayNumber: 1, Title: "Day 1", Stops: []models.DraftStop{
			{Position: 1, Name: "Castelo de São Jorge", Type: "attraction", Tip: "Go early"},
		}},
		{DraftID: draft.ID, DayNumber: 2, Title: "Day 2", Stops: []models.DraftStop{
			{Position: 1, Name: "Time Out Market", Type: "food", Tip: "Lunch rush is brutal"},
		}},
	}
	draft.DurationDays = 2
	f.mu.Unlock()
	return draft
}

func newTestWizard(f *fakeBackend) *Wizard {
	return NewWizard(f, events.NewBus(), "user-1", nil)
}

func TestActivateWithoutDraftShowsSelector(t *testing.T) {
	f := newFakeBackend()
	seedDraft(f, "user-1", models.PriceTierEssential, 2)
	w := newTestWizard(f)

	view, err := w.Activate("")

	require.NoError(t, err)
	assert.Equal(t, "selector", view["view"])
	assert.Equal(t, PhaseSelector, w.CurrentPhase())
	assert.Len(t, view["drafts"], 1)
}

func TestActivateWithDraftResumesRecordedStep(t *testing.T) {
	f := newFakeBackend()
	draft := seedDraft(f, "user-1", models.PriceTierEssential, 2)
	w := newTestWizard(f)

	view, err := w.Activate(draft.ID)

	require.NoError(t, err)
	assert.Equal(t, 2, view["step"])
	assert.Equal(t, PhaseWizard, w.CurrentPhase())
	assert.Equal(t, draft.ID, w.CurrentDraftID())
}

func TestContinueDraftFailureFallsBackToSelector(t *testing.T) {
	f := newFakeBackend()
	f.failGet = gateway.ErrNotFound
	w := newTestWizard(f)

	view, err := w.ContinueDraft("missing")

	require.NoError(t, err)
	assert.Equal(t, "selector", view["view"])
	assert.NotEmpty(t, view["load_error"])
	assert.Equal(t, PhaseSelector, w.CurrentPhase())
}

func TestRenderStepWritesBackCurrentStep(t *testing.T) {
	f := newFakeBackend()
	draft := seedDraft(f, "user-1", models.PriceTierEssential, 2)
	w := newTestWizard(f)
	_, err := w.Activate(draft.ID)
	require.NoError(t, err)

	_, err = w.RenderStep(3)

	require.NoError(t, err)
	stored, _ := f.Get("user-1", draft.ID)
	assert.Equal(t, 3, stored.CurrentStep)
}

func TestSaveCurrentStepDropsReentrantCall(t *testing.T) {
	f := newFakeBackend()
	draft := seedDraft(f, "user-1", models.PriceTierEssential, 2)
	w := newTestWizard(f)
	_, err := w.Activate(draft.ID)
	require.NoError(t, err)

	f.blockSave = make(chan struct{})
	f.saveEntered = make(chan struct{}, 1)
	firstDone := make(chan bool)
	go func() {
		saved, err := w.SaveCurrentStep()
		assert.NoError(t, err)
		firstDone <- saved
	}()

	// Wait until the first save is parked inside the backend call, then
	// the reentrant call must be dropped, not queued.
	<-f.saveEntered
	saved, err := w.SaveCurrentStep()
	require.NoError(t, err)
	assert.False(t, saved)

	close(f.blockSave)
	assert.True(t, <-firstDone)
}

func TestNavigateForwardRequiresValidStep(t *testing.T) {
	f := newFakeBackend()
	draft := seedDraft(f, "user-1", models.PriceTierEssential, 2)
	w := newTestWizard(f)
	_, err := w.Activate(draft.ID)
	require.NoError(t, err)

	// Strip the tips so basic-tier validation fails.
	require.NoError(t, w.Days.UpdateStop(0, 0, gateway.StopInput{Name: "Castelo", Type: "attraction"}))

	_, err = w.NavigateToStep(3)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "tip")
	assert.Equal(t, 2, w.CurrentStep())
}

func TestNavigateForwardSavesAndRenders(t *testing.T) {
	f := newFakeBackend()
	draft := seedDraft(f, "user-1", models.PriceTierEssential, 2)
	w := newTestWizard(f)
	_, err := w.Activate(draft.ID)
	require.NoError(t, err)

	view, err := w.NavigateToStep(3)

	require.NoError(t, err)
	assert.Equal(t, 3, view["step"])
	require.Len(t, f.saveCompletes, 1)
	assert.Len(t, f.saveCompletes[0].Days, 2)
}

func TestNavigateBackwardNeverValidates(t *testing.T) {
	f := newFakeBackend()
	draft := seedDraft(f, "user-1", models.PriceTierEssential, 3)
	w := newTestWizard(f)
	_, err := w.Activate(draft.ID)
	require.NoError(t, err)

	// Step 3 has no characteristics yet; going back must still work.
	view, err := w.NavigateToStep(2)

	require.NoError(t, err)
	assert.Equal(t, 2, view["step"])
}

func TestMarkUnsavedBroadcastsAndClearsOnSave(t *testing.T) {
	f := newFakeBackend()
	draft := seedDraft(f, "user-1", models.PriceTierEssential, 2)
	bus := events.NewBus()
	w := NewWizard(f, bus, "user-1", nil)

	var unsavedSeen int
	bus.On(events.TopicUIUnsaved, func(topic events.Topic, payload interface{}) {
		unsavedSeen++
	})

	_, err := w.Activate(draft.ID)
	require.NoError(t, err)
	w.Days.AddDay()
	assert.Equal(t, 1, unsavedSeen)

	require.NoError(t, w.Days.AddStop(2, gateway.StopInput{Name: "Miradouro", Type: "attraction", Tip: "Sunset"}))
	saved, err := w.SaveCurrentStep()
	require.NoError(t, err)
	assert.True(t, saved)

	view, err := w.RenderStep(2)
	require.NoError(t, err)
	info := view["draft_info"].(StepView)
	assert.False(t, info["unsaved_changes"].(bool))
}
