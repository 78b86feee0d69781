package authoring

import (
	"fmt"
	"sync"
	"time"

	"github.com/wander-list/api-go/events"
	"github.com/wander-list/api-go/gateway"
	"github.com/wander-list/api-go/models"
)

// Backend is the slice of the draft gateway the wizard needs. The concrete
// implementation is gateway.DraftService; tests substitute a fake.
type Backend interface {
	Create(userID string, priceTier int) (*models.Draft, error)
	Get(userID, id string) (*models.Draft, error)
	GetPreview(userID, id string) (*gateway.DraftPreview, error)
	List(userID string) ([]models.Draft, error)
	Update(userID, id string, fields map[string]interface{}) error
	SaveComplete(userID, id string, input gateway.SaveCompleteInput) (*models.Draft, error)
	SaveCharacteristics(userID, draftID string, row models.DraftCharacteristics) error
	SaveTransportation(userID, draftID string, row models.DraftTransportation) error
	SaveAccommodation(userID, draftID string, row models.DraftAccommodation) error
	SaveTravelTips(userID, draftID string, row models.DraftTravelTips) error
	Publish(userID, id string) (string, error)
}

// StepView is the JSON view model a step hands back to the HTTP layer.
type StepView map[string]interface{}

// Step is the uniform wizard-step contract.
type Step interface {
	Init(c *Controller)
	Render(draft *models.Draft) (StepView, error)
	SaveStep() error
	ValidateStep() error
}

// Phase of the wizard session.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseSelector Phase = "selector"
	PhaseLoading  Phase = "loading_draft"
	PhaseWizard   Phase = "wizard"
	PhaseTerminal Phase = "terminal"
)

const (
	// RedirectTarget is where the client goes after a publish.
	RedirectTarget = "#dashboard"
	// RedirectDelay gives the success toast time to show before leaving.
	RedirectDelay = 2 * time.Second

	firstStep = 1
	lastStep  = 4
)

// Controller drives one creator's wizard session over one draft. It owns the
// {draftID, step, saving} triple; the database stays the single source of
// truth, so every render re-reads the draft through the backend.
type Controller struct {
	backend Backend
	bus     *events.Bus
	userID  string

	mu      sync.Mutex
	phase   Phase
	draftID string
	step    int
	saving  bool
	unsaved bool

	steps map[int]Step
}

func NewController(backend Backend, bus *events.Bus, userID string) *Controller {
	return &Controller{
		backend: backend,
		bus:     bus,
		userID:  userID,
		phase:   PhaseIdle,
		steps:   map[int]Step{},
	}
}

// Register binds a step module to its step number and runs its Init hook.
func (c *Controller) Register(n int, s Step) {
	c.steps[n] = s
	s.Init(c)
}

// Activate wakes the session: without a draft id it lands on the selector,
// with one it loads the draft and resumes at its recorded step.
func (c *Controller) Activate(draftID string) (StepView, error) {
	if draftID == "" {
		return c.selectorView()
	}
	return c.ContinueDraft(draftID)
}

// StartNew enters the wizard at step 1 with no draft yet; the setup step
// creates one on its first save.
func (c *Controller) StartNew() (StepView, error) {
	c.mu.Lock()
	c.phase = PhaseWizard
	c.draftID = ""
	c.step = firstStep
	c.unsaved = false
	c.mu.Unlock()
	return c.RenderStep(firstStep)
}

// ContinueDraft loads an existing draft and resumes at draft.current_step.
// A load failure falls back to the selector.
func (c *Controller) ContinueDraft(draftID string) (StepView, error) {
	c.mu.Lock()
	c.phase = PhaseLoading
	c.mu.Unlock()

	c.ShowLoading("Loading your draft...")
	draft, err := c.backend.Get(c.userID, draftID)
	c.HideLoading()
	if err != nil {
		c.mu.Lock()
		c.phase = PhaseSelector
		c.draftID = ""
		c.mu.Unlock()
		view, verr := c.selectorView()
		if verr != nil {
			return nil, verr
		}
		view["load_error"] = err.Error()
		return view, nil
	}

	c.mu.Lock()
	c.phase = PhaseWizard
	c.draftID = draft.ID
	c.unsaved = false
	c.mu.Unlock()

	c.bus.Emit(events.TopicDraftLoaded, events.DraftEvent{UserID: c.userID, DraftID: draft.ID, Step: draft.CurrentStep})
	return c.RenderStep(draft.CurrentStep)
}

func (c *Controller) selectorView() (StepView, error) {
	c.mu.Lock()
	c.phase = PhaseSelector
	c.draftID = ""
	c.mu.Unlock()

	drafts, err := c.backend.List(c.userID)
	if err != nil {
		return nil, err
	}
	return StepView{"view": "selector", "drafts": drafts}, nil
}

// RenderStep re-reads the draft and renders step n. The draft's recorded
// current_step is written back when the render moved it.
func (c *Controller) RenderStep(n int) (StepView, error) {
	step, ok := c.steps[n]
	if !ok {
		return nil, fmt.Errorf("no step %d registered", n)
	}

	c.mu.Lock()
	draftID := c.draftID
	c.step = n
	c.mu.Unlock()

	var draft *models.Draft
	if draftID != "" {
		c.ShowLoading("Loading...")
		var err error
		draft, err = c.backend.Get(c.userID, draftID)
		c.HideLoading()
		if err != nil {
			return nil, err
		}
		if draft.CurrentStep != n {
			if err := c.backend.Update(c.userID, draftID, map[string]interface{}{"current_step": n}); err != nil {
				return nil, err
			}
			draft.CurrentStep = n
		}
	}

	c.bus.Emit(events.TopicStepEntered, events.DraftEvent{UserID: c.userID, DraftID: draftID, Step: n})

	view, err := step.Render(draft)
	if err != nil {
		return nil, err
	}
	view["step"] = n
	view["draft_info"] = c.draftInfoBar(draft)
	return view, nil
}

// NavigateToStep moves the wizard. Going forward requires the current step to
// validate and save; going backward saves best-effort and never blocks.
func (c *Controller) NavigateToStep(n int) (StepView, error) {
	if n < firstStep || n > lastStep {
		return nil, fmt.Errorf("step out of range: %d", n)
	}

	c.mu.Lock()
	current := c.step
	c.mu.Unlock()

	if n > current {
		if step, ok := c.steps[current]; ok {
			if err := step.ValidateStep(); err != nil {
				return nil, err
			}
		}
		if _, err := c.SaveCurrentStep(); err != nil {
			return nil, err
		}
	} else if n < current {
		_, _ = c.SaveCurrentStep()
	}

	return c.RenderStep(n)
}

// SaveCurrentStep persists the active step. Reentrant calls while a save is
// in flight are dropped, not queued; the dropped call reports saved=false.
func (c *Controller) SaveCurrentStep() (bool, error) {
	c.mu.Lock()
	if c.saving {
		c.mu.Unlock()
		return false, nil
	}
	c.saving = true
	current := c.step
	draftID := c.draftID
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.saving = false
		c.mu.Unlock()
	}()

	step, ok := c.steps[current]
	if !ok {
		return false, fmt.Errorf("no step %d registered", current)
	}

	c.ShowLoading("Saving...")
	err := step.SaveStep()
	c.HideLoading()
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	c.unsaved = false
	draftID = c.draftID // the setup step may have created the draft during the save
	c.mu.Unlock()

	c.bus.Emit(events.TopicStepSaved, events.DraftEvent{UserID: c.userID, DraftID: draftID, Step: current})
	c.bus.Emit(events.TopicDraftSaved, events.DraftEvent{UserID: c.userID, DraftID: draftID, Step: current})
	return true, nil
}

// CurrentDraft always reloads; there is no in-memory draft cache.
func (c *Controller) CurrentDraft() (*models.Draft, error) {
	c.mu.Lock()
	draftID := c.draftID
	c.mu.Unlock()
	if draftID == "" {
		return nil, nil
	}
	return c.backend.Get(c.userID, draftID)
}

func (c *Controller) CurrentDraftID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draftID
}

func (c *Controller) CurrentStep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

func (c *Controller) CurrentPhase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// MarkUnsaved flips the unsaved-changes indicator and broadcasts it.
func (c *Controller) MarkUnsaved() {
	c.mu.Lock()
	c.unsaved = true
	draftID := c.draftID
	c.mu.Unlock()
	c.bus.Emit(events.TopicUIUnsaved, events.DraftEvent{UserID: c.userID, DraftID: draftID})
}

func (c *Controller) ShowLoading(msg string) {
	c.bus.Emit(events.TopicUILoadingShow, events.LoadingEvent{Message: msg})
}

func (c *Controller) HideLoading() {
	c.bus.Emit(events.TopicUILoadingHide, nil)
}

func (c *Controller) draftInfoBar(draft *models.Draft) StepView {
	c.mu.Lock()
	unsaved := c.unsaved
	c.mu.Unlock()

	info := StepView{"unsaved_changes": unsaved}
	if draft != nil {
		info["title"] = draft.Title
		info["destination"] = draft.Destination
		info["price_tier"] = draft.PriceTier
		info["last_saved_at"] = draft.LastSavedAt
	}
	return info
}

// adoptDraft records a draft created mid-save by the setup step.
func (c *Controller) adoptDraft(id string) {
	c.mu.Lock()
	c.draftID = id
	c.mu.Unlock()
	c.bus.Emit(events.TopicDraftCreated, events.DraftEvent{UserID: c.userID, DraftID: id})
}

// finishPublish moves the session to its terminal state after a successful
// publish; the client redirects out after RedirectDelay.
func (c *Controller) finishPublish(itineraryID string) StepView {
	c.mu.Lock()
	draftID := c.draftID
	c.phase = PhaseTerminal
	c.draftID = ""
	c.unsaved = false
	c.mu.Unlock()

	c.bus.Emit(events.TopicDraftPublished, events.DraftEvent{
		UserID: c.userID, DraftID: draftID, ItineraryID: itineraryID,
	})

	return StepView{
		"published":      true,
		"itinerary_id":   itineraryID,
		"redirect":       RedirectTarget,
		"redirect_after": RedirectDelay.Milliseconds(),
	}
}
