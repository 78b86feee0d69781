package controllers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/wander-list/api-go/authoring"
	"github.com/wander-list/api-go/cache"
	"github.com/wander-list/api-go/events"
	"github.com/wander-list/api-go/gateway"
	"github.com/wander-list/api-go/places"
	"github.com/wander-list/api-go/state"
	"github.com/wander-list/api-go/utils"
	"gorm.io/gorm"
)

// AuthoringSession is one creator's live wizard: its own bus, observable
// state, scratch cache and controller. Sessions are keyed by user; starting
// a different draft reuses the session and just reloads.
type AuthoringSession struct {
	UserID string
	Bus    *events.Bus
	State  *state.Store
	Cache  *cache.Cache
	Syncer *cache.Syncer
	Wizard *authoring.Wizard

	detach func()
}

// SessionRegistry creates and owns authoring sessions.
type SessionRegistry struct {
	drafts   *gateway.DraftService
	places   *places.Client
	kv       cache.KV
	recorder *gateway.ActivityRecorder

	mu       sync.Mutex
	sessions map[string]*AuthoringSession
}

func NewSessionRegistry(db *gorm.DB, pc *places.Client, kv cache.KV) *SessionRegistry {
	if kv == nil {
		kv = cache.NewMemoryKV()
	}
	return &SessionRegistry{
		drafts:   gateway.NewDraftService(db),
		places:   pc,
		kv:       kv,
		recorder: gateway.NewActivityRecorder(db),
		sessions: map[string]*AuthoringSession{},
	}
}

// Session returns the user's live session, creating one on first use. The
// scratch cache is scoped per user, the state store is seeded from it, and
// the syncer persists the allow-listed paths back with its debounce.
func (r *SessionRegistry) Session(user *utils.UserClaims) *AuthoringSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[user.UserID]; ok {
		return s
	}

	bus := events.NewBus()
	store := state.NewStore()
	scratch := cache.New(cache.NewScopedKV(r.kv, "user:"+user.UserID+":"), bus)
	syncer := cache.NewSyncer(store, scratch)

	s := &AuthoringSession{
		UserID: user.UserID,
		Bus:    bus,
		State:  store,
		Cache:  scratch,
		Syncer: syncer,
		Wizard: authoring.NewWizard(r.drafts, bus, user.UserID, r.places),
		detach: r.recorder.Attach(bus),
	}

	syncer.LoadState()
	syncer.Start()
	store.Set("currentUser", map[string]interface{}{
		"id":       user.UserID,
		"username": user.Username,
	}, false)

	r.sessions[user.UserID] = s
	return s
}

// Peek returns a user's session only if one is already live.
func (r *SessionRegistry) Peek(userID string) *AuthoringSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[userID]
}

// Close flushes and tears down a user's session.
func (r *SessionRegistry) Close(userID string) {
	r.mu.Lock()
	s, ok := r.sessions[userID]
	delete(r.sessions, userID)
	r.mu.Unlock()
	if !ok {
		return
	}
	s.Syncer.Flush()
	s.Syncer.Stop()
	s.detach()
}

// AuthoringController exposes the wizard over HTTP.
type AuthoringController struct {
	Registry *SessionRegistry
	Recorder *gateway.ActivityRecorder
}

func NewAuthoringController(registry *SessionRegistry, db *gorm.DB) *AuthoringController {
	return &AuthoringController{
		Registry: registry,
		Recorder: gateway.NewActivityRecorder(db),
	}
}

func (a *AuthoringController) session(c *gin.Context) *AuthoringSession {
	return a.Registry.Session(utils.GetUser(c))
}

func (a *AuthoringController) respond(c *gin.Context, view authoring.StepView, err error) {
	if err != nil {
		respondError(c, gateway.AsValidation(err))
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: view})
}

// Activate wakes the wizard; body may carry a draft id to resume.
func (a *AuthoringController) Activate(c *gin.Context) {
	var input struct {
		DraftID string `json:"draft_id"`
	}
	_ = c.ShouldBindJSON(&input)

	s := a.session(c)
	view, err := s.Wizard.Activate(input.DraftID)
	a.respond(c, view, err)
}

func (a *AuthoringController) StartNew(c *gin.Context) {
	s := a.session(c)
	view, err := s.Wizard.StartNew()
	a.respond(c, view, err)
}

func (a *AuthoringController) View(c *gin.Context) {
	s := a.session(c)

	step := s.Wizard.CurrentStep()
	if step == 0 || s.Wizard.CurrentPhase() != authoring.PhaseWizard {
		view, err := s.Wizard.Activate("")
		a.respond(c, view, err)
		return
	}

	view, err := s.Wizard.RenderStep(step)
	a.respond(c, view, err)
}

func (a *AuthoringController) Navigate(c *gin.Context) {
	var input struct {
		Step int `json:"step" binding:"required,min=1,max=4"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	s := a.session(c)
	view, err := s.Wizard.NavigateToStep(input.Step)
	a.respond(c, view, err)
}

func (a *AuthoringController) Save(c *gin.Context) {
	s := a.session(c)
	saved, err := s.Wizard.SaveCurrentStep()
	if err != nil {
		respondError(c, gateway.AsValidation(err))
		return
	}
	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    gin.H{"saved": saved},
	})
}

// UpdateSetup patches the step-1 form.
func (a *AuthoringController) UpdateSetup(c *gin.Context) {
	var form authoring.SetupForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	s := a.session(c)
	s.Wizard.Setup.UpdateForm(form)
	c.JSON(http.StatusOK, StandardResponse{Success: true})
}

// SearchDestinations runs the debounced destination autocomplete.
func (a *AuthoringController) SearchDestinations(c *gin.Context) {
	s := a.session(c)
	suggestions := s.Wizard.Setup.SearchDestinations(c.Request.Context(), c.Query("q"))
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: suggestions})
}

// SelectDestination commits a suggestion and fills the location fields.
func (a *AuthoringController) SelectDestination(c *gin.Context) {
	var input struct {
		PlaceID string `json:"place_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	s := a.session(c)
	if err := s.Wizard.Setup.SelectDestination(c.Request.Context(), input.PlaceID); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "success": false})
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true})
}

// EditDays applies one structural mutation to the step-2 model.
func (a *AuthoringController) EditDays(c *gin.Context) {
	var input struct {
		Action string             `json:"action" binding:"required,oneof=select_day add_day duplicate_day remove_day update_day add_stop update_stop remove_stop set_stop_cost"`
		Day    int                `json:"day"`
		Stop   int                `json:"stop"`
		Title  string             `json:"title"`
		Desc   string             `json:"description"`
		Euros  float64            `json:"euros"`
		Input  *gateway.StopInput `json:"stop_input"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	s := a.session(c)
	days := s.Wizard.Days

	var err error
	switch input.Action {
	case "select_day":
		err = days.SelectDay(input.Day)
	case "add_day":
		days.AddDay()
	case "duplicate_day":
		err = days.DuplicateDay(input.Day)
	case "remove_day":
		err = days.RemoveDay(input.Day)
	case "update_day":
		err = days.UpdateDay(input.Day, input.Title, input.Desc)
	case "add_stop":
		if input.Input == nil {
			err = gateway.ErrValidation
			break
		}
		err = days.AddStop(input.Day, *input.Input)
	case "update_stop":
		if input.Input == nil {
			err = gateway.ErrValidation
			break
		}
		err = days.UpdateStop(input.Day, input.Stop, *input.Input)
	case "remove_stop":
		err = days.RemoveStop(input.Day, input.Stop)
	case "set_stop_cost":
		err = days.SetStopCost(input.Day, input.Stop, input.Euros)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: days.View()})
}

// UpdateDetails patches the step-3 form.
func (a *AuthoringController) UpdateDetails(c *gin.Context) {
	var form authoring.DetailsForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	s := a.session(c)
	s.Wizard.Details.UpdateForm(form)
	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    gin.H{"checklist": s.Wizard.Details.Checklist()},
	})
}

// SetChecklist flips one review-step checkbox.
func (a *AuthoringController) SetChecklist(c *gin.Context) {
	var input struct {
		Item    string `json:"item" binding:"required"`
		Checked bool   `json:"checked"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	s := a.session(c)
	if err := s.Wizard.Review.SetChecklistItem(input.Item, input.Checked); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}
	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    gin.H{"can_publish": s.Wizard.Review.CanPublish()},
	})
}

// Publish runs the gated publish; on success the session ends.
func (a *AuthoringController) Publish(c *gin.Context) {
	var input struct {
		Confirmed bool `json:"confirmed"`
	}
	_ = c.ShouldBindJSON(&input)

	s := a.session(c)
	view, err := s.Wizard.Review.Publish(input.Confirmed)
	if err != nil {
		respondError(c, gateway.AsValidation(err))
		return
	}

	a.Registry.Close(s.UserID)
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: view})
}

// Activity lists the user's recent authoring trail.
func (a *AuthoringController) Activity(c *gin.Context) {
	user := utils.GetUser(c)
	rows, err := a.Recorder.Recent(user.UserID, 20)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: rows})
}
