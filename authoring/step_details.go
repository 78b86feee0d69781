package authoring

import (
	"fmt"
	"sync"

	"github.com/wander-list/api-go/models"
)

// DetailsForm carries step 3: the five required trip-shape axes plus the
// three optional essentials sections.
type DetailsForm struct {
	Characteristics models.DraftCharacteristics `json:"characteristics"`
	Transportation  models.DraftTransportation  `json:"transportation"`
	Accommodation   models.DraftAccommodation   `json:"accommodation"`
	TravelTips      models.DraftTravelTips      `json:"travel_tips"`
}

type DetailsStep struct {
	ctl *Controller

	mu   sync.Mutex
	form DetailsForm
}

func NewDetailsStep() *DetailsStep { return &DetailsStep{} }

func (s *DetailsStep) Init(c *Controller) { s.ctl = c }

func (s *DetailsStep) Render(draft *models.Draft) (StepView, error) {
	if draft == nil {
		return nil, fmt.Errorf("no draft loaded")
	}

	s.mu.Lock()
	if draft.Characteristics != nil {
		s.form.Characteristics = *draft.Characteristics
	}
	if draft.Transportation != nil {
		s.form.Transportation = *draft.Transportation
	}
	if draft.Accommodation != nil {
		s.form.Accommodation = *draft.Accommodation
	}
	if draft.TravelTips != nil {
		s.form.TravelTips = *draft.TravelTips
	}
	view := StepView{
		"view":      "details",
		"form":      s.form,
		"checklist": s.checklistLocked(),
	}
	s.mu.Unlock()
	return view, nil
}

// UpdateForm replaces the whole step-3 form and flags unsaved changes.
func (s *DetailsStep) UpdateForm(f DetailsForm) {
	s.mu.Lock()
	s.form = f
	s.mu.Unlock()
	s.ctl.MarkUnsaved()
}

// Checklist mirrors section completion for the live sidebar.
func (s *DetailsStep) Checklist() StepView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checklistLocked()
}

func (s *DetailsStep) checklistLocked() StepView {
	return StepView{
		"characteristics": s.form.Characteristics.Complete(),
		"transportation":  s.form.Transportation.HasContent(),
		"accommodation":   s.form.Accommodation.HasContent(),
		"travel_tips":     s.form.TravelTips.HasContent(),
	}
}

func (s *DetailsStep) ValidateStep() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.form.Characteristics.Complete() {
		return fmt.Errorf("all five trip characteristics are required")
	}
	return nil
}

// SaveStep writes each section that has content; empty essentials sections
// are simply skipped, never deleted.
func (s *DetailsStep) SaveStep() error {
	if err := s.ValidateStep(); err != nil {
		return err
	}

	s.mu.Lock()
	f := s.form
	s.mu.Unlock()

	c := s.ctl
	draftID := c.CurrentDraftID()
	if draftID == "" {
		return fmt.Errorf("no draft loaded")
	}

	if err := c.backend.SaveCharacteristics(c.userID, draftID, f.Characteristics); err != nil {
		return err
	}
	if f.Transportation.HasContent() {
		if err := c.backend.SaveTransportation(c.userID, draftID, f.Transportation); err != nil {
			return err
		}
	}
	if f.Accommodation.HasContent() {
		if err := c.backend.SaveAccommodation(c.userID, draftID, f.Accommodation); err != nil {
			return err
		}
	}
	if f.TravelTips.HasContent() {
		if err := c.backend.SaveTravelTips(c.userID, draftID, f.TravelTips); err != nil {
			return err
		}
	}

	return c.backend.Update(c.userID, draftID, map[string]interface{}{"current_step": 3})
}
