package authoring

import (
	"fmt"
	"sync"

	"github.com/wander-list/api-go/models"
	"github.com/wander-list/api-go/preview"
)

// EarningsRate is the creator's share of the sale price.
const EarningsRate = 0.85

// checklistItems is the manual quality gate; all five must be ticked before
// the publish button unlocks.
var checklistItems = []string{
	"days_complete",
	"stops_accurate",
	"characteristics_honest",
	"cover_representative",
	"pricing_reviewed",
}

// ReviewStep shows the buyer-facing card and projection and gates the
// publish action behind the quality checklist.
type ReviewStep struct {
	ctl *Controller

	mu      sync.Mutex
	checked map[string]bool
}

func NewReviewStep() *ReviewStep {
	return &ReviewStep{checked: map[string]bool{}}
}

func (s *ReviewStep) Init(c *Controller) { s.ctl = c }

func (s *ReviewStep) Render(draft *models.Draft) (StepView, error) {
	if draft == nil {
		return nil, fmt.Errorf("no draft loaded")
	}

	c := s.ctl
	p, err := c.backend.GetPreview(c.userID, draft.ID)
	if err != nil {
		return nil, err
	}

	record := preview.FromDraftPreview(p)

	s.mu.Lock()
	checklist := make([]StepView, len(checklistItems))
	for i, item := range checklistItems {
		checklist[i] = StepView{"id": item, "checked": s.checked[item]}
	}
	canPublish := s.allCheckedLocked()
	s.mu.Unlock()

	return StepView{
		"view":        "review",
		"card":        preview.RenderCard(record, preview.CardPreview),
		"projection":  preview.Project(record, preview.ContextPreview),
		"checklist":   checklist,
		"can_publish": canPublish,
		"earnings":    Earnings(p.PriceTier),
	}, nil
}

// SetChecklistItem flips one checkbox.
func (s *ReviewStep) SetChecklistItem(id string, checked bool) error {
	valid := false
	for _, item := range checklistItems {
		if item == id {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unknown checklist item: %s", id)
	}

	s.mu.Lock()
	s.checked[id] = checked
	s.mu.Unlock()
	return nil
}

// CanPublish reports whether all five checklist items are ticked.
func (s *ReviewStep) CanPublish() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allCheckedLocked()
}

func (s *ReviewStep) allCheckedLocked() bool {
	for _, item := range checklistItems {
		if !s.checked[item] {
			return false
		}
	}
	return true
}

// Publish runs the publish after the client confirmed the dialog. On
// success the session goes terminal and the response carries the redirect.
func (s *ReviewStep) Publish(confirmed bool) (StepView, error) {
	if !confirmed {
		return nil, fmt.Errorf("publish requires confirmation")
	}
	if !s.CanPublish() {
		return nil, fmt.Errorf("complete the quality checklist before publishing")
	}

	c := s.ctl
	draftID := c.CurrentDraftID()
	if draftID == "" {
		return nil, fmt.Errorf("no draft loaded")
	}

	c.ShowLoading("Publishing...")
	itineraryID, err := c.backend.Publish(c.userID, draftID)
	c.HideLoading()
	if err != nil {
		return nil, err
	}

	return c.finishPublish(itineraryID), nil
}

// ValidateStep mirrors the publish gate.
func (s *ReviewStep) ValidateStep() error {
	if !s.CanPublish() {
		return fmt.Errorf("complete the quality checklist before publishing")
	}
	return nil
}

// SaveStep is a no-op: the review step only reads.
func (s *ReviewStep) SaveStep() error { return nil }

// Earnings projects the creator's payout per sale.
func Earnings(priceTier int) float64 {
	return float64(priceTier) * EarningsRate
}
