package authoring

import (
	"github.com/wander-list/api-go/events"
	"github.com/wander-list/api-go/places"
)

// Wizard bundles a controller with its four step modules, keeping the
// typed step handles the HTTP layer patches fields through.
type Wizard struct {
	*Controller
	Setup   *SetupStep
	Days    *DaysStep
	Details *DetailsStep
	Review  *ReviewStep
}

func NewWizard(backend Backend, bus *events.Bus, userID string, pc *places.Client) *Wizard {
	w := &Wizard{
		Controller: NewController(backend, bus, userID),
		Setup:      NewSetupStep(pc),
		Days:       NewDaysStep(),
		Details:    NewDetailsStep(),
		Review:     NewReviewStep(),
	}
	w.Register(1, w.Setup)
	w.Register(2, w.Days)
	w.Register(3, w.Details)
	w.Register(4, w.Review)
	return w
}
