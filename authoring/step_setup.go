package authoring

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/wander-list/api-go/gateway"
	"github.com/wander-list/api-go/models"
	"github.com/wander-list/api-go/places"
)

const (
	maxTitleLen       = 100
	maxDescriptionLen = 500
	minDurationDays   = 1
	maxDurationDays   = 90
)

// SetupForm carries the step-1 inputs. The location block is filled from a
// details lookup when the creator commits an autocomplete suggestion, never
// typed directly.
type SetupForm struct {
	Title        string `json:"title"`
	Destination  string `json:"destination"`
	DurationDays int    `json:"duration_days"`
	Description  string `json:"description"`
	PriceTier    int    `json:"price_tier"`

	PlaceID     string  `json:"place_id"`
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code"`
	Region      string  `json:"region"`
	City        string  `json:"city"`
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lng"`
}

// SetupStep collects trip basics and creates the draft on first save.
type SetupStep struct {
	ctl    *Controller
	places *places.Client

	mu   sync.Mutex
	form SetupForm
}

func NewSetupStep(pc *places.Client) *SetupStep {
	return &SetupStep{places: pc}
}

func (s *SetupStep) Init(c *Controller) { s.ctl = c }

func (s *SetupStep) Render(draft *models.Draft) (StepView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if draft != nil {
		s.form = SetupForm{
			Title:        draft.Title,
			Destination:  draft.Destination,
			DurationDays: draft.DurationDays,
			Description:  draft.Description,
			PriceTier:    draft.PriceTier,
			PlaceID:      draft.PlaceID,
			Country:      draft.Country,
			CountryCode:  draft.CountryCode,
			Region:       draft.Region,
			City:         draft.City,
			Latitude:     draft.Latitude,
			Longitude:    draft.Longitude,
		}
	}

	return StepView{
		"view":        "setup",
		"form":        s.form,
		"tier_locked": draft != nil && draft.TierLocked,
		"price_tiers": []int{models.PriceTierEssential, models.PriceTierDetailed},
	}, nil
}

// UpdateForm replaces the editable fields and flags unsaved changes. The
// location block only moves through SelectDestination.
func (s *SetupStep) UpdateForm(f SetupForm) {
	s.mu.Lock()
	loc := s.form
	s.form = f
	s.form.PlaceID = loc.PlaceID
	s.form.Country = loc.Country
	s.form.CountryCode = loc.CountryCode
	s.form.Region = loc.Region
	s.form.City = loc.City
	s.form.Latitude = loc.Latitude
	s.form.Longitude = loc.Longitude
	s.mu.Unlock()
	s.ctl.MarkUnsaved()
}

// SearchDestinations proxies the debounced autocomplete for the destination
// input.
func (s *SetupStep) SearchDestinations(ctx context.Context, input string) []places.Suggestion {
	return s.places.SearchPlaces(ctx, input, nil)
}

// SelectDestination resolves a committed suggestion and fills the seven
// location fields.
func (s *SetupStep) SelectDestination(ctx context.Context, placeID string) error {
	details := s.places.GetPlaceDetails(ctx, placeID)
	if details == nil {
		return fmt.Errorf("could not resolve place %s", placeID)
	}

	s.mu.Lock()
	s.form.Destination = details.DisplayName
	s.form.PlaceID = details.PlaceID
	s.form.Country = details.Country
	s.form.CountryCode = details.CountryCode
	s.form.Region = details.Region
	s.form.City = details.City
	s.form.Latitude = details.Latitude
	s.form.Longitude = details.Longitude
	s.mu.Unlock()

	s.ctl.MarkUnsaved()
	return nil
}

func (s *SetupStep) ValidateStep() error {
	s.mu.Lock()
	f := s.form
	s.mu.Unlock()

	switch {
	case strings.TrimSpace(f.Title) == "":
		return errRequired("title")
	case len(f.Title) > maxTitleLen:
		return fmt.Errorf("title must be at most %d characters", maxTitleLen)
	case strings.TrimSpace(f.Destination) == "":
		return errRequired("destination")
	case strings.TrimSpace(f.Description) == "":
		return errRequired("description")
	case len(f.Description) > maxDescriptionLen:
		return fmt.Errorf("description must be at most %d characters", maxDescriptionLen)
	case f.PlaceID == "":
		return fmt.Errorf("pick a destination from the suggestions")
	case f.DurationDays < minDurationDays || f.DurationDays > maxDurationDays:
		return fmt.Errorf("duration must be between %d and %d days", minDurationDays, maxDurationDays)
	case f.PriceTier != models.PriceTierEssential && f.PriceTier != models.PriceTierDetailed:
		return fmt.Errorf("choose a price tier")
	}
	return nil
}

// SaveStep creates the draft if this is the first commit, then writes the
// whole setup payload plus one placeholder day per duration day.
func (s *SetupStep) SaveStep() error {
	if err := s.ValidateStep(); err != nil {
		return err
	}

	s.mu.Lock()
	f := s.form
	s.mu.Unlock()

	c := s.ctl
	days := defaultDays(f.DurationDays)
	if c.CurrentDraftID() == "" {
		draft, err := c.backend.Create(c.userID, f.PriceTier)
		if err != nil {
			return err
		}
		c.adoptDraft(draft.ID)
	} else {
		// Re-saving setup must not wipe days authored in step 2: keep
		// what exists and resize to the new duration.
		draft, err := c.backend.Get(c.userID, c.CurrentDraftID())
		if err != nil {
			return err
		}
		if len(draft.Days) > 0 {
			days = resizeDays(daysToInputs(draft.Days), f.DurationDays)
		}
	}

	_, err := c.backend.SaveComplete(c.userID, c.CurrentDraftID(), gateway.SaveCompleteInput{
		Fields: map[string]interface{}{
			"title":        f.Title,
			"destination":  f.Destination,
			"country":      f.Country,
			"country_code": f.CountryCode,
			"region":       f.Region,
			"city":         f.City,
			"latitude":     f.Latitude,
			"longitude":    f.Longitude,
			"place_id":     f.PlaceID,
			"description":  f.Description,
			"current_step": 2,
		},
		Days: days,
	})
	return err
}

func defaultDays(n int) []gateway.DayInput {
	days := make([]gateway.DayInput, n)
	for i := range days {
		days[i] = gateway.DayInput{
			Title: fmt.Sprintf("Day %d", i+1),
			Stops: []gateway.StopInput{},
		}
	}
	return days
}

func resizeDays(days []gateway.DayInput, n int) []gateway.DayInput {
	for len(days) < n {
		days = append(days, gateway.DayInput{
			Title: fmt.Sprintf("Day %d", len(days)+1),
			Stops: []gateway.StopInput{},
		})
	}
	return days[:n]
}

func errRequired(field string) error {
	return fmt.Errorf("%s is required", field)
}
