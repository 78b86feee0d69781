package authoring

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/wander-list/api-go/gateway"
	"github.com/wander-list/api-go/models"
)

// DaysStep edits the day/stop subtree. It keeps the whole structure in
// memory and writes it back in one SaveComplete, so partial edits never
// touch the database.
type DaysStep struct {
	ctl *Controller

	mu       sync.Mutex
	tier     int
	days     []gateway.DayInput
	selected int
}

func NewDaysStep() *DaysStep { return &DaysStep{} }

func (s *DaysStep) Init(c *Controller) { s.ctl = c }

func (s *DaysStep) Render(draft *models.Draft) (StepView, error) {
	if draft == nil {
		return nil, fmt.Errorf("no draft loaded")
	}

	s.mu.Lock()
	s.tier = draft.PriceTier
	s.days = daysToInputs(draft.Days)
	if s.selected >= len(s.days) {
		s.selected = 0
	}
	view := s.viewLocked()
	s.mu.Unlock()
	return view, nil
}

func (s *DaysStep) viewLocked() StepView {
	sidebar := make([]StepView, len(s.days))
	for i, day := range s.days {
		sidebar[i] = StepView{
			"index":      i,
			"title":      day.Title,
			"stop_count": len(day.Stops),
		}
	}

	var editor StepView
	if s.selected < len(s.days) {
		editor = StepView{
			"index":       s.selected,
			"title":       s.days[s.selected].Title,
			"description": s.days[s.selected].Description,
			"stops":       s.days[s.selected].Stops,
		}
	}

	return StepView{
		"view":          "days",
		"detailed_tier": s.tier == models.PriceTierDetailed,
		"stop_types":    models.StopTypes,
		"time_periods":  models.TimePeriods,
		"sidebar":       sidebar,
		"editor":        editor,
	}
}

// View re-renders from the in-memory model without a database read.
func (s *DaysStep) View() StepView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *DaysStep) SelectDay(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.days) {
		return fmt.Errorf("no day %d", i)
	}
	s.selected = i
	return nil
}

func (s *DaysStep) AddDay() {
	s.mu.Lock()
	s.days = append(s.days, gateway.DayInput{
		Title: fmt.Sprintf("Day %d", len(s.days)+1),
		Stops: []gateway.StopInput{},
	})
	s.selected = len(s.days) - 1
	s.mu.Unlock()
	s.ctl.MarkUnsaved()
}

// DuplicateDay copies a day, stops included, right after the original.
func (s *DaysStep) DuplicateDay(i int) error {
	s.mu.Lock()
	if i < 0 || i >= len(s.days) {
		s.mu.Unlock()
		return fmt.Errorf("no day %d", i)
	}
	copied := s.days[i]
	copied.Stops = append([]gateway.StopInput{}, copied.Stops...)
	copied.Title = copied.Title + " (copy)"
	s.days = append(s.days[:i+1], append([]gateway.DayInput{copied}, s.days[i+1:]...)...)
	s.selected = i + 1
	s.mu.Unlock()
	s.ctl.MarkUnsaved()
	return nil
}

func (s *DaysStep) RemoveDay(i int) error {
	s.mu.Lock()
	if i < 0 || i >= len(s.days) {
		s.mu.Unlock()
		return fmt.Errorf("no day %d", i)
	}
	if len(s.days) == 1 {
		s.mu.Unlock()
		return fmt.Errorf("a trip needs at least one day")
	}
	s.days = append(s.days[:i], s.days[i+1:]...)
	if s.selected >= len(s.days) {
		s.selected = len(s.days) - 1
	}
	s.mu.Unlock()
	s.ctl.MarkUnsaved()
	return nil
}

func (s *DaysStep) UpdateDay(i int, title, description string) error {
	s.mu.Lock()
	if i < 0 || i >= len(s.days) {
		s.mu.Unlock()
		return fmt.Errorf("no day %d", i)
	}
	s.days[i].Title = title
	s.days[i].Description = description
	s.mu.Unlock()
	s.ctl.MarkUnsaved()
	return nil
}

func (s *DaysStep) AddStop(day int, stop gateway.StopInput) error {
	s.mu.Lock()
	if day < 0 || day >= len(s.days) {
		s.mu.Unlock()
		return fmt.Errorf("no day %d", day)
	}
	s.days[day].Stops = append(s.days[day].Stops, stop)
	s.mu.Unlock()
	s.ctl.MarkUnsaved()
	return nil
}

func (s *DaysStep) UpdateStop(day, idx int, stop gateway.StopInput) error {
	s.mu.Lock()
	if day < 0 || day >= len(s.days) || idx < 0 || idx >= len(s.days[day].Stops) {
		s.mu.Unlock()
		return fmt.Errorf("no stop %d on day %d", idx, day)
	}
	s.days[day].Stops[idx] = stop
	s.mu.Unlock()
	s.ctl.MarkUnsaved()
	return nil
}

func (s *DaysStep) RemoveStop(day, idx int) error {
	s.mu.Lock()
	if day < 0 || day >= len(s.days) || idx < 0 || idx >= len(s.days[day].Stops) {
		s.mu.Unlock()
		return fmt.Errorf("no stop %d on day %d", idx, day)
	}
	s.days[day].Stops = append(s.days[day].Stops[:idx], s.days[day].Stops[idx+1:]...)
	s.mu.Unlock()
	s.ctl.MarkUnsaved()
	return nil
}

// SetStopCost takes the creator-entered euro amount and stores whole cents.
func (s *DaysStep) SetStopCost(day, idx int, euros float64) error {
	cents := EurosToCents(euros)
	s.mu.Lock()
	if day < 0 || day >= len(s.days) || idx < 0 || idx >= len(s.days[day].Stops) {
		s.mu.Unlock()
		return fmt.Errorf("no stop %d on day %d", idx, day)
	}
	s.days[day].Stops[idx].CostCents = &cents
	s.mu.Unlock()
	s.ctl.MarkUnsaved()
	return nil
}

// EurosToCents converts a euro amount to integer cents.
func EurosToCents(euros float64) int {
	return int(math.Round(euros * 100))
}

func (s *DaysStep) ValidateStep() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	basic := s.tier == models.PriceTierEssential
	for i, day := range s.days {
		if len(day.Stops) == 0 {
			return fmt.Errorf("day %d has no stops", i+1)
		}
		for j, stop := range day.Stops {
			if strings.TrimSpace(stop.Name) == "" {
				return fmt.Errorf("stop %d on day %d needs a name", j+1, i+1)
			}
			if basic && strings.TrimSpace(stop.Tip) == "" {
				return fmt.Errorf("stop %d on day %d needs a tip", j+1, i+1)
			}
		}
	}
	return nil
}

func (s *DaysStep) SaveStep() error {
	s.mu.Lock()
	days := make([]gateway.DayInput, len(s.days))
	copy(days, s.days)
	s.mu.Unlock()

	if len(days) == 0 {
		return fmt.Errorf("no draft loaded")
	}

	c := s.ctl
	_, err := c.backend.SaveComplete(c.userID, c.CurrentDraftID(), gateway.SaveCompleteInput{
		Days: days,
	})
	return err
}

func daysToInputs(days []models.DraftDay) []gateway.DayInput {
	out := make([]gateway.DayInput, len(days))
	for i, day := range days {
		stops := make([]gateway.StopInput, len(day.Stops))
		for j, stop := range day.Stops {
			stops[j] = gateway.StopInput{
				Name:             stop.Name,
				Type:             stop.Type,
				Tip:              stop.Tip,
				Description:      stop.Description,
				TimePeriod:       stop.TimePeriod,
				StartTime:        stop.StartTime,
				DurationMinutes:  stop.DurationMinutes,
				CostCents:        stop.CostCents,
				Link:             stop.Link,
				Latitude:         stop.Latitude,
				Longitude:        stop.Longitude,
				PlaceID:          stop.PlaceID,
				FormattedAddress: stop.FormattedAddress,
			}
		}
		out[i] = gateway.DayInput{
			Title:       day.Title,
			Description: day.Description,
			Stops:       stops,
		}
	}
	return out
}
