package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// DebounceDelay is the trailing delay applied to autocomplete calls.
	DebounceDelay = 300 * time.Millisecond
	// SessionTokenTTL is the upstream billing-session inactivity window.
	SessionTokenTTL = 180 * time.Second

	minDestinationChars = 3
	minStopChars        = 2
)

var destinationTypes = []string{"locality", "administrative_area_level_1", "country"}

// Suggestion is a normalized autocomplete entry.
type Suggestion struct {
	PlaceID       string   `json:"place_id"`
	Description   string   `json:"description"`
	MainText      string   `json:"main_text"`
	SecondaryText string   `json:"secondary_text"`
	Types         []string `json:"types,omitempty"`
}

// PlaceDetails is the flattened result of a details lookup.
type PlaceDetails struct {
	PlaceID     string   `json:"place_id"`
	DisplayName string   `json:"display_name"`
	Country     string   `json:"country"`
	CountryCode string   `json:"country_code"`
	Region      string   `json:"region"`
	City        string   `json:"city"`
	Latitude    float64  `json:"lat"`
	Longitude   float64  `json:"lng"`
	Types       []string `json:"types,omitempty"`
}

// LocationBias biases autocomplete results around a point.
type LocationBias struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Radius float64 `json:"radius,omitempty"`
}

// Client talks to the autocomplete and details proxy endpoints. All
// autocomplete calls within one picker interaction share a session token
// so the upstream bills them as a single session; the token is dropped
// after SessionTokenTTL of inactivity or after a successful details
// lookup.
type Client struct {
	baseURL string
	http    *http.Client

	mu           sync.Mutex
	sessionToken string
	sessionTimer *time.Timer
	searchGen    uint64

	// debounce hook, overridden in tests
	wait func(ctx context.Context, d time.Duration) bool
}

func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	c.wait = c.sleep
	return c
}

func (c *Client) sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// SearchPlaces looks up destinations (cities, regions, countries).
// Calls are debounced with a trailing delay: when several calls race,
// only the last one issues a request and the rest return nil.
func (c *Client) SearchPlaces(ctx context.Context, input string, bias *LocationBias) []Suggestion {
	return c.search(ctx, input, minDestinationChars, destinationTypes, bias)
}

// SearchStopPlaces looks up points of interest for stop editing.
func (c *Client) SearchStopPlaces(ctx context.Context, input string, bias *LocationBias) []Suggestion {
	return c.search(ctx, input, minStopChars, nil, bias)
}

func (c *Client) search(ctx context.Context, input string, minChars int, types []string, bias *LocationBias) []Suggestion {
	input = strings.TrimSpace(input)
	if utf8.RuneCountInString(input) < minChars {
		return []Suggestion{}
	}

	c.mu.Lock()
	c.searchGen++
	gen := c.searchGen
	c.mu.Unlock()

	if !c.wait(ctx, DebounceDelay) {
		return nil
	}

	c.mu.Lock()
	if gen != c.searchGen {
		// A newer call superseded this one during the delay.
		c.mu.Unlock()
		return nil
	}
	token := c.touchSessionLocked()
	c.mu.Unlock()

	body := map[string]any{
		"input":        input,
		"sessionToken": token,
	}
	if len(types) > 0 {
		body["types"] = types
	}
	if bias != nil {
		body["locationBias"] = bias
	}

	var out autocompleteResponse
	if err := c.post(ctx, "/places/autocomplete", body, &out); err != nil {
		log.Printf("places autocomplete failed: %v", err)
		return []Suggestion{}
	}

	suggestions := make([]Suggestion, 0, len(out.Suggestions))
	for _, s := range out.Suggestions {
		p := s.PlacePrediction
		if p.PlaceID == "" {
			continue
		}
		suggestions = append(suggestions, normalizeSuggestion(p))
	}
	return suggestions
}

// GetPlaceDetails resolves a place id to address components. A
// successful lookup closes the current billing session.
func (c *Client) GetPlaceDetails(ctx context.Context, placeID string) *PlaceDetails {
	if placeID == "" {
		return nil
	}

	var out detailsResponse
	if err := c.post(ctx, "/places/details", map[string]any{"placeId": placeID}, &out); err != nil {
		log.Printf("places details failed for %s: %v", placeID, err)
		return nil
	}

	c.resetSession()

	d := &PlaceDetails{
		PlaceID:     out.ID,
		DisplayName: out.DisplayName.Text,
		Latitude:    out.Location.Latitude,
		Longitude:   out.Location.Longitude,
		Types:       out.Types,
	}
	var adminArea2 string
	for _, comp := range out.AddressComponents {
		for _, t := range comp.Types {
			switch t {
			case "country":
				d.Country = comp.LongText
				d.CountryCode = comp.ShortText
			case "administrative_area_level_1":
				d.Region = comp.LongText
			case "administrative_area_level_2":
				adminArea2 = comp.LongText
			case "locality":
				d.City = comp.LongText
			}
		}
	}
	if d.City == "" {
		d.City = adminArea2
	}
	return d
}

// SessionToken returns the current billing-session token, if any.
func (c *Client) SessionToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionToken
}

func (c *Client) touchSessionLocked() string {
	if c.sessionToken == "" {
		c.sessionToken = uuid.New().String()
	}
	if c.sessionTimer != nil {
		c.sessionTimer.Stop()
	}
	c.sessionTimer = time.AfterFunc(SessionTokenTTL, c.resetSession)
	return c.sessionToken
}

func (c *Client) resetSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionToken = ""
	if c.sessionTimer != nil {
		c.sessionTimer.Stop()
		c.sessionTimer = nil
	}
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

type autocompleteResponse struct {
	Suggestions []struct {
		PlacePrediction placePrediction `json:"placePrediction"`
	} `json:"suggestions"`
}

type placePrediction struct {
	PlaceID string `json:"placeId"`
	Text    struct {
		Text string `json:"text"`
	} `json:"text"`
	StructuredFormat struct {
		MainText struct {
			Text string `json:"text"`
		} `json:"mainText"`
		SecondaryText struct {
			Text string `json:"text"`
		} `json:"secondaryText"`
	} `json:"structuredFormat"`
	Types []string `json:"types"`
}

type detailsResponse struct {
	ID          string `json:"id"`
	DisplayName struct {
		Text string `json:"text"`
	} `json:"displayName"`
	FormattedAddress  string `json:"formattedAddress"`
	AddressComponents []struct {
		LongText  string   `json:"longText"`
		ShortText string   `json:"shortText"`
		Types     []string `json:"types"`
	} `json:"addressComponents"`
	Location struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	Types []string `json:"types"`
}

func normalizeSuggestion(p placePrediction) Suggestion {
	s := Suggestion{
		PlaceID:       p.PlaceID,
		Description:   p.Text.Text,
		MainText:      p.StructuredFormat.MainText.Text,
		SecondaryText: p.StructuredFormat.SecondaryText.Text,
		Types:         p.Types,
	}
	if s.MainText == "" {
		// No structured split from upstream; split the description
		// on the first comma instead.
		if idx := strings.Index(s.Description, ","); idx >= 0 {
			s.MainText = strings.TrimSpace(s.Description[:idx])
			s.SecondaryText = strings.TrimSpace(s.Description[idx+1:])
		} else {
			s.MainText = s.Description
		}
	}
	return s
}
