package places

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Path string
	Body map[string]any
}

func newTestServer(t *testing.T, autocompleteBody, detailsBody string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var requests []recordedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)

		mu.Lock()
		requests = append(requests, recordedRequest{Path: r.URL.Path, Body: body})
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/places/autocomplete":
			w.Write([]byte(autocompleteBody))
		case "/places/details":
			w.Write([]byte(detailsBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

const parisAutocomplete = `{
	"suggestions": [{
		"placePrediction": {
			"placeId": "paris-1",
			"text": {"text": "Paris, France"},
			"structuredFormat": {
				"mainText": {"text": "Paris"},
				"secondaryText": {"text": "France"}
			},
			"types": ["locality"]
		}
	}]
}`

const parisDetails = `{
	"id": "paris-1",
	"displayName": {"text": "Paris"},
	"addressComponents": [
		{"longText": "France", "shortText": "FR", "types": ["country"]},
		{"longText": "Île-de-France", "shortText": "IDF", "types": ["administrative_area_level_1"]},
		{"longText": "Paris", "shortText": "Paris", "types": ["locality"]}
	],
	"location": {"latitude": 48.8566, "longitude": 2.3522},
	"types": ["locality"]
}`

func immediate(ctx context.Context, d time.Duration) bool { return true }

func TestSearchPlacesShortInputSkipsRequest(t *testing.T) {
	srv, requests := newTestServer(t, parisAutocomplete, parisDetails)
	c := NewClient(srv.URL)
	c.wait = immediate

	got := c.SearchPlaces(context.Background(), "pa", nil)

	assert.Empty(t, got)
	assert.Empty(t, *requests)
}

func TestSearchPlacesCountsRunesNotBytes(t *testing.T) {
	srv, requests := newTestServer(t, parisAutocomplete, parisDetails)
	c := NewClient(srv.URL)
	c.wait = immediate

	// Two runes, three bytes: still under the destination minimum.
	got := c.SearchPlaces(context.Background(), "mü", nil)
	assert.Empty(t, got)
	assert.Empty(t, *requests)

	// A single CJK rune is three bytes but one character.
	got = c.SearchStopPlaces(context.Background(), "東", nil)
	assert.Empty(t, got)
	assert.Empty(t, *requests)

	// Three runes clear the destination gate regardless of byte width.
	got = c.SearchPlaces(context.Background(), "mün", nil)
	require.Len(t, *requests, 1)
	require.Len(t, got, 1)
}

func TestSearchStopPlacesAcceptsTwoChars(t *testing.T) {
	srv, requests := newTestServer(t, parisAutocomplete, parisDetails)
	c := NewClient(srv.URL)
	c.wait = immediate

	got := c.SearchStopPlaces(context.Background(), "lo", nil)

	require.Len(t, got, 1)
	require.Len(t, *requests, 1)
}

func TestSearchPlacesNormalizesSuggestions(t *testing.T) {
	srv, _ := newTestServer(t, parisAutocomplete, parisDetails)
	c := NewClient(srv.URL)
	c.wait = immediate

	got := c.SearchPlaces(context.Background(), "paris", nil)

	require.Len(t, got, 1)
	assert.Equal(t, "paris-1", got[0].PlaceID)
	assert.Equal(t, "Paris, France", got[0].Description)
	assert.Equal(t, "Paris", got[0].MainText)
	assert.Equal(t, "France", got[0].SecondaryText)
}

func TestSearchPlacesFallsBackToCommaSplit(t *testing.T) {
	body := `{"suggestions": [{"placePrediction": {
		"placeId": "lyon-1",
		"text": {"text": "Lyon, Auvergne-Rhône-Alpes, France"}
	}}]}`
	srv, _ := newTestServer(t, body, parisDetails)
	c := NewClient(srv.URL)
	c.wait = immediate

	got := c.SearchPlaces(context.Background(), "lyon", nil)

	require.Len(t, got, 1)
	assert.Equal(t, "Lyon", got[0].MainText)
	assert.Equal(t, "Auvergne-Rhône-Alpes, France", got[0].SecondaryText)
}

func TestDebounceOnlyLastCallIssuesRequest(t *testing.T) {
	srv, requests := newTestServer(t, parisAutocomplete, parisDetails)
	c := NewClient(srv.URL)

	release := make(chan struct{})
	entered := make(chan struct{})
	c.wait = func(ctx context.Context, d time.Duration) bool {
		entered <- struct{}{}
		<-release
		return true
	}

	inputs := []string{"par", "pari", "paris"}
	results := make([][]Suggestion, len(inputs))
	var wg sync.WaitGroup
	for i, input := range inputs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = c.SearchPlaces(context.Background(), input, nil)
		}()
		<-entered // call has registered before the next starts
	}
	close(release)
	wg.Wait()

	require.Len(t, *requests, 1)
	assert.Equal(t, "paris", (*requests)[0].Body["input"])
	assert.Nil(t, results[0])
	assert.Nil(t, results[1])
	require.Len(t, results[2], 1)
}

func TestSessionTokenSharedAcrossSearchesAndResetByDetails(t *testing.T) {
	srv, requests := newTestServer(t, parisAutocomplete, parisDetails)
	c := NewClient(srv.URL)
	c.wait = immediate

	ctx := context.Background()
	c.SearchPlaces(ctx, "paris", nil)
	c.SearchPlaces(ctx, "paris fr", nil)

	require.Len(t, *requests, 2)
	first, _ := (*requests)[0].Body["sessionToken"].(string)
	second, _ := (*requests)[1].Body["sessionToken"].(string)
	require.NotEmpty(t, first)
	assert.Equal(t, first, second)

	details := c.GetPlaceDetails(ctx, "paris-1")
	require.NotNil(t, details)
	assert.Empty(t, c.SessionToken())

	c.SearchPlaces(ctx, "rome", nil)
	require.Len(t, *requests, 4)
	third, _ := (*requests)[3].Body["sessionToken"].(string)
	require.NotEmpty(t, third)
	assert.NotEqual(t, first, third)
}

func TestGetPlaceDetailsMapsAddressComponents(t *testing.T) {
	srv, _ := newTestServer(t, parisAutocomplete, parisDetails)
	c := NewClient(srv.URL)

	got := c.GetPlaceDetails(context.Background(), "paris-1")

	require.NotNil(t, got)
	assert.Equal(t, "Paris", got.DisplayName)
	assert.Equal(t, "France", got.Country)
	assert.Equal(t, "FR", got.CountryCode)
	assert.Equal(t, "Île-de-France", got.Region)
	assert.Equal(t, "Paris", got.City)
	assert.InDelta(t, 48.8566, got.Latitude, 1e-6)
	assert.InDelta(t, 2.3522, got.Longitude, 1e-6)
}

func TestGetPlaceDetailsCityFallsBackToCounty(t *testing.T) {
	body := `{
		"id": "rural-1",
		"displayName": {"text": "Somewhere"},
		"addressComponents": [
			{"longText": "France", "shortText": "FR", "types": ["country"]},
			{"longText": "Dordogne", "shortText": "24", "types": ["administrative_area_level_2"]}
		],
		"location": {"latitude": 45.0, "longitude": 0.7}
	}`
	srv, _ := newTestServer(t, parisAutocomplete, body)
	c := NewClient(srv.URL)

	got := c.GetPlaceDetails(context.Background(), "rural-1")

	require.NotNil(t, got)
	assert.Equal(t, "Dordogne", got.City)
}

func TestUpstreamErrorReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)
	c.wait = immediate

	assert.Empty(t, c.SearchPlaces(context.Background(), "paris", nil))
	assert.Nil(t, c.GetPlaceDetails(context.Background(), "paris-1"))
}
