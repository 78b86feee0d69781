package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wander-list/api-go/config"
)

const (
	placesUpstream = "https://places.googleapis.com/v1"

	// DefaultBiasRadius is applied when a location bias arrives without one.
	DefaultBiasRadius = 50000.0

	autocompleteFieldMask = "suggestions.placePrediction.placeId,suggestions.placePrediction.text,suggestions.placePrediction.structuredFormat,suggestions.placePrediction.types"
	detailsFieldMask      = "id,displayName,formattedAddress,addressComponents,location,shortFormattedAddress,types"
)

// PlacesController proxies the third-party places API so the key never
// reaches a client. Both endpoints answer POST only; OPTIONS replies 200
// for CORS preflight.
type PlacesController struct {
	Config   *config.PlacesConfig
	Upstream string
	HTTP     *http.Client
}

func NewPlacesController() *PlacesController {
	return &PlacesController{
		Config:   config.GetPlacesConfig(),
		Upstream: placesUpstream,
		HTTP:     &http.Client{Timeout: 10 * time.Second},
	}
}

type autocompleteRequest struct {
	Input          string   `json:"input"`
	SessionToken   string   `json:"sessionToken"`
	Types          []string `json:"types"`
	RegionCodes    []string `json:"regionCodes"`
	Language       string   `json:"language"`
	MaxSuggestions int      `json:"maxSuggestions"`
	LocationBias   *struct {
		Lat    float64  `json:"lat"`
		Lng    float64  `json:"lng"`
		Radius *float64 `json:"radius"`
	} `json:"locationBias"`
}

func (pc *PlacesController) Autocomplete(c *gin.Context) {
	if !pc.gatePost(c) {
		return
	}

	var req autocompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Input == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "input is required"})
		return
	}

	payload := map[string]interface{}{
		"input": req.Input,
	}
	if req.SessionToken != "" {
		payload["sessionToken"] = req.SessionToken
	}
	if len(req.Types) > 0 {
		payload["includedPrimaryTypes"] = req.Types
	}
	if len(req.RegionCodes) > 0 {
		payload["includedRegionCodes"] = req.RegionCodes
	}
	if req.Language != "" {
		payload["languageCode"] = req.Language
	}
	if req.LocationBias != nil {
		radius := DefaultBiasRadius
		if req.LocationBias.Radius != nil && *req.LocationBias.Radius > 0 {
			radius = *req.LocationBias.Radius
		}
		payload["locationBias"] = map[string]interface{}{
			"circle": map[string]interface{}{
				"center": map[string]interface{}{
					"latitude":  req.LocationBias.Lat,
					"longitude": req.LocationBias.Lng,
				},
				"radius": radius,
			},
		}
	}

	body, _ := json.Marshal(payload)
	upstream, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost,
		pc.Upstream+"/places:autocomplete", bytes.NewReader(body))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Autocomplete failed"})
		return
	}
	upstream.Header.Set("Content-Type", "application/json")
	upstream.Header.Set("X-Goog-Api-Key", pc.Config.APIKey)
	upstream.Header.Set("X-Goog-FieldMask", autocompleteFieldMask)

	resp, err := pc.HTTP.Do(upstream)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Places service unavailable"})
		return
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		pc.passError(c, resp.StatusCode, "Autocomplete failed", raw)
		return
	}

	if req.MaxSuggestions > 0 {
		var parsed struct {
			Suggestions []json.RawMessage `json:"suggestions"`
		}
		if err := json.Unmarshal(raw, &parsed); err == nil && len(parsed.Suggestions) > req.MaxSuggestions {
			parsed.Suggestions = parsed.Suggestions[:req.MaxSuggestions]
			c.JSON(http.StatusOK, gin.H{"suggestions": parsed.Suggestions})
			return
		}
	}

	c.Data(http.StatusOK, "application/json", raw)
}

func (pc *PlacesController) Details(c *gin.Context) {
	if !pc.gatePost(c) {
		return
	}

	var req struct {
		PlaceID string `json:"placeId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.PlaceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "placeId is required"})
		return
	}

	upstream, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet,
		pc.Upstream+"/places/"+req.PlaceID, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Place lookup failed"})
		return
	}
	upstream.Header.Set("X-Goog-Api-Key", pc.Config.APIKey)
	upstream.Header.Set("X-Goog-FieldMask", detailsFieldMask)

	resp, err := pc.HTTP.Do(upstream)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Places service unavailable"})
		return
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusNotFound {
		pc.passError(c, http.StatusNotFound, "Place not found", raw)
		return
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		pc.passError(c, resp.StatusCode, "Place lookup failed", raw)
		return
	}

	c.Data(http.StatusOK, "application/json", raw)
}

// gatePost enforces the method contract: POST proceeds, OPTIONS answers the
// preflight, anything else is 405.
func (pc *PlacesController) gatePost(c *gin.Context) bool {
	switch c.Request.Method {
	case http.MethodPost:
		return true
	case http.MethodOptions:
		c.Status(http.StatusOK)
		return false
	default:
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
		return false
	}
}

// passError relays the upstream status; outside production the upstream body
// rides along for debugging.
func (pc *PlacesController) passError(c *gin.Context, status int, msg string, raw []byte) {
	body := gin.H{"error": msg}
	if pc.Config.Debug && len(raw) > 0 {
		body["details"] = json.RawMessage(raw)
	}
	c.JSON(status, body)
}
