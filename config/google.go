package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"
	googleUserInfoURL  = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// GoogleIdentity is the slice of a verified Google profile the auth
// service consumes.
type GoogleIdentity struct {
	ID            string
	Email         string
	EmailVerified bool
	Picture       string
}

// GoogleConfig drives both sign-in paths: ID-token verification for
// clients using Google's sign-in SDK, and the server-side
// authorization-code exchange.
type GoogleConfig struct {
	OAuth *oauth2.Config

	// Overridable in tests.
	TokenInfoURL string
	UserInfoURL  string

	http *http.Client
}

// NewGoogleConfig reads GOOGLE_CLIENT_ID / GOOGLE_CLIENT_SECRET /
// GOOGLE_REDIRECT_URL. Missing credentials log a warning rather than
// failing boot; sign-in attempts then reject at verification time.
func NewGoogleConfig() *GoogleConfig {
	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		log.Println("Google OAuth credentials not set, Google sign-in disabled")
	}

	return &GoogleConfig{
		OAuth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		TokenInfoURL: googleTokenInfoURL,
		UserInfoURL:  googleUserInfoURL,
		http:         &http.Client{Timeout: 10 * time.Second},
	}
}

// VerifyIDToken validates the token against Google's tokeninfo endpoint
// and checks it was minted for this client.
func (g *GoogleConfig) VerifyIDToken(idToken string) (*GoogleIdentity, error) {
	resp, err := g.http.Get(g.TokenInfoURL + "?id_token=" + url.QueryEscape(idToken))
	if err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("invalid token")
	}

	// tokeninfo flattens every claim to a string.
	var claims struct {
		Sub           string `json:"sub"`
		Aud           string `json:"aud"`
		Email         string `json:"email"`
		EmailVerified string `json:"email_verified"`
		Picture       string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}
	if g.OAuth.ClientID == "" || claims.Aud != g.OAuth.ClientID {
		return nil, fmt.Errorf("token issued for another client")
	}

	return &GoogleIdentity{
		ID:            claims.Sub,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified == "true",
		Picture:       claims.Picture,
	}, nil
}

// ExchangeCode trades an authorization code for tokens and resolves the
// profile behind them.
func (g *GoogleConfig) ExchangeCode(ctx context.Context, code string) (*GoogleIdentity, error) {
	token, err := g.OAuth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}

	resp, err := g.http.Get(g.UserInfoURL + "?access_token=" + url.QueryEscape(token.AccessToken))
	if err != nil {
		return nil, fmt.Errorf("profile lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile lookup failed")
	}

	var profile struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Picture       string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("profile lookup failed: %w", err)
	}

	return &GoogleIdentity{
		ID:            profile.ID,
		Email:         profile.Email,
		EmailVerified: profile.VerifiedEmail,
		Picture:       profile.Picture,
	}, nil
}
