package config

import "os"

type PlacesConfig struct {
	APIKey string
	Debug  bool
}

func GetPlacesConfig() *PlacesConfig {
	return &PlacesConfig{
		APIKey: os.Getenv("GOOGLE_PLACES_API"),
		Debug:  os.Getenv("APP_ENV") != "production",
	}
}
