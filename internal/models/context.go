// internal/models/context.go
package models

import "time"

// CategoryContext is derived from a category slug on every request.
type CategoryContext struct {
	Slug            string `json:"slug"`
	DerivedGender   string `json:"derivedGender,omitempty"`
	StyleArchetype  string `json:"styleArchetype"`
	DBCategoryName  string `json:"dbCategoryName"`
	FreeTextContext string `json:"freeTextContext"`
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type WeatherReport struct {
	Temperature float64   `json:"temperature"`
	Condition   string    `json:"condition"`
	Humidity    int       `json:"humidity"`
	WindSpeed   float64   `json:"windSpeed"`
	Forecast    string    `json:"forecast"`
	Estimated   bool      `json:"estimated"`
	Source      string    `json:"source"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

type Topography struct {
	City               string   `json:"city"`
	Region             string   `json:"region"`
	Climate            string   `json:"climate"`
	Terrain            string   `json:"terrain"`
	CulturalStyle      string   `json:"culturalStyle"`
	LocalFashionTrends []string `json:"localFashionTrends"`
	Estimated          bool     `json:"estimated"`
	Source             string   `json:"source"`
}

// LocationContext bundles both external signals for one coordinate.
type LocationContext struct {
	Coordinates Coordinates    `json:"coordinates"`
	Weather     *WeatherReport `json:"weather,omitempty"`
	Topography  *Topography    `json:"topography,omitempty"`
}
