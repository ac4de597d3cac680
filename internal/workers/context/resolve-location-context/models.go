// internal/workers/context/resolve-location-context/models.go
package resolvelocationcontext

import "stylist-workers/internal/models"

type Input struct {
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	IncludeWeather    *bool    `json:"includeWeather,omitempty"`
	IncludeTopography *bool    `json:"includeTopography,omitempty"`
}

type Output struct {
	Context models.LocationContext `json:"locationContext"`
}
