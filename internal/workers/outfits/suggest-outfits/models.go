// internal/workers/outfits/suggest-outfits/models.go
package suggestoutfits

import "stylist-workers/internal/models"

type Input struct {
	UserID       string              `json:"userId,omitempty"`
	Profile      *models.UserProfile `json:"profile,omitempty"`
	CategorySlug string              `json:"categorySlug"`
	Location     *models.Coordinates `json:"location,omitempty"`
	ImageURL     string              `json:"imageUrl,omitempty"`
	Count        int                 `json:"count,omitempty"`
}

type Output struct {
	Outfits    []models.OutfitSuggestion `json:"outfits"`
	Source     string                    `json:"source"`
	Notice     string                    `json:"notice,omitempty"`
	Warnings   []string                  `json:"warnings,omitempty"`
	Gender     string                    `json:"gender"`
	Category   models.CategoryContext    `json:"category"`
	Weather    *models.WeatherReport     `json:"weather,omitempty"`
	Topography *models.Topography        `json:"topography,omitempty"`
}
