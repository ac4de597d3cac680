// internal/workers/advice/match-advice/models.go
package matchadvice

import "stylist-workers/internal/models"

type Input struct {
	UserID       string              `json:"userId"`
	Profile      *models.UserProfile `json:"profile,omitempty"`
	CategorySlug string              `json:"categorySlug"`
	GenderPolicy string              `json:"genderPolicy,omitempty"`
}

type Output struct {
	Found           bool                     `json:"found"`
	Advice          []string                 `json:"advice"`
	Sources         []string                 `json:"sources"`
	Category        string                   `json:"category"`
	MatchedCategory string                   `json:"matchedCategory,omitempty"`
	Stage           string                   `json:"stage,omitempty"`
	Score           int                      `json:"score"`
	Gender          string                   `json:"gender"`
	ProfileFound    bool                     `json:"profileFound"`
	Profile         models.NormalizedProfile `json:"profile"`
}
