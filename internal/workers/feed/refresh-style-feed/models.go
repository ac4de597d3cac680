// internal/workers/feed/refresh-style-feed/models.go
package refreshstylefeed

import (
	"stylist-workers/internal/models"
	"stylist-workers/internal/styling/advice"
	"stylist-workers/internal/styling/recommend"
)

type Input struct {
	UserID string `json:"userId"`
	// Owner scopes staleness, e.g. one screen of one user. Defaults to UserID.
	Owner        string              `json:"owner,omitempty"`
	CategorySlug string              `json:"categorySlug"`
	Location     *models.Coordinates `json:"location,omitempty"`
	Count        int                 `json:"count,omitempty"`
}

type Output struct {
	Seq         uint64                   `json:"seq"`
	RequestID   string                   `json:"requestId"`
	Published   bool                     `json:"published"`
	Profile     *models.UserProfile      `json:"profile,omitempty"`
	Normalized  models.NormalizedProfile `json:"normalized"`
	Advice      *advice.Result           `json:"advice,omitempty"`
	Suggestions *recommend.Response      `json:"suggestions,omitempty"`
	Warnings    []string                 `json:"warnings,omitempty"`
}
