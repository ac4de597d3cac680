// internal/workers/profile/update-style-profile/models.go
package updatestyleprofile

import "stylist-workers/internal/models"

type Input struct {
	UserID string               `json:"userId" validate:"required,max=128"`
	Update models.ProfileUpdate `json:"update"`
	// CreateIfMissing overrides the worker default when set.
	CreateIfMissing *bool `json:"createIfMissing,omitempty"`
}

type Output struct {
	Updated    bool                     `json:"updated"`
	Created    bool                     `json:"created"`
	Profile    *models.UserProfile      `json:"profile"`
	Normalized models.NormalizedProfile `json:"normalized"`
}
