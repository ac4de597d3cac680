// internal/workers/outfits/analyze-twinning/models.go
package analyzetwinning

import "stylist-workers/internal/models"

type PersonInput struct {
	ImageURL     string `json:"imageUrl,omitempty"`
	Gender       string `json:"gender,omitempty"`
	HeightBucket string `json:"heightBucket,omitempty"`
	BodyType     string `json:"bodyType,omitempty"`
	SkinTone     string `json:"skinTone,omitempty"`
}

type Input struct {
	PersonA           PersonInput `json:"personA"`
	PersonB           PersonInput `json:"personB"`
	PlaceImageURL     string      `json:"placeImageUrl,omitempty"`
	Relationship      string      `json:"relationship,omitempty"`
	CoordinationStyle string      `json:"coordinationStyle,omitempty"`
	Occasion          string      `json:"occasion,omitempty"`
	Count             int         `json:"count,omitempty"`
}

type Output struct {
	Analysis *models.TwinningAnalysis `json:"analysis"`
}
