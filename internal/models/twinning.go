// internal/models/twinning.go
package models

type PersonAnalysis struct {
	Gender         string   `json:"gender"`
	HeightBucket   string   `json:"heightBucket"`
	BodyType       string   `json:"bodyType"`
	SkinTone       string   `json:"skinTone"`
	CurrentStyle   string   `json:"currentStyle"`
	DominantColors []string `json:"dominantColors"`
}

type PlaceAnalysis struct {
	Setting      string   `json:"setting"`
	Ambience     string   `json:"ambience"`
	Formality    string   `json:"formality"`
	ColorPalette []string `json:"colorPalette"`
	Lighting     string   `json:"lighting"`
}

type Coordination struct {
	Theme        string   `json:"theme"`
	SharedColors []string `json:"sharedColors"`
	Tips         []string `json:"tips"`
}

// TwinningAnalysis is built per request and never persisted.
type TwinningAnalysis struct {
	PersonA           PersonAnalysis     `json:"personA"`
	PersonB           PersonAnalysis     `json:"personB"`
	Place             *PlaceAnalysis     `json:"place,omitempty"`
	Relationship      string             `json:"relationship"`
	CoordinationStyle string             `json:"coordinationStyle"`
	Coordination      Coordination       `json:"coordination"`
	PersonAOutfits    []OutfitSuggestion `json:"personAOutfits"`
	PersonBOutfits    []OutfitSuggestion `json:"personBOutfits"`
	Source            string             `json:"source"`
	Warnings          []string           `json:"warnings,omitempty"`
}
