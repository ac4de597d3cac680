// internal/models/outfit.go
package models

type OutfitSuggestion struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	Items            []string       `json:"items"`
	Occasion         string         `json:"occasion"`
	Season           string         `json:"season"`
	Colors           []string       `json:"colors"`
	PriceRange       string         `json:"price_range"`
	StyleTips        []string       `json:"style_tips"`
	ImageDescription string         `json:"image_description"`
	ShoppingLinks    []PlatformLink `json:"shopping_links,omitempty"`
	ReferenceLinks   []PlatformLink `json:"reference_links,omitempty"`
}

type PlatformLink struct {
	Platform    string `json:"platform"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Clone returns a deep copy so that callers never share slices.
func (o OutfitSuggestion) Clone() OutfitSuggestion {
	c := o
	c.Items = cloneStrings(o.Items)
	c.Colors = cloneStrings(o.Colors)
	c.StyleTips = cloneStrings(o.StyleTips)
	c.ShoppingLinks = append([]PlatformLink(nil), o.ShoppingLinks...)
	c.ReferenceLinks = append([]PlatformLink(nil), o.ReferenceLinks...)
	return c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}
