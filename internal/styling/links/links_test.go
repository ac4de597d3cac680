// internal/styling/links/links_test.go
package links

import (
	"net/url"
	"testing"

	"stylist-workers/internal/models"
	"stylist-workers/internal/styling/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOutfit() models.OutfitSuggestion {
	return models.OutfitSuggestion{
		ID:               "o-1",
		Title:            "Monsoon Smart Casual",
		Description:      "Breathable layers.",
		Items:            []string{"Navy linen shirt", "Beige chinos", "Brown loafers"},
		Occasion:         "date night",
		Season:           "monsoon",
		Colors:           []string{"navy", "beige"},
		PriceRange:       "mid-range",
		StyleTips:        []string{},
		ImageDescription: "Man in navy",
	}
}

func TestEnrich_DoesNotMutate(t *testing.T) {
	original := []models.OutfitSuggestion{sampleOutfit()}
	snapshot := original[0].Clone()

	enriched := Enrich(original, "male")

	require.Len(t, enriched, 1)
	assert.Equal(t, snapshot, original[0])
	assert.Nil(t, original[0].ShoppingLinks)
	assert.Len(t, enriched[0].ShoppingLinks, 4)
	assert.Len(t, enriched[0].ReferenceLinks, 3)

	enriched[0].Items[0] = "changed"
	assert.Equal(t, "Navy linen shirt", original[0].Items[0])
}

func TestEnrich_ParsedOutfitRoundTrip(t *testing.T) {
	res := parser.ParseOutfits(`[{"id":"a","title":"Office Basics","items":["White shirt","Grey trousers"],"colors":["white"]}]`,
		parser.Options{Gender: "male"})
	require.Len(t, res.Outfits, 1)
	before := res.Outfits[0].Clone()

	enriched := Enrich(res.Outfits, "male")

	assert.NotEmpty(t, enriched[0].ShoppingLinks)
	assert.NotEmpty(t, enriched[0].ReferenceLinks)

	stripped := enriched[0]
	stripped.ShoppingLinks = nil
	stripped.ReferenceLinks = nil
	assert.Equal(t, before, stripped)
}

func TestShoppingLinks(t *testing.T) {
	links := ShoppingLinks(sampleOutfit(), "female")

	platforms := make([]string, 0, len(links))
	for _, l := range links {
		platforms = append(platforms, l.Platform)
		assert.NotEmpty(t, l.Description)
		assert.NotEmpty(t, l.Icon)

		u, err := url.Parse(l.URL)
		require.NoError(t, err)
		assert.Equal(t, "https", u.Scheme)
	}
	assert.Equal(t, []string{"Amazon", "Myntra", "Flipkart", "Google Shopping"}, platforms)

	amazon, err := url.Parse(links[0].URL)
	require.NoError(t, err)
	assert.Equal(t, "women navy Navy linen shirt Beige chinos", amazon.Query().Get("k"))

	assert.Equal(t, "https://www.myntra.com/women-navy-navy-linen-shirt-beige-chinos", links[1].URL)
}

func TestReferenceLinks(t *testing.T) {
	links := ReferenceLinks(sampleOutfit(), "male")

	require.Len(t, links, 3)
	assert.Equal(t, "Pinterest", links[0].Platform)
	assert.Equal(t, "Google Images", links[1].Platform)
	assert.Equal(t, "https://www.instagram.com/explore/tags/menmonsoonsmartcasualoutfitdatenight/", links[2].URL)
}

func TestHashtag_Empty(t *testing.T) {
	assert.Equal(t, "ootd", hashtag("  !!  "))
}
