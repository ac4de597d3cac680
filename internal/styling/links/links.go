// internal/styling/links/links.go
package links

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"stylist-workers/internal/models"
)

type platform struct {
	name        string
	icon        string
	description string
	build       func(query string) string
}

var shoppingPlatforms = []platform{
	{
		name:        "Amazon",
		icon:        "amazon",
		description: "Shop this look on Amazon",
		build:       func(q string) string { return "https://www.amazon.in/s?k=" + url.QueryEscape(q) },
	},
	{
		name:        "Myntra",
		icon:        "myntra",
		description: "Find similar styles on Myntra",
		build: func(q string) string {
			return "https://www.myntra.com/" + url.PathEscape(strings.Join(strings.Fields(strings.ToLower(q)), "-"))
		},
	},
	{
		name:        "Flipkart",
		icon:        "flipkart",
		description: "Browse matching pieces on Flipkart",
		build:       func(q string) string { return "https://www.flipkart.com/search?q=" + url.QueryEscape(q) },
	},
	{
		name:        "Google Shopping",
		icon:        "google-shopping",
		description: "Compare prices across stores",
		build:       func(q string) string { return "https://www.google.com/search?tbm=shop&q=" + url.QueryEscape(q) },
	},
}

var referencePlatforms = []platform{
	{
		name:        "Pinterest",
		icon:        "pinterest",
		description: "Outfit inspiration on Pinterest",
		build:       func(q string) string { return "https://www.pinterest.com/search/pins/?q=" + url.QueryEscape(q) },
	},
	{
		name:        "Google Images",
		icon:        "google-images",
		description: "See this look in photos",
		build:       func(q string) string { return "https://www.google.com/search?tbm=isch&q=" + url.QueryEscape(q) },
	},
	{
		name:        "Instagram",
		icon:        "instagram",
		description: "Real-world looks on Instagram",
		build:       func(q string) string { return "https://www.instagram.com/explore/tags/" + hashtag(q) + "/" },
	},
}

// Enrich returns copies of outfits carrying shopping and reference links.
// The inputs are left untouched.
func Enrich(outfits []models.OutfitSuggestion, gender string) []models.OutfitSuggestion {
	out := make([]models.OutfitSuggestion, len(outfits))
	for i, o := range outfits {
		c := o.Clone()
		c.ShoppingLinks = ShoppingLinks(o, gender)
		c.ReferenceLinks = ReferenceLinks(o, gender)
		out[i] = c
	}
	return out
}

func ShoppingLinks(o models.OutfitSuggestion, gender string) []models.PlatformLink {
	return render(shoppingPlatforms, shoppingQuery(o, gender))
}

func ReferenceLinks(o models.OutfitSuggestion, gender string) []models.PlatformLink {
	return render(referencePlatforms, referenceQuery(o, gender))
}

func render(platforms []platform, query string) []models.PlatformLink {
	links := make([]models.PlatformLink, 0, len(platforms))
	for _, p := range platforms {
		links = append(links, models.PlatformLink{
			Platform:    p.name,
			URL:         p.build(query),
			Description: p.description,
			Icon:        p.icon,
		})
	}
	return links
}

func genderTerm(gender string) string {
	if strings.EqualFold(gender, "female") {
		return "women"
	}
	return "men"
}

func shoppingQuery(o models.OutfitSuggestion, gender string) string {
	parts := []string{genderTerm(gender)}
	if len(o.Colors) > 0 {
		parts = append(parts, o.Colors[0])
	}
	items := o.Items
	if len(items) > 2 {
		items = items[:2]
	}
	parts = append(parts, items...)
	if len(o.Items) == 0 {
		parts = append(parts, o.Title)
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

func referenceQuery(o models.OutfitSuggestion, gender string) string {
	subject := o.Title
	if subject == "" && len(o.Items) > 0 {
		subject = o.Items[0]
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s outfit %s", genderTerm(gender), subject, o.Occasion))
}

func hashtag(q string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(q) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "ootd"
	}
	return url.PathEscape(b.String())
}
