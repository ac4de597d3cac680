// internal/styling/fallback/fallback.go
package fallback

import (
	"fmt"
	"strings"

	"stylist-workers/internal/models"
	"stylist-workers/internal/styling/profile"
)

const DefaultCount = 3

type Request struct {
	Profile models.NormalizedProfile
	// Gender is the resolved target gender, which may differ from Profile.Gender.
	Gender   string
	Category models.CategoryContext
	Weather  *models.WeatherReport
	Count    int
}

// Synthesize builds outfits from the rule tables. It never returns an empty
// list and every field of every outfit is populated.
func Synthesize(req Request) []models.OutfitSuggestion {
	gender := req.Gender
	if gender != profile.GenderFemale {
		gender = profile.GenderMale
	}
	count := req.Count
	if count <= 0 {
		count = DefaultCount
	}

	bucket := BodyBucket(gender, req.Profile)
	style := req.Category.StyleArchetype
	looks, ok := looksByStyle[gender][style]
	if !ok {
		style = "casual"
		looks = looksByStyle[gender][style]
	}

	fitItems := itemsForBodyType[gender][bucket]
	accessories := accessoriesForBodyType[gender][bucket]
	tips := styleTipsForBodyType[gender][bucket]
	palette := profile.ColorPalette(req.Profile.SkinTone)
	season := seasonFor(req.Weather)

	outfits := make([]models.OutfitSuggestion, 0, count)
	for i := 0; i < count; i++ {
		l := looks[i%len(looks)]

		items := append([]string(nil), l.items...)
		items = append(items, fitItems[i%len(fitItems)], accessories[i%len(accessories)])

		title := l.title
		if i >= len(looks) {
			title = fmt.Sprintf("%s %d", l.title, i/len(looks)+1)
		}

		colors := []string{
			palette[i%len(palette)],
			palette[(i+1)%len(palette)],
			profile.NeutralColors()[i%len(profile.NeutralColors())],
		}

		styleTips := append([]string(nil), tips...)
		styleTips = append(styleTips, fmt.Sprintf("Anchor the look in %s and %s", colors[0], colors[1]))
		if avoid := profile.AvoidColors(req.Profile.SkinTone); len(avoid) > 0 {
			styleTips = append(styleTips, "Avoid "+strings.Join(avoid, " and "))
		}

		occasion := l.occasion
		if req.Category.Slug != "" {
			occasion = strings.ReplaceAll(req.Category.Slug, "-", " ")
		}

		image := fmt.Sprintf("A %s model wearing %s in %s", gender, strings.Join(items, ", "), strings.Join(colors, ", "))

		outfits = append(outfits, models.OutfitSuggestion{
			ID:               fmt.Sprintf("fallback-%s-%s-%d", gender, style, i+1),
			Title:            title,
			Description:      fmt.Sprintf("Rule-based %s look for a %s frame, suited to %s wear.", style, strings.ToLower(bucket), season),
			Items:            items,
			Occasion:         occasion,
			Season:           season,
			Colors:           colors,
			PriceRange:       priceRangeFor(style),
			StyleTips:        styleTips,
			ImageDescription: image,
		})
	}
	return outfits
}

// BodyBucket maps a profile to the fallback table row. A raw body type that
// names a row directly wins over the normalized bucket.
func BodyBucket(gender string, p models.NormalizedProfile) string {
	rows := itemsForBodyType[gender]
	if raw := titleWord(p.RawBodyType); raw != "" {
		if _, ok := rows[raw]; ok {
			return raw
		}
	}

	if gender == profile.GenderFemale {
		switch p.BodyType {
		case profile.BodyHeavy:
			return "Apple"
		case profile.BodyObese:
			return "Plus"
		}
		return DefaultFemaleBucket
	}

	switch p.BodyType {
	case profile.BodySlim:
		return "Slim"
	case profile.BodyHeavy, profile.BodyObese:
		return "Heavy"
	}
	return DefaultMaleBucket
}

func titleWord(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func seasonFor(w *models.WeatherReport) string {
	if w == nil {
		return "all-season"
	}
	cond := strings.ToLower(w.Condition)
	switch {
	case strings.Contains(cond, "rain") || strings.Contains(cond, "drizzle") || strings.Contains(cond, "storm"):
		return "monsoon"
	case w.Temperature >= 28:
		return "summer"
	case w.Temperature <= 15:
		return "winter"
	default:
		return "all-season"
	}
}

func priceRangeFor(style string) string {
	switch style {
	case "formal", "elegant", "ethnic":
		return "mid-range/premium"
	default:
		return "budget/mid-range"
	}
}
