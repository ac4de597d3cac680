// internal/styling/prompt/outfit.go
package prompt

import (
	"fmt"
	"strings"

	"stylist-workers/internal/models"
	"stylist-workers/internal/styling/profile"
)

const DefaultOutfitCount = 3

// Input is everything the outfit prompt depends on.
type Input struct {
	Profile    models.NormalizedProfile
	Gender     string
	Category   models.CategoryContext
	Weather    *models.WeatherReport
	Topography *models.Topography
	ImageHint  string
	Count      int
}

var forbiddenItems = map[string][]string{
	"male":   {"dresses", "skirts", "heels", "blouses", "sarees", "lehengas", "crop tops", "women's handbags", "women's jewellery sets"},
	"female": {"men's suits", "neckties", "men's formal shirts", "sherwanis", "men's oxford shoes", "men's briefcases"},
}

var requiredItems = map[string][]string{
	"male":   {"men's shirts, t-shirts or kurtas", "men's trousers, jeans or chinos", "men's footwear"},
	"female": {"women's tops, dresses or kurtis", "women's bottoms, skirts or sarees", "women's footwear"},
}

var bodyGuidance = map[string]string{
	profile.BodySlim:    "Add volume and structure with layering, horizontal details and textured fabrics; avoid overly baggy cuts.",
	profile.BodyAverage: "Highlight a balanced or athletic frame with tailored, well-fitted pieces that follow the natural shape.",
	profile.BodyHeavy:   "Create a longer, streamlined silhouette with vertical lines, structured fabrics and darker base colours.",
	profile.BodyObese:   "Prioritise comfort and drape: relaxed tailoring, breathable fabrics, monochrome columns and open layers.",
}

var heightGuidance = map[string]string{
	profile.HeightShort:   "Elongate the frame with high-rise bottoms, monochrome looks and cropped or tucked tops.",
	profile.HeightAverage: "Most proportions work; balance top and bottom volumes.",
	profile.HeightTall:    "Break the height with contrasting layers, longer jackets and wider-leg bottoms.",
}

// ForbiddenItems returns the items that must not appear for gender.
func ForbiddenItems(gender string) []string {
	return append([]string(nil), forbiddenItems[normalizeGender(gender)]...)
}

func normalizeGender(g string) string {
	if strings.ToLower(g) == "female" {
		return "female"
	}
	return "male"
}

// BuildOutfitPrompt serializes profile, context and constraints into one
// instruction. The resolved gender is repeated in upper case in the system
// line, the forbidden list and the JSON template.
func BuildOutfitPrompt(in Input) string {
	gender := normalizeGender(in.Gender)
	upper := strings.ToUpper(gender)
	count := in.Count
	if count <= 0 {
		count = DefaultOutfitCount
	}

	var b strings.Builder
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line("You are an expert personal fashion stylist. You are styling a %s client. Every outfit MUST be %s clothing only.", upper, upper)
	line("")

	line("CLIENT PROFILE:")
	line("- Gender: %s", upper)
	line("- Height: %s", orUnknown(in.Profile.HeightBucket))
	bodyLine := orUnknown(in.Profile.BodyType)
	if in.Profile.RawBodyType != "" && !strings.EqualFold(in.Profile.RawBodyType, in.Profile.BodyType) {
		bodyLine = fmt.Sprintf("%s (described as %q)", bodyLine, in.Profile.RawBodyType)
	}
	line("- Body type: %s", bodyLine)
	line("- Skin tone: %s", orUnknown(in.Profile.SkinTone))
	if in.Profile.City != "" {
		line("- City: %s", in.Profile.City)
	}
	if in.ImageHint != "" {
		line("- From the client's photo: %s", in.ImageHint)
	}
	line("")

	line("OCCASION / CATEGORY:")
	line("- Category: %s (%s style)", in.Category.DBCategoryName, in.Category.StyleArchetype)
	line("- Context: %s", in.Category.FreeTextContext)
	line("")

	if in.Weather != nil || in.Topography != nil {
		line("LOCATION CONTEXT:")
		if w := in.Weather; w != nil {
			label := ""
			if w.Estimated {
				label = " (estimated)"
			}
			line("- Weather%s: %.0f°C, %s, humidity %d%%, wind %.0f km/h", label, w.Temperature, w.Condition, w.Humidity, w.WindSpeed)
			if w.Forecast != "" {
				line("- Forecast: %s", w.Forecast)
			}
		}
		if t := in.Topography; t != nil {
			place := strings.Trim(strings.Join([]string{t.City, t.Region}, ", "), ", ")
			if place != "" {
				line("- Place: %s", place)
			}
			line("- Climate: %s; terrain: %s", t.Climate, t.Terrain)
			line("- Local style: %s", t.CulturalStyle)
			if len(t.LocalFashionTrends) > 0 {
				line("- Local trends: %s", strings.Join(t.LocalFashionTrends, ", "))
			}
		}
		line("")
	}

	line("STYLING RULES:")
	if g, ok := bodyGuidance[in.Profile.BodyType]; ok {
		line("- Body type: %s", g)
	}
	if g, ok := heightGuidance[in.Profile.HeightBucket]; ok {
		line("- Height: %s", g)
	}
	line("- Colours that flatter this skin tone: %s", strings.Join(profile.ColorPalette(in.Profile.SkinTone), ", "))
	if avoid := profile.AvoidColors(in.Profile.SkinTone); len(avoid) > 0 {
		line("- Colours to avoid: %s", strings.Join(avoid, ", "))
	}
	line("")

	line("FORBIDDEN ITEMS FOR A %s CLIENT (never include these):", upper)
	for _, item := range forbiddenItems[gender] {
		line("- %s", item)
	}
	line("")
	line("REQUIRED ITEMS FOR A %s CLIENT (every outfit must include):", upper)
	for _, item := range requiredItems[gender] {
		line("- %s", item)
	}
	line("")

	line("Return EXACTLY %d outfits as a strict JSON array. No explanatory text outside JSON, no markdown fences.", count)
	line("Use this exact shape for each element:")
	line(`[`)
	line(`  {`)
	line(`    "id": "outfit-1",`)
	line(`    "title": "Short %s outfit name",`, upper)
	line(`    "description": "Why this %s outfit suits the client",`, upper)
	line(`    "items": ["%s item 1", "%s item 2", "%s footwear"],`, upper, upper, upper)
	line(`    "occasion": "%s",`, in.Category.StyleArchetype)
	line(`    "season": "summer | monsoon | winter | all-season",`)
	line(`    "colors": ["colour 1", "colour 2"],`)
	line(`    "price_range": "budget | mid-range | premium",`)
	line(`    "style_tips": ["tip 1", "tip 2"],`)
	line(`    "image_description": "Visual description of a %s model wearing the outfit"`, upper)
	line(`  }`)
	line(`]`)
	line("Remember: the client is %s. Only %s clothing, footwear and accessories.", upper, upper)

	return strings.TrimRight(b.String(), "\n")
}

func orUnknown(s string) string {
	if s == "" {
		return "not specified"
	}
	return s
}
