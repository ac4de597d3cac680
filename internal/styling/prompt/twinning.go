// internal/styling/prompt/twinning.go
package prompt

import (
	"fmt"
	"strings"

	"stylist-workers/internal/models"
)

// BuildPersonAnalysisPrompt asks a vision model to describe one person.
func BuildPersonAnalysisPrompt(label string) string {
	return strings.Join([]string{
		fmt.Sprintf("Analyse the person in this photo (%s) for a fashion styling session.", label),
		"Return ONLY a JSON object, no explanatory text outside JSON, with these fields:",
		`{"gender": "male | female", "heightBucket": "short | average | tall", "bodyType": "slim | average | heavy | obese",`,
		` "skinTone": "Fair | Wheatish | Dusky | Dark", "currentStyle": "short description", "dominantColors": ["colour"]}`,
		"If a field cannot be determined, use an empty string.",
	}, "\n")
}

// BuildPlaceAnalysisPrompt asks a vision model to describe a venue photo.
func BuildPlaceAnalysisPrompt() string {
	return strings.Join([]string{
		"Analyse this venue photo to help two people coordinate outfits for it.",
		"Return ONLY a JSON object, no explanatory text outside JSON, with these fields:",
		`{"setting": "indoor | outdoor | beach | garden | ...", "ambience": "short description",`,
		` "formality": "casual | smart-casual | formal | festive", "colorPalette": ["colour"], "lighting": "short description"}`,
	}, "\n")
}

// TwinningInput describes two people and an optional venue.
type TwinningInput struct {
	PersonA           models.PersonAnalysis
	PersonB           models.PersonAnalysis
	Place             *models.PlaceAnalysis
	Relationship      string
	CoordinationStyle string
	Occasion          string
	Count             int
}

// BuildTwinningPrompt builds the coordinated-outfit instruction. Each person's
// gender is repeated in upper case next to their constraints and template.
func BuildTwinningPrompt(in TwinningInput) string {
	count := in.Count
	if count <= 0 {
		count = 2
	}
	ga := strings.ToUpper(normalizeGender(in.PersonA.Gender))
	gb := strings.ToUpper(normalizeGender(in.PersonB.Gender))

	var b strings.Builder
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line("You are an expert stylist creating coordinated \"twinning\" outfits for two people.")
	line("Person A is %s. Person B is %s. Dress each person ONLY in clothing for their own gender.", ga, gb)
	if in.Relationship != "" {
		line("Relationship: %s.", in.Relationship)
	}
	style := in.CoordinationStyle
	if style == "" {
		style = "complementary"
	}
	line("Coordination style: %s.", style)
	if in.Occasion != "" {
		line("Occasion: %s.", in.Occasion)
	}
	line("")

	for _, p := range []struct {
		label  string
		upper  string
		person models.PersonAnalysis
	}{{"PERSON A", ga, in.PersonA}, {"PERSON B", gb, in.PersonB}} {
		line("%s (%s):", p.label, p.upper)
		line("- Height: %s; body type: %s; skin tone: %s", orUnknown(p.person.HeightBucket), orUnknown(p.person.BodyType), orUnknown(p.person.SkinTone))
		if p.person.CurrentStyle != "" {
			line("- Current style: %s", p.person.CurrentStyle)
		}
		line("- FORBIDDEN for this %s person: %s", p.upper, strings.Join(forbiddenItems[strings.ToLower(p.upper)], ", "))
		line("")
	}

	if in.Place != nil {
		line("VENUE:")
		line("- Setting: %s; ambience: %s; formality: %s", in.Place.Setting, in.Place.Ambience, in.Place.Formality)
		if len(in.Place.ColorPalette) > 0 {
			line("- Venue colours: %s", strings.Join(in.Place.ColorPalette, ", "))
		}
		line("")
	}

	line("Return %d outfits per person as a strict JSON object. No explanatory text outside JSON.", count)
	line(`{`)
	line(`  "personA": [{"id": "a-1", "title": "%s outfit", "description": "", "items": ["%s item"], "occasion": "", "season": "", "colors": [""], "price_range": "", "style_tips": [""], "image_description": ""}],`, ga, ga)
	line(`  "personB": [{"id": "b-1", "title": "%s outfit", "description": "", "items": ["%s item"], "occasion": "", "season": "", "colors": [""], "price_range": "", "style_tips": [""], "image_description": ""}],`, gb, gb)
	line(`  "coordination": {"theme": "", "sharedColors": [""], "tips": [""]}`)
	line(`}`)

	return strings.TrimRight(b.String(), "\n")
}
