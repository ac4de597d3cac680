// internal/styling/parser/outfit.go
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"stylist-workers/internal/models"
	"stylist-workers/internal/styling/profile"

	"github.com/google/uuid"
)

func buildOutfit(obj map[string]interface{}, index int, opts Options) (models.OutfitSuggestion, []Warning, bool) {
	var warnings []Warning

	id := idValue(obj["id"])
	if id == "" {
		id = uuid.NewString()
	}

	violations, err := validateOutfit(obj)
	if err != nil {
		warnings = append(warnings, Warning{Kind: WarnSchema, OutfitID: id, Message: err.Error()})
	}
	for _, v := range violations {
		warnings = append(warnings, Warning{Kind: WarnSchema, OutfitID: id, Field: v.Field, Message: v.Message})
	}

	items, ok := stringList(obj["items"])
	if !ok || len(items) == 0 {
		warnings = append(warnings, Warning{
			Kind:     WarnDropped,
			OutfitID: id,
			Field:    "items",
			Message:  fmt.Sprintf("outfit %d has no usable items", index+1),
		})
		return models.OutfitSuggestion{}, warnings, false
	}

	occasion := stringValue(obj["occasion"])
	if occasion == "" {
		occasion = opts.Occasion
	}
	if occasion == "" {
		occasion = "casual"
	}

	title := stringValue(obj["title"])
	if title == "" {
		title = fmt.Sprintf("%s Look %d", titleCase(occasion), index+1)
	}

	colors, ok := stringList(obj["colors"])
	if !ok || len(colors) == 0 {
		colors = profile.NeutralColors()
	}

	tips, _ := stringList(obj["style_tips"])
	if tips == nil {
		tips = []string{}
	}

	outfit := models.OutfitSuggestion{
		ID:               id,
		Title:            title,
		Description:      stringValue(obj["description"]),
		Items:            items,
		Occasion:         occasion,
		Season:           orDefault(stringValue(obj["season"]), DefaultSeason),
		Colors:           colors,
		PriceRange:       orDefault(stringValue(obj["price_range"]), DefaultPriceRange),
		StyleTips:        tips,
		ImageDescription: stringValue(obj["image_description"]),
	}
	if outfit.Description == "" {
		outfit.Description = fmt.Sprintf("A %s outfit featuring %s.", strings.ToLower(occasion), strings.Join(items, ", "))
	}
	if outfit.ImageDescription == "" {
		outfit.ImageDescription = fmt.Sprintf("%s: %s", title, strings.Join(items, ", "))
	}
	return outfit, warnings, true
}

func idValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// stringList accepts only arrays whose elements are all strings. Blank
// entries are skipped.
func stringList(v interface{}) ([]string, bool) {
	arr, ok := v.([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		s, ok := e.(string)
		if !ok {
			return nil, false
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, true
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var (
	maleTargetMarkers   = regexp.MustCompile(`\b(dress(?:es)?|skirts?|heels|blouses?)\b`)
	femaleTargetMarkers = regexp.MustCompile(`\b(neckties?|ties?|men's|mens)\b`)

	// "dress shirt" and friends are menswear.
	dressCompounds = map[string]bool{
		"shirt": true, "shirts": true, "shoes": true, "pants": true,
		"trousers": true, "code": true, "watch": true, "boots": true,
		"socks": true, "sneakers": true,
	}
)

// CrossGenderMarkers lists the words in an outfit that usually belong to the
// other gender's wardrobe. Matches are advisory only.
func CrossGenderMarkers(o models.OutfitSuggestion, gender string) []string {
	text := strings.ToLower(strings.Join([]string{
		o.Title,
		o.Description,
		strings.Join(o.Items, " | "),
		o.ImageDescription,
	}, " | "))
	text = strings.ReplaceAll(text, "’", "'")

	var re *regexp.Regexp
	switch strings.ToLower(gender) {
	case profile.GenderMale:
		re = maleTargetMarkers
	case profile.GenderFemale:
		re = femaleTargetMarkers
	default:
		return nil
	}

	seen := map[string]bool{}
	var markers []string
	for _, loc := range re.FindAllStringIndex(text, -1) {
		word := text[loc[0]:loc[1]]
		rest := text[loc[1]:]
		if strings.HasPrefix(word, "dress") && dressCompounds[nextWord(rest)] {
			continue
		}
		if strings.HasPrefix(word, "tie") && strings.HasPrefix(rest, "-") {
			continue
		}
		if !seen[word] {
			seen[word] = true
			markers = append(markers, word)
		}
	}
	return markers
}

func nextWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[0], ".,;:!?|")
}
