// internal/styling/category/category.go
package category

import (
	"fmt"
	"strings"

	"stylist-workers/internal/models"
)

const (
	genderMale   = "male"
	genderFemale = "female"
)

// GenderPolicy decides which source wins when a profile and a category slug
// disagree about the target gender.
type GenderPolicy string

const (
	ProfileFirst  GenderPolicy = "profile-first"
	CategoryFirst GenderPolicy = "category-first"
)

// ParsePolicy returns def for unknown or empty values.
func ParsePolicy(s string, def GenderPolicy) GenderPolicy {
	switch GenderPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case ProfileFirst:
		return ProfileFirst
	case CategoryFirst:
		return CategoryFirst
	default:
		return def
	}
}

// ExtractGenderFromCategorySlug returns "female", "male" or "".
// "female-" contains "male-", so it is checked first.
func ExtractGenderFromCategorySlug(slug string) string {
	s := strings.ToLower(slug)
	switch {
	case strings.HasPrefix(s, "female-") || strings.Contains(s, "female-"):
		return genderFemale
	case strings.HasPrefix(s, "male-") || strings.Contains(s, "male-"):
		return genderMale
	default:
		return ""
	}
}

// ResolveGender applies policy to an already normalized profile gender.
func ResolveGender(policy GenderPolicy, profileGender, slug string) string {
	if policy == CategoryFirst {
		if g := ExtractGenderFromCategorySlug(slug); g != "" {
			return g
		}
	}
	if profileGender != "" {
		return profileGender
	}
	if g := ExtractGenderFromCategorySlug(slug); g != "" {
		return g
	}
	return genderMale
}

type keywordRule struct {
	keywords []string
	style    string
	dbName   string
}

var styleRules = []keywordRule{
	{keywords: []string{"street"}, style: "street", dbName: "street style"},
	{keywords: []string{"formal", "office"}, style: "formal", dbName: "formal wear"},
	{keywords: []string{"ethnic"}, style: "ethnic", dbName: "ethnic wear"},
	{keywords: []string{"party"}, style: "party", dbName: "party wear"},
	{keywords: []string{"gym"}, style: "gym", dbName: "gym wear"},
	{keywords: []string{"elegant"}, style: "elegant", dbName: "elegant wear"},
}

func matchRule(slug string) *keywordRule {
	s := strings.ToLower(slug)
	for i := range styleRules {
		for _, kw := range styleRules[i].keywords {
			if strings.Contains(s, kw) {
				return &styleRules[i]
			}
		}
	}
	return nil
}

func MapCategoryToStyle(slug string) string {
	if r := matchRule(slug); r != nil {
		return r.style
	}
	return "casual"
}

func MapCategorySlugToDbCategory(slug string) string {
	if r := matchRule(slug); r != nil {
		return r.dbName
	}
	return slug
}

var contextSentences = []struct {
	keyword  string
	sentence string
}{
	{"gym", "Workout and athletic wear: breathable, stretchable fabrics that allow free movement and manage sweat."},
	{"formal", "Formal occasions: structured, well-fitted pieces in refined fabrics with a polished, professional finish."},
	{"street", "Street style: relaxed urban looks mixing statement pieces, sneakers and layered casual wear."},
	{"ethnic", "Ethnic wear: traditional Indian silhouettes such as kurtas, sarees and sherwanis suited to festive and cultural events."},
	{"party", "Party wear: eye-catching evening outfits with bold colours, textures and confident accessories."},
	{"office", "Office wear: smart business-casual outfits that stay comfortable through a full working day."},
	{"elegant", "Elegant style: timeless, understated pieces with clean lines and premium materials."},
	{"date", "Date night: attractive yet comfortable outfits that feel personal and effortlessly put together."},
	{"old-money", "Old money aesthetic: classic, quiet-luxury tailoring in neutral tones with heritage fabrics and minimal branding."},
}

func GetCategoryContext(slug string) string {
	s := strings.ToLower(slug)
	for _, c := range contextSentences {
		if strings.Contains(s, c.keyword) {
			return c.sentence
		}
	}
	readable := strings.TrimSpace(strings.ReplaceAll(slug, "-", " "))
	if readable == "" {
		readable = "everyday"
	}
	return fmt.Sprintf("Outfits for the %s category: versatile, stylish looks suited to this occasion.", readable)
}

// Resolve derives the full category context from a slug.
func Resolve(slug string) models.CategoryContext {
	return models.CategoryContext{
		Slug:            slug,
		DerivedGender:   ExtractGenderFromCategorySlug(slug),
		StyleArchetype:  MapCategoryToStyle(slug),
		DBCategoryName:  MapCategorySlugToDbCategory(slug),
		FreeTextContext: GetCategoryContext(slug),
	}
}
