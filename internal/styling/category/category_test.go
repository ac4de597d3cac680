// internal/styling/category/category_test.go
package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractGenderFromCategorySlug(t *testing.T) {
	tests := []struct {
		slug     string
		expected string
	}{
		{"male-gym-wear", "male"},
		{"female-party-wear", "female"},
		{"casual-female-looks", "female"},
		{"summer-male-basics", "male"},
		{"Female-Formal", "female"},
		{"street-style", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractGenderFromCategorySlug(tt.slug))
		})
	}
}

func TestResolveGender_BothPolicies(t *testing.T) {
	// outfit generation: profile wins; advice filtering: slug wins
	assert.Equal(t, "female", ResolveGender(ProfileFirst, "female", "male-gym-wear"))
	assert.Equal(t, "male", ResolveGender(CategoryFirst, "female", "male-gym-wear"))

	assert.Equal(t, "female", ResolveGender(CategoryFirst, "female", "street-style"))
	assert.Equal(t, "male", ResolveGender(ProfileFirst, "", "male-gym-wear"))
	assert.Equal(t, "male", ResolveGender(ProfileFirst, "", "street-style"))
}

func TestParsePolicy(t *testing.T) {
	assert.Equal(t, CategoryFirst, ParsePolicy("Category-First", ProfileFirst))
	assert.Equal(t, ProfileFirst, ParsePolicy("profile-first", CategoryFirst))
	assert.Equal(t, ProfileFirst, ParsePolicy("", ProfileFirst))
	assert.Equal(t, CategoryFirst, ParsePolicy("random", CategoryFirst))
}

func TestMapCategory(t *testing.T) {
	tests := []struct {
		slug   string
		style  string
		dbName string
	}{
		{"male-street-style", "street", "street style"},
		{"female-formal-wear", "formal", "formal wear"},
		{"office-looks", "formal", "formal wear"},
		{"ethnic-festive", "ethnic", "ethnic wear"},
		{"female-party-wear", "party", "party wear"},
		{"male-gym-wear", "gym", "gym wear"},
		{"elegant-evening", "elegant", "elegant wear"},
		{"date-night", "casual", "date-night"},
		{"beach", "casual", "beach"},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			assert.Equal(t, tt.style, MapCategoryToStyle(tt.slug))
			assert.Equal(t, tt.dbName, MapCategorySlugToDbCategory(tt.slug))
		})
	}
}

func TestGetCategoryContext(t *testing.T) {
	assert.Contains(t, GetCategoryContext("male-gym-wear"), "athletic")
	assert.Contains(t, GetCategoryContext("female-old-money"), "Old money")
	assert.Contains(t, GetCategoryContext("date-night"), "Date night")
	assert.Equal(t,
		"Outfits for the beach vacation category: versatile, stylish looks suited to this occasion.",
		GetCategoryContext("beach-vacation"))
}

func TestResolve(t *testing.T) {
	ctx := Resolve("female-formal-wear")

	assert.Equal(t, "female-formal-wear", ctx.Slug)
	assert.Equal(t, "female", ctx.DerivedGender)
	assert.Equal(t, "formal", ctx.StyleArchetype)
	assert.Equal(t, "formal wear", ctx.DBCategoryName)
	assert.NotEmpty(t, ctx.FreeTextContext)
}
