// internal/styling/advice/match.go
package advice

import (
	"strings"
	"unicode"

	"stylist-workers/internal/models"
	"stylist-workers/internal/styling/category"
)

// Match stages, in cascade order.
const (
	StageExact   = "exact"
	StagePartial = "partial"
	StageKeyword = "keyword"
)

// Attribute weights. Body type dominates.
const (
	weightGender   = 10
	weightHeight   = 8
	weightBody     = 15
	weightSkinTone = 12
	weightStyle    = 5
)

var genderWords = map[string]bool{
	"male": true, "female": true, "men": true, "women": true,
	"mens": true, "womens": true, "man": true, "woman": true,
}

type Result struct {
	Entry    models.AdviceEntry `json:"entry"`
	Stage    string             `json:"stage"`
	Score    int                `json:"score"`
	Gender   string             `json:"gender"`
	Category string             `json:"category"`
}

// Match picks the best advice entry for a profile and category slug. The
// category cascade runs exact, then substring, then keyword overlap; the
// surviving candidates are scored on their targeting attributes and the first
// highest score wins. ok is false only when no entry matches the category.
func Match(entries []models.AdviceEntry, p models.NormalizedProfile, slug string, policy category.GenderPolicy) (Result, bool) {
	target := strings.ToLower(strings.TrimSpace(category.MapCategorySlugToDbCategory(slug)))
	gender := category.ResolveGender(policy, p.Gender, slug)
	if target == "" || len(entries) == 0 {
		return Result{}, false
	}

	candidates, stage := candidatesFor(entries, target)
	if len(candidates) == 0 {
		return Result{}, false
	}

	attrs := [5]string{
		models.AdviceForGender:   gender,
		models.AdviceForHeight:   p.HeightBucket,
		models.AdviceForWeight:   p.BodyType,
		models.AdviceForSkinTone: p.SkinTone,
		models.AdviceForStyle:    category.MapCategoryToStyle(slug),
	}

	best, bestScore := 0, -1
	for i, e := range candidates {
		if s := Score(e, attrs); s > bestScore {
			best, bestScore = i, s
		}
	}

	return Result{
		Entry:    candidates[best],
		Stage:    stage,
		Score:    bestScore,
		Gender:   gender,
		Category: target,
	}, true
}

func candidatesFor(entries []models.AdviceEntry, target string) ([]models.AdviceEntry, string) {
	var exact, partial []models.AdviceEntry
	for _, e := range entries {
		cat := strings.ToLower(strings.TrimSpace(e.Category))
		if cat == "" {
			continue
		}
		switch {
		case cat == target:
			exact = append(exact, e)
		case strings.Contains(cat, target) || strings.Contains(target, cat):
			partial = append(partial, e)
		}
	}
	if len(exact) > 0 {
		return exact, StageExact
	}
	if len(partial) > 0 {
		return partial, StagePartial
	}

	keywords := Keywords(target)
	if len(keywords) == 0 {
		return nil, ""
	}
	var byKeyword []models.AdviceEntry
	for _, e := range entries {
		cat := strings.ToLower(e.Category)
		for _, kw := range keywords {
			if strings.Contains(cat, kw) {
				byKeyword = append(byKeyword, e)
				break
			}
		}
	}
	return byKeyword, StageKeyword
}

// Keywords splits a category into lowercase tokens of at least three
// characters, dropping gender words.
func Keywords(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) >= 3 && !genderWords[f] {
			out = append(out, f)
		}
	}
	return out
}

// Score sums the weights of the targeting attributes that match.
func Score(e models.AdviceEntry, attrs [5]string) int {
	weights := [5]int{
		models.AdviceForGender:   weightGender,
		models.AdviceForHeight:   weightHeight,
		models.AdviceForWeight:   weightBody,
		models.AdviceForSkinTone: weightSkinTone,
		models.AdviceForStyle:    weightStyle,
	}
	score := 0
	for i, w := range weights {
		want := strings.TrimSpace(attrs[i])
		if want != "" && strings.EqualFold(strings.TrimSpace(e.Attribute(i)), want) {
			score += w
		}
	}
	return score
}
