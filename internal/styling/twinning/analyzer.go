// internal/styling/twinning/analyzer.go
package twinning

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"stylist-workers/internal/common/logger"
	"stylist-workers/internal/common/metrics"
	"stylist-workers/internal/models"
	"stylist-workers/internal/styling/category"
	"stylist-workers/internal/styling/fallback"
	"stylist-workers/internal/styling/gateway"
	"stylist-workers/internal/styling/links"
	"stylist-workers/internal/styling/parser"
	"stylist-workers/internal/styling/profile"
	"stylist-workers/internal/styling/prompt"
)

const (
	SourceAI       = "ai"
	SourceFallback = "fallback"

	defaultCount = 2
)

// AI is the slice of the gateway the analyzer needs.
type AI interface {
	Call(ctx context.Context, prompt string, image *gateway.Image) (gateway.Result, error)
}

type Person struct {
	Image *gateway.Image
	// Hint fills fields the photo analysis leaves empty.
	Hint models.PersonAnalysis
}

type Request struct {
	PersonA           Person
	PersonB           Person
	Place             *gateway.Image
	Relationship      string
	CoordinationStyle string
	Occasion          string
	Count             int
}

type Analyzer struct {
	ai     AI
	logger logger.Logger
}

func NewAnalyzer(ai AI, log logger.Logger) *Analyzer {
	return &Analyzer{ai: ai, logger: log.WithFields(map[string]interface{}{"component": "twinning"})}
}

type twinningResponse struct {
	PersonA      json.RawMessage     `json:"personA"`
	PersonB      json.RawMessage     `json:"personB"`
	Coordination models.Coordination `json:"coordination"`
}

// Analyze builds coordinated outfits for two people. AI failures degrade to
// rule-based outfits sharing one palette; only a cancelled context is an error.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*models.TwinningAnalysis, error) {
	count := req.Count
	if count <= 0 {
		count = defaultCount
	}

	result := &models.TwinningAnalysis{
		Relationship:      req.Relationship,
		CoordinationStyle: req.CoordinationStyle,
	}

	result.PersonA = a.analyzePerson(ctx, "person A", req.PersonA, &result.Warnings)
	result.PersonB = a.analyzePerson(ctx, "person B", req.PersonB, &result.Warnings)
	if req.Place != nil {
		result.Place = a.analyzePlace(ctx, req.Place, &result.Warnings)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text := prompt.BuildTwinningPrompt(prompt.TwinningInput{
		PersonA:           result.PersonA,
		PersonB:           result.PersonB,
		Place:             result.Place,
		Relationship:      req.Relationship,
		CoordinationStyle: req.CoordinationStyle,
		Occasion:          req.Occasion,
		Count:             count,
	})

	res, err := a.ai.Call(ctx, text, nil)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		a.logger.Warn("twinning generation failed, using fallback", map[string]interface{}{"error": err})
		result.Warnings = append(result.Warnings, "generation: "+err.Error())
		a.synthesize(result, req.Occasion, count, "ai_error")
		return a.enrich(result), nil
	}

	var parsed twinningResponse
	if err := parser.ParseObject(res.Text, &parsed); err != nil {
		result.Warnings = append(result.Warnings, "generation: "+err.Error())
		a.synthesize(result, req.Occasion, count, "unparseable")
		return a.enrich(result), nil
	}

	outA := parser.ParseOutfits(string(parsed.PersonA), parser.Options{Gender: result.PersonA.Gender, Occasion: req.Occasion, Logger: a.logger})
	outB := parser.ParseOutfits(string(parsed.PersonB), parser.Options{Gender: result.PersonB.Gender, Occasion: req.Occasion, Logger: a.logger})
	for _, w := range outA.Warnings {
		result.Warnings = append(result.Warnings, "person A: "+w.String())
	}
	for _, w := range outB.Warnings {
		result.Warnings = append(result.Warnings, "person B: "+w.String())
	}

	if len(outA.Outfits) == 0 || len(outB.Outfits) == 0 {
		a.synthesize(result, req.Occasion, count, "empty_parse")
		return a.enrich(result), nil
	}

	result.PersonAOutfits = limit(outA.Outfits, count)
	result.PersonBOutfits = limit(outB.Outfits, count)
	result.Coordination = parsed.Coordination
	if len(result.Coordination.SharedColors) == 0 {
		result.Coordination.SharedColors = SharedPalette(result.PersonA, result.PersonB, result.Place)
	}
	if result.Coordination.Tips == nil {
		result.Coordination.Tips = []string{}
	}
	result.Source = SourceAI
	return a.enrich(result), nil
}

func (a *Analyzer) analyzePerson(ctx context.Context, label string, p Person, warnings *[]string) models.PersonAnalysis {
	var pa models.PersonAnalysis
	if p.Image != nil {
		res, err := a.ai.Call(ctx, prompt.BuildPersonAnalysisPrompt(label), p.Image)
		if err == nil {
			err = parser.ParseObject(res.Text, &pa)
		}
		if err != nil {
			*warnings = append(*warnings, fmt.Sprintf("%s analysis: %v", label, err))
			a.logger.Warn("person analysis failed", map[string]interface{}{"person": label, "error": err})
		}
	}
	return mergePerson(pa, p.Hint, a.logger)
}

func (a *Analyzer) analyzePlace(ctx context.Context, img *gateway.Image, warnings *[]string) *models.PlaceAnalysis {
	var place models.PlaceAnalysis
	res, err := a.ai.Call(ctx, prompt.BuildPlaceAnalysisPrompt(), img)
	if err == nil {
		err = parser.ParseObject(res.Text, &place)
	}
	if err != nil {
		*warnings = append(*warnings, "place analysis: "+err.Error())
		a.logger.Warn("place analysis failed", map[string]interface{}{"error": err})
		return nil
	}
	return &place
}

// mergePerson lets hint values fill gaps, then canonicalises the buckets.
func mergePerson(pa, hint models.PersonAnalysis, log logger.Logger) models.PersonAnalysis {
	pick := func(v, h string) string {
		if strings.TrimSpace(v) != "" {
			return v
		}
		return h
	}
	out := models.PersonAnalysis{
		Gender:         pick(pa.Gender, hint.Gender),
		HeightBucket:   strings.ToLower(pick(pa.HeightBucket, hint.HeightBucket)),
		BodyType:       pick(pa.BodyType, hint.BodyType),
		SkinTone:       profile.NormalizeSkinTone(pick(pa.SkinTone, hint.SkinTone)),
		CurrentStyle:   pick(pa.CurrentStyle, hint.CurrentStyle),
		DominantColors: pa.DominantColors,
	}
	if len(out.DominantColors) == 0 {
		out.DominantColors = hint.DominantColors
	}
	out.Gender = profile.NormalizeGender(out.Gender, log)
	if out.BodyType != "" {
		out.BodyType = profile.NormalizeBodyType(out.BodyType)
	}
	return out
}

// SharedPalette picks colours flattering to both people, preferring the
// venue palette when it overlaps.
func SharedPalette(a, b models.PersonAnalysis, place *models.PlaceAnalysis) []string {
	pa := profile.ColorPalette(a.SkinTone)
	inB := map[string]bool{}
	for _, c := range profile.ColorPalette(b.SkinTone) {
		inB[c] = true
	}

	var shared []string
	for _, c := range pa {
		if inB[c] {
			shared = append(shared, c)
		}
	}
	if place != nil {
		for _, c := range place.ColorPalette {
			c = strings.ToLower(strings.TrimSpace(c))
			if c != "" && !contains(shared, c) {
				shared = append(shared, c)
			}
		}
	}
	for _, c := range profile.NeutralColors() {
		if len(shared) >= 3 {
			break
		}
		if !contains(shared, c) {
			shared = append(shared, c)
		}
	}
	if len(shared) > 3 {
		shared = shared[:3]
	}
	return shared
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (a *Analyzer) synthesize(result *models.TwinningAnalysis, occasion string, count int, reason string) {
	metrics.OutfitFallbacks.WithLabelValues("twinning_" + reason).Inc()

	slug := occasion
	if slug == "" && result.Place != nil {
		slug = result.Place.Formality
	}
	cat := category.Resolve(slug)
	shared := SharedPalette(result.PersonA, result.PersonB, result.Place)

	build := func(p models.PersonAnalysis, prefix string) []models.OutfitSuggestion {
		outfits := fallback.Synthesize(fallback.Request{
			Profile: models.NormalizedProfile{
				Gender:       p.Gender,
				HeightBucket: p.HeightBucket,
				BodyType:     p.BodyType,
				SkinTone:     p.SkinTone,
			},
			Gender:   p.Gender,
			Category: cat,
			Count:    count,
		})
		for i := range outfits {
			outfits[i].ID = fmt.Sprintf("%s-%s", prefix, outfits[i].ID)
			outfits[i].Colors = append([]string(nil), shared...)
		}
		return outfits
	}

	result.PersonAOutfits = build(result.PersonA, "a")
	result.PersonBOutfits = build(result.PersonB, "b")
	result.Coordination = models.Coordination{
		Theme:        fmt.Sprintf("Matching %s palette", strings.Join(shared, ", ")),
		SharedColors: shared,
		Tips: []string{
			"Match one colour head to toe and let the other person echo it in an accessory",
			"Keep formality level the same for both outfits",
		},
	}
	result.Source = SourceFallback
}

func (a *Analyzer) enrich(result *models.TwinningAnalysis) *models.TwinningAnalysis {
	result.PersonAOutfits = links.Enrich(result.PersonAOutfits, result.PersonA.Gender)
	result.PersonBOutfits = links.Enrich(result.PersonBOutfits, result.PersonB.Gender)
	return result
}

func limit(outfits []models.OutfitSuggestion, count int) []models.OutfitSuggestion {
	if len(outfits) > count {
		return outfits[:count]
	}
	return outfits
}
