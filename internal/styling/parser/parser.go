// internal/styling/parser/parser.go
package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"stylist-workers/internal/common/logger"
	"stylist-workers/internal/models"

	"github.com/google/uuid"
)

const (
	DefaultPriceRange = "budget/mid-range/premium"
	DefaultSeason     = "all-season"
)

var ErrNoJSON = errors.New("no JSON found in response")

// Warning kinds.
const (
	WarnExtraction = "extraction"
	WarnSchema     = "schema"
	WarnDropped    = "dropped"
	WarnGender     = "gender"
)

type Warning struct {
	Kind     string `json:"kind"`
	OutfitID string `json:"outfitId,omitempty"`
	Field    string `json:"field,omitempty"`
	Message  string `json:"message"`
}

func (w Warning) String() string {
	if w.OutfitID != "" {
		return fmt.Sprintf("%s [%s]: %s", w.Kind, w.OutfitID, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}

// Result pairs the usable outfits with everything that was repaired or
// flagged on the way. Callers decide how strict to be.
type Result struct {
	Outfits  []models.OutfitSuggestion
	Warnings []Warning
}

func (r Result) HasWarnings(kind string) bool {
	for _, w := range r.Warnings {
		if w.Kind == kind {
			return true
		}
	}
	return false
}

type Options struct {
	// Gender is the resolved target; cross-gender markers are flagged against it.
	Gender   string
	Occasion string
	Logger   logger.Logger
}

// ParseOutfits turns raw model output into validated outfits. It accepts a
// JSON array, an {"outfits": [...]} wrapper or a single object, and falls back
// to the largest bracketed substring when the text around it is not JSON.
func ParseOutfits(raw string, opts Options) Result {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	var res Result
	candidates, extracted, err := decodeCandidates(raw)
	if err != nil {
		res.Warnings = append(res.Warnings, Warning{Kind: WarnExtraction, Message: err.Error()})
		log.Warn("ai response is not parseable", map[string]interface{}{"error": err, "length": len(raw)})
		return res
	}
	if extracted {
		res.Warnings = append(res.Warnings, Warning{Kind: WarnExtraction, Message: "JSON extracted from surrounding text"})
	}

	seen := map[string]bool{}
	for i, c := range candidates {
		obj, ok := c.(map[string]interface{})
		if !ok {
			res.Warnings = append(res.Warnings, Warning{Kind: WarnDropped, Message: fmt.Sprintf("element %d is not an object", i)})
			continue
		}

		outfit, warnings, ok := buildOutfit(obj, i, opts)
		res.Warnings = append(res.Warnings, warnings...)
		if !ok {
			continue
		}
		if seen[outfit.ID] {
			outfit.ID = uuid.NewString()
		}
		seen[outfit.ID] = true

		for _, marker := range CrossGenderMarkers(outfit, opts.Gender) {
			res.Warnings = append(res.Warnings, Warning{
				Kind:     WarnGender,
				OutfitID: outfit.ID,
				Message:  fmt.Sprintf("%q is unusual for a %s outfit", marker, opts.Gender),
			})
			log.Warn("cross-gender item in ai outfit", map[string]interface{}{
				"outfitId": outfit.ID,
				"marker":   marker,
				"gender":   opts.Gender,
			})
		}
		res.Outfits = append(res.Outfits, outfit)
	}

	if len(res.Warnings) > 0 {
		log.Debug("ai response repaired", map[string]interface{}{
			"outfits":  len(res.Outfits),
			"warnings": len(res.Warnings),
		})
	}
	return res
}

func decodeCandidates(raw string) ([]interface{}, bool, error) {
	text := stripFences(raw)

	var v interface{}
	if err := json.Unmarshal([]byte(text), &v); err == nil {
		if c, ok := unwrap(v); ok {
			return c, false, nil
		}
	}

	for _, sub := range bracketSpans(text) {
		if err := json.Unmarshal([]byte(sub), &v); err == nil {
			if c, ok := unwrap(v); ok {
				return c, true, nil
			}
		}
	}
	return nil, false, ErrNoJSON
}

func unwrap(v interface{}) ([]interface{}, bool) {
	switch t := v.(type) {
	case []interface{}:
		return t, true
	case map[string]interface{}:
		if inner, ok := t["outfits"].([]interface{}); ok {
			return inner, true
		}
		return []interface{}{t}, true
	default:
		return nil, false
	}
}

func stripFences(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```JSON")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	return strings.TrimSpace(text)
}

// bracketSpans returns the outermost [...] and {...} spans, longest first.
func bracketSpans(text string) []string {
	var spans []string
	for _, pair := range [][2]string{{"[", "]"}, {"{", "}"}} {
		start := strings.Index(text, pair[0])
		end := strings.LastIndex(text, pair[1])
		if start >= 0 && end > start {
			spans = append(spans, text[start:end+1])
		}
	}
	if len(spans) == 2 && len(spans[1]) > len(spans[0]) {
		spans[0], spans[1] = spans[1], spans[0]
	}
	return spans
}

// ParseObject decodes a single JSON object from raw model output into out.
func ParseObject(raw string, out interface{}) error {
	text := stripFences(raw)
	if err := json.Unmarshal([]byte(text), out); err == nil {
		return nil
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ErrNoJSON
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), out); err != nil {
		return fmt.Errorf("%w: %v", ErrNoJSON, err)
	}
	return nil
}
