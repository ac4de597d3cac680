// internal/styling/profile/normalizer.go
package profile

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"stylist-workers/internal/common/logger"
	"stylist-workers/internal/models"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"

	HeightShort   = "short"
	HeightAverage = "average"
	HeightTall    = "tall"

	BodySlim    = "slim"
	BodyAverage = "average"
	BodyHeavy   = "heavy"
	BodyObese   = "obese"

	SkinFair     = "Fair"
	SkinWheatish = "Wheatish"
	SkinDusky    = "Dusky"
	SkinDark     = "Dark"
)

var bodyTypeSynonyms = map[string]string{
	"slim":     BodySlim,
	"thin":     BodySlim,
	"skinny":   BodySlim,
	"average":  BodyAverage,
	"normal":   BodyAverage,
	"athletic": BodyAverage,
	"muscular": BodyAverage,
	"fit":      BodyAverage,
	"heavy":    BodyHeavy,
	"chubby":   BodyHeavy,
	"plus":     BodyHeavy,
	"obese":    BodyObese,
}

var skinToneSynonyms = map[string]string{
	"fair":     SkinFair,
	"light":    SkinFair,
	"pale":     SkinFair,
	"wheatish": SkinWheatish,
	"medium":   SkinWheatish,
	"olive":    SkinWheatish,
	"tan":      SkinWheatish,
	"dusky":    SkinDusky,
	"brown":    SkinDusky,
	"dark":     SkinDark,
	"deep":     SkinDark,
}

// ParseMeasure converts a number or numeric string into a float.
func ParseMeasure(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case *float64:
		if n == nil {
			return 0, false
		}
		f = *n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// NormalizeHeight buckets a height in centimetres. Non-numeric input yields "".
func NormalizeHeight(h interface{}) string {
	cm, ok := ParseMeasure(h)
	if !ok {
		return ""
	}
	switch {
	case cm < 165:
		return HeightShort
	case cm <= 180:
		return HeightAverage
	default:
		return HeightTall
	}
}

// NormalizeBodyType maps the synonym table; anything unrecognized is slim.
func NormalizeBodyType(b string) string {
	if bucket, ok := bodyTypeSynonyms[strings.ToLower(strings.TrimSpace(b))]; ok {
		return bucket
	}
	return BodySlim
}

// NormalizeGender returns exactly "male" or "female". Other values fall back
// to male with a warning.
func NormalizeGender(g string, log logger.Logger) string {
	lower := strings.ToLower(strings.TrimSpace(g))
	if lower == GenderMale || lower == GenderFemale {
		return lower
	}
	if log != nil {
		log.Warn("unrecognized gender, defaulting to male", map[string]interface{}{
			"gender": g,
		})
	}
	return GenderMale
}

// NormalizeSkinTone returns one of Fair, Wheatish, Dusky, Dark, or "".
func NormalizeSkinTone(s string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	if lower == "" {
		return ""
	}
	if tone, ok := skinToneSynonyms[lower]; ok {
		return tone
	}
	for _, word := range strings.FieldsFunc(lower, func(r rune) bool { return r == ' ' || r == '-' || r == '/' }) {
		if tone, ok := skinToneSynonyms[word]; ok {
			return tone
		}
	}
	return ""
}

// BodyTypeFromBMI infers a body bucket when the user never picked one.
func BodyTypeFromBMI(heightCm, weightKg float64) string {
	if heightCm <= 0 || weightKg <= 0 {
		return ""
	}
	m := heightCm / 100
	bmi := weightKg / (m * m)
	switch {
	case bmi < 18.5:
		return BodySlim
	case bmi < 25:
		return BodyAverage
	case bmi < 30:
		return BodyHeavy
	default:
		return BodyObese
	}
}

// Normalize converts a stored profile into canonical buckets.
func Normalize(p models.UserProfile, log logger.Logger) models.NormalizedProfile {
	n := models.NormalizedProfile{
		Gender:      NormalizeGender(p.Gender, log),
		SkinTone:    NormalizeSkinTone(p.SkinTone),
		RawBodyType: strings.TrimSpace(p.BodyType),
		City:        strings.TrimSpace(p.City),
	}
	if p.Height != nil {
		n.HeightBucket = NormalizeHeight(*p.Height)
	}

	switch {
	case n.RawBodyType != "":
		n.BodyType = NormalizeBodyType(n.RawBodyType)
	case p.Height != nil && p.Weight != nil:
		n.BodyType = BodyTypeFromBMI(*p.Height, *p.Weight)
		if n.BodyType == "" {
			n.BodyType = BodySlim
		}
	default:
		n.BodyType = BodySlim
	}
	return n
}
