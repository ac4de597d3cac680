// internal/styling/profile/palette.go
package profile

var flattering = map[string][]string{
	SkinFair:     {"navy", "emerald green", "burgundy", "pastel pink", "powder blue", "charcoal"},
	SkinWheatish: {"olive", "mustard", "coral", "teal", "rust", "cream"},
	SkinDusky:    {"cobalt blue", "white", "emerald", "maroon", "gold", "mint"},
	SkinDark:     {"bright yellow", "white", "royal blue", "fuchsia", "orange", "lavender"},
}

var unflattering = map[string][]string{
	SkinFair:     {"neon yellow", "washed-out beige"},
	SkinWheatish: {"dull grey", "neon green"},
	SkinDusky:    {"muddy brown", "dull beige"},
	SkinDark:     {"dark brown", "deep navy head to toe"},
}

var neutralPalette = []string{"navy", "white", "beige", "grey", "black", "olive"}

// ColorPalette returns flattering colours for a canonical skin tone, or a
// neutral palette when the tone is unknown. The result is a fresh slice.
func ColorPalette(skinTone string) []string {
	if p, ok := flattering[skinTone]; ok {
		return append([]string(nil), p...)
	}
	return append([]string(nil), neutralPalette...)
}

func AvoidColors(skinTone string) []string {
	return append([]string(nil), unflattering[skinTone]...)
}

func NeutralColors() []string {
	return append([]string(nil), neutralPalette...)
}
