// internal/models/advice.go
package models

// Positions inside AdviceEntry.For.
const (
	AdviceForGender = iota
	AdviceForHeight
	AdviceForWeight
	AdviceForSkinTone
	AdviceForStyle
)

// AdviceEntry is a read-only record of the static advice dataset.
type AdviceEntry struct {
	Category string   `json:"category"`
	For      []string `json:"for"`
	Advice   []string `json:"advice"`
	Source   []string `json:"source"`
}

// Attribute returns the i-th targeting attribute, or "" when absent.
func (e AdviceEntry) Attribute(i int) string {
	if i < 0 || i >= len(e.For) {
		return ""
	}
	return e.For[i]
}
