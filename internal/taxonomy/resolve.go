package taxonomy

import "strings"

// Fallback labels returned by ResolveHazardCategory.
const (
	OtherEN = "Other"
	OtherFR = "Autre"
)

// Description ties a canonical hazard category to a lowercase text fragment.
type Description struct {
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
}

// ResolveHazardCategory returns the category of the first description
// contained in the lowercased hazard name, or fallback.
func ResolveHazardCategory(name string, table []Description, fallback string) string {
	if IsAbsent(name) {
		return fallback
	}
	lower := strings.ToLower(name)
	for _, d := range table {
		desc := strings.ToLower(strings.TrimSpace(d.Description))
		if desc != "" && strings.Contains(lower, desc) {
			return d.Category
		}
	}
	return fallback
}

// FallbackLabel returns the "other" label for a language code.
func FallbackLabel(lang string) string {
	if strings.EqualFold(lang, "fr") {
		return OtherFR
	}
	return OtherEN
}
