package taxonomy

import "strings"

// Unknown is the sentinel label returned when no mapping key matches.
const Unknown = "Unknown"

// Entry maps a lowercase substring key to a canonical category and group.
type Entry struct {
	Key      string `yaml:"key"`
	Category string `yaml:"category"`
	Group    string `yaml:"group"`
	LabelFR  string `yaml:"label_fr,omitempty"`
}

// Mapping is an ordered list of entries. Order is the tie-break rule: when
// several keys are contained in the same text, the entry listed first wins,
// so a longer key must precede any shorter key it contains to take effect.
type Mapping []Entry

// NewMapping copies entries and lowercases their keys.
func NewMapping(entries []Entry) Mapping {
	out := make(Mapping, 0, len(entries))
	for _, e := range entries {
		e.Key = strings.ToLower(strings.TrimSpace(e.Key))
		if e.Key == "" {
			continue
		}
		out = append(out, e)
	}
	return out
}

// MapCategory returns the (category, group) of the first entry whose key is a
// substring of the lowercased text. Absent text and unmatched text both yield
// ("Unknown", "Unknown").
func MapCategory(text string, m Mapping) (string, string) {
	if IsAbsent(text) {
		return Unknown, Unknown
	}
	lower := strings.ToLower(text)
	for _, e := range m {
		if strings.Contains(lower, e.Key) {
			return e.Category, e.Group
		}
	}
	return Unknown, Unknown
}

// GroupOf returns the group of the first entry carrying the given canonical
// category, or Unknown.
func (m Mapping) GroupOf(category string) string {
	for _, e := range m {
		if strings.EqualFold(e.Category, category) {
			return e.Group
		}
	}
	return Unknown
}

// Categories lists the distinct canonical categories in table order.
func (m Mapping) Categories() []string {
	return m.distinct(func(e Entry) string { return e.Category })
}

// Groups lists the distinct canonical groups in table order.
func (m Mapping) Groups() []string {
	return m.distinct(func(e Entry) string { return e.Group })
}

func (m Mapping) distinct(field func(Entry) string) []string {
	seen := make(map[string]bool, len(m))
	var out []string
	for _, e := range m {
		v := field(e)
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// IsAbsent reports whether a cell value stands for a missing value.
func IsAbsent(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "nan", "NaN", "NA", "N/A", "null", "NULL", "None", "<NA>":
		return true
	}
	return false
}
