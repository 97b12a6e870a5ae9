// Package taxonomy holds the RASFF category tables and the pure functions that
// map free text onto them.
package taxonomy

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Taxonomy bundles every lookup table the normalizer needs. Build it once at
// startup and treat it as read-only afterwards.
type Taxonomy struct {
	Products           Mapping
	Hazards            Mapping
	HazardVocabulary   []string
	HazardDescriptions []Description
	MaxDistance        int
	Lang               string
}

// Default returns the built-in tables.
func Default() *Taxonomy {
	hazards := NewMapping(defaultHazardEntries())
	return &Taxonomy{
		Products:           NewMapping(defaultProductEntries()),
		Hazards:            hazards,
		HazardVocabulary:   defaultHazardVocabulary(),
		HazardDescriptions: descriptionsFrom(hazards, extraHazardDescriptions()),
		MaxDistance:        DefaultMaxDistance,
		Lang:               "en",
	}
}

func descriptionsFrom(m Mapping, extra []Description) []Description {
	out := make([]Description, 0, len(m)+len(extra))
	for _, e := range m {
		out = append(out, Description{Category: e.Category, Description: e.Key})
	}
	return append(out, extra...)
}

// File is the YAML layout of a taxonomy override file. Omitted sections keep
// their built-in defaults.
type File struct {
	Products           []Entry       `yaml:"products,omitempty"`
	Hazards            []Entry       `yaml:"hazards,omitempty"`
	HazardVocabulary   []string      `yaml:"hazard_vocabulary,omitempty"`
	HazardDescriptions []Description `yaml:"hazard_descriptions,omitempty"`
	MaxDistance        *int          `yaml:"max_distance,omitempty"`
}

// Load builds a Taxonomy from the defaults and an optional override file.
func Load(path string) (*Taxonomy, error) {
	t := Default()
	if strings.TrimSpace(path) == "" {
		return t, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse taxonomy %s: %w", path, err)
	}
	if len(f.Products) > 0 {
		t.Products = NewMapping(f.Products)
	}
	if len(f.Hazards) > 0 {
		t.Hazards = NewMapping(f.Hazards)
		t.HazardDescriptions = descriptionsFrom(t.Hazards, extraHazardDescriptions())
	}
	if len(f.HazardVocabulary) > 0 {
		t.HazardVocabulary = append([]string(nil), f.HazardVocabulary...)
	}
	if len(f.HazardDescriptions) > 0 {
		t.HazardDescriptions = append([]Description(nil), f.HazardDescriptions...)
	}
	if f.MaxDistance != nil {
		if *f.MaxDistance < 0 {
			return nil, fmt.Errorf("parse taxonomy %s: max_distance must be >= 0", path)
		}
		t.MaxDistance = *f.MaxDistance
	}
	return t, nil
}

// Export returns the tables in override-file layout.
func (t *Taxonomy) Export() File {
	md := t.MaxDistance
	return File{
		Products:           append([]Entry(nil), t.Products...),
		Hazards:            append([]Entry(nil), t.Hazards...),
		HazardVocabulary:   append([]string(nil), t.HazardVocabulary...),
		HazardDescriptions: append([]Description(nil), t.HazardDescriptions...),
		MaxDistance:        &md,
	}
}

// MapProduct maps a free-text product category.
func (t *Taxonomy) MapProduct(text string) (string, string) { return MapCategory(text, t.Products) }

// MapHazard maps a free-text hazard category.
func (t *Taxonomy) MapHazard(text string) (string, string) { return MapCategory(text, t.Hazards) }

// CorrectHazard corrects a hazard name against the vocabulary.
func (t *Taxonomy) CorrectHazard(name string) string {
	return CorrectHazard(name, t.HazardVocabulary, t.MaxDistance)
}

// ResolveHazardCategory resolves a hazard name with the language fallback.
func (t *Taxonomy) ResolveHazardCategory(name string) string {
	return ResolveHazardCategory(name, t.HazardDescriptions, FallbackLabel(t.Lang))
}

// ProductLabel returns the display label of a canonical product category in
// the taxonomy language.
func (t *Taxonomy) ProductLabel(category string) string {
	if !strings.EqualFold(t.Lang, "fr") {
		return category
	}
	for _, e := range t.Products {
		if e.Category == category && e.LabelFR != "" {
			return e.LabelFR
		}
	}
	return category
}
