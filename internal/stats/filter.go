package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/rasff-lens/internal/dataset"
)

// Filter restricts records. Empty selections do not restrict; values match
// case-insensitively. Once From or To is set, records without a parsed date
// are excluded.
type Filter struct {
	From               time.Time `json:"from,omitempty"`
	To                 time.Time `json:"to,omitempty"`
	ProductGroups      []string  `json:"product_groups,omitempty"`
	ProductCategories  []string  `json:"product_categories,omitempty"`
	HazardGroups       []string  `json:"hazard_groups,omitempty"`
	HazardCategories   []string  `json:"hazard_categories,omitempty"`
	NotifyingCountries []string  `json:"notifying_countries,omitempty"`
	OriginCountries    []string  `json:"origin_countries,omitempty"`
}

// IsZero reports whether the filter keeps everything.
func (f Filter) IsZero() bool {
	return f.From.IsZero() && f.To.IsZero() && len(f.ProductGroups) == 0 &&
		len(f.ProductCategories) == 0 && len(f.HazardGroups) == 0 &&
		len(f.HazardCategories) == 0 && len(f.NotifyingCountries) == 0 &&
		len(f.OriginCountries) == 0
}

// Set assigns a selection by field; it reports false for fields that are not
// filterable.
func (f *Filter) Set(field dataset.Field, values []string) bool {
	switch field {
	case dataset.FieldGroupProd:
		f.ProductGroups = values
	case dataset.FieldProdCat:
		f.ProductCategories = values
	case dataset.FieldGroupHaz:
		f.HazardGroups = values
	case dataset.FieldHazCat:
		f.HazardCategories = values
	case dataset.FieldNotifyingCountry:
		f.NotifyingCountries = values
	case dataset.FieldOriginCountry:
		f.OriginCountries = values
	default:
		return false
	}
	return true
}

// Apply returns the records kept by the filter, in input order.
func (f Filter) Apply(recs []dataset.Record) []dataset.Record {
	if f.IsZero() {
		return recs
	}
	sel := []struct {
		field dataset.Field
		set   map[string]bool
	}{
		{dataset.FieldGroupProd, toSet(f.ProductGroups)},
		{dataset.FieldProdCat, toSet(f.ProductCategories)},
		{dataset.FieldGroupHaz, toSet(f.HazardGroups)},
		{dataset.FieldHazCat, toSet(f.HazardCategories)},
		{dataset.FieldNotifyingCountry, toSet(f.NotifyingCountries)},
		{dataset.FieldOriginCountry, toSet(f.OriginCountries)},
	}
	dated := !f.From.IsZero() || !f.To.IsZero()
	var out []dataset.Record
next:
	for i := range recs {
		r := &recs[i]
		if dated {
			if !r.HasDate {
				continue
			}
			if !f.From.IsZero() && r.Date.Before(f.From) {
				continue
			}
			if !f.To.IsZero() && r.Date.After(endOfDay(f.To)) {
				continue
			}
		}
		for _, s := range sel {
			if s.set != nil && !s.set[strings.ToLower(r.Get(s.field))] {
				continue next
			}
		}
		out = append(out, *r)
	}
	return out
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-1), t.Location())
}

func toSet(vals []string) map[string]bool {
	if len(vals) == 0 {
		return nil
	}
	m := make(map[string]bool, len(vals))
	for _, v := range vals {
		m[strings.ToLower(strings.TrimSpace(v))] = true
	}
	return m
}

// Distinct lists the non-empty values of a field, sorted.
func Distinct(recs []dataset.Record, f dataset.Field) []string {
	seen := map[string]bool{}
	var out []string
	for i := range recs {
		v := recs[i].Get(f)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// DateSpan returns the earliest and latest parsed dates.
func DateSpan(recs []dataset.Record) (time.Time, time.Time, bool) {
	var lo, hi time.Time
	found := false
	for i := range recs {
		if !recs[i].HasDate {
			continue
		}
		d := recs[i].Date
		if !found || d.Before(lo) {
			lo = d
		}
		if !found || d.After(hi) {
			hi = d
		}
		found = true
	}
	return lo, hi, found
}

// KeyStats are the headline numbers of a selection.
type KeyStats struct {
	Total                   int `json:"total_notifications"`
	UniqueProductCategories int `json:"unique_product_categories"`
	UniqueHazardCategories  int `json:"unique_hazard_categories"`
	NotifyingCountries      int `json:"notifying_countries"`
	OriginCountries         int `json:"origin_countries"`
}

// Key computes KeyStats.
func Key(recs []dataset.Record) KeyStats {
	return KeyStats{
		Total:                   len(recs),
		UniqueProductCategories: len(Distinct(recs, dataset.FieldProdCat)),
		UniqueHazardCategories:  len(Distinct(recs, dataset.FieldHazCat)),
		NotifyingCountries:      len(Distinct(recs, dataset.FieldNotifyingCountry)),
		OriginCountries:         len(Distinct(recs, dataset.FieldOriginCountry)),
	}
}
