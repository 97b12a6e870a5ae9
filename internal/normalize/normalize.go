// Package normalize applies the taxonomy to loaded tables.
package normalize

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/rasff-lens/internal/dataset"
	"github.com/KaramelBytes/rasff-lens/internal/taxonomy"
)

// Source columns read by the offline enrichment.
const (
	SourceProductCategory = "Product Category"
	SourceHazardCategory  = "Hazard Category"
)

// EnrichTable adds or overwrites PRODCAT, GROUPPROD, HAZCAT and GROUPHAZ.
// Product columns come from "Product Category" and hazard columns from
// "Hazard Category"; a missing source column maps every row to Unknown.
// No other column is modified.
func EnrichTable(t *dataset.Table, tx *taxonomy.Taxonomy) {
	products := sourceColumn(t, SourceProductCategory, dataset.FieldProductCategory)
	hazards := sourceColumn(t, SourceHazardCategory, dataset.FieldHazardCategory)

	n := t.Len()
	prodCat, groupProd := make([]string, n), make([]string, n)
	hazCat, groupHaz := make([]string, n), make([]string, n)
	for i := 0; i < n; i++ {
		prodCat[i], groupProd[i] = tx.MapProduct(products[i])
		hazCat[i], groupHaz[i] = tx.MapHazard(hazards[i])
	}
	t.SetColumn(dataset.ColProdCat, prodCat)
	t.SetColumn(dataset.ColGroupProd, groupProd)
	t.SetColumn(dataset.ColHazCat, hazCat)
	t.SetColumn(dataset.ColGroupHaz, groupHaz)
}

func sourceColumn(t *dataset.Table, name string, f dataset.Field) []string {
	if vals := t.Column(name); vals != nil {
		return vals
	}
	idx := t.FieldIndex(f)
	out := make([]string, t.Len())
	if idx < 0 {
		return out
	}
	for i, r := range t.Rows {
		out[i] = r[idx]
	}
	return out
}

// Options tune record normalization.
type Options struct {
	// CorrectHazards replaces hazard substances with their vocabulary match.
	CorrectHazards bool
	// ResolveFallback derives HAZCAT from the hazard substance when the
	// hazard category maps to Unknown.
	ResolveFallback bool
	// MaxDateWarnings caps the per-row date warnings kept in Stats.
	MaxDateWarnings int
}

// DefaultOptions is the interactive normalization profile.
func DefaultOptions() Options {
	return Options{CorrectHazards: true, ResolveFallback: true, MaxDateWarnings: 10}
}

// Stats summarizes one normalization pass.
type Stats struct {
	Rows              int
	UnknownProducts   int
	UnknownHazards    int
	CorrectedHazards  int
	ResolvedHazards   int
	DateFailures      int
	Warnings          []string
	SuppressedWarning int
}

// Records builds normalized records from a table. Existing PRODCAT/HAZCAT
// columns are recomputed.
func Records(t *dataset.Table, tx *taxonomy.Taxonomy, opt Options) ([]dataset.Record, Stats) {
	idx := make(map[dataset.Field]int, len(dataset.Fields))
	for _, f := range dataset.Fields {
		idx[f] = t.FieldIndex(f)
	}
	get := func(row []string, f dataset.Field) string {
		if i := idx[f]; i >= 0 && i < len(row) {
			v := strings.TrimSpace(row[i])
			if taxonomy.IsAbsent(v) {
				return ""
			}
			return v
		}
		return ""
	}
	st := Stats{Rows: t.Len()}
	fallback := taxonomy.FallbackLabel(tx.Lang)
	recs := make([]dataset.Record, 0, t.Len())
	for n, row := range t.Rows {
		r := dataset.Record{
			Reference:        get(row, dataset.FieldReference),
			NotifyingCountry: get(row, dataset.FieldNotifyingCountry),
			OriginCountry:    get(row, dataset.FieldOriginCountry),
			Product:          get(row, dataset.FieldProduct),
			ProductCategory:  get(row, dataset.FieldProductCategory),
			HazardSubstance:  get(row, dataset.FieldHazardSubstance),
			HazardCategory:   get(row, dataset.FieldHazardCategory),
		}
		if raw := get(row, dataset.FieldDate); raw != "" {
			r.DateRaw = raw
			if d, ok := dataset.ParseDate(raw); ok {
				r.Date, r.HasDate = d, true
			} else {
				st.DateFailures++
				st.warn(opt, fmt.Sprintf("row %d: unparsed date %q kept as text", n+2, raw))
			}
		}
		if opt.CorrectHazards && r.HazardSubstance != "" {
			if c := tx.CorrectHazard(r.HazardSubstance); c != r.HazardSubstance {
				r.HazardSubstance = c
				st.CorrectedHazards++
			}
		}
		r.ProdCat, r.GroupProd = tx.MapProduct(r.ProductCategory)
		r.HazCat, r.GroupHaz = tx.MapHazard(r.HazardCategory)
		if opt.ResolveFallback && r.HazCat == taxonomy.Unknown && r.HazardSubstance != "" {
			if c := tx.ResolveHazardCategory(r.HazardSubstance); c != fallback {
				r.HazCat, r.GroupHaz = c, tx.Hazards.GroupOf(c)
				st.ResolvedHazards++
			}
		}
		if r.ProdCat == taxonomy.Unknown {
			st.UnknownProducts++
		}
		if r.HazCat == taxonomy.Unknown {
			st.UnknownHazards++
		}
		recs = append(recs, r)
	}
	if st.SuppressedWarning > 0 {
		st.Warnings = append(st.Warnings, fmt.Sprintf("%d more date warnings suppressed", st.SuppressedWarning))
	}
	return recs, st
}

func (s *Stats) warn(opt Options, msg string) {
	if opt.MaxDateWarnings > 0 && len(s.Warnings) >= opt.MaxDateWarnings {
		s.SuppressedWarning++
		return
	}
	s.Warnings = append(s.Warnings, msg)
}
