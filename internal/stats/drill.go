package stats

import (
	"strings"

	"github.com/KaramelBytes/rasff-lens/internal/dataset"
)

// CategoryDrill is one hazard category of a drill-down with its substances.
type CategoryDrill struct {
	Category   string       `json:"category"`
	Count      int          `json:"count"`
	Substances []GroupCount `json:"substances"`
}

// Drill walks hazard group -> hazard categories -> hazard substances.
type Drill struct {
	Group      string          `json:"group"`
	Count      int             `json:"count"`
	Categories []CategoryDrill `json:"categories"`
}

// DrillDown restricts records to one hazard group (case-insensitive) and
// counts its categories and, per category, the top substances.
func DrillDown(recs []dataset.Record, group string, topSubstances int) Drill {
	var sel []dataset.Record
	for i := range recs {
		if strings.EqualFold(recs[i].GroupHaz, group) {
			sel = append(sel, recs[i])
		}
	}
	d := Drill{Group: group, Count: len(sel)}
	for _, c := range ValueCounts(sel, dataset.FieldHazCat, 0) {
		var inCat []dataset.Record
		for i := range sel {
			if sel[i].HazCat == c.Key[0] {
				inCat = append(inCat, sel[i])
			}
		}
		subs := ValueCounts(inCat, dataset.FieldHazardSubstance, topSubstances)
		d.Categories = append(d.Categories, CategoryDrill{Category: c.Key[0], Count: c.Count, Substances: subs})
	}
	return d
}
