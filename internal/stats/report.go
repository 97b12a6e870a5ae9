package stats

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/KaramelBytes/rasff-lens/internal/dataset"
)

// Report is the summary view of a filtered selection.
type Report struct {
	Name              string       `json:"name,omitempty"`
	Key               KeyStats     `json:"key_stats"`
	From              time.Time    `json:"from,omitempty"`
	To                time.Time    `json:"to,omitempty"`
	NotifyingCountry  []GroupCount `json:"by_notifying_country"`
	OriginCountry     []GroupCount `json:"by_origin_country"`
	TopProducts       []GroupCount `json:"top_product_categories"`
	TopHazards        []GroupCount `json:"top_hazard_categories"`
	HazardGroups      []GroupCount `json:"by_hazard_group"`
	GroupDistribution Summary      `json:"group_distribution"`
	GroupBy           []string     `json:"group_by,omitempty"`
	Groups            []GroupCount `json:"groups,omitempty"`
	Analyses          []Analysis   `json:"analyses,omitempty"`
	Warnings          []string     `json:"warnings,omitempty"`
}

// ReportOptions select the optional sections.
type ReportOptions struct {
	GroupBy  []dataset.Field
	TopN     int
	Analyses bool
}

// BuildReport computes every section over recs.
func BuildReport(name string, recs []dataset.Record, opt ReportOptions) *Report {
	top := opt.TopN
	if top <= 0 {
		top = 10
	}
	r := &Report{
		Name:             name,
		Key:              Key(recs),
		NotifyingCountry: ValueCounts(recs, dataset.FieldNotifyingCountry, top),
		OriginCountry:    ValueCounts(recs, dataset.FieldOriginCountry, top),
		TopProducts:      ValueCounts(recs, dataset.FieldProdCat, top),
		TopHazards:       ValueCounts(recs, dataset.FieldHazCat, top),
		HazardGroups:     ValueCounts(recs, dataset.FieldGroupHaz, 0),
	}
	if lo, hi, ok := DateSpan(recs); ok {
		r.From, r.To = lo, hi
	}
	keys := opt.GroupBy
	if len(keys) == 0 {
		keys = []dataset.Field{dataset.FieldNotifyingCountry, dataset.FieldHazCat}
	}
	for _, k := range keys {
		r.GroupBy = append(r.GroupBy, string(k))
	}
	groups := Aggregate(recs, keys)
	r.GroupDistribution = Describe(groups)
	if len(opt.GroupBy) > 0 {
		r.Groups = Top(groups, top)
	}
	if opt.Analyses {
		r.Analyses = DefaultAnalyses(recs)
	}
	return r
}

// Markdown renders the report as plain sections.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		fmt.Fprintf(&b, "File: %s\n", r.Name)
	}
	fmt.Fprintf(&b, "Notifications: %d\n", r.Key.Total)
	fmt.Fprintf(&b, "Product categories: %d\n", r.Key.UniqueProductCategories)
	fmt.Fprintf(&b, "Hazard categories: %d\n", r.Key.UniqueHazardCategories)
	if !r.From.IsZero() {
		fmt.Fprintf(&b, "Period: %s to %s\n", r.From.Format("2006-01-02"), r.To.Format("2006-01-02"))
	}

	writeCounts(&b, "NOTIFYING COUNTRIES", r.NotifyingCountry)
	writeCounts(&b, "ORIGIN COUNTRIES", r.OriginCountry)
	writeCounts(&b, "TOP PRODUCT CATEGORIES", r.TopProducts)
	writeCounts(&b, "TOP HAZARD CATEGORIES", r.TopHazards)
	writeCounts(&b, "HAZARD GROUPS", r.HazardGroups)

	d := r.GroupDistribution
	fmt.Fprintf(&b, "\n[GROUP-BY SUMMARY] %s\n", strings.Join(r.GroupBy, " x "))
	fmt.Fprintf(&b, "groups %d, mean %s, std %s, min %s, 25%% %s, 50%% %s, 75%% %s, max %s\n",
		d.Count, num(d.Mean), num(d.Std), num(d.Min), num(d.Q25), num(d.Q50), num(d.Q75), num(d.Max))
	for _, g := range r.Groups {
		fmt.Fprintf(&b, "- %s (n=%d)\n", safeVal(g.Label()), g.Count)
	}

	for _, a := range r.Analyses {
		fmt.Fprintf(&b, "\n[CHI-SQUARE] %s\n", a.Title)
		if a.Result == nil {
			fmt.Fprintf(&b, "not computed: %s\n", a.Err)
			continue
		}
		res := a.Result
		verdict := "no significant association"
		if res.Significant {
			verdict = "significant association"
		}
		fmt.Fprintf(&b, "chi2 %.4g, dof %d, p %.4g: %s at alpha %.2f\n", res.Statistic, res.DOF, res.PValue, verdict, Alpha)
		for _, c := range res.Associations {
			fmt.Fprintf(&b, "- %s / %s: %d (expected %.1f)\n", safeVal(c.Row), safeVal(c.Col), c.Count, c.Expected)
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[WARNINGS]\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	return b.String()
}

func writeCounts(b *strings.Builder, title string, counts []GroupCount) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(b, "\n[%s]\n", title)
	for _, g := range counts {
		label := g.Label()
		if label == "" {
			label = "(blank)"
		}
		fmt.Fprintf(b, "- %s: %d\n", safeVal(label), g.Count)
	}
}

func num(x float64) string {
	if math.IsNaN(x) {
		return "n/a"
	}
	return fmt.Sprintf("%.4g", x)
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
