package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/rasff-lens/internal/dataset"
	"github.com/KaramelBytes/rasff-lens/internal/present/chart"
	"github.com/KaramelBytes/rasff-lens/internal/stats"
)

// Plan kinds.
const (
	KindTable = "table"
	KindChart = "chart"
	KindText  = "text"
	KindCount = "count"
)

const (
	defaultTableLimit = 20
	defaultChartLimit = 10
	maxLimit          = 500
)

// Plan is the model's structured reading of a question.
type Plan struct {
	Kind    string              `json:"kind"`
	GroupBy []string            `json:"group_by,omitempty"`
	Filters map[string][]string `json:"filters,omitempty"`
	From    string              `json:"from,omitempty"`
	To      string              `json:"to,omitempty"`
	Limit   int                 `json:"limit,omitempty"`
	Chart   string              `json:"chart,omitempty"`
	Title   string              `json:"title,omitempty"`
	Answer  string              `json:"answer,omitempty"`
}

// ParsePlan extracts the JSON plan from a model reply. Markdown code fences
// and prose around the object are tolerated.
func ParsePlan(reply string) (*Plan, error) {
	s := strings.TrimSpace(reply)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return nil, errors.New("reply contains no JSON object")
	}
	var p Plan
	if err := json.Unmarshal([]byte(s[start:end+1]), &p); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	p.Kind = strings.ToLower(strings.TrimSpace(p.Kind))
	switch p.Kind {
	case KindTable, KindChart, KindText, KindCount:
	case "":
		return nil, errors.New("plan has no kind")
	default:
		return nil, fmt.Errorf("unknown plan kind %q", p.Kind)
	}
	return &p, nil
}

// Filter converts the plan's selections into a stats.Filter.
func (p *Plan) Filter() (stats.Filter, error) {
	var f stats.Filter
	for name, vals := range p.Filters {
		if len(vals) == 0 {
			continue
		}
		field, err := dataset.ParseField(name)
		if err != nil {
			return f, err
		}
		if !f.Set(field, vals) {
			return f, fmt.Errorf("cannot filter on %q", name)
		}
	}
	if p.From != "" {
		d, ok := dataset.ParseDate(p.From)
		if !ok {
			return f, fmt.Errorf("invalid from date %q", p.From)
		}
		f.From = d
	}
	if p.To != "" {
		d, ok := dataset.ParseDate(p.To)
		if !ok {
			return f, fmt.Errorf("invalid to date %q", p.To)
		}
		f.To = d
	}
	return f, nil
}

func (p *Plan) groupFields() ([]dataset.Field, error) {
	out := make([]dataset.Field, 0, len(p.GroupBy))
	for _, name := range p.GroupBy {
		f, err := dataset.ParseField(name)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func (p *Plan) limit(def int) int {
	switch {
	case p.Limit <= 0:
		return def
	case p.Limit > maxLimit:
		return maxLimit
	}
	return p.Limit
}

// recordColumns are shown when a table plan has no grouping.
var recordColumns = []dataset.Field{
	dataset.FieldDate, dataset.FieldReference, dataset.FieldNotifyingCountry,
	dataset.FieldOriginCountry, dataset.FieldProduct, dataset.FieldProdCat,
	dataset.FieldHazardSubstance, dataset.FieldHazCat, dataset.FieldGroupHaz,
}

// Execute runs a plan against recs. Failures are *QueryError at the
// execute stage.
func Execute(p *Plan, recs []dataset.Record) (Result, error) {
	f, err := p.Filter()
	if err != nil {
		return nil, &QueryError{Stage: StageExecute, Err: err}
	}
	sel := f.Apply(recs)
	keys, err := p.groupFields()
	if err != nil {
		return nil, &QueryError{Stage: StageExecute, Err: err}
	}

	switch p.Kind {
	case KindText:
		if strings.TrimSpace(p.Answer) == "" {
			return nil, fail(StageExecute, "text plan without answer")
		}
		return &TextResult{ID: newID(), Text: strings.TrimSpace(p.Answer)}, nil

	case KindCount:
		text := fmt.Sprintf("%d notifications", len(sel))
		if p.Title != "" {
			text = fmt.Sprintf("%s: %d", p.Title, len(sel))
		}
		return &TextResult{ID: newID(), Text: text}, nil

	case KindTable:
		if len(keys) == 0 {
			return recordTable(p, sel), nil
		}
		groups := stats.Top(stats.Aggregate(sel, keys), p.limit(defaultTableLimit))
		t := &TableResult{ID: newID(), Title: p.Title}
		for _, k := range keys {
			t.Columns = append(t.Columns, string(k))
		}
		t.Columns = append(t.Columns, "count")
		for _, g := range groups {
			row := append(append([]string(nil), g.Key...), fmt.Sprint(g.Count))
			t.Rows = append(t.Rows, row)
		}
		return t, nil

	case KindChart:
		if len(keys) == 0 {
			return nil, fail(StageExecute, "chart plan needs group_by")
		}
		if len(sel) == 0 {
			return nil, fail(StageExecute, "no notifications match the plan filters")
		}
		groups := stats.Top(stats.Aggregate(sel, keys), p.limit(defaultChartLimit))
		title := p.Title
		if title == "" {
			title = "Notifications by " + strings.Join(p.GroupBy, ", ")
		}
		return &ImageResult{ID: newID(), Title: title, SVG: chart.Render(chart.ParseKind(p.Chart), title, groups)}, nil
	}
	return nil, fail(StageExecute, "unknown plan kind %q", p.Kind)
}

func recordTable(p *Plan, sel []dataset.Record) *TableResult {
	t := &TableResult{ID: newID(), Title: p.Title}
	for _, f := range recordColumns {
		t.Columns = append(t.Columns, string(f))
	}
	n := p.limit(defaultTableLimit)
	for i := 0; i < len(sel) && i < n; i++ {
		row := make([]string, len(recordColumns))
		for j, f := range recordColumns {
			row[j] = sel[i].Get(f)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
