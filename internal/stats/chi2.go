package stats

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/KaramelBytes/rasff-lens/internal/dataset"
)

// Alpha is the significance level of the independence tests.
const Alpha = 0.05

// Crosstab is a contingency table of two fields. Labels are sorted.
type Crosstab struct {
	RowField dataset.Field `json:"row_field"`
	ColField dataset.Field `json:"col_field"`
	Rows     []string      `json:"rows"`
	Cols     []string      `json:"cols"`
	Counts   [][]int       `json:"counts"`
	Total    int           `json:"total"`
}

// NewCrosstab counts co-occurrences of two fields. Records with an empty
// value in either field are skipped.
func NewCrosstab(recs []dataset.Record, row, col dataset.Field) *Crosstab {
	ct := &Crosstab{RowField: row, ColField: col}
	ri, ci := map[string]int{}, map[string]int{}
	for i := range recs {
		r, c := recs[i].Get(row), recs[i].Get(col)
		if r == "" || c == "" {
			continue
		}
		if _, ok := ri[r]; !ok {
			ri[r] = 0
			ct.Rows = append(ct.Rows, r)
		}
		if _, ok := ci[c]; !ok {
			ci[c] = 0
			ct.Cols = append(ct.Cols, c)
		}
	}
	sort.Strings(ct.Rows)
	sort.Strings(ct.Cols)
	for i, r := range ct.Rows {
		ri[r] = i
	}
	for j, c := range ct.Cols {
		ci[c] = j
	}
	ct.Counts = make([][]int, len(ct.Rows))
	for i := range ct.Counts {
		ct.Counts[i] = make([]int, len(ct.Cols))
	}
	for i := range recs {
		r, c := recs[i].Get(row), recs[i].Get(col)
		if r == "" || c == "" {
			continue
		}
		ct.Counts[ri[r]][ci[c]]++
		ct.Total++
	}
	return ct
}

// Cell is one crosstab entry.
type Cell struct {
	Row      string  `json:"row"`
	Col      string  `json:"col"`
	Count    int     `json:"count"`
	Expected float64 `json:"expected"`
}

// ChiResult is the outcome of a chi-square test of independence.
type ChiResult struct {
	Statistic    float64     `json:"statistic"`
	PValue       float64     `json:"p_value"`
	DOF          int         `json:"dof"`
	Significant  bool        `json:"significant"`
	Expected     [][]float64 `json:"expected"`
	Associations []Cell      `json:"top_associations"`
}

// ErrEmptyTable is returned for crosstabs without observations.
var ErrEmptyTable = errors.New("contingency table has no observations")

// ChiSquare tests independence of the crosstab fields. With one degree of
// freedom Yates' continuity correction is applied. Associations holds the
// top cells by observed count.
func ChiSquare(ct *Crosstab, top int) (*ChiResult, error) {
	if ct.Total == 0 {
		return nil, ErrEmptyTable
	}
	rowSum := make([]float64, len(ct.Rows))
	colSum := make([]float64, len(ct.Cols))
	for i, row := range ct.Counts {
		for j, n := range row {
			rowSum[i] += float64(n)
			colSum[j] += float64(n)
		}
	}
	total := float64(ct.Total)
	res := &ChiResult{DOF: (len(ct.Rows) - 1) * (len(ct.Cols) - 1)}
	res.Expected = make([][]float64, len(ct.Rows))
	var cells []Cell
	for i := range ct.Rows {
		res.Expected[i] = make([]float64, len(ct.Cols))
		for j := range ct.Cols {
			e := rowSum[i] * colSum[j] / total
			res.Expected[i][j] = e
			o := float64(ct.Counts[i][j])
			d := math.Abs(o - e)
			if res.DOF == 1 {
				d = math.Max(0, d-0.5)
			}
			if e > 0 {
				res.Statistic += d * d / e
			}
			if ct.Counts[i][j] > 0 {
				cells = append(cells, Cell{Row: ct.Rows[i], Col: ct.Cols[j], Count: ct.Counts[i][j], Expected: e})
			}
		}
	}
	if res.DOF > 0 {
		res.PValue = distuv.ChiSquared{K: float64(res.DOF)}.Survival(res.Statistic)
	} else {
		res.PValue = 1
	}
	res.Significant = res.PValue < Alpha
	sort.SliceStable(cells, func(a, b int) bool {
		if cells[a].Count != cells[b].Count {
			return cells[a].Count > cells[b].Count
		}
		if cells[a].Row != cells[b].Row {
			return cells[a].Row < cells[b].Row
		}
		return cells[a].Col < cells[b].Col
	})
	if top > 0 && len(cells) > top {
		cells = cells[:top]
	}
	res.Associations = cells
	return res, nil
}

// Analysis pairs a crosstab with its test.
type Analysis struct {
	Title    string     `json:"title"`
	Crosstab *Crosstab  `json:"crosstab"`
	Result   *ChiResult `json:"result,omitempty"`
	Err      string     `json:"error,omitempty"`
}

// DefaultAnalyses runs product category x hazard category and notifying
// country x hazard group.
func DefaultAnalyses(recs []dataset.Record) []Analysis {
	pairs := []struct {
		title    string
		row, col dataset.Field
	}{
		{"Product category vs hazard category", dataset.FieldProdCat, dataset.FieldHazCat},
		{"Notifying country vs hazard group", dataset.FieldNotifyingCountry, dataset.FieldGroupHaz},
	}
	out := make([]Analysis, 0, len(pairs))
	for _, p := range pairs {
		ct := NewCrosstab(recs, p.row, p.col)
		a := Analysis{Title: p.title, Crosstab: ct}
		res, err := ChiSquare(ct, 10)
		if err != nil {
			a.Err = err.Error()
		} else {
			a.Result = res
		}
		out = append(out, a)
	}
	return out
}
