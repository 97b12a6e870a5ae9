// Package stats aggregates normalized notifications.
package stats

import (
	"encoding/json"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/rasff-lens/internal/dataset"
)

// GroupCount is the number of records sharing one key tuple.
type GroupCount struct {
	Key   []string `json:"key"`
	Count int      `json:"count"`
}

// Label joins the key tuple for display.
func (g GroupCount) Label() string { return strings.Join(g.Key, " | ") }

// Aggregate counts records per key tuple. Groups are sorted by key tuple.
// Empty values form their own group.
func Aggregate(recs []dataset.Record, keys []dataset.Field) []GroupCount {
	if len(keys) == 0 {
		return []GroupCount{{Key: []string{}, Count: len(recs)}}
	}
	counts := make(map[string]*GroupCount)
	for i := range recs {
		parts := make([]string, len(keys))
		for j, k := range keys {
			parts[j] = recs[i].Get(k)
		}
		id := strings.Join(parts, "\x00")
		g := counts[id]
		if g == nil {
			g = &GroupCount{Key: parts}
			counts[id] = g
		}
		g.Count++
	}
	out := make([]GroupCount, 0, len(counts))
	for _, g := range counts {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return lessKey(out[i].Key, out[j].Key) })
	return out
}

func lessKey(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// Top returns the n largest groups, count descending then key ascending.
// n <= 0 keeps every group.
func Top(counts []GroupCount, n int) []GroupCount {
	out := append([]GroupCount(nil), counts...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return lessKey(out[i].Key, out[j].Key)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// ValueCounts counts one field, most frequent first.
func ValueCounts(recs []dataset.Record, f dataset.Field, n int) []GroupCount {
	return Top(Aggregate(recs, []dataset.Field{f}), n)
}

// Summary is the descriptive statistics of a group-count distribution.
type Summary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Q25   float64 `json:"q25"`
	Q50   float64 `json:"q50"`
	Q75   float64 `json:"q75"`
	Max   float64 `json:"max"`
}

// MarshalJSON encodes undefined statistics as null.
func (s Summary) MarshalJSON() ([]byte, error) {
	opt := func(x float64) *float64 {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
		return &x
	}
	return json.Marshal(struct {
		Count int      `json:"count"`
		Mean  *float64 `json:"mean"`
		Std   *float64 `json:"std"`
		Min   *float64 `json:"min"`
		Q25   *float64 `json:"q25"`
		Q50   *float64 `json:"q50"`
		Q75   *float64 `json:"q75"`
		Max   *float64 `json:"max"`
	}{s.Count, opt(s.Mean), opt(s.Std), opt(s.Min), opt(s.Q25), opt(s.Q50), opt(s.Q75), opt(s.Max)})
}

// Describe summarizes the counts. Std is the sample standard deviation and
// is NaN for fewer than two groups.
func Describe(counts []GroupCount) Summary {
	vals := make([]float64, len(counts))
	for i, g := range counts {
		vals[i] = float64(g.Count)
	}
	return DescribeValues(vals)
}

// DescribeValues summarizes arbitrary values.
func DescribeValues(vals []float64) Summary {
	s := Summary{Count: len(vals), Std: math.NaN()}
	if len(vals) == 0 {
		s.Mean, s.Min, s.Q25, s.Q50, s.Q75, s.Max = math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN()
		return s
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	var mean, m2 float64
	for i, x := range sorted {
		delta := x - mean
		mean += delta / float64(i+1)
		m2 += delta * (x - mean)
	}
	s.Mean = mean
	if len(sorted) > 1 {
		s.Std = math.Sqrt(m2 / float64(len(sorted)-1))
	}
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Q25 = quantile(sorted, 0.25)
	s.Q50 = quantile(sorted, 0.5)
	s.Q75 = quantile(sorted, 0.75)
	return s
}

// quantile interpolates linearly between closest ranks.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
