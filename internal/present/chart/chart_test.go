package chart

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/KaramelBytes/rasff-lens/internal/stats"
)

func counts(pairs ...any) []stats.GroupCount {
	var out []stats.GroupCount
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, stats.GroupCount{Key: []string{pairs[i].(string)}, Count: pairs[i+1].(int)})
	}
	return out
}

func wellFormed(t *testing.T, svg []byte) {
	t.Helper()
	d := xml.NewDecoder(strings.NewReader(string(svg)))
	for {
		_, err := d.Token()
		if err != nil {
			if err == io.EOF {
				return
			}
			t.Fatalf("svg not well formed: %v\n%s", err, svg)
		}
	}
}

func TestBar(t *testing.T) {
	svg := Bar("Hazards <top>", counts("Mycotoxins", 10, "Allergens & more", 5))
	wellFormed(t, svg)
	s := string(svg)
	if strings.Count(s, "<rect") != 2 {
		t.Fatalf("expected two bars:\n%s", s)
	}
	if !strings.Contains(s, "Hazards &lt;top&gt;") || !strings.Contains(s, "Allergens &amp; more") {
		t.Fatalf("labels not escaped:\n%s", s)
	}
	if !strings.Contains(s, `width="400.0"`) || !strings.Contains(s, `width="200.0"`) {
		t.Fatalf("bars not scaled to max:\n%s", s)
	}
}

func TestPieFoldsTail(t *testing.T) {
	var in []stats.GroupCount
	for i := 0; i < 12; i++ {
		in = append(in, stats.GroupCount{Key: []string{string(rune('A' + i))}, Count: 1})
	}
	svg := Pie("Categories", in)
	wellFormed(t, svg)
	s := string(svg)
	if strings.Count(s, "<path") != len(palette) {
		t.Fatalf("expected %d slices:\n%s", len(palette), s)
	}
	if !strings.Contains(s, "Other: 3 (25.0%)") {
		t.Fatalf("tail not folded:\n%s", s)
	}
}

func TestPieSingleSlice(t *testing.T) {
	svg := Render(ParseKind("pie"), "Only", counts("Wine", 4))
	wellFormed(t, svg)
	if !strings.Contains(string(svg), "<circle") {
		t.Fatalf("full pie should be a circle:\n%s", svg)
	}
	if ParseKind("line") != KindBar {
		t.Fatalf("unknown kinds default to bar")
	}
}

func TestHeatmap(t *testing.T) {
	ct := &stats.Crosstab{
		Rows:   []string{"Nuts & Seeds", "Wine"},
		Cols:   []string{"Mycotoxins", "Allergens"},
		Counts: [][]int{{6, 0}, {1, 3}},
		Total:  10,
	}
	svg := Heatmap("Product <x> hazard", ct)
	wellFormed(t, svg)
	s := string(svg)
	if strings.Count(s, "<rect") != 4 {
		t.Fatalf("expected one cell per pair:\n%s", s)
	}
	if !strings.Contains(s, "Nuts &amp; Seeds") || !strings.Contains(s, "Product &lt;x&gt; hazard") {
		t.Fatalf("labels not escaped:\n%s", s)
	}
	if !strings.Contains(s, `fill="#08306b"`) || !strings.Contains(s, `fill="#f7fbff"`) {
		t.Fatalf("max and zero cells should span the scale:\n%s", s)
	}
	if !strings.Contains(s, `fill="#ffffff">6</text>`) || !strings.Contains(s, `fill="#000000">0</text>`) {
		t.Fatalf("cells not annotated:\n%s", s)
	}
}

func TestHeatmapEmpty(t *testing.T) {
	for _, ct := range []*stats.Crosstab{nil, {}} {
		svg := Heatmap("Empty", ct)
		wellFormed(t, svg)
		if !strings.Contains(string(svg), "no data") {
			t.Fatalf("empty crosstab:\n%s", svg)
		}
	}
}
