// Package chart draws self-contained SVG charts from group counts.
package chart

import (
	"bytes"
	"fmt"
	"html"
	"math"

	"github.com/KaramelBytes/rasff-lens/internal/stats"
)

// Kind selects the chart shape.
type Kind string

const (
	KindBar Kind = "bar"
	KindPie Kind = "pie"
)

// ParseKind maps free text to a Kind, defaulting to bar.
func ParseKind(s string) Kind {
	if Kind(s) == KindPie {
		return KindPie
	}
	return KindBar
}

var palette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

const (
	width     = 720
	barHeight = 22
	barGap    = 6
	labelW    = 260
	titleH    = 36
)

// Render draws counts as the given kind.
func Render(kind Kind, title string, counts []stats.GroupCount) []byte {
	if kind == KindPie {
		return Pie(title, counts)
	}
	return Bar(title, counts)
}

// Bar draws a horizontal bar chart, one bar per group in input order.
func Bar(title string, counts []stats.GroupCount) []byte {
	h := titleH + len(counts)*(barHeight+barGap) + barGap
	if len(counts) == 0 {
		h = titleH + barHeight
	}
	var b bytes.Buffer
	header(&b, width, h, title)
	max := 0
	for _, g := range counts {
		if g.Count > max {
			max = g.Count
		}
	}
	span := float64(width - labelW - 60)
	for i, g := range counts {
		y := titleH + i*(barHeight+barGap)
		w := 0.0
		if max > 0 {
			w = span * float64(g.Count) / float64(max)
		}
		fmt.Fprintf(&b, `<text x="%d" y="%d" text-anchor="end" font-size="12">%s</text>`+"\n",
			labelW-8, y+barHeight-6, esc(truncate(label(g), 40)))
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%.1f" height="%d" fill="%s"/>`+"\n",
			labelW, y, w, barHeight, palette[0])
		fmt.Fprintf(&b, `<text x="%.1f" y="%d" font-size="12">%d</text>`+"\n",
			float64(labelW)+w+6, y+barHeight-6, g.Count)
	}
	b.WriteString("</svg>\n")
	return b.Bytes()
}

// Pie draws a pie chart with a legend. Groups beyond the palette size are
// merged into "Other".
func Pie(title string, counts []stats.GroupCount) []byte {
	counts = foldTail(counts, len(palette))
	legendH := len(counts)*20 + 10
	h := titleH + 260
	if titleH+legendH > h {
		h = titleH + legendH
	}
	var b bytes.Buffer
	header(&b, width, h, title)
	total := 0
	for _, g := range counts {
		total += g.Count
	}
	cx, cy, r := 150.0, float64(titleH)+125, 120.0
	angle := -math.Pi / 2
	for i, g := range counts {
		if total == 0 || g.Count == 0 {
			continue
		}
		color := palette[i%len(palette)]
		frac := float64(g.Count) / float64(total)
		if frac >= 1 {
			fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n", cx, cy, r, color)
			continue
		}
		end := angle + frac*2*math.Pi
		large := 0
		if frac > 0.5 {
			large = 1
		}
		fmt.Fprintf(&b, `<path d="M%.1f,%.1f L%.2f,%.2f A%.1f,%.1f 0 %d,1 %.2f,%.2f Z" fill="%s"/>`+"\n",
			cx, cy, cx+r*math.Cos(angle), cy+r*math.Sin(angle), r, r, large,
			cx+r*math.Cos(end), cy+r*math.Sin(end), color)
		angle = end
	}
	for i, g := range counts {
		y := titleH + 10 + i*20
		pct := 0.0
		if total > 0 {
			pct = 100 * float64(g.Count) / float64(total)
		}
		fmt.Fprintf(&b, `<rect x="320" y="%d" width="12" height="12" fill="%s"/>`+"\n", y, palette[i%len(palette)])
		fmt.Fprintf(&b, `<text x="340" y="%d" font-size="12">%s: %d (%.1f%%)</text>`+"\n",
			y+11, esc(truncate(label(g), 40)), g.Count, pct)
	}
	b.WriteString("</svg>\n")
	return b.Bytes()
}

// Heatmap draws a crosstab as a grid of cells shaded by count, each cell
// annotated with its count. Rows and columns keep the crosstab order.
func Heatmap(title string, ct *stats.Crosstab) []byte {
	if ct == nil || len(ct.Rows) == 0 || len(ct.Cols) == 0 {
		var b bytes.Buffer
		header(&b, width, titleH+barHeight, title)
		fmt.Fprintf(&b, `<text x="10" y="%d" font-size="12">no data</text>`+"\n", titleH+14)
		b.WriteString("</svg>\n")
		return b.Bytes()
	}
	cell := (width - labelW) / len(ct.Cols)
	if cell > 48 {
		cell = 48
	}
	if cell < 18 {
		cell = 18
	}
	const colLabelH = 140
	w := labelW + len(ct.Cols)*cell + 20
	if w < width {
		w = width
	}
	h := titleH + colLabelH + len(ct.Rows)*cell + 10
	var b bytes.Buffer
	header(&b, w, h, title)
	top := titleH + colLabelH
	for j, col := range ct.Cols {
		x := labelW + j*cell + cell/2
		fmt.Fprintf(&b, `<text transform="translate(%d,%d) rotate(-45)" font-size="11">%s</text>`+"\n",
			x, top-6, esc(truncate(blank(col), 30)))
	}
	max := 0
	for _, row := range ct.Counts {
		for _, n := range row {
			if n > max {
				max = n
			}
		}
	}
	for i, row := range ct.Rows {
		y := top + i*cell
		fmt.Fprintf(&b, `<text x="%d" y="%d" text-anchor="end" font-size="11">%s</text>`+"\n",
			labelW-8, y+cell/2+4, esc(truncate(blank(row), 40)))
		for j := range ct.Cols {
			n := 0
			if i < len(ct.Counts) && j < len(ct.Counts[i]) {
				n = ct.Counts[i][j]
			}
			frac := 0.0
			if max > 0 {
				frac = float64(n) / float64(max)
			}
			x := labelW + j*cell
			fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s" stroke="#ffffff"/>`+"\n",
				x, y, cell, cell, blues(frac))
			ink := "#000000"
			if frac > 0.5 {
				ink = "#ffffff"
			}
			fmt.Fprintf(&b, `<text x="%d" y="%d" text-anchor="middle" font-size="10" fill="%s">%d</text>`+"\n",
				x+cell/2, y+cell/2+4, ink, n)
		}
	}
	b.WriteString("</svg>\n")
	return b.Bytes()
}

// blues interpolates from near white (0) to dark blue (1).
func blues(frac float64) string {
	lo, hi := [3]float64{247, 251, 255}, [3]float64{8, 48, 107}
	var c [3]int
	for k := range c {
		c[k] = int(math.Round(lo[k] + (hi[k]-lo[k])*frac))
	}
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

func header(b *bytes.Buffer, w, h int, title string) {
	fmt.Fprintf(b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`+"\n", w, h, w, h)
	fmt.Fprintf(b, `<title>%s</title>`+"\n", esc(title))
	fmt.Fprintf(b, `<text x="10" y="24" font-size="16" font-weight="bold">%s</text>`+"\n", esc(title))
}

func foldTail(counts []stats.GroupCount, n int) []stats.GroupCount {
	if len(counts) <= n {
		return counts
	}
	out := append([]stats.GroupCount(nil), counts[:n-1]...)
	other := stats.GroupCount{Key: []string{"Other"}}
	for _, g := range counts[n-1:] {
		other.Count += g.Count
	}
	return append(out, other)
}

func label(g stats.GroupCount) string {
	return blank(g.Label())
}

func blank(s string) string {
	if s == "" {
		return "(blank)"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func esc(s string) string { return html.EscapeString(s) }
