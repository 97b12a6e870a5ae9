// Package present renders query results and statistics for the terminal.
package present

import (
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/KaramelBytes/rasff-lens/internal/query"
	"github.com/KaramelBytes/rasff-lens/internal/stats"
	"github.com/KaramelBytes/rasff-lens/internal/utils"
)

var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	styleMuted  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleError  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleHeader = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
)

// Presenter writes to W. Charts are saved as SVG files under ChartDir.
type Presenter struct {
	W        io.Writer
	ChartDir string
}

// Render prints one query result.
func (p *Presenter) Render(res query.Result) error {
	switch r := res.(type) {
	case *query.TableResult:
		if r.Title != "" {
			fmt.Fprintln(p.W, styleTitle.Render(r.Title))
		}
		if len(r.Rows) == 0 {
			fmt.Fprintln(p.W, styleMuted.Render("(no rows)"))
			return nil
		}
		fmt.Fprintln(p.W, Table(r.Columns, r.Rows))
		return nil
	case *query.ImageResult:
		dir := p.ChartDir
		if dir == "" {
			dir = "."
		}
		path := filepath.Join(dir, chartFileName(r.Title, r.ID))
		if err := utils.SafeWriteFile(path, r.SVG); err != nil {
			return fmt.Errorf("save chart: %w", err)
		}
		fmt.Fprintf(p.W, "✓ Chart %q saved to %s\n", r.Title, path)
		return nil
	case *query.TextResult:
		fmt.Fprintln(p.W, r.Text)
		return nil
	}
	return fmt.Errorf("unsupported result %T", res)
}

// Error prints a failed question without stopping the caller.
func (p *Presenter) Error(err error) {
	fmt.Fprintln(p.W, styleError.Render("✗ "+err.Error()))
}

// Table draws a bordered table.
func Table(columns []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styleMuted).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return styleCell
		}).
		Headers(columns...).
		Rows(rows...).
		String()
}

// Counts draws group counts as a two-column table under a title.
func Counts(w io.Writer, title string, header []string, counts []stats.GroupCount) {
	fmt.Fprintln(w, styleTitle.Render(title))
	if len(counts) == 0 {
		fmt.Fprintln(w, styleMuted.Render("(none)"))
		return
	}
	rows := make([][]string, len(counts))
	for i, g := range counts {
		rows[i] = append(append([]string(nil), g.Key...), fmt.Sprint(g.Count))
	}
	fmt.Fprintln(w, Table(append(append([]string(nil), header...), "count"), rows))
}

// KeyStats prints the headline numbers.
func KeyStats(w io.Writer, k stats.KeyStats) {
	fmt.Fprintln(w, Table(
		[]string{"notifications", "product categories", "hazard categories", "notifying countries", "origin countries"},
		[][]string{{fmt.Sprint(k.Total), fmt.Sprint(k.UniqueProductCategories), fmt.Sprint(k.UniqueHazardCategories),
			fmt.Sprint(k.NotifyingCountries), fmt.Sprint(k.OriginCountries)}},
	))
}

// Analysis prints one chi-square analysis.
func Analysis(w io.Writer, a stats.Analysis) {
	fmt.Fprintln(w, styleTitle.Render(a.Title))
	if a.Result == nil {
		fmt.Fprintln(w, styleMuted.Render("not computed: "+a.Err))
		return
	}
	r := a.Result
	verdict := "no significant association"
	if r.Significant {
		verdict = "significant association"
	}
	fmt.Fprintf(w, "chi2 = %.4f, dof = %d, p = %.4g (%s at alpha %.2f)\n", r.Statistic, r.DOF, r.PValue, verdict, stats.Alpha)
	rows := make([][]string, len(r.Associations))
	for i, c := range r.Associations {
		rows[i] = []string{c.Row, c.Col, fmt.Sprint(c.Count), fmt.Sprintf("%.1f", c.Expected)}
	}
	if len(rows) > 0 {
		fmt.Fprintln(w, Table([]string{string(a.Crosstab.RowField), string(a.Crosstab.ColField), "observed", "expected"}, rows))
	}
}

// Drill prints a hazard group drill-down.
func Drill(w io.Writer, d stats.Drill) {
	fmt.Fprintln(w, styleTitle.Render(fmt.Sprintf("%s (%d notifications)", d.Group, d.Count)))
	if len(d.Categories) == 0 {
		fmt.Fprintln(w, styleMuted.Render("(no notifications in this hazard group)"))
		return
	}
	var rows [][]string
	for _, c := range d.Categories {
		var subs []string
		for _, s := range c.Substances {
			name := s.Key[0]
			if name == "" {
				name = "(blank)"
			}
			subs = append(subs, fmt.Sprintf("%s (%d)", name, s.Count))
		}
		rows = append(rows, []string{c.Category, fmt.Sprint(c.Count), strings.Join(subs, ", ")})
	}
	fmt.Fprintln(w, Table([]string{"hazard category", "count", "top substances"}, rows))
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func chartFileName(title, id string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if len(slug) > 48 {
		slug = strings.TrimRight(slug[:48], "-")
	}
	if slug == "" {
		slug = "chart"
	}
	short := id
	if len(short) > 8 {
		short = short[:8]
	}
	return slug + "-" + short + ".svg"
}
