package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/KaramelBytes/rasff-lens/internal/dataset"
	"github.com/KaramelBytes/rasff-lens/internal/query"
)

const sampleCSV = `Date of Case,Notification From,Country of Origin,Product Category,Hazard Category,Hazard Substance
05-03-2024,France,Turkey,"nuts, nut products and seeds",mycotoxins,aflatoxins
06-03-2024,France,Turkey,"nuts, nut products and seeds",mycotoxins,aflatoxins
07-03-2024,Germany,India,fruits and vegetables,pesticide residues,chlorpyrifos
08-03-2024,Italy,Spain,wine,,sulphite
`

// resetFlags restores every flag to its default so package-level flag
// variables do not leak between invocations.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd executes the root command with args and returns its output.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	cfg = nil
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCmd(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v\n%s", args, err, out)
	}
	return out
}

// isolate points HOME at a temp dir, clears credentials and writes the
// sample notifications.
func isolate(t *testing.T) (string, string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("RASFF_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")
	in := filepath.Join(home, "rasff.csv")
	if err := os.WriteFile(in, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	return home, in
}

func TestCLI_EnrichWritesDerivedColumns(t *testing.T) {
	home, in := isolate(t)
	db := filepath.Join(home, "out.db")
	out := mustRun(t, "enrich", in, "--sqlite", db)
	if !strings.Contains(out, "Wrote 4 rows") {
		t.Fatalf("unexpected output: %s", out)
	}
	if !strings.Contains(out, "unmapped hazard categories: 1") {
		t.Fatalf("unmapped counts missing: %s", out)
	}
	if _, err := os.Stat(db); err != nil {
		t.Fatalf("sqlite export missing: %v", err)
	}

	tbl, err := dataset.ReadFile(filepath.Join(home, "rasff_enriched.csv"), dataset.Options{})
	if err != nil {
		t.Fatalf("read enriched: %v", err)
	}
	if tbl.Len() != 4 || len(tbl.Header) != 10 {
		t.Fatalf("enriched shape = %d rows, header %q", tbl.Len(), tbl.Header)
	}
	hazcat := tbl.Column(dataset.ColHazCat)
	grouphaz := tbl.Column(dataset.ColGroupHaz)
	if hazcat[0] != "Mycotoxins" || grouphaz[2] != "Pesticide Hazard" || hazcat[3] != "Unknown" {
		t.Fatalf("HAZCAT = %q GROUPHAZ = %q", hazcat, grouphaz)
	}
	if got := tbl.Column(dataset.ColGroupProd)[3]; got != "Beverages" {
		t.Fatalf("GROUPPROD = %q", got)
	}
}

func TestCLI_EnrichNeedsOutputForSeveralInputs(t *testing.T) {
	home, in := isolate(t)
	second := filepath.Join(home, "second.csv")
	if err := os.WriteFile(second, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := runCmd(t, "enrich", in, second); err == nil {
		t.Fatalf("expected an error without --output")
	}
	merged := filepath.Join(home, "merged.xlsx")
	out := mustRun(t, "enrich", filepath.Join(home, "*.csv"), "-o", merged, "--format", "xlsx")
	if !strings.Contains(out, "Wrote 8 rows") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestCLI_SummaryMarkdownAndFilters(t *testing.T) {
	_, in := isolate(t)
	md := mustRun(t, "summary", in, "--format", "markdown")
	for _, want := range []string{"[DATASET SUMMARY]", "Notifications: 4", "- Mycotoxins: 2", "- France: 2"} {
		if !strings.Contains(md, want) {
			t.Fatalf("summary missing %q:\n%s", want, md)
		}
	}

	js := mustRun(t, "summary", in, "--format", "json", "--hazard-group", "pesticide hazard")
	var rep struct {
		Key struct {
			Total int `json:"total_notifications"`
		} `json:"key_stats"`
	}
	if err := json.Unmarshal([]byte(js), &rep); err != nil {
		t.Fatalf("summary json: %v\n%s", err, js)
	}
	if rep.Key.Total != 1 {
		t.Fatalf("filtered total = %d", rep.Key.Total)
	}

	md = mustRun(t, "summary", in, "--format", "markdown", "--from", "2024-03-06", "--to", "2024-03-07")
	if !strings.Contains(md, "Notifications: 2") {
		t.Fatalf("date filter not applied:\n%s", md)
	}
	if _, err := runCmd(t, "summary", in, "--from", "someday"); err == nil {
		t.Fatalf("expected invalid date error")
	}
}

func TestCLI_AnalyzeAndDrill(t *testing.T) {
	_, in := isolate(t)
	js := mustRun(t, "analyze", in, "--json")
	var analyses []map[string]any
	if err := json.Unmarshal([]byte(js), &analyses); err != nil {
		t.Fatalf("analyze json: %v\n%s", err, js)
	}
	if len(analyses) != 2 {
		t.Fatalf("analyses = %d", len(analyses))
	}
	if _, err := runCmd(t, "analyze", in, "--row", "origin_country"); err == nil {
		t.Fatalf("expected --row without --col to fail")
	}

	dir := filepath.Join(t.TempDir(), "charts")
	out := mustRun(t, "analyze", in, "--heatmap-dir", dir)
	for name, label := range map[string]string{
		"heatmap-prodcat-hazcat.svg":             "Mycotoxins",
		"heatmap-notifying_country-grouphaz.svg": "France",
	} {
		svg, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("heatmap %s: %v\n%s", name, err, out)
		}
		if !strings.HasPrefix(string(svg), "<svg") || !strings.Contains(string(svg), label) {
			t.Fatalf("heatmap %s:\n%s", name, svg)
		}
	}
	if !strings.Contains(out, "heatmap saved: ") {
		t.Fatalf("analyze output:\n%s", out)
	}

	out = mustRun(t, "drill", in, "--group", "Biological Hazard")
	if !strings.Contains(out, "Mycotoxins") || !strings.Contains(out, "aflatoxins (2)") {
		t.Fatalf("drill output:\n%s", out)
	}
}

func TestCLI_TaxonomyMapAndExport(t *testing.T) {
	home, _ := isolate(t)
	out := mustRun(t, "taxonomy", "map", "wine")
	if !strings.Contains(out, "product:   Wine (Beverages)") {
		t.Fatalf("map output:\n%s", out)
	}
	out = mustRun(t, "taxonomy", "map", "pesticide residues")
	if !strings.Contains(out, "hazard:    Pesticide Residues (Pesticide Hazard)") {
		t.Fatalf("map output:\n%s", out)
	}

	path := filepath.Join(home, "tax.yaml")
	mustRun(t, "taxonomy", "export", "-o", path)
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(b), "hazard_vocabulary:") || !strings.Contains(string(b), "key: wine") {
		t.Fatalf("export content:\n%s", b)
	}
	mustRun(t, "--taxonomy", path, "taxonomy", "show", "--kind", "hazard")
}

func TestCLI_AskWithoutKeyIsConfigError(t *testing.T) {
	_, in := isolate(t)
	_, err := runCmd(t, "ask", in, "-q", "How many notifications?")
	if err == nil || !query.IsConfigError(err) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	isolate(t)
	mustRun(t, "config", "set", "model", "openai/gpt-4o")
	mustRun(t, "config", "set", "api_key", "sk-test-123456")
	if _, err := runCmd(t, "config", "set", "language", "de"); err == nil {
		t.Fatalf("expected invalid language error")
	}
	out := mustRun(t, "config", "show")
	if !strings.Contains(out, "model: openai/gpt-4o") || !strings.Contains(out, "api_key: sk-****456") {
		t.Fatalf("config show:\n%s", out)
	}
}

func TestReadTablesSkipsFailedInput(t *testing.T) {
	home, in := isolate(t)
	missing := filepath.Join(home, "missing.csv")

	tbl, name, err := readTables(context.Background(), []string{in, missing}, false, dataset.Options{})
	if err != nil {
		t.Fatalf("readTables: %v", err)
	}
	if tbl.Len() != 4 || name != in {
		t.Fatalf("loaded %d rows from %q", tbl.Len(), name)
	}
	if len(tbl.Warnings) != 1 || !strings.Contains(tbl.Warnings[0], "missing.csv") {
		t.Fatalf("warnings = %q", tbl.Warnings)
	}

	tbl, _, err = readTables(context.Background(), []string{missing}, false, dataset.Options{})
	if err != nil {
		t.Fatalf("readTables with nothing loaded: %v", err)
	}
	if tbl.Len() != 0 || len(tbl.Warnings) != 1 {
		t.Fatalf("empty load = %d rows, warnings %q", tbl.Len(), tbl.Warnings)
	}
}

func TestCLI_SummaryContinuesPastBadInput(t *testing.T) {
	home, in := isolate(t)
	md := mustRun(t, "summary", in, filepath.Join(home, "missing.csv"), "--format", "markdown")
	if !strings.Contains(md, "Notifications: 4") || !strings.Contains(md, "[WARNINGS]") || !strings.Contains(md, "missing.csv") {
		t.Fatalf("summary:\n%s", md)
	}
	md = mustRun(t, "summary", filepath.Join(home, "missing.csv"), "--format", "markdown")
	if !strings.Contains(md, "Notifications: 0") {
		t.Fatalf("empty summary:\n%s", md)
	}
	if _, err := runCmd(t, "enrich", filepath.Join(home, "missing.csv")); err == nil {
		t.Fatalf("enrich with nothing loaded should fail")
	}
}
