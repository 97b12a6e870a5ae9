package normalize

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/KaramelBytes/rasff-lens/internal/dataset"
	"github.com/KaramelBytes/rasff-lens/internal/taxonomy"
)

func TestEnrichTable_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	body := strings.Join([]string{
		"Reference,Product Category,Hazard Category,Notes",
		"2024.0001,Fresh Fruits and Vegetables Mix,pesticide residues,a",
		"2024.0002,wine,,b",
		"2024.0003,,mycotoxins,c",
	}, "\n")
	src, err := dataset.ReadBytes("in.csv", []byte(body), dataset.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err := dataset.WriteCSV(in, src); err != nil {
		t.Fatal(err)
	}
	orig, err := dataset.ReadFile(in, dataset.Options{})
	if err != nil {
		t.Fatal(err)
	}

	enriched := orig.Clone()
	EnrichTable(enriched, taxonomy.Default())
	out := filepath.Join(dir, "out.csv")
	if err := dataset.WriteCSV(out, enriched); err != nil {
		t.Fatal(err)
	}
	back, err := dataset.ReadFile(out, dataset.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if back.Len() != orig.Len() {
		t.Fatalf("rows = %d, want %d", back.Len(), orig.Len())
	}
	if len(back.Header) != len(orig.Header)+4 {
		t.Fatalf("header = %q", back.Header)
	}
	if !reflect.DeepEqual(back.Header[:len(orig.Header)], orig.Header) {
		t.Fatalf("original columns changed: %q", back.Header)
	}
	for i := range orig.Rows {
		if !reflect.DeepEqual(back.Rows[i][:len(orig.Header)], orig.Rows[i]) {
			t.Fatalf("row %d changed: %q", i, back.Rows[i])
		}
	}
	want := [][]string{
		{"Fruits and Vegetables", "Fruits and Vegetables", "Pesticide Residues", "Pesticide Hazard"},
		{"Wine", "Beverages", "Unknown", "Unknown"},
		{"Unknown", "Unknown", "Mycotoxins", "Biological Hazard"},
	}
	for i, w := range want {
		if got := back.Rows[i][len(orig.Header):]; !reflect.DeepEqual(got, w) {
			t.Fatalf("row %d derived = %q, want %q", i, got, w)
		}
	}
}

func TestEnrichTable_OverwritesExistingDerivedColumns(t *testing.T) {
	tbl := dataset.NewTable("x", []string{"Product Category", "Hazard Category", "PRODCAT"}, [][]string{
		{"wine", "allergens", "stale"},
	})
	EnrichTable(tbl, taxonomy.Default())
	if len(tbl.Header) != 6 {
		t.Fatalf("header = %q", tbl.Header)
	}
	if tbl.Rows[0][2] != "Wine" {
		t.Fatalf("PRODCAT = %q", tbl.Rows[0][2])
	}
}

func TestRecords(t *testing.T) {
	tbl := dataset.NewTable("weekly", []string{"date", "notifying_country", "origin", "category", "hazards", "hazard_category"}, [][]string{
		{"2024-03-05", "France", "Turkey", "nuts, nut products and seeds", "mycotoxin contamination", ""},
		{"yesterday", "Italy", "Spain", "wine", "salmonela", "pathogenic micro-organisms"},
		{"", "Germany", "", "nan", "", ""},
	})
	recs, st := Records(tbl, taxonomy.Default(), DefaultOptions())
	if len(recs) != 3 || st.Rows != 3 {
		t.Fatalf("records = %d", len(recs))
	}
	r := recs[0]
	if !r.HasDate || r.Date.Format("2006-01-02") != "2024-03-05" {
		t.Fatalf("date = %v", r.Date)
	}
	if r.HazardSubstance != "mycotoxins" || r.HazCat != "Mycotoxins" || r.GroupHaz != "Biological Hazard" {
		t.Fatalf("hazard = %+v", r)
	}
	if r.ProdCat != "Nuts and Seeds" || r.OriginCountry != "Turkey" {
		t.Fatalf("product = %+v", r)
	}
	if recs[1].HasDate || recs[1].DateRaw != "yesterday" {
		t.Fatalf("unparsed date should be kept raw: %+v", recs[1])
	}
	if recs[1].HazardSubstance != "salmonella" || recs[1].HazCat != "Pathogenic Micro-organisms" {
		t.Fatalf("hazard = %+v", recs[1])
	}
	if recs[2].ProdCat != taxonomy.Unknown || recs[2].HazCat != taxonomy.Unknown {
		t.Fatalf("absent values should map to Unknown: %+v", recs[2])
	}
	if st.DateFailures != 1 || len(st.Warnings) != 1 || st.CorrectedHazards != 2 || st.ResolvedHazards != 1 {
		t.Fatalf("stats = %+v", st)
	}
	if st.UnknownProducts != 1 || st.UnknownHazards != 1 {
		t.Fatalf("unknown counts = %+v", st)
	}
}
