package dataset

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func sampleTable() *Table {
	return NewTable("sample", []string{"Date of Case", "Notification From", "Product Category", "Hazard Category"}, [][]string{
		{"05-03-2024", "France", "fruits and vegetables", "pesticide residues"},
		{"06-03-2024", "Italy", "nuts, nut products and seeds", "mycotoxins"},
		{"not a date", "Spain", "wine", ""},
	})
}

func TestReadCSV_SniffsDelimiterAndBOM(t *testing.T) {
	data := []byte("\xef\xbb\xbfProduct Category;Hazard Category\nwine;allergens\n\nfish;mercury;extra\n")
	tbl, err := ReadBytes("in.csv", data, Options{})
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if len(tbl.Header) != 2 || tbl.Header[0] != "Product Category" {
		t.Fatalf("header = %q", tbl.Header)
	}
	if tbl.Len() != 2 {
		t.Fatalf("rows = %d, want 2", tbl.Len())
	}
	if got := tbl.Rows[1]; len(got) != 2 || got[1] != "mercury" {
		t.Fatalf("row not trimmed to header width: %q", got)
	}
}

func TestReadBytes_RejectsMarkup(t *testing.T) {
	_, err := ReadBytes("rasff-2024-01.xls", []byte("<html><body>not found</body></html>"), Options{})
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestXLSXRoundTrip(t *testing.T) {
	src := sampleTable()
	src.Rows[0][2] = `fruits & "vegetables" <fresh>`
	var buf bytes.Buffer
	if err := EncodeXLSX(&buf, src, "Week 10"); err != nil {
		t.Fatalf("EncodeXLSX: %v", err)
	}
	got, err := ReadBytes("download", buf.Bytes(), Options{})
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if len(got.Header) != 4 || got.Header[1] != "Notification From" {
		t.Fatalf("header = %q", got.Header)
	}
	if got.Len() != src.Len() {
		t.Fatalf("rows = %d, want %d", got.Len(), src.Len())
	}
	if got.Rows[0][2] != src.Rows[0][2] {
		t.Fatalf("cell = %q, want %q", got.Rows[0][2], src.Rows[0][2])
	}
	if got.Rows[2][3] != "" {
		t.Fatalf("empty cell = %q", got.Rows[2][3])
	}

	byName, err := ReadBytes("download.xlsx", buf.Bytes(), Options{SheetName: "week 10"})
	if err != nil || byName.Len() != 3 {
		t.Fatalf("sheet by name: %v", err)
	}
	if _, err := ReadBytes("download.xlsx", buf.Bytes(), Options{SheetName: "Other"}); err == nil {
		t.Fatalf("expected missing sheet error")
	}
}

func TestReadXLS_WeeklyExport(t *testing.T) {
	path := filepath.Join("testdata", "weekly.xls")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	if !(xlsReader{}).CanRead("download", data[:8]) {
		t.Fatalf("compound file magic not recognised")
	}

	tbl, err := ReadFile(path, Options{})
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if tbl.Name != "weekly.xls" {
		t.Fatalf("name = %q", tbl.Name)
	}
	if len(tbl.Header) != 7 || tbl.Header[2] != "Notification From" {
		t.Fatalf("header = %q", tbl.Header)
	}
	// row 2 has no record in the sheet and is skipped
	if tbl.Len() != 2 {
		t.Fatalf("rows = %d, want 2", tbl.Len())
	}
	if got := tbl.Rows[0][3]; got != "Türkiye" {
		t.Fatalf("utf-16 label = %q", got)
	}
	if got := tbl.Rows[1][6]; got != "ethylene oxide" {
		t.Fatalf("last cell = %q", got)
	}

	tests := []struct {
		name string
		opt  Options
		want string
	}{
		{"by name", Options{SheetName: "notes"}, "Source"},
		{"by index", Options{SheetIndex: 2}, "Source"},
		{"name wins over index", Options{SheetName: "Notifications", SheetIndex: 2}, "Date of Case"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ReadBytes("weekly.xls", data, tc.opt)
			if err != nil {
				t.Fatalf("ReadBytes: %v", err)
			}
			if len(got.Header) == 0 || got.Header[0] != tc.want {
				t.Fatalf("header = %q, want %q first", got.Header, tc.want)
			}
		})
	}

	if _, err := ReadBytes("weekly.xls", data, Options{SheetName: "Week 11"}); err == nil || !strings.Contains(err.Error(), "Notifications, Notes") {
		t.Fatalf("missing sheet error = %v", err)
	}
	if _, err := ReadBytes("weekly.xls", data, Options{SheetIndex: 3}); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestReadXLS_TruncatedStream(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "weekly.xls"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	// 512-byte header, FAT sector, directory sector, then the Workbook stream
	for _, n := range []int{1024, 1536 + 20} {
		if _, err := ReadBytes("weekly.xls", data[:n], Options{}); err == nil {
			t.Fatalf("truncated at %d: expected error", n)
		}
	}
}

func TestNormalizeRelPath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"/xl/worksheets/sheet2.xml", "xl/worksheets/sheet2.xml"},
		{"xl/worksheets/sheet3.xml", "xl/worksheets/sheet3.xml"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeRelPath(tt.in); got != tt.want {
			t.Errorf("normalizeRelPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if colName(0) != "A" || colName(27) != "AB" || colIndexFromRef("AB7") != 27 {
		t.Fatalf("column letters mismatch")
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2024-03-05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), true},
		{"05-03-2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), true},
		{"05/03/2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), true},
		{"45356", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), true},
		{"week 10", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseDate(tt.in)
		if ok != tt.ok || !got.Equal(tt.want) {
			t.Errorf("ParseDate(%q) = %v,%v want %v,%v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTableAppendAlignsColumns(t *testing.T) {
	a := NewTable("a", []string{"reference", "product"}, [][]string{{"1", "tea"}})
	b := NewTable("b", []string{"Product", "hazard"}, [][]string{{"rice", "arsenic"}})
	a.Append(b)
	if len(a.Header) != 3 || a.Header[2] != "hazard" {
		t.Fatalf("header = %q", a.Header)
	}
	if a.Rows[0][2] != "" || a.Rows[1][1] != "rice" || a.Rows[1][2] != "arsenic" || a.Rows[1][0] != "" {
		t.Fatalf("rows = %q", a.Rows)
	}
}

func TestFieldIndexAndNormalize(t *testing.T) {
	tbl := sampleTable()
	if tbl.FieldIndex(FieldNotifyingCountry) != 1 {
		t.Fatalf("notification_from alias not resolved")
	}
	tbl.NormalizeColumns()
	if tbl.Header[0] != "date_of_case" || tbl.Header[2] != "product_category" {
		t.Fatalf("normalized header = %q", tbl.Header)
	}
	if f, err := ParseField("Country Origin"); err != nil || f != FieldOriginCountry {
		t.Fatalf("ParseField = %q, %v", f, err)
	}
	if _, err := ParseField("colour"); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestWriteCSVAndSQLite(t *testing.T) {
	dir := t.TempDir()
	tbl := sampleTable()
	csvPath := filepath.Join(dir, "out.csv")
	if err := WriteCSV(csvPath, tbl); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	back, err := ReadFile(csvPath, Options{})
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if back.Len() != 3 || len(back.Header) != 4 {
		t.Fatalf("round trip shape %dx%d", back.Len(), len(back.Header))
	}
	if _, err := os.Stat(csvPath + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}

	dbPath := filepath.Join(dir, "out.db")
	if err := WriteSQLite(context.Background(), dbPath, "", tbl); err != nil {
		t.Fatalf("WriteSQLite: %v", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM notifications WHERE "Notification From" = 'Italy'`).Scan(&n); err != nil {
		t.Fatalf("query: %v", err)
	}
	if n != 1 {
		t.Fatalf("count = %d", n)
	}
}
