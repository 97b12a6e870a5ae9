// Package dataset loads and writes notification tables.
package dataset

import (
	"strings"
)

// Table is an in-memory tabular file: header order is preserved and every row
// has exactly len(Header) cells.
type Table struct {
	Name     string
	Header   []string
	Rows     [][]string
	Warnings []string
}

// NewTable builds a table, padding or trimming rows to the header width.
func NewTable(name string, header []string, rows [][]string) *Table {
	t := &Table{Name: name, Header: append([]string(nil), header...)}
	for _, r := range rows {
		t.AppendRow(r)
	}
	return t
}

// AppendRow adds a row, padding or trimming it to the header width.
func (t *Table) AppendRow(row []string) {
	n := len(t.Header)
	cp := make([]string, n)
	copy(cp, row)
	t.Rows = append(t.Rows, cp)
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Col returns the index of a column by case-insensitive name, or -1.
func (t *Table) Col(name string) int {
	want := strings.TrimSpace(name)
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), want) {
			return i
		}
	}
	return -1
}

// Column returns a copy of the values of one column, or nil if absent.
func (t *Table) Column(name string) []string {
	idx := t.Col(name)
	if idx < 0 {
		return nil
	}
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[idx]
	}
	return out
}

// SetColumn overwrites the named column or appends it when missing.
// values must have one entry per row.
func (t *Table) SetColumn(name string, values []string) {
	idx := t.Col(name)
	if idx < 0 {
		t.Header = append(t.Header, name)
		idx = len(t.Header) - 1
		for i := range t.Rows {
			t.Rows[i] = append(t.Rows[i], "")
		}
	}
	for i := range t.Rows {
		if i < len(values) {
			t.Rows[i][idx] = values[i]
		}
	}
}

// RenameColumns renames columns using the given map (matched
// case-insensitively on trimmed names). Unmapped columns keep their name.
func (t *Table) RenameColumns(mapping map[string]string) {
	lower := make(map[string]string, len(mapping))
	for k, v := range mapping {
		lower[strings.ToLower(strings.TrimSpace(k))] = v
	}
	for i, h := range t.Header {
		if v, ok := lower[strings.ToLower(strings.TrimSpace(h))]; ok {
			t.Header[i] = v
		}
	}
}

// NormalizeColumns rewrites every header as trimmed, lowercase, with spaces
// replaced by underscores.
func (t *Table) NormalizeColumns() {
	for i, h := range t.Header {
		t.Header[i] = NormalizeColumnName(h)
	}
}

// NormalizeColumnName applies the interactive naming convention.
func NormalizeColumnName(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "_"))
}

// Append concatenates other below t. Columns are aligned by name; columns
// only present in other are added to t.
func (t *Table) Append(other *Table) {
	if other == nil {
		return
	}
	if len(t.Header) == 0 && len(t.Rows) == 0 {
		t.Header = append([]string(nil), other.Header...)
	}
	idx := make([]int, len(other.Header))
	for j, h := range other.Header {
		k := t.Col(h)
		if k < 0 {
			t.SetColumn(h, nil)
			k = len(t.Header) - 1
		}
		idx[j] = k
	}
	for _, r := range other.Rows {
		row := make([]string, len(t.Header))
		for j, v := range r {
			if j < len(idx) {
				row[idx[j]] = v
			}
		}
		t.Rows = append(t.Rows, row)
	}
	t.Warnings = append(t.Warnings, other.Warnings...)
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := &Table{
		Name:     t.Name,
		Header:   append([]string(nil), t.Header...),
		Warnings: append([]string(nil), t.Warnings...),
		Rows:     make([][]string, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = append([]string(nil), r...)
	}
	return out
}
