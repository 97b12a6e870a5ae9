package dataset

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/extrame/xls"
)

// xlsReader decodes legacy BIFF workbooks, the format of the weekly RASFF
// exports.
type xlsReader struct{}

func (xlsReader) CanRead(name string, head []byte) bool {
	return bytes.HasPrefix(head, ole2Magic)
}

func (xlsReader) Read(name string, data []byte, opt Options) (t *Table, err error) {
	// the BIFF decoder panics on some truncated streams
	defer func() {
		if r := recover(); r != nil {
			t, err = nil, fmt.Errorf("decode xls %s: %v", name, r)
		}
	}()
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	if wb == nil {
		return nil, fmt.Errorf("open xls %s: no Workbook stream", name)
	}
	sheet, err := pickXLSSheet(wb, opt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := xlsRow(sheet, i)
		if row == nil {
			continue
		}
		cells := make([]string, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			cells[j] = strings.TrimSpace(row.Col(j))
		}
		if len(rows) > 0 && isBlankRow(cells) {
			continue
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return &Table{Name: name}, nil
	}
	return NewTable(name, rows[0], rows[1:]), nil
}

// xlsRow returns nil for rows the sheet never defined; WorkSheet.Row
// dereferences them unchecked.
func xlsRow(s *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return s.Row(i)
}

func pickXLSSheet(wb *xls.WorkBook, opt Options) (*xls.WorkSheet, error) {
	n := wb.NumSheets()
	if n == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	if opt.SheetName != "" {
		var names []string
		for i := 0; i < n; i++ {
			s := wb.GetSheet(i)
			if s == nil {
				continue
			}
			if strings.EqualFold(s.Name, opt.SheetName) {
				return s, nil
			}
			names = append(names, s.Name)
		}
		return nil, fmt.Errorf("sheet %q not found (available: %s)", opt.SheetName, strings.Join(names, ", "))
	}
	idx := opt.SheetIndex
	if idx <= 0 {
		idx = 1
	}
	if idx > n {
		return nil, fmt.Errorf("sheet index %d out of range (workbook has %d)", idx, n)
	}
	s := wb.GetSheet(idx - 1)
	if s == nil {
		return nil, fmt.Errorf("sheet %d unreadable", idx)
	}
	return s, nil
}
