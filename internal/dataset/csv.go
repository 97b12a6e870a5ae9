package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/rasff-lens/internal/utils"
)

type csvReader struct{}

func (csvReader) CanRead(name string, head []byte) bool { return true }

func (csvReader) Read(name string, data []byte, opt Options) (*Table, error) {
	if looksLikeMarkup(data[:min(len(data), 512)]) {
		return nil, fmt.Errorf("%w: markup content", ErrUnsupported)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(data)
	}
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return &Table{Name: name}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	t := NewTable(name, header, nil)
	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		t.AppendRow(rec)
	}
	return t, nil
}

// sniffDelimiter picks the most frequent candidate on the first line.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	best, bestN := ',', 0
	for _, c := range []rune{',', ';', '\t'} {
		if n := bytes.Count(line, []byte(string(c))); n > bestN {
			best, bestN = c, n
		}
	}
	return best
}

// EncodeCSV renders the table as comma-separated CSV.
func EncodeCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

// WriteCSV writes the table to path atomically.
func WriteCSV(path string, t *Table) error {
	var buf bytes.Buffer
	if err := EncodeCSV(&buf, t); err != nil {
		return err
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}
