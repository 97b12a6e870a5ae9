package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Options control how a file is decoded.
type Options struct {
	// Delimiter for CSV input; 0 sniffs among ',', ';' and tab.
	Delimiter rune
	// SheetName selects a workbook sheet by name.
	SheetName string
	// SheetIndex selects a workbook sheet by 1-based index when SheetName is empty.
	SheetIndex int
}

// Reader decodes one tabular format.
type Reader interface {
	CanRead(name string, head []byte) bool
	Read(name string, data []byte, opt Options) (*Table, error)
}

var registry []Reader

// Register adds a reader. Readers are tried in registration order.
func Register(r Reader) {
	registry = append(registry, r)
}

// ErrUnsupported indicates content no registered reader can decode.
var ErrUnsupported = errors.New("unsupported tabular format")

var (
	zipMagic  = []byte("PK\x03\x04")
	ole2Magic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// ReadFile loads a table from disk.
func ReadFile(path string, opt Options) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	t, err := ReadBytes(filepath.Base(path), data, opt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ReadBytes decodes an in-memory payload; name is used for extension hints and
// error messages.
func ReadBytes(name string, data []byte, opt Options) (*Table, error) {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	for _, r := range registry {
		if r.CanRead(name, head) {
			t, err := r.Read(name, data, opt)
			if err != nil {
				return nil, err
			}
			t.Name = name
			return t, nil
		}
	}
	return nil, ErrUnsupported
}

func hasExt(name string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

func looksLikeMarkup(head []byte) bool {
	h := bytes.TrimSpace(bytes.TrimPrefix(head, []byte("\xef\xbb\xbf")))
	return bytes.HasPrefix(h, []byte("<"))
}

func init() {
	Register(xlsxReader{})
	Register(xlsReader{})
	Register(csvReader{})
}
