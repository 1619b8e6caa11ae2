// Package codec translates between on-disk spreadsheet formats and the
// in-memory table model. The modern XML-zip format (.xlsx) is read and
// written through excelize; the legacy binary format (.xls) is read through
// xlsReader and is never written back: persisting a table loaded from a
// legacy file transparently redirects to the .xlsx sibling path, which is
// surfaced to the caller.
//
// Both decoders surface cells as text; table.NormalizeCell turns that text
// into one consistent scalar type system regardless of source format.
package codec

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sheetserve/sheetserve/internal/table"
)

// Sheet selects a worksheet by name, or by zero-based index when Name is
// empty. The zero value selects the first sheet.
type Sheet struct {
	Name  string
	Index int
}

func (s Sheet) String() string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("#%d", s.Index)
}

// UnsupportedFormatError reports a file extension no codec handles.
type UnsupportedFormatError struct {
	Path string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file extension: %s", filepath.Ext(e.Path))
}

// DecodeError wraps a failure reading or parsing a spreadsheet file.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError wraps a failure serializing or writing a spreadsheet file.
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// Load reads the selected sheet of the file at path into a table. The
// format is auto-detected by extension. The first row is the header and
// fixes the table's column set; blank header cells are skipped.
func Load(path string, sheet Sheet) (*table.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return loadXLSX(path, sheet)
	case ".xls":
		return loadXLS(path, sheet)
	default:
		return nil, &UnsupportedFormatError{Path: path}
	}
}

// Store writes the table to path and returns the path actually written.
// A legacy .xls target is redirected to its .xlsx sibling; everything else
// must already carry a writable extension.
func Store(path string, t *table.Table) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return path, storeXLSX(path, t)
	case ".xls":
		redirect := WritablePath(path)
		return redirect, storeXLSX(redirect, t)
	default:
		return "", &UnsupportedFormatError{Path: path}
	}
}

// WritablePath maps a target path to the path Store would actually write:
// legacy .xls becomes the .xlsx sibling, anything else is returned as-is.
func WritablePath(path string) string {
	if ext := filepath.Ext(path); strings.EqualFold(ext, ".xls") {
		return strings.TrimSuffix(path, ext) + ".xlsx"
	}
	return path
}

func headerRow(t *table.Table) []any {
	h := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		h[i] = c
	}
	return h
}
