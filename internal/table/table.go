// Package table implements the in-memory table model and the merge engine
// that decides, for each incoming record, whether it updates existing rows
// or appends a new one.
//
// A Table is an ordered sequence of rows sharing a fixed, ordered column
// set. Values are untyped but normalized to one of: nil, bool, int64,
// float64, string (see normalize.go). The engine is pure: it performs no
// I/O, holds no state between calls, and never logs.
package table

// Row maps column names to values. A row's key set is always a subset of
// its table's column set; columns missing from a row persist as empty cells.
type Row map[string]any

// Table is an ordered sequence of rows over a fixed, ordered column set.
// The column set is established by the first row read from a file, or by
// the union of record keys when a table is created from scratch.
type Table struct {
	Columns []string
	Rows    []Row
}

// New returns an empty table with the given column order.
func New(columns []string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// HasColumn reports whether name is part of the table's column set.
// Column names are case-sensitive.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// Clone returns a deep copy of the table. The engine mutates tables in
// place, so callers that need the pre-merge state must clone first.
func (t *Table) Clone() *Table {
	c := New(t.Columns)
	c.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		nr := make(Row, len(r))
		for k, v := range r {
			nr[k] = v
		}
		c.Rows[i] = nr
	}
	return c
}

// Records returns the rows as plain maps with every table column present,
// absent values rendered as nil. This is the JSON shape handed back to
// clients.
func (t *Table) Records() []map[string]any {
	out := make([]map[string]any, len(t.Rows))
	for i, r := range t.Rows {
		rec := make(map[string]any, len(t.Columns))
		for _, c := range t.Columns {
			if v, ok := r[c]; ok {
				rec[c] = v
			} else {
				rec[c] = nil
			}
		}
		out[i] = rec
	}
	return out
}

// FromRecords builds a new table from a non-empty record batch. The column
// set is the union of all record keys in first-seen order; heterogeneous
// records are allowed, absent keys render as empty cells.
func FromRecords(records []Row) (*Table, error) {
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	var columns []string
	seen := make(map[string]bool)
	for _, rec := range records {
		for _, k := range keysInOrder(rec) {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}

	t := New(columns)
	t.Rows = make([]Row, len(records))
	for i, rec := range records {
		row := make(Row, len(rec))
		for k, v := range rec {
			row[k] = Normalize(v)
		}
		t.Rows[i] = row
	}
	return t, nil
}
