package table

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when an operation receives zero records or
// zero update tuples.
var ErrEmptyInput = errors.New("no records provided")

// SchemaMismatchError reports a record key that is not part of the table's
// column set. Append never widens an existing table's schema.
type SchemaMismatchError struct {
	Column string // offending record key
	Record int    // record index in the batch (0-based)
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch: record %d has column %q not present in table", e.Record, e.Column)
}

// UnknownColumnError reports a condition column that does not exist in the
// table. The table is left untouched when this is returned.
type UnknownColumnError struct {
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column: %q is not in the table's column set", e.Column)
}
