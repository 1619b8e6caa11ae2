package table

// normalize.go defines the scalar normalization rules shared by the codec
// and the merge engine. Legacy .xls and modern .xlsx cells can decode to
// different native types for the same logical value, and JSON numbers
// always arrive as float64, so every value entering a table passes through
// Normalize first. Match-column comparisons then operate on one consistent
// type system.
//
// Canonical scalar types and coercion rules:
//
//	nil      — empty cell / JSON null / empty string from a decoder
//	bool     — JSON bool; cell text "TRUE"/"FALSE" (case-insensitive)
//	int64    — JSON/cell numbers with no fractional part
//	float64  — numbers with a fractional part
//	string   — everything else, as read
//
// Equality is strict on the normalized type: int64(3) matches a JSON 3
// (normalized from float64) but never the string "3".

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Normalize coerces v to its canonical scalar type.
func Normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case bool:
		return x
	case string:
		return x
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case float32:
		return normalizeFloat(float64(x))
	case float64:
		return normalizeFloat(x)
	default:
		return v
	}
}

func normalizeFloat(f float64) any {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1e15 {
		return int64(f)
	}
	return f
}

// NormalizeCell coerces raw cell text from a decoder to its canonical
// scalar type. Both spreadsheet decoders surface cells as text, so this is
// the single place where cross-format typing is decided.
func NormalizeCell(s string) any {
	if s == "" {
		return nil
	}
	switch strings.ToUpper(s) {
	case "TRUE":
		return true
	case "FALSE":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return normalizeFloat(f)
	}
	return s
}

// Equal reports whether two already-normalized values are the same.
// Comparison is by value within the same canonical type; there is no
// cross-type coercion here.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a == b
}

// keysInOrder returns a record's keys deterministically. Go maps carry no
// insertion order, so keys within a single record are taken alphabetically;
// first-seen order across records is preserved by the callers.
func keysInOrder(r Row) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
