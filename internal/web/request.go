package web

// request.go contains the JSON request shapes and the loose-input decoding
// the API tolerates: new_data may be one object or an array, and sheet_name
// may be a name or a numeric index.

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sheetserve/sheetserve/internal/codec"
	"github.com/sheetserve/sheetserve/internal/core"
	"github.com/sheetserve/sheetserve/internal/table"
)

// decodeBody reads a JSON request body into dst, capped at the configured
// maximum size.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Workbooks.MaxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &core.ValidationError{Field: "body", Msg: "is not valid JSON: " + err.Error()}
	}
	return nil
}

// records decodes a field that may hold a single record or an array of
// records. A missing or null field is a validation error, and so is an
// empty array: there is nothing to apply.
func records(field string, raw json.RawMessage) ([]table.Row, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, &core.ValidationError{Field: field}
	}

	var batch []table.Row
	if err := json.Unmarshal(raw, &batch); err == nil {
		if len(batch) == 0 {
			return nil, &core.ValidationError{Field: field, Msg: "must not be empty"}
		}
		return batch, nil
	}

	var single table.Row
	if err := json.Unmarshal(raw, &single); err == nil {
		return []table.Row{single}, nil
	}

	return nil, &core.ValidationError{Field: field, Msg: "must be an object or an array of objects"}
}

// sheetSelector decodes sheet_name, which may be a string name or a
// zero-based numeric index. Absent means the first sheet.
func sheetSelector(raw json.RawMessage) (codec.Sheet, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return codec.Sheet{}, nil
	}

	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return codec.Sheet{Name: name}, nil
	}

	var index int
	if err := json.Unmarshal(raw, &index); err == nil {
		if index < 0 {
			return codec.Sheet{}, &core.ValidationError{Field: "sheet_name", Msg: "index must not be negative"}
		}
		return codec.Sheet{Index: index}, nil
	}

	return codec.Sheet{}, &core.ValidationError{Field: "sheet_name", Msg: "must be a sheet name or index"}
}

// updateSpecs decodes the updates field of the plain update operation.
func updateSpecs(raw json.RawMessage) ([]table.UpdateSpec, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, &core.ValidationError{Field: "updates"}
	}

	var specs []table.UpdateSpec
	if err := json.Unmarshal(raw, &specs); err != nil {
		return nil, &core.ValidationError{Field: "updates", Msg: "must be an array of update tuples"}
	}
	if len(specs) == 0 {
		return nil, &core.ValidationError{Field: "updates", Msg: "must not be empty"}
	}
	for _, spec := range specs {
		if spec.ConditionColumn == "" {
			return nil, &core.ValidationError{Field: "updates", Msg: "tuples require a condition_column"}
		}
	}
	return specs, nil
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// requirePath validates the file_path field.
func requirePath(p string) error {
	if p == "" {
		return &core.ValidationError{Field: "file_path"}
	}
	return nil
}

// plural renders "1 row" / "n rows".
func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
