package web

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// handleHealth is the liveness probe. It always reports healthy.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"status":  "healthy",
		"service": "sheetserve",
	})
}

// handleRead returns the selected sheet's rows as JSON records.
func (s *Server) handleRead(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FilePath  string          `json:"file_path"`
		SheetName json.RawMessage `json:"sheet_name"`
	}
	if err := s.decodeBody(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := requirePath(req.FilePath); err != nil {
		s.respondError(w, r, err)
		return
	}
	sheet, err := sheetSelector(req.SheetName)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	res, err := s.service.Read(r.Context(), req.FilePath, sheet)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, map[string]any{
		"status":     "success",
		"data":       res.Rows,
		"total_rows": res.TotalRows,
	})
}

// handleCreate builds a new workbook from the supplied records.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FilePath string          `json:"file_path"`
		Data     json.RawMessage `json:"data"`
	}
	if err := s.decodeBody(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := requirePath(req.FilePath); err != nil {
		s.respondError(w, r, err)
		return
	}
	recs, err := records("data", req.Data)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	res, err := s.service.Create(r.Context(), req.FilePath, recs)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, map[string]any{
		"status":       "success",
		"message":      fmt.Sprintf("Created file at %s", res.Path),
		"file_path":    res.Path,
		"total_rows":   res.TotalRows,
		"operation_id": res.OperationID,
	})
}

// handleAppend appends records after the last row.
func (s *Server) handleAppend(w http.ResponseWriter, r *http.Request) {
	s.appendRows(w, r, false)
}

// handleAppendToNextRow is the append variant that also reports the sheet
// row numbers the new records landed on.
func (s *Server) handleAppendToNextRow(w http.ResponseWriter, r *http.Request) {
	s.appendRows(w, r, true)
}

func (s *Server) appendRows(w http.ResponseWriter, r *http.Request, withRowNumbers bool) {
	var req struct {
		FilePath string          `json:"file_path"`
		NewData  json.RawMessage `json:"new_data"`
	}
	if err := s.decodeBody(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := requirePath(req.FilePath); err != nil {
		s.respondError(w, r, err)
		return
	}
	recs, err := records("new_data", req.NewData)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	res, err := s.service.Append(r.Context(), req.FilePath, recs)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	body := map[string]any{
		"status":       "success",
		"message":      fmt.Sprintf("Appended %s to %s", plural(res.Appended, "row"), res.Path),
		"file_path":    res.Path,
		"total_rows":   res.TotalRows,
		"operation_id": res.OperationID,
	}
	if withRowNumbers {
		body["new_row_numbers"] = res.NewRowNumbers
	}
	writeJSON(w, body)
}

// handleSmartUpdate applies the update-or-append policy keyed on the
// optional match_column.
func (s *Server) handleSmartUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FilePath    string          `json:"file_path"`
		NewData     json.RawMessage `json:"new_data"`
		MatchColumn string          `json:"match_column"`
	}
	if err := s.decodeBody(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := requirePath(req.FilePath); err != nil {
		s.respondError(w, r, err)
		return
	}
	recs, err := records("new_data", req.NewData)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	res, err := s.service.SmartUpdate(r.Context(), req.FilePath, recs, req.MatchColumn)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, map[string]any{
		"status":       "success",
		"message":      fmt.Sprintf("Updated %d rows, added %d new rows", res.Updated, res.Appended),
		"updated_rows": res.Updated,
		"added_rows":   res.Appended,
		"total_rows":   res.TotalRows,
		"file_path":    res.Path,
		"operation_id": res.OperationID,
	})
}

// handleUpdate applies conditional update tuples in order.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FilePath string          `json:"file_path"`
		Updates  json.RawMessage `json:"updates"`
	}
	if err := s.decodeBody(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := requirePath(req.FilePath); err != nil {
		s.respondError(w, r, err)
		return
	}
	specs, err := updateSpecs(req.Updates)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	res, err := s.service.Update(r.Context(), req.FilePath, specs)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, map[string]any{
		"status":       "success",
		"message":      fmt.Sprintf("Updated %s in %s", plural(res.Updated, "row"), res.Path),
		"updated_rows": res.Updated,
		"total_rows":   res.TotalRows,
		"file_path":    res.Path,
		"operation_id": res.OperationID,
	})
}

// handleAuditLog returns recent operations, newest first. The limit query
// parameter caps the count.
func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", 0)

	writeJSON(w, map[string]any{
		"status":     "success",
		"operations": s.service.Audit().Recent(limit),
	})
}
