package web

// errors.go provides unified error response handling for the web layer.
// Every failure is logged with full technical detail server-side and
// returned to the client as a coded, user-friendly JSON message. The status
// code comes from the error's type: 400 for request validation, 404 for a
// missing file, 500 for everything else.

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sheetserve/sheetserve/internal/core"
	"github.com/sheetserve/sheetserve/internal/logging"
)

// ErrorResponse is the JSON structure for error responses.
type ErrorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Action string `json:"action,omitempty"`
}

// respondError logs the technical error and writes the mapped user message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := core.StatusCode(err)
	msg := core.MapError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:  msg.Message,
		Code:   msg.Code,
		Action: msg.Action,
	})
}

// writeJSON encodes v as JSON and writes it to w.
// Encoding errors are logged since headers are already sent.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
