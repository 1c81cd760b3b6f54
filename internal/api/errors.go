package api

import (
	"encoding/json"
	"net/http"

	"github.com/nerrad567/sqlweb/internal/sqladmin"
)

// Envelope wraps every response body.
//
// Exactly one of Data and Error is set: Data on success, Error on failure.
type Envelope struct {
	Success bool    `json:"success"`
	Data    any     `json:"data"`
	Error   *string `json:"error"`
}

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeData writes a successful envelope.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Envelope{Success: true, Data: data})
}

// writeError writes a failed envelope with message as the error text.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Envelope{Success: false, Error: &message})
}

// writeBadRequest writes a 400 envelope.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, message)
}

// writeInternalError writes a 500 envelope.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, message)
}

// writeStoreError maps a data-layer error onto the envelope.
//
// Validation failures and missing tables are the caller's fault and are
// returned as 400 with their message verbatim. Anything else came from the
// engine (syntax errors, constraint violations, I/O) and is a 500 carrying
// the engine's text.
func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if sqladmin.IsClientError(err) {
		writeBadRequest(w, err.Error())
		return
	}

	s.logger.Warn("database operation failed",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", requestIDFrom(r.Context()),
		"error", err,
	)
	writeInternalError(w, err.Error())
}

// handleNotFound answers unknown routes with an envelope.
func handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "Not found.")
}

// handleMethodNotAllowed answers known routes called with the wrong method.
func handleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed.")
}
