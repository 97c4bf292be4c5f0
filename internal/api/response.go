package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"assettrack/internal/model"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// writeStoreError maps a store failure to an HTTP status: business-rule
// violations get a 4xx with the rule's message, anything else is an
// infrastructure failure that surfaces as a 500 and gets logged.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case model.IsNotFound(err):
		jsonError(w, http.StatusNotFound, err.Error())
	case model.IsConflict(err):
		jsonError(w, http.StatusConflict, err.Error())
	case model.IsInvalidInput(err):
		jsonError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("store operation failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}

// parseDate parses a date from a request body, accepting RFC 3339
// timestamps and plain YYYY-MM-DD dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// parseOptionalDate parses a date field that may be empty, returning nil
// for the empty string.
func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
