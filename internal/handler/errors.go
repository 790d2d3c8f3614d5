package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/HSLdevcom/jore4-hastus-sub000/internal/domain"
)

// errorResponse is the JSON body returned for every failed request.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps err to an HTTP status and error code and writes the JSON
// error body. Conversion errors are operator-facing, so the message is
// passed through as-is.
func writeError(w http.ResponseWriter, err error) {
	status, code := http.StatusInternalServerError, "internal_error"

	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrValidation):
		status, code = http.StatusBadRequest, "validation_error"
	case errors.Is(err, domain.ErrMissingRecord):
		status, code = http.StatusBadRequest, "missing_record"
	case errors.Is(err, domain.ErrUnknownCode):
		status, code = http.StatusBadRequest, "unknown_code"
	case errors.Is(err, domain.ErrUnmatchedStops):
		status, code = http.StatusBadRequest, "unmatched_stops"
	}

	writeJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: err.Error()}})
}

// writeBadRequest rejects a request before it reaches the service layer
// (e.g. missing or malformed query parameters).
func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorDetail{Code: "bad_request", Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Nothing sensible to do if the client went away.
	_ = json.NewEncoder(w).Encode(body)
}
