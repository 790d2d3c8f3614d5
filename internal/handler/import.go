// Package handler — import.go implements POST /import.
// Accepts a raw Hastus CSV body and responds with the id of the persisted
// vehicle schedule frame.
package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// importResponse is the JSON body of a successful import.
type importResponse struct {
	VehicleScheduleFrameID uuid.UUID `json:"vehicleScheduleFrameId"`
}

// PostImport handles POST /import.
func (s *Server) PostImport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	s.metrics.ImportsTotal.Inc()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.metrics.ImportFailures.Inc()
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
				Error: errorDetail{Code: "body_too_large", Message: "import body exceeds the configured size limit"},
			})
			return
		}
		writeBadRequest(w, "failed to read request body")
		return
	}
	if len(body) == 0 {
		s.metrics.ImportFailures.Inc()
		writeBadRequest(w, "request body must contain Hastus CSV")
		return
	}

	frameID, err := s.importer.ImportCSV(r.Context(), r.Header, string(body))
	if err != nil {
		s.metrics.ImportFailures.Inc()
		writeError(w, err)
		return
	}
	s.metrics.ImportDuration.Observe(time.Since(start).Seconds())

	writeJSON(w, http.StatusOK, importResponse{VehicleScheduleFrameID: frameID})
}
