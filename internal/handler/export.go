// Package handler — export.go implements GET /export/routes.
// Returns the Hastus CSV for the requested routes; auth headers on the
// request are forwarded to the backend.
package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// defaultPriority is the Jore4 standard route priority used when the caller
// does not specify one.
const defaultPriority = 10

// GetExportRoutes handles GET /export/routes.
//
// Query parameters:
//   - labels: comma-separated route labels, required
//   - priority: integer route priority, default 10
//   - observationDate: ISO date the routes must be valid on, default today
func (s *Server) GetExportRoutes(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	s.metrics.ExportsTotal.Inc()

	labels := splitLabels(r.URL.Query().Get("labels"))
	if len(labels) == 0 {
		s.metrics.ExportFailures.Inc()
		writeBadRequest(w, "query parameter labels is required")
		return
	}

	priority := defaultPriority
	if v := r.URL.Query().Get("priority"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			s.metrics.ExportFailures.Inc()
			writeBadRequest(w, "query parameter priority must be an integer")
			return
		}
		priority = p
	}

	observationDate := time.Now()
	if v := r.URL.Query().Get("observationDate"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			s.metrics.ExportFailures.Inc()
			writeBadRequest(w, "query parameter observationDate must be an ISO date")
			return
		}
		observationDate = d
	}

	csv, err := s.export.ExportRoutes(r.Context(), r.Header, labels, priority, observationDate)
	if err != nil {
		s.metrics.ExportFailures.Inc()
		writeError(w, err)
		return
	}
	s.metrics.ExportDuration.Observe(time.Since(start).Seconds())

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	_, _ = w.Write([]byte(csv))
}

func splitLabels(s string) []string {
	var labels []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			labels = append(labels, t)
		}
	}
	return labels
}
