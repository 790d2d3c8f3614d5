// Package handler implements the HTTP handlers for the Hastus bridge API.
// Handlers are methods on Server, split into endpoint-specific files, and
// contain no conversion logic: they decode requests, call a servicer, and
// encode the result.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/HSLdevcom/jore4-hastus-sub000/internal/metrics"
	"github.com/HSLdevcom/jore4-hastus-sub000/spec"
)

// ExportServicer defines the export operation the handler depends on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without a backend.
type ExportServicer interface {
	ExportRoutes(ctx context.Context, headers http.Header, routeLabels []string, priority int, observationDate time.Time) (string, error)
}

// ImportServicer defines the import operation the handler depends on.
type ImportServicer interface {
	ImportCSV(ctx context.Context, headers http.Header, csv string) (uuid.UUID, error)
}

// Server implements the HTTP endpoints of the bridge.
type Server struct {
	export   ExportServicer
	importer ImportServicer
	metrics  *metrics.Collector
}

// NewServer constructs the Server with all its dependencies.
func NewServer(export ExportServicer, importer ImportServicer, collector *metrics.Collector) *Server {
	return &Server{export: export, importer: importer, metrics: collector}
}

// Register mounts all endpoints on the given router.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", s.GetHealth)
	r.Get("/export/routes", s.GetExportRoutes)
	r.Post("/import", s.PostImport)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(spec.OpenAPI)
	})
}
