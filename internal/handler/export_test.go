package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HSLdevcom/jore4-hastus-sub000/internal/domain"
	"github.com/HSLdevcom/jore4-hastus-sub000/internal/handler"
	"github.com/HSLdevcom/jore4-hastus-sub000/internal/metrics"
)

// ---- mock ExportServicer ---------------------------------------------------

type mockExportServicer struct {
	exportRoutes func(ctx context.Context, headers http.Header, routeLabels []string, priority int, observationDate time.Time) (string, error)
}

func (m *mockExportServicer) ExportRoutes(ctx context.Context, headers http.Header, routeLabels []string, priority int, observationDate time.Time) (string, error) {
	return m.exportRoutes(ctx, headers, routeLabels, priority, observationDate)
}

// compile-time check: mockExportServicer must satisfy handler.ExportServicer.
var _ handler.ExportServicer = (*mockExportServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// newExportHTTPHandler wires a Server with only the export service mock.
func newExportHTTPHandler(exportSvc handler.ExportServicer) http.Handler {
	srv := handler.NewServer(exportSvc, nil, metrics.NewCollector())
	r := chi.NewRouter()
	srv.Register(r)
	return r
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

// ---- GET /export/routes ----------------------------------------------------

func TestGetExportRoutes_returnsCSV(t *testing.T) {
	svc := &mockExportServicer{
		exportRoutes: func(_ context.Context, headers http.Header, labels []string, priority int, date time.Time) (string, error) {
			assert.Equal(t, []string{"123", "456"}, labels)
			assert.Equal(t, 20, priority)
			assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), date)
			assert.Equal(t, "Bearer token", headers.Get("Authorization"))
			return "place;1AURLA;Aurinkolahti", nil
		},
	}

	req := httptest.NewRequest(http.MethodGet,
		"/export/routes?labels=123,456&priority=20&observationDate=2024-06-15", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	newExportHTTPHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Equal(t, "place;1AURLA;Aurinkolahti", rec.Body.String())
}

func TestGetExportRoutes_defaultsPriorityAndDate(t *testing.T) {
	svc := &mockExportServicer{
		exportRoutes: func(_ context.Context, _ http.Header, _ []string, priority int, date time.Time) (string, error) {
			assert.Equal(t, 10, priority)
			assert.WithinDuration(t, time.Now(), date, time.Minute)
			return "", nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/export/routes?labels=123", nil)
	rec := httptest.NewRecorder()
	newExportHTTPHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetExportRoutes_missingLabels(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/export/routes", nil)
	rec := httptest.NewRecorder()
	newExportHTTPHandler(&mockExportServicer{}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "bad_request", body.Error.Code)
	assert.Contains(t, body.Error.Message, "labels")
}

func TestGetExportRoutes_invalidPriority(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/export/routes?labels=123&priority=high", nil)
	rec := httptest.NewRecorder()
	newExportHTTPHandler(&mockExportServicer{}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", decodeError(t, rec).Error.Code)
}

func TestGetExportRoutes_invalidObservationDate(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/export/routes?labels=123&observationDate=15.6.2024", nil)
	rec := httptest.NewRecorder()
	newExportHTTPHandler(&mockExportServicer{}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", decodeError(t, rec).Error.Code)
}

// ---- error mapping ---------------------------------------------------------

func TestGetExportRoutes_errorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"validation", domain.ErrValidation, http.StatusBadRequest, "validation_error"},
		{"unknown", assert.AnError, http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockExportServicer{
				exportRoutes: func(context.Context, http.Header, []string, int, time.Time) (string, error) {
					return "", tc.err
				},
			}

			req := httptest.NewRequest(http.MethodGet, "/export/routes?labels=123", nil)
			rec := httptest.NewRecorder()
			newExportHTTPHandler(svc).ServeHTTP(rec, req)

			require.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantCode, decodeError(t, rec).Error.Code)
		})
	}
}
