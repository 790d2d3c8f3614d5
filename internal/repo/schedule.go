// Package repo contains all backend access logic for the Hastus bridge.
// Every persistent entity lives behind the Jore4 GraphQL API (Hasura); this
// package turns the queries and mutations of that API into domain values.
// No conversion logic lives here — only GraphQL documents and type mapping.
package repo

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/HSLdevcom/jore4-hastus-sub000/internal/domain"
)

// ExportData is everything the exporter needs for one export request:
// the selected lines with their routes and journey-pattern stops, plus the
// flat stop, timing-place and inter-stop-distance tables they reference.
type ExportData struct {
	Lines        []domain.Line
	Stops        []domain.StopPoint
	TimingPlaces []domain.TimingPlace
	Distances    []domain.StopInterval
}

// ScheduleRepo defines the backend operations the services depend on.
// The service layer depends on this interface, not the GraphQL
// implementation, which allows the services to be unit-tested with a mock.
type ScheduleRepo interface {
	// FetchRoutesForExport returns the lines matching the route labels,
	// priority and observation date filter, together with the referenced
	// stops, timing places and distances.
	// Returns domain.ErrNotFound when no route matches.
	FetchRoutesForExport(ctx context.Context, routeLabels []string, priority int, observationDate time.Time) (ExportData, error)

	// FetchJourneyPatterns returns the journey patterns of the given routes,
	// valid within the window, indexed by unique route label.
	FetchJourneyPatterns(ctx context.Context, routeLabels []string, validityStart, validityEnd time.Time) (map[string]domain.JourneyPattern, error)

	// FetchVehicleTypes returns the Hastus vehicle-type code to Jore4 id table.
	FetchVehicleTypes(ctx context.Context) (map[int]uuid.UUID, error)

	// FetchDayTypes returns the day-type label to Jore4 id table.
	FetchDayTypes(ctx context.Context) (map[string]uuid.UUID, error)

	// CreateJourneyPatternReferences snapshots the given journey patterns on
	// the timetable side and returns the reference id assigned to each
	// journey pattern id.
	CreateJourneyPatternReferences(ctx context.Context, patterns []domain.JourneyPattern) (map[uuid.UUID]uuid.UUID, error)

	// PersistVehicleScheduleFrame inserts the frame and its nested services,
	// blocks, journeys and passing times in one mutation, rewriting each
	// journey's pattern id through refs, and returns the frame id the
	// backend assigned.
	//
	// Callers are responsible for serializing the
	// CreateJourneyPatternReferences + PersistVehicleScheduleFrame sequence
	// across concurrent imports; the backend offers no transaction spanning
	// the two mutations.
	PersistVehicleScheduleFrame(ctx context.Context, frame domain.VehicleScheduleFrame, refs map[uuid.UUID]uuid.UUID) (uuid.UUID, error)
}

// Factory builds a ScheduleRepo bound to one inbound request. The Jore4
// backend authenticates through headers, so the bridge forwards the caller's
// auth headers verbatim on every GraphQL call it makes on their behalf.
type Factory interface {
	WithHeaders(headers http.Header) ScheduleRepo
}
