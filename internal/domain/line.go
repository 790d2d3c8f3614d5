// Package domain contains the core data types for the Hastus bridge.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler).
//
// All trees in this package are immutable value trees: each export or import
// request builds one tree from fetched or parsed data, hands it onward, and
// discards it. Nothing mutates an entity after construction.
package domain

import "github.com/google/uuid"

// Line is a transit line as known to the Jore4 backend, together with the
// routes selected for export.
type Line struct {
	Label       string
	Name        string
	TypeOfLine  string
	VehicleMode string
	Routes      []Route
}

// Route is one directional variant of a line.
// Direction is 1-based on the Jore4 side: 1 = outbound, 2 = inbound.
type Route struct {
	Label        string
	Variant      string // empty when the route has no variant
	Name         string
	Direction    int
	StopsOnRoute []StopPointInJourneyPattern
}

// StopPointInJourneyPattern is one ordered stop of a route's journey pattern.
type StopPointInJourneyPattern struct {
	Label    string
	Sequence int

	// TimingPlaceCode is nil when the stop is not associated with a Hastus
	// timing place. A stop used as a timing point always carries one.
	TimingPlaceCode *string

	IsUsedAsTimingPoint    bool
	IsRegulatedTimingPoint bool
	IsAllowedLoad          bool

	// DistanceToNextStop is the distance in meters to the next stop in the
	// pattern. Zero (and meaningless) for the last stop.
	DistanceToNextStop float64
}

// StopPoint is the full descriptor of a scheduled stop point, independent of
// any one route.
type StopPoint struct {
	Label           string
	Platform        string
	NameFinnish     string
	NameSwedish     string
	StreetFinnish   string
	StreetSwedish   string
	TimingPlaceCode *string
	Latitude        float64
	Longitude       float64
	ShortID         string
}

// TimingPlace is a named location used by Hastus to group timing points.
type TimingPlace struct {
	Label       string
	Description string
}

// StopInterval is the measured distance between two adjacent stop points.
type StopInterval struct {
	StartLabel string
	EndLabel   string
	Meters     float64
}

// JourneyPattern identifies the ordered stop sequence of one route, as
// fetched from the backend and keyed by the route's unique label.
type JourneyPattern struct {
	ID         uuid.UUID
	RouteLabel string
	StopLabels []string
}

// ContainsStops reports whether every label in labels belongs to the pattern,
// and returns the labels that do not.
func (jp JourneyPattern) ContainsStops(labels []string) (bool, []string) {
	known := make(map[string]struct{}, len(jp.StopLabels))
	for _, l := range jp.StopLabels {
		known[l] = struct{}{}
	}
	var missing []string
	for _, l := range labels {
		if _, ok := known[l]; !ok {
			missing = append(missing, l)
		}
	}
	return len(missing) == 0, missing
}
