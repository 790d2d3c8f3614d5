package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/HSLdevcom/jore4-hastus-sub000/internal/domain"
	"github.com/HSLdevcom/jore4-hastus-sub000/internal/hastus"
	"github.com/HSLdevcom/jore4-hastus-sub000/internal/repo"
)

// Wire accuracies for exported numeric fields.
var (
	// Cumulative timing-point distances: kilometers, 1 leading digit,
	// 3 decimals ("0.000", "1.000").
	distanceAccuracy = struct{ leading, digits int }{1, 3}
	// Coordinates: 2 leading digits, 6 decimals.
	coordinateAccuracy = struct{ leading, digits int }{2, 6}
)

// ExportService fetches schedule data from the backend, validates it and
// serializes it into the Hastus export CSV.
type ExportService struct {
	repos repo.Factory

	// failOnValidation controls whether structural validation failures abort
	// the export or are only logged as warnings.
	failOnValidation bool
}

// NewExportService constructs an ExportService using the provided repo factory.
func NewExportService(repos repo.Factory, failOnValidation bool) *ExportService {
	return &ExportService{repos: repos, failOnValidation: failOnValidation}
}

// ExportRoutes produces the Hastus CSV for the routes matching the label,
// priority and observation-date filter. The caller's auth headers are
// forwarded on every backend call.
func (s *ExportService) ExportRoutes(ctx context.Context, headers http.Header, routeLabels []string, priority int, observationDate time.Time) (string, error) {
	r := s.repos.WithHeaders(headers)

	data, err := r.FetchRoutesForExport(ctx, routeLabels, priority, observationDate)
	if err != nil {
		return "", fmt.Errorf("service.ExportService.ExportRoutes: %w", err)
	}

	for _, line := range data.Lines {
		if err := ValidateLine(line); err != nil {
			if s.failOnValidation {
				return "", fmt.Errorf("service.ExportService.ExportRoutes: %w", err)
			}
			slog.Warn("line failed export validation, exporting anyway",
				"line", line.Label,
				"error", err,
			)
		}
	}

	records := ConvertToRecords(data.Lines, data.Stops, data.TimingPlaces, data.Distances)
	return hastus.WriteRecords(records), nil
}

// ConvertToRecords flattens the fetched domain trees into the ordered Hastus
// export record list: timing places first, then stops, then one depth-first
// route/variant/point group per line. Identical place and stop records are
// de-duplicated here — the writer drops nothing.
func ConvertToRecords(
	lines []domain.Line,
	stops []domain.StopPoint,
	timingPlaces []domain.TimingPlace,
	distances []domain.StopInterval,
) []hastus.ExportRecord {
	distanceIndex := indexDistances(distances)

	var records []hastus.ExportRecord

	seenPlaces := make(map[hastus.Place]struct{})
	for _, tp := range timingPlaces {
		place := hastus.Place{Identifier: tp.Label, Description: tp.Description}
		if _, dup := seenPlaces[place]; dup {
			continue
		}
		seenPlaces[place] = struct{}{}
		records = append(records, place)
	}

	seenStops := make(map[hastus.Stop]struct{})
	for _, sp := range stops {
		stop := convertStop(sp)
		if _, dup := seenStops[stop]; dup {
			continue
		}
		seenStops[stop] = struct{}{}
		records = append(records, stop)
	}

	for _, line := range lines {
		records = append(records, hastus.Route{
			Identifier:  line.Label,
			Description: line.Name,
		})
		for _, route := range line.Routes {
			records = append(records, convertRouteVariant(line, route, distanceIndex)...)
		}
	}
	return records
}

// convertRouteVariant emits one RouteVariant record followed by its points.
func convertRouteVariant(line domain.Line, route domain.Route, distanceIndex map[stopPair]float64) []hastus.ExportRecord {
	// The Hastus variant is the explicit variant when present, else the
	// direction number; the composite identifier is label + variant. Hastus
	// directions are 0-based where Jore4's are 1-based.
	variant := route.Variant
	if variant == "" {
		variant = strconv.Itoa(route.Direction)
	}
	variantID := route.Label + variant

	records := []hastus.ExportRecord{hastus.RouteVariant{
		Identifier:  variantID,
		Description: route.Name,
		Direction:   route.Direction - 1,
		RouteLabel:  route.Label,
	}}

	// Cumulative distance from the previous timing point. Stops before the
	// first timing point contribute nothing.
	var accumulated float64
	timingPointSeen := false

	for i, sp := range route.StopsOnRoute {
		distanceToNext := sp.DistanceToNextStop
		if i+1 < len(route.StopsOnRoute) {
			pair := stopPair{sp.Label, route.StopsOnRoute[i+1].Label}
			if d, ok := distanceIndex[pair]; ok {
				distanceToNext = d
			}
		}

		if sp.IsUsedAsTimingPoint && sp.TimingPlaceCode != nil {
			records = append(records, hastus.NewRouteVariantPoint(
				*sp.TimingPlaceCode,
				hastus.NumberWithAccuracy{
					Value:   accumulated / 1000.0, // meters to kilometers
					Leading: distanceAccuracy.leading,
					Digits:  distanceAccuracy.digits,
				},
				sp.IsAllowedLoad,
				sp.IsRegulatedTimingPoint,
				sp.Label,
				sp.Sequence,
				variantID,
			))
			accumulated = distanceToNext
			timingPointSeen = true
			continue
		}

		records = append(records, hastus.NewRouteVariantPoint(
			"", hastus.NumberWithAccuracy{},
			sp.IsAllowedLoad,
			sp.IsRegulatedTimingPoint,
			sp.Label,
			sp.Sequence,
			variantID,
		))
		if timingPointSeen {
			accumulated += distanceToNext
		}
	}
	return records
}

// convertStop maps one stop point descriptor to its export record.
func convertStop(sp domain.StopPoint) hastus.Stop {
	var place string
	if sp.TimingPlaceCode != nil {
		place = *sp.TimingPlaceCode
	}
	return hastus.Stop{
		Identifier:    sp.Label,
		Platform:      sp.Platform,
		NameFinnish:   sp.NameFinnish,
		NameSwedish:   sp.NameSwedish,
		StreetFinnish: sp.StreetFinnish,
		StreetSwedish: sp.StreetSwedish,
		Place:         place,
		GpsX: hastus.NumberWithAccuracy{
			Value:   sp.Longitude,
			Leading: coordinateAccuracy.leading,
			Digits:  coordinateAccuracy.digits,
		},
		GpsY: hastus.NumberWithAccuracy{
			Value:   sp.Latitude,
			Leading: coordinateAccuracy.leading,
			Digits:  coordinateAccuracy.digits,
		},
		ShortID: sp.ShortID,
	}
}

// stopPair keys the inter-stop distance index.
type stopPair struct {
	start, end string
}

// indexDistances builds the pair-keyed distance overlay. Measured intervals
// take precedence over whatever distance the stop point itself carries.
func indexDistances(distances []domain.StopInterval) map[stopPair]float64 {
	index := make(map[stopPair]float64, len(distances))
	for _, d := range distances {
		index[stopPair{d.StartLabel, d.EndLabel}] = d.Meters
	}
	return index
}
