package repo

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	graphql "github.com/hasura/go-graphql-client"

	"github.com/HSLdevcom/jore4-hastus-sub000/internal/domain"
)

// forwardedHeaderPrefixes lists the inbound header names passed through to
// the backend. Hasura authenticates via Authorization / x-hasura-* headers;
// everything else stays with the bridge.
var forwardedHeaderPrefixes = []string{"authorization", "cookie", "x-hasura-"}

// GraphQLFactory builds per-request repos against one Hasura endpoint.
type GraphQLFactory struct {
	endpoint string
	base     *http.Client
}

// NewGraphQLFactory constructs a Factory for the given GraphQL endpoint.
func NewGraphQLFactory(endpoint string) *GraphQLFactory {
	return &GraphQLFactory{
		endpoint: endpoint,
		base:     &http.Client{Timeout: 60 * time.Second},
	}
}

// WithHeaders returns a ScheduleRepo whose every call forwards the
// authentication headers of the inbound request.
func (f *GraphQLFactory) WithHeaders(headers http.Header) ScheduleRepo {
	client := &http.Client{
		Timeout: f.base.Timeout,
		Transport: headerForwardingTransport{
			headers: headers,
			next:    http.DefaultTransport,
		},
	}
	return &graphQLRepo{client: graphql.NewClient(f.endpoint, client)}
}

// headerForwardingTransport copies whitelisted inbound headers onto every
// outgoing backend request.
type headerForwardingTransport struct {
	headers http.Header
	next    http.RoundTripper
}

func (t headerForwardingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	for name, values := range t.headers {
		if !isForwardedHeader(name) {
			continue
		}
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	return t.next.RoundTrip(req)
}

func isForwardedHeader(name string) bool {
	lower := strings.ToLower(name)
	for _, prefix := range forwardedHeaderPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// graphQLRepo is the Hasura implementation of ScheduleRepo.
type graphQLRepo struct {
	client *graphql.Client
}

var _ ScheduleRepo = (*graphQLRepo)(nil)

const dateFormat = "2006-01-02"

// formatInterval renders a duration as an ISO 8601 interval ("PT25H30M"),
// the form Hasura accepts for Postgres interval columns.
func formatInterval(d time.Duration) string {
	total := int(d.Minutes())
	return fmt.Sprintf("PT%dH%dM", total/60, total%60)
}

// optionalInterval returns nil for nil durations so they insert as NULL.
func optionalInterval(d *time.Duration) any {
	if d == nil {
		return nil
	}
	return formatInterval(*d)
}

const routesForExportQuery = `
query RoutesForExport($labels: [String!]!, $priority: Int!, $date: date!) {
  route_line(where: {line_routes: {label: {_in: $labels}, priority: {_eq: $priority},
      validity_start: {_lte: $date}, validity_end: {_gte: $date}}}) {
    label
    name_i18n
    type_of_line
    vehicle_mode
    line_routes(where: {label: {_in: $labels}, priority: {_eq: $priority}}) {
      label
      variant
      name_i18n
      direction
      stops_in_route {
        scheduled_stop_point_label
        sequence
        timing_place_code
        is_used_as_timing_point
        is_regulated_timing_point
        is_loading_time_allowed
        distance_to_next_stop
        stop_point {
          label
          platform
          name_finnish
          name_swedish
          street_finnish
          street_swedish
          timing_place_code
          measured_latitude
          measured_longitude
          short_id
        }
        timing_place {
          label
          description
        }
        stop_interval {
          start_label
          end_label
          distance_in_metres
        }
      }
    }
  }
}`

type stopPointRow struct {
	Label           string  `json:"label"`
	Platform        string  `json:"platform"`
	NameFinnish     string  `json:"name_finnish"`
	NameSwedish     string  `json:"name_swedish"`
	StreetFinnish   string  `json:"street_finnish"`
	StreetSwedish   string  `json:"street_swedish"`
	TimingPlaceCode *string `json:"timing_place_code"`
	Latitude        float64 `json:"measured_latitude"`
	Longitude       float64 `json:"measured_longitude"`
	ShortID         string  `json:"short_id"`
}

type routesForExportResponse struct {
	Lines []struct {
		Label       string `json:"label"`
		Name        string `json:"name_i18n"`
		TypeOfLine  string `json:"type_of_line"`
		VehicleMode string `json:"vehicle_mode"`
		Routes      []struct {
			Label        string  `json:"label"`
			Variant      *string `json:"variant"`
			Name         string  `json:"name_i18n"`
			Direction    int     `json:"direction"`
			StopsInRoute []struct {
				Label                  string        `json:"scheduled_stop_point_label"`
				Sequence               int           `json:"sequence"`
				TimingPlaceCode        *string       `json:"timing_place_code"`
				IsUsedAsTimingPoint    bool          `json:"is_used_as_timing_point"`
				IsRegulatedTimingPoint bool          `json:"is_regulated_timing_point"`
				IsLoadingTimeAllowed   bool          `json:"is_loading_time_allowed"`
				DistanceToNextStop     float64       `json:"distance_to_next_stop"`
				StopPoint              *stopPointRow `json:"stop_point"`
				TimingPlace            *struct {
					Label       string `json:"label"`
					Description string `json:"description"`
				} `json:"timing_place"`
				StopInterval *struct {
					StartLabel string  `json:"start_label"`
					EndLabel   string  `json:"end_label"`
					Metres     float64 `json:"distance_in_metres"`
				} `json:"stop_interval"`
			} `json:"stops_in_route"`
		} `json:"line_routes"`
	} `json:"route_line"`
}

// FetchRoutesForExport queries the deep line tree and flattens the
// referenced stops, timing places and distances into ExportData.
func (r *graphQLRepo) FetchRoutesForExport(ctx context.Context, routeLabels []string, priority int, observationDate time.Time) (ExportData, error) {
	var resp routesForExportResponse
	vars := map[string]any{
		"labels":   routeLabels,
		"priority": priority,
		"date":     observationDate.Format(dateFormat),
	}
	if err := r.client.Exec(ctx, routesForExportQuery, &resp, vars); err != nil {
		return ExportData{}, fmt.Errorf("repo.ScheduleRepo.FetchRoutesForExport: %w", err)
	}
	if len(resp.Lines) == 0 {
		return ExportData{}, fmt.Errorf("repo.ScheduleRepo.FetchRoutesForExport: routes %v: %w", routeLabels, domain.ErrNotFound)
	}

	var data ExportData
	seenStops := make(map[string]struct{})
	seenPlaces := make(map[string]struct{})

	for _, l := range resp.Lines {
		line := domain.Line{
			Label:       l.Label,
			Name:        l.Name,
			TypeOfLine:  l.TypeOfLine,
			VehicleMode: l.VehicleMode,
		}
		for _, rt := range l.Routes {
			route := domain.Route{
				Label:     rt.Label,
				Name:      rt.Name,
				Direction: rt.Direction,
			}
			if rt.Variant != nil {
				route.Variant = *rt.Variant
			}
			for _, sp := range rt.StopsInRoute {
				route.StopsOnRoute = append(route.StopsOnRoute, domain.StopPointInJourneyPattern{
					Label:                  sp.Label,
					Sequence:               sp.Sequence,
					TimingPlaceCode:        sp.TimingPlaceCode,
					IsUsedAsTimingPoint:    sp.IsUsedAsTimingPoint,
					IsRegulatedTimingPoint: sp.IsRegulatedTimingPoint,
					IsAllowedLoad:          sp.IsLoadingTimeAllowed,
					DistanceToNextStop:     sp.DistanceToNextStop,
				})
				if sp.StopPoint != nil {
					if _, ok := seenStops[sp.StopPoint.Label]; !ok {
						seenStops[sp.StopPoint.Label] = struct{}{}
						data.Stops = append(data.Stops, domain.StopPoint{
							Label:           sp.StopPoint.Label,
							Platform:        sp.StopPoint.Platform,
							NameFinnish:     sp.StopPoint.NameFinnish,
							NameSwedish:     sp.StopPoint.NameSwedish,
							StreetFinnish:   sp.StopPoint.StreetFinnish,
							StreetSwedish:   sp.StopPoint.StreetSwedish,
							TimingPlaceCode: sp.StopPoint.TimingPlaceCode,
							Latitude:        sp.StopPoint.Latitude,
							Longitude:       sp.StopPoint.Longitude,
							ShortID:         sp.StopPoint.ShortID,
						})
					}
				}
				if sp.TimingPlace != nil {
					if _, ok := seenPlaces[sp.TimingPlace.Label]; !ok {
						seenPlaces[sp.TimingPlace.Label] = struct{}{}
						data.TimingPlaces = append(data.TimingPlaces, domain.TimingPlace{
							Label:       sp.TimingPlace.Label,
							Description: sp.TimingPlace.Description,
						})
					}
				}
				if sp.StopInterval != nil {
					data.Distances = append(data.Distances, domain.StopInterval{
						StartLabel: sp.StopInterval.StartLabel,
						EndLabel:   sp.StopInterval.EndLabel,
						Meters:     sp.StopInterval.Metres,
					})
				}
			}
			line.Routes = append(line.Routes, route)
		}
		data.Lines = append(data.Lines, line)
	}
	return data, nil
}

const journeyPatternsQuery = `
query JourneyPatterns($labels: [String!]!, $start: date!, $end: date!) {
  journey_pattern(where: {journey_pattern_route: {unique_label: {_in: $labels},
      validity_start: {_lte: $end}, validity_end: {_gte: $start}}}) {
    journey_pattern_id
    journey_pattern_route { unique_label }
    scheduled_stop_points(order_by: {scheduled_stop_point_sequence: asc}) {
      scheduled_stop_point_label
    }
  }
}`

type journeyPatternsResponse struct {
	JourneyPatterns []struct {
		ID    uuid.UUID `json:"journey_pattern_id"`
		Route struct {
			UniqueLabel string `json:"unique_label"`
		} `json:"journey_pattern_route"`
		Stops []struct {
			Label string `json:"scheduled_stop_point_label"`
		} `json:"scheduled_stop_points"`
	} `json:"journey_pattern"`
}

// FetchJourneyPatterns returns the journey patterns of the given routes
// indexed by unique route label.
func (r *graphQLRepo) FetchJourneyPatterns(ctx context.Context, routeLabels []string, validityStart, validityEnd time.Time) (map[string]domain.JourneyPattern, error) {
	var resp journeyPatternsResponse
	vars := map[string]any{
		"labels": routeLabels,
		"start":  validityStart.Format(dateFormat),
		"end":    validityEnd.Format(dateFormat),
	}
	if err := r.client.Exec(ctx, journeyPatternsQuery, &resp, vars); err != nil {
		return nil, fmt.Errorf("repo.ScheduleRepo.FetchJourneyPatterns: %w", err)
	}

	patterns := make(map[string]domain.JourneyPattern, len(resp.JourneyPatterns))
	for _, jp := range resp.JourneyPatterns {
		p := domain.JourneyPattern{
			ID:         jp.ID,
			RouteLabel: jp.Route.UniqueLabel,
		}
		for _, s := range jp.Stops {
			p.StopLabels = append(p.StopLabels, s.Label)
		}
		patterns[p.RouteLabel] = p
	}
	return patterns, nil
}

const vehicleTypesQuery = `
query VehicleTypes {
  timetables_vehicle_type_vehicle_type {
    vehicle_type_id
    hsl_id
  }
}`

// FetchVehicleTypes returns the Hastus vehicle-type code to id table.
func (r *graphQLRepo) FetchVehicleTypes(ctx context.Context) (map[int]uuid.UUID, error) {
	var resp struct {
		VehicleTypes []struct {
			ID    uuid.UUID `json:"vehicle_type_id"`
			HslID int       `json:"hsl_id"`
		} `json:"timetables_vehicle_type_vehicle_type"`
	}
	if err := r.client.Exec(ctx, vehicleTypesQuery, &resp, nil); err != nil {
		return nil, fmt.Errorf("repo.ScheduleRepo.FetchVehicleTypes: %w", err)
	}

	types := make(map[int]uuid.UUID, len(resp.VehicleTypes))
	for _, vt := range resp.VehicleTypes {
		types[vt.HslID] = vt.ID
	}
	return types, nil
}

const dayTypesQuery = `
query DayTypes {
  timetables_service_calendar_day_type {
    day_type_id
    label
  }
}`

// FetchDayTypes returns the day-type label to id table.
func (r *graphQLRepo) FetchDayTypes(ctx context.Context) (map[string]uuid.UUID, error) {
	var resp struct {
		DayTypes []struct {
			ID    uuid.UUID `json:"day_type_id"`
			Label string    `json:"label"`
		} `json:"timetables_service_calendar_day_type"`
	}
	if err := r.client.Exec(ctx, dayTypesQuery, &resp, nil); err != nil {
		return nil, fmt.Errorf("repo.ScheduleRepo.FetchDayTypes: %w", err)
	}

	types := make(map[string]uuid.UUID, len(resp.DayTypes))
	for _, dt := range resp.DayTypes {
		types[dt.Label] = dt.ID
	}
	return types, nil
}

const createJourneyPatternRefsMutation = `
mutation CreateJourneyPatternRefs($objects: [timetables_journey_pattern_journey_pattern_ref_insert_input!]!) {
  timetables_insert_journey_pattern_journey_pattern_ref(objects: $objects) {
    returning {
      journey_pattern_ref_id
      journey_pattern_id
    }
  }
}`

// CreateJourneyPatternReferences snapshots journey patterns on the timetable
// side and maps each journey pattern id to its new reference id.
func (r *graphQLRepo) CreateJourneyPatternReferences(ctx context.Context, patterns []domain.JourneyPattern) (map[uuid.UUID]uuid.UUID, error) {
	objects := make([]map[string]any, 0, len(patterns))
	now := time.Now().UTC().Format(time.RFC3339)
	for _, p := range patterns {
		stops := make([]map[string]any, 0, len(p.StopLabels))
		for i, label := range p.StopLabels {
			stops = append(stops, map[string]any{
				"scheduled_stop_point_label":    label,
				"scheduled_stop_point_sequence": i,
			})
		}
		objects = append(objects, map[string]any{
			"journey_pattern_id": p.ID.String(),
			"route_unique_label": p.RouteLabel,
			"snapshot_timestamp": now,
			"scheduled_stop_point_in_journey_pattern_refs": map[string]any{"data": stops},
		})
	}

	var resp struct {
		Insert struct {
			Returning []struct {
				RefID     uuid.UUID `json:"journey_pattern_ref_id"`
				PatternID uuid.UUID `json:"journey_pattern_id"`
			} `json:"returning"`
		} `json:"timetables_insert_journey_pattern_journey_pattern_ref"`
	}
	vars := map[string]any{"objects": objects}
	if err := r.client.Exec(ctx, createJourneyPatternRefsMutation, &resp, vars); err != nil {
		return nil, fmt.Errorf("repo.ScheduleRepo.CreateJourneyPatternReferences: %w", err)
	}

	refs := make(map[uuid.UUID]uuid.UUID, len(resp.Insert.Returning))
	for _, row := range resp.Insert.Returning {
		refs[row.PatternID] = row.RefID
	}
	return refs, nil
}

const persistFrameMutation = `
mutation PersistVehicleScheduleFrame($frame: timetables_vehicle_schedule_vehicle_schedule_frame_insert_input!) {
  timetables_insert_vehicle_schedule_vehicle_schedule_frame_one(object: $frame) {
    vehicle_schedule_frame_id
  }
}`

// PersistVehicleScheduleFrame inserts the whole frame tree in one nested
// mutation and returns the assigned frame id.
func (r *graphQLRepo) PersistVehicleScheduleFrame(ctx context.Context, frame domain.VehicleScheduleFrame, refs map[uuid.UUID]uuid.UUID) (uuid.UUID, error) {
	services := make([]map[string]any, 0, len(frame.VehicleServices))
	for _, vs := range frame.VehicleServices {
		blocks := make([]map[string]any, 0, len(vs.Blocks))
		for _, b := range vs.Blocks {
			journeys := make([]map[string]any, 0, len(b.VehicleJourneys))
			for _, vj := range b.VehicleJourneys {
				passings := make([]map[string]any, 0, len(vj.PassingTimes))
				for _, pt := range vj.PassingTimes {
					passings = append(passings, map[string]any{
						"scheduled_stop_point_label": pt.StopLabel,
						"arrival_time":               optionalInterval(pt.Arrival),
						"departure_time":             optionalInterval(pt.Departure),
					})
				}
				refID, ok := refs[vj.JourneyPatternID]
				if !ok {
					return uuid.Nil, fmt.Errorf("repo.ScheduleRepo.PersistVehicleScheduleFrame: no journey pattern ref for %s", vj.JourneyPatternID)
				}
				journeys = append(journeys, map[string]any{
					"journey_name":              vj.Name,
					"displayed_name":            vj.DisplayedName,
					"journey_type":              vj.JourneyType.String(),
					"turnaround_time":           formatInterval(vj.TurnaroundTime),
					"layover_time":              formatInterval(vj.LayoverTime),
					"is_vehicle_type_mandatory": vj.IsVehicleTypeMandatory,
					"is_backup_journey":         vj.IsBackupJourney,
					"is_extra_journey":          vj.IsExtraJourney,
					"journey_pattern_ref_id":    refID.String(),
					"timetabled_passing_times":  map[string]any{"data": passings},
				})
			}
			blocks = append(blocks, map[string]any{
				"block_name":       b.Name,
				"preparing_time":   formatInterval(b.PreparingDuration),
				"finishing_time":   formatInterval(b.FinishingDuration),
				"vehicle_type_id":  b.VehicleTypeID.String(),
				"vehicle_journeys": map[string]any{"data": journeys},
			})
		}
		services = append(services, map[string]any{
			"service_name":   vs.Name,
			"day_type_id":    vs.DayTypeID.String(),
			"vehicle_blocks": map[string]any{"data": blocks},
		})
	}

	frameObject := map[string]any{
		"name":                frame.Name,
		"label":               frame.Label,
		"booking_label":       frame.BookingLabel,
		"booking_description": frame.BookingDescription,
		"validity_start":      frame.ValidityStart.Format(dateFormat),
		"validity_end":        frame.ValidityEnd.Format(dateFormat),
		"vehicle_services":    map[string]any{"data": services},
	}

	var resp struct {
		Insert struct {
			ID uuid.UUID `json:"vehicle_schedule_frame_id"`
		} `json:"timetables_insert_vehicle_schedule_vehicle_schedule_frame_one"`
	}
	vars := map[string]any{"frame": frameObject}
	if err := r.client.Exec(ctx, persistFrameMutation, &resp, vars); err != nil {
		return uuid.Nil, fmt.Errorf("repo.ScheduleRepo.PersistVehicleScheduleFrame: %w", err)
	}
	return resp.Insert.ID, nil
}
