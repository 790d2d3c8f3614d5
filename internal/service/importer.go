// Package service contains the business logic of the Hastus bridge: the two
// conversion engines (Hastus CSV to Jore4 domain and back) and the pre-export
// validation. Services depend on repo interfaces, not implementations, and
// no GraphQL lives here.
package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/HSLdevcom/jore4-hastus-sub000/internal/domain"
	"github.com/HSLdevcom/jore4-hastus-sub000/internal/hastus"
	"github.com/HSLdevcom/jore4-hastus-sub000/internal/repo"
)

// dayTypeByScheduleType maps the Hastus schedule-type magic numbers to
// Jore4 day-type labels. Codes outside the table are import errors.
var dayTypeByScheduleType = map[int]string{
	0:  "MP",
	25: "MT",
	13: "MA",
	14: "TI",
	11: "KE",
	3:  "TO",
	4:  "PE",
	5:  "LA",
	6:  "SU",
}

// dayTypeByWeekday maps weekdays to the two-letter Finnish day-type labels,
// used when a booking covers exactly one day.
var dayTypeByWeekday = map[time.Weekday]string{
	time.Monday:    "MA",
	time.Tuesday:   "TI",
	time.Wednesday: "KE",
	time.Thursday:  "TO",
	time.Friday:    "PE",
	time.Saturday:  "LA",
	time.Sunday:    "SU",
}

// persistMu serializes the create-journey-pattern-refs + persist-frame
// mutation sequence across concurrent imports. The backend offers no
// transaction spanning the two mutations, so without this lock a concurrent
// import could attach one request's references to another request's frame.
// This is a known, deliberate serialization point; it does not cover the
// read-only fetch and convert path.
var persistMu sync.Mutex

// ImportService converts Hastus-produced CSV into a vehicle schedule frame
// and persists it through the backend.
type ImportService struct {
	repos repo.Factory
}

// NewImportService constructs an ImportService using the provided repo factory.
func NewImportService(repos repo.Factory) *ImportService {
	return &ImportService{repos: repos}
}

// ImportCSV parses csv, converts it into a vehicle schedule frame using
// lookup tables fetched from the backend, persists the frame, and returns
// the id the backend assigned to it. The caller's auth headers are forwarded
// on every backend call.
func (s *ImportService) ImportCSV(ctx context.Context, headers http.Header, csv string) (uuid.UUID, error) {
	records, err := hastus.ParseImportRecords(csv)
	if err != nil {
		return uuid.Nil, fmt.Errorf("service.ImportService.ImportCSV: %w", err)
	}

	booking, ok := firstBookingRecord(records)
	if !ok {
		return uuid.Nil, fmt.Errorf("service.ImportService.ImportCSV: booking record: %w", domain.ErrMissingRecord)
	}

	r := s.repos.WithHeaders(headers)

	routeLabels := uniqueRouteLabels(records)
	journeyPatterns, err := r.FetchJourneyPatterns(ctx, routeLabels, booking.StartDate, booking.EndDate)
	if err != nil {
		return uuid.Nil, fmt.Errorf("service.ImportService.ImportCSV: %w", err)
	}
	vehicleTypes, err := r.FetchVehicleTypes(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("service.ImportService.ImportCSV: %w", err)
	}
	dayTypes, err := r.FetchDayTypes(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("service.ImportService.ImportCSV: %w", err)
	}

	frame, err := ConvertRecordsToFrame(records, journeyPatterns, vehicleTypes, dayTypes)
	if err != nil {
		return uuid.Nil, fmt.Errorf("service.ImportService.ImportCSV: %w", err)
	}

	persistMu.Lock()
	defer persistMu.Unlock()

	refs, err := r.CreateJourneyPatternReferences(ctx, patternsUsedByFrame(frame, journeyPatterns))
	if err != nil {
		return uuid.Nil, fmt.Errorf("service.ImportService.ImportCSV: %w", err)
	}
	frameID, err := r.PersistVehicleScheduleFrame(ctx, frame, refs)
	if err != nil {
		return uuid.Nil, fmt.Errorf("service.ImportService.ImportCSV: %w", err)
	}
	return frameID, nil
}

// ConvertRecordsToFrame reconstructs the vehicle schedule frame tree from
// the flat, key-correlated Hastus records.
//
// journeyPatterns is indexed by unique route label, vehicleTypes by Hastus
// vehicle-type code and dayTypes by day-type label. All correlation failures
// are fatal and carry enough context to show to an operator.
func ConvertRecordsToFrame(
	records []hastus.ImportRecord,
	journeyPatterns map[string]domain.JourneyPattern,
	vehicleTypes map[int]uuid.UUID,
	dayTypes map[string]uuid.UUID,
) (domain.VehicleScheduleFrame, error) {
	booking, ok := firstBookingRecord(records)
	if !ok {
		return domain.VehicleScheduleFrame{}, fmt.Errorf("booking record: %w", domain.ErrMissingRecord)
	}
	schedule, ok := firstVehicleScheduleRecord(records)
	if !ok {
		return domain.VehicleScheduleFrame{}, fmt.Errorf("vehicle schedule record: %w", domain.ErrMissingRecord)
	}

	// Index first, then join: the flat records correlate by string ids only.
	idx := indexRecords(records)

	dayTypeID, err := resolveDayType(booking, schedule, dayTypes)
	if err != nil {
		return domain.VehicleScheduleFrame{}, err
	}

	services := make([]domain.VehicleService, 0, len(idx.serviceNames))
	for _, serviceName := range idx.serviceNames {
		blocks := make([]domain.Block, 0, len(idx.blocksByService[serviceName]))
		for _, blockRec := range idx.blocksByService[serviceName] {
			vehicleTypeID, ok := vehicleTypes[blockRec.VehicleType]
			if !ok {
				return domain.VehicleScheduleFrame{}, fmt.Errorf("unknown vehicle type %d: %w", blockRec.VehicleType, domain.ErrUnknownCode)
			}

			trips := idx.tripsByBlock[blockRec.InternalNumber]
			journeys := make([]domain.VehicleJourney, 0, len(trips))
			for _, trip := range trips {
				journey, err := convertTrip(trip, idx.stopsByTrip[trip.TripInternalNumber], journeyPatterns)
				if err != nil {
					return domain.VehicleScheduleFrame{}, err
				}
				journeys = append(journeys, journey)
			}

			blocks = append(blocks, domain.Block{
				Name:              blockRec.InternalNumber,
				PreparingDuration: time.Duration(blockRec.PrepOutMinutes) * time.Minute,
				FinishingDuration: time.Duration(blockRec.PrepInMinutes) * time.Minute,
				VehicleTypeID:     vehicleTypeID,
				VehicleJourneys:   journeys,
			})
		}
		services = append(services, domain.VehicleService{
			Name:      serviceName,
			DayTypeID: dayTypeID,
			Blocks:    blocks,
		})
	}

	// Hastus writes the schedule name into both name and label.
	return domain.VehicleScheduleFrame{
		Name:               booking.Name,
		Label:              booking.Name,
		BookingLabel:       booking.Booking,
		BookingDescription: booking.BookingDescription,
		ValidityStart:      booking.StartDate,
		ValidityEnd:        booking.EndDate,
		VehicleServices:    services,
	}, nil
}

// recordIndex holds the per-conversion correlation maps, built once.
type recordIndex struct {
	serviceNames    []string // vehicle service names in first-appearance order
	blocksByService map[string][]hastus.BlockRecord
	tripsByBlock    map[string][]hastus.TripRecord
	stopsByTrip     map[string][]hastus.TripStopRecord
}

func indexRecords(records []hastus.ImportRecord) recordIndex {
	idx := recordIndex{
		blocksByService: make(map[string][]hastus.BlockRecord),
		tripsByBlock:    make(map[string][]hastus.TripRecord),
		stopsByTrip:     make(map[string][]hastus.TripStopRecord),
	}
	for _, rec := range records {
		switch t := rec.(type) {
		case hastus.BlockRecord:
			if _, ok := idx.blocksByService[t.VehicleServiceName]; !ok {
				idx.serviceNames = append(idx.serviceNames, t.VehicleServiceName)
			}
			idx.blocksByService[t.VehicleServiceName] = append(idx.blocksByService[t.VehicleServiceName], t)
		case hastus.TripRecord:
			idx.tripsByBlock[t.BlockNumber] = append(idx.tripsByBlock[t.BlockNumber], t)
		case hastus.TripStopRecord:
			idx.stopsByTrip[t.TripInternalNumber] = append(idx.stopsByTrip[t.TripInternalNumber], t)
		}
	}
	return idx
}

func firstBookingRecord(records []hastus.ImportRecord) (hastus.BookingRecord, bool) {
	for _, rec := range records {
		if b, ok := rec.(hastus.BookingRecord); ok {
			return b, true
		}
	}
	return hastus.BookingRecord{}, false
}

func firstVehicleScheduleRecord(records []hastus.ImportRecord) (hastus.VehicleScheduleRecord, bool) {
	for _, rec := range records {
		if v, ok := rec.(hastus.VehicleScheduleRecord); ok {
			return v, true
		}
	}
	return hastus.VehicleScheduleRecord{}, false
}

// uniqueRouteLabels collects the distinct unique route labels referenced by
// the file's trip records, in first-appearance order.
func uniqueRouteLabels(records []hastus.ImportRecord) []string {
	var labels []string
	seen := make(map[string]struct{})
	for _, rec := range records {
		trip, ok := rec.(hastus.TripRecord)
		if !ok {
			continue
		}
		label := hastus.UniqueRouteLabel(trip.TripRoute, trip.Variant)
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}
	return labels
}

// resolveDayType resolves the one day type covering the whole frame.
//
// A booking valid for a single day maps that day's weekday to its Finnish
// day-type label. A booking spanning several days maps the vehicle schedule
// record's schedule type through the magic-number table. The resulting label
// must exist in the backend's day-type table.
func resolveDayType(
	booking hastus.BookingRecord,
	schedule hastus.VehicleScheduleRecord,
	dayTypes map[string]uuid.UUID,
) (uuid.UUID, error) {
	var label string
	if booking.StartDate.Equal(booking.EndDate) {
		label = dayTypeByWeekday[booking.StartDate.Weekday()]
	} else {
		var ok bool
		label, ok = dayTypeByScheduleType[schedule.ScheduleType]
		if !ok {
			return uuid.Nil, fmt.Errorf("unknown schedule type %d: %w", schedule.ScheduleType, domain.ErrUnknownCode)
		}
	}

	id, ok := dayTypes[label]
	if !ok {
		return uuid.Nil, fmt.Errorf("unknown day type %q: %w", label, domain.ErrUnknownCode)
	}
	return id, nil
}

// convertTrip builds one vehicle journey from a trip record and its stop
// records.
func convertTrip(
	trip hastus.TripRecord,
	stopRecords []hastus.TripStopRecord,
	journeyPatterns map[string]domain.JourneyPattern,
) (domain.VehicleJourney, error) {
	routeLabel := hastus.UniqueRouteLabel(trip.TripRoute, trip.Variant)

	pattern, ok := journeyPatterns[routeLabel]
	if !ok {
		return domain.VehicleJourney{}, fmt.Errorf("route %s: journey pattern: %w", routeLabel, domain.ErrNotFound)
	}

	stopLabels := distinctStopLabels(stopRecords)
	if ok, missing := pattern.ContainsStops(stopLabels); !ok {
		return domain.VehicleJourney{}, fmt.Errorf("route %s: stops %v: %w", routeLabel, missing, domain.ErrUnmatchedStops)
	}

	passingTimes := make([]domain.PassingTime, 0, len(stopLabels))
	for i, label := range stopLabels {
		pt := buildPassingTime(label, stopRecords)
		if i == 0 {
			pt.Arrival = nil
		}
		if i == len(stopLabels)-1 {
			pt.Departure = nil
		}
		passingTimes = append(passingTimes, pt)
	}

	return domain.VehicleJourney{
		Name:                   routeLabel,
		DisplayedName:          trip.TripDisplayedName,
		JourneyType:            journeyTypeOf(trip.TripType),
		TurnaroundTime:         time.Duration(trip.TurnaroundMinutes) * time.Minute,
		LayoverTime:            time.Duration(trip.LayoverMinutes) * time.Minute,
		IsVehicleTypeMandatory: trip.IsVehicleTypeMandatory,
		IsBackupJourney:        trip.IsBackupTrip,
		IsExtraJourney:         trip.IsExtraTrip,
		JourneyPatternID:       pattern.ID,
		PassingTimes:           passingTimes,
	}, nil
}

// journeyTypeOf derives the journey type from the Hastus trip type. Pull-out
// and pull-in trips are both service journeys; transfers are dry runs.
func journeyTypeOf(tripType int) domain.JourneyType {
	switch tripType {
	case hastus.TripTypePullOut, hastus.TripTypePullIn:
		return domain.JourneyTypeServiceJourney
	case hastus.TripTypeTransfer:
		return domain.JourneyTypeDryRun
	default:
		return domain.JourneyTypeStandard
	}
}

// distinctStopLabels returns the trip's stop labels in order of first
// appearance. A stop appears in several rows when its arrival and departure
// times differ; those rows collapse into one passing time.
func distinctStopLabels(stopRecords []hastus.TripStopRecord) []string {
	var labels []string
	seen := make(map[string]struct{})
	for _, rec := range stopRecords {
		if _, dup := seen[rec.StopID]; dup {
			continue
		}
		seen[rec.StopID] = struct{}{}
		labels = append(labels, rec.StopID)
	}
	return labels
}

// buildPassingTime derives one passing time from the rows sharing a stop
// label. The row with an empty note carries the plain passing time; a row
// noted "t" overrides the arrival and a row noted "a" overrides the
// departure, each falling back to the plain time when absent.
func buildPassingTime(stopLabel string, stopRecords []hastus.TripStopRecord) domain.PassingTime {
	var plain, arrival, departure string
	for _, rec := range stopRecords {
		if rec.StopID != stopLabel {
			continue
		}
		switch rec.Note {
		case hastus.NoteArrival:
			arrival = rec.PassingTime
		case hastus.NoteDeparture:
			departure = rec.PassingTime
		case "":
			plain = rec.PassingTime
		}
	}
	if arrival == "" {
		arrival = plain
	}
	if departure == "" {
		departure = plain
	}

	arr := hastus.ParsePassingTime(arrival)
	dep := hastus.ParsePassingTime(departure)
	return domain.PassingTime{
		StopLabel: stopLabel,
		Arrival:   &arr,
		Departure: &dep,
	}
}

// patternsUsedByFrame returns the journey patterns actually referenced by
// the frame's journeys, so only those get snapshotted as references.
func patternsUsedByFrame(frame domain.VehicleScheduleFrame, journeyPatterns map[string]domain.JourneyPattern) []domain.JourneyPattern {
	used := make(map[uuid.UUID]struct{})
	for _, vs := range frame.VehicleServices {
		for _, b := range vs.Blocks {
			for _, vj := range b.VehicleJourneys {
				used[vj.JourneyPatternID] = struct{}{}
			}
		}
	}

	var patterns []domain.JourneyPattern
	for _, p := range journeyPatterns {
		if _, ok := used[p.ID]; ok {
			patterns = append(patterns, p)
		}
	}
	return patterns
}
