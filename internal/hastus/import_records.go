package hastus

import (
	"fmt"
	"time"
)

// ImportRecord is the closed set of record kinds found in a Hastus-produced
// CSV file. The marker method keeps the set sealed to this package; consumers
// dispatch with a type switch.
type ImportRecord interface {
	importRecord()
}

func (ApplicationRecord) importRecord()     {}
func (BookingRecord) importRecord()         {}
func (VehicleScheduleRecord) importRecord() {}
func (BlockRecord) importRecord()           {}
func (TripRecord) importRecord()            {}
func (TripStopRecord) importRecord()        {}

// field returns the positional field at index i, or "" when the line is
// shorter than the schema. Hastus pads trailing empty fields inconsistently.
func field(f []string, i int) string {
	if i >= len(f) {
		return ""
	}
	return f[i]
}

// ApplicationRecord (type 1) describes the producing Hastus installation.
// Informational only; nothing downstream reads it.
type ApplicationRecord struct {
	Tag          string
	Company      string
	Version      float64
	CreationDate time.Time
	CreationTime time.Time
}

func parseApplicationRecord(f []string) (ApplicationRecord, error) {
	date, err := parseDate(field(f, 3))
	if err != nil {
		return ApplicationRecord{}, fmt.Errorf("application record: %w", err)
	}
	tod, err := parseTime(field(f, 4))
	if err != nil {
		return ApplicationRecord{}, fmt.Errorf("application record: %w", err)
	}
	return ApplicationRecord{
		Tag:          field(f, 0),
		Company:      field(f, 1),
		Version:      parseFloat(field(f, 2)),
		CreationDate: date,
		CreationTime: tod,
	}, nil
}

// BookingRecord (type 2) carries the booking the whole file belongs to.
// Exactly one is expected per file; the importer uses the first occurrence.
type BookingRecord struct {
	Booking            string
	BookingDescription string
	Name               string
	ScheduleDayType    int
	StartDate          time.Time
	EndDate            time.Time
	Contract           string
}

func parseBookingRecord(f []string) (BookingRecord, error) {
	start, err := parseDate(field(f, 4))
	if err != nil {
		return BookingRecord{}, fmt.Errorf("booking record: %w", err)
	}
	end, err := parseDate(field(f, 5))
	if err != nil {
		return BookingRecord{}, fmt.Errorf("booking record: %w", err)
	}
	return BookingRecord{
		Booking:            field(f, 0),
		BookingDescription: field(f, 1),
		Name:               field(f, 2),
		ScheduleDayType:    parseInt(field(f, 3)),
		StartDate:          start,
		EndDate:            end,
		Contract:           field(f, 6),
	}, nil
}

// VehicleScheduleRecord (type 3) describes the schedule scenario. Only
// ScheduleType is consumed downstream (day-type resolution).
type VehicleScheduleRecord struct {
	Name         string
	ScheduleType int
	Scenario     int
	Owner        string
	StartDate    time.Time
	EndDate      time.Time
	EditDate     time.Time
	EditTime     time.Time
}

func parseVehicleScheduleRecord(f []string) (VehicleScheduleRecord, error) {
	start, err := parseDate(field(f, 4))
	if err != nil {
		return VehicleScheduleRecord{}, fmt.Errorf("vehicle schedule record: %w", err)
	}
	end, err := parseDate(field(f, 5))
	if err != nil {
		return VehicleScheduleRecord{}, fmt.Errorf("vehicle schedule record: %w", err)
	}
	editDate, err := parseDate(field(f, 6))
	if err != nil {
		return VehicleScheduleRecord{}, fmt.Errorf("vehicle schedule record: %w", err)
	}
	editTime, err := parseTime(field(f, 7))
	if err != nil {
		return VehicleScheduleRecord{}, fmt.Errorf("vehicle schedule record: %w", err)
	}
	return VehicleScheduleRecord{
		Name:         field(f, 0),
		ScheduleType: parseInt(field(f, 1)),
		Scenario:     parseInt(field(f, 2)),
		Owner:        field(f, 3),
		StartDate:    start,
		EndDate:      end,
		EditDate:     editDate,
		EditTime:     editTime,
	}, nil
}

// BlockRecord (type 4) is one vehicle block. Trips reference it by
// InternalNumber; blocks are grouped into vehicle services by
// VehicleServiceName.
type BlockRecord struct {
	InternalNumber     string
	VehicleServiceName string
	SequenceNumber     int
	StartPlace         string
	EndPlace           string
	MainRoute          string
	PrepOutMinutes     int
	PrepInMinutes      int
	VehicleType        int
}

func parseBlockRecord(f []string) (BlockRecord, error) {
	return BlockRecord{
		InternalNumber:     field(f, 0),
		VehicleServiceName: field(f, 1),
		SequenceNumber:     parseInt(field(f, 2)),
		StartPlace:         field(f, 3),
		EndPlace:           field(f, 4),
		MainRoute:          field(f, 5),
		PrepOutMinutes:     parseInt(field(f, 6)),
		PrepInMinutes:      parseInt(field(f, 7)),
		VehicleType:        parseInt(field(f, 8)),
	}, nil
}

// Trip types as written by Hastus. 1 and 2 (pull-out, pull-in) both map to
// a service journey; 3 (transfer) maps to a dry run; everything else is a
// standard journey.
const (
	TripTypeNormal   = 0
	TripTypePullOut  = 1
	TripTypePullIn   = 2
	TripTypeTransfer = 3
)

// TripRecord (type 5) is one trip of a block. Stop records reference it by
// TripInternalNumber.
type TripRecord struct {
	Contract               string
	BlockNumber            string
	TripInternalNumber     string
	TripNumber             int
	TripType               int
	TripRoute              string
	Variant                string
	TripDisplayedName      string
	StartTime              string
	EndTime                string
	Duration               string
	TurnaroundMinutes      int
	LayoverMinutes         int
	Distance               float64
	Note                   string
	Direction              int
	VehicleType            int
	IsVehicleTypeMandatory bool
	IsBackupTrip           bool
	IsExtraTrip            bool
}

func parseTripRecord(f []string) (TripRecord, error) {
	return TripRecord{
		Contract:               field(f, 0),
		BlockNumber:            field(f, 1),
		TripInternalNumber:     field(f, 2),
		TripNumber:             parseInt(field(f, 3)),
		TripType:               parseInt(field(f, 4)),
		TripRoute:              field(f, 5),
		Variant:                field(f, 6),
		TripDisplayedName:      field(f, 7),
		StartTime:              field(f, 8),
		EndTime:                field(f, 9),
		Duration:               field(f, 10),
		TurnaroundMinutes:      parseInt(field(f, 11)),
		LayoverMinutes:         parseInt(field(f, 12)),
		Distance:               parseFloat(field(f, 13)),
		Note:                   field(f, 14),
		Direction:              parseInt(field(f, 15)),
		VehicleType:            parseInt(field(f, 16)),
		IsVehicleTypeMandatory: parseBool(field(f, 17)),
		IsBackupTrip:           parseBool(field(f, 18)),
		IsExtraTrip:            parseBool(field(f, 19)),
	}, nil
}

// Stop-type flags on trip stop records.
const (
	StopTypeTerminal  = "T" // terminal, always a timing point
	StopTypeRegulated = "R" // regulated timing point
)

// Note flags on trip stop records.
const (
	NoteDeparture = "a" // the row defines the departure time
	NoteArrival   = "t" // the row defines the arrival time
)

// TripStopRecord (type 6) is one passing of one stop by one trip. A stop may
// appear in several rows for the same trip, distinguished by Note, when its
// arrival and departure times differ.
type TripStopRecord struct {
	TripInternalNumber string

	// TimingPlace is nil when the field is blank, i.e. the stop is not tied
	// to a timing place.
	TimingPlace *string

	StopID      string
	PassingTime string

	// DistanceFromPreviousStop is nil when the field is not numeric; it is
	// only present when the stop is used as a timing point.
	DistanceFromPreviousStop *float64

	StopType string
	Note     string
}

func parseTripStopRecord(f []string) (TripStopRecord, error) {
	var place *string
	if p := field(f, 1); p != "" {
		place = &p
	}
	return TripStopRecord{
		TripInternalNumber:       field(f, 0),
		TimingPlace:              place,
		StopID:                   field(f, 2),
		PassingTime:              field(f, 7),
		DistanceFromPreviousStop: parseOptionalFloat(field(f, 8)),
		StopType:                 field(f, 9),
		Note:                     field(f, 10),
	}, nil
}

// IsTimingPoint reports whether the row marks the stop as a timing point for
// this trip. Terminals and regulated stops are timing points; anything else
// is a plain passing stop.
func (r TripStopRecord) IsTimingPoint() bool {
	return r.StopType == StopTypeTerminal || r.StopType == StopTypeRegulated
}
