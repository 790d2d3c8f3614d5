package domain

import (
	"time"

	"github.com/google/uuid"
)

// JourneyType classifies a vehicle journey.
type JourneyType int

const (
	// JourneyTypeStandard is a regular timetabled journey.
	JourneyTypeStandard JourneyType = iota
	// JourneyTypeServiceJourney covers pull-out and pull-in trips.
	JourneyTypeServiceJourney
	// JourneyTypeDryRun is a transfer trip without passengers.
	JourneyTypeDryRun
)

// String returns the backend's enum literal for the journey type.
func (jt JourneyType) String() string {
	switch jt {
	case JourneyTypeServiceJourney:
		return "SERVICE_JOURNEY"
	case JourneyTypeDryRun:
		return "DRY_RUN"
	default:
		return "STANDARD"
	}
}

// VehicleScheduleFrame is the top-level aggregate produced by an import:
// one Hastus CSV file becomes exactly one frame.
type VehicleScheduleFrame struct {
	Name               string
	Label              string
	BookingLabel       string
	BookingDescription string
	ValidityStart      time.Time
	ValidityEnd        time.Time
	VehicleServices    []VehicleService
}

// VehicleService groups the blocks operated under one day type.
type VehicleService struct {
	Name      string
	DayTypeID uuid.UUID
	Blocks    []Block
}

// Block is a vehicle's continuous sequence of journeys between pull-out
// and pull-in.
type Block struct {
	Name              string
	PreparingDuration time.Duration
	FinishingDuration time.Duration
	VehicleTypeID     uuid.UUID
	VehicleJourneys   []VehicleJourney
}

// VehicleJourney is one trip of a block along a single journey pattern.
type VehicleJourney struct {
	Name                   string
	DisplayedName          string
	JourneyType            JourneyType
	TurnaroundTime         time.Duration
	LayoverTime            time.Duration
	IsVehicleTypeMandatory bool
	IsBackupJourney        bool
	IsExtraJourney         bool
	JourneyPatternID       uuid.UUID
	PassingTimes           []PassingTime
}

// PassingTime records when a journey passes one stop point.
//
// Arrival and Departure are durations from the start of the operating day,
// not wall-clock times: hours beyond 24 represent next-day times (25:30 is
// half past one in the morning of the following day). Arrival is nil at the
// first stop of a journey and Departure is nil at the last.
type PassingTime struct {
	StopLabel string
	Arrival   *time.Duration
	Departure *time.Duration
}
