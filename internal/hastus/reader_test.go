package hastus_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HSLdevcom/jore4-hastus-sub000/internal/hastus"
)

func TestParseImportRecords_tripStop(t *testing.T) {
	records, err := hastus.ParseImportRecords("6;12766047;4VARIS;H1234;;;;;0504;0.0;T;")
	require.NoError(t, err)
	require.Len(t, records, 1)

	stop, ok := records[0].(hastus.TripStopRecord)
	require.True(t, ok, "expected a TripStopRecord, got %T", records[0])

	assert.Equal(t, "12766047", stop.TripInternalNumber)
	require.NotNil(t, stop.TimingPlace)
	assert.Equal(t, "4VARIS", *stop.TimingPlace)
	assert.Equal(t, "H1234", stop.StopID)
	assert.Equal(t, "0504", stop.PassingTime)
	require.NotNil(t, stop.DistanceFromPreviousStop)
	assert.Equal(t, 0.0, *stop.DistanceFromPreviousStop)
	assert.Equal(t, "T", stop.StopType)
	assert.Equal(t, "", stop.Note)
	assert.True(t, stop.IsTimingPoint())
}

func TestParseImportRecords_tripStopWithoutTimingPlace(t *testing.T) {
	records, err := hastus.ParseImportRecords("6;12766047;;H1235;;;;;0506;;;")
	require.NoError(t, err)
	require.Len(t, records, 1)

	stop := records[0].(hastus.TripStopRecord)
	assert.Nil(t, stop.TimingPlace, "blank timing place must parse as nil")
	assert.Nil(t, stop.DistanceFromPreviousStop, "blank distance must parse as nil")
	assert.False(t, stop.IsTimingPoint())
}

func TestParseImportRecords_booking(t *testing.T) {
	records, err := hastus.ParseImportRecords("2;BK2024;Kevät 2024;SCHED1;1;20240101;20240630;CONTRACT1;")
	require.NoError(t, err)
	require.Len(t, records, 1)

	booking := records[0].(hastus.BookingRecord)
	assert.Equal(t, "BK2024", booking.Booking)
	assert.Equal(t, "Kevät 2024", booking.BookingDescription)
	assert.Equal(t, "SCHED1", booking.Name)
	assert.Equal(t, 1, booking.ScheduleDayType)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), booking.StartDate)
	assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), booking.EndDate)
	assert.Equal(t, "CONTRACT1", booking.Contract)
}

func TestParseImportRecords_vehicleSchedule(t *testing.T) {
	records, err := hastus.ParseImportRecords("3;SCHED1;13;1;HSL;20240101;20240630;20231215;1215300000;")
	require.NoError(t, err)
	require.Len(t, records, 1)

	vs := records[0].(hastus.VehicleScheduleRecord)
	assert.Equal(t, "SCHED1", vs.Name)
	assert.Equal(t, 13, vs.ScheduleType)
	// Trailing garbage beyond six characters in time fields is ignored.
	assert.Equal(t, 12, vs.EditTime.Hour())
	assert.Equal(t, 15, vs.EditTime.Minute())
	assert.Equal(t, 30, vs.EditTime.Second())
}

func TestParseImportRecords_lenientNumericFields(t *testing.T) {
	// A block record with garbage in every numeric field parses with zeros.
	records, err := hastus.ParseImportRecords("4;B1;SERVICE1;abc;PLACE1;PLACE2;123;x;y;z;")
	require.NoError(t, err)
	require.Len(t, records, 1)

	block := records[0].(hastus.BlockRecord)
	assert.Equal(t, "B1", block.InternalNumber)
	assert.Equal(t, 0, block.SequenceNumber)
	assert.Equal(t, 0, block.PrepOutMinutes)
	assert.Equal(t, 0, block.PrepInMinutes)
	assert.Equal(t, 0, block.VehicleType)
}

func TestParseImportRecords_skipsUnknownAndBlankLines(t *testing.T) {
	csv := "9;something unknown;\n" +
		"\n" +
		"   \n" +
		"4;B1;SERVICE1;1;P1;P2;123;5;5;1;\n" +
		"garbage without separator\n" +
		"5;C1;B1;T1;100;0;123;;display;0500;0600;0100;5;5;10.5;;1;1;0;0;0;\n"

	records, err := hastus.ParseImportRecords(csv)
	require.NoError(t, err)
	require.Len(t, records, 2, "unroutable lines are skipped, not errors")

	// File order is preserved across record kinds.
	_, isBlock := records[0].(hastus.BlockRecord)
	_, isTrip := records[1].(hastus.TripRecord)
	assert.True(t, isBlock)
	assert.True(t, isTrip)
}

func TestParseImportRecords_invalidDateIsFatal(t *testing.T) {
	_, err := hastus.ParseImportRecords("2;BK;desc;SCHED;1;notadate;20240630;C;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}
