package hastus

import (
	"fmt"
	"log/slog"
	"strings"
)

// Record-type discriminators in import files.
const (
	recordTypeApplication     = "1"
	recordTypeBooking         = "2"
	recordTypeVehicleSchedule = "3"
	recordTypeBlock           = "4"
	recordTypeTrip            = "5"
	recordTypeTripStop        = "6"
)

// ParseImportRecords splits raw Hastus CSV text into typed records.
//
// Lines are newline-separated and trimmed; fields are semicolon-separated
// with the first field acting as the record-type discriminator. Blank lines
// and lines with an unrecognized discriminator are skipped, not errors. File
// order is preserved: later stages correlate records by key, and the single
// booking / vehicle schedule records are picked by first occurrence.
func ParseImportRecords(csv string) ([]ImportRecord, error) {
	var records []ImportRecord

	for i, line := range strings.Split(csv, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Split(line, ";")
		discriminator, rest := fields[0], fields[1:]

		var (
			rec ImportRecord
			err error
		)
		switch discriminator {
		case recordTypeApplication:
			rec, err = parseApplicationRecord(rest)
		case recordTypeBooking:
			rec, err = parseBookingRecord(rest)
		case recordTypeVehicleSchedule:
			rec, err = parseVehicleScheduleRecord(rest)
		case recordTypeBlock:
			rec, err = parseBlockRecord(rest)
		case recordTypeTrip:
			rec, err = parseTripRecord(rest)
		case recordTypeTripStop:
			rec, err = parseTripStopRecord(rest)
		default:
			slog.Debug("skipping unrecognized record line",
				"line", i+1,
				"discriminator", discriminator,
			)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("hastus.ParseImportRecords: line %d: %w", i+1, err)
		}
		records = append(records, rec)
	}

	return records, nil
}
