// Package hastus implements the Hastus CSV interchange dialect: the typed
// record models for both transfer directions, the positional field parsers,
// the fixed-accuracy value formatting, and the reader/writer that move whole
// files in and out of record lists.
//
// The dialect is fixed-column and semicolon-delimited, with no quoting and no
// header row. encoding/csv is deliberately not used here: its quoting rules
// do not exist in the Hastus format and would corrupt rows on write.
package hastus

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NumberWithAccuracy wraps a numeric value together with its fixed wire
// accuracy: Leading is the minimum number of digits before the decimal point
// and Digits the exact number after it.
//
// With Leading == 0 the rendered form has no zero before the point (".500");
// with Digits == 0 it has no point at all ("05").
type NumberWithAccuracy struct {
	Value   float64
	Leading int
	Digits  int
}

// Format renders the value as a fixed-point, locale-independent string.
func (n NumberWithAccuracy) Format() string {
	s := strconv.FormatFloat(n.Value, 'f', n.Digits, 64)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	for len(intPart) < n.Leading {
		intPart = "0" + intPart
	}
	if n.Leading == 0 && intPart == "0" {
		intPart = ""
	}

	out := intPart
	if hasFrac {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}

// formatBool renders a boolean the way Hastus expects it.
func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// FormatDuration renders a duration as HH:MM. Hours are not wrapped modulo
// 24, so next-day times render as values like "25:30".
func FormatDuration(d time.Duration) string {
	total := int(d.Minutes())
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// ParseDuration parses an HH:MM string produced by FormatDuration.
func ParseDuration(s string) (time.Duration, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("hastus.ParseDuration: %q is not HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("hastus.ParseDuration: %q is not HH:MM", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("hastus.ParseDuration: %q is not HH:MM", s)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}

// ParsePassingTime decodes an HHMM passing-time string into a duration from
// the start of the operating day. Hours may exceed 24 ("2530" is valid and
// means 01:30 on the following day). The numeric parse is lenient like every
// other Hastus numeric field.
func ParsePassingTime(s string) time.Duration {
	if len(s) < 3 {
		return time.Duration(parseInt(s)) * time.Minute
	}
	h := parseInt(s[:len(s)-2])
	m := parseInt(s[len(s)-2:])
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute
}

// parseInt parses a Hastus integer field leniently: empty or non-numeric
// input yields 0, never an error.
func parseInt(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

// parseFloat parses a Hastus decimal field leniently, like parseInt.
func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0.0
	}
	return v
}

// parseOptionalFloat returns nil when the field is not parseable as a number.
// The nil, not a zero value, is what downstream logic keys on: an absent
// distance marks a stop record that is not used as a timing point.
func parseOptionalFloat(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseBool interprets a Hastus flag field: any positive integer is true.
func parseBool(s string) bool {
	return parseInt(s) > 0
}

// parseDate parses a yyyyMMdd date field.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("20060102", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("hastus: invalid date %q", s)
	}
	return t, nil
}

// parseTime parses an HHmmss time-of-day field. Hastus appends fractional
// garbage to some time fields, so input is truncated to six characters
// before parsing.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > 6 {
		s = s[:6]
	}
	t, err := time.Parse("150405", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("hastus: invalid time %q", s)
	}
	return t, nil
}
