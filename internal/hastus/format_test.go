package hastus_test

import (
	"fmt"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HSLdevcom/jore4-hastus-sub000/internal/hastus"
)

func TestNumberWithAccuracy_Format(t *testing.T) {
	tests := []struct {
		value   float64
		leading int
		digits  int
		want    string
	}{
		{0.0, 1, 3, "0.000"},
		{1.0, 1, 3, "1.000"},
		{1.2345, 1, 3, "1.234"}, // 1.2345 is 1.23449… as a float64
		{12.5, 1, 3, "12.500"},
		{0.5, 0, 3, ".500"},
		{5.0, 2, 0, "05"},
		{24.123456, 2, 6, "24.123456"},
		{60.1, 2, 6, "60.100000"},
	}
	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			n := hastus.NumberWithAccuracy{Value: tc.value, Leading: tc.leading, Digits: tc.digits}
			assert.Equal(t, tc.want, n.Format())
		})
	}
}

// TestNumberWithAccuracy_roundTrip verifies that formatting then parsing the
// decimal string recovers the value within 10^-digits.
func TestNumberWithAccuracy_roundTrip(t *testing.T) {
	values := []float64{0, 0.001, 0.5, 1, 1.5, 12.345678, 999.999, 1234.5}
	for _, leading := range []int{0, 1, 2, 4} {
		for _, digits := range []int{1, 3, 6} {
			for _, v := range values {
				n := hastus.NumberWithAccuracy{Value: v, Leading: leading, Digits: digits}
				s := n.Format()

				parsed, err := strconv.ParseFloat(s, 64)
				require.NoError(t, err, "formatted value %q must parse back", s)

				tolerance := math.Pow(10, -float64(digits))
				assert.InDelta(t, v, parsed, tolerance,
					"round trip of %v with leading=%d digits=%d gave %q", v, leading, digits, s)
			}
		}
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "05:04", hastus.FormatDuration(5*time.Hour+4*time.Minute))
	// Hours beyond 24 represent next-day times and are not wrapped.
	assert.Equal(t, "25:30", hastus.FormatDuration(25*time.Hour+30*time.Minute))
	assert.Equal(t, "00:00", hastus.FormatDuration(0))
}

func TestParseDuration(t *testing.T) {
	d, err := hastus.ParseDuration("25:30")
	require.NoError(t, err)
	assert.Equal(t, 25*time.Hour+30*time.Minute, d)

	_, err = hastus.ParseDuration("2530")
	assert.Error(t, err)

	_, err = hastus.ParseDuration("xx:yy")
	assert.Error(t, err)
}

func TestParseDuration_roundTrip(t *testing.T) {
	for _, d := range []time.Duration{
		0,
		4 * time.Minute,
		5*time.Hour + 4*time.Minute,
		25*time.Hour + 30*time.Minute,
	} {
		t.Run(fmt.Sprint(d), func(t *testing.T) {
			parsed, err := hastus.ParseDuration(hastus.FormatDuration(d))
			require.NoError(t, err)
			assert.Equal(t, d, parsed)
		})
	}
}

func TestParsePassingTime(t *testing.T) {
	assert.Equal(t, 5*time.Hour+4*time.Minute, hastus.ParsePassingTime("0504"))
	// Hours beyond 24 are valid next-day times.
	assert.Equal(t, 25*time.Hour+30*time.Minute, hastus.ParsePassingTime("2530"))
	assert.Equal(t, 9*time.Hour+15*time.Minute, hastus.ParsePassingTime("915"))
	// Lenient like every Hastus numeric field: garbage decodes to zero.
	assert.Equal(t, time.Duration(0), hastus.ParsePassingTime(""))
	assert.Equal(t, time.Duration(0), hastus.ParsePassingTime("xxyy"))
}
