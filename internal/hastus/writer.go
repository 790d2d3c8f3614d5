package hastus

import (
	"fmt"
	"strconv"
	"strings"
)

const fieldSeparator = ";"

// recordTag returns the lowercase wire tag for an export record kind.
// The switch is exhaustive over the sealed ExportRecord set.
func recordTag(r ExportRecord) string {
	switch r.(type) {
	case Place:
		return "place"
	case Route:
		return "route"
	case RouteVariant:
		return "rvariant"
	case RouteVariantPoint:
		return "rvpoint"
	case Stop:
		return "stop"
	case StopDistance:
		return "stpdist"
	default:
		panic(fmt.Sprintf("hastus: unknown export record type %T", r))
	}
}

// encodeField renders one field value for the wire. Transform rules in
// priority order: booleans as 0/1, fixed-accuracy numbers via their own
// formatter, plain integers in decimal, anything else via its natural string
// form with the field separator stripped so an embedded semicolon cannot
// break the row apart.
func encodeField(v any) string {
	switch t := v.(type) {
	case bool:
		return formatBool(t)
	case NumberWithAccuracy:
		return t.Format()
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return strings.ReplaceAll(fmt.Sprint(t), fieldSeparator, "")
	}
}

// WriteRecord renders one record as a CSV line: the tag followed by the
// encoded fields, semicolon-joined.
func WriteRecord(r ExportRecord) string {
	fields := r.Fields()
	parts := make([]string, 0, len(fields)+1)
	parts = append(parts, recordTag(r))
	for _, f := range fields {
		parts = append(parts, encodeField(f))
	}
	return strings.Join(parts, fieldSeparator)
}

// WriteRecords renders a record list as CSV text, one line per record, in
// the order given. Callers own both ordering (routes before their variants
// before their points) and de-duplication; the writer reorders and drops
// nothing.
func WriteRecords(records []ExportRecord) string {
	lines := make([]string, 0, len(records))
	for _, r := range records {
		lines = append(lines, WriteRecord(r))
	}
	return strings.Join(lines, "\n")
}
