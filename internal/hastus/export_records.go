package hastus

// ExportRecord is the closed set of record kinds written to a Hastus export
// CSV. Each record emits its ordered field list; the writer prepends the
// record-type tag and applies the uniform field encoding.
type ExportRecord interface {
	// Fields returns the record's values in wire order, excluding the tag.
	Fields() []any
}

// Place describes one timing place.
type Place struct {
	Identifier  string
	Description string
}

func (p Place) Fields() []any {
	return []any{p.Identifier, p.Description}
}

// Route describes one line.
type Route struct {
	Identifier  string
	Description string
	ServiceType int
	ServiceMode int
}

func (r Route) Fields() []any {
	return []any{r.Identifier, r.Description, r.ServiceType, r.ServiceMode}
}

// RouteVariant describes one directional variant of a line. Identifier is
// the synthesized composite of the line label and the variant string.
type RouteVariant struct {
	Identifier  string
	Description string
	Direction   int // 0-based on the wire; Jore4 directions are 1-based
	RouteLabel  string
}

func (v RouteVariant) Fields() []any {
	return []any{v.Identifier, v.Description, v.Direction, v.RouteLabel}
}

// RouteVariantPoint is one stop of a route variant.
//
// Place and Distance are present together exactly when the stop is used as a
// timing point; use NewRouteVariantPoint to keep the pairing intact.
type RouteVariantPoint struct {
	Place                  *string
	Distance               *NumberWithAccuracy
	IsTimingPoint          bool
	AllowLoadTime          bool
	IsRegulatedTimingPoint bool
	StopLabel              string
	Sequence               int
	RouteVariantID         string
}

// NewRouteVariantPoint builds a timing-point row when place is non-empty and
// a plain passing row otherwise. The place/distance pairing is enforced
// here: a plain row never carries either value.
func NewRouteVariantPoint(place string, distance NumberWithAccuracy, allowLoad, regulated bool, stopLabel string, sequence int, routeVariantID string) RouteVariantPoint {
	p := RouteVariantPoint{
		AllowLoadTime:          allowLoad,
		IsRegulatedTimingPoint: regulated,
		StopLabel:              stopLabel,
		Sequence:               sequence,
		RouteVariantID:         routeVariantID,
	}
	if place != "" {
		p.Place = &place
		p.Distance = &distance
		p.IsTimingPoint = true
	}
	return p
}

func (p RouteVariantPoint) Fields() []any {
	var place, distance any
	if p.Place != nil {
		place = *p.Place
	} else {
		place = ""
	}
	if p.Distance != nil {
		distance = *p.Distance
	} else {
		distance = ""
	}
	return []any{
		place,
		distance,
		p.IsTimingPoint,
		p.AllowLoadTime,
		p.IsRegulatedTimingPoint,
		p.StopLabel,
		p.Sequence,
		p.RouteVariantID,
	}
}

// Stop is the full descriptor of one scheduled stop point.
type Stop struct {
	Identifier    string
	Platform      string
	NameFinnish   string
	NameSwedish   string
	StreetFinnish string
	StreetSwedish string
	Place         string
	GpsX          NumberWithAccuracy
	GpsY          NumberWithAccuracy
	ShortID       string
}

func (s Stop) Fields() []any {
	return []any{
		s.Identifier,
		s.Platform,
		s.NameFinnish,
		s.NameSwedish,
		s.StreetFinnish,
		s.StreetSwedish,
		s.Place,
		s.GpsX,
		s.GpsY,
		s.ShortID,
	}
}

// StopDistance is the measured distance in meters between two stops. Not
// emitted by the default export path, but part of the record model.
type StopDistance struct {
	StopStart      string
	StopEnd        string
	EditedDistance int
}

func (d StopDistance) Fields() []any {
	return []any{d.StopStart, d.StopEnd, d.EditedDistance}
}
