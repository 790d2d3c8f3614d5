package service

import (
	"errors"
	"fmt"

	"github.com/HSLdevcom/jore4-hastus-sub000/internal/domain"
)

// ValidateLine runs the pre-export structural checks on every route of the
// line. Hastus rejects route variants that do not start and end at a timing
// point, so catching these before serialization gives the operator a usable
// error instead of a failed Hastus import.
//
// All failed conditions are reported, joined into one error; each wraps
// domain.ErrValidation. A route can trigger several conditions at once.
func ValidateLine(line domain.Line) error {
	var errs []error
	for _, route := range line.Routes {
		errs = append(errs, validateRoute(route)...)
	}
	return errors.Join(errs...)
}

func validateRoute(route domain.Route) []error {
	var errs []error

	if len(route.StopsOnRoute) < 2 {
		errs = append(errs, fmt.Errorf("route %s: too few stop points: %w", route.Label, domain.ErrValidation))
		return errs
	}

	first := route.StopsOnRoute[0]
	if !isValidTimingPoint(first) {
		errs = append(errs, fmt.Errorf("route %s: first stop point %s is not a valid timing point: %w", route.Label, first.Label, domain.ErrValidation))
	}

	last := route.StopsOnRoute[len(route.StopsOnRoute)-1]
	if !isValidTimingPoint(last) {
		errs = append(errs, fmt.Errorf("route %s: last stop point %s is not a valid timing point: %w", route.Label, last.Label, domain.ErrValidation))
	}

	return errs
}

// isValidTimingPoint reports whether the stop is flagged as a timing point
// and actually carries a timing place code.
func isValidTimingPoint(sp domain.StopPointInJourneyPattern) bool {
	return sp.IsUsedAsTimingPoint && sp.TimingPlaceCode != nil
}
