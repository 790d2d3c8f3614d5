package domain

import "errors"

// ErrNotFound is returned by repo functions when the backend has no entity
// matching the requested filter (e.g. no routes for the given labels).
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails a business rule (too few stop
// points on a route, first or last stop not a timing point).
// Handlers should map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrMissingRecord is returned by the importer when a required Hastus record
// type (booking, vehicle schedule) is absent from the parsed CSV.
// The whole import is aborted; handlers should map this to HTTP 400.
var ErrMissingRecord = errors.New("required record missing")

// ErrUnknownCode is returned when a schedule-type, vehicle-type or day-type
// code has no entry in the lookup tables supplied by the backend. The wrapped
// message names the offending code and its context so it can be shown to an
// operator as-is.
var ErrUnknownCode = errors.New("unknown code")

// ErrUnmatchedStops is returned when a trip references stop labels that are
// not part of its route's journey pattern. The wrapped message names the
// route and the unmatched labels.
var ErrUnmatchedStops = errors.New("stops not in journey pattern")
