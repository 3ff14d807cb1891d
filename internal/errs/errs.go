// Package errs defines the error taxonomy shared across the stats engine.
//
// The categories matter for propagation: per-item errors (ErrDataShape,
// ErrUnknownTeam) are caught at the smallest unit of work and rendered
// inline, while ErrDataUnavailable aborts the whole report.
package errs

import "github.com/cockroachdb/errors"

var (
	// ErrFetch marks a transient network/HTTP failure after retries are
	// exhausted.
	ErrFetch = errors.New("provider fetch failed")

	// ErrDataShape marks an individual item whose expected fields were
	// absent or malformed. The item is skipped, the batch continues.
	ErrDataShape = errors.New("unexpected data shape")

	// ErrDataUnavailable marks a required top-level structure that is
	// missing entirely, e.g. no teams list at all.
	ErrDataUnavailable = errors.New("provider data unavailable")

	// ErrUnknownTeam marks an abbreviation that does not resolve to a
	// known team.
	ErrUnknownTeam = errors.New("unknown team abbreviation")

	// ErrConfig marks a feature whose required credential or parameter is
	// absent. The feature no-ops rather than crashing the service.
	ErrConfig = errors.New("missing configuration")
)

// Fetch wraps err as a fetch-layer failure.
func Fetch(err error) error {
	if err == nil {
		return nil
	}
	return errors.Mark(err, ErrFetch)
}

// DataShape wraps err as a malformed-item failure.
func DataShape(err error) error {
	if err == nil {
		return nil
	}
	return errors.Mark(err, ErrDataShape)
}

// IsFetch reports whether err is a fetch-layer failure.
func IsFetch(err error) bool { return errors.Is(err, ErrFetch) }

// IsDataShape reports whether err is a malformed-item failure.
func IsDataShape(err error) bool { return errors.Is(err, ErrDataShape) }

// IsDataUnavailable reports whether err is a missing required structure.
func IsDataUnavailable(err error) bool { return errors.Is(err, ErrDataUnavailable) }

// IsUnknownTeam reports whether err is an unresolvable abbreviation.
func IsUnknownTeam(err error) bool { return errors.Is(err, ErrUnknownTeam) }

// IsConfig reports whether err is a missing credential or parameter.
func IsConfig(err error) bool { return errors.Is(err, ErrConfig) }
