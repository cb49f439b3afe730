package service

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Domain errors. Handlers map these to response codes; anything else is a
// 500.
var (
	ErrAircraftNotFound  = errors.New("aircraft not found")
	ErrComponentNotFound = errors.New("component not found")
	ErrRecordNotFound    = errors.New("maintenance record not found")
	ErrBatchNotFound     = errors.New("maintenance batch not found")

	ErrInvalidComponentType = errors.New("unknown component type")
	ErrInvalidParent        = errors.New("parent must be exactly one level up")
	ErrDuplicateAttached    = errors.New("an attached component with this name or part number already exists at this level")
	ErrDuplicateSerial      = errors.New("serial number already in use")
	ErrDetachedFromTree     = errors.New("component is not reachable from any aircraft")
	ErrNotAttached          = errors.New("component is not attached")

	ErrInvalidDates     = errors.New("end date must be after start date")
	ErrNegativeHours    = errors.New("hours must be positive")
	ErrAlreadyClosed    = errors.New("maintenance record is already completed or cancelled")
	ErrAlreadyScheduled = errors.New("component already has an open maintenance record")
	ErrMissingFields    = errors.New("required fields missing")

	ErrFlightTooShort = errors.New("flight time under the 30 minute minimum")
	ErrLandingBefore  = errors.New("landing must be after takeoff")

	ErrStorageUnavailable = errors.New("object storage not configured")
)

// isUniqueViolation reports whether err is the postgres duplicate-key error.
// Serial uniqueness is ultimately enforced by the index, so concurrent
// inserts that slip past the pre-checks still surface as ErrDuplicateSerial.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
