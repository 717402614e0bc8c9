package errors

import "errors"

var (
	ErrNotFound = errors.New("reservation not found")

	ErrInvalidID = errors.New("invalid reservation ID format")

	// ErrLockContention means another request holds the room's advisory
	// lock right now.
	ErrLockContention = errors.New("room is locked by another request")
)
