package errors

import "errors"

var (
	ErrPropertyNotFound = errors.New("property not found")

	ErrRoomNotFound = errors.New("room not found")

	ErrInvalidID = errors.New("invalid ID format")
)
