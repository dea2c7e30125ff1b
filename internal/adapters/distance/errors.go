package distance

import "errors"

var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrNoRoute            = errors.New("no route between points")
	ErrAddressNotFound    = errors.New("address not found")
)
