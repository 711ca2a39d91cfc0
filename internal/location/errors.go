package location

import "errors"

var (
	// ErrCountryNotFound is returned when a country/area ID does not exist.
	ErrCountryNotFound = errors.New("country or area not found")
)
