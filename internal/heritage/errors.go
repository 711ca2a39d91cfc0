package heritage

import "errors"

var (
	// ErrSiteNotFound is returned when a heritage site ID does not exist.
	ErrSiteNotFound = errors.New("heritage site not found")

	// ErrCategoryNotFound is returned when a category ID does not exist.
	ErrCategoryNotFound = errors.New("heritage site category not found")

	// ErrUnknownCountry is returned when a jurisdiction references a
	// country/area that does not exist.
	ErrUnknownCountry = errors.New("unknown country or area")

	// ErrNoCountries is returned when a site is saved without any country.
	ErrNoCountries = errors.New("a heritage site needs at least one country or area")
)
