// Package location models the geographic side of the catalog: countries and
// areas, their development status, and the planet > region > sub-region >
// intermediate-region hierarchy each country sits in.
//
// The hierarchy is read-only reference data loaded by migrations. It drives
// the region label shown on a site's detail page and the region filters of
// the site search.
package location
