package location

// Planet is the root of the location hierarchy.
type Planet struct {
	ID       int64
	Name     string
	UNSDName string
}

// Region is a continental grouping (Africa, Europe, ...).
type Region struct {
	ID       int64
	Name     string
	PlanetID int64
}

// SubRegion subdivides a Region.
type SubRegion struct {
	ID       int64
	Name     string
	RegionID int64
}

// IntermediateRegion subdivides a SubRegion. Only some sub-regions have them.
type IntermediateRegion struct {
	ID          int64
	Name        string
	SubRegionID int64
}

// Location places a country in the hierarchy. Planet is always set; the
// lower levels are nil when the country is not assigned to one.
type Location struct {
	ID                 int64
	Planet             *Planet
	Region             *Region
	SubRegion          *SubRegion
	IntermediateRegion *IntermediateRegion
}

// DevStatus is a development classification (Developed, Developing).
type DevStatus struct {
	ID   int64
	Name string
}

// CountryArea is a country or area that can hold jurisdiction over a site.
type CountryArea struct {
	ID        int64
	Name      string
	M49Code   int
	ISOAlpha3 string
	Location  *Location
	DevStatus *DevStatus
}

// DevStatusName returns the status name, or "" when unclassified.
func (c CountryArea) DevStatusName() string {
	if c.DevStatus == nil {
		return ""
	}
	return c.DevStatus.Name
}
