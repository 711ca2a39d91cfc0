package location

import "strings"

// RegionName returns the most specific populated level of the country's
// location: intermediate region, then sub-region, then region, then the
// planet's UNSD name. It returns "" when none is set.
func (c CountryArea) RegionName() string {
	loc := c.Location
	if loc == nil {
		return ""
	}
	if loc.IntermediateRegion != nil && strings.TrimSpace(loc.IntermediateRegion.Name) != "" {
		return strings.TrimSpace(loc.IntermediateRegion.Name)
	}
	if loc.SubRegion != nil && strings.TrimSpace(loc.SubRegion.Name) != "" {
		return strings.TrimSpace(loc.SubRegion.Name)
	}
	if loc.Region != nil && strings.TrimSpace(loc.Region.Name) != "" {
		return strings.TrimSpace(loc.Region.Name)
	}
	if loc.Planet != nil {
		return strings.TrimSpace(loc.Planet.UNSDName)
	}
	return ""
}

// RegionSummary joins the distinct region names of countries with ", ",
// keeping first-seen order and skipping countries with no region.
func RegionSummary(countries []CountryArea) string {
	seen := make(map[string]bool, len(countries))
	names := make([]string, 0, len(countries))
	for _, c := range countries {
		name := c.RegionName()
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}

// CountrySummary joins the trimmed country names with ", ".
func CountrySummary(countries []CountryArea) string {
	names := make([]string, 0, len(countries))
	for _, c := range countries {
		names = append(names, strings.TrimSpace(c.Name))
	}
	return strings.Join(names, ", ")
}
