package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func country(name string, loc *Location) CountryArea {
	return CountryArea{Name: name, Location: loc}
}

func chain(planetUNSD, region, sub, inter string) *Location {
	loc := &Location{Planet: &Planet{Name: "Earth", UNSDName: planetUNSD}}
	if region != "" {
		loc.Region = &Region{Name: region}
	}
	if sub != "" {
		loc.SubRegion = &SubRegion{Name: sub}
	}
	if inter != "" {
		loc.IntermediateRegion = &IntermediateRegion{Name: inter}
	}
	return loc
}

func TestRegionName_Fallback(t *testing.T) {
	tests := []struct {
		name string
		loc  *Location
		want string
	}{
		{"intermediate region wins", chain("World", "Africa", "Sub-Saharan Africa", "Eastern Africa"), "Eastern Africa"},
		{"sub-region when no intermediate", chain("World", "Europe", "Southern Europe", ""), "Southern Europe"},
		{"region when no sub-region", chain("World", "Oceania", "", ""), "Oceania"},
		{"planet unsd name as last resort", chain("World", "", "", ""), "World"},
		{"blank intermediate falls through", &Location{
			Planet:             &Planet{UNSDName: "World"},
			SubRegion:          &SubRegion{Name: "Northern America"},
			IntermediateRegion: &IntermediateRegion{Name: "  "},
		}, "Northern America"},
		{"nothing populated", &Location{Planet: &Planet{}}, ""},
		{"no location", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, country("X", tt.loc).RegionName())
		})
	}
}

func TestRegionName_NonEmptyWhenAnyLevelSet(t *testing.T) {
	levels := []*Location{
		{Planet: &Planet{UNSDName: "World"}},
		{Planet: &Planet{}, Region: &Region{Name: "Asia"}},
		{Planet: &Planet{}, SubRegion: &SubRegion{Name: "Eastern Asia"}},
		{Planet: &Planet{}, IntermediateRegion: &IntermediateRegion{Name: "Caribbean"}},
	}
	for _, loc := range levels {
		assert.NotEmpty(t, country("X", loc).RegionName())
	}
}

func TestRegionSummary(t *testing.T) {
	countries := []CountryArea{
		country("Italy", chain("World", "Europe", "Southern Europe", "")),
		country("Holy See", chain("World", "Europe", "Southern Europe", "")),
		country("France", chain("World", "Europe", "Western Europe", "")),
		country("Nowhere", &Location{Planet: &Planet{}}),
	}

	assert.Equal(t, "Southern Europe, Western Europe", RegionSummary(countries))
	assert.Equal(t, "", RegionSummary(nil))
}

func TestRegionSummary_SkipsCountriesWithoutLabel(t *testing.T) {
	unplaced := country("Unplaced", &Location{Planet: &Planet{}})

	mixed := []CountryArea{unplaced, country("Peru", chain("World", "Americas", "Latin America", "South America")), unplaced}
	assert.Equal(t, "South America", RegionSummary(mixed))

	assert.Equal(t, "", RegionSummary([]CountryArea{unplaced, unplaced}))
}

func TestCountrySummary(t *testing.T) {
	countries := []CountryArea{
		{Name: "  Canada "},
		{Name: "United States of America"},
	}

	assert.Equal(t, "Canada, United States of America", CountrySummary(countries))
	assert.Equal(t, "", CountrySummary([]CountryArea{}))
}

func TestDevStatusName(t *testing.T) {
	assert.Equal(t, "", CountryArea{}.DevStatusName())
	assert.Equal(t, "Developed", CountryArea{DevStatus: &DevStatus{Name: "Developed"}}.DevStatusName())
}
