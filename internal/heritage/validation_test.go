package heritage

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validValues() url.Values {
	return url.Values{
		"site_name":      {"  Lamu Old Town "},
		"description":    {"Oldest Swahili settlement in East Africa."},
		"justification":  {""},
		"date_inscribed": {"2001"},
		"longitude":      {"40.9"},
		"latitude":       {"-2.27"},
		"area_hectares":  {"15.6"},
		"category":       {"1"},
		"country_area":   {"3", "3"},
	}
}

func TestSiteForm_Validate_Valid(t *testing.T) {
	site, countries, errs := FormFromValues(validValues()).Validate()
	require.False(t, errs.Any(), "unexpected errors: %v", errs)

	assert.Equal(t, "Lamu Old Town", site.Name)
	require.NotNil(t, site.DateInscribed)
	assert.Equal(t, 2001, *site.DateInscribed)
	require.NotNil(t, site.Latitude)
	assert.InDelta(t, -2.27, *site.Latitude, 1e-9)
	assert.Equal(t, int64(1), site.CategoryID)
	assert.Equal(t, []int64{3}, countries)
}

func TestSiteForm_Validate_OptionalFieldsEmpty(t *testing.T) {
	v := validValues()
	v.Set("date_inscribed", "")
	v.Set("longitude", "")
	v.Set("latitude", "")
	v.Set("area_hectares", "")

	site, _, errs := FormFromValues(v).Validate()
	require.False(t, errs.Any())
	assert.Nil(t, site.DateInscribed)
	assert.Nil(t, site.Longitude)
	assert.Nil(t, site.Latitude)
	assert.Nil(t, site.AreaHectares)
}

func TestSiteForm_Validate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value []string
	}{
		{"missing name", "site_name", []string{""}},
		{"long name", "site_name", []string{strings.Repeat("x", 256)}},
		{"missing description", "description", []string{" "}},
		{"year not a number", "date_inscribed", []string{"nineteen"}},
		{"year too short", "date_inscribed", []string{"99"}},
		{"longitude out of range", "longitude", []string{"200"}},
		{"latitude not a number", "latitude", []string{"north"}},
		{"negative area", "area_hectares", []string{"-1"}},
		{"missing category", "category", []string{""}},
		{"bad category", "category", []string{"abc"}},
		{"no countries", "country_area", nil},
		{"bad country", "country_area", []string{"3", "zero"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validValues()
			if tt.value == nil {
				v.Del(tt.field)
			} else {
				v[tt.field] = tt.value
			}
			_, _, errs := FormFromValues(v).Validate()
			assert.NotEmpty(t, errs.Get(tt.field), "expected error on %s, got %v", tt.field, errs)
			assert.Len(t, errs, 1)
		})
	}
}

func TestFormFromSite_RoundTrip(t *testing.T) {
	year := 1987
	lat := 29.9792
	site := &Site{Name: "Memphis", Description: "Necropolis", DateInscribed: &year, Latitude: &lat, CategoryID: 1}

	form := FormFromSite(site, []int64{2})
	assert.Equal(t, "1987", form.DateInscribed)
	assert.Equal(t, "29.9792", form.Latitude)
	assert.Empty(t, form.Longitude)
	assert.True(t, form.HasCountry(2))
	assert.False(t, form.HasCountry(3))

	_, countries, errs := form.Validate()
	require.False(t, errs.Any(), "%v", errs)
	assert.Equal(t, []int64{2}, countries)
}
