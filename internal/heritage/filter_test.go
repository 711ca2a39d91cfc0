package heritage

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter(t *testing.T) {
	f, errs := ParseFilter(url.Values{
		"site_name":      {" Rome "},
		"category":       {"1"},
		"region":         {"4"},
		"country":        {"11"},
		"date_inscribed": {"1980"},
		"ordering":       {"-date_inscribed"},
	})
	require.False(t, errs.Any())

	assert.Equal(t, "Rome", f.Name)
	assert.Equal(t, int64(1), f.CategoryID)
	assert.Equal(t, int64(4), f.RegionID)
	assert.Equal(t, int64(11), f.CountryID)
	require.NotNil(t, f.DateInscribed)
	assert.Equal(t, 1980, *f.DateInscribed)
	assert.Equal(t, "-date_inscribed", f.Ordering)
	assert.False(t, f.IsZero())
}

func TestParseFilter_MalformedFieldsIgnored(t *testing.T) {
	f, errs := ParseFilter(url.Values{
		"region":         {"europe"},
		"sub_region":     {"-2"},
		"date_inscribed": {"x"},
		"ordering":       {"description; DROP TABLE heritage_sites"},
	})

	assert.NotEmpty(t, errs.Get("region"))
	assert.NotEmpty(t, errs.Get("sub_region"))
	assert.NotEmpty(t, errs.Get("date_inscribed"))
	assert.NotEmpty(t, errs.Get("ordering"))
	assert.True(t, f.IsZero())
	assert.Equal(t, DefaultOrdering, f.Ordering)
}

func TestFilter_Values(t *testing.T) {
	year := 2001
	f := Filter{Name: "Town", CountryID: 3, DateInscribed: &year, Ordering: DefaultOrdering}

	v := f.Values()
	assert.Equal(t, "Town", v.Get("site_name"))
	assert.Equal(t, "3", v.Get("country"))
	assert.Equal(t, "2001", v.Get("date_inscribed"))
	assert.Empty(t, v.Get("ordering"))
	assert.Empty(t, v.Get("region"))

	parsed, errs := ParseFilter(v)
	require.False(t, errs.Any())
	assert.Equal(t, f, parsed)
}

func TestContainsPattern_EscapesWildcards(t *testing.T) {
	assert.Equal(t, `%100\%\_x%`, containsPattern("100%_x"))
}
