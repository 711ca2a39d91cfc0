package heritage

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/asaskevich/govalidator"
)

// FieldErrors maps a form field name to its error message.
type FieldErrors map[string]string

// Add records msg for field unless the field already has an error.
func (e FieldErrors) Add(field, msg string) {
	if _, exists := e[field]; !exists {
		e[field] = msg
	}
}

// Any reports whether at least one error was recorded.
func (e FieldErrors) Any() bool {
	return len(e) > 0
}

// Get returns the error for field, or "".
func (e FieldErrors) Get(field string) string {
	return e[field]
}

// SiteForm holds the raw values of the site create/update form so they can
// be re-rendered unchanged after a failed submission.
type SiteForm struct {
	Name          string
	Description   string
	Justification string
	DateInscribed string
	Longitude     string
	Latitude      string
	AreaHectares  string
	Category      string
	Countries     []string
}

// FormFromValues reads a SiteForm from posted form values.
func FormFromValues(v url.Values) SiteForm {
	return SiteForm{
		Name:          strings.TrimSpace(v.Get("site_name")),
		Description:   strings.TrimSpace(v.Get("description")),
		Justification: strings.TrimSpace(v.Get("justification")),
		DateInscribed: strings.TrimSpace(v.Get("date_inscribed")),
		Longitude:     strings.TrimSpace(v.Get("longitude")),
		Latitude:      strings.TrimSpace(v.Get("latitude")),
		AreaHectares:  strings.TrimSpace(v.Get("area_hectares")),
		Category:      strings.TrimSpace(v.Get("category")),
		Countries:     v["country_area"],
	}
}

// FormFromSite pre-fills a SiteForm from a persisted site.
func FormFromSite(s *Site, countryIDs []int64) SiteForm {
	f := SiteForm{
		Name:          s.Name,
		Description:   s.Description,
		Justification: s.Justification,
		Category:      strconv.FormatInt(s.CategoryID, 10),
	}
	if s.DateInscribed != nil {
		f.DateInscribed = strconv.Itoa(*s.DateInscribed)
	}
	f.Longitude = formatFloat(s.Longitude)
	f.Latitude = formatFloat(s.Latitude)
	f.AreaHectares = formatFloat(s.AreaHectares)
	for _, id := range countryIDs {
		f.Countries = append(f.Countries, strconv.FormatInt(id, 10))
	}
	return f
}

// HasCountry reports whether id is among the selected countries.
func (f SiteForm) HasCountry(id int64) bool {
	want := strconv.FormatInt(id, 10)
	for _, c := range f.Countries {
		if strings.TrimSpace(c) == want {
			return true
		}
	}
	return false
}

// Validate checks the form and converts it into a Site plus the selected
// country IDs. Existence of the category and countries is checked by the
// caller against the repositories.
func (f SiteForm) Validate() (*Site, []int64, FieldErrors) {
	errs := FieldErrors{}
	site := &Site{
		Name:          f.Name,
		Description:   f.Description,
		Justification: f.Justification,
	}

	if !govalidator.StringLength(f.Name, "1", "255") {
		errs.Add("site_name", requiredOrTooLong(f.Name, 255))
	}
	if govalidator.IsNull(f.Description) {
		errs.Add("description", "This field is required.")
	}

	if f.DateInscribed != "" {
		if !govalidator.IsInt(f.DateInscribed) {
			errs.Add("date_inscribed", "Enter a whole number.")
		} else if year, err := strconv.Atoi(f.DateInscribed); err != nil || year < 1000 || year > 9999 {
			errs.Add("date_inscribed", "Enter a four-digit year.")
		} else {
			site.DateInscribed = &year
		}
	}

	site.Longitude = parseBounded(errs, "longitude", f.Longitude, -180, 180)
	site.Latitude = parseBounded(errs, "latitude", f.Latitude, -90, 90)
	site.AreaHectares = parseBounded(errs, "area_hectares", f.AreaHectares, 0, 1e9)

	if f.Category == "" {
		errs.Add("category", "This field is required.")
	} else if id, ok := parseID(f.Category); ok {
		site.CategoryID = id
	} else {
		errs.Add("category", "Select a valid choice.")
	}

	var countryIDs []int64
	for _, raw := range f.Countries {
		id, ok := parseID(strings.TrimSpace(raw))
		if !ok {
			errs.Add("country_area", "Select a valid choice.")
			continue
		}
		countryIDs = append(countryIDs, id)
	}
	countryIDs = UniqueIDs(countryIDs)
	if len(countryIDs) == 0 {
		errs.Add("country_area", "Select at least one country or area.")
	}

	return site, countryIDs, errs
}

func parseID(raw string) (int64, bool) {
	if !govalidator.IsInt(raw) {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parseBounded parses an optional float in [lo, hi]. Empty input is nil.
func parseBounded(errs FieldErrors, field, raw string, lo, hi float64) *float64 {
	if raw == "" {
		return nil
	}
	if !govalidator.IsFloat(raw) {
		errs.Add(field, "Enter a number.")
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !govalidator.InRangeFloat64(v, lo, hi) {
		errs.Add(field, "Enter a value between "+formatFloat(&lo)+" and "+formatFloat(&hi)+".")
		return nil
	}
	return &v
}

func requiredOrTooLong(s string, limit int) string {
	if s == "" {
		return "This field is required."
	}
	return "Ensure this value has at most " + strconv.Itoa(limit) + " characters."
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
