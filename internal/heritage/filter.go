package heritage

import (
	"net/url"
	"strconv"
	"strings"
)

// Orderings accepted by Filter, mapped to their ORDER BY clause.
var orderings = map[string]string{
	"site_name":       "hs.site_name ASC, hs.heritage_site_id ASC",
	"-site_name":      "hs.site_name DESC, hs.heritage_site_id DESC",
	"date_inscribed":  "hs.date_inscribed ASC, hs.site_name ASC",
	"-date_inscribed": "hs.date_inscribed DESC, hs.site_name ASC",
}

// DefaultOrdering is used when no ordering is requested.
const DefaultOrdering = "site_name"

// Filter narrows a site listing. Zero values mean "no constraint".
type Filter struct {
	Name                 string
	Description          string
	CategoryID           int64
	RegionID             int64
	SubRegionID          int64
	IntermediateRegionID int64
	CountryID            int64
	DateInscribed        *int
	Ordering             string
	Limit                int
}

// IsZero reports whether the filter has no constraints.
func (f Filter) IsZero() bool {
	return f.Name == "" && f.Description == "" && f.CategoryID == 0 &&
		f.RegionID == 0 && f.SubRegionID == 0 && f.IntermediateRegionID == 0 &&
		f.CountryID == 0 && f.DateInscribed == nil
}

// ParseFilter reads a filter from query parameters. Malformed values are
// reported per field and left unconstrained.
func ParseFilter(values url.Values) (Filter, FieldErrors) {
	errs := FieldErrors{}
	f := Filter{
		Name:        strings.TrimSpace(values.Get("site_name")),
		Description: strings.TrimSpace(values.Get("description")),
		Ordering:    DefaultOrdering,
	}

	ids := []struct {
		field string
		dest  *int64
	}{
		{"category", &f.CategoryID},
		{"region", &f.RegionID},
		{"sub_region", &f.SubRegionID},
		{"intermediate_region", &f.IntermediateRegionID},
		{"country", &f.CountryID},
	}
	for _, p := range ids {
		raw := strings.TrimSpace(values.Get(p.field))
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			errs.Add(p.field, "Select a valid choice.")
			continue
		}
		*p.dest = id
	}

	if raw := strings.TrimSpace(values.Get("date_inscribed")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			errs.Add("date_inscribed", "Enter a whole number.")
		} else {
			f.DateInscribed = &year
		}
	}

	if raw := strings.TrimSpace(values.Get("ordering")); raw != "" {
		if _, ok := orderings[raw]; ok {
			f.Ordering = raw
		} else {
			errs.Add("ordering", "Select a valid choice.")
		}
	}

	return f, errs
}

// Values encodes the filter back into query parameters, omitting unset fields.
func (f Filter) Values() url.Values {
	v := url.Values{}
	set := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	setID := func(key string, id int64) {
		if id > 0 {
			v.Set(key, strconv.FormatInt(id, 10))
		}
	}

	set("site_name", f.Name)
	set("description", f.Description)
	setID("category", f.CategoryID)
	setID("region", f.RegionID)
	setID("sub_region", f.SubRegionID)
	setID("intermediate_region", f.IntermediateRegionID)
	setID("country", f.CountryID)
	if f.DateInscribed != nil {
		v.Set("date_inscribed", strconv.Itoa(*f.DateInscribed))
	}
	if f.Ordering != "" && f.Ordering != DefaultOrdering {
		v.Set("ordering", f.Ordering)
	}
	return v
}

// jurisdictionLocation matches sites with at least one country whose
// location has the given column value.
const jurisdictionLocation = `EXISTS (
	SELECT 1 FROM heritage_site_jurisdictions j
	JOIN country_areas ca ON ca.country_area_id = j.country_area_id
	JOIN locations l ON l.location_id = ca.location_id
	WHERE j.heritage_site_id = hs.heritage_site_id AND l.%s = ?)`

func (f Filter) whereClause() (string, []any) {
	var (
		conds []string
		args  []any
	)

	if f.Name != "" {
		conds = append(conds, `hs.site_name LIKE ? ESCAPE '\'`)
		args = append(args, containsPattern(f.Name))
	}
	if f.Description != "" {
		conds = append(conds, `hs.description LIKE ? ESCAPE '\'`)
		args = append(args, containsPattern(f.Description))
	}
	if f.CategoryID > 0 {
		conds = append(conds, "hs.heritage_site_category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.RegionID > 0 {
		conds = append(conds, strings.Replace(jurisdictionLocation, "%s", "region_id", 1))
		args = append(args, f.RegionID)
	}
	if f.SubRegionID > 0 {
		conds = append(conds, strings.Replace(jurisdictionLocation, "%s", "sub_region_id", 1))
		args = append(args, f.SubRegionID)
	}
	if f.IntermediateRegionID > 0 {
		conds = append(conds, strings.Replace(jurisdictionLocation, "%s", "intermediate_region_id", 1))
		args = append(args, f.IntermediateRegionID)
	}
	if f.CountryID > 0 {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM heritage_site_jurisdictions j
			WHERE j.heritage_site_id = hs.heritage_site_id AND j.country_area_id = ?)`)
		args = append(args, f.CountryID)
	}
	if f.DateInscribed != nil {
		conds = append(conds, "hs.date_inscribed = ?")
		args = append(args, *f.DateInscribed)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (f Filter) orderClause() string {
	if clause, ok := orderings[f.Ordering]; ok {
		return clause
	}
	return orderings[DefaultOrdering]
}

// containsPattern builds a case-insensitive LIKE pattern matching s anywhere.
func containsPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
