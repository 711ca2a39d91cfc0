package location

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Repository defines read access to countries and the region hierarchy.
type Repository interface {
	ListCountries(ctx context.Context, limit, offset int) ([]CountryArea, int, error)
	ListAllCountries(ctx context.Context) ([]CountryArea, error)
	GetCountry(ctx context.Context, id int64) (*CountryArea, error)
	ListCountriesByIDs(ctx context.Context, ids []int64) ([]CountryArea, error)

	ListRegions(ctx context.Context) ([]Region, error)
	ListSubRegions(ctx context.Context) ([]SubRegion, error)
	ListIntermediateRegions(ctx context.Context) ([]IntermediateRegion, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed location repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// countrySelect joins a country with its full location chain and dev status.
const countrySelect = `SELECT ca.country_area_id, ca.country_area_name, ca.m49_code, ca.iso_alpha3_code,
		l.location_id, p.planet_id, p.planet_name, p.unsd_name,
		r.region_id, r.region_name,
		sr.sub_region_id, sr.sub_region_name,
		ir.intermediate_region_id, ir.intermediate_region_name,
		ds.dev_status_id, ds.dev_status_name
	FROM country_areas ca
	JOIN locations l ON l.location_id = ca.location_id
	JOIN planets p ON p.planet_id = l.planet_id
	LEFT JOIN regions r ON r.region_id = l.region_id
	LEFT JOIN sub_regions sr ON sr.sub_region_id = l.sub_region_id
	LEFT JOIN intermediate_regions ir ON ir.intermediate_region_id = l.intermediate_region_id
	LEFT JOIN dev_statuses ds ON ds.dev_status_id = ca.dev_status_id`

// ListCountries returns one page of countries ordered by name, plus the total count.
func (r *SQLiteRepository) ListCountries(ctx context.Context, limit, offset int) ([]CountryArea, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM country_areas").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting countries: %w", err)
	}

	countries, err := r.queryCountries(ctx,
		countrySelect+" ORDER BY ca.country_area_name LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return countries, total, nil
}

// ListAllCountries returns every country ordered by name.
func (r *SQLiteRepository) ListAllCountries(ctx context.Context) ([]CountryArea, error) {
	return r.queryCountries(ctx, countrySelect+" ORDER BY ca.country_area_name")
}

// GetCountry returns a single country by ID.
func (r *SQLiteRepository) GetCountry(ctx context.Context, id int64) (*CountryArea, error) {
	row := r.db.QueryRowContext(ctx, countrySelect+" WHERE ca.country_area_id = ?", id)
	c, err := scanCountry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCountryNotFound
		}
		return nil, err
	}
	return c, nil
}

// ListCountriesByIDs returns the countries among ids that exist, ordered by
// name. Unknown IDs are skipped; callers compare lengths to detect them.
func (r *SQLiteRepository) ListCountriesByIDs(ctx context.Context, ids []int64) ([]CountryArea, error) {
	if len(ids) == 0 {
		return []CountryArea{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := countrySelect + " WHERE ca.country_area_id IN (" + placeholders + ") ORDER BY ca.country_area_name" //nolint:gosec // placeholders only
	return r.queryCountries(ctx, query, args...)
}

// ListRegions returns all regions ordered by name.
func (r *SQLiteRepository) ListRegions(ctx context.Context) ([]Region, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT region_id, region_name, planet_id FROM regions ORDER BY region_name")
	if err != nil {
		return nil, fmt.Errorf("querying regions: %w", err)
	}
	defer rows.Close()

	regions := []Region{}
	for rows.Next() {
		var reg Region
		if err := rows.Scan(&reg.ID, &reg.Name, &reg.PlanetID); err != nil {
			return nil, fmt.Errorf("scanning region row: %w", err)
		}
		regions = append(regions, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating region rows: %w", err)
	}
	return regions, nil
}

// ListSubRegions returns all sub-regions ordered by name.
func (r *SQLiteRepository) ListSubRegions(ctx context.Context) ([]SubRegion, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT sub_region_id, sub_region_name, region_id FROM sub_regions ORDER BY sub_region_name")
	if err != nil {
		return nil, fmt.Errorf("querying sub-regions: %w", err)
	}
	defer rows.Close()

	subs := []SubRegion{}
	for rows.Next() {
		var s SubRegion
		if err := rows.Scan(&s.ID, &s.Name, &s.RegionID); err != nil {
			return nil, fmt.Errorf("scanning sub-region row: %w", err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sub-region rows: %w", err)
	}
	return subs, nil
}

// ListIntermediateRegions returns all intermediate regions ordered by name.
func (r *SQLiteRepository) ListIntermediateRegions(ctx context.Context) ([]IntermediateRegion, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT intermediate_region_id, intermediate_region_name, sub_region_id
		FROM intermediate_regions ORDER BY intermediate_region_name`)
	if err != nil {
		return nil, fmt.Errorf("querying intermediate regions: %w", err)
	}
	defer rows.Close()

	irs := []IntermediateRegion{}
	for rows.Next() {
		var ir IntermediateRegion
		if err := rows.Scan(&ir.ID, &ir.Name, &ir.SubRegionID); err != nil {
			return nil, fmt.Errorf("scanning intermediate region row: %w", err)
		}
		irs = append(irs, ir)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating intermediate region rows: %w", err)
	}
	return irs, nil
}

func (r *SQLiteRepository) queryCountries(ctx context.Context, query string, args ...any) ([]CountryArea, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying countries: %w", err)
	}
	defer rows.Close()

	countries := []CountryArea{}
	for rows.Next() {
		c, err := scanCountry(rows)
		if err != nil {
			return nil, err
		}
		countries = append(countries, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating country rows: %w", err)
	}
	return countries, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanCountry scans one countrySelect row. sql.ErrNoRows is returned unwrapped.
func scanCountry(s scanner) (*CountryArea, error) {
	var (
		c        CountryArea
		loc      Location
		planet   Planet
		iso      sql.NullString
		unsd     sql.NullString
		regionID sql.NullInt64
		region   sql.NullString
		subID    sql.NullInt64
		sub      sql.NullString
		interID  sql.NullInt64
		inter    sql.NullString
		statusID sql.NullInt64
		status   sql.NullString
	)

	err := s.Scan(&c.ID, &c.Name, &c.M49Code, &iso,
		&loc.ID, &planet.ID, &planet.Name, &unsd,
		&regionID, &region, &subID, &sub, &interID, &inter,
		&statusID, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning country: %w", err)
	}

	c.ISOAlpha3 = iso.String
	planet.UNSDName = unsd.String
	loc.Planet = &planet

	if regionID.Valid {
		loc.Region = &Region{ID: regionID.Int64, Name: region.String, PlanetID: planet.ID}
	}
	if subID.Valid {
		loc.SubRegion = &SubRegion{ID: subID.Int64, Name: sub.String, RegionID: regionID.Int64}
	}
	if interID.Valid {
		loc.IntermediateRegion = &IntermediateRegion{ID: interID.Int64, Name: inter.String, SubRegionID: subID.Int64}
	}
	c.Location = &loc

	if statusID.Valid {
		c.DevStatus = &DevStatus{ID: statusID.Int64, Name: status.String}
	}

	return &c, nil
}
