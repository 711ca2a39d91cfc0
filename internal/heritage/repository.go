package heritage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines persistence for heritage sites and their jurisdictions.
type Repository interface {
	ListSites(ctx context.Context, limit, offset int) ([]Site, int, error)
	FilterSites(ctx context.Context, f Filter) ([]Site, error)
	GetSite(ctx context.Context, id int64) (*Site, error)

	// CreateSite inserts the site and one jurisdiction per country in a
	// single transaction. site.ID is set on success.
	CreateSite(ctx context.Context, site *Site, countryIDs []int64) error

	// UpdateSite saves the site fields and reconciles its jurisdictions with
	// countryIDs in a single transaction.
	UpdateSite(ctx context.Context, site *Site, countryIDs []int64) (JurisdictionChange, error)

	// DeleteSite removes the site and every jurisdiction that references it.
	DeleteSite(ctx context.Context, id int64) error

	JurisdictionCountryIDs(ctx context.Context, siteID int64) ([]int64, error)

	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id int64) (*Category, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed heritage repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const siteSelect = `SELECT hs.heritage_site_id, hs.site_name, hs.description, hs.justification,
		hs.date_inscribed, hs.longitude, hs.latitude, hs.area_hectares,
		hs.heritage_site_category_id, c.category_name, hs.transboundary,
		hs.created_at, hs.updated_at
	FROM heritage_sites hs
	JOIN heritage_site_categories c ON c.category_id = hs.heritage_site_category_id`

// ListSites returns one page of sites ordered by name, plus the total count.
func (r *SQLiteRepository) ListSites(ctx context.Context, limit, offset int) ([]Site, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM heritage_sites").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting sites: %w", err)
	}

	sites, err := r.querySites(ctx,
		siteSelect+" ORDER BY hs.site_name, hs.heritage_site_id LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return sites, total, nil
}

// FilterSites returns every site matching f in f's ordering.
func (r *SQLiteRepository) FilterSites(ctx context.Context, f Filter) ([]Site, error) {
	where, args := f.whereClause()
	query := siteSelect + where + " ORDER BY " + f.orderClause()
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}
	return r.querySites(ctx, query, args...)
}

// GetSite returns a single site by ID.
func (r *SQLiteRepository) GetSite(ctx context.Context, id int64) (*Site, error) {
	row := r.db.QueryRowContext(ctx, siteSelect+" WHERE hs.heritage_site_id = ?", id)
	s, err := scanSite(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSiteNotFound
		}
		return nil, err
	}
	return s, nil
}

// CreateSite inserts a site with its jurisdictions.
func (r *SQLiteRepository) CreateSite(ctx context.Context, site *Site, countryIDs []int64) error {
	ids := UniqueIDs(countryIDs)
	if len(ids) == 0 {
		return ErrNoCountries
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := requireCategory(ctx, tx, site.CategoryID); err != nil {
		return err
	}

	now := time.Now().UTC().Truncate(time.Second)
	site.Transboundary = len(ids) > 1

	res, err := tx.ExecContext(ctx, `
		INSERT INTO heritage_sites (
			site_name, description, justification, date_inscribed,
			longitude, latitude, area_hectares, heritage_site_category_id,
			transboundary, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		site.Name, site.Description, nullString(site.Justification), nullInt(site.DateInscribed),
		nullFloat(site.Longitude), nullFloat(site.Latitude), nullFloat(site.AreaHectares), site.CategoryID,
		boolToInt(site.Transboundary), now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting site: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading site id: %w", err)
	}

	if err := insertJurisdictions(ctx, tx, id, ids); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing site: %w", err)
	}

	site.ID = id
	site.CreatedAt = now
	site.UpdatedAt = now
	return nil
}

// UpdateSite saves a site and applies the minimal jurisdiction change.
func (r *SQLiteRepository) UpdateSite(ctx context.Context, site *Site, countryIDs []int64) (JurisdictionChange, error) {
	ids := UniqueIDs(countryIDs)
	if len(ids) == 0 {
		return JurisdictionChange{}, ErrNoCountries
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return JurisdictionChange{}, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := requireCategory(ctx, tx, site.CategoryID); err != nil {
		return JurisdictionChange{}, err
	}

	now := time.Now().UTC().Truncate(time.Second)
	site.Transboundary = len(ids) > 1

	res, err := tx.ExecContext(ctx, `
		UPDATE heritage_sites SET
			site_name = ?, description = ?, justification = ?, date_inscribed = ?,
			longitude = ?, latitude = ?, area_hectares = ?, heritage_site_category_id = ?,
			transboundary = ?, updated_at = ?
		WHERE heritage_site_id = ?`,
		site.Name, site.Description, nullString(site.Justification), nullInt(site.DateInscribed),
		nullFloat(site.Longitude), nullFloat(site.Latitude), nullFloat(site.AreaHectares), site.CategoryID,
		boolToInt(site.Transboundary), now.Format(time.RFC3339), site.ID,
	)
	if err != nil {
		return JurisdictionChange{}, fmt.Errorf("updating site: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return JurisdictionChange{}, fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return JurisdictionChange{}, ErrSiteNotFound
	}

	previous, err := jurisdictionIDs(ctx, tx, site.ID)
	if err != nil {
		return JurisdictionChange{}, err
	}
	change := DiffJurisdictions(previous, ids)

	if len(change.Removed) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			"DELETE FROM heritage_site_jurisdictions WHERE heritage_site_id = ? AND country_area_id = ?")
		if err != nil {
			return JurisdictionChange{}, fmt.Errorf("preparing jurisdiction delete: %w", err)
		}
		defer stmt.Close()

		for _, countryID := range change.Removed {
			if _, err := stmt.ExecContext(ctx, site.ID, countryID); err != nil {
				return JurisdictionChange{}, fmt.Errorf("removing jurisdiction %d: %w", countryID, err)
			}
		}
	}

	if err := insertJurisdictions(ctx, tx, site.ID, change.Added); err != nil {
		return JurisdictionChange{}, err
	}

	if err := tx.Commit(); err != nil {
		return JurisdictionChange{}, fmt.Errorf("committing site: %w", err)
	}

	site.UpdatedAt = now
	return change, nil
}

// DeleteSite removes a site. Jurisdictions are deleted explicitly first so
// the result does not depend on the cascade being enabled.
func (r *SQLiteRepository) DeleteSite(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM heritage_site_jurisdictions WHERE heritage_site_id = ?", id); err != nil {
		return fmt.Errorf("deleting jurisdictions: %w", err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM heritage_sites WHERE heritage_site_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting site: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return ErrSiteNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}
	return nil
}

// JurisdictionCountryIDs returns the country IDs of a site, ascending.
func (r *SQLiteRepository) JurisdictionCountryIDs(ctx context.Context, siteID int64) ([]int64, error) {
	return jurisdictionIDs(ctx, r.db, siteID)
}

// ListCategories returns all categories ordered by name.
func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT category_id, category_name FROM heritage_site_categories ORDER BY category_name")
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scanning category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category rows: %w", err)
	}
	return categories, nil
}

// GetCategory returns a single category by ID.
func (r *SQLiteRepository) GetCategory(ctx context.Context, id int64) (*Category, error) {
	var c Category
	err := r.db.QueryRowContext(ctx,
		"SELECT category_id, category_name FROM heritage_site_categories WHERE category_id = ?", id,
	).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("querying category: %w", err)
	}
	return &c, nil
}

func (r *SQLiteRepository) querySites(ctx context.Context, query string, args ...any) ([]Site, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sites: %w", err)
	}
	defer rows.Close()

	sites := []Site{}
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		sites = append(sites, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating site rows: %w", err)
	}
	return sites, nil
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func jurisdictionIDs(ctx context.Context, q queryer, siteID int64) ([]int64, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT country_area_id FROM heritage_site_jurisdictions
		WHERE heritage_site_id = ? ORDER BY country_area_id`, siteID)
	if err != nil {
		return nil, fmt.Errorf("querying jurisdictions: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning jurisdiction row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating jurisdiction rows: %w", err)
	}
	return ids, nil
}

func requireCategory(ctx context.Context, q queryer, id int64) error {
	var found int
	err := q.QueryRowContext(ctx,
		"SELECT 1 FROM heritage_site_categories WHERE category_id = ?", id).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("checking category: %w", err)
	}
	return nil
}

// insertJurisdictions adds one row per country. The category has already
// been checked, so a foreign key failure here means an unknown country.
func insertJurisdictions(ctx context.Context, tx *sql.Tx, siteID int64, countryIDs []int64) error {
	if len(countryIDs) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO heritage_site_jurisdictions (heritage_site_id, country_area_id) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("preparing jurisdiction insert: %w", err)
	}
	defer stmt.Close()

	for _, countryID := range countryIDs {
		if _, err := stmt.ExecContext(ctx, siteID, countryID); err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: %d", ErrUnknownCountry, countryID)
			}
			return fmt.Errorf("inserting jurisdiction %d: %w", countryID, err)
		}
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanSite scans one siteSelect row. sql.ErrNoRows is returned unwrapped.
func scanSite(s scanner) (*Site, error) {
	var (
		site          Site
		category      Category
		justification sql.NullString
		inscribed     sql.NullInt64
		longitude     sql.NullFloat64
		latitude      sql.NullFloat64
		area          sql.NullFloat64
		transboundary int
		createdAt     string
		updatedAt     string
	)

	err := s.Scan(&site.ID, &site.Name, &site.Description, &justification,
		&inscribed, &longitude, &latitude, &area,
		&category.ID, &category.Name, &transboundary,
		&createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning site: %w", err)
	}

	site.Justification = justification.String
	if inscribed.Valid {
		year := int(inscribed.Int64)
		site.DateInscribed = &year
	}
	site.Longitude = floatPtr(longitude)
	site.Latitude = floatPtr(latitude)
	site.AreaHectares = floatPtr(area)
	site.CategoryID = category.ID
	site.Category = &category
	site.Transboundary = transboundary != 0
	site.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
	site.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // format is controlled

	return &site, nil
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
