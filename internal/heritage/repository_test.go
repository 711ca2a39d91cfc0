package heritage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/heritage-sites/internal/infrastructure/config"
	"github.com/nerrad567/heritage-sites/internal/infrastructure/database"
	_ "github.com/nerrad567/heritage-sites/migrations"
)

// Reference data IDs from the seed migration.
const (
	cultural = 1
	natural  = 2

	egypt  = 2
	kenya  = 3
	peru   = 4
	mexico = 5
	italy  = 11

	africa       = 1
	americas     = 2
	eastAfrica   = 1
	southAmerica = 2
	latinAmerica = 3
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{
		Path:        filepath.Join(t.TempDir(), "heritage.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // test cleanup

	require.NoError(t, db.Migrate(context.Background()))
	return db.DB
}

func newSite(name string, category int64) *Site {
	return &Site{Name: name, Description: name + " description", CategoryID: category}
}

func createSite(t *testing.T, repo *SQLiteRepository, site *Site, countries ...int64) *Site {
	t.Helper()
	require.NoError(t, repo.CreateSite(context.Background(), site, countries))
	return site
}

func TestCreateSite(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	year := 2001
	site := newSite("Lamu Old Town", cultural)
	site.DateInscribed = &year
	createSite(t, repo, site, kenya)
	require.NotZero(t, site.ID)
	assert.False(t, site.Transboundary)

	got, err := repo.GetSite(ctx, site.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lamu Old Town", got.Name)
	assert.Equal(t, "Cultural", got.CategoryName())
	require.NotNil(t, got.DateInscribed)
	assert.Equal(t, 2001, *got.DateInscribed)
	assert.Nil(t, got.Longitude)
	assert.False(t, got.CreatedAt.IsZero())

	ids, err := repo.JurisdictionCountryIDs(ctx, site.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{kenya}, ids)
}

func TestCreateSite_TransboundaryAndDuplicates(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	site := createSite(t, repo, newSite("Qhapaq Nan", cultural), peru, mexico, peru)
	assert.True(t, site.Transboundary)

	ids, err := repo.JurisdictionCountryIDs(context.Background(), site.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{peru, mexico}, ids)
}

func TestCreateSite_Errors(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	err := repo.CreateSite(ctx, newSite("Nowhere", cultural), nil)
	assert.ErrorIs(t, err, ErrNoCountries)

	err = repo.CreateSite(ctx, newSite("Bad category", 99), []int64{kenya})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	err = repo.CreateSite(ctx, newSite("Bad country", cultural), []int64{kenya, 999})
	assert.ErrorIs(t, err, ErrUnknownCountry)

	// Nothing from the failed attempts was persisted.
	_, total, err := repo.ListSites(ctx, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestUpdateSite_ReconcilesJurisdictions(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	site := createSite(t, repo, newSite("Shared Site", natural), egypt, kenya)

	site.Name = "Shared Site (extended)"
	change, err := repo.UpdateSite(ctx, site, []int64{kenya, peru})
	require.NoError(t, err)
	assert.Equal(t, []int64{peru}, change.Added)
	assert.Equal(t, []int64{egypt}, change.Removed)
	assert.Equal(t, []int64{kenya}, change.Unchanged)

	ids, err := repo.JurisdictionCountryIDs(ctx, site.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{kenya, peru}, ids)

	got, err := repo.GetSite(ctx, site.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shared Site (extended)", got.Name)
	assert.True(t, got.Transboundary)

	// Unchanged sets leave the join table alone.
	change, err = repo.UpdateSite(ctx, site, []int64{peru, kenya})
	require.NoError(t, err)
	assert.True(t, change.Empty())

	change, err = repo.UpdateSite(ctx, site, []int64{peru})
	require.NoError(t, err)
	assert.Equal(t, []int64{kenya}, change.Removed)
	got, err = repo.GetSite(ctx, site.ID)
	require.NoError(t, err)
	assert.False(t, got.Transboundary)
}

func TestUpdateSite_Errors(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	missing := newSite("Ghost", cultural)
	missing.ID = 404
	_, err := repo.UpdateSite(ctx, missing, []int64{kenya})
	assert.ErrorIs(t, err, ErrSiteNotFound)

	site := createSite(t, repo, newSite("Real", cultural), kenya)
	_, err = repo.UpdateSite(ctx, site, []int64{egypt, 999})
	assert.ErrorIs(t, err, ErrUnknownCountry)

	// The failed update rolled back both the row change and the jurisdictions.
	ids, err := repo.JurisdictionCountryIDs(ctx, site.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{kenya}, ids)

	_, err = repo.UpdateSite(ctx, site, nil)
	assert.ErrorIs(t, err, ErrNoCountries)
}

func TestUpdateSite_RollsBackOnJurisdictionFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSQLiteRepository(db)
	site := newSite("Mocked", cultural)
	site.ID = 7

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT 1 FROM heritage_site_categories").
		WithArgs(int64(cultural)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec("UPDATE heritage_sites SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT country_area_id FROM heritage_site_jurisdictions").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"country_area_id"}).AddRow(1).AddRow(2))
	prep := mock.ExpectPrepare("DELETE FROM heritage_site_jurisdictions")
	prep.ExpectExec().WithArgs(int64(7), int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectPrepare("INSERT INTO heritage_site_jurisdictions").
		ExpectExec().WithArgs(int64(7), int64(3)).WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	_, err = repo.UpdateSite(context.Background(), site, []int64{2, 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSite(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	site := createSite(t, repo, newSite("Doomed", cultural), egypt, kenya)
	require.NoError(t, repo.DeleteSite(ctx, site.ID))

	_, err := repo.GetSite(ctx, site.ID)
	assert.ErrorIs(t, err, ErrSiteNotFound)

	var count int
	require.NoError(t, db.QueryRow(
		"SELECT COUNT(*) FROM heritage_site_jurisdictions WHERE heritage_site_id = ?", site.ID).Scan(&count))
	assert.Zero(t, count)

	assert.ErrorIs(t, repo.DeleteSite(ctx, site.ID), ErrSiteNotFound)
}

func TestListSites_OrderedByName(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	createSite(t, repo, newSite("Venice", cultural), italy)
	createSite(t, repo, newSite("Abu Mena", cultural), egypt)
	createSite(t, repo, newSite("Machu Picchu", cultural), peru)

	page, total, err := repo.ListSites(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, "Abu Mena", page[0].Name)
	assert.Equal(t, "Machu Picchu", page[1].Name)

	page, _, err = repo.ListSites(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Venice", page[0].Name)
}

func TestFilterSites(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	y1979, y1983, y2011 := 1979, 1983, 2011
	memphis := newSite("Memphis and its Necropolis", cultural)
	memphis.DateInscribed = &y1979
	createSite(t, repo, memphis, egypt)

	kenyaLakes := newSite("Kenya Lake System", natural)
	kenyaLakes.DateInscribed = &y2011
	createSite(t, repo, kenyaLakes, kenya)

	machu := newSite("Historic Sanctuary of Machu Picchu", cultural)
	machu.DateInscribed = &y1983
	createSite(t, repo, machu, peru)

	names := func(sites []Site) []string {
		out := make([]string, len(sites))
		for i, s := range sites {
			out[i] = s.Name
		}
		return out
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"no constraints", Filter{},
			[]string{"Historic Sanctuary of Machu Picchu", "Kenya Lake System", "Memphis and its Necropolis"}},
		{"name contains, case-insensitive", Filter{Name: "LAKE"}, []string{"Kenya Lake System"}},
		{"description contains", Filter{Description: "necropolis desc"}, []string{"Memphis and its Necropolis"}},
		{"category", Filter{CategoryID: natural}, []string{"Kenya Lake System"}},
		{"region", Filter{RegionID: africa},
			[]string{"Kenya Lake System", "Memphis and its Necropolis"}},
		{"sub-region", Filter{SubRegionID: latinAmerica}, []string{"Historic Sanctuary of Machu Picchu"}},
		{"intermediate region", Filter{IntermediateRegionID: eastAfrica}, []string{"Kenya Lake System"}},
		{"country", Filter{CountryID: egypt}, []string{"Memphis and its Necropolis"}},
		{"date inscribed", Filter{DateInscribed: &y1983}, []string{"Historic Sanctuary of Machu Picchu"}},
		{"combined", Filter{RegionID: americas, IntermediateRegionID: southAmerica, CategoryID: cultural},
			[]string{"Historic Sanctuary of Machu Picchu"}},
		{"no match", Filter{Name: "Atlantis"}, []string{}},
		{"newest first", Filter{Ordering: "-date_inscribed"},
			[]string{"Kenya Lake System", "Historic Sanctuary of Machu Picchu", "Memphis and its Necropolis"}},
		{"limit", Filter{Ordering: "-site_name", Limit: 1}, []string{"Memphis and its Necropolis"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sites, err := repo.FilterSites(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(sites))
		})
	}
}

func TestFilterSites_LikeWildcardsAreLiteral(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	createSite(t, repo, newSite("Site 100", cultural), italy)

	sites, err := repo.FilterSites(context.Background(), Filter{Name: "%"})
	require.NoError(t, err)
	assert.Empty(t, sites)
}

func TestCategories(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	categories, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, "Cultural", categories[0].Name)
	assert.Equal(t, "Mixed", categories[1].Name)

	c, err := repo.GetCategory(ctx, natural)
	require.NoError(t, err)
	assert.Equal(t, "Natural", c.Name)

	_, err = repo.GetCategory(ctx, 42)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
