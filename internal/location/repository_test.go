package location

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/heritage-sites/internal/infrastructure/config"
	"github.com/nerrad567/heritage-sites/internal/infrastructure/database"
	_ "github.com/nerrad567/heritage-sites/migrations"
)

// setupTestDB opens a migrated database seeded with the reference data.
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

func TestListCountries_Paginates(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	page, total, err := repo.ListCountries(ctx, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, 13, total)
	require.Len(t, page, 5)
	assert.Equal(t, "Antarctica", page[0].Name)
	assert.Equal(t, "Australia", page[1].Name)

	last, _, err := repo.ListCountries(ctx, 5, 10)
	require.NoError(t, err)
	require.Len(t, last, 3)
	assert.Equal(t, "United States of America", last[2].Name)
}

func TestGetCountry_LoadsLocationChain(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	kenya, err := repo.GetCountry(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Kenya", kenya.Name)
	assert.Equal(t, "KEN", kenya.ISOAlpha3)
	assert.Equal(t, 404, kenya.M49Code)
	require.NotNil(t, kenya.Location)
	require.NotNil(t, kenya.Location.Region)
	require.NotNil(t, kenya.Location.SubRegion)
	require.NotNil(t, kenya.Location.IntermediateRegion)
	assert.Equal(t, "Africa", kenya.Location.Region.Name)
	assert.Equal(t, "Eastern Africa", kenya.RegionName())
	assert.Equal(t, "Developing", kenya.DevStatusName())

	antarctica, err := repo.GetCountry(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, antarctica.Location.Region)
	assert.Nil(t, antarctica.DevStatus)
	assert.Equal(t, "World", antarctica.RegionName())
}

func TestGetCountry_NotFound(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	_, err := repo.GetCountry(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrCountryNotFound)
}

func TestListCountriesByIDs(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	got, err := repo.ListCountriesByIDs(ctx, []int64{12, 11, 9999})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Holy See", got[0].Name)
	assert.Equal(t, "Italy", got[1].Name)
	assert.Equal(t, "Southern Europe", RegionSummary(got))

	empty, err := repo.ListCountriesByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestListAllCountries(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	all, err := repo.ListAllCountries(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 13)
}

func TestListRegionLevels(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	regions, err := repo.ListRegions(ctx)
	require.NoError(t, err)
	require.Len(t, regions, 5)
	assert.Equal(t, "Africa", regions[0].Name)

	subs, err := repo.ListSubRegions(ctx)
	require.NoError(t, err)
	assert.Len(t, subs, 9)

	inters, err := repo.ListIntermediateRegions(ctx)
	require.NoError(t, err)
	require.Len(t, inters, 3)
	assert.Equal(t, "Central America", inters[0].Name)
}
