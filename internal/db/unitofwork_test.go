package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/alexanderramin/critpath/internal/db"
	"github.com/alexanderramin/critpath/internal/domain"
	"github.com/alexanderramin/critpath/internal/repository"
	"github.com/alexanderramin/critpath/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func siteExists(t *testing.T, database *sql.DB, id string) bool {
	t.Helper()
	_, err := repository.NewSQLiteSiteRepo(database).GetByID(context.Background(), id)
	if errors.Is(err, domain.ErrLookup) {
		return false
	}
	require.NoError(t, err)
	return true
}

func TestWithinTx_CommitsSiteAndScenario(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := db.NewSQLiteUnitOfWork(database)
	s := testutil.NewTestSite("Abilene", testutil.WithTargetMW(600))
	sc := testutil.NewTestScenario(s.ID, "fast-interconnect")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteSiteRepo(tx).Create(ctx, s); err != nil {
			return err
		}
		return repository.NewSQLiteScenarioRepo(tx).Create(ctx, sc)
	})
	require.NoError(t, err)

	assert.True(t, siteExists(t, database, s.ID))
	got, err := repository.NewSQLiteScenarioRepo(database).GetByName(context.Background(), s.ID, "fast-interconnect")
	require.NoError(t, err)
	assert.Equal(t, sc.ID, got.ID)
}

func TestWithinTx_ErrorRollsBackSite(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := db.NewSQLiteUnitOfWork(database)
	s := testutil.NewTestSite("Temple")
	boom := errors.New("scenario write failed")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteSiteRepo(tx).Create(ctx, s); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.False(t, siteExists(t, database, s.ID), "site insert should be rolled back")
}

func TestWithinTx_PanicRollsBackSite(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := db.NewSQLiteUnitOfWork(database)
	s := testutil.NewTestSite("Ellendale")

	assert.PanicsWithValue(t, "recompute exploded", func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			require.NoError(t, repository.NewSQLiteSiteRepo(tx).Create(ctx, s))
			panic("recompute exploded")
		})
	})

	assert.False(t, siteExists(t, database, s.ID), "site insert should be rolled back after panic")
}

func TestWithinTx_DuplicateSiteLeavesOriginal(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := db.NewSQLiteUnitOfWork(database)
	s := testutil.NewTestSite("Abilene")
	require.NoError(t, repository.NewSQLiteSiteRepo(database).Create(context.Background(), s))

	other := testutil.NewTestSite("Midland")
	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteSiteRepo(tx)
		if err := repo.Create(ctx, other); err != nil {
			return err
		}
		return repo.Create(ctx, s)
	})
	require.Error(t, err)

	assert.True(t, siteExists(t, database, s.ID))
	assert.False(t, siteExists(t, database, other.ID), "sibling insert should be rolled back with the duplicate")
}
