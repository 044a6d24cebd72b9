package repository

import (
	"context"
	"testing"
	"time"

	"github.com/ledgerline/bank/shared/database"
	"github.com/ledgerline/bank/shared/errs"
	"github.com/ledgerline/bank/shared/models"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, name, identification string) *models.Client {
	t.Helper()
	c, err := models.NewClient(models.Person{
		Name:           name,
		Gender:         "F",
		Age:            30,
		Identification: identification,
		Address:        "Amazonas y NNUU",
		PhoneNumber:    "097548965",
	}, "$2a$10$hash")
	require.NoError(t, err)
	return c
}

func newSQLiteStore(t *testing.T) *SQLStore {
	t.Helper()
	db, err := database.Open(context.Background(), database.DriverSQLite, ":memory:", database.DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(context.Background(), Migrations...))
	return NewSQLStore(db)
}

func stores(t *testing.T) map[string]ClientStore {
	return map[string]ClientStore{
		"memory": NewMemoryStore(),
		"sqlite": newSQLiteStore(t),
	}
}

func TestClientStoreContract(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			first := newClient(t, "Marianela Montalvo", "1701")
			require.NoError(t, store.Save(ctx, first))
			require.NotZero(t, first.ID)
			second := newClient(t, "Juan Osorio", "1702")
			require.NoError(t, store.Save(ctx, second))

			got, err := store.FindByID(ctx, first.ID)
			require.NoError(t, err)
			assert.Equal(t, first.Person, got.Person)
			assert.Equal(t, "$2a$10$hash", got.PasswordHash)
			assert.True(t, got.Active)

			byIdent, err := store.FindByIdentification(ctx, "1702")
			require.NoError(t, err)
			require.NotNil(t, byIdent)
			assert.Equal(t, second.ID, byIdent.ID)
			none, err := store.FindByIdentification(ctx, "0000")
			require.NoError(t, err)
			assert.Nil(t, none)

			exists, err := store.ExistsByID(ctx, 999)
			require.NoError(t, err)
			assert.False(t, exists)
			_, err = store.FindByID(ctx, 999)
			assert.True(t, errs.IsNotFoundOf(err, errs.EntityClient))

			first.Age = 31
			first.Address = "13 junio y Equinoccial"
			require.NoError(t, store.Update(ctx, first))
			got, err = store.FindByID(ctx, first.ID)
			require.NoError(t, err)
			assert.Equal(t, 31, got.Age)
			assert.Equal(t, "13 junio y Equinoccial", got.Address)

			missing := newClient(t, "Nobody", "9999")
			missing.ID = 999
			assert.True(t, errs.IsNotFoundOf(store.Update(ctx, missing), errs.EntityClient))

			all, err := store.FindAll(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, first.ID, all[0].ID)

			require.NoError(t, store.DeleteByID(ctx, first.ID))
			assert.True(t, errs.IsNotFoundOf(store.DeleteByID(ctx, first.ID), errs.EntityClient))
		})
	}
}

func TestSQLiteStoreRejectsDuplicateIdentification(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, newClient(t, "Jose Lema", "1723")))
	assert.Error(t, store.Save(ctx, newClient(t, "Other", "1723")))
}

func TestReadRepositoryFallsBackToStore(t *testing.T) {
	store := NewMemoryStore()
	c := newClient(t, "Jose Lema", "1723")
	require.NoError(t, store.Save(context.Background(), c))

	dead := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { dead.Close() })

	for name, repo := range map[string]*ClientReadRepository{
		"no redis":   NewClientReadRepository(store, nil),
		"dead redis": NewClientReadRepository(store, dead),
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			view, err := repo.GetByID(ctx, c.ID)
			require.NoError(t, err)
			assert.Equal(t, "Jose Lema", view.Name)

			_, err = repo.GetByID(ctx, 404)
			assert.True(t, errs.IsNotFoundOf(err, errs.EntityClient))

			views, err := repo.List(ctx)
			require.NoError(t, err)
			assert.Len(t, views, 1)

			repo.InvalidateClientView(ctx, c.ID)
		})
	}
}
