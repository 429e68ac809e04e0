package session

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"storefront/internal/db"
	"storefront/internal/domain"
	"storefront/internal/migrate"
)

func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container test skipped in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("storefront_test"),
		postgres.WithUsername("storefront"),
		postgres.WithPassword("storefront"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := db.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	version, err := migrate.Apply(ctx, pool)
	require.NoError(t, err)
	require.Equal(t, uint(1), version)
	return pool
}

func TestPostgres_SessionRoundTrip(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	repo := NewPostgres(pool, "default", nil)

	_, err := repo.Get(ctx)
	require.ErrorIs(t, err, domain.ErrNotFound)

	user := &domain.User{ID: "u1", Name: "Awa", Email: "awa@example.com"}
	require.NoError(t, repo.Put(ctx, domain.Session{User: user, Token: "t1"}))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t1", got.Token)
	assert.Equal(t, "awa@example.com", got.User.Email)

	user.Name = "Awa D."
	require.NoError(t, repo.Put(ctx, domain.Session{User: user, Token: "t2"}))
	got, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t2", got.Token)
	assert.Equal(t, "Awa D.", got.User.Name)

	require.NoError(t, repo.Delete(ctx))
	require.NoError(t, repo.Delete(ctx))
	_, err = repo.Get(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgres_SlotsAreIndependent(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	a := NewPostgres(pool, "a", nil)
	b := NewPostgres(pool, "b", nil)

	require.NoError(t, a.Put(ctx, domain.Session{User: &domain.User{ID: "u1"}, Token: "ta"}))
	_, err := b.Get(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, b.Ping(ctx))
}
