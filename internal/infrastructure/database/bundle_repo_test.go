package database

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"i18nscan/internal/domain/entities"
)

// setupTestDB starts PostgreSQL in a container and applies the migrations.
func setupTestDB(t *testing.T) *BundleRepository {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("i18nscan_test"),
		postgres.WithUsername("i18nscan"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	require.NoError(t, RunMigrations(dsn, logger))
	require.NoError(t, RunMigrations(dsn, logger), "migrations are idempotent")

	pool, err := NewPool(ctx, dsn, logger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return NewBundleRepository(pool)
}

const selectBundle = `
SELECT locale, namespace, path, body, keys, updated_at
FROM resource_bundles
WHERE locale = $1 AND namespace = $2`

const selectValue = `
SELECT document ->> $3::text
FROM resource_bundles
WHERE locale = $1 AND namespace = $2`

func findBundle(ctx context.Context, r *BundleRepository, locale, ns string) (entities.Document, time.Time, error) {
	var (
		doc     entities.Document
		body    string
		keys    int32
		updated pgtype.Timestamptz
	)
	err := r.pool.QueryRow(ctx, selectBundle, locale, ns).
		Scan(&doc.Locale, &doc.Namespace, &doc.Path, &body, &keys, &updated)
	if err != nil {
		return entities.Document{}, time.Time{}, err
	}
	doc.Body, doc.Keys = []byte(body), int(keys)
	return doc, updated.Time, nil
}

func findValue(ctx context.Context, r *BundleRepository, locale, ns, key string) (string, error) {
	var v *string
	if err := r.pool.QueryRow(ctx, selectValue, locale, ns, key).Scan(&v); err != nil {
		return "", err
	}
	if v == nil {
		return "", pgx.ErrNoRows
	}
	return *v, nil
}

func TestBundleRepositoryUpsert(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	first := []entities.Document{
		{Locale: "en", Namespace: "common", Path: "i18n/en/common.json", Body: []byte("{\n  \"title\": \"Home\"\n}\n"), Keys: 1},
		{Locale: "de", Namespace: "common", Path: "i18n/de/common.json", Body: []byte("{}\n"), Keys: 0},
	}
	require.NoError(t, repo.WriteBundles(ctx, first))

	doc, updated, err := findBundle(ctx, repo, "en", "common")
	require.NoError(t, err)
	assert.Equal(t, first[0], doc)
	assert.False(t, updated.IsZero())

	v, err := findValue(ctx, repo, "en", "common", "title")
	require.NoError(t, err)
	assert.Equal(t, "Home", v)

	second := []entities.Document{
		{Locale: "en", Namespace: "common", Path: "i18n/en/common.json", Body: []byte("{\"title\":\"Start\",\"menu\":\"Menu\"}\n"), Keys: 2},
	}
	require.NoError(t, repo.WriteBundles(ctx, second))

	doc, _, err = findBundle(ctx, repo, "en", "common")
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Keys)
	v, err = findValue(ctx, repo, "en", "common", "title")
	require.NoError(t, err)
	assert.Equal(t, "Start", v)

	_, err = findValue(ctx, repo, "de", "common", "title")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	_, _, err = findBundle(ctx, repo, "fr", "common")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestBundleRepositoryRollsBack(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	docs := []entities.Document{
		{Locale: "en", Namespace: "ok", Path: "ok.json", Body: []byte("{}\n")},
		{Locale: "en", Namespace: "broken", Path: "broken.json", Body: []byte("not json")},
	}
	require.Error(t, repo.WriteBundles(ctx, docs))

	_, _, err := findBundle(ctx, repo, "en", "ok")
	assert.ErrorIs(t, err, pgx.ErrNoRows, "a failed batch leaves no rows behind")
}
