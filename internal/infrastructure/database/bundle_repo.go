package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"i18nscan/internal/domain/entities"
	"i18nscan/internal/ports/output"
)

var _ output.BundleWriter = (*BundleRepository)(nil)

const upsertBundle = `
INSERT INTO resource_bundles (locale, namespace, path, body, document, keys, updated_at)
VALUES ($1, $2, $3, $4, $5::jsonb, $6, now())
ON CONFLICT (locale, namespace) DO UPDATE SET
    path       = EXCLUDED.path,
    body       = EXCLUDED.body,
    document   = EXCLUDED.document,
    keys       = EXCLUDED.keys,
    updated_at = EXCLUDED.updated_at`

// BundleRepository stores every document of a run in one transaction.
type BundleRepository struct {
	pool *pgxpool.Pool
}

func NewBundleRepository(pool *pgxpool.Pool) *BundleRepository {
	return &BundleRepository{pool: pool}
}

func (r *BundleRepository) WriteBundles(ctx context.Context, docs []entities.Document) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, d := range docs {
			batch.Queue(upsertBundle, d.Locale, d.Namespace, d.Path, string(d.Body), string(d.Body), int32(d.Keys))
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("upsert bundles: %w", err)
		}
		return nil
	})
}
