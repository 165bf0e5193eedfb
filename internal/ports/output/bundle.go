package output

import (
	"context"

	"i18nscan/internal/domain/entities"
	"i18nscan/internal/domain/resource"
)

// BundleWriter persists serialized resource bundles. A writer receives
// every document of a run in a single call.
type BundleWriter interface {
	WriteBundles(ctx context.Context, docs []entities.Document) error
}

// BundleSerializer renders retrieved bundles into documents.
type BundleSerializer interface {
	Serialize(bundles []resource.Bundle) ([]entities.Document, error)
}
