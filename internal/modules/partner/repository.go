package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/avdonin/orderhub-backend/internal/modules/catalog"
)

// Repository defines data access for a partner's shop and its catalog slice.
type Repository interface {
	// ReplaceShopCatalog applies a parsed price-book in one transaction:
	// upsert the shop, upsert and link categories, purge the shop's
	// offerings, recreate them from the document. Any failure rolls the
	// whole ingest back.
	ReplaceShopCatalog(ctx context.Context, ownerID uuid.UUID, url string, book *PriceBook) (int64, error)

	// GetShopByOwner returns the partner's shop or domain.ErrNotFound.
	GetShopByOwner(ctx context.Context, ownerID uuid.UUID) (*catalog.Shop, error)

	// SetShopState flips the availability flag of the partner's shop.
	SetShopState(ctx context.Context, ownerID uuid.UUID, state bool) error
}
