package catalog

import "context"

// Repository defines read access to the shared catalog.
type Repository interface {
	ListCategories(ctx context.Context) ([]*Category, error)
	ListShops(ctx context.Context) ([]*Shop, error)

	// SearchOfferings returns offerings of shops that are switched on,
	// optionally narrowed by shop and/or category (zero means no filter).
	// Parameters are embedded.
	SearchOfferings(ctx context.Context, shopID, categoryID int64) ([]*Offering, error)
}
