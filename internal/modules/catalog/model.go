package catalog

import (
	"github.com/google/uuid"
)

// Shop is a partner's storefront. A partner account owns at most one shop;
// while State is false its offerings are hidden from search.
type Shop struct {
	ID      int64     `json:"id"`
	Name    string    `json:"name"`
	URL     string    `json:"url,omitempty"`
	OwnerID uuid.UUID `json:"user"`
	State   bool      `json:"state"`
}

// Category has a stable numeric id supplied by partners at ingest time and
// is shared across shops.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Product is a catalog entry shared across shops, unique by (name, category).
type Product struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	CategoryID int64  `json:"category"`
}

// Offering is a product as sold by a specific shop: its own display name,
// external id, stock, price and parameters. Unique by (shop, external id).
type Offering struct {
	ID          int64             `json:"id"`
	ProductID   int64             `json:"product"`
	ProductName string            `json:"product_name,omitempty"`
	CategoryID  int64             `json:"category,omitempty"`
	ShopID      int64             `json:"shop"`
	ExternalID  int64             `json:"external_id"`
	Name        string            `json:"name"`
	Quantity    int               `json:"quantity"`
	Price       int64             `json:"price"`
	PriceRRC    int64             `json:"price_rrc"`
	Parameters  map[string]string `json:"parameters,omitempty"`
}
