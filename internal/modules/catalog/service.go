package catalog

import "context"

// Service defines catalog read logic.
type Service interface {
	ListCategories(ctx context.Context) ([]*Category, error)
	ListShops(ctx context.Context) ([]*Shop, error)

	// Search returns offerings of switched-on shops, filters conjunctive.
	Search(ctx context.Context, shopID, categoryID int64) ([]*Offering, error)
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) ListCategories(ctx context.Context) ([]*Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *service) ListShops(ctx context.Context) ([]*Shop, error) {
	return s.repo.ListShops(ctx)
}

func (s *service) Search(ctx context.Context, shopID, categoryID int64) ([]*Offering, error) {
	return s.repo.SearchOfferings(ctx, shopID, categoryID)
}
