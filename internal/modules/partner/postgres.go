package partner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/avdonin/orderhub-backend/internal/domain"
	"github.com/avdonin/orderhub-backend/internal/modules/catalog"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// ReplaceShopCatalog runs the whole purge-and-replace inside one transaction
// so no reader ever observes a half-replaced shop.
func (r *postgresRepo) ReplaceShopCatalog(ctx context.Context, ownerID uuid.UUID, url string, book *PriceBook) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var shopID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO shops (name, url, owner_id, state)
		VALUES ($1, $2, $3, true)
		ON CONFLICT (owner_id) DO UPDATE SET name = EXCLUDED.name, url = EXCLUDED.url
		RETURNING id`, book.Shop, url, ownerID).Scan(&shopID)
	if err != nil {
		return 0, fmt.Errorf("upsert shop: %w", err)
	}

	for _, c := range book.Categories {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO categories (id, name) VALUES ($1, $2)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`, c.ID, c.Name)
		if err != nil {
			return 0, fmt.Errorf("upsert category %d: %w", c.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO shop_categories (shop_id, category_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, shopID, c.ID)
		if err != nil {
			return 0, fmt.Errorf("link category %d: %w", c.ID, err)
		}
	}

	// Stale SKUs go away wholesale; parameters and order lines referencing
	// them follow via cascade.
	if _, err = tx.ExecContext(ctx, `DELETE FROM offerings WHERE shop_id = $1`, shopID); err != nil {
		return 0, fmt.Errorf("purge offerings: %w", err)
	}

	for _, g := range book.Goods {
		var productID int64
		err = tx.QueryRowContext(ctx, `
			INSERT INTO products (name, category_id) VALUES ($1, $2)
			ON CONFLICT (name, category_id) DO UPDATE SET name = EXCLUDED.name
			RETURNING id`, g.Name, g.Category).Scan(&productID)
		if err != nil {
			return 0, fmt.Errorf("upsert product %q: %w", g.Name, err)
		}

		var offeringID int64
		err = tx.QueryRowContext(ctx, `
			INSERT INTO offerings (product_id, shop_id, external_id, name, quantity, price, price_rrc)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			productID, shopID, g.ID, g.Model, g.Quantity, g.Price, g.PriceRRC).Scan(&offeringID)
		if err != nil {
			return 0, fmt.Errorf("insert offering %d: %w", g.ID, err)
		}

		for name, value := range g.Parameters {
			var parameterID int64
			err = tx.QueryRowContext(ctx, `
				INSERT INTO parameters (name) VALUES ($1)
				ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
				RETURNING id`, name).Scan(&parameterID)
			if err != nil {
				return 0, fmt.Errorf("upsert parameter %q: %w", name, err)
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO offering_parameters (offering_id, parameter_id, value)
				VALUES ($1, $2, $3)`, offeringID, parameterID, value)
			if err != nil {
				return 0, fmt.Errorf("attach parameter %q: %w", name, err)
			}
		}
	}

	return shopID, tx.Commit()
}

func (r *postgresRepo) GetShopByOwner(ctx context.Context, ownerID uuid.UUID) (*catalog.Shop, error) {
	s := &catalog.Shop{}
	var url sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, url, owner_id, state FROM shops WHERE owner_id = $1`, ownerID).
		Scan(&s.ID, &s.Name, &url, &s.OwnerID, &s.State)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("shop for partner %s: %w", ownerID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	s.URL = url.String
	return s, nil
}

func (r *postgresRepo) SetShopState(ctx context.Context, ownerID uuid.UUID, state bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE shops SET state = $1 WHERE owner_id = $2`, state, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("shop for partner %s: %w", ownerID, domain.ErrNotFound)
	}
	return err
}
