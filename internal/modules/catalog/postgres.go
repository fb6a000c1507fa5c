package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) ListCategories(ctx context.Context) ([]*Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*Category
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *postgresRepo) ListShops(ctx context.Context) ([]*Shop, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, url, owner_id, state FROM shops ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shops []*Shop
	for rows.Next() {
		s := &Shop{}
		var url sql.NullString
		if err := rows.Scan(&s.ID, &s.Name, &url, &s.OwnerID, &s.State); err != nil {
			return nil, err
		}
		s.URL = url.String
		shops = append(shops, s)
	}
	return shops, rows.Err()
}

func (r *postgresRepo) SearchOfferings(ctx context.Context, shopID, categoryID int64) ([]*Offering, error) {
	query := `
		SELECT o.id, o.product_id, p.name, p.category_id, o.shop_id, o.external_id,
		       o.name, o.quantity, o.price, o.price_rrc
		FROM offerings o
		JOIN products p ON p.id = o.product_id
		JOIN shops s ON s.id = o.shop_id
		WHERE s.state = true`
	args := []interface{}{}
	n := 1
	if shopID != 0 {
		query += fmt.Sprintf(` AND o.shop_id = $%d`, n)
		args = append(args, shopID)
		n++
	}
	if categoryID != 0 {
		query += fmt.Sprintf(` AND p.category_id = $%d`, n)
		args = append(args, categoryID)
		n++
	}
	query += ` ORDER BY o.id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offerings []*Offering
	byID := map[int64]*Offering{}
	for rows.Next() {
		o := &Offering{}
		if err := rows.Scan(&o.ID, &o.ProductID, &o.ProductName, &o.CategoryID,
			&o.ShopID, &o.ExternalID, &o.Name, &o.Quantity, &o.Price, &o.PriceRRC); err != nil {
			return nil, err
		}
		offerings = append(offerings, o)
		byID[o.ID] = o
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(offerings) == 0 {
		return offerings, nil
	}

	return offerings, r.attachParameters(ctx, byID, query, args)
}

func (r *postgresRepo) attachParameters(ctx context.Context, byID map[int64]*Offering, baseQuery string, baseArgs []interface{}) error {
	// Reuse the filtered offering set as a subquery so gating stays in one place.
	rows, err := r.db.QueryContext(ctx, `
		SELECT op.offering_id, pa.name, op.value
		FROM offering_parameters op
		JOIN parameters pa ON pa.id = op.parameter_id
		WHERE op.offering_id IN (SELECT q.id FROM (`+baseQuery+`) q)`, baseArgs...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var offeringID int64
		var name, value string
		if err := rows.Scan(&offeringID, &name, &value); err != nil {
			return err
		}
		if o, ok := byID[offeringID]; ok {
			if o.Parameters == nil {
				o.Parameters = map[string]string{}
			}
			o.Parameters[name] = value
		}
	}
	return rows.Err()
}
