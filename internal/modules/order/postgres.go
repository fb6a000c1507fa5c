package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/avdonin/orderhub-backend/internal/domain"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const orderColumns = `id, user_id, dt, state, total_sum, contact_id`

func scanOrder(scan func(...interface{}) error) (*Order, error) {
	o := &Order{}
	var contactID uuid.NullUUID
	err := scan(&o.ID, &o.AccountID, &o.CreatedAt, &o.State, &o.TotalSum, &contactID)
	if err != nil {
		return nil, err
	}
	if contactID.Valid {
		o.ContactID = &contactID.UUID
	}
	return o, nil
}

func (r *postgresRepo) GetOrder(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	o.Lines, err = r.listLines(ctx, o.ID)
	return o, err
}

func (r *postgresRepo) ListOrders(ctx context.Context, accountID uuid.UUID) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE user_id = $1 AND state <> 'new'
		ORDER BY dt DESC`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.Lines, err = r.listLines(ctx, o.ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *postgresRepo) PromoteBasket(ctx context.Context, orderID, accountID, contactID uuid.UUID) (*Order, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders SET state = 'in_progress', contact_id = $3
		WHERE id = $1 AND user_id = $2 AND state = 'new'
		  AND EXISTS (SELECT 1 FROM order_items WHERE order_id = orders.id)`,
		orderID, accountID, contactID)
	if err != nil {
		return nil, fmt.Errorf("promote basket: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("basket %s can not be confirmed: %w", orderID, domain.ErrConflict)
	}

	// Recompute the total from current offering prices so the committed
	// order is consistent with its lines.
	o := &Order{}
	var boundContact uuid.NullUUID
	err = tx.QueryRowContext(ctx, `
		UPDATE orders SET total_sum = COALESCE((
			SELECT SUM(ofr.price * oi.quantity)
			FROM order_items oi JOIN offerings ofr ON ofr.id = oi.offering_id
			WHERE oi.order_id = orders.id
		), 0)
		WHERE id = $1
		RETURNING `+orderColumns, orderID).
		Scan(&o.ID, &o.AccountID, &o.CreatedAt, &o.State, &o.TotalSum, &boundContact)
	if err != nil {
		return nil, fmt.Errorf("recompute total: %w", err)
	}
	if boundContact.Valid {
		o.ContactID = &boundContact.UUID
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	o.Lines, err = r.listLines(ctx, o.ID)
	return o, err
}

func (r *postgresRepo) UpdateState(ctx context.Context, id uuid.UUID, from, to State) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET state = $1 WHERE id = $2 AND state = $3`, to, id, from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("cannot transition order %s from %s to %s: %w", id, from, to, domain.ErrConflict)
	}
	return nil
}

func (r *postgresRepo) listLines(ctx context.Context, orderID uuid.UUID) ([]*Line, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.offering_id, ofr.name, ofr.price, ofr.price_rrc, oi.quantity
		FROM order_items oi JOIN offerings ofr ON ofr.id = oi.offering_id
		WHERE oi.order_id = $1 ORDER BY oi.created_at ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []*Line
	for rows.Next() {
		l := &Line{}
		if err := rows.Scan(&l.ID, &l.OrderID, &l.OfferingID, &l.OfferingName,
			&l.Price, &l.PriceRRC, &l.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
