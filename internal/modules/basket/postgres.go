package basket

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/avdonin/orderhub-backend/internal/domain"
	"github.com/avdonin/orderhub-backend/internal/modules/order"
)

const (
	pqUniqueViolation      = "23505"
	pqSerializationFailure = "40001"
)

// IsRetryable reports whether the transaction lost a race and may be
// replayed. Besides serialization failures this covers unique violations:
// two first adds racing to create the open basket both pass the read, the
// loser trips the partial unique index, and a replay finds the winner's row.
func IsRetryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == pqSerializationFailure || pqErr.Code == pqUniqueViolation
}

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) GetOpenBasket(ctx context.Context, accountID uuid.UUID) (*order.Order, error) {
	o := &order.Order{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, dt, state, total_sum
		FROM orders WHERE user_id = $1 AND state = 'new'`, accountID).
		Scan(&o.ID, &o.AccountID, &o.CreatedAt, &o.State, &o.TotalSum)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no open basket: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.offering_id, ofr.name, ofr.price, ofr.price_rrc, oi.quantity
		FROM order_items oi JOIN offerings ofr ON ofr.id = oi.offering_id
		WHERE oi.order_id = $1 ORDER BY oi.created_at ASC`, o.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		l := &order.Line{}
		if err := rows.Scan(&l.ID, &l.OrderID, &l.OfferingID, &l.OfferingName,
			&l.Price, &l.PriceRRC, &l.Quantity); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, l)
	}
	return o, rows.Err()
}

func (r *postgresRepo) AddLines(ctx context.Context, accountID uuid.UUID, items []LineInput) (int, int64, error) {
	tx, err := r.beginBasketTx(ctx)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback()

	basketID, err := findOrCreateBasket(ctx, tx, accountID)
	if err != nil {
		return 0, 0, err
	}

	created := 0
	for _, item := range items {
		var exists bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM offerings WHERE id = $1)`, item.OfferingID).Scan(&exists)
		if err != nil {
			return 0, 0, err
		}
		if !exists {
			return 0, 0, fmt.Errorf("offering %d is unknown: %w", item.OfferingID, domain.ErrInvalidInput)
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, offering_id, quantity)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (order_id, offering_id) DO NOTHING`,
			uuid.New(), basketID, item.OfferingID, item.Quantity)
		if err != nil {
			return 0, 0, err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			created++
		}
	}

	total, err := recomputeTotal(ctx, tx, basketID)
	if err != nil {
		return 0, 0, err
	}
	return created, total, tx.Commit()
}

func (r *postgresRepo) UpdateQuantities(ctx context.Context, accountID uuid.UUID, updates []QuantityUpdate) (int, int64, error) {
	tx, err := r.beginBasketTx(ctx)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback()

	basketID, err := openBasketID(ctx, tx, accountID)
	if err != nil {
		return 0, 0, err
	}

	updated := 0
	for _, u := range updates {
		res, err := tx.ExecContext(ctx,
			`UPDATE order_items SET quantity = $1 WHERE id = $2 AND order_id = $3`,
			u.Quantity, u.LineID, basketID)
		if err != nil {
			return 0, 0, err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			updated++
		}
	}

	total, err := recomputeTotal(ctx, tx, basketID)
	if err != nil {
		return 0, 0, err
	}
	return updated, total, tx.Commit()
}

func (r *postgresRepo) RemoveLines(ctx context.Context, accountID uuid.UUID, lineIDs []uuid.UUID) (int64, int64, error) {
	tx, err := r.beginBasketTx(ctx)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback()

	basketID, err := openBasketID(ctx, tx, accountID)
	if err != nil {
		return 0, 0, err
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM order_items WHERE order_id = $1 AND id = ANY($2)`,
		basketID, pq.Array(lineIDs))
	if err != nil {
		return 0, 0, err
	}
	deleted, _ := res.RowsAffected()

	total, err := recomputeTotal(ctx, tx, basketID)
	if err != nil {
		return 0, 0, err
	}
	return deleted, total, tx.Commit()
}

func (r *postgresRepo) beginBasketTx(ctx context.Context) (*sql.Tx, error) {
	return r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
}

// findOrCreateBasket leans on the partial unique index over
// (user_id) WHERE state = 'new' to keep the open-basket invariant.
func findOrCreateBasket(ctx context.Context, tx *sql.Tx, accountID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM orders WHERE user_id = $1 AND state = 'new'`, accountID).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, err
	}

	id = uuid.New()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, user_id, state, total_sum) VALUES ($1, $2, 'new', 0)`,
		id, accountID)
	return id, err
}

func openBasketID(ctx context.Context, tx *sql.Tx, accountID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM orders WHERE user_id = $1 AND state = 'new'`, accountID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("no open basket: %w", domain.ErrNotFound)
	}
	return id, err
}

func recomputeTotal(ctx context.Context, tx *sql.Tx, basketID uuid.UUID) (int64, error) {
	var total int64
	err := tx.QueryRowContext(ctx, `
		UPDATE orders SET total_sum = COALESCE((
			SELECT SUM(ofr.price * oi.quantity)
			FROM order_items oi JOIN offerings ofr ON ofr.id = oi.offering_id
			WHERE oi.order_id = orders.id
		), 0)
		WHERE id = $1
		RETURNING total_sum`, basketID).Scan(&total)
	return total, err
}
