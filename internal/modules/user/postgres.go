package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/avdonin/orderhub-backend/internal/domain"
)

const pqUniqueViolation = "23505"

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL account repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateAccount(ctx context.Context, a *Account, activationKey string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO accounts (id, email, password_hash, first_name, last_name, company, position, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, false)`,
		a.ID, a.Email, a.PasswordHash, a.FirstName, a.LastName, a.Company, a.Position, a.Role)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return fmt.Errorf("email %s already registered: %w", a.Email, domain.ErrConflict)
		}
		return fmt.Errorf("insert account: %w", err)
	}

	// At most one live activation token per account.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO activation_tokens (account_id, key)
		VALUES ($1, $2)
		ON CONFLICT (account_id) DO UPDATE SET key = EXCLUDED.key, created_at = NOW()`,
		a.ID, activationKey)
	if err != nil {
		return fmt.Errorf("insert activation token: %w", err)
	}

	return tx.Commit()
}

func scanAccount(scan func(...interface{}) error) (*Account, error) {
	a := &Account{}
	err := scan(&a.ID, &a.Email, &a.PasswordHash, &a.FirstName, &a.LastName,
		&a.Company, &a.Position, &a.Role, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

const accountColumns = `id, email, password_hash, first_name, last_name, company, position, role, is_active, created_at, updated_at`

func (r *postgresRepository) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
	a, err := scanAccount(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %s: %w", email, domain.ErrNotFound)
	}
	return a, err
}

func (r *postgresRepository) GetAccountByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	a, err := scanAccount(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
	}
	return a, err
}

func (r *postgresRepository) UpdateAccount(ctx context.Context, a *Account) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET email=$1, password_hash=$2, first_name=$3, last_name=$4,
		    company=$5, position=$6, updated_at=NOW()
		WHERE id=$7`,
		a.Email, a.PasswordHash, a.FirstName, a.LastName, a.Company, a.Position, a.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return fmt.Errorf("email %s already registered: %w", a.Email, domain.ErrConflict)
		}
	}
	return err
}

// ── tokens ───────────────────────────────────────────────────────────────────

type postgresTokenRepository struct {
	db *sql.DB
}

// NewPostgresTokenRepository creates a new PostgreSQL token repository.
func NewPostgresTokenRepository(db *sql.DB) TokenRepository {
	return &postgresTokenRepository{db: db}
}

func (r *postgresTokenRepository) RedeemActivationToken(ctx context.Context, email, key string) (uuid.UUID, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}
	defer tx.Rollback()

	var accountID uuid.UUID
	err = tx.QueryRowContext(ctx, `
		DELETE FROM activation_tokens t
		USING accounts a
		WHERE t.account_id = a.id AND a.email = $1 AND t.key = $2
		RETURNING t.account_id`, email, key).Scan(&accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("token is incorrect: %w", domain.ErrInvalidInput)
	}
	if err != nil {
		return uuid.Nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE accounts SET is_active = true, updated_at = NOW() WHERE id = $1`, accountID)
	if err != nil {
		return uuid.Nil, err
	}
	return accountID, tx.Commit()
}

func (r *postgresTokenRepository) GetOrCreateAPIToken(ctx context.Context, accountID uuid.UUID, key string) (string, error) {
	// Existing token wins so repeated logins hand back the same credential.
	var existing string
	err := r.db.QueryRowContext(ctx,
		`SELECT key FROM api_tokens WHERE account_id = $1`, accountID).Scan(&existing)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	err = r.db.QueryRowContext(ctx, `
		INSERT INTO api_tokens (account_id, key) VALUES ($1, $2)
		ON CONFLICT (account_id) DO UPDATE SET key = api_tokens.key
		RETURNING key`, accountID, key).Scan(&existing)
	return existing, err
}

func (r *postgresTokenRepository) LookupAPIToken(ctx context.Context, key string) (*Account, uuid.UUID, error) {
	var tokenID uuid.UUID
	a := &Account{}
	err := r.db.QueryRowContext(ctx, `
		SELECT t.id, a.id, a.email, a.password_hash, a.first_name, a.last_name,
		       a.company, a.position, a.role, a.is_active, a.created_at, a.updated_at
		FROM api_tokens t JOIN accounts a ON a.id = t.account_id
		WHERE t.key = $1`, key).Scan(
		&tokenID, &a.ID, &a.Email, &a.PasswordHash, &a.FirstName, &a.LastName,
		&a.Company, &a.Position, &a.Role, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, uuid.Nil, fmt.Errorf("unknown token: %w", domain.ErrUnauthenticated)
	}
	if err != nil {
		return nil, uuid.Nil, err
	}
	return a, tokenID, nil
}

func (r *postgresTokenRepository) CreateResetToken(ctx context.Context, accountID uuid.UUID, key string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reset_tokens (account_id, key)
		VALUES ($1, $2)
		ON CONFLICT (account_id) DO UPDATE SET key = EXCLUDED.key, created_at = NOW()`,
		accountID, key)
	return err
}

func (r *postgresTokenRepository) ConsumeResetToken(ctx context.Context, email, key string) (uuid.UUID, error) {
	var accountID uuid.UUID
	err := r.db.QueryRowContext(ctx, `
		DELETE FROM reset_tokens t
		USING accounts a
		WHERE t.account_id = a.id AND a.email = $1 AND t.key = $2
		RETURNING t.account_id`, email, key).Scan(&accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("token is incorrect: %w", domain.ErrInvalidInput)
	}
	return accountID, err
}

// ── contacts ─────────────────────────────────────────────────────────────────

type postgresContactRepository struct {
	db *sql.DB
}

// NewPostgresContactRepository creates a new PostgreSQL contact repository.
func NewPostgresContactRepository(db *sql.DB) ContactRepository {
	return &postgresContactRepository{db: db}
}

func (r *postgresContactRepository) ListContacts(ctx context.Context, accountID uuid.UUID) ([]*Contact, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, account_id, phone, created_at
		FROM contacts WHERE account_id = $1 ORDER BY created_at ASC`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []*Contact
	byID := map[uuid.UUID]*Contact{}
	for rows.Next() {
		c := &Contact{}
		if err := rows.Scan(&c.ID, &c.AccountID, &c.Phone, &c.CreatedAt); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
		byID[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(contacts) == 0 {
		return contacts, nil
	}

	addrRows, err := r.db.QueryContext(ctx, `
		SELECT ad.id, ad.contact_id, ad.city, ad.street, ad.house, ad.structure, ad.building, ad.apartment
		FROM addresses ad JOIN contacts c ON c.id = ad.contact_id
		WHERE c.account_id = $1 ORDER BY ad.id ASC`, accountID)
	if err != nil {
		return nil, err
	}
	defer addrRows.Close()
	for addrRows.Next() {
		a := &Address{}
		if err := addrRows.Scan(&a.ID, &a.ContactID, &a.City, &a.Street,
			&a.House, &a.Structure, &a.Building, &a.Apartment); err != nil {
			return nil, err
		}
		if c, ok := byID[a.ContactID]; ok {
			c.Addresses = append(c.Addresses, a)
		}
	}
	return contacts, addrRows.Err()
}

func (r *postgresContactRepository) GetContact(ctx context.Context, accountID, id uuid.UUID) (*Contact, error) {
	c := &Contact{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, account_id, phone, created_at
		FROM contacts WHERE id = $1 AND account_id = $2`, id, accountID).
		Scan(&c.ID, &c.AccountID, &c.Phone, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("contact %s: %w", id, domain.ErrNotFound)
	}
	return c, err
}

func (r *postgresContactRepository) GetContactByPhone(ctx context.Context, accountID uuid.UUID, phone string) (*Contact, error) {
	c := &Contact{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, account_id, phone, created_at
		FROM contacts WHERE account_id = $1 AND phone = $2`, accountID, phone).
		Scan(&c.ID, &c.AccountID, &c.Phone, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("contact with phone %s: %w", phone, domain.ErrNotFound)
	}
	return c, err
}

func (r *postgresContactRepository) CreateContact(ctx context.Context, c *Contact) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contacts (id, account_id, phone) VALUES ($1, $2, $3)`,
		c.ID, c.AccountID, c.Phone)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return fmt.Errorf("phone %s already saved: %w", c.Phone, domain.ErrConflict)
		}
	}
	return err
}

func (r *postgresContactRepository) UpdateContactPhone(ctx context.Context, accountID, id uuid.UUID, phone string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE contacts SET phone = $1 WHERE id = $2 AND account_id = $3`,
		phone, id, accountID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("contact %s: %w", id, domain.ErrNotFound)
	}
	return err
}

func (r *postgresContactRepository) AddAddress(ctx context.Context, a *Address) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO addresses (id, contact_id, city, street, house, structure, building, apartment)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.ContactID, a.City, a.Street, a.House, a.Structure, a.Building, a.Apartment)
	return err
}

func (r *postgresContactRepository) DeleteContacts(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) (int64, int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback()

	addrRes, err := tx.ExecContext(ctx, `
		DELETE FROM addresses WHERE contact_id IN (
			SELECT id FROM contacts WHERE account_id = $1 AND id = ANY($2)
		)`, accountID, pq.Array(ids))
	if err != nil {
		return 0, 0, err
	}
	contactRes, err := tx.ExecContext(ctx,
		`DELETE FROM contacts WHERE account_id = $1 AND id = ANY($2)`,
		accountID, pq.Array(ids))
	if err != nil {
		return 0, 0, err
	}

	addresses, _ := addrRes.RowsAffected()
	contacts, _ := contactRes.RowsAffected()
	return contacts, addresses, tx.Commit()
}
