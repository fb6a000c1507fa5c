package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/avdonin/orderhub-backend/internal/domain"
	"github.com/avdonin/orderhub-backend/internal/events"
)

const minPasswordLength = 8

type service struct {
	repo     Repository
	tokens   TokenRepository
	contacts ContactRepository
	bus      *events.Bus
}

// NewService creates a new identity service.
func NewService(repo Repository, tokens TokenRepository, contacts ContactRepository, bus *events.Bus) Service {
	return &service{repo: repo, tokens: tokens, contacts: contacts, bus: bus}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*Account, error) {
	fields := domain.FieldErrors{}
	if req.FirstName == "" {
		fields["first_name"] = "required"
	}
	if req.LastName == "" {
		fields["last_name"] = "required"
	}
	if req.Company == "" {
		fields["company"] = "required"
	}
	if req.Position == "" {
		fields["position"] = "required"
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		fields["email"] = "valid email required"
	}
	if len(req.Password) < minPasswordLength {
		fields["password"] = fmt.Sprintf("must be at least %d characters", minPasswordLength)
	}
	role := domain.RoleCustomer
	switch req.Type {
	case "", string(domain.RoleCustomer):
	case string(domain.RolePartner):
		role = domain.RolePartner
	default:
		fields["type"] = "must be customer or partner"
	}
	if len(fields) > 0 {
		return nil, fields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	a := &Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Company:      req.Company,
		Position:     req.Position,
		Role:         role,
	}

	activationKey := newTokenKey(16)
	if err := s.repo.CreateAccount(ctx, a, activationKey); err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.TopicUserRegistered, events.UserRegistered{
		AccountID: a.ID,
		Email:     a.Email,
		Token:     activationKey,
		At:        time.Now().UTC(),
	})
	return a, nil
}

func (s *service) Activate(ctx context.Context, email, token string) error {
	if email == "" || token == "" {
		return fmt.Errorf("email and token are required: %w", domain.ErrInvalidInput)
	}
	_, err := s.tokens.RedeemActivationToken(ctx, strings.ToLower(strings.TrimSpace(email)), token)
	return err
}

func (s *service) GetDetails(ctx context.Context, accountID uuid.UUID) (*Account, error) {
	return s.repo.GetAccountByID(ctx, accountID)
}

func (s *service) UpdateDetails(ctx context.Context, accountID uuid.UUID, req UpdateDetailsRequest) (*Account, error) {
	a, err := s.repo.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		a.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		a.LastName = *req.LastName
	}
	if req.Company != nil {
		a.Company = *req.Company
	}
	if req.Position != nil {
		a.Position = *req.Position
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" || !strings.Contains(email, "@") {
			return nil, domain.FieldErrors{"email": "valid email required"}
		}
		a.Email = email
	}
	if req.Password != nil {
		if len(*req.Password) < minPasswordLength {
			return nil, domain.FieldErrors{"password": fmt.Sprintf("must be at least %d characters", minPasswordLength)}
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		a.PasswordHash = string(hash)
	}

	if err := s.repo.UpdateAccount(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("email is required: %w", domain.ErrInvalidInput)
	}
	a, err := s.repo.GetAccountByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		// Do not reveal whether the email exists.
		return nil
	}
	if err != nil {
		return err
	}

	key := newTokenKey(16)
	if err := s.tokens.CreateResetToken(ctx, a.ID, key); err != nil {
		return err
	}

	s.bus.Publish(ctx, events.TopicResetTokenCreated, events.ResetTokenCreated{
		AccountID: a.ID,
		Who:       a.FirstName + " " + a.LastName,
		Email:     a.Email,
		Token:     key,
		At:        time.Now().UTC(),
	})
	return nil
}

func (s *service) ConfirmPasswordReset(ctx context.Context, email, token, password string) error {
	if len(password) < minPasswordLength {
		return domain.FieldErrors{"password": fmt.Sprintf("must be at least %d characters", minPasswordLength)}
	}
	accountID, err := s.tokens.ConsumeResetToken(ctx, strings.ToLower(strings.TrimSpace(email)), token)
	if err != nil {
		return err
	}
	a, err := s.repo.GetAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return s.repo.UpdateAccount(ctx, a)
}

func (s *service) ListContacts(ctx context.Context, accountID uuid.UUID) ([]*Contact, error) {
	return s.contacts.ListContacts(ctx, accountID)
}

func (s *service) AddContact(ctx context.Context, accountID uuid.UUID, req ContactRequest) (*Contact, bool, error) {
	if err := validateContact(req); err != nil {
		return nil, false, err
	}

	created := false
	c, err := s.contacts.GetContactByPhone(ctx, accountID, req.Phone)
	if err != nil {
		c = &Contact{ID: uuid.New(), AccountID: accountID, Phone: req.Phone}
		if err := s.contacts.CreateContact(ctx, c); err != nil {
			return nil, false, err
		}
		created = true
	}

	addr := addressFrom(c.ID, req)
	if err := s.contacts.AddAddress(ctx, addr); err != nil {
		return nil, created, err
	}
	c.Addresses = append(c.Addresses, addr)
	return c, created, nil
}

func (s *service) EditContact(ctx context.Context, accountID, contactID uuid.UUID, req ContactRequest) (*Contact, error) {
	if err := validateContact(req); err != nil {
		return nil, err
	}
	c, err := s.contacts.GetContact(ctx, accountID, contactID)
	if err != nil {
		return nil, err
	}
	if c.Phone != req.Phone {
		if err := s.contacts.UpdateContactPhone(ctx, accountID, contactID, req.Phone); err != nil {
			return nil, err
		}
		c.Phone = req.Phone
	}

	addr := addressFrom(c.ID, req)
	if err := s.contacts.AddAddress(ctx, addr); err != nil {
		return nil, err
	}
	c.Addresses = append(c.Addresses, addr)
	return c, nil
}

func (s *service) DeleteContacts(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) (int64, int64, error) {
	if len(ids) == 0 {
		return 0, 0, fmt.Errorf("contact ids are required: %w", domain.ErrInvalidInput)
	}
	return s.contacts.DeleteContacts(ctx, accountID, ids)
}

func validateContact(req ContactRequest) error {
	fields := domain.FieldErrors{}
	if req.Phone == "" {
		fields["phone"] = "required"
	}
	if req.City == "" {
		fields["city"] = "required"
	}
	if req.Street == "" {
		fields["street"] = "required"
	}
	if len(fields) > 0 {
		return fields
	}
	return nil
}

func addressFrom(contactID uuid.UUID, req ContactRequest) *Address {
	return &Address{
		ID:        uuid.New(),
		ContactID: contactID,
		City:      req.City,
		Street:    req.Street,
		House:     req.House,
		Structure: req.Structure,
		Building:  req.Building,
		Apartment: req.Apartment,
	}
}
