package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-bizbook/internal/common"
)

type accountRepo interface {
	InsertAccount(ctx context.Context, a Account) (Account, error)
	UpdateAccount(ctx context.Context, a Account) (Account, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error
	GetAccount(ctx context.Context, id uuid.UUID) (Account, error)
	ListAccounts(ctx context.Context) ([]Account, error)
	InsertEntry(ctx context.Context, e Entry) (Entry, error)
	ListEntries(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]Entry, error)
}

// Service manages cash and bank accounts.
type Service struct {
	repo     accountRepo
	validate *validator.Validate
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Repo     accountRepo
	Validate *validator.Validate
}

// NewService constructs a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Repo == nil {
		return nil, errors.New("account: repo is required")
	}
	validate := cfg.Validate
	if validate == nil {
		validate = validator.New()
	}
	return &Service{repo: cfg.Repo, validate: validate}, nil
}

// Create validates and stores a new account.
func (s *Service) Create(ctx context.Context, input Input) (Account, error) {
	a, err := s.accountFromInput(input)
	if err != nil {
		return Account{}, err
	}
	saved, err := s.repo.InsertAccount(ctx, a)
	if err != nil {
		return Account{}, fmt.Errorf("create account: %w", err)
	}
	return saved, nil
}

// Update renames an account or changes its kind.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input Input) (Account, error) {
	a, err := s.accountFromInput(input)
	if err != nil {
		return Account{}, err
	}
	a.ID = id
	saved, err := s.repo.UpdateAccount(ctx, a)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Account{}, common.NotFound("account not found", err)
		}
		return Account{}, fmt.Errorf("update account: %w", err)
	}
	return saved, nil
}

// Delete removes an account.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteAccount(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return common.NotFound("account not found", err)
		}
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

// Get fetches an account by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Account, error) {
	a, err := s.repo.GetAccount(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Account{}, common.NotFound("account not found", err)
		}
		return Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

// List returns all accounts.
func (s *Service) List(ctx context.Context) ([]Account, error) {
	accounts, err := s.repo.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	if accounts == nil {
		accounts = []Account{}
	}
	return accounts, nil
}

// RecordEntry books a manual money movement on an account.
func (s *Service) RecordEntry(ctx context.Context, accountID uuid.UUID, input EntryInput) (Entry, error) {
	input.Direction = strings.ToLower(strings.TrimSpace(input.Direction))
	if err := s.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := strings.ToLower(verrs[0].Field())
			return Entry{}, common.BadRequest(field, "invalid value for "+field, err)
		}
		return Entry{}, common.BadRequest("input", "invalid entry payload", err)
	}
	if !input.Amount.IsPositive() {
		return Entry{}, common.BadRequest("amount", "amount must be positive", nil)
	}
	return s.RecordDocumentEntry(ctx, accountID, nil, Direction(input.Direction), input.Amount, strings.TrimSpace(input.Note))
}

// RecordDocumentEntry books a movement tied to a document. Document creation
// flows call this after persisting a payment.
func (s *Service) RecordDocumentEntry(ctx context.Context, accountID uuid.UUID, documentID *uuid.UUID, direction Direction, amount decimal.Decimal, note string) (Entry, error) {
	entry := Entry{
		AccountID:  accountID,
		DocumentID: documentID,
		Direction:  direction,
		Amount:     amount,
		Note:       note,
	}
	saved, err := s.repo.InsertEntry(ctx, entry)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Entry{}, common.NotFound("account not found", err)
		}
		return Entry{}, fmt.Errorf("record entry: %w", err)
	}
	return saved, nil
}

// Entries lists an account's entries, newest first.
func (s *Service) Entries(ctx context.Context, accountID uuid.UUID, page, limit int) ([]Entry, error) {
	if limit < 1 {
		limit = 20
	}
	entries, err := s.repo.ListEntries(ctx, accountID, limit, common.Offset(page, limit))
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

func (s *Service) accountFromInput(input Input) (Account, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Kind = strings.ToLower(strings.TrimSpace(input.Kind))
	if err := s.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := strings.ToLower(verrs[0].Field())
			return Account{}, common.BadRequest(field, "invalid value for "+field, err)
		}
		return Account{}, common.BadRequest("input", "invalid account payload", err)
	}
	return Account{Name: input.Name, Kind: Kind(input.Kind)}, nil
}
