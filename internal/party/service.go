package party

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-bizbook/internal/common"
)

type partyRepo interface {
	InsertParty(ctx context.Context, p Party) (Party, error)
	UpdateParty(ctx context.Context, p Party) (Party, error)
	DeleteParty(ctx context.Context, id uuid.UUID) error
	GetParty(ctx context.Context, id uuid.UUID) (Party, error)
	ListParties(ctx context.Context, typ, query string, limit, offset int) ([]Party, error)
	CountParties(ctx context.Context, typ, query string) (int64, error)
	RefreshBalance(ctx context.Context, id uuid.UUID) (decimal.Decimal, error)
}

// Service manages customers and suppliers.
type Service struct {
	repo         partyRepo
	validate     *validator.Validate
	defaultLimit int
	maxLimit     int
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Repo         partyRepo
	Validate     *validator.Validate
	DefaultLimit int
	MaxLimit     int
}

// NewService constructs a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Repo == nil {
		return nil, errors.New("party: repo is required")
	}
	validate := cfg.Validate
	if validate == nil {
		validate = validator.New()
	}
	defaultLimit := cfg.DefaultLimit
	if defaultLimit < 1 {
		defaultLimit = 20
	}
	maxLimit := cfg.MaxLimit
	if maxLimit < 1 {
		maxLimit = 100
	}
	return &Service{repo: cfg.Repo, validate: validate, defaultLimit: defaultLimit, maxLimit: maxLimit}, nil
}

// ParseListParams normalises raw query values into typed filters.
func (s *Service) ParseListParams(values url.Values) (ListParams, error) {
	params := ListParams{Page: 1, Limit: s.defaultLimit}
	params.Query = strings.TrimSpace(values.Get("q"))
	typ := strings.ToLower(strings.TrimSpace(values.Get("type")))
	switch typ {
	case "", string(TypeCustomer), string(TypeSupplier):
		params.Type = typ
	default:
		return params, common.BadRequest("type", "type must be customer or supplier", nil)
	}
	if v := strings.TrimSpace(values.Get("page")); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return params, common.BadRequest("page", "page must be a positive integer", err)
		}
		params.Page = page
	}
	if v := strings.TrimSpace(values.Get("limit")); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil || l < 1 {
			return params, common.BadRequest("limit", "limit must be a positive integer", err)
		}
		params.Limit = l
	}
	if params.Limit > s.maxLimit {
		params.Limit = s.maxLimit
	}
	return params, nil
}

// Create validates and stores a new party.
func (s *Service) Create(ctx context.Context, input Input) (Party, error) {
	p, err := s.partyFromInput(input)
	if err != nil {
		return Party{}, err
	}
	saved, err := s.repo.InsertParty(ctx, p)
	if err != nil {
		return Party{}, fmt.Errorf("create party: %w", err)
	}
	return saved, nil
}

// Update validates and replaces a party's contact fields.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input Input) (Party, error) {
	p, err := s.partyFromInput(input)
	if err != nil {
		return Party{}, err
	}
	p.ID = id
	saved, err := s.repo.UpdateParty(ctx, p)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Party{}, common.NotFound("party not found", err)
		}
		return Party{}, fmt.Errorf("update party: %w", err)
	}
	return saved, nil
}

// Delete removes a party.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteParty(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return common.NotFound("party not found", err)
		}
		return fmt.Errorf("delete party: %w", err)
	}
	return nil
}

// Get fetches a party by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Party, error) {
	p, err := s.repo.GetParty(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Party{}, common.NotFound("party not found", err)
		}
		return Party{}, fmt.Errorf("get party: %w", err)
	}
	return p, nil
}

// List returns a filtered page of parties.
func (s *Service) List(ctx context.Context, params ListParams) (ListResult, error) {
	total, err := s.repo.CountParties(ctx, params.Type, params.Query)
	if err != nil {
		return ListResult{}, fmt.Errorf("count parties: %w", err)
	}
	parties, err := s.repo.ListParties(ctx, params.Type, params.Query, params.Limit, common.Offset(params.Page, params.Limit))
	if err != nil {
		return ListResult{}, fmt.Errorf("list parties: %w", err)
	}
	if parties == nil {
		parties = []Party{}
	}
	return ListResult{Parties: parties, Total: total, Page: params.Page, Limit: params.Limit}, nil
}

// RefreshBalance recomputes a party's outstanding balance. Called from the
// background worker after document writes.
func (s *Service) RefreshBalance(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	balance, err := s.repo.RefreshBalance(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return decimal.Zero, common.NotFound("party not found", err)
		}
		return decimal.Zero, fmt.Errorf("refresh balance: %w", err)
	}
	return balance, nil
}

func (s *Service) partyFromInput(input Input) (Party, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Type = strings.ToLower(strings.TrimSpace(input.Type))
	if err := s.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := strings.ToLower(verrs[0].Field())
			return Party{}, common.BadRequest(field, "invalid value for "+field, err)
		}
		return Party{}, common.BadRequest("input", "invalid party payload", err)
	}
	return Party{
		Type:    Type(input.Type),
		Name:    input.Name,
		Phone:   strings.TrimSpace(input.Phone),
		Address: strings.TrimSpace(input.Address),
	}, nil
}
