package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/noah-isme/backend-bizbook/internal/common"
	"github.com/noah-isme/backend-bizbook/internal/obs"
	"github.com/noah-isme/backend-bizbook/internal/pricing"
)

type itemRepo interface {
	InsertItem(ctx context.Context, item Item) (Item, error)
	UpdateItem(ctx context.Context, item Item) (Item, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	GetItem(ctx context.Context, id uuid.UUID) (Item, error)
	GetItemByName(ctx context.Context, name string) (Item, error)
	ListItems(ctx context.Context, query string, limit, offset int) ([]Item, error)
	CountItems(ctx context.Context, query string) (int64, error)
}

// Service orchestrates item persistence, caching, and the pricing lookup
// used by document quoting.
type Service struct {
	repo         itemRepo
	cache        *Cache
	validate     *validator.Validate
	defaultPage  int
	defaultLimit int
	maxLimit     int
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Repo         itemRepo
	Cache        *Cache
	Validate     *validator.Validate
	DefaultPage  int
	DefaultLimit int
	MaxLimit     int
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Repo == nil {
		return nil, errors.New("catalog: item repo is required")
	}
	validate := cfg.Validate
	if validate == nil {
		validate = validator.New()
	}
	defaultPage := cfg.DefaultPage
	if defaultPage < 1 {
		defaultPage = 1
	}
	defaultLimit := cfg.DefaultLimit
	if defaultLimit < 1 {
		defaultLimit = 20
	}
	maxLimit := cfg.MaxLimit
	if maxLimit < 1 {
		maxLimit = 100
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	return &Service{
		repo:         cfg.Repo,
		cache:        cfg.Cache,
		validate:     validate,
		defaultPage:  defaultPage,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}, nil
}

// ParseListParams normalises raw query values into strongly typed filters.
func (s *Service) ParseListParams(values url.Values) (ListParams, error) {
	params := ListParams{
		Page:  s.defaultPage,
		Limit: s.defaultLimit,
	}
	params.Query = strings.TrimSpace(values.Get("q"))

	if v := strings.TrimSpace(values.Get("page")); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return params, common.BadRequest("page", "page must be a positive integer", err)
		}
		params.Page = page
	}
	limit := s.defaultLimit
	if v := strings.TrimSpace(values.Get("limit")); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil || l < 1 {
			return params, common.BadRequest("limit", "limit must be a positive integer", err)
		}
		limit = l
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	params.Limit = limit
	return params, nil
}

// Create validates and stores a new item.
func (s *Service) Create(ctx context.Context, input ItemInput) (Item, error) {
	item, err := s.itemFromInput(input)
	if err != nil {
		return Item{}, err
	}
	saved, err := s.repo.InsertItem(ctx, item)
	if err != nil {
		if errors.Is(err, ErrDuplicateName) {
			return Item{}, common.NewAppError("CONFLICT", "item name already exists", http.StatusConflict, err)
		}
		return Item{}, fmt.Errorf("create item: %w", err)
	}
	s.invalidate(ctx, saved.Name)
	return saved, nil
}

// Update validates and replaces an existing item.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input ItemInput) (Item, error) {
	previous, err := s.repo.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Item{}, common.NotFound("item not found", err)
		}
		return Item{}, fmt.Errorf("get item: %w", err)
	}
	item, err := s.itemFromInput(input)
	if err != nil {
		return Item{}, err
	}
	item.ID = id
	saved, err := s.repo.UpdateItem(ctx, item)
	if err != nil {
		if errors.Is(err, ErrDuplicateName) {
			return Item{}, common.NewAppError("CONFLICT", "item name already exists", http.StatusConflict, err)
		}
		if errors.Is(err, ErrNotFound) {
			return Item{}, common.NotFound("item not found", err)
		}
		return Item{}, fmt.Errorf("update item: %w", err)
	}
	s.invalidate(ctx, previous.Name, saved.Name)
	return saved, nil
}

// Delete removes an item by id.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return common.NotFound("item not found", err)
		}
		return fmt.Errorf("get item: %w", err)
	}
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return common.NotFound("item not found", err)
		}
		return fmt.Errorf("delete item: %w", err)
	}
	s.invalidate(ctx, item.Name)
	return nil
}

// Get fetches a single item by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Item, error) {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Item{}, common.NotFound("item not found", err)
		}
		return Item{}, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// List returns a filtered page of items with pagination metadata.
func (s *Service) List(ctx context.Context, params ListParams) (ListResult, error) {
	total, err := s.repo.CountItems(ctx, params.Query)
	if err != nil {
		return ListResult{}, fmt.Errorf("count items: %w", err)
	}
	offset := common.Offset(params.Page, params.Limit)
	items, err := s.repo.ListItems(ctx, params.Query, params.Limit, offset)
	if err != nil {
		return ListResult{}, fmt.Errorf("list items: %w", err)
	}
	if items == nil {
		items = []Item{}
	}
	return ListResult{Items: items, Total: total, Page: params.Page, Limit: params.Limit}, nil
}

// PricingFor resolves the pricing view of an item by name. A document line
// naming an unknown item is priced as entered, so absence is reported via
// found rather than an error.
func (s *Service) PricingFor(ctx context.Context, name string) (pricing.ItemPricing, bool, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return pricing.ItemPricing{}, false, nil
	}
	key := itemCacheKey(trimmed)
	var cached Item
	if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		countCache("hit")
		return cached.Pricing(), true, nil
	}
	countCache("miss")
	item, err := s.repo.GetItemByName(ctx, trimmed)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return pricing.ItemPricing{}, false, nil
		}
		return pricing.ItemPricing{}, false, fmt.Errorf("get item by name: %w", err)
	}
	_ = s.cache.SetJSON(ctx, key, item)
	return item.Pricing(), true, nil
}

func (s *Service) itemFromInput(input ItemInput) (Item, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := s.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := strings.ToLower(verrs[0].Field())
			return Item{}, common.BadRequest(field, "invalid value for "+field, err)
		}
		return Item{}, common.BadRequest("input", "invalid item payload", err)
	}
	if input.PurchasePrice.IsNegative() || input.SalePrice.IsNegative() || input.WholesalePrice.IsNegative() {
		return Item{}, common.BadRequest("price", "prices cannot be negative", nil)
	}
	if input.MinWholesaleQty.IsNegative() {
		return Item{}, common.BadRequest("min_wholesale_qty", "minimum wholesale quantity cannot be negative", nil)
	}
	kind := pricing.UnitKind(valueOr(input.UnitKind, string(pricing.UnitNone)))
	if kind == pricing.UnitConvertible {
		if strings.TrimSpace(input.BaseUnit) == "" || strings.TrimSpace(input.SecondaryUnit) == "" {
			return Item{}, common.BadRequest("unit", "convertible units need both base and secondary names", nil)
		}
		if !input.UnitFactor.IsPositive() {
			return Item{}, common.BadRequest("unit_factor", "unit factor must be positive", nil)
		}
	}
	item := Item{
		Name:               input.Name,
		Sku:                strings.TrimSpace(input.Sku),
		UnitKind:           kind,
		BaseUnit:           strings.TrimSpace(input.BaseUnit),
		SecondaryUnit:      strings.TrimSpace(input.SecondaryUnit),
		UnitFactor:         input.UnitFactor,
		UnitLabel:          strings.TrimSpace(input.UnitLabel),
		PurchasePrice:      input.PurchasePrice,
		PurchasePriceUnit:  pricing.PriceUnitKind(valueOr(input.PurchasePriceUnit, string(pricing.PerBase))),
		SalePrice:          input.SalePrice,
		SalePriceUnit:      pricing.PriceUnitKind(valueOr(input.SalePriceUnit, string(pricing.PerSecondary))),
		WholesalePrice:     input.WholesalePrice,
		WholesalePriceUnit: pricing.PriceUnitKind(valueOr(input.WholesalePriceUnit, string(pricing.PerBase))),
		MinWholesaleQty:    input.MinWholesaleQty,
	}
	return item, nil
}

func (s *Service) invalidate(ctx context.Context, names ...string) {
	keys := make([]string, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) != "" {
			keys = append(keys, itemCacheKey(name))
		}
	}
	_ = s.cache.Delete(ctx, keys...)
}

func itemCacheKey(name string) string {
	return "catalog:item:" + strings.ToLower(strings.TrimSpace(name))
}

func countCache(result string) {
	if obs.CatalogCacheTotal != nil {
		obs.CatalogCacheTotal.WithLabelValues(result).Inc()
	}
}

func valueOr(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}
