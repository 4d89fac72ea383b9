package document

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-bizbook/internal/account"
	"github.com/noah-isme/backend-bizbook/internal/common"
	"github.com/noah-isme/backend-bizbook/internal/obs"
)

type documentRepo interface {
	InsertDocument(ctx context.Context, d Document) (Document, error)
	GetDocument(ctx context.Context, id uuid.UUID) (Document, error)
	ListDocuments(ctx context.Context, typ Type, partyID *uuid.UUID, limit, offset int) ([]Document, error)
	CountDocuments(ctx context.Context, typ Type, partyID *uuid.UUID) (int64, error)
}

type entryRecorder interface {
	RecordDocumentEntry(ctx context.Context, accountID uuid.UUID, documentID *uuid.UUID, direction account.Direction, amount decimal.Decimal, note string) (account.Entry, error)
}

type balanceEnqueuer interface {
	RefreshPartyBalance(ctx context.Context, partyID uuid.UUID)
}

// Service computes quotes and books documents. One instance serves all
// document types; the handlers pass the type per call.
type Service struct {
	repo            documentRepo
	lookup          PricingLookup
	accounts        entryRecorder
	queue           balanceEnqueuer
	validate        *validator.Validate
	logger          zerolog.Logger
	currency        string
	defaultTaxKind  string
	defaultTaxValue decimal.Decimal
	limit           int
	maxLimit        int
}

// ServiceConfig groups Service dependencies. Accounts and Queue are optional;
// without them documents persist but book no side effects.
type ServiceConfig struct {
	Repo            documentRepo
	Lookup          PricingLookup
	Accounts        entryRecorder
	Queue           balanceEnqueuer
	Validate        *validator.Validate
	Logger          zerolog.Logger
	Currency        string
	DefaultTaxKind  string
	DefaultTaxValue decimal.Decimal
	DefaultLimit    int
	MaxLimit        int
}

// NewService constructs a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Repo == nil {
		return nil, errors.New("document: repo is required")
	}
	validate := cfg.Validate
	if validate == nil {
		validate = validator.New()
	}
	limit := cfg.DefaultLimit
	if limit < 1 {
		limit = 20
	}
	maxLimit := cfg.MaxLimit
	if maxLimit < 1 {
		maxLimit = 100
	}
	return &Service{
		repo:            cfg.Repo,
		lookup:          cfg.Lookup,
		accounts:        cfg.Accounts,
		queue:           cfg.Queue,
		validate:        validate,
		logger:          cfg.Logger,
		currency:        strings.TrimSpace(cfg.Currency),
		defaultTaxKind:  strings.ToLower(strings.TrimSpace(cfg.DefaultTaxKind)),
		defaultTaxValue: cfg.DefaultTaxValue,
		limit:           limit,
		maxLimit:        maxLimit,
	}, nil
}

// withDefaults fills the business-wide default tax into inputs that carry no
// tax of their own. Idempotent, so quoting inside Create applies it once.
func (s *Service) withDefaults(input Input) Input {
	if strings.TrimSpace(input.TaxKind) == "" && input.TaxValue.IsZero() && s.defaultTaxValue.IsPositive() {
		kind := s.defaultTaxKind
		if kind == "" {
			kind = "percent"
		}
		input.TaxKind = kind
		input.TaxValue = s.defaultTaxValue
	}
	return input
}

// Quote prices the input without persisting anything. Only this entry point
// counts towards the quote metric; Create reuses the computation but reports
// under the document metric instead.
func (s *Service) Quote(ctx context.Context, typ Type, input Input) (Quote, error) {
	quote, err := s.quote(ctx, typ, input)
	switch {
	case err == nil:
		countQuote("ok")
	case common.As(err, new(*common.AppError)):
		countQuote("invalid")
	default:
		countQuote("error")
	}
	return quote, err
}

func (s *Service) quote(ctx context.Context, typ Type, input Input) (Quote, error) {
	input = s.withDefaults(input)
	if err := s.validateInput(input); err != nil {
		return Quote{}, err
	}
	quote, err := BuildQuote(ctx, s.lookup, typ, input)
	if err != nil {
		return Quote{}, err
	}
	quote.Currency = s.currency
	return quote, nil
}

// Create quotes the input, persists the document, books the payment on the
// account when one is named, and schedules a party balance refresh.
func (s *Service) Create(ctx context.Context, typ Type, input Input) (Document, error) {
	input = s.withDefaults(input)
	quote, err := s.quote(ctx, typ, input)
	if err != nil {
		return Document{}, err
	}
	if typ.CarriesPayment() && quote.PaidAmount.IsPositive() && input.AccountID == nil {
		return Document{}, common.BadRequest("account_id", "a paid document needs an account", nil)
	}

	doc := Document{
		Type:          typ,
		Number:        nextNumber(typ),
		PartyID:       input.PartyID,
		Lines:         quote.Lines,
		DiscountKind:  strings.ToLower(strings.TrimSpace(input.DiscountKind)),
		DiscountValue: input.DiscountValue,
		TaxKind:       strings.ToLower(strings.TrimSpace(input.TaxKind)),
		TaxValue:      input.TaxValue,

		SubTotal:          quote.Totals.SubTotal,
		ItemDiscountTotal: quote.Totals.ItemDiscountTotal,
		GlobalDiscount:    quote.Totals.GlobalDiscount,
		TotalDiscount:     quote.Totals.TotalDiscount,
		TaxAmount:         quote.Totals.TaxAmount,
		GrandTotal:        quote.Totals.GrandTotal,
		PaidAmount:        quote.PaidAmount,
		Credit:            quote.Credit,
		Note:              strings.TrimSpace(input.Note),
	}
	if typ.CarriesPayment() {
		doc.AccountID = input.AccountID
	}

	saved, err := s.repo.InsertDocument(ctx, doc)
	if err != nil {
		countDocument(typ, "error")
		return Document{}, fmt.Errorf("create %s: %w", typ, err)
	}
	countDocument(typ, "ok")
	if obs.DocumentGrandTotal != nil {
		total, _ := saved.GrandTotal.Float64()
		obs.DocumentGrandTotal.WithLabelValues(string(typ)).Observe(total)
	}

	if s.accounts != nil && saved.AccountID != nil && saved.PaidAmount.IsPositive() {
		direction := account.DirIn
		if typ == TypePurchaseBill {
			direction = account.DirOut
		}
		docID := saved.ID
		if _, err := s.accounts.RecordDocumentEntry(ctx, *saved.AccountID, &docID, direction, saved.PaidAmount, saved.Number+" payment"); err != nil {
			s.logger.Error().Err(err).Str("document", saved.Number).Msg("book payment entry")
		}
	}
	if s.queue != nil && saved.PartyID != nil {
		s.queue.RefreshPartyBalance(ctx, *saved.PartyID)
	}
	return saved, nil
}

// Get fetches a document of the given type.
func (s *Service) Get(ctx context.Context, typ Type, id uuid.UUID) (Document, error) {
	d, err := s.repo.GetDocument(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Document{}, common.NotFound("document not found", err)
		}
		return Document{}, fmt.Errorf("get document: %w", err)
	}
	if d.Type != typ {
		return Document{}, common.NotFound("document not found", ErrNotFound)
	}
	return d, nil
}

// List returns a page of documents of the given type.
func (s *Service) List(ctx context.Context, typ Type, params ListParams) (ListResult, error) {
	params.Type = typ
	total, err := s.repo.CountDocuments(ctx, typ, params.PartyID)
	if err != nil {
		return ListResult{}, fmt.Errorf("count documents: %w", err)
	}
	docs, err := s.repo.ListDocuments(ctx, typ, params.PartyID, params.Limit, common.Offset(params.Page, params.Limit))
	if err != nil {
		return ListResult{}, fmt.Errorf("list documents: %w", err)
	}
	if docs == nil {
		docs = []Document{}
	}
	return ListResult{Documents: docs, Total: total, Page: params.Page, Limit: params.Limit}, nil
}

// ParseListParams normalises raw query values into typed filters.
func (s *Service) ParseListParams(values url.Values) (ListParams, error) {
	params := ListParams{Page: 1, Limit: s.limit}
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
	if v := strings.TrimSpace(values.Get("party_id")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return params, common.BadRequest("party_id", "party_id must be a valid UUID", err)
		}
		params.PartyID = &id
	}
	return params, nil
}

func (s *Service) validateInput(input Input) error {
	if err := s.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := strings.ToLower(verrs[0].Field())
			return common.BadRequest(field, "invalid value for "+field, err)
		}
		return common.BadRequest("input", "invalid document payload", err)
	}
	for i, line := range input.Lines {
		if line.Quantity.IsNegative() {
			return common.BadRequest(fmt.Sprintf("lines[%d].quantity", i), "quantity cannot be negative", nil)
		}
		if line.UnitPrice != nil && line.UnitPrice.IsNegative() {
			return common.BadRequest(fmt.Sprintf("lines[%d].unit_price", i), "unit price cannot be negative", nil)
		}
	}
	return nil
}

var numberPrefixes = map[Type]string{
	TypeSaleInvoice:   "INV",
	TypePurchaseBill:  "BILL",
	TypePurchaseOrder: "PO",
}

func nextNumber(typ Type) string {
	prefix, ok := numberPrefixes[typ]
	if !ok {
		prefix = "DOC"
	}
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return prefix + "-" + id[:10]
}

func countQuote(result string) {
	if obs.QuoteTotal != nil {
		obs.QuoteTotal.WithLabelValues(result).Inc()
	}
}

func countDocument(typ Type, result string) {
	if obs.DocumentTotal != nil {
		obs.DocumentTotal.WithLabelValues(string(typ), result).Inc()
	}
}
