package sales_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-bizbook/internal/document"
	"github.com/noah-isme/backend-bizbook/internal/pricing"
	"github.com/noah-isme/backend-bizbook/internal/sales"
	"github.com/shopspring/decimal"
)

type memRepo struct {
	docs map[uuid.UUID]document.Document
}

func newMemRepo() *memRepo {
	return &memRepo{docs: make(map[uuid.UUID]document.Document)}
}

func (m *memRepo) InsertDocument(_ context.Context, d document.Document) (document.Document, error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	m.docs[d.ID] = d
	return d, nil
}

func (m *memRepo) GetDocument(_ context.Context, id uuid.UUID) (document.Document, error) {
	d, ok := m.docs[id]
	if !ok {
		return document.Document{}, document.ErrNotFound
	}
	return d, nil
}

func (m *memRepo) ListDocuments(_ context.Context, typ document.Type, partyID *uuid.UUID, limit, offset int) ([]document.Document, error) {
	var out []document.Document
	for _, d := range m.docs {
		if d.Type == typ {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memRepo) CountDocuments(_ context.Context, typ document.Type, _ *uuid.UUID) (int64, error) {
	var n int64
	for _, d := range m.docs {
		if d.Type == typ {
			n++
		}
	}
	return n, nil
}

type staticLookup struct {
	items map[string]pricing.ItemPricing
}

func (s staticLookup) PricingFor(_ context.Context, name string) (pricing.ItemPricing, bool, error) {
	ip, ok := s.items[name]
	return ip, ok, nil
}

func newTestRouter(t *testing.T, repo *memRepo, lookup staticLookup) http.Handler {
	t.Helper()
	service, err := document.NewService(document.ServiceConfig{
		Repo:   repo,
		Lookup: lookup,
		Logger: zerolog.Nop(),
	})
	require.NoError(t, err)
	r := chi.NewRouter()
	r.Route("/api/v1/sales", sales.NewHandler(service).Routes)
	return r
}

func TestQuoteEndpoint(t *testing.T) {
	router := newTestRouter(t, newMemRepo(), staticLookup{})

	body := `{
		"lines": [
			{"item_name":"Widget","quantity":"10","unit_price":"10","discount_percent":"10"},
			{"item_name":"Gadget","quantity":"2","unit_price":"15"}
		],
		"discount_kind":"percent","discount_value":"5",
		"tax_kind":"percent","tax_value":"10"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales/quote", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var payload struct {
		Data document.Quote `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, "124.85", payload.Data.Totals.GrandTotal.StringFixed(2))
	require.Equal(t, "16.50", payload.Data.Totals.TotalDiscount.StringFixed(2))
}

func TestQuoteEndpointUsesCatalog(t *testing.T) {
	lookup := staticLookup{items: map[string]pricing.ItemPricing{
		"Rice": pricing.NewItemPricing(
			pricing.ConvertibleUnit("Kg", "Bag", decimal.RequireFromString("25")),
			decimal.RequireFromString("1.10"),
			decimal.RequireFromString("32.50"),
			decimal.RequireFromString("1.05"),
			decimal.RequireFromString("100"),
		),
	}}
	router := newTestRouter(t, newMemRepo(), lookup)

	body := `{"lines":[{"item_name":"Rice","quantity":"2","unit":"Bag"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales/quote", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var payload struct {
		Data document.Quote `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	// 2 bags = 50 Kg, below the 100 Kg tier, so the regular sale price applies
	require.Equal(t, "32.50", payload.Data.Lines[0].UnitPrice.StringFixed(2))
	require.Equal(t, "65.00", payload.Data.Totals.GrandTotal.StringFixed(2))
}

func TestCreateAndFetchInvoice(t *testing.T) {
	repo := newMemRepo()
	router := newTestRouter(t, repo, staticLookup{})

	body := `{"lines":[{"item_name":"Widget","quantity":"4","unit_price":"12.50"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales/invoices", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var payload struct {
		Data document.Document `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.True(t, strings.HasPrefix(payload.Data.Number, "INV-"))
	require.Equal(t, "50.00", payload.Data.GrandTotal.StringFixed(2))
	require.Equal(t, "50.00", payload.Data.Credit.StringFixed(2))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/sales/invoices/"+payload.Data.ID.String(), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/sales/invoices", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "1", rec.Header().Get("X-Total-Count"))
}

func TestCreateInvoiceRejectsBadJSON(t *testing.T) {
	router := newTestRouter(t, newMemRepo(), staticLookup{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales/invoices", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetInvoiceNotFound(t *testing.T) {
	router := newTestRouter(t, newMemRepo(), staticLookup{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sales/invoices/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
