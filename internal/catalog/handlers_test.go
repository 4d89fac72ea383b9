package catalog_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-bizbook/internal/catalog"
	"github.com/noah-isme/backend-bizbook/internal/pricing"
)

type fakeRepo struct {
	items map[uuid.UUID]catalog.Item
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[uuid.UUID]catalog.Item)}
}

func (f *fakeRepo) InsertItem(_ context.Context, item catalog.Item) (catalog.Item, error) {
	for _, existing := range f.items {
		if strings.EqualFold(existing.Name, item.Name) {
			return catalog.Item{}, catalog.ErrDuplicateName
		}
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeRepo) UpdateItem(_ context.Context, item catalog.Item) (catalog.Item, error) {
	if _, ok := f.items[item.ID]; !ok {
		return catalog.Item{}, catalog.ErrNotFound
	}
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeRepo) DeleteItem(_ context.Context, id uuid.UUID) error {
	if _, ok := f.items[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeRepo) GetItem(_ context.Context, id uuid.UUID) (catalog.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return catalog.Item{}, catalog.ErrNotFound
	}
	return item, nil
}

func (f *fakeRepo) GetItemByName(_ context.Context, name string) (catalog.Item, error) {
	for _, item := range f.items {
		if strings.EqualFold(item.Name, strings.TrimSpace(name)) {
			return item, nil
		}
	}
	return catalog.Item{}, catalog.ErrNotFound
}

func (f *fakeRepo) ListItems(_ context.Context, query string, limit, offset int) ([]catalog.Item, error) {
	var out []catalog.Item
	for _, item := range f.items {
		if query == "" || strings.Contains(strings.ToLower(item.Name), strings.ToLower(query)) {
			out = append(out, item)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) CountItems(_ context.Context, query string) (int64, error) {
	var total int64
	for _, item := range f.items {
		if query == "" || strings.Contains(strings.ToLower(item.Name), strings.ToLower(query)) {
			total++
		}
	}
	return total, nil
}

func newTestRouter(t *testing.T, repo *fakeRepo) http.Handler {
	t.Helper()
	service, err := catalog.NewService(catalog.ServiceConfig{Repo: repo})
	require.NoError(t, err)
	handler := catalog.NewHandler(catalog.HandlerConfig{Service: service})
	r := chi.NewRouter()
	r.Route("/api/v1/items", handler.Routes)
	return r
}

func TestCreateItem(t *testing.T) {
	repo := newFakeRepo()
	router := newTestRouter(t, repo)

	body := `{
		"name": "Rice",
		"sku": "RICE-25KG",
		"unit_kind": "convertible",
		"base_unit": "Kg",
		"secondary_unit": "Bag",
		"unit_factor": "25",
		"purchase_price": "1.10",
		"sale_price": "32.50",
		"wholesale_price": "1.05",
		"min_wholesale_qty": "100"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/items", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var payload struct {
		Data catalog.Item `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, "Rice", payload.Data.Name)
	require.Equal(t, "RICE-25KG", payload.Data.Sku)
	require.Equal(t, pricing.UnitConvertible, payload.Data.UnitKind)
	require.Equal(t, "25", payload.Data.UnitFactor.String())
	require.Equal(t, pricing.PerSecondary, payload.Data.SalePriceUnit)
	require.Equal(t, pricing.PerBase, payload.Data.WholesalePriceUnit)
}

func TestCreateItemRejectsMissingName(t *testing.T) {
	router := newTestRouter(t, newFakeRepo())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/items", strings.NewReader(`{"sale_price":"5"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "BAD_REQUEST")
}

func TestCreateItemRejectsDegenerateFactor(t *testing.T) {
	router := newTestRouter(t, newFakeRepo())

	body := `{"name":"Oil","unit_kind":"convertible","base_unit":"L","secondary_unit":"Drum","unit_factor":"0"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/items", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "unit_factor")
}

func TestCreateItemDuplicateName(t *testing.T) {
	repo := newFakeRepo()
	router := newTestRouter(t, repo)

	body := `{"name":"Sugar","unit_kind":"simple","base_unit":"Kg","sale_price":"2.50"}`
	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/items", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, want, rec.Code, "request %d: %s", i, rec.Body.String())
	}
}

func TestGetUpdateDeleteItem(t *testing.T) {
	repo := newFakeRepo()
	router := newTestRouter(t, repo)

	seed, err := repo.InsertItem(context.Background(), catalog.Item{
		Name:      "Flour",
		UnitKind:  pricing.UnitSimple,
		BaseUnit:  "Kg",
		SalePrice: decimal.RequireFromString("3.20"),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/items/"+seed.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	update := `{"name":"Flour","unit_kind":"simple","base_unit":"Kg","sale_price":"3.50"}`
	req = httptest.NewRequest(http.MethodPut, "/api/v1/items/"+seed.ID.String(), bytes.NewReader([]byte(update)))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var payload struct {
		Data catalog.Item `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, "3.5", payload.Data.SalePrice.String())

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/items/"+seed.ID.String(), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/items/"+seed.ID.String(), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetItemRejectsBadID(t *testing.T) {
	router := newTestRouter(t, newFakeRepo())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/items/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListItemsPagination(t *testing.T) {
	repo := newFakeRepo()
	router := newTestRouter(t, repo)
	for _, name := range []string{"Rice", "Sugar", "Salt"} {
		_, err := repo.InsertItem(context.Background(), catalog.Item{Name: name, UnitKind: pricing.UnitNone})
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/items?limit=2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "3", rec.Header().Get("X-Total-Count"))

	var payload struct {
		Data       []catalog.Item `json:"data"`
		Pagination struct {
			Page       int `json:"page"`
			PerPage    int `json:"per_page"`
			TotalItems int `json:"total_items"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Data, 2)
	require.Equal(t, 3, payload.Pagination.TotalItems)
}

func TestPricingForUnknownItem(t *testing.T) {
	service, err := catalog.NewService(catalog.ServiceConfig{Repo: newFakeRepo()})
	require.NoError(t, err)

	_, found, err := service.PricingFor(context.Background(), "Mystery")
	require.NoError(t, err)
	require.False(t, found)
}

func TestPricingForResolvesUnitsAndTier(t *testing.T) {
	repo := newFakeRepo()
	service, err := catalog.NewService(catalog.ServiceConfig{Repo: repo})
	require.NoError(t, err)

	_, err = repo.InsertItem(context.Background(), catalog.Item{
		Name:               "Rice",
		UnitKind:           pricing.UnitConvertible,
		BaseUnit:           "Kg",
		SecondaryUnit:      "Bag",
		UnitFactor:         decimal.RequireFromString("25"),
		SalePrice:          decimal.RequireFromString("32.50"),
		SalePriceUnit:      pricing.PerSecondary,
		WholesalePrice:     decimal.RequireFromString("1.05"),
		WholesalePriceUnit: pricing.PerBase,
		MinWholesaleQty:    decimal.RequireFromString("100"),
	})
	require.NoError(t, err)

	ip, found, err := service.PricingFor(context.Background(), "rice")
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, ip.Unit.CanConvert())

	perKg := pricing.ResolveUnitPrice(ip, "Kg", pricing.PriceSale)
	require.Equal(t, "1.30", perKg.StringFixed(2))

	tier := pricing.ResolveQuantityTierPrice(ip, decimal.RequireFromString("4"), "Bag", pricing.PriceSale)
	require.Equal(t, "26.25", tier.StringFixed(2))
}
