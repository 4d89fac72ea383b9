// Package sales exposes the customer-facing document endpoints: stateless
// quotes and sale invoices.
package sales

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/noah-isme/backend-bizbook/internal/common"
	"github.com/noah-isme/backend-bizbook/internal/document"
)

// Handler exposes sales endpoints backed by the shared document service.
type Handler struct {
	service *document.Service
}

// NewHandler constructs a Handler.
func NewHandler(service *document.Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the sales endpoints on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/quote", h.Quote)
	r.Post("/invoices", h.CreateInvoice)
	r.Get("/invoices", h.ListInvoices)
	r.Get("/invoices/{id}", h.GetInvoice)
}

// Quote handles POST /api/v1/sales/quote. Nothing is persisted.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var input document.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		common.WriteError(w, common.BadRequest("body", "invalid JSON payload", err))
		return
	}
	quote, err := h.service.Quote(r.Context(), document.TypeSaleInvoice, input)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, quote)
}

// CreateInvoice handles POST /api/v1/sales/invoices.
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var input document.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		common.WriteError(w, common.BadRequest("body", "invalid JSON payload", err))
		return
	}
	doc, err := h.service.Create(r.Context(), document.TypeSaleInvoice, input)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusCreated, doc)
}

// ListInvoices handles GET /api/v1/sales/invoices.
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	params, err := h.service.ParseListParams(r.URL.Query())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	result, err := h.service.List(r.Context(), document.TypeSaleInvoice, params)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.FormatInt(result.Total, 10))
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       result.Documents,
		"pagination": common.Pagination{Page: result.Page, PerPage: result.Limit, TotalItems: int(result.Total)},
	})
}

// GetInvoice handles GET /api/v1/sales/invoices/{id}.
func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, common.BadRequest("id", "id must be a valid UUID", err))
		return
	}
	doc, err := h.service.Get(r.Context(), document.TypeSaleInvoice, id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, doc)
}
