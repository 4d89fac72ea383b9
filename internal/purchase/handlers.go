// Package purchase exposes supplier-facing documents: purchase bills, which
// can carry a payment, and purchase orders, which never do.
package purchase

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/noah-isme/backend-bizbook/internal/common"
	"github.com/noah-isme/backend-bizbook/internal/document"
)

// Handler exposes purchase endpoints backed by the shared document service.
type Handler struct {
	service *document.Service
}

// NewHandler constructs a Handler.
func NewHandler(service *document.Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the purchase endpoints on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/quote", h.Quote)
	r.Post("/bills", h.create(document.TypePurchaseBill))
	r.Get("/bills", h.list(document.TypePurchaseBill))
	r.Get("/bills/{id}", h.get(document.TypePurchaseBill))
	r.Post("/orders", h.create(document.TypePurchaseOrder))
	r.Get("/orders", h.list(document.TypePurchaseOrder))
	r.Get("/orders/{id}", h.get(document.TypePurchaseOrder))
}

// Quote handles POST /api/v1/purchases/quote using purchase prices.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var input document.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		common.WriteError(w, common.BadRequest("body", "invalid JSON payload", err))
		return
	}
	quote, err := h.service.Quote(r.Context(), document.TypePurchaseBill, input)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, quote)
}

func (h *Handler) create(typ document.Type) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input document.Input
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			common.WriteError(w, common.BadRequest("body", "invalid JSON payload", err))
			return
		}
		doc, err := h.service.Create(r.Context(), typ, input)
		if err != nil {
			common.WriteError(w, err)
			return
		}
		common.JSONData(w, http.StatusCreated, doc)
	}
}

func (h *Handler) list(typ document.Type) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := h.service.ParseListParams(r.URL.Query())
		if err != nil {
			common.WriteError(w, err)
			return
		}
		result, err := h.service.List(r.Context(), typ, params)
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
}

func (h *Handler) get(typ document.Type) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			common.WriteError(w, common.BadRequest("id", "id must be a valid UUID", err))
			return
		}
		doc, err := h.service.Get(r.Context(), typ, id)
		if err != nil {
			common.WriteError(w, err)
			return
		}
		common.JSONData(w, http.StatusOK, doc)
	}
}
