package account

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/noah-isme/backend-bizbook/internal/common"
)

// Handler exposes account endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the account endpoints on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/entries", h.Entries)
	r.Post("/{id}/entries", h.RecordEntry)
}

// List handles GET /api/v1/accounts.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.List(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, accounts)
}

// Create handles POST /api/v1/accounts.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		common.WriteError(w, common.BadRequest("body", "invalid JSON payload", err))
		return
	}
	a, err := h.service.Create(r.Context(), input)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusCreated, a)
}

// Get handles GET /api/v1/accounts/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	a, err := h.service.Get(r.Context(), id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, a)
}

// Update handles PUT /api/v1/accounts/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		common.WriteError(w, common.BadRequest("body", "invalid JSON payload", err))
		return
	}
	a, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, a)
}

// Delete handles DELETE /api/v1/accounts/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		common.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Entries handles GET /api/v1/accounts/{id}/entries.
func (h *Handler) Entries(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	page, limit := common.ParsePagination(r, 20)
	entries, err := h.service.Entries(r.Context(), id, page, limit)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, entries)
}

// RecordEntry handles POST /api/v1/accounts/{id}/entries for manual
// deposits and withdrawals.
func (h *Handler) RecordEntry(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	var input EntryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		common.WriteError(w, common.BadRequest("body", "invalid JSON payload", err))
		return
	}
	entry, err := h.service.RecordEntry(r.Context(), id, input)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSONData(w, http.StatusCreated, entry)
}

func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, common.BadRequest("id", "id must be a valid UUID", err)
	}
	return id, nil
}
