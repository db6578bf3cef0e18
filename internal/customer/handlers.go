package customer

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/invoiceworks/backend-invoicing/internal/common"
)

// Handler exposes customer endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the customer surface on the given router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/all", h.ListAll)
	r.Post("/", h.Create)
	r.Get("/{customerID}", h.Get)
	r.Put("/{customerID}", h.Update)
	r.Delete("/{customerID}", h.Delete)
}

// List handles GET /customers.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.List(r.Context(), common.SearchTerm(r))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, rows)
}

// ListAll handles GET /customers/all, inactive rows included.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.ListAll(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, rows)
}

// Get handles GET /customers/{customerID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	row, err := h.service.Get(r.Context(), chi.URLParam(r, "customerID"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, row)
}

// Create handles POST /customers.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := common.DecodeValid(r, &in); err != nil {
		common.WriteError(w, err)
		return
	}
	row, err := h.service.Create(r.Context(), in)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, row)
}

// Update handles PUT /customers/{customerID}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var in UpdateInput
	if err := common.DecodeValid(r, &in); err != nil {
		common.WriteError(w, err)
		return
	}
	row, err := h.service.Update(r.Context(), chi.URLParam(r, "customerID"), in)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, row)
}

// Delete handles DELETE /customers/{customerID}; the row is deactivated, not
// removed.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Deactivate(r.Context(), chi.URLParam(r, "customerID")); err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]string{"message": "Customer deactivated successfully"})
}
