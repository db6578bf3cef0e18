package invoiceitem

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/invoiceworks/backend-invoicing/internal/common"
)

// Handler exposes invoice-item endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the invoice-item surface on the given router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/invoice/{invoiceID}", h.ListByInvoice)
	r.Post("/", h.Create)
	r.Get("/{itemID}", h.Get)
	r.Put("/{itemID}", h.Update)
}

// ListByInvoice handles GET /invoice-items/invoice/{invoiceID}.
func (h *Handler) ListByInvoice(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.ListByInvoice(r.Context(), chi.URLParam(r, "invoiceID"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, rows)
}

// Get handles GET /invoice-items/{itemID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	row, err := h.service.Get(r.Context(), chi.URLParam(r, "itemID"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, row)
}

// Create handles POST /invoice-items.
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

// Update handles PUT /invoice-items/{itemID}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var in UpdateInput
	if err := common.DecodeValid(r, &in); err != nil {
		common.WriteError(w, err)
		return
	}
	row, err := h.service.Update(r.Context(), chi.URLParam(r, "itemID"), in)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, row)
}
