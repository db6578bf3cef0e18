package charge

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/invoiceworks/backend-invoicing/internal/common"
)

// Handler exposes additional-charge endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the charge surface on the given router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/{id}", h.ListByInvoice)
	r.Delete("/{id}", h.Delete)
}

// Create handles POST /additional-charges.
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

// ListByInvoice handles GET /additional-charges/{invoiceID}.
func (h *Handler) ListByInvoice(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.ListByInvoice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, rows)
}

// Delete handles DELETE /additional-charges/{chargeID}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]string{"message": "Additional charge deleted successfully"})
}
