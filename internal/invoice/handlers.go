package invoice

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/invoiceworks/backend-invoicing/internal/common"
)

// Handler exposes invoice endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the invoice surface on the given router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{invoiceID}", h.Get)
	r.Put("/{invoiceID}", h.Update)
	r.Delete("/{invoiceID}", h.Cancel)
	r.Post("/{invoiceID}/cancel", h.Cancel)
	r.Get("/{invoiceID}/pdf", h.PDF)
}

// List handles GET /invoices.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.List(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, rows)
}

// Get handles GET /invoices/{invoiceID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	row, err := h.service.Get(r.Context(), chi.URLParam(r, "invoiceID"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, row)
}

// Create handles POST /invoices.
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

// Update handles PUT /invoices/{invoiceID}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var in UpdateInput
	if err := common.DecodeValid(r, &in); err != nil {
		common.WriteError(w, err)
		return
	}
	row, err := h.service.Update(r.Context(), chi.URLParam(r, "invoiceID"), in)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, row)
}

// Cancel handles DELETE /invoices/{invoiceID} and POST
// /invoices/{invoiceID}/cancel. The reason comes from the optional body.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Reason string `json:"reason"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	row, err := h.service.Cancel(r.Context(), chi.URLParam(r, "invoiceID"), body.Reason)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, row)
}

// PDF handles GET /invoices/{invoiceID}/pdf, streaming the rendered document
// as an attachment.
func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	data, filename, err := h.service.RenderPDF(r.Context(), chi.URLParam(r, "invoiceID"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
