package procurement

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/karobar-books/karobar/internal/platform/httpx"
)

// Handler exposes the purchase workflows over HTTP.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers procurement routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Put("/{purchaseID}", h.edit)
	r.Post("/{purchaseID}/pay", h.markPaid)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.service.ListPurchases(r.Context())
	if err != nil {
		h.fail(w, "list purchases", err)
		return
	}
	httpx.JSON(w, http.StatusOK, purchases)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreatePurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON payload")
		return
	}
	purchase, err := h.service.CreatePurchase(r.Context(), req)
	if err != nil {
		h.fail(w, "create purchase", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, purchase)
}

func (h *Handler) markPaid(w http.ResponseWriter, r *http.Request) {
	var req MarkPaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON payload")
		return
	}
	purchaseID := chi.URLParam(r, "purchaseID")
	if err := h.service.MarkPaid(r.Context(), purchaseID, req); err != nil {
		h.fail(w, "mark purchase paid", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) edit(w http.ResponseWriter, r *http.Request) {
	var req EditPurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON payload")
		return
	}
	purchaseID := chi.URLParam(r, "purchaseID")
	purchase, err := h.service.EditPurchase(r.Context(), purchaseID, req)
	if err != nil {
		h.fail(w, "edit purchase", err)
		return
	}
	httpx.JSON(w, http.StatusOK, purchase)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	h.logger.Error(op, slog.Any("error", err))
	httpx.RespondError(w, err)
}
