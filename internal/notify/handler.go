package notify

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/karobar-books/karobar/internal/platform/httpx"
)

// Handler exposes the notification trail over HTTP.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers notification routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/recent-count", h.recentCount)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	notifs, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, "list notifications", err)
		return
	}
	httpx.JSON(w, http.StatusOK, notifs)
}

func (h *Handler) recentCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.RecentCount(r.Context())
	if err != nil {
		h.fail(w, "count notifications", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"count": count})
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	h.logger.Error(op, slog.Any("error", err))
	httpx.RespondError(w, err)
}
