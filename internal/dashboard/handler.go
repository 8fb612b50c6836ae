package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/karobar-books/karobar/internal/activity"
	"github.com/karobar-books/karobar/internal/platform/cache"
	"github.com/karobar-books/karobar/internal/platform/httpx"
	"github.com/karobar-books/karobar/internal/pnl"
	"github.com/karobar-books/karobar/internal/receivables"
)

// Handler exposes the derived views over HTTP. Responses are cached behind
// the version-keyed view cache; every write workflow bumps the version.
type Handler struct {
	logger  *slog.Logger
	service *Service
	cache   *cache.Cache
}

// NewHandler builds Handler.
func NewHandler(logger *slog.Logger, service *Service, viewCache *cache.Cache) *Handler {
	return &Handler{logger: logger, service: service, cache: viewCache}
}

// MountRoutes registers dashboard routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/inventory", h.inventory)
	r.Get("/pnl", h.profitAndLoss)
	r.Get("/receivables", h.receivables)
	r.Get("/activity", h.activity)
	r.Get("/owner", h.owner)
}

func (h *Handler) inventory(w http.ResponseWriter, r *http.Request) {
	var view InventoryView
	err := h.cached(r, &view, func(ctx context.Context) (any, error) {
		return h.service.Inventory(ctx)
	}, "views", "inventory")
	if err != nil {
		h.fail(w, "derive inventory", err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) profitAndLoss(w http.ResponseWriter, r *http.Request) {
	period, err := pnl.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	var view pnl.Summary
	err = h.cached(r, &view, func(ctx context.Context) (any, error) {
		return h.service.ProfitAndLoss(ctx, period)
	}, "views", "pnl", string(period))
	if err != nil {
		h.fail(w, "derive pnl", err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) receivables(w http.ResponseWriter, r *http.Request) {
	var view []receivables.OverdueInvoice
	err := h.cached(r, &view, func(ctx context.Context) (any, error) {
		return h.service.Receivables(ctx)
	}, "views", "receivables")
	if err != nil {
		h.fail(w, "derive receivables", err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) activity(w http.ResponseWriter, r *http.Request) {
	var view []activity.Entry
	err := h.cached(r, &view, func(ctx context.Context) (any, error) {
		return h.service.Activity(ctx)
	}, "views", "activity")
	if err != nil {
		h.fail(w, "derive activity", err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) owner(w http.ResponseWriter, r *http.Request) {
	period, err := pnl.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	var view Overview
	err = h.cached(r, &view, func(ctx context.Context) (any, error) {
		return h.service.Owner(ctx, period)
	}, "views", "owner", string(period))
	if err != nil {
		h.fail(w, "derive owner overview", err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) cached(r *http.Request, dest any, loader func(context.Context) (any, error), keyParts ...string) error {
	ctx := r.Context()
	key, err := h.cache.Key(ctx, keyParts...)
	if err != nil {
		return err
	}
	return h.cache.FetchJSON(ctx, key, dest, loader)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	h.logger.Error(op, slog.Any("error", err))
	httpx.RespondError(w, err)
}
