package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/karobar-books/karobar/internal/auth"
	"github.com/karobar-books/karobar/internal/dashboard"
	"github.com/karobar-books/karobar/internal/expenses"
	"github.com/karobar-books/karobar/internal/masterdata"
	"github.com/karobar-books/karobar/internal/notify"
	"github.com/karobar-books/karobar/internal/procurement"
	"github.com/karobar-books/karobar/internal/sales"
	"github.com/karobar-books/karobar/internal/shared"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	SessionManager     *shared.SessionManager
	AuthHandler        *auth.Handler
	DashboardHandler   *dashboard.Handler
	SalesHandler       *sales.Handler
	ProcurementHandler *procurement.Handler
	ExpensesHandler    *expenses.Handler
	MasterDataHandler  *masterdata.Handler
	NotifyHandler      *notify.Handler
}

// NewRouter constructs the chi.Router with Karobar defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	// Everything below requires an authenticated session.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser)

		r.Route("/dashboard", params.DashboardHandler.MountRoutes)
		r.Route("/sales", params.SalesHandler.MountRoutes)
		r.Route("/purchases", params.ProcurementHandler.MountRoutes)
		r.Route("/expenses", params.ExpensesHandler.MountRoutes)
		r.Route("/masterdata", params.MasterDataHandler.MountRoutes)
		r.Route("/notifications", params.NotifyHandler.MountRoutes)
	})

	return r
}
