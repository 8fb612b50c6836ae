package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/karobar-books/karobar/internal/auth"
	"github.com/karobar-books/karobar/internal/dashboard"
	"github.com/karobar-books/karobar/internal/expenses"
	"github.com/karobar-books/karobar/internal/masterdata"
	"github.com/karobar-books/karobar/internal/notify"
	"github.com/karobar-books/karobar/internal/platform/cache"
	"github.com/karobar-books/karobar/internal/procurement"
	"github.com/karobar-books/karobar/internal/sales"
	"github.com/karobar-books/karobar/internal/schema"
	"github.com/karobar-books/karobar/internal/shared"
)

type fakeStore struct {
	tables  map[string][][]string
	appends map[string][][]string
	updates map[string][][]string
}

func (f *fakeStore) FetchRows(_ context.Context, readRange string) ([][]string, error) {
	return f.tables[readRange], nil
}

func (f *fakeStore) AppendRows(_ context.Context, tableRange string, rows [][]string) error {
	f.appends[tableRange] = append(f.appends[tableRange], rows...)
	return nil
}

func (f *fakeStore) UpdateRows(_ context.Context, writeRange string, rows [][]string) error {
	f.updates[writeRange] = rows
	return nil
}

func newTestRouter(t *testing.T) (http.Handler, *fakeStore) {
	t.Helper()

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	store := &fakeStore{
		tables: map[string][][]string{
			schema.RangeMaterials: {
				{"MAT-001", "Kraft Paper", "", "0", "0", "18", "0", "60", "4804"},
			},
			schema.RangeParties: {
				{"PTY-001", "Sharma Traders", "Customer", "", "", "", "", "Active"},
			},
			schema.RangeSales:         {},
			schema.RangeSaleItems:     {},
			schema.RangePurchases:     {},
			schema.RangePurchaseItems: {},
			schema.RangeExpenses:      {},
			schema.RangeNotifications: {},
		},
		appends: map[string][][]string{},
		updates: map[string][][]string{},
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("ledger-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &Config{AppEnv: "test", AppRequestTimeout: 5 * time.Second}
	logger := NewLogger(cfg)
	sessionManager := shared.NewSessionManager(redisClient, "karobar_session", time.Hour, false)
	viewCache := cache.New(redisClient, time.Minute)
	notifier := notify.NewService(store, logger, "owner", nil)

	router := NewRouter(RouterParams{
		Logger:             logger,
		Config:             cfg,
		SessionManager:     sessionManager,
		AuthHandler:        auth.NewHandler(logger, auth.NewService("owner", string(hash)), sessionManager),
		DashboardHandler:   dashboard.NewHandler(logger, dashboard.NewService(store, logger, nil), viewCache),
		SalesHandler:       sales.NewHandler(logger, sales.NewService(store, logger, viewCache, notifier, nil)),
		ProcurementHandler: procurement.NewHandler(logger, procurement.NewService(store, logger, viewCache, notifier, nil)),
		ExpensesHandler:    expenses.NewHandler(logger, expenses.NewService(store, logger, viewCache)),
		MasterDataHandler:  masterdata.NewHandler(logger, masterdata.NewService(store, logger, viewCache)),
		NotifyHandler:      notify.NewHandler(logger, notifier),
	})
	return router, store
}

func login(t *testing.T, router http.Handler) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"owner","password":"ledger-pass"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, c := range rec.Result().Cookies() {
		if c.Name == "karobar_session" && c.Value != "" {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestHealthzIsPublic(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestViewsRequireSession(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/inventory", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"owner","password":"wrong"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSaleEntryThroughRouter(t *testing.T) {
	router, store := newTestRouter(t)
	cookie := login(t, router)

	payload := `{
		"invoice_date": "2026-08-25",
		"party_id": "PTY-001",
		"items": [{"material_id": "MAT-001", "bags": 4, "kg": 100, "rate": 100}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(payload))
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "INV-001", created["invoice_no"])

	require.Len(t, store.appends[schema.AppendSales], 1)
	require.Len(t, store.appends[schema.AppendSaleItems], 1)
	// The entry leaves an audit note.
	require.Len(t, store.appends[schema.AppendNotifications], 1)
}

func TestDashboardViewsWithSession(t *testing.T) {
	router, _ := newTestRouter(t)
	cookie := login(t, router)

	for _, path := range []string{
		"/dashboard/inventory",
		"/dashboard/pnl?period=month",
		"/dashboard/receivables",
		"/dashboard/activity",
		"/dashboard/owner",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, path)
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard/pnl?period=decade", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
