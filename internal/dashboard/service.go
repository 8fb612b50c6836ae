// Package dashboard orchestrates the derivation engine: it fans out the
// source-table reads, joins them, and feeds the normalized records through
// the valuation, P&L, receivables and activity components. Each invocation
// re-derives from scratch; freshness is bought with recomputation, never
// with retained state.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/karobar-books/karobar/internal/activity"
	"github.com/karobar-books/karobar/internal/pnl"
	"github.com/karobar-books/karobar/internal/receivables"
	"github.com/karobar-books/karobar/internal/schema"
	"github.com/karobar-books/karobar/internal/shared"
	"github.com/karobar-books/karobar/internal/valuation"
)

// RowSource abstracts the external tabular store for reads.
type RowSource interface {
	FetchRows(ctx context.Context, readRange string) ([][]string, error)
}

// Service derives the read-only business views.
type Service struct {
	source RowSource
	logger *slog.Logger
	now    func() time.Time
}

// NewService builds Service. now is overridable for tests; nil means
// time.Now.
func NewService(source RowSource, logger *slog.Logger, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{source: source, logger: logger, now: now}
}

// snapshot is one consistent join of all source tables.
type snapshot struct {
	materials     []schema.Material
	sales         []schema.SaleInvoice
	saleItems     []schema.SaleLineItem
	purchases     []schema.PurchaseInvoice
	purchaseItems []schema.PurchaseLineItem
	expenses      []schema.Expense
}

// load fetches every source table concurrently and joins before any
// computation begins. A single failed fetch fails the whole snapshot: the
// caller gets "derivation unavailable" instead of a silently partial view.
func (s *Service) load(ctx context.Context) (*snapshot, error) {
	var raw [6][][]string
	ranges := [6]string{
		schema.RangeMaterials,
		schema.RangeSales,
		schema.RangeSaleItems,
		schema.RangePurchases,
		schema.RangePurchaseItems,
		schema.RangeExpenses,
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, readRange := range ranges {
		i, readRange := i, readRange
		g.Go(func() error {
			rows, err := s.source.FetchRows(gctx, readRange)
			if err != nil {
				return fmt.Errorf("%s: %w", readRange, err)
			}
			raw[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if s.logger != nil {
			s.logger.Error("table fetch failed", slog.Any("error", err))
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrDerivationUnavailable, err)
	}

	return &snapshot{
		materials:     schema.Materials(raw[0]),
		sales:         schema.Sales(raw[1]),
		saleItems:     schema.SaleItems(raw[2]),
		purchases:     schema.Purchases(raw[3]),
		purchaseItems: schema.PurchaseItems(raw[4]),
		expenses:      schema.Expenses(raw[5]),
	}, nil
}

// InventoryView is the stock listing derived for presentation.
type InventoryView struct {
	AsOf  time.Time            `json:"as_of"`
	Items []valuation.Position `json:"items"`
}

// Inventory derives per-material valuation and stock. Only materials from
// the master table are listed; cost entries for dangling references stay
// internal to the engine.
func (s *Service) Inventory(ctx context.Context) (InventoryView, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return InventoryView{}, err
	}
	return s.inventoryFrom(snap), nil
}

func (s *Service) inventoryFrom(snap *snapshot) InventoryView {
	result := valuation.Compute(snap.materials, snap.purchaseItems, snap.saleItems)
	items := make([]valuation.Position, 0, len(snap.materials))
	for _, mat := range snap.materials {
		if mat.Name == "" {
			continue
		}
		items = append(items, result[mat.ID])
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].MaterialName < items[j].MaterialName
	})
	return InventoryView{AsOf: s.now(), Items: items}
}

// ProfitAndLoss derives the period-scoped P&L summary.
func (s *Service) ProfitAndLoss(ctx context.Context, period pnl.Period) (pnl.Summary, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return pnl.Summary{}, err
	}
	return s.pnlFrom(snap, period), nil
}

func (s *Service) pnlFrom(snap *snapshot, period pnl.Period) pnl.Summary {
	vals := valuation.Compute(snap.materials, snap.purchaseItems, snap.saleItems)
	return pnl.Aggregate(period, s.now(), pnl.Input{
		Sales:     snap.sales,
		SaleItems: snap.saleItems,
		Purchases: snap.purchases,
		Expenses:  snap.expenses,
		Valuation: vals,
	})
}

// Receivables derives the overdue list, all-time.
func (s *Service) Receivables(ctx context.Context) ([]receivables.OverdueInvoice, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return receivables.Overdue(snap.sales, s.now()), nil
}

// Activity derives the recent-transaction feed.
func (s *Service) Activity(ctx context.Context) ([]activity.Entry, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return activity.Compose(snap.sales, snap.purchases), nil
}

// Overview bundles every view from a single snapshot so the owner dashboard
// renders one consistent picture.
type Overview struct {
	PnL         pnl.Summary                  `json:"pnl"`
	Inventory   InventoryView                `json:"inventory"`
	Receivables []receivables.OverdueInvoice `json:"receivables"`
	Activity    []activity.Entry             `json:"activity"`
}

// Owner derives the combined owner-dashboard view.
func (s *Service) Owner(ctx context.Context, period pnl.Period) (Overview, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return Overview{}, err
	}
	return Overview{
		PnL:         s.pnlFrom(snap, period),
		Inventory:   s.inventoryFrom(snap),
		Receivables: receivables.Overdue(snap.sales, s.now()),
		Activity:    activity.Compose(snap.sales, snap.purchases),
	}, nil
}
