package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/karobar-books/karobar/internal/pnl"
	"github.com/karobar-books/karobar/internal/schema"
	"github.com/karobar-books/karobar/internal/shared"
)

type fakeSource struct {
	tables  map[string][][]string
	failing map[string]error
}

func (f *fakeSource) FetchRows(_ context.Context, readRange string) ([][]string, error) {
	if err, ok := f.failing[readRange]; ok {
		return nil, err
	}
	return f.tables[readRange], nil
}

func seededSource() *fakeSource {
	return &fakeSource{
		tables: map[string][][]string{
			schema.RangeMaterials: {
				{"MAT-001", "Kraft Paper", "", "0", "0", "18", "0", "60", "4804"},
				{"MAT-002", "Duplex Board", "", "0", "0", "18", "0", "75", "4805"},
			},
			schema.RangeSales: {
				{"INV-001", "", "2026-08-10", "", "PTY-001", "Sharma Traders", "10000", "900", "900", "0", "11800", "UPI", "Confirmed", "TXN9", "2026-08-12", ""},
				{"INV-002", "", "2026-08-20", "", "PTY-002", "Verma & Sons", "5000", "450", "450", "0", "5900", "", "Pending", "", "", ""},
				{"INV-003", "", "2026-06-01", "", "PTY-002", "Verma & Sons", "4000", "360", "360", "0", "4720", "", "Pending", "", "", ""},
			},
			schema.RangeSaleItems: {
				{"SI-001", "INV-001", "MAT-001", "Kraft Paper", "4", "100", "100", "18", "10000"},
				{"SI-002", "INV-002", "MAT-001", "Kraft Paper", "2", "50", "100", "18", "5000"},
			},
			schema.RangePurchases: {
				{"PUR-001", "B-77", "2026-08-01", "SUP-001", "Ganga Mills", "12000", "2160", "14160", "Unpaid", "", "", ""},
			},
			schema.RangePurchaseItems: {
				{"PI-001", "PUR-001", "MAT-001", "Kraft Paper", "8", "200", "60", "12000"},
			},
			schema.RangeExpenses: {
				{"EXP-001", "2026-08-05", "Transport / Freight", "800", "", "Cash"},
			},
		},
	}
}

func testNow() time.Time {
	return time.Date(2026, time.August, 25, 12, 0, 0, 0, time.UTC)
}

func newTestService(src *fakeSource) *Service {
	return NewService(src, slog.Default(), testNow)
}

func TestInventoryDerivesPositions(t *testing.T) {
	svc := newTestService(seededSource())

	view, err := svc.Inventory(context.Background())
	require.NoError(t, err)
	require.Equal(t, testNow(), view.AsOf)
	require.Len(t, view.Items, 2)

	// Sorted by name: Duplex Board before Kraft Paper.
	require.Equal(t, "Duplex Board", view.Items[0].MaterialName)
	kraft := view.Items[1]
	require.Equal(t, "MAT-001", kraft.MaterialID)
	require.InDelta(t, 60.0, kraft.AvgCostPerKg, 1e-9)
	require.InDelta(t, 50.0, kraft.StockKg, 1e-9) // 200 in, 150 out
}

func TestProfitAndLossMonth(t *testing.T) {
	svc := newTestService(seededSource())

	s, err := svc.ProfitAndLoss(context.Background(), pnl.PeriodMonth)
	require.NoError(t, err)

	// August sales only: 10000 confirmed + 5000 pending.
	require.InDelta(t, 15000.0, s.Revenue, 1e-9)
	require.InDelta(t, 10000.0, s.RealizedRevenue, 1e-9)
	require.InDelta(t, 5000.0, s.UnrealizedRevenue, 1e-9)
	// COGS at avg cost 60/kg over 150 kg sold in August.
	require.InDelta(t, 9000.0, s.COGS, 1e-9)
	require.InDelta(t, 800.0, s.Expenses, 1e-9)
	require.InDelta(t, 14160.0, s.PurchaseSpend, 1e-9)
}

func TestReceivablesFromSnapshot(t *testing.T) {
	svc := newTestService(seededSource())

	overdue, err := svc.Receivables(context.Background())
	require.NoError(t, err)
	// Only INV-003 is unconfirmed and older than the threshold.
	require.Len(t, overdue, 1)
	require.Equal(t, "INV-003", overdue[0].InvoiceNo)
}

func TestActivityFromSnapshot(t *testing.T) {
	svc := newTestService(seededSource())

	feed, err := svc.Activity(context.Background())
	require.NoError(t, err)
	require.Len(t, feed, 4)
	require.Equal(t, "INV-002", feed[0].RefNo)
	require.Equal(t, "INV-001", feed[1].RefNo)
	require.Equal(t, "B-77", feed[2].RefNo)
	require.Equal(t, "INV-003", feed[3].RefNo)
}

func TestOwnerBundlesEveryView(t *testing.T) {
	svc := newTestService(seededSource())

	view, err := svc.Owner(context.Background(), pnl.PeriodAll)
	require.NoError(t, err)
	require.InDelta(t, 19000.0, view.PnL.Revenue, 1e-9)
	require.Len(t, view.Inventory.Items, 2)
	require.Len(t, view.Receivables, 1)
	require.Len(t, view.Activity, 4)
}

func TestSingleFetchFailureFailsDerivation(t *testing.T) {
	src := seededSource()
	src.failing = map[string]error{schema.RangeSaleItems: errors.New("quota exceeded")}
	svc := newTestService(src)

	_, err := svc.Inventory(context.Background())
	require.ErrorIs(t, err, shared.ErrDerivationUnavailable)

	_, err = svc.ProfitAndLoss(context.Background(), pnl.PeriodAll)
	require.ErrorIs(t, err, shared.ErrDerivationUnavailable)

	_, err = svc.Owner(context.Background(), pnl.PeriodAll)
	require.ErrorIs(t, err, shared.ErrDerivationUnavailable)
}

func TestEmptyTablesDeriveEmptyViews(t *testing.T) {
	svc := newTestService(&fakeSource{tables: map[string][][]string{}})

	view, err := svc.Owner(context.Background(), pnl.PeriodAll)
	require.NoError(t, err)
	require.Empty(t, view.Inventory.Items)
	require.Empty(t, view.Receivables)
	require.Empty(t, view.Activity)
	require.Zero(t, view.PnL.Revenue)
}
