package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNumDefaultsToZero(t *testing.T) {
	require.Equal(t, 0.0, Num(""))
	require.Equal(t, 0.0, Num("  "))
	require.Equal(t, 0.0, Num("abc"))
	require.Equal(t, 1250.5, Num("1250.5"))
	require.Equal(t, 12500.0, Num("12,500"))
	require.Equal(t, -3.0, Num("-3"))
}

func TestDateAbsentOnBadInput(t *testing.T) {
	require.True(t, Date("").IsZero())
	require.True(t, Date("not a date").IsZero())

	d := Date("2026-04-01")
	require.Equal(t, 2026, d.Year())
	require.Equal(t, time.April, d.Month())

	require.False(t, Date("2026-08-01T10:30:00Z").IsZero())
	require.False(t, Date("15/07/2026").IsZero())
}

func TestMaterialsDropRowsWithoutID(t *testing.T) {
	rows := [][]string{
		{"MAT-1", "Maize", "Yellow", "10", "500", "5", "22", "26", "1005"},
		{"", "ghost row"},
		{"MAT-2", "Wheat", "", "bad", "", "18"},
	}
	mats := Materials(rows)
	require.Len(t, mats, 2)
	require.Equal(t, "MAT-1", mats[0].ID)
	require.Equal(t, 500.0, mats[0].OpeningKg)
	require.Equal(t, 22.0, mats[0].PurchaseRate)

	// Malformed numerics default to zero instead of failing the row.
	require.Equal(t, "MAT-2", mats[1].ID)
	require.Equal(t, 0.0, mats[1].OpeningBags)
	require.Equal(t, 18.0, mats[1].TaxRatePct)
}

func TestSalesShortRowsTolerated(t *testing.T) {
	rows := [][]string{
		{"INV-001", "", "2026-08-01", "2026-08-01", "PTY-1", "Sharma Traders", "10000", "250", "250", "0", "10500", "Cash", "Confirmed", "UTR-1", "2026-08-05"},
		{"INV-002", "", "2026-08-02"},
		{"", "", "2026-08-03"},
	}
	sales := Sales(rows)
	require.Len(t, sales, 2)
	require.True(t, sales[0].Confirmed())
	require.Equal(t, 10000.0, sales[0].Subtotal)
	require.Equal(t, "", sales[1].Status)
	require.Equal(t, 0.0, sales[1].GrandTotal)
	require.False(t, sales[1].InvoiceDate.IsZero())
	require.True(t, sales[1].OrderDate.IsZero())
}

func TestLineItemsRequireParentAndMaterial(t *testing.T) {
	items := SaleItems([][]string{
		{"ITM-1", "INV-001", "MAT-1", "Maize", "10", "500", "20", "5", "10000"},
		{"ITM-2", "", "MAT-1", "Maize", "1", "50", "20", "5", "1000"},
		{"ITM-3", "INV-002", "", "Maize", "1", "50", "20", "5", "1000"},
	})
	require.Len(t, items, 1)
	require.Equal(t, "ITM-1", items[0].ID)

	pitems := PurchaseItems([][]string{
		{"PITM-1", "PUR-1", "MAT-1", "Maize", "10", "500", "18", "9000"},
		{"PITM-2", "PUR-2", "", "", "1", "50", "18", "900"},
	})
	require.Len(t, pitems, 1)
	require.Equal(t, 9000.0, pitems[0].Amount)
}

func TestPartyReferenceRules(t *testing.T) {
	customer := Party{Role: PartyRoleCustomer, Status: PartyStatusActive}
	supplier := Party{Role: PartyRoleSupplier, Status: PartyStatusActive}
	both := Party{Role: PartyRoleBoth}
	inactive := Party{Role: PartyRoleCustomer, Status: PartyStatusInactive}

	require.True(t, customer.Sellable())
	require.False(t, customer.Purchasable())
	require.False(t, supplier.Sellable())
	require.True(t, supplier.Purchasable())
	require.True(t, both.Sellable())
	require.True(t, both.Purchasable())
	require.False(t, inactive.Sellable())
	require.False(t, inactive.Purchasable())
}

func TestExpensesAndNotifications(t *testing.T) {
	exps := Expenses([][]string{
		{"EXP-1", "2026-08-10", "Rent", "15000", "August godown rent", "Bank Transfer"},
		{"", "2026-08-11", "Other", "100"},
	})
	require.Len(t, exps, 1)
	require.Equal(t, 15000.0, exps[0].Amount)
	require.False(t, exps[0].Date.IsZero())

	notifs := Notifications([][]string{
		{"2026-08-12T09:00:00Z", "EDIT", "Invoice INV-001 edited", "manager"},
		{"garbage", "EDIT", "dropped", "manager"},
	})
	require.Len(t, notifs, 1)
	require.Equal(t, "EDIT", notifs[0].Type)
}
