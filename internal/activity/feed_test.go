package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/karobar-books/karobar/internal/schema"
)

func date(day int) time.Time {
	return time.Date(2026, time.August, day, 0, 0, 0, 0, time.UTC)
}

func TestComposeMergesAndSortsNewestFirst(t *testing.T) {
	sales := []schema.SaleInvoice{
		{InvoiceNo: "INV-1", InvoiceDate: date(10), PartyName: "Sharma Traders", GrandTotal: 5000, Status: schema.SaleStatusPending},
		{InvoiceNo: "INV-2", InvoiceDate: date(20), PartyName: "Gupta & Sons", GrandTotal: 9000, Status: schema.SaleStatusConfirmed},
	}
	purchases := []schema.PurchaseInvoice{
		{ID: "PUR-1", BillNo: "PO-77", Date: date(15), SupplierName: "Mills Co", GrandTotal: 12000, Status: schema.PurchaseStatusUnpaid},
	}

	feed := Compose(sales, purchases)
	require.Len(t, feed, 3)
	require.Equal(t, "INV-2", feed[0].RefNo)
	require.Equal(t, KindSale, feed[0].Kind)
	require.Equal(t, "PO-77", feed[1].RefNo)
	require.Equal(t, KindPurchase, feed[1].Kind)
	require.Equal(t, "INV-1", feed[2].RefNo)
}

func TestComposeTruncatesToLimit(t *testing.T) {
	var sales []schema.SaleInvoice
	var purchases []schema.PurchaseInvoice
	for d := 1; d <= 8; d++ {
		sales = append(sales, schema.SaleInvoice{InvoiceNo: "INV", InvoiceDate: date(d)})
		purchases = append(purchases, schema.PurchaseInvoice{ID: "PUR", BillNo: "PO", Date: date(d)})
	}
	feed := Compose(sales, purchases)
	require.Len(t, feed, FeedLimit)
	for _, e := range feed {
		// Only the newest days survive truncation.
		require.GreaterOrEqual(t, e.Date.Day(), 6)
	}
}

func TestComposeOrdersFullHistoryNotTail(t *testing.T) {
	// A recent row buried early in insertion order must still surface.
	sales := []schema.SaleInvoice{
		{InvoiceNo: "INV-NEW", InvoiceDate: date(25)},
	}
	for d := 1; d <= 10; d++ {
		sales = append(sales, schema.SaleInvoice{InvoiceNo: "INV-OLD", InvoiceDate: date(d)})
	}
	feed := Compose(sales, nil)
	require.Equal(t, "INV-NEW", feed[0].RefNo)
}

func TestComposeSkipsUndated(t *testing.T) {
	feed := Compose(
		[]schema.SaleInvoice{{InvoiceNo: "INV-X"}},
		[]schema.PurchaseInvoice{{ID: "PUR-X", BillNo: "PO-X"}},
	)
	require.Empty(t, feed)
}
