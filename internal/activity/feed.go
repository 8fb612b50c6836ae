// Package activity composes the recent-transaction feed shown on the
// dashboard. Earlier revisions approximated recency by taking the tail of
// each table; the feed now sorts the full history by transaction date, so it
// stays correct even when rows are inserted out of order.
package activity

import (
	"sort"
	"time"

	"github.com/karobar-books/karobar/internal/schema"
)

// FeedLimit bounds the combined feed length.
const FeedLimit = 6

// Entry kinds.
const (
	KindSale     = "sale"
	KindPurchase = "purchase"
)

// Entry is one feed line: a sale or purchase header in presentation form.
type Entry struct {
	Kind       string    `json:"kind"`
	RefNo      string    `json:"ref_no"`
	PartyName  string    `json:"party_name"`
	GrandTotal float64   `json:"grand_total"`
	Date       time.Time `json:"date"`
	Status     string    `json:"status"`
}

// Compose merges sales and purchases into a single feed, newest first,
// truncated to FeedLimit. Undated transactions cannot be ranked by recency
// and are left out.
func Compose(sales []schema.SaleInvoice, purchases []schema.PurchaseInvoice) []Entry {
	entries := make([]Entry, 0, len(sales)+len(purchases))
	for _, s := range sales {
		if s.InvoiceDate.IsZero() {
			continue
		}
		entries = append(entries, Entry{
			Kind:       KindSale,
			RefNo:      s.InvoiceNo,
			PartyName:  s.PartyName,
			GrandTotal: s.GrandTotal,
			Date:       s.InvoiceDate,
			Status:     s.Status,
		})
	}
	for _, p := range purchases {
		if p.Date.IsZero() {
			continue
		}
		entries = append(entries, Entry{
			Kind:       KindPurchase,
			RefNo:      p.BillNo,
			PartyName:  p.SupplierName,
			GrandTotal: p.GrandTotal,
			Date:       p.Date,
			Status:     p.Status,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
	if len(entries) > FeedLimit {
		entries = entries[:FeedLimit]
	}
	return entries
}
