// Package receivables flags unconfirmed sales that have aged past the
// overdue threshold. The view is always all-time: overdue risk does not
// reset at reporting-period boundaries.
package receivables

import (
	"sort"
	"time"

	"github.com/karobar-books/karobar/internal/schema"
)

// OverdueThresholdDays is the aging threshold: an unconfirmed invoice dated
// exactly this many days ago is not yet overdue, one day older is.
const OverdueThresholdDays = 30

// OverdueInvoice summarizes one overdue receivable for presentation.
type OverdueInvoice struct {
	InvoiceNo   string    `json:"invoice_no"`
	PartyName   string    `json:"party_name"`
	GrandTotal  float64   `json:"grand_total"`
	InvoiceDate time.Time `json:"invoice_date"`
	DaysOverdue int       `json:"days_overdue"`
}

// Overdue lists unconfirmed, dated sales older than the threshold, sorted
// oldest first. Undated invoices cannot age and are skipped.
func Overdue(sales []schema.SaleInvoice, today time.Time) []OverdueInvoice {
	out := make([]OverdueInvoice, 0)
	for _, sale := range sales {
		if sale.Confirmed() || sale.InvoiceDate.IsZero() {
			continue
		}
		age := int(today.Sub(sale.InvoiceDate).Hours() / 24)
		if age <= OverdueThresholdDays {
			continue
		}
		out = append(out, OverdueInvoice{
			InvoiceNo:   sale.InvoiceNo,
			PartyName:   sale.PartyName,
			GrandTotal:  sale.GrandTotal,
			InvoiceDate: sale.InvoiceDate,
			DaysOverdue: age,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysOverdue > out[j].DaysOverdue
	})
	return out
}
