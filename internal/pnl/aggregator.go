// Package pnl computes the period-scoped profit-and-loss summary. Revenue,
// COGS and profit are split into realized (payment confirmed) and unrealized
// (still pending) components keyed on each sale's confirmation status. Like
// the valuation engine this is a pure reducer: no rounding, no retained
// state, no dependence on row order.
package pnl

import (
	"time"

	"github.com/karobar-books/karobar/internal/schema"
	"github.com/karobar-books/karobar/internal/valuation"
)

// Summary is the derived P&L view for one reporting period.
type Summary struct {
	Period  Period `json:"period"`
	FYLabel string `json:"fy_label"`

	Revenue           float64 `json:"revenue"`
	RealizedRevenue   float64 `json:"realized_revenue"`
	UnrealizedRevenue float64 `json:"unrealized_revenue"`

	COGS           float64 `json:"cogs"`
	RealizedCOGS   float64 `json:"realized_cogs"`
	UnrealizedCOGS float64 `json:"unrealized_cogs"`

	Expenses      float64 `json:"expenses"`
	PurchaseSpend float64 `json:"purchase_spend"`

	GrossProfit      float64 `json:"gross_profit"`
	NetProfit        float64 `json:"net_profit"`
	RealizedProfit   float64 `json:"realized_profit"`
	UnrealizedProfit float64 `json:"unrealized_profit"`
}

// Input carries the normalized records the aggregation reads.
type Input struct {
	Sales     []schema.SaleInvoice
	SaleItems []schema.SaleLineItem
	Purchases []schema.PurchaseInvoice
	Expenses  []schema.Expense
	Valuation valuation.Result
}

// Aggregate computes the P&L summary for the period as of today.
//
// COGS prices every qualifying sale line at the global (all-time)
// weighted-average cost, not a period-scoped one: purchases affect profit
// only through COGS when the goods are sold, which is why purchase spend is
// reported separately and never subtracted again.
func Aggregate(period Period, today time.Time, in Input) Summary {
	s := Summary{Period: period, FYLabel: FYLabel(today)}

	// Sale line items carry no date; they qualify through their parent
	// invoice, and dangling parents exclude the line entirely.
	parents := make(map[string]schema.SaleInvoice, len(in.Sales))
	for _, sale := range in.Sales {
		parents[sale.InvoiceNo] = sale
	}

	for _, sale := range in.Sales {
		if !period.Contains(today, sale.InvoiceDate) {
			continue
		}
		s.Revenue += sale.Subtotal
		if sale.Confirmed() {
			s.RealizedRevenue += sale.Subtotal
		} else {
			s.UnrealizedRevenue += sale.Subtotal
		}
	}

	for _, item := range in.SaleItems {
		parent, ok := parents[item.InvoiceNo]
		if !ok || !period.Contains(today, parent.InvoiceDate) {
			continue
		}
		cost := in.Valuation.AvgCostPerKg(item.MaterialID) * item.Kg
		s.COGS += cost
		if parent.Confirmed() {
			s.RealizedCOGS += cost
		} else {
			s.UnrealizedCOGS += cost
		}
	}

	for _, exp := range in.Expenses {
		if period.Contains(today, exp.Date) {
			s.Expenses += exp.Amount
		}
	}

	for _, pur := range in.Purchases {
		if period.Contains(today, pur.Date) {
			s.PurchaseSpend += pur.GrandTotal
		}
	}

	s.GrossProfit = s.Revenue - s.COGS
	s.NetProfit = s.GrossProfit - s.Expenses
	s.RealizedProfit = s.RealizedRevenue - s.RealizedCOGS
	s.UnrealizedProfit = s.UnrealizedRevenue - s.UnrealizedCOGS
	return s
}
