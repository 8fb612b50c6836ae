// Package schema maps raw string rows from the backing spreadsheet into
// typed records. Parsing is lenient by contract: numeric cells default to 0,
// date cells become the zero time, and a malformed row never aborts the
// batch it arrived in.
package schema

import (
	"strconv"
	"strings"
	"time"
)

// Date layouts accepted from the store. Rows are written with ISO dates but
// hand-edited cells show up in both regional and timestamp forms.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02/01/2006",
	"2/1/2006",
}

// Num parses a numeric cell, defaulting to 0 on empty or malformed input.
func Num(cell string) float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

// Date parses a date cell. Empty or unparseable cells yield the zero time,
// which marks the value as absent for date-scoped computations.
func Date(cell string) time.Time {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t
		}
	}
	return time.Time{}
}

// cell returns the trimmed column value, tolerating short rows.
func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// Materials converts raw Materials rows. Rows without an ID are dropped.
func Materials(rows [][]string) []Material {
	out := make([]Material, 0, len(rows))
	for _, row := range rows {
		id := cell(row, MatColID)
		if id == "" {
			continue
		}
		out = append(out, Material{
			ID:           id,
			Name:         cell(row, MatColName),
			Description:  cell(row, MatColDescription),
			OpeningBags:  Num(cell(row, MatColOpeningBags)),
			OpeningKg:    Num(cell(row, MatColOpeningKg)),
			TaxRatePct:   Num(cell(row, MatColTaxRatePct)),
			PurchaseRate: Num(cell(row, MatColPurchaseRate)),
			SellingRate:  Num(cell(row, MatColSellingRate)),
			HSNCode:      cell(row, MatColHSNCode),
		})
	}
	return out
}

// Parties converts raw Parties rows.
func Parties(rows [][]string) []Party {
	out := make([]Party, 0, len(rows))
	for _, row := range rows {
		id := cell(row, PartyColID)
		if id == "" {
			continue
		}
		out = append(out, Party{
			ID:      id,
			Name:    cell(row, PartyColName),
			Role:    cell(row, PartyColRole),
			GSTIN:   cell(row, PartyColGSTIN),
			Phone:   cell(row, PartyColPhone),
			Email:   cell(row, PartyColEmail),
			Address: cell(row, PartyColAddress),
			Status:  cell(row, PartyColStatus),
		})
	}
	return out
}

// SaleRow converts one raw Sales header row. Row position is preserved by
// the caller; the batch converter drops key-less rows instead.
func SaleRow(row []string) SaleInvoice {
	return SaleInvoice{
		InvoiceNo:    cell(row, SaleColInvoiceNo),
		ChallanNo:    cell(row, SaleColChallanNo),
		InvoiceDate:  Date(cell(row, SaleColInvoiceDate)),
		OrderDate:    Date(cell(row, SaleColOrderDate)),
		PartyID:      cell(row, SaleColPartyID),
		PartyName:    cell(row, SaleColPartyName),
		Subtotal:     Num(cell(row, SaleColSubtotal)),
		CGST:         Num(cell(row, SaleColCGST)),
		SGST:         Num(cell(row, SaleColSGST)),
		IGST:         Num(cell(row, SaleColIGST)),
		GrandTotal:   Num(cell(row, SaleColGrandTotal)),
		PaymentMode:  cell(row, SaleColPaymentMode),
		Status:       cell(row, SaleColStatus),
		PaymentRef:   cell(row, SaleColPaymentRef),
		PaymentDate:  Date(cell(row, SaleColPaymentDate)),
		OrderChannel: cell(row, SaleColOrderChannel),
	}
}

// Sales converts raw Sales header rows. The invoice number doubles as the
// business key, so rows without one are dropped.
func Sales(rows [][]string) []SaleInvoice {
	out := make([]SaleInvoice, 0, len(rows))
	for _, row := range rows {
		if cell(row, SaleColInvoiceNo) == "" {
			continue
		}
		out = append(out, SaleRow(row))
	}
	return out
}

// SaleItems converts raw Sale_Items rows. A line item must name its parent
// invoice and material to contribute anywhere, so rows missing either are
// dropped here rather than zero-filled downstream.
func SaleItems(rows [][]string) []SaleLineItem {
	out := make([]SaleLineItem, 0, len(rows))
	for _, row := range rows {
		if cell(row, SaleItemColInvoiceNo) == "" || cell(row, SaleItemColMaterialID) == "" {
			continue
		}
		out = append(out, SaleItemRow(row))
	}
	return out
}

// SaleItemRow converts one raw Sale_Items row.
func SaleItemRow(row []string) SaleLineItem {
	return SaleLineItem{
		ID:           cell(row, SaleItemColID),
		InvoiceNo:    cell(row, SaleItemColInvoiceNo),
		MaterialID:   cell(row, SaleItemColMaterialID),
		MaterialName: cell(row, SaleItemColMaterialName),
		Bags:         Num(cell(row, SaleItemColBags)),
		Kg:           Num(cell(row, SaleItemColKg)),
		Rate:         Num(cell(row, SaleItemColRate)),
		TaxRatePct:   Num(cell(row, SaleItemColTaxRatePct)),
		Amount:       Num(cell(row, SaleItemColAmount)),
	}
}

// PurchaseRow converts one raw Purchases header row.
func PurchaseRow(row []string) PurchaseInvoice {
	return PurchaseInvoice{
		ID:           cell(row, PurColID),
		BillNo:       cell(row, PurColBillNo),
		Date:         Date(cell(row, PurColDate)),
		SupplierID:   cell(row, PurColSupplierID),
		SupplierName: cell(row, PurColSupplierName),
		Subtotal:     Num(cell(row, PurColSubtotal)),
		TaxAmount:    Num(cell(row, PurColTaxAmount)),
		GrandTotal:   Num(cell(row, PurColGrandTotal)),
		Status:       cell(row, PurColStatus),
		PaymentDate:  Date(cell(row, PurColPaymentDate)),
		PaymentRef:   cell(row, PurColPaymentRef),
		PhotoURLs:    cell(row, PurColPhotoURLs),
	}
}

// Purchases converts raw Purchases header rows.
func Purchases(rows [][]string) []PurchaseInvoice {
	out := make([]PurchaseInvoice, 0, len(rows))
	for _, row := range rows {
		if cell(row, PurColID) == "" {
			continue
		}
		out = append(out, PurchaseRow(row))
	}
	return out
}

// PurchaseItemRow converts one raw Purchase_Items row.
func PurchaseItemRow(row []string) PurchaseLineItem {
	return PurchaseLineItem{
		ID:           cell(row, PurItemColID),
		PurchaseID:   cell(row, PurItemColPurchaseID),
		MaterialID:   cell(row, PurItemColMaterialID),
		MaterialName: cell(row, PurItemColMaterialName),
		Bags:         Num(cell(row, PurItemColBags)),
		Kg:           Num(cell(row, PurItemColKg)),
		Rate:         Num(cell(row, PurItemColRate)),
		Amount:       Num(cell(row, PurItemColAmount)),
	}
}

// PurchaseItems converts raw Purchase_Items rows.
func PurchaseItems(rows [][]string) []PurchaseLineItem {
	out := make([]PurchaseLineItem, 0, len(rows))
	for _, row := range rows {
		if cell(row, PurItemColPurchaseID) == "" || cell(row, PurItemColMaterialID) == "" {
			continue
		}
		out = append(out, PurchaseItemRow(row))
	}
	return out
}

// Expenses converts raw Expenses rows.
func Expenses(rows [][]string) []Expense {
	out := make([]Expense, 0, len(rows))
	for _, row := range rows {
		id := cell(row, ExpColID)
		if id == "" {
			continue
		}
		out = append(out, Expense{
			ID:          id,
			Date:        Date(cell(row, ExpColDate)),
			Category:    cell(row, ExpColCategory),
			Amount:      Num(cell(row, ExpColAmount)),
			Description: cell(row, ExpColDescription),
			PaymentMode: cell(row, ExpColPaymentMode),
		})
	}
	return out
}

// Notifications converts raw Notifications rows.
func Notifications(rows [][]string) []Notification {
	out := make([]Notification, 0, len(rows))
	for _, row := range rows {
		ts := Date(cell(row, NotifColTimestamp))
		if ts.IsZero() {
			continue
		}
		out = append(out, Notification{
			Timestamp: ts,
			Type:      cell(row, NotifColType),
			Message:   cell(row, NotifColMessage),
			Author:    cell(row, NotifColAuthor),
		})
	}
	return out
}
