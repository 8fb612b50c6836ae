package schema

import "time"

// Material is a row from the Materials master table.
type Material struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	OpeningBags  float64 `json:"opening_bags"`
	OpeningKg    float64 `json:"opening_kg"`
	TaxRatePct   float64 `json:"tax_rate_pct"`
	PurchaseRate float64 `json:"purchase_rate"`
	SellingRate  float64 `json:"selling_rate"`
	HSNCode      string  `json:"hsn_code,omitempty"`
}

// Party is a customer, supplier or both.
type Party struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	GSTIN   string `json:"gstin,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
	Status  string `json:"status"`
}

// Active reports whether the party may be referenced by new transactions.
func (p Party) Active() bool {
	return p.Status != PartyStatusInactive
}

// Sellable reports whether sales may reference the party.
func (p Party) Sellable() bool {
	return p.Active() && p.Role != PartyRoleSupplier
}

// Purchasable reports whether purchases may reference the party.
func (p Party) Purchasable() bool {
	return p.Active() && p.Role != PartyRoleCustomer
}

// SaleInvoice is a sale header row. Dates are zero when the cell was empty
// or unparseable; such invoices are excluded from date-scoped computations.
type SaleInvoice struct {
	InvoiceNo    string    `json:"invoice_no"`
	ChallanNo    string    `json:"challan_no,omitempty"`
	InvoiceDate  time.Time `json:"invoice_date"`
	OrderDate    time.Time `json:"order_date"`
	PartyID      string    `json:"party_id"`
	PartyName    string    `json:"party_name"`
	Subtotal     float64   `json:"subtotal"`
	CGST         float64   `json:"cgst"`
	SGST         float64   `json:"sgst"`
	IGST         float64   `json:"igst"`
	GrandTotal   float64   `json:"grand_total"`
	PaymentMode  string    `json:"payment_mode,omitempty"`
	Status       string    `json:"status"`
	PaymentRef   string    `json:"payment_ref,omitempty"`
	PaymentDate  time.Time `json:"payment_date"`
	OrderChannel string    `json:"order_channel,omitempty"`
}

// Confirmed reports whether payment has been confirmed for the invoice.
func (s SaleInvoice) Confirmed() bool {
	return s.Status == SaleStatusConfirmed
}

// SaleLineItem is a single material entry within a sale invoice.
type SaleLineItem struct {
	ID           string  `json:"id"`
	InvoiceNo    string  `json:"invoice_no"`
	MaterialID   string  `json:"material_id"`
	MaterialName string  `json:"material_name"`
	Bags         float64 `json:"bags"`
	Kg           float64 `json:"kg"`
	Rate         float64 `json:"rate"`
	TaxRatePct   float64 `json:"tax_rate_pct"`
	Amount       float64 `json:"amount"`
}

// PurchaseInvoice is a purchase header row.
type PurchaseInvoice struct {
	ID           string    `json:"id"`
	BillNo       string    `json:"bill_no"`
	Date         time.Time `json:"date"`
	SupplierID   string    `json:"supplier_id"`
	SupplierName string    `json:"supplier_name"`
	Subtotal     float64   `json:"subtotal"`
	TaxAmount    float64   `json:"tax_amount"`
	GrandTotal   float64   `json:"grand_total"`
	Status       string    `json:"status"`
	PaymentDate  time.Time `json:"payment_date"`
	PaymentRef   string    `json:"payment_ref,omitempty"`
	PhotoURLs    string    `json:"photo_urls,omitempty"`
}

// Paid reports whether the supplier has been paid.
func (p PurchaseInvoice) Paid() bool {
	return p.Status == PurchaseStatusPaid
}

// PurchaseLineItem is a single material entry within a purchase invoice.
type PurchaseLineItem struct {
	ID           string  `json:"id"`
	PurchaseID   string  `json:"purchase_id"`
	MaterialID   string  `json:"material_id"`
	MaterialName string  `json:"material_name"`
	Bags         float64 `json:"bags"`
	Kg           float64 `json:"kg"`
	Rate         float64 `json:"rate"`
	Amount       float64 `json:"amount"`
}

// Expense is an operational cost row, independent of materials and parties.
type Expense struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description,omitempty"`
	PaymentMode string    `json:"payment_mode,omitempty"`
}

// Notification is an advisory audit-trail row. It is written by the
// application but never read back into derivations.
type Notification struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Author    string    `json:"author"`
}
