package sales

import (
	"time"

	"github.com/karobar-books/karobar/internal/schema"
)

// LineItemRequest is one material entry on an incoming invoice payload.
type LineItemRequest struct {
	MaterialID string  `json:"material_id" validate:"required"`
	Bags       float64 `json:"bags" validate:"gte=0"`
	Kg         float64 `json:"kg" validate:"gt=0"`
	Rate       float64 `json:"rate" validate:"gt=0"`
}

// CreateInvoiceRequest is the payload for recording a new sale.
type CreateInvoiceRequest struct {
	ChallanNo    string            `json:"challan_no"`
	InvoiceDate  string            `json:"invoice_date" validate:"required,datetime=2006-01-02"`
	OrderDate    string            `json:"order_date" validate:"omitempty,datetime=2006-01-02"`
	PartyID      string            `json:"party_id" validate:"required"`
	PaymentMode  string            `json:"payment_mode"`
	OrderChannel string            `json:"order_channel"`
	Items        []LineItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ConfirmPaymentRequest marks an invoice as paid.
type ConfirmPaymentRequest struct {
	PaymentDate string `json:"payment_date" validate:"required,datetime=2006-01-02"`
	PaymentRef  string `json:"payment_ref" validate:"required"`
	PaymentMode string `json:"payment_mode"`
}

// EditInvoiceRequest carries the replacement invoice contents. Line items
// are matched positionally against the stored rows; the append-mostly store
// cannot drop rows, so an edit may grow the item list but never shrink it.
type EditInvoiceRequest struct {
	ChallanNo    string            `json:"challan_no"`
	InvoiceDate  string            `json:"invoice_date" validate:"required,datetime=2006-01-02"`
	OrderDate    string            `json:"order_date" validate:"omitempty,datetime=2006-01-02"`
	PartyID      string            `json:"party_id" validate:"required"`
	PaymentMode  string            `json:"payment_mode"`
	OrderChannel string            `json:"order_channel"`
	Items        []LineItemRequest `json:"items" validate:"required,min=1,dive"`
}

// Invoice is a sale header joined with its line items for presentation.
type Invoice struct {
	schema.SaleInvoice
	Items []schema.SaleLineItem `json:"items"`
}

// totals is the derived money block for one invoice payload.
type totals struct {
	subtotal   float64
	cgst       float64
	sgst       float64
	grandTotal float64
}

// invoiceDate parses the request date; validation has already guaranteed
// the layout.
func invoiceDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse("2006-01-02", s)
	return t
}
