package procurement

import (
	"time"

	"github.com/karobar-books/karobar/internal/schema"
)

// LineItemRequest is one material entry on an incoming purchase payload.
type LineItemRequest struct {
	MaterialID string  `json:"material_id" validate:"required"`
	Bags       float64 `json:"bags" validate:"gte=0"`
	Kg         float64 `json:"kg" validate:"gt=0"`
	Rate       float64 `json:"rate" validate:"gt=0"`
}

// CreatePurchaseRequest is the payload for recording a supplier bill. The
// tax amount comes off the bill itself; purchase line items carry no tax
// snapshot of their own.
type CreatePurchaseRequest struct {
	BillNo     string            `json:"bill_no" validate:"required"`
	Date       string            `json:"date" validate:"required,datetime=2006-01-02"`
	SupplierID string            `json:"supplier_id" validate:"required"`
	TaxAmount  float64           `json:"tax_amount" validate:"gte=0"`
	PhotoURLs  string            `json:"photo_urls"`
	Items      []LineItemRequest `json:"items" validate:"required,min=1,dive"`
}

// MarkPaidRequest settles a purchase.
type MarkPaidRequest struct {
	PaymentDate string `json:"payment_date" validate:"required,datetime=2006-01-02"`
	PaymentRef  string `json:"payment_ref" validate:"required"`
}

// EditPurchaseRequest carries replacement purchase contents. Stored item
// rows are overwritten positionally; the item list may grow but never
// shrink.
type EditPurchaseRequest struct {
	BillNo     string            `json:"bill_no" validate:"required"`
	Date       string            `json:"date" validate:"required,datetime=2006-01-02"`
	SupplierID string            `json:"supplier_id" validate:"required"`
	TaxAmount  float64           `json:"tax_amount" validate:"gte=0"`
	PhotoURLs  string            `json:"photo_urls"`
	Items      []LineItemRequest `json:"items" validate:"required,min=1,dive"`
}

// Purchase is a purchase header joined with its line items.
type Purchase struct {
	schema.PurchaseInvoice
	Items []schema.PurchaseLineItem `json:"items"`
}

func purchaseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse("2006-01-02", s)
	return t
}
