// Package sales implements the sale entry workflows: invoice creation,
// payment confirmation and the bounded edit window. All writes go through
// the append/update primitives of the row store; nothing is ever deleted.
package sales

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/karobar-books/karobar/internal/notify"
	"github.com/karobar-books/karobar/internal/platform/cache"
	"github.com/karobar-books/karobar/internal/schema"
	"github.com/karobar-books/karobar/internal/shared"
)

// RowStore is the slice of the tabular store the sales workflows need.
type RowStore interface {
	FetchRows(ctx context.Context, readRange string) ([][]string, error)
	AppendRows(ctx context.Context, tableRange string, rows [][]string) error
	UpdateRows(ctx context.Context, writeRange string, rows [][]string) error
}

// Notifier records advisory audit-trail entries. Implementations are
// best-effort; Record never fails the calling workflow.
type Notifier interface {
	Record(ctx context.Context, kind, message string)
}

// Service implements the sale workflows.
type Service struct {
	store    RowStore
	logger   *slog.Logger
	cache    *cache.Cache
	notifier Notifier
	validate *validator.Validate
	now      func() time.Time
}

// NewService builds Service. now is overridable for tests; nil means
// time.Now.
func NewService(store RowStore, logger *slog.Logger, viewCache *cache.Cache, notifier Notifier, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:    store,
		logger:   logger,
		cache:    viewCache,
		notifier: notifier,
		validate: validator.New(),
		now:      now,
	}
}

// ListInvoices returns every sale joined with its line items, newest first.
// Undated invoices sort last.
func (s *Service) ListInvoices(ctx context.Context) ([]Invoice, error) {
	headerRows, err := s.store.FetchRows(ctx, schema.RangeSales)
	if err != nil {
		return nil, fmt.Errorf("fetch sales: %w", err)
	}
	itemRows, err := s.store.FetchRows(ctx, schema.RangeSaleItems)
	if err != nil {
		return nil, fmt.Errorf("fetch sale items: %w", err)
	}

	items := schema.SaleItems(itemRows)
	byInvoice := make(map[string][]schema.SaleLineItem)
	for _, item := range items {
		byInvoice[item.InvoiceNo] = append(byInvoice[item.InvoiceNo], item)
	}

	headers := schema.Sales(headerRows)
	invoices := make([]Invoice, 0, len(headers))
	for _, h := range headers {
		invoices = append(invoices, Invoice{SaleInvoice: h, Items: byInvoice[h.InvoiceNo]})
	}
	sort.SliceStable(invoices, func(i, j int) bool {
		di, dj := invoices[i].InvoiceDate, invoices[j].InvoiceDate
		if dj.IsZero() {
			return !di.IsZero()
		}
		if di.IsZero() {
			return false
		}
		return di.After(dj)
	})
	return invoices, nil
}

// CreateInvoice records a new sale as a Pending header row plus one item
// row per material. Amounts derive from the payload; tax snapshots come
// from the material master and split evenly into CGST and SGST.
func (s *Service) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (Invoice, error) {
	if err := s.validate.Struct(req); err != nil {
		return Invoice{}, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	party, err := s.sellableParty(ctx, req.PartyID)
	if err != nil {
		return Invoice{}, err
	}
	materials, err := s.materialIndex(ctx)
	if err != nil {
		return Invoice{}, err
	}

	headerRows, err := s.store.FetchRows(ctx, schema.RangeSales)
	if err != nil {
		return Invoice{}, fmt.Errorf("fetch sales: %w", err)
	}
	invoiceNo := nextInvoiceNo(schema.Sales(headerRows))

	lineItems, tot, err := buildLineItems(invoiceNo, req.Items, materials)
	if err != nil {
		return Invoice{}, err
	}

	header := schema.SaleInvoice{
		InvoiceNo:    invoiceNo,
		ChallanNo:    req.ChallanNo,
		InvoiceDate:  invoiceDate(req.InvoiceDate),
		OrderDate:    invoiceDate(req.OrderDate),
		PartyID:      party.ID,
		PartyName:    party.Name,
		Subtotal:     tot.subtotal,
		CGST:         tot.cgst,
		SGST:         tot.sgst,
		GrandTotal:   tot.grandTotal,
		PaymentMode:  req.PaymentMode,
		Status:       schema.SaleStatusPending,
		OrderChannel: req.OrderChannel,
	}

	if err := s.store.AppendRows(ctx, schema.AppendSales, [][]string{saleHeaderRow(header)}); err != nil {
		return Invoice{}, fmt.Errorf("append sale: %w", err)
	}
	if err := s.store.AppendRows(ctx, schema.AppendSaleItems, saleItemRows(lineItems)); err != nil {
		return Invoice{}, fmt.Errorf("append sale items: %w", err)
	}

	s.bump(ctx)
	if s.notifier != nil {
		s.notifier.Record(ctx, "sale_created",
			fmt.Sprintf("Invoice %s for %s: %s", invoiceNo, party.Name, notify.FormatINR(tot.grandTotal)))
	}
	return Invoice{SaleInvoice: header, Items: lineItems}, nil
}

// ConfirmPayment marks an invoice Confirmed. The row is located by invoice
// number against a fresh read, never by a remembered position.
func (s *Service) ConfirmPayment(ctx context.Context, invoiceNo string, req ConfirmPaymentRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	headerRows, err := s.store.FetchRows(ctx, schema.RangeSales)
	if err != nil {
		return fmt.Errorf("fetch sales: %w", err)
	}
	idx, header, err := findSale(headerRows, invoiceNo)
	if err != nil {
		return err
	}
	if header.Confirmed() {
		return fmt.Errorf("%w: invoice %s is already confirmed", shared.ErrInvalidStatus, invoiceNo)
	}

	// Data rows start at sheet row 2.
	sheetRow := idx + 2
	if req.PaymentMode != "" {
		err = s.store.UpdateRows(ctx, fmt.Sprintf("Sales!L%d:O%d", sheetRow, sheetRow), [][]string{{
			req.PaymentMode, schema.SaleStatusConfirmed, req.PaymentRef, req.PaymentDate,
		}})
	} else {
		err = s.store.UpdateRows(ctx, fmt.Sprintf("Sales!M%d:O%d", sheetRow, sheetRow), [][]string{{
			schema.SaleStatusConfirmed, req.PaymentRef, req.PaymentDate,
		}})
	}
	if err != nil {
		return fmt.Errorf("update sale %s: %w", invoiceNo, err)
	}

	s.bump(ctx)
	if s.notifier != nil {
		s.notifier.Record(ctx, "payment_confirmed",
			fmt.Sprintf("Payment received for %s: %s", invoiceNo, notify.FormatINR(header.GrandTotal)))
	}
	return nil
}

// EditInvoice rewrites an invoice in place. Allowed only while the invoice
// is Pending and within the edit window; afterwards the record is
// append-only. Stored item rows are overwritten positionally and new items
// appended; the store cannot drop rows, so the item list may never shrink.
func (s *Service) EditInvoice(ctx context.Context, invoiceNo string, req EditInvoiceRequest) (Invoice, error) {
	if err := s.validate.Struct(req); err != nil {
		return Invoice{}, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	headerRows, err := s.store.FetchRows(ctx, schema.RangeSales)
	if err != nil {
		return Invoice{}, fmt.Errorf("fetch sales: %w", err)
	}
	idx, stored, err := findSale(headerRows, invoiceNo)
	if err != nil {
		return Invoice{}, err
	}
	if stored.Confirmed() {
		return Invoice{}, fmt.Errorf("%w: invoice %s is confirmed", shared.ErrEditWindowClosed, invoiceNo)
	}
	if !stored.InvoiceDate.IsZero() && s.now().Sub(stored.InvoiceDate) > shared.EditWindowDays*24*time.Hour {
		return Invoice{}, fmt.Errorf("%w: invoice %s is older than %d days", shared.ErrEditWindowClosed, invoiceNo, shared.EditWindowDays)
	}

	party, err := s.sellableParty(ctx, req.PartyID)
	if err != nil {
		return Invoice{}, err
	}
	materials, err := s.materialIndex(ctx)
	if err != nil {
		return Invoice{}, err
	}

	itemRows, err := s.store.FetchRows(ctx, schema.RangeSaleItems)
	if err != nil {
		return Invoice{}, fmt.Errorf("fetch sale items: %w", err)
	}
	var storedIdx []int
	var storedItems []schema.SaleLineItem
	for i, row := range itemRows {
		if item := schema.SaleItemRow(row); item.InvoiceNo == invoiceNo {
			storedIdx = append(storedIdx, i)
			storedItems = append(storedItems, item)
		}
	}
	if len(req.Items) < len(storedItems) {
		return Invoice{}, fmt.Errorf("%w: line items cannot be removed from invoice %s", shared.ErrValidation, invoiceNo)
	}

	lineItems, tot, err := buildLineItems(invoiceNo, req.Items, materials)
	if err != nil {
		return Invoice{}, err
	}
	// Overwritten rows keep their stored IDs.
	for i := range storedItems {
		lineItems[i].ID = storedItems[i].ID
	}

	header := schema.SaleInvoice{
		InvoiceNo:    invoiceNo,
		ChallanNo:    req.ChallanNo,
		InvoiceDate:  invoiceDate(req.InvoiceDate),
		OrderDate:    invoiceDate(req.OrderDate),
		PartyID:      party.ID,
		PartyName:    party.Name,
		Subtotal:     tot.subtotal,
		CGST:         tot.cgst,
		SGST:         tot.sgst,
		GrandTotal:   tot.grandTotal,
		PaymentMode:  req.PaymentMode,
		Status:       schema.SaleStatusPending,
		OrderChannel: req.OrderChannel,
	}

	sheetRow := idx + 2
	if err := s.store.UpdateRows(ctx, fmt.Sprintf("Sales!A%d:P%d", sheetRow, sheetRow), [][]string{saleHeaderRow(header)}); err != nil {
		return Invoice{}, fmt.Errorf("update sale %s: %w", invoiceNo, err)
	}
	for i, rowIdx := range storedIdx {
		itemRow := rowIdx + 2
		if err := s.store.UpdateRows(ctx, fmt.Sprintf("Sale_Items!A%d:I%d", itemRow, itemRow), saleItemRows(lineItems[i:i+1])); err != nil {
			return Invoice{}, fmt.Errorf("update sale item: %w", err)
		}
	}
	if extra := lineItems[len(storedIdx):]; len(extra) > 0 {
		if err := s.store.AppendRows(ctx, schema.AppendSaleItems, saleItemRows(extra)); err != nil {
			return Invoice{}, fmt.Errorf("append sale items: %w", err)
		}
	}

	s.bump(ctx)
	if s.notifier != nil {
		s.notifier.Record(ctx, "invoice_edited",
			fmt.Sprintf("Invoice %s edited; new total %s", invoiceNo, notify.FormatINR(tot.grandTotal)))
	}
	return Invoice{SaleInvoice: header, Items: lineItems}, nil
}

func (s *Service) bump(ctx context.Context) {
	if err := s.cache.Bump(ctx); err != nil && s.logger != nil {
		s.logger.Warn("cache bump failed", slog.Any("error", err))
	}
}

func (s *Service) sellableParty(ctx context.Context, partyID string) (schema.Party, error) {
	rows, err := s.store.FetchRows(ctx, schema.RangeParties)
	if err != nil {
		return schema.Party{}, fmt.Errorf("fetch parties: %w", err)
	}
	for _, p := range schema.Parties(rows) {
		if p.ID != partyID {
			continue
		}
		if !p.Sellable() {
			return schema.Party{}, fmt.Errorf("%w: party %s cannot be sold to", shared.ErrValidation, partyID)
		}
		return p, nil
	}
	return schema.Party{}, fmt.Errorf("%w: party %s", shared.ErrNotFound, partyID)
}

func (s *Service) materialIndex(ctx context.Context) (map[string]schema.Material, error) {
	rows, err := s.store.FetchRows(ctx, schema.RangeMaterials)
	if err != nil {
		return nil, fmt.Errorf("fetch materials: %w", err)
	}
	index := make(map[string]schema.Material)
	for _, m := range schema.Materials(rows) {
		index[m.ID] = m
	}
	return index, nil
}

// buildLineItems derives item records and invoice totals from the payload.
// Tax rates are snapshotted from the material master at entry time.
func buildLineItems(invoiceNo string, reqs []LineItemRequest, materials map[string]schema.Material) ([]schema.SaleLineItem, totals, error) {
	items := make([]schema.SaleLineItem, 0, len(reqs))
	var tot totals
	for _, r := range reqs {
		mat, ok := materials[r.MaterialID]
		if !ok {
			return nil, totals{}, fmt.Errorf("%w: material %s", shared.ErrNotFound, r.MaterialID)
		}
		amount := r.Kg * r.Rate
		tax := amount * mat.TaxRatePct / 100
		tot.subtotal += amount
		tot.cgst += tax / 2
		tot.sgst += tax / 2
		items = append(items, schema.SaleLineItem{
			ID:           uuid.NewString(),
			InvoiceNo:    invoiceNo,
			MaterialID:   mat.ID,
			MaterialName: mat.Name,
			Bags:         r.Bags,
			Kg:           r.Kg,
			Rate:         r.Rate,
			TaxRatePct:   mat.TaxRatePct,
			Amount:       amount,
		})
	}
	tot.grandTotal = tot.subtotal + tot.cgst + tot.sgst
	return items, tot, nil
}

// nextInvoiceNo continues the INV-NNN sequence from the highest stored
// suffix.
func nextInvoiceNo(existing []schema.SaleInvoice) string {
	max := 0
	for _, inv := range existing {
		suffix, ok := strings.CutPrefix(inv.InvoiceNo, "INV-")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(suffix); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("INV-%03d", max+1)
}

// findSale scans raw rows so the returned index maps directly to a sheet
// row; the batch converter drops malformed rows and would shift positions.
func findSale(rows [][]string, invoiceNo string) (int, schema.SaleInvoice, error) {
	for i, row := range rows {
		if sale := schema.SaleRow(row); sale.InvoiceNo == invoiceNo {
			return i, sale, nil
		}
	}
	return 0, schema.SaleInvoice{}, fmt.Errorf("%w: invoice %s", shared.ErrNotFound, invoiceNo)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func saleHeaderRow(h schema.SaleInvoice) []string {
	return []string{
		h.InvoiceNo,
		h.ChallanNo,
		formatDate(h.InvoiceDate),
		formatDate(h.OrderDate),
		h.PartyID,
		h.PartyName,
		formatNum(h.Subtotal),
		formatNum(h.CGST),
		formatNum(h.SGST),
		formatNum(h.IGST),
		formatNum(h.GrandTotal),
		h.PaymentMode,
		h.Status,
		h.PaymentRef,
		formatDate(h.PaymentDate),
		h.OrderChannel,
	}
}

func saleItemRows(items []schema.SaleLineItem) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.ID,
			item.InvoiceNo,
			item.MaterialID,
			item.MaterialName,
			formatNum(item.Bags),
			formatNum(item.Kg),
			formatNum(item.Rate),
			formatNum(item.TaxRatePct),
			formatNum(item.Amount),
		})
	}
	return rows
}
