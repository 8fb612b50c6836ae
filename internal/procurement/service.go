// Package procurement implements the purchase entry workflows: supplier
// bill capture, payment settlement and the bounded edit window. It mirrors
// the sales side with the supplier-facing schema.
package procurement

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

// RowStore is the slice of the tabular store the purchase workflows need.
type RowStore interface {
	FetchRows(ctx context.Context, readRange string) ([][]string, error)
	AppendRows(ctx context.Context, tableRange string, rows [][]string) error
	UpdateRows(ctx context.Context, writeRange string, rows [][]string) error
}

// Notifier records advisory audit-trail entries.
type Notifier interface {
	Record(ctx context.Context, kind, message string)
}

// Service implements the purchase workflows.
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

// ListPurchases returns every purchase joined with its line items, newest
// first. Undated purchases sort last.
func (s *Service) ListPurchases(ctx context.Context) ([]Purchase, error) {
	headerRows, err := s.store.FetchRows(ctx, schema.RangePurchases)
	if err != nil {
		return nil, fmt.Errorf("fetch purchases: %w", err)
	}
	itemRows, err := s.store.FetchRows(ctx, schema.RangePurchaseItems)
	if err != nil {
		return nil, fmt.Errorf("fetch purchase items: %w", err)
	}

	byPurchase := make(map[string][]schema.PurchaseLineItem)
	for _, item := range schema.PurchaseItems(itemRows) {
		byPurchase[item.PurchaseID] = append(byPurchase[item.PurchaseID], item)
	}

	headers := schema.Purchases(headerRows)
	purchases := make([]Purchase, 0, len(headers))
	for _, h := range headers {
		purchases = append(purchases, Purchase{PurchaseInvoice: h, Items: byPurchase[h.ID]})
	}
	sort.SliceStable(purchases, func(i, j int) bool {
		di, dj := purchases[i].Date, purchases[j].Date
		if dj.IsZero() {
			return !di.IsZero()
		}
		if di.IsZero() {
			return false
		}
		return di.After(dj)
	})
	return purchases, nil
}

// CreatePurchase records a supplier bill as an Unpaid header row plus one
// item row per material.
func (s *Service) CreatePurchase(ctx context.Context, req CreatePurchaseRequest) (Purchase, error) {
	if err := s.validate.Struct(req); err != nil {
		return Purchase{}, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	supplier, err := s.purchasableParty(ctx, req.SupplierID)
	if err != nil {
		return Purchase{}, err
	}
	materials, err := s.materialIndex(ctx)
	if err != nil {
		return Purchase{}, err
	}

	headerRows, err := s.store.FetchRows(ctx, schema.RangePurchases)
	if err != nil {
		return Purchase{}, fmt.Errorf("fetch purchases: %w", err)
	}
	purchaseID := nextPurchaseID(schema.Purchases(headerRows))

	lineItems, subtotal, err := buildLineItems(purchaseID, req.Items, materials)
	if err != nil {
		return Purchase{}, err
	}

	header := schema.PurchaseInvoice{
		ID:           purchaseID,
		BillNo:       req.BillNo,
		Date:         purchaseDate(req.Date),
		SupplierID:   supplier.ID,
		SupplierName: supplier.Name,
		Subtotal:     subtotal,
		TaxAmount:    req.TaxAmount,
		GrandTotal:   subtotal + req.TaxAmount,
		Status:       schema.PurchaseStatusUnpaid,
		PhotoURLs:    req.PhotoURLs,
	}

	if err := s.store.AppendRows(ctx, schema.AppendPurchases, [][]string{purchaseHeaderRow(header)}); err != nil {
		return Purchase{}, fmt.Errorf("append purchase: %w", err)
	}
	if err := s.store.AppendRows(ctx, schema.AppendPurchaseItems, purchaseItemRows(lineItems)); err != nil {
		return Purchase{}, fmt.Errorf("append purchase items: %w", err)
	}

	s.bump(ctx)
	if s.notifier != nil {
		s.notifier.Record(ctx, "purchase_created",
			fmt.Sprintf("Bill %s from %s: %s", req.BillNo, supplier.Name, notify.FormatINR(header.GrandTotal)))
	}
	return Purchase{PurchaseInvoice: header, Items: lineItems}, nil
}

// MarkPaid settles a purchase. The row is located by purchase ID against a
// fresh read, never by a remembered position.
func (s *Service) MarkPaid(ctx context.Context, purchaseID string, req MarkPaidRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	headerRows, err := s.store.FetchRows(ctx, schema.RangePurchases)
	if err != nil {
		return fmt.Errorf("fetch purchases: %w", err)
	}
	idx, header, err := findPurchase(headerRows, purchaseID)
	if err != nil {
		return err
	}
	if header.Paid() {
		return fmt.Errorf("%w: purchase %s is already paid", shared.ErrInvalidStatus, purchaseID)
	}

	sheetRow := idx + 2
	err = s.store.UpdateRows(ctx, fmt.Sprintf("Purchases!I%d:K%d", sheetRow, sheetRow), [][]string{{
		schema.PurchaseStatusPaid, req.PaymentDate, req.PaymentRef,
	}})
	if err != nil {
		return fmt.Errorf("update purchase %s: %w", purchaseID, err)
	}

	s.bump(ctx)
	if s.notifier != nil {
		s.notifier.Record(ctx, "purchase_paid",
			fmt.Sprintf("Paid bill %s: %s", header.BillNo, notify.FormatINR(header.GrandTotal)))
	}
	return nil
}

// EditPurchase rewrites a purchase in place under the same window rule as
// sales: only while Unpaid and within the edit window.
func (s *Service) EditPurchase(ctx context.Context, purchaseID string, req EditPurchaseRequest) (Purchase, error) {
	if err := s.validate.Struct(req); err != nil {
		return Purchase{}, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	headerRows, err := s.store.FetchRows(ctx, schema.RangePurchases)
	if err != nil {
		return Purchase{}, fmt.Errorf("fetch purchases: %w", err)
	}
	idx, stored, err := findPurchase(headerRows, purchaseID)
	if err != nil {
		return Purchase{}, err
	}
	if stored.Paid() {
		return Purchase{}, fmt.Errorf("%w: purchase %s is paid", shared.ErrEditWindowClosed, purchaseID)
	}
	if !stored.Date.IsZero() && s.now().Sub(stored.Date) > shared.EditWindowDays*24*time.Hour {
		return Purchase{}, fmt.Errorf("%w: purchase %s is older than %d days", shared.ErrEditWindowClosed, purchaseID, shared.EditWindowDays)
	}

	supplier, err := s.purchasableParty(ctx, req.SupplierID)
	if err != nil {
		return Purchase{}, err
	}
	materials, err := s.materialIndex(ctx)
	if err != nil {
		return Purchase{}, err
	}

	itemRows, err := s.store.FetchRows(ctx, schema.RangePurchaseItems)
	if err != nil {
		return Purchase{}, fmt.Errorf("fetch purchase items: %w", err)
	}
	var storedIdx []int
	var storedItems []schema.PurchaseLineItem
	for i, row := range itemRows {
		if item := schema.PurchaseItemRow(row); item.PurchaseID == purchaseID {
			storedIdx = append(storedIdx, i)
			storedItems = append(storedItems, item)
		}
	}
	if len(req.Items) < len(storedItems) {
		return Purchase{}, fmt.Errorf("%w: line items cannot be removed from purchase %s", shared.ErrValidation, purchaseID)
	}

	lineItems, subtotal, err := buildLineItems(purchaseID, req.Items, materials)
	if err != nil {
		return Purchase{}, err
	}
	for i := range storedItems {
		lineItems[i].ID = storedItems[i].ID
	}

	header := schema.PurchaseInvoice{
		ID:           purchaseID,
		BillNo:       req.BillNo,
		Date:         purchaseDate(req.Date),
		SupplierID:   supplier.ID,
		SupplierName: supplier.Name,
		Subtotal:     subtotal,
		TaxAmount:    req.TaxAmount,
		GrandTotal:   subtotal + req.TaxAmount,
		Status:       schema.PurchaseStatusUnpaid,
		PhotoURLs:    req.PhotoURLs,
	}

	sheetRow := idx + 2
	if err := s.store.UpdateRows(ctx, fmt.Sprintf("Purchases!A%d:L%d", sheetRow, sheetRow), [][]string{purchaseHeaderRow(header)}); err != nil {
		return Purchase{}, fmt.Errorf("update purchase %s: %w", purchaseID, err)
	}
	for i, rowIdx := range storedIdx {
		itemRow := rowIdx + 2
		if err := s.store.UpdateRows(ctx, fmt.Sprintf("Purchase_Items!A%d:H%d", itemRow, itemRow), purchaseItemRows(lineItems[i:i+1])); err != nil {
			return Purchase{}, fmt.Errorf("update purchase item: %w", err)
		}
	}
	if extra := lineItems[len(storedIdx):]; len(extra) > 0 {
		if err := s.store.AppendRows(ctx, schema.AppendPurchaseItems, purchaseItemRows(extra)); err != nil {
			return Purchase{}, fmt.Errorf("append purchase items: %w", err)
		}
	}

	s.bump(ctx)
	if s.notifier != nil {
		s.notifier.Record(ctx, "purchase_edited",
			fmt.Sprintf("Purchase %s edited; new total %s", purchaseID, notify.FormatINR(header.GrandTotal)))
	}
	return Purchase{PurchaseInvoice: header, Items: lineItems}, nil
}

func (s *Service) bump(ctx context.Context) {
	if err := s.cache.Bump(ctx); err != nil && s.logger != nil {
		s.logger.Warn("cache bump failed", slog.Any("error", err))
	}
}

func (s *Service) purchasableParty(ctx context.Context, partyID string) (schema.Party, error) {
	rows, err := s.store.FetchRows(ctx, schema.RangeParties)
	if err != nil {
		return schema.Party{}, fmt.Errorf("fetch parties: %w", err)
	}
	for _, p := range schema.Parties(rows) {
		if p.ID != partyID {
			continue
		}
		if !p.Purchasable() {
			return schema.Party{}, fmt.Errorf("%w: party %s cannot be purchased from", shared.ErrValidation, partyID)
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

func buildLineItems(purchaseID string, reqs []LineItemRequest, materials map[string]schema.Material) ([]schema.PurchaseLineItem, float64, error) {
	items := make([]schema.PurchaseLineItem, 0, len(reqs))
	var subtotal float64
	for _, r := range reqs {
		mat, ok := materials[r.MaterialID]
		if !ok {
			return nil, 0, fmt.Errorf("%w: material %s", shared.ErrNotFound, r.MaterialID)
		}
		amount := r.Kg * r.Rate
		subtotal += amount
		items = append(items, schema.PurchaseLineItem{
			ID:           uuid.NewString(),
			PurchaseID:   purchaseID,
			MaterialID:   mat.ID,
			MaterialName: mat.Name,
			Bags:         r.Bags,
			Kg:           r.Kg,
			Rate:         r.Rate,
			Amount:       amount,
		})
	}
	return items, subtotal, nil
}

// nextPurchaseID continues the PUR-NNN sequence from the highest stored
// suffix.
func nextPurchaseID(existing []schema.PurchaseInvoice) string {
	max := 0
	for _, pur := range existing {
		suffix, ok := strings.CutPrefix(pur.ID, "PUR-")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(suffix); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("PUR-%03d", max+1)
}

// findPurchase scans raw rows so the returned index maps directly to a
// sheet row.
func findPurchase(rows [][]string, purchaseID string) (int, schema.PurchaseInvoice, error) {
	for i, row := range rows {
		if pur := schema.PurchaseRow(row); pur.ID == purchaseID {
			return i, pur, nil
		}
	}
	return 0, schema.PurchaseInvoice{}, fmt.Errorf("%w: purchase %s", shared.ErrNotFound, purchaseID)
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

func purchaseHeaderRow(h schema.PurchaseInvoice) []string {
	return []string{
		h.ID,
		h.BillNo,
		formatDate(h.Date),
		h.SupplierID,
		h.SupplierName,
		formatNum(h.Subtotal),
		formatNum(h.TaxAmount),
		formatNum(h.GrandTotal),
		h.Status,
		formatDate(h.PaymentDate),
		h.PaymentRef,
		h.PhotoURLs,
	}
}

func purchaseItemRows(items []schema.PurchaseLineItem) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.ID,
			item.PurchaseID,
			item.MaterialID,
			item.MaterialName,
			formatNum(item.Bags),
			formatNum(item.Kg),
			formatNum(item.Rate),
			formatNum(item.Amount),
		})
	}
	return rows
}
