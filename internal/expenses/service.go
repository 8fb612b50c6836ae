// Package expenses records operational costs. Expense rows stand alone:
// they reference no material or party and only ever feed the P&L expense
// total. The table is append-only.
package expenses

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/karobar-books/karobar/internal/platform/cache"
	"github.com/karobar-books/karobar/internal/schema"
	"github.com/karobar-books/karobar/internal/shared"
)

// Categories is the closed set of accepted expense categories.
var Categories = []string{
	"Transport / Freight",
	"Labour / Loading",
	"Office Supplies",
	"Telephone / Internet",
	"Vehicle Fuel",
	"Rent",
	"Electricity Bill",
	"Municipal Tax",
	"SICOF Tax",
	"Bank Charges",
	"Other",
}

// CreateExpenseRequest is the payload for recording an expense.
type CreateExpenseRequest struct {
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	Category    string  `json:"category" validate:"required"`
	Amount      float64 `json:"amount" validate:"gt=0"`
	Description string  `json:"description"`
	PaymentMode string  `json:"payment_mode"`
}

// RowStore is the slice of the tabular store expenses need.
type RowStore interface {
	FetchRows(ctx context.Context, readRange string) ([][]string, error)
	AppendRows(ctx context.Context, tableRange string, rows [][]string) error
}

// Service implements the expense workflows.
type Service struct {
	store    RowStore
	logger   *slog.Logger
	cache    *cache.Cache
	validate *validator.Validate
}

// NewService builds Service.
func NewService(store RowStore, logger *slog.Logger, viewCache *cache.Cache) *Service {
	return &Service{store: store, logger: logger, cache: viewCache, validate: validator.New()}
}

// ListExpenses returns every expense, newest first. Undated rows sort last.
func (s *Service) ListExpenses(ctx context.Context) ([]schema.Expense, error) {
	rows, err := s.store.FetchRows(ctx, schema.RangeExpenses)
	if err != nil {
		return nil, fmt.Errorf("fetch expenses: %w", err)
	}
	expenses := schema.Expenses(rows)
	sort.SliceStable(expenses, func(i, j int) bool {
		di, dj := expenses[i].Date, expenses[j].Date
		if dj.IsZero() {
			return !di.IsZero()
		}
		if di.IsZero() {
			return false
		}
		return di.After(dj)
	})
	return expenses, nil
}

// CreateExpense appends one expense row. The category must belong to the
// closed enumeration.
func (s *Service) CreateExpense(ctx context.Context, req CreateExpenseRequest) (schema.Expense, error) {
	if err := s.validate.Struct(req); err != nil {
		return schema.Expense{}, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	if !validCategory(req.Category) {
		return schema.Expense{}, fmt.Errorf("%w: unknown category %q", shared.ErrValidation, req.Category)
	}

	rows, err := s.store.FetchRows(ctx, schema.RangeExpenses)
	if err != nil {
		return schema.Expense{}, fmt.Errorf("fetch expenses: %w", err)
	}
	date, _ := time.Parse("2006-01-02", req.Date)
	expense := schema.Expense{
		ID:          nextExpenseID(schema.Expenses(rows)),
		Date:        date,
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
		PaymentMode: req.PaymentMode,
	}

	row := []string{
		expense.ID,
		req.Date,
		expense.Category,
		strconv.FormatFloat(expense.Amount, 'f', -1, 64),
		expense.Description,
		expense.PaymentMode,
	}
	if err := s.store.AppendRows(ctx, schema.AppendExpenses, [][]string{row}); err != nil {
		return schema.Expense{}, fmt.Errorf("append expense: %w", err)
	}

	if err := s.cache.Bump(ctx); err != nil && s.logger != nil {
		s.logger.Warn("cache bump failed", slog.Any("error", err))
	}
	return expense, nil
}

func validCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// nextExpenseID continues the EXP-NNN sequence from the highest stored
// suffix.
func nextExpenseID(existing []schema.Expense) string {
	max := 0
	for _, exp := range existing {
		suffix, ok := strings.CutPrefix(exp.ID, "EXP-")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(suffix); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("EXP-%03d", max+1)
}
