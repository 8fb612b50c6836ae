// Package notify appends advisory audit-trail rows to the Notifications
// table. Entries are write-only from the application's point of view: the
// derivation engine never reads them back, so recording is best-effort and
// a failed append only logs.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/karobar-books/karobar/internal/schema"
)

// RowStore is the slice of the tabular store notifications need.
type RowStore interface {
	FetchRows(ctx context.Context, readRange string) ([][]string, error)
	AppendRows(ctx context.Context, tableRange string, rows [][]string) error
}

// RecentWindowDays bounds the UI badge count.
const RecentWindowDays = 7

var inr = message.NewPrinter(language.MustParse("en-IN"))

// FormatINR renders an amount with Indian digit grouping, e.g.
// "₹1,23,456.00".
func FormatINR(amount float64) string {
	return inr.Sprintf("₹%.2f", amount)
}

// Service writes and counts notification rows.
type Service struct {
	store  RowStore
	logger *slog.Logger
	author string
	now    func() time.Time
}

// NewService builds Service. now is overridable for tests; nil means
// time.Now.
func NewService(store RowStore, logger *slog.Logger, author string, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	if author == "" {
		author = "system"
	}
	return &Service{store: store, logger: logger, author: author, now: now}
}

// Record appends one notification row. Failures are logged and swallowed;
// an audit note must never fail the workflow that produced it.
func (s *Service) Record(ctx context.Context, kind, msg string) {
	row := []string{s.now().Format(time.RFC3339), kind, msg, s.author}
	if err := s.store.AppendRows(ctx, schema.AppendNotifications, [][]string{row}); err != nil {
		if s.logger != nil {
			s.logger.Warn("notification append failed",
				slog.String("kind", kind), slog.Any("error", err))
		}
	}
}

// List returns all notification rows, newest first.
func (s *Service) List(ctx context.Context) ([]schema.Notification, error) {
	rows, err := s.store.FetchRows(ctx, schema.RangeNotifications)
	if err != nil {
		return nil, fmt.Errorf("fetch notifications: %w", err)
	}
	notifs := schema.Notifications(rows)
	for i, j := 0, len(notifs)-1; i < j; i, j = i+1, j-1 {
		notifs[i], notifs[j] = notifs[j], notifs[i]
	}
	return notifs, nil
}

// RecentCount counts notifications within the badge window.
func (s *Service) RecentCount(ctx context.Context) (int, error) {
	rows, err := s.store.FetchRows(ctx, schema.RangeNotifications)
	if err != nil {
		return 0, fmt.Errorf("fetch notifications: %w", err)
	}
	cutoff := s.now().AddDate(0, 0, -RecentWindowDays)
	count := 0
	for _, n := range schema.Notifications(rows) {
		if n.Timestamp.After(cutoff) {
			count++
		}
	}
	return count, nil
}
