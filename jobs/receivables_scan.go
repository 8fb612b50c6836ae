package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/karobar-books/karobar/internal/notify"
	"github.com/karobar-books/karobar/internal/receivables"
	"github.com/karobar-books/karobar/internal/schema"
)

// RowSource abstracts the tabular store for the scan's read side.
type RowSource interface {
	FetchRows(ctx context.Context, readRange string) ([][]string, error)
}

// Notifier records advisory audit-trail entries.
type Notifier interface {
	Record(ctx context.Context, kind, message string)
}

// ReceivablesScanJob sweeps the sales table for overdue invoices and leaves
// an alert on the notification trail. The sweep is advisory: the dashboard
// derives its own overdue view on every request.
type ReceivablesScanJob struct {
	source   RowSource
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewReceivablesScanJob builds the job. now is overridable for tests; nil
// means time.Now.
func NewReceivablesScanJob(source RowSource, notifier Notifier, logger *slog.Logger, now func() time.Time) *ReceivablesScanJob {
	if now == nil {
		now = time.Now
	}
	return &ReceivablesScanJob{source: source, notifier: notifier, logger: logger, now: now}
}

// Handle processes TaskReceivablesScan tasks.
func (j *ReceivablesScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload ReceivablesScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	rows, err := j.source.FetchRows(ctx, schema.RangeSales)
	if err != nil {
		return fmt.Errorf("fetch sales: %w", err)
	}

	overdue := receivables.Overdue(schema.Sales(rows), j.now())
	if payload.ThresholdDays > receivables.OverdueThresholdDays {
		filtered := overdue[:0]
		for _, inv := range overdue {
			if inv.DaysOverdue > payload.ThresholdDays {
				filtered = append(filtered, inv)
			}
		}
		overdue = filtered
	}

	j.logger.Info("receivables scan complete", slog.Int("overdue", len(overdue)))
	if len(overdue) == 0 {
		return nil
	}

	var total float64
	for _, inv := range overdue {
		total += inv.GrandTotal
	}
	j.notifier.Record(ctx, "receivables_overdue",
		fmt.Sprintf("%d invoices overdue, oldest %s (%d days), outstanding %s",
			len(overdue), overdue[0].InvoiceNo, overdue[0].DaysOverdue, notify.FormatINR(total)))
	return nil
}
