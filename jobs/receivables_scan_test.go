package jobs

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	rows [][]string
}

func (f *fakeSource) FetchRows(context.Context, string) ([][]string, error) {
	return f.rows, nil
}

type fakeNotifier struct {
	kinds    []string
	messages []string
}

func (f *fakeNotifier) Record(_ context.Context, kind, msg string) {
	f.kinds = append(f.kinds, kind)
	f.messages = append(f.messages, msg)
}

func scanNow() time.Time {
	return time.Date(2026, time.August, 25, 2, 0, 0, 0, time.UTC)
}

func scanTask(t *testing.T, payload ReceivablesScanPayload) *asynq.Task {
	t.Helper()
	task, err := NewReceivablesScanTask(payload)
	require.NoError(t, err)
	return task
}

func TestReceivablesScanRecordsAlert(t *testing.T) {
	source := &fakeSource{rows: [][]string{
		{"INV-001", "", "2026-06-01", "", "PTY-001", "Sharma Traders", "10000", "900", "900", "0", "11800", "", "Pending", "", "", ""},
		{"INV-002", "", "2026-07-10", "", "PTY-002", "Verma & Sons", "5000", "450", "450", "0", "5900", "", "Pending", "", "", ""},
		{"INV-003", "", "2026-08-20", "", "PTY-001", "Sharma Traders", "2000", "180", "180", "0", "2360", "", "Pending", "", "", ""},
		{"INV-004", "", "2026-05-01", "", "PTY-001", "Sharma Traders", "3000", "270", "270", "0", "3540", "", "Confirmed", "TXN1", "2026-05-10", ""},
	}}
	notifier := &fakeNotifier{}
	job := NewReceivablesScanJob(source, notifier, slog.Default(), scanNow)

	err := job.Handle(context.Background(), scanTask(t, ReceivablesScanPayload{}))
	require.NoError(t, err)

	require.Equal(t, []string{"receivables_overdue"}, notifier.kinds)
	// INV-001 (85 days) and INV-002 (46 days) qualify; INV-003 is fresh and
	// INV-004 is confirmed. The oldest leads the message.
	require.Contains(t, notifier.messages[0], "2 invoices overdue")
	require.Contains(t, notifier.messages[0], "INV-001")
}

func TestReceivablesScanQuietWhenClean(t *testing.T) {
	source := &fakeSource{rows: [][]string{
		{"INV-001", "", "2026-08-20", "", "PTY-001", "Sharma Traders", "10000", "900", "900", "0", "11800", "", "Pending", "", "", ""},
	}}
	notifier := &fakeNotifier{}
	job := NewReceivablesScanJob(source, notifier, slog.Default(), scanNow)

	err := job.Handle(context.Background(), scanTask(t, ReceivablesScanPayload{}))
	require.NoError(t, err)
	require.Empty(t, notifier.kinds)
}

func TestReceivablesScanCustomThreshold(t *testing.T) {
	source := &fakeSource{rows: [][]string{
		{"INV-001", "", "2026-06-01", "", "PTY-001", "Sharma Traders", "10000", "900", "900", "0", "11800", "", "Pending", "", "", ""},
		{"INV-002", "", "2026-07-10", "", "PTY-002", "Verma & Sons", "5000", "450", "450", "0", "5900", "", "Pending", "", "", ""},
	}}
	notifier := &fakeNotifier{}
	job := NewReceivablesScanJob(source, notifier, slog.Default(), scanNow)

	err := job.Handle(context.Background(), scanTask(t, ReceivablesScanPayload{ThresholdDays: 60}))
	require.NoError(t, err)
	require.Contains(t, notifier.messages[0], "1 invoices overdue")
}

func TestReceivablesScanSkipsBadPayload(t *testing.T) {
	job := NewReceivablesScanJob(&fakeSource{}, &fakeNotifier{}, slog.Default(), scanNow)

	err := job.Handle(context.Background(), asynq.NewTask(TaskReceivablesScan, []byte("{broken")))
	require.ErrorIs(t, err, asynq.SkipRetry)
}
