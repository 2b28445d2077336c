package retention

import (
	"context"
	"log/slog"
	"time"

	"github.com/riverqueue/river"
)

// PurgeScansArgs is the periodic job that drops stale anonymous scan
// counters. The counters are only consulted for the current UTC day, so
// anything older than the retention window is dead weight.
type PurgeScansArgs struct{}

func (PurgeScansArgs) Kind() string { return "purge_anonymous_scans" }

// ScanStore deletes counters older than a cutoff date (YYYY-MM-DD).
type ScanStore interface {
	PurgeBefore(ctx context.Context, date string) (int64, error)
}

type PurgeScansWorker struct {
	river.WorkerDefaults[PurgeScansArgs]
	store         ScanStore
	retentionDays int
	log           *slog.Logger
	now           func() time.Time
}

func NewPurgeScansWorker(store ScanStore, retentionDays int, log *slog.Logger) *PurgeScansWorker {
	if log == nil {
		log = slog.Default()
	}
	return &PurgeScansWorker{store: store, retentionDays: retentionDays, log: log, now: time.Now}
}

func (w *PurgeScansWorker) Work(ctx context.Context, _ *river.Job[PurgeScansArgs]) error {
	cutoff := w.now().UTC().AddDate(0, 0, -w.retentionDays).Format("2006-01-02")
	n, err := w.store.PurgeBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	w.log.Info("purged anonymous scan counters", "cutoff", cutoff, "deleted", n)
	return nil
}
