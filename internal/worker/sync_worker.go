// Package worker syncs recorded exports to the external ledger.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vendite/internal/amqp"
	"vendite/internal/ledger"
	"vendite/internal/storage"
)

// Repository is the subset of the storage layer the worker needs.
type Repository interface {
	GetExport(ctx context.Context, id int64) (storage.ExportRecord, error)
	PendingExports(ctx context.Context, limit int) ([]storage.ExportRecord, error)
	MarkExportSynced(ctx context.Context, id int64) error
	MarkExportSyncError(ctx context.Context, id int64) error
}

// SyncWorker moves pending export records into the ledger, either on
// demand when an event arrives or periodically as a catch-up sweep.
type SyncWorker struct {
	repo      Repository
	writer    ledger.Writer
	batchSize int
}

func NewSyncWorker(repo Repository, writer ledger.Writer, batchSize int) *SyncWorker {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &SyncWorker{repo: repo, writer: writer, batchSize: batchSize}
}

// HandleExportSync processes a single export-sync event.
func (w *SyncWorker) HandleExportSync(ctx context.Context, msg *amqp.ExportSyncMessage) error {
	rec, err := w.repo.GetExport(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("load export %d: %w", msg.ID, err)
	}

	if rec.SyncStatus == storage.SyncDone {
		slog.InfoContext(ctx, "Export already synced, skipping", "id", rec.ID)
		return nil
	}

	return w.syncOne(ctx, rec)
}

// ProcessPendingExports sweeps records that never got an event, for
// example when the broker was down at export time.
func (w *SyncWorker) ProcessPendingExports(ctx context.Context) error {
	pending, err := w.repo.PendingExports(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending exports: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending exports", "count", len(pending))
	for _, rec := range pending {
		if err := w.syncOne(ctx, rec); err != nil {
			slog.ErrorContext(ctx, "Failed to sync export", "id", rec.ID, "error", err)
		}
	}
	return nil
}

// Run sweeps pending exports on a fixed interval until ctx is done.
func (w *SyncWorker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.ProcessPendingExports(ctx); err != nil {
				slog.ErrorContext(ctx, "Pending export sweep failed", "error", err)
			}
		}
	}
}

func (w *SyncWorker) syncOne(ctx context.Context, rec storage.ExportRecord) error {
	line := ledger.Line{
		Date:     rec.CreatedAt,
		Client:   rec.Client,
		Filename: rec.Filename,
		Rows:     rec.RowCount,
		Total:    rec.Total(),
	}

	if err := w.writer.Append(ctx, line); err != nil {
		if markErr := w.repo.MarkExportSyncError(ctx, rec.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export sync error", "id", rec.ID, "error", markErr)
		}
		return fmt.Errorf("append export %d to ledger: %w", rec.ID, err)
	}

	if err := w.repo.MarkExportSynced(ctx, rec.ID); err != nil {
		return fmt.Errorf("mark export %d synced: %w", rec.ID, err)
	}

	slog.InfoContext(ctx, "Export synced to ledger", "id", rec.ID, "client", rec.Client)
	return nil
}
