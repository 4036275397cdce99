package services

import (
	"context"
	"log/slog"
	"sync"

	"conferencehub/internal/domain"
)

// SyncWorker drains an in-process queue of conference IDs and runs the
// reconciliation engine for each. It serves the asynchronous trigger path
// (conference created with a source already configured). Failed runs are
// logged and not retried; retry policy belongs to the caller.
type SyncWorker struct {
	syncService domain.SynchronizationService
	logger      *slog.Logger
	requests    chan string
	wg          sync.WaitGroup
}

// NewSyncWorker creates a worker with the given queue capacity.
func NewSyncWorker(syncService domain.SynchronizationService, logger *slog.Logger, buffer int) *SyncWorker {
	if buffer <= 0 {
		buffer = 16
	}
	return &SyncWorker{
		syncService: syncService,
		logger:      logger,
		requests:    make(chan string, buffer),
	}
}

// Enqueue requests an asynchronous run. When the queue is full the request is
// dropped with a warning rather than blocking the caller.
func (w *SyncWorker) Enqueue(conferenceID string) {
	select {
	case w.requests <- conferenceID:
	default:
		w.logger.Warn("sync queue full, dropping request", "conference_id", conferenceID)
	}
}

// Start launches the worker goroutine. It drains requests until ctx is done.
func (w *SyncWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case conferenceID := <-w.requests:
				report, err := w.syncService.Synchronize(ctx, conferenceID)
				if err != nil {
					w.logger.Error("synchronization failed", "conference_id", conferenceID, "err", err)
					continue
				}
				if report.Skipped {
					w.logger.Info("synchronization skipped", "conference_id", conferenceID)
				}
			}
		}
	}()
}

// Wait blocks until the worker goroutine has exited.
func (w *SyncWorker) Wait() {
	w.wg.Wait()
}
