package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

var sheetSyncMu sync.Mutex

// RunSheetSyncOnce runs one mirror pull. Safe to call from a timer and from
// the sync endpoint at the same time; the mutex keeps runs from overlapping.
func RunSheetSyncOnce(ctx context.Context, reconciler *SheetReconciler, logger *zap.Logger) (SyncReport, error) {
	sheetSyncMu.Lock()
	defer sheetSyncMu.Unlock()

	report, err := reconciler.PullUpdates(ctx)
	if err != nil {
		logger.Warn("Sheet sync run failed", zap.Error(err))
	}
	return report, err
}

// RunSheetSyncLoop runs a pull on startup and then on an interval, until the
// context is canceled. Runs outside the request path; large mirrors can take
// arbitrarily long.
func RunSheetSyncLoop(ctx context.Context, reconciler *SheetReconciler, interval time.Duration, logger *zap.Logger) {
	_, _ = RunSheetSyncOnce(ctx, reconciler, logger)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Sheet sync loop stopped")
			return
		case <-ticker.C:
			_, _ = RunSheetSyncOnce(ctx, reconciler, logger)
		}
	}
}
