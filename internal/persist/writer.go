package persist

import (
	"context"
	"sync"
	"time"

	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// Writer executes persist commands. Stores emit a Command per mutation and
// hand it here; the writer decides whether the write blocks the caller.
type Writer interface {
	Write(ctx context.Context, cmd Command)
}

// BackgroundWriter runs each write on its own goroutine with a bounded
// timeout. Failures are logged at debug level and otherwise swallowed;
// callers never see them. Last write wins per key.
type BackgroundWriter struct {
	gateway Gateway
	timeout time.Duration
	logger  *zap.Logger
	wg      sync.WaitGroup
}

// NewBackgroundWriter creates the production writer.
func NewBackgroundWriter(gateway Gateway, timeout time.Duration) *BackgroundWriter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &BackgroundWriter{
		gateway: gateway,
		timeout: timeout,
		logger:  util.GetLogger(),
	}
}

// Write fires the command without blocking the mutation path.
func (w *BackgroundWriter) Write(_ context.Context, cmd Command) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		defer cancel()

		util.PersistWritesTotal.WithLabelValues(cmd.Key).Inc()
		if err := w.gateway.Set(ctx, cmd.Key, cmd.Value); err != nil {
			util.PersistFailuresTotal.WithLabelValues(cmd.Key).Inc()
			w.logger.Debug("persist write failed",
				zap.String("key", cmd.Key),
				zap.Error(err))
		}
	}()
}

// Flush blocks until all in-flight writes have completed. Used on shutdown.
func (w *BackgroundWriter) Flush() {
	w.wg.Wait()
}

// SyncWriter performs writes inline. Tests use it so a mutation's persisted
// snapshot is observable immediately after the call returns.
type SyncWriter struct {
	gateway Gateway
}

// NewSyncWriter creates a synchronous writer over a gateway.
func NewSyncWriter(gateway Gateway) *SyncWriter {
	return &SyncWriter{gateway: gateway}
}

// Write persists the command before returning. Errors are still swallowed;
// the best-effort contract has no failure feedback path.
func (w *SyncWriter) Write(ctx context.Context, cmd Command) {
	_ = w.gateway.Set(ctx, cmd.Key, cmd.Value)
}
