package background

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/runnerr0/historyremover/internal/messaging"
	"github.com/runnerr0/historyremover/internal/metrics"
)

// ErrNoURLs is returned for a deletion request without URLs.
var ErrNoURLs = errors.New("No URLs provided") //nolint:stylecheck

// URLDeleter deletes every visit to one URL.
type URLDeleter interface {
	DeleteURL(ctx context.Context, url string) error
}

// DeletionResult aggregates the per-URL outcomes of a bulk delete. Errors
// are in completion order.
type DeletionResult struct {
	Success bool
	Deleted int
	Failed  int
	Errors  []messaging.DeletionError
}

// Executor deletes URLs in fixed-size batches. All deletions of a batch run
// concurrently; the next batch starts only once the previous one settled.
type Executor struct {
	store     URLDeleter
	batchSize int
	logger    *slog.Logger
	metrics   metrics.Recorder
}

// NewExecutor creates an Executor issuing at most batchSize concurrent
// deletions against store. A non-positive batchSize uses the default of 50.
func NewExecutor(store URLDeleter, batchSize int, logger *slog.Logger, rec metrics.Recorder) *Executor {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Executor{store: store, batchSize: batchSize, logger: logger, metrics: rec}
}

// Delete removes every URL in urls. A failure is recorded against its URL
// and never stops the remaining deletions. Once started, the run is not
// cancelled by ctx.
func (e *Executor) Delete(ctx context.Context, urls []string) (*DeletionResult, error) {
	if len(urls) == 0 {
		return nil, ErrNoURLs
	}

	ctx = context.WithoutCancel(ctx)
	result := &DeletionResult{Success: true, Errors: []messaging.DeletionError{}}
	var mu sync.Mutex

	for start := 0; start < len(urls); start += e.batchSize {
		end := min(start+e.batchSize, len(urls))
		batch := urls[start:end]
		began := time.Now()

		var g errgroup.Group
		for _, u := range batch {
			u := u
			g.Go(func() error {
				err := e.store.DeleteURL(ctx, u)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					result.Failed++
					result.Errors = append(result.Errors, messaging.DeletionError{URL: u, Error: err.Error()})
					return nil
				}
				result.Deleted++
				return nil
			})
		}
		_ = g.Wait()

		e.metrics.RecordBatch(len(batch))
		e.logger.Debug("deletion batch complete",
			slog.Int("batch_start", start),
			slog.Int("batch_size", len(batch)),
			slog.Duration("duration", time.Since(began)),
		)
	}

	e.metrics.RecordDeletions(result.Deleted, result.Failed)
	e.logger.Info("deleted urls",
		slog.Int("requested", len(urls)),
		slog.Int("deleted", result.Deleted),
		slog.Int("failed", result.Failed),
	)

	return result, nil
}

func (r *Router) deleteURLs(ctx context.Context, req messaging.Request) messaging.Response {
	result, err := r.executor.Delete(ctx, req.URLs)
	if err != nil {
		return messaging.Fail(err)
	}
	return messaging.Response{
		Success: result.Success,
		DeletionCounts: &messaging.DeletionCounts{
			Deleted: result.Deleted,
			Failed:  result.Failed,
			Errors:  result.Errors,
		},
	}
}

func (r *Router) deleteByTimeRange(ctx context.Context, req messaging.Request) messaging.Response {
	if req.StartTime == nil || req.EndTime == nil {
		return messaging.Fail(errors.New("startTime and endTime are required"))
	}

	if err := r.history.DeleteRange(ctx, *req.StartTime, *req.EndTime); err != nil {
		return messaging.Fail(fmt.Errorf("delete range: %w", err))
	}

	r.logger.Info("deleted time range",
		slog.Int64("start_time", *req.StartTime),
		slog.Int64("end_time", *req.EndTime),
	)
	return messaging.Response{Success: true}
}
