// Package background is the privileged side of historyremover: it owns the
// history, bookmark and settings stores and answers typed requests from
// untrusted callers.
package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/runnerr0/historyremover/internal/logger"
	"github.com/runnerr0/historyremover/internal/messaging"
	"github.com/runnerr0/historyremover/internal/metrics"
	"github.com/runnerr0/historyremover/internal/storage"
)

// HistoryStore is the history database the router queries and mutates.
type HistoryStore interface {
	Search(ctx context.Context, q storage.Query) ([]storage.Visit, error)
	DeleteURL(ctx context.Context, url string) error
	DeleteRange(ctx context.Context, start, end int64) error
}

// BookmarkStore exposes the user's bookmark tree.
type BookmarkStore interface {
	GetTree(ctx context.Context) ([]storage.BookmarkNode, error)
}

// SettingsStore is a key/value persistence collaborator.
type SettingsStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

const (
	defaultBatchSize        = 50
	defaultMaxBookmarkDepth = 64
)

// Deps are the collaborators injected into a Router. Only the three stores
// are required.
type Deps struct {
	History   HistoryStore
	Bookmarks BookmarkStore
	Settings  SettingsStore

	Logger           *slog.Logger
	Metrics          metrics.Recorder
	BatchSize        int
	MaxBookmarkDepth int
	Now              func() time.Time
}

type handlerFunc func(ctx context.Context, req messaging.Request) messaging.Response

// Router dispatches requests to a fixed set of handlers. It keeps no state
// between requests beyond its injected dependencies.
type Router struct {
	history   HistoryStore
	bookmarks BookmarkStore
	settings  SettingsStore
	executor  *Executor

	logger   *slog.Logger
	metrics  metrics.Recorder
	maxDepth int
	now      func() time.Time

	handlers map[messaging.Action]handlerFunc
}

// NewRouter creates a Router over d, filling unset optional fields with
// defaults.
func NewRouter(d Deps) *Router {
	if d.Logger == nil {
		d.Logger = logger.Discard()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.Nop{}
	}
	if d.BatchSize <= 0 {
		d.BatchSize = defaultBatchSize
	}
	if d.MaxBookmarkDepth <= 0 {
		d.MaxBookmarkDepth = defaultMaxBookmarkDepth
	}
	if d.Now == nil {
		d.Now = time.Now
	}

	r := &Router{
		history:   d.History,
		bookmarks: d.Bookmarks,
		settings:  d.Settings,
		executor:  NewExecutor(d.History, d.BatchSize, d.Logger, d.Metrics),
		logger:    d.Logger,
		metrics:   d.Metrics,
		maxDepth:  d.MaxBookmarkDepth,
		now:       d.Now,
	}

	r.handlers = map[messaging.Action]handlerFunc{
		messaging.ActionSearchHistory:     r.searchHistory,
		messaging.ActionDeleteURLs:        r.deleteURLs,
		messaging.ActionDeleteByTimeRange: r.deleteByTimeRange,
		messaging.ActionGetBookmarks:      r.getBookmarks,
		messaging.ActionGetSettings:       r.getSettings,
		messaging.ActionSaveSettings:      r.saveSettings,
	}

	return r
}

// UnknownActionError is returned by Handle for an action outside the fixed
// set. It is the only failure Handle reports as an error rather than as a
// failed Response.
type UnknownActionError struct {
	Action string
}

func (e *UnknownActionError) Error() string {
	return "Unknown action: " + e.Action
}

// Handle runs the handler for req.Action.
func (r *Router) Handle(ctx context.Context, req messaging.Request) (messaging.Response, error) {
	h, ok := r.handlers[req.Action]
	if !ok {
		r.logger.Warn("unknown action", slog.String("action", string(req.Action)), slog.String("request_id", req.ID))
		return messaging.Response{}, &UnknownActionError{Action: string(req.Action)}
	}

	start := time.Now()
	resp := h(ctx, req)
	elapsed := time.Since(start)

	r.metrics.RecordRequest(string(req.Action), resp.Success, elapsed)

	attrs := []any{
		slog.String("action", string(req.Action)),
		slog.String("request_id", req.ID),
		slog.Bool("success", resp.Success),
		slog.Duration("duration", elapsed),
	}
	if !resp.Success {
		r.logger.Warn("request failed", append(attrs, slog.String("error", resp.Error))...)
	} else {
		r.logger.Debug("request handled", attrs...)
	}

	return resp, nil
}
