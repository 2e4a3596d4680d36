package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/runnerr0/historyremover/internal/config"
	"github.com/runnerr0/historyremover/internal/logger"
	"github.com/runnerr0/historyremover/internal/messaging"
	"github.com/runnerr0/historyremover/internal/storage"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// newTestSession returns a session over a migrated in-memory database with
// default settings installed.
func newTestSession(t *testing.T) *session {
	t.Helper()
	ctx := context.Background()

	store, err := storage.Open(ctx, storage.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := config.DefaultConfig()
	log := logger.Discard()
	router := newRouter(cfg, store, log)
	require.NoError(t, router.Install(ctx))

	return &session{
		cfg:    cfg,
		log:    log,
		client: messaging.NewClient(messaging.NewLocal(router)),
		store:  store,
		dbPath: storage.MemoryPath,
		now:    func() time.Time { return testNow },
	}
}

type seedVisit struct {
	url, title string
	ago        time.Duration
	visits     int
}

func seedVisits(t *testing.T, s *session, visits []seedVisit) {
	t.Helper()
	ctx := context.Background()
	for _, v := range visits {
		require.NoError(t, s.store.AddVisit(ctx, &storage.Visit{
			URL:           v.url,
			Title:         v.title,
			LastVisitTime: testNow.Add(-v.ago).UnixMilli(),
			VisitCount:    v.visits,
		}))
	}
}

// defaultVisits is a small history spanning several domains and ages.
var defaultVisits = []seedVisit{
	{"https://github.com/golang/go", "Go Programming Language", 1 * time.Hour, 3},
	{"https://gist.github.com/someone/abc", "Snippet", 2 * time.Hour, 1},
	{"https://news.ycombinator.com/item?id=1", "Hacker News", 30 * time.Hour, 5},
	{"http://example.com/docs/Guide", "Example Guide", 3 * 24 * time.Hour, 1},
	{"https://www.example.com/blog/post", "Example Blog", 40 * 24 * time.Hour, 2},
}

// remainingURLs returns every URL still in the store, most recent first.
func remainingURLs(t *testing.T, s *session) []string {
	t.Helper()
	visits, err := s.store.Search(context.Background(), storage.Query{EndTime: time.Now().UnixMilli(), MaxResults: 1000})
	require.NoError(t, err)
	urls := make([]string, len(visits))
	for i, v := range visits {
		urls[i] = v.URL
	}
	return urls
}
