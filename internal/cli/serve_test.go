package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/historyremover/internal/config"
	"github.com/runnerr0/historyremover/internal/history"
	"github.com/runnerr0/historyremover/internal/logger"
	"github.com/runnerr0/historyremover/internal/messaging"
	"github.com/runnerr0/historyremover/internal/storage"
)

func newTestDaemon(t *testing.T, token string) (*httptest.Server, *storage.SQLiteStore) {
	t.Helper()
	ctx := context.Background()

	store, err := storage.Open(ctx, storage.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := config.DefaultConfig()
	cfg.Daemon.AuthToken = token

	c := &ServeCommand{version: "test"}
	h, err := c.handler(ctx, cfg, store, logger.Discard())
	require.NoError(t, err)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv, store
}

func TestServe_OverrideFlags(t *testing.T) {
	cfg := config.DefaultConfig()
	c := &ServeCommand{Host: "0.0.0.0", Port: 9999, LogLevel: "debug"}
	c.override(cfg)

	assert.Equal(t, "0.0.0.0:9999", cfg.Daemon.Addr())
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestServe_Status(t *testing.T) {
	srv, _ := newTestDaemon(t, "")

	running, version := checkDaemon(srv.URL)
	assert.True(t, running)
	assert.Equal(t, "test", version)
}

func TestServe_InstallsDefaultSettings(t *testing.T) {
	srv, store := newTestDaemon(t, "")

	raw, ok, err := store.Get(context.Background(), "settings")
	require.NoError(t, err)
	require.True(t, ok)

	var saved history.Settings
	require.NoError(t, json.Unmarshal(raw, &saved))
	assert.Equal(t, history.DefaultSettings(), saved)

	client := messaging.NewClient(messaging.NewHTTP(srv.URL, ""))
	got, err := client.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, history.DefaultSettings(), got)
}

func TestServe_RemoteRoundTrip(t *testing.T) {
	srv, store := newTestDaemon(t, "s3cret")
	ctx := context.Background()

	require.NoError(t, store.AddVisit(ctx, &storage.Visit{URL: "https://example.com/a", Title: "A"}))
	require.NoError(t, store.AddVisit(ctx, &storage.Visit{URL: "https://example.com/b", Title: "B"}))

	client := messaging.NewClient(messaging.NewHTTP(srv.URL, "s3cret"))

	records, err := client.SearchHistory(ctx, &messaging.SearchParams{Text: "example"})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	counts, err := client.DeleteURLs(ctx, []string{"https://example.com/a"})
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Deleted)
	assert.Equal(t, 0, counts.Failed)

	records, err = client.SearchHistory(ctx, &messaging.SearchParams{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "https://example.com/b", records[0].URL)

	_, err = messaging.NewClient(messaging.NewHTTP(srv.URL, "wrong")).GetSettings(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestServe_Metrics(t *testing.T) {
	srv, _ := newTestDaemon(t, "")

	client := messaging.NewClient(messaging.NewHTTP(srv.URL, ""))
	_, err := client.GetBookmarkedURLs(context.Background())
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "historyremover_requests_total")
	assert.Contains(t, string(body), `action="getBookmarks"`)
	assert.Contains(t, string(body), "go_goroutines")
}
