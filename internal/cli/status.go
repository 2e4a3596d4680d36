package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/runnerr0/historyremover/internal/storage"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version           string            `json:"version"`
	DatabasePath      string            `json:"database_path,omitempty"`
	DatabaseSizeBytes int64             `json:"database_size_bytes"`
	TotalVisits       int64             `json:"total_visits"`
	TotalBookmarks    int64             `json:"total_bookmarks"`
	OldestVisit       string            `json:"oldest_visit,omitempty"`
	NewestVisit       string            `json:"newest_visit,omitempty"`
	BatchSize         int               `json:"batch_size"`
	TopDomains        []domainCountJSON `json:"top_domains"`
	DaemonAddr        string            `json:"daemon_addr"`
	DaemonRunning     bool              `json:"daemon_running"`
	DaemonVersion     string            `json:"daemon_version,omitempty"`
}

type domainCountJSON struct {
	Domain string `json:"domain"`
	Count  int64  `json:"count"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	return withSession(c.globals, c.session, func(ctx context.Context, s *session) error {
		return c.run(ctx, s)
	})
}

func (c *StatusCommand) run(ctx context.Context, s *session) error {
	stats := &storage.Stats{}
	var dbSize int64
	if s.store != nil {
		var err error
		stats, err = s.store.GetStats(ctx)
		if err != nil {
			return fmt.Errorf("get stats: %w", err)
		}
		dbSize = getDatabaseSize(ctx, s.store, s.dbPath)
	}

	running, daemonVersion := checkDaemon(s.cfg.Daemon.BaseURL())

	out := statusJSON{
		Version:           c.version,
		DatabasePath:      s.dbPath,
		DatabaseSizeBytes: dbSize,
		TotalVisits:       stats.TotalVisits,
		TotalBookmarks:    stats.TotalBookmarks,
		BatchSize:         s.cfg.Deletion.BatchSize,
		TopDomains:        make([]domainCountJSON, len(stats.TopDomains)),
		DaemonAddr:        s.cfg.Daemon.Addr(),
		DaemonRunning:     running,
		DaemonVersion:     daemonVersion,
	}
	if stats.TotalVisits > 0 {
		out.OldestVisit = stats.OldestVisit.UTC().Format(time.RFC3339)
		out.NewestVisit = stats.NewestVisit.UTC().Format(time.RFC3339)
	}
	for i, d := range stats.TopDomains {
		out.TopDomains[i] = domainCountJSON{Domain: d.Domain, Count: d.Count}
	}

	if wantJSON(c.globals) {
		return writeJSON(out)
	}
	c.printHuman(out, stats)
	return nil
}

func (c *StatusCommand) printHuman(out statusJSON, stats *storage.Stats) {
	fmt.Println("historyremover Status")
	fmt.Println("=====================")
	fmt.Printf("Version:       %s\n", out.Version)
	if out.DatabasePath != "" {
		fmt.Printf("Database:      %s (%s)\n", out.DatabasePath, formatBytes(out.DatabaseSizeBytes))
		fmt.Printf("Visits:        %s\n", formatNumber(out.TotalVisits))
		fmt.Printf("Bookmarks:     %s\n", formatNumber(out.TotalBookmarks))

		if stats.TotalVisits > 0 {
			fmt.Printf("Oldest:        %s\n", stats.OldestVisit.Local().Format("2006-01-02"))
			fmt.Printf("Newest:        %s\n", stats.NewestVisit.Local().Format("2006-01-02"))
		}
	}
	fmt.Printf("Batch size:    %d\n", out.BatchSize)

	if len(out.TopDomains) > 0 {
		fmt.Println()
		fmt.Println("Top Domains:")
		for _, d := range out.TopDomains {
			fmt.Printf("  %-20s %s\n", d.Domain, formatNumber(d.Count))
		}
	}

	fmt.Println()
	if out.DaemonRunning {
		fmt.Printf("Daemon:        running on %s (%s)\n", out.DaemonAddr, out.DaemonVersion)
	} else {
		fmt.Printf("Daemon:        not running (%s)\n", out.DaemonAddr)
	}
}

// getDatabaseSize returns the database file size in bytes.
// For on-disk databases, it uses os.Stat. For in-memory databases,
// it queries page_count * page_size.
func getDatabaseSize(ctx context.Context, store *storage.SQLiteStore, dbPath string) int64 {
	if dbPath != "" && dbPath != storage.MemoryPath {
		if info, err := os.Stat(dbPath); err == nil {
			return info.Size()
		}
	}

	var pageCount, pageSize int64
	if err := store.DB().QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err != nil {
		return 0
	}
	if err := store.DB().QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err != nil {
		return 0
	}
	return pageCount * pageSize
}

// checkDaemon attempts an HTTP GET to the daemon's status endpoint.
// Returns true and the daemon's version if it responds within 1 second.
func checkDaemon(baseURL string) (bool, string) {
	client := &http.Client{Timeout: 1 * time.Second}
	resp, err := client.Get(strings.TrimRight(baseURL, "/") + "/status")
	if err != nil {
		return false, ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, ""
	}

	var body struct {
		Version string `json:"version"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return true, body.Version
}

// formatBytes formats a byte count into a human-readable string.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatNumber formats an int64 with comma separators.
func formatNumber(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
		if len(s) > remainder {
			result.WriteString(",")
		}
	}
	for i := remainder; i < len(s); i += 3 {
		if i > remainder {
			result.WriteString(",")
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}
