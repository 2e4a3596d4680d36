package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/runnerr0/historyremover/internal/background"
	"github.com/runnerr0/historyremover/internal/config"
	"github.com/runnerr0/historyremover/internal/logger"
	"github.com/runnerr0/historyremover/internal/messaging"
	"github.com/runnerr0/historyremover/internal/storage"
)

// errNeedsLocalDB is returned by commands that write the database directly.
var errNeedsLocalDB = errors.New("this command needs the local database and cannot run with --daemon")

// session is everything a command needs to talk to the history router,
// either in-process or through a running daemon.
type session struct {
	cfg    *config.Config
	log    *slog.Logger
	client *messaging.Client
	store  *storage.SQLiteStore // nil when talking to a daemon
	dbPath string
	now    func() time.Time
}

func (s *session) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

// loadConfig reads --config if given, else the default config file.
func loadConfig(g *GlobalFlags) (*config.Config, error) {
	if g != nil && g.Config != "" {
		path, err := config.ExpandPath(g.Config)
		if err != nil {
			return nil, err
		}
		return config.LoadOrCreateAt(path)
	}
	return config.LoadOrCreate()
}

func newLogger(g *GlobalFlags, cfg *config.Config) (*slog.Logger, error) {
	level := cfg.Logging.Level
	if g != nil && g.Verbose {
		level = "debug"
	}
	return logger.New(os.Stderr, level, cfg.Logging.Format)
}

// newRouter builds the in-process router over store.
func newRouter(cfg *config.Config, store *storage.SQLiteStore, log *slog.Logger) *background.Router {
	return background.NewRouter(background.Deps{
		History:          store,
		Bookmarks:        store,
		Settings:         store,
		Logger:           log,
		BatchSize:        cfg.Deletion.BatchSize,
		MaxBookmarkDepth: cfg.Bookmarks.MaxDepth,
	})
}

// openSession loads config and connects either to the daemon (--daemon) or
// to the local database through an in-process router.
func openSession(ctx context.Context, g *GlobalFlags) (*session, error) {
	cfg, err := loadConfig(g)
	if err != nil {
		return nil, err
	}
	log, err := newLogger(g, cfg)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, log: log, now: time.Now}

	if g != nil && g.Daemon {
		s.client = messaging.NewClient(messaging.NewHTTP(cfg.Daemon.BaseURL(), cfg.Daemon.AuthToken))
		return s, nil
	}

	s.dbPath, err = cfg.DBPath()
	if err != nil {
		return nil, err
	}
	s.store, err = storage.Open(ctx, s.dbPath)
	if err != nil {
		return nil, err
	}

	router := newRouter(cfg, s.store, log)
	if err := router.Install(ctx); err != nil {
		s.store.Close()
		return nil, err
	}
	s.client = messaging.NewClient(messaging.NewLocal(router))
	return s, nil
}

// withSession runs fn with the injected session, or with a freshly opened
// one that is closed afterwards.
func withSession(g *GlobalFlags, injected *session, fn func(ctx context.Context, s *session) error) error {
	ctx := context.Background()
	if injected != nil {
		return fn(ctx, injected)
	}

	s, err := openSession(ctx, g)
	if err != nil {
		return err
	}
	defer s.Close()

	return fn(ctx, s)
}

func wantJSON(g *GlobalFlags) bool {
	return g != nil && g.JSON
}

func writeJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// confirm prints prompt and fails unless the next line of in is one of accept.
func confirm(in io.Reader, prompt string, accept ...string) error {
	if in == nil {
		in = os.Stdin
	}
	fmt.Print(prompt)

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return fmt.Errorf("aborted: no input received")
	}
	input := strings.TrimSpace(scanner.Text())
	for _, a := range accept {
		if input == a {
			return nil
		}
	}
	return fmt.Errorf("aborted: confirmation text did not match")
}

// parseDuration parses a human-friendly duration string like "30d", "7d", "24h", "2w".
func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("invalid duration: empty string")
	}

	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration: %q", s)
	}

	suffix := s[len(s)-1]
	numStr := s[:len(s)-1]

	n, err := strconv.Atoi(numStr)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid duration: %q", s)
	}

	switch suffix {
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'w':
		return time.Duration(n) * 7 * 24 * time.Hour, nil
	case 'm':
		return time.Duration(n) * time.Minute, nil
	default:
		return 0, fmt.Errorf("invalid duration: %q (use d, h, w, or m suffix)", s)
	}
}

// formatDurationHuman formats a duration into a human-readable string like "30 days".
func formatDurationHuman(d time.Duration) string {
	days := int(d.Hours() / 24)
	if days > 0 {
		if days == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", days)
	}
	hours := int(d.Hours())
	if hours > 0 {
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	return d.String()
}

// formatTime renders an epoch-millisecond timestamp in local time.
func formatTime(ms int64) string {
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04")
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
