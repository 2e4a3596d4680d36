package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// SQLiteStore keeps browsing history, bookmarks and key/value settings in a
// SQLite database.
type SQLiteStore struct {
	db *sql.DB

	// Prepared statements
	upsertVisit  *sql.Stmt
	deleteURL    *sql.Stmt
	deleteRange  *sql.Stmt
	getConfig    *sql.Stmt
	setConfig    *sql.Stmt
	insertAudit  *sql.Stmt
	listBookmark *sql.Stmt
}

// Open opens (creating if needed) the database at path, applies migrations
// and returns a ready store. The store owns the *sql.DB.
func Open(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn := path
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	dsn += "?_foreign_keys=on&_busy_timeout=5000"

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == MemoryPath {
		// Every pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}

	if err := NewMigrationRunner(db).Run(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	s, err := NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLiteStore wraps an already-opened and migrated database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}

	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) prepareStatements() error {
	stmts := []struct {
		dst   **sql.Stmt
		query string
	}{
		{&s.upsertVisit, `
			INSERT INTO visits (id, url, title, domain, last_visit_time, visit_count, typed_count)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(url) DO UPDATE SET
				title           = CASE WHEN excluded.title != '' THEN excluded.title ELSE visits.title END,
				last_visit_time = MAX(visits.last_visit_time, excluded.last_visit_time),
				visit_count     = visits.visit_count + excluded.visit_count,
				typed_count     = visits.typed_count + excluded.typed_count,
				updated_at      = CURRENT_TIMESTAMP
			RETURNING id, visit_count, typed_count, last_visit_time`},
		{&s.deleteURL, `DELETE FROM visits WHERE url = ?`},
		{&s.deleteRange, `DELETE FROM visits WHERE last_visit_time >= ? AND last_visit_time <= ?`},
		{&s.getConfig, `SELECT value FROM config WHERE key = ?`},
		{&s.setConfig, `
			INSERT INTO config (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`},
		{&s.insertAudit, `INSERT INTO audit_log (action, detail) VALUES (?, ?)`},
		{&s.listBookmark, `SELECT id, parent_id, title, url FROM bookmarks ORDER BY parent_id, position, id`},
	}

	for _, st := range stmts {
		prepared, err := s.db.Prepare(st.query)
		if err != nil {
			return err
		}
		*st.dst = prepared
	}
	return nil
}

// DB exposes the underlying handle.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// extractDomain pulls the lower-cased hostname from a URL string.
func extractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// AddVisit records a visit to v.URL. A URL seen before has its counts added
// and its last visit time advanced; v is updated with the stored values.
func (s *SQLiteStore) AddVisit(ctx context.Context, v *Visit) error {
	if v.URL == "" {
		return errors.New("visit URL is required")
	}
	if v.LastVisitTime == 0 {
		v.LastVisitTime = time.Now().UnixMilli()
	}
	if v.VisitCount <= 0 {
		v.VisitCount = 1
	}
	v.Domain = extractDomain(v.URL)

	err := s.upsertVisit.QueryRowContext(ctx,
		uuid.NewString(), v.URL, v.Title, v.Domain,
		v.LastVisitTime, v.VisitCount, v.TypedCount,
	).Scan(&v.ID, &v.VisitCount, &v.TypedCount, &v.LastVisitTime)
	if err != nil {
		return fmt.Errorf("upsert visit: %w", err)
	}
	return nil
}

// Search returns visits matching q, most recent first. Both time bounds
// are used as given; a zero EndTime selects nothing after the epoch.
func (s *SQLiteStore) Search(ctx context.Context, q Query) ([]Visit, error) {
	if q.MaxResults <= 0 {
		q.MaxResults = 100
	}

	clauses := []string{"last_visit_time >= ?", "last_visit_time <= ?"}
	args := []interface{}{q.StartTime, q.EndTime}

	for _, word := range strings.Fields(q.Text) {
		pattern := "%" + escapeLike(word) + "%"
		clauses = append(clauses, `(url LIKE ? ESCAPE '\' OR title LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	query := `
		SELECT id, url, title, domain, last_visit_time, visit_count, typed_count, created_at, updated_at
		FROM visits
		WHERE ` + strings.Join(clauses, " AND ") + `
		ORDER BY last_visit_time DESC, id
		LIMIT ?`
	args = append(args, q.MaxResults)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query visits: %w", err)
	}
	defer rows.Close()

	visits := []Visit{}
	for rows.Next() {
		var v Visit
		var created, updated string
		if err := rows.Scan(
			&v.ID, &v.URL, &v.Title, &v.Domain, &v.LastVisitTime,
			&v.VisitCount, &v.TypedCount, &created, &updated,
		); err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		v.CreatedAt, _ = parseTimestamp(created)
		v.UpdatedAt, _ = parseTimestamp(updated)
		visits = append(visits, v)
	}

	return visits, rows.Err()
}

// escapeLike escapes LIKE wildcards so a search word matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// parseTimestamp tries the formats SQLite uses for DATETIME columns.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %s", s)
}

// DeleteURL removes every visit to rawURL. Deleting a URL that was never
// visited is not an error.
func (s *SQLiteStore) DeleteURL(ctx context.Context, rawURL string) error {
	res, err := s.deleteURL.ExecContext(ctx, rawURL)
	if err != nil {
		return fmt.Errorf("delete url: %w", err)
	}
	n, _ := res.RowsAffected()
	return s.audit(ctx, "delete_url", fmt.Sprintf("%s (%d)", rawURL, n))
}

// DeleteRange removes visits whose last visit falls within [start, end].
func (s *SQLiteStore) DeleteRange(ctx context.Context, start, end int64) error {
	if start > end {
		return fmt.Errorf("invalid range: start %d is after end %d", start, end)
	}
	res, err := s.deleteRange.ExecContext(ctx, start, end)
	if err != nil {
		return fmt.Errorf("delete range: %w", err)
	}
	n, _ := res.RowsAffected()
	return s.audit(ctx, "delete_range", fmt.Sprintf("%d-%d (%d)", start, end, n))
}

func (s *SQLiteStore) audit(ctx context.Context, action, detail string) error {
	if _, err := s.insertAudit.ExecContext(ctx, action, detail); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

// AddBookmark inserts a node under parentID and returns its ID. An empty
// rawURL creates a folder.
func (s *SQLiteStore) AddBookmark(ctx context.Context, parentID int64, title, rawURL string) (int64, error) {
	var u interface{}
	if rawURL != "" {
		u = rawURL
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO bookmarks (parent_id, title, url, position)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM bookmarks WHERE parent_id = ?))
	`, parentID, title, u, parentID)
	if err != nil {
		return 0, fmt.Errorf("insert bookmark: %w", err)
	}
	return res.LastInsertId()
}

// GetTree returns the bookmark forest rooted at the top-level folders.
func (s *SQLiteStore) GetTree(ctx context.Context) ([]BookmarkNode, error) {
	rows, err := s.listBookmark.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	type row struct {
		id     int64
		parent sql.NullInt64
		title  string
		url    sql.NullString
	}
	var all []row
	children := make(map[int64][]int)
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.parent, &r.title, &r.url); err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		all = append(all, r)
		if r.parent.Valid {
			children[r.parent.Int64] = append(children[r.parent.Int64], len(all)-1)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var build func(i int) BookmarkNode
	build = func(i int) BookmarkNode {
		r := all[i]
		n := BookmarkNode{ID: strconv.FormatInt(r.id, 10), Title: r.title, URL: r.url.String}
		for _, c := range children[r.id] {
			n.Children = append(n.Children, build(c))
		}
		return n
	}

	roots := []BookmarkNode{}
	for i, r := range all {
		if !r.parent.Valid {
			roots = append(roots, build(i))
		}
	}
	return roots, nil
}

// Get returns the raw value stored under key. The boolean is false when the
// key has never been set.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.getConfig.QueryRowContext(ctx, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get config %s: %w", key, err)
	}
	return []byte(value), true, nil
}

// Set stores value under key, replacing any previous value.
func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.setConfig.ExecContext(ctx, key, string(value)); err != nil {
		return fmt.Errorf("set config %s: %w", key, err)
	}
	return nil
}

// GetStats returns aggregate statistics about the database.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM visits").Scan(&stats.TotalVisits)
	if err != nil {
		return nil, fmt.Errorf("count visits: %w", err)
	}

	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bookmarks WHERE url IS NOT NULL").Scan(&stats.TotalBookmarks)
	if err != nil {
		return nil, fmt.Errorf("count bookmarks: %w", err)
	}

	if stats.TotalVisits > 0 {
		var oldest, newest int64
		err = s.db.QueryRowContext(ctx, "SELECT MIN(last_visit_time), MAX(last_visit_time) FROM visits").Scan(&oldest, &newest)
		if err != nil {
			return nil, fmt.Errorf("visit time range: %w", err)
		}
		stats.OldestVisit = time.UnixMilli(oldest)
		stats.NewestVisit = time.UnixMilli(newest)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT domain, COUNT(*) AS cnt FROM visits GROUP BY domain ORDER BY cnt DESC, domain LIMIT 10",
	)
	if err != nil {
		return nil, fmt.Errorf("top domains: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var dc DomainCount
		if err := rows.Scan(&dc.Domain, &dc.Count); err != nil {
			return nil, err
		}
		stats.TopDomains = append(stats.TopDomains, dc)
	}

	return stats, rows.Err()
}

// Close releases prepared statements and closes the database.
func (s *SQLiteStore) Close() error {
	stmts := []*sql.Stmt{
		s.upsertVisit, s.deleteURL, s.deleteRange, s.getConfig,
		s.setConfig, s.insertAudit, s.listBookmark,
	}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	return s.db.Close()
}
