package storage

import "database/sql"

// migrateV001 creates the initial schema: visits, bookmarks, key/value
// config and the audit log, plus the two root bookmark folders. Every
// statement uses IF NOT EXISTS for idempotency.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		// ── Tables ──────────────────────────────────────────────

		`CREATE TABLE IF NOT EXISTS visits (
			id              TEXT PRIMARY KEY,
			url             TEXT NOT NULL UNIQUE,
			title           TEXT NOT NULL DEFAULT '',
			domain          TEXT NOT NULL DEFAULT '',
			last_visit_time INTEGER NOT NULL DEFAULT 0,
			visit_count     INTEGER NOT NULL DEFAULT 0 CHECK (visit_count >= 0),
			typed_count     INTEGER NOT NULL DEFAULT 0 CHECK (typed_count >= 0),
			created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS bookmarks (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			parent_id  INTEGER REFERENCES bookmarks(id) ON DELETE CASCADE,
			title      TEXT NOT NULL DEFAULT '',
			url        TEXT,
			position   INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS config (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS audit_log (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			action TEXT NOT NULL,
			detail TEXT NOT NULL DEFAULT '',
			ts     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		// ── Indexes ────────────────────────────────────────────

		`CREATE INDEX IF NOT EXISTS idx_visits_last_visit ON visits(last_visit_time)`,
		`CREATE INDEX IF NOT EXISTS idx_visits_domain     ON visits(domain)`,
		`CREATE INDEX IF NOT EXISTS idx_bookmarks_parent  ON bookmarks(parent_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_bookmarks_url     ON bookmarks(url)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_log_ts      ON audit_log(ts)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_log_action  ON audit_log(action)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	return seedRootFolders(tx)
}

// seedRootFolders inserts the fixed top-level folders. Uses INSERT OR IGNORE
// so re-running is safe.
func seedRootFolders(tx *sql.Tx) error {
	roots := []struct {
		ID       int64
		Title    string
		Position int
	}{
		{BookmarksBarID, "Bookmarks Bar", 0},
		{OtherBookmarksID, "Other Bookmarks", 1},
	}

	const insertSQL = `INSERT OR IGNORE INTO bookmarks (id, parent_id, title, url, position) VALUES (?, NULL, ?, NULL, ?)`

	for _, r := range roots {
		if _, err := tx.Exec(insertSQL, r.ID, r.Title, r.Position); err != nil {
			return err
		}
	}

	return nil
}
