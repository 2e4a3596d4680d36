package cli

import (
	"context"
	"fmt"
	"net/url"

	"github.com/runnerr0/historyremover/internal/storage"
)

// Execute implements the go-flags Commander interface for AddCommand.
func (c *AddCommand) Execute(args []string) error {
	if c.URL == "" {
		return fmt.Errorf("--url is required for add command")
	}

	return withSession(c.globals, c.session, func(ctx context.Context, s *session) error {
		return c.run(ctx, s)
	})
}

func (c *AddCommand) run(ctx context.Context, s *session) error {
	if s.store == nil {
		return errNeedsLocalDB
	}

	// Validate URL format
	parsed, err := url.Parse(c.URL)
	if err != nil || parsed.Scheme == "" {
		return fmt.Errorf("invalid URL: %s", c.URL)
	}
	if c.Visits < 0 || c.Typed < 0 {
		return fmt.Errorf("--visits and --typed must not be negative")
	}

	visited := s.now()
	if c.Ago != "" {
		d, err := parseDuration(c.Ago)
		if err != nil {
			return fmt.Errorf("invalid --ago value %q: %w", c.Ago, err)
		}
		visited = visited.Add(-d)
	}

	v := &storage.Visit{
		URL:           c.URL,
		Title:         c.Title,
		LastVisitTime: visited.UnixMilli(),
		VisitCount:    c.Visits,
		TypedCount:    c.Typed,
	}
	if err := s.store.AddVisit(ctx, v); err != nil {
		return fmt.Errorf("storing visit: %w", err)
	}

	var bookmarkID int64
	if c.Bookmark {
		parent := storage.BookmarksBarID
		if c.Folder == "other" {
			parent = storage.OtherBookmarksID
		}
		bookmarkID, err = s.store.AddBookmark(ctx, parent, c.Title, c.URL)
		if err != nil {
			return fmt.Errorf("storing bookmark: %w", err)
		}
	}

	s.log.Debug("recorded visit", "id", v.ID, "url", v.URL, "bookmarked", c.Bookmark)

	if wantJSON(c.globals) {
		out := map[string]interface{}{
			"id":            v.ID,
			"url":           v.URL,
			"title":         c.Title,
			"lastVisitTime": v.LastVisitTime,
			"visitCount":    v.VisitCount,
			"typedCount":    v.TypedCount,
			"bookmarked":    c.Bookmark,
		}
		if c.Bookmark {
			out["bookmarkId"] = bookmarkID
		}
		return writeJSON(out)
	}

	fmt.Printf("Recorded visit %s (%s)\n", v.ID, formatTime(v.LastVisitTime))
	fmt.Printf("  URL: %s\n", v.URL)
	fmt.Printf("  Title: %s\n", c.Title)
	fmt.Printf("  Visits: %d (typed %d)\n", v.VisitCount, v.TypedCount)
	if c.Bookmark {
		fmt.Printf("  Bookmark: %d\n", bookmarkID)
	}
	return nil
}
