package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/historyremover/internal/history"
	"github.com/runnerr0/historyremover/internal/messaging"
)

// Execute implements the go-flags Commander interface for DeleteCommand.
func (c *DeleteCommand) Execute(args []string) error {
	return withSession(c.globals, c.session, func(ctx context.Context, s *session) error {
		return c.run(ctx, s, args)
	})
}

func (c *DeleteCommand) run(ctx context.Context, s *session, args []string) error {
	urls := args
	if len(urls) == 0 {
		if !c.hasSelection() {
			return fmt.Errorf("delete needs URLs or at least one filter; use purge to delete everything")
		}
		records, err := c.query(ctx, s, c.Text)
		if err != nil {
			return err
		}
		urls = history.URLs(records)
	}

	if len(urls) == 0 {
		if wantJSON(c.globals) {
			return writeJSON(messaging.DeletionCounts{Errors: []messaging.DeletionError{}})
		}
		fmt.Println("Nothing matched. No history deleted.")
		return nil
	}

	if c.DryRun {
		return c.printDryRun(urls)
	}

	if !c.Force {
		prompt := fmt.Sprintf("Delete all visits to %s? [y/N]: ", plural(len(urls), "URL"))
		if err := confirm(c.stdin, prompt, "y", "Y", "yes"); err != nil {
			return err
		}
	}

	counts, err := s.client.DeleteURLs(ctx, urls)
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	if wantJSON(c.globals) {
		return writeJSON(counts)
	}

	fmt.Printf("Deleted %s", plural(counts.Deleted, "URL"))
	if counts.Failed > 0 {
		fmt.Printf(", %d failed", counts.Failed)
	}
	fmt.Println(".")
	for _, e := range counts.Errors {
		fmt.Printf("  %s: %s\n", e.URL, e.Error)
	}
	return nil
}

// hasSelection reports whether any flag narrows the history.
func (c *DeleteCommand) hasSelection() bool {
	f := c.FilterFlags
	return f.Text != "" || f.FiltersFile != "" || f.Domain != "" || f.Keyword != "" ||
		f.Regex != "" || f.Path != "" || len(f.Protocol) > 0 || f.Since != "" ||
		(f.Preset != "" && f.Preset != string(history.PresetAll))
}

func (c *DeleteCommand) printDryRun(urls []string) error {
	if wantJSON(c.globals) {
		return writeJSON(map[string]interface{}{
			"dry_run":      true,
			"would_delete": len(urls),
			"urls":         urls,
		})
	}

	fmt.Printf("Dry run: would delete %s\n", plural(len(urls), "URL"))
	for _, u := range urls {
		fmt.Printf("  %s\n", u)
	}
	return nil
}
