package cli

import (
	"context"
	"fmt"
)

// Execute implements the go-flags Commander interface for PurgeCommand.
func (c *PurgeCommand) Execute(args []string) error {
	if !c.All {
		return fmt.Errorf("purge requires --all flag for safety")
	}

	// Confirmation prompt unless --force
	if !c.Force {
		fmt.Println("\u26a0 WARNING: This will permanently delete ALL browsing history.")
		fmt.Println("  Bookmarks and settings are kept.")
		fmt.Println()
		fmt.Println("This action cannot be undone.")
		fmt.Println()
		if err := confirm(c.stdin, `Type "PURGE" to confirm: `, "PURGE"); err != nil {
			return err
		}
	}

	return withSession(c.globals, c.session, func(ctx context.Context, s *session) error {
		if err := s.client.DeleteByTimeRange(ctx, 0, s.now().UnixMilli()); err != nil {
			return fmt.Errorf("purge failed: %w", err)
		}

		if wantJSON(c.globals) {
			return writeJSON(map[string]interface{}{
				"purged":  true,
				"message": "all history deleted",
			})
		}

		fmt.Println("Purged all history.")
		return nil
	})
}
