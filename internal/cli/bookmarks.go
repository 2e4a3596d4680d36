package cli

import (
	"context"
	"fmt"
)

// Execute implements the go-flags Commander interface for BookmarksCommand.
func (c *BookmarksCommand) Execute(args []string) error {
	return withSession(c.globals, c.session, func(ctx context.Context, s *session) error {
		urls, err := s.client.GetBookmarkedURLs(ctx)
		if err != nil {
			return fmt.Errorf("get bookmarks: %w", err)
		}

		if wantJSON(c.globals) {
			return writeJSON(map[string]interface{}{
				"count": len(urls),
				"urls":  urls,
			})
		}

		if len(urls) == 0 {
			fmt.Println("No bookmarks.")
			return nil
		}
		fmt.Printf("%s\n\n", plural(len(urls), "bookmark"))
		for _, u := range urls {
			fmt.Println(u)
		}
		return nil
	})
}
