package background

import (
	"context"
	"fmt"

	"github.com/runnerr0/historyremover/internal/messaging"
	"github.com/runnerr0/historyremover/internal/storage"
)

// CollectURLs walks the bookmark forest depth-first and returns every
// bookmark URL once, in first-seen order. Nesting deeper than maxDepth is
// an error.
func CollectURLs(nodes []storage.BookmarkNode, maxDepth int) ([]string, error) {
	seen := make(map[string]struct{})
	urls := []string{}

	var walk func(nodes []storage.BookmarkNode, depth int) error
	walk = func(nodes []storage.BookmarkNode, depth int) error {
		if depth > maxDepth {
			return fmt.Errorf("bookmark tree deeper than %d levels", maxDepth)
		}
		for _, n := range nodes {
			if n.URL != "" {
				if _, dup := seen[n.URL]; !dup {
					seen[n.URL] = struct{}{}
					urls = append(urls, n.URL)
				}
			}
			if len(n.Children) > 0 {
				if err := walk(n.Children, depth+1); err != nil {
					return err
				}
			}
		}
		return nil
	}

	if err := walk(nodes, 1); err != nil {
		return nil, err
	}
	return urls, nil
}

func (r *Router) getBookmarks(ctx context.Context, _ messaging.Request) messaging.Response {
	tree, err := r.bookmarks.GetTree(ctx)
	if err != nil {
		return messaging.Fail(fmt.Errorf("get bookmark tree: %w", err))
	}

	urls, err := CollectURLs(tree, r.maxDepth)
	if err != nil {
		return messaging.Fail(err)
	}

	resp, err := messaging.OK(urls)
	if err != nil {
		return messaging.Fail(err)
	}
	return resp
}
