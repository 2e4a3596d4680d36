package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/runnerr0/historyremover/internal/history"
)

// Execute implements the go-flags Commander interface for SearchCommand.
func (c *SearchCommand) Execute(args []string) error {
	return withSession(c.globals, c.session, func(ctx context.Context, s *session) error {
		return c.run(ctx, s, args)
	})
}

func (c *SearchCommand) run(ctx context.Context, s *session, args []string) error {
	text := c.Text
	if text == "" && len(args) > 0 {
		text = strings.Join(args, " ")
	}

	results, err := c.query(ctx, s, text)
	if err != nil {
		return err
	}

	if wantJSON(c.globals) {
		return writeJSON(jsonSearchOutput{Count: len(results), Query: text, Results: results})
	}
	return c.printHuman(text, results)
}

type jsonSearchOutput struct {
	Count   int              `json:"count"`
	Query   string           `json:"query"`
	Results []history.Record `json:"results"`
}

func (c *SearchCommand) printHuman(query string, results []history.Record) error {
	if len(results) == 0 {
		if query != "" {
			fmt.Printf("No results found for %q\n", query)
		} else {
			fmt.Println("No results found")
		}
		return nil
	}

	if query != "" {
		fmt.Printf("Found %s for %q\n\n", plural(len(results), "result"), query)
	} else {
		fmt.Printf("Found %s\n\n", plural(len(results), "result"))
	}

	for i, r := range results {
		title := r.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("%d. %s", i+1, title)
		if d := history.ExtractDomain(r.URL); d != "" {
			fmt.Printf(" - %s", d)
		}
		fmt.Println()

		fmt.Printf("   %s\n", r.URL)
		fmt.Printf("   %s | %s", formatTime(r.LastVisitTime), plural(r.VisitCount, "visit"))
		if r.TypedCount > 0 {
			fmt.Printf(" | %d typed", r.TypedCount)
		}
		fmt.Println()

		if i < len(results)-1 {
			fmt.Println()
		}
	}

	return nil
}
