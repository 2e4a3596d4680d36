package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/runnerr0/historyremover/internal/history"
	"github.com/runnerr0/historyremover/internal/messaging"
)

// Execute implements the go-flags Commander interface for PruneCommand.
func (c *PruneCommand) Execute(args []string) error {
	return withSession(c.globals, c.session, func(ctx context.Context, s *session) error {
		return c.run(ctx, s)
	})
}

// pruneRange resolves the range to delete and a description of it.
func (c *PruneCommand) pruneRange(now time.Time) (history.DateRange, string, error) {
	switch {
	case c.OlderThan != "" && c.Preset != "":
		return history.DateRange{}, "", fmt.Errorf("--older-than and --preset are mutually exclusive")
	case c.OlderThan != "":
		d, err := parseDuration(c.OlderThan)
		if err != nil {
			return history.DateRange{}, "", fmt.Errorf("invalid --older-than value %q: %w", c.OlderThan, err)
		}
		return history.DateRange{StartTime: 0, EndTime: now.Add(-d).UnixMilli()},
			"older than " + formatDurationHuman(d), nil
	case c.Preset != "":
		p, err := history.ParsePreset(c.Preset)
		if err != nil {
			return history.DateRange{}, "", err
		}
		return history.TimeRangeFromPreset(p, now), "in " + string(p), nil
	default:
		return history.DateRange{}, "", fmt.Errorf("prune requires --older-than or --preset")
	}
}

func (c *PruneCommand) run(ctx context.Context, s *session) error {
	dr, desc, err := c.pruneRange(s.now())
	if err != nil {
		return err
	}

	if c.DryRun {
		limit := history.DefaultMaxResults
		records, err := s.client.SearchHistory(ctx, &messaging.SearchParams{
			StartTime:  &dr.StartTime,
			EndTime:    &dr.EndTime,
			MaxResults: &limit,
		})
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		if wantJSON(c.globals) {
			return writeJSON(map[string]interface{}{
				"dry_run":     true,
				"would_prune": len(records),
				"start_time":  dr.StartTime,
				"end_time":    dr.EndTime,
			})
		}
		fmt.Printf("Dry run: would prune %s %s\n", plural(len(records), "URL"), desc)
		return nil
	}

	if err := s.client.DeleteByTimeRange(ctx, dr.StartTime, dr.EndTime); err != nil {
		return fmt.Errorf("prune failed: %w", err)
	}

	if wantJSON(c.globals) {
		return writeJSON(map[string]interface{}{
			"pruned":     true,
			"start_time": dr.StartTime,
			"end_time":   dr.EndTime,
		})
	}
	fmt.Printf("Pruned history %s.\n", desc)
	return nil
}
