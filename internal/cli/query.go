package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/runnerr0/historyremover/internal/history"
	"github.com/runnerr0/historyremover/internal/messaging"
)

// loadFiltersFile reads a YAML filter configuration.
func loadFiltersFile(path string) (history.Filters, error) {
	var f history.Filters

	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("reading filters file: %w", err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parsing filters file: %w", err)
	}
	return f, nil
}

// timeRange resolves --since, --preset and the default preset from settings.
// The boolean is false when the whole history is selected.
func (f *FilterFlags) timeRange(s history.Settings, now time.Time) (history.DateRange, bool, error) {
	if f.Since != "" {
		d, err := parseDuration(f.Since)
		if err != nil {
			return history.DateRange{}, false, fmt.Errorf("invalid --since value %q: %w", f.Since, err)
		}
		return history.DateRange{StartTime: now.Add(-d).UnixMilli(), EndTime: now.UnixMilli()}, true, nil
	}

	preset := s.DefaultTimeRange
	if f.Preset != "" {
		p, err := history.ParsePreset(f.Preset)
		if err != nil {
			return history.DateRange{}, false, err
		}
		preset = p
	}
	if preset == "" || preset == history.PresetAll {
		return history.DateRange{}, false, nil
	}
	return history.TimeRangeFromPreset(preset, now), true, nil
}

// filters builds the filter configuration from the filters file, the flags
// and the user's settings, in increasing order of precedence for the flags.
func (f *FilterFlags) filters(s history.Settings) (history.Filters, error) {
	var out history.Filters
	if f.FiltersFile != "" {
		var err error
		if out, err = loadFiltersFile(f.FiltersFile); err != nil {
			return out, err
		}
	}

	caseSensitive := f.CaseSensitive || s.CaseSensitive

	if f.Domain != "" {
		out.Domain = &history.DomainFilter{
			Value:             f.Domain,
			IncludeSubdomains: history.Bool(s.IncludeSubdomains && !f.NoSubdomains),
			ExactMatch:        f.ExactDomain,
		}
	} else if out.Domain != nil && out.Domain.IncludeSubdomains == nil {
		out.Domain.IncludeSubdomains = history.Bool(s.IncludeSubdomains && !f.NoSubdomains)
	}
	if f.Keyword != "" {
		out.Keyword = &history.KeywordFilter{
			Value:         f.Keyword,
			CaseSensitive: caseSensitive,
			SearchIn:      history.SearchIn(f.KeywordIn),
		}
	}
	if f.Regex != "" {
		if err := history.ValidatePattern(f.Regex); err != nil {
			return out, fmt.Errorf("invalid regex: %w", err)
		}
		out.Regex = &history.RegexFilter{
			Value:         f.Regex,
			CaseSensitive: caseSensitive,
			SearchIn:      history.SearchIn(f.RegexIn),
		}
	}
	if len(f.Protocol) > 0 {
		out.Protocols = f.Protocol
	}
	if f.Path != "" {
		if f.PathRegex {
			if err := history.ValidatePattern(f.Path); err != nil {
				return out, fmt.Errorf("invalid path regex: %w", err)
			}
		}
		out.Path = &history.PathFilter{
			Value:         f.Path,
			CaseSensitive: caseSensitive,
			UseRegex:      f.PathRegex,
		}
	}
	out.ExcludeBookmarked = out.ExcludeBookmarked || f.ExcludeBookmarked || s.ExcludeBookmarked

	return out, nil
}

// query fetches history through the session's client and narrows it with
// the filters.
func (f *FilterFlags) query(ctx context.Context, sess *session, text string) ([]history.Record, error) {
	settings, err := sess.client.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	filters, err := f.filters(settings)
	if err != nil {
		return nil, err
	}

	params := &messaging.SearchParams{Text: text}
	if f.Limit > 0 {
		limit := f.Limit
		params.MaxResults = &limit
	}

	dr, bounded, err := f.timeRange(settings, sess.now())
	if err != nil {
		return nil, err
	}
	if bounded {
		params.StartTime = &dr.StartTime
		params.EndTime = &dr.EndTime
		filters.DateRange = &dr
	} else if filters.DateRange != nil {
		params.StartTime = &filters.DateRange.StartTime
		params.EndTime = &filters.DateRange.EndTime
	}

	records, err := sess.client.SearchHistory(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	if filters.ExcludeBookmarked {
		filters.BookmarkedURLs, err = sess.client.GetBookmarkedURLs(ctx)
		if err != nil {
			return nil, fmt.Errorf("get bookmarks: %w", err)
		}
	}

	sess.log.Debug("filtering history",
		"fetched", len(records),
		"exclude_bookmarked", filters.ExcludeBookmarked,
	)

	return history.Apply(records, filters)
}
