package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/historyremover/internal/history"
)

// Execute implements the go-flags Commander interface for SettingsCommand.
func (c *SettingsCommand) Execute(args []string) error {
	return withSession(c.globals, c.session, func(ctx context.Context, s *session) error {
		return c.run(ctx, s)
	})
}

func (c *SettingsCommand) changed() bool {
	return c.Reset || c.MaxResults != 0 || c.CaseSensitive != "" || c.IncludeSubdomains != "" ||
		c.ExcludeBookmarked != "" || c.DefaultTimeRange != ""
}

// apply overlays the flags that were given on current.
func (c *SettingsCommand) apply(current history.Settings) history.Settings {
	out := current
	if c.Reset {
		out = history.DefaultSettings()
	}
	if c.MaxResults != 0 {
		out.MaxResults = c.MaxResults
	}
	if c.CaseSensitive != "" {
		out.CaseSensitive = c.CaseSensitive == "on"
	}
	if c.IncludeSubdomains != "" {
		out.IncludeSubdomains = c.IncludeSubdomains == "on"
	}
	if c.ExcludeBookmarked != "" {
		out.ExcludeBookmarked = c.ExcludeBookmarked == "on"
	}
	if c.DefaultTimeRange != "" {
		out.DefaultTimeRange = history.Preset(c.DefaultTimeRange)
	}
	return out
}

func (c *SettingsCommand) run(ctx context.Context, s *session) error {
	settings, err := s.client.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("get settings: %w", err)
	}

	if c.changed() {
		settings = c.apply(settings)
		if err := settings.Validate(); err != nil {
			return fmt.Errorf("invalid settings: %w", err)
		}
		if err := s.client.SaveSettings(ctx, settings); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
	}

	if wantJSON(c.globals) {
		return writeJSON(settings)
	}

	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	fmt.Println("Settings")
	fmt.Println("========")
	fmt.Printf("Max results:         %d\n", settings.MaxResults)
	fmt.Printf("Case sensitive:      %s\n", onOff(settings.CaseSensitive))
	fmt.Printf("Include subdomains:  %s\n", onOff(settings.IncludeSubdomains))
	fmt.Printf("Exclude bookmarked:  %s\n", onOff(settings.ExcludeBookmarked))
	fmt.Printf("Default time range:  %s\n", settings.DefaultTimeRange)
	return nil
}
