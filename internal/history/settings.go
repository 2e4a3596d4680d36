package history

import "fmt"

// DefaultMaxResults caps a search when neither the request nor the persisted
// settings provide a limit.
const DefaultMaxResults = 10000

// Settings are the user's persisted preferences. They are always read and
// written as a whole.
type Settings struct {
	MaxResults        int    `json:"maxResults"`
	CaseSensitive     bool   `json:"caseSensitive"`
	IncludeSubdomains bool   `json:"includeSubdomains"`
	ExcludeBookmarked bool   `json:"excludeBookmarked"`
	DefaultTimeRange  Preset `json:"defaultTimeRange"`
}

// DefaultSettings returns the settings written on first install.
func DefaultSettings() Settings {
	return Settings{
		MaxResults:        DefaultMaxResults,
		CaseSensitive:     false,
		IncludeSubdomains: true,
		ExcludeBookmarked: false,
		DefaultTimeRange:  PresetAll,
	}
}

// Validate checks every field of s.
func (s Settings) Validate() error {
	if s.MaxResults <= 0 {
		return fmt.Errorf("maxResults must be positive, got %d", s.MaxResults)
	}
	if !s.DefaultTimeRange.Valid() {
		return fmt.Errorf("unknown time range preset %q", s.DefaultTimeRange)
	}
	return nil
}
