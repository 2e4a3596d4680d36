package history

// Record is a single visited-URL entry as returned by the history store.
type Record struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	Title         string `json:"title"`
	LastVisitTime int64  `json:"lastVisitTime"` // epoch milliseconds
	VisitCount    int    `json:"visitCount"`
	TypedCount    int    `json:"typedCount"`
}

// SearchIn selects which record fields a text or pattern filter inspects.
type SearchIn string

const (
	SearchURL   SearchIn = "url"
	SearchTitle SearchIn = "title"
	SearchBoth  SearchIn = "both"
)

// DomainFilter matches records by hostname.
type DomainFilter struct {
	Value string `json:"value" yaml:"value"`
	// IncludeSubdomains defaults to true when nil.
	IncludeSubdomains *bool `json:"includeSubdomains,omitempty" yaml:"include_subdomains,omitempty"`
	ExactMatch        bool  `json:"exactMatch,omitempty" yaml:"exact_match,omitempty"`
}

// KeywordFilter matches records containing a substring. SearchIn defaults to both.
type KeywordFilter struct {
	Value         string   `json:"value" yaml:"value"`
	CaseSensitive bool     `json:"caseSensitive,omitempty" yaml:"case_sensitive,omitempty"`
	SearchIn      SearchIn `json:"searchIn,omitempty" yaml:"search_in,omitempty"`
}

// RegexFilter matches records against a pattern. SearchIn defaults to url.
type RegexFilter struct {
	Value         string   `json:"value" yaml:"value"`
	CaseSensitive bool     `json:"caseSensitive,omitempty" yaml:"case_sensitive,omitempty"`
	SearchIn      SearchIn `json:"searchIn,omitempty" yaml:"search_in,omitempty"`
}

// DateRange bounds LastVisitTime, inclusive on both ends.
type DateRange struct {
	StartTime int64 `json:"startTime" yaml:"start_time"`
	EndTime   int64 `json:"endTime" yaml:"end_time"`
}

// PathFilter matches the path component of a record's URL.
type PathFilter struct {
	Value         string `json:"value" yaml:"value"`
	CaseSensitive bool   `json:"caseSensitive,omitempty" yaml:"case_sensitive,omitempty"`
	UseRegex      bool   `json:"useRegex,omitempty" yaml:"use_regex,omitempty"`
}

// Filters is a declarative filter configuration. Every dimension is optional;
// an absent dimension leaves the candidate set untouched.
type Filters struct {
	Domain    *DomainFilter  `json:"domain,omitempty" yaml:"domain,omitempty"`
	Keyword   *KeywordFilter `json:"keyword,omitempty" yaml:"keyword,omitempty"`
	Regex     *RegexFilter   `json:"regex,omitempty" yaml:"regex,omitempty"`
	DateRange *DateRange     `json:"dateRange,omitempty" yaml:"date_range,omitempty"`
	Protocols []string       `json:"protocols,omitempty" yaml:"protocols,omitempty"`
	Path      *PathFilter    `json:"path,omitempty" yaml:"path,omitempty"`

	ExcludeBookmarked bool `json:"excludeBookmarked,omitempty" yaml:"exclude_bookmarked,omitempty"`
	// BookmarkedURLs must be supplied by the caller when ExcludeBookmarked is set.
	BookmarkedURLs []string `json:"bookmarkedUrls,omitempty" yaml:"-"`
}

// Bool returns a pointer to b, for optional fields such as IncludeSubdomains.
func Bool(b bool) *bool {
	return &b
}
