package cli

import "io"

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
	Daemon  bool   `long:"daemon" description:"Send requests to a running daemon instead of opening the database"`
}

// FilterFlags select history entries. They are shared by search and delete.
type FilterFlags struct {
	Text              string   `long:"text" description:"Words that must all appear in the URL or title"`
	FiltersFile       string   `long:"filters-file" description:"YAML file with a filter configuration; flags override it"`
	Domain            string   `long:"domain" description:"Only URLs on this domain"`
	ExactDomain       bool     `long:"exact-domain" description:"Match --domain exactly"`
	NoSubdomains      bool     `long:"no-subdomains" description:"Do not match subdomains of --domain"`
	Keyword           string   `long:"keyword" description:"Substring that must appear"`
	KeywordIn         string   `long:"keyword-in" description:"Where to look for --keyword" choice:"url" choice:"title" choice:"both"`
	Regex             string   `long:"regex" description:"Regular expression that must match"`
	RegexIn           string   `long:"regex-in" description:"Where to match --regex" choice:"url" choice:"title" choice:"both"`
	Path              string   `long:"path" description:"Substring of the URL path"`
	PathRegex         bool     `long:"path-regex" description:"Treat --path as a regular expression"`
	Protocol          []string `long:"protocol" description:"Allowed URL scheme (repeatable, e.g. https)"`
	Since             string   `long:"since" description:"Only visits newer than duration (e.g., 7d, 24h, 2w)"`
	Preset            string   `long:"preset" description:"Time range preset" choice:"all" choice:"lastHour" choice:"last24Hours" choice:"last7Days" choice:"last30Days" choice:"today"`
	CaseSensitive     bool     `long:"case-sensitive" description:"Match keyword, regex and path case-sensitively"`
	ExcludeBookmarked bool     `long:"exclude-bookmarked" description:"Never select bookmarked URLs"`
	Limit             int      `long:"limit" description:"Maximum entries fetched from history (default from settings)"`
}

// StatusCommand shows database stats, config summary and daemon health.
type StatusCommand struct {
	globals *GlobalFlags
	version string
	session *session
}

// SearchCommand searches history and prints the filtered results.
type SearchCommand struct {
	FilterFlags

	globals *GlobalFlags
	session *session
}

// DeleteCommand deletes the URLs selected by filters or given as arguments.
type DeleteCommand struct {
	FilterFlags
	DryRun bool `long:"dry-run" description:"Show what would be deleted without deleting"`
	Force  bool `long:"force" description:"Skip confirmation prompt"`

	globals *GlobalFlags
	session *session
	stdin   io.Reader
}

// PruneCommand deletes a whole time range.
type PruneCommand struct {
	OlderThan string `long:"older-than" description:"Delete history older than duration (e.g., 30d)"`
	Preset    string `long:"preset" description:"Delete the range covered by a preset" choice:"lastHour" choice:"last24Hours" choice:"last7Days" choice:"last30Days" choice:"today"`
	DryRun    bool   `long:"dry-run" description:"Show what would be pruned without deleting"`

	globals *GlobalFlags
	session *session
}

// PurgeCommand deletes ALL history with safety confirmation.
type PurgeCommand struct {
	All   bool `long:"all" description:"Required flag to confirm purge intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	session *session
	stdin   io.Reader
}

// AddCommand records a visit in the local history database.
type AddCommand struct {
	URL      string `long:"url" description:"URL to record (required)"`
	Title    string `long:"title" description:"Page title"`
	Ago      string `long:"ago" description:"Record the visit this long ago (e.g., 3d)"`
	Visits   int    `long:"visits" description:"Number of visits to add" default:"1"`
	Typed    int    `long:"typed" description:"Number of typed visits to add"`
	Bookmark bool   `long:"bookmark" description:"Also bookmark the URL"`
	Folder   string `long:"folder" description:"Bookmark folder" choice:"bar" choice:"other" default:"bar"`

	globals *GlobalFlags
	session *session
}

// BookmarksCommand lists bookmarked URLs.
type BookmarksCommand struct {
	globals *GlobalFlags
	session *session
}

// SettingsCommand shows or updates the persisted settings.
type SettingsCommand struct {
	MaxResults        int    `long:"max-results" description:"Default maximum search results"`
	CaseSensitive     string `long:"case-sensitive" description:"Match case by default" choice:"on" choice:"off"`
	IncludeSubdomains string `long:"include-subdomains" description:"Match subdomains by default" choice:"on" choice:"off"`
	ExcludeBookmarked string `long:"exclude-bookmarked" description:"Exclude bookmarks by default" choice:"on" choice:"off"`
	DefaultTimeRange  string `long:"default-time-range" description:"Default time range preset" choice:"all" choice:"lastHour" choice:"last24Hours" choice:"last7Days" choice:"last30Days" choice:"today"`
	Reset             bool   `long:"reset" description:"Restore the default settings"`

	globals *GlobalFlags
	session *session
}

// ServeCommand starts the historyremover daemon (local HTTP service).
type ServeCommand struct {
	Host     string `long:"host" description:"Override daemon host"`
	Port     int    `long:"port" description:"Override daemon port"`
	LogLevel string `long:"log-level" description:"Override log level"`

	globals *GlobalFlags
	version string
}
