package storage

import "time"

// Visit is a row of the visits table: one URL with its aggregated visit
// metadata. Domain, CreatedAt and UpdatedAt are store-private bookkeeping.
type Visit struct {
	ID            string
	URL           string
	Title         string
	Domain        string
	LastVisitTime int64 // epoch milliseconds
	VisitCount    int
	TypedCount    int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Query selects visits the way a browser history search does: every word of
// Text must appear in the URL or title, and the last visit must fall within
// [StartTime, EndTime].
type Query struct {
	Text       string
	StartTime  int64
	EndTime    int64
	MaxResults int
}

// BookmarkNode is one node of the bookmark tree. Folders have no URL and may
// have children; bookmarks have a URL and no children.
type BookmarkNode struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	URL      string         `json:"url,omitempty"`
	Children []BookmarkNode `json:"children,omitempty"`
}

// IsFolder reports whether n is a folder.
func (n BookmarkNode) IsFolder() bool {
	return n.URL == ""
}

// Stats holds aggregate statistics about the history database.
type Stats struct {
	TotalVisits    int64
	TotalBookmarks int64
	OldestVisit    time.Time
	NewestVisit    time.Time
	TopDomains     []DomainCount
}

// DomainCount pairs a domain with its number of distinct URLs.
type DomainCount struct {
	Domain string
	Count  int64
}

// Root folder IDs seeded by the initial migration.
const (
	BookmarksBarID   int64 = 1
	OtherBookmarksID int64 = 2
)
