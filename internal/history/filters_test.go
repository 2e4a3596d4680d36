package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []Record {
	return []Record{
		{ID: "1", URL: "https://www.example.com/docs/Intro", Title: "Example Docs", LastVisitTime: 1000},
		{ID: "2", URL: "https://a.b.example.com/page", Title: "Deep Subdomain", LastVisitTime: 2000},
		{ID: "3", URL: "http://notexample.com/", Title: "Not Example", LastVisitTime: 3000},
		{ID: "4", URL: "ftp://files.example.org/pub", Title: "", LastVisitTime: 4000},
		{ID: "5", URL: "not a url", Title: "Broken", LastVisitTime: 5000},
	}
}

func ids(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

// --- Domain ---

func TestFilterByDomain_IncludeSubdomains(t *testing.T) {
	got := FilterByDomain(sampleRecords(), DomainFilter{Value: "example.com", IncludeSubdomains: Bool(true)})
	assert.Equal(t, []string{"1", "2"}, ids(got))

	got = FilterByDomain(sampleRecords(), DomainFilter{Value: "notexample.com", IncludeSubdomains: Bool(true)})
	assert.Equal(t, []string{"3"}, ids(got))
}

func TestFilterByDomain_SubdomainsDefaultOn(t *testing.T) {
	got := FilterByDomain(sampleRecords(), DomainFilter{Value: "EXAMPLE.com"})
	assert.Equal(t, []string{"1", "2"}, ids(got))
}

func TestFilterByDomain_ExactMatchRejectsSubdomain(t *testing.T) {
	records := []Record{
		{ID: "a", URL: "https://sub.example.com/"},
		{ID: "b", URL: "https://example.com/"},
		{ID: "c", URL: "https://www.example.com/"},
	}
	got := FilterByDomain(records, DomainFilter{Value: "www.example.com", ExactMatch: true, IncludeSubdomains: Bool(true)})
	assert.Equal(t, []string{"b", "c"}, ids(got))
}

func TestFilterByDomain_SubdomainsOff(t *testing.T) {
	got := FilterByDomain(sampleRecords(), DomainFilter{Value: "example.com", IncludeSubdomains: Bool(false)})
	assert.Equal(t, []string{"1"}, ids(got))
}

func TestFilterByDomain_UnparsableNeverMatches(t *testing.T) {
	records := []Record{{ID: "x", URL: "example.com/no-scheme"}}
	assert.Empty(t, FilterByDomain(records, DomainFilter{Value: "example.com"}))
}

// --- Keyword ---

func TestFilterByKeyword_CaseInsensitiveByDefault(t *testing.T) {
	records := []Record{{ID: "1", URL: "http://foo.test"}, {ID: "2", URL: "http://bar.test"}}
	got := FilterByKeyword(records, KeywordFilter{Value: "FOO"})
	assert.Equal(t, []string{"1"}, ids(got))
}

func TestFilterByKeyword_CaseSensitive(t *testing.T) {
	records := []Record{{ID: "1", URL: "http://foo.test"}, {ID: "2", URL: "http://FOO.test"}}
	got := FilterByKeyword(records, KeywordFilter{Value: "FOO", CaseSensitive: true})
	assert.Equal(t, []string{"2"}, ids(got))
}

func TestFilterByKeyword_SearchIn(t *testing.T) {
	records := []Record{
		{ID: "url", URL: "https://golang.org/", Title: "Home"},
		{ID: "title", URL: "https://a.test/", Title: "Learning Golang"},
	}

	tests := []struct {
		in       SearchIn
		expected []string
	}{
		{SearchURL, []string{"url"}},
		{SearchTitle, []string{"title"}},
		{SearchBoth, []string{"url", "title"}},
		{"", []string{"url", "title"}},
	}
	for _, tc := range tests {
		got := FilterByKeyword(records, KeywordFilter{Value: "golang", SearchIn: tc.in})
		assert.Equal(t, tc.expected, ids(got), "searchIn=%q", tc.in)
	}
}

// --- Regex ---

func TestFilterByRegex_DefaultsToURL(t *testing.T) {
	got, err := FilterByRegex(sampleRecords(), RegexFilter{Value: `^https://.*\.COM/`})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ids(got))
}

func TestFilterByRegex_CaseSensitive(t *testing.T) {
	got, err := FilterByRegex(sampleRecords(), RegexFilter{Value: `Intro$`, CaseSensitive: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids(got))

	got, err = FilterByRegex(sampleRecords(), RegexFilter{Value: `intro$`, CaseSensitive: true})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFilterByRegex_Title(t *testing.T) {
	got, err := FilterByRegex(sampleRecords(), RegexFilter{Value: `^not`, SearchIn: SearchTitle})
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, ids(got))
}

func TestFilterByRegex_InvalidPattern(t *testing.T) {
	got, err := FilterByRegex(sampleRecords(), RegexFilter{Value: "("})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid regex")
	assert.Nil(t, got)
}

// --- Date range ---

func TestFilterByDateRange_InclusiveBounds(t *testing.T) {
	got := FilterByDateRange(sampleRecords(), DateRange{StartTime: 2000, EndTime: 4000})
	assert.Equal(t, []string{"2", "3", "4"}, ids(got))
}

// --- Protocol ---

func TestFilterByProtocol(t *testing.T) {
	got := FilterByProtocol(sampleRecords(), []string{"HTTPS", "ftp:"})
	assert.Equal(t, []string{"1", "2", "4"}, ids(got))

	got = FilterByProtocol(sampleRecords(), []string{"http"})
	assert.Equal(t, []string{"3"}, ids(got))
}

// --- Path ---

func TestFilterByPath_Substring(t *testing.T) {
	got, err := FilterByPath(sampleRecords(), PathFilter{Value: "/DOCS"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids(got))

	got, err = FilterByPath(sampleRecords(), PathFilter{Value: "/DOCS", CaseSensitive: true})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFilterByPath_RootPath(t *testing.T) {
	records := []Record{{ID: "root", URL: "https://example.com"}}
	got, err := FilterByPath(records, PathFilter{Value: "^/$", UseRegex: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"root"}, ids(got))
}

func TestFilterByPath_Regex(t *testing.T) {
	got, err := FilterByPath(sampleRecords(), PathFilter{Value: `^/(pub|page)$`, UseRegex: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "4"}, ids(got))
}

func TestFilterByPath_InvalidRegexIsAnError(t *testing.T) {
	got, err := FilterByPath(sampleRecords(), PathFilter{Value: "[", UseRegex: true})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid path regex")
	assert.Nil(t, got)
}

// --- Bookmarks ---

func TestExcludeBookmarked_ExactMatchOnly(t *testing.T) {
	records := []Record{
		{ID: "exact", URL: "https://example.com/page"},
		{ID: "slash", URL: "https://example.com/page/"},
		{ID: "other", URL: "https://other.test/"},
	}
	got := ExcludeBookmarked(records, []string{"https://example.com/page"})
	assert.Equal(t, []string{"slash", "other"}, ids(got))
}

func TestFiltersDoNotMutateInput(t *testing.T) {
	records := sampleRecords()
	before := sampleRecords()

	_ = FilterByDomain(records, DomainFilter{Value: "example.com"})
	_ = FilterByKeyword(records, KeywordFilter{Value: "x"})
	_, _ = FilterByRegex(records, RegexFilter{Value: "x"})
	_ = ExcludeBookmarked(records, []string{records[0].URL})

	assert.Equal(t, before, records)
}

func TestValidatePattern(t *testing.T) {
	assert.NoError(t, ValidatePattern(`^https?://`))
	assert.Error(t, ValidatePattern(`(`))
}
