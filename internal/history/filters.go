package history

import (
	"fmt"
	"regexp"
	"strings"
)

// FilterByDomain keeps records whose hostname matches f.Value. A leading
// "www." is ignored on both sides and comparison is case-insensitive.
func FilterByDomain(records []Record, f DomainFilter) []Record {
	target := normalizeDomain(f.Value)
	includeSubdomains := f.IncludeSubdomains == nil || *f.IncludeSubdomains

	return keep(records, func(r Record) bool {
		host := ExtractDomain(r.URL)
		if host == "" {
			return false
		}
		host = normalizeDomain(host)

		if f.ExactMatch || !includeSubdomains {
			return host == target
		}
		return host == target || strings.HasSuffix(host, "."+target)
	})
}

// FilterByKeyword keeps records whose URL and/or title contain f.Value.
func FilterByKeyword(records []Record, f KeywordFilter) []Record {
	term := f.Value
	if !f.CaseSensitive {
		term = strings.ToLower(term)
	}
	contains := func(s string) bool {
		if !f.CaseSensitive {
			s = strings.ToLower(s)
		}
		return strings.Contains(s, term)
	}

	return keep(records, func(r Record) bool {
		switch f.SearchIn {
		case SearchURL:
			return contains(r.URL)
		case SearchTitle:
			return contains(r.Title)
		default:
			return contains(r.URL) || contains(r.Title)
		}
	})
}

// FilterByRegex keeps records matching the f.Value pattern. An invalid
// pattern is reported as an error and no records are returned.
func FilterByRegex(records []Record, f RegexFilter) ([]Record, error) {
	re, err := compilePattern(f.Value, f.CaseSensitive)
	if err != nil {
		return nil, fmt.Errorf("invalid regex: %w", err)
	}

	return keep(records, func(r Record) bool {
		switch f.SearchIn {
		case SearchTitle:
			return re.MatchString(r.Title)
		case SearchBoth:
			return re.MatchString(r.URL) || re.MatchString(r.Title)
		default:
			return re.MatchString(r.URL)
		}
	}), nil
}

// FilterByDateRange keeps records visited within [start, end].
func FilterByDateRange(records []Record, d DateRange) []Record {
	return keep(records, func(r Record) bool {
		return r.LastVisitTime >= d.StartTime && r.LastVisitTime <= d.EndTime
	})
}

// FilterByProtocol keeps records whose scheme is one of protocols.
func FilterByProtocol(records []Record, protocols []string) []Record {
	allowed := make(map[string]struct{}, len(protocols))
	for _, p := range protocols {
		allowed[strings.ToLower(strings.TrimSuffix(p, ":"))] = struct{}{}
	}

	return keep(records, func(r Record) bool {
		proto := ExtractProtocol(r.URL)
		if proto == "" {
			return false
		}
		_, ok := allowed[proto]
		return ok
	})
}

// FilterByPath keeps records whose URL path contains or matches f.Value.
// An invalid pattern with UseRegex set is returned as an error.
func FilterByPath(records []Record, f PathFilter) ([]Record, error) {
	if f.UseRegex {
		re, err := compilePattern(f.Value, f.CaseSensitive)
		if err != nil {
			return nil, fmt.Errorf("invalid path regex: %w", err)
		}
		return keep(records, func(r Record) bool {
			p, ok := ExtractPath(r.URL)
			return ok && re.MatchString(p)
		}), nil
	}

	pattern := f.Value
	if !f.CaseSensitive {
		pattern = strings.ToLower(pattern)
	}
	return keep(records, func(r Record) bool {
		p, ok := ExtractPath(r.URL)
		if !ok {
			return false
		}
		if !f.CaseSensitive {
			p = strings.ToLower(p)
		}
		return strings.Contains(p, pattern)
	}), nil
}

// ExcludeBookmarked drops records whose URL is exactly one of bookmarked.
func ExcludeBookmarked(records []Record, bookmarked []string) []Record {
	set := make(map[string]struct{}, len(bookmarked))
	for _, u := range bookmarked {
		set[u] = struct{}{}
	}
	return keep(records, func(r Record) bool {
		_, found := set[r.URL]
		return !found
	})
}

// ValidatePattern reports whether pattern compiles.
func ValidatePattern(pattern string) error {
	_, err := regexp.Compile(pattern)
	return err
}

func compilePattern(pattern string, caseSensitive bool) (*regexp.Regexp, error) {
	if !caseSensitive {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}

// keep returns a new slice holding the records for which match is true.
func keep(records []Record, match func(Record) bool) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if match(r) {
			out = append(out, r)
		}
	}
	return out
}
