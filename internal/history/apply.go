package history

// Apply narrows records by every dimension set in f, in the order domain,
// keyword, regex, date range, protocols, path, bookmark exclusion. A pattern
// that fails to compile stops the chain and is returned as the error.
//
// When no dimension is set the input slice itself is returned. The input is
// never modified.
func Apply(records []Record, f Filters) ([]Record, error) {
	result := records

	if f.Domain != nil && f.Domain.Value != "" {
		result = FilterByDomain(result, *f.Domain)
	}

	if f.Keyword != nil && f.Keyword.Value != "" {
		result = FilterByKeyword(result, *f.Keyword)
	}

	if f.Regex != nil && f.Regex.Value != "" {
		var err error
		result, err = FilterByRegex(result, *f.Regex)
		if err != nil {
			return nil, err
		}
	}

	if f.DateRange != nil {
		result = FilterByDateRange(result, *f.DateRange)
	}

	if len(f.Protocols) > 0 {
		result = FilterByProtocol(result, f.Protocols)
	}

	if f.Path != nil && f.Path.Value != "" {
		var err error
		result, err = FilterByPath(result, *f.Path)
		if err != nil {
			return nil, err
		}
	}

	if f.ExcludeBookmarked && f.BookmarkedURLs != nil {
		result = ExcludeBookmarked(result, f.BookmarkedURLs)
	}

	return result, nil
}

// URLs returns the URL of each record, in order.
func URLs(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.URL
	}
	return out
}
