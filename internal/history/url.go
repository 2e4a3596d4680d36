package history

import (
	"fmt"
	"net/url"
	"strings"
)

// parseAbsolute parses rawURL and rejects anything without a scheme, so
// relative or garbage strings never match a URL-based filter.
func parseAbsolute(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("missing scheme in %q", rawURL)
	}
	return u, nil
}

// ExtractDomain returns the hostname of rawURL, or "" if it cannot be parsed.
func ExtractDomain(rawURL string) string {
	u, err := parseAbsolute(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// ExtractProtocol returns the lower-cased scheme of rawURL without the colon.
func ExtractProtocol(rawURL string) string {
	u, err := parseAbsolute(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Scheme)
}

// ExtractPath returns the escaped path of rawURL. Hierarchical URLs with an
// empty path report "/".
func ExtractPath(rawURL string) (string, bool) {
	u, err := parseAbsolute(rawURL)
	if err != nil {
		return "", false
	}
	if u.Opaque != "" {
		return u.Opaque, true
	}
	p := u.EscapedPath()
	if p == "" {
		p = "/"
	}
	return p, true
}

func normalizeDomain(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}
