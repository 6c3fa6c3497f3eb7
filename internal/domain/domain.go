// Package domain canonicalizes URLs and hostnames to their registrable
// domain, the key the source repository is indexed by.
package domain

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Normalize maps a URL or bare hostname to its canonical registrable domain:
// lowercase, scheme/path/port and subdomains stripped, multi-label public
// suffixes preserved (bbc.co.uk stays bbc.co.uk). Inputs without a scheme
// are treated as https URLs, so "www.nytimes.com/section" works as well as
// a full URL.
func Normalize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("empty URL")
	}

	candidate := trimmed
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", raw, err)
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return "", fmt.Errorf("no hostname in %q", raw)
	}

	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", fmt.Errorf("no registrable domain in %q: %w", raw, err)
	}
	return registrable, nil
}
