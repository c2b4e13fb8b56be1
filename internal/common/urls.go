package common

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeTargetURL validates and normalizes a user-submitted website URL.
// A bare hostname gets an https scheme; anything that does not resolve to
// an absolute http(s) URL with a host is rejected before a job is created.
func NormalizeTargetURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("url is required")
	}

	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme: %s", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("url has no host")
	}
	if !strings.Contains(parsed.Host, ".") && !strings.HasPrefix(parsed.Host, "localhost") {
		return "", fmt.Errorf("url host looks incomplete: %s", parsed.Host)
	}

	return parsed.String(), nil
}

// DomainOf returns the host portion of a URL, stripping any www prefix
func DomainOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return rawURL
	}
	return strings.TrimPrefix(parsed.Host, "www.")
}

// ResolveURL resolves href against base, returning "" for unusable links
func ResolveURL(href string, base *url.URL) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	lower := strings.ToLower(href)
	if strings.HasPrefix(lower, "javascript:") ||
		strings.HasPrefix(lower, "mailto:") ||
		strings.HasPrefix(lower, "tel:") ||
		strings.HasPrefix(lower, "data:") {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if ref.Scheme != "http" && ref.Scheme != "https" {
		return ""
	}
	ref.Fragment = ""
	return ref.String()
}

// SameHost reports whether candidate shares a host with base,
// treating www.example.com and example.com as the same site.
func SameHost(base *url.URL, candidate string) bool {
	parsed, err := url.Parse(candidate)
	if err != nil {
		return false
	}
	normalize := func(h string) string {
		return strings.TrimPrefix(strings.ToLower(h), "www.")
	}
	return normalize(parsed.Host) == normalize(base.Host)
}
