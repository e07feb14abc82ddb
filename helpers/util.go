package helpers

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

var (
	slugStripRe    = regexp.MustCompile(`[^a-z0-9]+`)
	hostSanitizeRe = regexp.MustCompile(`[^a-zA-Z0-9.-]`)
)

func GetSplitPart(target string, separate string, index int) (string, error) {
	parts := strings.Split(target, separate)
	if index >= len(parts) {
		return "", errors.New("index out of range")
	}
	return parts[index], nil
}

// Slugify lowercases a name and collapses runs of non-alphanumeric
// characters into single dashes. Used for synthetic product identifiers.
func Slugify(name string) string {
	slug := slugStripRe.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// SanitizeHostname strips characters unsafe for filenames from a hostname
func SanitizeHostname(host string) string {
	return hostSanitizeRe.ReplaceAllString(host, "_")
}

// HostOf returns the hostname of a raw URL, or an empty string if it
// cannot be parsed
func HostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}

// ResolveURL resolves a possibly-relative href against a base URL.
// Unparseable inputs are returned unchanged.
func ResolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || base == nil {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return base.Scheme + ":" + href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// FirstSentence returns the first sentence of a text, capped at max runes
func FirstSentence(text string, max int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	for _, sep := range []string{". ", "! ", "? ", "\n"} {
		if idx := strings.Index(text, sep); idx > 0 {
			text = text[:idx+1]
			break
		}
	}
	runes := []rune(strings.TrimSpace(text))
	if len(runes) > max {
		return string(runes[:max])
	}
	return string(runes)
}
