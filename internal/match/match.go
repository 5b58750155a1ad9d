package match

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// defaultExtensions are the image suffixes accepted by the path rule.
var defaultExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".svg"}

// imgurPage matches a bare imgur page URL: scheme, host, and a single
// 7-character alphanumeric id — no further path segments, no query.
var imgurPage = regexp.MustCompile(`^https?://imgur\.com/([A-Za-z0-9]{7})$`)

// Matcher resolves link URLs to image URLs. The zero value is not usable;
// construct with New.
type Matcher struct {
	exts map[string]struct{}
}

// New returns a Matcher accepting the default image extensions plus any
// extras (each must include the leading dot; matching is case-insensitive).
func New(extra ...string) *Matcher {
	m := &Matcher{exts: make(map[string]struct{}, len(defaultExtensions)+len(extra))}
	for _, e := range defaultExtensions {
		m.exts[e] = struct{}{}
	}
	for _, e := range extra {
		m.exts[strings.ToLower(e)] = struct{}{}
	}
	return m
}

// Resolve maps href to a directly loadable image URL.
//
// The extension rule is checked first: if the URL's path ends in an accepted
// image extension (case-insensitive), href is returned unchanged — a query
// string does not defeat the match. Otherwise the imgur rewrite applies.
// Malformed URLs are not an error; they simply do not resolve.
func (m *Matcher) Resolve(href string) (string, bool) {
	u, err := url.Parse(href)
	if err == nil && u.Host != "" {
		ext := strings.ToLower(path.Ext(u.Path))
		if _, ok := m.exts[ext]; ok {
			return href, true
		}
	}

	if g := imgurPage.FindStringSubmatch(href); g != nil {
		return "https://i.imgur.com/" + g[1] + ".jpeg", true
	}

	return "", false
}
