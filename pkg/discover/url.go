package discover

import (
	"net/url"
	"strings"
)

const (
	indexFile     = "index.html"
	contentSuffix = ".html"
)

// ToURL maps a slash-separated path relative to the site root to its public
// URL. The root index.html maps to "/", a nested index.html to its directory
// with a trailing slash. With pretty set, other .html files lose the suffix.
// Paths replace the base URL's own path.
func ToURL(base *url.URL, rel string, pretty bool) string {
	var p string
	switch {
	case rel == indexFile:
		p = "/"
	case strings.HasSuffix(rel, "/"+indexFile):
		p = "/" + strings.TrimSuffix(rel, indexFile)
	case pretty && strings.HasSuffix(rel, contentSuffix):
		p = "/" + strings.TrimSuffix(rel, contentSuffix)
	default:
		p = "/" + rel
	}
	return base.ResolveReference(&url.URL{Path: p}).String()
}
