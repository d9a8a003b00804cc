package usecase

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/offerlens/backend/internal/domain"
)

// Query string keys that may carry the search term on a /search root URL.
var searchQueryKeys = []string{"q", "query", "text", "term", "search", "searchString", "SearchStr"}

var (
	searchPathPattern   = regexp.MustCompile(`/search/([^/?#]+)`)
	categoryPathPattern = regexp.MustCompile(`/([^/]+)/([^/]+)/(\d+)/?$`)
)

// ParseQueryInput decomposes a user query. Bare terms pass through unchanged;
// marketplace URLs become either a search term or a category id.
func ParseQueryInput(query string) domain.QueryInput {
	q := strings.TrimSpace(query)
	out := domain.QueryInput{ProductQuery: q}
	if !strings.HasPrefix(q, "http://") && !strings.HasPrefix(q, "https://") {
		return out
	}

	out.SourceURL = q
	parsed, err := url.Parse(q)
	if err != nil {
		return out
	}
	path := parsed.EscapedPath()

	if strings.TrimRight(path, "/") == "/search" {
		values := parsed.Query()
		out.ProductQuery = ""
		for _, key := range searchQueryKeys {
			if v := strings.TrimSpace(values.Get(key)); v != "" {
				out.ProductQuery = unescape(v)
				break
			}
		}
		return out
	}

	if m := searchPathPattern.FindStringSubmatch(path); m != nil {
		out.ProductQuery = slugToQuery(m[1])
		return out
	}

	if m := categoryPathPattern.FindStringSubmatch(path); m != nil {
		if slug := slugToQuery(m[2]); slug != "" {
			out.ProductQuery = slug
		}
		out.CategoryID = m[3]
		return out
	}

	var last string
	for _, part := range strings.Split(path, "/") {
		if part != "" {
			last = part
		}
	}
	if last != "" {
		out.ProductQuery = slugToQuery(last)
	}
	return out
}

// ParseSearchURL extracts the raw term of a /search/<term> URL.
func ParseSearchURL(searchURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(searchURL))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	m := searchPathPattern.FindStringSubmatch(parsed.EscapedPath())
	if m == nil {
		return "", fmt.Errorf("%w: expected a search URL like https://plati.market/search/chatgpt", domain.ErrInvalidRequest)
	}
	return unescape(m[1]), nil
}

func slugToQuery(segment string) string {
	return strings.TrimSpace(strings.ReplaceAll(unescape(segment), "-", " "))
}

func unescape(s string) string {
	if u, err := url.PathUnescape(s); err == nil {
		return u
	}
	return s
}
