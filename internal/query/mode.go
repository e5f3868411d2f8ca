// Package query turns the (category, search, page) selection into the request
// shapes used by the proxy and by the upstream news API.
package query

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	SearchPath   = "/v2/everything"
	HeadlinePath = "/v2/top-headlines"
)

// Mode is either Search or Category. A non-empty search term always wins.
type Mode interface {
	// UpstreamPath is the news API path for this mode.
	UpstreamPath() string
	// Encode renders the upstream query string. Parameter order is fixed.
	Encode(country string, pageSize int) string
	// ProxyQuery renders the query string sent to GET /api/news.
	ProxyQuery() string
	// Key identifies the (category, search, page) tuple.
	Key() string
	PageNumber() int

	isMode()
}

type Search struct {
	Term string
	Page int
}

type Category struct {
	Name string
	Page int
}

// New builds the mode for a typed selection.
func New(category, search string, page int) Mode {
	if page < 1 {
		page = 1
	}
	if search != "" {
		return Search{Term: search, Page: page}
	}
	return Category{Name: category, Page: page}
}

// FromParams builds the mode from raw request parameters.
func FromParams(category, search, page string) Mode {
	return New(category, search, ParsePage(page))
}

// ParsePage returns page as an integer, or 1 when it is missing, non-numeric or below 1.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func (Search) isMode()   {}
func (Category) isMode() {}

func (s Search) UpstreamPath() string { return SearchPath }

func (s Search) Encode(_ string, pageSize int) string {
	return encode(
		"q", s.Term,
		"page", strconv.Itoa(s.Page),
		"pageSize", pageSizeValue(pageSize),
	)
}

func (s Search) ProxyQuery() string {
	return encode("search", s.Term, "page", strconv.Itoa(s.Page))
}

func (s Search) Key() string {
	return "search|" + s.Term + "|" + strconv.Itoa(s.Page)
}

func (s Search) PageNumber() int { return s.Page }

func (c Category) UpstreamPath() string { return HeadlinePath }

func (c Category) Encode(country string, pageSize int) string {
	return encode(
		"category", c.Name,
		"country", country,
		"page", strconv.Itoa(c.Page),
		"pageSize", pageSizeValue(pageSize),
	)
}

func (c Category) ProxyQuery() string {
	return encode("category", c.Name, "page", strconv.Itoa(c.Page))
}

func (c Category) Key() string {
	return "category|" + c.Name + "|" + strconv.Itoa(c.Page)
}

func (c Category) PageNumber() int { return c.Page }

func pageSizeValue(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// encode joins key/value pairs in the given order, skipping empty optional
// pageSize values. url.Values would sort the keys.
func encode(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		k, v := pairs[i], pairs[i+1]
		if k == "pageSize" && v == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(v))
	}
	return b.String()
}
