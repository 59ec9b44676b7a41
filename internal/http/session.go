package http

import (
	"sort"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"
)

// SiteRoot is the Ultimate Guitar home page, used as the Referer of tab page requests.
const SiteRoot = "https://www.ultimate-guitar.com/"

// headerField is one browser header in wire order.
type headerField struct {
	name  string
	value string
}

// defaultHeaders mimic a desktop Chrome top-level navigation. The values
// are a compatibility surface with the site's bot filtering; change them
// only together with the TLS client profile.
var defaultHeaders = []headerField{
	{"User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"},
	{"Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7"},
	{"Accept-Language", "en-US,en;q=0.9"},
	{"Accept-Encoding", "gzip, deflate, br"},
	{"DNT", "1"},
	{"Connection", "keep-alive"},
	{"Upgrade-Insecure-Requests", "1"},
	{"Sec-Fetch-Dest", "document"},
	{"Sec-Fetch-Mode", "navigate"},
	{"Sec-Fetch-Site", "same-origin"},
	{"sec-ch-ua", `"Not A(Brand";v="99", "Google Chrome";v="121", "Chromium";v="121"`},
	{"sec-ch-ua-mobile", "?0"},
	{"sec-ch-ua-platform", `"Windows"`},
}

// Overlay holds request-scoped header overrides. Keys match the base
// headers case-insensitively.
type Overlay map[string]string

// Session is an authenticated browser identity: the site cookies plus the
// fixed browser header set.
//
// A Session is immutable. Per-request differences are expressed as an
// Overlay and merged into a fresh header set by Header, so one Session can
// be shared by every request of a batch.
//
// Example:
//
//	session := NewSession(map[string]string{"UGSESSION": "..."})
//	header := session.Header(PageOverlay())
//	// header.Get("Referer") == "https://www.ultimate-guitar.com/"
type Session struct {
	cookies map[string]string
	base    []headerField
}

// NewSession creates a Session with the given cookies and the default browser headers.
//
// The cookie map is copied; later changes by the caller do not affect the session.
func NewSession(cookies map[string]string) *Session {
	copied := make(map[string]string, len(cookies))
	for name, value := range cookies {
		copied[name] = value
	}

	base := make([]headerField, len(defaultHeaders))
	copy(base, defaultHeaders)

	return &Session{cookies: copied, base: base}
}

// Cookies returns a copy of the session cookies.
func (s *Session) Cookies() map[string]string {
	copied := make(map[string]string, len(s.cookies))
	for name, value := range s.cookies {
		copied[name] = value
	}
	return copied
}

// CookieHeader renders the cookies as a Cookie header value, sorted by name.
func (s *Session) CookieHeader() string {
	names := make([]string, 0, len(s.cookies))
	for name := range s.cookies {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+"="+s.cookies[name])
	}
	return strings.Join(pairs, "; ")
}

// Header builds the request headers: base headers, then overlay, then the
// Cookie header. Overlay keys replace base headers with the same name
// regardless of case; new keys are appended in sorted order. The result
// carries a header order hint so the TLS client writes them like a browser.
func (s *Session) Header(overlay Overlay) fhttp.Header {
	fields := make([]headerField, len(s.base))
	copy(fields, s.base)

	index := make(map[string]int, len(fields))
	for i, f := range fields {
		index[strings.ToLower(f.name)] = i
	}

	extra := make([]string, 0, len(overlay))
	for name := range overlay {
		extra = append(extra, name)
	}
	sort.Strings(extra)

	for _, name := range extra {
		value := overlay[name]
		if i, ok := index[strings.ToLower(name)]; ok {
			fields[i].value = value
			continue
		}
		index[strings.ToLower(name)] = len(fields)
		fields = append(fields, headerField{name: name, value: value})
	}

	if len(s.cookies) > 0 {
		fields = append(fields, headerField{name: "Cookie", value: s.CookieHeader()})
	}

	header := make(fhttp.Header, len(fields)+1)
	order := make([]string, 0, len(fields))
	for _, f := range fields {
		header.Set(f.name, f.value)
		order = append(order, strings.ToLower(f.name))
	}
	header[fhttp.HeaderOrderKey] = order

	return header
}

// PageOverlay is applied to tab page requests.
func PageOverlay() Overlay {
	return Overlay{"Referer": SiteRoot}
}

// DownloadOverlay is applied to the tab file request. It mimics the
// same-site document navigation the browser performs when the download
// button on the tab page is clicked.
func DownloadOverlay(tabURL string) Overlay {
	return Overlay{
		"Referer":                   tabURL,
		"sec-fetch-dest":            "document",
		"sec-fetch-mode":            "navigate",
		"sec-fetch-site":            "same-site",
		"sec-fetch-user":            "?1",
		"upgrade-insecure-requests": "1",
		"priority":                  "u=0, i",
	}
}

// HomeOverlay is applied to the home page request used to probe the session.
func HomeOverlay() Overlay {
	return Overlay{
		"Sec-Fetch-Site": "none",
		"Sec-Fetch-User": "?1",
	}
}

// ListingOverlay is applied to artist listing pages, referer being the
// previous listing page.
func ListingOverlay(referer string) Overlay {
	return Overlay{
		"Referer":        referer,
		"Cache-Control":  "max-age=0",
		"Sec-Fetch-User": "?1",
	}
}
