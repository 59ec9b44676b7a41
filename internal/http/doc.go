// Package http provides an HTTP client that talks to Ultimate Guitar like a browser.
//
// The package handles:
//   - The authenticated Session (cookies plus browser headers)
//   - Per-request header overlays for pages, downloads and listings
//   - Chrome TLS fingerprinting through bogdanfinn/tls-client
//   - Body download with progress tracking
//
// # Basic Usage
//
//	session := http.NewSession(cookies)
//	client, err := http.NewClient(session, http.ClientConfig{TimeoutSeconds: 30})
//
//	// Fetch a tab page
//	resp, err := client.Get(ctx, tabURL, http.PageOverlay())
//	if err := resp.Err(); err != nil {
//	    // non-2xx
//	}
//
// # Headers
//
// Session.Header never mutates the session. Every request gets a fresh
// header set built from the base headers and the request's Overlay, so a
// download Referer can never leak into the next page request.
package http
