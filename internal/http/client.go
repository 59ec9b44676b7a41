package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
)

// Doer sends one HTTP request. tls_client.HttpClient satisfies it; tests
// substitute a fake.
type Doer interface {
	Do(req *fhttp.Request) (*fhttp.Response, error)
}

// ClientConfig configures the underlying TLS client.
type ClientConfig struct {
	// TimeoutSeconds bounds every request. Zero means 30 seconds.
	TimeoutSeconds int

	// ProxyURL routes traffic through a proxy when set.
	ProxyURL string
}

// Client performs Ultimate Guitar requests on behalf of one Session.
//
// Client provides:
//   - Browser-like TLS fingerprint and header order
//   - Per-request header overlays on top of the session headers
//   - Redirect following with cookie persistence across hops
//   - Body download with progress tracking
//
// Example usage:
//
//	session := NewSession(cookies)
//	client, err := NewClient(session, ClientConfig{TimeoutSeconds: 30})
//
//	// Fetch a tab page
//	resp, err := client.Get(ctx, tabURL, PageOverlay())
//
//	// Download the tab file with progress
//	resp, err = client.Download(ctx, downloadURL, DownloadOverlay(tabURL), func(written, total int64) {
//	    fmt.Printf("%d / %d bytes\n", written, total)
//	})
type Client struct {
	doer    Doer
	session *Session
}

// NewClient creates a Client backed by a Chrome-profile TLS client.
//
// The client is configured with:
//   - Chrome TLS fingerprint
//   - A cookie jar so Set-Cookie headers survive redirects
//   - The configured timeout (30 seconds by default)
func NewClient(session *Session, cfg ClientConfig) (*Client, error) {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	options := []tls_client.HttpClientOption{
		tls_client.WithCookieJar(tls_client.NewCookieJar()),
		tls_client.WithTimeoutSeconds(timeout),
		tls_client.WithClientProfile(profiles.Chrome_133),
		tls_client.WithRandomTLSExtensionOrder(),
	}
	if cfg.ProxyURL != "" {
		options = append(options, tls_client.WithProxyUrl(cfg.ProxyURL))
	}

	doer, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create TLS client: %w", err)
	}

	return NewClientWithDoer(session, doer), nil
}

// NewClientWithDoer creates a Client that sends requests through doer.
func NewClientWithDoer(session *Session, doer Doer) *Client {
	return &Client{doer: doer, session: session}
}

// Session returns the session the client authenticates with.
func (c *Client) Session() *Session {
	return c.session
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Status     string
	Header     fhttp.Header
	Body       []byte

	// URL is the final URL after redirects.
	URL string
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// ContentType returns the Content-Type header.
func (r *Response) ContentType() string {
	return r.Header.Get("Content-Type")
}

// IsHTML reports whether the response declares an HTML body.
func (r *Response) IsHTML() bool {
	return strings.Contains(strings.ToLower(r.ContentType()), "text/html")
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// Err returns a *StatusError for non-2xx responses, nil otherwise.
func (r *Response) Err() error {
	if r.OK() {
		return nil
	}
	return &StatusError{StatusCode: r.StatusCode, Status: r.Status, URL: r.URL}
}

// StatusError reports a non-2xx response.
type StatusError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s (%s)", e.StatusCode, strings.TrimSpace(e.Status), e.URL)
}

// ProgressWriter wraps a writer to track download progress.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: &buf,
//	    Total:  contentLength,
//	    OnUpdate: func(written, total int64) {
//	        fmt.Printf("%d / %d bytes\n", written, total)
//	    },
//	}
//	io.Copy(pw, response.Body)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header), -1 when unknown.
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// Get performs a GET request with the session headers plus overlay and
// reads the whole body.
//
// Non-2xx responses are returned without error; callers decide through
// Response.Err. An error is returned only when the request could not be
// sent or the body could not be read.
func (c *Client) Get(ctx context.Context, url string, overlay Overlay) (*Response, error) {
	return c.Download(ctx, url, overlay, nil)
}

// Download is Get with an optional progress callback receiving
// (bytesRead, contentLength).
func (c *Client) Download(ctx context.Context, url string, overlay Overlay, onProgress func(written, total int64)) (*Response, error) {
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = c.session.Header(overlay)

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	var writer io.Writer = &buf
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   &buf,
			Total:    resp.ContentLength,
			OnUpdate: onProgress,
		}
	}

	if _, err := io.Copy(writer, resp.Body); err != nil {
		return nil, fmt.Errorf("failed to read response body from %s: %w", url, err)
	}

	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       buf.Bytes(),
		URL:        finalURL,
	}, nil
}
