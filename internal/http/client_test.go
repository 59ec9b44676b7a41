package http

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDoer struct {
	requests []*fhttp.Request
	status   int
	header   fhttp.Header
	body     string
	err      error
}

func (f *fakeDoer) Do(req *fhttp.Request) (*fhttp.Response, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	header := f.header
	if header == nil {
		header = fhttp.Header{}
	}
	return &fhttp.Response{
		StatusCode:    f.status,
		Status:        fhttp.StatusText(f.status),
		Header:        header,
		Body:          io.NopCloser(strings.NewReader(f.body)),
		ContentLength: int64(len(f.body)),
		Request:       req,
	}, nil
}

func TestSession_HeaderOverlay(t *testing.T) {
	session := NewSession(map[string]string{"UGSESSION": "abc", "bbuserid": "7"})

	header := session.Header(DownloadOverlay("https://tabs.ultimate-guitar.com/tab/x/y-1"))

	assert.Equal(t, "https://tabs.ultimate-guitar.com/tab/x/y-1", header.Get("Referer"))
	assert.Equal(t, "same-site", header.Get("Sec-Fetch-Site"), "overlay must replace base header case-insensitively")
	assert.Equal(t, "u=0, i", header.Get("Priority"))
	assert.Equal(t, "UGSESSION=abc; bbuserid=7", header.Get("Cookie"))
	assert.Contains(t, header.Get("User-Agent"), "Chrome/121")
	assert.Len(t, header.Values("Sec-Fetch-Site"), 1)
}

func TestSession_HeaderIsFresh(t *testing.T) {
	session := NewSession(nil)

	download := session.Header(DownloadOverlay("https://tabs.ultimate-guitar.com/tab/x/y-1"))
	download.Set("X-Test", "1")
	page := session.Header(PageOverlay())

	assert.Equal(t, SiteRoot, page.Get("Referer"))
	assert.Equal(t, "same-origin", page.Get("Sec-Fetch-Site"))
	assert.Empty(t, page.Get("X-Test"))
	assert.Empty(t, page.Get("Cookie"), "no cookies, no Cookie header")
}

func TestSession_CopiesCookies(t *testing.T) {
	cookies := map[string]string{"UGSESSION": "abc"}
	session := NewSession(cookies)
	cookies["UGSESSION"] = "changed"

	assert.Equal(t, "abc", session.Cookies()["UGSESSION"])

	copied := session.Cookies()
	copied["UGSESSION"] = "changed"
	assert.Equal(t, "UGSESSION=abc", session.CookieHeader())
}

func TestSession_HeaderOrder(t *testing.T) {
	session := NewSession(map[string]string{"a": "1"})

	header := session.Header(Overlay{"Referer": "r"})
	order := header[fhttp.HeaderOrderKey]

	require.NotEmpty(t, order)
	assert.Equal(t, "user-agent", order[0])
	assert.Equal(t, "cookie", order[len(order)-1])
	assert.Contains(t, order, "referer")
}

func TestClient_Get(t *testing.T) {
	doer := &fakeDoer{
		status: 200,
		header: fhttp.Header{"Content-Type": {"text/html; charset=utf-8"}},
		body:   "<html></html>",
	}
	client := NewClientWithDoer(NewSession(map[string]string{"UGSESSION": "abc"}), doer)

	resp, err := client.Get(context.Background(), "https://tabs.ultimate-guitar.com/tab/x/y-1", PageOverlay())
	require.NoError(t, err)

	assert.True(t, resp.OK())
	assert.True(t, resp.IsHTML())
	assert.NoError(t, resp.Err())
	assert.Equal(t, "<html></html>", resp.Text())
	assert.Equal(t, "https://tabs.ultimate-guitar.com/tab/x/y-1", resp.URL)

	require.Len(t, doer.requests, 1)
	assert.Equal(t, SiteRoot, doer.requests[0].Header.Get("Referer"))
	assert.Equal(t, "UGSESSION=abc", doer.requests[0].Header.Get("Cookie"))
}

func TestClient_GetStatusError(t *testing.T) {
	doer := &fakeDoer{status: 404, body: "not found"}
	client := NewClientWithDoer(NewSession(nil), doer)

	resp, err := client.Get(context.Background(), "https://tabs.ultimate-guitar.com/tab/missing", nil)
	require.NoError(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, resp.Err(), &statusErr)
	assert.Equal(t, 404, statusErr.StatusCode)
	assert.Contains(t, statusErr.Error(), "404")
}

func TestClient_GetTransportError(t *testing.T) {
	cause := errors.New("connection reset")
	client := NewClientWithDoer(NewSession(nil), &fakeDoer{err: cause})

	_, err := client.Get(context.Background(), "https://tabs.ultimate-guitar.com/tab/x", nil)
	assert.ErrorIs(t, err, cause)
}

func TestClient_DownloadProgress(t *testing.T) {
	doer := &fakeDoer{status: 200, body: "GUITARPRO"}
	client := NewClientWithDoer(NewSession(nil), doer)

	var lastWritten, lastTotal int64
	resp, err := client.Download(context.Background(), "https://www.ultimate-guitar.com/tab/download?id=1", nil, func(written, total int64) {
		lastWritten, lastTotal = written, total
	})
	require.NoError(t, err)

	assert.Equal(t, []byte("GUITARPRO"), resp.Body)
	assert.Equal(t, int64(9), lastWritten)
	assert.Equal(t, int64(9), lastTotal)
}
