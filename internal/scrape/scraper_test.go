package scrape

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"
	"testing"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/handiism/ugtabs/internal/config"
	"github.com/handiism/ugtabs/internal/download"
	"github.com/handiism/ugtabs/internal/http"
	"github.com/handiism/ugtabs/internal/ultimateguitar"
)

const artistURL = "https://www.ultimate-guitar.com/artist/ghost_52297"

type cannedResponse struct {
	status int
	body   string
	err    error
}

type routeDoer struct {
	routes   map[string]cannedResponse
	requests []*fhttp.Request
}

func (d *routeDoer) Do(req *fhttp.Request) (*fhttp.Response, error) {
	d.requests = append(d.requests, req)

	canned, ok := d.routes[req.URL.String()]
	if !ok {
		canned = cannedResponse{status: 404, body: "not found"}
	}
	if canned.err != nil {
		return nil, canned.err
	}
	return &fhttp.Response{
		StatusCode: canned.status,
		Status:     fhttp.StatusText(canned.status),
		Header:     fhttp.Header{"Content-Type": {"text/html"}},
		Body:       io.NopCloser(strings.NewReader(canned.body)),
		Request:    req,
	}, nil
}

func pageURL(n int) string {
	return ultimateguitar.ListingPageURL(artistURL, n)
}

// listingPage renders an artist listing page whose page data is dataJSON.
func listingPage(dataJSON string) cannedResponse {
	state := `{"store":{"user":{"id":42,"username":"alice"},"page":{"data":` + dataJSON + `}}}`
	return cannedResponse{status: 200, body: `<div class="js-store" data-content="` + html.EscapeString(state) + `"></div>`}
}

func gpTab(song string) string {
	return fmt.Sprintf(`{"tab_url":"https://tabs.ultimate-guitar.com/tab/ghost/%s-guitar-pro","type_name":"Guitar Pro","song_name":%q,"artist_name":"Ghost","version":1}`, song, song)
}

func chordsTab(song string) string {
	return fmt.Sprintf(`{"tab_url":"https://tabs.ultimate-guitar.com/tab/ghost/%s-chords","type_name":"Chords","song_name":%q}`, song, song)
}

func tabURLOf(song string) string {
	return "https://tabs.ultimate-guitar.com/tab/ghost/" + song + "-guitar-pro"
}

func newTestScraper(t *testing.T, routes map[string]cannedResponse, maxPages int) (*Scraper, *routeDoer, *[]download.ProgressEvent) {
	t.Helper()

	settings := config.DefaultSettings()
	settings.Scrape.Delay = 0
	settings.Scrape.MaxPages = maxPages

	doer := &routeDoer{routes: routes}
	client := http.NewClientWithDoer(http.NewSession(nil), doer)

	var events []download.ProgressEvent
	scraper, err := NewScraper(settings, client, zap.NewNop(), func(e download.ProgressEvent) {
		events = append(events, e)
	})
	require.NoError(t, err)
	return scraper, doer, &events
}

func TestScrapeArtist_Paginates(t *testing.T) {
	scraper, doer, _ := newTestScraper(t, map[string]cannedResponse{
		pageURL(1): listingPage(`{"other_tabs":[` + gpTab("kaisarion") + `,` + chordsTab("kaisarion") + `],"pagination":{"current":1,"pages":[{"page":1},{"page":2}]}}`),
		pageURL(2): listingPage(`{"other_tabs":[` + gpTab("spillways") + `,` + gpTab("kaisarion") + `],"pagination":{"current":2,"pages":[{"page":1},{"page":2}]}}`),
	}, 100)

	urls, err := scraper.ScrapeArtist(context.Background(), artistURL)
	require.NoError(t, err)

	assert.Equal(t, []string{tabURLOf("kaisarion"), tabURLOf("spillways")}, urls)
	require.Len(t, doer.requests, 2)

	assert.Equal(t, artistURL, doer.requests[0].Header.Get("Referer"))
	assert.Equal(t, pageURL(1), doer.requests[1].Header.Get("Referer"))
	assert.Equal(t, "max-age=0", doer.requests[1].Header.Get("Cache-Control"))
}

func TestScrapeArtist_StopConditions(t *testing.T) {
	tests := []struct {
		name     string
		routes   map[string]cannedResponse
		maxPages int
		want     []string
		requests int
	}{
		{
			name: "not found",
			routes: map[string]cannedResponse{
				pageURL(1): listingPage(`{"other_tabs":[` + gpTab("kaisarion") + `]}`),
			},
			maxPages: 100,
			want:     []string{tabURLOf("kaisarion")},
			requests: 2,
		},
		{
			name: "empty listing",
			routes: map[string]cannedResponse{
				pageURL(1): listingPage(`{"other_tabs":[` + gpTab("kaisarion") + `]}`),
				pageURL(2): listingPage(`{"other_tabs":[]}`),
			},
			maxPages: 100,
			want:     []string{tabURLOf("kaisarion")},
			requests: 2,
		},
		{
			name: "no page state",
			routes: map[string]cannedResponse{
				pageURL(1): listingPage(`{"other_tabs":[` + gpTab("kaisarion") + `]}`),
				pageURL(2): {status: 200, body: "<html>captcha</html>"},
			},
			maxPages: 100,
			want:     []string{tabURLOf("kaisarion")},
			requests: 2,
		},
		{
			name: "no pagination and nothing new",
			routes: map[string]cannedResponse{
				pageURL(1): listingPage(`{"other_tabs":[` + gpTab("kaisarion") + `]}`),
				pageURL(2): listingPage(`{"other_tabs":[` + gpTab("kaisarion") + `]}`),
				pageURL(3): listingPage(`{"other_tabs":[` + gpTab("spillways") + `]}`),
			},
			maxPages: 100,
			want:     []string{tabURLOf("kaisarion")},
			requests: 2,
		},
		{
			name: "empty pagination pages",
			routes: map[string]cannedResponse{
				pageURL(1): listingPage(`{"other_tabs":[` + gpTab("kaisarion") + `],"pagination":{"current":1,"pages":[]}}`),
			},
			maxPages: 100,
			want:     []string{tabURLOf("kaisarion")},
			requests: 1,
		},
		{
			name: "max pages",
			routes: map[string]cannedResponse{
				pageURL(1): listingPage(`{"other_tabs":[` + gpTab("kaisarion") + `]}`),
				pageURL(2): listingPage(`{"other_tabs":[` + gpTab("spillways") + `]}`),
				pageURL(3): listingPage(`{"other_tabs":[` + gpTab("mary-on-a-cross") + `]}`),
			},
			maxPages: 2,
			want:     []string{tabURLOf("kaisarion"), tabURLOf("spillways")},
			requests: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scraper, doer, _ := newTestScraper(t, tt.routes, tt.maxPages)

			urls, err := scraper.ScrapeArtist(context.Background(), artistURL)
			require.NoError(t, err)
			assert.Equal(t, tt.want, urls)
			assert.Len(t, doer.requests, tt.requests)
		})
	}
}

func TestScrapeArtist_ContinuesAfterErrors(t *testing.T) {
	scraper, doer, events := newTestScraper(t, map[string]cannedResponse{
		pageURL(1): {status: 500, body: "oops"},
		pageURL(2): {err: errors.New("connection reset")},
		pageURL(3): {status: 200, body: `<div data-content="{&quot;store&quot;:}"></div>`},
		pageURL(4): listingPage(`{"other_tabs":[` + gpTab("kaisarion") + `],"pagination":{"current":4,"pages":[{"page":4}]}}`),
	}, 100)

	urls, err := scraper.ScrapeArtist(context.Background(), artistURL)
	require.NoError(t, err)
	assert.Equal(t, []string{tabURLOf("kaisarion")}, urls)
	assert.Len(t, doer.requests, 4)

	var errorEvents int
	for _, e := range *events {
		if e.Level == download.LevelError {
			errorEvents++
		}
	}
	assert.Equal(t, 3, errorEvents)
}

func TestScrapeArtist_NoTabs(t *testing.T) {
	scraper, _, _ := newTestScraper(t, map[string]cannedResponse{
		pageURL(1): listingPage(`{"other_tabs":[` + chordsTab("kaisarion") + `]}`),
	}, 100)

	urls, err := scraper.ScrapeArtist(context.Background(), artistURL)
	assert.ErrorIs(t, err, ErrNoTabsFound)
	assert.Nil(t, urls)
}

func TestScrapeArtist_AnonymousWarns(t *testing.T) {
	state := `{"store":{"user":{"id":0},"page":{"data":{"other_tabs":[` + gpTab("kaisarion") + `],"pagination":{"current":1,"pages":[{"page":1}]}}}}}`
	scraper, _, events := newTestScraper(t, map[string]cannedResponse{
		pageURL(1): {status: 200, body: `<div data-content="` + html.EscapeString(state) + `"></div>`},
	}, 100)

	urls, err := scraper.ScrapeArtist(context.Background(), artistURL)
	require.NoError(t, err)
	assert.Len(t, urls, 1)

	var warned bool
	for _, e := range *events {
		if e.Level == download.LevelWarning && strings.Contains(e.Message, "Not authenticated") {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestScrapeArtist_Canceled(t *testing.T) {
	scraper, doer, _ := newTestScraper(t, nil, 100)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	urls, err := scraper.ScrapeArtist(ctx, artistURL)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, urls)
	assert.Empty(t, doer.requests)
}

func TestArtistInfo(t *testing.T) {
	state := `{"store":{"page":{"data":{"artist":{"name":"Ghost"},"other_tabs":[` + gpTab("kaisarion") + `,` + chordsTab("kaisarion") + `]}}}}`
	scraper, _, _ := newTestScraper(t, map[string]cannedResponse{
		artistURL: {status: 200, body: `<div data-content="` + html.EscapeString(state) + `"></div>`},
	}, 100)

	info, err := scraper.ArtistInfo(context.Background(), artistURL)
	require.NoError(t, err)
	assert.Equal(t, &ArtistInfo{Name: "Ghost", TabCount: 2, URL: artistURL}, info)
}

func TestArtistInfo_Errors(t *testing.T) {
	scraper, _, _ := newTestScraper(t, map[string]cannedResponse{
		artistURL: {status: 200, body: "<html></html>"},
	}, 100)

	_, err := scraper.ArtistInfo(context.Background(), artistURL)
	assert.ErrorIs(t, err, ultimateguitar.ErrPageStateNotFound)

	_, err = scraper.ArtistInfo(context.Background(), artistURL+"/missing")
	var statusErr *http.StatusError
	assert.ErrorAs(t, err, &statusErr)
}
