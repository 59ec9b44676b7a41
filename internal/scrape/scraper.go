package scrape

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/handiism/ugtabs/internal/config"
	"github.com/handiism/ugtabs/internal/download"
	"github.com/handiism/ugtabs/internal/http"
	"github.com/handiism/ugtabs/internal/ultimateguitar"
)

// ErrNoTabsFound is returned by ScrapeArtist when no Guitar Pro tab was collected.
var ErrNoTabsFound = errors.New("no Guitar Pro tabs found")

// Scraper collects Guitar Pro tab URLs from an artist's tab listing.
//
// The listing is paged; Scraper walks it one page at a time with a fixed
// delay between pages, the Referer of each page being the previous page.
//
// Example usage:
//
//	scraper, _ := NewScraper(settings, client, logger, onProgress)
//
//	urls, err := scraper.ScrapeArtist(ctx, "https://www.ultimate-guitar.com/artist/ghost_52297")
//	if errors.Is(err, ErrNoTabsFound) {
//	    return
//	}
type Scraper struct {
	client    *http.Client
	extractor ultimateguitar.Extractor
	limiter   *rate.Limiter
	maxPages  int
	logger    *zap.Logger

	onProgress func(download.ProgressEvent)
}

// NewScraper creates a Scraper from settings.Scrape. A nil logger discards logs.
func NewScraper(settings *config.Settings, client *http.Client, logger *zap.Logger, onProgress func(download.ProgressEvent)) (*Scraper, error) {
	extractor, err := ultimateguitar.NewExtractor(settings.Extractor)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scraper{
		client:     client,
		extractor:  extractor,
		limiter:    newPageLimiter(settings.Scrape.Delay),
		maxPages:   settings.Scrape.MaxPages,
		logger:     logger.Named("scrape"),
		onProgress: onProgress,
	}, nil
}

// newPageLimiter allows one page per delay. The first page is not delayed.
func newPageLimiter(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

// ScrapeArtist returns the Guitar Pro tab URLs of an artist, in the order
// they were found, without duplicates.
//
// The walk stops when a page has no page state or no tabs, when pagination
// says the page was the last one, when a page without pagination yields
// nothing new, on HTTP 404, or after the configured maximum of pages.
// Other HTTP errors and malformed page states skip to the next page.
//
// Canceling ctx stops the walk; the URLs collected so far are returned
// together with the context error.
func (s *Scraper) ScrapeArtist(ctx context.Context, artistURL string) ([]string, error) {
	var urls []string
	seen := make(map[string]bool)

	for page := 1; page <= s.maxPages; page++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return urls, err
		}

		pageURL := ultimateguitar.ListingPageURL(artistURL, page)
		referer := artistURL
		if page > 1 {
			referer = ultimateguitar.ListingPageURL(artistURL, page-1)
		}

		logger := s.logger.With(zap.Int("page", page), zap.String("url", pageURL))
		s.progress(download.LevelInfo, "[PAGE %d] %s", page, pageURL)

		resp, err := s.client.Get(ctx, pageURL, http.ListingOverlay(referer))
		if err != nil {
			if ctx.Err() != nil {
				return urls, ctx.Err()
			}
			logger.Warn("listing request failed", zap.Error(err))
			s.progress(download.LevelError, "Request failed on page %d: %v, continuing", page, err)
			continue
		}
		if resp.StatusCode == 404 {
			s.progress(download.LevelInfo, "Page %d not found, end of listing", page)
			break
		}
		if err := resp.Err(); err != nil {
			logger.Warn("listing page error", zap.Error(err))
			s.progress(download.LevelError, "HTTP %d on page %d, continuing", resp.StatusCode, page)
			continue
		}

		state, err := s.extractor.Extract(resp.Text())
		if errors.Is(err, ultimateguitar.ErrPageStateNotFound) {
			s.progress(download.LevelWarning, "No page state on page %d, stopping", page)
			break
		}
		if err != nil {
			logger.Warn("malformed listing page", zap.Error(err))
			s.progress(download.LevelError, "Malformed page state on page %d: %v, continuing", page, err)
			continue
		}

		if auth := ultimateguitar.Validate(state); !auth.Authenticated {
			s.progress(download.LevelWarning, "Not authenticated (user_id: 0), some tabs might not be listed")
		} else {
			s.progress(download.LevelVerbose, "Authenticated as %s", auth)
		}

		listing := ultimateguitar.NewListing(state, page)
		if len(listing.Tabs) == 0 {
			s.progress(download.LevelInfo, "No tabs on page %d, end of listing", page)
			break
		}

		found := 0
		for _, tab := range listing.GuitarProTabs() {
			if seen[tab.TabURL] {
				continue
			}
			seen[tab.TabURL] = true
			urls = append(urls, tab.TabURL)
			found++
			s.progress(download.LevelVerbose, "Found %s", tab.Title())
		}
		logger.Info("listing page scraped", zap.Int("new_tabs", found), zap.Int("total_tabs", len(urls)))
		s.progress(download.LevelInfo, "Found %d new Guitar Pro tabs (%d total)", found, len(urls))

		if listing.IsLastPage() {
			s.progress(download.LevelInfo, "Reached the last page")
			break
		}
		if listing.Pagination == nil && found == 0 {
			break
		}
		if page == s.maxPages {
			s.progress(download.LevelWarning, "Stopped after %d pages", s.maxPages)
		}
	}

	if len(urls) == 0 {
		return nil, ErrNoTabsFound
	}
	return urls, nil
}

// ArtistInfo describes an artist page.
type ArtistInfo struct {
	Name string `yaml:"name"`

	// TabCount is the number of tabs listed on the artist page itself.
	TabCount int    `yaml:"total_tabs"`
	URL      string `yaml:"url"`
}

// ArtistInfo reads the artist name and tab count from the artist page.
func (s *Scraper) ArtistInfo(ctx context.Context, artistURL string) (*ArtistInfo, error) {
	resp, err := s.client.Get(ctx, artistURL, http.ListingOverlay(http.SiteRoot))
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	state, err := s.extractor.Extract(resp.Text())
	if err != nil {
		return nil, fmt.Errorf("could not extract data from page: %w", err)
	}

	return &ArtistInfo{
		Name:     ultimateguitar.ArtistName(state),
		TabCount: len(ultimateguitar.NewListing(state, 1).Tabs),
		URL:      artistURL,
	}, nil
}

func (s *Scraper) progress(level download.ProgressLevel, format string, args ...any) {
	if s.onProgress != nil {
		s.onProgress(download.ProgressEvent{Message: fmt.Sprintf(format, args...), Level: level})
	}
}
