package ultimateguitar

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/handiism/ugtabs/internal/ultimateguitar/dto"
)

// UnknownArtist is reported when the artist page carries no artist name.
const UnknownArtist = "Unknown"

// Listing is the tab listing on one page of an artist's tab index.
//
// Example usage:
//
//	state, _ := extractor.Extract(pageHTML)
//	listing := NewListing(state, 1)
//
//	for _, tab := range listing.GuitarProTabs() {
//	    fmt.Println(tab.TabURL)
//	}
//	if listing.IsLastPage() {
//	    return
//	}
type Listing struct {
	// Tabs are all entries of store.page.data.other_tabs that decode.
	Tabs []dto.JSONTab

	// Pagination is nil when the page has no pagination block.
	Pagination *dto.JSONPagination

	// Page is the page number that was requested.
	Page int
}

// NewListing reads the tab listing and pagination from an artist page state.
//
// Entries that do not decode are skipped; a listing never fails.
func NewListing(state State, page int) *Listing {
	listing := &Listing{Page: page}

	if raw, ok := state.Lookup("store", "page", "data", "other_tabs"); ok {
		if entries, ok := raw.([]any); ok {
			for _, entry := range entries {
				var tab dto.JSONTab
				if err := decodeInto(entry, &tab); err != nil {
					continue
				}
				listing.Tabs = append(listing.Tabs, tab)
			}
		}
	}

	// An empty pagination object counts as absent.
	if raw := state.Object("store", "page", "data", "pagination"); len(raw) > 0 {
		var pagination dto.JSONPagination
		if err := decodeInto(raw, &pagination); err == nil {
			listing.Pagination = &pagination
		}
	}

	return listing
}

// GuitarProTabs returns the Guitar Pro entries that have a tab URL.
func (l *Listing) GuitarProTabs() []dto.JSONTab {
	var tabs []dto.JSONTab
	for _, tab := range l.Tabs {
		if tab.IsGuitarPro() {
			tabs = append(tabs, tab)
		}
	}
	return tabs
}

// IsLastPage reports whether pagination says there is nothing after this page.
//
// A pagination block without pages is treated as the last page. When the
// block is missing entirely the caller decides from the tabs it found.
func (l *Listing) IsLastPage() bool {
	if l.Pagination == nil {
		return false
	}
	if len(l.Pagination.Pages) == 0 {
		return true
	}
	return l.Pagination.CurrentPage(l.Page) >= l.Pagination.MaxPage()
}

// ArtistName returns store.page.data.artist.name, or UnknownArtist.
func ArtistName(state State) string {
	if name, ok := state.String("store", "page", "data", "artist", "name"); ok && name != "" {
		return name
	}
	return UnknownArtist
}

// ListingPageURL builds the Guitar Pro filtered listing URL of page.
//
// Example:
//
//	ListingPageURL("https://www.ultimate-guitar.com/artist/ghost_52297", 2)
//	// Returns "https://www.ultimate-guitar.com/artist/ghost_52297?filter=guitar_pro&page=2"
func ListingPageURL(artistURL string, page int) string {
	base := strings.TrimRight(artistURL, "/")
	query := url.Values{}
	query.Set("filter", "guitar_pro")
	query.Set("page", strconv.Itoa(page))
	return base + "?" + query.Encode()
}
