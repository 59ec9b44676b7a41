package dto

// JSONPagination represents store.page.data.pagination on listing pages.
type JSONPagination struct {
	Current *int       `json:"current"`
	Pages   []JSONPage `json:"pages"`
}

// JSONPage is one page link of the pagination block.
type JSONPage struct {
	Page int `json:"page"`
}

// MaxPage returns the highest page number listed, 0 when there are none.
func (jp *JSONPagination) MaxPage() int {
	maxPage := 0
	for _, p := range jp.Pages {
		if p.Page > maxPage {
			maxPage = p.Page
		}
	}
	return maxPage
}

// CurrentPage returns the current page, defaulting to requested when the
// site omits it.
func (jp *JSONPagination) CurrentPage(requested int) int {
	if jp.Current == nil {
		return requested
	}
	return *jp.Current
}
