package ultimateguitar

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPageStateNotFound is returned when a page carries no data-content attribute.
//
// This typically occurs when:
//   - The URL is not a tab or artist page
//   - The site served a challenge or error page instead of the tab
//   - The site markup changed and the state moved elsewhere
var ErrPageStateNotFound = errors.New("page state not found: no data-content attribute on page")

// MalformedJSONError is returned when the data-content attribute was found
// but its unescaped content is not a JSON object.
type MalformedJSONError struct {
	Err error
}

func (e *MalformedJSONError) Error() string {
	return fmt.Sprintf("malformed page state JSON: %v", e.Err)
}

func (e *MalformedJSONError) Unwrap() error {
	return e.Err
}

// TokenNotFoundError is returned when the page state has no download token.
//
// AvailableKeys lists the keys present at store.page.data.tab_view, sorted,
// and is empty when that level itself is missing. It is the main clue when
// the site renames the token field.
type TokenNotFoundError struct {
	AvailableKeys []string
}

func (e *TokenNotFoundError) Error() string {
	if len(e.AvailableKeys) == 0 {
		return "download token not found: tab_view is missing or empty"
	}
	return fmt.Sprintf("download token not found: tab_view keys are [%s]", strings.Join(e.AvailableKeys, ", "))
}
