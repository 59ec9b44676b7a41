package ultimateguitar

// downloadEndpoint is the browser's own download URL shape. The trailing
// empty session_id is part of it.
const downloadEndpoint = "https://www.ultimate-guitar.com/tab/download?id="

// DownloadToken is the opaque binary_id issued per tab version. It is
// never parsed, only embedded in the download URL.
type DownloadToken string

// DownloadURL builds the file download URL for token.
//
// Example:
//
//	DownloadURL("abc123")
//	// Returns "https://www.ultimate-guitar.com/tab/download?id=abc123&session_id="
func DownloadURL(token DownloadToken) string {
	return downloadEndpoint + string(token) + "&session_id="
}

// Resolve reads the download token at store.page.data.tab_view.binary_id.
//
// A missing path segment, a non-scalar leaf or an empty value yields a
// *TokenNotFoundError listing the keys that tab_view does have.
func Resolve(state State) (DownloadToken, error) {
	if token, ok := state.String("store", "page", "data", "tab_view", "binary_id"); ok && token != "" {
		return DownloadToken(token), nil
	}

	tabView := state.Object("store", "page", "data", "tab_view")
	return "", &TokenNotFoundError{AvailableKeys: sortedKeys(tabView)}
}
