package model

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a tab could not be downloaded.
//
// Kinds are coarse on purpose: they tell the operator whether to refresh
// cookies (AnonymousSession, DownloadRejected) or to look at a site change
// (ExtractionFailed, TokenNotFound).
type FailureKind int

const (
	// KindNone means the tab was downloaded.
	KindNone FailureKind = iota

	// KindHTTPError is a transport failure or a non-2xx status on either request.
	KindHTTPError

	// KindExtractionFailed means the page-state JSON was missing or malformed.
	KindExtractionFailed

	// KindAnonymousSession means the page state reported no logged-in user.
	KindAnonymousSession

	// KindTokenNotFound means the user is logged in but the download token path is absent.
	KindTokenNotFound

	// KindDownloadRejected means the download endpoint answered 2xx with an HTML page.
	KindDownloadRejected

	// KindIOError means the output directory or file could not be written.
	KindIOError

	// KindUnknown is reported for errors that did not come out of the fetch pipeline.
	KindUnknown
)

// FailureKinds lists every failure kind in reporting order.
var FailureKinds = []FailureKind{
	KindHTTPError,
	KindExtractionFailed,
	KindAnonymousSession,
	KindTokenNotFound,
	KindDownloadRejected,
	KindIOError,
	KindUnknown,
}

// String returns the kind name used in logs and reports.
func (k FailureKind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindHTTPError:
		return "HttpError"
	case KindExtractionFailed:
		return "ExtractionFailed"
	case KindAnonymousSession:
		return "AnonymousSession"
	case KindTokenNotFound:
		return "TokenNotFound"
	case KindDownloadRejected:
		return "DownloadRejected"
	case KindIOError:
		return "IoError"
	default:
		return "Unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so kinds render by name in reports.
func (k FailureKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Hint returns a short operator-facing suggestion for the kind.
func (k FailureKind) Hint() string {
	switch k {
	case KindAnonymousSession:
		return "not authenticated: cookies are likely invalid or expired, export fresh cookies"
	case KindDownloadRejected:
		return "download rejected: the session is probably stale, refresh cookies"
	case KindExtractionFailed:
		return "page state not found: the site layout may have changed"
	case KindTokenNotFound:
		return "download token missing: the page state schema may have changed"
	case KindHTTPError:
		return "request failed: the tab may not exist or the site is unavailable"
	case KindIOError:
		return "could not write the file: check the output directory"
	default:
		return ""
	}
}

// FetchError is the terminal error of one tab's fetch pipeline.
type FetchError struct {
	Kind FailureKind
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Kind, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError wraps err with a failure kind for url.
func NewFetchError(kind FailureKind, url string, err error) *FetchError {
	return &FetchError{Kind: kind, URL: url, Err: err}
}

// KindOf returns the failure kind carried by err.
//
// A nil error yields KindNone; errors that are not a *FetchError yield KindUnknown.
func KindOf(err error) FailureKind {
	if err == nil {
		return KindNone
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// Outcome is the per-URL result of a batch download.
type Outcome struct {
	URL      string
	Artifact *TabArtifact
	Err      error
}

// Succeeded reports whether the tab was downloaded.
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// Kind returns the failure kind of the outcome, KindNone on success.
func (o Outcome) Kind() FailureKind {
	return KindOf(o.Err)
}
