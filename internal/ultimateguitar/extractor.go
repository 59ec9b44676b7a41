package ultimateguitar

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	xhtml "golang.org/x/net/html"
)

// Extractor locates and decodes the page state embedded in an Ultimate
// Guitar page.
//
// Implementations return ErrPageStateNotFound when the page has no state
// and a *MalformedJSONError when the state does not decode to an object.
type Extractor interface {
	Extract(htmlContent string) (State, error)
}

const (
	// ExtractorRegex selects RegexExtractor.
	ExtractorRegex = "regex"

	// ExtractorTokenizer selects TokenizerExtractor.
	ExtractorTokenizer = "tokenizer"
)

// NewExtractor returns the extractor registered under name.
// An empty name selects the regex extractor.
func NewExtractor(name string) (Extractor, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ExtractorRegex:
		return NewRegexExtractor(), nil
	case ExtractorTokenizer:
		return NewTokenizerExtractor(), nil
	default:
		return nil, fmt.Errorf("unknown extractor %q (want %q or %q)", name, ExtractorRegex, ExtractorTokenizer)
	}
}

// pageState matches the data-content attribute. JSON quotes inside the
// attribute are always entity-escaped, so the first `}"` closes it.
var pageState = regexp.MustCompile(`data-content="(\{.+?\})"`)

// RegexExtractor finds the page state with a single regular expression.
//
// Ultimate Guitar embeds its client state in an HTML attribute:
//
//	<div class="js-store" data-content="{&quot;store&quot;:{...}}"></div>
//
// RegexExtractor captures the attribute value, HTML-unescapes it and
// decodes the JSON.
//
// Example usage:
//
//	extractor := NewRegexExtractor()
//
//	state, err := extractor.Extract(pageHTML)
//	if errors.Is(err, ErrPageStateNotFound) {
//	    // dump the page and look at the markup
//	}
type RegexExtractor struct{}

// NewRegexExtractor creates a new RegexExtractor.
func NewRegexExtractor() *RegexExtractor {
	return &RegexExtractor{}
}

// Extract implements Extractor.
func (e *RegexExtractor) Extract(htmlContent string) (State, error) {
	m := pageState.FindStringSubmatch(htmlContent)
	if m == nil {
		return nil, ErrPageStateNotFound
	}
	return decodeState(html.UnescapeString(m[1]))
}

// TokenizerExtractor finds the page state by walking HTML tokens.
//
// It returns the first data-content attribute whose value is a JSON object.
// The tokenizer unescapes entities itself, so the value is decoded as is.
// Unlike RegexExtractor it tolerates attributes split across lines and
// single-quoted attributes.
type TokenizerExtractor struct{}

// NewTokenizerExtractor creates a new TokenizerExtractor.
func NewTokenizerExtractor() *TokenizerExtractor {
	return &TokenizerExtractor{}
}

// Extract implements Extractor.
func (e *TokenizerExtractor) Extract(htmlContent string) (State, error) {
	z := xhtml.NewTokenizer(strings.NewReader(htmlContent))

	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			// io.EOF or a tokenizer failure: either way the state was not seen.
			return nil, ErrPageStateNotFound

		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			token := z.Token()
			for _, attr := range token.Attr {
				if attr.Key == "data-content" && strings.HasPrefix(attr.Val, "{") {
					return decodeState(attr.Val)
				}
			}
		}
	}
}
