// Package ultimateguitar reads the client state Ultimate Guitar embeds in
// its HTML pages and derives what the downloader needs from it.
//
// The package handles three concerns:
//
//  1. Extracting the page state from the data-content attribute
//  2. Reading the session identity and the download token from it
//  3. Reading tab listings and pagination from artist pages
//
// # Page State
//
// Every page carries its state as entity-escaped JSON:
//
//	<div class="js-store" data-content="{&quot;store&quot;:{&quot;user&quot;:{...}}}"></div>
//
// Use an Extractor to decode it:
//
//	extractor, _ := ultimateguitar.NewExtractor("regex")
//	state, err := extractor.Extract(pageHTML)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Session and Token
//
//	auth := ultimateguitar.Validate(state)
//	if !auth.Authenticated {
//	    // cookies are stale
//	}
//
//	token, err := ultimateguitar.Resolve(state)
//	var notFound *ultimateguitar.TokenNotFoundError
//	if errors.As(err, &notFound) {
//	    fmt.Println(notFound.AvailableKeys)
//	}
//	downloadURL := ultimateguitar.DownloadURL(token)
//
// No key of the state is guaranteed to exist. Missing keys degrade to
// defaults (Validate) or typed errors (Resolve), never to panics.
package ultimateguitar
