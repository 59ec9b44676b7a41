// Package scrape collects Guitar Pro tab URLs from an artist's listing on
// Ultimate Guitar.
//
// The listing at <artist-url>?filter=guitar_pro&page=N is walked page by
// page, at most one request per Scrape.Delay. The result is meant to be
// written with ioutils.WriteURLList and fed to the download command.
//
//	scraper, err := scrape.NewScraper(settings, client, logger, onProgress)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	urls, err := scraper.ScrapeArtist(ctx, artistURL)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = ioutils.WriteURLList(ctx, settings.Scrape.OutputFile, urls)
package scrape
