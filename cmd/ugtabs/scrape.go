package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	ioutils "github.com/handiism/ugtabs/internal/io"
	"github.com/handiism/ugtabs/internal/scrape"
)

func newScrapeCommand(a *app) *cobra.Command {
	var (
		infoOnly bool
		urlsFile string
	)

	cmd := &cobra.Command{
		Use:   "scrape <artist-url>",
		Short: "Collect an artist's Guitar Pro tab URLs into a URL list",
		Example: `  ugtabs scrape https://www.ultimate-guitar.com/artist/ghost_52297
  ugtabs scrape https://www.ultimate-guitar.com/artist/ghost_52297 --urls-file ghost.txt
  ugtabs download ghost.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			artistURL := args[0]
			if !ioutils.IsSiteURL(artistURL) {
				return fmt.Errorf("%s is not an %s URL", artistURL, ioutils.SiteDomain)
			}

			scraper, err := a.newScraper()
			if err != nil {
				return err
			}
			if infoOnly {
				return a.printArtistInfo(cmd, scraper, artistURL)
			}

			if cmd.Flags().Changed("urls-file") {
				a.settings.Scrape.OutputFile = urlsFile
			}

			a.printer.Banner("🎸 Ultimate Guitar Artist Scraper")
			urls, err := scraper.ScrapeArtist(ctx, artistURL)
			if ctx.Err() != nil {
				if len(urls) > 0 {
					a.printer.Warning(fmt.Sprintf("Interrupted with %d tabs collected, nothing written", len(urls)))
				}
				return errInterrupted
			}
			if errors.Is(err, scrape.ErrNoTabsFound) {
				a.printer.Warning("No Guitar Pro tabs found for this artist")
				return errIncomplete
			}
			if err != nil {
				return err
			}

			if err := ioutils.WriteURLList(ctx, a.settings.Scrape.OutputFile, urls); err != nil {
				return fmt.Errorf("could not write %s: %w", a.settings.Scrape.OutputFile, err)
			}
			a.printer.Success(fmt.Sprintf("Saved %d tab URLs to %s", len(urls), a.settings.Scrape.OutputFile))
			a.printer.Info(fmt.Sprintf("Next: ugtabs download %s", a.settings.Scrape.OutputFile))
			return nil
		},
	}

	cmd.Flags().BoolVar(&infoOnly, "info-only", false, "Only print the artist name and tab count")
	cmd.Flags().StringVarP(&urlsFile, "urls-file", "f", "", "Where to write the URL list (overrides config)")
	return cmd
}

func newArtistCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "artist <artist-url>",
		Short: "Print an artist's name and tab count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !ioutils.IsSiteURL(args[0]) {
				return fmt.Errorf("%s is not an %s URL", args[0], ioutils.SiteDomain)
			}
			scraper, err := a.newScraper()
			if err != nil {
				return err
			}
			return a.printArtistInfo(cmd, scraper, args[0])
		},
	}
}

func (a *app) newScraper() (*scrape.Scraper, error) {
	client, err := a.newClient()
	if err != nil {
		return nil, err
	}
	return scrape.NewScraper(a.settings, client, a.logger, a.printer.Event)
}

func (a *app) printArtistInfo(cmd *cobra.Command, scraper *scrape.Scraper, artistURL string) error {
	info, err := scraper.ArtistInfo(cmd.Context(), artistURL)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	defer enc.Close()
	return enc.Encode(info)
}
