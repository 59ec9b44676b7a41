package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/handiism/ugtabs/internal/download"
	ioutils "github.com/handiism/ugtabs/internal/io"
)

func newDownloadCommand(a *app) *cobra.Command {
	var reportFile string

	cmd := &cobra.Command{
		Use:   "download <file|url>",
		Short: "Download every tab URL listed in a file",
		Long: `Download every tab URL listed in a file, one per line.

Blank lines are ignored. Lines that are not ultimate-guitar.com URLs are
skipped with a warning. A single tab URL may be passed instead of a file.`,
		Example: `  ugtabs download in.txt
  ugtabs download in.txt --report report.yaml
  ugtabs download https://tabs.ultimate-guitar.com/tab/ghost/kaisarion-guitar-pro-4104691`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			urls, err := a.readInput(args[0])
			if err != nil {
				return err
			}
			if len(urls) == 0 {
				return fmt.Errorf("no tab URLs in %s", args[0])
			}

			client, err := a.newClient()
			if err != nil {
				return err
			}
			manager, err := download.NewManager(a.settings, client, a.logger, a.printer.Event)
			if err != nil {
				return err
			}

			a.printer.Banner("🎸 Ultimate Guitar Tab Downloader")
			a.printer.Info(fmt.Sprintf("Downloading %d tabs to %s", len(urls), a.settings.OutputDir))
			a.printer.Verbose("Batch " + manager.BatchID())

			summary := manager.Run(ctx, urls)
			a.printer.Summary(summary)

			if reportFile != "" {
				if err := download.WriteReport(ctx, reportFile, summary); err != nil {
					a.printer.Error(fmt.Sprintf("Could not write report: %v", err))
				} else {
					a.printer.Info("Report written to " + reportFile)
				}
			}

			switch {
			case len(summary.Skipped) > 0:
				return errInterrupted
			case summary.Succeeded() < summary.Total:
				return errIncomplete
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&reportFile, "report", "", "Write a YAML report of the batch to this file")
	return cmd
}

// readInput returns the tab URLs named by arg: a single tab URL or a URL list file.
func (a *app) readInput(arg string) ([]string, error) {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		if !ioutils.IsSiteURL(arg) {
			return nil, fmt.Errorf("%s is not an %s URL", arg, ioutils.SiteDomain)
		}
		return []string{arg}, nil
	}

	list, err := ioutils.ReadURLList(arg)
	if err != nil {
		return nil, fmt.Errorf("could not read URL list: %w", err)
	}
	for _, line := range list.Skipped {
		a.printer.Warning(fmt.Sprintf("Skipping %q: not an %s URL", line, ioutils.SiteDomain))
	}
	return list.URLs, nil
}
