package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/handiism/ugtabs/internal/config"
	"github.com/handiism/ugtabs/internal/http"
	"github.com/handiism/ugtabs/internal/observability"
)

// DefaultConfigFile is read from the working directory when present.
const DefaultConfigFile = "ugtabs.yaml"

// errInterrupted is returned by commands stopped by SIGINT/SIGTERM.
var errInterrupted = errors.New("interrupted")

// errIncomplete is returned when a command finished but some work failed.
var errIncomplete = errors.New("completed with failures")

type app struct {
	configFile  string
	cookiesFile string
	outputDir   string
	verbose     bool
	debug       bool

	settings *config.Settings
	logger   *zap.Logger
	printer  *printer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{}
	err := newRootCommand(a).ExecuteContext(ctx)
	observability.Sync()

	switch {
	case err == nil:
	case errors.Is(err, errInterrupted) || ctx.Err() != nil:
		fmt.Fprintln(os.Stderr, "\nInterrupted.")
		os.Exit(130)
	case errors.Is(err, errIncomplete):
		os.Exit(1)
	default:
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "ugtabs",
		Short: "Download Guitar Pro tabs from Ultimate Guitar",
		Long: `ugtabs downloads Guitar Pro tabs from Ultimate Guitar with your browser session.

Export your ultimate-guitar.com cookies to cookies.json first
(see "ugtabs cookies template"), then run:

  ugtabs download in.txt

For interactive mode, use: ugtabs-tui`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", DefaultConfigFile, "Path to config file (JSON or YAML)")
	flags.StringVar(&a.cookiesFile, "cookies", "", "Path to cookies file (overrides config)")
	flags.StringVarP(&a.outputDir, "output", "o", "", "Output directory (overrides config)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Show verbose output")
	flags.BoolVar(&a.debug, "debug", false, "Write debug logs to stderr")

	root.AddCommand(
		newDownloadCommand(a),
		newScrapeCommand(a),
		newArtistCommand(a),
		newCookiesCommand(a),
		newConfigCommand(a),
	)
	return root
}

// setup loads settings, applies flags and initializes logging.
func (a *app) setup(cmd *cobra.Command) error {
	settings, err := config.Load(a.configFile)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("cookies") {
		settings.CookiesFile = a.cookiesFile
	}
	if cmd.Flags().Changed("output") {
		settings.OutputDir = a.outputDir
	}
	if a.debug {
		settings.Logger.Console = true
		settings.Logger.Level = "debug"
	}

	observability.InitializeLogger(settings.Logger)

	a.settings = settings
	a.logger = observability.GetLogger()
	a.printer = newPrinter(os.Stdout, a.verbose || a.debug)
	return nil
}

// newClient loads the cookie file and builds the HTTP client.
func (a *app) newClient() (*http.Client, error) {
	cookies, err := config.LoadCookies(a.settings.CookiesFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("cookies file %s not found, create one with \"ugtabs cookies template\" or \"ugtabs cookies enter\"", a.settings.CookiesFile)
		}
		return nil, err
	}

	a.printer.Verbose(fmt.Sprintf("Loaded %d cookies from %s", len(cookies), a.settings.CookiesFile))
	for _, issue := range config.AnalyzeCookies(cookies) {
		a.printer.Warning(issue)
	}

	return http.NewClient(http.NewSession(cookies), http.ClientConfig{
		TimeoutSeconds: int(a.settings.Timeout / time.Second),
		ProxyURL:       a.settings.ProxyURL,
	})
}
