package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/handiism/ugtabs/internal/config"
	"github.com/handiism/ugtabs/internal/observability"
	"github.com/handiism/ugtabs/internal/tui"
)

func main() {
	var (
		configFlag  = flag.String("config", "ugtabs.yaml", "Path to config file")
		cookiesFlag = flag.String("cookies", "", "Path to cookies file (overrides config)")
		outputFlag  = flag.String("output", "", "Output directory (overrides config)")
	)
	flag.Parse()

	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *cookiesFlag != "" {
		settings.CookiesFile = *cookiesFlag
	}
	if *outputFlag != "" {
		settings.OutputDir = *outputFlag
	}

	// The alternate screen owns the terminal; logs only go to the file sink.
	settings.Logger.Console = false
	observability.InitializeLogger(settings.Logger)
	defer observability.Sync()

	if err := tui.Run(settings, observability.GetLogger()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
