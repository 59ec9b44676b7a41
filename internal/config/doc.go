// Package config provides configuration management for ugtabs.
//
// This package handles:
//   - Loading settings from JSON or YAML files through viper
//   - UGTABS_* environment overrides
//   - Default configuration values
//   - Reading, writing and checking cookie files
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Tabs are written to ./output
//	// Artist scrapes go to in_scraped.txt, 2s between pages
//
// # Loading from File
//
//	settings, err := config.Load("~/.config/ugtabs/config.yaml")
//	// Uses defaults if the file doesn't exist
//
// Any setting can be overridden from the environment:
//
//	UGTABS_OUTPUT_DIR=/tmp/tabs UGTABS_SCRAPE_MAX_PAGES=5 ugtabs scrape ...
//
// # Cookies
//
//	cookies, err := config.LoadCookies(settings.CookiesFile)
//	for _, issue := range config.AnalyzeCookies(cookies) {
//	    fmt.Println(issue)
//	}
package config
