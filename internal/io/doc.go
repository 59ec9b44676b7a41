// Package ioutils provides file system utilities for ugtabs.
//
// This package contains functions for:
//   - Reading and writing newline-delimited URL lists
//   - File writing with directory creation
//   - Diagnostic dumps for offline analysis
//
// # URL Lists
//
//	list, err := ioutils.ReadURLList("in.txt")
//	// list.URLs holds the ultimate-guitar.com URLs in file order
//
//	err = ioutils.WriteURLList(ctx, "in_scraped.txt", urls) // sorted
//
// # Diagnostics
//
//	path, err := ioutils.DumpDiagnostic(ctx, ".", "debug_page_content.html", body)
package ioutils
