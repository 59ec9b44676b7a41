package ioutils

import (
	"bufio"
	"context"
	"io"
	"net/url"
	"os"
	"sort"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// SiteDomain is the registrable domain every input URL must belong to.
const SiteDomain = "ultimate-guitar.com"

// URLList is the parsed content of a newline-delimited URL file.
type URLList struct {
	// URLs are the accepted URLs in file order.
	URLs []string

	// Skipped are non-blank lines that were not accepted.
	Skipped []string
}

// ReadURLList reads a newline-delimited URL file.
//
// Example:
//
//	list, err := ReadURLList("in.txt")
//	for _, line := range list.Skipped {
//	    log.Printf("skipping %q", line)
//	}
func ReadURLList(path string) (*URLList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseURLList(f)
}

// ParseURLList reads one URL per line. Blank lines are ignored; lines that
// are not http(s) URLs on ultimate-guitar.com are reported as skipped.
func ParseURLList(r io.Reader) (*URLList, error) {
	list := &URLList{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !IsSiteURL(line) {
			list.Skipped = append(list.Skipped, line)
			continue
		}
		list.URLs = append(list.URLs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// IsSiteURL reports whether raw is an http(s) URL whose registrable domain
// is ultimate-guitar.com (www., tabs. and so on).
func IsSiteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return false
	}
	return domain == SiteDomain
}

// WriteURLList writes urls sorted, one per line.
func WriteURLList(ctx context.Context, path string, urls []string) error {
	sorted := make([]string, len(urls))
	copy(sorted, urls)
	sort.Strings(sorted)

	var b strings.Builder
	for _, u := range sorted {
		b.WriteString(u)
		b.WriteByte('\n')
	}
	return WriteFile(ctx, path, []byte(b.String()))
}
