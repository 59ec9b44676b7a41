package model

import (
	"net/url"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// dispositionFileName matches both filename= and filename*= parameters.
	dispositionFileName = regexp.MustCompile(`filename[*]?=["']?([^"';\n]*)`)

	// dispositionExtFileName matches the RFC 5987 form: filename*=UTF-8''name.gp
	dispositionExtFileName = regexp.MustCompile(`filename\*=[^']*'[^']*'([^"';\n]*)`)

	trailingDigits = regexp.MustCompile(`(\d+)$`)
)

// TabArtifact is a tab file downloaded from Ultimate Guitar.
//
// An artifact is created once per successful fetch, written to disk right
// away, and its Content is released after the write. FileName and Path are
// computed when the artifact is created via NewTabArtifact.
//
// Example:
//
//	cfg := &PathConfig{OutputDir: "output", FallbackExtension: ".gp"}
//	artifact := NewTabArtifact(tabURL, resp.Header.Get("Content-Disposition"), body, cfg)
//	// artifact.Path = "output/Ghost - Kaisarion (ver 1).gp"
type TabArtifact struct {
	// SourceURL is the tab page URL the artifact was resolved from.
	SourceURL string

	// FileName is the sanitized file name, taken from Content-Disposition
	// or derived from the trailing numeric ID of SourceURL.
	FileName string

	// Path is OutputDir joined with FileName.
	Path string

	// Content holds the downloaded bytes until Release is called.
	Content []byte

	// Size is the number of bytes downloaded. It survives Release.
	Size int64
}

// PathConfig holds output location settings for tab artifacts.
type PathConfig struct {
	// OutputDir is the directory all tab files are written to.
	OutputDir string

	// FallbackExtension is appended to generated names when the server
	// does not suggest one. Must include the dot.
	FallbackExtension string
}

// NewTabArtifact creates a TabArtifact with computed file name and path.
//
// The file name comes from the Content-Disposition header (percent-decoded)
// when present, falling back to "tab_<id><ext>" where id is the trailing
// digit run of sourceURL, or "unknown" when the URL does not end in digits.
func NewTabArtifact(sourceURL, contentDisposition string, content []byte, cfg *PathConfig) *TabArtifact {
	artifact := &TabArtifact{
		SourceURL: sourceURL,
		Content:   content,
		Size:      int64(len(content)),
	}

	artifact.FileName = parseFileName(sourceURL, contentDisposition, cfg)
	artifact.Path = artifact.parseFilePath(cfg)

	return artifact
}

// Release drops the in-memory content once it has been persisted.
func (a *TabArtifact) Release() {
	a.Content = nil
}

// parseFilePath computes the full file path for this artifact.
func (a *TabArtifact) parseFilePath(cfg *PathConfig) string {
	filePath := filepath.Join(cfg.OutputDir, a.FileName)

	// Limit total path length for Windows compatibility (MAX_PATH = 260)
	if len(filePath) >= 260 {
		ext := filepath.Ext(a.FileName)
		maxLen := 259 - len(filepath.Join(cfg.OutputDir, "x")) + 1 - len(ext)
		stem := strings.TrimSuffix(a.FileName, ext)
		if maxLen > 0 && maxLen < len(stem) {
			a.FileName = stem[:maxLen] + ext
			filePath = filepath.Join(cfg.OutputDir, a.FileName)
		}
	}

	return filePath
}

// parseFileName derives the artifact file name.
func parseFileName(sourceURL, contentDisposition string, cfg *PathConfig) string {
	if name := FileNameFromDisposition(contentDisposition); name != "" {
		return name
	}
	return FallbackFileName(sourceURL, cfg.FallbackExtension)
}

// FileNameFromDisposition extracts and sanitizes the file name suggested by a
// Content-Disposition header. Returns "" when the header carries none.
//
// Example:
//
//	FileNameFromDisposition(`attachment; filename="Ghost%20-%20Kaisarion.gp"`)
//	// Returns "Ghost - Kaisarion.gp"
func FileNameFromDisposition(contentDisposition string) string {
	if contentDisposition == "" {
		return ""
	}

	var raw string
	if m := dispositionExtFileName.FindStringSubmatch(contentDisposition); m != nil {
		raw = m[1]
	} else if m := dispositionFileName.FindStringSubmatch(contentDisposition); m != nil {
		raw = m[1]
	}

	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}

	// Server-suggested names must never leave the output directory.
	raw = strings.ReplaceAll(raw, `\`, "/")
	name := sanitizeFileName(path.Base(raw))
	if name == "" || name == "." || name == "/" {
		return ""
	}
	return name
}

// FallbackFileName builds "tab_<id><ext>" from the trailing digits of tabURL.
//
// Example:
//
//	FallbackFileName("https://tabs.ultimate-guitar.com/tab/ghost/kaisarion-guitar-pro-4104691", ".gp")
//	// Returns "tab_4104691.gp"
func FallbackFileName(tabURL, ext string) string {
	id := "unknown"
	if m := trailingDigits.FindString(tabURL); m != "" {
		id = m
	}
	return "tab_" + id + ext
}

// sanitizeFileName removes or replaces characters that are invalid in file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars) are replaced with underscore
//   - Trailing dots are removed (Windows limitation)
//   - Multiple whitespace is collapsed to single space
//   - Leading and trailing whitespace is removed
//
// Example:
//
//	sanitizeFileName("Song: Part 1/2") // Returns "Song_ Part 1_2"
func sanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = whitespace.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

var (
	invalidChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots = regexp.MustCompile(`\.+$`)
	whitespace   = regexp.MustCompile(`\s+`)
)
