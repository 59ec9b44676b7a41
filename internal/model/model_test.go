package model

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-file.gp", "normal-file.gp"},
		{"file:with:colons.gp", "file_with_colons.gp"},
		{"file<with>brackets.gp", "file_with_brackets.gp"},
		{"file/with\\slashes.gp", "file_with_slashes.gp"},
		{"file|with|pipes.gp", "file_with_pipes.gp"},
		{"file?with*wildcards.gp", "file_with_wildcards.gp"},
		{"file\"with\"quotes.gp", "file_with_quotes.gp"},
		{"trailing dots...", "trailing dots"},
		{"multiple   spaces", "multiple spaces"},
		{"trailing spaces   ", "trailing spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := sanitizeFileName(tt.input)
			if got != tt.want {
				t.Errorf("sanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFileNameFromDisposition(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty header", "", ""},
		{"quoted", `attachment; filename="Ghost - Kaisarion.gp"`, "Ghost - Kaisarion.gp"},
		{"unquoted", `attachment; filename=Kaisarion.gp5`, "Kaisarion.gp5"},
		{"percent encoded", `attachment; filename="Ghost%20-%20Kaisarion.gp"`, "Ghost - Kaisarion.gp"},
		{"rfc 5987", `attachment; filename*=UTF-8''Dance%20Gavin%20Dance.gpx`, "Dance Gavin Dance.gpx"},
		{"both forms prefer extended", `attachment; filename="a.gp"; filename*=UTF-8''b%20c.gp`, "b c.gp"},
		{"single quotes", `attachment; filename='Song.gp'`, "Song.gp"},
		{"path traversal", `attachment; filename="../../etc/passwd"`, "passwd"},
		{"windows traversal", `attachment; filename="..\..\evil.gp"`, "evil.gp"},
		{"no filename parameter", `attachment`, ""},
		{"bad escape kept raw", `attachment; filename="100%.gp"`, "100%.gp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FileNameFromDisposition(tt.header); got != tt.want {
				t.Errorf("FileNameFromDisposition(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestFallbackFileName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://tabs.ultimate-guitar.com/tab/ghost/kaisarion-guitar-pro-4104691", "tab_4104691.gp"},
		{"https://tabs.ultimate-guitar.com/tab/metallica/nothing-else-matters-guitar-pro-225441", "tab_225441.gp"},
		{"https://tabs.ultimate-guitar.com/tab/ghost/kaisarion/", "tab_unknown.gp"},
		{"https://tabs.ultimate-guitar.com/tab/ghost/kaisarion-123?x=y", "tab_unknown.gp"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FallbackFileName(tt.url, ".gp"); got != tt.want {
				t.Errorf("FallbackFileName(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestNewTabArtifact(t *testing.T) {
	cfg := &PathConfig{OutputDir: "output", FallbackExtension: ".gp"}

	withHeader := NewTabArtifact("https://tabs.ultimate-guitar.com/tab/a/b-42", `attachment; filename="A - B.gp"`, []byte("GP"), cfg)
	if want := filepath.Join("output", "A - B.gp"); withHeader.Path != want {
		t.Errorf("Path = %q, want %q", withHeader.Path, want)
	}
	if withHeader.Size != 2 {
		t.Errorf("Size = %d, want 2", withHeader.Size)
	}

	fallback := NewTabArtifact("https://tabs.ultimate-guitar.com/tab/a/b-42", "", []byte("GP"), cfg)
	if fallback.FileName != "tab_42.gp" {
		t.Errorf("FileName = %q, want %q", fallback.FileName, "tab_42.gp")
	}

	fallback.Release()
	if fallback.Content != nil {
		t.Error("Release should drop content")
	}
	if fallback.Size != 2 {
		t.Error("Release should keep size")
	}
}

func TestNewTabArtifact_LongName(t *testing.T) {
	cfg := &PathConfig{OutputDir: "output", FallbackExtension: ".gp"}
	long := strings.Repeat("a", 300) + ".gp"

	artifact := NewTabArtifact("https://x/1", `attachment; filename="`+long+`"`, nil, cfg)
	if len(artifact.Path) >= 260 {
		t.Errorf("path length = %d, want < 260", len(artifact.Path))
	}
	if filepath.Ext(artifact.Path) != ".gp" {
		t.Errorf("extension lost: %q", artifact.Path)
	}
}

func TestKindOf(t *testing.T) {
	base := errors.New("boom")
	wrapped := fmt.Errorf("batch: %w", NewFetchError(KindTokenNotFound, "u", base))

	if got := KindOf(nil); got != KindNone {
		t.Errorf("KindOf(nil) = %v", got)
	}
	if got := KindOf(base); got != KindUnknown {
		t.Errorf("KindOf(plain) = %v", got)
	}
	if got := KindOf(wrapped); got != KindTokenNotFound {
		t.Errorf("KindOf(wrapped) = %v", got)
	}
	if !errors.Is(wrapped, base) {
		t.Error("FetchError should unwrap to its cause")
	}
}

func TestFailureKind_String(t *testing.T) {
	tests := []struct {
		kind FailureKind
		want string
	}{
		{KindHTTPError, "HttpError"},
		{KindExtractionFailed, "ExtractionFailed"},
		{KindAnonymousSession, "AnonymousSession"},
		{KindTokenNotFound, "TokenNotFound"},
		{KindDownloadRejected, "DownloadRejected"},
		{KindIOError, "IoError"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if tt.kind.Hint() == "" {
				t.Error("every failure kind should have a hint")
			}
		})
	}
}
