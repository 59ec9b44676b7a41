package ioutils

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseURLList(t *testing.T) {
	input := strings.Join([]string{
		"https://tabs.ultimate-guitar.com/tab/ghost/kaisarion-guitar-pro-4104691",
		"",
		"   ",
		"  https://www.ultimate-guitar.com/tab/metallica/one-guitar-pro-225441  ",
		"# comment",
		"https://example.com/tab/1",
		"ftp://tabs.ultimate-guitar.com/tab/x",
		"https://ultimate-guitar.com.evil.org/tab/2",
	}, "\n")

	list, err := ParseURLList(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"https://tabs.ultimate-guitar.com/tab/ghost/kaisarion-guitar-pro-4104691",
		"https://www.ultimate-guitar.com/tab/metallica/one-guitar-pro-225441",
	}
	if len(list.URLs) != len(want) {
		t.Fatalf("got %d URLs, want %d: %v", len(list.URLs), len(want), list.URLs)
	}
	for i := range want {
		if list.URLs[i] != want[i] {
			t.Errorf("URLs[%d] = %q, want %q", i, list.URLs[i], want[i])
		}
	}
	if len(list.Skipped) != 4 {
		t.Errorf("got %d skipped lines, want 4: %v", len(list.Skipped), list.Skipped)
	}
}

func TestIsSiteURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.ultimate-guitar.com/", true},
		{"https://tabs.ultimate-guitar.com/tab/a/b-1", true},
		{"http://ultimate-guitar.com/artist/x", true},
		{"https://ULTIMATE-GUITAR.COM/tab/1", true},
		{"https://example.com", false},
		{"https://fakeultimate-guitar.com/tab/1", false},
		{"tabs.ultimate-guitar.com/tab/1", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := IsSiteURL(tt.url); got != tt.want {
				t.Errorf("IsSiteURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestReadURLList_Missing(t *testing.T) {
	if _, err := ReadURLList(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteURLList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in_scraped.txt")
	urls := []string{
		"https://tabs.ultimate-guitar.com/tab/b",
		"https://tabs.ultimate-guitar.com/tab/a",
	}

	if err := WriteURLList(context.Background(), path, urls); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "https://tabs.ultimate-guitar.com/tab/a\nhttps://tabs.ultimate-guitar.com/tab/b\n"
	if string(data) != want {
		t.Errorf("file content = %q, want %q", data, want)
	}
	if urls[0] != "https://tabs.ultimate-guitar.com/tab/b" {
		t.Error("WriteURLList must not reorder the caller's slice")
	}

	list, err := ReadURLList(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(list.URLs) != 2 {
		t.Errorf("round trip got %d URLs, want 2", len(list.URLs))
	}
}

func TestWriteFile_CreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output", "nested", "tab.gp")

	if err := WriteFile(context.Background(), path, []byte("GP")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file not written: %v", err)
	}
}

func TestWriteFile_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "tab.gp")
	if err := WriteFile(ctx, path, []byte("GP")); err == nil {
		t.Error("expected error for canceled context")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("nothing should be written after cancellation")
	}
}

func TestDumpDiagnostic(t *testing.T) {
	dir := t.TempDir()

	path, err := DumpDiagnostic(context.Background(), dir, "debug_page_content.html", []byte("<html>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != filepath.Join(dir, "debug_page_content.html") {
		t.Errorf("path = %q", path)
	}
}
