package ioutils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile writes data to a file, creating it and its parent directory if necessary.
//
// The file is created with mode 0644. If the file already exists,
// it is truncated before writing.
//
// Parameters:
//   - ctx: Context checked before the write starts
//   - path: File path to write to
//   - data: Bytes to write
//
// Example:
//
//	err := WriteFile(ctx, "output/Ghost - Kaisarion.gp", body)
func WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := EnsureDir(dir); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
//
// Example:
//
//	err := EnsureDir("output")
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// DumpDiagnostic writes data to dir/name for offline analysis and returns
// the path written. Diagnostics overwrite the previous dump of the same name.
//
// Example:
//
//	path, err := DumpDiagnostic(ctx, ".", "debug_page_content.html", body)
func DumpDiagnostic(ctx context.Context, dir, name string, data []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, name)
	if err := WriteFile(ctx, path, data); err != nil {
		return "", fmt.Errorf("failed to write diagnostic %s: %w", path, err)
	}
	return path, nil
}
