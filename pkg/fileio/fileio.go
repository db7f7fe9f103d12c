// =============================================================================
// Bank Transaction Interchange - File Utilities
// =============================================================================
//
// File helpers for the CLI tools: reading and writing whole files,
// directory management and output naming. The codec library never
// touches the file system; everything here belongs to the tool layer.
//
// =============================================================================

package fileio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ReadFile reads a whole input file.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// WriteFile writes output atomically enough for a CLI: it writes to a
// temporary sibling and renames over the target.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".banktx-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}

// EnsureDir creates a directory if it does not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// OutputName expands a naming pattern for a generated file.
//
// Supported tokens: {uuid}, {stem} (input file name without extension),
// {format} and {timestamp} (UTC, 20060102T150405). The appropriate
// extension for the target format is appended.
func OutputName(pattern, inputPath, format, ext string) string {
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	name := pattern
	name = strings.ReplaceAll(name, "{uuid}", uuid.New().String())
	name = strings.ReplaceAll(name, "{stem}", stem)
	name = strings.ReplaceAll(name, "{format}", format)
	name = strings.ReplaceAll(name, "{timestamp}", time.Now().UTC().Format("20060102T150405"))
	return name + ext
}
