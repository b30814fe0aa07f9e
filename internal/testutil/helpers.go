// Package testutil holds fixtures and file helpers shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// PNGMagic and PDFMagic are the leading bytes of the rendered artifacts
var (
	PNGMagic = []byte("\x89PNG")
	PDFMagic = []byte("%PDF")
)

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	return path
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// AssertNonEmptyFile fails the test unless path exists with at least one byte
func AssertNonEmptyFile(t *testing.T, path string) {
	t.Helper()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("file %s: %v", path, err)
	}
	if info.Size() == 0 {
		t.Errorf("file %s is empty", path)
	}
}

// AssertFilePrefix checks that a file starts with the given magic bytes
func AssertFilePrefix(t *testing.T, path string, prefix []byte) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}
	if len(data) < len(prefix) || string(data[:len(prefix)]) != string(prefix) {
		t.Errorf("file %s does not start with %q", path, prefix)
	}
}
