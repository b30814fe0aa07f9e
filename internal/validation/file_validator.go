// Package validation checks the files a report run reads and writes
// before any work starts.
package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrInputNotFound is returned when the census file does not exist
	ErrInputNotFound = errors.New("input file does not exist")
	// ErrInputEmpty is returned for a zero-byte census file
	ErrInputEmpty = errors.New("input file is empty")
	// ErrNotWritable is returned when the output directory cannot be written
	ErrNotWritable = errors.New("output directory is not writable")
)

// FileValidator validates the census input file and the output directory
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger}
}

// ValidateCensusInput checks that path is a readable, non-empty regular
// file. A name without a .csv extension is only logged.
func (v *FileValidator) ValidateCensusInput(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat input %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("input %s is a directory, not a file", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrInputEmpty, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("input %s is not readable: %w", path, err)
	}
	file.Close()

	if ext := strings.ToLower(filepath.Ext(path)); ext != ".csv" {
		v.logger.Warn("input_extension_unexpected",
			slog.String("file", path),
			slog.String("extension", ext))
	}

	v.logger.Debug("input_validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory verifies that dir is an existing, writable directory
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to stat output directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output %s is not a directory", dir)
	}

	probe, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotWritable, dir, err)
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)

	v.logger.Debug("output_directory_validated", slog.String("directory", dir))
	return nil
}
