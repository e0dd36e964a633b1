package main

import (
	"errors"
	"os"

	bbc "github.com/elkarte/go-bbc"
	"github.com/elkarte/go-bbc/internal/config"
)

// Exit codes for bbc2html CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess    = 0 // Successful render
	ExitGeneral    = 1 // General/unexpected error
	ExitUsage      = 2 // Invalid flags, config, or validation
	ExitIO         = 3 // File not found, permission denied
	ExitDataSource = 4 // Database, Redis or smiley source errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Data source errors (exit 4)
	if errors.Is(err, ErrDatabase) ||
		errors.Is(err, ErrCacheConnect) ||
		errors.Is(err, bbc.ErrSmileySource) {
		return ExitDataSource
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMessage) ||
		errors.Is(err, ErrWriteHTML) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, bbc.ErrEmptyMessage) ||
		errors.Is(err, bbc.ErrMessageTooLarge) ||
		errors.Is(err, bbc.ErrInvalidInput) ||
		errors.Is(err, bbc.ErrSmileySetNotFound) ||
		errors.Is(err, bbc.ErrStyleNotFound) ||
		errors.Is(err, bbc.ErrInvalidAssetPath) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidMaxSize) {
		return ExitUsage
	}

	return ExitGeneral
}
