package main

import (
	"errors"
	"os"

	receipt "github.com/mmurali/go-receipt"
	"github.com/mmurali/go-receipt/internal/config"
	"github.com/mmurali/go-receipt/internal/dateutil"
)

// Exit codes for the go-receipt CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage.
const (
	ExitSuccess = 0 // All receipts generated
	ExitGeneral = 1 // General/unexpected error, or some receipts failed
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadTemplate) ||
		errors.Is(err, ErrReadDonors) ||
		errors.Is(err, receipt.ErrWriteReceipt) ||
		errors.Is(err, receipt.ErrInvalidOutputDir) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, receipt.ErrInvalidDateFormat) ||
		errors.Is(err, receipt.ErrEmptyTemplate) ||
		errors.Is(err, receipt.ErrMissingDonorField) ||
		errors.Is(err, ErrNoTemplate) ||
		errors.Is(err, ErrNoDonors) ||
		errors.Is(err, ErrBadHeader) {
		return ExitUsage
	}

	return ExitGeneral
}
