package main

import (
	"errors"
	"fmt"
	"testing"

	receipt "github.com/mmurali/go-receipt"
	"github.com/mmurali/go-receipt/internal/config"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil", nil, ExitSuccess},
		{"unknown error", errors.New("shrug"), ExitGeneral},
		{"all failed", ErrAllFailed, ExitGeneral},
		{"read template", ErrReadTemplate, ExitIO},
		{"read donors", ErrReadDonors, ExitIO},
		{"write receipt", receipt.ErrWriteReceipt, ExitIO},
		{"invalid output dir", receipt.ErrInvalidOutputDir, ExitIO},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"bad header", ErrBadHeader, ExitUsage},
		{"no template", ErrNoTemplate, ExitUsage},
		{"no donors", ErrNoDonors, ExitUsage},
		{"empty template", receipt.ErrEmptyTemplate, ExitUsage},
		{"missing donor field", receipt.ErrMissingDonorField, ExitUsage},
		{"invalid date format", receipt.ErrInvalidDateFormat, ExitUsage},
		{"wrapped error", fmt.Errorf("context: %w", ErrReadDonors), ExitIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.expected {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.expected)
			}
		})
	}
}
