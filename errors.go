package receipt

import "errors"

// Sentinel errors for receipt generation.
var (
	ErrEmptyTemplate     = errors.New("template content cannot be empty")
	ErrMissingDonorField = errors.New("donor record missing required field")
	ErrInvalidOutputDir  = errors.New("cannot create output directory")
	ErrInvalidDateFormat = errors.New("invalid date format")

	// Pipeline stage failures. All of these are recovered inside the
	// fallback chain; they surface only wrapped in ErrAllStrategiesFailed.
	ErrRenderFailure     = errors.New("content rendering failed")
	ErrLetterheadMissing = errors.New("no letterhead document found")
	ErrCompositeFailure  = errors.New("letterhead composition failed")
	ErrWriteReceipt      = errors.New("failed to write receipt file")

	// ErrAllStrategiesFailed is the only generation error that crosses
	// the package boundary: every strategy tier failed for this donor.
	ErrAllStrategiesFailed = errors.New("all rendering strategies failed")
)
