package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("resource not found")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrFileTooLarge         = errors.New("file exceeds maximum allowed size")
	ErrNoFiles              = errors.New("no files provided")
	ErrTooManyFiles         = errors.New("too many files in one upload")
	ErrPropertyNotFound     = errors.New("property not found")
	ErrInvalidReservation   = errors.New("reservation payload is invalid")
	ErrDuplicateReservation = errors.New("reservation already exists")
	ErrModelNotConfigured   = errors.New("generative model API key is not configured")
	ErrEmptyText            = errors.New("no text could be extracted")
	ErrNoReservations       = errors.New("no reservations provided")
	ErrModelOutputUnusable  = errors.New("model gave no usable reservations")
)

// Extraction stages reported by ExtractionError.
const (
	StageRead   = "read"
	StagePDF    = "pdf"
	StageVision = "vision"
	StageType   = "media_type"
)

// ExtractionError reports a failure to turn a raw document into text.
type ExtractionError struct {
	Filename string
	Stage    string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("text extraction failed for %q at %s: %v", e.Filename, e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates an ExtractionError.
func NewExtractionError(filename, stage string, err error) *ExtractionError {
	return &ExtractionError{Filename: filename, Stage: stage, Err: err}
}
