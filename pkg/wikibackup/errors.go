package wikibackup

import (
	"errors"
	"fmt"
)

// ErrStorageParse indicates the stored collection is present but malformed.
var ErrStorageParse = errors.New("stored collection is malformed")

// ErrStorageUnavailable indicates the storage backend could not be read.
var ErrStorageUnavailable = errors.New("storage unavailable")

// ErrDependencyLoad indicates the spreadsheet encoder could not be acquired.
var ErrDependencyLoad = errors.New("spreadsheet encoder failed to load")

// ErrEncode indicates the workbook could not be produced.
var ErrEncode = errors.New("workbook encoding failed")

// ErrDeliver indicates the file could not be delivered.
var ErrDeliver = errors.New("delivery failed")

// Stage names the export step that failed.
type Stage string

const (
	StageEncoder Stage = "encoder"
	StageLoad    Stage = "load"
	StageEncode  Stage = "encode"
	StageDeliver Stage = "deliver"
)

// ExportError represents an error during an export run.
type ExportError struct {
	Stage Stage
	Err   error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export failed at %s: %v", e.Stage, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// NewExportError creates a new ExportError wrapping kind and cause.
func NewExportError(stage Stage, kind, cause error) *ExportError {
	return &ExportError{
		Stage: stage,
		Err:   fmt.Errorf("%w: %w", kind, cause),
	}
}
