// Package ingest reads raw simulation output into typed agent records.
//
// Ingestion is deliberately forgiving about row content and strict
// about the source: malformed and separator rows are an expected
// artifact of the upstream writer and are dropped silently, while a
// missing or unreadable source is fatal.
package ingest

import (
	"errors"
	"fmt"
)

// Sentinel errors for source-level failures.
// Use errors.Is(err, ErrXxx) for typed assertions.
var (
	// ErrSourceMissing indicates the input file does not exist.
	ErrSourceMissing = errors.New("input file not found")

	// ErrSourceUnreadable indicates the input file exists but cannot be read.
	ErrSourceUnreadable = errors.New("input file unreadable")

	// ErrNoHeader indicates the input is empty or its header row lacks
	// the required columns.
	ErrNoHeader = errors.New("input has no usable header")

	// ErrNoPartFiles indicates the input directory holds no part files.
	ErrNoPartFiles = errors.New("no part files found")
)

// IngestionError wraps a source-level failure with the path involved.
// Row-level problems never produce an IngestionError; they are dropped
// and counted instead.
type IngestionError struct {
	// Kind is the sentinel classifying the failure.
	Kind error
	// Path is the input path involved.
	Path string
	// Err is the underlying error, if any.
	Err error
}

func (e *IngestionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ingest %s: %v: %v", e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("ingest %s: %v", e.Path, e.Kind)
}

// Unwrap returns the underlying error for errors.Is/As chain traversal.
func (e *IngestionError) Unwrap() error {
	return e.Err
}

// Is reports whether the error matches the target sentinel.
func (e *IngestionError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

func newIngestionError(kind error, path string, err error) *IngestionError {
	return &IngestionError{Kind: kind, Path: path, Err: err}
}
