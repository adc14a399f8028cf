// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Common application errors.
var (
	// Storage errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Detection errors.
	ErrUnknownFormat = errors.New("unknown statement format")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// EncodingError reports that no candidate text encoding produced
// structurally recognizable content.
type EncodingError struct {
	Tried []string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("no usable text encoding found (tried %s)", strings.Join(e.Tried, ", "))
}

// ExtractionError wraps a failure of text acquisition or statement parsing
// that aborts the whole document.
type ExtractionError struct {
	Err  error
	Path string
}

func (e *ExtractionError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to extract %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("extraction failed: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// UnknownCodeError is the hard stop raised when a statement contains
// explicit transaction-type codes the extractor has no mapping for. All
// codes found in the document are listed so the format table can be
// updated in one pass.
type UnknownCodeError struct {
	Codes []string
}

func (e *UnknownCodeError) Error() string {
	codes := make([]string, len(e.Codes))
	copy(codes, e.Codes)
	sort.Strings(codes)
	return fmt.Sprintf("unknown transaction type codes: %s", strings.Join(codes, ", "))
}
