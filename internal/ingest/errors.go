package ingest

import (
	"fmt"

	"github.com/zeebo/errs"
)

// Error is the error class for file ingestion failures.
var Error = errs.Class("ingest")

var (
	// ErrUnsupportedFormat is returned for any extension other than csv, xls, xlsx.
	ErrUnsupportedFormat = Error.New("unsupported file format")
	// ErrEmptyFile is returned for zero-byte input or a spreadsheet with no rows.
	ErrEmptyFile = Error.New("file is empty")
	// ErrNoColumns is returned when parsing yields an empty header.
	ErrNoColumns = Error.New("no columns found in file")
)

// TooLargeError reports input exceeding the ingestion size cap.
type TooLargeError struct {
	Size  int64
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("file size %d exceeds the %d byte limit", e.Size, e.Limit)
}

// ParseError reports a structural failure at a specific row of the input.
type ParseError struct {
	Row int
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse row %d: %v", e.Row, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
