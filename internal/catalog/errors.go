package catalog

import (
	"fmt"
	"strings"

	"github.com/zeebo/errs"
)

// Error is the error class for catalog failures.
var Error = errs.Class("catalog")

var (
	// ErrDatasetNotFound is returned when no dataset exists with the given id.
	ErrDatasetNotFound = Error.New("dataset not found")
	// ErrVersionNotFound is returned when no version matches the request.
	ErrVersionNotFound = Error.New("version not found")
	// ErrStorageUnavailable wraps byte-store failures after the transparent
	// retry has been exhausted. The version chain is left untouched.
	ErrStorageUnavailable = Error.New("file storage unavailable")
	// ErrVersionImmutable is returned when metadata is saved against a
	// version whose review has already concluded.
	ErrVersionImmutable = Error.New("metadata cannot be edited after review is complete")
)

// SchemaMismatchError names the symmetric difference between a dataset's
// canonical column set and the columns of a rejected upload.
type SchemaMismatchError struct {
	Missing []string // canonical columns absent from the upload
	Extra   []string // upload columns absent from the canonical set
}

func (e *SchemaMismatchError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing columns: %s", strings.Join(e.Missing, ", ")))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, fmt.Sprintf("unexpected columns: %s", strings.Join(e.Extra, ", ")))
	}
	return "schema mismatch: " + strings.Join(parts, "; ")
}
