// Package filestore abstracts the byte store that holds the raw uploaded
// files. The catalog only depends on the put/get/delete contract; which
// backend serves it is a deployment concern.
package filestore

import (
	"context"

	"github.com/zeebo/errs"
)

// Error is the error class for byte-store failures. Callers treat these as
// retryable infrastructure errors, never as validation failures.
var Error = errs.Class("filestore")

// ErrNotFound is returned when no object exists at the requested path.
var ErrNotFound = Error.New("object not found")

// Store persists raw file bytes at caller-supplied keys.
type Store interface {
	// Put durably stores data under key and returns the opaque path the
	// bytes can later be read back from.
	Put(ctx context.Context, key string, data []byte) (string, error)
	// Get returns the bytes previously stored at path.
	Get(ctx context.Context, path string) ([]byte, error)
	// Delete removes the object at path. Deleting a missing object is not
	// an error.
	Delete(ctx context.Context, path string) error
}
