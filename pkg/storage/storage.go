// Package storage provides a filesystem blob store keyed by relative path.
// Each System owns one base directory; callers create one per directory
// they manage.
package storage

import (
	"context"
	"errors"

	"github.com/JaimeStill/pdf-extractor/pkg/lifecycle"
)

// Storage errors returned by System implementations.
var (
	// ErrNotFound indicates the requested key does not exist in storage.
	ErrNotFound = errors.New("storage: key not found")

	// ErrPermissionDenied indicates insufficient permissions to access the key.
	ErrPermissionDenied = errors.New("storage: permission denied")

	// ErrInvalidKey indicates the key is empty or escapes the base directory.
	ErrInvalidKey = errors.New("storage: invalid key")
)

// System stores and removes blobs under a single base directory.
type System interface {
	// Store writes data at key, replacing any existing content.
	Store(ctx context.Context, key string, data []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Validate reports whether key exists.
	Validate(ctx context.Context, key string) (bool, error)

	// Path resolves key to an absolute filesystem path without checking existence.
	Path(key string) (string, error)

	// BasePath returns the absolute base directory.
	BasePath() string

	// Start creates the base directory.
	Start(lc *lifecycle.Coordinator) error
}
