package pdfs

import (
	"context"
	"time"

	"github.com/JaimeStill/pdf-extractor/internal/documents"
	"github.com/JaimeStill/pdf-extractor/pkg/pagination"
	"github.com/google/uuid"
)

// System defines the PDF service operations.
type System interface {
	// Process stores, extracts, and persists an uploaded PDF. Every failure
	// after the file type check wraps ErrProcessing and leaves no document
	// row or files behind.
	Process(ctx context.Context, upload Upload) (*Result, error)

	// Retrieve reassembles a processed document. It returns nil, nil for
	// unknown ids, including ids that are not valid UUIDs.
	Retrieve(ctx context.Context, id string) (*Result, error)

	List(ctx context.Context, page pagination.PageRequest) (*SummaryPage, error)

	// Delete purges a document and its files. Deleting a missing document
	// is not an error.
	Delete(ctx context.Context, id uuid.UUID) error

	// Expired returns documents created strictly before cutoff.
	Expired(ctx context.Context, cutoff time.Time) ([]documents.Document, error)

	// Purge removes the upload and image files of doc, then its row.
	// Missing or unremovable files are logged and skipped.
	Purge(ctx context.Context, doc documents.Document) error

	// ImagePath resolves an image filename to its path on disk.
	ImagePath(ctx context.Context, filename string) (string, error)
}
