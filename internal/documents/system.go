package documents

import (
	"context"
	"time"

	"github.com/JaimeStill/pdf-extractor/internal/extraction"
	"github.com/JaimeStill/pdf-extractor/pkg/pagination"
	"github.com/google/uuid"
)

// System defines the persistence operations for documents and their children.
// Each Save call commits all of its rows in one transaction or none of them.
type System interface {
	Create(ctx context.Context, cmd CreateCommand) (*Document, error)
	SaveText(ctx context.Context, id uuid.UUID, pages map[string]string) error
	SaveImages(ctx context.Context, id uuid.UUID, images []extraction.Image) error
	SaveTables(ctx context.Context, id uuid.UUID, tables map[string][]extraction.Table) error

	// Find and FindDetail return nil, nil when the document does not exist.
	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	FindDetail(ctx context.Context, id uuid.UUID) (*Detail, error)

	// List returns documents newest first.
	List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Document], error)
	Images(ctx context.Context, id uuid.UUID) ([]Image, error)

	// ListCreatedBefore returns documents with created_at strictly before cutoff.
	ListCreatedBefore(ctx context.Context, cutoff time.Time) ([]Document, error)

	// Delete removes the document and, by cascade, its children.
	// Deleting a missing document is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
}
