package documents

import (
	"errors"

	"github.com/JaimeStill/pdf-extractor/internal/extraction"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("document already exists")

	// ErrInvalidPageLabel is returned by SaveText and SaveTables before any
	// row is written when a key is not a "Page N" label.
	ErrInvalidPageLabel = extraction.ErrInvalidPageLabel
)
