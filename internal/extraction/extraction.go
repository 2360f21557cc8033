// Package extraction pulls page text, table grids, and embedded images out of
// PDF files on disk. Text comes from MuPDF through go-fitz, images from pdfcpu.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/pdf-extractor/pkg/storage"
	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrExtraction wraps every failure to read or decode a PDF.
var ErrExtraction = errors.New("pdf extraction failed")

// Image describes one extracted image written to the images store.
type Image struct {
	Page     int
	Index    int
	Filename string
}

// Table is a grid of cells; nil marks an empty cell.
type Table [][]*string

// System runs the extraction routines. Every method fails as a whole;
// no partial result is returned alongside an error.
type System interface {
	// Validate checks the file is a readable PDF and returns its page count.
	Validate(ctx context.Context, path string) (int, error)

	// Text maps "Page N" labels to page text for every page.
	Text(ctx context.Context, path string) (map[string]string, error)

	// Tables detects tables in the page text returned by Text, keyed by the
	// same labels. Pages without tables are omitted.
	Tables(text map[string]string) map[string][]Table

	// Images writes every embedded image to the images store and
	// describes them in page order.
	Images(ctx context.Context, path string, documentID uuid.UUID) ([]Image, error)
}

type extractor struct {
	images storage.System
	logger *slog.Logger
}

// New creates an extraction system that writes images into images.
func New(images storage.System, logger *slog.Logger) System {
	return &extractor{
		images: images,
		logger: logger.With("system", "extraction"),
	}
}

func (e *extractor) Validate(ctx context.Context, path string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	conf := pdfConfig()
	if err := api.ValidateFile(path, conf); err != nil {
		return 0, fmt.Errorf("%w: validate: %w", ErrExtraction, err)
	}

	pages, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("%w: page count: %w", ErrExtraction, err)
	}

	return pages, nil
}

func pdfConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}
