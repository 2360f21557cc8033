package extraction

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func (e *extractor) Images(ctx context.Context, path string, documentID uuid.UUID) ([]Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %w", ErrExtraction, err)
	}
	defer f.Close()

	pages, err := api.ExtractImagesRaw(f, nil, pdfConfig())
	if err != nil {
		return nil, fmt.Errorf("%w: images: %w", ErrExtraction, err)
	}

	raw := make([]model.Image, 0)
	for _, page := range pages {
		for _, img := range page {
			raw = append(raw, img)
		}
	}

	slices.SortFunc(raw, func(a, b model.Image) int {
		return cmp.Or(cmp.Compare(a.PageNr, b.PageNr), cmp.Compare(a.ObjNr, b.ObjNr))
	})

	images := make([]Image, 0, len(raw))
	index := 0
	lastPage := 0

	for _, img := range raw {
		if err := ctx.Err(); err != nil {
			e.discard(images)
			return nil, err
		}

		if img.PageNr != lastPage {
			lastPage = img.PageNr
			index = 0
		}
		index++

		out := Image{
			Page:     img.PageNr,
			Index:    index,
			Filename: ImageFilename(documentID, img.PageNr, index, imageExt(img.FileType)),
		}

		data, err := io.ReadAll(img)
		if err != nil {
			e.discard(images)
			return nil, fmt.Errorf("%w: read image %s: %w", ErrExtraction, out.Filename, err)
		}

		if err := e.images.Store(ctx, out.Filename, data); err != nil {
			e.discard(images)
			return nil, fmt.Errorf("store image %s: %w", out.Filename, err)
		}

		images = append(images, out)
	}

	e.logger.Debug("images extracted", "path", path, "count", len(images))
	return images, nil
}

// discard removes images already written by a failed extraction.
func (e *extractor) discard(images []Image) {
	for _, img := range images {
		if err := e.images.Delete(context.Background(), img.Filename); err != nil {
			e.logger.Warn("failed to remove partial image", "filename", img.Filename, "error", err)
		}
	}
}

func imageExt(fileType string) string {
	ext := strings.ToLower(strings.TrimPrefix(fileType, "."))
	if ext == "" {
		return "bin"
	}
	return ext
}
