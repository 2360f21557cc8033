package extraction

import (
	"context"
	"fmt"

	"github.com/gen2brain/go-fitz"
)

func (e *extractor) Text(ctx context.Context, path string) (map[string]string, error) {
	pages, err := readPages(ctx, path)
	if err != nil {
		return nil, err
	}

	text := make(map[string]string, len(pages))
	for i, content := range pages {
		text[PageLabel(i+1)] = content
	}

	e.logger.Debug("text extracted", "path", path, "pages", len(pages))
	return text, nil
}

// readPages returns the plain text of each page in document order.
func readPages(ctx context.Context, path string) ([]string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %w", ErrExtraction, err)
	}
	defer doc.Close()

	n := doc.NumPage()
	pages := make([]string, 0, n)

	for i := range n {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content, err := doc.Text(i)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d text: %w", ErrExtraction, i+1, err)
		}
		pages = append(pages, content)
	}

	return pages, nil
}
