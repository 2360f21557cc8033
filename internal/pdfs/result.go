// Package pdfs is the service facade for PDF uploads. It stages uploaded
// files, runs extraction, persists the results, and reassembles them for
// clients. It also removes documents together with their files.
package pdfs

import (
	"time"

	"github.com/JaimeStill/pdf-extractor/internal/documents"
	"github.com/JaimeStill/pdf-extractor/internal/extraction"
	"github.com/google/uuid"
)

// Upload is a client-supplied file.
type Upload struct {
	Filename string
	Data     []byte
}

// TextContent maps "Page N" labels to page text.
type TextContent struct {
	Pages map[string]string `json:"pages"`
}

// TableContent maps "Page N" labels to the tables on that page.
type TableContent struct {
	Pages map[string][]extraction.Table `json:"pages"`
}

// ImageLink describes one extracted image and where to download it.
type ImageLink struct {
	URL        string    `json:"url"`
	Page       int       `json:"page"`
	Index      int       `json:"index"`
	Filename   string    `json:"filename"`
	DocumentID uuid.UUID `json:"document_id"`
}

// Result is the full extraction output for one document.
type Result struct {
	ID        uuid.UUID    `json:"id"`
	Filename  string       `json:"filename"`
	Text      TextContent  `json:"text"`
	Tables    TableContent `json:"tables"`
	Images    []ImageLink  `json:"images"`
	CreatedAt time.Time    `json:"created_at"`
}

// SummaryPage is one page of document summaries.
type SummaryPage struct {
	Documents []documents.Document `json:"documents"`
	Total     int                  `json:"total"`
	Skip      int                  `json:"skip"`
	Limit     int                  `json:"limit"`
}
