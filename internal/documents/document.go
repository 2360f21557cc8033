// Package documents persists uploaded PDF documents and the text pages,
// image descriptors, and tables extracted from them.
package documents

import (
	"time"

	"github.com/JaimeStill/pdf-extractor/internal/extraction"
	"github.com/google/uuid"
)

// Document is an uploaded PDF. Filename is the stored name in the uploads
// directory; OriginalFilename is the name the client supplied.
type Document struct {
	ID               uuid.UUID `json:"id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CreateCommand contains the data required to create a new document.
type CreateCommand struct {
	Filename         string
	OriginalFilename string
}

// TextPage is the extracted text of one page.
type TextPage struct {
	PageNumber int
	Content    string
}

// Image describes one extracted image file in the images directory.
type Image struct {
	PageNumber int
	ImageIndex int
	Filename   string
}

// Table is one extracted table; TableIndex is 0-based within its page.
type Table struct {
	PageNumber int
	TableIndex int
	Data       extraction.Table
}

// Detail is a document together with all of its extracted children,
// each ordered by page.
type Detail struct {
	Document
	Pages  []TextPage
	Images []Image
	Tables []Table
}
