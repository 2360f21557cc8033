package api

import (
	"time"

	"github.com/JaimeStill/pdf-extractor/internal/documents"
	"github.com/JaimeStill/pdf-extractor/internal/extraction"
	"github.com/JaimeStill/pdf-extractor/internal/pdfs"
	"github.com/JaimeStill/pdf-extractor/internal/sweeper"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Documents  documents.System
	Extraction extraction.System
	PDFs       pdfs.System
	Sweeper    sweeper.System
}

// NewDomain creates all domain systems from the API runtime. The sweeper is
// created stopped; the caller registers it with the lifecycle coordinator.
func NewDomain(runtime *Runtime, retention time.Duration) *Domain {
	documentsSys := documents.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	extractionSys := extraction.New(runtime.Images, runtime.Logger)

	pdfsSys := pdfs.New(
		documentsSys,
		extractionSys,
		runtime.Uploads,
		runtime.Images,
		runtime.BasePath,
		runtime.Logger,
	)

	sweeperSys := sweeper.New(pdfsSys, retention, runtime.Logger)

	return &Domain{
		Documents:  documentsSys,
		Extraction: extractionSys,
		PDFs:       pdfsSys,
		Sweeper:    sweeperSys,
	}
}
