package documents

import (
	"encoding/json"
	"fmt"

	"github.com/JaimeStill/pdf-extractor/pkg/query"
	"github.com/JaimeStill/pdf-extractor/pkg/repository"
)

var documentProjection = query.NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("filename", "Filename").
	Project("original_filename", "OriginalFilename").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var textPageProjection = query.NewProjectionMap("public", "text_pages", "tp").
	Project("page_number", "PageNumber").
	Project("content", "Content")

var imageProjection = query.NewProjectionMap("public", "images", "i").
	Project("page_number", "PageNumber").
	Project("image_index", "ImageIndex").
	Project("filename", "Filename")

var tableProjection = query.NewProjectionMap("public", "tables", "t").
	Project("page_number", "PageNumber").
	Project("table_index", "TableIndex").
	Project("table_data", "Data")

var (
	newestFirst = query.SortField{Field: "CreatedAt", Descending: true}
	oldestFirst = query.SortField{Field: "CreatedAt"}

	// children are inserted in page order, so the serial id preserves it
	insertionOrder = query.SortField{Field: "id"}
)

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	err := s.Scan(
		&d.ID,
		&d.Filename,
		&d.OriginalFilename,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	return d, err
}

func scanTextPage(s repository.Scanner) (TextPage, error) {
	var p TextPage
	err := s.Scan(&p.PageNumber, &p.Content)
	return p, err
}

func scanImage(s repository.Scanner) (Image, error) {
	var i Image
	err := s.Scan(&i.PageNumber, &i.ImageIndex, &i.Filename)
	return i, err
}

func scanTable(s repository.Scanner) (Table, error) {
	var (
		t   Table
		raw string
	)
	if err := s.Scan(&t.PageNumber, &t.TableIndex, &raw); err != nil {
		return t, err
	}
	if err := json.Unmarshal([]byte(raw), &t.Data); err != nil {
		return t, fmt.Errorf("decode table data: %w", err)
	}
	return t, nil
}
