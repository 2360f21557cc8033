package pdfs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/JaimeStill/pdf-extractor/internal/documents"
	"github.com/JaimeStill/pdf-extractor/internal/extraction"
	"github.com/JaimeStill/pdf-extractor/pkg/pagination"
	"github.com/JaimeStill/pdf-extractor/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type service struct {
	docs      documents.System
	extract   extraction.System
	uploads   storage.System
	images    storage.System
	imagesURL string
	logger    *slog.Logger
}

// New creates the PDF service. Image download URLs are built beneath
// basePath + "/images".
func New(
	docs documents.System,
	extract extraction.System,
	uploads storage.System,
	images storage.System,
	basePath string,
	logger *slog.Logger,
) System {
	return &service{
		docs:      docs,
		extract:   extract,
		uploads:   uploads,
		images:    images,
		imagesURL: strings.TrimSuffix(basePath, "/") + "/images",
		logger:    logger.With("system", "pdfs"),
	}
}

type extracted struct {
	text   map[string]string
	tables map[string][]extraction.Table
	images []extraction.Image
}

func (s *service) Process(ctx context.Context, upload Upload) (*Result, error) {
	if !strings.EqualFold(filepath.Ext(upload.Filename), ".pdf") {
		return nil, ErrInvalidFileType
	}

	original := filepath.Base(upload.Filename)
	stored := uuid.NewString() + "_" + sanitizeFilename(original)

	if err := s.uploads.Store(ctx, stored, upload.Data); err != nil {
		return nil, processing(err)
	}

	path, err := s.uploads.Path(stored)
	if err != nil {
		s.removeFile(ctx, s.uploads, stored)
		return nil, processing(err)
	}

	pages, err := s.extract.Validate(ctx, path)
	if err != nil {
		s.removeFile(ctx, s.uploads, stored)
		return nil, processing(err)
	}

	doc, err := s.docs.Create(ctx, documents.CreateCommand{
		Filename:         stored,
		OriginalFilename: original,
	})
	if err != nil {
		s.removeFile(ctx, s.uploads, stored)
		return nil, processing(err)
	}

	content, err := s.extractAll(ctx, path, doc.ID)
	if err == nil {
		err = s.persist(ctx, doc.ID, content)
	}
	if err != nil {
		s.rollback(ctx, doc, content.images)
		return nil, processing(err)
	}

	s.logger.Info(
		"document processed",
		"id", doc.ID,
		"filename", original,
		"pages", pages,
		"tables", countTables(content.tables),
		"images", len(content.images),
	)

	return s.newResult(doc, content.text, content.tables, s.linkExtracted(doc.ID, content.images)), nil
}

func (s *service) extractAll(ctx context.Context, path string, id uuid.UUID) (extracted, error) {
	var out extracted
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		text, err := s.extract.Text(gctx, path)
		if err != nil {
			return fmt.Errorf("text: %w", err)
		}
		out.text = text
		out.tables = s.extract.Tables(text)
		return nil
	})

	g.Go(func() error {
		images, err := s.extract.Images(gctx, path, id)
		if err != nil {
			return fmt.Errorf("images: %w", err)
		}
		out.images = images
		return nil
	})

	err := g.Wait()
	return out, err
}

func (s *service) persist(ctx context.Context, id uuid.UUID, content extracted) error {
	if err := s.docs.SaveText(ctx, id, content.text); err != nil {
		return err
	}
	if err := s.docs.SaveImages(ctx, id, content.images); err != nil {
		return err
	}
	return s.docs.SaveTables(ctx, id, content.tables)
}

// rollback removes everything Process wrote for doc. It runs even when
// ctx is cancelled.
func (s *service) rollback(ctx context.Context, doc *documents.Document, images []extraction.Image) {
	ctx = context.WithoutCancel(ctx)

	if err := s.docs.Delete(ctx, doc.ID); err != nil {
		s.logger.Error("rollback: delete document failed", "id", doc.ID, "error", err)
	}

	s.removeFile(ctx, s.uploads, doc.Filename)
	for _, img := range images {
		s.removeFile(ctx, s.images, img.Filename)
	}
}

func (s *service) Retrieve(ctx context.Context, id string) (*Result, error) {
	docID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	detail, err := s.docs.FindDetail(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("find document %s: %w", docID, err)
	}
	if detail == nil {
		return nil, nil
	}

	text := make(map[string]string, len(detail.Pages))
	for _, p := range detail.Pages {
		text[extraction.PageLabel(p.PageNumber)] = p.Content
	}

	tables := make(map[string][]extraction.Table)
	for _, t := range detail.Tables {
		label := extraction.PageLabel(t.PageNumber)
		tables[label] = append(tables[label], t.Data)
	}

	links := make([]ImageLink, 0, len(detail.Images))
	for _, img := range detail.Images {
		links = append(links, s.link(detail.ID, img.PageNumber, img.ImageIndex, img.Filename))
	}

	return s.newResult(&detail.Document, text, tables, links), nil
}

func (s *service) List(ctx context.Context, page pagination.PageRequest) (*SummaryPage, error) {
	result, err := s.docs.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	return &SummaryPage{
		Documents: result.Data,
		Total:     result.Total,
		Skip:      result.Skip,
		Limit:     result.Limit,
	}, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.docs.Find(ctx, id)
	if err != nil {
		return fmt.Errorf("find document %s: %w", id, err)
	}
	if doc == nil {
		return nil
	}

	return s.Purge(ctx, *doc)
}

func (s *service) Expired(ctx context.Context, cutoff time.Time) ([]documents.Document, error) {
	return s.docs.ListCreatedBefore(ctx, cutoff)
}

func (s *service) Purge(ctx context.Context, doc documents.Document) error {
	images, err := s.docs.Images(ctx, doc.ID)
	if err != nil {
		return fmt.Errorf("list images for %s: %w", doc.ID, err)
	}

	s.removeFile(ctx, s.uploads, doc.Filename)
	for _, img := range images {
		s.removeFile(ctx, s.images, img.Filename)
	}

	if err := s.docs.Delete(ctx, doc.ID); err != nil {
		return fmt.Errorf("delete document %s: %w", doc.ID, err)
	}

	s.logger.Info("document purged", "id", doc.ID, "images", len(images))
	return nil
}

func (s *service) ImagePath(ctx context.Context, filename string) (string, error) {
	if _, _, _, err := extraction.ParseImageFilename(filename); err != nil {
		return "", imageNotFound(filename)
	}

	ok, err := s.images.Validate(ctx, filename)
	if errors.Is(err, storage.ErrInvalidKey) || (err == nil && !ok) {
		return "", imageNotFound(filename)
	}
	if err != nil {
		return "", fmt.Errorf("stat image %s: %w", filename, err)
	}

	return s.images.Path(filename)
}

func (s *service) removeFile(ctx context.Context, store storage.System, key string) {
	if err := store.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to remove file", "key", key, "base", store.BasePath(), "error", err)
	}
}

func (s *service) linkExtracted(id uuid.UUID, images []extraction.Image) []ImageLink {
	links := make([]ImageLink, 0, len(images))
	for _, img := range images {
		links = append(links, s.link(id, img.Page, img.Index, img.Filename))
	}
	return links
}

func (s *service) link(id uuid.UUID, page, index int, filename string) ImageLink {
	return ImageLink{
		URL:        s.imagesURL + "/" + filename,
		Page:       page,
		Index:      index,
		Filename:   filename,
		DocumentID: id,
	}
}

func (s *service) newResult(
	doc *documents.Document,
	text map[string]string,
	tables map[string][]extraction.Table,
	images []ImageLink,
) *Result {
	if text == nil {
		text = map[string]string{}
	}
	if tables == nil {
		tables = map[string][]extraction.Table{}
	}

	return &Result{
		ID:        doc.ID,
		Filename:  doc.OriginalFilename,
		Text:      TextContent{Pages: text},
		Tables:    TableContent{Pages: tables},
		Images:    images,
		CreatedAt: doc.CreatedAt,
	}
}

func sanitizeFilename(name string) string {
	clean := unsafeFilenameChars.ReplaceAllString(name, "_")
	if clean == "" || clean == "." || clean == ".." {
		return "upload.pdf"
	}
	return clean
}

func countTables(tables map[string][]extraction.Table) int {
	n := 0
	for _, page := range tables {
		n += len(page)
	}
	return n
}
