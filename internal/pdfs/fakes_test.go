package pdfs_test

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/JaimeStill/pdf-extractor/internal/documents"
	"github.com/JaimeStill/pdf-extractor/internal/extraction"
	"github.com/JaimeStill/pdf-extractor/internal/pdfs"
	"github.com/JaimeStill/pdf-extractor/pkg/logging"
	"github.com/JaimeStill/pdf-extractor/pkg/pagination"
	"github.com/JaimeStill/pdf-extractor/pkg/storage"
	"github.com/google/uuid"
)

type memoryDocuments struct {
	mu      sync.Mutex
	docs    map[uuid.UUID]documents.Document
	details map[uuid.UUID]*documents.Detail
	saveErr error
}

func newMemoryDocuments() *memoryDocuments {
	return &memoryDocuments{
		docs:    map[uuid.UUID]documents.Document{},
		details: map[uuid.UUID]*documents.Detail{},
	}
}

func (m *memoryDocuments) Create(ctx context.Context, cmd documents.CreateCommand) (*documents.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	doc := documents.Document{
		ID:               uuid.New(),
		Filename:         cmd.Filename,
		OriginalFilename: cmd.OriginalFilename,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	m.docs[doc.ID] = doc
	m.details[doc.ID] = &documents.Detail{Document: doc}
	return &doc, nil
}

func (m *memoryDocuments) SaveText(ctx context.Context, id uuid.UUID, pages map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return m.saveErr
	}

	d := m.details[id]
	for label, content := range pages {
		n, err := extraction.ParsePageLabel(label)
		if err != nil {
			return err
		}
		d.Pages = append(d.Pages, documents.TextPage{PageNumber: n, Content: content})
	}
	slices.SortFunc(d.Pages, func(a, b documents.TextPage) int { return cmp.Compare(a.PageNumber, b.PageNumber) })
	return nil
}

func (m *memoryDocuments) SaveImages(ctx context.Context, id uuid.UUID, images []extraction.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := m.details[id]
	for _, img := range images {
		d.Images = append(d.Images, documents.Image{PageNumber: img.Page, ImageIndex: img.Index, Filename: img.Filename})
	}
	return nil
}

func (m *memoryDocuments) SaveTables(ctx context.Context, id uuid.UUID, tables map[string][]extraction.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := m.details[id]
	for label, list := range tables {
		n, err := extraction.ParsePageLabel(label)
		if err != nil {
			return err
		}
		for i, t := range list {
			d.Tables = append(d.Tables, documents.Table{PageNumber: n, TableIndex: i, Data: t})
		}
	}
	slices.SortFunc(d.Tables, func(a, b documents.Table) int {
		return cmp.Or(cmp.Compare(a.PageNumber, b.PageNumber), cmp.Compare(a.TableIndex, b.TableIndex))
	})
	return nil
}

func (m *memoryDocuments) Find(ctx context.Context, id uuid.UUID) (*documents.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[id]
	if !ok {
		return nil, nil
	}
	return &doc, nil
}

func (m *memoryDocuments) FindDetail(ctx context.Context, id uuid.UUID) (*documents.Detail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.details[id]
	if !ok {
		return nil, nil
	}
	clone := *d
	return &clone, nil
}

func (m *memoryDocuments) List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[documents.Document], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make([]documents.Document, 0, len(m.docs))
	for _, d := range m.docs {
		all = append(all, d)
	}
	slices.SortFunc(all, func(a, b documents.Document) int { return b.CreatedAt.Compare(a.CreatedAt) })

	start := min(page.Skip, len(all))
	end := min(start+page.Limit, len(all))
	result := pagination.NewPageResult(all[start:end], len(all), page)
	return &result, nil
}

func (m *memoryDocuments) Images(ctx context.Context, id uuid.UUID) ([]documents.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d, ok := m.details[id]; ok {
		return slices.Clone(d.Images), nil
	}
	return []documents.Image{}, nil
}

func (m *memoryDocuments) ListCreatedBefore(ctx context.Context, cutoff time.Time) ([]documents.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []documents.Document
	for _, d := range m.docs {
		if d.CreatedAt.Before(cutoff) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memoryDocuments) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.docs, id)
	delete(m.details, id)
	return nil
}

func (m *memoryDocuments) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs)
}

// stubExtractor returns canned content and writes one file per entry of
// imagePages into the images store.
type stubExtractor struct {
	images      storage.System
	validateErr error
	textErr     error
	text        map[string]string
	tables      map[string][]extraction.Table
	imagePages  []int
	tablesInput map[string]string
}

func (e *stubExtractor) Validate(ctx context.Context, path string) (int, error) {
	if e.validateErr != nil {
		return 0, e.validateErr
	}
	return len(e.text), nil
}

func (e *stubExtractor) Text(ctx context.Context, path string) (map[string]string, error) {
	if e.textErr != nil {
		return nil, e.textErr
	}
	return e.text, nil
}

func (e *stubExtractor) Tables(text map[string]string) map[string][]extraction.Table {
	e.tablesInput = text
	return e.tables
}

func (e *stubExtractor) Images(ctx context.Context, path string, documentID uuid.UUID) ([]extraction.Image, error) {
	indexes := map[int]int{}
	var out []extraction.Image

	for _, page := range e.imagePages {
		indexes[page]++
		name := extraction.ImageFilename(documentID, page, indexes[page], "png")
		if err := e.images.Store(ctx, name, []byte("png-bytes")); err != nil {
			return nil, err
		}
		out = append(out, extraction.Image{Page: page, Index: indexes[page], Filename: name})
	}
	return out, nil
}

type fixture struct {
	sys     pdfs.System
	docs    *memoryDocuments
	extract *stubExtractor
	uploads storage.System
	images  storage.System
}

func strptr(s string) *string { return &s }

func newFixture(t *testing.T) *fixture {
	t.Helper()

	uploads, err := storage.New("uploads", t.TempDir(), logging.Discard())
	if err != nil {
		t.Fatalf("storage.New(uploads) failed: %v", err)
	}
	images, err := storage.New("images", t.TempDir(), logging.Discard())
	if err != nil {
		t.Fatalf("storage.New(images) failed: %v", err)
	}

	docs := newMemoryDocuments()
	extract := &stubExtractor{
		images: images,
		text: map[string]string{
			"Page 1": "Quarterly report",
			"Page 2": "Revenue  Cost\n10  5\n20  7",
		},
		tables: map[string][]extraction.Table{
			"Page 2": {
				{{strptr("Revenue"), strptr("Cost")}, {strptr("10"), strptr("5")}, {strptr("20"), nil}},
			},
		},
		imagePages: []int{1, 1, 2},
	}

	return &fixture{
		sys:     pdfs.New(docs, extract, uploads, images, "/api/v1", logging.Discard()),
		docs:    docs,
		extract: extract,
		uploads: uploads,
		images:  images,
	}
}

func pageRequest(skip, limit int) pagination.PageRequest {
	return pagination.PageRequest{Skip: skip, Limit: limit}
}
