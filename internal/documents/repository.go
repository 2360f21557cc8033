package documents

import (
	"cmp"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/JaimeStill/pdf-extractor/internal/extraction"
	"github.com/JaimeStill/pdf-extractor/pkg/pagination"
	"github.com/JaimeStill/pdf-extractor/pkg/query"
	"github.com/JaimeStill/pdf-extractor/pkg/repository"
	"github.com/google/uuid"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates the document repository.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "documents"),
		pagination: pagination,
	}
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Document, error) {
	q := `
		INSERT INTO documents (id, filename, original_filename)
		VALUES ($1, $2, $3)
		RETURNING id, filename, original_filename, created_at, updated_at`

	doc, err := repository.QueryOne(ctx, r.db, q, []any{uuid.New(), cmd.Filename, cmd.OriginalFilename}, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document created", "id", doc.ID, "filename", doc.Filename)
	return &doc, nil
}

func (r *repo) SaveText(ctx context.Context, id uuid.UUID, pages map[string]string) error {
	rows := make([]TextPage, 0, len(pages))
	for label, content := range pages {
		n, err := extraction.ParsePageLabel(label)
		if err != nil {
			return err
		}
		rows = append(rows, TextPage{PageNumber: n, Content: content})
	}

	slices.SortFunc(rows, func(a, b TextPage) int {
		return cmp.Compare(a.PageNumber, b.PageNumber)
	})

	q := `INSERT INTO text_pages (document_id, page_number, content) VALUES ($1, $2, $3)`

	return r.insertAll(ctx, "text pages", q, len(rows), func(i int) []any {
		return []any{id, rows[i].PageNumber, rows[i].Content}
	})
}

func (r *repo) SaveImages(ctx context.Context, id uuid.UUID, images []extraction.Image) error {
	rows := slices.Clone(images)
	slices.SortFunc(rows, func(a, b extraction.Image) int {
		return cmp.Or(cmp.Compare(a.Page, b.Page), cmp.Compare(a.Index, b.Index))
	})

	q := `INSERT INTO images (document_id, page_number, image_index, filename) VALUES ($1, $2, $3, $4)`

	return r.insertAll(ctx, "images", q, len(rows), func(i int) []any {
		return []any{id, rows[i].Page, rows[i].Index, rows[i].Filename}
	})
}

func (r *repo) SaveTables(ctx context.Context, id uuid.UUID, tables map[string][]extraction.Table) error {
	type row struct {
		page  int
		index int
		data  string
	}

	rows := make([]row, 0)
	for label, pageTables := range tables {
		n, err := extraction.ParsePageLabel(label)
		if err != nil {
			return err
		}
		for i, t := range pageTables {
			data, err := json.Marshal(t)
			if err != nil {
				return fmt.Errorf("encode table %d on page %d: %w", i, n, err)
			}
			rows = append(rows, row{page: n, index: i, data: string(data)})
		}
	}

	slices.SortFunc(rows, func(a, b row) int {
		return cmp.Or(cmp.Compare(a.page, b.page), cmp.Compare(a.index, b.index))
	})

	q := `INSERT INTO tables (document_id, page_number, table_index, table_data) VALUES ($1, $2, $3, $4)`

	return r.insertAll(ctx, "tables", q, len(rows), func(i int) []any {
		return []any{id, rows[i].page, rows[i].index, rows[i].data}
	})
}

// insertAll executes q once per row inside a single transaction.
func (r *repo) insertAll(ctx context.Context, kind, q string, n int, args func(int) []any) error {
	if n == 0 {
		return nil
	}

	err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, q)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i := range n {
			if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save %s: %w", kind, err)
	}

	return nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Document, error) {
	q, args := query.
		NewBuilder(documentProjection, newestFirst).
		BuildSingle("ID", id)

	doc, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find document: %w", err)
	}

	return &doc, nil
}

func (r *repo) FindDetail(ctx context.Context, id uuid.UUID) (*Detail, error) {
	doc, err := r.Find(ctx, id)
	if err != nil || doc == nil {
		return nil, err
	}

	detail := &Detail{Document: *doc}

	q, args := childQuery(textPageProjection, id)
	if detail.Pages, err = repository.QueryMany(ctx, r.db, q, args, scanTextPage); err != nil {
		return nil, fmt.Errorf("query text pages: %w", err)
	}

	if detail.Images, err = r.Images(ctx, id); err != nil {
		return nil, err
	}

	q, args = childQuery(tableProjection, id)
	if detail.Tables, err = repository.QueryMany(ctx, r.db, q, args, scanTable); err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}

	return detail, nil
}

func (r *repo) Images(ctx context.Context, id uuid.UUID) ([]Image, error) {
	q, args := childQuery(imageProjection, id)

	images, err := repository.QueryMany(ctx, r.db, q, args, scanImage)
	if err != nil {
		return nil, fmt.Errorf("query images: %w", err)
	}

	return images, nil
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(documentProjection, newestFirst)

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Skip, page.Limit)
	docs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	result := pagination.NewPageResult(docs, total, page)
	return &result, nil
}

func (r *repo) ListCreatedBefore(ctx context.Context, cutoff time.Time) ([]Document, error) {
	q, args := query.
		NewBuilder(documentProjection, oldestFirst).
		WhereBefore("CreatedAt", cutoff).
		BuildSelect()

	docs, err := repository.QueryMany(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query expired documents: %w", err)
	}

	return docs, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	err := repository.ExecExpectOne(ctx, r.db, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Debug("document already deleted", "id", id)
			return nil
		}
		return fmt.Errorf("delete document: %w", err)
	}

	r.logger.Info("document deleted", "id", id)
	return nil
}

func childQuery(projection *query.ProjectionMap, id uuid.UUID) (string, []any) {
	return query.
		NewBuilder(projection, insertionOrder).
		WhereEquals("document_id", id).
		BuildSelect()
}
