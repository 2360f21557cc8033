package pdfs_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/pdf-extractor/internal/pdfs"
	"github.com/JaimeStill/pdf-extractor/pkg/logging"
	"github.com/JaimeStill/pdf-extractor/pkg/pagination"
	"github.com/JaimeStill/pdf-extractor/pkg/routes"
	"github.com/google/uuid"
)

func newMux(t *testing.T, f *fixture, maxUploadSize int64) *http.ServeMux {
	t.Helper()

	var cfg pagination.Config
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("pagination Finalize() failed: %v", err)
	}

	h := pdfs.NewHandler(f.sys, logging.Discard(), cfg, maxUploadSize)
	mux := http.NewServeMux()
	routes.Register(mux, "/api/v1", h.Routes())
	return mux
}

func multipartUpload(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile() failed: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	return &body, w.FormDataContentType()
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body["error"]
}

func TestHandler_Extract(t *testing.T) {
	tests := []struct {
		name       string
		field      string
		filename   string
		size       int
		maxUpload  int64
		wantStatus int
		wantError  string
	}{
		{"pdf accepted", "file", "report.pdf", 64, 1 << 20, http.StatusOK, ""},
		{"non pdf rejected", "file", "report.docx", 64, 1 << 20, http.StatusBadRequest, "Only PDF files are supported."},
		{"missing file field", "document", "report.pdf", 64, 1 << 20, http.StatusBadRequest, pdfs.ErrInvalidFile.Error()},
		{"too large", "file", "report.pdf", 4096, 512, http.StatusRequestEntityTooLarge, pdfs.ErrFileTooLarge.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			mux := newMux(t, f, tt.maxUpload)

			body, contentType := multipartUpload(t, tt.field, tt.filename, bytes.Repeat([]byte("x"), tt.size))
			req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()

			mux.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}

			if tt.wantError != "" {
				if got := errorMessage(t, rec); got != tt.wantError {
					t.Errorf("error = %q, want %q", got, tt.wantError)
				}
				if n := fileCount(t, f.uploads); n != 0 {
					t.Errorf("uploads contains %d files after rejection", n)
				}
				return
			}

			var result pdfs.Result
			if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
				t.Fatalf("decode result: %v", err)
			}
			if result.Filename != tt.filename || len(result.Text.Pages) != 2 || len(result.Images) != 3 {
				t.Errorf("unexpected result: %+v", result)
			}
		})
	}
}

func TestHandler_FindNotFound(t *testing.T) {
	f := newFixture(t)
	mux := newMux(t, f, 1<<20)

	for _, id := range []string{uuid.NewString(), "abc"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+id, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", id, rec.Code)
			continue
		}
		if got, want := errorMessage(t, rec), "Document with ID "+id+" not found"; got != want {
			t.Errorf("error = %q, want %q", got, want)
		}
	}
}

func TestHandler_ListPagination(t *testing.T) {
	f := newFixture(t)
	mux := newMux(t, f, 1<<20)

	tests := []struct {
		query      string
		wantStatus int
	}{
		{"", http.StatusOK},
		{"?skip=0&limit=100", http.StatusOK},
		{"?limit=0", http.StatusBadRequest},
		{"?limit=101", http.StatusBadRequest},
		{"?skip=-1", http.StatusBadRequest},
		{"?skip=abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/documents"+tt.query, nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandler_ListDefaults(t *testing.T) {
	f := newFixture(t)
	mux := newMux(t, f, 1<<20)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var page pdfs.SummaryPage
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.Skip != 0 || page.Limit != 10 || page.Documents == nil {
		t.Errorf("page = %+v, want skip 0 limit 10 with empty documents", page)
	}
}

func TestHandler_ImageAndDelete(t *testing.T) {
	f := newFixture(t)
	mux := newMux(t, f, 1<<20)

	body, contentType := multipartUpload(t, "file", "doc.pdf", []byte("%PDF"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var result pdfs.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, result.Images[0].URL, nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET image status = %d, want 200", rec.Code)
	}
	if data, _ := io.ReadAll(rec.Body); string(data) != "png-bytes" {
		t.Errorf("image body = %q", data)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/documents/"+result.ID.String(), nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want 204", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, result.Images[0].URL, nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("GET deleted image status = %d, want 404", rec.Code)
	}
	if got, want := errorMessage(t, rec), "Image not found: "+result.Images[0].Filename; got != want {
		t.Errorf("error = %q, want %q", got, want)
	}
}
