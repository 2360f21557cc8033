package pdfs

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/pdf-extractor/pkg/handlers"
	"github.com/JaimeStill/pdf-extractor/pkg/pagination"
	"github.com/JaimeStill/pdf-extractor/pkg/routes"
	"github.com/google/uuid"
)

// Handler provides HTTP endpoints for PDF extraction and retrieval.
type Handler struct {
	sys           System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// NewHandler creates a PDF handler with the specified configuration.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "pdfs"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the extraction, document, and image route groups.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/extract", Handler: h.Extract},
		},
		Children: []routes.Group{
			{
				Prefix: "/documents",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.List},
					{Method: "GET", Pattern: "/{id}", Handler: h.Find},
					{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
				},
			},
			{
				Prefix: "/images",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/{filename}", Handler: h.Image},
				},
			},
		},
	}
}

// Extract handles POST /extract - processes a multipart "file" upload.
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	result, err := h.sys.Process(r.Context(), Upload{
		Filename: header.Filename,
		Data:     data,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// List handles GET /documents - returns a page of document summaries.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, err := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.List(r.Context(), page)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find handles GET /documents/{id} - returns the full extraction result.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	result, err := h.sys.Retrieve(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	if result == nil {
		handlers.RespondError(w, h.logger, http.StatusNotFound, documentNotFound(id))
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Delete handles DELETE /documents/{id} - purges a document and its files.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("id")

	id, err := uuid.Parse(raw)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusNotFound, documentNotFound(raw))
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Image handles GET /images/{filename} - streams an extracted image.
func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	path, err := h.sys.ImagePath(r.Context(), r.PathValue("filename"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	http.ServeFile(w, r, path)
}
