package pdfs

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors for PDF processing. The messages of ErrInvalidFileType and
// ErrProcessing are returned to clients verbatim.
var (
	ErrInvalidFileType = errors.New("Only PDF files are supported.")
	ErrProcessing      = errors.New("Error processing PDF")
	ErrNotFound        = errors.New("document not found")
	ErrImageNotFound   = errors.New("image not found")
	ErrFileTooLarge    = errors.New("file exceeds maximum upload size")
	ErrInvalidFile     = errors.New("request must include a file field")
)

// MapHTTPStatus maps domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidFileType):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidFile):
		return http.StatusBadRequest
	case errors.Is(err, ErrProcessing):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrImageNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// notFoundError carries a client-facing message for a not-found sentinel.
type notFoundError struct {
	msg string
	err error
}

func (e *notFoundError) Error() string { return e.msg }
func (e *notFoundError) Unwrap() error { return e.err }

func documentNotFound(id string) error {
	return &notFoundError{
		msg: fmt.Sprintf("Document with ID %s not found", id),
		err: ErrNotFound,
	}
}

func imageNotFound(name string) error {
	return &notFoundError{
		msg: fmt.Sprintf("Image not found: %s", name),
		err: ErrImageNotFound,
	}
}

func processing(err error) error {
	return fmt.Errorf("%w: %w", ErrProcessing, err)
}
