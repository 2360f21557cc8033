package extraction

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const pageLabelPrefix = "Page "

var (
	// ErrInvalidPageLabel is returned for labels not of the form "Page N" with N >= 1.
	ErrInvalidPageLabel = errors.New("invalid page label")

	// ErrInvalidImageFilename is returned for names not produced by ImageFilename.
	ErrInvalidImageFilename = errors.New("invalid image filename")
)

var imageFilenamePattern = regexp.MustCompile(`^([0-9a-fA-F-]{36})_page_(\d+)_image_(\d+)\.([A-Za-z0-9]+)$`)

// PageLabel returns the label for 1-based page n.
func PageLabel(n int) string {
	return pageLabelPrefix + strconv.Itoa(n)
}

// ParsePageLabel returns the page number encoded in label.
func ParsePageLabel(label string) (int, error) {
	digits, ok := strings.CutPrefix(label, pageLabelPrefix)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPageLabel, label)
	}

	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 || PageLabel(n) != label {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPageLabel, label)
	}

	return n, nil
}

// ImageFilename returns the stored name of an extracted image:
// {document_id}_page_{page}_image_{index}.{ext}
func ImageFilename(documentID uuid.UUID, page, index int, ext string) string {
	return fmt.Sprintf("%s_page_%d_image_%d.%s", documentID, page, index, ext)
}

// ParseImageFilename recovers the document id, page, and index from a name
// produced by ImageFilename.
func ParseImageFilename(name string) (uuid.UUID, int, int, error) {
	m := imageFilenamePattern.FindStringSubmatch(name)
	if m == nil {
		return uuid.Nil, 0, 0, fmt.Errorf("%w: %q", ErrInvalidImageFilename, name)
	}

	id, err := uuid.Parse(m[1])
	if err != nil {
		return uuid.Nil, 0, 0, fmt.Errorf("%w: %q", ErrInvalidImageFilename, name)
	}

	page, err := strconv.Atoi(m[2])
	if err != nil {
		return uuid.Nil, 0, 0, fmt.Errorf("%w: %q", ErrInvalidImageFilename, name)
	}

	index, err := strconv.Atoi(m[3])
	if err != nil {
		return uuid.Nil, 0, 0, fmt.Errorf("%w: %q", ErrInvalidImageFilename, name)
	}

	return id, page, index, nil
}
