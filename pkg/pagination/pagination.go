package pagination

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// ErrInvalidPage is returned when skip or limit cannot be honored.
var ErrInvalidPage = errors.New("invalid pagination parameters")

// PageRequest selects Limit items after skipping Skip items.
type PageRequest struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

// Normalize fills a missing limit from cfg and caps it at the configured maximum.
func (r *PageRequest) Normalize(cfg Config) {
	if r.Skip < 0 {
		r.Skip = 0
	}
	if r.Limit < 1 {
		r.Limit = cfg.DefaultLimit
	}
	if r.Limit > cfg.MaxLimit {
		r.Limit = cfg.MaxLimit
	}
}

// PageRequestFromQuery parses skip and limit from URL query values.
// Absent values take defaults; present values must be integers with
// skip >= 0 and 1 <= limit <= cfg.MaxLimit.
func PageRequestFromQuery(values url.Values, cfg Config) (PageRequest, error) {
	req := PageRequest{Limit: cfg.DefaultLimit}

	if v := values.Get("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return req, fmt.Errorf("%w: skip must be a non-negative integer", ErrInvalidPage)
		}
		req.Skip = n
	}

	if v := values.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > cfg.MaxLimit {
			return req, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidPage, cfg.MaxLimit)
		}
		req.Limit = n
	}

	return req, nil
}

// PageResult holds a page of data along with pagination metadata.
type PageResult[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

// NewPageResult creates a PageResult, replacing a nil slice with an empty one.
func NewPageResult[T any](data []T, total int, page PageRequest) PageResult[T] {
	if data == nil {
		data = []T{}
	}

	return PageResult[T]{
		Data:  data,
		Total: total,
		Skip:  page.Skip,
		Limit: page.Limit,
	}
}
