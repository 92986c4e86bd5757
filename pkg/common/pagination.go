package common

import (
	"fmt"
	"net/http"
	"strconv"

	"socialgraph/pkg/errors"
)

// PaginationParams represents page-based pagination parameters. Zero values
// mean "use the configured default".
type PaginationParams struct {
	Page  int
	Limit int
}

// ExtractPaginationParams reads page and limit from the query string
func ExtractPaginationParams(r *http.Request) (PaginationParams, error) {
	page, err := QueryInt(r, "page")
	if err != nil {
		return PaginationParams{}, err
	}
	limit, err := QueryInt(r, "limit")
	if err != nil {
		return PaginationParams{}, err
	}
	return PaginationParams{Page: page, Limit: limit}, nil
}

// QueryInt parses a non-negative integer query parameter. A missing parameter
// yields zero.
func QueryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewValidationError(fmt.Sprintf("%s must be an integer, got %q", name, raw)).
			WithDetail("field", name)
	}
	if value < 0 {
		return 0, errors.NewValidationError(fmt.Sprintf("%s must not be negative", name)).
			WithDetail("field", name)
	}
	return value, nil
}

// BuildPaginationMeta describes one page of results
func BuildPaginationMeta(page, limit int, hasMore bool) *PaginationInfo {
	return &PaginationInfo{
		Page:    page,
		Limit:   limit,
		HasMore: hasMore,
		HasPrev: page > 1,
	}
}
