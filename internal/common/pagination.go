package common

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Pagination holds pagination metadata for list responses.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
}

// ParsePagination extracts page and limit from query values. Both must be
// positive integers when present; limit is capped at maxLimit.
func ParsePagination(values url.Values, defaultLimit, maxLimit int) (int, int, error) {
	page := 1
	if v := strings.TrimSpace(values.Get("page")); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 1 {
			return 0, 0, &AppError{
				Code:       "BAD_REQUEST",
				Message:    "page must be a positive integer",
				HTTPStatus: http.StatusBadRequest,
				Err:        err,
				Details:    map[string]any{"field": "page"},
			}
		}
		page = p
	}
	limit := defaultLimit
	if v := strings.TrimSpace(values.Get("limit")); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil || l < 1 {
			return 0, 0, &AppError{
				Code:       "BAD_REQUEST",
				Message:    "limit must be a positive integer",
				HTTPStatus: http.StatusBadRequest,
				Err:        err,
				Details:    map[string]any{"field": "limit"},
			}
		}
		limit = l
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return page, limit, nil
}
