package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/BradenHooton/roster/internal/listing"
	"github.com/BradenHooton/roster/internal/models"
)

// defaultSearchField is used when search carries no "field:" prefix
const defaultSearchField = "email"

// PaginationConfig bounds the page_size query parameter
type PaginationConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

// parsePageRequest reads page_number, page_size, search and sort from the query.
//
//	?page_number=2&page_size=5&search=city:jak&sort=email:desc
//
// A bare search keyword searches by email; a bare sort field sorts ascending.
func parsePageRequest(r *http.Request, cfg PaginationConfig) (listing.PageRequest, error) {
	q := r.URL.Query()
	req := listing.DefaultPageRequest()
	if cfg.DefaultPageSize > 0 {
		req.PageSize = cfg.DefaultPageSize
	}

	if v := q.Get("page_number"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("%w: page_number must be an integer", models.ErrInvalidArgument)
		}
		req.PageNumber = n
	}

	if v := q.Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("%w: page_size must be an integer", models.ErrInvalidArgument)
		}
		if cfg.MaxPageSize > 0 && n > cfg.MaxPageSize {
			return req, fmt.Errorf("%w: page_size must not exceed %d", models.ErrInvalidArgument, cfg.MaxPageSize)
		}
		req.PageSize = n
	}

	if v := strings.TrimSpace(q.Get("search")); v != "" {
		field, keyword, ok := strings.Cut(v, ":")
		if !ok {
			field, keyword = defaultSearchField, v
		}
		req.SearchField = strings.TrimSpace(field)
		req.SearchKeyword = keyword
	}

	if v := strings.TrimSpace(q.Get("sort")); v != "" {
		field, order, _ := strings.Cut(v, ":")
		req.SortField = strings.TrimSpace(field)
		req.SortOrder = listing.SortOrder(strings.ToLower(strings.TrimSpace(order)))
	}

	return req, nil
}
