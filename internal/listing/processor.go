package listing

import (
	"fmt"
	"slices"
	"strings"

	"github.com/BradenHooton/roster/internal/models"
)

const (
	DefaultPageNumber = 1
	DefaultPageSize   = 10
)

// SortOrder is the direction of a sort
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// PageRequest selects, orders and windows a listing
type PageRequest struct {
	PageNumber    int
	PageSize      int
	SortField     string
	SortOrder     SortOrder
	SearchField   string
	SearchKeyword string
}

// DefaultPageRequest returns the first page at the default size, unsorted and unfiltered
func DefaultPageRequest() PageRequest {
	return PageRequest{
		PageNumber: DefaultPageNumber,
		PageSize:   DefaultPageSize,
		SortOrder:  Asc,
	}
}

// PageResult is the pagination envelope returned by listing endpoints
type PageResult[T any] struct {
	PageNumber      int  `json:"page_number"`
	PageSize        int  `json:"page_size"`
	Count           int  `json:"count"`
	TotalPages      int  `json:"total_pages"`
	HasPreviousPage bool `json:"has_previous_page"`
	HasNextPage     bool `json:"has_next_page"`
	Data            []T  `json:"data"`
}

// Validate checks the request against schema without touching any records
func Validate[T any](req PageRequest, schema Schema[T]) error {
	if req.PageSize <= 0 {
		return fmt.Errorf("%w: page size must be positive, got %d", models.ErrInvalidArgument, req.PageSize)
	}
	if req.PageNumber <= 0 {
		return fmt.Errorf("%w: page number must be positive, got %d", models.ErrInvalidArgument, req.PageNumber)
	}
	if req.filtering() {
		if field, ok := schema.Lookup(req.SearchField); !ok || !field.Searchable {
			return fmt.Errorf("%w: cannot search by %q", models.ErrInvalidArgument, req.SearchField)
		}
	}
	if req.SortField != "" {
		if _, ok := schema.Lookup(req.SortField); !ok {
			return fmt.Errorf("%w: cannot sort by %q", models.ErrInvalidArgument, req.SortField)
		}
	}
	return nil
}

func (r PageRequest) filtering() bool {
	return r.SearchField != "" && r.SearchKeyword != ""
}

// ListPage filters records by the search keyword, stably sorts them by the sort
// field and returns the requested page, each item mapped through project.
// records is not modified.
func ListPage[T, P any](records []T, req PageRequest, schema Schema[T], project func(T) P) (*PageResult[P], error) {
	if err := Validate(req, schema); err != nil {
		return nil, err
	}

	filtered := filter(records, req, schema)
	sortRecords(filtered, req, schema)

	return paginate(filtered, req, project), nil
}

func filter[T any](records []T, req PageRequest, schema Schema[T]) []T {
	if !req.filtering() {
		return slices.Clone(records)
	}

	field, _ := schema.Lookup(req.SearchField)
	keyword := strings.ToLower(req.SearchKeyword)
	out := make([]T, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(field.Text(r)), keyword) {
			out = append(out, r)
		}
	}
	return out
}

func sortRecords[T any](records []T, req PageRequest, schema Schema[T]) {
	if req.SortField == "" {
		return
	}

	field, _ := schema.Lookup(req.SortField)

	// Negating keeps ties at zero, so the stable sort holds in both directions
	sign := 1
	if req.SortOrder == Desc {
		sign = -1
	}

	slices.SortStableFunc(records, func(a, b T) int {
		return sign * field.Compare(a, b)
	})
}

func paginate[T, P any](records []T, req PageRequest, project func(T) P) *PageResult[P] {
	total := len(records)
	totalPages := total / req.PageSize
	if total%req.PageSize != 0 {
		totalPages++
	}

	// Compare page numbers before multiplying so huge pages cannot overflow
	start, end := total, total
	if req.PageNumber <= totalPages {
		start = (req.PageNumber - 1) * req.PageSize
		end = start + min(req.PageSize, total-start)
	}

	data := make([]P, 0, end-start)
	for _, r := range records[start:end] {
		data = append(data, project(r))
	}

	return &PageResult[P]{
		PageNumber:      req.PageNumber,
		PageSize:        req.PageSize,
		Count:           len(data),
		TotalPages:      totalPages,
		HasPreviousPage: req.PageNumber > 1,
		HasNextPage:     end < total,
		Data:            data,
	}
}
