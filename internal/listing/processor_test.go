package listing_test

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/BradenHooton/roster/internal/listing"
	"github.com/BradenHooton/roster/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID      string
	Email   string
	City    string
	Total   float64
	Created time.Time
}

var testSchema = listing.Schema[record]{
	"email":      listing.StringField(func(r record) string { return r.Email }),
	"city":       listing.StringField(func(r record) string { return r.City }),
	"total":      listing.NumberField(func(r record) float64 { return r.Total }),
	"created_at": listing.TimeField(func(r record) time.Time { return r.Created }),
}

func idOf(r record) string { return r.ID }

func makeRecords(n int) []record {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]record, n)
	for i := 0; i < n; i++ {
		// reverse order so sorting has work to do
		j := n - i
		out[i] = record{
			ID:      fmt.Sprintf("r%02d", j),
			Email:   fmt.Sprintf("user%02d@example.com", j),
			Total:   float64(j),
			Created: base.Add(time.Duration(j) * time.Hour),
		}
	}
	return out
}

func TestListPage_TwelveUsersByEmail(t *testing.T) {
	records := makeRecords(12)
	req := listing.PageRequest{PageNumber: 1, PageSize: 5, SortField: "email", SortOrder: listing.Asc}

	page, err := listing.ListPage(records, req, testSchema, idOf)
	require.NoError(t, err)

	assert.Equal(t, 1, page.PageNumber)
	assert.Equal(t, 5, page.PageSize)
	assert.Equal(t, 5, page.Count)
	assert.Equal(t, 3, page.TotalPages)
	assert.False(t, page.HasPreviousPage)
	assert.True(t, page.HasNextPage)
	assert.Equal(t, []string{"r01", "r02", "r03", "r04", "r05"}, page.Data)

	req.PageNumber = 3
	page, err = listing.ListPage(records, req, testSchema, idOf)
	require.NoError(t, err)

	assert.Equal(t, 2, page.Count)
	assert.True(t, page.HasPreviousPage)
	assert.False(t, page.HasNextPage)
	assert.Equal(t, []string{"r11", "r12"}, page.Data)
}

func TestListPage_PagesConcatenateToWholeCollection(t *testing.T) {
	records := makeRecords(23)

	for _, size := range []int{1, 4, 7, 23, 50} {
		t.Run(fmt.Sprintf("size=%d", size), func(t *testing.T) {
			req := listing.PageRequest{PageNumber: 1, PageSize: size, SortField: "total", SortOrder: listing.Desc}
			first, err := listing.ListPage(records, req, testSchema, idOf)
			require.NoError(t, err)
			assert.Equal(t, (23+size-1)/size, first.TotalPages)

			var all []string
			for p := 1; p <= first.TotalPages; p++ {
				req.PageNumber = p
				page, err := listing.ListPage(records, req, testSchema, idOf)
				require.NoError(t, err)
				all = append(all, page.Data...)
			}

			require.Len(t, all, 23)
			seen := make(map[string]bool)
			for i, id := range all {
				assert.False(t, seen[id], "duplicate %s", id)
				seen[id] = true
				assert.Equal(t, fmt.Sprintf("r%02d", 23-i), id)
			}
		})
	}
}

func TestListPage_CaseInsensitiveSearch(t *testing.T) {
	records := []record{
		{ID: "1", Email: "abc@example.com"},
		{ID: "2", Email: "xyz@example.com"},
		{ID: "3", Email: "ABC@example.com"},
		{ID: "4", Email: "z.aBc@example.com"},
	}
	req := listing.PageRequest{PageNumber: 1, PageSize: 10, SearchField: "email", SearchKeyword: "ABC"}

	page, err := listing.ListPage(records, req, testSchema, idOf)
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "3", "4"}, page.Data)
	assert.Equal(t, 1, page.TotalPages)
}

func TestListPage_SearchKeywordIsLiteral(t *testing.T) {
	records := []record{
		{ID: "1", Email: "a.b@example.com"},
		{ID: "2", Email: "axb@example.com"},
	}
	req := listing.PageRequest{PageNumber: 1, PageSize: 10, SearchField: "email", SearchKeyword: "a.b"}

	page, err := listing.ListPage(records, req, testSchema, idOf)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, page.Data)
}

func TestListPage_TotalPagesCountFilteredRecords(t *testing.T) {
	records := makeRecords(12)
	req := listing.PageRequest{PageNumber: 1, PageSize: 5, SearchField: "email", SearchKeyword: "user0"}

	page, err := listing.ListPage(records, req, testSchema, idOf)
	require.NoError(t, err)

	assert.Equal(t, 2, page.TotalPages, "nine matches over pages of five")
	assert.True(t, page.HasNextPage)
}

func TestListPage_SearchIgnoredWithoutKeyword(t *testing.T) {
	records := makeRecords(3)
	req := listing.PageRequest{PageNumber: 1, PageSize: 10, SearchField: "email"}

	page, err := listing.ListPage(records, req, testSchema, idOf)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Count)
}

func TestListPage_NumericSortIsNotLexicographic(t *testing.T) {
	records := []record{
		{ID: "ten", Total: 10},
		{ID: "two", Total: 2},
		{ID: "hundred", Total: 100},
	}
	req := listing.PageRequest{PageNumber: 1, PageSize: 10, SortField: "total", SortOrder: listing.Asc}

	page, err := listing.ListPage(records, req, testSchema, idOf)
	require.NoError(t, err)
	assert.Equal(t, []string{"two", "ten", "hundred"}, page.Data)
}

func TestListPage_TimeSort(t *testing.T) {
	records := makeRecords(3)
	req := listing.PageRequest{PageNumber: 1, PageSize: 10, SortField: "created_at", SortOrder: listing.Desc}

	page, err := listing.ListPage(records, req, testSchema, idOf)
	require.NoError(t, err)
	assert.Equal(t, []string{"r03", "r02", "r01"}, page.Data)
}

func TestListPage_StableInBothDirections(t *testing.T) {
	records := []record{
		{ID: "a1", City: "Bandung"},
		{ID: "j1", City: "Jakarta"},
		{ID: "a2", City: "Bandung"},
		{ID: "j2", City: "Jakarta"},
		{ID: "a3", City: "Bandung"},
	}

	asc, err := listing.ListPage(records, listing.PageRequest{PageNumber: 1, PageSize: 10, SortField: "city", SortOrder: listing.Asc}, testSchema, idOf)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a2", "a3", "j1", "j2"}, asc.Data)

	desc, err := listing.ListPage(records, listing.PageRequest{PageNumber: 1, PageSize: 10, SortField: "city", SortOrder: listing.Desc}, testSchema, idOf)
	require.NoError(t, err)
	assert.Equal(t, []string{"j1", "j2", "a1", "a2", "a3"}, desc.Data)
}

func TestListPage_UnknownSortOrderDefaultsToAscending(t *testing.T) {
	records := makeRecords(3)
	req := listing.PageRequest{PageNumber: 1, PageSize: 10, SortField: "email", SortOrder: "sideways"}

	page, err := listing.ListPage(records, req, testSchema, idOf)
	require.NoError(t, err)
	assert.Equal(t, []string{"r01", "r02", "r03"}, page.Data)
}

func TestListPage_NoSortKeepsInputOrder(t *testing.T) {
	records := makeRecords(3)

	page, err := listing.ListPage(records, listing.DefaultPageRequest(), testSchema, idOf)
	require.NoError(t, err)
	assert.Equal(t, []string{"r03", "r02", "r01"}, page.Data)
}

func TestListPage_DoesNotMutateInput(t *testing.T) {
	records := makeRecords(5)
	before := append([]record(nil), records...)

	_, err := listing.ListPage(records, listing.PageRequest{PageNumber: 1, PageSize: 2, SortField: "email"}, testSchema, idOf)
	require.NoError(t, err)
	assert.Equal(t, before, records)
}

func TestListPage_PageBeyondLast(t *testing.T) {
	records := makeRecords(4)
	req := listing.PageRequest{PageNumber: 9, PageSize: 2}

	page, err := listing.ListPage(records, req, testSchema, idOf)
	require.NoError(t, err)

	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.Equal(t, 0, page.Count)
	assert.Equal(t, 2, page.TotalPages)
	assert.False(t, page.HasNextPage)
	assert.True(t, page.HasPreviousPage)
}

func TestListPage_HugePageNumberIsPastTheEnd(t *testing.T) {
	records := makeRecords(2)

	for _, pageNumber := range []int{math.MaxInt/5 + 1, math.MaxInt} {
		req := listing.PageRequest{PageNumber: pageNumber, PageSize: 10}

		var page *listing.PageResult[string]
		var err error
		require.NotPanics(t, func() {
			page, err = listing.ListPage(records, req, testSchema, idOf)
		})
		require.NoError(t, err)

		assert.Empty(t, page.Data)
		assert.Equal(t, 1, page.TotalPages)
		assert.False(t, page.HasNextPage)
		assert.True(t, page.HasPreviousPage)
	}
}

func TestListPage_HugePageSize(t *testing.T) {
	records := makeRecords(3)
	req := listing.PageRequest{PageNumber: 1, PageSize: math.MaxInt}

	page, err := listing.ListPage(records, req, testSchema, idOf)
	require.NoError(t, err)

	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 3, page.Count)
	assert.False(t, page.HasNextPage)
}

func TestListPage_EmptyInput(t *testing.T) {
	page, err := listing.ListPage(nil, listing.DefaultPageRequest(), testSchema, idOf)
	require.NoError(t, err)

	assert.Equal(t, 0, page.TotalPages)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.False(t, page.HasNextPage)
	assert.False(t, page.HasPreviousPage)
}

func TestListPage_InvalidArguments(t *testing.T) {
	records := makeRecords(3)

	tests := []struct {
		name string
		req  listing.PageRequest
	}{
		{"zero page size", listing.PageRequest{PageNumber: 1, PageSize: 0}},
		{"negative page size", listing.PageRequest{PageNumber: 1, PageSize: -5}},
		{"zero page number", listing.PageRequest{PageNumber: 0, PageSize: 5}},
		{"unknown sort field", listing.PageRequest{PageNumber: 1, PageSize: 5, SortField: "password"}},
		{"unknown search field", listing.PageRequest{PageNumber: 1, PageSize: 5, SearchField: "password", SearchKeyword: "x"}},
		{"non-searchable field", listing.PageRequest{PageNumber: 1, PageSize: 5, SearchField: "total", SearchKeyword: "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := listing.ListPage(records, tt.req, testSchema, idOf)
			assert.ErrorIs(t, err, models.ErrInvalidArgument)
			assert.Nil(t, page)
		})
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, listing.Validate(listing.DefaultPageRequest(), testSchema))
	assert.NoError(t, listing.Validate(listing.PageRequest{PageNumber: 2, PageSize: 3, SortField: "total", SearchField: "city", SearchKeyword: "x"}, testSchema))

	// A search field without a keyword is ignored, so it is not checked
	assert.NoError(t, listing.Validate(listing.PageRequest{PageNumber: 1, PageSize: 3, SearchField: "nope"}, testSchema))

	assert.ErrorIs(t, listing.Validate(listing.PageRequest{PageNumber: 1, PageSize: 3, SortField: "nope"}, testSchema), models.ErrInvalidArgument)
}
