package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		page    int
		perPage int
	}{
		{name: "defaults", query: "", page: 1, perPage: 20},
		{name: "custom", query: "?page=3&per_page=5", page: 3, perPage: 5},
		{name: "negative page", query: "?page=-1", page: 1, perPage: 20},
		{name: "not a number", query: "?page=abc&per_page=x", page: 1, perPage: 20},
		{name: "per page above cap", query: "?per_page=101", page: 1, perPage: 20},
		{name: "per page at cap", query: "?per_page=100", page: 1, perPage: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := FromRequest(httptest.NewRequest(http.MethodGet, "/brand-forms"+tt.query, nil))
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.perPage, p.PerPage)
		})
	}
}

func TestSlice(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}

	t.Run("first page", func(t *testing.T) {
		res := Slice(items, Params{Page: 1, PerPage: 2})
		assert.Equal(t, []string{"a", "b"}, res.Data)
		assert.Equal(t, 5, res.TotalCount)
		assert.Equal(t, 3, res.TotalPages)
		assert.True(t, res.HasNext)
	})

	t.Run("last partial page", func(t *testing.T) {
		res := Slice(items, Params{Page: 3, PerPage: 2})
		assert.Equal(t, []string{"e"}, res.Data)
		assert.False(t, res.HasNext)
	})

	t.Run("past the end", func(t *testing.T) {
		res := Slice(items, Params{Page: 9, PerPage: 2})
		assert.NotNil(t, res.Data)
		assert.Empty(t, res.Data)
	})

	t.Run("empty input", func(t *testing.T) {
		res := Slice([]string(nil), Params{Page: 1, PerPage: 20})
		assert.Empty(t, res.Data)
		assert.Equal(t, 0, res.TotalPages)
		assert.False(t, res.HasNext)
	})
}
