package business_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Agurato/cineverse/internal/business"
	"github.com/Agurato/cineverse/internal/model"
)

func TestPaginater(t *testing.T) {
	paginater := business.NewPaginater[model.MovieSummary](5)
	list := movies(23)

	t.Run("first page", func(t *testing.T) {
		items, pages := paginater.GetPagination(1, list)
		assert.Len(t, items, 5)
		assert.Equal(t, int64(1), items[0].ID)
		assert.Equal(t, []model.Pagination{
			{Number: 1, Active: true},
			{Number: 2},
			{Dots: true},
			{Number: 5},
		}, pages)
	})

	t.Run("last page", func(t *testing.T) {
		items, pages := paginater.GetPagination(5, list)
		assert.Len(t, items, 3)
		assert.Equal(t, int64(21), items[0].ID)
		assert.Equal(t, []model.Pagination{
			{Number: 1},
			{Dots: true},
			{Number: 4},
			{Number: 5, Active: true},
		}, pages)
	})

	t.Run("out of range pages are clamped", func(t *testing.T) {
		items, _ := paginater.GetPagination(0, list)
		assert.Equal(t, int64(1), items[0].ID)
		items, _ = paginater.GetPagination(42, list)
		assert.Equal(t, int64(21), items[0].ID)
	})

	t.Run("single page", func(t *testing.T) {
		items, pages := business.NewPaginater[model.MovieSummary](20).GetPagination(1, movies(20))
		assert.Len(t, items, 20)
		assert.Equal(t, []model.Pagination{{Number: 1, Active: true}}, pages)
		assert.False(t, pages[0].IsLink())
	})

	t.Run("empty list", func(t *testing.T) {
		items, pages := paginater.GetPagination(1, nil)
		assert.Empty(t, items)
		assert.Len(t, pages, 1)
	})
}
