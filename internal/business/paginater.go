package business

import (
	"github.com/Agurato/cineverse/internal/model"
)

const DefaultItemsPerPage = 20

// Paginater splits the movie grid in pages
type Paginater[T any] struct {
	itemsPerPage int64
}

// NewPaginater instantiates a new Paginater
func NewPaginater[T any](itemsPerPage int64) *Paginater[T] {
	if itemsPerPage <= 0 {
		itemsPerPage = DefaultItemsPerPage
	}
	return &Paginater[T]{
		itemsPerPage: itemsPerPage,
	}
}

// PageCount returns the number of pages needed to show every item, at least 1
func (p *Paginater[T]) PageCount(itemCount int) int64 {
	pageMax := (int64(itemCount) + p.itemsPerPage - 1) / p.itemsPerPage
	if pageMax < 1 {
		return 1
	}
	return pageMax
}

// GetPagination returns the items of the current page and the page links to display.
// The current page is clamped between the first and the last page.
func (p *Paginater[T]) GetPagination(currentPage int64, items []T) ([]T, []model.Pagination) {
	pageMax := p.PageCount(len(items))
	currentPage = min(max(currentPage, 1), pageMax)

	pages := []model.Pagination{{
		Number: 1,
		Active: currentPage == 1,
	}}
	if currentPage > 3 {
		pages = append(pages, model.Pagination{Dots: true})
	}
	for i := currentPage - 1; i <= currentPage+1; i++ {
		if i <= 1 || i >= pageMax {
			continue
		}
		pages = append(pages, model.Pagination{
			Number: i,
			Active: i == currentPage,
		})
	}
	if currentPage < pageMax-2 {
		pages = append(pages, model.Pagination{Dots: true})
	}
	if pageMax > 1 {
		pages = append(pages, model.Pagination{
			Number: pageMax,
			Active: currentPage == pageMax,
		})
	}

	start := min((currentPage-1)*p.itemsPerPage, int64(len(items)))
	end := min(start+p.itemsPerPage, int64(len(items)))
	return items[start:end], pages
}
