package model

// Pagination is one link of the page selector under the movie grid
type Pagination struct {
	Number int64
	Active bool
	Dots   bool
}

// IsLink tells the template whether the entry should be rendered as a clickable link
func (p Pagination) IsLink() bool {
	return !p.Dots && !p.Active
}
