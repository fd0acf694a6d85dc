// Package paginate splits an ordered collection into fixed-size pages.
package paginate

import "errors"

// Page sizes used across the board.
const (
	SearchPageSize  = 30
	AuthorPageSize  = 10
	ListingPageSize = 24
)

var ErrPageNotFound = errors.New("page not found")

// Page describes one slice of a collection of Total items.
type Page struct {
	Number   int
	Size     int
	Total    int
	LastPage int
	Offset   int
	Limit    int
}

// New validates number against a collection of total items. An empty
// collection still has a first page. Pages outside 1..LastPage return
// ErrPageNotFound.
func New(total, size, number int) (Page, error) {
	if size <= 0 {
		size = SearchPageSize
	}
	last := (total + size - 1) / size
	if last < 1 {
		last = 1
	}
	if number < 1 || number > last {
		return Page{}, ErrPageNotFound
	}
	offset := (number - 1) * size
	limit := size
	if offset+limit > total {
		limit = total - offset
	}
	return Page{
		Number:   number,
		Size:     size,
		Total:    total,
		LastPage: last,
		Offset:   offset,
		Limit:    limit,
	}, nil
}

// Slice returns the items of p from an already ordered collection.
func Slice[T any](items []T, p Page) []T {
	if p.Offset >= len(items) {
		return []T{}
	}
	end := p.Offset + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[p.Offset:end]
}
