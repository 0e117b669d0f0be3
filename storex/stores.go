// Package storex provides typed storage helpers shared by the request
// stores: pagination containers and thin generic wrappers over the
// MongoDB driver and sqlx.
package storex

// Page represents pagination metadata
type Page struct {
	Number int `json:"page"`
	Size   int `json:"page_size"`
	Total  int `json:"total"`
	Pages  int `json:"pages"`
}

// Paginated is a generic container for paginated data with metadata
type Paginated[T any] struct {
	Data  []T  `json:"data"`
	Page  Page `json:"pagination"`
	Empty bool `json:"empty"`
}

// NewPaginated creates a new paginated result with calculated fields
func NewPaginated[T any](data []T, page, size, total int) Paginated[T] {
	pages := 0
	if size > 0 {
		pages = (total + size - 1) / size
	}

	return Paginated[T]{
		Data: data,
		Page: Page{
			Number: page,
			Size:   size,
			Total:  total,
			Pages:  pages,
		},
		Empty: len(data) == 0,
	}
}

// HasNext returns whether there are more pages after the current one
func (p Paginated[T]) HasNext() bool {
	return p.Page.Number < p.Page.Pages
}

// HasPrevious returns whether there are pages before the current one
func (p Paginated[T]) HasPrevious() bool {
	return p.Page.Number > 1
}

// PaginationOptions holds options for pagination queries
type PaginationOptions struct {
	Page     int
	PageSize int
	OrderBy  string
	Desc     bool
	Filters  map[string]any
}

// DefaultPaginationOptions returns sensible default options
func DefaultPaginationOptions() PaginationOptions {
	return PaginationOptions{
		Page:     1,
		PageSize: 25,
		OrderBy:  "created_at",
		Desc:     true,
		Filters:  make(map[string]any),
	}
}

// WithFilter adds a filter to the pagination options
func (o PaginationOptions) WithFilter(key string, value any) PaginationOptions {
	if o.Filters == nil {
		o.Filters = make(map[string]any)
	}
	o.Filters[key] = value
	return o
}
