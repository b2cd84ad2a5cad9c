// Package pagination carries page/page_size query parameters the way the
// admin panel sends them and normalizes them into SQL offsets.
package pagination

const (
	DefaultPageSize = 10
	MaxPageSize     = 250
)

// Params is bound from `page` and `page_size` query parameters.
type Params struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"page_size,default=10"`
}

// Normalize clamps the parameters into their legal ranges.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the SQL offset for the normalized page.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PageSize
}

// Limit returns the SQL limit for the normalized page.
func (p Params) Limit() int {
	return p.Normalize().PageSize
}

// Page is a single result page with the total row count for the query.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}
