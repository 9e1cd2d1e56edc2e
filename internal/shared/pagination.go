package shared

import "math"

// MaxPerPage caps the page size of any listing.
const MaxPerPage = 100

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes pagination metadata.
func NewPagination(page, perPage, total int) Pagination {
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// Bounds returns the half-open slice range covered by the current page.
// Pages past the end yield an empty range.
func (p Pagination) Bounds() (start, end int) {
	if p.Total <= 0 || p.PerPage <= 0 || p.Page-1 >= p.TotalPages {
		return p.Total, p.Total
	}
	start = (p.Page - 1) * p.PerPage
	end = start + min(p.PerPage, p.Total-start)
	return start, end
}

// Page slices items down to the requested page.
func Page[T any](items []T, page, perPage int) ([]T, Pagination) {
	p := NewPagination(page, perPage, len(items))
	start, end := p.Bounds()
	return items[start:end], p
}
