package user

import (
	"errors"
	"fmt"
	"slices"
)

// DefaultPageSize is the page size used when the screen is first opened.
const DefaultPageSize = 5

// PageSizeOptions are the page sizes offered by the grid.
var PageSizeOptions = []int{5, 10}

// ErrInvalidPagination is returned for a page request outside the allowed range.
var ErrInvalidPagination = errors.New("invalid pagination")

// PageRequest selects a window of the user list.
type PageRequest struct {
	Page     int `json:"page"`     // Zero-based page index
	PageSize int `json:"pageSize"` // Rows per page, one of PageSizeOptions
}

// DefaultPageRequest returns the first page at the default size.
func DefaultPageRequest() PageRequest {
	return PageRequest{Page: 0, PageSize: DefaultPageSize}
}

// Validate reports whether p can be sent to the Users API.
func (p PageRequest) Validate() error {
	if p.Page < 0 {
		return fmt.Errorf("%w: page %d is negative", ErrInvalidPagination, p.Page)
	}
	if !slices.Contains(PageSizeOptions, p.PageSize) {
		return fmt.Errorf("%w: page size %d not in %v", ErrInvalidPagination, p.PageSize, PageSizeOptions)
	}
	return nil
}

// Skip is the number of records before the window.
func (p PageRequest) Skip() int {
	return p.Page * p.PageSize
}

// Limit is the maximum number of records in the window.
func (p PageRequest) Limit() int {
	return p.PageSize
}

// TotalPages returns the number of pages needed for total records.
func (p PageRequest) TotalPages(total int64) int64 {
	if p.PageSize <= 0 {
		return 0
	}
	size := int64(p.PageSize)
	return (total + size - 1) / size
}
