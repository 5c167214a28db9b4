package models

import "math"

// Feed and listing page bounds.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	// MaxPage keeps (page-1)*MaxPageSize within an int32 skip.
	MaxPage = math.MaxInt32 / MaxPageSize
)

// Page is one slice of a paginated listing.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int64 `json:"totalPages"`
}

// NormalizePaging clamps page to [1, MaxPage] and pageSize to (0, MaxPageSize], defaulting to DefaultPageSize.
func NormalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// NewPage assembles a page, deriving TotalPages. Items is never nil.
func NewPage[T any](items []T, page, pageSize int, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	var pages int64
	if pageSize > 0 {
		pages = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return Page[T]{Items: items, Page: page, PageSize: pageSize, TotalItems: total, TotalPages: pages}
}

// Offset is the number of rows to skip for a normalized page.
func Offset(page, pageSize int) int {
	return (page - 1) * pageSize
}
