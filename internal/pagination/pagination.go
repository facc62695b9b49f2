// Package pagination slices ordered feeds into fixed-size pages.
//
// Page numbers are 1-indexed. An absent or unparsable page number resolves
// to the first page; out-of-range numbers clamp to the nearest valid page
// instead of erroring. An empty feed still has exactly one (empty) page.
package pagination

import "strconv"

// Page is one page of an ordered feed
type Page[T any] struct {
	Items       []T   `json:"items"`
	Number      int   `json:"number"`
	TotalPages  int   `json:"total_pages"`
	Count       int64 `json:"count"`
	HasPrevious bool  `json:"has_previous"`
	HasNext     bool  `json:"has_next"`
}

// ParseNumber parses a requested page number. Anything that is not a
// positive integer resolves to page 1.
func ParseNumber(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// TotalPages returns the number of pages for count items. Never less than 1.
func TotalPages(count int64, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := int((count + int64(pageSize) - 1) / int64(pageSize))
	if pages < 1 {
		pages = 1
	}
	return pages
}

// Clamp brings a page number into the valid [1, totalPages] range
func Clamp(number, totalPages int) int {
	if number < 1 {
		return 1
	}
	if number > totalPages {
		return totalPages
	}
	return number
}

// Offset returns the item offset of a page
func Offset(number, pageSize int) int {
	return (number - 1) * pageSize
}

// NewPage assembles a page from its already-sliced items
func NewPage[T any](items []T, number int, count int64, pageSize int) Page[T] {
	total := TotalPages(count, pageSize)
	number = Clamp(number, total)
	return Page[T]{
		Items:       items,
		Number:      number,
		TotalPages:  total,
		Count:       count,
		HasPrevious: number > 1,
		HasNext:     number < total,
	}
}
