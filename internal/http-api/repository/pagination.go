package repository

import "math"

const (
	DefaultPageSize = 6
	MaxPageSize     = 100
	// keeps Offset within int32 for any page size
	MaxPageNumber = math.MaxInt32 / MaxPageSize
)

// Page is a 1-based page number and a page size.
type Page struct {
	Number int
	Size   int
}

// NewPage clamps number and size into valid ranges.
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if number > MaxPageNumber {
		number = MaxPageNumber
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

func (p Page) Limit() int {
	return p.Size
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}
