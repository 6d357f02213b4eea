package hardware

import (
	"math"
	"strconv"
)

const (
	DefaultPageNumber = 0
	DefaultPageSize   = 5
	MaxPageSize       = 100
)

// Pageable requests one page of results. Number is zero-based.
// A Size of 0 disables pagination.
type Pageable struct {
	Number int `json:"number"`
	Size   int `json:"size"`
}

// Unpaged requests every matching record.
var Unpaged = Pageable{}

// NewPageable builds a Pageable from wire values.
// Missing or malformed values fall back to the defaults; an explicit "0"
// size keeps the unpaginated sentinel.
func NewPageable(number, size string) Pageable {
	p := Pageable{Number: DefaultPageNumber, Size: DefaultPageSize}

	if n, err := strconv.Atoi(number); err == nil && n >= 0 {
		p.Number = n
	}

	if s, err := strconv.Atoi(size); err == nil && s >= 0 {
		p.Size = min(s, MaxPageSize)
	}

	return p
}

// Offset returns the number of records to skip.
func (p Pageable) Offset() int {
	return p.Number * p.Size
}

// Slice is a page of results plus the count of all matches.
type Slice[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
}

// PageInfo describes the position of a Page.
type PageInfo struct {
	Size          int   `json:"size"`
	Number        int   `json:"number"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// Page is the wire representation of a Slice.
type Page[T any] struct {
	Content []T      `json:"content"`
	Page    PageInfo `json:"page"`
}

// NewPage wraps a slice with paging metadata.
func NewPage[T any](s Slice[T], p Pageable) Page[T] {
	size := p.Size
	if size == 0 {
		size = len(s.Content)
	}

	totalPages := 0
	if size > 0 {
		totalPages = int(math.Ceil(float64(s.TotalElements) / float64(size)))
	}

	return Page[T]{
		Content: s.Content,
		Page: PageInfo{
			Size:          size,
			Number:        p.Number,
			TotalElements: s.TotalElements,
			TotalPages:    totalPages,
		},
	}
}
