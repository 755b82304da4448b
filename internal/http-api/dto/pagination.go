package dto

import (
	"net/url"
	"strconv"

	"foodgram/internal/http-api/repository"
)

// Paginated is the {count, next, previous, results} envelope of list endpoints.
type Paginated[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NewPaginated builds next/previous links from the request URL by swapping its page parameter.
func NewPaginated[T any](results []T, total int64, page repository.Page, requestURL *url.URL) Paginated[T] {
	if results == nil {
		results = []T{}
	}
	p := Paginated[T]{Count: total, Results: results}
	if requestURL == nil {
		return p
	}

	if int64(page.Number)*int64(page.Size) < total {
		next := pageURL(requestURL, page.Number+1)
		p.Next = &next
	}
	if page.Number > 1 {
		prev := pageURL(requestURL, page.Number-1)
		p.Previous = &prev
	}
	return p
}

func pageURL(u *url.URL, number int) string {
	copied := *u
	q := copied.Query()
	if number <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(number))
	}
	copied.RawQuery = q.Encode()
	return copied.String()
}
