package web

import (
	"net/http"
	"strconv"
)

// pagination describes one page of a listing.
type pagination struct {
	Number int
	Size   int
	Total  int
	Pages  int
}

// requestedPage reads the page query parameter, defaulting to 1.
// ok is false for malformed or non-positive values.
func requestedPage(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// newPagination builds page number of a listing with total rows. ok is false
// when number is past the last page; page 1 of an empty listing is valid.
func newPagination(number, size, total int) (pagination, bool) {
	p := pagination{Number: number, Size: size, Total: total}
	p.Pages = (total + size - 1) / size
	if p.Pages == 0 {
		p.Pages = 1
	}
	return p, number <= p.Pages
}

func pageOffset(number, size int) int { return (number - 1) * size }

// HasPrev reports whether a previous page exists.
func (p pagination) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a following page exists.
func (p pagination) HasNext() bool { return p.Number < p.Pages }

// Prev returns the previous page number.
func (p pagination) Prev() int { return p.Number - 1 }

// Next returns the following page number.
func (p pagination) Next() int { return p.Number + 1 }
