package pagination

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params holds table paging and sorting parameters extracted from a request.
type Params struct {
	Limit  int
	Offset int
	Sort   string
	Desc   bool
	Filter string
}

// FromContext extracts paging parameters from the echo context. It accepts
// limit/offset as well as the paginator's pageSize/pageIndex pair, and
// sort=field or sort=-field (or sort=field&dir=desc).
func FromContext(c echo.Context) Params {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit, _ = strconv.Atoi(c.QueryParam("pageSize"))
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if offset <= 0 {
		if page, err := strconv.Atoi(c.QueryParam("pageIndex")); err == nil && page > 0 {
			offset = page * limit
		}
	}
	if offset < 0 {
		offset = 0
	}

	sort := strings.TrimSpace(c.QueryParam("sort"))
	desc := strings.EqualFold(c.QueryParam("dir"), "desc")
	if strings.HasPrefix(sort, "-") {
		sort = sort[1:]
		desc = true
	}

	return Params{
		Limit:  limit,
		Offset: offset,
		Sort:   sort,
		Desc:   desc,
		Filter: strings.ToLower(strings.TrimSpace(c.QueryParam("filter"))),
	}
}

// Response wraps a paginated list.
type Response struct {
	Data    interface{} `json:"data"`
	Total   int         `json:"total"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
	HasMore bool        `json:"has_more"`
}

func NewResponse(data interface{}, total, limit, offset int) *Response {
	return &Response{
		Data:    data,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
	}
}

// Page returns the window of items selected by p. The result is never nil.
func Page[T any](items []T, p Params) []T {
	if p.Offset >= len(items) {
		return []T{}
	}
	end := p.Offset + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[p.Offset:end]
}

// HasNext returns true if there are more results after the current page.
func (p Params) HasNext(total int) bool {
	return p.Offset+p.Limit < total
}

// HasPrevious returns true if there are results before the current page.
func (p Params) HasPrevious() bool {
	return p.Offset > 0
}

// NextOffset returns the offset for the next page.
func (p Params) NextOffset() int {
	return p.Offset + p.Limit
}

// PreviousOffset returns the offset for the previous page.
// Returns 0 if the result would be negative.
func (p Params) PreviousOffset() int {
	prev := p.Offset - p.Limit
	if prev < 0 {
		return 0
	}
	return prev
}

// FirstPage resets the offset, as the table does whenever the filter changes.
func (p Params) FirstPage() Params {
	p.Offset = 0
	return p
}
