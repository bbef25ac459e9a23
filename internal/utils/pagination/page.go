package pagination

// DefaultPageSize is applied when the caller does not specify one.
const DefaultPageSize = 20

// MaxPageSize bounds a caller-supplied page size.
const MaxPageSize = 200

// Params is a normalized page-number pagination request.
type Params struct {
	Page     int // 1-based
	PageSize int
}

// Normalize clamps page and page size into their valid ranges.
func Normalize(page, pageSize int) Params {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Params{Page: page, PageSize: pageSize}
}

// Offset returns the row offset for the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Limit returns the row limit for the page.
func (p Params) Limit() int {
	return p.PageSize
}

// NextPage returns the next page number given the total row count, or nil on
// the last page.
func (p Params) NextPage(total int) *int {
	if p.Offset()+p.PageSize >= total {
		return nil
	}
	next := p.Page + 1
	return &next
}

// PreviousPage returns the previous page number, or nil on the first page.
func (p Params) PreviousPage() *int {
	if p.Page <= 1 {
		return nil
	}
	prev := p.Page - 1
	return &prev
}
