// Package pagination holds the page window of a result listing.
package pagination

// Page size defaults. MaxPageSize is the default cap callers apply;
// SetPageSize enforces only the lower bound.
const (
	DefaultPageSize = 20
	MinPageSize     = 1
	MaxPageSize     = 100
)

// Pagination tracks page size, current page and the total number of matches.
// Limit and Offset depend on the total count, so it must be recorded with
// SetTotalCount before they are read.
type Pagination struct {
	pageSize     int
	page         int
	totalCount   int
	validatePage bool
}

// New creates pagination with the given page size on the first page.
// A page size below 1 disables the window.
func New(pageSize int) *Pagination {
	return &Pagination{pageSize: pageSize, validatePage: true}
}

// SetPage sets the zero-based page.
func (p *Pagination) SetPage(page int) *Pagination {
	if page < 0 {
		page = 0
	}
	p.page = page
	return p
}

// SetPageSize sets the page size, raised to MinPageSize when smaller.
// Upper bounds are the caller's concern.
func (p *Pagination) SetPageSize(size int) *Pagination {
	if size < MinPageSize {
		size = MinPageSize
	}
	p.pageSize = size
	return p
}

// SetValidatePage controls whether Page is clamped to the last existing page.
func (p *Pagination) SetValidatePage(enabled bool) *Pagination {
	p.validatePage = enabled
	return p
}

// SetTotalCount records the number of matching documents.
func (p *Pagination) SetTotalCount(n int) {
	if n < 0 {
		n = 0
	}
	p.totalCount = n
}

// TotalCount returns the recorded number of matching documents.
func (p *Pagination) TotalCount() int { return p.totalCount }

// PageSize returns the page size.
func (p *Pagination) PageSize() int { return p.pageSize }

// PageCount returns the number of pages needed for the total count.
func (p *Pagination) PageCount() int {
	if p.pageSize < 1 {
		if p.totalCount > 0 {
			return 1
		}
		return 0
	}
	return (p.totalCount + p.pageSize - 1) / p.pageSize
}

// Page returns the zero-based current page, clamped to the last page when
// page validation is on.
func (p *Pagination) Page() int {
	if !p.validatePage {
		return p.page
	}
	last := p.PageCount() - 1
	if p.page > last {
		if last < 0 {
			return 0
		}
		return last
	}
	return p.page
}

// Offset returns the index of the first document on the current page.
func (p *Pagination) Offset() int {
	if p.pageSize < 1 {
		return 0
	}
	return p.Page() * p.pageSize
}

// Limit returns the number of documents to fetch for the current page:
// the page size, or fewer on a partial last page. -1 means no limit.
func (p *Pagination) Limit() int {
	if p.pageSize < 1 {
		return -1
	}
	remaining := p.totalCount - p.Offset()
	if remaining < 0 {
		return 0
	}
	if remaining < p.pageSize {
		return remaining
	}
	return p.pageSize
}
