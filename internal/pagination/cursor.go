// Package pagination tracks the page offset of a record listing.
package pagination

// DefaultPerPage is the page size used by the record listings.
const DefaultPerPage = 20

// Cursor is a zero-based page index over a server-side total.
type Cursor struct {
	page    int
	perPage int
	total   int
}

// New returns a cursor on the first page. A non-positive perPage uses DefaultPerPage.
func New(perPage int) *Cursor {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return &Cursor{perPage: perPage}
}

// Page returns the current page index.
func (c *Cursor) Page() int { return c.page }

// PerPage returns the page size.
func (c *Cursor) PerPage() int { return c.perPage }

// Total returns the last reported total row count.
func (c *Cursor) Total() int { return c.total }

// TotalPages returns ceil(total / perPage).
func (c *Cursor) TotalPages() int {
	if c.total <= 0 {
		return 0
	}
	return (c.total + c.perPage - 1) / c.perPage
}

// Skip returns the record offset of the current page.
func (c *Cursor) Skip() int {
	return c.page * c.perPage
}

// Goto moves to a page, clamped to [0, TotalPages-1]. It reports whether the
// page changed.
func (c *Cursor) Goto(page int) bool {
	page = c.clamp(page)
	if page == c.page {
		return false
	}
	c.page = page
	return true
}

// Next moves one page forward.
func (c *Cursor) Next() bool { return c.Goto(c.page + 1) }

// Prev moves one page back.
func (c *Cursor) Prev() bool { return c.Goto(c.page - 1) }

// HasNext reports whether a later page exists.
func (c *Cursor) HasNext() bool { return c.page < c.TotalPages()-1 }

// HasPrev reports whether an earlier page exists.
func (c *Cursor) HasPrev() bool { return c.page > 0 }

// Reset returns to the first page.
func (c *Cursor) Reset() { c.page = 0 }

// SetTotal records the total row count and pulls the page back in range.
func (c *Cursor) SetTotal(total int) {
	if total < 0 {
		total = 0
	}
	c.total = total
	c.page = c.clamp(c.page)
}

// Range returns the 1-based first and last row numbers shown on the current
// page; both are zero when there are no rows.
func (c *Cursor) Range() (first, last int) {
	if c.total == 0 {
		return 0, 0
	}
	first = c.Skip() + 1
	last = min(c.Skip()+c.perPage, c.total)
	return first, last
}

func (c *Cursor) clamp(page int) int {
	if last := c.TotalPages() - 1; page > last {
		page = last
	}
	if page < 0 {
		page = 0
	}
	return page
}
