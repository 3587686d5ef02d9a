package journal

// DefaultPageLimit is the page size used when none is given.
const DefaultPageLimit = 10

// maxPageButtons is how many leading page numbers a pager shows.
const maxPageButtons = 5

// NormalizePage clamps a requested page to at least 1 and substitutes the
// default page size for a non-positive limit.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	return page, limit
}

// Pager derives navigation state from a Pagination.
type Pager struct {
	p Pagination
}

// NewPager wraps p. A zero TotalPages is treated as a single page.
func NewPager(p Pagination) Pager {
	if p.TotalPages < 1 {
		p.TotalPages = 1
	}
	if p.CurrentPage < 1 {
		p.CurrentPage = 1
	}
	return Pager{p: p}
}

// Current is the page being shown.
func (g Pager) Current() int { return g.p.CurrentPage }

// Total is the number of pages.
func (g Pager) Total() int { return g.p.TotalPages }

// Visible reports whether page controls are worth showing.
func (g Pager) Visible() bool { return g.p.TotalPages > 1 }

// Prev is the previous page, never below 1.
func (g Pager) Prev() int { return max(g.p.CurrentPage-1, 1) }

// Next is the following page, never past the last.
func (g Pager) Next() int { return min(g.p.CurrentPage+1, g.p.TotalPages) }

// CanPrev reports whether a previous page exists.
func (g Pager) CanPrev() bool { return g.p.HasPrevPage }

// CanNext reports whether a following page exists.
func (g Pager) CanNext() bool { return g.p.HasNextPage }

// Numbers lists the page buttons: the first five pages, plus the last page
// when there are more than five. A zero separates the two groups.
func (g Pager) Numbers() []int {
	n := min(maxPageButtons, g.p.TotalPages)
	out := make([]int, 0, n+2)
	for i := 1; i <= n; i++ {
		out = append(out, i)
	}
	if g.p.TotalPages > maxPageButtons {
		out = append(out, 0, g.p.TotalPages)
	}
	return out
}

// Consistent reports whether the flags agree with the page counters.
func (p Pagination) Consistent() bool {
	if p.TotalPosts == 0 {
		return !p.HasNextPage && !p.HasPrevPage
	}
	if p.CurrentPage < 1 || p.CurrentPage > p.TotalPages {
		return false
	}
	return p.HasNextPage == (p.CurrentPage < p.TotalPages) &&
		p.HasPrevPage == (p.CurrentPage > 1)
}
