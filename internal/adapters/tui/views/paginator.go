package views

import "github.com/charmbracelet/bubbles/paginator"

// Paginator pairs a bubbles page model with a cursor over a result list.
// The page always follows the cursor.
type Paginator struct {
	page   paginator.Model
	cursor int
	total  int
}

// NewPaginator creates a paginator showing pageSize items per page
func NewPaginator(pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = 10
	}
	page := paginator.New()
	page.Type = paginator.Arabic
	page.PerPage = pageSize
	return &Paginator{page: page}
}

// SetTotal sets the number of items and clamps the cursor
func (p *Paginator) SetTotal(total int) {
	p.total = max(total, 0)
	if p.total == 0 {
		p.page.TotalPages = 1
	} else {
		p.page.SetTotalPages(p.total)
	}
	p.setCursor(p.cursor)
}

// Cursor returns the absolute index under the cursor
func (p *Paginator) Cursor() int {
	return p.cursor
}

func (p *Paginator) setCursor(pos int) {
	pos = min(pos, p.total-1)
	p.cursor = max(pos, 0)
	p.page.Page = p.cursor / p.page.PerPage
}

// CursorUp moves the cursor up by one
func (p *Paginator) CursorUp() bool {
	if p.cursor == 0 {
		return false
	}
	p.setCursor(p.cursor - 1)
	return true
}

// CursorDown moves the cursor down by one
func (p *Paginator) CursorDown() bool {
	if p.cursor >= p.total-1 {
		return false
	}
	p.setCursor(p.cursor + 1)
	return true
}

// NextPage jumps to the first item of the next page
func (p *Paginator) NextPage() bool {
	if p.page.OnLastPage() {
		return false
	}
	p.page.NextPage()
	p.cursor = p.page.Page * p.page.PerPage
	return true
}

// PrevPage jumps to the first item of the previous page
func (p *Paginator) PrevPage() bool {
	if p.page.OnFirstPage() {
		return false
	}
	p.page.PrevPage()
	p.cursor = p.page.Page * p.page.PerPage
	return true
}

// VisibleRange returns the bounds of the current page
func (p *Paginator) VisibleRange() (start, end int) {
	return p.page.GetSliceBounds(p.total)
}

// CurrentPage returns the 1-based page number
func (p *Paginator) CurrentPage() int {
	return p.page.Page + 1
}

// TotalPages returns the page count, at least 1
func (p *Paginator) TotalPages() int {
	return max(p.page.TotalPages, 1)
}

// View renders the page indicator, e.g. "2/5"
func (p *Paginator) View() string {
	return p.page.View()
}

// Reset empties the paginator
func (p *Paginator) Reset() {
	p.cursor = 0
	p.total = 0
	p.page.Page = 0
	p.page.TotalPages = 1
}
