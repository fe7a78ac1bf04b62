// Package search tracks which settings page is shown and filters the
// catalog as the user types.
package search

// Page identifies the visible settings page.
type Page int

const (
	// PageHome shows the catalog overview with per-service groups.
	PageHome Page = iota
	// PageOptions shows one service/category option list.
	PageOptions
)

// Controller holds navigation state: the current page, the selected
// service and category, an optional option awaiting focus, and the live
// search query with its virtualized window over the visible list.
type Controller struct {
	page     Page
	service  string
	category string
	focus    string
	query    string
	window   window
}

// NewController creates a controller on the home page.
func NewController(windowSize int) *Controller {
	return &Controller{window: newWindow(windowSize)}
}

// Page returns the current page.
func (c *Controller) Page() Page { return c.page }

// Service returns the selected service, empty on the home page.
func (c *Controller) Service() string { return c.service }

// Category returns the selected category, empty on the home page.
func (c *Controller) Category() string { return c.category }

// Query returns the active search text.
func (c *Controller) Query() string { return c.query }

// NavigateTo switches pages. With only a service it opens that service's
// first category; with a category it opens that page; with an option name
// it additionally schedules a focus of that control once the page has
// rendered. Empty service returns home.
func (c *Controller) NavigateTo(service, category, option string) {
	if service == "" {
		c.Home()
		return
	}
	c.page = PageOptions
	c.service = service
	c.category = category
	c.focus = option
	c.query = ""
	c.window.reset()
}

// Home returns to the catalog overview.
func (c *Controller) Home() {
	c.page = PageHome
	c.service = ""
	c.category = ""
	c.focus = ""
	c.query = ""
	c.window.reset()
}

// FocusTarget returns the option name scheduled for focus, if any.
func (c *Controller) FocusTarget() (string, bool) {
	return c.focus, c.focus != ""
}

// ClearFocus drops the pending focus target after it has been applied.
func (c *Controller) ClearFocus() { c.focus = "" }

// SetQuery replaces the search text. Every change resets the window to the
// top; derived match state is recomputed by the caller, never kept here.
func (c *Controller) SetQuery(query string) {
	if c.query == query {
		return
	}
	c.query = query
	c.window.reset()
}

// Window returns the visible slice bounds for a list of total items.
func (c *Controller) Window(total int) (start, end int) {
	return c.window.bounds(total)
}

// ScrollWindow moves the window by delta rows, clamped to the list.
func (c *Controller) ScrollWindow(delta, total int) {
	c.window.scroll(delta, total)
}

// window is the virtualized slice over the current option list. The whole
// list stays in memory; only the bounds move.
type window struct {
	offset int
	size   int
}

func newWindow(size int) window {
	if size <= 0 {
		size = 20
	}
	return window{size: size}
}

func (w *window) reset() { w.offset = 0 }

func (w *window) scroll(delta, total int) {
	w.offset += delta
	if max := total - w.size; w.offset > max {
		w.offset = max
	}
	if w.offset < 0 {
		w.offset = 0
	}
}

func (w *window) bounds(total int) (int, int) {
	start := w.offset
	if start > total {
		start = total
	}
	end := start + w.size
	if end > total {
		end = total
	}
	return start, end
}
