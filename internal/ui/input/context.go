package input

import (
	"tilescope/internal/ui/services/search"
	"tilescope/internal/ui/state"
)

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	Session search.Session
	State   *state.AppState
}

// Query returns the current search query
func (c *ModelContext) Query() string {
	return c.Session.Query
}

// DropdownOpen reports whether the dropdown is shown
func (c *ModelContext) DropdownOpen() bool {
	return c.Session.IsOpen
}

// ResultCount returns the number of dropdown rows
func (c *ModelContext) ResultCount() int {
	return len(c.Session.Results)
}

// SelectedIndex returns the highlighted dropdown row
func (c *ModelContext) SelectedIndex() int {
	return c.Session.SelectedIndex
}

// OnDetailPage reports whether a detail route is showing
func (c *ModelContext) OnDetailPage() bool {
	return c.State != nil && c.State.Detail != nil
}

// DetailRows returns the number of protein rows on the detail page
func (c *ModelContext) DetailRows() int {
	if !c.OnDetailPage() {
		return 0
	}
	return len(c.State.Detail.Proteins)
}
