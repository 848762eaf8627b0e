package modes

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tilescope/internal/ui/input/types"
)

// SearchMode edits the query and drives the dropdown
type SearchMode struct {
	TextInputMode
}

func NewSearchMode(ti *textinput.Model) *SearchMode {
	return &SearchMode{
		TextInputMode: NewTextInputMode(types.ModeSearch, "search", "Search: ", ti),
	}
}

func (m *SearchMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyUp, tea.KeyCtrlP:
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case tea.KeyDown, tea.KeyCtrlN:
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case tea.KeyEnter:
		if !ctx.DropdownOpen() || ctx.ResultCount() == 0 {
			return nil, true
		}
		return []types.Action{types.SelectAction{Index: -1}}, true
	}

	return m.TextInputMode.HandleKey(msg, ctx)
}
