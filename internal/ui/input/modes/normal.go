package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"tilescope/internal/ui/input/types"
)

// NormalMode is the search page with the input blurred and the dropdown closed
type NormalMode struct{}

func NewNormalMode() *NormalMode {
	return &NormalMode{}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil // No special actions on enter
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil // No special actions on exit
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true

	case tea.KeyEsc:
		// In normal mode, Esc doesn't do anything
		return nil, false

	case tea.KeyEnter:
		// Enter refocuses the input, same as /
		return refocus(), true
	}

	// Handle string keys
	switch msg.String() {
	case "/", "i":
		return refocus(), true

	case "s":
		return []types.Action{types.ToggleInfoAction{}}, true

	case "?":
		return []types.Action{types.ToggleHelpAction{}}, true

	case "q":
		return []types.Action{types.QuitAction{Force: false}}, true
	}

	return nil, false
}

// refocus reopens the dropdown for the kept query and focuses the input
func refocus() []types.Action {
	return []types.Action{
		types.OpenDropdownAction{},
		types.ChangeModeAction{Mode: types.ModeSearch},
	}
}
