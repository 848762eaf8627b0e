package modes

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tilescope/internal/ui/input/types"
)

// DetailMode handles the virus and protein pages
type DetailMode struct {
	lastKeyWasG bool
	lastGTime   time.Time
}

func NewDetailMode() *DetailMode {
	return &DetailMode{}
}

func (m *DetailMode) Name() string {
	return "detail"
}

func (m *DetailMode) Enter(ctx types.Context) []types.Action {
	m.lastKeyWasG = false
	return nil
}

func (m *DetailMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *DetailMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	wasG := m.lastKeyWasG && time.Since(m.lastGTime) < 500*time.Millisecond
	m.lastKeyWasG = false

	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true

	case tea.KeyEsc, tea.KeyBackspace, tea.KeyLeft:
		return []types.Action{types.BackAction{}}, true

	case tea.KeyUp:
		return navigate("up"), true

	case tea.KeyDown:
		return navigate("down"), true

	case tea.KeyPgUp:
		return navigate("pageup"), true

	case tea.KeyPgDown:
		return navigate("pagedown"), true

	case tea.KeyHome:
		return navigate("home"), true

	case tea.KeyEnd:
		return navigate("end"), true

	case tea.KeyEnter, tea.KeyRight:
		if ctx.DetailRows() == 0 {
			return nil, false
		}
		return []types.Action{types.OpenRowAction{}}, true
	}

	switch msg.String() {
	case "j":
		return navigate("down"), true

	case "k":
		return navigate("up"), true

	case "h":
		return []types.Action{types.BackAction{}}, true

	case "l":
		if ctx.DetailRows() == 0 {
			return nil, false
		}
		return []types.Action{types.OpenRowAction{}}, true

	case "g":
		// gg goes to the top
		if wasG {
			return navigate("home"), true
		}
		m.lastKeyWasG = true
		m.lastGTime = time.Now()
		return nil, true

	case "G":
		return navigate("end"), true

	case "/":
		return []types.Action{
			types.HomeAction{},
			types.ChangeModeAction{Mode: types.ModeSearch},
		}, true

	case "?":
		return []types.Action{types.ToggleHelpAction{}}, true

	case "q":
		return []types.Action{types.QuitAction{Force: false}}, true
	}

	return nil, false
}

func navigate(direction string) []types.Action {
	return []types.Action{types.NavigateAction{Direction: direction}}
}
