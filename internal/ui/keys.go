package ui

import (
	"github.com/charmbracelet/bubbles/key"

	inputtypes "tilescope/internal/ui/input/types"
)

// keyMap lists the bindings shown in the short help line and the help pager.
// The input modes do the actual key handling.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Close  key.Binding
	Clear  key.Binding
	Search key.Binding
	Page   key.Binding
	Top    key.Binding
	Open   key.Binding
	Back   key.Binding
	Info   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "ctrl+p", "k"), key.WithHelp("↑", "previous result")),
		Down:   key.NewBinding(key.WithKeys("down", "ctrl+n", "j"), key.WithHelp("↓", "next result")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open result")),
		Close:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close dropdown")),
		Clear:  key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "clear query")),
		Search: key.NewBinding(key.WithKeys("/", "i"), key.WithHelp("/", "search")),
		Page:   key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("PgUp/PgDn", "page up/down")),
		Top:    key.NewBinding(key.WithKeys("g", "G", "home", "end"), key.WithHelp("gg/G", "go to top/bottom")),
		Open:   key.NewBinding(key.WithKeys("enter", "l", "right"), key.WithHelp("enter", "open protein")),
		Back:   key.NewBinding(key.WithKeys("esc", "backspace", "h", "left"), key.WithHelp("esc", "back")),
		Info:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "data sources")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelpFor returns the bindings of the bottom help line for mode
func (k keyMap) ShortHelpFor(mode inputtypes.Mode) []key.Binding {
	switch mode {
	case inputtypes.ModeSearch:
		quit := key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit"))
		return []key.Binding{k.Up, k.Down, k.Select, k.Close, k.Clear, quit}
	case inputtypes.ModeDetail:
		return []key.Binding{k.Up, k.Down, k.Open, k.Back, k.Search, k.Help, k.Quit}
	default:
		return []key.Binding{k.Search, k.Info, k.Help, k.Quit}
	}
}

// helpSection is a titled group of bindings in the help pager
type helpSection struct {
	Title    string
	Bindings []key.Binding
}

// Sections returns the full help, grouped by page
func (k keyMap) Sections() []helpSection {
	return []helpSection{
		{Title: "Search", Bindings: []key.Binding{k.Up, k.Down, k.Select, k.Close, k.Clear, k.Search}},
		{Title: "Detail Page", Bindings: []key.Binding{k.Up, k.Down, k.Page, k.Top, k.Open, k.Back}},
		{Title: "Other", Bindings: []key.Binding{k.Info, k.Help, k.Quit}},
	}
}
