package viewmodels

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"

	"tilescope/internal/config"
	"tilescope/internal/index"
	"tilescope/internal/ui/services/search"
	"tilescope/internal/ui/state"
	"tilescope/internal/ui/views"
)

// ViewModel transforms application state into view-ready data
type ViewModel struct {
	state            *state.AppState
	config           *config.Config
	width            int
	height           int
	help             help.Model
	helpKeys         []key.Binding
	session          search.Session
	inputTransformer *InputTransformer
}

// NewViewModel creates a new view model
func NewViewModel(appState *state.AppState, cfg *config.Config, textInput textinput.Model) *ViewModel {
	return &ViewModel{
		state:            appState,
		config:           cfg,
		inputTransformer: NewInputTransformer(textInput),
	}
}

// SetDimensions sets the current terminal dimensions
func (vm *ViewModel) SetDimensions(width, height int) {
	vm.width = width
	vm.height = height
}

// SetHelp sets the help model and the bindings shown at the bottom
func (vm *ViewModel) SetHelp(helpModel help.Model, keys []key.Binding) {
	vm.help = helpModel
	vm.helpKeys = keys
}

// SetSession sets the search snapshot to render
func (vm *ViewModel) SetSession(session search.Session) {
	vm.session = session
}

// SetInputMode sets the current input mode
func (vm *ViewModel) SetInputMode(mode InputMode) {
	vm.inputTransformer.SetMode(mode)
}

// UpdateTextInput updates the text input model
func (vm *ViewModel) UpdateTextInput(textInput textinput.Model) {
	vm.inputTransformer.textInput = textInput
}

// BuildViewState creates a ViewState for rendering
func (vm *ViewModel) BuildViewState() views.ViewState {
	s := vm.session
	lightMin := search.DefaultSettings().LightMinChars
	if vm.config != nil {
		lightMin = vm.config.Search.LightMinChars
	}

	return views.ViewState{
		Width:               vm.width,
		Height:              vm.height,
		Query:               s.Query,
		TextInput:           vm.inputTransformer.GetInputText(),
		InputMode:           vm.inputTransformer.GetInputModeString(),
		IsOpen:              s.IsOpen,
		Results:             s.Results,
		SelectedIndex:       s.SelectedIndex,
		IsDeepSearchPending: s.IsDeepSearchPending,
		NoResults:           noResults(s, lightMin),
		Detail:              vm.state.Detail,
		DetailCursor:        vm.state.Viewport.Cursor,
		DetailOffset:        vm.state.Viewport.Offset,
		DetailHeight:        vm.state.Viewport.Height,
		LightStatus:         s.LightStatus,
		LightCount:          vm.state.LightCount,
		DeepStatus:          vm.state.DeepStatus,
		DeepCount:           vm.state.DeepCount,
		DeepLoading:         vm.state.DeepLoading,
		StatusMessage:       vm.state.StatusMessage,
		ShowInfo:            vm.state.ShowInfo,
		InfoContent:         vm.state.InfoContent,
		HelpModel:           vm.help,
		HelpKeys:            vm.helpKeys,
	}
}

// noResults reports a settled query that matched nothing. A query still
// waiting for an index is not settled.
func noResults(s search.Session, lightMin int) bool {
	if len(s.Results) > 0 || s.IsDeepSearchPending {
		return false
	}
	if search.QueryLength(s.Query) < lightMin {
		return false
	}
	return s.LightStatus != index.StatusPending
}
