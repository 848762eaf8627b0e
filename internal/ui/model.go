package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"tilescope/internal/config"
	"tilescope/internal/dataaccess"
	"tilescope/internal/eventbus"
	"tilescope/internal/index"
	"tilescope/internal/log"
	"tilescope/internal/ui/commands"
	"tilescope/internal/ui/handlers"
	"tilescope/internal/ui/input"
	inputtypes "tilescope/internal/ui/input/types"
	"tilescope/internal/ui/services/navigation"
	"tilescope/internal/ui/services/search"
	"tilescope/internal/ui/state"
	"tilescope/internal/ui/viewmodels"
	"tilescope/internal/ui/views"
)

var logger = log.ForService("ui")

// Lines taken by everything on a detail page except the protein list
const detailChrome = 15

// Deps are the collaborators the model drives
type Deps struct {
	Search   *search.Service
	Router   *navigation.Router
	Viruses  *index.Light
	Proteins *index.Deep
	Client   *dataaccess.Client // optional, shown in the data source popup
}

// Model represents the UI state
type Model struct {
	bus    eventbus.EventBus
	config *config.Config
	state  *state.AppState // centralized state

	// UI-specific state not in AppState
	width       int
	height      int
	help        help.Model
	keys        keyMap
	inPagerMode bool // tracks if we're currently in pager mode

	// Handlers
	renderer     *views.Renderer        // view renderer
	eventHandler *handlers.EventHandler // event processing handler
	viewModel    *viewmodels.ViewModel  // view model for rendering
	cmdExecutor  *commands.Executor     // command executor
	inputHandler *input.Handler         // input handling
	helpOps      *HelpOps               // help pager

	search   *search.Service
	router   *navigation.Router
	viruses  *index.Light
	proteins *index.Deep
	client   *dataaccess.Client

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model
func NewModel(ctx context.Context, bus eventbus.EventBus, cfg *config.Config, deps Deps) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	appState := state.NewAppState()

	m := &Model{
		bus:          bus,
		config:       cfg,
		state:        appState,
		help:         help.New(),
		keys:         newKeyMap(),
		renderer:     views.NewRenderer(cfg.UI.ShowIDs),
		inputHandler: input.New(),
		helpOps:      NewHelpOps(nil),
		search:       deps.Search,
		router:       deps.Router,
		viruses:      deps.Viruses,
		proteins:     deps.Proteins,
		client:       deps.Client,
	}

	m.cmdExecutor = commands.NewExecutor(&commands.CommandContext{
		Ctx:      ctx,
		State:    appState,
		Search:   deps.Search,
		Viruses:  deps.Viruses,
		Proteins: deps.Proteins,
	})

	// Event handler refreshes the detail page when an index changes
	m.eventHandler = handlers.NewEventHandler(appState, m.cmdExecutor.ExecuteRefreshDetail)

	m.viewModel = viewmodels.NewViewModel(appState, cfg, *m.inputHandler.GetTextInput())

	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.helpOps = NewHelpOps(p)
}

// Init starts the light index load, the input cursor and the animation tick
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		tick(),
		m.cmdExecutor.ExecuteLoadLight(),
		m.inputHandler.Init(),
	)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateViewportHeight()

	case tea.KeyMsg:
		// The data source popup swallows its close keys
		if m.state.ShowInfo {
			switch msg.String() {
			case "esc", "s", "q":
				m.state.ShowInfo = false
				m.state.InfoContent = ""
				return m, nil
			}
		}

		actions, cmd := m.inputHandler.HandleKey(msg, m.inputContext())

		cmds := []tea.Cmd{}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, m.processActions(actions)...)

		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	default:
		// Handle non-keyboard messages
		if cmd := m.inputHandler.Update(msg); cmd != nil {
			_, other := m.handleNonKeyboardMsg(msg)
			return m, tea.Batch(cmd, other)
		}
		return m.handleNonKeyboardMsg(msg)
	}

	return m, nil
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	m.viewModel.SetDimensions(m.width, m.height)
	m.viewModel.SetSession(m.search.Snapshot())

	mode := m.inputHandler.CurrentMode()
	var viewModelMode viewmodels.InputMode
	switch mode {
	case inputtypes.ModeNormal:
		viewModelMode = viewmodels.InputModeNormal
	case inputtypes.ModeSearch:
		viewModelMode = viewmodels.InputModeSearch
	case inputtypes.ModeDetail:
		viewModelMode = viewmodels.InputModeDetail
	}
	m.viewModel.SetInputMode(viewModelMode)
	m.viewModel.UpdateTextInput(*m.inputHandler.GetTextInput())
	m.viewModel.SetHelp(m.help, m.keys.ShortHelpFor(mode))

	return m.renderer.Render(m.viewModel.BuildViewState())
}

// inputContext snapshots what the input modes need to decide on a key
func (m *Model) inputContext() *input.ModelContext {
	return &input.ModelContext{
		Session: m.search.Snapshot(),
		State:   m.state,
	}
}

func (m *Model) processActions(actions []inputtypes.Action) []tea.Cmd {
	var cmds []tea.Cmd
	for _, action := range actions {
		if cmd := m.processAction(action); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	logger.Debugf("processAction: %T", action)
	switch a := action.(type) {
	case inputtypes.UpdateTextAction:
		m.search.SetQuery(a.Text)

	case inputtypes.ClearTextAction:
		m.inputHandler.ClearText()
		m.search.Clear()

	case inputtypes.NavigateAction:
		if m.state.OnSearchPage() {
			switch a.Direction {
			case "up":
				m.search.MoveUp()
			case "down":
				m.search.MoveDown()
			}
			return nil
		}
		m.state.Viewport.Move(navigation.Direction(a.Direction))

	case inputtypes.SelectAction:
		var route string
		var ok bool
		if a.Index < 0 {
			route, ok = m.search.SelectCurrent()
		} else {
			route, ok = m.search.Select(a.Index)
		}
		if !ok {
			return nil
		}
		return m.openSelected(route)

	case inputtypes.OpenRowAction:
		p, ok := m.state.SelectedProtein()
		if !ok {
			return nil
		}
		route := p.Route()
		if err := m.router.Navigate(route); err != nil {
			logger.Warnf("open protein %s: %v", p.ID, err)
			return nil
		}
		return m.openRoute(route)

	case inputtypes.BackAction:
		route, _ := m.router.Back()
		if route != navigation.SearchRoute {
			return m.openRoute(route)
		}
		m.state.CloseDetail()
		m.changeMode(inputtypes.ModeSearch)
		m.search.Open()

	case inputtypes.HomeAction:
		m.router.Home()
		m.state.CloseDetail()

	case inputtypes.OpenDropdownAction:
		m.search.Open()

	case inputtypes.CloseDropdownAction:
		m.search.Close()

	case inputtypes.ToggleInfoAction:
		m.state.ShowInfo = !m.state.ShowInfo
		if m.state.ShowInfo {
			m.state.InfoContent = m.buildDataSourceInfo()
		} else {
			m.state.InfoContent = ""
		}

	case inputtypes.ToggleHelpAction:
		return m.fetchHelpPager(NewHelpRenderer(m.keys).RenderHelpContentPlain())

	case inputtypes.QuitAction:
		m.search.Stop()
		return tea.Quit
	}

	return nil
}

// openSelected shows the detail page of a selected result. The search
// service already cleared the query and moved the router.
func (m *Model) openSelected(route string) tea.Cmd {
	m.inputHandler.ClearText()
	m.changeMode(inputtypes.ModeDetail)
	return m.openRoute(route)
}

// openRoute shows route and clears a resulting status message after a while
func (m *Model) openRoute(route string) tea.Cmd {
	cmd := m.cmdExecutor.ExecuteOpenRoute(route)
	if m.state.StatusMessage == "" {
		return cmd
	}
	return tea.Batch(cmd, tea.Tick(3*time.Second, func(t time.Time) tea.Msg { return clearStatusMsg{} }))
}

// changeMode switches the input mode outside of a key press
func (m *Model) changeMode(mode inputtypes.Mode) {
	actions := m.inputHandler.ChangeMode(mode, m.inputContext())
	m.processActions(actions)
}

// handleMouse maps a left click on the search page to the dropdown
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if !m.config.UI.Mouse || m.state.ShowInfo {
		return nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}

	m.viewModel.SetSession(m.search.Snapshot())
	hit := m.renderer.HitTest(m.viewModel.BuildViewState(), msg.X, msg.Y)
	switch hit.Kind {
	case views.HitRow:
		route, ok := m.search.Select(hit.Row)
		if !ok {
			return nil
		}
		return m.openSelected(route)

	case views.HitInput:
		m.search.Open()
		m.changeMode(inputtypes.ModeSearch)

	case views.HitOutside:
		if m.state.OnSearchPage() {
			m.search.Close()
			m.changeMode(inputtypes.ModeNormal)
		}
	}
	return nil
}

// updateViewportHeight sizes the protein list of the detail page
func (m *Model) updateViewportHeight() {
	m.state.Viewport.SetHeight(m.height - detailChrome)
}

// buildDataSourceInfo creates the content of the data source popup
func (m *Model) buildDataSourceInfo() string {
	var b strings.Builder
	b.WriteString("Data Sources\n\n")

	base := m.config.Data.Base
	if m.client != nil {
		base = m.client.Base()
	}
	b.WriteString(fmt.Sprintf("Base:      %s\n", base))
	b.WriteString(fmt.Sprintf("Viruses:   %s (%s)\n", m.config.Data.LightIndex, m.viruses.Status()))
	if m.state.LightCount > 0 {
		b.WriteString(fmt.Sprintf("           %d entries\n", m.state.LightCount))
	}
	if err := m.viruses.Err(); err != nil {
		b.WriteString(fmt.Sprintf("           %v\n", err))
	}

	deepStatus := "not loaded"
	switch {
	case m.state.DeepLoading:
		deepStatus = "loading"
	case m.proteins.Loads() > 0:
		deepStatus = m.proteins.Status().String()
	}
	b.WriteString(fmt.Sprintf("Proteins:  %s (%s)\n", m.config.Data.SearchIndex, deepStatus))
	if m.state.DeepCount > 0 {
		b.WriteString(fmt.Sprintf("           %d entries\n", m.state.DeepCount))
	}
	loadErr := m.proteins.Err()
	if loadErr != nil {
		b.WriteString(fmt.Sprintf("           %v\n", loadErr))
	}
	if err := m.search.Snapshot().DeepErr; err != nil && !errors.Is(err, loadErr) {
		b.WriteString(fmt.Sprintf("           last search: %v\n", err))
	}

	if m.client != nil {
		st := m.client.Stats()
		b.WriteString(fmt.Sprintf("\nCache:     %d hits, %d misses, %d reads, %d failures\n",
			st.Hits, st.Misses, st.Transport, st.Failures))
		for _, path := range m.client.CachedPaths() {
			b.WriteString(fmt.Sprintf("           %s\n", path))
		}
	}

	b.WriteString("\nPress s or Esc to close")
	return b.String()
}

// fetchHelpPager returns a command that shows help using ov pager
func (m *Model) fetchHelpPager(helpContent string) tea.Cmd {
	if m.program == nil {
		// No terminal to hand over, show help in the popup instead
		m.state.ShowInfo = true
		m.state.InfoContent = helpContent
		return nil
	}
	return func() tea.Msg {
		// Send pause message to stop rendering
		m.program.Send(pauseRenderingMsg{})

		err := m.helpOps.ShowHelpInPager(helpContent)

		// Send resume message to restart rendering
		m.program.Send(resumeRenderingMsg{})

		return helpPagerMsg{
			err: err,
		}
	}
}

// handleNonKeyboardMsg handles non-keyboard messages
func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		// Process domain events
		cmd := m.eventHandler.HandleEvent(msg.Event)
		return m, cmd

	case tickMsg:
		// Don't continue tick loop if we're in pager mode
		if m.inPagerMode {
			return m, nil
		}
		return m, tick()

	case commands.LightLoadedMsg:
		if msg.Err != nil {
			logger.Warnf("light index: %v", msg.Err)
		}
		if m.state.Detail != nil {
			return m, m.cmdExecutor.ExecuteRefreshDetail()
		}
		return m, nil

	case commands.DeepLoadedMsg:
		m.state.DeepLoading = false
		if msg.Err != nil {
			logger.Warnf("search index: %v", msg.Err)
			if m.state.DeepStatus != index.StatusReady {
				m.state.DeepStatus = index.StatusFailed
			}
		} else {
			m.state.DeepStatus = index.StatusReady
			m.state.DeepCount = msg.Entries
		}
		return m, m.cmdExecutor.ExecuteRefreshDetail()

	case helpPagerMsg:
		if msg.err != nil {
			// Pager failed, fall back to the popup
			logger.Warnf("help pager failed: %v", msg.err)
			m.state.ShowInfo = true
			m.state.InfoContent = NewHelpRenderer(m.keys).RenderHelpContentPlain()
		}
		return m, tick()

	case pauseRenderingMsg:
		// Signal that rendering should be paused for external pager
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		// Bubble Tea's RestoreTerminal() handles the actual resuming
		m.inPagerMode = false
		return m, nil

	case clearStatusMsg:
		m.state.StatusMessage = ""
		return m, nil

	default:
		// Other messages are handled elsewhere
		return m, nil
	}
}

// tick returns a command that sends a tick message after a delay
func tick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
