package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"tilescope/internal/domain"
	"tilescope/internal/index"
	"tilescope/internal/log"
	"tilescope/internal/ui/state"
)

var logger = log.ForService("ui")

// Command represents an executable action
type Command interface {
	Execute() tea.Cmd
}

// LightLoader loads the virus index for the search service
type LightLoader interface {
	LoadLightIndex(ctx context.Context) error
}

// VirusLookup resolves viruses from the light index
type VirusLookup interface {
	Find(id string) (domain.VirusEntry, bool)
	Status() index.Status
	Err() error
}

// ProteinLookup resolves proteins from the deep index, loading it on demand
type ProteinLookup interface {
	Load(ctx context.Context) ([]domain.ProteinEntry, error)
	Find(id string) (domain.ProteinEntry, bool)
	ProteinsOf(virusID string) []domain.ProteinEntry
	Status() index.Status
}

// CommandContext provides context for command execution
type CommandContext struct {
	Ctx      context.Context
	State    *state.AppState
	Search   LightLoader
	Viruses  VirusLookup
	Proteins ProteinLookup
}

// LightLoadedMsg reports the end of the light index load
type LightLoadedMsg struct {
	Err error
}

// DeepLoadedMsg reports the end of a deep index load started by a detail page
type DeepLoadedMsg struct {
	Entries int
	Err     error
}

// LoadLightCommand loads the light index through the search service
type LoadLightCommand struct {
	ctx *CommandContext
}

// NewLoadLightCommand creates a new light load command
func NewLoadLightCommand(ctx *CommandContext) *LoadLightCommand {
	return &LoadLightCommand{ctx: ctx}
}

// Execute starts the load in the background
func (c *LoadLightCommand) Execute() tea.Cmd {
	ctx := c.ctx.Ctx
	svc := c.ctx.Search
	return func() tea.Msg {
		return LightLoadedMsg{Err: svc.LoadLightIndex(ctx)}
	}
}

// LoadDeepCommand loads the deep index for a detail page
type LoadDeepCommand struct {
	ctx *CommandContext
}

// NewLoadDeepCommand creates a new deep load command
func NewLoadDeepCommand(ctx *CommandContext) *LoadDeepCommand {
	return &LoadDeepCommand{ctx: ctx}
}

// Execute marks the load in the state and starts it in the background
func (c *LoadDeepCommand) Execute() tea.Cmd {
	if c.ctx.State.DeepLoading {
		return nil
	}
	c.ctx.State.DeepLoading = true
	ctx := c.ctx.Ctx
	deep := c.ctx.Proteins
	return func() tea.Msg {
		entries, err := deep.Load(ctx)
		return DeepLoadedMsg{Entries: len(entries), Err: err}
	}
}

// OpenRouteCommand shows the detail page of a route
type OpenRouteCommand struct {
	ctx   *CommandContext
	route string
	keep  bool // keep the list cursor when the route is already showing
}

// NewOpenRouteCommand creates a new open route command
func NewOpenRouteCommand(ctx *CommandContext, route string) *OpenRouteCommand {
	return &OpenRouteCommand{ctx: ctx, route: route}
}

// NewRefreshDetailCommand re-resolves the page currently showing, after an
// index finished loading
func NewRefreshDetailCommand(ctx *CommandContext) *OpenRouteCommand {
	route := ""
	if ctx.State.Detail != nil {
		route = ctx.State.Detail.Route
	}
	return &OpenRouteCommand{ctx: ctx, route: route, keep: true}
}

// Execute resolves the route and loads the deep index when the page needs it
func (c *OpenRouteCommand) Execute() tea.Cmd {
	st := c.ctx.State
	if c.route == "" {
		return nil
	}

	kind, id, err := domain.ParseRoute(c.route)
	if err != nil {
		logger.Warnf("open route: %v", err)
		st.CloseDetail()
		st.StatusMessage = fmt.Sprintf("Cannot open %s", c.route)
		return nil
	}

	page, needDeep := c.resolve(kind, id)
	if c.keep && st.Detail != nil && st.Detail.Route == page.Route {
		st.Detail = page
		st.SetDetailProteins(page.Proteins)
		st.Detail.Loading = page.Loading
	} else {
		st.OpenDetail(page)
	}

	if needDeep {
		return NewLoadDeepCommand(c.ctx).Execute()
	}
	return nil
}

func (c *OpenRouteCommand) resolve(kind domain.EntityKind, id string) (*state.DetailPage, bool) {
	page := &state.DetailPage{Route: c.route, Kind: kind, ID: id}
	viruses := c.ctx.Viruses
	proteins := c.ctx.Proteins
	deepStatus := proteins.Status()
	deepFailed := deepStatus == index.StatusFailed && !c.ctx.State.DeepLoading
	needDeep := false

	switch kind {
	case domain.KindVirus:
		if v, ok := viruses.Find(id); ok {
			page.Virus = v
			page.HasVirus = true
		} else {
			page.NotFound = true
			switch viruses.Status() {
			case index.StatusPending:
				page.Loading = true
			case index.StatusFailed:
				page.LoadErr = errString(viruses.Err())
			}
			return page, false
		}

		switch {
		case deepStatus == index.StatusReady:
			page.Proteins = proteins.ProteinsOf(id)
		case deepFailed && c.keep:
			page.LoadErr = "search index unavailable"
		default:
			page.Loading = true
			needDeep = true
		}

	case domain.KindProtein:
		if p, ok := proteins.Find(id); ok {
			page.Protein = p
			page.HasProtein = true
			if v, ok := viruses.Find(p.ParentID); ok {
				page.Virus = v
				page.HasVirus = true
			}
			return page, false
		}

		page.NotFound = true
		switch {
		case deepStatus == index.StatusReady:
		case deepFailed && c.keep:
			page.LoadErr = "search index unavailable"
		default:
			page.Loading = true
			needDeep = true
		}
	}

	return page, needDeep
}

func errString(err error) string {
	if err == nil {
		return "unavailable"
	}
	return err.Error()
}
