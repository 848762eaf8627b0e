package handlers

import (
	tea "github.com/charmbracelet/bubbletea"

	"tilescope/internal/domain"
	"tilescope/internal/eventbus"
	"tilescope/internal/index"
	"tilescope/internal/log"
	"tilescope/internal/ui/state"
)

var logger = log.ForService("ui")

// EventHandler handles domain events and updates state
type EventHandler struct {
	state         *state.AppState
	refreshDetail func() tea.Cmd
}

// NewEventHandler creates a new event handler. refreshDetail re-resolves the
// detail page after an index changed.
func NewEventHandler(appState *state.AppState, refreshDetail func() tea.Cmd) *EventHandler {
	return &EventHandler{
		state:         appState,
		refreshDetail: refreshDetail,
	}
}

// HandleEvent processes domain events and returns any necessary commands
func (h *EventHandler) HandleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case eventbus.IndexLoadedEvent:
		switch e.Index {
		case domain.LightIndexName:
			h.state.LightCount = e.Entries
		case domain.DeepIndexName:
			h.state.DeepCount = e.Entries
			h.state.DeepStatus = index.StatusReady
		}
		return h.refresh()

	case eventbus.IndexFailedEvent:
		// Failures go to the log; the status line only shows the index as unavailable
		logger.Warnf("%s index unavailable: %v", e.Index, e.Err)
		if e.Index == domain.DeepIndexName && h.state.DeepStatus != index.StatusReady {
			h.state.DeepStatus = index.StatusFailed
		}
		return h.refresh()

	case eventbus.DeepSearchScheduledEvent:
		logger.Debugf("deep search %q scheduled", e.Query)

	case eventbus.DeepSearchCompletedEvent:
		logger.Debugf("deep search %q: %d protein matches", e.Query, e.Matches)

	case eventbus.DeepSearchDiscardedEvent:
		logger.Debugf("deep search %q discarded: %v", e.Query, e.Reason)

	case eventbus.SearchClearedEvent:
		h.state.StatusMessage = ""

	case eventbus.RouteChangedEvent:
		logger.Debugf("route %s -> %s", e.From, e.To)
	}

	return nil
}

func (h *EventHandler) refresh() tea.Cmd {
	if h.state.Detail == nil || h.refreshDetail == nil {
		return nil
	}
	return h.refreshDetail()
}
