package handlers

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"tilescope/internal/domain"
	"tilescope/internal/eventbus"
	"tilescope/internal/index"
	"tilescope/internal/ui/state"
)

type refreshCounter struct{ calls int }

func (r *refreshCounter) refresh() tea.Cmd {
	r.calls++
	return func() tea.Msg { return nil }
}

func TestIndexLoadedUpdatesCounts(t *testing.T) {
	st := state.NewAppState()
	rc := &refreshCounter{}
	h := NewEventHandler(st, rc.refresh)

	assert.Nil(t, h.HandleEvent(eventbus.IndexLoadedEvent{Index: domain.LightIndexName, Entries: 12}))
	assert.Equal(t, 12, st.LightCount)

	assert.Nil(t, h.HandleEvent(eventbus.IndexLoadedEvent{Index: domain.DeepIndexName, Entries: 340}))
	assert.Equal(t, 340, st.DeepCount)
	assert.Equal(t, index.StatusReady, st.DeepStatus)
	assert.Zero(t, rc.calls, "no detail page to refresh")
}

func TestIndexLoadedRefreshesDetailPage(t *testing.T) {
	st := state.NewAppState()
	st.OpenDetail(&state.DetailPage{Route: "/virus/v1", Kind: domain.KindVirus, ID: "v1", Loading: true})
	rc := &refreshCounter{}
	h := NewEventHandler(st, rc.refresh)

	assert.NotNil(t, h.HandleEvent(eventbus.IndexLoadedEvent{Index: domain.DeepIndexName, Entries: 3}))
	assert.Equal(t, 1, rc.calls)
}

func TestIndexFailed(t *testing.T) {
	st := state.NewAppState()
	h := NewEventHandler(st, nil)

	h.HandleEvent(eventbus.IndexFailedEvent{Index: domain.DeepIndexName, Err: errors.New("timeout")})
	assert.Equal(t, index.StatusFailed, st.DeepStatus)

	// A late failure does not hide a loaded index
	st.DeepStatus = index.StatusReady
	h.HandleEvent(eventbus.IndexFailedEvent{Index: domain.DeepIndexName, Err: errors.New("timeout")})
	assert.Equal(t, index.StatusReady, st.DeepStatus)

	h.HandleEvent(eventbus.IndexFailedEvent{Index: domain.LightIndexName, Err: errors.New("404")})
	assert.Equal(t, index.StatusReady, st.DeepStatus)
}

func TestSearchClearedResetsStatus(t *testing.T) {
	st := state.NewAppState()
	st.StatusMessage = "Cannot open /tile/1"
	h := NewEventHandler(st, nil)

	assert.Nil(t, h.HandleEvent(eventbus.SearchClearedEvent{}))
	assert.Empty(t, st.StatusMessage)
}

func TestDiagnosticEventsLeaveStateAlone(t *testing.T) {
	st := state.NewAppState()
	h := NewEventHandler(st, nil)

	assert.Nil(t, h.HandleEvent(eventbus.DeepSearchScheduledEvent{Query: "hema"}))
	assert.Nil(t, h.HandleEvent(eventbus.RouteChangedEvent{From: "/", To: "/virus/v1"}))
	assert.Equal(t, state.NewAppState(), st)
}
