package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tilescope/internal/domain"
	"tilescope/internal/index"
	"tilescope/internal/ui/services/navigation"
	"tilescope/internal/ui/state"
)

type fakeViruses struct {
	entries map[string]domain.VirusEntry
	status  index.Status
	err     error
}

func (f *fakeViruses) Find(id string) (domain.VirusEntry, bool) {
	v, ok := f.entries[id]
	return v, ok
}

func (f *fakeViruses) Status() index.Status { return f.status }
func (f *fakeViruses) Err() error { return f.err }

type fakeProteins struct {
	entries []domain.ProteinEntry
	status  index.Status
	loadErr error
	loads   int
}

func (f *fakeProteins) Load(ctx context.Context) ([]domain.ProteinEntry, error) {
	f.loads++
	if f.loadErr != nil {
		f.status = index.StatusFailed
		return nil, f.loadErr
	}
	f.status = index.StatusReady
	return f.entries, nil
}

func (f *fakeProteins) Find(id string) (domain.ProteinEntry, bool) {
	if f.status != index.StatusReady {
		return domain.ProteinEntry{}, false
	}
	for _, p := range f.entries {
		if p.ID == id {
			return p, true
		}
	}
	return domain.ProteinEntry{}, false
}

func (f *fakeProteins) ProteinsOf(virusID string) []domain.ProteinEntry {
	var out []domain.ProteinEntry
	for _, p := range f.entries {
		if p.ParentID == virusID {
			out = append(out, p)
		}
	}
	return out
}

func (f *fakeProteins) Status() index.Status { return f.status }

type fakeLoader struct{ err error }

func (f fakeLoader) LoadLightIndex(ctx context.Context) error { return f.err }

var (
	flu = domain.VirusEntry{ID: "v1", Name: "Influenza A virus"}
	ha  = domain.ProteinEntry{ID: "p1", Name: "Hemagglutinin", ParentID: "v1", ParentName: "Influenza A virus"}
	na  = domain.ProteinEntry{ID: "p2", Name: "Neuraminidase", ParentID: "v1", ParentName: "Influenza A virus"}
)

func newContext(deepStatus index.Status) (*CommandContext, *fakeProteins) {
	proteins := &fakeProteins{entries: []domain.ProteinEntry{ha, na}, status: deepStatus}
	viruses := &fakeViruses{entries: map[string]domain.VirusEntry{flu.ID: flu}, status: index.StatusReady}
	return &CommandContext{
		Ctx:      context.Background(),
		State:    state.NewAppState(),
		Search:   fakeLoader{},
		Viruses:  viruses,
		Proteins: proteins,
	}, proteins
}

func TestOpenVirusWithDeepIndexReady(t *testing.T) {
	ctx, proteins := newContext(index.StatusReady)

	cmd := NewExecutor(ctx).ExecuteOpenRoute("/virus/v1")
	assert.Nil(t, cmd)
	assert.Zero(t, proteins.loads)

	page := ctx.State.Detail
	require.NotNil(t, page)
	assert.Equal(t, "/virus/v1", ctx.State.Route)
	assert.True(t, page.HasVirus)
	assert.False(t, page.Loading)
	assert.Equal(t, []domain.ProteinEntry{ha, na}, page.Proteins)
	assert.Equal(t, 2, ctx.State.Viewport.Len)
}

func TestOpenVirusLoadsDeepIndex(t *testing.T) {
	ctx, proteins := newContext(index.StatusPending)
	exec := NewExecutor(ctx)

	cmd := exec.ExecuteOpenRoute("/virus/v1")
	require.NotNil(t, cmd)
	assert.True(t, ctx.State.DeepLoading)
	assert.True(t, ctx.State.Detail.Loading)

	// A second open while loading does not start another load
	assert.Nil(t, exec.ExecuteOpenRoute("/virus/v1"))

	msg := cmd()
	assert.Equal(t, DeepLoadedMsg{Entries: 2}, msg)
	assert.Equal(t, 1, proteins.loads)

	ctx.State.DeepLoading = false
	assert.Nil(t, exec.ExecuteRefreshDetail())
	assert.False(t, ctx.State.Detail.Loading)
	assert.Len(t, ctx.State.Detail.Proteins, 2)
	assert.Equal(t, 2, ctx.State.Viewport.Len)
}

func TestRefreshKeepsCursor(t *testing.T) {
	ctx, _ := newContext(index.StatusReady)
	exec := NewExecutor(ctx)
	require.Nil(t, exec.ExecuteOpenRoute("/virus/v1"))
	ctx.State.Viewport.Move(navigation.DirectionDown)

	assert.Nil(t, exec.ExecuteRefreshDetail())
	assert.Equal(t, 1, ctx.State.Viewport.Cursor)

	// Opening the route again starts from the top
	assert.Nil(t, exec.ExecuteOpenRoute("/virus/v1"))
	assert.Equal(t, 0, ctx.State.Viewport.Cursor)
}

func TestOpenProtein(t *testing.T) {
	ctx, _ := newContext(index.StatusReady)

	assert.Nil(t, NewExecutor(ctx).ExecuteOpenRoute("/protein/p2"))
	page := ctx.State.Detail
	require.NotNil(t, page)
	assert.True(t, page.HasProtein)
	assert.Equal(t, na, page.Protein)
	assert.True(t, page.HasVirus, "parent virus resolved from the light index")
	assert.Equal(t, flu, page.Virus)
}

func TestOpenUnknownProtein(t *testing.T) {
	ctx, proteins := newContext(index.StatusReady)

	assert.Nil(t, NewExecutor(ctx).ExecuteOpenRoute("/protein/nope"))
	page := ctx.State.Detail
	require.NotNil(t, page)
	assert.True(t, page.NotFound)
	assert.False(t, page.Loading)
	assert.Empty(t, page.LoadErr)
	assert.Zero(t, proteins.loads)
}

func TestOpenUnknownVirusWhileLightLoads(t *testing.T) {
	ctx, _ := newContext(index.StatusReady)
	ctx.Viruses = &fakeViruses{status: index.StatusPending}

	assert.Nil(t, NewExecutor(ctx).ExecuteOpenRoute("/virus/v1"))
	assert.True(t, ctx.State.Detail.NotFound)
	assert.True(t, ctx.State.Detail.Loading)
}

func TestOpenUnknownVirusAfterLightFailure(t *testing.T) {
	ctx, _ := newContext(index.StatusReady)
	ctx.Viruses = &fakeViruses{status: index.StatusFailed, err: errors.New("404")}

	assert.Nil(t, NewExecutor(ctx).ExecuteOpenRoute("/virus/v1"))
	assert.True(t, ctx.State.Detail.NotFound)
	assert.Equal(t, "404", ctx.State.Detail.LoadErr)
}

func TestRefreshAfterDeepFailureDoesNotReload(t *testing.T) {
	ctx, proteins := newContext(index.StatusPending)
	proteins.loadErr = errors.New("timeout")
	exec := NewExecutor(ctx)

	cmd := exec.ExecuteOpenRoute("/virus/v1")
	require.NotNil(t, cmd)
	msg := cmd().(DeepLoadedMsg)
	assert.Error(t, msg.Err)
	ctx.State.DeepLoading = false

	assert.Nil(t, exec.ExecuteRefreshDetail())
	assert.Equal(t, "search index unavailable", ctx.State.Detail.LoadErr)
	assert.Equal(t, 1, proteins.loads)

	// Opening the page again retries
	assert.NotNil(t, exec.ExecuteOpenRoute("/virus/v1"))
}

func TestOpenInvalidRoute(t *testing.T) {
	ctx, _ := newContext(index.StatusReady)
	exec := NewExecutor(ctx)
	require.Nil(t, exec.ExecuteOpenRoute("/protein/p1"))

	assert.Nil(t, exec.ExecuteOpenRoute("/tile/t1"))
	assert.Nil(t, ctx.State.Detail)
	assert.Equal(t, "/", ctx.State.Route)
	assert.Contains(t, ctx.State.StatusMessage, "/tile/t1")
}

func TestRefreshWithoutDetailPage(t *testing.T) {
	ctx, _ := newContext(index.StatusReady)
	assert.Nil(t, NewExecutor(ctx).ExecuteRefreshDetail())
	assert.Nil(t, ctx.State.Detail)
}

func TestLoadLightCommand(t *testing.T) {
	ctx, _ := newContext(index.StatusReady)
	ctx.Search = fakeLoader{err: errors.New("offline")}

	msg := NewExecutor(ctx).ExecuteLoadLight()()
	assert.EqualError(t, msg.(LightLoadedMsg).Err, "offline")
}
