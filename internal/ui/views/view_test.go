package views

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tilescope/internal/domain"
	"tilescope/internal/index"
	"tilescope/internal/ui/state"
)

var (
	zika = domain.VirusEntry{ID: "v2", Name: "Zika virus"}
	env  = domain.ProteinEntry{ID: "p9", Name: "Envelope protein", ParentID: "v2", ParentName: "Zika virus"}
)

func searchState(results ...domain.MatchResult) ViewState {
	return ViewState{
		Width:       100,
		Height:      30,
		Query:       "zika",
		TextInput:   "zika",
		IsOpen:      true,
		Results:     results,
		LightStatus: index.StatusReady,
		LightCount:  4,
	}
}

func TestRenderResultTags(t *testing.T) {
	r := NewResultRenderer(NewStyles(), false)

	virusRow := ansi.Strip(r.RenderResult(domain.MatchResult{Entity: zika}, false, "zika", 80))
	assert.Equal(t, "  Zika virus  [virus]", virusRow)

	proteinRow := ansi.Strip(r.RenderResult(domain.MatchResult{Entity: env}, false, "envelope", 80))
	assert.Equal(t, "  Envelope protein  [Zika virus]", proteinRow)

	orphan := env
	orphan.ParentName = ""
	assert.Contains(t, ansi.Strip(r.RenderResult(domain.MatchResult{Entity: orphan}, false, "", 80)), "[protein]")
}

func TestRenderResultSelectedRow(t *testing.T) {
	r := NewResultRenderer(NewStyles(), true)

	row := r.RenderResult(domain.MatchResult{Entity: zika}, true, "zika", 60)
	plain := ansi.Strip(row)
	assert.True(t, strings.HasPrefix(plain, "▸ Zika virus  [virus]  v2"), plain)
	assert.Equal(t, 60, ansi.StringWidth(row))
}

func TestRenderSearchPage(t *testing.T) {
	r := NewRenderer(false)
	st := searchState(domain.MatchResult{Entity: zika}, domain.MatchResult{Entity: env, Score: 0.2})

	out := ansi.Strip(r.Render(st))
	assert.Contains(t, out, "tilescope")
	assert.Contains(t, out, "Search: zika")
	assert.Contains(t, out, "▸ Zika virus")
	assert.Contains(t, out, "Envelope protein  [Zika virus]")
	assert.Contains(t, out, "viruses: 4")
	assert.Contains(t, out, "proteins: not loaded")
	assert.Less(t, strings.Index(out, "Zika virus  [virus]"), strings.Index(out, "Envelope protein"))
}

func TestRenderNoResultsAndPending(t *testing.T) {
	r := NewRenderer(false)

	st := searchState()
	st.NoResults = true
	assert.Contains(t, ansi.Strip(r.Render(st)), "No results")

	st = searchState()
	st.IsDeepSearchPending = true
	out := ansi.Strip(r.Render(st))
	assert.NotContains(t, out, "No results")
	assert.Contains(t, out, "Searching proteins")
}

func TestRenderClosedDropdownHidesRows(t *testing.T) {
	r := NewRenderer(false)
	st := searchState(domain.MatchResult{Entity: zika})
	st.IsOpen = false

	assert.NotContains(t, ansi.Strip(r.Render(st)), "[virus]")
}

func TestRenderStatusLine(t *testing.T) {
	r := NewRenderer(false)

	st := searchState()
	st.LightStatus = index.StatusFailed
	st.DeepStatus = index.StatusFailed
	out := ansi.Strip(r.Render(st))
	assert.Contains(t, out, "viruses: unavailable")
	assert.Contains(t, out, "proteins: unavailable")

	st = searchState()
	st.LightStatus = index.StatusPending
	st.DeepLoading = true
	out = ansi.Strip(r.Render(st))
	assert.Contains(t, out, "viruses: loading")
	assert.Contains(t, out, "proteins: loading")
	assert.Contains(t, out, "Loading viruses")
}

func TestRenderVirusDetail(t *testing.T) {
	r := NewRenderer(true)
	st := searchState()
	st.Detail = &state.DetailPage{
		Route:    zika.Route(),
		Kind:     domain.KindVirus,
		ID:       zika.ID,
		Virus:    zika,
		HasVirus: true,
		Proteins: []domain.ProteinEntry{env, {ID: "p10", Name: "NS1", ParentID: "v2"}},
	}
	st.DetailHeight = 10
	st.DetailCursor = 1

	out := ansi.Strip(r.Render(st))
	assert.NotContains(t, out, "Search:")
	assert.Contains(t, out, "Zika virus")
	assert.Contains(t, out, "Proteins (2)")
	assert.Contains(t, out, "  Envelope protein  p9")
	assert.Contains(t, out, "▸ NS1  p10")
}

func TestRenderDetailStates(t *testing.T) {
	d := NewDetailRenderer(NewStyles())

	loading := &state.DetailPage{Route: "/protein/p1", Kind: domain.KindProtein, ID: "p1", NotFound: true, Loading: true}
	assert.Contains(t, ansi.Strip(d.RenderDetail(loading, 0, 0, 10, 80)), "Loading search index...")

	failed := &state.DetailPage{Route: "/protein/p1", Kind: domain.KindProtein, ID: "p1", NotFound: true, LoadErr: "boom"}
	assert.Contains(t, ansi.Strip(d.RenderDetail(failed, 0, 0, 10, 80)), "No protein with id p1 (index unavailable)")

	missing := &state.DetailPage{Route: "/virus/x", Kind: domain.KindVirus, ID: "x", NotFound: true}
	assert.Contains(t, ansi.Strip(d.RenderDetail(missing, 0, 0, 10, 80)), "No virus with id x")

	protein := &state.DetailPage{Route: env.Route(), Kind: domain.KindProtein, ID: env.ID, Protein: env, HasProtein: true}
	out := ansi.Strip(d.RenderDetail(protein, 0, 0, 10, 80))
	assert.Contains(t, out, "Envelope protein")
	assert.Contains(t, out, "Zika virus (v2)")

	pending := &state.DetailPage{Route: zika.Route(), Kind: domain.KindVirus, ID: zika.ID, Virus: zika, HasVirus: true, Loading: true}
	assert.Contains(t, ansi.Strip(d.RenderDetail(pending, 0, 0, 10, 80)), "Loading proteins...")
}

func TestRenderProteinWindow(t *testing.T) {
	d := NewDetailRenderer(NewStyles())
	var proteins []domain.ProteinEntry
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		proteins = append(proteins, domain.ProteinEntry{ID: id, Name: "protein " + id})
	}
	page := &state.DetailPage{Route: zika.Route(), Kind: domain.KindVirus, ID: zika.ID, Virus: zika, HasVirus: true, Proteins: proteins}

	out := ansi.Strip(d.RenderDetail(page, 3, 2, 2, 80))
	assert.Contains(t, out, "↑ 2 more above ↑")
	assert.Contains(t, out, "↓ 2 more below ↓")
	assert.Contains(t, out, "▸ protein d")
	assert.NotContains(t, out, "protein a")
}

func TestHitTest(t *testing.T) {
	r := NewRenderer(false)
	st := searchState(domain.MatchResult{Entity: zika}, domain.MatchResult{Entity: env})

	assert.Equal(t, Hit{Kind: HitInput}, r.HitTest(st, 10, 3))
	assert.Equal(t, Hit{Kind: HitRow, Row: 0}, r.HitTest(st, 10, 4))
	assert.Equal(t, Hit{Kind: HitRow, Row: 1}, r.HitTest(st, 10, 5))
	assert.Equal(t, Hit{Kind: HitOutside}, r.HitTest(st, 10, 6))
	assert.Equal(t, Hit{Kind: HitOutside}, r.HitTest(st, 0, 4))
	assert.Equal(t, Hit{Kind: HitOutside}, r.HitTest(st, 10, 1))

	st.IsOpen = false
	assert.Equal(t, Hit{Kind: HitOutside}, r.HitTest(st, 10, 4))

	st.Detail = &state.DetailPage{Route: zika.Route()}
	assert.Equal(t, Hit{Kind: HitOutside}, r.HitTest(st, 10, 3))
}

func TestHitTestMatchesRenderedLayout(t *testing.T) {
	r := NewRenderer(false)
	st := searchState(domain.MatchResult{Entity: zika}, domain.MatchResult{Entity: env})

	lines := strings.Split(ansi.Strip(r.Render(st)), "\n")
	require.Greater(t, len(lines), 5)
	assert.Contains(t, lines[3], "Search:")
	assert.Contains(t, lines[4], "Zika virus")
	assert.Contains(t, lines[5], "Envelope protein")
}

func TestInfoPopupOverlay(t *testing.T) {
	r := NewRenderer(false)
	st := searchState()
	st.ShowInfo = true
	st.InfoContent = "Data Sources\n\nBase: data"

	out := ansi.Strip(r.Render(st))
	assert.Contains(t, out, "Data Sources")
	assert.Contains(t, out, "Base: data")
}
