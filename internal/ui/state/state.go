package state

import (
	"tilescope/internal/domain"
	"tilescope/internal/index"
	"tilescope/internal/ui/services/navigation"
)

// DetailPage is the routing target shown for /virus/{id} and /protein/{id}
type DetailPage struct {
	Route string
	Kind  domain.EntityKind
	ID    string

	Virus    domain.VirusEntry // the virus, or the parent of a protein
	HasVirus bool

	Protein    domain.ProteinEntry
	HasProtein bool

	Proteins []domain.ProteinEntry // proteins of a virus page
	Loading  bool                  // waiting for the deep index
	NotFound bool
	LoadErr  string
}

// AppState contains the UI-only application state. The search session lives
// in the search service and is read through snapshots.
type AppState struct {
	// Page state
	Route  string      // current route, "/" for the search page
	Detail *DetailPage // nil on the search page

	// Detail list cursor
	Viewport *navigation.Viewport

	// Index state as reported by events
	LightCount  int
	DeepCount   int
	DeepStatus  index.Status
	DeepLoading bool

	// UI state
	ShowInfo      bool
	InfoContent   string
	StatusMessage string // status bar message
}

// NewAppState creates a new application state
func NewAppState() *AppState {
	return &AppState{
		Route:    navigation.SearchRoute,
		Viewport: navigation.NewViewport(10),
	}
}

// OpenDetail shows page and resets the list cursor
func (s *AppState) OpenDetail(page *DetailPage) {
	s.Route = page.Route
	s.Detail = page
	s.Viewport.Reset(len(page.Proteins))
}

// CloseDetail returns to the search page
func (s *AppState) CloseDetail() {
	s.Route = navigation.SearchRoute
	s.Detail = nil
	s.Viewport.Reset(0)
}

// SetDetailProteins replaces the protein list of the current virus page,
// keeping the cursor in range
func (s *AppState) SetDetailProteins(proteins []domain.ProteinEntry) {
	if s.Detail == nil {
		return
	}
	s.Detail.Proteins = proteins
	s.Detail.Loading = false
	cursor := s.Viewport.Cursor
	s.Viewport.Reset(len(proteins))
	for i := 0; i < cursor && i < len(proteins)-1; i++ {
		s.Viewport.Move(navigation.DirectionDown)
	}
}

// SelectedProtein returns the protein under the cursor on a virus page
func (s *AppState) SelectedProtein() (domain.ProteinEntry, bool) {
	if s.Detail == nil || len(s.Detail.Proteins) == 0 {
		return domain.ProteinEntry{}, false
	}
	i := s.Viewport.Cursor
	if i < 0 || i >= len(s.Detail.Proteins) {
		return domain.ProteinEntry{}, false
	}
	return s.Detail.Proteins[i], true
}

// OnSearchPage reports whether the search page is showing
func (s *AppState) OnSearchPage() bool {
	return s.Detail == nil
}
