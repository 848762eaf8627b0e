package search

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"tilescope/internal/domain"
	"tilescope/internal/eventbus"
	"tilescope/internal/fuzzy"
	"tilescope/internal/index"
	"tilescope/internal/log"
)

var logger = log.ForService("search")

// Service is the search box state machine. The light tier is recomputed
// synchronously on every keystroke; the deep tier is debounced, loaded
// through the deep index and applied only if no newer query arrived in the
// meantime.
type Service struct {
	mu sync.Mutex

	id       string
	bus      eventbus.EventBus
	light    LightIndex
	deep     DeepIndex
	nav      Navigator
	sched    Scheduler
	settings Settings

	query         string
	isOpen        bool
	selectedIndex int
	virusTier     []domain.MatchResult
	proteinTier   []domain.MatchResult
	results       []domain.MatchResult
	deepPending   bool
	lightErr      error
	deepErr       error

	timer      Timer
	generation uint64

	lightIx *fuzzy.Index[domain.VirusEntry]
	deepIx  *fuzzy.Index[domain.ProteinEntry]
}

// NewService creates a new search service
func NewService(bus eventbus.EventBus, light LightIndex, deep DeepIndex, settings Settings) *Service {
	return &Service{
		id:       uuid.NewString(),
		bus:      bus,
		light:    light,
		deep:     deep,
		sched:    timeScheduler{},
		settings: settings,
	}
}

// SetNavigator sets the routing collaborator used on selection
func (s *Service) SetNavigator(nav Navigator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav = nav
}

// SetScheduler replaces the debounce timer source
func (s *Service) SetScheduler(sched Scheduler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sched = sched
}

// ID returns the session id used in logs and events
func (s *Service) ID() string {
	return s.id
}

// Settings returns the tuning in effect
func (s *Service) Settings() Settings {
	return s.settings
}

// LoadLightIndex loads the light index and, once it is ready, recomputes the
// light tier for whatever the user typed meanwhile. A failure leaves the
// light tier empty for the rest of the session.
func (s *Service) LoadLightIndex(ctx context.Context) error {
	err := s.light.Load(ctx)

	var events []eventbus.DomainEvent
	s.mu.Lock()
	entries, status := s.light.Entries()
	switch status {
	case index.StatusFailed:
		s.lightErr = s.light.Err()
		events = append(events,
			eventbus.IndexFailedEvent{Index: domain.LightIndexName, Err: s.lightErr},
			eventbus.SearchUpdatedEvent{SessionID: s.id, Query: s.query})
	case index.StatusReady:
		s.ensureLightIndexLocked()
		if QueryLength(s.query) >= s.settings.LightMinChars {
			s.virusTier = s.matchLightLocked()
			s.rebuildLocked(true)
		}
		events = append(events,
			eventbus.IndexLoadedEvent{Index: domain.LightIndexName, Entries: len(entries)},
			eventbus.SearchUpdatedEvent{SessionID: s.id, Query: s.query})
	}
	s.mu.Unlock()

	s.publish(events...)
	return err
}

// SetQuery handles a keystroke
func (s *Service) SetQuery(query string) {
	var events []eventbus.DomainEvent

	s.mu.Lock()
	if query == s.query {
		s.mu.Unlock()
		return
	}
	s.query = query
	s.generation++
	s.stopTimerLocked()

	if query == "" {
		s.resetLocked()
		events = append(events, eventbus.SearchClearedEvent{SessionID: s.id})
		s.mu.Unlock()
		s.publish(events...)
		return
	}

	s.isOpen = true
	n := QueryLength(query)
	if n >= s.settings.LightMinChars {
		s.virusTier = s.matchLightLocked()
	} else {
		s.virusTier = nil
	}

	if n >= s.settings.DeepMinChars {
		// the previous deep tier stays visible until this one resolves
		s.scheduleDeepLocked()
		events = append(events, eventbus.DeepSearchScheduledEvent{SessionID: s.id, Query: query})
	} else {
		s.proteinTier = nil
		s.deepPending = false
	}
	s.rebuildLocked(true)
	s.mu.Unlock()

	s.publish(events...)
}

// Clear empties the query, closes the dropdown and drops any pending deep
// search
func (s *Service) Clear() {
	s.mu.Lock()
	s.generation++
	s.stopTimerLocked()
	s.query = ""
	s.resetLocked()
	s.mu.Unlock()

	s.publish(eventbus.SearchClearedEvent{SessionID: s.id})
}

// Open reopens the dropdown for the current query without recomputing it
func (s *Service) Open() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.query != "" {
		s.isOpen = true
	}
}

// Close hides the dropdown and keeps query and results
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isOpen = false
}

// MoveDown moves the selection down, stopping at the last result
func (s *Service) MoveDown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isOpen || len(s.results) == 0 {
		return
	}
	if s.selectedIndex < len(s.results)-1 {
		s.selectedIndex++
	}
}

// MoveUp moves the selection up, stopping at the first result
func (s *Service) MoveUp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isOpen || len(s.results) == 0 {
		return
	}
	if s.selectedIndex > 0 {
		s.selectedIndex--
	}
}

// SelectCurrent selects the highlighted result (Enter)
func (s *Service) SelectCurrent() (string, bool) {
	s.mu.Lock()
	if !s.isOpen {
		s.mu.Unlock()
		return "", false
	}
	route, nav, ok := s.selectLocked(s.selectedIndex)
	s.mu.Unlock()
	return s.finishSelect(route, nav, ok)
}

// Select picks result i: the query is cleared, the dropdown closed and the
// navigator called once with the result's route.
func (s *Service) Select(i int) (string, bool) {
	s.mu.Lock()
	route, nav, ok := s.selectLocked(i)
	s.mu.Unlock()
	return s.finishSelect(route, nav, ok)
}

func (s *Service) selectLocked(i int) (string, Navigator, bool) {
	if i < 0 || i >= len(s.results) {
		return "", nil, false
	}
	route := s.results[i].Entity.Route()
	s.generation++
	s.stopTimerLocked()
	s.query = ""
	s.resetLocked()
	return route, s.nav, true
}

func (s *Service) finishSelect(route string, nav Navigator, ok bool) (string, bool) {
	if !ok {
		return "", false
	}

	s.publish(eventbus.SearchClearedEvent{SessionID: s.id})
	logger.Infof("[%s] selected %s", s.shortID(), route)

	if nav != nil {
		if err := nav.Navigate(route); err != nil {
			logger.Errorf("[%s] navigate to %s: %v", s.shortID(), route, err)
		}
	}
	return route, true
}

// Snapshot returns a copy of the session
func (s *Service) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, lightStatus := s.light.Entries()
	results := make([]domain.MatchResult, len(s.results))
	copy(results, s.results)
	return Session{
		ID:                  s.id,
		Phase:               s.phaseLocked(lightStatus),
		Query:               s.query,
		IsOpen:              s.isOpen,
		SelectedIndex:       s.selectedIndex,
		Results:             results,
		IsDeepSearchPending: s.deepPending,
		LightStatus:         lightStatus,
		LightErr:            s.lightErr,
		DeepErr:             s.deepErr,
	}
}

// Phase returns the current state
func (s *Service) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, lightStatus := s.light.Entries()
	return s.phaseLocked(lightStatus)
}

// Stop cancels the pending debounce; in-flight deep searches are discarded
// when they resolve.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.stopTimerLocked()
	s.deepPending = false
}

func (s *Service) phaseLocked(lightStatus index.Status) Phase {
	switch {
	case s.query == "":
		return PhaseIdle
	case s.deepPending:
		return PhaseDeepSearchPending
	case lightStatus == index.StatusPending && QueryLength(s.query) >= s.settings.LightMinChars:
		return PhaseTyping
	default:
		return PhaseResultsReady
	}
}

func (s *Service) scheduleDeepLocked() {
	gen := s.generation
	s.deepPending = true
	s.timer = s.sched.AfterFunc(s.settings.Debounce, func() {
		s.runDeep(gen)
	})
}

// runDeep runs when the debounce window of generation gen elapsed
func (s *Service) runDeep(gen uint64) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	query := s.query
	s.mu.Unlock()

	logger.Debugf("[%s] deep search for %q", s.shortID(), query)
	entries, err := s.deep.Load(context.Background())

	var events []eventbus.DomainEvent
	s.mu.Lock()
	switch {
	case gen != s.generation || QueryLength(s.query) < s.settings.DeepMinChars:
		logger.Debugf("[%s] discarding deep search for %q: %v", s.shortID(), query, ErrStaleResult)
		if err != nil {
			logger.Warnf("[%s] deep index load failed: %v", s.shortID(), err)
			s.deepErr = err
		}
		if err == nil && s.ensureDeepIndexLocked(entries) {
			events = append(events, eventbus.IndexLoadedEvent{Index: domain.DeepIndexName, Entries: len(entries)})
		}
		events = append(events, eventbus.DeepSearchDiscardedEvent{SessionID: s.id, Query: query, Reason: ErrStaleResult})

	case err != nil:
		logger.Errorf("[%s] deep search for %q failed: %v", s.shortID(), query, err)
		s.deepErr = err
		s.deepPending = false
		s.proteinTier = nil
		s.rebuildLocked(false)
		events = append(events,
			eventbus.IndexFailedEvent{Index: domain.DeepIndexName, Err: err},
			eventbus.DeepSearchDiscardedEvent{SessionID: s.id, Query: query, Reason: err},
			eventbus.SearchUpdatedEvent{SessionID: s.id, Query: s.query})

	default:
		if s.ensureDeepIndexLocked(entries) {
			events = append(events, eventbus.IndexLoadedEvent{Index: domain.DeepIndexName, Entries: len(entries)})
		}
		s.deepErr = nil
		s.deepPending = false
		s.proteinTier = Rank(s.query, nil, s.deepIx, s.settings).Proteins
		s.rebuildLocked(false)
		logger.Debugf("[%s] deep search for %q: %d proteins", s.shortID(), s.query, len(s.proteinTier))
		events = append(events,
			eventbus.DeepSearchCompletedEvent{SessionID: s.id, Query: s.query, Matches: len(s.proteinTier)},
			eventbus.SearchUpdatedEvent{SessionID: s.id, Query: s.query})
	}
	s.mu.Unlock()

	s.publish(events...)
}

func (s *Service) matchLightLocked() []domain.MatchResult {
	if !s.ensureLightIndexLocked() {
		return nil
	}
	return Rank(s.query, s.lightIx, nil, s.settings).Viruses
}

// ensureLightIndexLocked builds the light matcher once the index is ready
func (s *Service) ensureLightIndexLocked() bool {
	if s.lightIx != nil {
		return true
	}
	entries, status := s.light.Entries()
	if status != index.StatusReady {
		return false
	}
	s.lightIx = NewVirusIndex(entries, s.settings.Threshold)
	return true
}

// ensureDeepIndexLocked builds the deep matcher, reporting whether it was
// built by this call
func (s *Service) ensureDeepIndexLocked(entries []domain.ProteinEntry) bool {
	if s.deepIx != nil {
		return false
	}
	s.deepIx = NewProteinIndex(entries, s.settings.Threshold)
	return true
}

// rebuildLocked merges the tiers. The selection goes back to the top when
// resetSelection is set or when it fell off the end.
func (s *Service) rebuildLocked(resetSelection bool) {
	s.results = Ranked{Viruses: s.virusTier, Proteins: s.proteinTier}.Merged()
	if resetSelection || s.selectedIndex >= len(s.results) {
		s.selectedIndex = 0
	}
}

func (s *Service) resetLocked() {
	s.isOpen = false
	s.selectedIndex = 0
	s.virusTier = nil
	s.proteinTier = nil
	s.results = nil
	s.deepPending = false
}

func (s *Service) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Service) publish(events ...eventbus.DomainEvent) {
	if s.bus == nil {
		return
	}
	for _, e := range events {
		s.bus.Publish(e)
	}
}

func (s *Service) shortID() string {
	return s.id[:8]
}
