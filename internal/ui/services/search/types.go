package search

import (
	"context"
	"errors"
	"time"

	"tilescope/internal/config"
	"tilescope/internal/domain"
	"tilescope/internal/index"
)

// ErrStaleResult marks a deep search resolution that arrived for a query that
// is no longer active. It is logged, never shown.
var ErrStaleResult = errors.New("search: stale deep search result")

// Phase is the state of the search box
type Phase int

const (
	PhaseIdle              Phase = iota // query empty, dropdown closed
	PhaseTyping                         // query set, light index still loading
	PhaseResultsReady                   // results reflect the light tier of the current query
	PhaseDeepSearchPending              // a deep search is debounced or in flight
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseTyping:
		return "typing"
	case PhaseResultsReady:
		return "results-ready"
	case PhaseDeepSearchPending:
		return "deep-search-pending"
	default:
		return "unknown"
	}
}

// Session is a copy of the search state, safe to keep and render
type Session struct {
	ID                  string
	Phase               Phase
	Query               string
	IsOpen              bool
	SelectedIndex       int
	Results             []domain.MatchResult
	IsDeepSearchPending bool
	LightStatus         index.Status
	LightErr            error
	DeepErr             error
}

// Selected returns the highlighted result
func (s Session) Selected() (domain.MatchResult, bool) {
	if s.SelectedIndex < 0 || s.SelectedIndex >= len(s.Results) {
		return domain.MatchResult{}, false
	}
	return s.Results[s.SelectedIndex], true
}

// Settings tunes the two tiers
type Settings struct {
	LightMinChars int
	DeepMinChars  int
	Debounce      time.Duration
	LightLimit    int
	DeepLimit     int
	Threshold     float64
}

// DefaultSettings returns the stock tuning
func DefaultSettings() Settings {
	return SettingsFromConfig(config.DefaultConfig().Search)
}

// SettingsFromConfig converts the [search] config section
func SettingsFromConfig(c config.SearchSettings) Settings {
	return Settings{
		LightMinChars: c.LightMinChars,
		DeepMinChars:  c.DeepMinChars,
		Debounce:      c.Debounce.Duration,
		LightLimit:    c.LightLimit,
		DeepLimit:     c.DeepLimit,
		Threshold:     c.Threshold,
	}
}

// LightIndex is the eagerly loaded virus index
type LightIndex interface {
	Load(ctx context.Context) error
	Entries() ([]domain.VirusEntry, index.Status)
	Err() error
}

// DeepIndex is the lazily loaded protein index
type DeepIndex interface {
	Load(ctx context.Context) ([]domain.ProteinEntry, error)
}

// Navigator performs client-side navigation to a detail route
type Navigator interface {
	Navigate(route string) error
}

// Timer is a pending delayed call
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type timeScheduler struct{}

func (timeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
