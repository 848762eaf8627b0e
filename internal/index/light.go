package index

import (
	"context"
	"sync"
	"sync/atomic"

	"tilescope/internal/domain"
)

// Light is the eagerly loaded virus index. It is loaded at most once; a
// failure is permanent for the lifetime of the Light.
type Light struct {
	src  LightSource
	path string

	once sync.Once
	done chan struct{}

	mu      sync.RWMutex
	status  Status
	entries []domain.VirusEntry
	byID    map[string]int
	err     error

	loads atomic.Int32
}

// NewLight creates a light index reading path from src
func NewLight(src LightSource, path string) *Light {
	return &Light{
		src:  src,
		path: path,
		done: make(chan struct{}),
	}
}

// Load fetches the index on the first call and waits for that fetch on every
// call. It returns the load error, if any.
func (l *Light) Load(ctx context.Context) error {
	l.once.Do(func() {
		go l.fetch(context.WithoutCancel(ctx))
	})

	select {
	case <-l.done:
		return l.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Light) fetch(ctx context.Context) {
	defer close(l.done)
	l.loads.Add(1)

	entries, err := l.src.Viruses(ctx, l.path)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.status = StatusFailed
		l.err = err
		logger.Errorf("light index %s unavailable: %v", l.path, err)
		return
	}
	l.entries = cleanViruses(l.path, entries)
	l.byID = make(map[string]int, len(l.entries))
	for i, v := range l.entries {
		l.byID[v.ID] = i
	}
	l.status = StatusReady
	logger.Infof("light index ready: %d viruses", len(l.entries))
}

// Entries returns the loaded entries and the current status. Entries is nil
// unless the status is StatusReady.
func (l *Light) Entries() ([]domain.VirusEntry, Status) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.entries, l.status
}

// Status returns the current load state
func (l *Light) Status() Status {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.status
}

// Err returns the load failure, if the index failed
func (l *Light) Err() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.err
}

// Find looks a virus up by id
func (l *Light) Find(id string) (domain.VirusEntry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	i, ok := l.byID[id]
	if !ok {
		return domain.VirusEntry{}, false
	}
	return l.entries[i], true
}

// Loads returns how many transport loads were started
func (l *Light) Loads() int {
	return int(l.loads.Load())
}
