package index

import (
	"context"
	"sync"
	"sync/atomic"

	"tilescope/internal/domain"
)

// loadCall is one in-flight deep load shared by every waiter
type loadCall struct {
	done    chan struct{}
	entries []domain.ProteinEntry
	err     error
}

// Deep is the lazily loaded protein index.
//
// The first Load starts the fetch; Loads that arrive while it is in flight
// wait for the same result. A successful result is kept forever. A failed
// attempt is forgotten, so the next Load tries again.
type Deep struct {
	src  DeepSource
	path string

	mu       sync.Mutex
	inflight *loadCall
	entries  []domain.ProteinEntry
	byID     map[string]int
	byParent map[string][]int
	ready    bool
	err      error

	loads atomic.Int32
}

// NewDeep creates a deep index reading path from src
func NewDeep(src DeepSource, path string) *Deep {
	return &Deep{src: src, path: path}
}

// Load returns the protein entries, fetching them if needed. Cancelling ctx
// stops the wait, not the fetch.
func (d *Deep) Load(ctx context.Context) ([]domain.ProteinEntry, error) {
	d.mu.Lock()
	if d.ready {
		entries := d.entries
		d.mu.Unlock()
		return entries, nil
	}
	call := d.inflight
	if call == nil {
		call = &loadCall{done: make(chan struct{})}
		d.inflight = call
		go d.fetch(context.WithoutCancel(ctx), call)
	}
	d.mu.Unlock()

	select {
	case <-call.done:
		return call.entries, call.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (d *Deep) fetch(ctx context.Context, call *loadCall) {
	defer close(call.done)
	d.loads.Add(1)

	file, err := d.src.SearchIndex(ctx, d.path)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.inflight = nil
	if err != nil {
		call.err = err
		d.err = err
		logger.Errorf("deep index %s unavailable: %v", d.path, err)
		return
	}

	var proteins []domain.ProteinEntry
	if file != nil {
		proteins = file.Proteins
	}
	entries := cleanProteins(d.path, proteins)
	d.byID = make(map[string]int, len(entries))
	d.byParent = make(map[string][]int)
	for i, p := range entries {
		d.byID[p.ID] = i
		d.byParent[p.ParentID] = append(d.byParent[p.ParentID], i)
	}
	d.entries = entries
	d.ready = true
	d.err = nil
	call.entries = entries
	logger.Infof("deep index ready: %d proteins", len(entries))
}

// Entries returns the loaded entries without triggering a load
func (d *Deep) Entries() ([]domain.ProteinEntry, Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.entries, d.statusLocked()
}

// Status returns the current load state. A failed index reports
// StatusPending again once a retry is in flight.
func (d *Deep) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.statusLocked()
}

func (d *Deep) statusLocked() Status {
	switch {
	case d.ready:
		return StatusReady
	case d.inflight == nil && d.err != nil:
		return StatusFailed
	default:
		return StatusPending
	}
}

// Err returns the error of the last failed attempt
func (d *Deep) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// Find looks a protein up by id. It does not trigger a load.
func (d *Deep) Find(id string) (domain.ProteinEntry, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i, ok := d.byID[id]
	if !ok {
		return domain.ProteinEntry{}, false
	}
	return d.entries[i], true
}

// ProteinsOf returns the proteins of a virus in index order. It does not
// trigger a load.
func (d *Deep) ProteinsOf(virusID string) []domain.ProteinEntry {
	d.mu.Lock()
	defer d.mu.Unlock()
	idx := d.byParent[virusID]
	out := make([]domain.ProteinEntry, len(idx))
	for i, j := range idx {
		out[i] = d.entries[j]
	}
	return out
}

// Loads returns how many transport loads were started
func (d *Deep) Loads() int {
	return int(d.loads.Load())
}
