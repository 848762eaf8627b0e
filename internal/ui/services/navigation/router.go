package navigation

import (
	"fmt"
	"sync"

	"tilescope/internal/domain"
	"tilescope/internal/eventbus"
	"tilescope/internal/log"
)

// SearchRoute is the route of the search page
const SearchRoute = "/"

var logger = log.ForService("navigation")

// Router is the page-routing collaborator. It keeps the current route and a
// back stack.
type Router struct {
	mu      sync.RWMutex
	bus     eventbus.EventBus
	current string
	history []string
}

// NewRouter creates a router positioned on the search page
func NewRouter(bus eventbus.EventBus) *Router {
	return &Router{
		bus:     bus,
		current: SearchRoute,
	}
}

// Navigate moves to a detail route (/virus/{id} or /protein/{id})
func (r *Router) Navigate(route string) error {
	if _, _, err := domain.ParseRoute(route); err != nil {
		return fmt.Errorf("navigate: %w", err)
	}

	r.mu.Lock()
	from := r.current
	if from == route {
		r.mu.Unlock()
		return nil
	}
	r.history = append(r.history, from)
	r.current = route
	r.mu.Unlock()

	logger.Infof("%s -> %s", from, route)
	r.publish(from, route)
	return nil
}

// Back returns to the previous route. It reports false on the search page.
func (r *Router) Back() (string, bool) {
	r.mu.Lock()
	if len(r.history) == 0 {
		r.mu.Unlock()
		return r.Current(), false
	}
	from := r.current
	r.current = r.history[len(r.history)-1]
	r.history = r.history[:len(r.history)-1]
	to := r.current
	r.mu.Unlock()

	r.publish(from, to)
	return to, true
}

// Home drops the back stack and returns to the search page
func (r *Router) Home() {
	r.mu.Lock()
	from := r.current
	r.current = SearchRoute
	r.history = nil
	r.mu.Unlock()

	if from != SearchRoute {
		r.publish(from, SearchRoute)
	}
}

// Current returns the active route
func (r *Router) Current() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Depth returns the size of the back stack
func (r *Router) Depth() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.history)
}

func (r *Router) publish(from, to string) {
	if r.bus == nil {
		return
	}
	r.bus.Publish(eventbus.RouteChangedEvent{From: from, To: to})
}
