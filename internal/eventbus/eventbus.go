package eventbus

import (
	"runtime/debug"
	"sync"

	"tilescope/internal/domain"
	"tilescope/internal/log"
)

var logger = log.ForService("eventbus")

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventConfigLoaded        = domain.EventConfigLoaded
	EventConfigSaved         = domain.EventConfigSaved
	EventIndexLoaded         = domain.EventIndexLoaded
	EventIndexFailed         = domain.EventIndexFailed
	EventSearchUpdated       = domain.EventSearchUpdated
	EventDeepSearchScheduled = domain.EventDeepSearchScheduled
	EventDeepSearchCompleted = domain.EventDeepSearchCompleted
	EventDeepSearchDiscarded = domain.EventDeepSearchDiscarded
	EventSearchCleared       = domain.EventSearchCleared
	EventRouteChanged        = domain.EventRouteChanged
)

// Re-export domain event types
type ConfigLoadedEvent = domain.ConfigLoadedEvent
type ConfigSavedEvent = domain.ConfigSavedEvent
type IndexLoadedEvent = domain.IndexLoadedEvent
type IndexFailedEvent = domain.IndexFailedEvent
type SearchUpdatedEvent = domain.SearchUpdatedEvent
type DeepSearchScheduledEvent = domain.DeepSearchScheduledEvent
type DeepSearchCompletedEvent = domain.DeepSearchCompletedEvent
type DeepSearchDiscardedEvent = domain.DeepSearchDiscardedEvent
type SearchClearedEvent = domain.SearchClearedEvent
type RouteChangedEvent = domain.RouteChangedEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]subscription
	nextID    uint64
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
}

// New creates a new event bus
func New() EventBus {
	b := &bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan DomainEvent, 1000),
		quit:      make(chan struct{}),
	}

	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	// Search updates fire on every deep resolution, too chatty for info
	switch event.Type() {
	case EventSearchUpdated, EventDeepSearchScheduled:
		logger.Debugf("publishing %s", event.Type())
	default:
		logger.Infof("publishing %s", event.Type())
	}

	select {
	case <-b.quit:
		return
	default:
	}

	select {
	case b.eventChan <- event:
	default:
		logger.Warnf("channel full, dropping event %s", event.Type())
	}
}

// Subscribe subscribes to events of a specific type.
// Returns an unsubscribe function.
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close stops the dispatcher. Pending events are discarded.
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
		b.wg.Wait()
	})
}

// dispatch handles event distribution to subscribers
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.mu.RLock()
			subs := make([]subscription, len(b.handlers[event.Type()]))
			copy(subs, b.handlers[event.Type()])
			b.mu.RUnlock()

			for _, s := range subs {
				// Handlers run on their own goroutine so a slow subscriber
				// never blocks the dispatcher
				go func(h EventHandler, eventType EventType) {
					defer func() {
						if r := recover(); r != nil {
							logger.Errorf("handler panic for %s: %v\nStack: %s", eventType, r, debug.Stack())
						}
					}()
					h(event)
				}(s.handler, event.Type())
			}

		case <-b.quit:
			for {
				select {
				case <-b.eventChan:
				default:
					return
				}
			}
		}
	}
}
