package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventConfigLoaded        EventType = "ConfigLoaded"
	EventConfigSaved         EventType = "ConfigSaved"
	EventIndexLoaded         EventType = "IndexLoaded"
	EventIndexFailed         EventType = "IndexFailed"
	EventSearchUpdated       EventType = "SearchUpdated"
	EventDeepSearchScheduled EventType = "DeepSearchScheduled"
	EventDeepSearchCompleted EventType = "DeepSearchCompleted"
	EventDeepSearchDiscarded EventType = "DeepSearchDiscarded"
	EventSearchCleared       EventType = "SearchCleared"
	EventRouteChanged        EventType = "RouteChanged"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// IndexName identifies one of the two search indices
type IndexName string

const (
	LightIndexName IndexName = "light"
	DeepIndexName  IndexName = "deep"
)

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	DataBase string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct{}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// IndexLoadedEvent is emitted when an index finished loading
type IndexLoadedEvent struct {
	Index   IndexName
	Entries int
}

func (e IndexLoadedEvent) Type() EventType { return EventIndexLoaded }

// IndexFailedEvent is emitted when an index could not be loaded
type IndexFailedEvent struct {
	Index IndexName
	Err   error
}

func (e IndexFailedEvent) Type() EventType { return EventIndexFailed }

// SearchUpdatedEvent is emitted after the search session changed outside of
// a direct caller action (timer, fetch completion)
type SearchUpdatedEvent struct {
	SessionID string
	Query     string
}

func (e SearchUpdatedEvent) Type() EventType { return EventSearchUpdated }

// DeepSearchScheduledEvent is emitted when the debounce timer is (re)armed
type DeepSearchScheduledEvent struct {
	SessionID string
	Query     string
}

func (e DeepSearchScheduledEvent) Type() EventType { return EventDeepSearchScheduled }

// DeepSearchCompletedEvent is emitted when protein matches were applied
type DeepSearchCompletedEvent struct {
	SessionID string
	Query     string
	Matches   int
}

func (e DeepSearchCompletedEvent) Type() EventType { return EventDeepSearchCompleted }

// DeepSearchDiscardedEvent is emitted when a deep search resolved for a query
// that is no longer active, or failed
type DeepSearchDiscardedEvent struct {
	SessionID string
	Query     string
	Reason    error
}

func (e DeepSearchDiscardedEvent) Type() EventType { return EventDeepSearchDiscarded }

// SearchClearedEvent is emitted when the query is emptied
type SearchClearedEvent struct {
	SessionID string
}

func (e SearchClearedEvent) Type() EventType { return EventSearchCleared }

// RouteChangedEvent is emitted by the navigation collaborator
type RouteChangedEvent struct {
	From string
	To   string
}

func (e RouteChangedEvent) Type() EventType { return EventRouteChanged }
