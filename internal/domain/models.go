package domain

import (
	"fmt"
	"strings"
)

// EntityKind tags the variant of a searchable entity
type EntityKind int

const (
	KindVirus EntityKind = iota
	KindProtein
)

func (k EntityKind) String() string {
	switch k {
	case KindVirus:
		return "virus"
	case KindProtein:
		return "protein"
	default:
		return "unknown"
	}
}

// Entity is a searchable record: either a VirusEntry or a ProteinEntry
type Entity interface {
	Kind() EntityKind
	EntityID() string
	DisplayName() string
	Route() string
}

// VirusEntry is a row of the light index
type VirusEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (v VirusEntry) Kind() EntityKind    { return KindVirus }
func (v VirusEntry) EntityID() string    { return v.ID }
func (v VirusEntry) DisplayName() string { return v.Name }
func (v VirusEntry) Route() string       { return VirusRoute(v.ID) }

// ProteinEntry is a row of the deep index
type ProteinEntry struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ParentID   string `json:"virusId"`
	ParentName string `json:"virusName"`
}

func (p ProteinEntry) Kind() EntityKind    { return KindProtein }
func (p ProteinEntry) EntityID() string    { return p.ID }
func (p ProteinEntry) DisplayName() string { return p.Name }
func (p ProteinEntry) Route() string       { return ProteinRoute(p.ID) }

// SearchIndexFile is the full search index resource. Only Proteins is
// consumed by the deep index.
type SearchIndexFile struct {
	Viruses  []VirusEntry   `json:"viruses"`
	Proteins []ProteinEntry `json:"proteins"`
}

// MatchResult is a ranked search hit. Lower scores are better, 0 is exact.
type MatchResult struct {
	Entity Entity
	Score  float64
}

// Route prefixes understood by the navigation collaborator
const (
	VirusRoutePrefix   = "/virus/"
	ProteinRoutePrefix = "/protein/"
)

// VirusRoute returns the detail route of a virus
func VirusRoute(id string) string {
	return VirusRoutePrefix + id
}

// ProteinRoute returns the detail route of a protein
func ProteinRoute(id string) string {
	return ProteinRoutePrefix + id
}

// ParseRoute splits a detail route into its kind and id
func ParseRoute(route string) (EntityKind, string, error) {
	switch {
	case strings.HasPrefix(route, VirusRoutePrefix):
		id := strings.TrimPrefix(route, VirusRoutePrefix)
		if id == "" || strings.Contains(id, "/") {
			return 0, "", fmt.Errorf("invalid virus route %q", route)
		}
		return KindVirus, id, nil
	case strings.HasPrefix(route, ProteinRoutePrefix):
		id := strings.TrimPrefix(route, ProteinRoutePrefix)
		if id == "" || strings.Contains(id, "/") {
			return 0, "", fmt.Errorf("invalid protein route %q", route)
		}
		return KindProtein, id, nil
	default:
		return 0, "", fmt.Errorf("unknown route %q", route)
	}
}
