// Package index holds the two searchable collections: the light virus index,
// loaded eagerly and once, and the deep protein index, loaded lazily the
// first time a query is long enough to need it.
package index

import (
	"context"

	"tilescope/internal/domain"
	"tilescope/internal/log"
)

var logger = log.ForService("index")

// Status is the load state of an index
type Status int

const (
	StatusPending Status = iota
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// LightSource provides the light index resource
type LightSource interface {
	Viruses(ctx context.Context, path string) ([]domain.VirusEntry, error)
}

// DeepSource provides the full search index resource
type DeepSource interface {
	SearchIndex(ctx context.Context, path string) (*domain.SearchIndexFile, error)
}

func cleanViruses(path string, in []domain.VirusEntry) []domain.VirusEntry {
	out := make([]domain.VirusEntry, 0, len(in))
	dropped := 0
	for _, v := range in {
		if v.ID == "" {
			dropped++
			continue
		}
		out = append(out, v)
	}
	if dropped > 0 {
		logger.Warnf("%s: dropped %d virus entries without id", path, dropped)
	}
	return out
}

func cleanProteins(path string, in []domain.ProteinEntry) []domain.ProteinEntry {
	out := make([]domain.ProteinEntry, 0, len(in))
	dropped := 0
	for _, p := range in {
		if p.ID == "" {
			dropped++
			continue
		}
		out = append(out, p)
	}
	if dropped > 0 {
		logger.Warnf("%s: dropped %d protein entries without id", path, dropped)
	}
	return out
}
