package search

import (
	"strings"
	"unicode/utf8"

	"tilescope/internal/domain"
	"tilescope/internal/fuzzy"
)

var (
	virusKeys = []fuzzy.Key[domain.VirusEntry]{
		{Name: "name", Get: func(v domain.VirusEntry) string { return v.Name }},
		{Name: "id", Get: func(v domain.VirusEntry) string { return v.ID }},
	}
	proteinKeys = []fuzzy.Key[domain.ProteinEntry]{
		{Name: "name", Get: func(p domain.ProteinEntry) string { return p.Name }},
		{Name: "id", Get: func(p domain.ProteinEntry) string { return p.ID }},
	}
)

// NewVirusIndex builds the matcher for the light tier
func NewVirusIndex(entries []domain.VirusEntry, threshold float64) *fuzzy.Index[domain.VirusEntry] {
	return fuzzy.New(entries, virusKeys, threshold)
}

// NewProteinIndex builds the matcher for the deep tier
func NewProteinIndex(entries []domain.ProteinEntry, threshold float64) *fuzzy.Index[domain.ProteinEntry] {
	return fuzzy.New(entries, proteinKeys, threshold)
}

// QueryLength is the length compared against the tier thresholds: runes of
// the query without surrounding white space.
func QueryLength(query string) int {
	return utf8.RuneCountInString(strings.TrimSpace(query))
}

// Ranked holds both tiers for one query
type Ranked struct {
	Viruses  []domain.MatchResult
	Proteins []domain.MatchResult
}

// Merged returns virus matches followed by protein matches
func (r Ranked) Merged() []domain.MatchResult {
	out := make([]domain.MatchResult, 0, len(r.Viruses)+len(r.Proteins))
	out = append(out, r.Viruses...)
	return append(out, r.Proteins...)
}

// Rank matches query against both tiers. A nil index, or a query shorter
// than the tier's minimum, yields an empty tier.
func Rank(query string, viruses *fuzzy.Index[domain.VirusEntry], proteins *fuzzy.Index[domain.ProteinEntry], settings Settings) Ranked {
	n := QueryLength(query)
	var r Ranked
	if viruses != nil && n >= settings.LightMinChars {
		for _, m := range viruses.Search(query, settings.LightLimit) {
			r.Viruses = append(r.Viruses, domain.MatchResult{Entity: m.Item, Score: m.Score})
		}
	}
	if proteins != nil && n >= settings.DeepMinChars {
		for _, m := range proteins.Search(query, settings.DeepLimit) {
			r.Proteins = append(r.Proteins, domain.MatchResult{Entity: m.Item, Score: m.Score})
		}
	}
	return r
}
