// Package fuzzy ranks records against a query by approximate substring
// matching.
//
// Text is normalized first (case folded, accents stripped, punctuation
// treated as a separator). Every query token is then matched against the
// compacted text of a field with Sellers' approximate substring distance,
// and the field scores errors / query length. A score of 0 means the query
// occurs verbatim in the field; records are kept while their best field
// stays under the threshold.
package fuzzy

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// DefaultThreshold is the highest score that still counts as a match
const DefaultThreshold = 0.35

// Key names a searchable text field of T
type Key[T any] struct {
	Name string
	Get  func(T) string
}

// Match is a ranked record
type Match[T any] struct {
	Item  T
	Index int     // position in the indexed collection
	Score float64 // 0 is exact, lower is better
}

// Index is an immutable search index over a collection
type Index[T any] struct {
	items     []T
	fields    [][][]rune // per item, per key: compacted text
	threshold float64
}

// New builds an index over items. Field text is normalized once here. A
// threshold <= 0 selects DefaultThreshold.
func New[T any](items []T, keys []Key[T], threshold float64) *Index[T] {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	fields := make([][][]rune, len(items))
	for i, item := range items {
		row := make([][]rune, len(keys))
		for k, key := range keys {
			row[k] = []rune(Compact(key.Get(item)))
		}
		fields[i] = row
	}
	return &Index[T]{items: items, fields: fields, threshold: threshold}
}

// Threshold returns the match cut-off
func (ix *Index[T]) Threshold() float64 {
	return ix.threshold
}

// Search returns the records scoring at or under the threshold, best first.
// Equal scores keep collection order. limit <= 0 means no limit.
func (ix *Index[T]) Search(query string, limit int) []Match[T] {
	q := newQuery(query)
	if q.length == 0 || len(ix.items) == 0 {
		return nil
	}

	var matches []Match[T]
	for i, row := range ix.fields {
		best := -1.0
		for _, text := range row {
			s := q.score(text, ix.threshold)
			if best < 0 || s < best {
				best = s
			}
			if best == 0 {
				break
			}
		}
		if best >= 0 && best <= ix.threshold {
			matches = append(matches, Match[T]{Item: ix.items[i], Index: i, Score: best})
		}
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Score < matches[b].Score
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// Score returns the score of query against a single text
func Score(query, text string) float64 {
	q := newQuery(query)
	if q.length == 0 {
		return 1
	}
	return q.score([]rune(Compact(text)), 1)
}

// query is a normalized search string
type query struct {
	tokens  [][]rune
	compact []rune
	length  int // total runes over all tokens
}

func newQuery(s string) query {
	tokens := Normalize(s)
	q := query{tokens: make([][]rune, len(tokens))}
	for i, tok := range tokens {
		q.tokens[i] = []rune(tok)
		q.length += utf8.RuneCountInString(tok)
	}
	q.compact = []rune(strings.Join(tokens, ""))
	return q
}

// score returns errors / length for text, the lower of the per-token score
// and the compacted-query score, capped at 1. Token matching stops once the
// error budget for threshold is spent.
func (q query) score(text []rune, threshold float64) float64 {
	if len(text) == 0 {
		return 1
	}
	if containsRunes(text, q.compact) {
		return 0
	}

	whole := substringDistance(q.compact, text)
	best := ratio(whole, q.length)
	if len(q.tokens) == 1 {
		return best
	}

	budget := int(threshold*float64(q.length)) + 1
	errs := 0
	for _, tok := range q.tokens {
		errs += substringDistance(tok, text)
		if errs >= budget && ratio(errs, q.length) >= best {
			return best
		}
	}
	if s := ratio(errs, q.length); s < best {
		best = s
	}
	return best
}

func ratio(errs, length int) float64 {
	if errs >= length {
		return 1
	}
	return float64(errs) / float64(length)
}

func containsRunes(text, sub []rune) bool {
	return strings.Contains(string(text), string(sub))
}
