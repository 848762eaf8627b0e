package fuzzy

import (
	"sort"
	"strings"

	sfuzzy "github.com/sahilm/fuzzy"
)

// Highlight returns the byte offsets of the runes of text to emphasize for
// query. The whole query is tried as a subsequence first, then each word on
// its own. Display only: ranking never looks at this.
func Highlight(query, text string) []int {
	query = strings.TrimSpace(query)
	if query == "" || text == "" {
		return nil
	}

	if idx := subsequence(strings.Join(strings.Fields(query), ""), text); idx != nil {
		return idx
	}

	seen := make(map[int]struct{})
	for _, word := range strings.Fields(query) {
		for _, i := range subsequence(word, text) {
			seen[i] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]int, 0, len(seen))
	for i := range seen {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

func subsequence(pattern, text string) []int {
	if pattern == "" {
		return nil
	}
	matches := sfuzzy.Find(pattern, []string{text})
	if len(matches) == 0 {
		return nil
	}
	return append([]int(nil), matches[0].MatchedIndexes...)
}
