package fuzzy

// substringDistance returns the smallest edit distance between pattern and
// any substring of text (Sellers). Insertions, deletions and substitutions
// cost 1. An empty pattern has distance 0.
func substringDistance(pattern, text []rune) int {
	m := len(pattern)
	if m == 0 {
		return 0
	}

	// col[i] is the distance of pattern[:i] ending at the current text position
	col := make([]int, m+1)
	for i := range col {
		col[i] = i
	}
	best := col[m]

	for _, tc := range text {
		diag := col[0] // always 0: a match may start anywhere
		for i := 1; i <= m; i++ {
			prev := col[i]
			cost := 1
			if pattern[i-1] == tc {
				cost = 0
			}
			v := diag + cost
			if up := col[i-1] + 1; up < v {
				v = up
			}
			if left := prev + 1; left < v {
				v = left
			}
			col[i] = v
			diag = prev
		}
		if col[m] < best {
			best = col[m]
			if best == 0 {
				return 0
			}
		}
	}
	return best
}
