package match

// Levenshtein computes the edit distance between two strings, counting
// runes rather than bytes.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	ra, rb := []rune(a), []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}

	if len(rb) == 0 {
		return len(ra)
	}

	// Keep the shorter string in ra; two rows suffice.
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		curr[0] = j

		for i := 1; i <= len(ra); i++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}

			curr[i] = min(
				prev[i]+1,      // deletion
				curr[i-1]+1,    // insertion
				prev[i-1]+cost, // substitution
			)
		}

		prev, curr = curr, prev
	}

	return prev[len(ra)]
}

// Similarity returns 1 - distance/maxLen for the normalized forms of a and b:
// 1.0 for headers that differ only in case and separators, 0.0 for nothing
// in common.
func Similarity(a, b string) float64 {
	na, nb := []rune(NormalizeHeader(a)), []rune(NormalizeHeader(b))
	if len(na) == 0 && len(nb) == 0 {
		return 1.0
	}

	maxLen := max(len(na), len(nb))

	return 1.0 - float64(Levenshtein(string(na), string(nb)))/float64(maxLen)
}
