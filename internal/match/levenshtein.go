package match

// Distance returns the Levenshtein distance between a and b counted in
// characters: the fewest single-character insertions, deletions and
// substitutions that turn one into the other.
func Distance(a, b string) int {
	if a == b {
		return 0
	}

	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	if len(ra) == 0 {
		return len(rb)
	}

	// two rows of the edit matrix, sized by the shorter string
	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		curr[0] = j

		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}

			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(ra)]
}

// Similarity scores two names between 0 and 1 after NormalizeName, where
// 1 means equal names.
func Similarity(a, b string) float64 {
	na, nb := NormalizeName(a), NormalizeName(b)

	longest := max(Length(na), Length(nb))
	if longest == 0 {
		return 1
	}

	return 1 - float64(Distance(na, nb))/float64(longest)
}

// Closest returns the option most similar to value, provided it scores at
// least minScore. Ties go to the earlier option.
func Closest(value string, options []string, minScore float64) (string, bool) {
	best, bestScore := "", -1.0

	for _, option := range options {
		if score := Similarity(value, option); score > bestScore {
			best, bestScore = option, score
		}
	}

	if bestScore < minScore {
		return "", false
	}

	return best, true
}
