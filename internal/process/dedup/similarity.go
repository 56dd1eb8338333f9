package dedup

// Ratio computes the Ratcliff/Obershelp similarity of two strings in [0,1]:
// twice the number of matching characters over the total length, where
// matches are found by recursively locating longest common substrings.
// Two empty strings are considered identical.
func Ratio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)

	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}

	matches := matchingChars(ra, rb)

	return 2.0 * float64(matches) / float64(total)
}

func matchingChars(a, b []rune) int {
	i, j, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}

	return size +
		matchingChars(a[:i], b[:j]) +
		matchingChars(a[i+size:], b[j+size:])
}

// longestMatch finds the longest common substring of a and b, returning its
// start offsets and length. Ties resolve to the earliest occurrence in a,
// then in b, which keeps the ratio deterministic.
func longestMatch(a, b []rune) (int, int, int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}

	// Positions of each rune in b, so candidate extensions are O(occurrences)
	// instead of O(len(b)) per position in a.
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	bestI, bestJ, bestSize := 0, 0, 0
	// lengths[j] is the length of the match ending at a[i-1], b[j-1].
	lengths := make(map[int]int)

	for i, r := range a {
		next := make(map[int]int, len(b2j[r]))

		for _, j := range b2j[r] {
			k := lengths[j-1] + 1
			next[j] = k

			if k > bestSize {
				bestI, bestJ, bestSize = i-k+1, j-k+1, k
			}
		}

		lengths = next
	}

	return bestI, bestJ, bestSize
}
