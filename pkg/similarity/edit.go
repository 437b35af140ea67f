package similarity

// EditDistance returns the Levenshtein distance between a and b: the minimum
// number of insertions, deletions and substitutions turning a into b.
// Substitutions cost substitutionCost (values below 1 are treated as 1). With
// transpositions, swapping two adjacent characters costs 1 (optimal string
// alignment distance).
func EditDistance(a, b string, substitutionCost int, transpositions bool) int {
	if substitutionCost < 1 {
		substitutionCost = 1
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// three rolling rows: two back (for transpositions), previous, current
	prev2 := make([]int, len(rb)+1)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			sub := prev[j-1]
			if ra[i-1] != rb[j-1] {
				sub += substitutionCost
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, sub)
			if transpositions && i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				curr[j] = min(curr[j], prev2[j-2]+1)
			}
		}
		prev2, prev, curr = prev, curr, prev2
	}
	return prev[len(rb)]
}
