package similarity

// Common Jaro-Winkler parameters.
const (
	DefaultPrefixScale = 0.1
	DefaultMaxPrefix   = 4
)

// Jaro returns the Jaro similarity of a and b. Characters match when equal and
// no further apart than max(len(a), len(b))/2 - 1 positions; half the number
// of matched characters that appear in a different order counts as
// transpositions. Two empty strings score 1, one empty string scores 0.
func Jaro(a, b string) float64 {
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	window := max(len(ra), len(rb))/2 - 1
	if window < 0 {
		window = 0
	}

	matchedA := make([]bool, len(ra))
	matchedB := make([]bool, len(rb))
	matches := 0
	for i, r := range ra {
		lo, hi := max(0, i-window), min(len(rb)-1, i+window)
		for j := lo; j <= hi; j++ {
			if !matchedB[j] && rb[j] == r {
				matchedA[i], matchedB[j] = true, true
				matches++
				break
			}
		}
	}
	if matches == 0 {
		return 0
	}

	outOfOrder := 0
	j := 0
	for i := range ra {
		if !matchedA[i] {
			continue
		}
		for !matchedB[j] {
			j++
		}
		if ra[i] != rb[j] {
			outOfOrder++
		}
		j++
	}

	m := float64(matches)
	t := float64(outOfOrder) / 2
	return (m/float64(len(ra)) + m/float64(len(rb)) + (m-t)/m) / 3
}

// JaroWinkler boosts the Jaro similarity of strings sharing a prefix:
//
//	jaro + min(prefix, maxPrefix) * prefixScale * (1 - jaro)
//
// The usual parameters are DefaultPrefixScale and DefaultMaxPrefix. The result
// is capped at 1 when prefixScale * maxPrefix exceeds 1.
func JaroWinkler(a, b string, prefixScale float64, maxPrefix int) float64 {
	sim := Jaro(a, b)
	if sim == 0 || sim == 1 {
		return sim
	}

	prefix := 0
	ra, rb := []rune(a), []rune(b)
	for prefix < len(ra) && prefix < len(rb) && prefix < maxPrefix && ra[prefix] == rb[prefix] {
		prefix++
	}
	return min(1, sim+float64(prefix)*prefixScale*(1-sim))
}
