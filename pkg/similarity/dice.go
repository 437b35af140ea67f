// Package similarity provides string similarity and distance metrics.
//
// All functions are pure, operate on characters (runes) rather than bytes and
// return scores in [0, 1] unless stated otherwise.
package similarity

// Dice returns the Sørensen–Dice coefficient of the character bigrams of a and
// b:
//
//	2 * |A ∩ B| / (|A| + |B|)
//
// where A and B are bigram multisets. Identical strings score 1; a string that
// is empty or too short to have a bigram scores 0 against anything else.
func Dice(a, b string) float64 {
	return DiceN(a, b, 2)
}

// DiceN is Dice over character n-grams. n < 1 is treated as 1.
func DiceN(a, b string, n int) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	ga, gb := charGrams(a, n), charGrams(b, n)
	if len(ga) == 0 || len(gb) == 0 {
		return 0
	}

	counts := make(map[string]int, len(ga))
	for _, g := range ga {
		counts[g]++
	}
	shared := 0
	for _, g := range gb {
		if counts[g] > 0 {
			counts[g]--
			shared++
		}
	}
	return float64(2*shared) / float64(len(ga)+len(gb))
}

// charGrams returns the overlapping n-character substrings of s.
func charGrams(s string, n int) []string {
	if n < 1 {
		n = 1
	}
	runes := []rune(s)
	if len(runes) < n {
		return nil
	}
	grams := make([]string, 0, len(runes)-n+1)
	for i := 0; i+n <= len(runes); i++ {
		grams = append(grams, string(runes[i:i+n]))
	}
	return grams
}
