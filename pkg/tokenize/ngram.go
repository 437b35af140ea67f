package tokenize

import (
	"iter"
	"strings"

	"github.com/chriscorrea/textvec/pkg/errs"
)

// KSkipNGrams expands a token stream into k-skip-n-grams: every combination of
// n tokens taken in order, starting at some token and skipping at most MaxK
// tokens in total. With MaxK = 0 these are ordinary contiguous n-grams.
//
// Output is ordered by n, then by start position, then by the positions of
// the remaining tokens.
type KSkipNGrams struct {
	MinN      int
	MaxN      int
	MaxK      int
	Separator string
}

// NewKSkipNGrams validates the ranges and returns the expander.
func NewKSkipNGrams(minN, maxN, maxK int, sep string) (*KSkipNGrams, error) {
	const op = "tokenize.NewKSkipNGrams"
	switch {
	case minN < 1:
		return nil, errs.Configf(op, "min_n=%d must be at least 1", minN)
	case minN > maxN:
		return nil, errs.Configf(op, "min_n=%d is greater than max_n=%d", minN, maxN)
	case maxK < 0:
		return nil, errs.Configf(op, "max_k=%d must not be negative", maxK)
	}
	if sep == "" {
		sep = " "
	}
	return &KSkipNGrams{MinN: minN, MaxN: maxN, MaxK: maxK, Separator: sep}, nil
}

// Transform implements Filter. The input is buffered since grams look ahead.
func (g *KSkipNGrams) Transform(tokens iter.Seq[string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		var buf []string
		for tok := range tokens {
			buf = append(buf, tok)
		}
		for n := g.MinN; n <= g.MaxN; n++ {
			if !g.emit(buf, n, yield) {
				return
			}
		}
	}
}

// Grams returns the grams of tokens as string slices, without joining.
func (g *KSkipNGrams) Grams(tokens []string) [][]string {
	var out [][]string
	for n := g.MinN; n <= g.MaxN; n++ {
		g.walk(tokens, n, func(pos []int) bool {
			gram := make([]string, len(pos))
			for i, p := range pos {
				gram[i] = tokens[p]
			}
			out = append(out, gram)
			return true
		})
	}
	return out
}

func (g *KSkipNGrams) emit(tokens []string, n int, yield func(string) bool) bool {
	var b strings.Builder
	return g.walk(tokens, n, func(pos []int) bool {
		if len(pos) == 1 {
			return yield(tokens[pos[0]])
		}
		b.Reset()
		for i, p := range pos {
			if i > 0 {
				b.WriteString(g.Separator)
			}
			b.WriteString(tokens[p])
		}
		return yield(b.String())
	})
}

// walk calls visit with the token positions of every n-gram. It stops and
// returns false when visit does.
func (g *KSkipNGrams) walk(tokens []string, n int, visit func([]int) bool) bool {
	pos := make([]int, n)
	var rec func(depth, next, skipped int) bool
	rec = func(depth, next, skipped int) bool {
		if depth == n {
			return visit(pos)
		}
		for p := next; p < len(tokens) && skipped+(p-next) <= g.MaxK; p++ {
			pos[depth] = p
			if !rec(depth+1, p+1, skipped+(p-next)) {
				return false
			}
		}
		return true
	}
	for start := 0; start+n <= len(tokens); start++ {
		pos[0] = start
		if !rec(1, start+1, 0) {
			return false
		}
	}
	return true
}
