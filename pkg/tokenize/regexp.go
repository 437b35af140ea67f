package tokenize

import (
	"iter"
	"regexp"

	"github.com/chriscorrea/textvec/pkg/errs"
)

// RegexpTokenizer emits every non-overlapping match of a pattern.
type RegexpTokenizer struct {
	re *regexp.Regexp
}

// NewRegexpTokenizer compiles pattern. An invalid pattern is a configuration
// error.
func NewRegexpTokenizer(pattern string) (*RegexpTokenizer, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errs.Configf("tokenize.NewRegexpTokenizer", "invalid pattern %q: %v", pattern, err)
	}
	return &RegexpTokenizer{re: re}, nil
}

// Pattern returns the source of the compiled pattern.
func (t *RegexpTokenizer) Pattern() string {
	return t.re.String()
}

// Tokenize emits the matches of one scan over the whole text, so anchors and
// word boundaries see the full left context. Empty matches are skipped.
func (t *RegexpTokenizer) Tokenize(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		text := clean(text)
		for _, loc := range t.re.FindAllStringIndex(text, -1) {
			if loc[0] == loc[1] {
				continue
			}
			if !yield(text[loc[0]:loc[1]]) {
				return
			}
		}
	}
}
