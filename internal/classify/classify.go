// Package classify drops boilerplate documents (headers, footers, navigation,
// publishing metadata) from a split source before it is vectorized.
//
// A document is boilerplate when the share of its words whose English stem is
// in a fixed boilerplate list exceeds a threshold. The threshold depends on the
// document's position: documents near either end of a source are judged more
// strictly than those in the middle.
package classify

import (
	"log/slog"
	"math"

	"github.com/chriscorrea/textvec/pkg/stem"
	"github.com/chriscorrea/textvec/pkg/tokenize"
)

// boilerplateStems are English Snowball stems that dominate headers, footers,
// navigation and publishing metadata.
var boilerplateStems = map[string]struct{}{
	// --- Publishing & Document Structure ---
	"author":    {},
	"appendix":  {},
	"book":      {},
	"chapter":   {},
	"content":   {}, // from "table of contents"
	"edit":      {}, // from "edition"
	"ebook":     {},
	"footer":    {},
	"glossari":  {},
	"gutenberg": {}, // from "Project Gutenberg"
	"navig":     {},
	"note":      {},
	"page":      {},
	"project":   {},
	"publish":   {},
	"text":      {}, // from "full text", "plain text"

	// --- Navigation & Interaction ---
	"about":  {},
	"locat":  {}, // from "location"
	"profil": {},
	"share":  {},
	"updat":  {},

	// --- Legal & Footer Text ---
	"copyright": {},
	"manag":     {},
	"permiss":   {},
	"polici":    {},
	"privaci":   {},
	"public":    {},
	"purpos":    {},
	"reproduc":  {},
	"reserv":    {},
	"right":     {},
	"risk":      {},
	"standard":  {},
	"term":      {},
	"use":       {},

	// --- Academic & Technical References ---
	"citat":   {},
	"depart":  {},
	"edu":     {},
	"feder":   {},
	"foundat": {},
	"https":   {}, // from URLs
	"isbn":    {},
	"refer":   {},
}

// wordPattern matches runs of letters.
const wordPattern = `\p{L}+`

// Threshold bounds for the position curve.
const (
	edgeThreshold   = 0.1
	middleThreshold = 0.33
	smallThreshold  = 0.5 // sources of at most three documents
)

// Classifier identifies boilerplate documents. It is safe for concurrent use.
type Classifier struct {
	words   *tokenize.RegexpTokenizer
	stemmer *stem.Cached
}

// NewClassifier returns a classifier backed by a cached English stemmer.
func NewClassifier() (*Classifier, error) {
	words, err := tokenize.NewRegexpTokenizer(wordPattern)
	if err != nil {
		return nil, err
	}
	s, err := stem.NewLanguage(stem.English)
	if err != nil {
		return nil, err
	}
	cached, err := stem.NewCached(s, 0)
	if err != nil {
		return nil, err
	}
	return &Classifier{words: words, stemmer: cached}, nil
}

// IsExtraneous reports whether doc, found at index of total documents, is
// boilerplate. Documents without words are boilerplate; an index outside
// [0, total) never is.
func (c *Classifier) IsExtraneous(doc string, index, total int) bool {
	if total <= 0 || index < 0 || index >= total {
		return false
	}

	var words, hits int
	for w := range c.words.Tokenize(doc) {
		words++
		if _, ok := boilerplateStems[c.stemmer.Stem(tokenize.Lower(w))]; ok {
			hits++
		}
	}
	if words == 0 {
		return true
	}
	return float64(hits)/float64(words) > threshold(index, total)
}

// Filter returns the documents of one source that are not boilerplate, in
// order.
func (c *Classifier) Filter(docs []string) []string {
	kept := make([]string, 0, len(docs))
	for i, doc := range docs {
		if !c.IsExtraneous(doc, i, len(docs)) {
			kept = append(kept, doc)
		}
	}
	if dropped := len(docs) - len(kept); dropped > 0 {
		slog.Debug("Dropped boilerplate documents", "dropped", dropped, "kept", len(kept))
	}
	return kept
}

// threshold follows an inverted V over the relative position: edgeThreshold
// at the first and last document, middleThreshold halfway.
func threshold(index, total int) float64 {
	if total <= 3 {
		return smallThreshold
	}
	pos := float64(index) / float64(total-1)
	factor := 1 - math.Abs(2*pos-1)
	return edgeThreshold + (middleThreshold-edgeThreshold)*factor
}
