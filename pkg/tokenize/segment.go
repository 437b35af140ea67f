package tokenize

import (
	"iter"
	"strings"

	"github.com/blevesearch/segment"
)

// SegmentTokenizer splits text on Unicode (UAX#29) word boundaries.
type SegmentTokenizer struct {
	// WordBounds keeps punctuation segments. Whitespace is always dropped.
	WordBounds bool
}

// NewSegmentTokenizer returns a UAX#29 tokenizer.
func NewSegmentTokenizer(wordBounds bool) *SegmentTokenizer {
	return &SegmentTokenizer{WordBounds: wordBounds}
}

// Tokenize implements Tokenizer.
func (t *SegmentTokenizer) Tokenize(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for seg := range segments(text) {
			if seg.space() {
				continue
			}
			if !t.WordBounds && seg.typ == segment.None {
				continue
			}
			if !yield(seg.text) {
				return
			}
		}
	}
}

type wordSegment struct {
	text string
	typ  int
}

func (s wordSegment) space() bool {
	return strings.TrimSpace(s.text) == ""
}

// segments yields every UAX#29 segment of text, whitespace included.
func segments(text string) iter.Seq[wordSegment] {
	return func(yield func(wordSegment) bool) {
		seg := segment.NewWordSegmenterDirect([]byte(clean(text)))
		for seg.Segment() {
			if !yield(wordSegment{text: seg.Text(), typ: seg.Type()}) {
				return
			}
		}
		// the segmenter only fails on input it cannot parse, which clean rules out
	}
}
