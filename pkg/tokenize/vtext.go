package tokenize

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"
)

// VTextTokenizer refines UAX#29 segmentation with a few rules that keep
// common compound tokens together:
//
//   - runs of the same punctuation character form one token ("...")
//   - hyphenated words and e-mail addresses are kept whole
//   - "/" and ":" between digits are joined ("1/2", "8:30")
//   - "&" between letters is joined ("B&B")
//
// followed by language specific splits: English contractions ("ca", "n't" and
// "it", "'s") and French elisions ("l'", "image").
type VTextTokenizer struct {
	lang string
}

// NewVTextTokenizer returns a tokenizer for lang. Languages without specific
// rules ("en" and "fr" have them) are recorded as "any".
func NewVTextTokenizer(lang string) *VTextTokenizer {
	switch lang = strings.ToLower(lang); lang {
	case "en", "fr":
	default:
		lang = "any"
	}
	return &VTextTokenizer{lang: lang}
}

// Lang returns the effective language.
func (t *VTextTokenizer) Lang() string {
	return t.lang
}

// Tokenize implements Tokenizer.
func (t *VTextTokenizer) Tokenize(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, tok := range t.merge(text) {
			for _, part := range t.split(tok) {
				if !yield(part) {
					return
				}
			}
		}
	}
}

// merge applies the joining rules over the raw segments.
func (t *VTextTokenizer) merge(text string) []string {
	var segs []string
	for seg := range segments(text) {
		segs = append(segs, seg.text)
	}

	var out []string
	adjacent := false // last segment was appended to out without a space between
	for i := 0; i < len(segs); i++ {
		seg := segs[i]
		if strings.TrimSpace(seg) == "" {
			adjacent = false
			continue
		}
		if adjacent {
			last := out[len(out)-1]
			if repeatsPunct(last, seg) {
				out[len(out)-1] = last + seg
				continue
			}
			if i+1 < len(segs) && joins(last, seg, segs[i+1]) {
				out[len(out)-1] = last + seg + segs[i+1]
				i++
				continue
			}
		}
		out = append(out, seg)
		adjacent = true
	}
	return out
}

// split applies the language specific contraction rules to one token.
func (t *VTextTokenizer) split(tok string) []string {
	switch t.lang {
	case "en":
		for _, suffix := range []string{"n't", "'s", "’s"} {
			if len(tok) > len(suffix) && strings.HasSuffix(tok, suffix) {
				return []string{tok[:len(tok)-len(suffix)], tok[len(tok)-len(suffix):]}
			}
		}
	case "fr":
		if i := strings.IndexAny(tok, "'’"); i > 0 {
			_, width := utf8.DecodeRuneInString(tok[i:])
			if frenchElisions[strings.ToLower(tok[:i])] && i+width < len(tok) {
				return []string{tok[:i+width], tok[i+width:]}
			}
		}
	}
	return []string{tok}
}

var frenchElisions = map[string]bool{
	"l": true, "d": true, "j": true, "m": true, "n": true, "s": true, "t": true, "c": true,
	"qu": true, "jusqu": true, "lorsqu": true, "puisqu": true, "quoiqu": true,
}

// repeatsPunct reports whether seg is a punctuation character that prev
// consists of.
func repeatsPunct(prev, seg string) bool {
	r, size := utf8.DecodeRuneInString(seg)
	if size != len(seg) || !unicode.IsPunct(r) {
		return false
	}
	return strings.Trim(prev, seg) == ""
}

// joins reports whether sep glues prev and next into one token.
func joins(prev, sep, next string) bool {
	before, _ := utf8.DecodeLastRuneInString(prev)
	after, _ := utf8.DecodeRuneInString(next)
	switch sep {
	case "-", "@":
		return isAlnum(before) && isAlnum(after)
	case "&":
		return unicode.IsLetter(before) && unicode.IsLetter(after)
	case "/", ":":
		return unicode.IsDigit(before) && unicode.IsDigit(after)
	}
	return false
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
