// Package chunk splits source text into the documents a corpus is built from.
//
// A source (file, URL or stdin) becomes one or more documents depending on the
// Mode:
//   - None keeps the whole source as a single document
//   - Line makes every non-blank line a document
//   - Paragraph makes every run of non-blank lines a document
//   - Sentence splits after ".", "?" and "!" followed by whitespace
//   - Size packs text into chunks of at most a given number of bytes, breaking
//     at the largest boundary that fits (paragraph, sentence, line, word)
//
// Usage Example:
//
//	docs := chunk.Split(content, chunk.Paragraph, 0)
package chunk

import (
	"log/slog"
	"strings"

	"github.com/chriscorrea/textvec/pkg/errs"
)

// DefaultChunkSize is the chunk size used by Size when none is given.
const DefaultChunkSize = 1000

// Mode selects how a source is divided into documents.
type Mode int

const (
	// None treats the whole source as one document (default)
	None Mode = iota
	// Line makes one document per non-blank line
	Line
	// Paragraph makes one document per blank-line separated block
	Paragraph
	// Sentence makes one document per sentence
	Sentence
	// Size makes size-bounded chunks
	Size
)

var modeNames = [...]string{
	None:      "none",
	Line:      "line",
	Paragraph: "paragraph",
	Sentence:  "sentence",
	Size:      "size",
}

// String returns the string representation of the mode.
func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

// ParseMode returns the Mode named s. The empty string is None.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return None, nil
	}
	for m, name := range modeNames {
		if strings.EqualFold(s, name) {
			return Mode(m), nil
		}
	}
	return None, errs.Configf("chunk.ParseMode", "split=%s is unsupported", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Split divides text into documents. maxSize only applies to Size; a value of
// 0 or less selects DefaultChunkSize. Blank documents are never returned.
func Split(text string, mode Mode, maxSize int) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var docs []string
	switch mode {
	case Line:
		for line := range strings.Lines(text) {
			if doc := strings.TrimSpace(line); doc != "" {
				docs = append(docs, doc)
			}
		}
	case Paragraph:
		docs = paragraphs(text)
	case Sentence:
		for _, p := range paragraphs(text) {
			docs = append(docs, sentences(p)...)
		}
	case Size:
		if maxSize <= 0 {
			maxSize = DefaultChunkSize
		}
		for _, c := range SplitText(text, maxSize) {
			docs = append(docs, strings.TrimSpace(c))
		}
	default:
		docs = []string{strings.TrimSpace(text)}
	}

	slog.Debug("Split source into documents", "mode", mode, "documents", len(docs))
	return docs
}

// paragraphs groups consecutive non-blank lines.
func paragraphs(text string) []string {
	var (
		docs    []string
		current []string
	)
	flush := func() {
		if len(current) > 0 {
			docs = append(docs, strings.Join(current, "\n"))
			current = current[:0]
		}
	}
	for line := range strings.Lines(text) {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return docs
}

// sentences splits after a terminator that is followed by whitespace or the
// end of the text. Terminators stay with their sentence.
func sentences(text string) []string {
	var docs []string
	start := 0
	for i := 0; i < len(text); i++ {
		if !isTerminator(text[i]) {
			continue
		}
		// absorb runs such as "?!" or "..."
		for i+1 < len(text) && isTerminator(text[i+1]) {
			i++
		}
		if i+1 < len(text) && !isSpace(text[i+1]) {
			continue
		}
		if s := strings.TrimSpace(text[start : i+1]); s != "" {
			docs = append(docs, s)
		}
		start = i + 1
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		docs = append(docs, s)
	}
	return docs
}

func isTerminator(b byte) bool {
	return b == '.' || b == '?' || b == '!'
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n'
}
