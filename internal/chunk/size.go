package chunk

import (
	"log/slog"
	"strings"
)

// boundary is one way of breaking up oversized text. suffix is written back
// onto every part but the last, so "a. b" split at ". " gives "a." and "b".
type boundary struct {
	name      string
	delimiter string
	suffix    string
}

// boundaries run from the largest unit to the smallest.
var boundaries = []boundary{
	{name: "paragraph", delimiter: "\n\n", suffix: "\n\n"},
	{name: "sentence", delimiter: ". ", suffix: "."},
	{name: "sentence-question", delimiter: "? ", suffix: "?"},
	{name: "sentence-exclamation", delimiter: "! ", suffix: "!"},
	{name: "line", delimiter: "\n", suffix: "\n"},
	{name: "word", delimiter: " "},
}

// SplitText breaks text into chunks of at most maxChunkSize bytes. Every pass
// re-splits the chunks that are still too large at the next smaller boundary;
// a single word longer than maxChunkSize is kept whole.
func SplitText(text string, maxChunkSize int) []string {
	if maxChunkSize <= 0 {
		slog.Debug("Invalid maxChunkSize", "maxChunkSize", maxChunkSize)
		return nil
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	text = trimSpacesOnly(text)
	if len(text) <= maxChunkSize {
		return []string{text}
	}

	var done []string
	pending := []string{text}
	for _, b := range boundaries {
		if len(pending) == 0 {
			break
		}

		var next []string
		for _, chunk := range pending {
			if len(chunk) <= maxChunkSize {
				done = append(done, chunk)
				continue
			}
			for _, part := range b.split(chunk, maxChunkSize) {
				if part = trimSpacesOnly(part); part != "" {
					next = append(next, part)
				}
			}
		}
		pending = next
	}
	done = append(done, pending...)

	slog.Debug("SplitText completed", "chunks", len(done), "maxChunkSize", maxChunkSize)
	return done
}

// split cuts text at the boundary and packs the parts back together up to
// maxChunkSize.
func (b boundary) split(text string, maxChunkSize int) []string {
	if !strings.Contains(text, b.delimiter) {
		return []string{text}
	}

	parts := strings.Split(text, b.delimiter)
	segments := make([]string, 0, len(parts))
	for i, part := range parts {
		part = trimSpacesOnly(part)
		if part == "" {
			continue
		}
		if i < len(parts)-1 {
			part += b.suffix
		}
		segments = append(segments, part)
	}

	if b.name == "word" {
		return packWords(segments, maxChunkSize)
	}
	return mergeShortSegments(segments, maxChunkSize, minimumChunkSize(maxChunkSize))
}

// minimumChunkSize is a quarter of maxChunkSize, and at least 3.
func minimumChunkSize(maxChunkSize int) int {
	return max(maxChunkSize/4, 3)
}

// packWords joins words with single spaces into chunks of at most
// maxChunkSize.
func packWords(words []string, maxChunkSize int) []string {
	var (
		out     []string
		current strings.Builder
	)
	for _, w := range words {
		if current.Len() > 0 && current.Len()+1+len(w) > maxChunkSize {
			out = append(out, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(w)
	}
	if current.Len() > 0 {
		out = append(out, current.String())
	}
	return out
}

// mergeShortSegments folds segments shorter than minChunkSize into a
// neighbour, preferring the next one, as long as the result still fits.
func mergeShortSegments(segments []string, maxChunkSize, minChunkSize int) []string {
	if len(segments) <= 1 {
		return segments
	}

	var out []string
	for i := 0; i < len(segments); i++ {
		seg := segments[i]
		if len(seg) >= minChunkSize {
			out = append(out, seg)
			continue
		}
		if i+1 < len(segments) {
			if merged := seg + " " + segments[i+1]; len(merged) <= maxChunkSize {
				segments[i+1] = merged
				continue
			}
		}
		if n := len(out); n > 0 {
			if merged := out[n-1] + " " + seg; len(merged) <= maxChunkSize {
				out[n-1] = merged
				continue
			}
		}
		out = append(out, seg)
	}
	return out
}

// trimSpacesOnly trims spaces and tabs but keeps line breaks.
func trimSpacesOnly(s string) string {
	return strings.Trim(s, " \t")
}
