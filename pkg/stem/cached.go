package stem

import (
	"iter"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/chriscorrea/textvec/pkg/tokenize"
)

// DefaultCacheSize is the number of stems a Cached stemmer keeps.
const DefaultCacheSize = 8192

// Cached memoizes a Stemmer in an LRU cache. It is safe for concurrent use.
type Cached struct {
	stemmer *Stemmer
	cache   *lru.Cache[string, string]
}

// NewCached wraps s with an LRU cache of size entries (DefaultCacheSize when
// size <= 0).
func NewCached(s *Stemmer, size int) (*Cached, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	slog.Debug("Stem cache created", "lang", s.lang.String(), "size", size)
	return &Cached{stemmer: s, cache: cache}, nil
}

// Stemmer returns the wrapped stemmer.
func (c *Cached) Stemmer() *Stemmer {
	return c.stemmer
}

// Stem returns the stem of word, consulting the cache first.
func (c *Cached) Stem(word string) string {
	if stemmed, ok := c.cache.Get(word); ok {
		return stemmed
	}
	stemmed := c.stemmer.Stem(word)
	c.cache.Add(word, stemmed)
	return stemmed
}

// Len returns the number of cached stems.
func (c *Cached) Len() int {
	return c.cache.Len()
}

// Transform implements tokenize.Filter.
func (c *Cached) Transform(tokens iter.Seq[string]) iter.Seq[string] {
	return tokenize.FilterFunc(c.Stem).Transform(tokens)
}
