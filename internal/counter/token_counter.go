package counter

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the BPE encoding used by NewCounter(Tokens).
const DefaultEncoding = "cl100k_base"

// TokenCounter counts BPE tokens with a tiktoken encoding.
type TokenCounter struct {
	name     string
	encoding *tiktoken.Tiktoken
	mu       sync.RWMutex // protects encoding access for thread safety
}

// NewTokenCounter loads the named tiktoken encoding.
func NewTokenCounter(encoding string) (*TokenCounter, error) {
	slog.Debug("Initializing TokenCounter", "encoding", encoding)

	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s encoding: %w", encoding, err)
	}
	return &TokenCounter{name: encoding, encoding: enc}, nil
}

// Count returns the number of tokens in text. It is safe for concurrent use.
func (tc *TokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}

	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return len(tc.encoding.Encode(text, nil, nil))
}

// Name returns the method name with its encoding, e.g. "tokens (cl100k_base)".
func (tc *TokenCounter) Name() string {
	return fmt.Sprintf("tokens (%s)", tc.name)
}
