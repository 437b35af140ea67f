package vectorize

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/chriscorrea/textvec/pkg/errs"
)

// SnapshotVersion is the snapshot format written by this package.
const SnapshotVersion = 1

// Snapshot kinds.
const (
	KindCount   = "count"
	KindHashing = "hashing"
)

// Snapshot is the flat, portable state of a vectorizer: its options and, for
// a fitted CountVectorizer, the vocabulary in column order.
type Snapshot struct {
	Version    int      `json:"version"`
	Kind       string   `json:"kind"`
	Options    Options  `json:"options"`
	Vocabulary []string `json:"vocabulary,omitempty"`
}

// Snapshot captures the vectorizer state.
func (v *CountVectorizer) Snapshot() Snapshot {
	return Snapshot{
		Version:    SnapshotVersion,
		Kind:       KindCount,
		Options:    v.opts,
		Vocabulary: v.FeatureNames(),
	}
}

// Snapshot captures the vectorizer configuration.
func (v *HashingVectorizer) Snapshot() Snapshot {
	return Snapshot{Version: SnapshotVersion, Kind: KindHashing, Options: v.opts}
}

// Restore rebuilds the vectorizer described by s.
func Restore(s Snapshot) (Vectorizer, error) {
	const op = "vectorize.Restore"
	if s.Version != SnapshotVersion {
		return nil, errs.Inputf(op, "snapshot version %d is unsupported", s.Version)
	}

	switch s.Kind {
	case KindHashing:
		if len(s.Vocabulary) > 0 {
			return nil, errs.Inputf(op, "hashing snapshot carries a vocabulary")
		}
		return NewHashingVectorizer(s.Options)
	case KindCount:
		return RestoreCount(s)
	default:
		return nil, errs.Inputf(op, "snapshot kind %q is unsupported", s.Kind)
	}
}

// RestoreCount rebuilds a CountVectorizer from s.
func RestoreCount(s Snapshot) (*CountVectorizer, error) {
	const op = "vectorize.RestoreCount"
	if s.Version != SnapshotVersion {
		return nil, errs.Inputf(op, "snapshot version %d is unsupported", s.Version)
	}
	if s.Kind != KindCount {
		return nil, errs.Inputf(op, "snapshot kind %q is not %q", s.Kind, KindCount)
	}
	for i := 1; i < len(s.Vocabulary); i++ {
		if s.Vocabulary[i-1] >= s.Vocabulary[i] {
			return nil, errs.Inputf(op, "vocabulary is not strictly sorted at index %d", i)
		}
	}

	v, err := NewCountVectorizer(s.Options)
	if err != nil {
		return nil, err
	}
	if len(s.Vocabulary) > 0 {
		terms := append([]string(nil), s.Vocabulary...)
		v.vocab, v.terms = indexTerms(terms), terms
	}
	return v, nil
}

// Encode writes s as JSON.
func (s Snapshot) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// DecodeSnapshot reads a JSON snapshot.
func DecodeSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, errs.Inputf("vectorize.DecodeSnapshot", "failed to decode snapshot: %v", err)
	}
	return s, nil
}
