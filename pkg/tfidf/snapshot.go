package tfidf

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/chriscorrea/textvec/pkg/errs"
	"github.com/chriscorrea/textvec/pkg/vectorize"
)

// SnapshotVersion is the snapshot format written by this package.
const SnapshotVersion = 1

// KindTFIDF identifies a Vectorizer snapshot.
const KindTFIDF = "tfidf"

// TransformerSnapshot is the portable state of a Transformer. IDF values are
// recomputed from the document frequencies on restore.
type TransformerSnapshot struct {
	Version           int     `json:"version"`
	Options           Options `json:"options"`
	NDocuments        int     `json:"n_documents,omitempty"`
	DocumentFrequency []int   `json:"document_frequency,omitempty"`
}

// Snapshot captures the transformer state.
func (t *Transformer) Snapshot() TransformerSnapshot {
	return TransformerSnapshot{
		Version:           SnapshotVersion,
		Options:           t.opts,
		NDocuments:        t.NDocuments(),
		DocumentFrequency: t.DocumentFrequency(),
	}
}

// RestoreTransformer rebuilds a Transformer from s.
func RestoreTransformer(s TransformerSnapshot) (*Transformer, error) {
	const op = "tfidf.RestoreTransformer"
	if s.Version != SnapshotVersion {
		return nil, errs.Inputf(op, "snapshot version %d is unsupported", s.Version)
	}
	t, err := NewTransformer(s.Options)
	if err != nil {
		return nil, err
	}
	if s.NDocuments == 0 && len(s.DocumentFrequency) == 0 {
		return t, nil
	}
	if s.NDocuments < 1 {
		return nil, errs.Inputf(op, "n_documents=%d with a document frequency table", s.NDocuments)
	}
	for col, df := range s.DocumentFrequency {
		if df < 0 || df > s.NDocuments {
			return nil, errs.Inputf(op, "document frequency %d of column %d is outside [0, %d]", df, col, s.NDocuments)
		}
	}
	t.swap(append([]int(nil), s.DocumentFrequency...), s.NDocuments)
	return t, nil
}

// Snapshot is the portable state of a Vectorizer.
type Snapshot struct {
	Version     int                 `json:"version"`
	Kind        string              `json:"kind"`
	Base        vectorize.Snapshot  `json:"base"`
	Transformer TransformerSnapshot `json:"transformer"`
}

// Snapshot captures the vectorizer state.
func (v *Vectorizer) Snapshot() Snapshot {
	v.mu.RLock()
	b, tf := v.base, v.tf
	v.mu.RUnlock()

	ts := TransformerSnapshot{Version: SnapshotVersion, Options: v.opts}
	if tf != nil {
		ts = tf.Snapshot()
	}
	return Snapshot{
		Version:     SnapshotVersion,
		Kind:        KindTFIDF,
		Base:        b.Snapshot(),
		Transformer: ts,
	}
}

// Restore rebuilds a Vectorizer from s.
func Restore(s Snapshot) (*Vectorizer, error) {
	const op = "tfidf.Restore"
	if s.Version != SnapshotVersion {
		return nil, errs.Inputf(op, "snapshot version %d is unsupported", s.Version)
	}
	if s.Kind != KindTFIDF {
		return nil, errs.Inputf(op, "snapshot kind %q is not %q", s.Kind, KindTFIDF)
	}

	restored, err := vectorize.Restore(s.Base)
	if err != nil {
		return nil, err
	}
	tf, err := RestoreTransformer(s.Transformer)
	if err != nil {
		return nil, err
	}

	// columns the transformer must have been fitted on
	var columns int
	switch b := restored.(type) {
	case *vectorize.CountVectorizer:
		if b.Fitted() != tf.Fitted() {
			return nil, errs.Inputf(op, "count vectorizer and transformer disagree on being fitted")
		}
		columns = len(s.Base.Vocabulary)
	case *vectorize.HashingVectorizer:
		columns = b.NFeatures()
	default:
		return nil, errs.Inputf(op, "base snapshot kind %q is unsupported", s.Base.Kind)
	}
	if tf.Fitted() && columns != len(s.Transformer.DocumentFrequency) {
		return nil, errs.Inputf(op, "base vectorizer has %d columns, document frequency table has %d",
			columns, len(s.Transformer.DocumentFrequency))
	}

	v := &Vectorizer{kind: s.Base.Kind, baseOpts: s.Base.Options, opts: s.Transformer.Options, base: restored.(base)}
	if tf.Fitted() {
		v.tf = tf
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
		return Snapshot{}, errs.Inputf("tfidf.DecodeSnapshot", "failed to decode snapshot: %v", err)
	}
	return s, nil
}
