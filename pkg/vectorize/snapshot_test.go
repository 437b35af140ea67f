package vectorize

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/chriscorrea/textvec/pkg/errs"
)

func TestCountSnapshotRoundTrip(t *testing.T) {
	corpus := []string{"the cat sat", "the dog sat down"}
	v := newCount(t, func(o *Options) { o.Tokenizer.NGramRange = [2]int{1, 2} })
	want, err := v.FitTransform(corpus)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := v.Snapshot().Encode(&buf); err != nil {
		t.Fatal(err)
	}
	snap, err := DecodeSnapshot(&buf)
	if err != nil {
		t.Fatal(err)
	}
	restored, err := RestoreCount(snap)
	if err != nil {
		t.Fatalf("RestoreCount() error = %v", err)
	}

	got, err := restored.Transform(corpus)
	if err != nil {
		t.Fatalf("Transform() after restore error = %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("restored output differs:\n%s\nwant\n%s", got, want)
	}
}

func TestUnfittedCountSnapshot(t *testing.T) {
	v := newCount(t, nil)
	restored, err := Restore(v.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := restored.Transform([]string{"x"}); !errors.Is(err, errs.ErrNotFitted) {
		t.Errorf("Transform() on restored unfitted vectorizer error = %v, want not fitted", err)
	}
}

func TestRestoreRejectsBadSnapshots(t *testing.T) {
	good := Snapshot{Version: SnapshotVersion, Kind: KindCount, Options: DefaultOptions(), Vocabulary: []string{"a", "b"}}

	tests := []struct {
		name   string
		mutate func(*Snapshot)
		want   error
	}{
		{"future version", func(s *Snapshot) { s.Version = 2 }, errs.ErrInput},
		{"unknown kind", func(s *Snapshot) { s.Kind = "tfidf" }, errs.ErrInput},
		{"unsorted vocabulary", func(s *Snapshot) { s.Vocabulary = []string{"b", "a"} }, errs.ErrInput},
		{"duplicate terms", func(s *Snapshot) { s.Vocabulary = []string{"a", "a"} }, errs.ErrInput},
		{"hashing with vocabulary", func(s *Snapshot) { s.Kind = KindHashing }, errs.ErrInput},
		{"invalid options", func(s *Snapshot) { s.Options.Stem = "klingon" }, errs.ErrConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := good
			s.Vocabulary = append([]string(nil), good.Vocabulary...)
			tt.mutate(&s)
			if _, err := Restore(s); !errors.Is(err, tt.want) {
				t.Errorf("Restore() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := DecodeSnapshot(strings.NewReader("{not json")); !errors.Is(err, errs.ErrInput) {
		t.Errorf("DecodeSnapshot() error = %v, want input error", err)
	}
}
