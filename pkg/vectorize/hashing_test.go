package vectorize

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/chriscorrea/textvec/pkg/errs"
)

func newHashing(t *testing.T, mutate func(*Options)) *HashingVectorizer {
	t.Helper()
	opts := DefaultOptions()
	if mutate != nil {
		mutate(&opts)
	}
	v, err := NewHashingVectorizer(opts)
	if err != nil {
		t.Fatalf("NewHashingVectorizer() error = %v", err)
	}
	return v
}

func TestHashingVectorizerBasic(t *testing.T) {
	corpus := []string{"some sentence", "a different sentence"}
	v := newHashing(t, nil)

	got, err := v.FitTransform(corpus)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}
	if got.NNZ() != 4 {
		t.Errorf("NNZ() = %d, want 4", got.NNZ())
	}
	if got.Cols() != DefaultNFeatures {
		t.Errorf("Cols() = %d, want %d", got.Cols(), DefaultNFeatures)
	}

	if err := v.Fit(corpus); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	again, err := v.Transform(corpus)
	if err != nil {
		t.Fatal(err)
	}
	if !again.Equal(got) {
		t.Errorf("Fit+Transform differs from FitTransform")
	}

	col, sign := v.Bucket("sentence")
	if got.At(0, col) != sign || got.At(1, col) != sign {
		t.Errorf("shared term %q should contribute %v to column %d in both rows", "sentence", sign, col)
	}
}

func TestHashingVectorizerBuckets(t *testing.T) {
	v := newHashing(t, func(o *Options) { o.NFeatures = 16 })
	for i := 0; i < 100; i++ {
		col, sign := v.Bucket(fmt.Sprint("term", i))
		if col < 0 || col >= 16 {
			t.Errorf("Bucket() column %d out of range", col)
		}
		if sign != 1 && sign != -1 {
			t.Errorf("Bucket() sign = %v, want ±1", sign)
		}
	}
}

func TestHashingVectorizerSignsCancel(t *testing.T) {
	v := newHashing(t, func(o *Options) { o.NFeatures = 1 })

	// find one term of each sign; with a single column they collide
	terms := map[float64]string{}
	for i := 0; len(terms) < 2 && i < 1000; i++ {
		term := fmt.Sprint("tok", i)
		_, sign := v.Bucket(term)
		if _, ok := terms[sign]; !ok {
			terms[sign] = term
		}
	}
	if len(terms) < 2 {
		t.Fatal("no terms with opposite signs found")
	}

	m, err := v.Transform([]string{terms[1] + " " + terms[-1], terms[1] + " " + terms[1]})
	if err != nil {
		t.Fatal(err)
	}
	if cols, _ := m.Row(0); len(cols) != 0 {
		t.Errorf("cancelled bucket stored: %v", cols)
	}
	if m.At(1, 0) != 2 {
		t.Errorf("At(1, 0) = %g, want 2", m.At(1, 0))
	}

	b := newHashing(t, func(o *Options) { o.NFeatures = 1; o.Binary = true })
	bm, _ := b.Transform([]string{terms[-1]})
	if bm.At(0, 0) != 1 {
		t.Errorf("binary value = %g, want 1", bm.At(0, 0))
	}
}

func TestHashingVectorizerInvalidNFeatures(t *testing.T) {
	for _, n := range []int{0, -1} {
		_, err := NewHashingVectorizer(Options{Tokenizer: DefaultOptions().Tokenizer, NFeatures: n})
		if !errors.Is(err, errs.ErrConfiguration) {
			t.Errorf("NewHashingVectorizer(n_features=%d) error = %v, want configuration error", n, err)
		}
	}
}

func TestHashingVectorizerSnapshotRoundTrip(t *testing.T) {
	corpus := []string{"some sentence", "a different sentence", "Running, jumping!"}
	v := newHashing(t, func(o *Options) {
		o.NFeatures = 1024
		o.Tokenizer.NGramRange = [2]int{1, 2}
		o.Stem = "english"
	})
	want, _ := v.Transform(corpus)

	var buf bytes.Buffer
	if err := v.Snapshot().Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	snap, err := DecodeSnapshot(&buf)
	if err != nil {
		t.Fatalf("DecodeSnapshot() error = %v", err)
	}
	restored, err := Restore(snap)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if _, ok := restored.(*HashingVectorizer); !ok {
		t.Fatalf("Restore() returned %T, want *HashingVectorizer", restored)
	}

	got, err := restored.Transform(corpus)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(want) {
		t.Errorf("restored output differs:\n%s\nwant\n%s", got, want)
	}
}

func BenchmarkHashingVectorizerTransform(b *testing.B) {
	corpus := corpusOf(1000)
	v, err := NewHashingVectorizer(DefaultOptions())
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := v.Transform(corpus); err != nil {
			b.Fatal(err)
		}
	}
}
