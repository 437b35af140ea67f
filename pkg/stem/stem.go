// Package stem reduces words to their Snowball stems.
//
// The set of languages is closed: a Stemmer is created for one Language and
// construction fails for anything else, so an unsupported language can never
// surface on the first Stem call. The rule tables are generated Snowball code
// compiled into the binary and shared read-only between all stemmers.
//
// Usage Example:
//
//	s, err := stem.New("french")
//	s.Stem("continuité") // "continu"
package stem

import (
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/blevesearch/snowballstem"
	"github.com/blevesearch/snowballstem/arabic"
	"github.com/blevesearch/snowballstem/danish"
	"github.com/blevesearch/snowballstem/dutch"
	"github.com/blevesearch/snowballstem/finnish"
	"github.com/blevesearch/snowballstem/german"
	"github.com/blevesearch/snowballstem/hungarian"
	"github.com/blevesearch/snowballstem/irish"
	"github.com/blevesearch/snowballstem/italian"
	"github.com/blevesearch/snowballstem/norwegian"
	"github.com/blevesearch/snowballstem/porter"
	"github.com/blevesearch/snowballstem/portuguese"
	"github.com/blevesearch/snowballstem/romanian"
	"github.com/blevesearch/snowballstem/tamil"
	"github.com/blevesearch/snowballstem/turkish"
	"github.com/kljensen/snowball"

	"github.com/chriscorrea/textvec/pkg/errs"
	"github.com/chriscorrea/textvec/pkg/tokenize"
)

// DefaultLanguage is used when no language is given.
const DefaultLanguage = "english"

// Language is a supported stemming language.
type Language int

const (
	English Language = iota
	Arabic
	Danish
	Dutch
	Finnish
	French
	German
	Hungarian
	Irish
	Italian
	Norwegian
	Porter // original Porter algorithm for English
	Portuguese
	Romanian
	Russian
	Spanish
	Swedish
	Tamil
	Turkish
)

type languageEntry struct {
	name string
	iso  string
	stem func(string) string
}

var languages = [...]languageEntry{
	English:    {"english", "en", kljensen("english")},
	Arabic:     {"arabic", "ar", env(arabic.Stem)},
	Danish:     {"danish", "da", env(danish.Stem)},
	Dutch:      {"dutch", "nl", env(dutch.Stem)},
	Finnish:    {"finnish", "fi", env(finnish.Stem)},
	French:     {"french", "fr", kljensen("french")},
	German:     {"german", "de", env(german.Stem)},
	Hungarian:  {"hungarian", "hu", env(hungarian.Stem)},
	Irish:      {"irish", "ga", env(irish.Stem)},
	Italian:    {"italian", "it", env(italian.Stem)},
	Norwegian:  {"norwegian", "no", env(norwegian.Stem)},
	Porter:     {"porter", "", env(porter.Stem)},
	Portuguese: {"portuguese", "pt", env(portuguese.Stem)},
	Romanian:   {"romanian", "ro", env(romanian.Stem)},
	Russian:    {"russian", "ru", kljensen("russian")},
	Spanish:    {"spanish", "es", kljensen("spanish")},
	Swedish:    {"swedish", "sv", kljensen("swedish")},
	Tamil:      {"tamil", "ta", env(tamil.Stem)},
	Turkish:    {"turkish", "tr", env(turkish.Stem)},
}

// kljensen adapts the kljensen/snowball implementation of lang. Stop words are
// stemmed like any other word.
func kljensen(lang string) func(string) string {
	return func(word string) string {
		stemmed, err := snowball.Stem(word, lang, true)
		if err != nil {
			return word
		}
		return stemmed
	}
}

// env adapts a generated snowballstem program.
func env(program func(*snowballstem.Env) bool) func(string) string {
	return func(word string) string {
		e := snowballstem.NewEnv(word)
		program(e)
		return e.Current()
	}
}

// String returns the language name.
func (l Language) String() string {
	if !l.valid() {
		return "unknown"
	}
	return languages[l].name
}

func (l Language) valid() bool {
	return l >= 0 && int(l) < len(languages)
}

// ParseLanguage resolves a language name or ISO 639-1 code. The empty string
// selects DefaultLanguage.
func ParseLanguage(name string) (Language, error) {
	if name == "" {
		name = DefaultLanguage
	}
	key := strings.ToLower(strings.TrimSpace(name))
	for i, entry := range languages {
		if key == entry.name || (entry.iso != "" && key == entry.iso) {
			return Language(i), nil
		}
	}
	return 0, errs.Configf("stem.New", "lang=%s is unsupported", name)
}

// Languages returns the names of all supported languages.
func Languages() []string {
	names := make([]string, len(languages))
	for i, entry := range languages {
		names[i] = entry.name
	}
	return names
}

// Params is the serializable description of a Stemmer.
type Params struct {
	Lang string `json:"lang" yaml:"lang"`
}

// Stemmer stems words of one language. It holds no mutable state and is safe
// for concurrent use.
type Stemmer struct {
	lang Language
}

// New returns a stemmer for the named language ("" means english).
func New(lang string) (*Stemmer, error) {
	l, err := ParseLanguage(lang)
	if err != nil {
		return nil, err
	}
	return &Stemmer{lang: l}, nil
}

// NewLanguage returns a stemmer for l.
func NewLanguage(l Language) (*Stemmer, error) {
	if !l.valid() {
		return nil, errs.Configf("stem.NewLanguage", "lang=%d is unsupported", int(l))
	}
	return &Stemmer{lang: l}, nil
}

// Language returns the stemmer's language.
func (s *Stemmer) Language() Language {
	return s.lang
}

// Params returns the construction parameters.
func (s *Stemmer) Params() Params {
	return Params{Lang: s.lang.String()}
}

// Stem returns the stem of word. Rules match against the lower-case form, but
// the case of word is kept: a word no rule applies to comes back unchanged, and
// a stripped suffix leaves the original leading characters.
func (s *Stemmer) Stem(word string) string {
	if word == "" {
		return ""
	}
	lower := tokenize.Lower(word)
	stemmed := languages[s.lang].stem(lower)
	if stemmed == lower {
		return word
	}
	return restoreCase(word, lower, stemmed)
}

// restoreCase maps a stem of lower back onto the characters of word. It only
// applies when stemmed is a prefix of lower and lowering kept every rune in
// place; otherwise the lower-case stem is returned.
func restoreCase(word, lower, stemmed string) string {
	if word == lower || !strings.HasPrefix(lower, stemmed) {
		return stemmed
	}
	original, folded := []rune(word), []rune(lower)
	if len(original) != len(folded) {
		return stemmed
	}
	return string(original[:utf8.RuneCountInString(stemmed)])
}

// Transform implements tokenize.Filter.
func (s *Stemmer) Transform(tokens iter.Seq[string]) iter.Seq[string] {
	return tokenize.FilterFunc(s.Stem).Transform(tokens)
}
