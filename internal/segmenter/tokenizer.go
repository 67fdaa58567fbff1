package segmenter

import (
	"fmt"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
	"github.com/rivo/uniseg"
)

// Tokenizer splits text on word boundaries. Japanese has no inter-word
// spacing, so implementations must be language aware.
type Tokenizer interface {
	Tokenize(text string) []string
}

// TokenizerFunc adapts a function to the Tokenizer interface.
type TokenizerFunc func(text string) []string

func (f TokenizerFunc) Tokenize(text string) []string { return f(text) }

// KagomeTokenizer segments text with the kagome morphological analyzer and
// the IPA dictionary.
type KagomeTokenizer struct {
	t *tokenizer.Tokenizer
}

// NewKagomeTokenizer loads the IPA dictionary. Loading takes a noticeable
// moment; share one instance per process.
func NewKagomeTokenizer() (*KagomeTokenizer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("segmenter: load kagome dictionary: %w", err)
	}
	return &KagomeTokenizer{t: t}, nil
}

// Tokenize returns the surface forms of the analyzed tokens.
func (k *KagomeTokenizer) Tokenize(text string) []string {
	return k.t.Wakati(text)
}

// UnicodeTokenizer splits on Unicode (UAX #29) word boundaries. It needs no
// dictionary but splits kanji compounds into single characters.
type UnicodeTokenizer struct{}

// Tokenize returns the words between boundaries, including separators.
func (UnicodeTokenizer) Tokenize(text string) []string {
	var (
		tokens []string
		word   string
		state  = -1
	)
	for len(text) > 0 {
		word, text, state = uniseg.FirstWordInString(text, state)
		tokens = append(tokens, word)
	}
	return tokens
}

// NewTokenizer returns the tokenizer registered under name: "kagome" (the
// default) or "unicode".
func NewTokenizer(name string) (Tokenizer, error) {
	switch name {
	case "", "kagome":
		return NewKagomeTokenizer()
	case "unicode":
		return UnicodeTokenizer{}, nil
	default:
		return nil, fmt.Errorf("segmenter: unknown tokenizer %q", name)
	}
}
