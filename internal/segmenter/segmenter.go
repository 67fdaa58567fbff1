// Package segmenter turns a live text selection into dictionary lookup words
// and the on-page character ranges each word occupies.
package segmenter

import (
	"slices"

	"github.com/heartmarshall/instant-jisho/internal/dom"
	"github.com/heartmarshall/instant-jisho/internal/domain"
)

// Segment splits the selection into words. It returns nil when the
// selection is not a single non-collapsed range or holds no target script
// text. Segment only reads the document.
func Segment(tok Tokenizer, sel dom.Selection) []Word {
	anchor, values := words(tok, sel)
	if len(values) == 0 {
		return nil
	}
	return build(anchor, values)
}

// words runs the text half of segmentation: selection checks,
// normalization, tokenization and filtering.
func words(tok Tokenizer, sel dom.Selection) (dom.Range, []string) {
	if !sel.Contiguous() {
		return dom.Range{}, nil
	}
	anchor := sel.RangeAt(0)

	text := domain.NormalizeText(anchor.Text())
	if text == "" {
		return dom.Range{}, nil
	}

	return anchor, filterTokens(tok.Tokenize(text))
}

func build(anchor dom.Range, values []string) []Word {
	ranges := reconstruct(anchor, values)
	out := make([]Word, len(values))
	for i, v := range values {
		out[i] = Word{
			Value:           v,
			CharacterRanges: ranges[i],
			State:           Pending(),
		}
	}
	return out
}

// reconstruct walks the text nodes covered by anchor in document order and
// records a one-character range for every character matching the head of
// the pending word. It stops as soon as every word is matched. Words it
// could not finish keep the ranges found so far; a malformed anchor leaves
// every list empty.
func reconstruct(anchor dom.Range, values []string) [][]dom.Range {
	ranges := make([][]dom.Range, len(values))
	for i := range ranges {
		ranges[i] = []dom.Range{}
	}

	queue := make([][]rune, 0, len(values))
	for _, v := range values {
		queue = append(queue, []rune(v))
	}
	wordIndex := 0
	skipEmpty := func() {
		for wordIndex < len(queue) && len(queue[wordIndex]) == 0 {
			wordIndex++
		}
	}
	skipEmpty()

	for _, span := range anchor.TextSpans() {
		if wordIndex >= len(queue) {
			break
		}
		if span.Start >= span.End {
			continue
		}

		span.Each(func(ch rune, start, end int) bool {
			pending := queue[wordIndex]
			if ch == pending[0] {
				ranges[wordIndex] = append(ranges[wordIndex], dom.NewRange(span.Node, start, span.Node, end))
				queue[wordIndex] = pending[1:]
			}
			skipEmpty()
			return wordIndex < len(queue)
		})
	}

	return ranges
}

// Segmenter keeps the previous Search so that re-selecting the same words
// does not start a new search. It is not safe for concurrent use.
type Segmenter struct {
	tokenizer Tokenizer
	current   *Search
}

// New creates a Segmenter using tok.
func New(tok Tokenizer) *Segmenter {
	return &Segmenter{tokenizer: tok}
}

// Current returns the active search, or nil.
func (s *Segmenter) Current() *Search {
	return s.current
}

// Update segments sel and returns the search that is now active. changed is
// false when the word values equal the previous search's, in which case the
// previous *Search is returned as is. An empty segmentation clears the
// search and returns nil.
func (s *Segmenter) Update(sel dom.Selection) (search *Search, changed bool) {
	anchor, values := words(s.tokenizer, sel)

	if len(values) == 0 {
		changed = s.current != nil
		s.current = nil
		return nil, changed
	}

	if s.current != nil && slices.Equal(s.current.Values(), values) {
		return s.current, false
	}

	s.current = &Search{
		Anchor: anchor,
		Words:  build(anchor, values),
		root:   dom.Root(anchor.StartContainer),
	}
	return s.current, true
}

// Clear drops the active search and returns it.
func (s *Segmenter) Clear() *Search {
	prev := s.current
	s.current = nil
	return prev
}
