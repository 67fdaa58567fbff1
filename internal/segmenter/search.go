package segmenter

import (
	"golang.org/x/net/html"

	"github.com/heartmarshall/instant-jisho/internal/dom"
	"github.com/heartmarshall/instant-jisho/internal/domain"
)

// LookupState is Pending until the coordinator delivers a result.
type LookupState struct {
	resolved bool
	result   domain.Result
}

// Pending returns the initial state of a freshly segmented word.
func Pending() LookupState { return LookupState{} }

// Resolved returns the state of a word whose lookup completed.
func Resolved(r domain.Result) LookupState { return LookupState{resolved: true, result: r} }

// IsPending reports whether no result was delivered yet.
func (s LookupState) IsPending() bool { return !s.resolved }

// Result returns the delivered result; ok is false while pending.
func (s LookupState) Result() (r domain.Result, ok bool) { return s.result, s.resolved }

// Word is one segmented token and the on-page characters it occupies.
type Word struct {
	Value string
	// CharacterRanges holds one single-character range per rune of Value,
	// in order. It is shorter than Value when reconstruction could not
	// match every character.
	CharacterRanges []dom.Range
	State           LookupState
}

// Search is one selection episode. It is replaced wholesale whenever the
// selection changes.
type Search struct {
	// Anchor is the live selection range the words were read from.
	Anchor dom.Range
	Words  []Word

	root *html.Node
}

// Values returns the word values in reading order.
func (s *Search) Values() []string {
	values := make([]string, len(s.Words))
	for i, w := range s.Words {
		values[i] = w.Value
	}
	return values
}

// Resolve sets the state of every word whose value is word and returns the
// indices it touched. The same word may appear several times.
func (s *Search) Resolve(word string, r domain.Result) []int {
	var touched []int
	for i := range s.Words {
		if s.Words[i].Value == word {
			s.Words[i].State = Resolved(r)
			touched = append(touched, i)
		}
	}
	return touched
}

// Pending reports whether any word still waits for a result.
func (s *Search) Pending() bool {
	for _, w := range s.Words {
		if w.State.IsPending() {
			return true
		}
	}
	return false
}

// CharacterRanges returns the live ranges of the i-th word. Stored ranges
// are used while they still cover the characters they were recorded for;
// otherwise they are recomputed from the anchor. An anchor detached from
// its document yields nil. The presentation layer calls it to place
// highlights for the navigated word.
func (s *Search) CharacterRanges(i int) []dom.Range {
	if i < 0 || i >= len(s.Words) {
		return nil
	}
	if !s.Anchor.AttachedTo(s.root) {
		return nil
	}

	if rangesIntact(s.Words[i], s.root) {
		return s.Words[i].CharacterRanges
	}

	return reconstruct(s.Anchor, s.Values())[i]
}

func rangesIntact(w Word, root *html.Node) bool {
	runes := []rune(w.Value)
	if len(w.CharacterRanges) != len(runes) {
		return false
	}
	for i, r := range w.CharacterRanges {
		if !r.AttachedTo(root) {
			return false
		}
		if ch, ok := r.Rune(); !ok || ch != runes[i] {
			return false
		}
	}
	return true
}
