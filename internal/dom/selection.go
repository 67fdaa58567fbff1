package dom

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// SelectionType mirrors Selection.type in browsers.
type SelectionType string

const (
	SelectionNone  SelectionType = "None"
	SelectionCaret SelectionType = "Caret"
	SelectionRange SelectionType = "Range"
)

// ErrOffsetOutOfRange is returned by SelectText for offsets outside the
// document's text content.
var ErrOffsetOutOfRange = errors.New("dom: offset out of range")

// Selection is a user selection: zero or more ranges.
type Selection struct {
	ranges []Range
}

// NewSelection builds a selection from ranges.
func NewSelection(ranges ...Range) Selection {
	return Selection{ranges: ranges}
}

// RangeCount returns the number of ranges.
func (s Selection) RangeCount() int {
	return len(s.ranges)
}

// RangeAt returns the i-th range.
func (s Selection) RangeAt(i int) Range {
	return s.ranges[i]
}

// Type reports None for an empty selection, Caret for a single collapsed
// range and Range otherwise.
func (s Selection) Type() SelectionType {
	switch {
	case len(s.ranges) == 0:
		return SelectionNone
	case len(s.ranges) == 1 && s.ranges[0].Collapsed():
		return SelectionCaret
	default:
		return SelectionRange
	}
}

// Contiguous reports whether the selection is a single, valid, non-collapsed
// range.
func (s Selection) Contiguous() bool {
	return len(s.ranges) == 1 && !s.ranges[0].Collapsed() && s.ranges[0].Valid()
}

// String concatenates the text of every range.
func (s Selection) String() string {
	var b strings.Builder
	for _, r := range s.ranges {
		b.WriteString(r.Text())
	}
	return b.String()
}

// SelectText selects the characters [start, end) of root's text content,
// counted in runes. start == end yields a caret.
func SelectText(root *html.Node, start, end int) (Selection, error) {
	if start < 0 || end < start {
		return Selection{}, fmt.Errorf("%w: [%d, %d)", ErrOffsetOutOfRange, start, end)
	}

	startNode, startOff, ok := locate(root, start, false)
	if !ok {
		return Selection{}, fmt.Errorf("%w: start %d", ErrOffsetOutOfRange, start)
	}
	if start == end {
		return NewSelection(NewRange(startNode, startOff, startNode, startOff)), nil
	}

	endNode, endOff, ok := locate(root, end, true)
	if !ok {
		return Selection{}, fmt.Errorf("%w: end %d", ErrOffsetOutOfRange, end)
	}

	return NewSelection(NewRange(startNode, startOff, endNode, endOff)), nil
}

// locate maps a rune offset into root's text content onto a text node and a
// UTF-16 offset. When trailing is set, an offset falling on a node boundary
// resolves to the end of the preceding node rather than the start of the
// next one.
func locate(root *html.Node, offset int, trailing bool) (*html.Node, int, bool) {
	seen := 0
	var last *html.Node
	for _, n := range TextNodes(root) {
		runes := []rune(n.Data)
		if len(runes) == 0 {
			continue
		}
		last = n
		if offset < seen+len(runes) || (trailing && offset == seen+len(runes)) {
			return n, utf16Len(string(runes[:offset-seen])), true
		}
		seen += len(runes)
	}
	if last != nil && offset == seen {
		return last, Length(last), true
	}
	return nil, 0, false
}

// Each calls fn for every character of the span with its UTF-16 bounds.
// Iteration stops when fn returns false.
func (s TextSpan) Each(fn func(ch rune, start, end int) bool) {
	u := units(s.Node.Data)
	if s.End > len(u) {
		return
	}
	for i := s.Start; i < s.End; {
		ch, width := runeAt(u, i)
		if !fn(ch, i, i+width) {
			return
		}
		i += width
	}
}
