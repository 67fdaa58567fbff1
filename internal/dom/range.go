package dom

import (
	"strings"
	"unicode/utf16"

	"golang.org/x/net/html"
)

// Range is a pair of DOM boundary points.
type Range struct {
	StartContainer *html.Node
	StartOffset    int
	EndContainer   *html.Node
	EndOffset      int
}

// NewRange returns a range spanning [start, end).
func NewRange(startNode *html.Node, startOffset int, endNode *html.Node, endOffset int) Range {
	return Range{
		StartContainer: startNode,
		StartOffset:    startOffset,
		EndContainer:   endNode,
		EndOffset:      endOffset,
	}
}

// Collapsed reports whether start and end are the same boundary point.
func (r Range) Collapsed() bool {
	return r.StartContainer == r.EndContainer && r.StartOffset == r.EndOffset
}

// Valid reports whether the range still describes a well-formed span:
// both containers share a root, offsets are in bounds and start does not
// follow end.
func (r Range) Valid() bool {
	if r.StartContainer == nil || r.EndContainer == nil {
		return false
	}
	if Root(r.StartContainer) != Root(r.EndContainer) {
		return false
	}
	if r.StartOffset < 0 || r.StartOffset > Length(r.StartContainer) {
		return false
	}
	if r.EndOffset < 0 || r.EndOffset > Length(r.EndContainer) {
		return false
	}
	return comparePoints(r.StartContainer, r.StartOffset, r.EndContainer, r.EndOffset) <= 0
}

// AttachedTo reports whether the range is valid and both containers still
// live under root.
func (r Range) AttachedTo(root *html.Node) bool {
	return r.Valid() && Contains(root, r.StartContainer) && Contains(root, r.EndContainer)
}

// CommonAncestor returns the deepest node containing both containers.
func (r Range) CommonAncestor() *html.Node {
	for n := r.StartContainer; n != nil; n = n.Parent {
		if Contains(n, r.EndContainer) {
			return n
		}
	}
	return nil
}

// TextSpan is the part of a text node covered by a range, in UTF-16 code
// units.
type TextSpan struct {
	Node  *html.Node
	Start int
	End   int
}

// Text returns the covered substring of the node.
func (s TextSpan) Text() string {
	u := units(s.Node.Data)
	if s.Start < 0 || s.End > len(u) || s.Start > s.End {
		return ""
	}
	return string(utf16.Decode(u[s.Start:s.End]))
}

// TextSpans returns the intersection of the range with every text node it
// touches, in document order. Text nodes are included even when the
// intersection is empty; callers decide whether to skip them. An invalid
// range yields nil.
func (r Range) TextSpans() []TextSpan {
	if !r.Valid() {
		return nil
	}

	var spans []TextSpan
	for _, n := range TextNodes(r.CommonAncestor()) {
		length := Length(n)

		// Entirely before the start or entirely after the end.
		if comparePoints(n, length, r.StartContainer, r.StartOffset) < 0 {
			continue
		}
		if comparePoints(n, 0, r.EndContainer, r.EndOffset) > 0 {
			break
		}

		start, end := 0, length
		if n == r.StartContainer {
			start = r.StartOffset
		}
		if n == r.EndContainer {
			end = r.EndOffset
		}
		spans = append(spans, TextSpan{Node: n, Start: start, End: end})
	}
	return spans
}

// Text mirrors Selection.toString(): the concatenated data of the text
// covered by the range.
func (r Range) Text() string {
	var b strings.Builder
	for _, s := range r.TextSpans() {
		b.WriteString(s.Text())
	}
	return b.String()
}

// Rune returns the single character covered by a one-character range
// inside a text node. ok is false for any other range.
func (r Range) Rune() (ch rune, ok bool) {
	if !r.Valid() || r.StartContainer != r.EndContainer || r.StartContainer.Type != html.TextNode {
		return 0, false
	}
	u := units(r.StartContainer.Data)
	if r.StartOffset >= len(u) {
		return 0, false
	}
	ch, width := runeAt(u, r.StartOffset)
	if r.EndOffset-r.StartOffset != width {
		return 0, false
	}
	return ch, true
}
