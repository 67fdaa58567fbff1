// Package dom models live text selections over a parsed HTML document.
//
// Nodes are *html.Node values from golang.org/x/net/html. Boundary points
// follow DOM semantics: inside a text node the offset counts UTF-16 code
// units, inside any other node it counts children. Ranges hold references
// into the tree and are never snapshotted: if the tree changes under them,
// Valid reports false and every accessor degrades to an empty result.
package dom

import (
	"strings"
	"unicode"
	"unicode/utf16"

	"golang.org/x/net/html"
)

// Length returns the DOM length of a node: UTF-16 code units for text
// nodes, number of children otherwise.
func Length(n *html.Node) int {
	if n == nil {
		return 0
	}
	if n.Type == html.TextNode {
		return utf16Len(n.Data)
	}
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count++
	}
	return count
}

// Root returns the topmost ancestor of n.
func Root(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// Contains reports whether n is root or a descendant of root.
func Contains(root, n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == root {
			return true
		}
	}
	return false
}

// TextNodes returns every text node under root in document order.
func TextNodes(root *html.Node) []*html.Node {
	var nodes []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			nodes = append(nodes, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return nodes
}

// TextContent concatenates the data of every text node under root.
func TextContent(root *html.Node) string {
	var b strings.Builder
	for _, n := range TextNodes(root) {
		b.WriteString(n.Data)
	}
	return b.String()
}

// childIndex returns the position of n among its siblings.
func childIndex(n *html.Node) int {
	i := 0
	for c := n.PrevSibling; c != nil; c = c.PrevSibling {
		i++
	}
	return i
}

// path returns the child indices leading from the root down to n.
func path(n *html.Node) []int {
	var p []int
	for ; n.Parent != nil; n = n.Parent {
		p = append(p, childIndex(n))
	}
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
	return p
}

// compareNodes orders two nodes of the same tree: -1 if a precedes b,
// 0 if they are the same node, 1 if a follows b. An ancestor precedes its
// descendants.
func compareNodes(a, b *html.Node) int {
	if a == b {
		return 0
	}
	pa, pb := path(a), path(b)
	for i := 0; i < len(pa) && i < len(pb); i++ {
		if pa[i] != pb[i] {
			if pa[i] < pb[i] {
				return -1
			}
			return 1
		}
	}
	if len(pa) < len(pb) {
		return -1
	}
	return 1
}

// comparePoints orders two boundary points of the same tree using the DOM
// "position of a boundary point" algorithm.
func comparePoints(nodeA *html.Node, offA int, nodeB *html.Node, offB int) int {
	if nodeA == nodeB {
		switch {
		case offA < offB:
			return -1
		case offA > offB:
			return 1
		default:
			return 0
		}
	}

	if compareNodes(nodeA, nodeB) > 0 {
		return -comparePoints(nodeB, offB, nodeA, offA)
	}

	if Contains(nodeA, nodeB) {
		child := nodeB
		for child.Parent != nodeA {
			child = child.Parent
		}
		if childIndex(child) < offA {
			return 1
		}
	}

	return -1
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// units encodes s as UTF-16 code units.
func units(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// runeAt decodes the character starting at code unit i and returns it along
// with its width in code units.
func runeAt(u []uint16, i int) (rune, int) {
	if utf16.IsSurrogate(rune(u[i])) && i+1 < len(u) {
		if r := utf16.DecodeRune(rune(u[i]), rune(u[i+1])); r != unicode.ReplacementChar {
			return r, 2
		}
	}
	return rune(u[i]), 1
}
