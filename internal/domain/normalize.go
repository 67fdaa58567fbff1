package domain

import (
	"strings"
	"unicode"
)

// NormalizeText prepares selected page text for segmentation:
//   - trims leading/trailing whitespace, including the ideographic space (U+3000)
//   - compresses runs of whitespace into a single ASCII space
//
// Everything else, including punctuation, is preserved so that the tokenizer
// still sees sentence boundaries.
func NormalizeText(text string) string {
	text = strings.TrimFunc(text, unicode.IsSpace)
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if prevSpace {
				continue
			}
			prevSpace = true
			b.WriteByte(' ')
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
