package segmenter

import (
	"regexp"
	"unicode"
)

// denylist holds whitespace plus the ASCII and full-width punctuation and
// bracket classes stripped from every token.
var denylist = regexp.MustCompile(`[\s、，;。…‥:：！!?？「」（）()〔〕［］[\]｛｝{}｟｠〈〉《》【】〖〗〘〙〚〛『』]`)

// japanese is the target script: kana (full and half width), CJK
// ideographs, Japanese punctuation and full-width Latin letters and digits.
var japanese = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x3000, Hi: 0x303f, Stride: 1}, // CJK symbols and punctuation
		{Lo: 0x3040, Hi: 0x309f, Stride: 1}, // hiragana
		{Lo: 0x30a0, Hi: 0x30ff, Stride: 1}, // katakana
		{Lo: 0x3400, Hi: 0x4dbf, Stride: 1}, // rare kanji
		{Lo: 0x4e00, Hi: 0x9fff, Stride: 1}, // common kanji
		{Lo: 0xf900, Hi: 0xfaff, Stride: 1}, // compatibility ideographs
		{Lo: 0xff01, Hi: 0xff0f, Stride: 1}, // zenkaku punctuation
		{Lo: 0xff10, Hi: 0xff19, Stride: 1}, // zenkaku digits
		{Lo: 0xff1a, Hi: 0xff20, Stride: 1},
		{Lo: 0xff21, Hi: 0xff3a, Stride: 1}, // zenkaku uppercase
		{Lo: 0xff3b, Hi: 0xff40, Stride: 1},
		{Lo: 0xff41, Hi: 0xff5a, Stride: 1}, // zenkaku lowercase
		{Lo: 0xff5b, Hi: 0xff60, Stride: 1},
		{Lo: 0xff61, Hi: 0xff65, Stride: 1}, // half-width kana punctuation
		{Lo: 0xff66, Hi: 0xff9f, Stride: 1}, // hankaku katakana
		{Lo: 0xffe0, Hi: 0xffee, Stride: 1}, // zenkaku symbols and currency
	},
	R32: []unicode.Range32{
		{Lo: 0x20000, Hi: 0x2a6df, Stride: 1}, // extension B
	},
}

// IsJapanese reports whether s is non-empty and made only of target script
// characters.
func IsJapanese(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.Is(japanese, r) {
			return false
		}
	}
	return true
}

// clean strips denylisted characters from a token.
func clean(token string) string {
	return denylist.ReplaceAllString(token, "")
}

// filterTokens applies the denylist and the script filter, keeping token
// order.
func filterTokens(tokens []string) []string {
	words := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		w := clean(tok)
		if !IsJapanese(w) {
			continue
		}
		words = append(words, w)
	}
	return words
}
