package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/heartmarshall/instant-jisho/internal/domain"
	"github.com/heartmarshall/instant-jisho/internal/segmenter"
)

var (
	wordColor    = color.New(color.FgCyan, color.Bold).SprintFunc()
	readingColor = color.New(color.FgGreen).SprintFunc()
	missColor    = color.New(color.FgRed).SprintFunc()
	noteColor    = color.New(color.FgYellow).SprintFunc()
	posColor     = color.New(color.Faint).SprintFunc()
)

func printWord(w io.Writer, i int, word segmenter.Word) {
	chars := len([]rune(word.Value))
	line := fmt.Sprintf("%3d  %s", i+1, wordColor(word.Value))
	if len(word.CharacterRanges) < chars {
		line += "  " + noteColor(fmt.Sprintf("(%d/%d characters located)", len(word.CharacterRanges), chars))
	}
	fmt.Fprintln(w, line)
}

func printResult(w io.Writer, word string, r domain.Result) {
	if r.IsNotFound() {
		fmt.Fprintf(w, "%s  %s\n", wordColor(word), missColor("not found"))
		return
	}

	e := r.Entry
	head := wordColor(e.Slug)
	if reading := e.Reading(); reading != "" && reading != e.Slug {
		head += " " + readingColor("【"+reading+"】")
	}
	if e.Slug != word {
		head += "  " + noteColor("for "+word)
	}
	fmt.Fprintln(w, head)

	for i, s := range e.Senses {
		line := fmt.Sprintf("  %d. %s", i+1, strings.Join(s.EnglishDefinitions, "; "))
		if len(s.PartsOfSpeech) > 0 {
			line += "  " + posColor(strings.Join(s.PartsOfSpeech, ", "))
		}
		fmt.Fprintln(w, line)
	}
}
