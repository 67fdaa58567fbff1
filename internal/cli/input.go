package cli

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/spf13/cobra"
	xhtml "golang.org/x/net/html"

	"github.com/heartmarshall/instant-jisho/internal/dom"
)

// selectionFlags pick what part of the input is selected. Offsets count
// characters of the document text; a negative end selects to the end.
type selectionFlags struct {
	html  bool
	start int
	end   int
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.html, "html", false, "treat the input as an HTML document")
	cmd.Flags().IntVar(&f.start, "start", 0, "first selected character")
	cmd.Flags().IntVar(&f.end, "end", -1, "end of the selection (exclusive), -1 for the end of the text")
}

// selection reads the document from args or stdin and selects the
// requested span of its text.
func (f *selectionFlags) selection(cmd *cobra.Command, args []string) (dom.Selection, error) {
	src := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return dom.Selection{}, fmt.Errorf("read stdin: %w", err)
		}
		src = string(data)
	}
	if !f.html {
		src = "<p>" + html.EscapeString(src) + "</p>"
	}

	doc, err := xhtml.Parse(strings.NewReader(src))
	if err != nil {
		return dom.Selection{}, fmt.Errorf("parse document: %w", err)
	}

	end := f.end
	if end < 0 {
		end = len([]rune(dom.TextContent(doc)))
	}
	return dom.SelectText(doc, f.start, end)
}
