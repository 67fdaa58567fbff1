package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/heartmarshall/instant-jisho/internal/segmenter"
)

func newSegmentCmd(v *viper.Viper) *cobra.Command {
	var sel selectionFlags

	cmd := &cobra.Command{
		Use:   "segment [text]",
		Short: "Split the selected text into lookup words",
		Long: `Segment reads text (or an HTML document with --html) from the arguments or
stdin, selects it, and prints the Japanese words a lookup would request.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			selection, err := sel.selection(cmd, args)
			if err != nil {
				return err
			}
			tok, err := segmenter.NewTokenizer(v.GetString("tokenizer"))
			if err != nil {
				return err
			}

			words := segmenter.Segment(tok, selection)
			out := cmd.OutOrStdout()
			if len(words) == 0 {
				fmt.Fprintln(out, noteColor("no Japanese words in the selection"))
				return nil
			}
			for i, w := range words {
				printWord(out, i, w)
			}
			return nil
		},
	}
	sel.register(cmd)
	return cmd
}
