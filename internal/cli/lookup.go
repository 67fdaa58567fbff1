package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/heartmarshall/instant-jisho/internal/adapter/provider/jisho"
)

func newLookupCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup WORD...",
		Short: "Look words up on jisho.org directly, without a server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := jisho.NewProviderWithURL(
				v.GetString("base-url"),
				v.GetDuration("timeout"),
				newLogger(v, cmd.ErrOrStderr()),
			)

			for _, word := range args {
				result, err := provider.FetchWord(cmd.Context(), word)
				if err != nil {
					return err
				}
				printResult(cmd.OutOrStdout(), word, result)
			}
			return nil
		},
	}
}
