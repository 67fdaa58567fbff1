package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/heartmarshall/instant-jisho/internal/message"
	"github.com/heartmarshall/instant-jisho/internal/transport/ws"
)

func newToggleCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:       "toggle [on|off]",
		Short:     "Show or switch lookups for every connected page",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), v.GetDuration("timeout"))
			defer cancel()

			client, err := ws.Dial(ctx, v.GetString("server"))
			if err != nil {
				return err
			}
			defer client.Close()

			current, err := awaitToggle(ctx, client)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				want := args[0] == "on"
				if err := client.Send(ctx, message.Toggle{Value: want}); err != nil {
					return err
				}
				// Wait for the broadcast so the change is confirmed.
				for current != want {
					if current, err = awaitToggle(ctx, client); err != nil {
						return err
					}
				}
			}

			state := missColor("off")
			if current {
				state = readingColor("on")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "lookups are %s\n", state)
			return nil
		},
	}
}

// awaitToggle skips other traffic until a toggle message arrives.
func awaitToggle(ctx context.Context, client *ws.Client) (bool, error) {
	for {
		msg, err := client.Receive(ctx)
		if err != nil {
			return false, err
		}
		if t, ok := msg.(message.Toggle); ok {
			return t.Value, nil
		}
	}
}

