// Package cli implements the jisho command line: offline segmentation,
// direct dictionary lookups, and a terminal page context for a running
// jishod server.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Execute runs the root command with os.Args.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree. Settings resolve as
// flags > JISHO_* env > config file > defaults.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("JISHO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("server", "ws://localhost:8787/ws")
	v.SetDefault("tokenizer", "kagome")
	v.SetDefault("base-url", "https://jisho.org")
	v.SetDefault("timeout", 10*time.Second)
	v.SetDefault("no-color", false)
	v.SetDefault("debug", false)

	var cfgFile string

	root := &cobra.Command{
		Use:           "jisho",
		Short:         "jisho: segment Japanese text and look words up on jisho.org",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				v.SetConfigFile(cfgFile)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("load config: %w", err)
				}
			}
			if v.GetBool("no-color") {
				color.NoColor = true
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (yaml, json or toml)")
	flags.String("server", "", "jishod WebSocket endpoint")
	flags.String("tokenizer", "", "word segmenter: kagome or unicode")
	flags.String("base-url", "", "jisho.org API base URL")
	flags.Duration("timeout", 0, "network timeout")
	flags.Bool("no-color", false, "disable colored output")
	flags.Bool("debug", false, "log debug output to stderr")

	for _, name := range []string{"server", "tokenizer", "base-url", "timeout", "no-color", "debug"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(
		newSegmentCmd(v),
		newLookupCmd(v),
		newReadCmd(v),
		newToggleCmd(v),
	)
	return root
}

func newLogger(v *viper.Viper, w io.Writer) *slog.Logger {
	if !v.GetBool("debug") {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
