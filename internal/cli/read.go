package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/heartmarshall/instant-jisho/internal/frontend"
	"github.com/heartmarshall/instant-jisho/internal/segmenter"
	"github.com/heartmarshall/instant-jisho/internal/transport/ws"
)

var errDisabled = errors.New("lookups are disabled on the server (run: jisho toggle on)")

// terminalListener prints a session's progress. Its callbacks run on the
// session's Run goroutine, except the first OnSearchUpdated.
type terminalListener struct {
	out io.Writer

	mu       sync.Mutex
	search   *segmenter.Search
	toggled  chan bool
	finished chan struct{}
	once     sync.Once
}

func newTerminalListener(out io.Writer) *terminalListener {
	return &terminalListener{
		out:      out,
		toggled:  make(chan bool, 1),
		finished: make(chan struct{}),
	}
}

func (l *terminalListener) OnSearchUpdated(s *segmenter.Search) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.search = s
	if s == nil {
		return
	}
	for i, w := range s.Words {
		printWord(l.out, i, w)
	}
	fmt.Fprintln(l.out)
}

func (l *terminalListener) OnWordResolved(index int, word segmenter.Word) {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, _ := word.State.Result()
	// Repeated words resolve together; print each value once.
	if l.search == nil || firstIndex(l.search, word.Value) == index {
		printResult(l.out, word.Value, r)
	}
	if l.search != nil && !l.search.Pending() {
		l.once.Do(func() { close(l.finished) })
	}
}

func (l *terminalListener) OnToggleChanged(enabled bool) {
	select {
	case l.toggled <- enabled:
	default:
	}
}

func firstIndex(s *segmenter.Search, value string) int {
	for i, w := range s.Words {
		if w.Value == value {
			return i
		}
	}
	return -1
}

func newReadCmd(v *viper.Viper) *cobra.Command {
	var (
		sel  selectionFlags
		wait time.Duration
	)

	cmd := &cobra.Command{
		Use:   "read [text]",
		Short: "Select text as a page would and print lookups from a jishod server",
		Long: `Read acts as one page context of a running jishod server: it segments the
selection, requests every word, and prints each result as the server delivers it.
Results arrive one per server interval unless they are already cached.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			selection, err := sel.selection(cmd, args)
			if err != nil {
				return err
			}
			tok, err := segmenter.NewTokenizer(v.GetString("tokenizer"))
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), wait)
			defer cancel()

			client, err := ws.Dial(ctx, v.GetString("server"))
			if err != nil {
				return err
			}
			defer client.Close()

			out := cmd.OutOrStdout()
			listener := newTerminalListener(out)
			session := frontend.NewSession(client, tok, listener, newLogger(v, cmd.ErrOrStderr()))

			runErr := make(chan error, 1)
			go func() { runErr <- session.Run(ctx, client) }()

			// The server announces its toggle state first.
			select {
			case enabled := <-listener.toggled:
				if !enabled {
					return errDisabled
				}
			case err := <-runErr:
				return err
			case <-ctx.Done():
				return fmt.Errorf("waiting for server: %w", ctx.Err())
			}

			if err := session.OnSelectionChanged(ctx, selection); err != nil {
				return err
			}
			if session.Search() == nil {
				fmt.Fprintln(out, noteColor("no Japanese words in the selection"))
				return nil
			}

			select {
			case <-listener.finished:
				return nil
			case enabled := <-listener.toggled:
				if !enabled {
					return errDisabled
				}
				return nil
			case err := <-runErr:
				if err == nil {
					err = ctx.Err()
				}
				return err
			case <-ctx.Done():
				return fmt.Errorf("waiting for results: %w", ctx.Err())
			}
		},
	}
	sel.register(cmd)
	cmd.Flags().DurationVar(&wait, "wait", time.Minute, "give up when results take longer")
	return cmd
}
