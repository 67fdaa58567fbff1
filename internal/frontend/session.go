// Package frontend is the page-context half of a lookup: it turns
// selections into searches, talks to the coordinator through a Port, and
// reports progress to a Listener.
package frontend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/heartmarshall/instant-jisho/internal/dom"
	"github.com/heartmarshall/instant-jisho/internal/domain"
	"github.com/heartmarshall/instant-jisho/internal/message"
	"github.com/heartmarshall/instant-jisho/internal/segmenter"
)

// Port carries messages to the coordinator.
type Port interface {
	Send(ctx context.Context, msg message.Message) error
}

// Inbox yields messages from the coordinator.
type Inbox interface {
	Receive(ctx context.Context) (message.Message, error)
}

// Listener observes a Session. Callbacks run on the goroutine that caused
// them, after the session lock is released.
type Listener interface {
	// OnSearchUpdated reports a new search, or nil when it was cleared.
	OnSearchUpdated(search *segmenter.Search)
	// OnWordResolved reports that the index-th word of the current search
	// received its result.
	OnWordResolved(index int, word segmenter.Word)
	OnToggleChanged(enabled bool)
}

// Session tracks one page context. It is safe for concurrent use: a UI
// goroutine feeds selections while Run feeds coordinator messages.
type Session struct {
	port     Port
	listener Listener
	log      *slog.Logger

	mu       sync.Mutex
	seg      *segmenter.Segmenter
	enabled  bool
	selected int
}

// NewSession creates an enabled session. The coordinator confirms or
// overrides the flag with the toggle it sends on connect.
func NewSession(port Port, tok segmenter.Tokenizer, listener Listener, logger *slog.Logger) *Session {
	return &Session{
		port:     port,
		listener: listener,
		log:      logger.With("component", "frontend"),
		seg:      segmenter.New(tok),
		enabled:  true,
	}
}

// Search returns the active search, or nil.
func (s *Session) Search() *segmenter.Search {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seg.Current()
}

// Enabled reports the last known toggle state.
func (s *Session) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// OnSelectionChanged segments sel. A changed word set cancels the previous
// words and requests the new ones; an unchanged set does nothing. Selections
// are ignored while lookups are disabled.
func (s *Session) OnSelectionChanged(ctx context.Context, sel dom.Selection) error {
	s.mu.Lock()
	if !s.enabled {
		s.mu.Unlock()
		return nil
	}
	prev := s.seg.Current()
	search, changed := s.seg.Update(sel)
	if changed {
		s.selected = 0
	}
	s.mu.Unlock()

	if !changed {
		return nil
	}

	var errs []error
	if prev != nil {
		errs = append(errs, s.send(ctx, message.TranslateCancel{Words: prev.Values()}))
	}
	if search != nil {
		s.log.DebugContext(ctx, "search started", slog.Any("words", search.Values()))
		errs = append(errs, s.send(ctx, message.TranslateRequest{Words: search.Values()}))
	}
	s.listener.OnSearchUpdated(search)
	return errors.Join(errs...)
}

// HandleMessage applies a message from the coordinator. Responses resolve
// every word with the delivered value; a toggle updates the flag and, when
// disabling, cancels and clears the active search.
func (s *Session) HandleMessage(ctx context.Context, msg message.Message) error {
	switch m := msg.(type) {
	case message.TranslateResponse:
		s.resolve(m.Word, m.Result())
		return nil
	case message.Toggle:
		return s.toggled(ctx, m.Value)
	default:
		return fmt.Errorf("frontend: unexpected %s message from coordinator", msg.Type())
	}
}

func (s *Session) resolve(word string, r domain.Result) {
	s.mu.Lock()
	search := s.seg.Current()
	if search == nil {
		s.mu.Unlock()
		return
	}
	touched := search.Resolve(word, r)
	resolved := make([]segmenter.Word, len(touched))
	for i, idx := range touched {
		resolved[i] = search.Words[idx]
	}
	s.mu.Unlock()

	for i, idx := range touched {
		s.listener.OnWordResolved(idx, resolved[i])
	}
}

func (s *Session) toggled(ctx context.Context, enabled bool) error {
	s.mu.Lock()
	s.enabled = enabled
	var cleared *segmenter.Search
	if !enabled {
		cleared = s.seg.Clear()
		s.selected = 0
	}
	s.mu.Unlock()

	s.listener.OnToggleChanged(enabled)
	if cleared == nil {
		return nil
	}
	s.listener.OnSearchUpdated(nil)
	return s.send(ctx, message.TranslateCancel{Words: cleared.Values()})
}

// SetEnabled asks the coordinator to switch lookups on or off for every
// page context. The local flag changes when the broadcast comes back.
func (s *Session) SetEnabled(ctx context.Context, enabled bool) error {
	return s.send(ctx, message.Toggle{Value: enabled})
}

// OnWordNavigated moves the highlighted word of the current search. It
// reports false when there is no search or index is out of range.
func (s *Session) OnWordNavigated(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	search := s.seg.Current()
	if search == nil || index < 0 || index >= len(search.Words) {
		return false
	}
	s.selected = index
	return true
}

// Selected returns the highlighted word index.
func (s *Session) Selected() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Run feeds coordinator messages into the session until ctx is done or the
// inbox fails. Malformed messages are logged and skipped.
func (s *Session) Run(ctx context.Context, inbox Inbox) error {
	for {
		msg, err := inbox.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, domain.ErrValidation) || errors.Is(err, message.ErrUnknownType) {
				s.log.WarnContext(ctx, "invalid message", slog.String("error", err.Error()))
				continue
			}
			return fmt.Errorf("frontend: receive: %w", err)
		}
		if err := s.HandleMessage(ctx, msg); err != nil {
			s.log.WarnContext(ctx, "message not handled", slog.String("error", err.Error()))
		}
	}
}

func (s *Session) send(ctx context.Context, msg message.Message) error {
	if err := s.port.Send(ctx, msg); err != nil {
		return fmt.Errorf("frontend: %w", err)
	}
	return nil
}
