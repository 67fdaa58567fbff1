package coordinator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/instant-jisho/internal/message"
)

// State of the dequeue state machine.
type State string

const (
	StateIdle     State = "idle"
	StateFetching State = "fetching"
)

// Step runs one transition Idle -> Fetching -> Idle: it takes the head of
// the queue, fetches it, caches the result and delivers it to the receivers
// still registered on the item when the fetch completes. A failed fetch is
// logged and dropped without caching or delivery.
//
// Step reports whether it dequeued an item. It returns false when the queue
// is empty or another fetch is in flight.
func (c *Coordinator) Step(ctx context.Context) bool {
	c.mu.Lock()
	if c.state == StateFetching || len(c.queue) == 0 {
		c.mu.Unlock()
		return false
	}
	item := c.queue[0]
	c.queue[0] = nil
	c.queue = c.queue[1:]
	delete(c.queued, item.word)
	c.inflight = item
	c.state = StateFetching
	c.mu.Unlock()

	c.log.DebugContext(ctx, "dequeued", slog.String("word", item.word))
	result, err := c.fetcher.Fetch(ctx, item.word)

	c.mu.Lock()
	c.inflight = nil
	c.state = StateIdle
	if err != nil {
		c.mu.Unlock()
		c.log.ErrorContext(ctx, "lookup failed",
			slog.String("word", item.word),
			slog.String("error", err.Error()),
		)
		return true
	}

	c.cache.Add(item.word, result)
	out := make([]delivery, 0, len(item.receivers))
	for id := range item.receivers {
		if r, ok := c.registry[id]; ok {
			out = append(out, delivery{to: r, msg: message.Response(item.word, result)})
		}
	}
	c.mu.Unlock()

	c.log.DebugContext(ctx, "lookup done",
		slog.String("word", item.word),
		slog.Bool("found", !result.IsNotFound()),
		slog.Int("receivers", len(out)),
	)
	send(out)
	return true
}

// Run drives Step on a ticker of the configured interval until ctx is done.
// Successive dequeues are therefore at least one interval apart.
func (c *Coordinator) Run(ctx context.Context) error {
	ticker := c.clock.NewTicker(c.interval)
	defer ticker.Stop()

	c.log.InfoContext(ctx, "dequeue loop started", slog.Duration("interval", c.interval))
	for {
		select {
		case <-ctx.Done():
			c.log.InfoContext(ctx, "dequeue loop stopped")
			return nil
		case <-ticker.Chan():
			c.Step(ctx)
		}
	}
}

// Start runs the dequeue loop in the background until Stop is called or ctx
// is done.
func (c *Coordinator) Start(ctx context.Context) error {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	if c.cancel != nil {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.cancel, c.done = cancel, done

	go func() {
		defer close(done)
		_ = c.Run(ctx)
	}()
	return nil
}

// Stop stops a loop started with Start and waits for it to exit. A fetch in
// flight is canceled through its context.
func (c *Coordinator) Stop() {
	c.runMu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.runMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Dispatch applies a message received from a requester.
func (c *Coordinator) Dispatch(id RequesterID, msg message.Message) error {
	switch m := msg.(type) {
	case message.TranslateRequest:
		return c.Request(id, m.Words)
	case message.TranslateCancel:
		c.Cancel(id, m.Words)
		return nil
	case message.Toggle:
		c.Toggle(m.Value)
		return nil
	default:
		return fmt.Errorf("coordinator: unexpected %s message from requester", msg.Type())
	}
}

// Stats is a point-in-time snapshot of the coordinator.
type Stats struct {
	Queued      int    `json:"queued"`
	Cached      int    `json:"cached"`
	Connections int    `json:"connections"`
	Enabled     bool   `json:"enabled"`
	State       State  `json:"state"`
	InFlight    string `json:"in_flight,omitempty"`
}

// Stats returns a snapshot of the coordinator state.
func (c *Coordinator) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Queued:      len(c.queue),
		Cached:      c.cache.Len(),
		Connections: len(c.registry),
		Enabled:     c.enabled,
		State:       c.state,
	}
	if c.inflight != nil {
		s.InFlight = c.inflight.word
	}
	return s
}
