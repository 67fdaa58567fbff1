// Package coordinator serves dictionary lookups to any number of connected
// page contexts. Lookups are cached, deduplicated across requesters and
// fetched one at a time at a fixed minimum interval.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/instant-jisho/internal/domain"
	"github.com/heartmarshall/instant-jisho/internal/message"
)

const (
	DefaultInterval  = time.Second
	DefaultCacheSize = 500
)

var (
	ErrUnknownRequester = errors.New("coordinator: unknown requester")
	ErrAlreadyConnected = errors.New("coordinator: requester already connected")
	ErrAlreadyRunning   = errors.New("coordinator: already running")
)

// RequesterID identifies one connected page context.
type RequesterID string

// Receiver accepts messages for one requester. Deliver is called outside the
// coordinator's state lock but on the caller's goroutine. It must not block,
// and must not call Connect or Toggle, which may be delivering to it.
type Receiver interface {
	Deliver(msg message.Message)
}

// ReceiverFunc adapts a function to the Receiver interface.
type ReceiverFunc func(msg message.Message)

func (f ReceiverFunc) Deliver(msg message.Message) { f(msg) }

// Fetcher resolves one word against the dictionary.
type Fetcher interface {
	Fetch(ctx context.Context, word string) (domain.Result, error)
}

// Options configures a Coordinator. Zero values select the defaults.
type Options struct {
	Interval  time.Duration
	CacheSize int
	Clock     clockwork.Clock
	Logger    *slog.Logger
}

// queueItem is one outstanding lookup. It lives while receivers is
// non-empty.
type queueItem struct {
	word      string
	receivers map[RequesterID]struct{}
}

type delivery struct {
	to  Receiver
	msg message.Message
}

// Coordinator owns the lookup queue, the result cache, the requester
// registry and the shared enabled flag. All methods are safe for concurrent
// use.
type Coordinator struct {
	fetcher  Fetcher
	interval time.Duration
	clock    clockwork.Clock
	log      *slog.Logger

	mu       sync.Mutex
	cache    *lru.Cache[string, domain.Result]
	queue    []*queueItem
	queued   map[string]*queueItem
	inflight *queueItem
	state    State
	enabled  bool
	registry map[RequesterID]Receiver

	// toggleMu orders toggle deliveries: it is held from reading the flag
	// until the value reaches the receivers. Acquired before mu.
	toggleMu sync.Mutex

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates an idle coordinator. Lookups are enabled initially.
func New(fetcher Fetcher, opts Options) (*Coordinator, error) {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	cache, err := lru.New[string, domain.Result](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("coordinator: create cache: %w", err)
	}

	return &Coordinator{
		fetcher:  fetcher,
		interval: opts.Interval,
		clock:    opts.Clock,
		log:      opts.Logger.With("component", "coordinator"),
		cache:    cache,
		queued:   make(map[string]*queueItem),
		state:    StateIdle,
		enabled:  true,
		registry: make(map[RequesterID]Receiver),
	}, nil
}

// Connect registers a requester. It immediately receives the current
// toggle state.
func (c *Coordinator) Connect(id RequesterID, r Receiver) error {
	c.toggleMu.Lock()
	defer c.toggleMu.Unlock()

	c.mu.Lock()
	if _, ok := c.registry[id]; ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrAlreadyConnected, id)
	}
	c.registry[id] = r
	enabled := c.enabled
	c.mu.Unlock()

	c.log.Debug("requester connected", slog.String("requester", string(id)))
	r.Deliver(message.Toggle{Value: enabled})
	return nil
}

// Disconnect cancels everything outstanding for the requester and
// unregisters it. Unknown requesters are ignored.
func (c *Coordinator) Disconnect(id RequesterID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.registry[id]; !ok {
		return
	}
	delete(c.registry, id)

	kept := c.queue[:0]
	for _, item := range c.queue {
		delete(item.receivers, id)
		if len(item.receivers) == 0 {
			delete(c.queued, item.word)
			continue
		}
		kept = append(kept, item)
	}
	clear(c.queue[len(kept):])
	c.queue = kept

	if c.inflight != nil {
		delete(c.inflight.receivers, id)
	}

	c.log.Debug("requester disconnected",
		slog.String("requester", string(id)),
		slog.Int("queued", len(c.queue)),
	)
}

// Request asks for every word on behalf of the requester. Cached words are
// answered before Request returns; the others join the queue, or the
// existing queue item for the same word.
func (c *Coordinator) Request(id RequesterID, words []string) error {
	c.mu.Lock()
	r, ok := c.registry[id]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownRequester, id)
	}

	var out []delivery
	for _, word := range words {
		if result, hit := c.cache.Get(word); hit {
			out = append(out, delivery{to: r, msg: message.Response(word, result)})
			continue
		}
		if c.inflight != nil && c.inflight.word == word {
			c.inflight.receivers[id] = struct{}{}
			continue
		}
		if item, queued := c.queued[word]; queued {
			item.receivers[id] = struct{}{}
			continue
		}
		item := &queueItem{word: word, receivers: map[RequesterID]struct{}{id: {}}}
		c.queue = append(c.queue, item)
		c.queued[word] = item
		c.log.Debug("word queued", slog.String("word", word), slog.Int("position", len(c.queue)))
	}
	c.mu.Unlock()

	send(out)
	return nil
}

// Cancel withdraws the requester's interest in words. Queue items left
// without receivers are dropped. A fetch already in flight still completes
// and is cached, but is not delivered to the requester. The cache is never
// touched.
func (c *Coordinator) Cancel(id RequesterID, words []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, word := range words {
		if c.inflight != nil && c.inflight.word == word {
			delete(c.inflight.receivers, id)
		}
		item, ok := c.queued[word]
		if !ok {
			continue
		}
		delete(item.receivers, id)
		if len(item.receivers) == 0 {
			c.remove(item)
		}
	}
}

// remove drops item from the queue. Callers hold mu.
func (c *Coordinator) remove(item *queueItem) {
	delete(c.queued, item.word)
	for i, it := range c.queue {
		if it == item {
			c.queue = append(c.queue[:i], c.queue[i+1:]...)
			return
		}
	}
}

// Toggle sets the shared enabled flag and broadcasts it to every connected
// requester. Concurrent toggles and connects deliver in the order they
// changed or read the flag, so each requester ends on the current value.
func (c *Coordinator) Toggle(enabled bool) {
	c.toggleMu.Lock()
	defer c.toggleMu.Unlock()

	c.mu.Lock()
	c.enabled = enabled
	out := make([]delivery, 0, len(c.registry))
	for _, r := range c.registry {
		out = append(out, delivery{to: r, msg: message.Toggle{Value: enabled}})
	}
	c.mu.Unlock()

	c.log.Info("lookups toggled", slog.Bool("enabled", enabled), slog.Int("requesters", len(out)))
	send(out)
}

// Enabled reports the shared enabled flag.
func (c *Coordinator) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

func send(out []delivery) {
	for _, d := range out {
		d.to.Deliver(d.msg)
	}
}
