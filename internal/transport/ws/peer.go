package ws

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/heartmarshall/instant-jisho/internal/message"
)

// peer is the coordinator's view of one connection. Deliver only ever
// enqueues; the writer goroutine drains the buffer onto the socket.
type peer struct {
	out    chan message.Message
	cancel context.CancelFunc

	mu         sync.Mutex
	closed     bool
	overflowed bool
}

func newPeer(buffer int, cancel context.CancelFunc) *peer {
	return &peer{out: make(chan message.Message, buffer), cancel: cancel}
}

// Deliver implements coordinator.Receiver. A full buffer means the client
// is not reading; the connection is torn down instead of blocking.
func (p *peer) Deliver(msg message.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	select {
	case p.out <- msg:
	default:
		p.closed = true
		p.overflowed = true
		p.cancel()
	}
}

func (p *peer) close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.cancel()
}

func (p *peer) overflow() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.overflowed
}

// writeLoop sends buffered messages until ctx is done or a write fails.
func (p *peer) writeLoop(ctx context.Context, conn *websocket.Conn, timeout time.Duration) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-p.out:
			wctx, cancel := context.WithTimeout(ctx, timeout)
			err := wsjson.Write(wctx, conn, msg)
			cancel()
			if err != nil {
				p.close()
				return err
			}
		}
	}
}
