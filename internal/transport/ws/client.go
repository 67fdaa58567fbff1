package ws

import (
	"context"
	"fmt"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/heartmarshall/instant-jisho/internal/message"
)

// clientReadLimit bounds one inbound frame; responses carry full entries.
const clientReadLimit = 1 << 20

// Client is the page-context side of a connection.
type Client struct {
	conn *websocket.Conn
}

// Dial connects to a lookup server, e.g. ws://localhost:8787/ws.
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ws: dial %s: %w", url, err)
	}
	conn.SetReadLimit(clientReadLimit)
	return &Client{conn: conn}, nil
}

// Send writes one message.
func (c *Client) Send(ctx context.Context, msg message.Message) error {
	if err := wsjson.Write(ctx, c.conn, msg); err != nil {
		return fmt.Errorf("ws: send %s: %w", msg.Type(), err)
	}
	return nil
}

// Receive blocks until the next message arrives.
func (c *Client) Receive(ctx context.Context) (message.Message, error) {
	_, data, err := c.conn.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ws: receive: %w", err)
	}
	return message.Decode(data)
}

// Close performs the closing handshake.
func (c *Client) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "")
}
