package ws

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/instant-jisho/internal/coordinator"
	"github.com/heartmarshall/instant-jisho/internal/domain"
	"github.com/heartmarshall/instant-jisho/internal/message"
)

type fetchFunc func(ctx context.Context, word string) (domain.Result, error)

func (f fetchFunc) Fetch(ctx context.Context, word string) (domain.Result, error) { return f(ctx, word) }

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setup starts a server whose coordinator only advances when Step is called.
func setup(t *testing.T, opts Options) (*coordinator.Coordinator, string) {
	t.Helper()

	fetcher := fetchFunc(func(_ context.Context, word string) (domain.Result, error) {
		if word == "ぬぬ" {
			return domain.NotFound(), nil
		}
		return domain.Found(&domain.Entry{Slug: word}), nil
	})
	c, err := coordinator.New(fetcher, coordinator.Options{
		Clock:  clockwork.NewFakeClock(),
		Logger: newTestLogger(),
	})
	require.NoError(t, err)

	srv := httptest.NewServer(NewHandler(c, opts, newTestLogger()))
	t.Cleanup(srv.Close)

	return c, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := Dial(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func receive(t *testing.T, client *Client) message.Message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msg, err := client.Receive(ctx)
	require.NoError(t, err)
	return msg
}

func send(t *testing.T, client *Client, msg message.Message) {
	t.Helper()
	require.NoError(t, client.Send(context.Background(), msg))
}

func TestHandler_ConnectSendsToggle(t *testing.T) {
	t.Parallel()

	c, url := setup(t, Options{})
	client := dial(t, url)

	assert.Equal(t, message.Toggle{Value: true}, receive(t, client))
	assert.Equal(t, 1, c.Stats().Connections)
}

func TestHandler_RequestResponse(t *testing.T) {
	t.Parallel()

	c, url := setup(t, Options{})
	client := dial(t, url)
	receive(t, client) // toggle

	send(t, client, message.TranslateRequest{Words: []string{"猫", "ぬぬ"}})
	require.Eventually(t, func() bool { return c.Stats().Queued == 2 }, 5*time.Second, 10*time.Millisecond)

	require.True(t, c.Step(context.Background()))
	first, ok := receive(t, client).(message.TranslateResponse)
	require.True(t, ok)
	assert.Equal(t, "猫", first.Word)
	require.NotNil(t, first.Entry)
	assert.Equal(t, "猫", first.Entry.Slug)

	require.True(t, c.Step(context.Background()))
	second, ok := receive(t, client).(message.TranslateResponse)
	require.True(t, ok)
	assert.Equal(t, "ぬぬ", second.Word)
	assert.True(t, second.Result().IsNotFound())

	// Cached now: answered without a Step.
	send(t, client, message.TranslateRequest{Words: []string{"猫"}})
	cached, ok := receive(t, client).(message.TranslateResponse)
	require.True(t, ok)
	assert.Equal(t, "猫", cached.Word)
}

func TestHandler_Cancel(t *testing.T) {
	t.Parallel()

	c, url := setup(t, Options{})
	client := dial(t, url)
	receive(t, client)

	send(t, client, message.TranslateRequest{Words: []string{"犬"}})
	require.Eventually(t, func() bool { return c.Stats().Queued == 1 }, 5*time.Second, 10*time.Millisecond)

	send(t, client, message.TranslateCancel{Words: []string{"犬"}})
	require.Eventually(t, func() bool { return c.Stats().Queued == 0 }, 5*time.Second, 10*time.Millisecond)
	assert.False(t, c.Step(context.Background()))
}

func TestHandler_ToggleBroadcast(t *testing.T) {
	t.Parallel()

	c, url := setup(t, Options{})
	a := dial(t, url)
	b := dial(t, url)
	receive(t, a)
	receive(t, b)

	send(t, a, message.Toggle{Value: false})

	assert.Equal(t, message.Toggle{Value: false}, receive(t, a))
	assert.Equal(t, message.Toggle{Value: false}, receive(t, b))
	assert.False(t, c.Enabled())
}

func TestHandler_InvalidMessageIgnored(t *testing.T) {
	t.Parallel()

	c, url := setup(t, Options{})
	client := dial(t, url)
	receive(t, client)

	ctx := context.Background()
	require.NoError(t, client.conn.Write(ctx, websocket.MessageText, []byte(`{"type":"translate-request","words":[]}`)))
	require.NoError(t, client.conn.Write(ctx, websocket.MessageText, []byte(`{"type":"bogus"}`)))
	require.NoError(t, client.conn.Write(ctx, websocket.MessageText, []byte(`not json`)))

	// The connection survives and still serves requests.
	send(t, client, message.TranslateRequest{Words: []string{"鳥"}})
	require.Eventually(t, func() bool { return c.Stats().Queued == 1 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, c.Stats().Connections)
}

func TestHandler_DisconnectUnregisters(t *testing.T) {
	t.Parallel()

	c, url := setup(t, Options{})
	client := dial(t, url)
	receive(t, client)

	send(t, client, message.TranslateRequest{Words: []string{"猫"}})
	require.Eventually(t, func() bool { return c.Stats().Queued == 1 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, client.Close())

	require.Eventually(t, func() bool {
		s := c.Stats()
		return s.Connections == 0 && s.Queued == 0
	}, 5*time.Second, 10*time.Millisecond)
}

func TestPeer_Overflow(t *testing.T) {
	t.Parallel()

	canceled := false
	p := newPeer(1, func() { canceled = true })

	p.Deliver(message.Toggle{Value: true})
	assert.False(t, p.overflow())

	p.Deliver(message.Toggle{Value: false})
	assert.True(t, p.overflow())
	assert.True(t, canceled)

	// Closed peers drop silently.
	p.Deliver(message.Toggle{Value: true})
	assert.Len(t, p.out, 1)
}

func TestPeer_CloseDrops(t *testing.T) {
	t.Parallel()

	p := newPeer(4, func() {})
	p.close()
	p.Deliver(message.Toggle{Value: true})

	assert.Empty(t, p.out)
	assert.False(t, p.overflow())
}
