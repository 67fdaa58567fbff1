package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/instant-jisho/internal/config"
	"github.com/heartmarshall/instant-jisho/internal/coordinator"
	"github.com/heartmarshall/instant-jisho/internal/domain"
	"github.com/heartmarshall/instant-jisho/internal/message"
	"github.com/heartmarshall/instant-jisho/internal/transport/middleware"
	"github.com/heartmarshall/instant-jisho/internal/transport/rest"
	"github.com/heartmarshall/instant-jisho/internal/transport/ws"
)

type fetchFunc func(ctx context.Context, word string) (domain.Result, error)

func (f fetchFunc) Fetch(ctx context.Context, word string) (domain.Result, error) { return f(ctx, word) }

func testConfig() *config.Config {
	return &config.Config{
		WebSocket: config.WebSocketConfig{SendBuffer: 8, MaxMessageBytes: 4096, WriteTimeout: time.Second, UpgradesPerMinute: 2},
		CORS:      config.CORSConfig{AllowedOrigins: "*", AllowedMethods: "GET", AllowedHeaders: "Content-Type"},
	}
}

func newTestServer(t *testing.T) (*coordinator.Coordinator, *httptest.Server) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	coord, err := coordinator.New(fetchFunc(func(_ context.Context, word string) (domain.Result, error) {
		return domain.Found(&domain.Entry{Slug: word}), nil
	}), coordinator.Options{Clock: clockwork.NewFakeClock(), Logger: logger})
	require.NoError(t, err)

	limiter := middleware.NewRateLimiter(time.Minute)
	t.Cleanup(limiter.Stop)

	srv := httptest.NewServer(newRouter(testConfig(), logger, coord, nil, limiter))
	t.Cleanup(srv.Close)
	return coord, srv
}

func TestRouter_Health(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	var body rest.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "disabled", body.Components["database"].Status)
	require.NotNil(t, body.Coordinator)
	assert.True(t, body.Coordinator.Enabled)
}

func TestRouter_UnknownMethod(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/health", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRouter_WebSocketLookup(t *testing.T) {
	coord, srv := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := ws.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws")
	require.NoError(t, err)
	defer client.Close()

	msg, err := client.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, message.Toggle{Value: true}, msg)

	require.NoError(t, client.Send(ctx, message.TranslateRequest{Words: []string{"東京都"}}))
	require.Eventually(t, func() bool { return coord.Stats().Queued == 1 }, 5*time.Second, 10*time.Millisecond)
	require.True(t, coord.Step(ctx))

	msg, err = client.Receive(ctx)
	require.NoError(t, err)
	resp, ok := msg.(message.TranslateResponse)
	require.True(t, ok)
	assert.Equal(t, "東京都", resp.Word)
}

func TestRouter_UpgradeRateLimited(t *testing.T) {
	_, srv := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	for i := 0; i < 2; i++ {
		client, err := ws.Dial(ctx, url)
		require.NoError(t, err)
		defer client.Close()
	}

	_, err := ws.Dial(ctx, url)
	assert.Error(t, err, "third upgrade within a minute is rejected")
}
