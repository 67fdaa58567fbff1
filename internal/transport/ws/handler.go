// Package ws exposes the lookup coordinator over WebSocket. Every
// connection is one requester; frames are JSON messages of the message
// package.
package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/heartmarshall/instant-jisho/internal/coordinator"
	"github.com/heartmarshall/instant-jisho/internal/message"
	"github.com/heartmarshall/instant-jisho/pkg/ctxutil"
)

// Hub is the part of the coordinator a connection talks to.
type Hub interface {
	Connect(id coordinator.RequesterID, r coordinator.Receiver) error
	Disconnect(id coordinator.RequesterID)
	Dispatch(id coordinator.RequesterID, msg message.Message) error
}

// Options configures a Handler. Zero values select the defaults.
type Options struct {
	SendBuffer      int
	MaxMessageBytes int64
	WriteTimeout    time.Duration
	OriginPatterns  []string
}

const (
	defaultSendBuffer      = 64
	defaultMaxMessageBytes = 64 << 10
	defaultWriteTimeout    = 10 * time.Second
)

// Handler upgrades requests to WebSocket connections and bridges them to a
// Hub.
type Handler struct {
	hub  Hub
	opts Options
	log  *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(hub Hub, opts Options, logger *slog.Logger) *Handler {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = defaultSendBuffer
	}
	if opts.MaxMessageBytes <= 0 {
		opts.MaxMessageBytes = defaultMaxMessageBytes
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}
	return &Handler{hub: hub, opts: opts, log: logger.With("component", "ws")}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, ok := ctxutil.RequesterIDFromCtx(r.Context())
	if !ok {
		id = uuid.New()
	}
	rid := coordinator.RequesterID(id.String())
	log := h.log.With(slog.String("requester_id", string(rid)))

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.opts.OriginPatterns})
	if err != nil {
		// Accept has already written the error response.
		log.WarnContext(r.Context(), "ws.accept failed", slog.String("error", err.Error()))
		return
	}
	conn.SetReadLimit(h.opts.MaxMessageBytes)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	p := newPeer(h.opts.SendBuffer, cancel)
	if err := h.hub.Connect(rid, p); err != nil {
		log.ErrorContext(ctx, "ws.register failed", slog.String("error", err.Error()))
		conn.Close(websocket.StatusInternalError, "register failed") //nolint:errcheck
		return
	}
	log.InfoContext(ctx, "ws.connected")

	written := make(chan error, 1)
	go func() { written <- p.writeLoop(ctx, conn, h.opts.WriteTimeout) }()

	readErr := h.readLoop(ctx, conn, rid, log)

	h.hub.Disconnect(rid)
	p.close()
	writeErr := <-written

	switch {
	case p.overflow():
		log.WarnContext(ctx, "ws.closed: send buffer full", slog.Int("buffer", h.opts.SendBuffer))
		conn.Close(websocket.StatusPolicyViolation, "send buffer full") //nolint:errcheck
	case writeErr != nil:
		log.WarnContext(ctx, "ws.closed: write failed", slog.String("error", writeErr.Error()))
		conn.CloseNow() //nolint:errcheck
	default:
		log.InfoContext(ctx, "ws.closed", slog.Int("status", int(websocket.CloseStatus(readErr))))
		conn.Close(websocket.StatusNormalClosure, "") //nolint:errcheck
	}
}

// readLoop decodes frames and dispatches them until the connection fails
// or ctx is done. Malformed frames are logged and skipped.
func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn, rid coordinator.RequesterID, log *slog.Logger) error {
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}
		if typ != websocket.MessageText {
			log.WarnContext(ctx, "ws.binary frame ignored")
			continue
		}

		msg, err := message.Decode(data)
		if err != nil {
			log.WarnContext(ctx, "ws.invalid message", slog.String("error", err.Error()))
			continue
		}
		if err := h.hub.Dispatch(rid, msg); err != nil {
			if errors.Is(err, coordinator.ErrUnknownRequester) {
				return err
			}
			log.WarnContext(ctx, "ws.dispatch failed",
				slog.String("type", string(msg.Type())),
				slog.String("error", err.Error()),
			)
		}
	}
}
