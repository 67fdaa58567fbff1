package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/instant-jisho/internal/config"
	"github.com/heartmarshall/instant-jisho/internal/coordinator"
	"github.com/heartmarshall/instant-jisho/internal/transport/middleware"
	"github.com/heartmarshall/instant-jisho/internal/transport/rest"
	"github.com/heartmarshall/instant-jisho/internal/transport/ws"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// newRouter mounts the health probes and the /ws endpoint behind the
// common middleware chain. db may be nil.
func newRouter(
	cfg *config.Config,
	logger *slog.Logger,
	coord *coordinator.Coordinator,
	db pinger,
	limiter *middleware.RateLimiter,
) http.Handler {
	mux := http.NewServeMux()

	health := rest.NewHealthHandler(db, coord, BuildVersion())
	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)

	wsHandler := ws.NewHandler(coord, ws.Options{
		SendBuffer:      cfg.WebSocket.SendBuffer,
		MaxMessageBytes: cfg.WebSocket.MaxMessageBytes,
		WriteTimeout:    cfg.WebSocket.WriteTimeout,
		OriginPatterns:  cfg.WebSocket.OriginPatterns,
	}, logger)
	mux.Handle("GET /ws", limiter.Limit(cfg.WebSocket.UpgradesPerMinute)(wsHandler))

	return middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Requester(),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
	)(mux)
}
