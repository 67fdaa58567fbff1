package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/instant-jisho/internal/adapter/postgres"
	lookuprepo "github.com/heartmarshall/instant-jisho/internal/adapter/postgres/lookup"
	"github.com/heartmarshall/instant-jisho/internal/adapter/provider/jisho"
	"github.com/heartmarshall/instant-jisho/internal/config"
	"github.com/heartmarshall/instant-jisho/internal/coordinator"
	"github.com/heartmarshall/instant-jisho/internal/service/lookup"
	"github.com/heartmarshall/instant-jisho/internal/transport/middleware"
)

// Run is the application entry point. It loads configuration, wires the
// lookup pipeline and serves HTTP until ctx is canceled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log, "jishod")

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.Bool("database", cfg.Database.Enabled()),
	)

	// Both stay nil interfaces when no database is configured.
	var (
		store lookup.Store
		db    pinger
	)
	if cfg.Database.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return err
		}
		defer pool.Close()
		store = lookuprepo.New(pool)
		db = pool
	}

	provider := jisho.NewProviderWithURL(cfg.Jisho.BaseURL, cfg.Jisho.Timeout, logger)
	service := lookup.NewService(logger, store, provider)

	coord, err := coordinator.New(service, coordinator.Options{
		Interval:  cfg.Coordinator.Interval,
		CacheSize: cfg.Coordinator.CacheSize,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	g, gctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           newRouter(cfg, logger, coord, db, limiter),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		// Hijacked WebSocket connections outlive Shutdown; tying request
		// contexts to the group closes them too.
		BaseContext: func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		return coord.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
