package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/sokung536/s-social-feed/config"
	"github.com/sokung536/s-social-feed/internal/adapters/primary/events"
	grpc_adapter "github.com/sokung536/s-social-feed/internal/adapters/primary/grpc"
	"github.com/sokung536/s-social-feed/internal/adapters/primary/rest"
	"github.com/sokung536/s-social-feed/internal/adapters/secondary/eventbroker"
	"github.com/sokung536/s-social-feed/internal/adapters/secondary/repository"
	"github.com/sokung536/s-social-feed/internal/core/ports"
	"github.com/sokung536/s-social-feed/internal/core/services"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP feed API, the gRPC health endpoint and the NATS consumer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(parent context.Context) error {
	// 1. Config & Logger
	cfg := config.Load()
	initLogger(cfg)
	slog.Info("🚀 Starting Social Feed", "config", cfg)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	// 2. Télémétrie (Tracing)
	if cfg.OtelEndpoint != "" {
		tp, err := initTracer(ctx, cfg)
		if err != nil {
			slog.Error("Failed to init tracer", "error", err)
		} else {
			defer func() { _ = tp.Shutdown(context.Background()) }()
		}
	}

	// 3. Infrastructure: stores (Redis ou mémoire)
	var (
		timelines ports.TimelineStore
		profiles  ports.ProfileStore
	)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisotel.InstrumentTracing(rdb); err != nil {
			return fmt.Errorf("instrument redis: %w", err)
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("unable to connect to redis: %w", err)
		}
		defer rdb.Close()
		slog.Info("✅ Connected to Redis")
		timelines = repository.NewRedisTimelineRepo(rdb, cfg.TimelineTTL)
		profiles = repository.NewRedisProfileRepo(rdb, cfg.TimelineTTL)
	} else {
		mem := repository.NewMemoryRepo()
		timelines, profiles = mem, mem
		slog.Info("Using in-memory stores (REDIS_ADDR not set)")
	}

	// 4. Infrastructure: Event Broker NATS
	var (
		publisher ports.EventPublisher = eventbroker.NopPublisher{}
		nc        *nats.Conn
	)
	if cfg.NatsUrl != "" {
		var err error
		nc, err = nats.Connect(cfg.NatsUrl)
		if err != nil {
			return fmt.Errorf("unable to connect to nats: %w", err)
		}
		defer nc.Close()
		publisher = eventbroker.NewNatsPublisher(nc)
		slog.Info("✅ Connected to NATS")
	}

	// 5. Initialisation du Core
	c := newCore(cfg)
	feedService := c.feedService(cfg, timelines, publisher)
	profileService := services.NewProfileService(profiles)
	friendService := services.NewFriendService(c.media, nil)

	// 6. Consumer NATS (Driving Adapter - Async)
	if nc != nil {
		handler := events.NewEventHandler(feedService)
		if _, err := nc.Subscribe(events.SubjectLoadMore, handler.HandleLoadMore); err != nil {
			return fmt.Errorf("subscribe %s: %w", events.SubjectLoadMore, err)
		}
		slog.Info("👂 Listening for events (NATS)", "subject", events.SubjectLoadMore)
	}

	// 7. Health gRPC : SERVING quand l'annuaire est chaud
	healthServer := grpc_adapter.NewHealthServer(c.directory)
	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return fmt.Errorf("failed to listen on grpc port: %w", err)
	}
	go func() {
		if err := healthServer.Server().Serve(lis); err != nil {
			slog.Error("gRPC server error", "error", err)
		}
	}()
	go healthServer.WarmUp(ctx, 15*time.Second)
	slog.Info("📡 gRPC health listening", "port", cfg.GRPCPort)

	// 8. Serveur HTTP (Driving Adapter - Sync)
	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	api := rest.NewServer(feedService, profileService, friendService, cfg.AllowedOrigins)
	srvHTTP := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("📡 Feed API listening", "port", cfg.HTTPPort)
		if err := srvHTTP.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		slog.Error("HTTP server error", "error", err)
	}
	slog.Info("🛑 Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srvHTTP.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	healthServer.Shutdown()

	slog.Info("👋 Server exited")
	return nil
}
