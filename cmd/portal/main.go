package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"trainhub/portal/internal/config"
	"trainhub/portal/internal/flagstore"
	"trainhub/portal/internal/handlers"
	"trainhub/portal/internal/jobs"
	"trainhub/portal/internal/log"
	"trainhub/portal/internal/pdfcache"
	"trainhub/portal/internal/redirect"
	"trainhub/portal/internal/server"
	"trainhub/portal/internal/session"
	"trainhub/portal/internal/storage"
	"trainhub/portal/internal/upstream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	redisClient, err := flagstore.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	// The object store is optional at runtime: without it the document
	// cache degrades to pass-through fetches and viewing keeps working.
	var objectStore *storage.ObjectStore
	if store, err := storage.NewObjectStore(cfg.Storage); err != nil {
		logger.Warn().Err(err).Msg("object store unavailable, document caching disabled")
	} else if err := store.EnsureBucket(ctx); err != nil {
		logger.Warn().Err(err).Msg("ensure bucket failed, document caching disabled")
	} else {
		objectStore = store
	}

	apiClient := upstream.NewClient(cfg.Upstream, logger)
	respCache := upstream.NewResponseCache(redisClient, cfg.Session.ResponseCacheTTL, logger)
	presenter := redirect.NewPresenter(logger)

	// Sessions are wired before the router exists, so every request can
	// hydrate before any guard evaluation runs.
	sessions := session.NewManager(redisClient, cfg.Session, logger)
	sessions.OnPurge(func(ctx context.Context, namespace string) {
		respCache.Purge(ctx, namespace)
	})

	documents := pdfcache.New(nil, logger)
	if objectStore != nil {
		documents = pdfcache.New(objectStore, logger)
	}

	handlerSet := handlers.NewHandlerSet(logger, cfg, apiClient, sessions, presenter, documents, respCache, redisClient)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	scheduler := jobs.NewScheduler(objectStore, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("forced shutdown failed")
		}
	}

	if scheduler != nil {
		cancel := scheduler.Stop()
		cancel()
	}

	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close error")
	}

	logger.Info().Msg("server exited cleanly")
}
