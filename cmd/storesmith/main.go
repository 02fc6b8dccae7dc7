// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the storesmith API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storesmith/internal/ai"
	"storesmith/internal/assets"
	"storesmith/internal/builder"
	"storesmith/internal/cache"
	"storesmith/internal/catalog"
	"storesmith/internal/config"
	"storesmith/internal/database"
	"storesmith/internal/draft"
	"storesmith/internal/handlers"
	"storesmith/internal/middleware"
	"storesmith/internal/router"
	"storesmith/internal/session"
	"storesmith/internal/storage"
	"storesmith/internal/store"
	"storesmith/internal/storefront"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from .env and environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if !cfg.IsDev() {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})))
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed a demo store (no-op if it already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (sessions, drafts and the store cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)
	drafts := draft.NewStore(valkeyClient)
	storeCache := cache.NewStoreCache(valkeyClient, cfg.StoreCacheTTL)

	aiRegistry := ai.NewRegistry(cfg.AIProvider, cfg.AIConfigs())
	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
	)

	pipeline := builder.New(catalog.Default(), aiRegistry, builder.Options{
		CallTimeout:    cfg.AICallTimeout,
		MaxConcurrency: cfg.AIMaxConcurrency,
	})

	deps := storefront.Deps{
		Repo:      store.NewStorefrontStore(db),
		Pipeline:  pipeline,
		Cache:     storeCache,
		Runs:      store.NewGenerationLogStore(db),
		Moderator: aiRegistry,
	}

	// Hero illustrations need both an image-capable provider and S3.
	if cfg.HeroImagesEnabled {
		if il := newIllustrator(cfg, aiRegistry); il != nil {
			deps.Illustrator = il
		} else {
			slog.Warn("hero illustrations enabled but s3 storage not configured")
		}
	}

	svc := storefront.New(deps)

	h := router.Handlers{
		Stores:  handlers.NewStores(svc, drafts),
		Catalog: handlers.NewCatalog(catalog.Default()),
		Drafts:  handlers.NewDrafts(drafts),
		Public:  handlers.NewPublic(svc),
	}
	if cfg.IsDev() {
		h.Dev = handlers.NewDev(sessionStore)
	}

	var generateLimiter *middleware.RateLimiter
	if cfg.GenerateRateLimit > 0 {
		generateLimiter = middleware.NewRateLimiter(cfg.GenerateRateLimit, time.Minute)
		defer generateLimiter.Stop()
	}

	r := router.New(sessionStore, h, router.Options{
		GenerateLimiter: generateLimiter,
		SecureCookies:   secureCookies,
	})

	// WriteTimeout must cover a whole generation run: metadata, one
	// scoring call per layout and one content call per section.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// newIllustrator connects to S3 and returns nil when storage is not
// configured.
func newIllustrator(cfg *config.Config, images *ai.Registry) *assets.Illustrator {
	if cfg.S3Endpoint == "" || cfg.S3AccessKey == "" {
		return nil
	}
	client, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if client == nil {
		return nil
	}
	slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	return assets.NewIllustrator(images, client, 0)
}
