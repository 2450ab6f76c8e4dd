package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/yz-create/magicsearch/internal/config"
	dbPostgres "github.com/yz-create/magicsearch/internal/db/postgres"
	dbRedis "github.com/yz-create/magicsearch/internal/db/redis"
	"github.com/yz-create/magicsearch/internal/domain"
	logpkg "github.com/yz-create/magicsearch/internal/logger"
	"github.com/yz-create/magicsearch/internal/metrics"
	cardrepo "github.com/yz-create/magicsearch/internal/repository/card"
	"github.com/yz-create/magicsearch/internal/repository/embcache"
	searchrepo "github.com/yz-create/magicsearch/internal/repository/search"
	userrepo "github.com/yz-create/magicsearch/internal/repository/user"
	chiTransport "github.com/yz-create/magicsearch/internal/transport/chi"
	openaiEmb "github.com/yz-create/magicsearch/internal/transport/openai"
	authuc "github.com/yz-create/magicsearch/internal/usecase/auth"
	carduc "github.com/yz-create/magicsearch/internal/usecase/card"
	embeddinguc "github.com/yz-create/magicsearch/internal/usecase/embedding"
	healthuc "github.com/yz-create/magicsearch/internal/usecase/health"
	searchuc "github.com/yz-create/magicsearch/internal/usecase/search"
	"github.com/yz-create/magicsearch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting magicsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
	)

	ctx := context.Background()

	store, err := dbPostgres.NewStore(ctx, dbPostgres.Config{
		DSN:      cfg.Database.DSN,
		MaxConns: int32(cfg.Database.MaxConns),
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Optional embedding cache; the service runs without it.
	var cache *dbRedis.Client
	if len(cfg.Cache.Addrs) > 0 {
		cache, err = dbRedis.NewClient(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create embedding cache client", zap.Error(err))
		}
		defer cache.Close()
		logger.Info("Embedding cache enabled", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	// Register embedding metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()

	embedder, baseEmbedder := buildEmbedder(cfg.Embedding, cache, logger)
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	vectorDim := cfg.Embedding.Dimensions
	if vectorDim == 0 {
		vectorDim = domain.DefaultVectorConfig().Dimensions
	}

	cardRepo := cardrepo.New(store)
	searchRepo := searchrepo.New(store)
	userRepo := userrepo.New(store)

	searchSvc := searchuc.New(searchRepo, cardRepo, embedder, vectorDim)
	cardSvc := carduc.New(cardRepo, embedder, vectorDim)
	authSvc := authuc.New(userRepo, []byte(cfg.Auth.JWTSecret),
		time.Duration(cfg.Auth.TokenTTLMin)*time.Minute)

	var cachePinger healthuc.Pinger
	if cache != nil {
		cachePinger = cache
	}
	healthSvc := healthuc.New(store, cachePinger, baseEmbedder)

	server := chiTransport.NewServer(searchSvc, cardSvc, authSvc, healthSvc, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented.
// The base provider is returned separately for health checks.
func buildEmbedder(
	cfg config.EmbeddingConfig,
	cache *dbRedis.Client,
	logger *zap.Logger,
) (domain.Embedder, *openaiEmb.Embedder) {
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		Provider:   cfg.Provider,
		Timeout:    time.Duration(cfg.TimeoutSec) * time.Second,
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if cache != nil {
		embedder = embcache.New(base, cache, metrics.EmbeddingCacheTotal, logger)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, cfg.Provider, cfg.Model, logger)

	return embedder, base
}
