package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tonwork/jetton-engine/internal/application/services"
	"github.com/tonwork/jetton-engine/internal/config"
	"github.com/tonwork/jetton-engine/internal/infrastructure/cache"
	"github.com/tonwork/jetton-engine/internal/infrastructure/claimapi"
	"github.com/tonwork/jetton-engine/internal/infrastructure/database"
	"github.com/tonwork/jetton-engine/internal/infrastructure/ton"
	"github.com/tonwork/jetton-engine/internal/infrastructure/tonapi"
	"github.com/tonwork/jetton-engine/internal/presentation/handlers"
	"github.com/tonwork/jetton-engine/internal/presentation/middleware"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger := setupLogger(cfg.Log.Level)
	defer logger.Sync()

	logger.Info("Starting jetton-engine API",
		zap.Int("port", cfg.API.Port),
	)

	// Connect to database
	db, err := database.NewPostgresDB(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Connect to Redis cache (optional)
	var redisCache *cache.RedisCache
	redisCache, err = cache.NewRedisCache(cfg.Redis, cfg.API.CacheTTL, logger)
	if err != nil {
		logger.Warn("Failed to connect to Redis, running without cache", zap.Error(err))
		redisCache = nil
	} else {
		defer redisCache.Close()
	}

	// Connect to TON liteservers
	connectCtx, connectCancel := context.WithTimeout(context.Background(), cfg.Ton.RequestTimeout)
	ledger, err := ton.NewClient(connectCtx, cfg.Ton, logger)
	connectCancel()
	if err != nil {
		logger.Fatal("Failed to connect to TON liteservers", zap.Error(err))
	}

	// HTTP gateways
	tonapiClient := tonapi.NewClient(cfg.TonAPI, logger)
	claimClient := claimapi.NewClient(cfg.Claim, logger)

	// Create repositories
	tokenRepo := database.NewTokenRepo(db.DB())

	// Create services
	mintlessService := services.NewMintlessService(ledger, claimClient, logger)
	transferService := services.NewTransferService(ledger, tokenRepo, mintlessService, cfg.Fees.Schedule(), logger)
	tokenService := services.NewTokenService(tokenRepo, tonapiClient, redisCache, cfg.Fees, logger)
	balanceService := services.NewBalanceService(tonapiClient, tokenRepo, cfg.Fees, logger)

	// Create handlers
	transferMetrics := middleware.NewTransferMetrics()
	transferHandler := handlers.NewTransferHandler(transferService, transferMetrics, logger)
	tokenHandler := handlers.NewTokenHandler(tokenService, logger)
	balanceHandler := handlers.NewBalanceHandler(balanceService, logger)

	var cacheChecker handlers.HealthChecker
	if redisCache != nil {
		cacheChecker = redisCache
	}
	healthHandler := handlers.NewHealthHandler(db, cacheChecker, ledger)

	// Setup router
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RateLimiter(cfg.API.RateLimitRPS))

	// Health and probe endpoints
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Get("/live", healthHandler.Live)
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		transferHandler.RegisterRoutes(r)
		tokenHandler.RegisterRoutes(r)
		balanceHandler.RegisterRoutes(r)
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.API.ReadTimeout,
		WriteTimeout: cfg.API.WriteTimeout,
	}

	// Run server in goroutine
	go func() {
		logger.Info("API server starting", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("Received shutdown signal, shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func setupLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, _ := config.Build()
	return logger
}
