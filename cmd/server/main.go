// Package main is the entry point for the inventra validation server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"inventra/internal/config"
	"inventra/internal/domain/auth"
	"inventra/internal/domain/documents/voucher"
	"inventra/internal/domain/ledger"
	"inventra/internal/domain/payments/cheque"
	"inventra/internal/domain/registers/stock"
	"inventra/internal/infrastructure/cache"
	v1 "inventra/internal/infrastructure/http/v1"
	"inventra/internal/infrastructure/http/v1/handlers"
	"inventra/internal/infrastructure/http/v1/middleware"
	"inventra/internal/infrastructure/storage/postgres"
	"inventra/internal/infrastructure/storage/postgres/read_repo"
	"inventra/pkg/logger"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.App.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx := context.Background()
	log.Info("starting inventra validation server")

	// --- Database (read model) ---
	poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	poolCfg.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)
	checks := map[string]handlers.Pinger{"database": pool}

	// --- Customer cache (optional) ---
	var customers ledger.CustomerReader = read_repo.NewCustomerRepo(txManager)
	if cfg.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		customerCache := cache.NewCustomerCache(client, customers, cfg.Redis.CustomerTTL)
		if err := customerCache.Ping(ctx); err != nil {
			log.Warnw("redis unavailable, customer lookups fall through to database", "error", err)
		}
		customers = customerCache
		checks["redis"] = customerCache
		log.Infow("customer cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CustomerTTL)
	}

	// --- Checkers ---
	validation := handlers.NewValidationHandler(handlers.ValidationDeps{
		Stock:    stock.NewChecker(read_repo.NewStockRepo(txManager), txManager),
		Credit:   ledger.NewChecker(customers, read_repo.NewLedgerRepo(txManager), txManager),
		Cheques:  cheque.NewChecker(read_repo.NewChequeRepo(txManager)),
		Vouchers: voucher.NewChecker(read_repo.NewVoucherRepo(txManager)),
	}, handlers.ValidationConfig{
		BlockIfExceeded: cfg.Credit.BlockIfExceeded,
		PostDatedMonths: cfg.Cheque.PostDatedWarningMonths,
	})

	// --- JWT (optional) ---
	var jwtValidator middleware.JWTValidator
	if cfg.JWT.Secret != "" {
		jwtCfg := auth.DefaultJWTConfig(cfg.JWT.Secret)
		jwtCfg.Issuer = cfg.JWT.Issuer
		jwtCfg.AccessTokenTTL = cfg.JWT.AccessTokenTTL
		jwtService, err := auth.NewJWTService(jwtCfg)
		if err != nil {
			log.Fatalw("failed to initialize jwt", "error", err)
		}
		jwtValidator = jwtService
	} else {
		log.Warn("JWT_SECRET not set, authentication disabled")
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:       log,
		JWTValidator: jwtValidator,
		Validation:   validation,
		Health:       handlers.NewHealthHandler(checks),
		Debug:        cfg.App.IsDevelopment(),
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
		IdleTimeout:  cfg.App.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "port", cfg.App.Port, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	pool.LogStats(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
