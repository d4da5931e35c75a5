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
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/medikart/storefront/internal/api"
	"github.com/medikart/storefront/internal/cart"
	"github.com/medikart/storefront/internal/checkout"
	"github.com/medikart/storefront/internal/config"
	"github.com/medikart/storefront/internal/domain"
	"github.com/medikart/storefront/internal/gateway"
	"github.com/medikart/storefront/internal/kv"
	"github.com/medikart/storefront/internal/port"
	"github.com/medikart/storefront/internal/session"
)

func main() {
	configPath := flag.String("config", "", "optional .env style config file")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(*configPath, logger); err != nil {
		logger.Fatal("storefront exited", zap.Error(err))
	}
}

func run(configPath string, logger *zap.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, cleanup, err := openKV(ctx, cfg)
	if err != nil {
		return fmt.Errorf("openKV: %w", err)
	}
	defer cleanup()

	sessions := session.NewManager(ctx, store, logger)

	client, err := api.NewClient(api.Config{
		BaseURL:      cfg.APIBaseURL,
		PhotoBaseURL: cfg.PhotoBaseURL,
		Currency:     cfg.CurrencyUnit(),
	}, sessions, logger)
	if err != nil {
		return fmt.Errorf("api.NewClient: %w", err)
	}

	cartStore := cart.NewStore(ctx, store, logger)
	defer cartStore.Close()

	orchestrator := checkout.NewOrchestrator(cartStore, client, checkout.Fees{
		Shipping: domain.NewMoney(cfg.ShippingFeeAmount(), cfg.CurrencyUnit()),
		Admin:    domain.NewMoney(cfg.AdminFeeAmount(), cfg.CurrencyUnit()),
	}, logger)

	handler := gateway.NewHandler(client, client, client, cartStore, orchestrator, sessions, logger)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront gateway listening", zap.String("addr", cfg.ListenAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server.ListenAndServe: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server.Shutdown: %w", err)
		}
	}

	return nil
}

func openKV(ctx context.Context, cfg config.Config) (port.KV, func(), error) {
	noop := func() {}

	switch cfg.Storage {
	case "memory":
		return kv.NewMemory(), noop, nil

	case "file":
		store, err := kv.NewFile(cfg.StatePath)
		if err != nil {
			return nil, nil, fmt.Errorf("kv.NewFile: %w", err)
		}
		return store, noop, nil

	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		return kv.NewRedis(client, cfg.StateScope), func() { client.Close() }, nil

	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
		}

		store, err := kv.NewPostgres(pool, cfg.StateScope)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("kv.NewPostgres: %w", err)
		}
		return store, pool.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
}
