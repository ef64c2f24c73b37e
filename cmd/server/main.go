package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"supply-chain-optimizer/internal/adapters/cache"
	"supply-chain-optimizer/internal/adapters/journal"
	"supply-chain-optimizer/internal/api"
	"supply-chain-optimizer/internal/config"
	"supply-chain-optimizer/internal/geo"
	"supply-chain-optimizer/internal/platform/db"
	"supply-chain-optimizer/internal/platform/obs"
	"supply-chain-optimizer/internal/ports"
	"supply-chain-optimizer/internal/services"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// main is the application composition root.
// It wires the optional journal (Postgres or SQLite) and Redis result cache
// behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := obs.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metric, err := geo.ParseMetric(cfg.DistanceMetric)
	if err != nil {
		return err
	}

	runJournal, closeJournal, err := openJournal(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeJournal()

	resultCache, closeCache, err := openCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	metrics := obs.NewMetrics()
	optimizer := services.NewOptimizer(services.Options{
		SolveTimeout: cfg.SolveTimeout,
		Cluster: services.ClusterOptions{
			Seed:     cfg.ClusterSeed,
			Restarts: cfg.ClusterRestarts,
		},
		MaxRoutingNodes: cfg.MaxRoutingNodes,
		Metric:          metric,
	}, logger, runJournal, metrics)

	router := api.NewRouter(optimizer, resultCache, metrics, logger)

	// WriteTimeout leaves room for a full solve timeout plus encoding.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.SolveTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openJournal prefers Postgres, falls back to SQLite, and runs without a
// journal when neither is configured.
func openJournal(ctx context.Context, cfg *config.Config) (ports.RunJournal, func(), error) {
	var (
		conn    *sql.DB
		dialect journal.Dialect
		err     error
	)
	switch {
	case cfg.DatabaseURL != "":
		conn, err = db.Open(ctx, cfg.DatabaseURL)
		dialect = journal.Postgres
	case cfg.DBPath != "":
		conn, err = db.OpenSQLite(ctx, cfg.DBPath)
		dialect = journal.SQLite
	default:
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, nil, err
	}

	if err := journal.InitSchema(ctx, conn, dialect); err != nil {
		conn.Close()
		return nil, nil, err
	}

	closeFn := func() { _ = conn.Close() }
	if dialect == journal.Postgres {
		return journal.NewSQLRunJournal(conn), closeFn, nil
	}
	return journal.NewSqliteRunJournal(conn), closeFn, nil
}

func openCache(ctx context.Context, cfg *config.Config) (ports.ResultCache, func(), error) {
	if cfg.RedisAddr == "" || cfg.CacheTTL == 0 {
		return nil, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, err
	}

	return cache.NewRedisResultCache(client, cfg.CacheTTL), func() { _ = client.Close() }, nil
}
