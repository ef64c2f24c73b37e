package main

import (
	"context"
	"flag"
	"strings"
	"supply-chain-optimizer/internal/adapters/journal"
	"supply-chain-optimizer/internal/config"
	"supply-chain-optimizer/internal/platform/db"
	"supply-chain-optimizer/internal/platform/obs"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// dbtool prepares the run-journal schema ahead of deployment.
func main() {
	sqlitePath := flag.String("sqlite", "", "initialise this SQLite file instead of DATABASE_URL")
	flag.Parse()

	logger, envLoaded, err := newLogger()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if !envLoaded {
		logger.Info("no .env file found (using environment variables)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *sqlitePath != "" {
		conn, err := db.OpenSQLite(ctx, *sqlitePath)
		if err != nil {
			logger.Fatal("open sqlite", zap.Error(err))
		}
		defer conn.Close()

		initSchema(logger, func() error { return journal.InitSchema(ctx, conn, journal.SQLite) })
		return
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		logger.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		logger.Fatal("open postgres", zap.Error(err))
	}
	defer conn.Close()

	initSchema(logger, func() error { return journal.InitSchema(ctx, conn, journal.Postgres) })
}

// newLogger loads envFiles (.env by default) before reading LOG_LEVEL so a
// level set there takes effect. envLoaded is false when no file was read.
func newLogger(envFiles ...string) (logger *zap.Logger, envLoaded bool, err error) {
	envLoaded = godotenv.Load(envFiles...) == nil
	logger, err = obs.NewLogger(config.Get("LOG_LEVEL", "info"))
	return logger, envLoaded, err
}

func initSchema(logger *zap.Logger, apply func() error) {
	logger.Info("initializing run journal schema")
	if err := apply(); err != nil {
		logger.Fatal("schema initialization failed", zap.Error(err))
	}
	logger.Info("schema ready")
}
