package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"todoweb/internal/config"
	"todoweb/internal/storage"
	"todoweb/internal/storage/postgres"
	"todoweb/internal/storage/sqlite"
)

var (
	globalStore        storage.Store
	globalPostgresPool *pgxpool.Pool
)

// MustOpenStore opens the persistence driver named by the config:
// postgres for real deployments, sqlite for local runs.
func MustOpenStore() {
	cfg := config.Global().Storage

	switch cfg.Driver {
	case config.StorageDriverPostgres:
		mustConnectPostgres()
	case config.StorageDriverSQLite:
		store, err := sqlite.Open(globalLogger, cfg.SQLitePath)
		if err != nil {
			globalLogger.Error().
				Err(err).
				Msg("failed to open sqlite store")
			panic(err)
		}
		globalStore = store
	default:
		err := fmt.Errorf("unknown storage driver: %s", cfg.Driver)
		globalLogger.Error().
			Str("driver", cfg.Driver).
			Msg("unknown storage driver")
		panic(err)
	}

	globalLogger.Info().
		Str("driver", cfg.Driver).
		Msg("opened store")
}

func CloseStore() {
	if globalPostgresPool != nil {
		globalPostgresPool.Close()
		globalLogger.Info().Msg("disconnected from postgres")
	}
}

func mustConnectPostgres() {
	cfg := config.Global().Postgres
	connURL := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Username, cfg.Password, cfg.Host,
		cfg.Port, cfg.Database, cfg.SSLMode)

	poolCfg, err := pgxpool.ParseConfig(connURL)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to parse postgres config")
		panic(err)
	}
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	globalPostgresPool, err = pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to connect to postgres")
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	err = globalPostgresPool.Ping(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to ping postgres")
		panic(err)
	}
	globalLogger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Msg("connected to postgres")

	store := postgres.New(globalLogger, globalPostgresPool)
	err = store.EnsureSchema(context.Background())
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to ensure schema")
		panic(err)
	}
	globalStore = store
}
