package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"rental-admin/pkg/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func NewPool(ctx context.Context, cfg *Config, log logger.ILogger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DB config: %w", err)
	}

	if os.Getenv("VERCEL") != "" {
		poolCfg.MaxConns = 5
		poolCfg.MinConns = 0
		poolCfg.MaxConnLifetime = 5 * time.Minute
		poolCfg.MaxConnIdleTime = 1 * time.Minute
		poolCfg.HealthCheckPeriod = 1 * time.Minute
	} else {
		poolCfg.MaxConns = cfg.DBMaxConns
		poolCfg.MinConns = cfg.DBMinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("DB connection failed: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err = pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("DB ping failed: %w", err)
	}

	log.Info("database connected", logger.Int("max_conns", int(poolCfg.MaxConns)))
	return pool, nil
}

func newMigrator(cfg *Config) (*migrate.Migrate, func(), error) {
	sqlDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open DB for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	migrationPath, err := filepath.Abs(cfg.MigrationPath)
	if err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to resolve migration path: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationPath, "postgres", driver)
	if err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to initialize migrator: %w", err)
	}

	return m, func() { m.Close() }, nil
}

// RunMigrations applies every pending up migration.
func RunMigrations(cfg *Config, log logger.ILogger) error {
	m, closeFn, err := newMigrator(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	log.Info("database migrations applied (or already up to date)")
	return nil
}

// RollbackMigrations reverts the last steps migrations.
func RollbackMigrations(cfg *Config, steps int, log logger.ILogger) error {
	m, closeFn, err := newMigrator(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}

	log.Info("database migrations rolled back", logger.Int("steps", steps))
	return nil
}
