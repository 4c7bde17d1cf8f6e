package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hotelservice/pkg/config"
)

// Open connects a pgx pool using the resolved connection string and verifies
// the connection with a ping before handing it out.
//
// The snapshot repositories rewrite whole tables per flush, so statement
// caching buys little here; when the DSN goes through PgBouncer (marked by
// `pgbouncer=true`) prepared statements are disabled outright, since poolers
// do not support them.
func Open(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	url := connString(cfg)

	pcfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, err
	}
	if strings.Contains(strings.ToLower(url), "pgbouncer=true") {
		pcfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
		pcfg.ConnConfig.StatementCacheCapacity = 0
		pcfg.ConnConfig.DescriptionCacheCapacity = 0
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// WithTx runs fn inside a transaction, committing on success and rolling
// back on error or panic. Every snapshot flush goes through here so a
// collection rewrite is all-or-nothing.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// connString prefers the full DATABASE_URL and falls back to the discrete
// DB_* settings.
func connString(cfg config.Config) string {
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		return cfg.DatabaseURL
	}
	sslmode := cfg.DB.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name, sslmode,
	)
}

// migrateConnString is the DSN migrations run against. Hosted Postgres
// setups should point DIRECT_URL past any pooler; locally the runtime
// string works fine.
func migrateConnString(cfg config.Config) string {
	if strings.TrimSpace(cfg.DirectURL) != "" {
		return cfg.DirectURL
	}
	return connString(cfg)
}
