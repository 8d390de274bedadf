package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"campus-canteen/internal/config"
)

const uniqueViolation = "23505"

// ConnectDB opens the Postgres pool, retrying until the server answers a ping.
func ConnectDB(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	return connect(ctx, cfg.DSN(), cfg.MaxConns)
}

// ConnectDSN is ConnectDB for a raw connection string.
func ConnectDSN(ctx context.Context, dsn string) (*sqlx.DB, error) {
	return connect(ctx, dsn, 0)
}

func connect(ctx context.Context, dsn string, maxConns int) (*sqlx.DB, error) {
	const (
		maxRetries = 10
		retryDelay = 2 * time.Second
		pingTTL    = 5 * time.Second
	)

	var db *sqlx.DB
	var err error

	for i := 1; i <= maxRetries; i++ {
		db, err = sqlx.Open("pgx", dsn)
		if err != nil {
			select {
			case <-time.After(retryDelay):
				continue
			case <-ctx.Done():
				return nil, fmt.Errorf("db open canceled: %w", ctx.Err())
			}
		}
		if maxConns > 0 {
			db.SetMaxOpenConns(maxConns)
		}

		pctx, cancel := context.WithTimeout(ctx, pingTTL)
		err = db.PingContext(pctx)
		cancel()
		if err == nil {
			return db, nil
		}

		_ = db.Close()

		select {
		case <-time.After(retryDelay):
			continue
		case <-ctx.Done():
			return nil, fmt.Errorf("db ping canceled: %w", ctx.Err())
		}
	}

	return nil, fmt.Errorf("database unreachable after %d attempts: %w", maxRetries, err)
}

// IsUniqueViolation reports whether err is a Postgres unique constraint failure.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
