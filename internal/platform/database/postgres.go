package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/srgjo27/hotel_frontdesk/internal/config"
)

const retryDelay = 2 * time.Second

// NewPostgresDB opens the pool and pings until the database answers or
// cfg.ConnectRetries attempts have failed.
func NewPostgresDB(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*sql.DB, error) {
	maxRetries := cfg.ConnectRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	var db *sql.DB
	var err error

	for i := 1; i <= maxRetries; i++ {
		log.Info("connecting to database",
			zap.String("host", cfg.Host),
			zap.String("name", cfg.Name),
			zap.Int("attempt", i),
			zap.Int("max_attempts", maxRetries),
		)
		db, err = sql.Open("postgres", cfg.DSN())
		if err == nil {
			err = db.PingContext(ctx)
		}

		if err == nil {
			configurePool(db, cfg)
			log.Info("database connected")
			return db, nil
		}

		if db != nil {
			db.Close()
		}
		if i == maxRetries {
			break
		}

		log.Warn("database not ready yet", zap.Duration("retry_in", retryDelay), zap.Error(err))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}

	return nil, fmt.Errorf("failed to connect database after %d attempts: %w", maxRetries, err)
}

func configurePool(db *sql.DB, cfg config.DatabaseConfig) {
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
}
