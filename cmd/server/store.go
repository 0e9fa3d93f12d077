package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rahul4469/landmark-guide/internal/config"
	"github.com/rahul4469/landmark-guide/internal/models"
	"github.com/rahul4469/landmark-guide/migrations"
)

// sessionStore is the configured backend plus what it needs for health
// checks and shutdown.
type sessionStore struct {
	models.SessionStore
	checks  map[string]func(context.Context) error
	closers []func()
}

func (s *sessionStore) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func openSessionStore(ctx context.Context, cfg *config.Config, sealer models.Sealer, logger *slog.Logger) (*sessionStore, error) {
	ttl := cfg.Security.SessionDuration
	s := &sessionStore{checks: map[string]func(context.Context) error{}}

	switch cfg.Store.Backend {
	case config.StorePostgres:
		logger.Info("connecting to database")
		db, err := models.NewDatabase(ctx, models.DefaultDatabaseConfig(cfg.Store.DatabaseURL))
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, db.Close)

		sqlDB := db.SQLDB()
		s.closers = append(s.closers, func() { sqlDB.Close() })
		if err := models.MigrateFS(sqlDB, migrations.FS, "."); err != nil {
			s.Close()
			return nil, err
		}

		pg := models.NewPostgresSessionStore(db, ttl, sealer)
		if n, err := pg.PurgeExpired(ctx); err != nil {
			logger.Warn("expired session purge failed", "error", err)
		} else if n > 0 {
			logger.Info("purged expired sessions", "count", n)
		}

		s.SessionStore = pg
		s.checks["postgres"] = db.Health

	case config.StoreRedis:
		logger.Info("connecting to redis")
		client, err := models.OpenRedis(ctx, cfg.Store.RedisURL)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() { client.Close() })

		s.SessionStore = models.NewRedisSessionStore(client, ttl, sealer)
		s.checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }

	case config.StoreMemory:
		s.SessionStore = models.NewMemorySessionStore(ttl, sealer)

	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Store.Backend)
	}

	return s, nil
}
