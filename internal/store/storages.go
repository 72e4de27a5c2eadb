package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MKhiriev/oni-auth/internal/config"
	"github.com/MKhiriev/oni-auth/internal/logger"
)

// Storages groups the repositories handed to the service layer.
type Storages struct {
	AccountRepository   AccountRepository
	WhitelistRepository WhitelistRepository
	Fixtures            Fixtures

	db    *DB
	redis *redis.Client
}

// NewStorages connects the database, applies migrations and, when a Redis
// URL is configured, puts the whitelist behind a cache.
func NewStorages(ctx context.Context, cfg config.Storage, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectDB(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("database connection error: %w", err)
	}

	if err = db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	storages := &Storages{
		AccountRepository:   NewAccountRepository(db, logger),
		WhitelistRepository: NewWhitelistRepository(db, logger),
		Fixtures:            NewFixtures(db, logger),
		db:                  db,
	}

	if cfg.Redis.URL != "" {
		rdb, err := NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		storages.redis = rdb
		storages.WhitelistRepository = NewCachedWhitelistRepository(storages.WhitelistRepository, rdb, cfg.Redis.WhitelistTTL, logger)
	}

	return storages, nil
}

// Ping checks the database connection. It backs the health endpoint.
func (s *Storages) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database and Redis connections.
func (s *Storages) Close() error {
	var redisErr error
	if s.redis != nil {
		redisErr = s.redis.Close()
	}
	if err := s.db.Close(); err != nil {
		return err
	}
	return redisErr
}
