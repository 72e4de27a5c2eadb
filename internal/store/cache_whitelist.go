// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MKhiriev/oni-auth/internal/logger"
	"github.com/MKhiriev/oni-auth/models"
)

const (
	whitelistKeyPrefix     = "oni:whitelist:"
	whitelistGenerationKey = whitelistKeyPrefix + "generation"
)

// cachedWhitelist is a read-through Redis cache in front of a
// [WhitelistRepository].
//
// Cached decisions are keyed by a generation counter that Add increments,
// so a new domain entry invalidates every cached "false" at once. Redis
// errors are logged and the call falls through to the database.
type cachedWhitelist struct {
	next   WhitelistRepository
	rdb    redis.UniversalClient
	ttl    time.Duration
	logger *logger.Logger
}

// NewCachedWhitelistRepository decorates next with a Redis cache.
func NewCachedWhitelistRepository(next WhitelistRepository, rdb redis.UniversalClient, ttl time.Duration, logger *logger.Logger) WhitelistRepository {
	logger.Debug().Dur("ttl", ttl).Msg("creating cached whitelist repository")
	return &cachedWhitelist{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

// NewRedisClient connects to the Redis server at url and verifies the
// connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("error parsing redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err = client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("error connecting redis (ping): %w", err)
	}
	return client, nil
}

func (c *cachedWhitelist) IsWhitelisted(ctx context.Context, email string) (bool, error) {
	log := logger.FromContext(ctx)
	email = models.NormalizeEmail(email)

	key, err := c.key(ctx, email)
	if err != nil {
		log.Warn().Err(err).Msg("whitelist cache unavailable")
		return c.next.IsWhitelisted(ctx, email)
	}

	cached, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		return cached == "1", nil
	case !errors.Is(err, redis.Nil):
		log.Warn().Err(err).Msg("error reading whitelist cache")
	}

	whitelisted, err := c.next.IsWhitelisted(ctx, email)
	if err != nil {
		return false, err
	}

	value := "0"
	if whitelisted {
		value = "1"
	}
	if err = c.rdb.Set(ctx, key, value, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("error writing whitelist cache")
	}

	return whitelisted, nil
}

func (c *cachedWhitelist) Add(ctx context.Context, entry models.WhitelistEntry) (models.WhitelistEntry, error) {
	added, err := c.next.Add(ctx, entry)
	if err != nil {
		return models.WhitelistEntry{}, err
	}

	if err = c.rdb.Incr(ctx, whitelistGenerationKey).Err(); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("error invalidating whitelist cache")
	}
	return added, nil
}

func (c *cachedWhitelist) key(ctx context.Context, email string) (string, error) {
	generation, err := c.rdb.Get(ctx, whitelistGenerationKey).Result()
	if errors.Is(err, redis.Nil) {
		generation = "0"
	} else if err != nil {
		return "", err
	}
	return whitelistKeyPrefix + generation + ":" + email, nil
}
