// Package app wires the client core together from configuration.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/rosterkit/internal/events"
	"github.com/felixgeelhaar/rosterkit/internal/transport"
	"github.com/felixgeelhaar/rosterkit/internal/validation"
	"github.com/felixgeelhaar/rosterkit/pkg/config"
)

// Container holds the client core's dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Redis, only when a shared validation result store is configured.
	RedisClient *redis.Client

	Transport  *transport.Client
	Validator  *validation.Client
	Dispatcher *events.Dispatcher
}

// NewContainer builds the client core: transport with breaker, validation
// pipeline with the configured result store, and the signal dispatcher.
// tokens supplies the anti-forgery token for mutating calls; a nil source
// leaves the core validation-only, with every mutation refused as
// ErrNoToken.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, tokens transport.TokenSource) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	c.Transport = transport.NewClient(cfg.APIBaseURL, tokens, logger).
		WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}).
		WithValidatePath(cfg.ValidatePath).
		WithBreakerConfig(transport.BreakerConfig{
			Enabled:          cfg.BreakerEnabled,
			MaxRequests:      uint32(max(cfg.BreakerMaxRequests, 0)),
			Interval:         cfg.BreakerInterval,
			Timeout:          cfg.BreakerTimeout,
			FailureThreshold: uint32(max(cfg.BreakerFailureThreshold, 0)),
		})

	c.Validator = validation.NewClient(c.Transport, logger).
		WithDebounceDelay(cfg.DebounceDelay).
		WithStore(validation.NewMemoryStore(cfg.CacheTTL))

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		c.RedisClient = redis.NewClient(opts)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := c.RedisClient.Ping(pingCtx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}

		c.Validator.WithStore(validation.NewRedisStore(c.RedisClient, "schedule", cfg.CacheTTL, logger))
		logger.Info("using shared redis validation store")
	}

	c.Dispatcher = events.NewDispatcher(logger)

	return c, nil
}

// Close releases the container's resources.
func (c *Container) Close() {
	if c.Validator != nil {
		c.Validator.Close()
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("failed to close redis client", "error", err)
		}
	}
}
