package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/fortuna/services/f1-standings-service/internal/auditlog"
	"github.com/fortuna/services/f1-standings-service/internal/cache"
	"github.com/fortuna/services/f1-standings-service/internal/config"
	"github.com/fortuna/services/f1-standings-service/internal/delivery"
	"github.com/fortuna/services/f1-standings-service/internal/poller"
	"github.com/fortuna/services/f1-standings-service/internal/providers/ergast"
	"github.com/fortuna/services/f1-standings-service/internal/publisher"
	"github.com/fortuna/services/f1-standings-service/internal/registry"
	"github.com/fortuna/services/f1-standings-service/pkg/contracts"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// newPoller wires the upstream client and the enabled category modules to renderer
func newPoller(c *config.Config, renderer contracts.Renderer, logger *slog.Logger) *poller.Poller {
	client := ergast.New(
		ergast.WithBaseURL(c.Upstream.BaseURL),
		ergast.WithTimeout(c.Upstream.RequestTimeout),
	)

	reg := registry.New(registry.Options{
		Drivers:         c.Display.Drivers,
		Constructors:    c.Display.Constructors,
		MaxScheduleRows: c.Display.MaxScheduleRows,
		FocusGP:         c.Display.FocusGP,
	})

	return poller.New(client, reg.Enabled(c.Display.Mode), renderer,
		poller.WithSeason(c.Upstream.Season),
		poller.WithInterval(c.Upstream.UpdateInterval),
		poller.WithRequestTimeout(c.Upstream.RequestTimeout),
		poller.WithLogger(logger.With("component", "poller")),
	)
}

// connectRedis parses the URL and verifies the connection
func connectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// connectDB opens a direct database connection
func connectDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// addOptionalSinks attaches the Redis and Postgres sinks that are configured.
// The returned cleanup closes their connections. The cache writer is nil without Redis.
func addOptionalSinks(ctx context.Context, c *config.Config, fanout *delivery.Fanout, logger *slog.Logger) (*cache.RedisWriter, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var writer *cache.RedisWriter
	if c.Redis.URL != "" {
		redisClient, err := connectRedis(ctx, c.Redis.URL)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, func() { redisClient.Close() })

		writer = cache.NewRedisWriter(redisClient)
		fanout.Add("redis-cache", writer)
		fanout.Add("redis-stream", publisher.NewStreamPublisher(redisClient, c.Stream.Name))
		logger.Info("connected to Redis", "stream", c.Stream.Name)
	}

	if c.Database.URL != "" {
		db, err := connectDB(ctx, c.Database.URL)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, func() { db.Close() })

		audit := auditlog.NewDeliveryLogger(db)
		if err := audit.EnsureSchema(ctx); err != nil {
			return nil, cleanup, err
		}
		fanout.Add("delivery-log", audit)
		logger.Info("connected to Postgres")
	}

	return writer, cleanup, nil
}
