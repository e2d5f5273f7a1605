package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fortuna/services/f1-standings-service/internal/consumer"
	"github.com/fortuna/services/f1-standings-service/internal/delivery"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print messages published to the Redis stream as they arrive",
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	if cfg.Redis.URL == "" {
		return errors.New("watch requires REDIS_URL")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient, err := connectRedis(ctx, cfg.Redis.URL)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	sc := consumer.NewStreamConsumer(
		redisClient,
		cfg.Stream.Name,
		cfg.Stream.ConsumerGroup,
		cfg.Stream.ConsumerID,
		delivery.NewJSONLines(os.Stdout, false),
		slog.Default(),
	)

	return sc.Start(ctx)
}
