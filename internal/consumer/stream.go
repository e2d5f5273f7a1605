package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fortuna/services/f1-standings-service/pkg/contracts"
	"github.com/fortuna/services/f1-standings-service/pkg/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Batch size for reading messages
	batchSize = 100

	// Block duration when waiting for new messages
	blockDuration = 1 * time.Second
)

// ErrInvalidEntry is returned for stream entries without a decodable data field
var ErrInvalidEntry = errors.New("invalid stream entry")

// StreamConsumer reads published messages back from a Redis stream and hands them to a renderer
type StreamConsumer struct {
	redis    *redis.Client
	stream   string
	group    string
	consumer string
	renderer contracts.Renderer
	logger   *slog.Logger
}

// NewStreamConsumer creates a new stream consumer
func NewStreamConsumer(redisClient *redis.Client, stream, group, consumer string, renderer contracts.Renderer, logger *slog.Logger) *StreamConsumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamConsumer{
		redis:    redisClient,
		stream:   stream,
		group:    group,
		consumer: consumer,
		renderer: renderer,
		logger:   logger.With("stream", stream),
	}
}

// Start consumes until ctx is cancelled
func (sc *StreamConsumer) Start(ctx context.Context) error {
	if err := sc.createConsumerGroup(ctx); err != nil {
		return err
	}

	sc.logger.Info("stream consumer started", "group", sc.group, "consumer", sc.consumer)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		streams, err := sc.redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    sc.group,
			Consumer: sc.consumer,
			Streams:  []string{sc.stream, ">"},
			Count:    batchSize,
			Block:    blockDuration,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			sc.logger.Warn("stream read error", "error", err)
			time.Sleep(1 * time.Second)
			continue
		}

		for _, s := range streams {
			for _, message := range s.Messages {
				sc.processMessage(ctx, message)
			}
		}
	}
}

// createConsumerGroup creates the consumer group, tolerating an existing one
func (sc *StreamConsumer) createConsumerGroup(ctx context.Context) error {
	err := sc.redis.XGroupCreateMkStream(ctx, sc.stream, sc.group, "$").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("creating consumer group %s: %w", sc.group, err)
	}
	return nil
}

func (sc *StreamConsumer) processMessage(ctx context.Context, entry redis.XMessage) {
	defer sc.ackMessage(ctx, entry.ID)

	msg, err := DecodeEntry(entry.Values)
	if err != nil {
		sc.logger.Warn("skipping entry", "id", entry.ID, "error", err)
		return
	}

	if err := sc.renderer.Deliver(ctx, msg); err != nil {
		sc.logger.Warn("render failed", "id", entry.ID, "type", msg.Type, "error", err)
	}
}

func (sc *StreamConsumer) ackMessage(ctx context.Context, id string) {
	if err := sc.redis.XAck(ctx, sc.stream, sc.group, id).Err(); err != nil {
		sc.logger.Warn("failed to ack message", "id", id, "error", err)
	}
}

// DecodeEntry turns stream entry fields back into a Message. The payload stays a generic JSON value.
func DecodeEntry(values map[string]interface{}) (models.Message, error) {
	data, ok := values["data"].(string)
	if !ok {
		return models.Message{}, fmt.Errorf("%w: no data field", ErrInvalidEntry)
	}

	var msg models.Message
	if err := json.Unmarshal([]byte(data), &msg); err != nil {
		return models.Message{}, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	return msg, nil
}
