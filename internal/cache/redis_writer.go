package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fortuna/services/f1-standings-service/pkg/models"
	"github.com/redis/go-redis/v9"
)

// TTL constants
const (
	DataTTL  = 48 * time.Hour
	ErrorTTL = 6 * time.Hour
)

// ErrNotCached is returned by ReadLatest when no message of the type is stored
var ErrNotCached = errors.New("message not cached")

// RedisWriter caches the latest delivered messages in Redis
type RedisWriter struct {
	client *redis.Client
}

// NewRedisWriter creates a new Redis writer
func NewRedisWriter(client *redis.Client) *RedisWriter {
	return &RedisWriter{
		client: client,
	}
}

// MessageKey is the per-season key of a data message type
func MessageKey(season int, messageType string) string {
	return fmt.Sprintf("f1:%d:%s", season, messageType)
}

// LatestKey always points at the most recent season's message
func LatestKey(messageType string) string {
	return fmt.Sprintf("f1:latest:%s", messageType)
}

// ErrorKey holds the last failure of a category
func ErrorKey(season int, category models.Category) string {
	return fmt.Sprintf("f1:%d:error:%s", season, category)
}

// Deliver stores msg under its season key and the latest key.
// A successful data message clears the category's error key.
func (w *RedisWriter) Deliver(ctx context.Context, msg models.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling %s message: %w", msg.Type, err)
	}

	pipe := w.client.Pipeline()
	if msg.Type == models.MessageTypeError {
		pipe.Set(ctx, ErrorKey(msg.Season, msg.Category), data, ErrorTTL)
	} else {
		pipe.Set(ctx, MessageKey(msg.Season, msg.Type), data, DataTTL)
		pipe.Set(ctx, LatestKey(msg.Type), data, DataTTL)
		pipe.Del(ctx, ErrorKey(msg.Season, msg.Category))
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("caching %s message: %w", msg.Type, err)
	}
	return nil
}

// ReadLatest retrieves the most recent message of a data type
func (w *RedisWriter) ReadLatest(ctx context.Context, messageType string) (*models.Message, error) {
	data, err := w.client.Get(ctx, LatestKey(messageType)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotCached
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s message: %w", messageType, err)
	}

	var msg models.Message
	if err := json.Unmarshal([]byte(data), &msg); err != nil {
		return nil, fmt.Errorf("unmarshaling %s message: %w", messageType, err)
	}

	return &msg, nil
}
