package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fortuna/services/f1-standings-service/pkg/models"
	"github.com/redis/go-redis/v9"
)

// DefaultStream receives every delivered message
const DefaultStream = "f1.updates"

// maxStreamLen caps the stream; the oldest entries are trimmed approximately
const maxStreamLen = 1000

// StreamPublisher publishes delivered messages to a Redis stream
type StreamPublisher struct {
	client *redis.Client
	stream string
}

// NewStreamPublisher creates a new stream publisher. An empty stream uses DefaultStream.
func NewStreamPublisher(client *redis.Client, stream string) *StreamPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &StreamPublisher{
		client: client,
		stream: stream,
	}
}

// Deliver appends msg to the stream
func (p *StreamPublisher) Deliver(ctx context.Context, msg models.Message) error {
	values, err := StreamValues(msg)
	if err != nil {
		return err
	}

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: maxStreamLen,
		Approx: true,
		Values: values,
	}).Err()
}

// StreamValues builds the stream entry fields for msg
func StreamValues(msg models.Message) (map[string]interface{}, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s message: %w", msg.Type, err)
	}

	return map[string]interface{}{
		"data":       string(data),
		"type":       msg.Type,
		"category":   string(msg.Category),
		"generation": strconv.FormatUint(msg.Generation, 10),
		"season":     strconv.Itoa(msg.Season),
	}, nil
}
