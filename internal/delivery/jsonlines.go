package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/fortuna/services/f1-standings-service/pkg/models"
)

// JSONLines writes each message as one JSON document per line
type JSONLines struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSONLines creates a writer over w
func NewJSONLines(w io.Writer, indent bool) *JSONLines {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return &JSONLines{enc: enc}
}

func (j *JSONLines) Deliver(_ context.Context, msg models.Message) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.enc.Encode(msg); err != nil {
		return fmt.Errorf("encoding %s message: %w", msg.Type, err)
	}
	return nil
}
