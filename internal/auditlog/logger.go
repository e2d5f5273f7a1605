package auditlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fortuna/services/f1-standings-service/pkg/models"
	_ "github.com/lib/pq"
)

const schema = `
	CREATE TABLE IF NOT EXISTS delivery_logs (
		id            BIGSERIAL PRIMARY KEY,
		generation    BIGINT      NOT NULL,
		season        INTEGER     NOT NULL,
		message_type  TEXT        NOT NULL,
		category      TEXT        NOT NULL,
		entry_count   INTEGER     NOT NULL DEFAULT 0,
		error_kind    TEXT,
		error_message TEXT,
		delivered_at  TIMESTAMPTZ NOT NULL
	)
`

// DeliveryLogger records every delivered message to the delivery_logs table
type DeliveryLogger struct {
	db *sql.DB
}

// Entry represents a delivery log row
type Entry struct {
	Generation   uint64
	Season       int
	MessageType  string
	Category     string
	EntryCount   int
	ErrorKind    *string
	ErrorMessage *string
	DeliveredAt  time.Time
}

// NewDeliveryLogger creates a new delivery logger
func NewDeliveryLogger(db *sql.DB) *DeliveryLogger {
	return &DeliveryLogger{
		db: db,
	}
}

// EnsureSchema creates the delivery_logs table if needed
func (l *DeliveryLogger) EnsureSchema(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create delivery_logs: %w", err)
	}
	return nil
}

// Deliver logs msg
func (l *DeliveryLogger) Deliver(ctx context.Context, msg models.Message) error {
	return l.LogEntry(ctx, NewEntry(msg))
}

// LogEntry inserts one row
func (l *DeliveryLogger) LogEntry(ctx context.Context, e Entry) error {
	query := `
		INSERT INTO delivery_logs (
			generation, season, message_type, category,
			entry_count, error_kind, error_message, delivered_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := l.db.ExecContext(ctx, query,
		int64(e.Generation),
		e.Season,
		e.MessageType,
		e.Category,
		e.EntryCount,
		e.ErrorKind,
		e.ErrorMessage,
		e.DeliveredAt,
	)

	if err != nil {
		return fmt.Errorf("failed to log delivery: %w", err)
	}

	return nil
}

// NewEntry maps a message onto a log row
func NewEntry(msg models.Message) Entry {
	e := Entry{
		Generation:  msg.Generation,
		Season:      msg.Season,
		MessageType: msg.Type,
		Category:    string(msg.Category),
		DeliveredAt: msg.Timestamp,
	}
	if e.DeliveredAt.IsZero() {
		e.DeliveredAt = time.Now()
	}

	switch p := msg.Payload.(type) {
	case models.DisplayResult:
		e.EntryCount = len(p.Entries)
	case models.ScheduleUpdate:
		e.EntryCount = len(p.Events)
	case models.ErrorReport:
		kind := string(p.Kind)
		detail := p.Detail
		e.ErrorKind = &kind
		e.ErrorMessage = &detail
	}

	return e
}
