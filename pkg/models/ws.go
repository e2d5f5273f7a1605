package models

import "time"

// Control message types exchanged with websocket clients
const (
	MessageTypeSubscribe       = "subscribe"
	MessageTypeUnsubscribe     = "unsubscribe"
	MessageTypeHeartbeat       = "heartbeat"
	MessageTypeClientError     = "client_error"
	MessageTypeConnectionStats = "connection_stats"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client.
// Data deliveries carry the full Message as payload.
type ServerMessage struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// SubscriptionFilter narrows what a client receives. Empty means everything.
type SubscriptionFilter struct {
	Types      []string   `json:"types,omitempty"`
	Categories []Category `json:"categories,omitempty"`
}

// Matches reports whether msg passes the filter
func (f SubscriptionFilter) Matches(msg Message) bool {
	if len(f.Types) > 0 && !containsString(f.Types, msg.Type) {
		return false
	}
	if len(f.Categories) > 0 {
		for _, c := range f.Categories {
			if c == msg.Category {
				return true
			}
		}
		return false
	}
	return true
}

// ErrorMessage is sent to a client that sent something unusable
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ConnectionStats represents connection statistics
type ConnectionStats struct {
	ClientID          string    `json:"client_id"`
	ConnectedAt       time.Time `json:"connected_at"`
	MessagesSent      int64     `json:"messages_sent"`
	MessagesReceived  int64     `json:"messages_received"`
	LastMessageAt     time.Time `json:"last_message_at"`
	BufferSize        int       `json:"buffer_size"`
	BufferUtilization float64   `json:"buffer_utilization_pct"`
}

func containsString(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
