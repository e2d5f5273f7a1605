package hub

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/fortuna/services/f1-standings-service/internal/client"
	"github.com/fortuna/services/f1-standings-service/pkg/models"
)

// ErrBufferFull is returned by Deliver when the broadcast buffer cannot take another message
var ErrBufferFull = errors.New("broadcast buffer full")

// Hub maintains the set of active clients and broadcasts delivered messages to them
type Hub struct {
	// Registered clients
	clients   map[*client.Client]bool
	clientsMu sync.RWMutex

	// Inbound messages from the poller
	broadcast chan models.Message

	// Register requests from clients
	register chan *client.Client

	// Unregister requests from clients
	unregister chan *client.Client

	// Closed once Run returns
	done chan struct{}

	// Messages replayed to a client when it connects
	replay func() []models.Message

	logger *slog.Logger

	// Metrics
	totalConnections int64
	totalMessages    int64
	metricsMu        sync.Mutex
}

// NewHub creates a new Hub. replay may be nil.
func NewHub(replay func() []models.Message, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[*client.Client]bool),
		broadcast:  make(chan models.Message, 100),
		register:   make(chan *client.Client),
		unregister: make(chan *client.Client),
		done:       make(chan struct{}),
		replay:     replay,
		logger:     logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("hub started")
	defer close(h.done)

	go h.reportMetrics(ctx)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case msg := <-h.broadcast:
			h.broadcastMessage(msg)
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(c *client.Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(c *client.Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Deliver queues msg for every subscribed client without blocking
func (h *Hub) Deliver(_ context.Context, msg models.Message) error {
	select {
	case h.broadcast <- msg:
		return nil
	default:
		h.logger.Warn("broadcast buffer full, dropping message", "type", msg.Type, "category", msg.Category)
		return ErrBufferFull
	}
}

// registerClient adds a client and replays the latest messages to it
func (h *Hub) registerClient(c *client.Client) {
	h.clientsMu.Lock()
	h.clients[c] = true
	total := len(h.clients)
	h.clientsMu.Unlock()

	h.metricsMu.Lock()
	h.totalConnections++
	h.metricsMu.Unlock()

	h.logger.Info("client connected", "client", c.ID, "total", total)

	if h.replay == nil {
		return
	}
	for _, msg := range h.replay() {
		if c.MatchesFilter(msg) {
			c.TrySend(toServerMessage(msg))
		}
	}
}

// unregisterClient removes a client from the active clients map
func (h *Hub) unregisterClient(c *client.Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.Close()
		h.logger.Info("client disconnected", "client", c.ID, "total", len(h.clients))
	}
}

// broadcastMessage sends a message to all clients whose filter matches
func (h *Hub) broadcastMessage(msg models.Message) {
	h.clientsMu.RLock()
	clients := make([]*client.Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	out := toServerMessage(msg)
	sent := 0
	dropped := 0

	for _, c := range clients {
		if !c.MatchesFilter(msg) {
			continue
		}

		if c.TrySend(out) {
			sent++
		} else {
			dropped++
			// too slow, disconnect
			h.logger.Warn("client buffer full, disconnecting", "client", c.ID)
			go h.Unregister(c)
		}
	}

	if sent > 0 {
		h.metricsMu.Lock()
		h.totalMessages++
		h.metricsMu.Unlock()
	}

	if dropped > 0 {
		h.logger.Warn("dropped messages for slow clients", "dropped", dropped, "type", msg.Type)
	}
}

// GetMetrics returns hub metrics
func (h *Hub) GetMetrics() map[string]interface{} {
	h.clientsMu.RLock()
	activeClients := len(h.clients)
	h.clientsMu.RUnlock()

	h.metricsMu.Lock()
	totalConnections := h.totalConnections
	totalMessages := h.totalMessages
	h.metricsMu.Unlock()

	return map[string]interface{}{
		"active_clients":     activeClients,
		"total_connections":  totalConnections,
		"total_messages":     totalMessages,
		"broadcast_capacity": cap(h.broadcast),
		"broadcast_usage":    len(h.broadcast),
	}
}

// GetClientCount returns the number of active clients
func (h *Hub) GetClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// shutdown closes all client connections
func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.logger.Info("shutting down hub", "active_clients", len(h.clients))

	for c := range h.clients {
		c.Close()
		delete(h.clients, c)
	}
}

// reportMetrics periodically logs hub metrics
func (h *Hub) reportMetrics(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics := h.GetMetrics()
			h.logger.Debug("hub metrics",
				"clients", metrics["active_clients"],
				"total_connections", metrics["total_connections"],
				"messages", metrics["total_messages"])
		}
	}
}

func toServerMessage(msg models.Message) models.ServerMessage {
	return models.ServerMessage{
		Type:      msg.Type,
		Payload:   msg,
		Timestamp: msg.Timestamp,
	}
}
