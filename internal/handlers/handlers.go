package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/fortuna/services/f1-standings-service/internal/cache"
	"github.com/fortuna/services/f1-standings-service/internal/client"
	"github.com/fortuna/services/f1-standings-service/internal/hub"
	"github.com/fortuna/services/f1-standings-service/internal/poller"
	"github.com/fortuna/services/f1-standings-service/pkg/models"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// origins are enforced by the CORS middleware for the REST routes only
		return true
	},
}

// Store serves the latest delivered messages
type Store interface {
	Latest(messageType string) (models.Message, bool)
	Errors() []models.Message
}

// LatestReader reads a previously cached message, e.g. from Redis
type LatestReader interface {
	ReadLatest(ctx context.Context, messageType string) (*models.Message, error)
}

// StatusSource reports poller state
type StatusSource interface {
	Status() poller.Status
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	ctx    context.Context
	store  Store
	status StatusSource
	hub    *hub.Hub
	cached LatestReader
	logger *slog.Logger
}

// NewHandler creates a new handler. ctx bounds websocket client lifetimes; h may be nil.
func NewHandler(ctx context.Context, store Store, status StatusSource, h *hub.Hub, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		ctx:    ctx,
		store:  store,
		status: status,
		hub:    h,
		logger: logger,
	}
}

// WithCache serves cached messages for types not delivered since start
func (h *Handler) WithCache(r LatestReader) *Handler {
	h.cached = r
	return h
}

// HealthCheck reports service health and per-category poller state
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := h.status.Status()

	state := "healthy"
	switch {
	case status.Generation == 0:
		state = "starting"
	case !status.Healthy():
		state = "degraded"
	}

	health := map[string]interface{}{
		"status":    state,
		"service":   "f1-standings-service",
		"timestamp": time.Now().UTC(),
		"poller":    status,
	}
	if h.hub != nil {
		health["active_clients"] = h.hub.GetClientCount()
	}

	respondJSON(w, http.StatusOK, health)
}

// GetSchedule returns the latest season summary and schedule
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	h.respondLatest(w, r, models.MessageTypeScheduleSummary)
}

// GetDriverStandings returns the latest driver display result
func (h *Handler) GetDriverStandings(w http.ResponseWriter, r *http.Request) {
	h.respondLatest(w, r, models.MessageTypeDriverStandings)
}

// GetConstructorStandings returns the latest constructor display result
func (h *Handler) GetConstructorStandings(w http.ResponseWriter, r *http.Request) {
	h.respondLatest(w, r, models.MessageTypeConstructorStandings)
}

// GetErrors returns the latest failure of each category
func (h *Handler) GetErrors(w http.ResponseWriter, r *http.Request) {
	errs := h.store.Errors()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"errors": errs,
		"count":  len(errs),
	})
}

// HandleWebSocket upgrades HTTP connections to WebSocket
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		respondError(w, http.StatusServiceUnavailable, "websocket hub disabled", nil)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := client.NewClient(uuid.New().String(), conn, h.hub, h.logger)

	// replay lands in the send buffer before the pumps start
	h.hub.Register(c)

	// pumps outlive the request, so they use the handler context
	go c.WritePump(h.ctx)
	go c.ReadPump(h.ctx)
}

func (h *Handler) respondLatest(w http.ResponseWriter, r *http.Request, messageType string) {
	if msg, ok := h.store.Latest(messageType); ok {
		respondJSON(w, http.StatusOK, msg)
		return
	}

	if h.cached != nil {
		msg, err := h.cached.ReadLatest(r.Context(), messageType)
		switch {
		case err == nil:
			respondJSON(w, http.StatusOK, msg)
			return
		case !errors.Is(err, cache.ErrNotCached):
			h.logger.Warn("cache read failed", "type", messageType, "error", err)
		}
	}

	respondError(w, http.StatusNotFound, messageType+" not delivered yet", nil)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("error encoding response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		slog.Error(message, "error", err)
	}

	respondJSON(w, status, models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
