// Package notify fans committed claim events out to live subscribers.
// Events travel through Redis Pub/Sub so that every server instance
// sees transitions committed by any of them, and each instance delivers
// to its own websocket clients.
package notify

import (
	"context"
	"encoding/json"

	"claimflow/backend/internal/models"
	"claimflow/backend/internal/storage"

	"go.uber.org/zap"
)

// Client is one live feed subscriber connection.
type Client interface {
	// GetUserID returns the subscriber's user id.
	GetUserID() string
	// GetRole returns the subscriber's workflow role.
	GetRole() models.Role
	// GetSendChannel returns the channel the hub delivers events to.
	GetSendChannel() chan<- models.ClaimEvent
	// Run starts the connection's read and write pumps.
	Run()
	// Close shuts the connection down.
	Close()
}

// Hub routes claim events to connected clients by role and scope.
type Hub struct {
	Clients map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client

	Storage *storage.Service
	Alerter *TelegramAlerter // optional, may be nil

	eventCh chan models.ClaimEvent
	logger  *zap.Logger
}

// NewHub creates a hub backed by the given storage service's Redis
// connection.
func NewHub(s *storage.Service, alerter *TelegramAlerter, logger *zap.Logger) *Hub {
	return &Hub{
		Clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		Storage:      s,
		Alerter:      alerter,
		eventCh:      make(chan models.ClaimEvent),
		logger:       logger.With(zap.String("component", "notify_hub")),
	}
}

// startPubSubListener consumes the Redis claim event channel and feeds
// the hub's main loop.
func (h *Hub) startPubSubListener(ctx context.Context) {
	if h.Storage == nil || h.Storage.Redis == nil {
		h.logger.Warn("no redis connection, live feed limited to this instance")
		return
	}
	go func() {
		pubsub := h.Storage.SubscribeClaimEvents(ctx)
		defer pubsub.Close()

		for msg := range pubsub.Channel() {
			var event models.ClaimEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				h.logger.Warn("malformed claim event on pubsub", zap.Error(err))
				continue
			}
			h.eventCh <- event
		}
	}()
}

// Run is the hub's main loop. It owns the Clients map; register,
// unregister, and delivery all happen here, so no further locking is
// needed.
func (h *Hub) Run(ctx context.Context) {
	h.startPubSubListener(ctx)
	h.logger.Info("notify hub started")

	for {
		select {
		case client := <-h.RegisterCh:
			h.Clients[client.GetUserID()] = client

		case client := <-h.UnregisterCh:
			if existing, ok := h.Clients[client.GetUserID()]; ok && existing == client {
				delete(h.Clients, client.GetUserID())
				client.Close()
			}

		case event := <-h.eventCh:
			h.deliver(event)

		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) deliver(event models.ClaimEvent) {
	for _, client := range h.Clients {
		if !shouldReceive(client, event) {
			continue
		}
		select {
		case client.GetSendChannel() <- event:
		default:
			// Slow consumer: drop the connection rather than block the hub.
			delete(h.Clients, client.GetUserID())
			client.Close()
		}
	}

	if h.Alerter != nil && event.Status.Terminal() {
		h.Alerter.Alert(event)
	}
}

// shouldReceive applies the same scoping as claim reads: checkers see
// every event, reviewers and claimants only events for their claims.
func shouldReceive(client Client, event models.ClaimEvent) bool {
	switch client.GetRole() {
	case models.RoleChecker:
		return true
	case models.RoleReviewer:
		return event.AssignedReviewerID == client.GetUserID()
	case models.RoleClaimant:
		return event.ClaimantUserID == client.GetUserID()
	}
	return false
}
