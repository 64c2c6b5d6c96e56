package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Event types pushed to group chat clients
const (
	EventMessageCreated = "message.created"
	EventMessageUpdated = "message.updated"
	EventMessageDeleted = "message.deleted"
	EventMessagePinned  = "message.pinned"
	EventPollUpdated    = "poll.updated"
)

// Event is a server-pushed notification for one group
type Event struct {
	Type      string      `json:"type"`
	GroupID   uuid.UUID   `json:"groupId"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub maintains the set of active clients per group and fans events out to them
type Hub struct {
	// Registered clients organized by group ID
	clients map[uuid.UUID]map[*Client]bool

	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	// done is closed once Run has returned
	done     chan struct{}
	stopOnce sync.Once

	logger zerolog.Logger
}

// ErrHubClosed is returned by Serve once the hub has stopped
var ErrHubClosed = errors.New("websocket hub closed")

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID]map[*Client]bool),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run handles registrations and broadcasts until ctx is done
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			h.stopOnce.Do(func() { close(h.done) })
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.groupID]; !ok {
		h.clients[client.groupID] = make(map[*Client]bool)
	}
	h.clients[client.groupID][client] = true

	h.logger.Info().
		Str("groupID", client.groupID.String()).
		Str("userID", client.userID.String()).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.clients[client.groupID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.groupID)
	}

	h.logger.Info().
		Str("groupID", client.groupID.String()).
		Str("userID", client.userID.String()).
		Msg("Client unregistered")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.clients {
		for client := range clients {
			h.removeLocked(client)
		}
	}
}

// broadcastEvent sends an event to every client of its group. Clients whose
// buffer is full are dropped.
func (h *Hub) broadcastEvent(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("groupID", event.GroupID.String()).Msg("Failed to marshal event for broadcast")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[event.GroupID]
	if !ok {
		return
	}

	for client := range clients {
		select {
		case client.send <- data:
		default:
			h.removeLocked(client)
		}
	}

	h.logger.Debug().
		Str("groupID", event.GroupID.String()).
		Str("type", event.Type).
		Int("clientCount", len(clients)).
		Msg("Event broadcasted to group")
}

// Publish queues an event for a group without blocking the caller
func (h *Hub) Publish(groupID uuid.UUID, eventType string, data interface{}) {
	event := &Event{Type: eventType, GroupID: groupID, Data: data, Timestamp: time.Now()}
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn().Str("groupID", groupID.String()).Str("type", eventType).Msg("Broadcast queue full, dropping event")
	}
}

// Done is closed when the hub stops accepting clients
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// ClientsCount returns the number of connected clients for a group
func (h *Hub) ClientsCount(groupID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[groupID])
}
