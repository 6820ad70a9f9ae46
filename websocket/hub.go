package websocket

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CRM event types pushed to connected dashboards
const (
	EventLeadCreated       = "lead.created"
	EventLeadStatusChanged = "lead.status_changed"
	EventLeadConverted     = "lead.converted"
	EventBookingUpdated    = "booking.updated"
	EventTenantStatus      = "tenant.status_changed"
)

// Event is a message sent over WebSocket to tenant dashboards
type Event struct {
	Type     string      `json:"type"`
	Message  string      `json:"message,omitempty"`
	Data     interface{} `json:"data,omitempty"`
	TenantID string      `json:"tenantId,omitempty"`
}

// Client represents a connected WebSocket client
type Client struct {
	UserID   primitive.ObjectID
	TenantID primitive.ObjectID
	Conn     *websocket.Conn
}

// Hub maintains the set of active clients and broadcasts tenant-scoped
// events to them
type Hub struct {
	clients    map[primitive.ObjectID]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[primitive.ObjectID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			// A reconnect supersedes any previous session of the same user
			if old, ok := h.clients[client.UserID]; ok && old != client {
				old.Conn.Close()
			}
			h.clients[client.UserID] = client
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			// Only the current session may remove the map entry; a stale
			// reader of a superseded conn must not evict its replacement
			if cur, ok := h.clients[client.UserID]; ok && cur == client {
				delete(h.clients, client.UserID)
			}
			client.Conn.Close()
			h.mu.Unlock()
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub and closes its connection
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// SendToUser sends an event to a specific user
func (h *Hub) SendToUser(userID primitive.ObjectID, event Event) error {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user %s is not connected", userID.Hex())
	}
	return client.Conn.WriteJSON(event)
}

// BroadcastToTenant sends an event to every connected user of a tenant
func (h *Hub) BroadcastToTenant(tenantID primitive.ObjectID, event Event) {
	event.TenantID = tenantID.Hex()

	h.mu.RLock()
	targets := make([]*Client, 0)
	for _, client := range h.clients {
		if client.TenantID == tenantID {
			targets = append(targets, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range targets {
		if err := client.Conn.WriteJSON(event); err != nil {
			// Drop broken connections on next read; write errors are not fatal here
			continue
		}
	}
}

// ConnectedCount reports the number of connected clients for a tenant
func (h *Hub) ConnectedCount(tenantID primitive.ObjectID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, client := range h.clients {
		if client.TenantID == tenantID {
			n++
		}
	}
	return n
}
