// Package hub provides a thread-safe websocket broadcast hub using the
// channel-based fan-out pattern. The engine pushes one state snapshot per
// tick; the hub delivers it to every connected viewer and drops clients
// that cannot keep up.
package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Hub maintains the set of active viewer clients and broadcasts messages
// to them. All client registration and delivery happens on the Run
// goroutine, so no locks are needed on the hot path.
type Hub struct {
	// name identifies this hub in log output (e.g. "state").
	name string

	// Registered clients.
	clients map[*Client]bool

	// Outbound messages for all clients.
	broadcast chan []byte

	// Register requests from new clients.
	register chan *Client

	// Unregister requests from disconnecting clients.
	unregister chan *Client

	// mu guards clients for reads from outside the Run goroutine.
	mu sync.RWMutex

	running bool
}

// New creates a broadcast hub with the given name.
func New(name string) *Hub {
	return &Hub{
		name:       name,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes register, unregister and broadcast events until the
// context is cancelled. Call it in its own goroutine.
func (h *Hub) Run(ctx context.Context) {
	h.mu.Lock()
	h.running = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		h.running = false
		h.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			fmt.Printf("🔌 [%s] client connected (%d total)\n", h.name, count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			fmt.Printf("🔌 [%s] client disconnected (%d total)\n", h.name, count)

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow client: drop it rather than stall the tick.
					delete(h.clients, client)
					close(client.send)
					fmt.Printf("⚠️ [%s] dropped slow client\n", h.name)
				}
			}
			h.mu.Unlock()
		}
	}
}

// closeAll disconnects every client. Called when Run exits.
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
}

// Broadcast queues a raw message for delivery to all clients. It never
// blocks; if the hub's queue is full the message is dropped.
func (h *Hub) Broadcast(data []byte) {
	select {
	case h.broadcast <- data:
	default:
		fmt.Printf("⚠️ [%s] broadcast queue full, dropping message\n", h.name)
	}
}

// BroadcastJSON marshals v and queues it for delivery to all clients.
func (h *Hub) BroadcastJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal broadcast: %w", err)
	}
	h.Broadcast(data)
	return nil
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// IsRunning reports whether the hub's Run loop is active.
func (h *Hub) IsRunning() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.running
}
