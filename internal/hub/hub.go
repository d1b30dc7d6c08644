package hub

import (
	"context"
	"encoding/json"
	"sync"

	"gamearena/backend/internal/events"
)

// Client is a single SSE connection watching a room. The SSE handler reads
// encoded events from it until it is closed.
type Client chan []byte

// Hub fans room events out to the clients watching each room.
type Hub struct {
	rooms map[string]map[Client]bool
	mu    sync.RWMutex
}

// GlobalHub is the hub the server wires into the engine and the SSE handlers.
var GlobalHub = NewHub()

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[Client]bool),
	}
}

// Subscribe adds a client to a room.
func (h *Hub) Subscribe(roomID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[Client]bool)
	}
	h.rooms[roomID][client] = true
}

// Unsubscribe removes a client from a room and closes its channel.
func (h *Hub) Unsubscribe(roomID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.rooms[roomID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client)
			if len(clients) == 0 {
				delete(h.rooms, roomID)
			}
		}
	}
}

// Subscribers returns how many clients watch roomID.
func (h *Hub) Subscribers(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// Broadcast sends an event to every client in a room.
func (h *Hub) Broadcast(roomID string, ev events.Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.rooms[roomID]
	if !ok {
		return nil
	}
	msg, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	for client := range clients {
		// Slow clients miss events rather than stall the publisher.
		select {
		case client <- msg:
		default:
		}
	}
	return nil
}

// Publish implements events.Publisher.
func (h *Hub) Publish(_ context.Context, ev events.Event) error {
	return h.Broadcast(ev.RoomID, ev)
}
