package services

import (
	"encoding/json"
	"sync"

	"github.com/bellapacxx/sandbox-backend/utils/logger"
)

// Hub tracks which connections are subscribed to which room and fans
// frames out to them.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]map[*Client]struct{}
	members map[*Client]map[string]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms:   make(map[string]map[*Client]struct{}),
		members: make(map[*Client]map[string]struct{}),
	}
}

func (h *Hub) Subscribe(roomID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[*Client]struct{})
	}
	h.rooms[roomID][c] = struct{}{}
	if _, ok := h.members[c]; !ok {
		h.members[c] = make(map[string]struct{})
	}
	h.members[c][roomID] = struct{}{}
}

// UnsubscribeAll removes c from every room and returns the rooms it was in.
func (h *Hub) UnsubscribeAll(c *Client) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var left []string
	for roomID := range h.members[c] {
		delete(h.rooms[roomID], c)
		if len(h.rooms[roomID]) == 0 {
			delete(h.rooms, roomID)
		}
		left = append(left, roomID)
	}
	delete(h.members, c)
	return left
}

// Rooms returns the rooms c is subscribed to.
func (h *Hub) Rooms(c *Client) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(h.members[c]))
	for roomID := range h.members[c] {
		out = append(out, roomID)
	}
	return out
}

// Count returns the number of connections subscribed to roomID.
func (h *Hub) Count(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// Broadcast sends event to every connection in roomID except skip, which
// may be nil.
func (h *Hub) Broadcast(roomID, event string, data any, skip *Client) {
	b, err := json.Marshal(outgoing{Event: event, Data: data})
	if err != nil {
		logger.Errorf("[Room %s] marshal %s: %v", roomID, event, err)
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.rooms[roomID]))
	for c := range h.rooms[roomID] {
		if c != skip {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if !c.trySend(b) {
			logger.Warnf("[Room %s] dropping %s to client %s", roomID, event, c.id)
		}
	}
}

// Emit sends event to a single connection.
func (h *Hub) Emit(c *Client, event string, data any) {
	b, err := json.Marshal(outgoing{Event: event, Data: data})
	if err != nil {
		logger.Errorf("[Client %s] marshal %s: %v", c.id, event, err)
		return
	}
	if !c.trySend(b) {
		logger.Warnf("[Client %s] dropping %s", c.id, event)
	}
}
