package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/bellapacxx/sandbox-backend/game"
	"github.com/bellapacxx/sandbox-backend/models"
)

// MemoryStore keeps rooms and templates in process memory. Rooms are stored
// in their encoded form so callers never share state with the store.
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[string]*models.Room
	grids map[string]models.Grid
	order []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms: map[string]*models.Room{},
		grids: map[string]models.Grid{},
	}
}

func (m *MemoryStore) FindRoom(_ context.Context, id string) (*game.Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.rooms[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, id)
	}
	return fromModel(rec)
}

func (m *MemoryStore) FindRoomIDs(_ context.Context, ids []string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var found []string
	for _, id := range ids {
		if _, ok := m.rooms[id]; ok {
			found = append(found, id)
		}
	}
	return found, nil
}

func (m *MemoryStore) ListRooms(_ context.Context) ([]*game.Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rooms := make([]*game.Room, 0, len(m.order))
	for _, id := range m.order {
		r, err := fromModel(m.rooms[id])
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, r)
	}
	return rooms, nil
}

func (m *MemoryStore) CreateRoom(_ context.Context, room *game.Room) error {
	rec, err := toModel(room)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[room.ID]; ok {
		return fmt.Errorf("create room %s: already exists", room.ID)
	}
	m.rooms[room.ID] = rec
	m.order = append(m.order, room.ID)
	return nil
}

func (m *MemoryStore) SaveRoom(_ context.Context, room *game.Room) error {
	rec, err := toModel(room)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[room.ID]; !ok {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, room.ID)
	}
	m.rooms[room.ID] = rec
	return nil
}

func (m *MemoryStore) RoomExists(_ context.Context, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.rooms[id]
	return ok, nil
}

// DeleteRoom removes a room record. Only the memory backend supports it;
// rooms are otherwise deleted outside this server.
func (m *MemoryStore) DeleteRoom(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[id]; !ok {
		return
	}
	delete(m.rooms, id)
	kept := m.order[:0]
	for _, o := range m.order {
		if o != id {
			kept = append(kept, o)
		}
	}
	m.order = kept
}

func (m *MemoryStore) FindGrids(_ context.Context, ids []string) ([]models.Grid, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var grids []models.Grid
	for _, id := range ids {
		if g, ok := m.grids[id]; ok {
			grids = append(grids, g)
		}
	}
	return grids, nil
}

func (m *MemoryStore) CreateGrid(_ context.Context, grid *models.Grid) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grids[grid.ID] = *grid
	return nil
}
