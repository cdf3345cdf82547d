package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bellapacxx/sandbox-backend/game"
	"github.com/bellapacxx/sandbox-backend/store"
	"github.com/bellapacxx/sandbox-backend/utils/logger"
	"golang.org/x/sync/singleflight"
)

type roomEntry struct {
	mu    sync.Mutex
	room  *game.Room
	dirty bool
}

// Registry is the in-memory set of live rooms. Each room has its own mutex;
// every read or write of a room's state goes through Update.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*roomEntry
	store store.RoomStore
	group singleflight.Group
}

func NewRegistry(s store.RoomStore) *Registry {
	return &Registry{
		rooms: make(map[string]*roomEntry),
		store: s,
	}
}

// Load makes sure roomID is cached, fetching it from the store on a miss.
// Concurrent misses for the same id share one fetch. The error wraps
// store.ErrRoomNotFound both when the room does not exist and when the store
// could not be reached.
func (r *Registry) Load(ctx context.Context, roomID string) error {
	if r.has(roomID) {
		return nil
	}
	_, err, _ := r.group.Do(roomID, func() (any, error) {
		if r.has(roomID) {
			return nil, nil
		}
		room, err := r.store.FindRoom(ctx, roomID)
		if err != nil {
			if errors.Is(err, store.ErrRoomNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %w", store.ErrRoomNotFound, err)
		}
		room.Normalize()
		if err := room.Validate(); err != nil {
			logger.Warnf("[Room %s] loaded with invalid state: %v", roomID, err)
		}
		r.insert(room)
		return nil, nil
	})
	return err
}

// Put caches a freshly created room. An existing entry is kept.
func (r *Registry) Put(room *game.Room) {
	r.insert(room)
}

func (r *Registry) insert(room *game.Room) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[room.ID]; ok {
		return
	}
	r.rooms[room.ID] = &roomEntry{room: room}
}

func (r *Registry) has(roomID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[roomID]
	return ok
}

func (r *Registry) entry(roomID string) (*roomEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.rooms[roomID]
	return e, ok
}

// Update runs fn on the room while holding its lock. fn returns whether it
// changed durable state; such rooms are written back on the next Flush.
// Update reports false when the room is not cached.
func (r *Registry) Update(roomID string, fn func(*game.Room) bool) bool {
	e, ok := r.entry(roomID)
	if !ok {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if fn(e.room) {
		e.dirty = true
	}
	return true
}

// Get returns a deep copy of a cached room.
func (r *Registry) Get(roomID string) (*game.Room, bool) {
	var out *game.Room
	ok := r.Update(roomID, func(room *game.Room) bool {
		out = room.Clone()
		return false
	})
	return out, ok
}

func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.rooms))
	for id := range r.rooms {
		ids = append(ids, id)
	}
	return ids
}

func (r *Registry) Remove(ids ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.rooms, id)
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Sweep evicts cached rooms whose durable record no longer exists. When the
// store cannot be queried nothing is evicted.
func (r *Registry) Sweep(ctx context.Context) (int, error) {
	ids := r.IDs()
	if len(ids) == 0 {
		return 0, nil
	}
	found, err := r.store.FindRoomIDs(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("sweep: %w", err)
	}
	keep := make(map[string]bool, len(found))
	for _, id := range found {
		keep[id] = true
	}
	var gone []string
	for _, id := range ids {
		if !keep[id] {
			gone = append(gone, id)
		}
	}
	r.Remove(gone...)
	return len(gone), nil
}

// Flush writes every dirty room back to the store. Rooms whose record has
// been deleted are skipped; other failures leave the room dirty for the
// next run.
func (r *Registry) Flush(ctx context.Context) (int, error) {
	r.mu.RLock()
	entries := make([]*roomEntry, 0, len(r.rooms))
	for _, e := range r.rooms {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	saved := 0
	var errs []error
	for _, e := range entries {
		e.mu.Lock()
		if !e.dirty {
			e.mu.Unlock()
			continue
		}
		snapshot := e.room.Clone()
		e.dirty = false
		e.mu.Unlock()

		err := r.store.SaveRoom(ctx, snapshot)
		switch {
		case err == nil:
			saved++
		case errors.Is(err, store.ErrRoomNotFound):
			logger.Warnf("[Room %s] not in store, skipping write-back", snapshot.ID)
		default:
			e.mu.Lock()
			e.dirty = true
			e.mu.Unlock()
			errs = append(errs, err)
		}
	}
	return saved, errors.Join(errs...)
}
