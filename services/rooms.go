package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/bellapacxx/sandbox-backend/game"
	"github.com/bellapacxx/sandbox-backend/models"
	"github.com/bellapacxx/sandbox-backend/store"
	"github.com/bellapacxx/sandbox-backend/utils/logger"
	"github.com/google/uuid"
)

const (
	roomIDLength   = 10
	roomIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	maxIDAttempts  = 20
)

var (
	ErrNoDecks      = errors.New("at least one deck is required")
	ErrInvalidDeck  = errors.New("invalid deck template")
	errIDsExhausted = errors.New("could not find a free room id")
)

// RoomService creates rooms from stored deck templates and serves room
// records to the HTTP layer.
type RoomService struct {
	store    store.Store
	registry *Registry

	mu    sync.Mutex
	rng   *rand.Rand
	newID func() string
}

func NewRoomService(s store.Store, registry *Registry) *RoomService {
	now := uint64(time.Now().UnixNano())
	return &RoomService{
		store:    s,
		registry: registry,
		rng:      rand.New(rand.NewPCG(now, now>>1|1)),
		newID:    uuid.NewString,
	}
}

// CreateRoom builds a room from the given deck templates, persists it and
// makes it live.
func (s *RoomService) CreateRoom(ctx context.Context, name string, gridIDs []string) (*game.Room, error) {
	if len(gridIDs) == 0 {
		return nil, ErrNoDecks
	}

	id, err := s.freeRoomID(ctx)
	if err != nil {
		return nil, err
	}

	grids, err := s.store.FindGrids(ctx, gridIDs)
	if err != nil {
		return nil, err
	}
	templates := make([]game.DeckTemplate, 0, len(grids))
	for _, g := range grids {
		t, err := g.Template()
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}

	s.mu.Lock()
	room := game.NewRoom(id, name, templates, s.rng, s.newID)
	s.mu.Unlock()

	if err := s.store.CreateRoom(ctx, room); err != nil {
		return nil, err
	}
	s.registry.Put(room.Clone())
	logger.Infof("[Room %s] created %q with %d deck(s)", id, name, len(templates))
	return room, nil
}

func (s *RoomService) freeRoomID(ctx context.Context) (string, error) {
	for range maxIDAttempts {
		id := s.randomID()
		taken, err := s.store.RoomExists(ctx, id)
		if err != nil {
			return "", err
		}
		if !taken {
			return id, nil
		}
	}
	return "", errIDsExhausted
}

func (s *RoomService) randomID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := make([]byte, roomIDLength)
	for i := range b {
		b[i] = roomIDAlphabet[s.rng.IntN(len(roomIDAlphabet))]
	}
	return string(b)
}

// Room returns the current state of a room, preferring the live copy over
// the stored record since the store lags behind by up to one flush.
func (s *RoomService) Room(ctx context.Context, id string) (*game.Room, error) {
	if room, ok := s.registry.Get(id); ok {
		return room, nil
	}
	return s.store.FindRoom(ctx, id)
}

func (s *RoomService) Rooms(ctx context.Context) ([]*game.Room, error) {
	return s.store.ListRooms(ctx)
}

// AddDeck stores a deck template and returns its id.
func (s *RoomService) AddDeck(ctx context.Context, grid *models.Grid) (string, error) {
	switch grid.Type {
	case game.TypeCard, game.TypeToken, game.TypePiece:
	default:
		return "", fmt.Errorf("%w: unknown type %q", ErrInvalidDeck, grid.Type)
	}
	if _, err := grid.Template(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidDeck, err)
	}
	if grid.ID == "" {
		grid.ID = s.newID()
	}
	if err := s.store.CreateGrid(ctx, grid); err != nil {
		return "", err
	}
	return grid.ID, nil
}
