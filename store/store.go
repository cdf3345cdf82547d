package store

import (
	"context"
	"errors"

	"github.com/bellapacxx/sandbox-backend/game"
	"github.com/bellapacxx/sandbox-backend/models"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrGridNotFound = errors.New("deck template not found")
)

// RoomStore is the durable document store behind the room registry.
type RoomStore interface {
	FindRoom(ctx context.Context, id string) (*game.Room, error)
	// FindRoomIDs returns the subset of ids that still exist.
	FindRoomIDs(ctx context.Context, ids []string) ([]string, error)
	ListRooms(ctx context.Context) ([]*game.Room, error)
	CreateRoom(ctx context.Context, room *game.Room) error
	// SaveRoom overwrites the containers of an existing room. It returns
	// ErrRoomNotFound rather than creating the record.
	SaveRoom(ctx context.Context, room *game.Room) error
	RoomExists(ctx context.Context, id string) (bool, error)
}

// GridStore holds deck templates.
type GridStore interface {
	FindGrids(ctx context.Context, ids []string) ([]models.Grid, error)
	CreateGrid(ctx context.Context, grid *models.Grid) error
}

// Store is both halves, as served by one backend.
type Store interface {
	RoomStore
	GridStore
}
