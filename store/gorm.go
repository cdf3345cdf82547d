package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/bellapacxx/sandbox-backend/game"
	"github.com/bellapacxx/sandbox-backend/models"
	"gorm.io/gorm"
)

// GormStore keeps rooms and deck templates in postgres through gorm.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) FindRoom(ctx context.Context, id string) (*game.Room, error) {
	var m models.Room
	if err := s.db.WithContext(ctx).Where("room_id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, id)
		}
		return nil, fmt.Errorf("find room %s: %w", id, err)
	}
	return fromModel(&m)
}

func (s *GormStore) FindRoomIDs(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []string
	if err := s.db.WithContext(ctx).Model(&models.Room{}).
		Where("room_id IN ?", ids).
		Pluck("room_id", &found).Error; err != nil {
		return nil, fmt.Errorf("find room ids: %w", err)
	}
	return found, nil
}

func (s *GormStore) ListRooms(ctx context.Context) ([]*game.Room, error) {
	var ms []models.Room
	if err := s.db.WithContext(ctx).Order("created_at").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	rooms := make([]*game.Room, 0, len(ms))
	for i := range ms {
		r, err := fromModel(&ms[i])
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, r)
	}
	return rooms, nil
}

func (s *GormStore) CreateRoom(ctx context.Context, room *game.Room) error {
	m, err := toModel(room)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create room %s: %w", room.ID, err)
	}
	return nil
}

func (s *GormStore) SaveRoom(ctx context.Context, room *game.Room) error {
	m, err := toModel(room)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Model(&models.Room{}).
		Where("room_id = ?", room.ID).
		Updates(map[string]any{
			"name":           m.Name,
			"cards":          m.Cards,
			"deck":           m.Deck,
			"deck_dimension": m.DeckDimension,
			"tokens":         m.Tokens,
			"pieces":         m.Pieces,
			"hand":           m.Hand,
			"cards_in_deck":  m.CardsInDeck,
		})
	if res.Error != nil {
		return fmt.Errorf("save room %s: %w", room.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, room.ID)
	}
	return nil
}

func (s *GormStore) RoomExists(ctx context.Context, id string) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Room{}).Where("room_id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("room exists %s: %w", id, err)
	}
	return n > 0, nil
}

func (s *GormStore) FindGrids(ctx context.Context, ids []string) ([]models.Grid, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var grids []models.Grid
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&grids).Error; err != nil {
		return nil, fmt.Errorf("find grids: %w", err)
	}
	return orderGrids(grids, ids), nil
}

func (s *GormStore) CreateGrid(ctx context.Context, grid *models.Grid) error {
	if err := s.db.WithContext(ctx).Create(grid).Error; err != nil {
		return fmt.Errorf("create grid: %w", err)
	}
	return nil
}

// orderGrids returns grids in the order their ids were requested.
func orderGrids(grids []models.Grid, ids []string) []models.Grid {
	byID := make(map[string]models.Grid, len(grids))
	for _, g := range grids {
		byID[g.ID] = g
	}
	out := make([]models.Grid, 0, len(grids))
	for _, id := range ids {
		if g, ok := byID[id]; ok {
			out = append(out, g)
			delete(byID, id)
		}
	}
	return out
}
