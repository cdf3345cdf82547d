package store

import (
	"encoding/json"
	"fmt"

	"github.com/bellapacxx/sandbox-backend/game"
	"github.com/bellapacxx/sandbox-backend/models"
	"gorm.io/datatypes"
)

func toModel(r *game.Room) (*models.Room, error) {
	m := &models.Room{RoomID: r.ID, Name: r.Name}
	fields := []struct {
		dst *datatypes.JSON
		src any
	}{
		{&m.Cards, r.Cards},
		{&m.Deck, r.Deck},
		{&m.DeckDimension, r.DeckDimension},
		{&m.Tokens, r.Tokens},
		{&m.Pieces, r.Pieces},
		{&m.Hand, r.Hand},
		{&m.CardsInDeck, r.CardsInDeck},
	}
	for _, f := range fields {
		b, err := json.Marshal(f.src)
		if err != nil {
			return nil, fmt.Errorf("encode room %s: %w", r.ID, err)
		}
		*f.dst = datatypes.JSON(b)
	}
	return m, nil
}

func fromModel(m *models.Room) (*game.Room, error) {
	r := &game.Room{ID: m.RoomID, Name: m.Name}
	fields := []struct {
		src datatypes.JSON
		dst any
	}{
		{m.Cards, &r.Cards},
		{m.Deck, &r.Deck},
		{m.DeckDimension, &r.DeckDimension},
		{m.Tokens, &r.Tokens},
		{m.Pieces, &r.Pieces},
		{m.Hand, &r.Hand},
		{m.CardsInDeck, &r.CardsInDeck},
	}
	for _, f := range fields {
		if len(f.src) == 0 {
			continue
		}
		if err := json.Unmarshal(f.src, f.dst); err != nil {
			return nil, fmt.Errorf("decode room %s: %w", m.RoomID, err)
		}
	}
	r.Normalize()
	return r, nil
}
