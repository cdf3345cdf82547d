package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bellapacxx/sandbox-backend/game"
	"gorm.io/datatypes"
)

// Grid is a deck template built from one sliced image: a set of cards,
// tokens or pieces a room can be created from.
type Grid struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	Name      string         `json:"name"`
	Type      string         `gorm:"size:16" json:"type"`
	NumCards  int            `json:"numCards"`
	Deck      datatypes.JSON `json:"deck"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Template decodes the grid into a game.DeckTemplate.
func (g Grid) Template() (game.DeckTemplate, error) {
	t := game.DeckTemplate{Type: g.Type, NumCards: g.NumCards}
	if len(g.Deck) == 0 {
		return t, nil
	}
	if err := json.Unmarshal(g.Deck, &t.Items); err != nil {
		return t, fmt.Errorf("grid %s: %w", g.ID, err)
	}
	return t, nil
}
