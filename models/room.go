package models

import (
	"time"

	"gorm.io/datatypes"
)

// Room is the durable record of a room. Containers are stored as JSON
// documents and decoded into game.Room by the store.
type Room struct {
	ID            uint           `gorm:"primaryKey" json:"-"`
	RoomID        string         `gorm:"uniqueIndex;size:32;not null" json:"id"`
	Name          string         `json:"name"`
	Cards         datatypes.JSON `json:"cards"`
	Deck          datatypes.JSON `json:"deck"`
	DeckDimension datatypes.JSON `json:"deckDimension"`
	Tokens        datatypes.JSON `json:"tokens"`
	Pieces        datatypes.JSON `json:"pieces"`
	Hand          datatypes.JSON `json:"hand"`
	CardsInDeck   datatypes.JSON `json:"cardsInDeck"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}
