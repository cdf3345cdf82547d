package game

import (
	"math/rand/v2"
	"strconv"
)

// Template types.
const (
	TypeCard  = "Card"
	TypeToken = "Token"
	TypePiece = "Piece"
)

// DeckTemplate is a stored set of items a room can be built from.
type DeckTemplate struct {
	Type     string
	NumCards int
	Items    []Item
}

// NewRoom builds the starting state of a room. Card templates are shuffled
// into deck slots; token and piece templates are copied up to NumCards
// items, each copy's id suffixed with its index.
func NewRoom(id, name string, templates []DeckTemplate, rng *rand.Rand, newID func() string) *Room {
	r := &Room{
		ID:    id,
		Name:  name,
		Cards: []Item{},
		Hand:  map[string][]Item{},
	}
	r.Normalize()
	for _, t := range templates {
		if len(t.Items) == 0 {
			continue
		}
		switch t.Type {
		case TypeCard:
			slot := cloneItems(t.Items)
			rng.Shuffle(len(slot), func(i, j int) { slot[i], slot[j] = slot[j], slot[i] })
			r.Deck = append(r.Deck, flattenAll(slot))
		case TypeToken:
			r.Tokens = append(r.Tokens, fill(t.Items, t.NumCards))
		case TypePiece:
			r.Pieces = append(r.Pieces, fill(t.Items, t.NumCards))
		}
	}
	r.EnsureDeckMetadata(newID)
	return r
}

// fill repeats items until there are n of them. Templates that already have
// n or more items are used as they are.
func fill(items []Item, n int) []Item {
	if len(items) >= n {
		return flattenAll(cloneItems(items))
	}
	out := make([]Item, n)
	for i := range out {
		it := items[i%len(items)].Clone()
		it.ID += strconv.Itoa(i)
		it.Flatten()
		out[i] = it
	}
	return out
}
