package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Action options sent by clients.
const (
	OptionFlip        = "Flip"
	OptionDisassemble = "Disassemble"
	OptionShuffle     = "Shuffle"
	OptionLock        = "Lock"
	OptionUnlock      = "Unlock"
	OptionSplit       = "Split"
)

// Disassemble fans piled items out diagonally from the stack, away from the
// table centre.
const (
	DisassembleStep    = 20
	DisassembleCenterX = 600
	DisassembleCenterY = 240
)

var ErrBadLayout = errors.New("locked layout must be [cards, deck, deckDimension]")

// ActionRequest is the itemUpdated payload of an itemAction event.
type ActionRequest struct {
	ItemID       string        `json:"itemID"`
	Option       string        `json:"option"`
	IsFlipped    bool          `json:"isFlipped"`
	IsLocked     *Layout       `json:"isLocked"`
	ShuffledPile *ShuffledPile `json:"shuffledPile"`
	SplitPile    []Item        `json:"splitPile"`
}

// ShuffledPile carries the stack a client shuffled locally.
type ShuffledPile struct {
	FinalCard *Item `json:"finalCard"`
}

// Layout is the table layout a client submits when locking or unlocking.
// On the wire it is the array [cards, deck, deckDimension].
type Layout struct {
	Cards         []Item
	Deck          [][]Item
	DeckDimension []Dimension
}

func (l *Layout) UnmarshalJSON(b []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(b, &parts); err != nil {
		return err
	}
	if len(parts) != 3 {
		return fmt.Errorf("%w: got %d elements", ErrBadLayout, len(parts))
	}
	if err := json.Unmarshal(parts[0], &l.Cards); err != nil {
		return fmt.Errorf("cards: %w", err)
	}
	if err := json.Unmarshal(parts[1], &l.Deck); err != nil {
		return fmt.Errorf("deck: %w", err)
	}
	if err := json.Unmarshal(parts[2], &l.DeckDimension); err != nil {
		return fmt.Errorf("deckDimension: %w", err)
	}
	return nil
}

func (l Layout) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{l.Cards, l.Deck, l.DeckDimension})
}

// ApplyAction runs one table action and reports whether the room changed.
// Unknown options and actions on absent items change nothing.
func (r *Room) ApplyAction(req ActionRequest) bool {
	switch req.Option {
	case OptionFlip:
		return r.flip(req.ItemID, req.IsFlipped)
	case OptionDisassemble:
		return r.disassemble(req.ItemID)
	case OptionShuffle:
		if req.ShuffledPile == nil || req.ShuffledPile.FinalCard == nil {
			return false
		}
		return r.shuffle(req.ItemID, *req.ShuffledPile.FinalCard)
	case OptionLock, OptionUnlock:
		if req.IsLocked == nil {
			return false
		}
		r.lock(*req.IsLocked)
		return true
	case OptionSplit:
		if req.SplitPile == nil {
			return false
		}
		r.Cards = flattenAll(req.SplitPile)
		return true
	}
	return false
}

func (r *Room) flip(id string, flipped bool) bool {
	i := indexOf(r.Cards, id)
	if i < 0 {
		return false
	}
	it := &r.Cards[i]
	it.IsFlipped = flipped
	for j := range it.Pile {
		it.Pile[j].IsFlipped = flipped
	}
	return true
}

func (r *Room) disassemble(id string) bool {
	i := indexOf(r.Cards, id)
	if i < 0 || len(r.Cards[i].Pile) == 0 {
		return false
	}
	stack := r.Cards[i]
	dx, dy := float64(DisassembleStep), float64(DisassembleStep)
	if stack.X > DisassembleCenterX {
		dx = -dx
	}
	if stack.Y > DisassembleCenterY {
		dy = -dy
	}
	for j, p := range stack.Pile {
		p.MoveTo(stack.X+float64(j+1)*dx, stack.Y+float64(j+1)*dy)
		r.Cards = append(r.Cards, p)
	}
	r.Cards[i].Pile = nil
	return true
}

// shuffle swaps a stack for the client's shuffled version of it. The result
// must hold exactly the ids of the original stack so that no item is lost or
// duplicated.
func (r *Room) shuffle(id string, final Item) bool {
	i := indexOf(r.Cards, id)
	if i < 0 || len(r.Cards[i].Pile) == 0 {
		return false
	}
	final.Flatten()
	if !sameIDs(r.Cards[i].IDs(), final.IDs()) {
		return false
	}
	r.Cards[i] = final
	return true
}

func (r *Room) lock(l Layout) {
	r.Cards = flattenAll(l.Cards)
	r.Deck = l.Deck
	for _, slot := range r.Deck {
		flattenAll(slot)
	}
	r.DeckDimension = l.DeckDimension
	if r.Cards == nil {
		r.Cards = []Item{}
	}
	if r.Deck == nil {
		r.Deck = [][]Item{}
	}
	if r.DeckDimension == nil {
		r.DeckDimension = []Dimension{}
	}
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	a = append([]string(nil), a...)
	b = append([]string(nil), b...)
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
