package game

import (
	"errors"
	"fmt"
)

// Dimension is the on-table footprint of one deck slot, drawn before any
// card has been taken from it.
type Dimension struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Room is the live state of one shared table.
//
// Deck and DeckDimension are index-aligned: every code path that removes a
// deck slot removes the geometry record at the same index.
type Room struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Cards         []Item            `json:"cards"`
	Deck          [][]Item          `json:"deck"`
	DeckDimension []Dimension       `json:"deckDimension"`
	Tokens        [][]Item          `json:"tokens"`
	Pieces        [][]Item          `json:"pieces"`
	Hand          map[string][]Item `json:"hand"`
	CardsInDeck   [][]string        `json:"cardsInDeck"`
}

// Snapshot is the full view sent to one connection when it joins. It only
// carries the hand of the joining username.
type Snapshot struct {
	Cards         []Item      `json:"cards"`
	Deck          [][]Item    `json:"deck"`
	CardsInDeck   [][]string  `json:"cardsInDeck"`
	DeckDimension []Dimension `json:"deckDimension"`
	Tokens        [][]Item    `json:"tokens"`
	Pieces        [][]Item    `json:"pieces"`
	Hand          []Item      `json:"hand"`
}

// Normalize replaces nil containers with empty ones and flattens piles, so
// state coming from storage or clients obeys the one-level pile rule.
func (r *Room) Normalize() {
	if r.Cards == nil {
		r.Cards = []Item{}
	}
	flattenAll(r.Cards)
	for _, slots := range []*[][]Item{&r.Deck, &r.Tokens, &r.Pieces} {
		if *slots == nil {
			*slots = [][]Item{}
		}
		for _, slot := range *slots {
			flattenAll(slot)
		}
	}
	if r.Hand == nil {
		r.Hand = map[string][]Item{}
	}
	for _, hand := range r.Hand {
		flattenAll(hand)
	}
}

// EnsureHand creates an empty hand for username. It reports whether the hand
// was created.
func (r *Room) EnsureHand(username string) bool {
	if r.Hand == nil {
		r.Hand = map[string][]Item{}
	}
	if _, ok := r.Hand[username]; ok {
		return false
	}
	r.Hand[username] = []Item{}
	return true
}

// EnsureDeckMetadata builds CardsInDeck and DeckDimension from the current
// deck slots when they are missing. newID mints geometry record ids. It
// reports whether anything was built.
func (r *Room) EnsureDeckMetadata(newID func() string) bool {
	built := false
	if r.CardsInDeck == nil {
		r.CardsInDeck = make([][]string, 0, len(r.Deck))
		for _, slot := range r.Deck {
			ids := make([]string, 0, len(slot))
			for _, it := range slot {
				ids = append(ids, it.ID)
			}
			r.CardsInDeck = append(r.CardsInDeck, ids)
		}
		built = true
	}
	if r.DeckDimension == nil {
		r.DeckDimension = make([]Dimension, 0, len(r.Deck))
		for _, slot := range r.Deck {
			d := Dimension{ID: newID()}
			if len(slot) > 0 {
				d.X, d.Y = slot[0].X, slot[0].Y
				d.Width, d.Height = slot[0].Width, slot[0].Height
			}
			r.DeckDimension = append(r.DeckDimension, d)
		}
		built = true
	}
	return built
}

// Snapshot returns the join view for username.
func (r *Room) Snapshot(username string) Snapshot {
	hand := r.Hand[username]
	if hand == nil {
		hand = []Item{}
	}
	return Snapshot{
		Cards:         r.Cards,
		Deck:          r.Deck,
		CardsInDeck:   r.CardsInDeck,
		DeckDimension: r.DeckDimension,
		Tokens:        r.Tokens,
		Pieces:        r.Pieces,
		Hand:          hand,
	}
}

func (r *Room) slots(kind DeckKind) *[][]Item {
	switch kind {
	case DeckCards:
		return &r.Deck
	case DeckTokens:
		return &r.Tokens
	case DeckPieces:
		return &r.Pieces
	}
	return nil
}

// items returns the slice backing ref, or nil when ref points nowhere
// (unknown hand, slot index out of range).
func (r *Room) items(ref ContainerRef) *[]Item {
	switch ref.Kind {
	case KindTable:
		return &r.Cards
	case KindHand:
		if _, ok := r.Hand[ref.Username]; !ok {
			return nil
		}
		hand := r.Hand[ref.Username]
		return &hand
	case KindSlot:
		slots := r.slots(ref.Deck)
		if slots == nil || ref.Index < 0 || ref.Index >= len(*slots) {
			return nil
		}
		return &(*slots)[ref.Index]
	}
	return nil
}

// commit writes a hand slice back into the map; the other containers are
// updated in place through the pointer returned by items.
func (r *Room) commit(ref ContainerRef, items *[]Item) {
	if ref.Kind == KindHand {
		r.Hand[ref.Username] = *items
	}
}

// find returns the index of id inside ref.
func (r *Room) find(ref ContainerRef, id string) (int, bool) {
	items := r.items(ref)
	if items == nil {
		return -1, false
	}
	i := indexOf(*items, id)
	return i, i >= 0
}

// take removes id from ref and returns it. Emptied slots are left in place;
// call prune once the whole operation is done.
func (r *Room) take(ref ContainerRef, id string) (Item, bool) {
	items := r.items(ref)
	if items == nil {
		return Item{}, false
	}
	i := indexOf(*items, id)
	if i < 0 {
		return Item{}, false
	}
	it := (*items)[i]
	*items = append((*items)[:i:i], (*items)[i+1:]...)
	r.commit(ref, items)
	return it, true
}

// put appends items to ref.
func (r *Room) put(ref ContainerRef, its ...Item) bool {
	items := r.items(ref)
	if items == nil {
		return false
	}
	*items = append(*items, its...)
	r.commit(ref, items)
	return true
}

// prune removes ref's slot when it is empty, together with the deck
// geometry record at the same index.
func (r *Room) prune(ref ContainerRef) {
	if ref.Kind != KindSlot {
		return
	}
	slots := r.slots(ref.Deck)
	if slots == nil || ref.Index < 0 || ref.Index >= len(*slots) || len((*slots)[ref.Index]) > 0 {
		return
	}
	*slots = append((*slots)[:ref.Index:ref.Index], (*slots)[ref.Index+1:]...)
	if ref.Deck == DeckCards && ref.Index < len(r.DeckDimension) {
		r.DeckDimension = append(r.DeckDimension[:ref.Index:ref.Index], r.DeckDimension[ref.Index+1:]...)
	}
}

var (
	ErrDuplicateItem    = errors.New("duplicate item id")
	ErrNestedPile       = errors.New("nested pile")
	ErrGeometryMismatch = errors.New("deck and deck geometry length differ")
)

// Validate checks the structural invariants of the room: unique ids across
// every container, piles one level deep, deck geometry aligned with deck.
func (r *Room) Validate() error {
	seen := make(map[string]string)
	check := func(where string, items []Item) error {
		for _, it := range items {
			if prev, ok := seen[it.ID]; ok {
				return fmt.Errorf("%w: %s in %s and %s", ErrDuplicateItem, it.ID, prev, where)
			}
			seen[it.ID] = where
			for _, p := range it.Pile {
				if len(p.Pile) > 0 {
					return fmt.Errorf("%w: %s under %s", ErrNestedPile, p.ID, it.ID)
				}
				if prev, ok := seen[p.ID]; ok {
					return fmt.Errorf("%w: %s in %s and pile of %s", ErrDuplicateItem, p.ID, prev, it.ID)
				}
				seen[p.ID] = where
			}
		}
		return nil
	}

	if err := check(ContainerCards, r.Cards); err != nil {
		return err
	}
	for _, kind := range []DeckKind{DeckCards, DeckTokens, DeckPieces} {
		for i, slot := range *r.slots(kind) {
			if err := check(fmt.Sprintf("%s[%d]", kind, i), slot); err != nil {
				return err
			}
		}
	}
	for user, hand := range r.Hand {
		if err := check("hand("+user+")", hand); err != nil {
			return err
		}
	}
	if r.DeckDimension != nil && len(r.Deck) != len(r.DeckDimension) {
		return fmt.Errorf("%w: %d slots, %d records", ErrGeometryMismatch, len(r.Deck), len(r.DeckDimension))
	}
	return nil
}

// Clone returns a deep copy of the room, safe to hand to another goroutine.
func (r *Room) Clone() *Room {
	out := &Room{
		ID:    r.ID,
		Name:  r.Name,
		Cards: cloneItems(r.Cards),
	}
	out.Deck = cloneSlots(r.Deck)
	out.Tokens = cloneSlots(r.Tokens)
	out.Pieces = cloneSlots(r.Pieces)
	if r.DeckDimension != nil {
		out.DeckDimension = append([]Dimension{}, r.DeckDimension...)
	}
	if r.Hand != nil {
		out.Hand = make(map[string][]Item, len(r.Hand))
		for user, hand := range r.Hand {
			out.Hand[user] = cloneItems(hand)
		}
	}
	if r.CardsInDeck != nil {
		out.CardsInDeck = make([][]string, len(r.CardsInDeck))
		for i, ids := range r.CardsInDeck {
			out.CardsInDeck[i] = append([]string{}, ids...)
		}
	}
	return out
}

func cloneSlots(slots [][]Item) [][]Item {
	if slots == nil {
		return nil
	}
	out := make([][]Item, len(slots))
	for i, slot := range slots {
		out[i] = cloneItems(slot)
	}
	return out
}
