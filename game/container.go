package game

import (
	"errors"
	"fmt"
)

// Container names used on the wire.
const (
	ContainerCards  = "cards"
	ContainerHand   = "hand"
	ContainerDeck   = "deck"
	ContainerTokens = "tokens"
	ContainerPieces = "pieces"
)

// ContainerKind tells which family of container a ContainerRef points at.
type ContainerKind int

const (
	KindTable ContainerKind = iota + 1
	KindHand
	KindSlot
)

// DeckKind names one of the three slotted containers.
type DeckKind string

const (
	DeckCards  DeckKind = ContainerDeck
	DeckTokens DeckKind = ContainerTokens
	DeckPieces DeckKind = ContainerPieces
)

var (
	ErrUnknownContainer = errors.New("unknown container")
	ErrMissingSlot      = errors.New("slot index required")
)

// ContainerRef addresses the table, one user's hand or one deck slot.
type ContainerRef struct {
	Kind     ContainerKind
	Username string
	Deck     DeckKind
	Index    int
}

// Table is the ref of the loose table container.
func Table() ContainerRef { return ContainerRef{Kind: KindTable} }

// Hand is the ref of username's hand.
func Hand(username string) ContainerRef {
	return ContainerRef{Kind: KindHand, Username: username}
}

// Slot is the ref of one slot of a deck kind.
func Slot(deck DeckKind, index int) ContainerRef {
	return ContainerRef{Kind: KindSlot, Deck: deck, Index: index}
}

// ParseContainer resolves a wire container name. Slots need an index.
func ParseContainer(name, username string, index *int) (ContainerRef, error) {
	switch name {
	case ContainerCards:
		return Table(), nil
	case ContainerHand:
		return Hand(username), nil
	case ContainerDeck, ContainerTokens, ContainerPieces:
		if index == nil {
			return ContainerRef{}, fmt.Errorf("%s: %w", name, ErrMissingSlot)
		}
		return Slot(DeckKind(name), *index), nil
	default:
		return ContainerRef{}, fmt.Errorf("%q: %w", name, ErrUnknownContainer)
	}
}

func (c ContainerRef) String() string {
	switch c.Kind {
	case KindTable:
		return ContainerCards
	case KindHand:
		return ContainerHand + "(" + c.Username + ")"
	case KindSlot:
		return fmt.Sprintf("%s[%d]", c.Deck, c.Index)
	}
	return "invalid"
}
