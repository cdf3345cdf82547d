package game

import "encoding/json"

// Offscreen is the coordinate given to items that get stacked into another
// item's pile, so clients stop drawing them on the table.
const Offscreen = -100

// ImageSource holds the face and back image references of an item. Both
// sides are opaque to the server and round-trip untouched.
type ImageSource struct {
	Front json.RawMessage `json:"front,omitempty"`
	Back  json.RawMessage `json:"back,omitempty"`
}

// Item is a card, token or piece. Pile holds the items stacked beneath it;
// an item inside a pile never carries a pile of its own.
type Item struct {
	ID          string      `json:"id"`
	X           float64     `json:"x"`
	Y           float64     `json:"y"`
	Width       float64     `json:"width,omitempty"`
	Height      float64     `json:"height,omitempty"`
	Type        string      `json:"type,omitempty"`
	IsFlipped   bool        `json:"isFlipped"`
	IsLandscape bool        `json:"isLandscape"`
	ImageSource ImageSource `json:"imageSource"`
	Pile        Pile        `json:"pile"`
}

// Pile is the ordered stack beneath an item.
type Pile []Item

// MarshalJSON keeps an empty pile as [] so clients can rely on pile.length.
func (p Pile) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Item(p))
}

// Flatten lifts any nested piles into the item's own pile, keeping order:
// each piled item is followed by whatever it carried.
func (it *Item) Flatten() {
	if len(it.Pile) == 0 {
		return
	}
	flat := make(Pile, 0, len(it.Pile))
	var walk func(items Pile)
	walk = func(items Pile) {
		for _, p := range items {
			nested := p.Pile
			p.Pile = nil
			flat = append(flat, p)
			walk(nested)
		}
	}
	walk(it.Pile)
	it.Pile = flat
}

// IDs returns the id of the item followed by the ids of its pile.
func (it Item) IDs() []string {
	ids := make([]string, 0, len(it.Pile)+1)
	ids = append(ids, it.ID)
	for _, p := range it.Pile {
		ids = append(ids, p.ID)
	}
	return ids
}

// MoveTo sets the table position of the item.
func (it *Item) MoveTo(x, y float64) {
	it.X = x
	it.Y = y
}

// Clone returns a deep copy of the item.
func (it Item) Clone() Item {
	out := it
	if it.Pile != nil {
		out.Pile = make(Pile, len(it.Pile))
		for i, p := range it.Pile {
			out.Pile[i] = p.Clone()
		}
	}
	return out
}

func indexOf(items []Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

func flattenAll(items []Item) []Item {
	for i := range items {
		items[i].Flatten()
	}
	return items
}
