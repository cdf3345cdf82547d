package game

// Hand layout used when a pile is unstacked into a hand.
const (
	HandPad   = 10
	HandWidth = 1400
	CardWidth = 65
)

// DropRequest is the itemUpdated payload of an itemDrop event.
//
// DeckIndex addresses the slot on whichever side is a deck slot. When both
// source and destination are slots, SrcIndex addresses the source and
// defaults to DeckIndex.
type DropRequest struct {
	ItemID    string   `json:"itemID"`
	PileIDs   []string `json:"pileIds"`
	Src       string   `json:"src"`
	Dest      string   `json:"dest"`
	DeckIndex *int     `json:"deckIndex"`
	SrcIndex  *int     `json:"srcIndex"`
	X         *float64 `json:"x"`
	Y         *float64 `json:"y"`
}

// DragRequest is the itemUpdated payload of an itemDrag event.
type DragRequest struct {
	ItemID    string   `json:"itemID"`
	Src       string   `json:"src"`
	DeckIndex *int     `json:"deckIndex"`
	X         *float64 `json:"x"`
	Y         *float64 `json:"y"`
}

// DropResult describes a drop that changed the room.
type DropResult struct {
	Item     Item
	FromHand bool
}

func (req DropRequest) srcIndex() *int {
	if req.SrcIndex != nil && req.Dest != "" && req.Dest != ContainerCards && req.Dest != ContainerHand {
		return req.SrcIndex
	}
	return req.DeckIndex
}

func (req DropRequest) at(fallback Item) (float64, float64) {
	x, y := fallback.X, fallback.Y
	if req.X != nil {
		x = *req.X
	}
	if req.Y != nil {
		y = *req.Y
	}
	return x, y
}

// Drop moves an item, and any pile it carries, between containers. It
// reports false and leaves the room untouched when the request is malformed
// or the item is not where the request says it is.
func (r *Room) Drop(username string, req DropRequest) (DropResult, bool) {
	if req.Dest == "" && req.PileIDs == nil {
		return DropResult{}, false
	}
	src, err := ParseContainer(req.Src, username, req.srcIndex())
	if err != nil {
		return DropResult{}, false
	}
	if _, ok := r.find(src, req.ItemID); !ok {
		return DropResult{}, false
	}

	if req.Dest == "" {
		return r.merge(src, req)
	}
	dest, err := ParseContainer(req.Dest, username, req.DeckIndex)
	if err != nil || r.items(dest) == nil {
		return DropResult{}, false
	}

	switch dest.Kind {
	case KindTable:
		return r.dropOnTable(src, req)
	case KindHand:
		if src.Kind == KindHand {
			return DropResult{}, false
		}
		return r.dropInHand(src, dest, req)
	case KindSlot:
		return r.dropInSlot(src, dest, req)
	}
	return DropResult{}, false
}

// merge stacks the table items named in req.PileIDs under the dragged item
// and puts it back on top of the table.
func (r *Room) merge(src ContainerRef, req DropRequest) (DropResult, bool) {
	if src.Kind != KindTable {
		return DropResult{}, false
	}
	want := make(map[string]bool, len(req.PileIDs))
	for _, id := range req.PileIDs {
		if id != req.ItemID {
			want[id] = true
		}
	}

	var (
		target  Item
		members []Item
	)
	kept := make([]Item, 0, len(r.Cards))
	for _, it := range r.Cards {
		switch {
		case it.ID == req.ItemID:
			target = it
		case want[it.ID]:
			members = append(members, it)
		default:
			kept = append(kept, it)
		}
	}

	for _, m := range members {
		nested := m.Pile
		m.Pile = nil
		m.MoveTo(Offscreen, Offscreen)
		target.Pile = append(target.Pile, m)
		for _, n := range nested {
			n.Pile = nil
			n.MoveTo(Offscreen, Offscreen)
			target.Pile = append(target.Pile, n)
		}
	}
	target.Flatten()
	r.Cards = append(kept, target)
	return DropResult{Item: target}, true
}

func (r *Room) dropOnTable(src ContainerRef, req DropRequest) (DropResult, bool) {
	it, ok := r.take(src, req.ItemID)
	if !ok {
		return DropResult{}, false
	}
	if req.X != nil || req.Y != nil {
		it.MoveTo(req.at(it))
	}
	r.Cards = append(r.Cards, it)
	r.prune(src)
	return DropResult{Item: it, FromHand: src.Kind == KindHand}, true
}

func (r *Room) dropInHand(src, dest ContainerRef, req DropRequest) (DropResult, bool) {
	it, ok := r.take(src, req.ItemID)
	if !ok {
		return DropResult{}, false
	}
	x, y := req.at(it)

	unstacked := make([]Item, 0, len(it.Pile)+1)
	for i, p := range it.Pile {
		p.Pile = nil
		p.MoveTo(x, y)
		p.IsFlipped = false
		if shift := float64((i + 1) * HandPad); x+CardWidth+shift <= HandWidth {
			p.X += shift
		}
		unstacked = append(unstacked, p)
	}
	it.Pile = nil
	it.IsFlipped = false
	it.MoveTo(x, y)
	unstacked = append(unstacked, it)

	r.put(dest, unstacked...)
	r.prune(src)
	return DropResult{Item: it}, true
}

func (r *Room) dropInSlot(src, dest ContainerRef, req DropRequest) (DropResult, bool) {
	it, ok := r.take(src, req.ItemID)
	if !ok {
		return DropResult{}, false
	}
	x, y := req.at(it)

	stack := make([]Item, 0, len(it.Pile)+1)
	for _, p := range it.Pile {
		p.Pile = nil
		p.MoveTo(x, y)
		stack = append(stack, p)
	}
	it.Pile = nil
	it.MoveTo(x, y)
	stack = append(stack, it)

	r.put(dest, stack...)
	r.prune(src)
	return DropResult{Item: it, FromHand: src.Kind == KindHand}, true
}

// Drag moves an item in place. broadcast is false for hand drags, which stay
// private to their owner. ok is false when the request cannot be resolved to
// a container at all.
func (r *Room) Drag(username string, req DragRequest) (broadcast, ok bool) {
	src, err := ParseContainer(req.Src, username, req.DeckIndex)
	if err != nil {
		return false, false
	}
	if items := r.items(src); items != nil {
		if i := indexOf(*items, req.ItemID); i >= 0 {
			it := &(*items)[i]
			if req.X != nil {
				it.X = *req.X
			}
			if req.Y != nil {
				it.Y = *req.Y
			}
		}
	}
	return src.Kind != KindHand, true
}
