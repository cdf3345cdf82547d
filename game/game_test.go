package game

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card(id string, pile ...Item) Item {
	return Item{
		ID:          id,
		Type:        TypeCard,
		ImageSource: ImageSource{Front: json.RawMessage(`"front-` + id + `"`), Back: json.RawMessage(`"back"`)},
		Pile:        pile,
	}
}

func ptr[T any](v T) *T { return &v }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("dim-%d", n)
	}
}

// newTestRoom builds:
//
//	cards:  t1, t2[t2a t2b]
//	deck:   [d1] [d2 d3]
//	tokens: [k1 k2]
//	pieces: [p1]
//	hand:   alice: h1[h1a]   bob: -
func newTestRoom() *Room {
	r := &Room{
		ID:     "room1",
		Name:   "test",
		Cards:  []Item{card("t1"), card("t2", card("t2a"), card("t2b"))},
		Deck:   [][]Item{{card("d1")}, {card("d2"), card("d3")}},
		Tokens: [][]Item{{card("k1"), card("k2")}},
		Pieces: [][]Item{{card("p1")}},
		Hand: map[string][]Item{
			"alice": {card("h1", card("h1a"))},
			"bob":   {},
		},
	}
	r.Normalize()
	r.EnsureDeckMetadata(sequentialIDs())
	return r
}

func ids(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestItem_Flatten(t *testing.T) {
	it := card("a", card("b", card("c"), card("d")), card("e"))
	it.Flatten()

	assert.Equal(t, []string{"b", "c", "d", "e"}, ids(it.Pile))
	for _, p := range it.Pile {
		assert.Empty(t, p.Pile)
	}
}

func TestPile_MarshalEmpty(t *testing.T) {
	b, err := json.Marshal(Item{ID: "x"})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"pile":[]`)
}

func TestParseContainer(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		index   *int
		want    ContainerRef
		wantErr error
	}{
		{name: "table", src: "cards", want: Table()},
		{name: "hand", src: "hand", want: Hand("alice")},
		{name: "deck slot", src: "deck", index: ptr(2), want: Slot(DeckCards, 2)},
		{name: "tokens slot", src: "tokens", index: ptr(0), want: Slot(DeckTokens, 0)},
		{name: "slot without index", src: "pieces", wantErr: ErrMissingSlot},
		{name: "unknown", src: "floor", wantErr: ErrUnknownContainer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseContainer(tt.src, "alice", tt.index)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoom_EnsureDeckMetadata(t *testing.T) {
	r := &Room{Deck: [][]Item{{{ID: "a", X: 10, Y: 20, Width: 65, Height: 91}, {ID: "b"}}}}

	assert.True(t, r.EnsureDeckMetadata(sequentialIDs()))
	assert.Equal(t, [][]string{{"a", "b"}}, r.CardsInDeck)
	assert.Equal(t, []Dimension{{ID: "dim-1", X: 10, Y: 20, Width: 65, Height: 91}}, r.DeckDimension)

	assert.False(t, r.EnsureDeckMetadata(sequentialIDs()), "second call keeps existing metadata")
}

func TestRoom_EnsureHand(t *testing.T) {
	r := newTestRoom()

	assert.True(t, r.EnsureHand("carol"))
	assert.NotNil(t, r.Hand["carol"])
	assert.Empty(t, r.Hand["carol"])

	assert.False(t, r.EnsureHand("alice"))
	assert.Len(t, r.Hand["alice"], 1, "existing hand untouched")
}

func TestRoom_Snapshot(t *testing.T) {
	r := newTestRoom()

	snap := r.Snapshot("alice")
	assert.Equal(t, []string{"h1"}, ids(snap.Hand))
	assert.Len(t, snap.Deck, 2)
	assert.Len(t, snap.DeckDimension, 2)

	b, err := json.Marshal(r.Snapshot("nobody"))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"hand":[]`)
	assert.NotContains(t, string(b), "h1", "other hands never leak into a snapshot")
}

func TestRoom_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, newTestRoom().Validate())
	})
	t.Run("duplicate across containers", func(t *testing.T) {
		r := newTestRoom()
		r.Hand["bob"] = []Item{card("d1")}
		assert.ErrorIs(t, r.Validate(), ErrDuplicateItem)
	})
	t.Run("duplicate inside pile", func(t *testing.T) {
		r := newTestRoom()
		r.Cards[0].Pile = Pile{card("k1")}
		assert.ErrorIs(t, r.Validate(), ErrDuplicateItem)
	})
	t.Run("nested pile", func(t *testing.T) {
		r := newTestRoom()
		r.Cards[1].Pile[0].Pile = Pile{card("deep")}
		assert.ErrorIs(t, r.Validate(), ErrNestedPile)
	})
	t.Run("geometry misaligned", func(t *testing.T) {
		r := newTestRoom()
		r.DeckDimension = r.DeckDimension[:1]
		assert.ErrorIs(t, r.Validate(), ErrGeometryMismatch)
	})
}

func TestRoom_Clone(t *testing.T) {
	r := newTestRoom()
	c := r.Clone()
	require.Equal(t, r, c)

	c.Cards[1].Pile[0].IsFlipped = true
	c.Hand["alice"][0].X = 99
	c.Deck[0][0].ID = "changed"

	assert.False(t, r.Cards[1].Pile[0].IsFlipped)
	assert.Zero(t, r.Hand["alice"][0].X)
	assert.Equal(t, "d1", r.Deck[0][0].ID)
}

func TestNewRoom(t *testing.T) {
	templates := []DeckTemplate{
		{Type: TypeCard, Items: []Item{card("c1"), card("c2"), card("c3")}},
		{Type: TypeToken, NumCards: 4, Items: []Item{card("tok")}},
		{Type: TypePiece, NumCards: 1, Items: []Item{card("pa"), card("pb")}},
		{Type: TypeCard},
	}

	r := NewRoom("ROOM", "Friday", templates, testRand(), sequentialIDs())

	require.NoError(t, r.Validate())
	assert.Equal(t, "ROOM", r.ID)
	assert.Len(t, r.Deck, 1, "empty templates produce no slot")
	assert.ElementsMatch(t, []string{"c1", "c2", "c3"}, ids(r.Deck[0]))
	assert.Equal(t, []string{"tok0", "tok1", "tok2", "tok3"}, ids(r.Tokens[0]))
	assert.Equal(t, []string{"pa", "pb"}, ids(r.Pieces[0]))
	assert.Len(t, r.DeckDimension, 1)
	assert.Len(t, r.CardsInDeck, 1)
	assert.Empty(t, r.Cards)
	assert.Empty(t, r.Hand)
}
