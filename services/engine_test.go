package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/bellapacxx/sandbox-backend/game"
	"github.com/bellapacxx/sandbox-backend/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type engineFixture struct {
	mem    *store.MemoryStore
	reg    *Registry
	hub    *Hub
	engine *Engine
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	mem := store.NewMemoryStore()
	seedRoom(t, mem, "R1")
	reg := NewRegistry(mem)
	hub := NewHub()
	return &engineFixture{mem: mem, reg: reg, hub: hub, engine: NewEngine(reg, hub, NewSessions())}
}

// join connects a test client as username and discards its snapshot.
func (f *engineFixture) join(t *testing.T, id, username string) *Client {
	t.Helper()
	c := testClient(id)
	f.engine.Dispatch(c, msg(t, EventJoinRoom, JoinPayload{RoomID: "R1", Username: username}))
	require.Equal(t, EventTableReload, recv(t, c).Event)
	return c
}

func update(t *testing.T, event, username string, item any) []byte {
	t.Helper()
	return msg(t, event, map[string]any{"username": username, "roomID": "R1", "itemUpdated": item})
}

func decodeChange(t *testing.T, f frame) TableChange {
	t.Helper()
	require.Equal(t, EventTableChange, f.Event)
	var ch TableChange
	require.NoError(t, json.Unmarshal(f.Data, &ch))
	return ch
}

func TestEngine_Join(t *testing.T) {
	f := newEngineFixture(t)
	c := testClient("c1")

	f.engine.Dispatch(c, msg(t, EventJoinRoom, JoinPayload{RoomID: "R1", Username: "bob"}))

	fr := recv(t, c)
	require.Equal(t, EventTableReload, fr.Event)
	var snap game.Snapshot
	require.NoError(t, json.Unmarshal(fr.Data, &snap))
	assert.Len(t, snap.Cards, 2)
	assert.Len(t, snap.Deck, 2)
	assert.Len(t, snap.DeckDimension, 2, "geometry built on first join")
	assert.Equal(t, [][]string{{"d1"}, {"d2", "d3"}}, snap.CardsInDeck)
	assert.NotNil(t, snap.Hand)
	assert.Empty(t, snap.Hand, "bob only sees his own new hand")
	assert.NotContains(t, string(fr.Data), "h1")

	assert.Equal(t, 1, f.hub.Count("R1"))
	room, _ := f.reg.Get("R1")
	assert.Contains(t, room.Hand, "bob")
	assert.Contains(t, room.Hand, "alice")
}

func TestEngine_JoinAliasAndOwnHand(t *testing.T) {
	f := newEngineFixture(t)
	c := testClient("c1")

	f.engine.Dispatch(c, msg(t, EventJoin, JoinPayload{RoomID: "R1", Username: "alice"}))

	var snap game.Snapshot
	require.NoError(t, json.Unmarshal(recv(t, c).Data, &snap))
	require.Len(t, snap.Hand, 1)
	assert.Equal(t, "h1", snap.Hand[0].ID)
}

func TestEngine_JoinIgnored(t *testing.T) {
	tests := []struct {
		name string
		p    JoinPayload
	}{
		{name: "unknown room", p: JoinPayload{RoomID: "nope", Username: "bob"}},
		{name: "no username", p: JoinPayload{RoomID: "R1"}},
		{name: "no room", p: JoinPayload{Username: "bob"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEngineFixture(t)
			c := testClient("c1")
			f.engine.Join(context.Background(), c, tt.p)
			requireSilent(t, c)
			assert.Empty(t, f.hub.Rooms(c))
		})
	}
}

func TestEngine_JoinEvictedRoomLeavesNoSubscription(t *testing.T) {
	f := newEngineFixture(t)
	c := testClient("c1")
	require.NoError(t, f.reg.Load(context.Background(), "R1"))
	f.reg.Remove("R1")

	assert.False(t, f.engine.attach(c, "R1", "bob"))

	requireSilent(t, c)
	assert.Empty(t, f.hub.Rooms(c))
	assert.Zero(t, f.hub.Count("R1"))
	_, bound := f.engine.sessions.Username(c)
	assert.False(t, bound)
}

func TestEngine_DropFromHandRevealsItem(t *testing.T) {
	f := newEngineFixture(t)
	alice := f.join(t, "a", "alice")
	bob := f.join(t, "b", "bob")

	f.engine.Dispatch(alice, update(t, EventItemDrop, "alice", map[string]any{
		"itemID": "h1", "src": "hand", "dest": "cards", "x": 300, "y": 200,
	}))

	for _, c := range []*Client{alice, bob} {
		ch := decodeChange(t, recv(t, c))
		assert.Equal(t, "alice", ch.Username)
		assert.Equal(t, ChangeDrop, ch.UpdatedData["type"])
		assert.Equal(t, "h1", ch.UpdatedData["itemID"], "client payload echoed")
		hand, ok := ch.UpdatedData["handItem"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "h1", hand["id"])
	}

	room, _ := f.reg.Get("R1")
	assert.Equal(t, "h1", room.Cards[len(room.Cards)-1].ID)
	n, err := f.reg.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n, "room written back")
}

func TestEngine_DropPrunesDeckAndGeometry(t *testing.T) {
	f := newEngineFixture(t)
	alice := f.join(t, "a", "alice")

	f.engine.Dispatch(alice, update(t, EventItemDrop, "alice", map[string]any{
		"itemID": "d1", "src": "deck", "dest": "cards", "deckIndex": 0,
	}))

	ch := decodeChange(t, recv(t, alice))
	assert.Nil(t, ch.UpdatedData["handItem"])
	room, _ := f.reg.Get("R1")
	assert.Len(t, room.Deck, 1)
	assert.Len(t, room.DeckDimension, 1)
	assert.NoError(t, room.Validate())
}

func TestEngine_InvalidDropIsSilent(t *testing.T) {
	f := newEngineFixture(t)
	alice := f.join(t, "a", "alice")

	f.engine.Dispatch(alice, update(t, EventItemDrop, "alice", map[string]any{
		"itemID": "ghost", "src": "cards", "dest": "hand",
	}))
	f.engine.Dispatch(alice, update(t, EventItemDrop, "alice", "not an object"))
	f.engine.Dispatch(alice, []byte(`{"event":`))

	requireSilent(t, alice)
}

func TestEngine_Drag(t *testing.T) {
	f := newEngineFixture(t)
	alice := f.join(t, "a", "alice")
	bob := f.join(t, "b", "bob")

	f.engine.Dispatch(alice, update(t, EventItemDrag, "alice", map[string]any{
		"itemID": "h1", "src": "hand", "x": 5, "y": 6,
	}))
	requireSilent(t, alice)
	requireSilent(t, bob)

	f.engine.Dispatch(alice, update(t, EventItemDrag, "alice", map[string]any{
		"itemID": "t1", "src": "cards", "x": 50, "y": 60,
	}))
	for _, c := range []*Client{alice, bob} {
		ch := decodeChange(t, recv(t, c))
		assert.Equal(t, ChangeDrag, ch.UpdatedData["type"])
	}

	room, _ := f.reg.Get("R1")
	assert.Equal(t, 50.0, room.Cards[0].X)
	assert.Equal(t, 5.0, room.Hand["alice"][0].X)
}

func TestEngine_Action(t *testing.T) {
	f := newEngineFixture(t)
	alice := f.join(t, "a", "alice")

	f.engine.Dispatch(alice, update(t, EventItemAction, "alice", map[string]any{
		"itemID": "t2", "option": "Flip", "isFlipped": true,
	}))
	assert.Equal(t, ChangeAction, decodeChange(t, recv(t, alice)).UpdatedData["type"])
	room, _ := f.reg.Get("R1")
	assert.True(t, room.Cards[1].IsFlipped)
	assert.True(t, room.Cards[1].Pile[0].IsFlipped)

	f.engine.Dispatch(alice, update(t, EventItemAction, "alice", map[string]any{
		"itemID": "t1", "option": "Disassemble",
	}))
	assert.Equal(t, ChangeAction, decodeChange(t, recv(t, alice)).UpdatedData["type"], "no-op still broadcast")

	f.engine.Dispatch(alice, update(t, EventItemAction, "alice", map[string]any{
		"itemID": "t1", "option": "Teleport",
	}))
	assert.Equal(t, ChangeAction, decodeChange(t, recv(t, alice)).UpdatedData["type"], "unknown option still broadcast")
}

func TestEngine_EventsForUncachedRoomIgnored(t *testing.T) {
	f := newEngineFixture(t)
	c := testClient("c1")
	f.hub.Subscribe("R1", c)

	f.engine.Dispatch(c, update(t, EventItemAction, "alice", map[string]any{"itemID": "t1", "option": "Flip"}))

	requireSilent(t, c)
}

func TestEngine_MouseMove(t *testing.T) {
	f := newEngineFixture(t)
	alice := f.join(t, "a", "alice")
	bob := f.join(t, "b", "bob")

	f.engine.Dispatch(alice, msg(t, EventMouseMove, MousePayload{X: 1, Y: 2, Username: "alice", RoomID: "R1"}))

	for _, c := range []*Client{alice, bob} {
		fr := recv(t, c)
		assert.Equal(t, EventMousePosition, fr.Event)
		assert.JSONEq(t, `{"x":1,"y":2,"username":"alice"}`, string(fr.Data))
	}
}

func TestEngine_Disconnect(t *testing.T) {
	f := newEngineFixture(t)
	alice := f.join(t, "a", "alice")
	bob := f.join(t, "b", "bob")

	f.engine.Disconnect(alice)

	fr := recv(t, bob)
	assert.Equal(t, EventUserDisconnected, fr.Event)
	assert.JSONEq(t, `{"username":"alice"}`, string(fr.Data))
	requireSilent(t, alice)
	assert.Equal(t, 1, f.hub.Count("R1"))
	_, bound := f.engine.sessions.Username(alice)
	assert.False(t, bound)
}

func TestEngine_UnknownEvent(t *testing.T) {
	f := newEngineFixture(t)
	alice := f.join(t, "a", "alice")

	f.engine.Dispatch(alice, msg(t, "teleport", map[string]any{}))

	requireSilent(t, alice)
}
