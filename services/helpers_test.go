package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bellapacxx/sandbox-backend/game"
	"github.com/bellapacxx/sandbox-backend/store"
	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("connection refused")

// brokenStore fails every room call it is told to fail.
type brokenStore struct {
	*store.MemoryStore
	findErr, idsErr, saveErr error
	finds                    atomic.Int32
	gate                     chan struct{}
}

func (s *brokenStore) FindRoom(ctx context.Context, id string) (*game.Room, error) {
	s.finds.Add(1)
	if s.gate != nil {
		<-s.gate
	}
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.MemoryStore.FindRoom(ctx, id)
}

func (s *brokenStore) FindRoomIDs(ctx context.Context, ids []string) ([]string, error) {
	if s.idsErr != nil {
		return nil, s.idsErr
	}
	return s.MemoryStore.FindRoomIDs(ctx, ids)
}

func (s *brokenStore) SaveRoom(ctx context.Context, r *game.Room) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	return s.MemoryStore.SaveRoom(ctx, r)
}

func card(id string, pile ...game.Item) game.Item {
	return game.Item{
		ID:          id,
		Type:        game.TypeCard,
		ImageSource: game.ImageSource{Front: json.RawMessage(`"` + id + `.png"`)},
		Pile:        pile,
	}
}

// seedRoom stores a room with:
//
//	cards: t1, t2[t2a]
//	deck:  [d1] [d2 d3]
//	hand:  alice: h1
func seedRoom(t *testing.T, s store.RoomStore, id string) {
	t.Helper()
	r := &game.Room{
		ID:    id,
		Name:  "table",
		Cards: []game.Item{card("t1"), card("t2", card("t2a"))},
		Deck:  [][]game.Item{{card("d1")}, {card("d2"), card("d3")}},
		Hand:  map[string][]game.Item{"alice": {card("h1")}},
	}
	r.Normalize()
	require.NoError(t, s.CreateRoom(context.Background(), r))
}

func testClient(id string) *Client {
	return &Client{id: id, send: make(chan []byte, sendBuffer), done: make(chan struct{})}
}

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func recv(t *testing.T, c *Client) frame {
	t.Helper()
	select {
	case b := <-c.send:
		var f frame
		require.NoError(t, json.Unmarshal(b, &f))
		return f
	case <-time.After(time.Second):
		t.Fatalf("client %s: no frame received", c.id)
		return frame{}
	}
}

func requireSilent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case b := <-c.send:
		t.Fatalf("client %s: unexpected frame %s", c.id, b)
	default:
	}
}

func msg(t *testing.T, event string, data any) []byte {
	t.Helper()
	b, err := json.Marshal(map[string]any{"event": event, "data": data})
	require.NoError(t, err)
	return b
}
