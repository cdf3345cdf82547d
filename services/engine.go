package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bellapacxx/sandbox-backend/game"
	"github.com/bellapacxx/sandbox-backend/utils/logger"
	"github.com/google/uuid"
)

const loadTimeout = 10 * time.Second

// Engine applies socket events to live rooms and broadcasts the results.
type Engine struct {
	registry *Registry
	hub      *Hub
	sessions *Sessions
	newID    func() string
}

func NewEngine(registry *Registry, hub *Hub, sessions *Sessions) *Engine {
	return &Engine{
		registry: registry,
		hub:      hub,
		sessions: sessions,
		newID:    uuid.NewString,
	}
}

// Dispatch decodes one frame and routes it by event name. Malformed frames
// are dropped.
func (e *Engine) Dispatch(c *Client, msg []byte) {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		logger.Debugf("[Client %s] invalid message: %v", c.id, err)
		return
	}

	switch env.Event {
	case EventJoinRoom, EventJoin:
		var p JoinPayload
		if !decode(c, env, &p) {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		e.Join(ctx, c, p)
	case EventItemDrop:
		var p UpdatePayload
		if decode(c, env, &p) {
			e.Drop(c, p)
		}
	case EventItemDrag:
		var p UpdatePayload
		if decode(c, env, &p) {
			e.Drag(c, p)
		}
	case EventItemAction:
		var p UpdatePayload
		if decode(c, env, &p) {
			e.Action(c, p)
		}
	case EventMouseMove:
		var p MousePayload
		if decode(c, env, &p) {
			e.MouseMove(c, p)
		}
	default:
		logger.Debugf("[Client %s] unknown event: %q", c.id, env.Event)
	}
}

func decode(c *Client, env Envelope, v any) bool {
	if err := json.Unmarshal(env.Data, v); err != nil {
		logger.Debugf("[Client %s] invalid %s payload: %v", c.id, env.Event, err)
		return false
	}
	return true
}

// Join subscribes c to a room and sends it the room snapshot with its own
// hand.
func (e *Engine) Join(ctx context.Context, c *Client, p JoinPayload) {
	if p.RoomID == "" || p.Username == "" {
		logger.Debugf("[Client %s] join without room or username", c.id)
		return
	}
	if err := e.registry.Load(ctx, p.RoomID); err != nil {
		logger.Warnf("[Client %s] cannot join room %s: %v", c.id, p.RoomID, err)
		return
	}

	if !e.attach(c, p.RoomID, p.Username) {
		logger.Warnf("[Client %s] room %s evicted during join", c.id, p.RoomID)
		return
	}
	logger.Infof("User %s joined room %s", p.Username, p.RoomID)
}

// attach subscribes c and sends its snapshot under the room lock, so a
// connection is only subscribed to a room it received a snapshot of.
func (e *Engine) attach(c *Client, roomID, username string) bool {
	return e.registry.Update(roomID, func(r *game.Room) bool {
		e.hub.Subscribe(roomID, c)
		e.sessions.Bind(c, username)
		changed := r.EnsureHand(username)
		if r.EnsureDeckMetadata(e.newID) {
			changed = true
		}
		e.hub.Emit(c, EventTableReload, r.Snapshot(username))
		return changed
	})
}

func (e *Engine) Drop(c *Client, p UpdatePayload) {
	var req game.DropRequest
	if err := json.Unmarshal(p.ItemUpdated, &req); err != nil {
		logger.Debugf("[Client %s] invalid drop: %v", c.id, err)
		return
	}
	e.registry.Update(p.RoomID, func(r *game.Room) bool {
		res, ok := r.Drop(p.Username, req)
		if !ok {
			logger.Debugf("[Room %s] ignored drop of %s from %s", p.RoomID, req.ItemID, req.Src)
			return false
		}
		var handItem *game.Item
		if res.FromHand {
			handItem = &res.Item
		}
		e.hub.Broadcast(p.RoomID, EventTableChange, TableChange{
			Username:    p.Username,
			UpdatedData: changeData(p.ItemUpdated, ChangeDrop, handItem),
		}, nil)
		return true
	})
}

// Drag moves an item in place. Positions from drags are broadcast but never
// mark the room for write-back.
func (e *Engine) Drag(c *Client, p UpdatePayload) {
	var req game.DragRequest
	if err := json.Unmarshal(p.ItemUpdated, &req); err != nil {
		logger.Debugf("[Client %s] invalid drag: %v", c.id, err)
		return
	}
	e.registry.Update(p.RoomID, func(r *game.Room) bool {
		broadcast, ok := r.Drag(p.Username, req)
		if ok && broadcast {
			e.hub.Broadcast(p.RoomID, EventTableChange, TableChange{
				Username:    p.Username,
				UpdatedData: changeData(p.ItemUpdated, ChangeDrag, nil),
			}, nil)
		}
		return false
	})
}

// Action applies a table action. The change is broadcast even when the
// action had no effect, so clients that predicted it stay in step.
func (e *Engine) Action(c *Client, p UpdatePayload) {
	var req game.ActionRequest
	if err := json.Unmarshal(p.ItemUpdated, &req); err != nil {
		logger.Debugf("[Client %s] invalid action: %v", c.id, err)
		return
	}
	e.registry.Update(p.RoomID, func(r *game.Room) bool {
		changed := r.ApplyAction(req)
		e.hub.Broadcast(p.RoomID, EventTableChange, TableChange{
			Username:    p.Username,
			UpdatedData: changeData(p.ItemUpdated, ChangeAction, nil),
		}, nil)
		return changed
	})
}

func (e *Engine) MouseMove(c *Client, p MousePayload) {
	if p.RoomID == "" {
		return
	}
	e.hub.Broadcast(p.RoomID, EventMousePosition, MousePosition{X: p.X, Y: p.Y, Username: p.Username}, nil)
}

// Disconnect tells every room c had joined that its user left.
func (e *Engine) Disconnect(c *Client) {
	username, _ := e.sessions.Username(c)
	for _, roomID := range e.hub.UnsubscribeAll(c) {
		e.hub.Broadcast(roomID, EventUserDisconnected, UserDisconnected{Username: username}, c)
		logger.Infof("User %s left room %s", username, roomID)
	}
	e.sessions.Unbind(c)
}
