package services

import (
	"encoding/json"

	"github.com/bellapacxx/sandbox-backend/game"
)

// Client -> server events.
const (
	EventJoinRoom   = "joinRoom"
	EventJoin       = "join"
	EventItemDrop   = "itemDrop"
	EventItemDrag   = "itemDrag"
	EventItemAction = "itemAction"
	EventMouseMove  = "mouseMove"
)

// Server -> client events.
const (
	EventTableReload      = "tableReload"
	EventTableChange      = "tableChangeUpdate"
	EventMousePosition    = "mousePositionUpdate"
	EventUserDisconnected = "userDisconnected"
)

// Change types carried in tableChangeUpdate.
const (
	ChangeDrop   = "drop"
	ChangeDrag   = "drag"
	ChangeAction = "action"
)

// Envelope is every frame on the socket, in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type outgoing struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type JoinPayload struct {
	RoomID   string `json:"roomID"`
	Username string `json:"username"`
}

// UpdatePayload wraps the itemDrop, itemDrag and itemAction events. The
// inner itemUpdated object is kept raw so it can be echoed back as sent.
type UpdatePayload struct {
	Username    string          `json:"username"`
	RoomID      string          `json:"roomID"`
	ItemUpdated json.RawMessage `json:"itemUpdated"`
}

type MousePayload struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Username string  `json:"username"`
	RoomID   string  `json:"roomID"`
}

type MousePosition struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Username string  `json:"username"`
}

type TableChange struct {
	Username    string         `json:"username"`
	UpdatedData map[string]any `json:"updatedData"`
}

type UserDisconnected struct {
	Username string `json:"username"`
}

// changeData echoes the client's itemUpdated object with the change type
// added. handItem is set when an item left a hand so other players learn
// what it was.
func changeData(raw json.RawMessage, kind string, handItem *game.Item) map[string]any {
	data := map[string]any{}
	_ = json.Unmarshal(raw, &data)
	if data == nil {
		data = map[string]any{}
	}
	data["type"] = kind
	if handItem != nil {
		data["handItem"] = handItem
	}
	return data
}
