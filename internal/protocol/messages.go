// Package protocol defines the wire schema between sync clients and the
// relay. Every mutation message carries the full resulting shape state,
// never a diff: the relay fans messages out verbatim and receivers apply
// them last-write-wins, so there is no version field to reconcile.
package protocol

import "sketchsync/internal/shape"

// Client → relay message types.
const (
	MsgJoinRoom       = "join-room"
	MsgJoin           = "join"
	MsgCreateShape    = "create-shape"
	MsgRemoveShape    = "remove-shape"
	MsgResizeShape    = "resize-shape"
	MsgSelectShape    = "select-shape"
	MsgCursorPosition = "cursor-position"
	MsgClearCanvas    = "clear-canvas"
)

// Relay → client message types.
const (
	EvtJoined         = "joined"
	EvtRoomJoined     = "room-joined"
	EvtUserRoomJoined = "user-room-joined"
	EvtShapeCreated   = "shape-created"
	EvtShapeRemoved   = "shape-removed"
	EvtCursorPosition = "cursor-position"
	EvtSelectedShape  = "selected-shape"
	EvtResizedShape   = "resized-shape"
	EvtUserExit       = "user-exit"
	EvtCanvasCleared  = "canvas-cleared"
	EvtError          = "error"
)

// ClientMessage is the client → relay envelope.
type ClientMessage struct {
	Type    string         `json:"type"`
	Payload *ClientPayload `json:"payload,omitempty"`
}

// ClientPayload is the union of all client-message payload fields; only
// the fields relevant to the message type are set.
type ClientPayload struct {
	RoomID  string        `json:"roomId,omitempty"`
	UserID  string        `json:"userId,omitempty"`
	ShapeID string        `json:"shapeId,omitempty"`
	Shape   *shape.Shape  `json:"shape,omitempty"`
	Shapes  []shape.Shape `json:"shapes,omitempty"`
	X       float64       `json:"x,omitempty"`
	Y       float64       `json:"y,omitempty"`
}

// RoomUser is one member of a room's roster, keyed by opaque user id.
type RoomUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ServerMessage is the relay → client envelope. Message carries protocol
// error text when Type is EvtError.
type ServerMessage struct {
	Type    string      `json:"type"`
	Data    *ServerData `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ServerData is the union of all relay-event payload fields.
type ServerData struct {
	Name          string        `json:"name,omitempty"`
	UserID        string        `json:"userId,omitempty"`
	RoomID        string        `json:"roomId,omitempty"`
	Shapes        []shape.Shape `json:"shapes,omitempty"`
	ExistingUsers []RoomUser    `json:"existingUsers,omitempty"`
	ID            string        `json:"id,omitempty"`
	Shape         *shape.Shape  `json:"shape,omitempty"`
	ShapeID       string        `json:"shapeId,omitempty"`
	UpdatedShape  *shape.Shape  `json:"updatedShape,omitempty"`
	X             float64       `json:"x,omitempty"`
	Y             float64       `json:"y,omitempty"`
}

// RoomCreated is the response body of GET /gen-room-url.
type RoomCreated struct {
	InviteURL string `json:"inviteUrl"`
	RoomID    string `json:"roomId"`
	RoomKey   string `json:"roomKey"`
}

// DrawRequest is the body of POST /draw.
type DrawRequest struct {
	Query string `json:"query"`
}

// DrawResponse carries the generated shapes; clients append them to the
// local store and broadcast them as ordinary create-shape messages.
type DrawResponse struct {
	Content []shape.Shape `json:"content"`
}
