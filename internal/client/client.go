// Package client implements the sync client: it translates local
// mutations into protocol messages, applies inbound relay events to the
// shape store, and manages the session lifecycle.
//
// Conflict policy is last-write-wins, as documented in the protocol
// package: a remote create or resize overwrites local state by id with
// no merging. Missing-entity operations are silent no-ops because
// remote and local views may transiently disagree.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"sketchsync/internal/protocol"
	"sketchsync/internal/shape"
	"sketchsync/internal/store"
	"sketchsync/internal/viewport"
)

// SessionState gates whether inbound socket events are processed.
type SessionState string

const (
	SessionNotActive SessionState = "not-active"
	SessionActive    SessionState = "active"
)

// CursorInterval is the minimum gap between cursor broadcasts. Samples
// inside the window are dropped, not queued.
const CursorInterval = 300 * time.Millisecond

var (
	ErrNoSession      = errors.New("no active session")
	ErrSessionActive  = errors.New("session already active")
	ErrProvisionLink  = errors.New("room provisioning failed")
	ErrRoomFatal      = errors.New("relay reported fatal room error")
	ErrGenerateShapes = errors.New("failed to generate diagram")
)

// Cursor is a peer's last known pointer position in world space.
type Cursor struct {
	RoomID   string
	UserID   string
	Username string
	X        float64
	Y        float64
}

// Options configure a client. BaseURL is the relay's HTTP base, e.g.
// "http://localhost:8787".
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Storage    Storage
	Logger     *zap.Logger
}

// Client owns one canvas session's sync state. It is safe for use from
// an input goroutine concurrently with its own read loop.
type Client struct {
	httpc   *http.Client
	baseURL string
	storage Storage
	log     *zap.Logger
	shapes  *store.Store

	mu         sync.Mutex
	conn       *websocket.Conn
	session    SessionState
	roomID     string
	roomKey    string
	userID     string
	name       string
	users      []protocol.RoomUser
	cursors    map[string]Cursor
	lastCursor time.Time

	// OnUpdate, when set, fires after every applied remote event so the
	// renderer can repaint. OnSessionEnd fires when the session
	// terminates for any reason other than an explicit EndSession.
	OnUpdate     func()
	OnSessionEnd func(err error)
}

func New(opts Options) *Client {
	httpc := opts.HTTPClient
	if httpc == nil {
		httpc = http.DefaultClient
	}
	st := opts.Storage
	if st == nil {
		st = NewMemoryStorage()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		httpc:   httpc,
		baseURL: strings.TrimSuffix(opts.BaseURL, "/"),
		storage: st,
		log:     log,
		shapes:  store.New(),
		session: SessionNotActive,
		cursors: make(map[string]Cursor),
	}
}

// Store exposes the canonical shape collection.
func (c *Client) Store() *store.Store { return c.shapes }

func (c *Client) Session() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Client) RoomID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roomID
}

func (c *Client) UserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

// Users returns the current room roster.
func (c *Client) Users() []protocol.RoomUser {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]protocol.RoomUser, len(c.users))
	copy(out, c.users)
	return out
}

// Cursors returns the last known peer cursor positions keyed by user id.
func (c *Client) Cursors() map[string]Cursor {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]Cursor, len(c.cursors))
	for k, v := range c.cursors {
		out[k] = v
	}
	return out
}

// StartSession provisions a room over HTTP, connects, and bulk-uploads
// any shapes drawn before sharing. It returns the invite URL. The
// websocket dial resolves when the connection is open, so no completion
// polling is needed.
func (c *Client) StartSession(ctx context.Context) (string, error) {
	if c.Session() == SessionActive {
		return "", ErrSessionActive
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/gen-room-url", nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrProvisionLink, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrProvisionLink, resp.StatusCode)
	}
	var created protocol.RoomCreated
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("%w: %w", ErrProvisionLink, err)
	}

	if err := c.connect(ctx, created.RoomID, created.RoomKey, protocol.ClientMessage{
		Type: protocol.MsgJoin,
		Payload: &protocol.ClientPayload{
			RoomID: created.RoomID,
			Shapes: c.shapes.Shapes(),
		},
	}); err != nil {
		return "", err
	}
	return created.InviteURL, nil
}

// JoinRoom enters an existing room through an invite link. A key
// shorter than the minimum is fatal: the session is torn down before it
// starts and the error is surfaced to the caller.
func (c *Client) JoinRoom(ctx context.Context, link string) error {
	if c.Session() == SessionActive {
		return ErrSessionActive
	}
	roomID, roomKey, err := protocol.ParseRoomLink(link)
	if err != nil {
		return err
	}
	if err := protocol.ValidateRoomKey(roomKey); err != nil {
		c.EndSession()
		return err
	}

	userID, _ := c.storage.Get(KeyUserID)
	return c.connect(ctx, roomID, roomKey, protocol.ClientMessage{
		Type: protocol.MsgJoinRoom,
		Payload: &protocol.ClientPayload{
			RoomID: roomID,
			UserID: userID,
		},
	})
}

func (c *Client) connect(ctx context.Context, roomID, roomKey string, first protocol.ClientMessage) error {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return err
	}

	data, err := json.Marshal(first)
	if err != nil {
		conn.Close(websocket.StatusInternalError, "encode failed")
		return err
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		conn.Close(websocket.StatusProtocolError, "join failed")
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.session = SessionActive
	c.roomID = roomID
	c.roomKey = roomKey
	c.mu.Unlock()

	go c.readLoop(conn)
	return nil
}

// EndSession closes the connection and resets session state. Messages
// already sent are not retracted.
func (c *Client) EndSession() {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.session = SessionNotActive
	c.roomID = ""
	c.roomKey = ""
	c.users = nil
	c.cursors = make(map[string]Cursor)
	c.mu.Unlock()

	if conn != nil {
		conn.Close(websocket.StatusNormalClosure, "end session")
	}
	c.storage.Remove(KeyUserID)
	c.storage.Remove(KeyUserName)
}

// readLoop applies inbound relay events until the connection drops.
// Connection errors are logged and end the loop; there is no automatic
// reconnect.
func (c *Client) readLoop(conn *websocket.Conn) {
	ctx := context.Background()
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			c.mu.Lock()
			active := c.conn == conn
			c.mu.Unlock()
			if active {
				c.log.Info("connection closed", zap.Error(err))
				c.EndSession()
				if c.OnSessionEnd != nil {
					c.OnSessionEnd(err)
				}
			}
			return
		}

		var msg protocol.ServerMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.log.Warn("bad relay message", zap.Error(err))
			continue
		}
		if c.Session() != SessionActive {
			continue
		}
		c.apply(msg)
		if c.OnUpdate != nil {
			c.OnUpdate()
		}
	}
}

// apply routes one relay event into local state.
func (c *Client) apply(msg protocol.ServerMessage) {
	data := msg.Data
	if data == nil {
		data = &protocol.ServerData{}
	}

	switch msg.Type {
	case protocol.EvtError:
		// Protocol errors are fatal to the current room.
		c.log.Warn("relay error", zap.String("message", msg.Message))
		c.EndSession()
		if c.OnSessionEnd != nil {
			c.OnSessionEnd(fmt.Errorf("%w: %s", ErrRoomFatal, msg.Message))
		}

	case protocol.EvtJoined:
		c.mu.Lock()
		c.userID = data.UserID
		c.name = data.Name
		c.users = []protocol.RoomUser{{ID: data.UserID, Name: data.Name}}
		c.mu.Unlock()
		c.storage.Set(KeyUserID, data.UserID)
		c.storage.Set(KeyUserName, data.Name)

	case protocol.EvtRoomJoined:
		c.shapes.Replace(data.Shapes)
		c.mu.Lock()
		c.userID = data.UserID
		c.name = data.Name
		c.users = append([]protocol.RoomUser{}, data.ExistingUsers...)
		c.mu.Unlock()
		c.storage.Set(KeyUserID, data.UserID)
		c.storage.Set(KeyUserName, data.Name)

	case protocol.EvtUserRoomJoined:
		c.mu.Lock()
		c.users = append([]protocol.RoomUser{{ID: data.ID, Name: data.Name}}, c.users...)
		c.mu.Unlock()

	case protocol.EvtShapeCreated:
		if data.Shape != nil {
			c.shapes.Upsert(*data.Shape)
		}

	case protocol.EvtShapeRemoved:
		c.shapes.Remove(data.ShapeID)

	case protocol.EvtSelectedShape:
		c.shapes.Select(data.ShapeID)

	case protocol.EvtResizedShape:
		if data.UpdatedShape != nil {
			c.shapes.Upsert(*data.UpdatedShape)
		}

	case protocol.EvtCanvasCleared:
		c.shapes.Clear()

	case protocol.EvtCursorPosition:
		c.mu.Lock()
		c.cursors[data.ID] = Cursor{
			RoomID:   data.RoomID,
			UserID:   data.ID,
			Username: data.Name,
			X:        data.X,
			Y:        data.Y,
		}
		c.mu.Unlock()

	case protocol.EvtUserExit:
		c.mu.Lock()
		users := c.users[:0]
		for _, u := range c.users {
			if u.ID != data.UserID {
				users = append(users, u)
			}
		}
		c.users = users
		delete(c.cursors, data.UserID)
		c.mu.Unlock()
	}
}

// send emits one protocol message if a session is active; without one
// the local mutation stands alone, matching offline drawing.
func (c *Client) send(ctx context.Context, msg protocol.ClientMessage) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		c.log.Debug("not connected, message not sent", zap.String("type", msg.Type))
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		c.log.Warn("encode failed", zap.Error(err))
		return
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		c.log.Warn("send failed", zap.String("type", msg.Type), zap.Error(err))
	}
}

// CreateShape appends a locally drawn shape and broadcasts it.
func (c *Client) CreateShape(ctx context.Context, s shape.Shape) {
	c.shapes.Create(s)
	c.send(ctx, protocol.ClientMessage{
		Type:    protocol.MsgCreateShape,
		Payload: &protocol.ClientPayload{RoomID: c.RoomID(), Shape: &s},
	})
}

// RemoveShape deletes a shape locally and broadcasts the removal.
func (c *Client) RemoveShape(ctx context.Context, shapeID string) {
	c.shapes.Remove(shapeID)
	c.send(ctx, protocol.ClientMessage{
		Type:    protocol.MsgRemoveShape,
		Payload: &protocol.ClientPayload{ShapeID: shapeID},
	})
}

// ResizeShape overwrites a shape with its post-resize state and
// broadcasts the full shape, not a diff.
func (c *Client) ResizeShape(ctx context.Context, s shape.Shape) {
	c.shapes.Update(s.ID, s)
	c.send(ctx, protocol.ClientMessage{
		Type:    protocol.MsgResizeShape,
		Payload: &protocol.ClientPayload{RoomID: c.RoomID(), Shape: &s},
	})
}

// SelectShape names the local selection and broadcasts it.
func (c *Client) SelectShape(ctx context.Context, shapeID string) {
	c.shapes.Select(shapeID)
	c.send(ctx, protocol.ClientMessage{
		Type:    protocol.MsgSelectShape,
		Payload: &protocol.ClientPayload{RoomID: c.RoomID(), ShapeID: shapeID},
	})
}

// ClearCanvas empties the canvas for everyone.
func (c *Client) ClearCanvas(ctx context.Context) {
	c.shapes.Clear()
	c.send(ctx, protocol.ClientMessage{Type: protocol.MsgClearCanvas})
}

// SendCursor broadcasts the pointer's world position on the ephemeral
// cursor channel: at most one send per CursorInterval, suppressed
// entirely while nobody else is in the room. Intermediate samples are
// dropped.
func (c *Client) SendCursor(ctx context.Context, pos viewport.Point) {
	c.mu.Lock()
	if c.session != SessionActive || len(c.users) <= 1 {
		c.mu.Unlock()
		return
	}
	now := time.Now()
	if now.Sub(c.lastCursor) < CursorInterval {
		c.mu.Unlock()
		return
	}
	c.lastCursor = now
	roomID := c.roomID
	c.mu.Unlock()

	c.send(ctx, protocol.ClientMessage{
		Type:    protocol.MsgCursorPosition,
		Payload: &protocol.ClientPayload{RoomID: roomID, X: pos.X, Y: pos.Y},
	})
}

// DrawAI asks the relay to generate shapes for a query, appends them
// locally, and broadcasts each as an ordinary create-shape event.
func (c *Client) DrawAI(ctx context.Context, query string) ([]shape.Shape, error) {
	body, err := json.Marshal(protocol.DrawRequest{Query: query})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/draw", strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerateShapes, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrGenerateShapes, resp.StatusCode)
	}
	var dr protocol.DrawResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerateShapes, err)
	}

	c.shapes.Append(dr.Content)
	roomID := c.RoomID()
	for i := range dr.Content {
		c.send(ctx, protocol.ClientMessage{
			Type:    protocol.MsgCreateShape,
			Payload: &protocol.ClientPayload{RoomID: roomID, Shape: &dr.Content[i]},
		})
	}
	return dr.Content, nil
}
