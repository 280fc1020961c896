// Package room implements the relay-side state for one drawing room: the
// authoritative shape list, the member roster, and the fan-out of client
// messages to the other members.
//
// A room is a single-writer actor. All access goes through its inbox
// channel, so the shape list and roster need no lock of their own. The
// conflict policy is last-write-wins by design: messages are applied and
// fanned out in arrival order with no merging, and concurrent edits to
// one shape resolve to whichever message a peer received last.
package room

import (
	"context"

	"go.uber.org/zap"

	"sketchsync/internal/protocol"
	"sketchsync/internal/shape"
	"sketchsync/internal/store"
)

type Msg interface{ isRoomMsg() }

// Join starts a session in a fresh room, bulk-uploading any shapes the
// creator drew before sharing.
type Join struct {
	ClientID string
	UserID   string
	Name     string
	Shapes   []shape.Shape
	Outbox   chan protocol.ServerMessage
}

// JoinRoom enters an existing room via an invite link. The joiner gets
// the room-joined snapshot; everyone else gets a presence event.
type JoinRoom struct {
	ClientID string
	UserID   string
	Name     string
	Outbox   chan protocol.ServerMessage
}

// FromClient carries one protocol message from a connected member.
type FromClient struct {
	ClientID string
	Msg      protocol.ClientMessage
}

type Leave struct{ ClientID string }

type Shutdown struct{}

// GetState reflects internal state without data races; test-only.
type GetState struct{ Reply chan View }

func (Join) isRoomMsg()       {}
func (JoinRoom) isRoomMsg()   {}
func (FromClient) isRoomMsg() {}
func (Leave) isRoomMsg()      {}
func (Shutdown) isRoomMsg()   {}
func (GetState) isRoomMsg()   {}

type View struct {
	Shapes     []shape.Shape
	Users      []protocol.RoomUser
	NumClients int
}

type member struct {
	userID string
	name   string
	outbox chan protocol.ServerMessage
}

type Room struct {
	id      string
	inbox   chan Msg
	shapes  *store.Store
	members map[string]*member
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewRoom(parent context.Context, id string, log *zap.Logger) *Room {
	ctx, cancel := context.WithCancel(parent)
	r := &Room{
		id:      id,
		inbox:   make(chan Msg, 64),
		shapes:  store.New(),
		members: make(map[string]*member),
		log:     log.With(zap.String("room", id)),
		ctx:     ctx,
		cancel:  cancel,
	}
	go r.loop()
	return r
}

// Inbox exposes the actor mailbox to the ws layer and tests.
func (r *Room) Inbox() chan<- Msg { return r.inbox }

// Done is closed once the room has shut down and stopped draining its
// inbox.
func (r *Room) Done() <-chan struct{} { return r.ctx.Done() }

// NotifyLeave reports a client disconnect. Unlike a bare inbox send it
// tolerates a room that has already shut down, whose loop no longer
// drains the inbox.
func (r *Room) NotifyLeave(clientID string) {
	select {
	case r.inbox <- Leave{ClientID: clientID}:
	case <-r.ctx.Done():
	}
}

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.members[msg.ClientID] = &member{userID: msg.UserID, name: msg.Name, outbox: msg.Outbox}
				r.shapes.Append(msg.Shapes)
				r.send(msg.ClientID, protocol.ServerMessage{
					Type: protocol.EvtJoined,
					Data: &protocol.ServerData{Name: msg.Name, UserID: msg.UserID, RoomID: r.id},
				})
				r.log.Info("session started",
					zap.String("user", msg.UserID),
					zap.Int("shapes", len(msg.Shapes)))

			case JoinRoom:
				existing := r.roster()
				r.members[msg.ClientID] = &member{userID: msg.UserID, name: msg.Name, outbox: msg.Outbox}
				r.send(msg.ClientID, protocol.ServerMessage{
					Type: protocol.EvtRoomJoined,
					Data: &protocol.ServerData{
						Name:          msg.Name,
						UserID:        msg.UserID,
						RoomID:        r.id,
						Shapes:        r.shapes.Shapes(),
						ExistingUsers: existing,
					},
				})
				r.broadcast(msg.ClientID, protocol.ServerMessage{
					Type: protocol.EvtUserRoomJoined,
					Data: &protocol.ServerData{ID: msg.UserID, Name: msg.Name},
				})
				r.log.Info("user joined", zap.String("user", msg.UserID))

			case FromClient:
				r.apply(msg)

			case Leave:
				mem := r.members[msg.ClientID]
				delete(r.members, msg.ClientID)
				if mem != nil {
					// The member is out of the map, so nothing can send
					// on the outbox anymore; closing it releases the ws
					// writer draining it.
					close(mem.outbox)
					r.broadcast(msg.ClientID, protocol.ServerMessage{
						Type: protocol.EvtUserExit,
						Data: &protocol.ServerData{UserID: mem.userID, RoomID: r.id},
					})
					r.log.Info("user left", zap.String("user", mem.userID))
				}

			case GetState:
				msg.Reply <- View{
					Shapes:     r.shapes.Shapes(),
					Users:      r.roster(),
					NumClients: len(r.members),
				}

			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

// apply mutates room state from one client message and fans the result
// out to the other members. Unknown ids fall through as no-ops inside
// the store; unknown message types earn the sender an error event.
func (r *Room) apply(msg FromClient) {
	mem := r.members[msg.ClientID]
	if mem == nil {
		return
	}
	p := msg.Msg.Payload
	if p == nil {
		p = &protocol.ClientPayload{}
	}

	switch msg.Msg.Type {
	case protocol.MsgCreateShape:
		if p.Shape == nil {
			return
		}
		r.shapes.Upsert(*p.Shape)
		r.broadcast(msg.ClientID, protocol.ServerMessage{
			Type: protocol.EvtShapeCreated,
			Data: &protocol.ServerData{Shape: p.Shape, Name: mem.name},
		})

	case protocol.MsgRemoveShape:
		r.shapes.Remove(p.ShapeID)
		r.broadcast(msg.ClientID, protocol.ServerMessage{
			Type: protocol.EvtShapeRemoved,
			Data: &protocol.ServerData{ShapeID: p.ShapeID, Name: mem.name},
		})

	case protocol.MsgResizeShape:
		if p.Shape == nil {
			return
		}
		r.shapes.Upsert(*p.Shape)
		r.broadcast(msg.ClientID, protocol.ServerMessage{
			Type: protocol.EvtResizedShape,
			Data: &protocol.ServerData{UpdatedShape: p.Shape},
		})

	case protocol.MsgSelectShape:
		r.broadcast(msg.ClientID, protocol.ServerMessage{
			Type: protocol.EvtSelectedShape,
			Data: &protocol.ServerData{ShapeID: p.ShapeID},
		})

	case protocol.MsgCursorPosition:
		r.broadcast(msg.ClientID, protocol.ServerMessage{
			Type: protocol.EvtCursorPosition,
			Data: &protocol.ServerData{ID: mem.userID, Name: mem.name, RoomID: r.id, X: p.X, Y: p.Y},
		})

	case protocol.MsgClearCanvas:
		r.shapes.Clear()
		r.broadcast(msg.ClientID, protocol.ServerMessage{Type: protocol.EvtCanvasCleared})

	default:
		r.send(msg.ClientID, protocol.ServerMessage{
			Type:    protocol.EvtError,
			Message: "unknown message type: " + msg.Msg.Type,
		})
	}
}

func (r *Room) roster() []protocol.RoomUser {
	users := make([]protocol.RoomUser, 0, len(r.members))
	for _, m := range r.members {
		users = append(users, protocol.RoomUser{ID: m.userID, Name: m.name})
	}
	return users
}

func (r *Room) send(clientID string, msg protocol.ServerMessage) {
	mem := r.members[clientID]
	if mem == nil {
		return
	}
	select {
	case mem.outbox <- msg:
	default:
		r.drop(clientID, mem)
	}
}

// broadcast fans a message out to every member except the sender. Sends
// never block: a member whose outbox is full is dropped.
func (r *Room) broadcast(senderID string, msg protocol.ServerMessage) {
	for id, m := range r.members {
		if id == senderID {
			continue
		}
		select {
		case m.outbox <- msg:
		default:
			r.drop(id, m)
		}
	}
}

func (r *Room) drop(clientID string, m *member) {
	r.log.Warn("dropping slow client", zap.String("user", m.userID))
	close(m.outbox)
	delete(r.members, clientID)
}

func (r *Room) shutdown() {
	for id, m := range r.members {
		close(m.outbox)
		delete(r.members, id)
	}
	r.cancel()
}
