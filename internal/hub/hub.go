// Package hub owns the set of live rooms on the relay. Like the rooms it
// manages, the hub is a single-writer actor driven by a typed inbox.
package hub

import (
	"context"

	"go.uber.org/zap"

	"sketchsync/internal/room"
)

type HubMsg interface{ isHubMsg() }

type CreateRoom struct {
	ID    string
	Reply chan *room.Room
}

type GetRoom struct {
	ID    string
	Reply chan *room.Room
}

// EnsureRoom returns the room, creating it if it does not exist yet.
type EnsureRoom struct {
	ID    string
	Reply chan *room.Room
}

type RemoveRoom struct {
	ID string
}

type ShutdownHub struct{}

func (CreateRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (EnsureRoom) isHubMsg()  {}
func (RemoveRoom) isHubMsg()  {}
func (ShutdownHub) isHubMsg() {}

type Hub struct {
	inbox  chan HubMsg
	rooms  map[string]*room.Room
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		rooms:  make(map[string]*room.Room),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateRoom:
				if rm, ok := h.rooms[msg.ID]; ok {
					msg.Reply <- rm
					break
				}
				rm := room.NewRoom(h.ctx, msg.ID, h.log)
				h.rooms[msg.ID] = rm
				h.log.Info("room created", zap.String("room", msg.ID))
				msg.Reply <- rm

			case GetRoom:
				msg.Reply <- h.rooms[msg.ID] // may be nil

			case EnsureRoom:
				if rm, ok := h.rooms[msg.ID]; ok {
					msg.Reply <- rm
					break
				}
				rm := room.NewRoom(h.ctx, msg.ID, h.log)
				h.rooms[msg.ID] = rm
				msg.Reply <- rm

			case RemoveRoom:
				if rm, ok := h.rooms[msg.ID]; ok {
					rm.Inbox() <- room.Shutdown{}
					delete(h.rooms, msg.ID)
				}

			case ShutdownHub:
				for id, rm := range h.rooms {
					rm.Inbox() <- room.Shutdown{}
					delete(h.rooms, id)
				}
				h.cancel()
			}
		}
	}
}
