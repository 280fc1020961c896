// Package ws bridges websocket connections into room actors. One
// goroutine reads client messages, a second drains the room's outbox
// back onto the socket; transport-level ordering is preserved per
// connection, interleaving across connections is unspecified.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"sketchsync/internal/hub"
	"sketchsync/internal/protocol"
	"sketchsync/internal/room"
)

const (
	writeTimeout = 3 * time.Second
	outboxSize   = 16
)

func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		// The first message must establish room membership.
		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		_, data, err := conn.Read(ctx)
		cancel()
		if err != nil {
			return
		}

		var first protocol.ClientMessage
		if err := json.Unmarshal(data, &first); err != nil || first.Payload == nil {
			writeError(r.Context(), conn, "expected join or join-room")
			return
		}

		rm := resolveRoom(h, first)
		if rm == nil {
			writeError(r.Context(), conn, "room not found")
			return
		}

		clientID := uuid.NewString()
		userID := first.Payload.UserID
		if userID == "" {
			userID = uuid.NewString()
		}
		name := displayName(userID)
		out := make(chan protocol.ServerMessage, outboxSize)

		switch first.Type {
		case protocol.MsgJoin:
			rm.Inbox() <- room.Join{
				ClientID: clientID,
				UserID:   userID,
				Name:     name,
				Shapes:   first.Payload.Shapes,
				Outbox:   out,
			}
		case protocol.MsgJoinRoom:
			rm.Inbox() <- room.JoinRoom{
				ClientID: clientID,
				UserID:   userID,
				Name:     name,
				Outbox:   out,
			}
		default:
			writeError(r.Context(), conn, "expected join or join-room")
			return
		}
		defer func() { rm.NotifyLeave(clientID) }()

		// Writer goroutine: drains room events onto the socket.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for msg := range out {
				payload, err := json.Marshal(msg)
				if err != nil {
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop.
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				// Connection errors are logged and non-fatal to the
				// room; the deferred Leave handles cleanup. There is no
				// automatic reconnect.
				log.Debug("read failed", zap.String("user", userID), zap.Error(err))
				return
			}

			var cm protocol.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeError(r.Context(), conn, "bad json")
				continue
			}
			rm.Inbox() <- room.FromClient{ClientID: clientID, Msg: cm}
		}
	}
}

// resolveRoom looks up the target room. A creator's join may race the
// provisioning call, so it tolerates creating the room; join-room never
// creates.
func resolveRoom(h *hub.Hub, first protocol.ClientMessage) *room.Room {
	if first.Payload.RoomID == "" {
		return nil
	}
	reply := make(chan *room.Room, 1)
	switch first.Type {
	case protocol.MsgJoin:
		h.Inbox() <- hub.EnsureRoom{ID: first.Payload.RoomID, Reply: reply}
	default:
		h.Inbox() <- hub.GetRoom{ID: first.Payload.RoomID, Reply: reply}
	}
	return <-reply
}

func writeError(ctx context.Context, conn *websocket.Conn, msg string) {
	payload, _ := json.Marshal(protocol.ServerMessage{Type: protocol.EvtError, Message: msg})
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	_ = conn.Write(ctx, websocket.MessageText, payload)
}

// displayName derives a stable short handle from the opaque user id.
func displayName(userID string) string {
	if len(userID) > 8 {
		return "user-" + userID[:8]
	}
	return "user-" + userID
}
