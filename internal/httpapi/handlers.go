package httpapi

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sketchsync/internal/hub"
	"sketchsync/internal/protocol"
	"sketchsync/internal/room"
	"sketchsync/internal/shape"
)

// Generator produces shapes for the AI-draw endpoint. Generated shapes
// are indistinguishable from user-drawn ones once they leave here.
type Generator interface {
	Generate(ctx context.Context, query string) ([]shape.Shape, error)
}

// newRoomKey returns a 22-character url-safe shared secret; 16 random
// bytes encode to exactly the minimum key length.
func newRoomKey() (string, error) {
	key := make([]byte, 16)
	if _, err := rand.Read(key); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(key), nil
}

// GenRoomURL provisions a room and hands back the invite link. The room
// id and key travel in the URL fragment, per the room-link encoding.
// The relay never stores the key; possession of the invite link is what
// clients validate.
func GenRoomURL(h *hub.Hub, publicURL string, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, err := newRoomKey()
		if err != nil {
			http.Error(w, "failed to generate room key", http.StatusInternalServerError)
			return
		}
		roomID := uuid.NewString()

		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.CreateRoom{ID: roomID, Reply: reply}
		if <-reply == nil {
			http.Error(w, "failed to create room", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(protocol.RoomCreated{
			InviteURL: protocol.EncodeRoomLink(publicURL+"/", roomID, key),
			RoomID:    roomID,
			RoomKey:   key,
		})
	}
}

// Draw turns a natural-language query into shapes via the injected
// generator.
func Draw(gen Generator, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req protocol.DrawRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		shapes, err := gen.Generate(r.Context(), req.Query)
		if err != nil {
			log.Error("draw generation failed", zap.Error(err))
			http.Error(w, "failed to generate diagram", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(protocol.DrawResponse{Content: shapes})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
