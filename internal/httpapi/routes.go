package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"sketchsync/internal/hub"
	"sketchsync/internal/ws"
)

func SetupRoutes(h *hub.Hub, gen Generator, publicURL string, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/gen-room-url", GenRoomURL(h, publicURL, log))
	r.Post("/draw", Draw(gen, log))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, log))
	return r
}
