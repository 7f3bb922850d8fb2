package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"
	qrcode "github.com/skip2/go-qrcode"

	"snap-game-server/config"
	"snap-game-server/room"
)

const qrSize = 256

// Handler holds dependencies for the HTTP side-channel.
type Handler struct {
	Config   *config.Config
	Registry *room.Registry
}

// NewHandler creates a new API handler with the given dependencies.
func NewHandler(cfg *config.Config, reg *room.Registry) *Handler {
	return &Handler{Config: cfg, Registry: reg}
}

// Routes builds the router: websocket upgrade, health, room list and the
// per-room join QR code.
func (h *Handler) Routes(serveWS http.HandlerFunc) *httprouter.Router {
	mux := httprouter.New()
	mux.HandlerFunc(http.MethodGet, "/ws", serveWS)
	mux.GET("/healthz", h.Health)
	mux.GET("/api/rooms", h.Rooms)
	mux.GET("/api/rooms/:id/qr", h.RoomQR)
	return mux
}

// cors sets CORS headers on the response. Call before writing the body.
func cors(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return true
	}
	return false
}

// Health reports liveness and the number of live rooms.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if cors(w, r) {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	resp := map[string]any{"status": "ok", "rooms": h.Registry.Count()}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("encoding health response", "tag", "api", "err", err)
	}
}

// Rooms lists live rooms with their player counts.
func (h *Handler) Rooms(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if cors(w, r) {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.Registry.List()); err != nil {
		slog.Error("encoding rooms response", "tag", "api", "err", err)
	}
}

// RoomQR renders a PNG QR code pointing at the room's join URL so the room
// can be shared by scanning.
func (h *Handler) RoomQR(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	if cors(w, r) {
		return
	}
	roomID := p.ByName("id")
	if _, ok := h.Registry.Get(roomID); !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	joinURL := h.Config.PublicBaseURL + "/join/" + roomID
	png, err := qrcode.Encode(joinURL, qrcode.Medium, qrSize)
	if err != nil {
		slog.Error("encoding qr code", "tag", "api", "err", err)
		http.Error(w, "failed to generate QR code", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
