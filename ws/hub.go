package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"snap-game-server/catalog"
	"snap-game-server/config"
	"snap-game-server/game"
	"snap-game-server/room"
	"snap-game-server/wsutil"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for development; restrict in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// InboundFrame is one parsed client message queued for dispatch.
type InboundFrame struct {
	Client *Client
	Env    InboundEnvelope
}

type eventKind int

const (
	// eventRoundStart fires after the countdown pause and moves the round
	// into live play.
	eventRoundStart eventKind = iota
	// eventResolveNoSnap fires after the resolution delay and settles a
	// pending no-match claim.
	eventResolveNoSnap
)

// timerEvent resumes a room with a possibly stale reference. RoomID and Seq
// identify the round generation the event was scheduled under; the handler
// re-validates both at fire time and degrades to a no-op when they no
// longer hold.
type timerEvent struct {
	kind   eventKind
	roomID string
	seq    uint64
	hero   game.PlayerID
	name   string
}

// Hub owns the set of connected clients and the single dispatch stream:
// every inbound message and every timer event is handled to completion, one
// at a time, on the Run goroutine. Room state is only ever mutated there.
type Hub struct {
	Config   *config.Config
	Catalog  *catalog.Catalog
	Registry *room.Registry

	Register   chan *Client
	Unregister chan *Client
	Inbound    chan InboundFrame

	clients map[game.PlayerID]*Client
	events  chan timerEvent
	done    chan struct{}
	rng     *rand.Rand
}

// NewHub creates a new Hub.
func NewHub(cfg *config.Config, cat *catalog.Catalog, reg *room.Registry) *Hub {
	return &Hub{
		Config:     cfg,
		Catalog:    cat,
		Registry:   reg,
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Inbound:    make(chan InboundFrame, 64),
		clients:    make(map[game.PlayerID]*Client),
		events:     make(chan timerEvent, 64),
		done:       make(chan struct{}),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run is the hub's main loop. Should be run as a goroutine. When ctx is
// cancelled the loop stops and pending timer events are dropped.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			slog.Info("shutdown signal received, stopping", "tag", "hub")
			return
		case client := <-h.Register:
			h.clients[client.ID] = client
			slog.Info("client connected", "tag", "hub", "clients", len(h.clients))

		case client := <-h.Unregister:
			if _, ok := h.clients[client.ID]; !ok {
				continue
			}
			delete(h.clients, client.ID)
			close(client.Send)
			// Connection loss sweeps the player out of their room exactly
			// like logout, minus the farewell broadcast.
			h.Registry.RemovePlayer(client.ID)
			slog.Info("client disconnected", "tag", "hub", "clients", len(h.clients))

		case frame := <-h.Inbound:
			h.dispatch(frame)

		case ev := <-h.events:
			h.handleTimerEvent(ev)
		}
	}
}

// ServeWS handles WebSocket upgrade requests and creates a new Client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade", "tag", "hub", "err", err)
		return
	}

	client := &Client{
		ID:   game.PlayerID(uuid.NewString()),
		Hub:  h,
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	h.Register <- client

	go client.WritePump()
	go client.ReadPump()
}

// schedule posts ev onto the event stream after delay. The goroutine exits
// without delivering when the hub shuts down first.
func (h *Hub) schedule(delay time.Duration, ev timerEvent) {
	go func() {
		select {
		case <-time.After(delay):
			select {
			case h.events <- ev:
			case <-h.done:
			}
		case <-h.done:
		}
	}()
}

// sendTo marshals v and delivers it to one player, if still connected.
func (h *Hub) sendTo(p game.PlayerID, v any) {
	client, ok := h.clients[p]
	if !ok {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("marshaling outbound message", "tag", "hub", "err", err)
		return
	}
	wsutil.SafeSend(client.Send, data)
}

// broadcast delivers v to every player in the room except the one named.
// Pass an empty PlayerID to reach the whole room.
func (h *Hub) broadcast(s *game.Session, except game.PlayerID, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("marshaling broadcast message", "tag", "hub", "err", err)
		return
	}
	for _, p := range s.Players {
		if p == except {
			continue
		}
		if client, ok := h.clients[p]; ok {
			wsutil.SafeSend(client.Send, data)
		}
	}
}

func (h *Hub) sendError(c *Client, message string) {
	h.sendTo(c.ID, ErrorMsg{Type: "error", Message: message})
}
