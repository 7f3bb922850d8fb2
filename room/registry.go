package room

import (
	"crypto/rand"
	"log/slog"
	"math/big"
	mathrand "math/rand"
	"sync"

	"snap-game-server/game"
	"snap-game-server/gameerrors"
)

// codeChars is the alphabet for room tokens: lowercase base36.
const codeChars = "abcdefghijklmnopqrstuvwxyz0123456789"

// codeLength is the room token length.
const codeLength = 9

// Info is returned by the API for the room list.
type Info struct {
	RoomID  string `json:"roomId"`
	Players int    `json:"players"`
}

// Registry is the process-wide store of live rooms plus a reverse index
// from player to room. A room is deleted the instant its roster empties.
type Registry struct {
	mu       sync.RWMutex
	rooms    map[string]*game.Session
	byPlayer map[game.PlayerID]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms:    make(map[string]*game.Session),
		byPlayer: make(map[game.PlayerID]string),
	}
}

// Create makes a new room with a fresh unique token and the founder as its
// only player. Token collisions are detected and retried.
func (r *Registry) Create(founder game.PlayerID, name string, filter map[string]bool) *game.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		id := generateCode(codeLength)
		if _, exists := r.rooms[id]; exists {
			continue
		}
		s := game.NewSession(id, filter, founder, name)
		r.rooms[id] = s
		r.byPlayer[founder] = id
		return s
	}
}

// Join adds a player to an existing room. A full room and a missing room
// are reported with the same error; clients receive one conflated notice
// for both.
func (r *Registry) Join(roomID string, p game.PlayerID, name string) (*game.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rooms[roomID]
	if !ok || !s.AddPlayer(p, name) {
		return nil, gameerrors.ErrRoomUnavailable
	}
	r.byPlayer[p] = roomID
	return s, nil
}

// Get returns a room by token.
func (r *Registry) Get(roomID string) (*game.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.rooms[roomID]
	return s, ok
}

// RoomOf is the reverse lookup from a player to their room.
func (r *Registry) RoomOf(p game.PlayerID) (*game.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byPlayer[p]
	if !ok {
		return nil, false
	}
	s, ok := r.rooms[id]
	return s, ok
}

// RemovePlayer removes a player from every room they belong to, deleting
// rooms that empty out. A player can only legitimately be in one room, but
// the sweep covers all of them anyway. Rooms the player actually left and
// that still have players are returned so callers can notify them.
func (r *Registry) RemovePlayer(p game.PlayerID) []*game.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byPlayer, p)
	var affected []*game.Session
	for id, s := range r.rooms {
		if !s.RemovePlayer(p) {
			continue
		}
		if s.Empty() {
			delete(r.rooms, id)
			continue
		}
		affected = append(affected, s)
	}
	return affected
}

// Count returns the number of live rooms.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// List returns the live rooms with their player counts.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Info, 0, len(r.rooms))
	for id, s := range r.rooms {
		out = append(out, Info{RoomID: id, Players: len(s.Players)})
	}
	return out
}

func generateCode(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(codeChars)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// Tokens are opaque identifiers, not secrets; a failed entropy
			// read degrades to the runtime-seeded generator.
			slog.Warn("room code entropy read failed", "tag", "room", "err", err)
			b[i] = codeChars[mathrand.Intn(len(codeChars))]
			continue
		}
		b[i] = codeChars[idx.Int64()]
	}
	return string(b)
}
