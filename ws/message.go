package ws

import (
	"encoding/json"

	"snap-game-server/game"
)

// InboundEnvelope is the generic envelope for all client-to-server messages.
// The Type field is used for routing; Raw holds the full JSON payload.
type InboundEnvelope struct {
	Type string          `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

// UnmarshalJSON implements custom unmarshaling to capture the raw payload.
func (e *InboundEnvelope) UnmarshalJSON(data []byte) error {
	type typeOnly struct {
		Type string `json:"type"`
	}
	var t typeOnly
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	e.Type = t.Type
	e.Raw = json.RawMessage(data)
	return nil
}

// --- Client-to-Server message payloads ---

// AuthMsg is sent by the client as the first message when auth is enabled.
type AuthMsg struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// CreateRoomMsg opens a new room with the sender as founding player.
// Categories is the per-room filter restricting which catalog categories
// are dealt; an empty map means no restriction.
type CreateRoomMsg struct {
	Type       string          `json:"type"`
	Name       string          `json:"name"`
	Categories map[string]bool `json:"categories"`
}

// JoinRoomMsg adds the sender to an existing room by token.
type JoinRoomMsg struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
}

// ActionMsg carries one of the in-round actions: ready, snap, noSnap,
// cardSelect, logout. Cards is only set for cardSelect and must hold
// exactly two cards.
type ActionMsg struct {
	Type   string      `json:"type"`
	Action string      `json:"action"`
	Name   string      `json:"name"`
	Cards  []game.Card `json:"cards,omitempty"`
}

// ChatMsg is a room-scoped chat line.
type ChatMsg struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Chat string `json:"chat"`
}

// --- Server-to-Client messages ---

// AuthOKMsg confirms a successful auth handshake.
type AuthOKMsg struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

// ErrorMsg is sent when a client message is invalid.
type ErrorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// RoomCreatedMsg confirms room creation to the founder.
type RoomCreatedMsg struct {
	Type      string                            `json:"type"`
	RoomID    string                            `json:"roomId"`
	Settings  map[string]bool                   `json:"settings"`
	ScoreCard map[game.PlayerID]game.ScoreEntry `json:"scoreCard"`
}

// RoomJoinedMsg confirms a successful join to the joining player.
type RoomJoinedMsg struct {
	Type      string                            `json:"type"`
	RoomID    string                            `json:"roomId"`
	ScoreCard map[game.PlayerID]game.ScoreEntry `json:"scoreCard"`
}

// RoomFullMsg reports a failed join. A full room and a missing room
// produce the same message.
type RoomFullMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// PlayerJoinedMsg is broadcast to a room when a player joins.
type PlayerJoinedMsg struct {
	Type      string                            `json:"type"`
	Message   string                            `json:"message"`
	ScoreCard map[game.PlayerID]game.ScoreEntry `json:"scoreCard"`
}

// ReceiveCardsMsg delivers a player's private card and the cards they can
// see (everyone else's) at deal time.
type ReceiveCardsMsg struct {
	Type           string      `json:"type"`
	UserCard       game.Card   `json:"userCard"`
	RemainingCards []game.Card `json:"remainingCards"`
}

// GamePlayMsg carries every state-changing transition. The sender and
// broadcast variants of one transition differ only in Message phrasing;
// State and ScoreCard are identical.
type GamePlayMsg struct {
	Type      string                            `json:"type"`
	Message   string                            `json:"message,omitempty"`
	Action    string                            `json:"action,omitempty"`
	State     game.Flags                        `json:"state"`
	ScoreCard map[game.PlayerID]game.ScoreEntry `json:"scoreCard,omitempty"`
}

// ChatOutMsg is the delivered form of a chat line or lobby notice.
type ChatOutMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
