package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"
	"unicode/utf8"

	"snap-game-server/game"
	"snap-game-server/gameerrors"
)

// dispatch routes one inbound frame to its handler. Runs on the hub's
// dispatch goroutine; handlers may mutate room state freely.
func (h *Hub) dispatch(f InboundFrame) {
	switch f.Env.Type {
	case "createRoom":
		h.handleCreateRoom(f.Client, f.Env.Raw)
	case "joinRoom":
		h.handleJoinRoom(f.Client, f.Env.Raw)
	case "action":
		h.handleAction(f.Client, f.Env.Raw)
	case "chat":
		h.handleChat(f.Client, f.Env.Raw)
	default:
		h.sendError(f.Client, "Unknown message type: "+f.Env.Type)
	}
}

func (h *Hub) handleCreateRoom(c *Client, raw json.RawMessage) {
	var msg CreateRoomMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		h.sendError(c, "Invalid createRoom message.")
		return
	}
	name, ok := h.cleanName(c, msg.Name)
	if !ok {
		return
	}
	for category := range msg.Categories {
		if !h.Catalog.HasCategory(category) {
			h.sendError(c, "Unknown category: "+category)
			return
		}
	}
	if _, in := h.Registry.RoomOf(c.ID); in {
		h.sendError(c, "Leave your current room first.")
		return
	}

	s := h.Registry.Create(c.ID, name, msg.Categories)
	slog.Info("room created", "tag", "room", "roomId", s.ID, "player", name)
	h.sendTo(c.ID, RoomCreatedMsg{
		Type:      "roomCreated",
		RoomID:    s.ID,
		Settings:  s.Filter,
		ScoreCard: s.Scores.Snapshot(),
	})
}

func (h *Hub) handleJoinRoom(c *Client, raw json.RawMessage) {
	var msg JoinRoomMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		h.sendError(c, "Invalid joinRoom message.")
		return
	}
	name, ok := h.cleanName(c, msg.Name)
	if !ok {
		return
	}
	if _, in := h.Registry.RoomOf(c.ID); in {
		h.sendError(c, "Leave your current room first.")
		return
	}

	s, err := h.Registry.Join(msg.RoomID, c.ID, name)
	if err != nil {
		h.sendTo(c.ID, RoomFullMsg{Type: "roomFull", Message: "Room is full or does not exist"})
		return
	}
	slog.Info("player joined", "tag", "room", "roomId", s.ID, "player", name)
	h.sendTo(c.ID, RoomJoinedMsg{
		Type:      "roomJoined",
		RoomID:    s.ID,
		ScoreCard: s.Scores.Snapshot(),
	})
	h.broadcast(s, c.ID, PlayerJoinedMsg{
		Type:      "playerJoined",
		Message:   name + " joined the room",
		ScoreCard: s.Scores.Snapshot(),
	})
}

func (h *Hub) handleAction(c *Client, raw json.RawMessage) {
	var msg ActionMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		h.sendError(c, "Invalid action message.")
		return
	}
	s, ok := h.Registry.RoomOf(c.ID)
	if !ok {
		// Actions without a resolvable room are dropped.
		return
	}

	switch msg.Action {
	case "ready":
		h.handleReady(c, s)
	case "snap":
		h.handleSnap(c, s)
	case "noSnap":
		h.handleNoSnap(c, s)
	case "cardSelect":
		h.handleCardSelect(c, s, msg.Cards)
	case "logout":
		h.handleLogout(c, s)
	default:
		// Unknown action names are dropped.
	}
}

func (h *Hub) handleReady(c *Client, s *game.Session) {
	name := s.Scores.Name(c.ID)
	allReady, err := s.MarkReady(c.ID)
	if err != nil {
		if errors.Is(err, gameerrors.ErrAlreadyReady) {
			return
		}
		h.sendError(c, err.Error())
		return
	}

	notice := game.ReadyNotices(name, allReady)
	h.sendTo(c.ID, GamePlayMsg{Type: "gamePlay", Message: notice.Self, State: notice.SelfFlags})
	h.broadcast(s, c.ID, ChatOutMsg{Type: "chat", Message: notice.Others})

	if allReady {
		h.startRound(s)
	}
}

// startRound deals for the current roster, hands each player their private
// card and visible remainder, and opens the countdown pause.
func (h *Hub) startRound(s *game.Session) {
	deal, err := s.StartRound(h.rng, h.Catalog)
	if err != nil {
		slog.Warn("deal failed", "tag", "game", "roomId", s.ID, "err", err)
		notice := game.DealFailedNotice()
		h.broadcast(s, "", GamePlayMsg{Type: "gamePlay", Message: notice.Others, State: notice.OthersFlags})
		return
	}
	slog.Info("round started", "tag", "game", "roomId", s.ID, "players", len(s.Players), "hasMatch", s.Round.HasMatch)

	for i, p := range s.Players {
		userCard, remaining := deal.HandFor(i)
		h.sendTo(p, ReceiveCardsMsg{
			Type:           "receiveCards",
			UserCard:       userCard,
			RemainingCards: remaining,
		})
	}

	countdown := game.PhaseFlags(game.PhaseCountdown, game.RoleObserver)
	h.broadcast(s, "", GamePlayMsg{Type: "gamePlay", Message: game.LoadingText, State: countdown})

	h.schedule(time.Duration(h.Config.CountdownMS)*time.Millisecond, timerEvent{
		kind:   eventRoundStart,
		roomID: s.ID,
		seq:    s.Round.Seq,
	})
}

func (h *Hub) handleSnap(c *Client, s *game.Session) {
	name := s.Scores.Name(c.ID)
	if err := s.CallSnap(c.ID); err != nil {
		h.sendError(c, err.Error())
		return
	}
	notice := game.SnapNotices(name)
	h.sendTo(c.ID, GamePlayMsg{Type: "gamePlay", Message: notice.Self, State: notice.SelfFlags})
	h.broadcast(s, c.ID, GamePlayMsg{Type: "gamePlay", Message: notice.Others, State: notice.OthersFlags})
}

func (h *Hub) handleNoSnap(c *Client, s *game.Session) {
	name := s.Scores.Name(c.ID)
	seq, err := s.ClaimNoSnap(c.ID)
	if err != nil {
		h.sendError(c, err.Error())
		return
	}
	notice := game.NoSnapAckNotices(name)
	h.sendTo(c.ID, GamePlayMsg{Type: "gamePlay", Message: notice.Self, State: notice.SelfFlags})
	h.broadcast(s, c.ID, GamePlayMsg{Type: "gamePlay", Message: notice.Others, State: notice.OthersFlags})

	// The claim settles after a fixed delay, off the inbound stream. The
	// event re-validates room and generation at fire time.
	h.schedule(time.Duration(h.Config.ResolveDelayMS)*time.Millisecond, timerEvent{
		kind:   eventResolveNoSnap,
		roomID: s.ID,
		seq:    seq,
		hero:   c.ID,
		name:   name,
	})
}

func (h *Hub) handleCardSelect(c *Client, s *game.Session, cards []game.Card) {
	name := s.Scores.Name(c.ID)
	ack := game.CardSelectAckNotices()
	outcome, err := s.SelectCards(c.ID, cards)
	if err != nil {
		h.sendError(c, err.Error())
		return
	}
	h.sendTo(c.ID, GamePlayMsg{Type: "gamePlay", State: ack.SelfFlags})
	h.broadcast(s, c.ID, GamePlayMsg{Type: "gamePlay", State: ack.OthersFlags})

	notice := game.CardSelectResolveNotices(name, outcome)
	scores := s.Scores.Snapshot()
	h.sendTo(c.ID, GamePlayMsg{Type: "gamePlay", Message: notice.Self, State: notice.SelfFlags, ScoreCard: scores})
	h.broadcast(s, c.ID, GamePlayMsg{Type: "gamePlay", Message: notice.Others, State: notice.OthersFlags, ScoreCard: scores})
}

func (h *Hub) handleLogout(c *Client, s *game.Session) {
	name := s.Scores.Name(c.ID)
	affected := h.Registry.RemovePlayer(c.ID)
	slog.Info("player left", "tag", "room", "roomId", s.ID, "player", name)

	notice := game.LogoutNotices(name)
	h.sendTo(c.ID, GamePlayMsg{Type: "gamePlay", Message: notice.Self, State: notice.SelfFlags})
	for _, remaining := range affected {
		h.broadcast(remaining, c.ID, GamePlayMsg{
			Type:      "gamePlay",
			Message:   notice.Others,
			State:     notice.OthersFlags,
			ScoreCard: remaining.Scores.Snapshot(),
		})
	}
}

func (h *Hub) handleChat(c *Client, raw json.RawMessage) {
	var msg ChatMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		h.sendError(c, "Invalid chat message.")
		return
	}
	s, ok := h.Registry.RoomOf(c.ID)
	if !ok {
		return
	}
	text := truncateRunes(msg.Chat, h.Config.MaxChatLength)
	name := s.Scores.Name(c.ID)
	h.sendTo(c.ID, ChatOutMsg{Type: "chat", Message: "You: " + text})
	h.broadcast(s, c.ID, ChatOutMsg{Type: "chat", Message: name + ": " + text})
}

// handleTimerEvent resumes a scheduled transition. The room may have been
// torn down or moved on since scheduling; both cases are silent no-ops.
func (h *Hub) handleTimerEvent(ev timerEvent) {
	s, ok := h.Registry.Get(ev.roomID)
	if !ok {
		return
	}
	switch ev.kind {
	case eventRoundStart:
		if !s.BeginPlay(ev.seq) {
			return
		}
		inRound := game.PhaseFlags(game.PhaseInRound, game.RoleObserver)
		h.broadcast(s, "", GamePlayMsg{Type: "gamePlay", Message: game.StartText, Action: "gameStart", State: inRound})

	case eventResolveNoSnap:
		outcome, ok := s.ResolveNoSnap(ev.hero, ev.seq)
		if !ok {
			return
		}
		notice := game.NoSnapResolveNotices(ev.name, outcome)
		scores := s.Scores.Snapshot()
		h.sendTo(ev.hero, GamePlayMsg{Type: "gamePlay", Message: notice.Self, State: notice.SelfFlags, ScoreCard: scores})
		h.broadcast(s, ev.hero, GamePlayMsg{Type: "gamePlay", Message: notice.Others, State: notice.OthersFlags, ScoreCard: scores})
	}
}

// cleanName validates a display name, falling back to the auth claim name
// when the message carries none.
func (h *Hub) cleanName(c *Client, name string) (string, bool) {
	if name == "" {
		name = c.AuthName
	}
	if len(name) < 1 || len(name) > h.Config.MaxNameLength {
		h.sendError(c, "Name must be between 1 and "+strconv.Itoa(h.Config.MaxNameLength)+" characters.")
		return "", false
	}
	return name, true
}

// truncateRunes caps s at limit runes, never splitting a multibyte rune.
func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
