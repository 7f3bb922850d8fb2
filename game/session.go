package game

// MaxPlayers is the hard room capacity, enforced at join.
const MaxPlayers = 5

// RoundState is the per-round state of a room. Seq increments on every deal
// and every reset; scheduled events carry the Seq they were created under
// and are discarded when it no longer matches.
type RoundState struct {
	Phase    Phase
	Seq      uint64
	Ready    map[PlayerID]struct{}
	Losers   map[PlayerID]struct{}
	Dealt    []Card
	HasMatch bool
	Hero     PlayerID
}

// Session is the aggregate state for one room: roster, settings, score
// ledger and the current round. All mutation happens on the server's single
// dispatch goroutine.
type Session struct {
	ID      string
	Filter  map[string]bool
	Players []PlayerID
	Scores  *ScoreLedger
	Round   RoundState
}

// NewSession creates a room with its founding player. The founder is
// registered in the ledger at score zero.
func NewSession(id string, filter map[string]bool, founder PlayerID, name string) *Session {
	if filter == nil {
		filter = make(map[string]bool)
	}
	s := &Session{
		ID:      id,
		Filter:  filter,
		Players: []PlayerID{founder},
		Scores:  NewScoreLedger(),
		Round: RoundState{
			Phase:  PhaseLobby,
			Ready:  make(map[PlayerID]struct{}),
			Losers: make(map[PlayerID]struct{}),
		},
	}
	s.Scores.Register(founder, name)
	return s
}

// AddPlayer appends a player to the roster and registers them in the
// ledger. Returns false when the room is full or the player is already
// present; roster and ledger stay untouched in that case.
func (s *Session) AddPlayer(p PlayerID, name string) bool {
	if len(s.Players) >= MaxPlayers || s.HasPlayer(p) {
		return false
	}
	s.Players = append(s.Players, p)
	s.Scores.Register(p, name)
	return true
}

// RemovePlayer drops a player from the roster, ledger and round sets.
// Any in-flight round is voided: the remaining players go back to the
// lobby. Returns false if the player was not in the room.
func (s *Session) RemovePlayer(p PlayerID) bool {
	idx := s.IndexOf(p)
	if idx < 0 {
		return false
	}
	s.Players = append(s.Players[:idx], s.Players[idx+1:]...)
	s.Scores.Unregister(p)
	s.ResetRound()
	return true
}

// HasPlayer reports roster membership.
func (s *Session) HasPlayer(p PlayerID) bool {
	return s.IndexOf(p) >= 0
}

// IndexOf returns the roster index of a player, or -1.
func (s *Session) IndexOf(p PlayerID) int {
	for i, id := range s.Players {
		if id == p {
			return i
		}
	}
	return -1
}

// Empty reports whether the roster has no players left.
func (s *Session) Empty() bool {
	return len(s.Players) == 0
}

// ResetRound returns the room to the lobby: ready and loser sets cleared,
// dealt cards and match fact dropped, generation bumped so pending timers
// become stale.
func (s *Session) ResetRound() {
	s.Round.Phase = PhaseLobby
	s.Round.Ready = make(map[PlayerID]struct{})
	s.Round.Losers = make(map[PlayerID]struct{})
	s.Round.Dealt = nil
	s.Round.HasMatch = false
	s.Round.Hero = ""
	s.Round.Seq++
}
