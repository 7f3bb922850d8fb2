package game

// ScoreEntry is one player's display name and cumulative score. Scores are
// fractional and may go negative; they persist for the room's lifetime and
// are never reset between rounds.
type ScoreEntry struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// ScoreLedger maps player identity to name and score for one room.
type ScoreLedger struct {
	entries map[PlayerID]*ScoreEntry
}

// NewScoreLedger creates an empty ledger.
func NewScoreLedger() *ScoreLedger {
	return &ScoreLedger{entries: make(map[PlayerID]*ScoreEntry)}
}

// Register adds a player with a zero score. Re-registering an existing
// player only updates the name.
func (l *ScoreLedger) Register(p PlayerID, name string) {
	if e, ok := l.entries[p]; ok {
		e.Name = name
		return
	}
	l.entries[p] = &ScoreEntry{Name: name}
}

// Unregister removes a player and their score.
func (l *ScoreLedger) Unregister(p PlayerID) {
	delete(l.entries, p)
}

// Adjust adds delta to a player's score. Unknown players are ignored.
func (l *ScoreLedger) Adjust(p PlayerID, delta float64) {
	if e, ok := l.entries[p]; ok {
		e.Score += delta
	}
}

// Name returns the registered display name, or "" if not registered.
func (l *ScoreLedger) Name(p PlayerID) string {
	if e, ok := l.entries[p]; ok {
		return e.Name
	}
	return ""
}

// Has reports whether the player is registered.
func (l *ScoreLedger) Has(p PlayerID) bool {
	_, ok := l.entries[p]
	return ok
}

// Len returns the number of registered players.
func (l *ScoreLedger) Len() int {
	return len(l.entries)
}

// Snapshot returns a copy of the ledger suitable for sending to clients.
func (l *ScoreLedger) Snapshot() map[PlayerID]ScoreEntry {
	out := make(map[PlayerID]ScoreEntry, len(l.entries))
	for p, e := range l.entries {
		out[p] = *e
	}
	return out
}
