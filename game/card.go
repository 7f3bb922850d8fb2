package game

// PlayerID is the opaque identity of a connection, unique while connected.
type PlayerID string

// Card is one dealt card as seen by players. Hint is one of the three
// pre-authored alternate descriptions of Value, chosen at deal time.
type Card struct {
	Category string `json:"category"`
	Value    string `json:"value"`
	Hint     string `json:"hint"`
}

// Matches reports whether two cards are a match. Hints are display-only
// and never participate in matching.
func (c Card) Matches(other Card) bool {
	return c.Category == other.Category && c.Value == other.Value
}
