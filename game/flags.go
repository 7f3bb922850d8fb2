package game

// Phase is the internal round state, the single source of truth for where a
// room is in its deal-to-resolution cycle. Clients never see it directly;
// they receive the Flags projection below.
type Phase int

const (
	PhaseLobby Phase = iota
	PhaseReadyCheck
	PhaseCountdown
	PhaseInRound
	PhaseReaction
	PhaseChecking
)

// String returns a readable name for logging.
func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhaseReadyCheck:
		return "ready_check"
	case PhaseCountdown:
		return "countdown"
	case PhaseInRound:
		return "in_round"
	case PhaseReaction:
		return "reaction"
	case PhaseChecking:
		return "checking"
	default:
		return "unknown"
	}
}

// Role distinguishes the acting player from the rest of the room when
// projecting flags for a transition.
type Role int

const (
	RoleActor Role = iota
	RoleObserver
)

// Outcome is the result of resolving a Hero's claim.
type Outcome int

const (
	// OutcomeWin: the claim was correct; the Hero scores.
	OutcomeWin Outcome = iota
	// OutcomeVoid: the claim was wrong but every other player had already
	// guessed wrong, so the round ends with no score change.
	OutcomeVoid
	// OutcomeMiss: the claim was wrong; the Hero is penalized and the round
	// continues for the remaining untested players.
	OutcomeMiss
)

// Flags is the presentation bundle sent with every gamePlay message. The
// combinations are not mutually exclusive; they are a projection of
// (phase, role) or (outcome, role), never stored state.
type Flags struct {
	Lobby     bool `json:"lobby"`
	CountDown bool `json:"countDown"`
	InGame    bool `json:"inGame"`
	Hero      bool `json:"gameHero"`
	Observer  bool `json:"gameObserver"`
	Loser     bool `json:"gameLoser"`
	Check     bool `json:"gameCheck"`
}

// PhaseFlags projects a steady phase into the flag bundle for a role.
func PhaseFlags(p Phase, role Role) Flags {
	switch p {
	case PhaseLobby:
		return Flags{Lobby: true}
	case PhaseReadyCheck:
		return Flags{Check: true}
	case PhaseCountdown:
		return Flags{CountDown: true}
	case PhaseInRound:
		return Flags{InGame: true}
	case PhaseReaction:
		if role == RoleActor {
			return Flags{Hero: true}
		}
		return Flags{Observer: true}
	case PhaseChecking:
		return Flags{Check: true}
	default:
		return Flags{}
	}
}

// OutcomeFlags projects a resolution outcome into the flag bundle for a
// role. A win lights both lobby and gameLoser for everyone; a miss shows
// gameLoser only to the Hero while observers stay inGame.
func OutcomeFlags(o Outcome, role Role) Flags {
	switch o {
	case OutcomeWin:
		return Flags{Lobby: true, Loser: true}
	case OutcomeVoid:
		return Flags{Lobby: true}
	case OutcomeMiss:
		if role == RoleActor {
			return Flags{Loser: true}
		}
		return Flags{InGame: true}
	default:
		return Flags{}
	}
}
