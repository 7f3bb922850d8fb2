package game

// Notice is the pair of message variants a transition produces: a
// first-person line for the acting player and a third-person line naming
// them for the rest of the room. Flags carry the per-role projection for
// the same transition; the structured payload around them is identical.
type Notice struct {
	Self        string
	Others      string
	SelfFlags   Flags
	OthersFlags Flags
}

// SnapNotices announces the reaction window opened by name.
func SnapNotices(name string) Notice {
	return Notice{
		Self:        "You called a snap you goose, hurry!",
		Others:      name + " spies a snap!",
		SelfFlags:   PhaseFlags(PhaseReaction, RoleActor),
		OthersFlags: PhaseFlags(PhaseReaction, RoleObserver),
	}
}

// NoSnapAckNotices acknowledges a no-match claim while the resolution is
// pending.
func NoSnapAckNotices(name string) Notice {
	return Notice{
		Self:        "You just said there were no matches!",
		Others:      name + " declares no matches!",
		SelfFlags:   PhaseFlags(PhaseChecking, RoleActor),
		OthersFlags: PhaseFlags(PhaseChecking, RoleObserver),
	}
}

// CardSelectAckNotices is the flags-only acknowledgement sent the moment a
// card selection arrives, before its resolution.
func CardSelectAckNotices() Notice {
	return Notice{
		SelfFlags:   PhaseFlags(PhaseChecking, RoleActor),
		OthersFlags: PhaseFlags(PhaseChecking, RoleObserver),
	}
}

// NoSnapResolveNotices describes the outcome of a resolved no-match claim.
func NoSnapResolveNotices(name string, o Outcome) Notice {
	n := Notice{
		SelfFlags:   OutcomeFlags(o, RoleActor),
		OthersFlags: OutcomeFlags(o, RoleObserver),
	}
	switch o {
	case OutcomeWin:
		n.Self = "You were right, there are no matches!"
		n.Others = name + " was right, there are no matches!"
	case OutcomeVoid:
		n.Self = "You were wrong, there was a match! Looks like nobody wins this round."
		n.Others = name + " was wrong, there is a match! Looks like nobody wins this round."
	case OutcomeMiss:
		n.Self = "You were wrong, there was a match!"
		n.Others = name + " was wrong, there is a match!"
	}
	return n
}

// CardSelectResolveNotices describes the outcome of a card-pair claim.
func CardSelectResolveNotices(name string, o Outcome) Notice {
	n := Notice{
		SelfFlags:   OutcomeFlags(o, RoleActor),
		OthersFlags: OutcomeFlags(o, RoleObserver),
	}
	switch o {
	case OutcomeWin:
		n.Self = "Yes! It's a match"
		n.Others = name + " was right, they found a match!"
	case OutcomeVoid:
		n.Self = "You were wrong, these are not matches! Looks like nobody wins this round."
		n.Others = name + " couldn't find a matching pair! Looks like nobody wins this round."
	case OutcomeMiss:
		n.Self = "You were wrong, these are not matches!"
		n.Others = name + " couldn't find a matching pair!"
	}
	return n
}

// ReadyNotices confirms a ready call. The room-wide variant is delivered as
// a chat line.
func ReadyNotices(name string, allReady bool) Notice {
	others := name + " is ready!"
	if allReady {
		others = "All users ready"
	}
	return Notice{
		Self:        "You are ready!",
		Others:      others,
		SelfFlags:   PhaseFlags(PhaseReadyCheck, RoleActor),
		OthersFlags: PhaseFlags(PhaseReadyCheck, RoleObserver),
	}
}

// LogoutNotices tells the remaining players someone left; the round has
// already been reset to the lobby when this is sent.
func LogoutNotices(name string) Notice {
	return Notice{
		Self:        "You left the room.",
		Others:      name + " left the room.",
		SelfFlags:   PhaseFlags(PhaseLobby, RoleActor),
		OthersFlags: PhaseFlags(PhaseLobby, RoleObserver),
	}
}

// DealFailedNotice is broadcast to the whole room when the catalog cannot
// produce a deal for the current settings.
func DealFailedNotice() Notice {
	f := PhaseFlags(PhaseLobby, RoleObserver)
	return Notice{
		Self:        "The game cannot start: not enough cards for the selected categories.",
		Others:      "The game cannot start: not enough cards for the selected categories.",
		SelfFlags:   f,
		OthersFlags: f,
	}
}

// LoadingText and StartText frame the presentation pause between dealing
// and live play.
const (
	LoadingText = "Loading..."
	StartText   = "Game start!"
)
