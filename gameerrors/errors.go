package gameerrors

import "errors"

// Sentinel errors shared by the game, room and ws packages to avoid
// circular imports.
var (
	// ErrRoomUnavailable covers both a full room and a missing room.
	// Clients receive the same notice for either case.
	ErrRoomUnavailable = errors.New("room is full or does not exist")

	ErrNotInRoom    = errors.New("player is not in a room")
	ErrAlreadyReady = errors.New("player is already ready")
	ErrWrongPhase   = errors.New("action not valid in the current phase")
	ErrNotHero      = errors.New("another player is resolving this round")
	ErrOutOfRound   = errors.New("player already guessed wrong this round")
	ErrNeedTwoCards = errors.New("card selection requires exactly two cards")

	// ErrNoCandidates is returned when the category filter (or an empty
	// catalog) leaves nothing to deal from.
	ErrNoCandidates = errors.New("no cards available for the selected categories")

	// ErrNotEnoughCards is returned when the candidate pool has fewer
	// distinct entries than the deal requires.
	ErrNotEnoughCards = errors.New("not enough distinct cards to deal")
)
