package game

import (
	"math/rand"

	"snap-game-server/catalog"
	"snap-game-server/gameerrors"
)

// The round transitions below mutate the session in response to player
// actions. They validate first and leave all state untouched on error.

// MarkReady records a player's ready call. Returns whether the whole roster
// is now ready, at which point the caller is expected to start the round.
func (s *Session) MarkReady(p PlayerID) (allReady bool, err error) {
	if s.Round.Phase != PhaseLobby && s.Round.Phase != PhaseReadyCheck {
		return false, gameerrors.ErrWrongPhase
	}
	if !s.HasPlayer(p) {
		return false, gameerrors.ErrNotInRoom
	}
	if _, ok := s.Round.Ready[p]; ok {
		return false, gameerrors.ErrAlreadyReady
	}
	s.Round.Ready[p] = struct{}{}
	s.Round.Phase = PhaseReadyCheck
	return len(s.Round.Ready) == len(s.Players), nil
}

// StartRound deals a fresh set of cards for the current roster and enters
// the countdown phase. On a deal failure the round resets to the lobby and
// the error is returned for the room-wide cannot-start notice.
func (s *Session) StartRound(rng *rand.Rand, cat *catalog.Catalog) (DealResult, error) {
	deal, err := Deal(rng, cat, s.Filter, len(s.Players))
	if err != nil {
		s.ResetRound()
		return DealResult{}, err
	}
	s.Round.Dealt = deal.Options
	s.Round.HasMatch = deal.HasMatch
	s.Round.Ready = make(map[PlayerID]struct{})
	s.Round.Losers = make(map[PlayerID]struct{})
	s.Round.Hero = ""
	s.Round.Phase = PhaseCountdown
	s.Round.Seq++
	return deal, nil
}

// BeginPlay moves the countdown into live play. It is driven by a timer and
// no-ops when the round it was scheduled for is gone.
func (s *Session) BeginPlay(seq uint64) bool {
	if s.Round.Phase != PhaseCountdown || s.Round.Seq != seq {
		return false
	}
	s.Round.Phase = PhaseInRound
	return true
}

// CallSnap makes the caller the round's Hero and opens the reaction window.
// Players who already guessed wrong this round are out.
func (s *Session) CallSnap(p PlayerID) error {
	if s.Round.Phase != PhaseInRound {
		return gameerrors.ErrWrongPhase
	}
	if !s.HasPlayer(p) {
		return gameerrors.ErrNotInRoom
	}
	if _, lost := s.Round.Losers[p]; lost {
		return gameerrors.ErrOutOfRound
	}
	s.Round.Hero = p
	s.Round.Phase = PhaseReaction
	return nil
}

// ClaimNoSnap records the Hero's claim that no match exists and enters the
// checking phase. The actual resolution happens later, when the caller's
// scheduled event fires with the returned generation. Checking blocks any
// further claim until the pending resolution lands.
func (s *Session) ClaimNoSnap(p PlayerID) (seq uint64, err error) {
	if err := s.validateClaim(p); err != nil {
		return 0, err
	}
	s.Round.Hero = p
	s.Round.Phase = PhaseChecking
	return s.Round.Seq, nil
}

// ResolveNoSnap applies a pending noSnap claim. The claim is correct when
// the deal in fact contains no match. Returns ok=false when the round moved
// on (stale generation, wrong phase, or the hero left); the caller must
// treat that as a no-op.
func (s *Session) ResolveNoSnap(p PlayerID, seq uint64) (Outcome, bool) {
	if s.Round.Phase != PhaseChecking || s.Round.Seq != seq || s.Round.Hero != p {
		return 0, false
	}
	if !s.HasPlayer(p) {
		return 0, false
	}
	return s.resolveClaim(p, !s.Round.HasMatch), true
}

// SelectCards resolves the Hero's claim that the two given cards match.
// Unlike noSnap this resolves immediately.
func (s *Session) SelectCards(p PlayerID, cards []Card) (Outcome, error) {
	if len(cards) != 2 {
		return 0, gameerrors.ErrNeedTwoCards
	}
	if err := s.validateClaim(p); err != nil {
		return 0, err
	}
	return s.resolveClaim(p, cards[0].Matches(cards[1])), nil
}

// validateClaim checks that p may resolve the current round: in the room,
// not already out, and, when a snap opened a reaction window, the same
// player who snapped. A claim without a prior snap is accepted; the caller
// becomes the resolving player.
func (s *Session) validateClaim(p PlayerID) error {
	switch s.Round.Phase {
	case PhaseInRound:
	case PhaseReaction:
		if s.Round.Hero != p {
			return gameerrors.ErrNotHero
		}
	default:
		return gameerrors.ErrWrongPhase
	}
	if !s.HasPlayer(p) {
		return gameerrors.ErrNotInRoom
	}
	if _, lost := s.Round.Losers[p]; lost {
		return gameerrors.ErrOutOfRound
	}
	return nil
}

// resolveClaim scores the Hero's claim and advances the round.
//
// Correct: +1 and back to the lobby. Wrong with every other player already
// out: the round voids with no score change, since the last untested
// player's outcome is forced. Wrong otherwise: -0.5, the Hero joins the
// losers and play continues for the rest.
func (s *Session) resolveClaim(p PlayerID, correct bool) Outcome {
	if correct {
		s.Scores.Adjust(p, 1)
		s.ResetRound()
		return OutcomeWin
	}
	if len(s.Round.Losers) == len(s.Players)-1 {
		s.ResetRound()
		return OutcomeVoid
	}
	s.Scores.Adjust(p, -0.5)
	s.Round.Losers[p] = struct{}{}
	s.Round.Hero = ""
	s.Round.Phase = PhaseInRound
	return OutcomeMiss
}
