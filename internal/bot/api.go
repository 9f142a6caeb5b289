package bot

import (
	"errors"

	"doppelkopf/internal/domain"
)

// ErrNoLegalMoves means the bot was asked to play from a hand with nothing playable. It
// indicates corrupted state upstream; callers must not fall back to an arbitrary card.
var ErrNoLegalMoves = errors.New("no legal moves")

// ErrNotSeated is returned when an agent is asked to act in a hand it is not part of.
var ErrNotSeated = errors.New("agent not seated in this hand")

// Brain is the interface that all bot strategies must implement.
type Brain interface {
	ChooseBid(state domain.GameState, seat int) (domain.Bid, error)
	ChooseCard(state domain.GameState, seat int) (domain.Card, error)
}
