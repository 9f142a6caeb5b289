package bot

import (
	"math/rand"

	"doppelkopf/internal/domain"
)

// RandomBot plays a uniformly random legal card. A nil Rand uses the global source.
type RandomBot struct {
	Rand *rand.Rand
}

// ChooseBid always declares no reservation.
func (b *RandomBot) ChooseBid(state domain.GameState, seat int) (domain.Bid, error) {
	return domain.Healthy, nil
}

func (b *RandomBot) ChooseCard(state domain.GameState, seat int) (domain.Card, error) {
	moves, _, err := legalMoves(state, seat)
	if err != nil {
		return domain.Card{}, err
	}
	if b.Rand == nil {
		return moves[rand.Intn(len(moves))], nil
	}
	return moves[b.Rand.Intn(len(moves))], nil
}
