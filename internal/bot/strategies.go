package bot

import "doppelkopf/internal/domain"

// StandardBot plays the deterministic trick heuristic: lead low, smear points onto a
// partner's trick, win as cheaply as possible, otherwise duck.
type StandardBot struct{}

// ChooseBid always declares no reservation.
func (b *StandardBot) ChooseBid(state domain.GameState, seat int) (domain.Bid, error) {
	return domain.Healthy, nil
}

func (b *StandardBot) ChooseCard(state domain.GameState, seat int) (domain.Card, error) {
	moves, r, err := legalMoves(state, seat)
	if err != nil {
		return domain.Card{}, err
	}

	weaker := func(a, b domain.Card) bool {
		if pa, pb := r.Power(a), r.Power(b); pa != pb {
			return pa < pb
		}
		return a.Points() < b.Points()
	}
	cheaper := func(a, b domain.Card) bool {
		if a.Points() != b.Points() {
			return a.Points() < b.Points()
		}
		return r.Power(a) < r.Power(b)
	}

	if len(state.CurrentTrick) == 0 {
		return pick(moves, weaker), nil
	}

	if partnerWinning(state, seat, r) {
		return pick(moves, func(a, b domain.Card) bool {
			if a.Points() != b.Points() {
				return a.Points() > b.Points()
			}
			return r.Power(a) < r.Power(b)
		}), nil
	}

	best := state.CurrentTrick[r.WinningPosition(state.CurrentTrick)]
	winners := make([]domain.Card, 0, len(moves))
	for _, c := range moves {
		if r.Beats(c, best) {
			winners = append(winners, c)
		}
	}
	if len(winners) > 0 {
		return pick(winners, weaker), nil
	}
	return pick(moves, cheaper), nil
}
