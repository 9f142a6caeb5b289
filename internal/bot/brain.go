package bot

import (
	"fmt"

	"doppelkopf/internal/domain"
)

// legalMoves returns the playable cards of seat together with the resolver for the hand.
func legalMoves(state domain.GameState, seat int) ([]domain.Card, domain.Resolver, error) {
	r := state.Resolver()
	if seat < 0 || seat >= len(state.Players) {
		return nil, r, fmt.Errorf("seat %d: %w", seat, ErrNotSeated)
	}
	p := state.Players[seat]
	moves := r.LegalMoves(p.Hand, state.CurrentTrick)
	if len(moves) == 0 {
		return nil, r, fmt.Errorf("player %s: %w", p.ID, ErrNoLegalMoves)
	}
	return moves, r, nil
}

// partnerWinning reports whether the card currently winning the trick belongs to a known
// teammate of seat. Teams are known when the winner is revealed, and always in a solo.
func partnerWinning(state domain.GameState, seat int, r domain.Resolver) bool {
	pos := r.WinningPosition(state.CurrentTrick)
	if pos < 0 {
		return false
	}
	owner := domain.TrickOwner(state.TrickStarter, pos)
	if owner == seat {
		return true
	}
	w := state.Players[owner]
	if !w.Revealed && !state.Variant.IsSolo() {
		return false
	}
	return w.Team == state.Players[seat].Team && w.Team != domain.TeamUnknown
}

// pick returns the first card for which better prefers it over every other card.
func pick(cards []domain.Card, better func(a, b domain.Card) bool) domain.Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if better(c, best) {
			best = c
		}
	}
	return best
}
