package domain

// Beats reports whether card displaces best as the winning card of a trick.
// Ties keep the earlier card.
func (r Resolver) Beats(card, best Card) bool {
	cardTrump, bestTrump := r.IsTrump(card), r.IsTrump(best)
	switch {
	case cardTrump:
		return !bestTrump || r.Power(card) > r.Power(best)
	case bestTrump:
		return false
	default:
		return card.Suit == best.Suit && r.Power(card) > r.Power(best)
	}
}

// follows reports whether card matches the lead property of the trick.
func (r Resolver) follows(card, lead Card) bool {
	if r.IsTrump(lead) {
		return r.IsTrump(card)
	}
	return !r.IsTrump(card) && card.Suit == lead.Suit
}

// IsValidMove checks the follow rule: the lead (trump, or a plain suit) must be served
// whenever the current hand can serve it. An empty trick allows any card.
func (r Resolver) IsValidMove(card Card, hand []Card, trick []Card) bool {
	if _, ok := IndexOfCard(hand, card.ID); !ok {
		return false
	}
	if len(trick) == 0 {
		return true
	}
	lead := trick[0]
	if r.follows(card, lead) {
		return true
	}
	for _, c := range hand {
		if r.follows(c, lead) {
			return false
		}
	}
	return true
}

// LegalMoves filters hand down to the cards that may be played into trick.
func (r Resolver) LegalMoves(hand []Card, trick []Card) []Card {
	moves := make([]Card, 0, len(hand))
	for _, c := range hand {
		if r.IsValidMove(c, hand, trick) {
			moves = append(moves, c)
		}
	}
	return moves
}

// WinningPosition returns the index within trick of the card currently winning it,
// or -1 for an empty trick.
func (r Resolver) WinningPosition(trick []Card) int {
	if len(trick) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(trick); i++ {
		if r.Beats(trick[i], trick[best]) {
			best = i
		}
	}
	return best
}

// EvaluateTrick returns the seat that wins trick, given the seat that led it.
func (r Resolver) EvaluateTrick(trick []Card, starter int) int {
	pos := r.WinningPosition(trick)
	if pos < 0 {
		return starter
	}
	return TrickOwner(starter, pos)
}

// IsValidMove is the contract-level form of Resolver.IsValidMove.
func IsValidMove(card Card, player Player, trick []Card, variant GameVariant, trumpSuit Suit, opts RuleOptions) bool {
	return NewResolver(variant, trumpSuit, opts).IsValidMove(card, player.Hand, trick)
}

// LegalMoves is the contract-level form of Resolver.LegalMoves.
func LegalMoves(player Player, trick []Card, variant GameVariant, trumpSuit Suit, opts RuleOptions) []Card {
	return NewResolver(variant, trumpSuit, opts).LegalMoves(player.Hand, trick)
}

// EvaluateTrick is the contract-level form of Resolver.EvaluateTrick.
func EvaluateTrick(trick []Card, starter int, variant GameVariant, trumpSuit Suit, opts RuleOptions) int {
	return NewResolver(variant, trumpSuit, opts).EvaluateTrick(trick, starter)
}

// CalculateTrickPoints sums the Augen of the cards in a trick.
func CalculateTrickPoints(trick []Card) int {
	total := 0
	for _, c := range trick {
		total += c.Points()
	}
	return total
}
