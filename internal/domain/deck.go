package domain

import (
	"math/rand"
	"sort"
)

// NewDeck returns an ordered Doppelkopf deck: 40 cards, or 48 when Nines are included.
func NewDeck(withNines bool) []Card {
	values := []Value{ValueAce, ValueTen, ValueKing, ValueQueen, ValueJack}
	if withNines {
		values = append(values, ValueNine)
	}

	deck := make([]Card, 0, 2*len(Suits)*len(values))
	for copyIdx := 0; copyIdx < 2; copyIdx++ {
		for _, s := range Suits {
			for _, v := range values {
				deck = append(deck, NewCard(s, v, copyIdx))
			}
		}
	}
	return deck
}

// ShuffleDeck returns a shuffled copy of the given deck. A nil rng uses the global source.
func ShuffleDeck(deck []Card, rng *rand.Rand) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	swap := func(i, j int) { out[i], out[j] = out[j], out[i] }
	if rng == nil {
		rand.Shuffle(len(out), swap)
	} else {
		rng.Shuffle(len(out), swap)
	}
	return out
}

// Deal partitions a deck into NumSeats equal hands.
func Deal(deck []Card) [][]Card {
	per := len(deck) / NumSeats
	hands := make([][]Card, NumSeats)
	for i := range hands {
		hands[i] = append([]Card{}, deck[i*per:(i+1)*per]...)
	}
	return hands
}

// SortHand orders a hand for display: trumps strongest first, then the plain suits
// Clubs, Spades, Hearts, Diamonds with faces descending.
func SortHand(cards []Card, variant GameVariant, trumpSuit Suit, opts RuleOptions) {
	r := NewResolver(variant, trumpSuit, opts)
	sort.SliceStable(cards, func(i, j int) bool {
		a, b := cards[i], cards[j]
		ta, tb := r.IsTrump(a), r.IsTrump(b)
		if ta != tb {
			return ta
		}
		if ta {
			return r.Power(a) > r.Power(b)
		}
		if a.Suit != b.Suit {
			return suitOrder(a.Suit) < suitOrder(b.Suit)
		}
		return valueOrder(a.Value) < valueOrder(b.Value)
	})
}
