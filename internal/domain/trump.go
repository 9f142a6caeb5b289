package domain

// Power tiers. Every trump outranks every non-trump; within trump the tiers never overlap.
const (
	trumpBase  = 1000
	tierDulle  = 100
	tierQueens = 80
	tierJacks  = 60
	tierSuit   = 40
)

// trumpSet describes which cards a contract promotes to trump.
type trumpSet struct {
	queens bool
	jacks  bool
	// suit yields the plain suit that is trump, given the suit chosen by a suit soloist.
	suit func(chosen Suit) Suit
	// dulle reports whether the Ten-of-Hearts option may apply under this contract.
	dulle bool
}

func fixedSuit(s Suit) func(Suit) Suit { return func(Suit) Suit { return s } }
func chosenSuit(s Suit) Suit          { return s }
func noSuit(Suit) Suit                { return "" }

var normalTrumps = trumpSet{queens: true, jacks: true, suit: fixedSuit(SuitDiamonds), dulle: true}

// trumpTable is the closed set of trump rules, one per contract.
var trumpTable = map[GameVariant]trumpSet{
	VariantNormal:       normalTrumps,
	VariantMarriage:     normalTrumps,
	VariantSilentSolo:   normalTrumps,
	VariantQueenSolo:    {queens: true, suit: noSuit, dulle: true},
	VariantJackSolo:     {jacks: true, suit: noSuit, dulle: true},
	VariantSuitlessSolo: {suit: noSuit},
	VariantSuitSolo:     {queens: true, jacks: true, suit: chosenSuit, dulle: true},
}

// Resolver answers trump and power questions for one contract. Build it once per hand
// (or per call site) and reuse it for every card.
type Resolver struct {
	queens    bool
	jacks     bool
	dulle     bool
	trumpSuit Suit
}

// NewResolver selects the trump rules for variant. Unknown variants fall back to Normal.
func NewResolver(variant GameVariant, trumpSuit Suit, opts RuleOptions) Resolver {
	set, ok := trumpTable[variant]
	if !ok {
		set = normalTrumps
	}
	return Resolver{
		queens:    set.queens,
		jacks:     set.jacks,
		dulle:     set.dulle && opts.TenOfHeartsHighest,
		trumpSuit: set.suit(trumpSuit),
	}
}

// IsTrump reports whether card is trump under the resolver's contract.
func (r Resolver) IsTrump(c Card) bool {
	switch {
	case r.dulle && c.IsTenOfHearts():
		return true
	case r.queens && c.Value == ValueQueen:
		return true
	case r.jacks && c.Value == ValueJack:
		return true
	case r.trumpSuit != "" && c.Suit == r.trumpSuit:
		return true
	}
	return false
}

// Power ranks a card. Higher wins; the order is total over distinct suit/value pairs
// within trump, and suit-blind outside trump.
func (r Resolver) Power(c Card) int {
	if !r.IsTrump(c) {
		return plainPower(c.Value)
	}
	switch {
	case r.dulle && c.IsTenOfHearts():
		return trumpBase + tierDulle
	case r.queens && c.Value == ValueQueen:
		return trumpBase + tierQueens + suitRank(c.Suit)
	case r.jacks && c.Value == ValueJack:
		return trumpBase + tierJacks + suitRank(c.Suit)
	case c.Suit == r.trumpSuit:
		return trumpBase + tierSuit + suitTrumpRank(c.Value)
	}
	return trumpBase + tierSuit
}

// suitRank orders Queens and Jacks: Clubs 4, Spades 3, Hearts 2, Diamonds 1.
func suitRank(s Suit) int {
	return len(Suits) - suitOrder(s)
}

func suitTrumpRank(v Value) int {
	switch v {
	case ValueAce:
		return 6
	case ValueTen:
		return 5
	case ValueKing:
		return 4
	case ValueQueen:
		return 3
	case ValueJack:
		return 2
	case ValueNine:
		return 1
	}
	return 0
}

func plainPower(v Value) int {
	switch v {
	case ValueAce:
		return 10
	case ValueTen:
		return 9
	case ValueKing:
		return 8
	case ValueQueen:
		return 7
	case ValueJack:
		return 6
	case ValueNine:
		return 1
	}
	return 0
}

// IsTrump reports whether card is trump for the given contract.
func IsTrump(c Card, variant GameVariant, trumpSuit Suit, opts RuleOptions) bool {
	return NewResolver(variant, trumpSuit, opts).IsTrump(c)
}

// Power ranks card for the given contract.
func Power(c Card, variant GameVariant, trumpSuit Suit, opts RuleOptions) int {
	return NewResolver(variant, trumpSuit, opts).Power(c)
}
