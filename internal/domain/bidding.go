package domain

import (
	"fmt"
	"strings"
)

const (
	bidHealthy      = "Gesund"
	suitSoloTagBase = "FarbenSolo"
)

// Bid is a reservation declared during the bidding phase. The zero Variant is read as Normal
// ("Gesund", no reservation).
type Bid struct {
	Variant   GameVariant
	TrumpSuit Suit
}

// Healthy is the "no reservation" bid.
var Healthy = Bid{Variant: VariantNormal}

// IsSpecial reports whether the bid is anything other than Healthy.
func (b Bid) IsSpecial() bool {
	return b.Variant != "" && b.Variant != VariantNormal
}

// String returns the wire tag, e.g. "Gesund", "DamenSolo" or "FarbenSolo_Herz".
func (b Bid) String() string {
	switch b.Variant {
	case "", VariantNormal:
		return bidHealthy
	case VariantSuitSolo:
		return suitSoloTagBase + "_" + string(b.TrumpSuit)
	default:
		return string(b.Variant)
	}
}

// MarshalText encodes the bid as its wire tag.
func (b Bid) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText decodes a wire tag.
func (b *Bid) UnmarshalText(text []byte) error {
	parsed, err := ParseBid(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ParseBid maps a client bid tag to a Bid. A bare "FarbenSolo" parses to a suit solo
// without a suit, which CanBid rejects.
func ParseBid(tag string) (Bid, error) {
	switch GameVariant(tag) {
	case VariantMarriage, VariantQueenSolo, VariantJackSolo, VariantSuitlessSolo, VariantSilentSolo:
		return Bid{Variant: GameVariant(tag)}, nil
	}
	if tag == bidHealthy || tag == string(VariantNormal) {
		return Healthy, nil
	}
	if tag == suitSoloTagBase {
		return Bid{Variant: VariantSuitSolo}, nil
	}
	if rest, ok := strings.CutPrefix(tag, suitSoloTagBase+"_"); ok {
		suit, ok := ParseSuit(rest)
		if !ok {
			return Bid{}, fmt.Errorf("unknown trump suit %q", rest)
		}
		return Bid{Variant: VariantSuitSolo, TrumpSuit: suit}, nil
	}
	return Bid{}, fmt.Errorf("unknown bid %q", tag)
}

// CanBid reports whether a player holding hand may declare bid.
func CanBid(bid Bid, hand []Card) bool {
	switch bid.Variant {
	case VariantMarriage, VariantSilentSolo:
		return countQueensOfClubs(hand) == 2
	case VariantSuitSolo:
		_, ok := ParseSuit(string(bid.TrumpSuit))
		return ok
	case "", VariantNormal, VariantQueenSolo, VariantJackSolo, VariantSuitlessSolo:
		return true
	}
	return false
}

func countQueensOfClubs(hand []Card) int {
	n := 0
	for _, c := range hand {
		if c.IsQueenOfClubs() {
			n++
		}
	}
	return n
}

// bidPriority ranks reservations; the highest wins the auction.
func bidPriority(v GameVariant, opts RuleOptions) int {
	switch v {
	case VariantSuitSolo:
		return 6
	case VariantQueenSolo:
		return 5
	case VariantJackSolo:
		return 4
	case VariantSuitlessSolo:
		return 3
	case VariantSilentSolo:
		return 2
	case VariantMarriage:
		if !opts.SoloPriority {
			return 7
		}
		return 1
	}
	return 0
}

// Contract is the resolved outcome of the bidding phase.
type Contract struct {
	Variant   GameVariant
	TrumpSuit Suit
	SoloistID string
}

// DetermineFinalGameType picks the winning reservation. seatOrder lists player IDs starting
// at forehand; among equal bids the earliest seat wins. Without a special bid the hand is
// Normal with no soloist.
func DetermineFinalGameType(bids map[string]Bid, seatOrder []string, opts RuleOptions) Contract {
	best := Contract{Variant: VariantNormal}
	bestPrio := 0
	for _, id := range seatOrder {
		bid, ok := bids[id]
		if !ok || !bid.IsSpecial() {
			continue
		}
		if prio := bidPriority(bid.Variant, opts); prio > bestPrio {
			bestPrio = prio
			best = Contract{Variant: bid.Variant, SoloistID: id}
			if bid.Variant == VariantSuitSolo {
				best.TrumpSuit = bid.TrumpSuit
			}
		}
	}
	return best
}

// StartingPlayer returns the seat that leads the first trick. The soloist leads a solo;
// otherwise (or when the soloist is not seated) forehand does.
func StartingPlayer(variant GameVariant, dealer int, soloistID string, players []Player) int {
	if variant.IsSolo() && soloistID != "" {
		for i, p := range players {
			if p.ID == soloistID {
				return i
			}
		}
	}
	return (dealer + 1) % NumSeats
}
