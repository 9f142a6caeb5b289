package domain

import "fmt"

// Suit is one of the four French-suited colours, named the way clients send them.
type Suit string

const (
	SuitClubs    Suit = "Kreuz"
	SuitSpades   Suit = "Pik"
	SuitHearts   Suit = "Herz"
	SuitDiamonds Suit = "Karo"
)

// Suits lists the suits in their table order (Clubs highest).
var Suits = []Suit{SuitClubs, SuitSpades, SuitHearts, SuitDiamonds}

// Value is the face of a card.
type Value string

const (
	ValueAce   Value = "Ass"
	ValueTen   Value = "Zehn"
	ValueKing  Value = "König"
	ValueQueen Value = "Dame"
	ValueJack  Value = "Bube"
	ValueNine  Value = "Neun"
)

// Values lists the faces in descending face order.
var Values = []Value{ValueAce, ValueTen, ValueKing, ValueQueen, ValueJack, ValueNine}

// Card is a single physical card. Two copies of every suit/value exist; ID tells them apart.
type Card struct {
	Suit  Suit   `json:"suit"`
	Value Value  `json:"value"`
	ID    string `json:"id"`
}

// NewCard builds the given copy (0 or 1) of a suit/value combination.
func NewCard(suit Suit, value Value, copyIdx int) Card {
	return Card{Suit: suit, Value: value, ID: fmt.Sprintf("%s-%s-%d", suit, value, copyIdx)}
}

// Is reports whether the card has the given suit and value, regardless of copy.
func (c Card) Is(suit Suit, value Value) bool {
	return c.Suit == suit && c.Value == value
}

func (c Card) String() string {
	return string(c.Suit) + " " + string(c.Value)
}

// IsQueenOfClubs reports whether the card is one of the two "Alten".
func (c Card) IsQueenOfClubs() bool { return c.Is(SuitClubs, ValueQueen) }

// IsTenOfHearts reports whether the card is one of the two "Dullen".
func (c Card) IsTenOfHearts() bool { return c.Is(SuitHearts, ValueTen) }

// IsFox reports whether the card is an Ace of Diamonds.
func (c Card) IsFox() bool { return c.Is(SuitDiamonds, ValueAce) }

// IsCharlie reports whether the card is a Jack of Clubs ("Karlchen").
func (c Card) IsCharlie() bool { return c.Is(SuitClubs, ValueJack) }

// PointsFor returns the card points (Augen) of a face value.
func PointsFor(v Value) int {
	switch v {
	case ValueAce:
		return 11
	case ValueTen:
		return 10
	case ValueKing:
		return 4
	case ValueQueen:
		return 3
	case ValueJack:
		return 2
	default:
		return 0
	}
}

// Points returns the card points of c.
func (c Card) Points() int { return PointsFor(c.Value) }

// ParseSuit maps a client suit name to a Suit.
func ParseSuit(s string) (Suit, bool) {
	for _, suit := range Suits {
		if string(suit) == s {
			return suit, true
		}
	}
	return "", false
}

func suitOrder(s Suit) int {
	for i, suit := range Suits {
		if suit == s {
			return i
		}
	}
	return len(Suits)
}

func valueOrder(v Value) int {
	for i, value := range Values {
		if value == v {
			return i
		}
	}
	return len(Values)
}

// IndexOfCard returns the position of the card with the given ID.
func IndexOfCard(cards []Card, id string) (int, bool) {
	for i, c := range cards {
		if c.ID == id {
			return i, true
		}
	}
	return -1, false
}

// RemoveCard returns a copy of hand without the card carrying id.
func RemoveCard(hand []Card, id string) []Card {
	out := make([]Card, 0, len(hand))
	for _, c := range hand {
		if c.ID == id {
			continue
		}
		out = append(out, c)
	}
	return out
}
