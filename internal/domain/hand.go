package domain

import (
	"fmt"
	"math/rand"
)

// CreateInitialState deals the first hand for four named seats. Seats get the IDs p0..p3,
// seat 0 deals and forehand (seat 1) bids first.
func CreateInitialState(names []string, opts RuleOptions, rng *rand.Rand) (GameState, error) {
	if len(names) != NumSeats {
		return GameState{}, fmt.Errorf("need %d players, got %d", NumSeats, len(names))
	}
	players := make([]Player, NumSeats)
	for i, name := range names {
		players[i] = Player{ID: fmt.Sprintf("p%d", i), Name: name, Connected: true}
	}
	return NewTable(players, opts, rng)
}

// NewTable deals the first hand for four seated players that already carry their IDs.
// Seat 0 deals.
func NewTable(players []Player, opts RuleOptions, rng *rand.Rand) (GameState, error) {
	if len(players) != NumSeats {
		return GameState{}, fmt.Errorf("need %d players, got %d", NumSeats, len(players))
	}
	seen := make(map[string]bool, NumSeats)
	for i, p := range players {
		if p.ID == "" {
			return GameState{}, fmt.Errorf("seat %d has no player id", i)
		}
		if seen[p.ID] {
			return GameState{}, fmt.Errorf("player %s seated twice", p.ID)
		}
		seen[p.ID] = true
	}
	return dealHand(append([]Player(nil), players...), 0, opts, rng), nil
}

// RotateDealer starts the next hand: the deal moves one seat on, cards are redealt and
// tournament points carry over by player ID.
func RotateDealer(prev GameState, opts RuleOptions, rng *rand.Rand) GameState {
	players := make([]Player, len(prev.Players))
	for i, p := range prev.Players {
		players[i] = Player{
			ID:               p.ID,
			Name:             p.Name,
			IsBot:            p.IsBot,
			TournamentPoints: p.TournamentPoints,
			Connected:        p.Connected,
			DisconnectedAt:   p.DisconnectedAt,
		}
	}
	return dealHand(players, (prev.Dealer+1)%NumSeats, opts, rng)
}

// NewHandFromDeck deals an already ordered deck. It is the deterministic entry point used by
// tests and replays; seats keep their IDs and tournament points.
func NewHandFromDeck(players []Player, dealer int, deck []Card, opts RuleOptions) GameState {
	hands := Deal(deck)
	seats := make([]Player, len(players))
	for i, p := range players {
		p.Hand = hands[i]
		p.Team = TeamUnknown
		p.Revealed = false
		p.Points = 0
		p.Tricks = [][]Card{}
		seats[i] = p
		SortHand(seats[i].Hand, VariantNormal, "", opts)
	}
	forehand := (dealer + 1) % NumSeats
	state := GameState{
		Players:         seats,
		Dealer:          dealer,
		CurrentPlayer:   forehand,
		TrickStarter:    forehand,
		LastTrickWinner: -1,
		CurrentTrick:    []Card{},
		Variant:         VariantNormal,
		ReIDs:           []string{},
		KontraIDs:       []string{},
		Bids:            map[string]Bid{},
		Calls:           map[string]Team{},
		SpecialPoints:   SpecialPoints{Re: []SpecialPoint{}, Kontra: []SpecialPoint{}},
		Phase:           PhaseBidding,
		Options:         opts,
	}
	return DetermineTeams(state)
}

func dealHand(players []Player, dealer int, opts RuleOptions, rng *rand.Rand) GameState {
	deck := ShuffleDeck(NewDeck(opts.WithNines), rng)
	return NewHandFromDeck(players, dealer, deck, opts)
}

// ApplyContract switches the hand to the contract won in bidding and opens play.
func ApplyContract(state GameState, c Contract) GameState {
	next := state.Clone()
	next.Variant = c.Variant
	next.TrumpSuit = c.TrumpSuit
	next.SoloistID = c.SoloistID

	switch {
	case c.Variant.IsSolo():
		next = AssignSoloTeams(next, c.SoloistID)
	case c.Variant == VariantMarriage:
		next = DetermineTeams(next)
		if seat, ok := next.SeatOf(c.SoloistID); ok {
			next = RevealPlayer(next, seat)
		}
	default:
		next = DetermineTeams(next)
	}

	for i := range next.Players {
		SortHand(next.Players[i].Hand, next.Variant, next.TrumpSuit, next.Options)
	}
	starter := StartingPlayer(next.Variant, next.Dealer, next.SoloistID, next.Players)
	next.CurrentPlayer = starter
	next.TrickStarter = starter
	next.Phase = PhasePlaying
	return next
}
