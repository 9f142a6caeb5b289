package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"doppelkopf/internal/domain"
)

// Service contains Doppelkopf use-cases operating on domain state. Every method takes the
// current state by value and returns the next one; on error the input comes back unchanged.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

var (
	ErrWrongPhase      = errors.New("action not allowed in current phase")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrUnknownPlayer   = errors.New("player not found")
	ErrCardNotInHand   = errors.New("card not in hand")
	ErrIllegalMove     = errors.New("card does not follow the lead")
	ErrAlreadyCalled   = errors.New("player already announced")
	ErrInvalidCall     = errors.New("call does not match player's team")
	ErrInvalidBid      = errors.New("bid not allowed for this hand")
	ErrTrickIncomplete = errors.New("trick is not complete")
	ErrTrickPending    = errors.New("completed trick has not been collected")
)

// NewHand deals the first hand of a table.
func (s *Service) NewHand(names []string, opts domain.RuleOptions) (domain.GameState, []Event, error) {
	state, err := domain.CreateInitialState(names, opts, s.rng)
	if err != nil {
		return domain.GameState{}, nil, err
	}
	return state, dealEvents(state), nil
}

// StartTable deals the first hand for players seated by the host.
func (s *Service) StartTable(players []domain.Player, opts domain.RuleOptions) (domain.GameState, []Event, error) {
	state, err := domain.NewTable(players, opts, s.rng)
	if err != nil {
		return domain.GameState{}, nil, err
	}
	return state, dealEvents(state), nil
}

// NextHand rotates the dealer after a scored hand and deals again.
func (s *Service) NextHand(prev domain.GameState, opts domain.RuleOptions) (domain.GameState, []Event, error) {
	if prev.Phase != domain.PhaseScoring {
		return prev, nil, fmt.Errorf("next hand: %w", ErrWrongPhase)
	}
	state := domain.RotateDealer(prev, opts, s.rng)
	return state, dealEvents(state), nil
}

func dealEvents(state domain.GameState) []Event {
	events := make([]Event, 0, len(state.Players)+1)
	for _, p := range state.Players {
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{PlayerID: p.ID, Hand: append([]domain.Card{}, p.Hand...)},
			Recipients: []string{p.ID},
		})
	}
	events = append(events, Event{
		Kind: EventBiddingStarted,
		Payload: BiddingStartedPayload{
			Dealer:        state.Dealer,
			FirstBidderID: state.Players[state.CurrentPlayer].ID,
		},
	})
	return events
}

// actingSeat resolves playerID and checks that it is their turn in the given phase.
func actingSeat(state domain.GameState, playerID string, phase domain.Phase) (int, error) {
	if state.Phase != phase {
		return -1, ErrWrongPhase
	}
	seat, ok := state.SeatOf(playerID)
	if !ok {
		return -1, ErrUnknownPlayer
	}
	if seat != state.CurrentPlayer {
		return -1, ErrNotYourTurn
	}
	return seat, nil
}

// SubmitBid records one seat's reservation. Once every seat has bid, the contract is
// settled and play opens.
func (s *Service) SubmitBid(state domain.GameState, playerID string, bid domain.Bid) (domain.GameState, []Event, error) {
	seat, err := actingSeat(state, playerID, domain.PhaseBidding)
	if err != nil {
		return state, nil, fmt.Errorf("bid by %s: %w", playerID, err)
	}
	if !domain.CanBid(bid, state.Players[seat].Hand) {
		return state, nil, fmt.Errorf("bid %s by %s: %w", bid, playerID, ErrInvalidBid)
	}

	next := state.Clone()
	if bid.Variant == "" {
		bid = domain.Healthy
	}
	next.Bids[playerID] = bid
	next.CurrentPlayer = (seat + 1) % domain.NumSeats

	payload := BidSubmittedPayload{PlayerID: playerID, Bid: bid}
	if len(next.Bids) < len(next.Players) {
		payload.NextBidderID = next.Players[next.CurrentPlayer].ID
		return next, []Event{{Kind: EventBidSubmitted, Payload: payload}}, nil
	}

	contract := domain.DetermineFinalGameType(next.Bids, next.SeatOrderFrom(next.Forehand()), next.Options)
	next = domain.ApplyContract(next, contract)

	events := []Event{
		{Kind: EventBidSubmitted, Payload: payload},
		{Kind: EventContractSettled, Payload: ContractSettledPayload{
			Variant:       next.Variant,
			TrumpSuit:     next.TrumpSuit,
			SoloistID:     next.SoloistID,
			FirstPlayerID: next.Players[next.CurrentPlayer].ID,
		}},
	}
	// Hands are re-sorted for the new trump order.
	for _, p := range next.Players {
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{PlayerID: p.ID, Hand: append([]domain.Card{}, p.Hand...)},
			Recipients: []string{p.ID},
		})
	}
	return next, events, nil
}

// PlayCard plays one card from the current player's hand into the trick.
func (s *Service) PlayCard(state domain.GameState, playerID, cardID string) (domain.GameState, []Event, error) {
	seat, err := actingSeat(state, playerID, domain.PhasePlaying)
	if err != nil {
		return state, nil, fmt.Errorf("play by %s: %w", playerID, err)
	}
	if len(state.CurrentTrick) >= domain.NumSeats {
		return state, nil, fmt.Errorf("play by %s: %w", playerID, ErrTrickPending)
	}
	hand := state.Players[seat].Hand
	idx, ok := domain.IndexOfCard(hand, cardID)
	if !ok {
		return state, nil, fmt.Errorf("play %s by %s: %w", cardID, playerID, ErrCardNotInHand)
	}
	card := hand[idx]
	if !state.Resolver().IsValidMove(card, hand, state.CurrentTrick) {
		return state, nil, fmt.Errorf("play %s by %s: %w", card, playerID, ErrIllegalMove)
	}

	next := state.Clone()
	next.Players[seat].Hand = domain.RemoveCard(next.Players[seat].Hand, cardID)
	next.CurrentTrick = append(next.CurrentTrick, card)
	if card.IsQueenOfClubs() {
		next = domain.RevealPlayer(next, seat)
	}

	payload := CardPlayedPayload{PlayerID: playerID, Card: card}
	if len(next.CurrentTrick) == domain.NumSeats {
		payload.TrickFull = true
	} else {
		next.CurrentPlayer = (seat + 1) % domain.NumSeats
		payload.NextPlayerID = next.Players[next.CurrentPlayer].ID
	}
	return next, []Event{{Kind: EventCardPlayed, Payload: payload}}, nil
}

// CompleteTrick collects a full trick: the winner takes the points, a Marriage partner may
// be found, special points are recorded, and after the last trick the hand is scored.
func (s *Service) CompleteTrick(state domain.GameState) (domain.GameState, []Event, error) {
	if state.Phase != domain.PhasePlaying {
		return state, nil, fmt.Errorf("complete trick: %w", ErrWrongPhase)
	}
	if len(state.CurrentTrick) != domain.NumSeats {
		return state, nil, fmt.Errorf("complete trick with %d cards: %w", len(state.CurrentTrick), ErrTrickIncomplete)
	}

	trick := append([]domain.Card{}, state.CurrentTrick...)
	winner := state.Resolver().EvaluateTrick(trick, state.TrickStarter)
	points := domain.CalculateTrickPoints(trick)

	next := state.Clone()
	next.Players[winner].Points += points
	next.Players[winner].Tricks = append(next.Players[winner].Tricks, trick)

	partner := ""
	before := len(next.ReIDs)
	next = domain.ApplyMarriagePartner(next, winner)
	if len(next.ReIDs) > before {
		partner = next.Players[winner].ID
	}

	last := next.HandsEmpty()
	special := domain.CheckTrickSpecialPoints(trick, winner, next.TrickStarter, next.Players, next.Options, last)
	next.SpecialPoints = next.SpecialPoints.Merge(special)

	next.TricksCompleted++
	next.LastTrickWinner = winner
	next.TrickStarter = winner
	next.CurrentPlayer = winner
	next.CurrentTrick = []domain.Card{}

	events := []Event{{Kind: EventTrickCompleted, Payload: TrickCompletedPayload{
		WinnerID:      next.Players[winner].ID,
		Trick:         trick,
		Points:        points,
		SpecialPoints: special,
		PartnerFound:  partner,
	}}}

	if last {
		next = domain.RevealFinalTeams(next)
		next = domain.CalculateGameResult(next)
		events = append(events, Event{Kind: EventHandScored, Payload: HandScoredPayload{Result: next.LastResult}})
	}
	return next, events, nil
}

// Announce records a Re or Kontra call. Calls are not bound to the turn order, but each
// player calls at most once per hand and only for their own team. Teams can still change
// while bidding, so calls open once the contract is settled.
func (s *Service) Announce(state domain.GameState, playerID string, call domain.Team) (domain.GameState, []Event, error) {
	if state.Phase != domain.PhasePlaying {
		return state, nil, fmt.Errorf("announce by %s: %w", playerID, ErrWrongPhase)
	}
	seat, ok := state.SeatOf(playerID)
	if !ok {
		return state, nil, fmt.Errorf("announce by %s: %w", playerID, ErrUnknownPlayer)
	}
	if _, called := state.Calls[playerID]; called {
		return state, nil, fmt.Errorf("announce by %s: %w", playerID, ErrAlreadyCalled)
	}
	if (call != domain.TeamRe && call != domain.TeamKontra) || state.Players[seat].Team != call {
		return state, nil, fmt.Errorf("announce %s by %s: %w", call, playerID, ErrInvalidCall)
	}

	next := state.Clone()
	next.Calls[playerID] = call
	next = domain.RevealPlayer(next, seat)
	return next, []Event{{Kind: EventCallAnnounced, Payload: CallAnnouncedPayload{PlayerID: playerID, Call: call}}}, nil
}
