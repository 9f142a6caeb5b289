package app

import "doppelkopf/internal/domain"

// EventKind identifies emitted events for Nakama dispatch.
type EventKind string

const (
	EventHandDealt       EventKind = "hand_dealt"
	EventBiddingStarted  EventKind = "bidding_started"
	EventBidSubmitted    EventKind = "bid_submitted"
	EventContractSettled EventKind = "contract_settled"
	EventCardPlayed      EventKind = "card_played"
	EventTrickCompleted  EventKind = "trick_completed"
	EventCallAnnounced   EventKind = "call_announced"
	EventHandScored      EventKind = "hand_scored"
)

// Event is an app event with optional targeted recipients.
type Event struct {
	Kind       EventKind `json:"kind"`
	Payload    any       `json:"payload"`
	Recipients []string  `json:"-"` // player IDs; empty means broadcast
}

type HandDealtPayload struct {
	PlayerID string        `json:"player_id"`
	Hand     []domain.Card `json:"hand"`
}

type BiddingStartedPayload struct {
	Dealer        int    `json:"dealer_seat"`
	FirstBidderID string `json:"first_bidder_id"`
}

type BidSubmittedPayload struct {
	PlayerID     string     `json:"player_id"`
	Bid          domain.Bid `json:"bid"`
	NextBidderID string     `json:"next_bidder_id,omitempty"`
}

type ContractSettledPayload struct {
	Variant       domain.GameVariant `json:"game_type"`
	TrumpSuit     domain.Suit        `json:"trump_suit,omitempty"`
	SoloistID     string             `json:"soloist_id,omitempty"`
	FirstPlayerID string             `json:"first_player_id"`
}

type CardPlayedPayload struct {
	PlayerID     string      `json:"player_id"`
	Card         domain.Card `json:"card"`
	TrickFull    bool        `json:"trick_full"`
	NextPlayerID string      `json:"next_player_id,omitempty"`
}

type TrickCompletedPayload struct {
	WinnerID      string               `json:"winner_id"`
	Trick         []domain.Card        `json:"trick"`
	Points        int                  `json:"points"`
	SpecialPoints domain.SpecialPoints `json:"special_points"`
	PartnerFound  string               `json:"partner_found,omitempty"`
}

type CallAnnouncedPayload struct {
	PlayerID string      `json:"player_id"`
	Call     domain.Team `json:"call"`
}

type HandScoredPayload struct {
	Result *domain.ScoringResult `json:"result"`
}
