package domain

// NumSeats is the fixed number of players at a Doppelkopf table.
const NumSeats = 4

// Phase represents the lifecycle stage of a hand.
type Phase string

const (
	// PhaseBidding is the stage where every seat declares a reservation (Vorbehalt) or passes.
	PhaseBidding Phase = "bidding"
	// PhasePlaying is the stage where tricks are played.
	PhasePlaying Phase = "playing"
	// PhaseScoring is the stage after the last trick, once the result is stored.
	PhaseScoring Phase = "scoring"
)

// Team is a player's side in a hand.
type Team string

const (
	TeamRe      Team = "Re"
	TeamKontra  Team = "Kontra"
	TeamUnknown Team = "Unknown"
)

// Opponent returns the other side. Unknown maps to itself.
func (t Team) Opponent() Team {
	switch t {
	case TeamRe:
		return TeamKontra
	case TeamKontra:
		return TeamRe
	default:
		return TeamUnknown
	}
}

// GameVariant is the contract a hand is played under.
type GameVariant string

const (
	VariantNormal       GameVariant = "Normal"
	VariantMarriage     GameVariant = "Hochzeit"
	VariantSilentSolo   GameVariant = "StillesSolo"
	VariantSuitlessSolo GameVariant = "Fleischlos"
	VariantJackSolo     GameVariant = "BubenSolo"
	VariantQueenSolo    GameVariant = "DamenSolo"
	VariantSuitSolo     GameVariant = "FarbenSolo"
)

// IsSolo reports whether one player plays alone against the other three.
func (v GameVariant) IsSolo() bool {
	switch v {
	case VariantSilentSolo, VariantSuitlessSolo, VariantJackSolo, VariantQueenSolo, VariantSuitSolo:
		return true
	default:
		return false
	}
}

// RuleOptions toggles the optional rules of a table.
type RuleOptions struct {
	WithNines          bool `json:"with_nines"`
	TenOfHeartsHighest bool `json:"ten_of_hearts_highest"`
	// DualFox is accepted from clients but no rule evaluates it yet.
	DualFox          bool `json:"dual_fox"`
	FoxCaught        bool `json:"fox_caught"`
	Karlchen         bool `json:"karlchen"`
	DoppelkopfPoints bool `json:"doppelkopf_points"`
	SoloPriority     bool `json:"solo_priority"`
}

// DefaultRuleOptions mirrors the settings a freshly created room starts with.
func DefaultRuleOptions() RuleOptions {
	return RuleOptions{
		WithNines:          false,
		TenOfHeartsHighest: true,
		DualFox:            false,
		FoxCaught:          true,
		Karlchen:           true,
		DoppelkopfPoints:   true,
		SoloPriority:       true,
	}
}

// Player holds the per-hand and carried-over state of one seat.
type Player struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	IsBot            bool     `json:"is_bot"`
	Hand             []Card   `json:"hand"`
	Team             Team     `json:"team"`
	Revealed         bool     `json:"is_revealed"`
	Points           int      `json:"points"`            // Augen won this hand
	TournamentPoints int      `json:"tournament_points"` // carried across hands
	Tricks           [][]Card `json:"tricks"`

	// Owned by the room layer; the engine only carries them.
	Connected      bool  `json:"connected"`
	DisconnectedAt int64 `json:"disconnected_at,omitempty"`
}

// SpecialPoints collects bonus events per team.
type SpecialPoints struct {
	Re     []SpecialPoint `json:"re"`
	Kontra []SpecialPoint `json:"kontra"`
}

// For returns the events recorded for team t.
func (sp SpecialPoints) For(t Team) []SpecialPoint {
	switch t {
	case TeamRe:
		return sp.Re
	case TeamKontra:
		return sp.Kontra
	default:
		return nil
	}
}

func (sp *SpecialPoints) add(t Team, p SpecialPoint) {
	switch t {
	case TeamRe:
		sp.Re = append(sp.Re, p)
	case TeamKontra:
		sp.Kontra = append(sp.Kontra, p)
	}
}

// Merge appends other's events.
func (sp SpecialPoints) Merge(other SpecialPoints) SpecialPoints {
	return SpecialPoints{
		Re:     append(append([]SpecialPoint{}, sp.Re...), other.Re...),
		Kontra: append(append([]SpecialPoint{}, sp.Kontra...), other.Kontra...),
	}
}

// ScoringResult is the settled outcome of one hand.
type ScoringResult struct {
	Winner              Team           `json:"winner"`
	NetScore            int            `json:"winning_points"`
	WinnerIDs           []string       `json:"winner_team"`
	ReAugen             int            `json:"re_augen"`
	KontraAugen         int            `json:"kontra_augen"`
	ReSpecialPoints     []SpecialPoint `json:"re_special_points"`
	KontraSpecialPoints []SpecialPoint `json:"kontra_special_points"`
	ReDetails           []string       `json:"re_details"`
	KontraDetails       []string       `json:"kontra_details"`
}

// GameState is the authoritative value for one hand at one table.
type GameState struct {
	Players         []Player    `json:"players"`
	CurrentPlayer   int         `json:"current_player_index"`
	Dealer          int         `json:"dealer_index"`
	CurrentTrick    []Card      `json:"current_trick"`
	TrickStarter    int         `json:"trick_starter_index"`
	LastTrickWinner int         `json:"trick_winner_index"` // -1 before the first trick
	TricksCompleted int         `json:"tricks_completed"`
	Variant         GameVariant `json:"game_type"`
	TrumpSuit       Suit        `json:"trump_suit,omitempty"`
	SoloistID       string      `json:"soloist_id,omitempty"`
	ReIDs           []string    `json:"re_player_ids"`
	KontraIDs       []string    `json:"kontra_player_ids"`

	Bids          map[string]Bid  `json:"announcements"`
	Calls         map[string]Team `json:"re_kontra_announcements"`
	SpecialPoints SpecialPoints   `json:"special_points"`

	Phase      Phase          `json:"phase"`
	Options    RuleOptions    `json:"settings"`
	LastResult *ScoringResult `json:"last_game_result,omitempty"`
}

// Clone returns a deep copy so callers never share slices or maps with the result.
func (s GameState) Clone() GameState {
	out := s
	out.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		p.Hand = append([]Card{}, p.Hand...)
		tricks := make([][]Card, len(p.Tricks))
		for j, t := range p.Tricks {
			tricks[j] = append([]Card{}, t...)
		}
		p.Tricks = tricks
		out.Players[i] = p
	}
	out.CurrentTrick = append([]Card{}, s.CurrentTrick...)
	out.ReIDs = append([]string{}, s.ReIDs...)
	out.KontraIDs = append([]string{}, s.KontraIDs...)
	out.Bids = make(map[string]Bid, len(s.Bids))
	for k, v := range s.Bids {
		out.Bids[k] = v
	}
	out.Calls = make(map[string]Team, len(s.Calls))
	for k, v := range s.Calls {
		out.Calls[k] = v
	}
	out.SpecialPoints = SpecialPoints{}.Merge(s.SpecialPoints)
	if s.LastResult != nil {
		r := *s.LastResult
		r.WinnerIDs = append([]string{}, r.WinnerIDs...)
		r.ReSpecialPoints = append([]SpecialPoint{}, r.ReSpecialPoints...)
		r.KontraSpecialPoints = append([]SpecialPoint{}, r.KontraSpecialPoints...)
		r.ReDetails = append([]string{}, r.ReDetails...)
		r.KontraDetails = append([]string{}, r.KontraDetails...)
		out.LastResult = &r
	}
	return out
}

// Resolver returns the trump resolver for the contract the hand is played under.
func (s GameState) Resolver() Resolver {
	return NewResolver(s.Variant, s.TrumpSuit, s.Options)
}

// SeatOf returns the seat index of the given player ID.
func (s GameState) SeatOf(playerID string) (int, bool) {
	for i, p := range s.Players {
		if p.ID == playerID {
			return i, true
		}
	}
	return -1, false
}

// Forehand is the seat left of the dealer, who bids and leads first.
func (s GameState) Forehand() int {
	return (s.Dealer + 1) % NumSeats
}

// SeatOrderFrom lists player IDs in table order starting at seat.
func (s GameState) SeatOrderFrom(seat int) []string {
	ids := make([]string, 0, len(s.Players))
	for i := 0; i < len(s.Players); i++ {
		ids = append(ids, s.Players[(seat+i)%len(s.Players)].ID)
	}
	return ids
}

// HandsEmpty reports whether every player has played out.
func (s GameState) HandsEmpty() bool {
	for _, p := range s.Players {
		if len(p.Hand) > 0 {
			return false
		}
	}
	return true
}

// TrickOwner returns the seat that played position pos of the current trick.
func TrickOwner(starter, pos int) int {
	return (starter + pos) % NumSeats
}
