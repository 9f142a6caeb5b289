package domain

// GameName is the value advertised in match labels.
const GameName = "doppelkopf"

// LowestAvailableSeat returns the first free seat index (0-based), or -1 when the table is full.
func LowestAvailableSeat(seats *[NumSeats]string) int {
	for i := 0; i < len(seats); i++ {
		if seats[i] == "" {
			return i
		}
	}
	return -1
}

// LabelPayload holds the values advertised in a match label.
type LabelPayload struct {
	Open    int    `json:"open"`
	Game    string `json:"game"`
	Phase   string `json:"phase"`
	Variant string `json:"variant,omitempty"`
}

// ComputeLabel derives the advertised label from the seat table and the current hand,
// which is nil while the room is still a lobby.
func ComputeLabel(seats *[NumSeats]string, hand *GameState) LabelPayload {
	open := 0
	for _, s := range seats {
		if s == "" {
			open++
		}
	}
	label := LabelPayload{Open: open, Game: GameName, Phase: "lobby"}
	if hand != nil {
		label.Phase = string(hand.Phase)
		if hand.Phase != PhaseBidding {
			label.Variant = string(hand.Variant)
		}
	}
	return label
}
