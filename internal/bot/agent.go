package bot

import (
	"fmt"

	"doppelkopf/internal/domain"
)

// Agent represents an autonomous bot player.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// NewAgent builds an agent for a bot user ID, picking its brain from the identity's difficulty.
func NewAgent(userID string) (*Agent, error) {
	identity, _ := GetBotConfig(userID)
	brain, err := NewBrain(LevelFromDifficulty(identity.Difficulty))
	if err != nil {
		return nil, err
	}
	name := GetBotDisplayName(userID)
	if name == "" {
		name = userID
	}
	return &Agent{ID: userID, Name: name, Strategy: brain}, nil
}

func (a *Agent) seat(state domain.GameState) (int, error) {
	seat, ok := state.SeatOf(a.ID)
	if !ok {
		return -1, fmt.Errorf("agent %s: %w", a.ID, ErrNotSeated)
	}
	return seat, nil
}

// Bid asks the agent for its reservation in the current hand.
func (a *Agent) Bid(state domain.GameState) (domain.Bid, error) {
	seat, err := a.seat(state)
	if err != nil {
		return domain.Bid{}, err
	}
	return a.Strategy.ChooseBid(state, seat)
}

// Play asks the agent which card to play into the current trick.
func (a *Agent) Play(state domain.GameState) (domain.Card, error) {
	seat, err := a.seat(state)
	if err != nil {
		return domain.Card{}, err
	}
	card, err := a.Strategy.ChooseCard(state, seat)
	if err != nil {
		return domain.Card{}, fmt.Errorf("agent %s: %w", a.ID, err)
	}
	return card, nil
}
