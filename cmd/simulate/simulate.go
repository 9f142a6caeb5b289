package main

import (
	"fmt"
	"math/rand"
	"strconv"

	"doppelkopf/internal/app"
	"doppelkopf/internal/bot"
	"doppelkopf/internal/config"
	"doppelkopf/internal/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// maxActionsPerHand bounds one hand; 4 bids plus 48 plays plus 12 collections fit easily.
const maxActionsPerHand = 200

// Settings controls a simulation run.
type Settings struct {
	ConfigPath string
	Hands      int
	Seed       int64
	WithNines  *bool
}

// Summary is the outcome of a run.
type Summary struct {
	RunID      string
	Hands      int
	ReWins     int
	KontraWins int
	Variants   map[domain.GameVariant]int
	Standings  map[string]int // display name -> tournament points
}

// settingsFromEnv reads DOKO_* variables through getenv.
func settingsFromEnv(getenv func(string) string) (Settings, error) {
	s := Settings{
		ConfigPath: getenv("DOKO_CONFIG"),
		Hands:      12,
		Seed:       1,
	}
	if v := getenv("DOKO_HANDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return s, fmt.Errorf("DOKO_HANDS must be a positive integer, got %q", v)
		}
		s.Hands = n
	}
	if v := getenv("DOKO_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return s, fmt.Errorf("DOKO_SEED: %w", err)
		}
		s.Seed = seed
	}
	if v := getenv("DOKO_WITH_NINES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return s, fmt.Errorf("DOKO_WITH_NINES: %w", err)
		}
		s.WithNines = &b
	}
	return s, nil
}

// Run plays s.Hands bot-only hands at one table, rotating the dealer between hands.
func Run(s Settings, log logrus.FieldLogger) (Summary, error) {
	if s.ConfigPath != "" {
		if err := config.LoadGameConfig(s.ConfigPath); err != nil {
			return Summary{}, err
		}
	}
	opts := config.GetGameConfig().RuleOptions()
	if s.WithNines != nil {
		opts.WithNines = *s.WithNines
	}

	runID := uuid.NewString()
	log = log.WithField("run", runID)

	svc := app.NewService(rand.New(rand.NewSource(s.Seed)))
	players := make([]domain.Player, domain.NumSeats)
	agents := make(map[string]*bot.Agent, domain.NumSeats)
	for i := range players {
		identity := bot.GetBotIdentity(i)
		agent, err := bot.NewAgent(identity.UserID)
		if err != nil {
			return Summary{}, err
		}
		players[i] = domain.Player{ID: identity.UserID, Name: agent.Name, IsBot: true, Connected: true}
		agents[identity.UserID] = agent
	}

	summary := Summary{
		RunID:     runID,
		Variants:  map[domain.GameVariant]int{},
		Standings: map[string]int{},
	}

	state, _, err := svc.StartTable(players, opts)
	if err != nil {
		return summary, err
	}
	for hand := 1; hand <= s.Hands; hand++ {
		if hand > 1 {
			if state, _, err = svc.NextHand(state, opts); err != nil {
				return summary, err
			}
		}
		if state, err = playHand(svc, state, agents); err != nil {
			return summary, fmt.Errorf("hand %d: %w", hand, err)
		}

		result := state.LastResult
		summary.Hands++
		summary.Variants[state.Variant]++
		if result.Winner == domain.TeamRe {
			summary.ReWins++
		} else {
			summary.KontraWins++
		}
		log.WithFields(logrus.Fields{
			"hand":    hand,
			"dealer":  state.Players[state.Dealer].Name,
			"variant": state.Variant,
			"winner":  result.Winner,
			"net":     result.NetScore,
			"re":      result.ReAugen,
			"kontra":  result.KontraAugen,
		}).Info("hand scored")
	}

	for _, p := range state.Players {
		summary.Standings[p.Name] = p.TournamentPoints
	}
	return summary, nil
}

// playHand drives one dealt hand to scoring with the agents.
func playHand(svc *app.Service, state domain.GameState, agents map[string]*bot.Agent) (domain.GameState, error) {
	var err error
	for i := 0; i < maxActionsPerHand; i++ {
		switch {
		case state.Phase == domain.PhaseScoring:
			return state, nil
		case state.Phase == domain.PhasePlaying && len(state.CurrentTrick) == domain.NumSeats:
			state, _, err = svc.CompleteTrick(state)
		case state.Phase == domain.PhaseBidding:
			id := state.Players[state.CurrentPlayer].ID
			bid, berr := agents[id].Bid(state)
			if berr != nil {
				return state, berr
			}
			state, _, err = svc.SubmitBid(state, id, bid)
		default:
			id := state.Players[state.CurrentPlayer].ID
			card, perr := agents[id].Play(state)
			if perr != nil {
				return state, perr
			}
			state, _, err = svc.PlayCard(state, id, card.ID)
		}
		if err != nil {
			return state, err
		}
	}
	return state, fmt.Errorf("hand did not finish after %d actions", maxActionsPerHand)
}
