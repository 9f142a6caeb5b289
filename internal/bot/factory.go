package bot

import (
	"fmt"
	"strings"
)

// BotLevel selects a strategy.
type BotLevel int

const (
	BotLevelEasy BotLevel = iota
	BotLevelStandard
)

// LevelFromDifficulty maps the difficulty string of a bot identity to a level. Anything
// other than "easy" plays the standard heuristic.
func LevelFromDifficulty(difficulty string) BotLevel {
	if strings.EqualFold(difficulty, "easy") {
		return BotLevelEasy
	}
	return BotLevelStandard
}

// NewBrain creates a new AI brain based on the specified level.
func NewBrain(level BotLevel) (Brain, error) {
	switch level {
	case BotLevelEasy:
		return &RandomBot{}, nil
	case BotLevelStandard:
		return &StandardBot{}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}
