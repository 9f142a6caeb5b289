package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"doppelkopf/internal/domain"
)

const (
	defaultBotMinDelay      = 1
	defaultBotMaxDelay      = 3
	defaultBotAutoFillDelay = 5
	defaultTrickPauseTicks  = 2
)

type GameConfig struct {
	// Rules are the options a new table starts with.
	Rules domain.RuleOptions `json:"rules"`

	BotsEnabled        bool `json:"bots_enabled"`
	BotMinDelaySeconds int  `json:"bot_min_delay_seconds"`
	BotMaxDelaySeconds int  `json:"bot_max_delay_seconds"`
	// BotAutoFillDelaySeconds configures how many seconds to wait before filling a solo human lobby with bots.
	BotAutoFillDelaySeconds int `json:"bot_auto_fill_delay_seconds"`

	// TrickPauseTicks is how long a full trick stays on the table before it is collected.
	TrickPauseTicks int `json:"trick_pause_ticks"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// Parse decodes a config document. Fields the document omits keep their defaults.
func Parse(data []byte) (*GameConfig, error) {
	c := GameConfig{
		Rules:                   domain.DefaultRuleOptions(),
		BotsEnabled:             true,
		BotMinDelaySeconds:      defaultBotMinDelay,
		BotMaxDelaySeconds:      defaultBotMaxDelay,
		BotAutoFillDelaySeconds: defaultBotAutoFillDelay,
		TrickPauseTicks:         defaultTrickPauseTicks,
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	if c.BotMinDelaySeconds < 0 {
		c.BotMinDelaySeconds = 0
	}
	if c.BotMaxDelaySeconds < c.BotMinDelaySeconds {
		c.BotMaxDelaySeconds = c.BotMinDelaySeconds
	}
	return &c, nil
}

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}
		cfg, loadErr = Parse(data)
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, or nil when none was loaded.
// Every accessor below is safe on a nil config.
func GetGameConfig() *GameConfig {
	return cfg
}

// RuleOptions returns the configured table rules, or the defaults.
func (c *GameConfig) RuleOptions() domain.RuleOptions {
	if c == nil {
		return domain.DefaultRuleOptions()
	}
	return c.Rules
}

// BotDelays returns the min and max seconds a bot waits before acting.
func (c *GameConfig) BotDelays() (int, int) {
	if c == nil {
		return defaultBotMinDelay, defaultBotMaxDelay
	}
	return c.BotMinDelaySeconds, c.BotMaxDelaySeconds
}

// BotAutoFillDelay returns the seconds a single human waits before bots take the free seats.
func (c *GameConfig) BotAutoFillDelay() int {
	if c == nil || c.BotAutoFillDelaySeconds <= 0 {
		return defaultBotAutoFillDelay
	}
	return c.BotAutoFillDelaySeconds
}

// TrickPause returns the number of ticks a full trick stays visible.
func (c *GameConfig) TrickPause() int {
	if c == nil || c.TrickPauseTicks < 0 {
		return defaultTrickPauseTicks
	}
	return c.TrickPauseTicks
}

// BotsAllowed reports whether bots may fill seats.
func (c *GameConfig) BotsAllowed() bool {
	if c == nil {
		return true
	}
	return c.BotsEnabled
}
