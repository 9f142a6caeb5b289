package bot

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// BotIDPrefix marks user IDs that belong to bots rather than Nakama accounts.
const BotIDPrefix = "bot-"

type BotIdentity struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Difficulty  string `json:"difficulty"` // "easy", "medium", "hard"
	AvatarIndex int    `json:"avatar_index"`
}

var (
	botIdentities []BotIdentity
	botConfigMap  = map[string]BotIdentity{}
	identitiesMu  sync.RWMutex
	loadOnce      sync.Once
	loadErr       error
)

// LoadIdentities loads the bot profiles from the given path.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}

		var identities []BotIdentity
		if err := json.Unmarshal(data, &identities); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal bot identities: %w", err)
			return
		}

		identitiesMu.Lock()
		defer identitiesMu.Unlock()
		for _, identity := range identities {
			if identity.UserID == "" {
				continue
			}
			botIdentities = append(botIdentities, identity)
			botConfigMap[identity.UserID] = identity
		}
	})
	return loadErr
}

// GetBotConfig returns the full identity configuration for a given bot ID.
func GetBotConfig(userID string) (BotIdentity, bool) {
	identitiesMu.RLock()
	defer identitiesMu.RUnlock()
	config, ok := botConfigMap[userID]
	return config, ok
}

// GetBotUsername returns the username for a bot ID, or an empty string if not a bot.
func GetBotUsername(userID string) string {
	config, _ := GetBotConfig(userID)
	return config.Username
}

// GetBotDisplayName returns the display name for a bot ID, or an empty string if not a bot.
func GetBotDisplayName(userID string) string {
	config, ok := GetBotConfig(userID)
	if !ok {
		return ""
	}
	if config.DisplayName == "" {
		return config.Username
	}
	return config.DisplayName
}

// GetBotIdentity returns an identity for a bot by index (mod pool size). Without a loaded
// pool a fresh identity is minted and registered so later lookups find it.
func GetBotIdentity(index int) BotIdentity {
	identitiesMu.Lock()
	defer identitiesMu.Unlock()
	if len(botIdentities) > 0 {
		return botIdentities[index%len(botIdentities)]
	}
	identity := BotIdentity{
		UserID:      BotIDPrefix + uuid.NewString(),
		Username:    fmt.Sprintf("bot%d", index+1),
		DisplayName: fmt.Sprintf("Bot %d", index+1),
		Difficulty:  "medium",
	}
	botConfigMap[identity.UserID] = identity
	return identity
}

// IsBot reports whether the given user ID belongs to a bot.
func IsBot(userID string) bool {
	if strings.HasPrefix(userID, BotIDPrefix) {
		return true
	}
	_, ok := GetBotConfig(userID)
	return ok
}
