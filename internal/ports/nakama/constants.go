package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"

	// MatchNameDoppelkopf is the authoritative match handler name registered with Nakama.
	MatchNameDoppelkopf = "doppelkopf_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartHand int64 = 1
	OpSubmitBid int64 = 2
	OpPlayCard  int64 = 3
	OpAnnounce  int64 = 4

	// Server -> Client
	OpMatchState int64 = 101 // seats and, once dealt, the hand redacted for the recipient
	OpGameEvent  int64 = 102
	OpGameError  int64 = 109 // send privately
)

// Data paths, relative to the Nakama working directory.
const (
	gameConfigPath    = "data/game_config.json"
	botIdentitiesPath = "data/bot_identities.json"
)
