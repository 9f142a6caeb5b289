package nakama

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"strconv"

	"doppelkopf/internal/app"
	"doppelkopf/internal/bot"
	"doppelkopf/internal/config"
	"doppelkopf/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// botTurn identifies the decision a deferred bot action was scheduled for.
type botTurn struct {
	Seat   int          `json:"seat"`
	Phase  domain.Phase `json:"phase"`
	Bids   int          `json:"bids"`
	Trick  int          `json:"trick"`
	Played int          `json:"played"`
}

func turnOf(g *domain.GameState) botTurn {
	return botTurn{
		Seat:   g.CurrentPlayer,
		Phase:  g.Phase,
		Bids:   len(g.Bids),
		Trick:  g.TricksCompleted,
		Played: len(g.CurrentTrick),
	}
}

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Seats            [domain.NumSeats]string     `json:"seats"`               // Array of user IDs, empty string means seat is empty
	OwnerSeat        int                         `json:"owner_seat"`          // Seat index of the human allowed to start hands
	Tick             int64                       `json:"tick"`                // Current tick of the match for turn-based logic
	Presences        map[string]runtime.Presence `json:"-"`                   // Map UserId -> Presence for targeted messaging
	App              *app.Service                `json:"-"`                   // Doppelkopf app service with game logic
	Game             *domain.GameState           `json:"-"`                   // Current hand (nil while in lobby)
	Rules            domain.RuleOptions          `json:"rules"`               // Options every hand at this table is dealt with
	BotsEnabled      bool                        `json:"bots_enabled"`        // Whether AI players may fill seats
	BotMinDelay      int                         `json:"bot_min_delay"`       // Min seconds a bot waits
	BotMaxDelay      int                         `json:"bot_max_delay"`       // Max seconds a bot waits
	BotAutoFillDelay int                         `json:"bot_auto_fill_delay"` // Seconds to wait before auto-filling with bots
	TrickPause       int                         `json:"trick_pause"`         // Ticks a full trick stays on the table
	BotWaitUntil     int64                       `json:"bot_wait_until"`      // Tick when the bot should act
	BotWaitTurn      botTurn                     `json:"bot_wait_turn"`       // Decision BotWaitUntil was scheduled for
	TrickClearAt     int64                       `json:"trick_clear_at"`      // Tick when the full trick is collected
	FillTimerStart   int64                       `json:"fill_timer_start"`    // Tick when humans started waiting for bots
	Bots             map[string]*bot.Agent       `json:"-"`                   // Bot agents and stand-ins for disconnected humans
	Stalled          bool                        `json:"stalled"`             // Current hand cannot continue; bots idle until a redeal

	lastLabel string
}

func newMatchState(cfg *config.GameConfig, svc *app.Service) *MatchState {
	minDelay, maxDelay := cfg.BotDelays()
	return &MatchState{
		Presences:        make(map[string]runtime.Presence),
		App:              svc,
		OwnerSeat:        -1,
		Rules:            cfg.RuleOptions(),
		BotsEnabled:      cfg.BotsAllowed(),
		BotMinDelay:      minDelay,
		BotMaxDelay:      maxDelay,
		BotAutoFillDelay: cfg.BotAutoFillDelay(),
		TrickPause:       cfg.TrickPause(),
		Bots:             make(map[string]*bot.Agent),
	}
}

// applyEnvOverrides reads the Nakama runtime env the same keys the server config exposes.
func applyEnvOverrides(state *MatchState, env map[string]string) {
	if val, ok := env["doppelkopf_bots_enabled"]; ok {
		state.BotsEnabled = val == "true"
	}
	if val, ok := env["doppelkopf_bot_min_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil && i >= 0 {
			state.BotMinDelay = i
		}
	}
	if val, ok := env["doppelkopf_bot_max_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil && i >= 0 {
			state.BotMaxDelay = i
		}
	}
	if val, ok := env["doppelkopf_bot_auto_fill_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil && i > 0 {
			state.BotAutoFillDelay = i
		}
	}
	if state.BotMaxDelay < state.BotMinDelay {
		state.BotMaxDelay = state.BotMinDelay
	}
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetOccupiedSeatCount() int {
	return len(ms.Seats) - ms.GetOpenSeatsCount()
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !isBotUserId(seat) {
			count++
		}
	}
	return count
}

func (ms *MatchState) seatOf(userID string) int {
	for i, seat := range ms.Seats {
		if seat != "" && seat == userID {
			return i
		}
	}
	return -1
}

// firstConnectedHumanSeat returns the lowest seat held by a human with a live presence, or -1.
func (ms *MatchState) firstConnectedHumanSeat() int {
	for i, userID := range ms.Seats {
		if userID == "" || isBotUserId(userID) {
			continue
		}
		if _, ok := ms.Presences[userID]; ok {
			return i
		}
	}
	return -1
}

// actsAutomatically reports whether the server plays for the seat: bots always, humans
// while they are disconnected from a running hand.
func (ms *MatchState) actsAutomatically(seat int) bool {
	userID := ms.Seats[seat]
	if isBotUserId(userID) {
		return true
	}
	return ms.Game != nil && !ms.Game.Players[seat].Connected
}

func (ms *MatchState) displayName(userID string) string {
	if p, exists := ms.Presences[userID]; exists && p.GetUsername() != "" {
		return p.GetUsername()
	}
	if name := bot.GetBotDisplayName(userID); name != "" {
		return name
	}
	return userID
}

// tablePlayers seats the current occupants for a first deal.
func (ms *MatchState) tablePlayers() []domain.Player {
	players := make([]domain.Player, len(ms.Seats))
	for i, userID := range ms.Seats {
		isBot := isBotUserId(userID)
		_, present := ms.Presences[userID]
		players[i] = domain.Player{
			ID:        userID,
			Name:      ms.displayName(userID),
			IsBot:     isBot,
			Connected: isBot || present,
		}
	}
	return players
}

func (ms *MatchState) agentFor(userID string) (*bot.Agent, error) {
	if agent, ok := ms.Bots[userID]; ok {
		return agent, nil
	}
	agent, err := bot.NewAgent(userID)
	if err != nil {
		return nil, err
	}
	ms.Bots[userID] = agent
	return agent, nil
}

// isBotUserId reports whether the given user id represents a bot seat.
func isBotUserId(userId string) bool {
	return userId != "" && bot.IsBot(userId)
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	state := newMatchState(config.GetGameConfig(), app.NewService(nil))
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		applyEnvOverrides(state, env)
	}

	label, err := encodeLabel(domain.ComputeLabel(&state.Seats, nil))
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}
	state.lastLabel = label

	tickRate := 1 // 1 tick per second; bot delays and the trick pause count in ticks
	return state, tickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Seated players may always come back.
	if matchState.seatOf(presence.GetUserId()) >= 0 {
		return state, true, ""
	}

	// Allow join if there is an empty seat OR a bot to replace (if no hand was dealt yet)
	if matchState.GetOpenSeatsCount() <= 0 {
		hasBot := false
		if matchState.Game == nil {
			for _, seat := range matchState.Seats {
				if isBotUserId(seat) {
					hasBot = true
					break
				}
			}
		}
		if !hasBot {
			return state, false, "Match full"
		}
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		matchState.Presences[userID] = p

		if seat := matchState.seatOf(userID); seat >= 0 {
			if matchState.Game != nil {
				matchState.Game.Players[seat].Connected = true
				matchState.Game.Players[seat].DisconnectedAt = 0
			}
			delete(matchState.Bots, userID) // Drop the stand-in
			logger.Info("MatchJoin: User %s reconnected to seat %d", userID, seat)
			continue
		}

		// Assign seat: Try empty seats first, then bots (if lobby)
		assigned := false
		if matchState.Game == nil {
			if seat := domain.LowestAvailableSeat(&matchState.Seats); seat >= 0 {
				matchState.Seats[seat] = userID
				assigned = true
			}
		}

		if !assigned && matchState.Game == nil {
			for i, seatUserId := range matchState.Seats {
				if isBotUserId(seatUserId) {
					logger.Info("MatchJoin: Replacing bot %s with human %s in seat %d", seatUserId, userID, i)
					delete(matchState.Bots, seatUserId)
					matchState.Seats[i] = userID
					assigned = true
					break
				}
			}
		}

		if !assigned {
			logger.Warn("MatchJoin: User %s joined as spectator, no seat was available.", userID)
		}
	}

	// Ensure owner seat is assigned to a connected human player only.
	if !mh.ownerStillPresent(matchState) {
		matchState.OwnerSeat = matchState.firstConnectedHumanSeat()
		if matchState.OwnerSeat >= 0 {
			logger.Debug("MatchJoin: Owner set to human seat %d.", matchState.OwnerSeat)
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) ownerStillPresent(state *MatchState) bool {
	if state.OwnerSeat < 0 || state.OwnerSeat >= len(state.Seats) {
		return false
	}
	userID := state.Seats[state.OwnerSeat]
	if userID == "" || isBotUserId(userID) {
		return false
	}
	_, ok := state.Presences[userID]
	return ok
}

// MatchLeave is called when one or more players leave the match. In the lobby the seat is
// freed; once a hand was dealt the seat is kept and the server plays it until the player
// reconnects.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		delete(matchState.Presences, userID)

		seat := matchState.seatOf(userID)
		if seat < 0 {
			continue
		}
		if matchState.Game == nil {
			matchState.Seats[seat] = ""
			logger.Debug("MatchLeave: User %s left, seat %d freed.", userID, seat)
			continue
		}
		matchState.Game.Players[seat].Connected = false
		matchState.Game.Players[seat].DisconnectedAt = tick
		logger.Info("MatchLeave: User %s disconnected from seat %d, server plays the seat.", userID, seat)
	}

	if !mh.ownerStillPresent(matchState) {
		matchState.OwnerSeat = matchState.firstConnectedHumanSeat()
		if matchState.OwnerSeat >= 0 {
			logger.Debug("MatchLeave: Owner set to human seat %d.", matchState.OwnerSeat)
		}
	}

	if matchState.firstConnectedHumanSeat() == -1 {
		logger.Info("MatchLeave: Terminating match with no connected humans.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	// Handle incoming messages
	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartHand:
			mh.handleStartHand(ctx, matchState, dispatcher, logger, msg)
		case OpSubmitBid:
			mh.handleSubmitBid(ctx, matchState, dispatcher, logger, msg)
		case OpPlayCard:
			mh.handlePlayCard(ctx, matchState, dispatcher, logger, msg)
		case OpAnnounce:
			mh.handleAnnounce(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	mh.processTrickClear(ctx, matchState, dispatcher, logger)
	mh.processBots(ctx, matchState, dispatcher, logger)

	return matchState
}

// processTrickClear collects a full trick once it has been on the table for TrickPause ticks.
func (mh *matchHandler) processTrickClear(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	g := state.Game
	if g == nil || g.Phase != domain.PhasePlaying || len(g.CurrentTrick) < domain.NumSeats {
		state.TrickClearAt = 0
		return
	}
	if state.TrickClearAt == 0 {
		state.TrickClearAt = state.Tick + int64(state.TrickPause)
	}
	if state.Tick < state.TrickClearAt {
		return
	}
	state.TrickClearAt = 0

	next, events, err := state.App.CompleteTrick(*g)
	if err != nil {
		logger.Error("processTrickClear: Failed to complete trick: %v", err)
		return
	}
	mh.applyResult(ctx, state, dispatcher, logger, next, events)
}

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// 1. Auto-fill the lobby with bots once humans have waited long enough
	if state.Game == nil {
		if state.BotsEnabled {
			mh.autoFillSeats(state, dispatcher, logger)
		}
		return
	}

	// 2. Handle bot and stand-in turns in-game
	g := state.Game
	if state.Stalled || g.Phase == domain.PhaseScoring || (g.Phase == domain.PhasePlaying && len(g.CurrentTrick) >= domain.NumSeats) {
		state.BotWaitUntil = 0
		return
	}
	seat := g.CurrentPlayer
	if !state.actsAutomatically(seat) {
		state.BotWaitUntil = 0
		return
	}
	userID := state.Seats[seat]

	turn := turnOf(g)
	if state.BotWaitUntil != 0 && state.BotWaitTurn != turn {
		logger.Debug("processBots: Dropping stale deadline for %+v, now %+v", state.BotWaitTurn, turn)
		state.BotWaitUntil = 0
	}
	if state.BotWaitUntil == 0 {
		delay := state.BotMinDelay
		if span := state.BotMaxDelay - state.BotMinDelay; span > 0 {
			delay += rand.Intn(span + 1)
		}
		state.BotWaitUntil = state.Tick + int64(delay)
		state.BotWaitTurn = turn
		logger.Debug("processBots: %s (seat %d) will act at tick %d (current %d)", userID, seat, state.BotWaitUntil, state.Tick)
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	agent, err := state.agentFor(userID)
	if err != nil {
		logger.Error("processBots: Failed to create agent for %s: %v", userID, err)
		return
	}

	var (
		next   domain.GameState
		events []app.Event
	)
	switch g.Phase {
	case domain.PhaseBidding:
		bid, err := agent.Bid(*g)
		if err != nil {
			logger.Error("processBots: Bot %s failed to choose a bid: %v", userID, err)
			return
		}
		next, events, err = state.App.SubmitBid(*g, userID, bid)
		if err != nil {
			logger.Error("processBots: Bid %s by %s rejected: %v", bid, userID, err)
			return
		}
	case domain.PhasePlaying:
		card, err := agent.Play(*g)
		if errors.Is(err, bot.ErrNoLegalMoves) {
			state.Stalled = true
			logger.Error("processBots: Bot %s has no legal card, hand stalled until the owner redeals: %v", userID, err)
			return
		}
		if err != nil {
			logger.Error("processBots: Bot %s failed to choose a card: %v", userID, err)
			return
		}
		next, events, err = state.App.PlayCard(*g, userID, card.ID)
		if err != nil {
			logger.Error("processBots: Card %s by %s rejected: %v", card.ID, userID, err)
			return
		}
	default:
		return
	}

	mh.applyResult(ctx, state, dispatcher, logger, next, events)
}

func (mh *matchHandler) autoFillSeats(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.GetHumanPlayerCount() == 0 || state.GetOpenSeatsCount() == 0 {
		state.FillTimerStart = 0
		return
	}
	if state.FillTimerStart == 0 {
		state.FillTimerStart = state.Tick
		logger.Debug("processBots: Waiting humans detected, starting auto-fill timer.")
	}
	if state.Tick-state.FillTimerStart < int64(state.BotAutoFillDelay) {
		return
	}

	added := false
	for i, seat := range state.Seats {
		if seat != "" {
			continue
		}
		identity := bot.GetBotIdentity(i)
		botID := identity.UserID
		if state.seatOf(botID) >= 0 {
			logger.Warn("processBots: Bot %s already seated, seat %d stays open", botID, i)
			continue
		}
		state.Seats[i] = botID

		agent, err := bot.NewAgent(botID)
		if err != nil {
			logger.Error("processBots: Failed to create bot agent for %s: %v", botID, err)
		} else {
			state.Bots[botID] = agent
		}

		logger.Info("processBots: Added bot %s (%s) to seat %d", identity.Username, botID, i)
		added = true
	}
	if added {
		mh.updateLabel(state, dispatcher, logger)
		mh.broadcastMatchState(state, dispatcher, logger)
	}
	state.FillTimerStart = 0
}

func (mh *matchHandler) handleStartHand(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := state.seatOf(senderID)

	logger.Info("StartHand: Request received from %s (seat=%d, owner_seat=%d, occupied=%d)", senderID, senderSeat, state.OwnerSeat, state.GetOccupiedSeatCount())

	if senderSeat < 0 || senderSeat != state.OwnerSeat {
		logger.Warn("StartHand: User %s tried to start a hand but is not owner (owner_seat=%d)", senderID, state.OwnerSeat)
		mh.sendError(state, dispatcher, logger, senderID, 403, "only the table owner can start a hand")
		return
	}

	var (
		next   domain.GameState
		events []app.Event
		err    error
	)
	switch {
	case state.Game == nil:
		if occupied := state.GetOccupiedSeatCount(); occupied < app.SeatsToStartHand {
			err = fmt.Errorf("cannot start with %d players, need %d", occupied, app.SeatsToStartHand)
			break
		}
		next, events, err = state.App.StartTable(state.tablePlayers(), state.Rules)
	case state.Game.Phase == domain.PhaseScoring:
		next, events, err = state.App.NextHand(*state.Game, state.Rules)
	case state.Stalled:
		next, events, err = state.App.StartTable(state.tablePlayers(), state.Rules)
		if err == nil {
			next = carryTournamentPoints(*state.Game, next)
		}
	default:
		err = fmt.Errorf("start hand: %w", app.ErrWrongPhase)
	}
	if err != nil {
		logger.Warn("StartHand: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	state.Stalled = false
	mh.applyResult(ctx, state, dispatcher, logger, next, events)
	logger.Info("StartHand: Hand dealt by seat %d.", next.Dealer)
}

// carryTournamentPoints copies the running totals of a hand that was abandoned onto its redeal.
func carryTournamentPoints(from, to domain.GameState) domain.GameState {
	for i := range to.Players {
		if seat, ok := from.SeatOf(to.Players[i].ID); ok {
			to.Players[i].TournamentPoints = from.Players[seat].TournamentPoints
		}
	}
	return to
}

func (mh *matchHandler) handleSubmitBid(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	var request bidRequest
	mh.handleAction(ctx, state, dispatcher, logger, msg, "handleSubmitBid", &request, func(g domain.GameState) (domain.GameState, []app.Event, error) {
		return state.App.SubmitBid(g, msg.GetUserId(), request.Bid)
	})
}

func (mh *matchHandler) handlePlayCard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	var request playCardRequest
	mh.handleAction(ctx, state, dispatcher, logger, msg, "handlePlayCard", &request, func(g domain.GameState) (domain.GameState, []app.Event, error) {
		return state.App.PlayCard(g, msg.GetUserId(), request.CardID)
	})
}

func (mh *matchHandler) handleAnnounce(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	var request announceRequest
	mh.handleAction(ctx, state, dispatcher, logger, msg, "handleAnnounce", &request, func(g domain.GameState) (domain.GameState, []app.Event, error) {
		return state.App.Announce(g, msg.GetUserId(), request.Call)
	})
}

// handleAction decodes a client request into request and runs it against the current hand.
// Rejected actions leave the hand untouched and report back to the sender only.
func (mh *matchHandler) handleAction(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData, name string, request interface{}, action func(domain.GameState) (domain.GameState, []app.Event, error)) {
	senderID := msg.GetUserId()
	if state.Game == nil {
		logger.Warn("%s: Hand not started.", name)
		mh.sendError(state, dispatcher, logger, senderID, 400, "hand not started")
		return
	}
	if err := decodeRequest(msg.GetData(), request); err != nil {
		logger.Warn("%s: Bad payload from %s: %v", name, senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	next, events, err := action(*state.Game)
	if err != nil {
		logger.Warn("%s: User %s (seat %d) rejected: %v", name, senderID, state.seatOf(senderID), err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	mh.applyResult(ctx, state, dispatcher, logger, next, events)
}

// applyResult stores the next hand state and pushes events, redacted snapshots and the label.
func (mh *matchHandler) applyResult(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, next domain.GameState, events []app.Event) {
	state.Game = &next

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
	mh.broadcastMatchState(state, dispatcher, logger)
	mh.updateLabel(state, dispatcher, logger)
}

func (mh *matchHandler) seatViews(state *MatchState) []seatView {
	views := make([]seatView, 0, len(state.Seats))
	for i, userID := range state.Seats {
		if userID == "" {
			continue
		}
		connected := isBotUserId(userID)
		if !connected {
			_, connected = state.Presences[userID]
		}
		views = append(views, seatView{
			UserID:      userID,
			Seat:        i,
			DisplayName: state.displayName(userID),
			IsBot:       isBotUserId(userID),
			IsOwner:     i == state.OwnerSeat,
			Connected:   connected,
		})
	}
	return views
}

// broadcastMatchState sends every presence its own view: seats plus the hand redacted
// for that viewer.
func (mh *matchHandler) broadcastMatchState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	players := mh.seatViews(state)
	for userID, presence := range state.Presences {
		snapshot := stateSnapshot{
			Seats:     state.Seats,
			OwnerSeat: state.OwnerSeat,
			Tick:      state.Tick,
			Players:   players,
		}
		if state.Game != nil {
			view := domain.Redact(*state.Game, userID)
			snapshot.Game = &view
		}
		bytes, err := encodePayload(snapshot)
		if err != nil {
			logger.Error("broadcastMatchState: Failed to marshal snapshot for %s: %v", userID, err)
			continue
		}
		if err := dispatcher.BroadcastMessage(OpMatchState, bytes, []runtime.Presence{presence}, nil, true); err != nil {
			logger.Error("broadcastMatchState: Failed to send to %s: %v", userID, err)
		}
	}
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	switch p := ev.Payload.(type) {
	case app.ContractSettledPayload:
		logger.Info("Event: contract_settled (variant=%s, soloist=%s, first=%s)", p.Variant, p.SoloistID, p.FirstPlayerID)
	case app.HandScoredPayload:
		if p.Result != nil {
			logger.Info("Event: hand_scored (winner=%s, net=%d)", p.Result.Winner, p.Result.NetScore)
		}
	}

	bytes, err := encodeEvent(ev)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	// Determine recipients (default to broadcast)
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}

		// If we had intended recipients but none are connected (e.g. they are bots),
		// we MUST NOT broadcast to everyone else.
		if len(recipients) == 0 {
			return
		}
	}

	if err := dispatcher.BroadcastMessage(OpGameEvent, bytes, recipients, nil, true); err != nil {
		logger.Error("Failed to send event %v: %v", ev.Kind, err)
	}
}

// sendError sends an error message to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	bytes, err := encodePayload(errorMessage{Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal error message: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	if err := dispatcher.BroadcastMessage(OpGameError, bytes, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Error("Failed to send error to %s: %v", userID, err)
	}
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := encodeLabel(domain.ComputeLabel(&state.Seats, state.Game))
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if label == state.lastLabel {
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
		return
	}
	state.lastLabel = label
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated with %d seconds grace", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
