package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"testing"

	"doppelkopf/internal/app"
	"doppelkopf/internal/bot"
	"doppelkopf/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

// countingLogger counts Error calls.
type countingLogger struct {
	noopLogger
	errors *int
}

func (l countingLogger) Error(string, ...interface{}) { *l.errors++ }

type sentMessage struct {
	opCode     int64
	data       []byte
	recipients []string
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	messages []sentMessage
	labels   []string
	sendErr  error // returned by BroadcastMessage after recording
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	recipients := make([]string, 0, len(presences))
	for _, p := range presences {
		recipients = append(recipients, p.GetUserId())
	}
	md.messages = append(md.messages, sentMessage{opCode: opCode, data: append([]byte(nil), data...), recipients: recipients})
	return md.sendErr
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labels = append(md.labels, label)
	return nil
}

func (md *mockDispatcher) byOpCode(opCode int64) []sentMessage {
	var out []sentMessage
	for _, m := range md.messages {
		if m.opCode == opCode {
			out = append(out, m)
		}
	}
	return out
}

// testPresence overrides the presence getters the handler reads.
type testPresence struct {
	runtime.Presence
	userID   string
	username string
}

func (p testPresence) GetUserId() string    { return p.userID }
func (p testPresence) GetSessionId() string { return "session-" + p.userID }
func (p testPresence) GetUsername() string  { return p.username }

type testMatchData struct {
	runtime.MatchData
	userID string
	opCode int64
	data   []byte
}

func (m testMatchData) GetUserId() string { return m.userID }
func (m testMatchData) GetOpCode() int64  { return m.opCode }
func (m testMatchData) GetData() []byte   { return m.data }

func message(userID string, opCode int64, payload interface{}) runtime.MatchData {
	var data []byte
	if payload != nil {
		data, _ = json.Marshal(payload)
	}
	return testMatchData{userID: userID, opCode: opCode, data: data}
}

func init() {
	// Load bot identities for testing.
	if err := bot.LoadIdentities("../../../data/bot_identities.json"); err != nil {
		panic("Failed to load bot identities for tests: " + err.Error())
	}
}

// newTestMatch seats the given humans first and fills the rest of the table with bots.
func newTestMatch(humans ...string) *MatchState {
	state := newMatchState(nil, app.NewService(rand.New(rand.NewSource(11))))
	state.BotMinDelay, state.BotMaxDelay = 0, 0
	for i := range state.Seats {
		if i < len(humans) {
			state.Seats[i] = humans[i]
			state.Presences[humans[i]] = testPresence{userID: humans[i], username: humans[i] + "-name"}
			continue
		}
		state.Seats[i] = bot.GetBotIdentity(i).UserID
	}
	if len(humans) > 0 {
		state.OwnerSeat = 0
	}
	return state
}

func startHand(t *testing.T, mh *matchHandler, state *MatchState, dispatcher *mockDispatcher) {
	t.Helper()
	mh.handleStartHand(context.Background(), state, dispatcher, noopLogger{}, message(state.Seats[state.OwnerSeat], OpStartHand, nil))
	if state.Game == nil {
		t.Fatalf("hand was not dealt, messages: %d", len(dispatcher.messages))
	}
}

func TestEncodeLabel(t *testing.T) {
	seats := [domain.NumSeats]string{"user-1", "", "", ""}
	lobby, err := encodeLabel(domain.ComputeLabel(&seats, nil))
	if err != nil {
		t.Fatalf("encodeLabel: %v", err)
	}
	var got map[string]interface{}
	if err := json.Unmarshal([]byte(lobby), &got); err != nil {
		t.Fatalf("label is not JSON: %v", err)
	}
	if got["open"] != float64(3) || got["game"] != "doppelkopf" || got["phase"] != "lobby" {
		t.Fatalf("unexpected lobby label %s", lobby)
	}
	if _, ok := got["variant"]; ok {
		t.Fatalf("lobby label must not carry a variant: %s", lobby)
	}

	hand := domain.GameState{Phase: domain.PhasePlaying, Variant: domain.VariantQueenSolo}
	full := [domain.NumSeats]string{"a", "b", "c", "d"}
	playing, err := encodeLabel(domain.ComputeLabel(&full, &hand))
	if err != nil {
		t.Fatalf("encodeLabel: %v", err)
	}
	got = nil
	if err := json.Unmarshal([]byte(playing), &got); err != nil {
		t.Fatalf("label is not JSON: %v", err)
	}
	if got["open"] != float64(0) || got["phase"] != "playing" || got["variant"] != "DamenSolo" {
		t.Fatalf("unexpected playing label %s", playing)
	}
}

func TestEncodePayload(t *testing.T) {
	data, err := encodePayload(errorMessage{Code: 403, Message: "only the table owner can start a hand"})
	if err != nil {
		t.Fatalf("encodePayload failed: %v", err)
	}
	var got errorMessage
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if got.Code != 403 || got.Message != "only the table owner can start a hand" {
		t.Fatalf("round trip = %+v", got)
	}

	if _, err := encodePayload([]string{"not", "an", "object"}); err == nil {
		t.Fatalf("expected an error for a non-object payload")
	}

	data, err = encodeEvent(app.Event{
		Kind:    app.EventHandScored,
		Payload: app.HandScoredPayload{Result: &domain.ScoringResult{Winner: domain.TeamKontra, NetScore: 3}},
	})
	if err != nil {
		t.Fatalf("encodeEvent failed: %v", err)
	}
	var ev struct {
		Kind    string `json:"kind"`
		Payload struct {
			Result struct {
				Winner   string `json:"winner"`
				NetScore int    `json:"winning_points"`
			} `json:"result"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("event is not valid JSON: %v", err)
	}
	if ev.Kind != "hand_scored" || ev.Payload.Result.Winner != "Kontra" || ev.Payload.Result.NetScore != 3 {
		t.Fatalf("event = %+v", ev)
	}
}

func TestSendErrorLogsFailedDelivery(t *testing.T) {
	errs := 0
	dispatcher := &mockDispatcher{sendErr: errors.New("session closed")}
	state := newTestMatch("user-1")

	(&matchHandler{}).sendError(state, dispatcher, countingLogger{errors: &errs}, "user-1", 400, "hand not started")

	if errs != 1 {
		t.Fatalf("logged %d errors, want 1", errs)
	}
	msgs := dispatcher.byOpCode(OpGameError)
	if len(msgs) != 1 || len(msgs[0].recipients) != 1 || msgs[0].recipients[0] != "user-1" {
		t.Fatalf("error messages = %+v", msgs)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	tests := []struct {
		name              string
		env               map[string]string
		wantEnabled       bool
		wantMin, wantMax  int
		wantAutoFillDelay int
	}{
		{
			name:              "Defaults",
			env:               map[string]string{},
			wantEnabled:       true,
			wantMin:           1,
			wantMax:           3,
			wantAutoFillDelay: 5,
		},
		{
			name: "AllSet",
			env: map[string]string{
				"doppelkopf_bots_enabled":            "false",
				"doppelkopf_bot_min_delay_sec":       "2",
				"doppelkopf_bot_max_delay_sec":       "4",
				"doppelkopf_bot_auto_fill_delay_sec": "9",
			},
			wantMin:           2,
			wantMax:           4,
			wantAutoFillDelay: 9,
		},
		{
			name: "MaxBelowMinIsRaised",
			env: map[string]string{
				"doppelkopf_bot_min_delay_sec": "6",
				"doppelkopf_bot_max_delay_sec": "2",
			},
			wantEnabled:       true,
			wantMin:           6,
			wantMax:           6,
			wantAutoFillDelay: 5,
		},
		{
			name: "GarbageIgnored",
			env: map[string]string{
				"doppelkopf_bot_min_delay_sec":       "soon",
				"doppelkopf_bot_auto_fill_delay_sec": "-1",
			},
			wantEnabled:       true,
			wantMin:           1,
			wantMax:           3,
			wantAutoFillDelay: 5,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			state := newMatchState(nil, app.NewService(nil))
			applyEnvOverrides(state, test.env)
			if state.BotsEnabled != test.wantEnabled || state.BotMinDelay != test.wantMin ||
				state.BotMaxDelay != test.wantMax || state.BotAutoFillDelay != test.wantAutoFillDelay {
				t.Fatalf("got enabled=%t min=%d max=%d fill=%d", state.BotsEnabled, state.BotMinDelay, state.BotMaxDelay, state.BotAutoFillDelay)
			}
		})
	}
}

func TestMatchJoinSeatsHumansAndOwner(t *testing.T) {
	mh := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := newMatchState(nil, app.NewService(nil))

	alice := testPresence{userID: "user-1", username: "alice"}
	bob := testPresence{userID: "user-2", username: "bob"}
	mh.MatchJoin(context.Background(), noopLogger{}, nil, nil, dispatcher, 1, state, []runtime.Presence{alice, bob})

	if state.Seats[0] != "user-1" || state.Seats[1] != "user-2" {
		t.Fatalf("seats = %v", state.Seats)
	}
	if state.OwnerSeat != 0 {
		t.Fatalf("OwnerSeat = %d, want 0", state.OwnerSeat)
	}
	if got := len(dispatcher.byOpCode(OpMatchState)); got != 2 {
		t.Fatalf("expected one snapshot per presence, got %d", got)
	}
	if len(dispatcher.labels) != 1 {
		t.Fatalf("expected one label update, got %d", len(dispatcher.labels))
	}

	// The owner leaves the lobby: the seat frees and ownership moves on.
	result := mh.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, 2, state, []runtime.Presence{alice})
	if result == nil {
		t.Fatalf("match must survive while a human remains")
	}
	if state.Seats[0] != "" || state.OwnerSeat != 1 {
		t.Fatalf("seats=%v owner=%d", state.Seats, state.OwnerSeat)
	}

	result = mh.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, 3, state, []runtime.Presence{bob})
	if result != nil {
		t.Fatalf("match with no humans must terminate")
	}
}

func TestMatchJoinAttempt(t *testing.T) {
	mh := &matchHandler{}
	state := newTestMatch("user-1")
	stranger := testPresence{userID: "user-9"}

	if _, ok, _ := mh.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, nil, 1, state, stranger, nil); !ok {
		t.Fatalf("a human may replace a bot in the lobby")
	}

	startHand(t, mh, state, &mockDispatcher{})
	if _, ok, reason := mh.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, nil, 2, state, stranger, nil); ok || reason != "Match full" {
		t.Fatalf("join during a hand: ok=%t reason=%q", ok, reason)
	}
	seated := testPresence{userID: "user-1"}
	if _, ok, _ := mh.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, nil, 2, state, seated, nil); !ok {
		t.Fatalf("a seated player must be able to come back")
	}
}

func TestProcessBots_AutoFillsAfterDelay(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := newMatchState(nil, app.NewService(nil))
	state.Seats = [domain.NumSeats]string{"user-1", "", "", ""}
	state.Presences["user-1"] = testPresence{userID: "user-1"}
	state.BotAutoFillDelay = 2
	state.Tick = 9

	handler.processBots(context.Background(), state, dispatcher, noopLogger{})
	if state.GetOpenSeatsCount() != 3 || state.FillTimerStart != 9 {
		t.Fatalf("bots must wait for the delay: open=%d timer=%d", state.GetOpenSeatsCount(), state.FillTimerStart)
	}

	state.Tick = 11
	handler.processBots(context.Background(), state, dispatcher, noopLogger{})

	botCount := 0
	for _, seat := range state.Seats {
		if isBotUserId(seat) {
			botCount++
		}
	}
	if botCount != 3 || state.GetOpenSeatsCount() != 0 {
		t.Fatalf("Expected 3 bots and a full table, got %d bots, seats %v", botCount, state.Seats)
	}
	if len(state.Bots) != 3 {
		t.Fatalf("Expected 3 agents, got %d", len(state.Bots))
	}
	if state.FillTimerStart != 0 {
		t.Fatalf("Expected auto-fill timer reset, got %d", state.FillTimerStart)
	}
	if len(dispatcher.byOpCode(OpMatchState)) == 0 || len(dispatcher.labels) == 0 {
		t.Fatalf("Expected match state broadcast and label update after auto-fill")
	}
}

func TestProcessBots_DisabledLeavesLobbyAlone(t *testing.T) {
	handler := &matchHandler{}
	state := newMatchState(nil, app.NewService(nil))
	state.BotsEnabled = false
	state.Seats = [domain.NumSeats]string{"user-1", "", "", ""}
	state.BotAutoFillDelay = 1
	state.FillTimerStart = 1
	state.Tick = 50

	handler.processBots(context.Background(), state, &mockDispatcher{}, noopLogger{})
	if state.GetOpenSeatsCount() != 3 {
		t.Fatalf("bots were added although disabled: %v", state.Seats)
	}
}

func TestStartHand(t *testing.T) {
	mh := &matchHandler{}

	t.Run("OnlyOwner", func(t *testing.T) {
		dispatcher := &mockDispatcher{}
		state := newTestMatch("user-1", "user-2")
		mh.handleStartHand(context.Background(), state, dispatcher, noopLogger{}, message("user-2", OpStartHand, nil))
		if state.Game != nil {
			t.Fatalf("non-owner started a hand")
		}
		errs := dispatcher.byOpCode(OpGameError)
		if len(errs) != 1 || errs[0].recipients[0] != "user-2" {
			t.Fatalf("expected a private error to user-2, got %+v", errs)
		}
	})

	t.Run("NeedsFullTable", func(t *testing.T) {
		dispatcher := &mockDispatcher{}
		state := newTestMatch("user-1")
		state.Seats[3] = ""
		mh.handleStartHand(context.Background(), state, dispatcher, noopLogger{}, message("user-1", OpStartHand, nil))
		if state.Game != nil {
			t.Fatalf("hand started with an open seat")
		}
		if len(dispatcher.byOpCode(OpGameError)) != 1 {
			t.Fatalf("expected an error message")
		}
	})

	t.Run("DealsPrivatelyAndRedacts", func(t *testing.T) {
		dispatcher := &mockDispatcher{}
		state := newTestMatch("user-1")
		startHand(t, mh, state, dispatcher)

		if state.Game.Phase != domain.PhaseBidding || state.Game.Players[0].ID != "user-1" {
			t.Fatalf("unexpected hand: phase=%s seat0=%s", state.Game.Phase, state.Game.Players[0].ID)
		}
		if !state.Game.Players[1].IsBot || !state.Game.Players[1].Connected {
			t.Fatalf("bot seat not flagged: %+v", state.Game.Players[1])
		}

		var dealt, started int
		for _, m := range dispatcher.byOpCode(OpGameEvent) {
			var ev struct {
				Kind    app.EventKind `json:"kind"`
				Payload struct {
					PlayerID string `json:"player_id"`
				} `json:"payload"`
			}
			if err := json.Unmarshal(m.data, &ev); err != nil {
				t.Fatalf("event is not JSON: %v", err)
			}
			switch ev.Kind {
			case app.EventHandDealt:
				dealt++
				if ev.Payload.PlayerID != "user-1" || len(m.recipients) != 1 || m.recipients[0] != "user-1" {
					t.Fatalf("hand of %s leaked to %v", ev.Payload.PlayerID, m.recipients)
				}
			case app.EventBiddingStarted:
				started++
			}
		}
		if dealt != 1 || started != 1 {
			t.Fatalf("dealt=%d started=%d", dealt, started)
		}

		snapshots := dispatcher.byOpCode(OpMatchState)
		if len(snapshots) != 1 {
			t.Fatalf("expected one snapshot, got %d", len(snapshots))
		}
		var snapshot struct {
			Game struct {
				Players []struct {
					ID   string            `json:"id"`
					Hand []json.RawMessage `json:"hand"`
				} `json:"players"`
			} `json:"game"`
		}
		if err := json.Unmarshal(snapshots[0].data, &snapshot); err != nil {
			t.Fatalf("snapshot is not JSON: %v", err)
		}
		for i, p := range snapshot.Game.Players {
			want := 0
			if i == 0 {
				want = 10
			}
			if len(p.Hand) != want {
				t.Fatalf("seat %d (%s) shows %d cards to user-1, want %d", i, p.ID, len(p.Hand), want)
			}
		}

		last := dispatcher.labels[len(dispatcher.labels)-1]
		var label map[string]interface{}
		if err := json.Unmarshal([]byte(last), &label); err != nil || label["phase"] != "bidding" {
			t.Fatalf("label = %s", last)
		}
	})

	t.Run("NotWhileRunning", func(t *testing.T) {
		dispatcher := &mockDispatcher{}
		state := newTestMatch("user-1")
		startHand(t, mh, state, dispatcher)
		before := state.Game
		mh.handleStartHand(context.Background(), state, dispatcher, noopLogger{}, message("user-1", OpStartHand, nil))
		if state.Game != before {
			t.Fatalf("running hand was replaced")
		}
		if len(dispatcher.byOpCode(OpGameError)) != 1 {
			t.Fatalf("expected an error message")
		}
	})
}

func TestHandleActionRejectsOutOfTurn(t *testing.T) {
	mh := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := newTestMatch("user-1")
	startHand(t, mh, state, dispatcher)
	before := state.Game

	// Forehand (seat 1) bids first.
	mh.handleSubmitBid(context.Background(), state, dispatcher, noopLogger{}, message("user-1", OpSubmitBid, bidRequest{Bid: domain.Healthy}))
	if state.Game != before || len(state.Game.Bids) != 0 {
		t.Fatalf("out-of-turn bid changed the hand")
	}
	errs := dispatcher.byOpCode(OpGameError)
	if len(errs) != 1 || errs[0].recipients[0] != "user-1" {
		t.Fatalf("expected one private error, got %+v", errs)
	}

	mh.handlePlayCard(context.Background(), state, dispatcher, noopLogger{}, testMatchData{userID: "user-1", opCode: OpPlayCard, data: []byte("{not json")})
	if len(dispatcher.byOpCode(OpGameError)) != 2 {
		t.Fatalf("bad payload must be reported")
	}
}

func TestProcessBots_StaleDeadlineIsDropped(t *testing.T) {
	mh := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := newTestMatch("user-1")
	startHand(t, mh, state, dispatcher)
	state.BotMinDelay, state.BotMaxDelay = 3, 3

	// A deadline left over from another decision is due now.
	state.Tick = 10
	state.BotWaitUntil = 10
	state.BotWaitTurn = botTurn{Seat: 1, Phase: domain.PhasePlaying}

	mh.processBots(context.Background(), state, dispatcher, noopLogger{})
	if len(state.Game.Bids) != 0 {
		t.Fatalf("stale deadline triggered a bid")
	}
	if state.BotWaitUntil != 13 || state.BotWaitTurn != turnOf(state.Game) {
		t.Fatalf("deadline not rescheduled: until=%d turn=%+v", state.BotWaitUntil, state.BotWaitTurn)
	}

	state.Tick = 12
	mh.processBots(context.Background(), state, dispatcher, noopLogger{})
	if len(state.Game.Bids) != 0 {
		t.Fatalf("bot acted before its deadline")
	}

	state.Tick = 13
	mh.processBots(context.Background(), state, dispatcher, noopLogger{})
	if len(state.Game.Bids) != 1 || state.Game.CurrentPlayer != 2 {
		t.Fatalf("bot did not bid: bids=%v current=%d", state.Game.Bids, state.Game.CurrentPlayer)
	}
}

func TestBotTablePlaysATrick(t *testing.T) {
	mh := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := newTestMatch("user-1")
	state.TrickPause = 2
	startHand(t, mh, state, dispatcher)

	tick := int64(1)
	step := func() {
		tick++
		state.Tick = tick
		mh.processTrickClear(context.Background(), state, dispatcher, noopLogger{})
		mh.processBots(context.Background(), state, dispatcher, noopLogger{})
	}

	for i := 0; i < 3; i++ {
		step()
	}
	if len(state.Game.Bids) != 3 || state.Game.CurrentPlayer != 0 {
		t.Fatalf("bots did not bid in order: bids=%d current=%d", len(state.Game.Bids), state.Game.CurrentPlayer)
	}
	mh.handleSubmitBid(context.Background(), state, dispatcher, noopLogger{}, message("user-1", OpSubmitBid, map[string]string{"bid": "Gesund"}))
	if state.Game.Phase != domain.PhasePlaying {
		t.Fatalf("phase = %s after all bids", state.Game.Phase)
	}

	for i := 0; i < domain.NumSeats && len(state.Game.CurrentTrick) < domain.NumSeats; i++ {
		if state.Game.CurrentPlayer == 0 {
			g := state.Game
			moves := domain.LegalMoves(g.Players[0], g.CurrentTrick, g.Variant, g.TrumpSuit, g.Options)
			mh.handlePlayCard(context.Background(), state, dispatcher, noopLogger{}, message("user-1", OpPlayCard, playCardRequest{CardID: moves[0].ID}))
			continue
		}
		step()
	}
	if len(state.Game.CurrentTrick) != domain.NumSeats {
		t.Fatalf("trick has %d cards", len(state.Game.CurrentTrick))
	}

	// The full trick stays on the table for the pause and no bot plays into it.
	step()
	step()
	if len(state.Game.CurrentTrick) != domain.NumSeats || state.Game.TricksCompleted != 0 {
		t.Fatalf("trick collected too early: %d cards, %d done", len(state.Game.CurrentTrick), state.Game.TricksCompleted)
	}
	step()
	if state.Game.TricksCompleted != 1 {
		t.Fatalf("trick not collected after the pause")
	}
	if state.Game.LastTrickWinner < 0 || state.Game.CurrentPlayer != state.Game.LastTrickWinner {
		t.Fatalf("winner %d should lead, current %d", state.Game.LastTrickWinner, state.Game.CurrentPlayer)
	}
}

func TestDisconnectedHumanIsPlayedByStandIn(t *testing.T) {
	mh := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := newTestMatch("user-1", "user-2")
	startHand(t, mh, state, dispatcher)

	leaving := state.Presences["user-2"]
	result := mh.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, 5, state, []runtime.Presence{leaving})
	if result == nil {
		t.Fatalf("match ended although user-1 is still connected")
	}
	if state.Seats[1] != "user-2" || state.Game.Players[1].Connected || state.Game.Players[1].DisconnectedAt != 5 {
		t.Fatalf("seat not kept for reconnect: %+v", state.Game.Players[1])
	}

	// Seat 1 is forehand and bids through a stand-in.
	state.Tick = 6
	mh.processBots(context.Background(), state, dispatcher, noopLogger{})
	if _, ok := state.Game.Bids["user-2"]; !ok {
		t.Fatalf("stand-in did not bid for user-2")
	}
	if _, ok := state.Bots["user-2"]; !ok {
		t.Fatalf("stand-in agent not cached")
	}

	mh.MatchJoin(context.Background(), noopLogger{}, nil, nil, dispatcher, 7, state, []runtime.Presence{leaving})
	if !state.Game.Players[1].Connected || state.Game.Players[1].DisconnectedAt != 0 {
		t.Fatalf("reconnect not recorded: %+v", state.Game.Players[1])
	}
	if _, ok := state.Bots["user-2"]; ok {
		t.Fatalf("stand-in kept after reconnect")
	}
	if state.actsAutomatically(1) {
		t.Fatalf("server still plays a connected human")
	}
}

func TestProcessBots_StallsWhenNoCardIsPlayable(t *testing.T) {
	mh := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := newTestMatch("user-1")
	startHand(t, mh, state, dispatcher)

	g := state.Game
	g.Phase = domain.PhasePlaying
	g.CurrentTrick = nil
	g.CurrentPlayer = 1
	g.Players[1].Hand = nil
	g.Players[0].TournamentPoints = 5
	g.Players[1].TournamentPoints = -5

	errs := 0
	logger := countingLogger{errors: &errs}
	for tick := int64(1); tick <= 5; tick++ {
		state.Tick = tick
		mh.processBots(context.Background(), state, dispatcher, logger)
	}
	if !state.Stalled {
		t.Fatalf("hand not marked stalled")
	}
	if errs != 1 {
		t.Fatalf("logged %d errors over 5 ticks, want 1", errs)
	}
	if state.BotWaitUntil != 0 {
		t.Fatalf("stalled hand still scheduled a bot at tick %d", state.BotWaitUntil)
	}

	mh.handleStartHand(context.Background(), state, dispatcher, noopLogger{}, message("user-1", OpStartHand, nil))
	if state.Stalled {
		t.Fatalf("redeal did not clear the stall")
	}
	if state.Game.Phase != domain.PhaseBidding || len(state.Game.Players[1].Hand) == 0 {
		t.Fatalf("no fresh hand after redeal: phase=%s", state.Game.Phase)
	}
	if state.Game.Players[0].TournamentPoints != 5 || state.Game.Players[1].TournamentPoints != -5 {
		t.Fatalf("running totals lost: %d %d", state.Game.Players[0].TournamentPoints, state.Game.Players[1].TournamentPoints)
	}
}
