package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"doppelkopf/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// QuickMatchResponse is the payload returned to clients when requesting a lobby-capable match.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// quickMatchQuery finds lobbies of this game with at least one free seat.
var quickMatchQuery = fmt.Sprintf("+label.game:%s +label.phase:lobby +label.open:>=1", domain.GameName)

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	return initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch)
}

func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	limit := 10
	authoritative := true

	minSize := 1
	maxSize := domain.NumSeats - 1

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, quickMatchQuery)
	if err != nil {
		logger.Error("QuickMatch [User:%s]: MatchList error: %v", userID, err)
		return "", err
	}

	if len(matches) > 0 {
		logger.Info("QuickMatch [User:%s]: Found existing match %s", userID, matches[0].MatchId)
		return marshalQuickMatch(QuickMatchResponse{MatchID: matches[0].MatchId, IsNew: false})
	}

	// Seat and owner assignment happens in MatchJoin.
	matchID, err := nk.MatchCreate(ctx, MatchNameDoppelkopf, map[string]interface{}{})
	if err != nil {
		logger.Error("QuickMatch [User:%s]: MatchCreate error: %v", userID, err)
		return "", err
	}

	logger.Info("QuickMatch [User:%s]: Created new match %s", userID, matchID)
	return marshalQuickMatch(QuickMatchResponse{MatchID: matchID, IsNew: true})
}

func marshalQuickMatch(resp QuickMatchResponse) (string, error) {
	b, err := json.Marshal(resp)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
