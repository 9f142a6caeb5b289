package nakama

import (
	"encoding/json"
	"fmt"

	"doppelkopf/internal/app"
	"doppelkopf/internal/domain"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

type bidRequest struct {
	Bid domain.Bid `json:"bid"`
}

type playCardRequest struct {
	CardID string `json:"card_id"`
}

type announceRequest struct {
	Call domain.Team `json:"call"`
}

// seatView describes one occupied seat in a state snapshot.
type seatView struct {
	UserID      string `json:"user_id"`
	Seat        int    `json:"seat"`
	DisplayName string `json:"display_name"`
	IsBot       bool   `json:"is_bot"`
	IsOwner     bool   `json:"is_owner"`
	Connected   bool   `json:"connected"`
}

// stateSnapshot is what OpMatchState carries. Game is already redacted for the recipient.
type stateSnapshot struct {
	Seats     [domain.NumSeats]string `json:"seats"`
	OwnerSeat int                     `json:"owner_seat"`
	Tick      int64                   `json:"tick"`
	Players   []seatView              `json:"players"`
	Game      *domain.GameState       `json:"game,omitempty"`
}

type errorMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// decodeRequest unmarshals a client payload. An empty payload leaves v at its zero value.
func decodeRequest(data []byte, v interface{}) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid request payload: %w", err)
	}
	return nil
}

func encodeEvent(ev app.Event) ([]byte, error) {
	return encodePayload(ev)
}

// encodePayload renders an outgoing message as a protobuf Struct in its JSON mapping,
// the same form the match label uses. v must marshal to a JSON object.
func encodePayload(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	st := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, st); err != nil {
		return nil, fmt.Errorf("payload is not an object: %w", err)
	}
	return protojson.Marshal(st)
}

// encodeLabel renders the match label Nakama indexes for MatchList queries.
func encodeLabel(label domain.LabelPayload) (string, error) {
	fields := map[string]interface{}{
		"open":  label.Open,
		"game":  label.Game,
		"phase": label.Phase,
	}
	if label.Variant != "" {
		fields["variant"] = label.Variant
	}
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return "", err
	}
	labelBytes, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(st)
	if err != nil {
		return "", err
	}
	return string(labelBytes), nil
}
