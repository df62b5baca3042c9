package server

import (
	"encoding/json"
	"time"

	"github.com/sgmahjong/server/mahjong"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type ReadyData struct {
	IsReady bool `json:"isReady"`
}

// ActionData carries one in-game move. TileID names the tile for a
// discard or picks among several self-kongs; ChiIndex selects a chi
// combination when more than one is possible.
type ActionData struct {
	Action   ActionType `json:"action"`
	TileID   *int       `json:"tileId,omitempty"`
	ChiIndex *int       `json:"chiIndex,omitempty"`
}

// Server → Client Messages

type RoomStateData struct {
	Room ClientRoom `json:"room"`
}

type GameStartData struct {
	State ClientGameState `json:"state"`
}

type GameStateData struct {
	State ClientGameState `json:"state"`
}

type YourTurnData struct {
	Phase            TurnPhase    `json:"phase"`
	AvailableActions []ActionType `json:"availableActions"`
}

// ClaimWindowData offers claims on the pending tile. Timeout is in
// seconds; an unanswered window counts as a pass.
type ClaimWindowData struct {
	Timeout          int          `json:"timeout"`
	AvailableActions []ActionType `json:"availableActions"`
}

type ChiOptionsData struct {
	Options [][]mahjong.Tile `json:"options"`
}

type RoundOverData struct {
	WinnerIndex   *int                   `json:"winnerIndex,omitempty"`
	TaiResult     *mahjong.TaiResult     `json:"taiResult,omitempty"`
	PaymentResult *mahjong.PaymentResult `json:"paymentResult,omitempty"`
	Message       string                 `json:"message"`
}

type PlayerDisconnectedData struct {
	PlayerIndex int `json:"playerIndex"`
}

type PlayerReconnectedData struct {
	PlayerIndex int `json:"playerIndex"`
}

type ErrorData struct {
	Message string `json:"message"`
}
