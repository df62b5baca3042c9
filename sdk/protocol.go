package sdk

import (
	"encoding/json"
	"time"

	"github.com/sgmahjong/server/mahjong"
)

// Message represents a WebSocket message between client and server
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp,omitempty"`
}

// NewMessage creates a message with the current timestamp
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

// MessageType represents the type of a WebSocket message
type MessageType string

// Client to Server message types
const (
	MessageTypeReady     MessageType = "ready"
	MessageTypeStartGame MessageType = "start-game"
	MessageTypeAction    MessageType = "action"
	MessageTypeNextRound MessageType = "next-round"
	MessageTypeLeave     MessageType = "leave"
)

// Server to Client message types
const (
	MessageTypeRoomState          MessageType = "room-state"
	MessageTypeGameStart          MessageType = "game-start"
	MessageTypeGameState          MessageType = "game-state"
	MessageTypeYourTurn           MessageType = "your-turn"
	MessageTypeClaimWindow        MessageType = "claim-window"
	MessageTypeChiOptions         MessageType = "chi-options"
	MessageTypeRoundOver          MessageType = "round-over"
	MessageTypePlayerDisconnected MessageType = "player-disconnected"
	MessageTypePlayerReconnected  MessageType = "player-reconnected"
	MessageTypeError              MessageType = "error"
)

// ActionType enumerates the in-game moves a client can submit
type ActionType string

const (
	ActionDraw    ActionType = "draw"
	ActionDiscard ActionType = "discard"
	ActionChi     ActionType = "chi"
	ActionPong    ActionType = "pong"
	ActionKong    ActionType = "kong"
	ActionWin     ActionType = "win"
	ActionPass    ActionType = "pass"
)

// TurnPhase tells the client what the server is waiting for on its turn
type TurnPhase string

const (
	TurnPhaseDraw    TurnPhase = "human-needs-draw"
	TurnPhaseDiscard TurnPhase = "human-needs-discard"
)

// Phase is the lifecycle of a hand as reported by the server
type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhasePlaying  Phase = "playing"
	PhaseFinished Phase = "finished"
)

// Client to Server message data structures

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

// Server to Client message data structures

// Seat is one occupied seat in the pre-game roster
type Seat struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Ready  bool   `json:"ready"`
	IsBot  bool   `json:"isBot"`
}

// Room is the lobby view. The reconnect token is private to this client.
type Room struct {
	ID             string `json:"id"`
	Seats          []Seat `json:"seats"`
	HostIndex      int    `json:"hostIndex"`
	YourIndex      int    `json:"yourIndex"`
	ReconnectToken string `json:"reconnectToken,omitempty"`
	InGame         bool   `json:"inGame"`
}

// Player is one seat as this client sees it. Hand is populated only for
// the client's own seat; everyone else comes as a count.
type Player struct {
	Name          string         `json:"name"`
	Avatar        string         `json:"avatar"`
	SeatWind      mahjong.Wind   `json:"seatWind"`
	HandCount     int            `json:"handCount"`
	Hand          []mahjong.Tile `json:"hand,omitempty"`
	Discards      []mahjong.Tile `json:"discards"`
	Melds         []mahjong.Meld `json:"melds"`
	Bonuses       []mahjong.Tile `json:"bonuses"`
	Score         int            `json:"score"`
	IsBot         bool           `json:"isBot"`
	Connected     bool           `json:"connected"`
	IsCurrentTurn bool           `json:"isCurrentTurn"`
}

// GameState is the filtered table state for this client
type GameState struct {
	Players            []Player      `json:"players"`
	YourIndex          int           `json:"yourIndex"`
	WallRemaining      int           `json:"wallRemaining"`
	CurrentIndex       int           `json:"currentIndex"`
	RoundWind          mahjong.Wind  `json:"roundWind"`
	RoundNumber        int           `json:"roundNumber"`
	Turn               int           `json:"turn"`
	LastDiscard        *mahjong.Tile `json:"lastDiscard,omitempty"`
	LastDiscarderIndex *int          `json:"lastDiscarderIndex,omitempty"`
	Phase              Phase         `json:"phase"`
}

type RoomStateData struct {
	Room Room `json:"room"`
}

type GameStartData struct {
	State GameState `json:"state"`
}

type GameStateData struct {
	State GameState `json:"state"`
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

// ErrorData is sent when the server rejects a request
type ErrorData struct {
	Message string `json:"message"`
}
