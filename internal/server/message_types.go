package server

// MessageType identifies a frame on the room socket
type MessageType string

// Client → Server message types
const (
	MessageTypeReady     MessageType = "ready"
	MessageTypeStartGame MessageType = "start-game"
	MessageTypeAction    MessageType = "action"
	MessageTypeNextRound MessageType = "next-round"
	MessageTypeLeave     MessageType = "leave"
)

// Server → Client message types
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

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

// ActionType enumerates the in-game moves a client can submit inside an
// action frame, during its own turn or an open claim window.
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

// TurnPhase tells a human client what the server is waiting for on their
// turn.
type TurnPhase string

const (
	TurnPhaseDraw    TurnPhase = "human-needs-draw"
	TurnPhaseDiscard TurnPhase = "human-needs-discard"
)
