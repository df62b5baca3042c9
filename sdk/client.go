package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// EventHandler is a function that handles incoming messages
type EventHandler func(*Message)

// Client is a WebSocket client for one seat in a mahjong room. It keeps
// the reconnect token and seat index the server assigns, so a dropped
// session can be resumed by calling Connect again on the same client.
type Client struct {
	serverURL string
	roomID    string
	name      string
	avatar    string
	logger    *log.Logger

	mu            sync.RWMutex
	conn          *websocket.Conn
	connected     bool
	token         string
	yourIndex     int
	eventHandlers map[MessageType][]EventHandler
	stopChan      chan struct{}
}

// NewClient creates a client for the given room. The server URL may use
// an http, https, ws or wss scheme.
func NewClient(serverURL, roomID, name, avatar string, logger *log.Logger) *Client {
	return &Client{
		serverURL:     serverURL,
		roomID:        roomID,
		name:          name,
		avatar:        avatar,
		logger:        logger,
		yourIndex:     -1,
		eventHandlers: make(map[MessageType][]EventHandler),
	}
}

// Connect establishes the WebSocket connection and joins the room. If
// the client holds a reconnect token from an earlier session it is
// presented, reclaiming the old seat.
func (c *Client) Connect(ctx context.Context) error {
	u, err := url.Parse(c.serverURL)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws"

	q := u.Query()
	q.Set("room", c.roomID)
	q.Set("name", c.name)
	q.Set("avatar", c.avatar)
	c.mu.RLock()
	if c.token != "" {
		q.Set("reconnectToken", c.token)
	}
	c.mu.RUnlock()
	u.RawQuery = q.Encode()

	c.logger.Info("Connecting to server", "url", u.Host, "room", c.roomID)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.stopChan = make(chan struct{})
	stop := c.stopChan
	c.mu.Unlock()

	go c.readMessages(conn, stop)
	return nil
}

// Disconnect closes the WebSocket connection
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil
	}
	c.connected = false
	close(c.stopChan)

	if c.conn != nil {
		_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		return c.conn.Close()
	}
	return nil
}

// IsConnected returns whether the client is connected
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// ReconnectToken returns the token for reclaiming this seat, or "" if
// no room-state has arrived yet.
func (c *Client) ReconnectToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetReconnectToken seeds the token sent on the next Connect, for
// resuming a seat from a previous process.
func (c *Client) SetReconnectToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// YourIndex returns this client's seat index, or -1 before the first
// room-state arrives.
func (c *Client) YourIndex() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.yourIndex
}

// AddEventHandler registers a handler for a specific message type
func (c *Client) AddEventHandler(msgType MessageType, handler EventHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eventHandlers[msgType] = append(c.eventHandlers[msgType], handler)
}

// RemoveEventHandlers removes all handlers for a specific message type
func (c *Client) RemoveEventHandlers(msgType MessageType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.eventHandlers, msgType)
}

// SendMessage sends a message to the server
func (c *Client) SendMessage(msg *Message) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.connected || c.conn == nil {
		return fmt.Errorf("not connected")
	}
	return c.conn.WriteJSON(msg)
}

func (c *Client) send(msgType MessageType, data any) error {
	msg, err := NewMessage(msgType, data)
	if err != nil {
		return err
	}
	return c.SendMessage(msg)
}

// Ready marks this seat ready (or not) in the lobby
func (c *Client) Ready(isReady bool) error {
	return c.send(MessageTypeReady, ReadyData{IsReady: isReady})
}

// StartGame asks the server to start; only the host may
func (c *Client) StartGame() error {
	return c.send(MessageTypeStartGame, nil)
}

// NextRound asks the server to deal the next hand
func (c *Client) NextRound() error {
	return c.send(MessageTypeNextRound, nil)
}

// Leave gives the seat up for good; a bot plays on in its place
func (c *Client) Leave() error {
	return c.send(MessageTypeLeave, nil)
}

// Draw takes the turn tile
func (c *Client) Draw() error {
	return c.send(MessageTypeAction, ActionData{Action: ActionDraw})
}

// Discard throws the identified tile
func (c *Client) Discard(tileID int) error {
	return c.send(MessageTypeAction, ActionData{Action: ActionDiscard, TileID: &tileID})
}

// Chi claims the last discard into a run. The index picks between
// combinations when the server offered several; pass nil otherwise.
func (c *Client) Chi(chiIndex *int) error {
	return c.send(MessageTypeAction, ActionData{Action: ActionChi, ChiIndex: chiIndex})
}

// Pong claims the last discard into a triplet
func (c *Client) Pong() error {
	return c.send(MessageTypeAction, ActionData{Action: ActionPong})
}

// Kong declares a kong. During a claim window it takes the discard; on
// the client's own turn a tile id selects among several self-kongs.
func (c *Client) Kong(tileID *int) error {
	return c.send(MessageTypeAction, ActionData{Action: ActionKong, TileID: tileID})
}

// Win declares a win on the pending tile or the client's own draw
func (c *Client) Win() error {
	return c.send(MessageTypeAction, ActionData{Action: ActionWin})
}

// Pass declines an open claim window
func (c *Client) Pass() error {
	return c.send(MessageTypeAction, ActionData{Action: ActionPass})
}

// readMessages continuously reads messages from the WebSocket connection
func (c *Client) readMessages(conn *websocket.Conn, stop chan struct{}) {
	defer func() {
		c.mu.Lock()
		if c.conn == conn {
			c.connected = false
		}
		c.mu.Unlock()
	}()

	for {
		select {
		case <-stop:
			return
		default:
			var msg Message
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
					c.logger.Error("WebSocket error", "error", err)
				}
				return
			}
			c.capture(&msg)
			c.dispatchMessage(&msg)
		}
	}
}

// capture records the seat identity the server hands out in room-state
// frames, before any user handler sees the message.
func (c *Client) capture(msg *Message) {
	if msg.Type != MessageTypeRoomState {
		return
	}
	var data RoomStateData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		c.logger.Debug("Bad room-state payload", "error", err)
		return
	}
	c.mu.Lock()
	if data.Room.ReconnectToken != "" {
		c.token = data.Room.ReconnectToken
	}
	c.yourIndex = data.Room.YourIndex
	c.mu.Unlock()
}

// dispatchMessage sends a message to all registered handlers
func (c *Client) dispatchMessage(msg *Message) {
	c.mu.RLock()
	handlers := c.eventHandlers[msg.Type]
	c.mu.RUnlock()

	for _, handler := range handlers {
		handler(msg)
	}
}
