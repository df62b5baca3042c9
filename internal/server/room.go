package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/sgmahjong/server/internal/game"
)

var (
	ErrRoomFull       = errors.New("room is full")
	ErrGameInProgress = errors.New("game already in progress")
	ErrRoomClosed     = errors.New("room is closed")
)

// Sender delivers server frames to one client. *Connection implements
// it; room tests substitute a channel-backed fake.
type Sender interface {
	SendMessage(*Message) error
	Close() error
}

// RoomConfig carries the gameplay tunables for one room.
type RoomConfig struct {
	ClaimWindow     time.Duration
	BotDelay        time.Duration
	DisconnectGrace time.Duration
	MinTai          int
}

// DefaultRoomConfig returns the standard tunables.
func DefaultRoomConfig() RoomConfig {
	return RoomConfig{
		ClaimWindow:     15 * time.Second,
		BotDelay:        800 * time.Millisecond,
		DisconnectGrace: 60 * time.Second,
		MinTai:          1,
	}
}

// seat is the room-side binding for one player index.
type seat struct {
	conn     Sender // nil when no client is attached
	token    string // reconnect token, empty once the seat is bot-owned
	ready    bool
	graceGen int // invalidates stale grace timers
}

// Room events. Every mutation of room or game state happens inside the
// run loop; network handlers and timers only post these.
type roomEvent interface{}

type evJoin struct {
	conn   Sender
	name   string
	avatar string
	token  string
	reply  chan error
}

type evClientMessage struct {
	conn Sender
	msg  *Message
}

type evDisconnect struct {
	conn Sender
}

type evBotTick struct {
	gen int
}

type evClaimTimeout struct {
	windowID int
}

type evGraceExpired struct {
	seat int
	gen  int
}

type evFunc struct {
	fn   func()
	done chan struct{}
}

// Room owns one table: the lobby roster, the game state, the claim
// window and every timer that can touch them. A single goroutine runs
// the event loop; the exported methods are safe from any goroutine.
type Room struct {
	id     string
	cfg    RoomConfig
	logger *log.Logger
	clock  quartz.Clock
	rng    *rand.Rand
	bot    *game.Bot

	events   chan roomEvent
	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
	onEmpty  func(roomID string)

	players [game.SeatCount]*game.Player
	seats   [game.SeatCount]seat
	host    int
	state   *game.State

	claim    *claimWindow
	windowID int

	// mustDiscard pins the current player to a discard after a pong or
	// chi claim; win and kong declarations only follow a drawn tile.
	mustDiscard bool

	botGen   int
	botTimer *quartz.Timer

	graceTimers [game.SeatCount]*quartz.Timer

	lastDealer int
	lastWinner int
}

// NewRoom creates a room and starts its event loop. The rng seeds both
// wall shuffles and bot decisions; onEmpty fires once when the room
// shuts down.
func NewRoom(id string, cfg RoomConfig, logger *log.Logger, clock quartz.Clock, rng *rand.Rand, onEmpty func(string)) *Room {
	r := &Room{
		id:         id,
		cfg:        cfg,
		logger:     logger.WithPrefix("room").With("room", id),
		clock:      clock,
		rng:        rng,
		bot:        game.NewBot(rng),
		events:     make(chan roomEvent, 64),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
		onEmpty:    onEmpty,
		host:       -1,
		lastDealer: -1,
		lastWinner: -1,
	}
	go r.run()
	return r
}

// ID returns the room identifier.
func (r *Room) ID() string {
	return r.id
}

// Closed reports whether the room has shut down or is shutting down.
func (r *Room) Closed() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// Join seats a new player or reconnects a returning one. It blocks
// until the room has decided; a non-nil error means the caller should
// reject and close the connection.
func (r *Room) Join(conn Sender, name, avatar, token string) error {
	reply := make(chan error, 1)
	r.post(evJoin{conn: conn, name: name, avatar: avatar, token: token, reply: reply})
	select {
	case err := <-reply:
		return err
	case <-r.done:
		return ErrRoomClosed
	}
}

// HandleMessage feeds a client frame into the room's event loop.
func (r *Room) HandleMessage(conn Sender, msg *Message) {
	r.post(evClientMessage{conn: conn, msg: msg})
}

// HandleDisconnect reports that a client's socket is gone.
func (r *Room) HandleDisconnect(conn Sender) {
	r.post(evDisconnect{conn: conn})
}

// AddBots pre-seats up to n bots in the lobby, for rooms configured to
// offer solo play against the house.
func (r *Room) AddBots(n int) {
	r.do(func() {
		if r.state != nil {
			return
		}
		for range n {
			i := r.freeSeat()
			if i < 0 {
				return
			}
			r.players[i] = &game.Player{
				Name:   botNames[i],
				Avatar: botAvatar,
				Status: game.StatusBot,
			}
			r.seats[i] = seat{}
		}
		r.broadcastRoomState()
	})
}

// Stop shuts the room down and waits for the loop to exit.
func (r *Room) Stop() {
	r.stopOnce.Do(func() { close(r.done) })
	<-r.stopped
}

func (r *Room) post(ev roomEvent) {
	select {
	case r.events <- ev:
	case <-r.done:
	}
}

// do runs fn on the event loop and waits for it. AddBots and the tests
// use it to touch room state without racing the loop.
func (r *Room) do(fn func()) {
	done := make(chan struct{})
	r.post(evFunc{fn: fn, done: done})
	select {
	case <-done:
	case <-r.stopped:
	}
}

func (r *Room) run() {
	defer close(r.stopped)
	for {
		select {
		case ev := <-r.events:
			r.dispatch(ev)
		case <-r.done:
			r.closeAll()
			return
		}
	}
}

func (r *Room) dispatch(ev roomEvent) {
	switch ev := ev.(type) {
	case evJoin:
		ev.reply <- r.handleJoin(ev)
	case evClientMessage:
		r.handleClientMessage(ev.conn, ev.msg)
	case evDisconnect:
		r.handleDisconnect(ev.conn)
	case evBotTick:
		r.handleBotTick(ev.gen)
	case evClaimTimeout:
		r.handleClaimTimeout(ev.windowID)
	case evGraceExpired:
		r.handleGraceExpired(ev.seat, ev.gen)
	case evFunc:
		ev.fn()
		close(ev.done)
	}
}

var botNames = [game.SeatCount]string{"Bot Ah Seng", "Bot Mei Ling", "Bot Uncle Lim", "Bot Xiao Hua"}

const botAvatar = "🀄"

func (r *Room) freeSeat() int {
	for i := range r.players {
		if r.players[i] == nil {
			return i
		}
	}
	return -1
}

func (r *Room) seatOf(conn Sender) int {
	for i := range r.seats {
		if r.seats[i].conn != nil && r.seats[i].conn == conn {
			return i
		}
	}
	return -1
}

func sanitizeName(name string, idx int) string {
	name = strings.TrimSpace(name)
	if runes := []rune(name); len(runes) > 16 {
		name = string(runes[:16])
	}
	if name == "" {
		name = fmt.Sprintf("Player %d", idx+1)
	}
	return name
}

func (r *Room) handleJoin(ev evJoin) error {
	if ev.token != "" {
		for i := range r.seats {
			if r.players[i] != nil && !r.players[i].IsBot() &&
				r.seats[i].token == ev.token && r.seats[i].conn == nil {
				r.reconnectSeat(i, ev.conn)
				return nil
			}
		}
		// Unknown token. During a game that is a dead seat claim, which
		// reads as a full room from the outside.
		if r.state != nil {
			return ErrRoomFull
		}
	}
	if r.state != nil {
		return ErrGameInProgress
	}

	idx := r.freeSeat()
	if idx < 0 {
		return ErrRoomFull
	}
	r.players[idx] = &game.Player{
		Name:   sanitizeName(ev.name, idx),
		Avatar: ev.avatar,
		Status: game.StatusHuman,
	}
	r.seats[idx] = seat{conn: ev.conn, token: uuid.NewString()}
	if r.host < 0 {
		r.host = idx
	}
	r.logger.Info("Player joined", "seat", idx, "name", r.players[idx].Name)
	r.broadcastRoomState()
	return nil
}

func (r *Room) reconnectSeat(i int, conn Sender) {
	r.seats[i].conn = conn
	r.seats[i].graceGen++
	if t := r.graceTimers[i]; t != nil {
		t.Stop()
		r.graceTimers[i] = nil
	}
	r.players[i].Status = game.StatusHuman
	r.logger.Info("Player reconnected", "seat", i, "name", r.players[i].Name)
	r.notifyOthers(i, MessageTypePlayerReconnected, PlayerReconnectedData{PlayerIndex: i})

	r.sendRoomState(i)
	if r.state == nil {
		return
	}
	r.sendGameState(i)
	if w := r.claim; w != nil && w.offers[i].any() && w.responses[i] != nil && w.responses[i].auto {
		// Their window is still open; let them answer it after all.
		w.responses[i] = nil
		r.sendClaimWindow(i, w)
		return
	}
	if r.claim == nil && r.state.Phase == game.PhasePlaying && r.state.Current == i {
		// The seat may already have a bot turn scheduled; the returning
		// player takes it back.
		r.botGen++
		if r.botTimer != nil {
			r.botTimer.Stop()
			r.botTimer = nil
		}
		r.promptTurn(i)
	}
}

func (r *Room) handleClientMessage(conn Sender, msg *Message) {
	i := r.seatOf(conn)
	if i < 0 {
		return
	}
	switch msg.Type {
	case MessageTypeReady:
		var data ReadyData
		if err := unmarshalData(msg, &data); err != nil {
			r.logger.Debug("Bad ready payload", "seat", i, "error", err)
			return
		}
		if r.state != nil {
			return
		}
		r.seats[i].ready = data.IsReady
		r.broadcastRoomState()

	case MessageTypeStartGame:
		r.handleStartGame(i)

	case MessageTypeAction:
		var data ActionData
		if err := unmarshalData(msg, &data); err != nil {
			r.logger.Debug("Bad action payload", "seat", i, "error", err)
			return
		}
		r.handleAction(i, data)

	case MessageTypeNextRound:
		r.handleNextRound(i)

	case MessageTypeLeave:
		r.handleLeave(i)

	default:
		r.logger.Debug("Unknown message type", "seat", i, "type", msg.Type)
	}
}

func (r *Room) handleDisconnect(conn Sender) {
	i := r.seatOf(conn)
	if i < 0 {
		return
	}
	r.seats[i].conn = nil

	if r.state == nil {
		r.vacateSeat(i)
		return
	}

	p := r.players[i]
	p.Status = game.StatusDisconnected
	r.logger.Info("Player disconnected", "seat", i, "name", p.Name)
	r.notifyOthers(i, MessageTypePlayerDisconnected, PlayerDisconnectedData{PlayerIndex: i})
	r.broadcastGameState()

	if w := r.claim; w != nil && w.responses[i] == nil {
		w.responses[i] = &claimResponse{action: ActionPass, auto: true}
		if r.claimComplete(w) {
			r.resolveClaims()
		}
	}
	// If they held the turn, act for them right away so the table keeps
	// moving; the grace timer decides whether the seat stays theirs.
	if r.state.Phase == game.PhasePlaying && r.claim == nil && r.state.Current == i {
		r.botStep()
	}

	r.seats[i].graceGen++
	gen := r.seats[i].graceGen
	r.graceTimers[i] = r.clock.AfterFunc(r.cfg.DisconnectGrace, func() {
		r.post(evGraceExpired{seat: i, gen: gen})
	})
}

// vacateSeat removes a lobby player entirely.
func (r *Room) vacateSeat(i int) {
	name := ""
	if r.players[i] != nil {
		name = r.players[i].Name
	}
	r.players[i] = nil
	r.seats[i] = seat{}
	r.logger.Info("Player left lobby", "seat", i, "name", name)
	if r.host == i {
		r.host = -1
		for j := range r.players {
			if r.players[j] != nil && !r.players[j].IsBot() {
				r.host = j
				break
			}
		}
	}
	if !r.humansRemain() {
		r.shutdown()
		return
	}
	r.broadcastRoomState()
}

func (r *Room) handleGraceExpired(i, gen int) {
	if r.seats[i].graceGen != gen {
		return
	}
	p := r.players[i]
	if p == nil || p.Status != game.StatusDisconnected {
		return
	}
	p.Status = game.StatusBot
	r.seats[i].token = ""
	r.seats[i].ready = false
	r.graceTimers[i] = nil
	r.logger.Info("Seat handed to bot", "seat", i, "name", p.Name)
	if !r.humansRemain() {
		r.shutdown()
		return
	}
	r.broadcastGameState()
}

// handleLeave is a deliberate exit: the seat is given up for good, not
// parked behind the disconnect grace.
func (r *Room) handleLeave(i int) {
	conn := r.seats[i].conn
	r.seats[i].conn = nil
	if conn != nil {
		_ = conn.Close()
	}

	if r.state == nil {
		r.vacateSeat(i)
		return
	}

	p := r.players[i]
	p.Status = game.StatusBot
	r.seats[i].token = ""
	r.seats[i].graceGen++
	if t := r.graceTimers[i]; t != nil {
		t.Stop()
		r.graceTimers[i] = nil
	}
	r.logger.Info("Player left game", "seat", i, "name", p.Name)
	r.notifyOthers(i, MessageTypePlayerDisconnected, PlayerDisconnectedData{PlayerIndex: i})

	if w := r.claim; w != nil && w.responses[i] == nil {
		w.responses[i] = &claimResponse{action: ActionPass, auto: true}
		if r.claimComplete(w) {
			r.resolveClaims()
		}
	}
	if !r.humansRemain() {
		r.shutdown()
		return
	}
	r.broadcastGameState()
	if r.state.Phase == game.PhasePlaying && r.claim == nil && r.state.Current == i {
		r.botStep()
	}
}

// humansRemain reports whether any seat is still human-owned, connected
// or within its disconnect grace.
func (r *Room) humansRemain() bool {
	for _, p := range r.players {
		if p != nil && p.Status != game.StatusBot {
			return true
		}
	}
	return false
}

func (r *Room) shutdown() {
	r.logger.Info("Room closing")
	r.stopOnce.Do(func() { close(r.done) })
}

func (r *Room) closeAll() {
	if r.botTimer != nil {
		r.botTimer.Stop()
	}
	if r.claim != nil && r.claim.timer != nil {
		r.claim.timer.Stop()
	}
	for i := range r.graceTimers {
		if r.graceTimers[i] != nil {
			r.graceTimers[i].Stop()
		}
	}
	for i := range r.seats {
		if r.seats[i].conn != nil {
			_ = r.seats[i].conn.Close()
			r.seats[i].conn = nil
		}
	}
	if r.onEmpty != nil {
		go r.onEmpty(r.id)
	}
}

// Send helpers. Failures are the connection's problem; the room only
// logs them.

func (r *Room) sendTo(i int, msgType MessageType, data any) {
	conn := r.seats[i].conn
	if conn == nil {
		return
	}
	msg, err := NewMessage(msgType, data)
	if err != nil {
		r.logger.Error("Failed to encode message", "type", msgType, "error", err)
		return
	}
	if err := conn.SendMessage(msg); err != nil {
		r.logger.Debug("Failed to send message", "seat", i, "type", msgType, "error", err)
	}
}

func (r *Room) sendError(i int, text string) {
	r.sendTo(i, MessageTypeError, ErrorData{Message: text})
}

func (r *Room) notifyOthers(except int, msgType MessageType, data any) {
	for i := range r.seats {
		if i != except {
			r.sendTo(i, msgType, data)
		}
	}
}

func (r *Room) clientRoom(viewer int) ClientRoom {
	room := ClientRoom{
		ID:             r.id,
		HostIndex:      r.host,
		YourIndex:      viewer,
		ReconnectToken: r.seats[viewer].token,
		InGame:         r.state != nil,
	}
	for i, p := range r.players {
		if p == nil {
			continue
		}
		room.Seats = append(room.Seats, LobbySeat{
			Index:  i,
			Name:   p.Name,
			Avatar: p.Avatar,
			Ready:  r.seats[i].ready,
			IsBot:  p.IsBot(),
		})
	}
	return room
}

func (r *Room) sendRoomState(i int) {
	r.sendTo(i, MessageTypeRoomState, RoomStateData{Room: r.clientRoom(i)})
}

func (r *Room) broadcastRoomState() {
	for i := range r.seats {
		r.sendRoomState(i)
	}
}

func (r *Room) sendGameState(i int) {
	r.sendTo(i, MessageTypeGameState, GameStateData{State: ProjectGameState(r.state, i)})
}

func (r *Room) broadcastGameState() {
	for i := range r.seats {
		r.sendGameState(i)
	}
}

func unmarshalData(msg *Message, v any) error {
	if len(msg.Data) == 0 {
		return errors.New("empty payload")
	}
	return json.Unmarshal(msg.Data, v)
}
