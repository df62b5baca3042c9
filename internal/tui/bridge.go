package tui

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/sgmahjong/server/mahjong"
	"github.com/sgmahjong/server/sdk"
)

// Bridge manages the connection between a client and TUI model
type Bridge struct {
	client *sdk.Client
	tui    *TUIModel

	// Previous broadcast, used to diff server state into log lines
	prev   *sdk.GameState
	joined bool
}

// NewBridge creates a new bridge between client and TUI
func NewBridge(client *sdk.Client, tui *TUIModel) *Bridge {
	bridge := &Bridge{
		client: client,
		tui:    tui,
	}

	bridge.setupEventHandlers()
	return bridge
}

// Start begins the command handling loop (non-blocking)
func (b *Bridge) Start() {
	go b.commandLoop()
}

// setupEventHandlers configures all client event handlers
func (b *Bridge) setupEventHandlers() {
	b.client.AddEventHandler(sdk.MessageTypeRoomState, b.handleRoomState)
	b.client.AddEventHandler(sdk.MessageTypeGameStart, b.handleGameStart)
	b.client.AddEventHandler(sdk.MessageTypeGameState, b.handleGameState)
	b.client.AddEventHandler(sdk.MessageTypeYourTurn, b.handleYourTurn)
	b.client.AddEventHandler(sdk.MessageTypeClaimWindow, b.handleClaimWindow)
	b.client.AddEventHandler(sdk.MessageTypeChiOptions, b.handleChiOptions)
	b.client.AddEventHandler(sdk.MessageTypeRoundOver, b.handleRoundOver)
	b.client.AddEventHandler(sdk.MessageTypePlayerDisconnected, b.handlePlayerDisconnected)
	b.client.AddEventHandler(sdk.MessageTypePlayerReconnected, b.handlePlayerReconnected)
	b.client.AddEventHandler(sdk.MessageTypeError, b.handleError)
}

// commandLoop handles user actions from the TUI
func (b *Bridge) commandLoop() {
	for {
		action, args, shouldContinue, err := b.tui.WaitForAction()
		if err != nil {
			continue
		}

		if !shouldContinue {
			break
		}

		// Handle special commands
		if strings.HasPrefix(action, "/") || action == "quit" {
			b.handleCommand(action)
		} else {
			// Handle game actions
			b.handleGameAction(action, args)
		}
	}
}

// Event handlers

func (b *Bridge) handleRoomState(msg *sdk.Message) {
	var data sdk.RoomStateData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		return
	}
	room := data.Room

	prevSeats := b.tui.seats
	b.tui.SetRoom(room)

	if !b.joined {
		b.joined = true
		b.tui.AddBoldLogEntry(fmt.Sprintf("Joined room %s (seat %d)", room.ID, room.YourIndex+1))
	} else if !room.InGame {
		// Diff the roster so lobby changes read as events
		for _, seat := range room.Seats {
			was := findSeat(prevSeats, seat.Index)
			switch {
			case was == nil && seat.Index != room.YourIndex:
				b.tui.AddLogEntry(fmt.Sprintf("%s sat down (seat %d)", seat.Name, seat.Index+1))
			case was != nil && !was.Ready && seat.Ready:
				b.tui.AddLogEntry(fmt.Sprintf("%s is ready", seat.Name))
			}
		}
		for _, was := range prevSeats {
			if findSeat(room.Seats, was.Index) == nil {
				b.tui.AddLogEntry(fmt.Sprintf("%s left", was.Name))
			}
		}
	}

	if room.InGame {
		// Rejoining a live game; resync quietly off the next broadcast
		b.prev = nil
	}

	b.tui.notifyMessageCallback(sdk.MessageTypeRoomState)
}

func (b *Bridge) handleGameStart(msg *sdk.Message) {
	var data sdk.GameStartData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		return
	}
	state := data.State

	b.tui.ClearPrompts()
	b.tui.UpdateTable(state)
	b.prev = &state

	b.tui.AddLogEntry("")
	b.tui.AddLogEntryAndScrollToShow(fmt.Sprintf("=== %s round, hand %d ===", windWord(state.RoundWind), state.RoundNumber))
	if state.CurrentIndex >= 0 && state.CurrentIndex < len(state.Players) {
		b.tui.AddLogEntry(fmt.Sprintf("%s is the dealer", state.Players[state.CurrentIndex].Name))
	}
	if state.YourIndex >= 0 && state.YourIndex < len(state.Players) {
		own := state.Players[state.YourIndex]
		b.tui.AddLogEntry("Dealt to you: " + formatTiles(own.Hand))
	}

	// Bonus tiles revealed during the deal
	for _, p := range state.Players {
		if len(p.Bonuses) > 0 {
			b.tui.AddLogEntry(fmt.Sprintf("%s reveals %s", p.Name, formatTiles(p.Bonuses)))
		}
	}

	b.tui.notifyMessageCallback(sdk.MessageTypeGameStart)
}

func (b *Bridge) handleGameState(msg *sdk.Message) {
	var data sdk.GameStateData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		return
	}
	state := data.State

	if b.prev != nil && b.prev.RoundNumber == state.RoundNumber && b.prev.RoundWind == state.RoundWind {
		b.logTransitions(b.prev, &state)
	}
	b.tui.UpdateTable(state)
	b.prev = &state

	b.tui.notifyMessageCallback(sdk.MessageTypeGameState)
}

// logTransitions turns the difference between two broadcasts into log
// lines: the new discard, declared melds and revealed bonus tiles.
func (b *Bridge) logTransitions(prev, next *sdk.GameState) {
	if next.LastDiscard != nil && next.LastDiscarderIndex != nil {
		if prev.LastDiscard == nil || prev.LastDiscard.ID != next.LastDiscard.ID {
			idx := *next.LastDiscarderIndex
			if idx >= 0 && idx < len(next.Players) {
				b.tui.AddLogEntry(fmt.Sprintf("%s discards %s",
					next.Players[idx].Name, formatTileDef(next.LastDiscard.TileDef)))
			}
		}
	}

	for i := range next.Players {
		if i >= len(prev.Players) {
			break
		}
		np, pp := next.Players[i], prev.Players[i]
		for j := len(pp.Melds); j < len(np.Melds); j++ {
			meld := np.Melds[j]
			b.tui.AddLogEntry(fmt.Sprintf("%s melds %s %s", np.Name, meldWord(meld.Kind), formatMeld(meld)))
		}
		for j := len(pp.Bonuses); j < len(np.Bonuses); j++ {
			b.tui.AddLogEntry(fmt.Sprintf("%s reveals %s", np.Name, formatTileDef(np.Bonuses[j].TileDef)))
		}
	}
}

func (b *Bridge) handleYourTurn(msg *sdk.Message) {
	var data sdk.YourTurnData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		return
	}

	b.tui.SetTurnPrompt(data.Phase, data.AvailableActions)

	switch data.Phase {
	case sdk.TurnPhaseDraw:
		b.tui.AddLogEntry("Your turn - draw a tile")
	default:
		b.tui.AddLogEntry("Your turn - choose a discard")
	}

	b.tui.notifyMessageCallback(sdk.MessageTypeYourTurn)
}

func (b *Bridge) handleClaimWindow(msg *sdk.Message) {
	var data sdk.ClaimWindowData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		return
	}

	b.tui.SetClaimPrompt(data.AvailableActions)

	var claims []string
	for _, action := range data.AvailableActions {
		if action != sdk.ActionPass {
			claims = append(claims, string(action))
		}
	}
	b.tui.AddLogEntry(fmt.Sprintf("You can claim the discard: %s (%ds to respond)",
		strings.Join(claims, ", "), data.Timeout))

	b.tui.notifyMessageCallback(sdk.MessageTypeClaimWindow)
}

func (b *Bridge) handleChiOptions(msg *sdk.Message) {
	var data sdk.ChiOptionsData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		return
	}

	b.tui.SetChiOptions(data.Options)

	b.tui.AddLogEntry("More than one chi fits - pick one:")
	for i, option := range data.Options {
		b.tui.AddLogEntry(fmt.Sprintf("  chi %d: %s", i+1, formatTiles(option)))
	}

	b.tui.notifyMessageCallback(sdk.MessageTypeChiOptions)
}

func (b *Bridge) handleRoundOver(msg *sdk.Message) {
	var data sdk.RoundOverData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		return
	}

	b.tui.ClearPrompts()

	b.tui.AddLogEntry("")
	b.tui.AddLogEntry(fmt.Sprintf("=== %s ===", data.Message))
	if data.TaiResult != nil {
		for _, pattern := range data.TaiResult.Patterns {
			b.tui.AddLogEntry(fmt.Sprintf("  %s: %d tai", pattern.Name, pattern.Tai))
		}
		b.tui.AddLogEntry(fmt.Sprintf("  Total: %d tai, %d base points",
			data.TaiResult.Tai, data.TaiResult.BasePoints))
	}
	if data.PaymentResult != nil && b.prev != nil {
		for _, payment := range data.PaymentResult.Payments {
			if payment.Amount >= 0 {
				continue
			}
			if payment.PlayerIndex >= 0 && payment.PlayerIndex < len(b.prev.Players) {
				b.tui.AddLogEntry(fmt.Sprintf("  %s pays %d",
					b.prev.Players[payment.PlayerIndex].Name, -payment.Amount))
			}
		}
	}
	b.tui.AddLogEntry("Type 'next' to deal the next hand")

	b.tui.notifyMessageCallback(sdk.MessageTypeRoundOver)
}

func (b *Bridge) handlePlayerDisconnected(msg *sdk.Message) {
	var data sdk.PlayerDisconnectedData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		return
	}

	b.tui.AddLogEntry(fmt.Sprintf("%s disconnected - a bot plays for them until they return",
		b.seatName(data.PlayerIndex)))

	b.tui.notifyMessageCallback(sdk.MessageTypePlayerDisconnected)
}

func (b *Bridge) handlePlayerReconnected(msg *sdk.Message) {
	var data sdk.PlayerReconnectedData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		return
	}

	b.tui.AddLogEntry(fmt.Sprintf("%s reconnected", b.seatName(data.PlayerIndex)))

	b.tui.notifyMessageCallback(sdk.MessageTypePlayerReconnected)
}

func (b *Bridge) handleError(msg *sdk.Message) {
	var data sdk.ErrorData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		return
	}

	b.tui.AddLogEntry(fmt.Sprintf("Server error: %s", data.Message))

	b.tui.notifyMessageCallback(sdk.MessageTypeError)
}

// Command handlers

func (b *Bridge) handleCommand(action string) {
	switch action {
	case "/leave":
		if err := b.client.Leave(); err != nil {
			b.tui.AddLogEntry(fmt.Sprintf("Error leaving room: %v", err))
			return
		}
		b.tui.AddLogEntry("You left the room")

	case "/quit", "quit":
		b.tui.SendQuitSignal()

	default:
		b.tui.AddLogEntry(fmt.Sprintf("Unknown command: %s", action))
		b.tui.AddLogEntry("Available commands: /leave, /quit")
	}
}

func (b *Bridge) handleGameAction(action string, args []string) {
	var err error

	switch action {
	case "":
		// Enter on an empty line passes an open claim window
		if !b.tui.claimOpen {
			return
		}
		err = b.client.Pass()

	case "ready", "r":
		err = b.client.Ready(true)

	case "unready":
		err = b.client.Ready(false)

	case "start":
		err = b.client.StartGame()

	case "next", "n":
		err = b.client.NextRound()

	case "draw", "d":
		err = b.client.Draw()

	case "discard", "x":
		if len(args) == 0 {
			b.tui.AddLogEntry("Error: Specify a tile: 'discard <number>'")
			return
		}
		var id int
		id, err = resolveTile(args[0], b.tui.hand)
		if err != nil {
			b.tui.AddLogEntry(fmt.Sprintf("Error: %v", err))
			return
		}
		err = b.client.Discard(id)

	case "chi", "c":
		if len(args) > 0 {
			n, convErr := strconv.Atoi(args[0])
			if convErr != nil || n < 1 {
				b.tui.AddLogEntry(fmt.Sprintf("Error: Invalid chi option: %s", args[0]))
				return
			}
			idx := n - 1
			err = b.client.Chi(&idx)
		} else {
			err = b.client.Chi(nil)
		}

	case "pong":
		err = b.client.Pong()

	case "kong", "k":
		if len(args) > 0 {
			var id int
			id, err = resolveTile(args[0], b.tui.hand)
			if err != nil {
				b.tui.AddLogEntry(fmt.Sprintf("Error: %v", err))
				return
			}
			err = b.client.Kong(&id)
		} else {
			err = b.client.Kong(nil)
		}

	case "win", "w", "hu":
		err = b.client.Win()

	case "pass", "p":
		err = b.client.Pass()

	default:
		// A bare number discards that tile
		if _, convErr := strconv.Atoi(action); convErr == nil {
			var id int
			id, err = resolveTile(action, b.tui.hand)
			if err != nil {
				b.tui.AddLogEntry(fmt.Sprintf("Error: %v", err))
				return
			}
			err = b.client.Discard(id)
		} else {
			b.tui.AddLogEntry(fmt.Sprintf("Unknown action: %s", action))
			b.tui.AddLogEntry("Actions: draw, discard <n>, chi [n], pong, kong [tile], win, pass")
			return
		}
	}

	if err != nil {
		b.tui.AddLogEntry(fmt.Sprintf("Error sending action: %s", err.Error()))
		return
	}

	// The server answers with a fresh prompt if more input is needed
	b.tui.ClearPrompts()
}

// seatName returns the display name for a seat in the current game
func (b *Bridge) seatName(index int) string {
	if index >= 0 && index < len(b.tui.players) {
		return b.tui.players[index].Name
	}
	return fmt.Sprintf("Seat %d", index+1)
}

// resolveTile resolves a 1-based hand position or a tile face like "c5"
// into the tile's id
func resolveTile(arg string, hand []mahjong.Tile) (int, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(hand) {
			return 0, fmt.Errorf("no tile %d, hand has %d tiles", n, len(hand))
		}
		return hand[n-1].ID, nil
	}
	def, err := mahjong.ParseDef(normalizeFace(arg))
	if err != nil {
		return 0, err
	}
	for _, t := range hand {
		if t.TileDef == def {
			return t.ID, nil
		}
	}
	return 0, fmt.Errorf("no %s in hand", def)
}

// normalizeFace uppercases a lowercased tile face back into the short
// display form the parser expects
func normalizeFace(s string) string {
	switch s {
	case "e", "s", "w", "n":
		return strings.ToUpper(s)
	case "rd", "gd", "wd":
		return strings.ToUpper(s[:1]) + "d"
	}
	if len(s) == 2 {
		return strings.ToUpper(s[:1]) + s[1:]
	}
	return s
}

// meldWord returns the display word for a meld kind
func meldWord(kind mahjong.MeldKind) string {
	switch kind {
	case mahjong.MeldChi:
		return "chi"
	case mahjong.MeldPong:
		return "pong"
	case mahjong.MeldConcealedKong:
		return "concealed kong"
	default:
		return "kong"
	}
}

// findSeat returns the seat with the given index, or nil
func findSeat(seats []sdk.Seat, index int) *sdk.Seat {
	for i := range seats {
		if seats[i].Index == index {
			return &seats[i]
		}
	}
	return nil
}
