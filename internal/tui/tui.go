package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/sgmahjong/server/mahjong"
	"github.com/sgmahjong/server/sdk"
)

// TUIModel represents the Bubble Tea model for the mahjong client
type TUIModel struct {
	logger *log.Logger

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	// State
	gameLog      []string
	actionResult chan ActionResult
	quitSignal   chan bool
	quitting     bool
	focusedPane  int // 0 = log, 1 = input

	// Room state (event-driven, all state comes from the server)
	roomID    string
	yourIndex int
	hostIndex int
	inGame    bool
	seats     []sdk.Seat

	// Table state
	players       []PlayerInfo
	hand          []mahjong.Tile
	wallRemaining int
	roundWind     mahjong.Wind
	roundNumber   int
	lastDiscard   *mahjong.Tile
	lastDiscarder int
	phase         sdk.Phase

	// Prompt state
	yourTurn     bool
	turnPhase    sdk.TurnPhase
	turnActions  []sdk.ActionType
	claimOpen    bool
	claimActions []sdk.ActionType
	chiOptions   [][]mahjong.Tile

	// Dimensions
	width       int
	height      int
	initialized bool // Track if viewport has been properly sized

	// Test mode
	testMode      bool
	capturedLog   []string               // For test assertions
	eventCallback func(eventType string) // Callback for test event synchronization
}

// ActionResult represents the result of a user action
type ActionResult struct {
	Action   string
	Args     []string
	Continue bool
	Error    error
}

// QuitMsg is a custom message to signal quit
type QuitMsg struct{}

// PlayerInfo holds one seat's public state for the sidebar
type PlayerInfo struct {
	Name      string
	SeatWind  mahjong.Wind
	Score     int
	HandCount int
	Melds     []mahjong.Meld
	Bonuses   []mahjong.Tile
	IsBot     bool
	Connected bool
	IsCurrent bool
}

// NewTUIModel creates a new TUI model for network mode
func NewTUIModel(logger *log.Logger) *TUIModel {
	return NewTUIModelWithOptions(logger, false)
}

// NewTUIModelWithOptions creates a new TUI model with test mode option
func NewTUIModelWithOptions(logger *log.Logger, testMode bool) *TUIModel {
	// Create viewport for game log with minimal initial size
	// Will be properly sized when WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	// Create textinput for action input
	ti := textinput.New()
	ti.Placeholder = "ready, start, draw, discard 3, pong, pass, etc."
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 100
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	return &TUIModel{
		logger:        logger.WithPrefix("tui"),
		logViewport:   vp,
		actionInput:   ti,
		gameLog:       []string{},
		actionResult:  make(chan ActionResult, 1),
		quitSignal:    make(chan bool, 1),
		focusedPane:   1, // Start with input focused
		yourIndex:     -1,
		lastDiscarder: -1,
		testMode:      testMode,
		capturedLog:   []string{},
	}
}

// Init initializes the TUI model
func (m *TUIModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.listenForQuit())
}

// listenForQuit returns a command that listens for quit signals
func (m *TUIModel) listenForQuit() tea.Cmd {
	return func() tea.Msg {
		<-m.quitSignal
		return QuitMsg{}
	}
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case QuitMsg:
		m.quitting = true
		return m, tea.Sequence(tea.ClearScreen, tea.Quit)

	case tea.WindowSizeMsg:
		m.logger.Debug("Updating dimensions", "width", msg.Width, "height", msg.Height)
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			m.actionResult <- ActionResult{Action: "quit", Continue: false}
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "tab":
			// Switch focus between log and input
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 { // Only process enter in input pane
				action := strings.TrimSpace(m.actionInput.Value())
				// Process both empty and non-empty actions
				m.processAction(action)
				m.actionInput.SetValue("")
			}
		case "up", "k":
			if m.focusedPane == 0 { // Log pane focused
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 { // Log pane focused
				m.logViewport.ScrollDown(1)
			}
		case "pgup", "b":
			if m.focusedPane == 0 { // Log pane focused
				m.logViewport.HalfPageUp()
			}
		case "pgdown", "f":
			if m.focusedPane == 0 { // Log pane focused
				m.logViewport.HalfPageDown()
			}
		case "home", "g":
			if m.focusedPane == 0 { // Log pane focused
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == 0 { // Log pane focused
				m.logViewport.GotoBottom()
			}
		}
	}

	// Update components
	var cmd tea.Cmd

	// Only update input if it's focused
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	// Always update viewport (for scrolling)
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}

	// Don't render until we have valid dimensions
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Action pane (bottom, full width)
	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	calculatedActionWidth := m.width - 2       // Full width minus border
	calculatedActionHeight := actionHeight - 2 // Content height minus border

	// Ensure action pane dimensions are valid (minimum 1x1)
	if calculatedActionWidth < 1 {
		calculatedActionWidth = 1
	}
	if calculatedActionHeight < 1 {
		calculatedActionHeight = 1
	}

	actionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(calculatedActionWidth).
		Height(calculatedActionHeight)

	actionPane := actionStyle.Render(actionContent)

	// Sidebar pane (right side of log pane, same height as log pane)
	sidebarContent := m.renderSidebarPane()
	sidebarWidth := lipgloss.Width(sidebarContent)

	calculatedSidebarWidth := 30
	if sidebarWidth > calculatedSidebarWidth {
		calculatedSidebarWidth = sidebarWidth
	}

	calculatedSidebarHeight := m.height - actionHeight - 4 // Account for border x 2 and action pane

	// Ensure sidebar dimensions are valid (minimum 1x1)
	if calculatedSidebarWidth < 1 {
		calculatedSidebarWidth = 1
	}
	if calculatedSidebarHeight < 1 {
		calculatedSidebarHeight = 1
	}

	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(calculatedSidebarWidth).
		Height(calculatedSidebarHeight)

	sidebarPane := sidebarStyle.Render(sidebarContent)

	// Log pane (top, fills height minus action pane)
	logContent := m.renderLogPane()
	m.logViewport.SetContent(logContent)

	calculatedLogWidth := m.width - calculatedSidebarWidth - 4 // Account for border x 2 and sidebar
	calculatedLogHeight := m.height - actionHeight - 4         // Account for border x 2 and action pane

	// Ensure viewport dimensions are valid (minimum 1x1)
	if calculatedLogWidth < 1 {
		calculatedLogWidth = 1
	}
	if calculatedLogHeight < 1 {
		calculatedLogHeight = 1
	}

	m.logViewport.Width = calculatedLogWidth
	m.logViewport.Height = calculatedLogHeight

	// On first proper sizing, reset to top to avoid starting scrolled down
	if !m.initialized && calculatedLogWidth > 1 && calculatedLogHeight > 1 {
		m.logViewport.GotoTop()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(calculatedLogWidth).
		Height(calculatedLogHeight)

	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	logPane := logStyle.Render(m.logViewport.View())

	// Top row (log pane + sidebar pane)
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)

	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderLogPane renders the game log pane content
func (m *TUIModel) renderLogPane() string {
	return strings.Join(m.gameLog, "\n")
}

// renderSidebarPane creates the sidebar content
func (m *TUIModel) renderSidebarPane() string {
	var content strings.Builder

	if m.inGame && len(m.players) > 0 {
		content.WriteString(WarningStyle.Render(
			fmt.Sprintf("%s round, hand %d", windWord(m.roundWind), m.roundNumber)))
		content.WriteString("\n")
		content.WriteString(InfoStyle.Render(fmt.Sprintf("Wall: %d tiles", m.wallRemaining)))
		content.WriteString("\n")
		if m.lastDiscard != nil {
			content.WriteString(InfoStyle.Render("Last discard: "))
			content.WriteString(formatTileDef(m.lastDiscard.TileDef))
			content.WriteString("\n")
		}
		content.WriteString("\n")

		for i, player := range m.players {
			marker := "  "
			if player.IsCurrent {
				marker = "* "
			}
			name := player.Name
			if i == m.yourIndex {
				name += " (you)"
			}
			tag := ""
			if player.IsBot {
				tag = " [bot]"
			} else if !player.Connected {
				tag = " [away]"
			}
			content.WriteString(PlayerInfoStyle.Render(
				fmt.Sprintf("%s%s %s%s", marker, player.SeatWind, name, tag)))
			content.WriteString("\n")
			content.WriteString(fmt.Sprintf("   score %d, %d tiles", player.Score, player.HandCount))
			content.WriteString("\n")
			if len(player.Melds) > 0 {
				var melds []string
				for _, meld := range player.Melds {
					melds = append(melds, formatMeld(meld))
				}
				content.WriteString("   " + strings.Join(melds, " "))
				content.WriteString("\n")
			}
			if len(player.Bonuses) > 0 {
				content.WriteString("   bonus " + formatTiles(player.Bonuses))
				content.WriteString("\n")
			}
		}
		return content.String()
	}

	// Lobby view
	if m.roomID != "" {
		content.WriteString(WarningStyle.Render(fmt.Sprintf("Room %s", m.roomID)))
		content.WriteString("\n\n")
		content.WriteString(InfoStyle.Render("Seats:"))
		content.WriteString("\n")
		for seat := 0; seat < 4; seat++ {
			line := fmt.Sprintf("  %d: empty", seat+1)
			for _, s := range m.seats {
				if s.Index != seat {
					continue
				}
				tags := ""
				if s.IsBot {
					tags += " [bot]"
				}
				if seat == m.hostIndex {
					tags += " [host]"
				}
				if s.Ready {
					tags += " ready"
				}
				line = fmt.Sprintf("  %d: %s%s", seat+1, s.Name, tags)
			}
			content.WriteString(line)
			content.WriteString("\n")
		}
	}

	return content.String()
}

// renderActionPane renders the action input pane
func (m *TUIModel) renderActionPane() string {
	var content strings.Builder

	// The hand stays visible for the whole game, not just on our turn;
	// mahjong players plan claims between turns.
	if m.inGame && len(m.hand) > 0 {
		content.WriteString(m.renderHand())
		content.WriteString("\n")
	}

	switch {
	case m.claimOpen:
		content.WriteString(m.renderClaimActions())
		content.WriteString("\n")
	case m.yourTurn:
		content.WriteString(m.renderTurnActions())
		content.WriteString("\n")
	case m.inGame && m.phase == sdk.PhaseFinished:
		content.WriteString(HandInfoStyle.Render("Round over"))
		content.WriteString("\n")
	case m.inGame:
		content.WriteString(HandInfoStyle.Render("Waiting..."))
		content.WriteString("\n")
	}

	// Update input placeholder based on game state and show input field
	switch {
	case m.claimOpen:
		m.actionInput.Placeholder = "pong, kong, chi, win, or Enter to pass"
	case m.yourTurn && m.turnPhase == sdk.TurnPhaseDraw:
		m.actionInput.Placeholder = "Enter 'draw' (or kong/win if offered)"
	case m.yourTurn:
		m.actionInput.Placeholder = "Enter a tile number to discard"
	case m.inGame && m.phase == sdk.PhaseFinished:
		m.actionInput.Placeholder = "Enter 'next' for another hand, 'quit' to exit"
	case m.inGame:
		m.actionInput.Placeholder = "Waiting for other players, 'quit' to exit"
	default:
		m.actionInput.Placeholder = "ready, start, next, /leave, /quit"
	}

	content.WriteString(m.actionInput.View())
	content.WriteString("\n")

	// Show help text
	if m.focusedPane == 0 {
		content.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")).Render(
			"Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"))
	} else {
		content.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")).Render(
			"Tab to scroll log • Enter to submit • Ctrl+C to quit"))
	}

	// Return content without styling - let the parent handle sizing and focus
	return content.String()
}

// renderHand renders the player's tiles with the numbers used to discard them
func (m *TUIModel) renderHand() string {
	var parts []string
	for i, t := range m.hand {
		parts = append(parts, InfoStyle.Render(fmt.Sprintf("%d:", i+1))+formatTileDef(t.TileDef))
	}
	return HandInfoStyle.Render("Hand: ") + strings.Join(parts, " ")
}

// renderTurnActions renders the actions the server offered for this turn
func (m *TUIModel) renderTurnActions() string {
	var actions []string
	for _, action := range m.turnActions {
		switch action {
		case sdk.ActionDraw:
			actions = append(actions, SuccessStyle.Render("[draw]"))
		case sdk.ActionDiscard:
			actions = append(actions, SuccessStyle.Render("[discard <n>]"))
		case sdk.ActionKong:
			actions = append(actions, WarningStyle.Render("[kong]"))
		case sdk.ActionWin:
			actions = append(actions, WarningStyle.Render("[win]"))
		}
	}
	if len(actions) == 0 {
		actions = append(actions, ErrorStyle.Render("[no actions available]"))
	}
	return ActionsStyle.Render("Your turn: " + strings.Join(actions, " "))
}

// renderClaimActions renders the claims offered on the pending discard
func (m *TUIModel) renderClaimActions() string {
	var actions []string
	for _, action := range m.claimActions {
		switch action {
		case sdk.ActionWin:
			actions = append(actions, WarningStyle.Render("[win]"))
		case sdk.ActionKong:
			actions = append(actions, WarningStyle.Render("[kong]"))
		case sdk.ActionPong:
			actions = append(actions, SuccessStyle.Render("[pong]"))
		case sdk.ActionChi:
			actions = append(actions, SuccessStyle.Render("[chi]"))
		case sdk.ActionPass:
			actions = append(actions, InfoStyle.Render("[pass]"))
		}
	}
	return ActionsStyle.Render("Claim: " + strings.Join(actions, " "))
}

// formatTileDef renders a tile face in its suit colour
func formatTileDef(d mahjong.TileDef) string {
	s := d.String()
	switch {
	case d.Kind == mahjong.KindSuit && d.Suit == mahjong.Character:
		return CharacterTileStyle.Render(s)
	case d.Kind == mahjong.KindSuit && d.Suit == mahjong.Bamboo:
		return BambooTileStyle.Render(s)
	case d.Kind == mahjong.KindSuit:
		return DotTileStyle.Render(s)
	case d.IsBonus():
		return BonusTileStyle.Render(s)
	default:
		return HonorTileStyle.Render(s)
	}
}

// formatTiles renders a tile group like "[C1 C2 C3]"
func formatTiles(tiles []mahjong.Tile) string {
	if len(tiles) == 0 {
		return ""
	}
	var formatted []string
	for _, t := range tiles {
		formatted = append(formatted, formatTileDef(t.TileDef))
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

// formatMeld renders a declared meld. Concealed kongs show face down to
// match what the other seats would see on a real table.
func formatMeld(meld mahjong.Meld) string {
	if meld.Concealed() {
		return "[" + HonorTileStyle.Render("##") + " " + formatTileDef(meld.Def()) + " " + HonorTileStyle.Render("##") + "]"
	}
	return formatTiles(meld.Tiles)
}

// windWord returns the long display form of a wind
func windWord(w mahjong.Wind) string {
	switch w {
	case mahjong.East:
		return "East"
	case mahjong.South:
		return "South"
	case mahjong.West:
		return "West"
	default:
		return "North"
	}
}

// AddLogEntry adds an entry to the game log
func (m *TUIModel) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)

	// In test mode, also capture the log entry
	if m.testMode {
		m.capturedLog = append(m.capturedLog, entry)
		return // Skip UI updates in test mode
	}

	// Update content and auto-scroll to bottom
	content := strings.Join(m.gameLog, "\n")
	m.logViewport.SetContent(content)

	// Only call GotoBottom if viewport has valid dimensions
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// AddLogEntryAndScrollToShow adds an entry and scrolls to show it at the top
func (m *TUIModel) AddLogEntryAndScrollToShow(entry string) {
	m.gameLog = append(m.gameLog, entry)

	// In test mode, also capture the log entry
	if m.testMode {
		m.capturedLog = append(m.capturedLog, entry)
		return // Skip UI updates in test mode
	}

	content := strings.Join(m.gameLog, "\n")
	m.logViewport.SetContent(content)

	// Scroll to show the new entry at the top of the viewport
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		targetLine := len(m.gameLog) - 1
		m.logViewport.SetYOffset(targetLine)
	}
}

// AddBoldLogEntry adds a bold entry to the top of the game log
func (m *TUIModel) AddBoldLogEntry(entry string) {
	// Use ANSI bold codes for the entry
	boldEntry := fmt.Sprintf("\033[1m%s\033[0m", entry)

	// In test mode, capture without ANSI codes
	if m.testMode {
		m.capturedLog = append([]string{entry}, m.capturedLog...)
		m.gameLog = append([]string{boldEntry}, m.gameLog...)
		return // Skip UI updates in test mode
	}

	// Insert at the beginning of the log
	m.gameLog = append([]string{boldEntry}, m.gameLog...)
	content := strings.Join(m.gameLog, "\n")
	m.logViewport.SetContent(content)
	m.logViewport.GotoTop()
}

// ClearLog clears the game log
func (m *TUIModel) ClearLog() {
	m.gameLog = []string{}
	m.logViewport.SetContent("")
}

// SetRoom updates the lobby view from a room snapshot
func (m *TUIModel) SetRoom(room sdk.Room) {
	m.roomID = room.ID
	m.yourIndex = room.YourIndex
	m.hostIndex = room.HostIndex
	m.inGame = room.InGame
	m.seats = room.Seats
}

// UpdateTable updates the table view from a filtered game state
func (m *TUIModel) UpdateTable(state sdk.GameState) {
	m.inGame = true
	m.yourIndex = state.YourIndex
	m.players = playersFromState(state)
	m.wallRemaining = state.WallRemaining
	m.roundWind = state.RoundWind
	m.roundNumber = state.RoundNumber
	m.lastDiscard = state.LastDiscard
	m.phase = state.Phase
	if state.LastDiscarderIndex != nil {
		m.lastDiscarder = *state.LastDiscarderIndex
	} else {
		m.lastDiscarder = -1
	}
	if state.YourIndex >= 0 && state.YourIndex < len(state.Players) {
		m.hand = state.Players[state.YourIndex].Hand
	}
}

// SetTurnPrompt marks the start of this player's turn
func (m *TUIModel) SetTurnPrompt(phase sdk.TurnPhase, actions []sdk.ActionType) {
	m.yourTurn = true
	m.turnPhase = phase
	m.turnActions = actions
	m.claimOpen = false
	m.chiOptions = nil
}

// SetClaimPrompt opens a claim prompt on the pending discard
func (m *TUIModel) SetClaimPrompt(actions []sdk.ActionType) {
	m.claimOpen = true
	m.claimActions = actions
	m.yourTurn = false
	m.chiOptions = nil
}

// SetChiOptions stores the chi combinations the server offered
func (m *TUIModel) SetChiOptions(options [][]mahjong.Tile) {
	m.chiOptions = options
}

// ClearPrompts drops any pending turn or claim prompt
func (m *TUIModel) ClearPrompts() {
	m.yourTurn = false
	m.claimOpen = false
	m.chiOptions = nil
}

// processAction processes a user action
func (m *TUIModel) processAction(input string) {
	parts := strings.Fields(strings.ToLower(input))

	var action string
	var args []string

	if len(parts) == 0 {
		// Empty input (Enter pressed with no text)
		action = ""
		args = []string{}
	} else {
		action = parts[0]
		args = parts[1:]
	}

	// Send action result through channel
	m.actionResult <- ActionResult{
		Action:   action,
		Args:     args,
		Continue: true, // Let the command handler decide whether to continue
	}
}

// WaitForAction waits for user input (for use by the bridge command loop)
func (m *TUIModel) WaitForAction() (string, []string, bool, error) {
	result := <-m.actionResult
	return result.Action, result.Args, result.Continue, result.Error
}

// SendQuitSignal signals the TUI to quit gracefully
func (m *TUIModel) SendQuitSignal() {
	select {
	case m.quitSignal <- true:
	default:
		// Channel is full, quit signal already sent
	}
}

// GetCapturedLog returns the captured log entries (test mode only)
func (m *TUIModel) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	// Return a copy to prevent modification
	result := make([]string, len(m.capturedLog))
	copy(result, m.capturedLog)
	return result
}

// InjectAction programmatically injects an action (test mode only)
func (m *TUIModel) InjectAction(action string, args []string) error {
	if !m.testMode {
		return fmt.Errorf("action injection only available in test mode")
	}

	select {
	case m.actionResult <- ActionResult{
		Action:   action,
		Args:     args,
		Continue: true,
	}:
		return nil
	default:
		return fmt.Errorf("action channel full")
	}
}

// IsTestMode returns whether the TUI is in test mode
func (m *TUIModel) IsTestMode() bool {
	return m.testMode
}

// SetEventCallback sets a callback function for test event synchronization
func (m *TUIModel) SetEventCallback(callback func(eventType string)) {
	if m.testMode {
		m.eventCallback = callback
	}
}

// notifyMessageCallback calls the event callback if in test mode
func (m *TUIModel) notifyMessageCallback(msgType sdk.MessageType) {
	if m.testMode && m.eventCallback != nil {
		m.eventCallback(string(msgType))
	}
}

// playersFromState converts the wire players into sidebar rows
func playersFromState(state sdk.GameState) []PlayerInfo {
	players := make([]PlayerInfo, len(state.Players))
	for i, p := range state.Players {
		players[i] = PlayerInfo{
			Name:      p.Name,
			SeatWind:  p.SeatWind,
			Score:     p.Score,
			HandCount: p.HandCount,
			Melds:     p.Melds,
			Bonuses:   p.Bonuses,
			IsBot:     p.IsBot,
			Connected: p.Connected,
			IsCurrent: p.IsCurrentTurn,
		}
	}
	return players
}
