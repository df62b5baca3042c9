package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/sgmahjong/server/internal/tui"
	"github.com/sgmahjong/server/sdk"
)

var CLI struct {
	Server   string `short:"s" long:"server" default:"ws://localhost:8080" help:"Server URL to connect to"`
	Room     string `short:"r" long:"room" default:"main" help:"Room to join"`
	Name     string `short:"n" long:"name" help:"Player name"`
	Avatar   string `long:"avatar" default:"🀄" help:"Avatar shown to the other seats"`
	Token    string `long:"token" help:"Reconnect token from a previous session"`
	LogLevel string `short:"l" long:"log-level" default:"info" help:"Log level"`
	LogFile  string `long:"log-file" default:"mahjong-client.log" help:"Log file path"`
	NoColor  bool   `long:"no-color" help:"Disable colored output"`
}

func main() {
	kctx := kong.Parse(&CLI)

	// Get player name if not set
	name := CLI.Name
	if name == "" {
		fmt.Print("Enter your player name: ")
		var input string
		_, _ = fmt.Scanln(&input)
		name = strings.TrimSpace(input)
		if name == "" {
			fmt.Println("Player name is required")
			kctx.Exit(1)
		}
	}

	if CLI.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	// The TUI owns the terminal, so logs go to a file
	logFile, err := os.OpenFile(CLI.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		fmt.Printf("Failed to open log file: %v\n", err)
		kctx.Exit(1)
	}
	defer func() { _ = logFile.Close() }()

	logger := log.New(logFile)
	switch CLI.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	logger.Info("Starting Mahjong Client",
		"server", CLI.Server,
		"room", CLI.Room,
		"player", name)

	// Create TUI model
	tuiModel := tui.NewTUIModel(logger)

	// Create WebSocket client
	wsClient := sdk.NewClient(CLI.Server, CLI.Room, name, CLI.Avatar, logger)
	if CLI.Token != "" {
		wsClient.SetReconnectToken(CLI.Token)
	}

	// Set up the bridge between client and TUI
	bridge := tui.NewBridge(wsClient, tuiModel)

	// Connect to server
	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = wsClient.Connect(connectCtx)
	cancel()
	if err != nil {
		fmt.Printf("Failed to connect to server: %v\n", err)
		kctx.Exit(1)
	}
	defer func() { _ = wsClient.Disconnect() }()

	// Start TUI
	program := tea.NewProgram(tuiModel, tea.WithAltScreen())

	// Add initial welcome message
	tuiModel.AddLogEntry("=== Singapore Mahjong ===")
	tuiModel.AddLogEntry("Connected to server: " + CLI.Server)
	tuiModel.AddLogEntry("Player: " + name)
	tuiModel.AddLogEntry("")
	tuiModel.AddLogEntry("Lobby commands:")
	tuiModel.AddLogEntry("  \033[1mready\033[0m / \033[1munready\033[0m - mark yourself ready")
	tuiModel.AddLogEntry("  \033[1mstart\033[0m - start the game (host only)")
	tuiModel.AddLogEntry("  \033[1mnext\033[0m - deal the next hand")
	tuiModel.AddLogEntry("  \033[1m/leave\033[0m - give your seat to a bot for good")
	tuiModel.AddLogEntry("  \033[1m/quit\033[0m - quit the game")
	tuiModel.AddLogEntry("")
	tuiModel.AddLogEntry("Turn commands: \033[1mdraw\033[0m, \033[1mdiscard <n>\033[0m, \033[1mkong [tile]\033[0m, \033[1mwin\033[0m")
	tuiModel.AddLogEntry("Claim commands: \033[1mchi [n]\033[0m, \033[1mpong\033[0m, \033[1mkong\033[0m, \033[1mwin\033[0m, \033[1mpass\033[0m (or Enter)")
	tuiModel.AddLogEntry("")

	// Start command handler
	bridge.Start()

	// Run TUI
	if _, err := program.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		kctx.Exit(1)
	}

	// Cleanup
	_ = wsClient.Disconnect()
}
