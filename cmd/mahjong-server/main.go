package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/sgmahjong/server/internal/server"
	"golang.org/x/sync/errgroup"
)

var CLI struct {
	Config   string `short:"c" long:"config" default:"mahjong-server.hcl" help:"Path to HCL configuration file"`
	Host     string `short:"H" long:"host" help:"Bind host (overrides config)"`
	Port     int    `short:"p" long:"port" help:"Bind port (overrides config)"`
	LogLevel string `short:"l" long:"log-level" help:"Log level (overrides config)"`
	Seed     int64  `long:"seed" help:"Deal seed, 0 draws from the clock (overrides config)"`
	Bots     int    `short:"b" long:"bots" help:"Bots pre-seated in every new room (overrides config)"`
	MinTai   int    `long:"min-tai" help:"Minimum tai required to win (overrides config)"`
}

func main() {
	kctx := kong.Parse(&CLI)

	// Load configuration
	cfg, err := server.LoadServerConfig(CLI.Config)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		kctx.Exit(1)
	}

	// Apply command line overrides
	if CLI.Host != "" {
		cfg.Server.Address = CLI.Host
	}
	if CLI.Port != 0 {
		cfg.Server.Port = CLI.Port
	}
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}
	if CLI.Seed != 0 {
		cfg.Room.Seed = CLI.Seed
	}
	if CLI.Bots != 0 {
		cfg.Room.Bots = CLI.Bots
	}
	if CLI.MinTai != 0 {
		cfg.Room.MinTai = CLI.MinTai
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		kctx.Exit(1)
	}

	// Setup logging
	logger := log.New(os.Stderr)
	switch cfg.Server.LogLevel {
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

	logger.Info("Starting Mahjong Server",
		"addr", cfg.GetServerAddress(),
		"minTai", cfg.Room.MinTai,
		"bots", cfg.Room.Bots,
		"seed", cfg.Room.Seed)

	rooms := server.NewRoomManager(cfg.RoomConfig(), logger, quartz.NewReal(), cfg.Room.Seed, cfg.Room.Bots)
	srv := server.NewServer(cfg, rooms, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Stop(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server failed", "error", err)
		kctx.Exit(1)
	}
}
