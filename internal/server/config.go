package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server ServerSettings `hcl:"server,block"`
	Room   RoomSettings   `hcl:"room,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// RoomSettings contains the per-room gameplay tunables
type RoomSettings struct {
	ClaimWindowSeconds     int   `hcl:"claim_window_seconds,optional"`
	BotDelayMillis         int   `hcl:"bot_delay_ms,optional"`
	DisconnectGraceSeconds int   `hcl:"disconnect_grace_seconds,optional"`
	MinTai                 int   `hcl:"min_tai,optional"`
	Seed                   int64 `hcl:"seed,optional"`
	Bots                   int   `hcl:"bots,optional"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Room: RoomSettings{
			ClaimWindowSeconds:     15,
			BotDelayMillis:         800,
			DisconnectGraceSeconds: 60,
			MinTai:                 1,
		},
	}
}

// LoadServerConfig loads server configuration from HCL file
func LoadServerConfig(filename string) (*ServerConfig, error) {
	// Check if file exists
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Room.ClaimWindowSeconds == 0 {
		config.Room.ClaimWindowSeconds = 15
	}
	if config.Room.BotDelayMillis == 0 {
		config.Room.BotDelayMillis = 800
	}
	if config.Room.DisconnectGraceSeconds == 0 {
		config.Room.DisconnectGraceSeconds = 60
	}
	if config.Room.MinTai == 0 {
		config.Room.MinTai = 1
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Room.ClaimWindowSeconds < 1 {
		return fmt.Errorf("claim window must be at least one second")
	}
	if c.Room.BotDelayMillis < 0 {
		return fmt.Errorf("bot delay must not be negative")
	}
	if c.Room.DisconnectGraceSeconds < 1 {
		return fmt.Errorf("disconnect grace must be at least one second")
	}
	if c.Room.MinTai < 1 || c.Room.MinTai > 10 {
		return fmt.Errorf("minimum tai must be between 1 and 10")
	}
	if c.Room.Bots < 0 || c.Room.Bots > 3 {
		return fmt.Errorf("preset bots must be between 0 and 3")
	}
	return nil
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// RoomConfig converts the room settings into the runtime tunables a
// Room consumes.
func (c *ServerConfig) RoomConfig() RoomConfig {
	return RoomConfig{
		ClaimWindow:     time.Duration(c.Room.ClaimWindowSeconds) * time.Second,
		BotDelay:        time.Duration(c.Room.BotDelayMillis) * time.Millisecond,
		DisconnectGrace: time.Duration(c.Room.DisconnectGraceSeconds) * time.Second,
		MinTai:          c.Room.MinTai,
	}
}
