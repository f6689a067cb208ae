package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all node configuration.
type Config struct {
	Server        ServerConfig
	CommandCenter CommandCenterConfig
	Node          NodeConfig
	Conversation  ConversationConfig
	Logging       LogConfig
	RateLimit     RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8090"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// CommandCenterConfig holds the remote command center connection settings.
type CommandCenterConfig struct {
	URL            string        `envconfig:"COMMAND_CENTER_URL" default:"http://localhost:8080"`
	APIKey         string        `envconfig:"COMMAND_CENTER_API_KEY"`
	CommandTimeout time.Duration `envconfig:"COMMAND_TIMEOUT" default:"30s"`
	StartTimeout   time.Duration `envconfig:"CONVERSATION_START_TIMEOUT" default:"10s"`
}

// NodeConfig identifies this node to the command center.
type NodeConfig struct {
	ID       string `envconfig:"NODE_ID" default:"node-default" yaml:"node_id"`
	Room     string `envconfig:"NODE_ROOM" default:"living_room" yaml:"room"`
	Timezone string `envconfig:"NODE_TIMEZONE" default:"UTC" yaml:"timezone"`
}

// ConversationConfig bounds the tool-calling loop.
type ConversationConfig struct {
	MaxIterations int           `envconfig:"MAX_ITERATIONS" default:"10"`
	ToolTimeout   time.Duration `envconfig:"TOOL_TIMEOUT" default:"60s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds API rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"20"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"40"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// nodeFile is the on-disk node identity file. Environment variables
// take precedence over file values.
type nodeFile struct {
	NodeID        string `yaml:"node_id"`
	Room          string `yaml:"room"`
	Timezone      string `yaml:"timezone"`
	CommandCenter string `yaml:"command_center"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadWithFile loads configuration from an optional YAML node file,
// then applies environment variables on top. A missing file is not an
// error when path is empty.
func LoadWithFile(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read node file: %w", err)
	}
	var nf nodeFile
	if err := yaml.Unmarshal(data, &nf); err != nil {
		return nil, fmt.Errorf("failed to parse node file %s: %w", path, err)
	}

	// Env wins: only fill fields the environment left at defaults.
	if nf.NodeID != "" && os.Getenv("NODE_ID") == "" {
		cfg.Node.ID = nf.NodeID
	}
	if nf.Room != "" && os.Getenv("NODE_ROOM") == "" {
		cfg.Node.Room = nf.Room
	}
	if nf.Timezone != "" && os.Getenv("NODE_TIMEZONE") == "" {
		cfg.Node.Timezone = nf.Timezone
	}
	if nf.CommandCenter != "" && os.Getenv("COMMAND_CENTER_URL") == "" {
		cfg.CommandCenter.URL = nf.CommandCenter
	}
	return cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8090",
			Host: "0.0.0.0",
		},
		CommandCenter: CommandCenterConfig{
			URL:            "http://localhost:8080",
			CommandTimeout: 30 * time.Second,
			StartTimeout:   10 * time.Second,
		},
		Node: NodeConfig{
			ID:       "node-default",
			Room:     "living_room",
			Timezone: "UTC",
		},
		Conversation: ConversationConfig{
			MaxIterations: 10,
			ToolTimeout:   60 * time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 20,
			Burst:             40,
			Enabled:           true,
		},
	}
}
