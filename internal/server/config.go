package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete server configuration
type Config struct {
	Server  *Settings      `hcl:"server,block"`
	Tables  []TableConfig  `hcl:"table,block"`
	History *HistoryConfig `hcl:"history,block"`
}

// Settings contains server-level configuration
type Settings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// TableConfig defines one poker table
type TableConfig struct {
	Name            string `hcl:"name,label"`
	SmallBlind      int    `hcl:"small_blind"`
	BigBlind        int    `hcl:"big_blind"`
	BuyInMin        int    `hcl:"buy_in_min,optional"`
	BuyInMax        int    `hcl:"buy_in_max,optional"`
	TurnTimeoutSecs int    `hcl:"turn_timeout,optional"`
}

// HistoryConfig controls hand history persistence
type HistoryConfig struct {
	Enabled   bool   `hcl:"enabled,optional"`
	RedisAddr string `hcl:"redis_addr,optional"`
	Keep      int    `hcl:"keep,optional"`
}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() *Config {
	return &Config{
		Server: &Settings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Tables: []TableConfig{
			{
				Name:            "main",
				SmallBlind:      10,
				BigBlind:        20,
				BuyInMin:        1000,
				BuyInMax:        10000,
				TurnTimeoutSecs: 30,
			},
		},
		History: &HistoryConfig{
			RedisAddr: "localhost:6379",
			Keep:      100,
		},
	}
}

// LoadConfig loads configuration from an HCL file, falling back to
// defaults when the file does not exist
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing config: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("decoding config: %s", diags.Error())
	}
	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Server == nil {
		c.Server = &Settings{}
	}
	if c.History == nil {
		c.History = &HistoryConfig{}
	}
	if c.Server.Address == "" {
		c.Server.Address = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	for i := range c.Tables {
		t := &c.Tables[i]
		if t.BuyInMin == 0 {
			t.BuyInMin = t.BigBlind * 50
		}
		if t.BuyInMax == 0 {
			t.BuyInMax = t.BigBlind * 500
		}
		if t.TurnTimeoutSecs == 0 {
			t.TurnTimeoutSecs = 30
		}
	}
	if c.History.RedisAddr == "" {
		c.History.RedisAddr = "localhost:6379"
	}
	if c.History.Keep == 0 {
		c.History.Keep = 100
	}
}

// Validate checks the configuration for contradictions
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if len(c.Tables) == 0 {
		return fmt.Errorf("at least one table must be configured")
	}
	seen := make(map[string]bool)
	for _, t := range c.Tables {
		if seen[t.Name] {
			return fmt.Errorf("duplicate table name %q", t.Name)
		}
		seen[t.Name] = true
		if t.SmallBlind <= 0 {
			return fmt.Errorf("table %s: small blind must be positive", t.Name)
		}
		if t.BigBlind <= t.SmallBlind {
			return fmt.Errorf("table %s: big blind must exceed small blind", t.Name)
		}
		if t.BuyInMin > t.BuyInMax {
			return fmt.Errorf("table %s: buy-in minimum above maximum", t.Name)
		}
	}
	return nil
}

// ListenAddress returns the address:port to bind
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
