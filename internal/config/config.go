// Package config loads the daemon configuration from a TOML file with
// sensible defaults for every field.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/ledgerkit/ledgerd/internal/journal"
	"github.com/ledgerkit/ledgerd/internal/ledger"
)

// Config is the full daemon configuration.
type Config struct {
	API     APIConfig     `toml:"api"`
	Ledger  LedgerConfig  `toml:"ledger"`
	Journal JournalConfig `toml:"journal"`
	Log     LogConfig     `toml:"log"`
}

// APIConfig configures the HTTP server.
type APIConfig struct {
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	Metrics bool   `toml:"metrics"`
}

// LedgerConfig configures the engine's time windows and cashback rate.
// Windows are logical milliseconds, matching every timestamp on the wire.
type LedgerConfig struct {
	TransferWindowMS int64 `toml:"transfer_window_ms"`
	CashbackWindowMS int64 `toml:"cashback_window_ms"`
	CashbackPercent  int64 `toml:"cashback_percent"`
}

// JournalConfig configures the audit journal.
type JournalConfig struct {
	DSN string `toml:"dsn"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// Addr returns the host:port the API server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}

// EngineConfig converts the ledger section to an engine configuration.
func (c *Config) EngineConfig() ledger.Config {
	return ledger.Config{
		TransferWindow:  c.Ledger.TransferWindowMS,
		CashbackWindow:  c.Ledger.CashbackWindowMS,
		CashbackPercent: c.Ledger.CashbackPercent,
	}
}

// DefaultConfig returns the defaults used when no file or field is present.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Host:    "127.0.0.1",
			Port:    8470,
			Metrics: true,
		},
		Ledger: LedgerConfig{
			TransferWindowMS: ledger.MillisPerDay,
			CashbackWindowMS: ledger.MillisPerDay,
			CashbackPercent:  2,
		},
		Journal: JournalConfig{
			DSN: journal.DefaultDSN,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a TOML config file, overlaying defaults. An empty path returns
// the defaults; a missing file at an explicit path is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("invalid api.port %d", c.API.Port)
	}
	if c.Ledger.TransferWindowMS <= 0 {
		return fmt.Errorf("ledger.transfer_window_ms must be positive")
	}
	if c.Ledger.CashbackWindowMS <= 0 {
		return fmt.Errorf("ledger.cashback_window_ms must be positive")
	}
	if c.Ledger.CashbackPercent < 0 || c.Ledger.CashbackPercent > 100 {
		return fmt.Errorf("ledger.cashback_percent must be within [0, 100]")
	}
	return nil
}
