package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 8470 {
		t.Errorf("API.Port = %d, want %d", cfg.API.Port, 8470)
	}
	if cfg.Ledger.TransferWindowMS != 86400000 {
		t.Errorf("Ledger.TransferWindowMS = %d, want 86400000", cfg.Ledger.TransferWindowMS)
	}
	if cfg.Ledger.CashbackPercent != 2 {
		t.Errorf("Ledger.CashbackPercent = %d, want 2", cfg.Ledger.CashbackPercent)
	}
	if cfg.Journal.DSN != ":memory:" {
		t.Errorf("Journal.DSN = %q, want %q", cfg.Journal.DSN, ":memory:")
	}
	if cfg.Addr() != "127.0.0.1:8470" {
		t.Errorf("Addr() = %q, want %q", cfg.Addr(), "127.0.0.1:8470")
	}
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.API.Port != DefaultConfig().API.Port {
		t.Errorf("Port = %d, want default %d", cfg.API.Port, DefaultConfig().API.Port)
	}
}

func TestLoad_OverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledgerd.toml")
	data := `
[api]
port = 9000

[ledger]
cashback_percent = 5
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.API.Port != 9000 {
		t.Errorf("API.Port = %d, want 9000", cfg.API.Port)
	}
	if cfg.Ledger.CashbackPercent != 5 {
		t.Errorf("CashbackPercent = %d, want 5", cfg.Ledger.CashbackPercent)
	}
	// Untouched fields keep their defaults.
	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want default", cfg.API.Host)
	}
	if cfg.Ledger.TransferWindowMS != 86400000 {
		t.Errorf("TransferWindowMS = %d, want default", cfg.Ledger.TransferWindowMS)
	}
}

func TestLoad_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad port", "[api]\nport = -1\n"},
		{"zero window", "[ledger]\ntransfer_window_ms = 0\n"},
		{"percent over 100", "[ledger]\ncashback_percent = 101\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.toml")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load should reject invalid config")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load should fail for an explicit missing path")
	}
}
