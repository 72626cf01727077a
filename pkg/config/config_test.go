package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STARLING_ACCESS_TOKEN", "token-123")
	t.Setenv("STARLING_API_URL", "")
	t.Setenv("STARLING_DB_PATH", "")
	t.Setenv("LEDGER_OUTPUT_PATH", "")
	t.Setenv("LEDGER_TITLE", "")
	t.Setenv("LEDGER_CURRENCY", "")
	t.Setenv("DEBUG", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Starling.AccessToken != "token-123" {
		t.Errorf("AccessToken = %q, want %q", cfg.Starling.AccessToken, "token-123")
	}
	if cfg.Starling.APIURL != "https://api.starlingbank.com/api/v2" {
		t.Errorf("APIURL = %q, want production default", cfg.Starling.APIURL)
	}
	if cfg.Ledger.DBPath != "./starling.db" {
		t.Errorf("DBPath = %q, want %q", cfg.Ledger.DBPath, "./starling.db")
	}
	if cfg.Ledger.Title != "Starling Ledger" {
		t.Errorf("Title = %q, want %q", cfg.Ledger.Title, "Starling Ledger")
	}
	if cfg.Ledger.Currency != "GBP" {
		t.Errorf("Currency = %q, want %q", cfg.Ledger.Currency, "GBP")
	}
	if cfg.Debug {
		t.Error("Debug = true, want false")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STARLING_ACCESS_TOKEN", "token-123")
	t.Setenv("STARLING_API_URL", "http://localhost:8080/api/v2")
	t.Setenv("STARLING_DB_PATH", "/tmp/sync.db")
	t.Setenv("LEDGER_CURRENCY", "EUR")
	t.Setenv("DEBUG", "true")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Starling.APIURL != "http://localhost:8080/api/v2" {
		t.Errorf("APIURL = %q, want override", cfg.Starling.APIURL)
	}
	if cfg.Ledger.DBPath != "/tmp/sync.db" {
		t.Errorf("DBPath = %q, want override", cfg.Ledger.DBPath)
	}
	if cfg.Ledger.Currency != "EUR" {
		t.Errorf("Currency = %q, want %q", cfg.Ledger.Currency, "EUR")
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.Ledger.DBPath = "./starling.db"

	if err := cfg.Validate("ledger.dbPath"); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}

	err := cfg.Validate("starling.accessToken", "ledger.dbPath")
	if err == nil {
		t.Fatal("Validate() error = nil, want missing-field error")
	}
	if got := err.Error(); !strings.Contains(got, "starling.accessToken") {
		t.Errorf("Validate() error = %q, want mention of starling.accessToken", got)
	}
}
