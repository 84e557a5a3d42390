package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8011" {
		t.Errorf("port = %q, want 8011", cfg.Port)
	}
	if cfg.TickInterval != time.Second {
		t.Errorf("tick interval = %s, want 1s", cfg.TickInterval)
	}
	if cfg.ActionRate != 10 || cfg.ActionBurst != 20 {
		t.Errorf("rate limit defaults = %v/%d", cfg.ActionRate, cfg.ActionBurst)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("TICK_INTERVAL", "250ms")
	t.Setenv("BALANCE_FILE", "/etc/hexrift/balance.yaml")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.TickInterval != 250*time.Millisecond {
		t.Errorf("tick interval = %s", cfg.TickInterval)
	}
	if cfg.BalanceFile != "/etc/hexrift/balance.yaml" {
		t.Errorf("balance file = %q", cfg.BalanceFile)
	}
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("TICK_INTERVAL", "sometimes")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error for an unparsable duration")
	}
}
