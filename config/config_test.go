package config

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if cfg.RPCAddress != ":8080" {
		t.Fatalf("RPCAddress = %q, want :8080", cfg.RPCAddress)
	}
	if cfg.Economy.InitialTreasury != 500_000 {
		t.Fatalf("InitialTreasury = %d, want 500000", cfg.Economy.InitialTreasury)
	}

	// A second load reads the file it just wrote.
	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if *again != *cfg {
		t.Fatalf("reloaded config differs: %+v vs %+v", again, cfg)
	}
}

func TestLoadRejectsNegativeEconomyValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	contents := "RPCAddress = \":8080\"\n\n[Economy]\nInitialTreasury = -1\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for negative treasury")
	}
}

func TestInitialState(t *testing.T) {
	cfg := &Config{Economy: EconomyConfig{
		InitialTreasury: 1_000,
		EntryFeeHigh:    200,
		EntryFeeLow:     10,
		RewardAmount:    300,
		ItemPrice:       5,
		PlayerBalance:   5_000,
		PlayerTokens:    7,
		PlayerScore:     2,
	}}

	state := cfg.InitialState()
	if state.Treasury.Cmp(big.NewInt(1_000)) != 0 {
		t.Fatalf("treasury = %s, want 1000", state.Treasury)
	}
	if state.Params.EntryFeeLow.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("entryFeeLow = %s, want 10", state.Params.EntryFeeLow)
	}
	if state.Player.RewardTokens != 7 || state.Player.Score != 2 {
		t.Fatalf("player = %+v", state.Player)
	}
	if state.Player.OwnedItems == nil {
		t.Fatalf("owned items map not initialised")
	}
}
