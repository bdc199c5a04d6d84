package config

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"gamehub/core/types"
)

// EconomyConfig seeds the ledger for a fresh session. Monetary values are
// settlement micro-units; ItemPrice and PlayerTokens are reward tokens.
type EconomyConfig struct {
	InitialTreasury int64  `toml:"InitialTreasury"`
	EntryFeeHigh    int64  `toml:"EntryFeeHigh"`
	EntryFeeLow     int64  `toml:"EntryFeeLow"`
	RewardAmount    int64  `toml:"RewardAmount"`
	ItemPrice       uint64 `toml:"ItemPrice"`
	PlayerBalance   int64  `toml:"PlayerBalance"`
	PlayerTokens    uint64 `toml:"PlayerTokens"`
	PlayerScore     uint64 `toml:"PlayerScore"`
}

// Config is the hub daemon configuration.
type Config struct {
	RPCAddress     string        `toml:"RPCAddress"`
	GatewayAddress string        `toml:"GatewayAddress"`
	Env            string        `toml:"Env"`
	Economy        EconomyConfig `toml:"Economy"`
}

// Load reads the configuration from the given path, creating a default
// file when none exists yet.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations that would seed an invalid ledger.
func (c *Config) Validate() error {
	e := c.Economy
	for name, value := range map[string]int64{
		"InitialTreasury": e.InitialTreasury,
		"EntryFeeHigh":    e.EntryFeeHigh,
		"EntryFeeLow":     e.EntryFeeLow,
		"RewardAmount":    e.RewardAmount,
		"PlayerBalance":   e.PlayerBalance,
	} {
		if value < 0 {
			return fmt.Errorf("economy %s must not be negative, got %d", name, value)
		}
	}
	return nil
}

// InitialState builds the session's starting ledger from the configured
// economy values.
func (c *Config) InitialState() *types.LedgerState {
	e := c.Economy
	return (&types.LedgerState{
		Treasury: big.NewInt(e.InitialTreasury),
		Params: types.Parameters{
			EntryFeeHigh: big.NewInt(e.EntryFeeHigh),
			EntryFeeLow:  big.NewInt(e.EntryFeeLow),
			RewardAmount: big.NewInt(e.RewardAmount),
			ItemPrice:    e.ItemPrice,
		},
		Player: types.PlayerState{
			Balance:      big.NewInt(e.PlayerBalance),
			RewardTokens: e.PlayerTokens,
			Score:        e.PlayerScore,
		},
	}).Normalize()
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.RPCAddress) == "" {
		cfg.RPCAddress = ":8080"
	}
	if strings.TrimSpace(cfg.GatewayAddress) == "" {
		cfg.GatewayAddress = ":8081"
	}
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	cfg := &Config{
		RPCAddress:     ":8080",
		GatewayAddress: ":8081",
		Env:            "local",
		Economy: EconomyConfig{
			InitialTreasury: 500_000,
			EntryFeeHigh:    100_000,
			EntryFeeLow:     5_000,
			RewardAmount:    150_000,
			ItemPrice:       50,
			PlayerBalance:   10_000_000,
			PlayerTokens:    100,
			PlayerScore:     42,
		},
	}
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
