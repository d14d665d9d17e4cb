package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
)

// Config carries the auctiond runtime settings. Token entries describe the
// devnet ledgers the daemon instantiates at boot; in a production deployment
// they would be replaced by bindings to real custody contracts.
type Config struct {
	RPCAddress      string   `toml:"RPCAddress"`
	DataDir         string   `toml:"DataDir"`
	OperatorAddress string   `toml:"OperatorAddress"`
	NetworkName     string   `toml:"NetworkName"`
	LogEnvironment  string   `toml:"LogEnvironment"`
	LogFile         string   `toml:"LogFile"`
	RPCQuotaPerMin  uint32   `toml:"RPCQuotaPerMin"`
	PaymentTokens   []string `toml:"PaymentTokens"`
	UniqueTokens    []string `toml:"UniqueTokens"`
	MultiTokens     []string `toml:"MultiTokens"`
}

// Load loads the configuration from the given path, creating a default file
// when none exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.NetworkName) == "" {
		cfg.NetworkName = "auction-local"
	}
	if cfg.RPCQuotaPerMin == 0 {
		cfg.RPCQuotaPerMin = 120
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the address fields parse as 20-byte hex addresses.
func (cfg *Config) Validate() error {
	if !common.IsHexAddress(cfg.OperatorAddress) {
		return fmt.Errorf("config: OperatorAddress %q is not a valid address", cfg.OperatorAddress)
	}
	for _, group := range [][]string{cfg.PaymentTokens, cfg.UniqueTokens, cfg.MultiTokens} {
		for _, raw := range group {
			if !common.IsHexAddress(raw) {
				return fmt.Errorf("config: token address %q is not a valid address", raw)
			}
		}
	}
	return nil
}

// Operator returns the parsed operator address.
func (cfg *Config) Operator() [20]byte {
	return common.HexToAddress(cfg.OperatorAddress)
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	cfg := &Config{
		RPCAddress:      ":8545",
		DataDir:         "./auction-data",
		OperatorAddress: "0x00000000000000000000000000000000000a0c01",
		NetworkName:     "auction-local",
		LogEnvironment:  "dev",
		RPCQuotaPerMin:  120,
		PaymentTokens:   []string{"0x00000000000000000000000000000000000e2001"},
		UniqueTokens:    []string{"0x00000000000000000000000000000000000e7001"},
		MultiTokens:     []string{"0x0000000000000000000000000000000000115501"},
	}
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
