package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auctiond.toml")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "auction-local", cfg.NetworkName)
	require.NotZero(t, cfg.RPCQuotaPerMin)
	_, statErr := os.Stat(path)
	require.NoError(t, statErr, "default config must be persisted")

	reloaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.OperatorAddress, reloaded.OperatorAddress)
}

func TestLoadRejectsBadOperator(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auctiond.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
RPCAddress = ":8545"
DataDir = "./data"
OperatorAddress = "not-an-address"
`), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestOperatorParses(t *testing.T) {
	cfg := &Config{OperatorAddress: "0x00000000000000000000000000000000000a0c01"}
	op := cfg.Operator()
	require.Equal(t, byte(0x01), op[19])
}
