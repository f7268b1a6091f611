package config_test

import (
	"testing"

	"github.com/Mohsinsiddi/poapmint/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultConfig(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "base", cfg.Network)
	assert.Equal(t, "mainnet", cfg.NetworkMode)
	assert.Equal(t, "fastest", cfg.RPCAlgorithm)
	assert.Equal(t, "BASEBALL BATCHES 001", cfg.EventTitle)
	assert.Equal(t, "HOMEBATCH WORKSHOPS", cfg.EventSubtitle)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestSaveAndReloadConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	cfg.Network = "optimism"
	cfg.DefaultWallet = "alice"
	cfg.EventTitle = "DEMO DAY"
	require.NoError(t, cfg.Save())

	reloaded, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "optimism", reloaded.Network)
	assert.Equal(t, "alice", reloaded.DefaultWallet)
	assert.Equal(t, "DEMO DAY", reloaded.EventTitle)
	assert.Equal(t, dir, reloaded.Dir())
}

func TestSetValidatesKeys(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, cfg.Set("network_mode", "testnet"))
	assert.Equal(t, "testnet", cfg.NetworkMode)

	assert.Error(t, cfg.Set("network_mode", "devnet"))
	assert.Error(t, cfg.Set("rpc_algorithm", "random"))
	assert.Error(t, cfg.Set("nope", "x"))
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	cfg.Apply(config.Env{NetworkMode: "testnet", LogLevel: "debug"})
	assert.Equal(t, "base", cfg.Network, "empty env values leave the file config alone")
	assert.Equal(t, "testnet", cfg.NetworkMode)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestCustomRPCs(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, cfg.AddRPC("base", "https://rpc1.base"))
	require.NoError(t, cfg.AddRPC("base", "https://rpc2.base"))
	assert.Error(t, cfg.AddRPC("base", "https://rpc1.base"))

	require.NoError(t, cfg.RemoveRPC("base", "https://rpc1.base"))
	assert.Equal(t, []string{"https://rpc2.base"}, cfg.GetRPCs("base"))
	assert.Error(t, cfg.RemoveRPC("base", "https://missing"))
}
