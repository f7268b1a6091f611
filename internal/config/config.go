package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

const (
	defaultNetwork   = "base"
	defaultMode      = "mainnet"
	defaultAlgorithm = "fastest"
	defaultTitle     = "BASEBALL BATCHES 001"
	defaultSubtitle  = "HOMEBATCH WORKSHOPS"
	defaultLogLevel  = "info"

	configFile  = "config.json"
	walletsFile = "wallets.json"
	logFile     = "poapmint.log"
)

// Load reads config from dir (or creates defaults). dir defaults to ~/.poapmint.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".poapmint")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	data, err := os.ReadFile(filepath.Join(dir, configFile))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.configDir = dir
	if cfg.CustomRPCs == nil {
		cfg.CustomRPCs = make(map[string][]string)
	}
	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// Apply overlays non-empty environment values onto the file config.
func (c *Config) Apply(env Env) {
	if env.Network != "" {
		c.Network = env.Network
	}
	if env.NetworkMode != "" {
		c.NetworkMode = env.NetworkMode
	}
	if env.LogLevel != "" {
		c.LogLevel = env.LogLevel
	}
}

// Set updates a single config key by its JSON name.
func (c *Config) Set(key, value string) error {
	switch key {
	case "network":
		c.Network = value
	case "network_mode":
		if value != "mainnet" && value != "testnet" {
			return fmt.Errorf("network_mode must be mainnet or testnet, got %q", value)
		}
		c.NetworkMode = value
	case "rpc_algorithm":
		if !slices.Contains([]string{"fastest", "round-robin", "failover"}, value) {
			return fmt.Errorf("unknown rpc_algorithm %q", value)
		}
		c.RPCAlgorithm = value
	case "default_wallet":
		c.DefaultWallet = value
	case "event_title":
		c.EventTitle = value
	case "event_subtitle":
		c.EventSubtitle = value
	case "log_level":
		c.LogLevel = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// AddRPC adds a custom RPC URL for a chain.
func (c *Config) AddRPC(chain, url string) error {
	if c.CustomRPCs == nil {
		c.CustomRPCs = make(map[string][]string)
	}
	if slices.Contains(c.CustomRPCs[chain], url) {
		return fmt.Errorf("RPC %s already exists for chain %s", url, chain)
	}
	c.CustomRPCs[chain] = append(c.CustomRPCs[chain], url)
	return nil
}

// RemoveRPC removes a custom RPC URL for a chain.
func (c *Config) RemoveRPC(chain, url string) error {
	rpcs := c.CustomRPCs[chain]
	idx := slices.Index(rpcs, url)
	if idx == -1 {
		return fmt.Errorf("RPC %s not found for chain %s", url, chain)
	}
	c.CustomRPCs[chain] = slices.Delete(rpcs, idx, idx+1)
	return nil
}

// GetRPCs returns custom RPCs for a chain.
func (c *Config) GetRPCs(chain string) []string {
	return c.CustomRPCs[chain]
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// WalletsPath is the wallet store file.
func (c *Config) WalletsPath() string {
	return filepath.Join(c.configDir, walletsFile)
}

// LogPath is the log file the mint view writes to.
func (c *Config) LogPath() string {
	return filepath.Join(c.configDir, logFile)
}

func defaults(dir string) *Config {
	return &Config{
		Network:       defaultNetwork,
		NetworkMode:   defaultMode,
		RPCAlgorithm:  defaultAlgorithm,
		EventTitle:    defaultTitle,
		EventSubtitle: defaultSubtitle,
		LogLevel:      defaultLogLevel,
		CustomRPCs:    make(map[string][]string),
		configDir:     dir,
	}
}
