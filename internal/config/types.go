package config

// Config holds all poapmint configuration persisted in config.json.
type Config struct {
	Network       string              `json:"network"`
	NetworkMode   string              `json:"network_mode"`  // "mainnet" | "testnet"
	RPCAlgorithm  string              `json:"rpc_algorithm"` // "fastest" | "round-robin" | "failover"
	DefaultWallet string              `json:"default_wallet"`
	CustomRPCs    map[string][]string `json:"custom_rpcs"`
	EventTitle    string              `json:"event_title"`
	EventSubtitle string              `json:"event_subtitle"`
	LogLevel      string              `json:"log_level"` // "debug" | "info" | "warn" | "error"

	// internal: config dir path used for Save()
	configDir string
}

// Env is the process environment recognised by poapmint.
type Env struct {
	ContractAddress   string `env:"POAP_CONTRACT_ADDRESS"`
	RPCURL            string `env:"POAP_RPC_URL"`
	Network           string `env:"POAP_NETWORK"`
	NetworkMode       string `env:"POAP_NETWORK_MODE"`
	ConfigDir         string `env:"POAP_CONFIG_DIR"`
	FrameNotifySocket string `env:"POAP_FRAME_NOTIFY_SOCKET"`
	LogLevel          string `env:"POAP_LOG_LEVEL"`
}
