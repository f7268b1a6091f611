package config

import "time"

// GasLimitMint is the EstimateGas fallback for mint() when the node cannot
// simulate the call.
const GasLimitMint = uint64(150_000)

// Timeouts.
const (
	RPCSelectTimeout = 10 * time.Second // endpoint benchmark before the view starts
	RequestTimeout   = 15 * time.Second // single contract read or write
)

// Polling and feedback intervals used by the mint view.
const (
	TxPollInterval      = 2 * time.Second
	AccountPollInterval = 10 * time.Second
	JustMintedDuration  = 5 * time.Second
)
