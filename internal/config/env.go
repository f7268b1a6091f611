package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/ethereum/go-ethereum/common"
)

// Startup validation errors.
var (
	ErrMissingContractAddress = errors.New("POAP_CONTRACT_ADDRESS is not defined")
	ErrInvalidContractAddress = errors.New("POAP_CONTRACT_ADDRESS is not a 0x-prefixed 20-byte address")
)

// Startup is the validated configuration needed before the mint view renders.
type Startup struct {
	Contract          common.Address
	RPCURL            string
	FrameNotifySocket string
}

// ParseEnv loads Env from the process environment.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// ParseEnvMap loads Env from an explicit variable map.
func ParseEnvMap(vars map[string]string) (Env, error) {
	var e Env
	if err := env.ParseWithOptions(&e, env.Options{Environment: vars}); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// NewStartup validates the environment. The contract address is required.
func NewStartup(e Env) (*Startup, error) {
	addr := strings.TrimSpace(e.ContractAddress)
	if addr == "" {
		return nil, ErrMissingContractAddress
	}
	if !strings.HasPrefix(addr, "0x") || !common.IsHexAddress(addr) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidContractAddress, addr)
	}
	return &Startup{
		Contract:          common.HexToAddress(addr),
		RPCURL:            strings.TrimSpace(e.RPCURL),
		FrameNotifySocket: e.FrameNotifySocket,
	}, nil
}
