package cmd

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/poapmint/internal/chain"
	"github.com/Mohsinsiddi/poapmint/internal/config"
	"github.com/Mohsinsiddi/poapmint/internal/contract"
	"github.com/Mohsinsiddi/poapmint/internal/logging"
	"github.com/Mohsinsiddi/poapmint/internal/rpc"
	"github.com/Mohsinsiddi/poapmint/internal/wallet"
)

// poapSession bundles what the contract commands share.
type poapSession struct {
	startup   *config.Startup
	chain     *chain.Chain
	rpcURL    string
	poap      *contract.POAP
	connector *wallet.Connector
}

// openPOAP validates the environment, picks an RPC and builds the gateway.
// With signing set the gateway signs through the chosen wallet.
func openPOAP(ctx context.Context, signing bool) (*poapSession, error) {
	st, err := config.NewStartup(envVars)
	if err != nil {
		return nil, err
	}
	c, err := activeChain()
	if err != nil {
		return nil, err
	}
	url, err := pickRPC(ctx, c, st.RPCURL)
	if err != nil {
		return nil, err
	}

	s := &poapSession{startup: st, chain: c, rpcURL: url}
	var opts []contract.Option
	if signing {
		s.connector = wallet.NewConnector(newWalletManager(), chosenWallet())
		opts = append(opts, contract.WithSigner(s.connector, big.NewInt(c.ID(cfg.NetworkMode))))
	}
	s.poap, err = contract.NewPOAP(chain.NewEVMClient(url), st.Contract, opts...)
	if err != nil {
		return nil, err
	}

	logging.From(ctx).Info("contract gateway ready",
		"chain", c.Name,
		"mode", cfg.NetworkMode,
		"rpc", url,
		"contract", st.Contract.Hex())
	return s, nil
}

func activeChain() (*chain.Chain, error) {
	c, err := chain.NewRegistry().GetByName(cfg.Network)
	if err != nil {
		return nil, fmt.Errorf("unknown chain %q (run `poapmint network list`): %w", cfg.Network, err)
	}
	return c, nil
}

// rpcCandidates lists custom RPCs first, then the registry's.
func rpcCandidates(c *chain.Chain) []string {
	urls := append([]string(nil), cfg.GetRPCs(c.Name)...)
	return append(urls, c.RPCs(cfg.NetworkMode)...)
}

// pickRPC returns override when set, otherwise benchmarks the candidates.
func pickRPC(ctx context.Context, c *chain.Chain, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	urls := rpcCandidates(c)
	if len(urls) == 0 {
		return "", fmt.Errorf("%s has no %s RPC endpoints; set POAP_RPC_URL", c.DisplayName, cfg.NetworkMode)
	}
	ctx, cancel := context.WithTimeout(ctx, config.RPCSelectTimeout)
	defer cancel()
	url, err := rpc.Select(ctx, urls, rpc.Algorithm(cfg.RPCAlgorithm))
	if err != nil {
		return "", fmt.Errorf("selecting %s RPC: %w", c.Label(cfg.NetworkMode), err)
	}
	logging.From(ctx).Debug("rpc selected", "url", url, "algorithm", cfg.RPCAlgorithm)
	return url, nil
}

// newKeyStore opens the key store for the config directory.
var newKeyStore = func(dir string) wallet.KeyStore { return wallet.DefaultKeystore(dir) }

func newWalletManager() *wallet.Manager {
	return wallet.NewManager(
		wallet.WithStore(wallet.NewJSONStore(cfg.WalletsPath())),
		wallet.WithKeyStore(newKeyStore(cfg.Dir())),
	)
}

// chosenWallet is --wallet, then the configured default. Empty means the
// wallet store's own default.
func chosenWallet() string {
	if walletFlag != "" {
		return walletFlag
	}
	return cfg.DefaultWallet
}
