package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/poapmint/internal/chain"
	"github.com/Mohsinsiddi/poapmint/internal/config"
	"github.com/Mohsinsiddi/poapmint/internal/ens"
	"github.com/Mohsinsiddi/poapmint/internal/logging"
	"github.com/Mohsinsiddi/poapmint/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status [address | name.eth]",
	Short: "Check whether an address has minted",
	Long: `Check whether an address has already minted the POAP.

ENS names are resolved on Ethereum (mainnet, or Sepolia with --testnet).
Without an address the chosen wallet (--wallet, the configured default, or the
wallet store's default) is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		s, err := openPOAP(ctx, false)
		if err != nil {
			return err
		}

		var addr common.Address
		switch {
		case len(args) == 1 && ens.IsName(args[0]):
			a, err := resolveENS(ctx, args[0])
			if err != nil {
				return err
			}
			addr = a
		case len(args) == 1:
			a, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			addr = a
		default:
			mgr := newWalletManager()
			name := chosenWallet()
			if name == "" {
				w, err := mgr.Default()
				if err != nil {
					return err
				}
				if w == nil {
					return fmt.Errorf("no address given and no default wallet; run `poapmint wallet add`")
				}
				name = w.Name
			}
			w, err := mgr.Get(name)
			if err != nil {
				return fmt.Errorf("wallet %q: %w", name, err)
			}
			addr = w.Addr()
		}

		ctx, cancel := context.WithTimeout(ctx, config.RequestTimeout)
		defer cancel()
		minted, err := s.poap.HasMinted(ctx, addr)
		if err != nil {
			return fmt.Errorf("reading eligibility: %w", err)
		}

		out := cmd.OutOrStdout()
		if minted {
			fmt.Fprintln(out, ui.Success(fmt.Sprintf("%s has already minted this POAP", addr.Hex())))
		} else {
			fmt.Fprintln(out, ui.Info(fmt.Sprintf("%s has not minted yet", addr.Hex())))
		}
		return nil
	},
}

// resolveENS looks name up on the Ethereum chain in the active mode.
func resolveENS(ctx context.Context, name string) (common.Address, error) {
	eth, err := chain.NewRegistry().GetByName("ethereum")
	if err != nil {
		return common.Address{}, err
	}
	url, err := pickRPC(ctx, eth, "")
	if err != nil {
		return common.Address{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, config.RequestTimeout)
	defer cancel()
	addr, err := ens.Resolve(ctx, chain.NewEVMClient(url), name)
	if err != nil {
		return common.Address{}, fmt.Errorf("resolving %s: %w", name, err)
	}
	logging.From(ctx).Info("ens resolved", "name", name, "address", addr.Hex())
	return addr, nil
}

// parseAddress accepts only 0x-prefixed 20-byte hex addresses.
func parseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") || !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}
