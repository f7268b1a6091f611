package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/poapmint/internal/frame"
	"github.com/Mohsinsiddi/poapmint/internal/logging"
	"github.com/Mohsinsiddi/poapmint/internal/ui"
)

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Open the mint page (default command)",
	Long: `Open the full-screen mint page for the configured POAP contract.

Keys:
  m, enter   mint
  r          refresh details and eligibility
  q          quit`,
	RunE: runMint,
}

func runMint(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()
	log := logging.From(ctx)

	s, err := openPOAP(ctx, true)
	if err != nil {
		return err
	}

	// The keyring may prompt for a passphrase; do it before the view owns
	// the terminal.
	if acct, err := s.connector.Account(ctx); err != nil {
		log.Warn("wallet not connected", "err", err)
	} else {
		log.Info("wallet resolved", "wallet", acct.Wallet, "address", acct.Address.Hex(), "connected", acct.Connected)
	}

	host := frame.NewSession(s.startup.FrameNotifySocket)
	mode := cfg.NetworkMode
	model := ui.NewMintModel(ctx, s.poap, s.connector, host, ui.MintOptions{
		Title:    cfg.EventTitle,
		Subtitle: cfg.EventSubtitle,
		Network:  s.chain.Label(mode),
		TxURL:    func(hash string) string { return s.chain.TxURL(mode, hash) },
		Logger:   log,
	})

	prog := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
		tea.WithAltScreen(),
	)
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("mint page: %w", err)
	}
	return nil
}
