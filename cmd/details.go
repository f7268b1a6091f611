package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/poapmint/internal/config"
	"github.com/Mohsinsiddi/poapmint/internal/ui"
)

var detailsCmd = &cobra.Command{
	Use:   "details",
	Short: "Print the workshop details stored in the contract",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		s, err := openPOAP(ctx, false)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, config.RequestTimeout)
		defer cancel()
		d, err := s.poap.WorkshopDetails(ctx)
		if err != nil {
			return fmt.Errorf("reading workshop details: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprint(out, ui.Banner(cfg.EventTitle, cfg.EventSubtitle)+"\n")
		fmt.Fprintln(out, ui.KeyValueBlock("Workshop Details", [][2]string{
			{"Name", d.Name},
			{"Start Date", ui.FormatEventDate(d.Start())},
			{"End Date", ui.FormatEventDate(d.End())},
			{"Contract", s.startup.Contract.Hex()},
			{"Network", s.chain.Label(cfg.NetworkMode)},
		}))
		return nil
	},
}
