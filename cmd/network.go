package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/poapmint/internal/chain"
	"github.com/Mohsinsiddi/poapmint/internal/ui"
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Inspect supported networks",
}

var networkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List supported chains",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := chain.NewRegistry()
		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 10},
			{Title: "Display", Width: 14},
			{Title: "Chain ID", Width: 9},
			{Title: "Testnet", Width: 18},
			{Title: "Testnet ID", Width: 10},
			{Title: "Active", Width: 7},
		})
		for _, c := range reg.All() {
			active := ""
			if c.Name == cfg.Network {
				active = cfg.NetworkMode
			}
			t.AddRow(ui.Row{
				c.Name,
				c.DisplayName,
				fmt.Sprintf("%d", c.ChainID),
				c.TestnetName,
				fmt.Sprintf("%d", c.TestnetChainID),
				active,
			})
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, t.Render())
		fmt.Fprintln(out, ui.Meta(fmt.Sprintf("%d chains", len(reg.All()))))
		return nil
	},
}

func init() {
	networkCmd.AddCommand(networkListCmd)
}
