package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/poapmint/internal/contract"
	"github.com/Mohsinsiddi/poapmint/internal/ui"
)

var abiCmd = &cobra.Command{
	Use:   "abi",
	Short: "List the POAP contract functions and their selectors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := contract.POAPABI()
		if err != nil {
			return err
		}
		t := ui.NewTable([]ui.Column{
			{Title: "Function", Width: 24},
			{Title: "Selector", Width: 10},
			{Title: "Mutability", Width: 10},
			{Title: "Returns", Width: 48},
		})
		for _, f := range contract.Functions(a) {
			t.AddRow(ui.Row{f.Signature, f.Selector, f.StateMutability, f.Outputs})
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
		return nil
	},
}
