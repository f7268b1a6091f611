package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/poapmint/internal/config"
	"github.com/Mohsinsiddi/poapmint/internal/rpc"
	"github.com/Mohsinsiddi/poapmint/internal/ui"
)

var rpcCmd = &cobra.Command{
	Use:   "rpc",
	Short: "Manage RPC endpoints for the active chain",
}

var rpcBenchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark the active chain's RPCs and show which one would be used",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := activeChain()
		if err != nil {
			return err
		}
		urls := rpcCandidates(c)
		if len(urls) == 0 {
			return fmt.Errorf("%s has no %s RPC endpoints", c.DisplayName, cfg.NetworkMode)
		}

		ctx, cancel := context.WithTimeout(commandContext(cmd), config.RPCSelectTimeout)
		defer cancel()

		sp := ui.NewSpinner(fmt.Sprintf("Benchmarking %d %s RPCs…", len(urls), c.Label(cfg.NetworkMode)))
		sp.Start()
		results := rpc.Benchmark(ctx, urls)
		sp.Stop()

		t := ui.NewTable([]ui.Column{
			{Title: "RPC URL", Width: 44},
			{Title: "Latency", Width: 10},
			{Title: "Block #", Width: 12},
			{Title: "Status", Width: 8},
		})
		for _, r := range results {
			latency, block, status := "—", "—", "down"
			if r.Healthy {
				latency = fmt.Sprintf("%dms", r.Latency.Milliseconds())
				block = fmt.Sprintf("%d", r.BlockNumber)
				status = "healthy"
			}
			t.AddRow(ui.Row{r.URL, latency, block, status})
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, t.Render())

		best, err := rpc.NewPicker(rpc.Algorithm(cfg.RPCAlgorithm)).Pick(results)
		if err != nil {
			fmt.Fprintln(out, ui.Err(err.Error()))
			return nil
		}
		fmt.Fprintln(out, ui.Success(fmt.Sprintf("%s picks %s", cfg.RPCAlgorithm, best.URL)))
		return nil
	},
}

var rpcAddCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Add a custom RPC for the active chain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := activeChain()
		if err != nil {
			return err
		}
		if err := cfg.AddRPC(c.Name, args[0]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Added %s for %s", args[0], c.DisplayName)))
		return nil
	},
}

var rpcRemoveCmd = &cobra.Command{
	Use:   "remove <url>",
	Short: "Remove a custom RPC from the active chain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := activeChain()
		if err != nil {
			return err
		}
		if err := cfg.RemoveRPC(c.Name, args[0]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Removed %s from %s", args[0], c.DisplayName)))
		return nil
	},
}

func init() {
	rpcCmd.AddCommand(rpcBenchCmd, rpcAddCmd, rpcRemoveCmd)
}
