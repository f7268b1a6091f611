package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Mohsinsiddi/poapmint/internal/config"
	"github.com/Mohsinsiddi/poapmint/internal/logging"
	"github.com/spf13/cobra"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/poapmint/cmd.Version=1.2.3" .
var Version = "0.1.0"

var (
	cfgDir     string
	cfg        *config.Config
	envVars    config.Env
	verbose    bool
	testnet    bool
	mainnet    bool
	netFlag    string
	walletFlag string

	logger  *slog.Logger
	logSink io.Closer
)

// rootCmd is the top-level command. Without a subcommand it opens the mint
// page.
var rootCmd = &cobra.Command{
	Use:   "poapmint",
	Short: "Claim your workshop POAP from the terminal",
	Long: `poapmint shows a workshop's POAP contract and mints your attendance token.

The contract is read from POAP_CONTRACT_ADDRESS. The network comes from the
config file, POAP_NETWORK/POAP_NETWORK_MODE, or --network with --testnet or
--mainnet. Minting needs a signing wallet:

  poapmint wallet add me --key <private-key>
  poapmint`,
	Version:      Version,
	SilenceUsage: true,
	RunE:         runMint,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		envVars, err = config.ParseEnv()
		if err != nil {
			return err
		}
		dir := cfgDir
		if dir == "" {
			dir = envVars.ConfigDir
		}
		cfg, err = config.Load(dir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg.Apply(envVars)
		if netFlag != "" {
			cfg.Network = netFlag
		}
		if testnet {
			cfg.NetworkMode = "testnet"
		}
		if mainnet {
			cfg.NetworkMode = "mainnet"
		}
		return openLog()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logSink != nil {
			return logSink.Close()
		}
		return nil
	},
}

// openLog points slog at the log file in the config directory.
func openLog() error {
	level := logging.ParseLevel(cfg.LogLevel)
	if verbose {
		level = slog.LevelDebug
	}
	l, f, err := logging.OpenFile(cfg.LogPath(), level)
	if err != nil {
		return err
	}
	logger, logSink = l.With("version", Version), f
	slog.SetDefault(logger)
	return nil
}

// commandContext carries the logger into the internal packages.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.WithLogger(ctx, logger.With("command", cmd.Name()))
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", "", "config directory (default: $POAP_CONFIG_DIR or ~/.poapmint)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&testnet, "testnet", false, "use the chain's testnet")
	rootCmd.PersistentFlags().BoolVar(&mainnet, "mainnet", false, "use the chain's mainnet")
	rootCmd.PersistentFlags().StringVarP(&netFlag, "network", "n", "", "chain name (see: poapmint network list)")
	rootCmd.PersistentFlags().StringVarP(&walletFlag, "wallet", "w", "", "wallet to use instead of the default")
	rootCmd.MarkFlagsMutuallyExclusive("testnet", "mainnet")

	rootCmd.AddCommand(
		mintCmd,
		detailsCmd,
		statusCmd,
		walletCmd,
		abiCmd,
		networkCmd,
		rpcCmd,
		configCmd,
	)
}
