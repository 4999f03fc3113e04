package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tempolabs/drover/logging"
)

// rootCmd is the root CLI command, under which all subcommands are registered.
var rootCmd = &cobra.Command{
	Use:   "drover",
	Short: "A multi-wallet activity driver for stablecoin testnets",
	Long:  "drover drives realistic multi-wallet activity against a stablecoin testnet: transfers, swaps, liquidity, token issuance, and deployments",
}

// cmdLogger is the logger used by CLI commands, associated with the CLI service.
var cmdLogger = logging.GlobalLogger.NewSubLogger("module", logging.CLI_SERVICE)

// Execute runs the root CLI command, which parses arguments and invokes the matching subcommand.
func Execute() error {
	return rootCmd.Execute()
}
