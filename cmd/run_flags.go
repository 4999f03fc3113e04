package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tempolabs/drover/config"
)

// addRunFlags adds the various flags for the run command.
func addRunFlags() {
	defaultConfig := config.GetDefaultProjectConfig()

	// Prevent alphabetical sorting of usage message
	runCmd.Flags().SortFlags = false

	// Config file
	runCmd.Flags().String("config", "", "path to config file")

	// RPC endpoint
	runCmd.Flags().String("rpc-url", "", "JSON-RPC endpoint to submit transactions through")

	// Key file
	runCmd.Flags().String("keys", "",
		fmt.Sprintf("path to the private key file (unless a config file is provided, default is %q)", defaultConfig.Wallets.KeyFile))

	// Wallet selection
	runCmd.Flags().String("wallets", "",
		fmt.Sprintf("wallets to run, e.g. \"all\", \"3\", or \"1-10,15\" (unless a config file is provided, default is %q)", defaultConfig.Wallets.Selection))

	// Scheduling mode
	runCmd.Flags().String("mode", "",
		fmt.Sprintf("scheduling mode, either %q or %q (unless a config file is provided, default is %q)", config.ModeSweep, config.ModeAdaptive, defaultConfig.Agent.Mode))

	// Cycle count
	runCmd.Flags().Int("cycles", 0,
		fmt.Sprintf("number of decision cycles per agent in adaptive mode, 0 runs until interrupted (unless a config file is provided, default is %d)", defaultConfig.Agent.Cycles))

	// Number of workers
	runCmd.Flags().Int("workers", 0,
		fmt.Sprintf("number of agents running concurrently (unless a config file is provided, default is %d)", defaultConfig.Agent.Workers))

	// Random seed
	runCmd.Flags().Int64("seed", 0, "random seed for reproducible runs, 0 derives one from the clock")

	// Color output
	runCmd.Flags().Bool("no-color", false, "disable colored terminal output")
}

// updateProjectConfigWithRunFlags will update the given projectConfig with any CLI arguments that were provided to
// the run command.
func updateProjectConfigWithRunFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	var err error

	// Update the RPC endpoint if --rpc-url was used
	if cmd.Flags().Changed("rpc-url") {
		if projectConfig.Network.RPCURL, err = cmd.Flags().GetString("rpc-url"); err != nil {
			return err
		}
	}

	// Update the key file if --keys was used
	if cmd.Flags().Changed("keys") {
		if projectConfig.Wallets.KeyFile, err = cmd.Flags().GetString("keys"); err != nil {
			return err
		}
	}

	// Update the wallet selection if --wallets was used
	if cmd.Flags().Changed("wallets") {
		if projectConfig.Wallets.Selection, err = cmd.Flags().GetString("wallets"); err != nil {
			return err
		}
	}

	// Update the scheduling mode if --mode was used
	if cmd.Flags().Changed("mode") {
		if projectConfig.Agent.Mode, err = cmd.Flags().GetString("mode"); err != nil {
			return err
		}
	}

	// Update the cycle count if --cycles was used
	if cmd.Flags().Changed("cycles") {
		if projectConfig.Agent.Cycles, err = cmd.Flags().GetInt("cycles"); err != nil {
			return err
		}
	}

	// Update the worker count if --workers was used
	if cmd.Flags().Changed("workers") {
		if projectConfig.Agent.Workers, err = cmd.Flags().GetInt("workers"); err != nil {
			return err
		}
	}

	// Update the seed if --seed was used
	if cmd.Flags().Changed("seed") {
		if projectConfig.Agent.Seed, err = cmd.Flags().GetInt64("seed"); err != nil {
			return err
		}
	}

	// Update color output if --no-color was used
	if cmd.Flags().Changed("no-color") {
		if projectConfig.Logging.NoColor, err = cmd.Flags().GetBool("no-color"); err != nil {
			return err
		}
	}
	return nil
}
